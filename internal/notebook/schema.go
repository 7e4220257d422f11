package notebook

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// structureSchema covers the parts of nbformat v4 the pipeline relies on.
// It is not the full nbformat schema.
const structureSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["cells", "metadata", "nbformat", "nbformat_minor"],
  "properties": {
    "nbformat": {"const": 4},
    "nbformat_minor": {"type": "integer", "minimum": 0},
    "metadata": {"type": "object"},
    "cells": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["cell_type", "source"],
        "properties": {
          "cell_type": {"enum": ["code", "markdown", "raw"]},
          "id": {"type": "string", "pattern": "^[a-zA-Z0-9_-]+$", "minLength": 1, "maxLength": 64},
          "metadata": {"type": "object"},
          "source": {
            "anyOf": [
              {"type": "string"},
              {"type": "array", "items": {"type": "string"}}
            ]
          }
        }
      }
    }
  }
}`

var compileStructureSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("nbformat-v4-structure.json", structureSchema)
})

// validateStructure checks data against the nbformat v4 structure schema.
func validateStructure(data []byte) error {
	schema, err := compileStructureSchema()
	if err != nil {
		return fmt.Errorf("compiling notebook schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidNotebook, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidNotebook, err)
	}
	return nil
}
