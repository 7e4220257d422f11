package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/nbjekyll/internal/export"
	"github.com/gorewood/nbjekyll/internal/preprocess"
)

// --- Prepare tool ---

// PrepareInput is the input for the prepare_notebook tool.
type PrepareInput struct {
	Path       string `json:"path"                  jsonschema:"notebook to prepare (required)"`
	Outfile    string `json:"outfile,omitempty"     jsonschema:"destination path; derived from the name when empty"`
	InPlace    bool   `json:"in_place,omitempty"    jsonschema:"overwrite the source notebook"`
	HeaderType string `json:"header_type,omitempty" jsonschema:"markdown (publish) or raw (edit); default markdown"`
}

// PrepareOutput is the output for the prepare_notebook tool.
type PrepareOutput struct {
	Outfile   string   `json:"outfile"             jsonschema:"path the notebook was written to"`
	Style     string   `json:"style"               jsonschema:"header style applied"`
	Signature string   `json:"signature,omitempty" jsonschema:"trust signature of the written notebook"`
	Warnings  []string `json:"warnings,omitempty"  jsonschema:"tolerated problems, such as an already converted header"`
}

func handlePrepare(deps Deps) mcp.ToolHandlerFor[PrepareInput, PrepareOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PrepareInput) (*mcp.CallToolResult, PrepareOutput, error) {
		if input.Path == "" {
			return nil, PrepareOutput{}, errors.New("path is required")
		}
		opts := deps.Options
		if input.HeaderType != "" {
			style, err := preprocess.ParseStyle(input.HeaderType)
			if err != nil {
				return nil, PrepareOutput{}, err
			}
			opts.Style = style
		}

		result, err := deps.Exporter.Export(ctx, export.Request{
			Notebook: input.Path,
			Outfile:  input.Outfile,
			InPlace:  input.InPlace,
			Options:  opts,
		})
		if err != nil {
			return nil, PrepareOutput{}, fmt.Errorf("preparing %s: %w", input.Path, err)
		}

		return nil, PrepareOutput{
			Outfile:   result.Outfile,
			Style:     string(result.Style),
			Signature: result.Signature,
			Warnings:  result.Warnings,
		}, nil
	}
}

// --- Inspect tool ---

// InspectInput is the input for the inspect_notebook tool.
type InspectInput struct {
	Path string `json:"path" jsonschema:"notebook to inspect (required)"`
}

// InspectOutput is the output for the inspect_notebook tool.
type InspectOutput struct {
	Summary *export.Summary `json:"summary"            jsonschema:"cells, front matter and signature of the notebook"`
	Trusted *bool           `json:"trusted,omitempty"  jsonschema:"whether the signature matches; absent when signing is disabled"`
}

func handleInspect(deps Deps) mcp.ToolHandlerFor[InspectInput, InspectOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input InspectInput) (*mcp.CallToolResult, InspectOutput, error) {
		if input.Path == "" {
			return nil, InspectOutput{}, errors.New("path is required")
		}
		summary, err := deps.Exporter.Inspect(input.Path, deps.Options.FrontMatterTag)
		if err != nil {
			return nil, InspectOutput{}, fmt.Errorf("inspecting %s: %w", input.Path, err)
		}

		out := InspectOutput{Summary: summary}
		if deps.Exporter.Signs() {
			trusted, err := deps.Exporter.Verify(ctx, input.Path)
			if err != nil {
				return nil, InspectOutput{}, fmt.Errorf("verifying %s: %w", input.Path, err)
			}
			out.Trusted = &trusted
		}
		return nil, out, nil
	}
}
