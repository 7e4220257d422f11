package notebook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Parse decodes an nbformat v4 notebook, keeping key order throughout.
// List-form sources are joined into strings. Cells stored under
// metadata.nested are decoded as cells.
func Parse(data []byte) (*Notebook, error) {
	if err := validateStructure(data); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	root, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNotebook, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after notebook object", ErrInvalidNotebook)
	}

	top, ok := root.(*Map)
	if !ok {
		return nil, fmt.Errorf("%w: top level is not an object", ErrInvalidNotebook)
	}
	return fromMap(top)
}

func fromMap(top *Map) (*Notebook, error) {
	nb := &Notebook{
		Metadata: NewMap(),
		fields:   top,
		arena:    make(map[string]*Cell),
	}
	nb.Format, _ = intValue(top, fieldNBFormat)
	nb.FormatMinor, _ = intValue(top, fieldNBFormatMinor)
	if meta, ok := top.Value(fieldMetadata).(*Map); ok {
		nb.Metadata = meta
	}

	rawCells, _ := top.Value(fieldCells).([]any)
	for i, raw := range rawCells {
		obj, ok := raw.(*Map)
		if !ok {
			return nil, fmt.Errorf("%w: cell %d is not an object", ErrInvalidNotebook, i)
		}
		cell, err := cellFromMap(obj)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		if _, dup := nb.arena[cell.ID]; dup {
			cell.ID = NewCellID()
		}
		if err := nb.Append(cell); err != nil {
			return nil, err
		}
	}

	for _, key := range []string{fieldCells, fieldMetadata, fieldNBFormat, fieldNBFormatMinor} {
		top.Set(key, nil)
	}
	return nb, nil
}

// cellFromMap builds a Cell from a decoded cell object.
func cellFromMap(obj *Map) (*Cell, error) {
	cellType, _ := StringValue(obj, fieldCellType)
	if !CellType(cellType).Valid() {
		return nil, fmt.Errorf("%w: unknown cell_type %q", ErrInvalidNotebook, cellType)
	}

	source, err := joinSource(obj.Value(fieldSource))
	if err != nil {
		return nil, err
	}

	cell := &Cell{
		Type:   CellType(cellType),
		Source: source,
		fields: obj,
	}

	if id, ok := StringValue(obj, fieldID); ok && id != "" {
		cell.ID = id
		cell.persistID = true
	} else {
		cell.ID = NewCellID()
	}

	cell.Metadata, _ = obj.Value(fieldMetadata).(*Map)
	if cell.Metadata == nil {
		cell.Metadata = NewMap()
	}
	if nestedObj, ok := cell.Metadata.Value(KeyNested).(*Map); ok {
		nested, err := cellFromMap(nestedObj)
		if err != nil {
			return nil, fmt.Errorf("nested: %w", err)
		}
		cell.Metadata.Set(KeyNested, nested)
	}

	for _, key := range []string{fieldCellType, fieldID, fieldMetadata, fieldSource} {
		if _, ok := obj.Get(key); ok {
			obj.Set(key, nil)
		}
	}
	if _, ok := obj.Get(fieldSource); !ok {
		obj.Set(fieldSource, nil)
	}
	if _, ok := obj.Get(fieldMetadata); !ok {
		obj.Set(fieldMetadata, nil)
	}
	return cell, nil
}

// joinSource accepts the string or list-of-lines form of a source field.
func joinSource(raw any) (string, error) {
	switch src := raw.(type) {
	case nil:
		return "", nil
	case string:
		return src, nil
	case []any:
		var builder strings.Builder
		for _, line := range src {
			s, ok := line.(string)
			if !ok {
				return "", fmt.Errorf("%w: source line is not a string", ErrInvalidNotebook)
			}
			builder.WriteString(s)
		}
		return builder.String(), nil
	default:
		return "", fmt.Errorf("%w: source has type %T", ErrInvalidNotebook, raw)
	}
}

// decodeValue reads one JSON value from dec into ordered form.
func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := NewMap()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key has type %T", keyTok)
			}
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		items := []any{}
		for dec.More() {
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			items = append(items, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return items, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}
