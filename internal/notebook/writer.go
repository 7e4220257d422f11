package notebook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// indentUnit is the per-level indentation of the on-disk format.
const indentUnit = " "

// splitMimes are non-text/* bundle entries that are still written as lines.
var splitMimes = map[string]bool{
	"application/javascript": true,
	"image/svg+xml":          true,
}

// Marshal serializes nb in the deterministic on-disk format.
// nb is not modified.
//
// Multi-line strings are written as line lists split after "\n" only. A
// lone "\r", "\v", "\f", "\x1c" to "\x1e", U+0085, U+2028 or U+2029 stays
// inside its line, where nbformat would start a new one; the joined text is
// the same either way.
func Marshal(nb *Notebook) ([]byte, error) {
	w := &writer{}
	if err := w.notebook(nb); err != nil {
		return nil, err
	}
	w.buf.WriteByte('\n')
	return w.buf.Bytes(), nil
}

type writer struct {
	buf bytes.Buffer
}

// member is one key of an object being written.
type member struct {
	key   string
	write func(level int) error
}

// object writes members in order using the on-disk layout.
func (w *writer) object(members []member, level int) error {
	if len(members) == 0 {
		w.buf.WriteString("{}")
		return nil
	}
	w.buf.WriteString("{\n")
	for i, m := range members {
		if i > 0 {
			w.buf.WriteString(",\n")
		}
		w.indent(level + 1)
		writeString(&w.buf, m.key)
		w.buf.WriteString(": ")
		if err := m.write(level + 1); err != nil {
			return fmt.Errorf("%s: %w", m.key, err)
		}
	}
	w.buf.WriteByte('\n')
	w.indent(level)
	w.buf.WriteByte('}')
	return nil
}

func (w *writer) indent(level int) {
	w.buf.WriteString(strings.Repeat(indentUnit, level))
}

func (w *writer) value(v any) func(level int) error {
	return func(level int) error { return w.writeValue(v, level) }
}

func (w *writer) notebook(nb *Notebook) error {
	var members []member
	for _, key := range Keys(nb.fields) {
		switch key {
		case fieldCells:
			members = append(members, member{key, w.cells(nb.Cells())})
		case fieldMetadata:
			members = append(members, member{key, w.value(withoutKeys(nb.Metadata, transientNotebookKeys))})
		case fieldNBFormat:
			members = append(members, member{key, w.value(json.Number(fmt.Sprint(nb.Format)))})
		case fieldNBFormatMinor:
			members = append(members, member{key, w.value(json.Number(fmt.Sprint(nb.FormatMinor)))})
		default:
			members = append(members, member{key, w.value(nb.fields.Value(key))})
		}
	}
	return w.object(members, 0)
}

func (w *writer) cells(cells []*Cell) func(level int) error {
	return func(level int) error {
		if len(cells) == 0 {
			w.buf.WriteString("[]")
			return nil
		}
		w.buf.WriteString("[\n")
		for i, cell := range cells {
			if i > 0 {
				w.buf.WriteString(",\n")
			}
			w.indent(level + 1)
			if err := w.cell(cell, level+1, true); err != nil {
				return fmt.Errorf("cell %d: %w", i, err)
			}
		}
		w.buf.WriteByte('\n')
		w.indent(level)
		w.buf.WriteByte(']')
		return nil
	}
}

// cell writes a cell object. Top-level cells get their multi-line fields
// split into line arrays; nested cells keep string sources.
func (w *writer) cell(cell *Cell, level int, split bool) error {
	keys := Keys(cell.fields)
	if len(keys) == 0 {
		keys = []string{fieldCellType, fieldMetadata, fieldSource}
	}
	if cell.persistID && !containsKey(keys, fieldID) {
		keys = insertAfter(keys, fieldCellType, fieldID)
	}

	var members []member
	for _, key := range keys {
		switch key {
		case fieldCellType:
			members = append(members, member{key, w.value(string(cell.Type))})
		case fieldID:
			if cell.persistID {
				members = append(members, member{key, w.value(cell.ID)})
			}
		case fieldMetadata:
			members = append(members, member{key, w.value(withoutKeys(cell.Metadata, transientCellKeys))})
		case fieldSource:
			var source any = cell.Source
			if split {
				source = splitLines(cell.Source)
			}
			members = append(members, member{key, w.value(source)})
		case "outputs":
			val := cell.fields.Value(key)
			if split && cell.Type == Code {
				val = splitOutputs(val)
			}
			members = append(members, member{key, w.value(val)})
		default:
			members = append(members, member{key, w.value(cell.fields.Value(key))})
		}
	}
	return w.object(members, level)
}

func (w *writer) writeValue(v any, level int) error {
	switch val := v.(type) {
	case nil:
		w.buf.WriteString("null")
	case bool:
		if val {
			w.buf.WriteString("true")
		} else {
			w.buf.WriteString("false")
		}
	case string:
		writeString(&w.buf, val)
	case json.Number:
		w.buf.WriteString(val.String())
	case int:
		fmt.Fprintf(&w.buf, "%d", val)
	case *Cell:
		return w.cell(val, level, false)
	case *Map:
		var members []member
		for pair := val.Oldest(); pair != nil; pair = pair.Next() {
			members = append(members, member{pair.Key, w.value(pair.Value)})
		}
		return w.object(members, level)
	case []any:
		return w.array(val, level)
	case []string:
		items := make([]any, len(val))
		for i, s := range val {
			items[i] = s
		}
		return w.array(items, level)
	default:
		return fmt.Errorf("unsupported value type %T", v)
	}
	return nil
}

func (w *writer) array(items []any, level int) error {
	if len(items) == 0 {
		w.buf.WriteString("[]")
		return nil
	}
	w.buf.WriteString("[\n")
	for i, item := range items {
		if i > 0 {
			w.buf.WriteString(",\n")
		}
		w.indent(level + 1)
		if err := w.writeValue(item, level+1); err != nil {
			return err
		}
	}
	w.buf.WriteByte('\n')
	w.indent(level)
	w.buf.WriteByte(']')
	return nil
}

var (
	transientNotebookKeys = []string{"orig_nbformat", "orig_nbformat_minor"}
	transientCellKeys     = []string{KeyTrusted}
)

// withoutKeys returns m, or a shallow copy of m without keys when any of
// them is present.
func withoutKeys(m *Map, keys []string) *Map {
	if m == nil {
		return NewMap()
	}
	found := false
	for _, key := range keys {
		if _, ok := m.Get(key); ok {
			found = true
			break
		}
	}
	if !found {
		return m
	}
	out := NewMap()
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		if !containsKey(keys, pair.Key) {
			out.Set(pair.Key, pair.Value)
		}
	}
	return out
}

// splitLines splits s after each newline; the empty string yields no lines.
func splitLines(s string) []any {
	lines := []any{}
	for s != "" {
		idx := strings.IndexByte(s, '\n')
		if idx < 0 {
			lines = append(lines, s)
			break
		}
		lines = append(lines, s[:idx+1])
		s = s[idx+1:]
	}
	return lines
}

// splitOutputs returns a copy of a code cell's outputs with stream text and
// text-like mime bundle entries split into lines.
func splitOutputs(raw any) any {
	outputs, ok := raw.([]any)
	if !ok {
		return raw
	}
	result := make([]any, len(outputs))
	for i, item := range outputs {
		out, ok := item.(*Map)
		if !ok {
			result[i] = item
			continue
		}
		outputType, _ := StringValue(out, "output_type")
		switch outputType {
		case "stream":
			if text, ok := StringValue(out, "text"); ok {
				out = CloneMap(out)
				out.Set("text", splitLines(text))
			}
		case "execute_result", "display_data":
			if data, ok := out.Value("data").(*Map); ok {
				out = CloneMap(out)
				out.Set("data", splitBundle(data))
			}
		}
		result[i] = out
	}
	return result
}

func splitBundle(data *Map) *Map {
	out := NewMap()
	for pair := data.Oldest(); pair != nil; pair = pair.Next() {
		text, isString := pair.Value.(string)
		if isString && (strings.HasPrefix(pair.Key, "text/") || splitMimes[pair.Key]) {
			out.Set(pair.Key, splitLines(text))
			continue
		}
		out.Set(pair.Key, pair.Value)
	}
	return out
}

// writeString writes s as a JSON string literal. Non-ASCII text is kept as
// is; only quotes, backslashes and control characters are escaped.
func writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == '"':
			buf.WriteString(`\"`)
		case r == '\\':
			buf.WriteString(`\\`)
		case r == '\n':
			buf.WriteString(`\n`)
		case r == '\r':
			buf.WriteString(`\r`)
		case r == '\t':
			buf.WriteString(`\t`)
		case r == '\b':
			buf.WriteString(`\b`)
		case r == '\f':
			buf.WriteString(`\f`)
		case r < 0x20:
			fmt.Fprintf(buf, `\u%04x`, r)
		case r == utf8.RuneError && size == 1:
			buf.WriteString("\ufffd")
		default:
			buf.WriteString(s[i : i+size])
		}
		i += size
	}
	buf.WriteByte('"')
}

func containsKey(keys []string, key string) bool {
	return slices.Contains(keys, key)
}

func insertAfter(keys []string, after, key string) []string {
	out := make([]string, 0, len(keys)+1)
	inserted := false
	for _, k := range keys {
		out = append(out, k)
		if k == after {
			out = append(out, key)
			inserted = true
		}
	}
	if !inserted {
		out = append([]string{key}, out...)
	}
	return out
}
