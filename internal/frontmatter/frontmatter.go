package frontmatter

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gorewood/nbjekyll/internal/notebook"
)

// Delimiter opens and closes the YAML block.
const Delimiter = "---"

// ErrMalformed is returned when front matter cannot be split or parsed, or
// lacks a required field.
var ErrMalformed = errors.New("malformed front matter")

// Required lists the fields every post must define.
var Required = []string{"title", "author", "date", "last_modified_at"}

// Document is parsed front matter.
type Document struct {
	// Fields holds the YAML mapping in source order.
	Fields *notebook.Map
	// Credit is the text after the closing delimiter.
	Credit string
}

// Split separates source into the YAML text between the delimiters and the
// remainder after the closing delimiter. The closing delimiter is the first
// line after the opening one that begins with "---".
func Split(source string) (yamlText, remainder string, err error) {
	if !strings.HasPrefix(source, Delimiter) {
		return "", "", fmt.Errorf("%w: source does not start with %s", ErrMalformed, Delimiter)
	}
	rest := source[len(Delimiter):]

	offset := 0
	for {
		nl := strings.IndexByte(rest[offset:], '\n')
		if nl < 0 {
			return "", "", fmt.Errorf("%w: missing closing %s", ErrMalformed, Delimiter)
		}
		lineStart := offset + nl + 1
		if strings.HasPrefix(rest[lineStart:], Delimiter) {
			return rest[:lineStart], rest[lineStart+len(Delimiter):], nil
		}
		offset = lineStart
	}
}

// Parse splits and decodes a front-matter cell source.
func Parse(source string) (*Document, error) {
	yamlText, credit, err := Split(source)
	if err != nil {
		return nil, err
	}

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(yamlText), &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: front matter is not a mapping", ErrMalformed)
	}

	value, err := fromNode(root.Content[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	doc := &Document{Fields: value.(*notebook.Map), Credit: credit}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Validate checks that every required field is present.
func (d *Document) Validate() error {
	if d == nil || d.Fields == nil {
		return fmt.Errorf("%w: no fields", ErrMalformed)
	}
	var missing []string
	for _, key := range Required {
		if _, ok := d.Fields.Get(key); !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrMalformed, strings.Join(missing, ", "))
	}
	return nil
}

// String returns the scalar field key as text, or "" when absent or not a
// scalar.
func (d *Document) String(key string) string {
	if d == nil || d.Fields == nil {
		return ""
	}
	v, ok := d.Fields.Get(key)
	if !ok {
		return ""
	}
	s, _ := scalarText(v)
	return s
}

// FromMetadata reads the Document stored on cell by ToMetadata.
func FromMetadata(cell *notebook.Cell) (*Document, error) {
	if cell.Metadata == nil {
		return nil, fmt.Errorf("%w: cell has no stored front matter", ErrMalformed)
	}
	fields, ok := cell.Metadata.Value(notebook.KeyFrontMatter).(*notebook.Map)
	if !ok {
		return nil, fmt.Errorf("%w: cell has no stored front matter", ErrMalformed)
	}
	credit, _ := notebook.StringValue(cell.Metadata, notebook.KeyImgCredit)
	return &Document{Fields: notebook.CloneMap(fields), Credit: credit}, nil
}

// ToMetadata stores doc under the cell's front_matter and img_credit keys.
func ToMetadata(cell *notebook.Cell, doc *Document) {
	if cell.Metadata == nil {
		cell.Metadata = notebook.NewMap()
	}
	cell.Metadata.Set(notebook.KeyFrontMatter, notebook.CloneMap(doc.Fields))
	cell.Metadata.Set(notebook.KeyImgCredit, doc.Credit)
}
