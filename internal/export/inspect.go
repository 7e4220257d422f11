package export

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gorewood/nbjekyll/internal/frontmatter"
	"github.com/gorewood/nbjekyll/internal/notebook"
)

const previewLen = 60

// CellSummary describes one visible cell.
type CellSummary struct {
	Index   int      `json:"index"`
	ID      string   `json:"id"`
	Type    string   `json:"type"`
	Tags    []string `json:"tags,omitempty"`
	Preview string   `json:"preview"`
	// Nested lists the hidden cells held by this one, outermost first.
	Nested []NestedCell `json:"nested,omitempty"`
}

// NestedCell describes a hidden cell.
type NestedCell struct {
	ID      string   `json:"id"`
	Type    string   `json:"type"`
	Tags    []string `json:"tags,omitempty"`
	Preview string   `json:"preview"`
}

// Field is one front matter entry rendered as text.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Summary describes a notebook's export state.
type Summary struct {
	Notebook string        `json:"notebook"`
	Format   string        `json:"nbformat"`
	Cells    []CellSummary `json:"cells"`

	// FrontMatterCell is the index of the marker cell, or -1.
	FrontMatterCell int `json:"front_matter_cell"`
	// HeaderStyle is "raw" before preparation and "markdown" after, empty
	// without a marker cell.
	HeaderStyle string  `json:"header_style,omitempty"`
	FrontMatter []Field `json:"front_matter,omitempty"`
	Problem     string  `json:"problem,omitempty"`

	Hidden    int    `json:"hidden"`
	Signature string `json:"signature,omitempty"`
}

// Inspect loads the notebook at path and summarizes it.
func (e *Exporter) Inspect(path, frontMatterTag string) (*Summary, error) {
	nb, err := e.store.Load(path)
	if err != nil {
		return nil, err
	}
	return Summarize(path, nb, frontMatterTag), nil
}

// Summarize describes nb. An empty frontMatterTag uses the default tag.
func Summarize(path string, nb *notebook.Notebook, frontMatterTag string) *Summary {
	if frontMatterTag == "" {
		frontMatterTag = notebook.TagFrontMatter
	}
	s := &Summary{
		Notebook:        path,
		Format:          fmt.Sprintf("%d.%d", nb.Format, nb.FormatMinor),
		FrontMatterCell: -1,
	}
	s.Signature, _ = notebook.StringValue(nb.Metadata, notebook.KeySignature)

	var marker *notebook.Cell
	for i, cell := range nb.Cells() {
		summary := summarizeCell(i, cell)
		s.Hidden += len(summary.Nested)
		s.Cells = append(s.Cells, summary)
		if marker == nil && cell.HasTag(frontMatterTag) {
			marker = cell
			s.FrontMatterCell = i
		}
	}
	if marker != nil {
		s.describeFrontMatter(marker)
	}
	return s
}

func (s *Summary) describeFrontMatter(cell *notebook.Cell) {
	var (
		doc *frontmatter.Document
		err error
	)
	if cell.Type == notebook.Raw {
		s.HeaderStyle = "raw"
		doc, err = frontmatter.Parse(cell.Source)
	} else {
		s.HeaderStyle = "markdown"
		doc, err = frontmatter.FromMetadata(cell)
	}
	if err != nil {
		s.Problem = err.Error()
		return
	}
	if err := doc.Validate(); err != nil {
		s.Problem = err.Error()
	}
	for pair := doc.Fields.Oldest(); pair != nil; pair = pair.Next() {
		value := doc.String(pair.Key)
		if value == "" && pair.Value != nil {
			value = fmt.Sprint(pair.Value)
		}
		s.FrontMatter = append(s.FrontMatter, Field{Key: pair.Key, Value: value})
	}
}

func summarizeCell(index int, cell *notebook.Cell) CellSummary {
	summary := CellSummary{
		Index:   index,
		ID:      cell.ID,
		Type:    string(cell.Type),
		Tags:    cell.Tags(),
		Preview: preview(cell.Source),
	}
	// Bounded so a corrupt self-referencing chain cannot loop.
	seen := map[*notebook.Cell]bool{cell: true}
	for nested := cell.Nested(); nested != nil && !seen[nested]; nested = nested.Nested() {
		seen[nested] = true
		summary.Nested = append(summary.Nested, NestedCell{
			ID:      nested.ID,
			Type:    string(nested.Type),
			Tags:    nested.Tags(),
			Preview: preview(nested.Source),
		})
	}
	return summary
}

// preview returns the first non-empty line of source, shortened.
func preview(source string) string {
	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) > previewLen {
			runes := []rune(line)
			return string(runes[:previewLen-1]) + "…"
		}
		return line
	}
	return ""
}
