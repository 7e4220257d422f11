package frontmatter

import (
	"strings"
)

// RenderRaw returns the YAML header for doc: the fields between delimiters
// followed by the credit text.
func RenderRaw(doc *Document) (string, error) {
	if err := doc.Validate(); err != nil {
		return "", err
	}
	body, err := encodeYAML(doc.Fields)
	if err != nil {
		return "", err
	}
	return Delimiter + "\n" + body + Delimiter + doc.Credit, nil
}

// RenderPresentation fills tmpl with the top-level scalar fields of doc.
// Placeholders are written {{field}}; unknown placeholders are left as is.
func RenderPresentation(doc *Document, tmpl *Template) (string, error) {
	if err := doc.Validate(); err != nil {
		return "", err
	}

	result := tmpl.Content
	for pair := doc.Fields.Oldest(); pair != nil; pair = pair.Next() {
		text, ok := scalarText(pair.Value)
		if !ok {
			continue
		}
		result = strings.ReplaceAll(result, "{{"+pair.Key+"}}", text)
	}
	return result, nil
}
