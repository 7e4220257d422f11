package preprocess

import (
	"context"
	"fmt"

	"github.com/gorewood/nbjekyll/internal/frontmatter"
	"github.com/gorewood/nbjekyll/internal/notebook"
)

// Header rewrites the front-matter cell from its stored metadata.
type Header struct {
	opts Options
}

// NewHeader creates a Header stage.
func NewHeader(opts Options) *Header {
	return &Header{opts: opts.WithDefaults()}
}

// Preprocess renders the header in the configured style. Markdown turns
// the cell into a markdown presentation header; raw turns it back into the
// YAML block followed by the stored credit.
func (h *Header) Preprocess(_ context.Context, nb *notebook.Notebook) error {
	cell, err := frontMatterCell(nb, h.opts)
	if err != nil {
		return err
	}
	doc, err := frontmatter.FromMetadata(cell)
	if err != nil {
		return fmt.Errorf("cell %s: %w", cell.ID, err)
	}

	var (
		source   string
		cellType notebook.CellType
	)
	switch h.opts.Style {
	case StyleMarkdown:
		tmpl, err := h.template()
		if err != nil {
			return err
		}
		source, err = frontmatter.RenderPresentation(doc, tmpl)
		if err != nil {
			return fmt.Errorf("cell %s: %w", cell.ID, err)
		}
		cellType = notebook.Markdown
	case StyleRaw:
		source, err = frontmatter.RenderRaw(doc)
		if err != nil {
			return fmt.Errorf("cell %s: %w", cell.ID, err)
		}
		cellType = notebook.Raw
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedStyle, h.opts.Style)
	}

	cell.Type = cellType
	cell.Source = source
	h.opts.Logger.Debug("header rendered", "cell", cell.ID, "style", h.opts.Style)
	return nil
}

func (h *Header) template() (*frontmatter.Template, error) {
	if h.opts.Template != nil {
		return h.opts.Template, nil
	}
	return frontmatter.Builtin(frontmatter.DefaultTemplate)
}
