package preprocess

import (
	"context"
	"errors"
	"fmt"

	"github.com/gorewood/nbjekyll/internal/frontmatter"
	"github.com/gorewood/nbjekyll/internal/notebook"
)

// FrontMatter parses the front-matter cell and stores the result in its
// metadata. The cell itself is not changed.
type FrontMatter struct {
	opts Options
}

// NewFrontMatter creates a FrontMatter stage.
func NewFrontMatter(opts Options) *FrontMatter {
	return &FrontMatter{opts: opts.WithDefaults()}
}

// Preprocess extracts the front matter. A front-matter cell that is no
// longer raw was converted by an earlier run; that is reported as a warning
// and the stored metadata is kept.
func (f *FrontMatter) Preprocess(_ context.Context, nb *notebook.Notebook) error {
	err := f.extract(nb)
	if errors.Is(err, ErrAlreadyConverted) {
		f.opts.warn("front matter cell already converted, metadata not updated")
		return nil
	}
	return err
}

func (f *FrontMatter) extract(nb *notebook.Notebook) error {
	cell, err := frontMatterCell(nb, f.opts)
	if err != nil {
		return err
	}
	if cell.Type != notebook.Raw {
		return fmt.Errorf("%w: cell %s is %s", ErrAlreadyConverted, cell.ID, cell.Type)
	}

	doc, err := frontmatter.Parse(cell.Source)
	if err != nil {
		return fmt.Errorf("cell %s: %w", cell.ID, err)
	}
	frontmatter.ToMetadata(cell, doc)
	f.opts.Logger.Debug("front matter extracted", "cell", cell.ID, "title", doc.String("title"))
	return nil
}

// frontMatterCell returns the first cell carrying the front-matter tag.
func frontMatterCell(nb *notebook.Notebook, opts Options) (*notebook.Cell, error) {
	cells := nb.TaggedCells(opts.FrontMatterTag)
	if len(cells) == 0 {
		return nil, fmt.Errorf("%w: no cell tagged %q", ErrMissingFrontMatterCell, opts.FrontMatterTag)
	}
	if len(cells) > 1 {
		opts.Logger.Debug("several front matter cells, using the first", "count", len(cells))
	}
	return cells[0], nil
}
