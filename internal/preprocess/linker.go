package preprocess

import (
	"context"
	"errors"
	"fmt"

	"github.com/gorewood/nbjekyll/internal/notebook"
)

// placeholderSource is the source of the host appended when an auxiliary
// cell is the last visible cell.
const placeholderSource = " "

// Linker hides auxiliary cells inside the metadata of the cell that follows
// them, or puts them back.
type Linker struct {
	opts Options
}

// NewLinker creates a Linker.
func NewLinker(opts Options) *Linker {
	return &Linker{opts: opts.WithDefaults()}
}

// Preprocess embeds for StyleMarkdown and restores for StyleRaw.
func (l *Linker) Preprocess(_ context.Context, nb *notebook.Notebook) error {
	switch l.opts.Style {
	case StyleMarkdown:
		return l.Embed(nb)
	case StyleRaw:
		_, err := l.Restore(nb)
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedStyle, l.opts.Style)
	}
}

// Embed links every auxiliary cell to the next visible cell, its host, and
// then removes all auxiliary cells from the visible sequence. A host keeps
// the first cell linked to it; later ones are dropped with a warning.
func (l *Linker) Embed(nb *notebook.Notebook) error {
	aux := nb.TaggedCells(l.opts.RawTag)
	if len(aux) == 0 {
		return nil
	}

	cells := nb.Cells()
	if last := cells[len(cells)-1]; last.HasTag(l.opts.RawTag) {
		placeholder := notebook.NewCell(notebook.Markdown, placeholderSource)
		if err := nb.Append(placeholder); err != nil {
			return fmt.Errorf("appending placeholder host: %w", err)
		}
		l.opts.Logger.Debug("appended placeholder host", "cell", placeholder.ID)
	}

	for _, cell := range aux {
		host, ok := nb.Next(cell.ID)
		if !ok {
			return fmt.Errorf("%w: no host after %s", notebook.ErrCellNotFound, cell.ID)
		}
		if host.Nested() != nil {
			l.opts.warn(fmt.Sprintf("host %s already holds a nested cell, dropping %s", host.ID, cell.ID))
			continue
		}
		host.SetNested(cell)
	}

	removed := nb.Filter(func(c *notebook.Cell) bool { return !c.HasTag(l.opts.RawTag) })
	l.opts.Logger.Debug("embedded auxiliary cells", "count", len(removed))
	return nil
}

// Restore reinserts every nested cell immediately before its host and
// clears the link, repeating until no visible cell holds one. It returns
// the number of passes made.
func (l *Linker) Restore(nb *notebook.Notebook) (int, error) {
	limit := countNested(nb) + 1
	visited := make(map[*notebook.Cell]bool)

	passes := 0
	for hasNested(nb) {
		if passes >= limit {
			return passes, fmt.Errorf("%w: still nested after %d passes", ErrNestingCycle, passes)
		}
		passes++

		for _, host := range nb.Cells() {
			nested := host.TakeNested()
			if nested == nil {
				continue
			}
			if visited[nested] || isVisible(nb, nested) {
				return passes, fmt.Errorf("%w: cell %s restored twice", ErrNestingCycle, nested.ID)
			}
			visited[nested] = true
			if err := insertBefore(nb, host.ID, nested); err != nil {
				return passes, err
			}
		}
	}
	l.opts.Logger.Debug("restored nested cells", "count", len(visited), "passes", passes)
	return passes, nil
}

// insertBefore inserts cell before anchorID, giving it a fresh ID when its
// own collides with a visible cell.
func insertBefore(nb *notebook.Notebook, anchorID string, cell *notebook.Cell) error {
	err := nb.InsertBefore(anchorID, cell)
	if errors.Is(err, notebook.ErrDuplicateCell) {
		cell.ID = notebook.NewCellID()
		err = nb.InsertBefore(anchorID, cell)
	}
	if err != nil {
		return fmt.Errorf("restoring cell %s: %w", cell.ID, err)
	}
	return nil
}

func isVisible(nb *notebook.Notebook, cell *notebook.Cell) bool {
	visible, ok := nb.Cell(cell.ID)
	return ok && visible == cell
}

func hasNested(nb *notebook.Notebook) bool {
	for _, cell := range nb.Cells() {
		if cell.Nested() != nil {
			return true
		}
	}
	return false
}

// countNested counts the cells reachable through nested links, stopping at
// a repeated cell.
func countNested(nb *notebook.Notebook) int {
	seen := make(map[*notebook.Cell]bool)
	for _, cell := range nb.Cells() {
		for nested := cell.Nested(); nested != nil && !seen[nested]; nested = nested.Nested() {
			seen[nested] = true
		}
	}
	return len(seen)
}
