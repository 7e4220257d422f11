package notebook

import (
	"errors"
	"fmt"
	"slices"
)

// Errors returned by Notebook operations.
var (
	ErrInvalidNotebook = errors.New("invalid notebook")
	ErrDuplicateCell   = errors.New("cell already in notebook")
	ErrCellNotFound    = errors.New("cell not found")
)

// Top-level field names of the notebook object.
const (
	fieldCells         = "cells"
	fieldNBFormat      = "nbformat"
	fieldNBFormatMinor = "nbformat_minor"
)

// Notebook is an nbformat v4 document.
type Notebook struct {
	Metadata    *Map
	Format      int
	FormatMinor int

	// fields holds every top-level key in its original order.
	fields *Map
	arena  map[string]*Cell
	order  []string
}

// New returns an empty nbformat 4.5 notebook.
func New() *Notebook {
	fields := NewMap()
	fields.Set(fieldCells, nil)
	fields.Set(fieldMetadata, nil)
	fields.Set(fieldNBFormat, nil)
	fields.Set(fieldNBFormatMinor, nil)
	return &Notebook{
		Metadata:    NewMap(),
		Format:      4,
		FormatMinor: 5,
		fields:      fields,
		arena:       make(map[string]*Cell),
	}
}

// PersistsCellIDs reports whether the format version stores cell ids.
func (nb *Notebook) PersistsCellIDs() bool {
	return nb.Format > 4 || (nb.Format == 4 && nb.FormatMinor >= 5)
}

// Cells returns the visible cells in order. The slice is a copy; the cells
// are shared.
func (nb *Notebook) Cells() []*Cell {
	cells := make([]*Cell, 0, len(nb.order))
	for _, id := range nb.order {
		cells = append(cells, nb.arena[id])
	}
	return cells
}

// Len returns the number of visible cells.
func (nb *Notebook) Len() int {
	return len(nb.order)
}

// Cell returns the visible cell with the given ID.
func (nb *Notebook) Cell(id string) (*Cell, bool) {
	cell, ok := nb.arena[id]
	return cell, ok
}

// Index returns the position of id in the visible sequence, or -1.
func (nb *Notebook) Index(id string) int {
	return slices.Index(nb.order, id)
}

// Next returns the cell following id in the visible sequence.
func (nb *Notebook) Next(id string) (*Cell, bool) {
	idx := nb.Index(id)
	if idx < 0 || idx+1 >= len(nb.order) {
		return nil, false
	}
	return nb.arena[nb.order[idx+1]], true
}

// Append adds cell at the end of the visible sequence.
func (nb *Notebook) Append(cell *Cell) error {
	if err := nb.admit(cell); err != nil {
		return err
	}
	nb.order = append(nb.order, cell.ID)
	return nil
}

// InsertBefore places cell immediately before the visible cell anchorID.
func (nb *Notebook) InsertBefore(anchorID string, cell *Cell) error {
	idx := nb.Index(anchorID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrCellNotFound, anchorID)
	}
	if err := nb.admit(cell); err != nil {
		return err
	}
	nb.order = slices.Insert(nb.order, idx, cell.ID)
	return nil
}

// Remove drops the cell with the given ID from the notebook.
// Returns false if it was not visible.
func (nb *Notebook) Remove(id string) bool {
	idx := nb.Index(id)
	if idx < 0 {
		return false
	}
	nb.order = slices.Delete(nb.order, idx, idx+1)
	delete(nb.arena, id)
	return true
}

// Filter keeps only the cells for which keep returns true.
// Returns the removed cells in their former order.
func (nb *Notebook) Filter(keep func(*Cell) bool) []*Cell {
	var removed []*Cell
	kept := nb.order[:0]
	for _, id := range nb.order {
		cell := nb.arena[id]
		if keep(cell) {
			kept = append(kept, id)
			continue
		}
		removed = append(removed, cell)
		delete(nb.arena, id)
	}
	nb.order = kept
	return removed
}

// TaggedCells returns the visible cells carrying tag, in order.
func (nb *Notebook) TaggedCells(tag string) []*Cell {
	var cells []*Cell
	for _, id := range nb.order {
		if cell := nb.arena[id]; cell.HasTag(tag) {
			cells = append(cells, cell)
		}
	}
	return cells
}

// Clone deep-copies the notebook.
func (nb *Notebook) Clone() *Notebook {
	out := &Notebook{
		Metadata:    CloneMap(nb.Metadata),
		Format:      nb.Format,
		FormatMinor: nb.FormatMinor,
		fields:      CloneMap(nb.fields),
		arena:       make(map[string]*Cell, len(nb.arena)),
		order:       slices.Clone(nb.order),
	}
	for id, cell := range nb.arena {
		out.arena[id] = cell.Clone()
	}
	return out
}

// admit registers cell in the arena, assigning an ID when missing.
func (nb *Notebook) admit(cell *Cell) error {
	if cell == nil {
		return fmt.Errorf("%w: nil cell", ErrInvalidNotebook)
	}
	if cell.ID == "" {
		cell.ID = NewCellID()
	}
	if _, exists := nb.arena[cell.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateCell, cell.ID)
	}
	if nb.arena == nil {
		nb.arena = make(map[string]*Cell)
	}
	if nb.PersistsCellIDs() {
		cell.persistID = true
	}
	nb.arena[cell.ID] = cell
	return nil
}
