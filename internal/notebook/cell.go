package notebook

import (
	"encoding/hex"
	"slices"

	"github.com/google/uuid"
)

// CellType is the nbformat cell_type.
type CellType string

// Cell types defined by nbformat v4.
const (
	Code     CellType = "code"
	Markdown CellType = "markdown"
	Raw      CellType = "raw"
)

// Valid reports whether t is one of the nbformat cell types.
func (t CellType) Valid() bool {
	return t == Code || t == Markdown || t == Raw
}

// Metadata keys managed by the export pipeline.
const (
	KeyTags        = "tags"
	KeyFrontMatter = "front_matter"
	KeyImgCredit   = "img_credit"
	KeyNested      = "nested"
	KeySignature   = "signature"
	KeyTrusted     = "trusted"
)

// Default tags assigned to raw cells.
const (
	// TagFrontMatter marks the cell holding the YAML front matter.
	TagFrontMatter = "jekyll_front_matter"
	// TagRaw marks any other raw cell; these are hidden for publication.
	TagRaw = "jekyll_raw_tag"
)

// Field names of a cell object that Cell manages directly.
const (
	fieldCellType = "cell_type"
	fieldID       = "id"
	fieldMetadata = "metadata"
	fieldSource   = "source"
)

// Cell is one notebook cell.
//
// ID is stable for the lifetime of the cell. When the notebook format
// carries cell ids (nbformat 4.5+) it is the persisted id; otherwise it is
// generated and only used in memory.
type Cell struct {
	ID       string
	Type     CellType
	Source   string
	Metadata *Map

	// fields holds every key of the cell object in its original order.
	// Values for managed keys are ignored in favor of the struct fields.
	fields    *Map
	persistID bool
}

// NewCell creates a cell of the given type with empty metadata.
// The ID is generated and not persisted.
func NewCell(cellType CellType, source string) *Cell {
	fields := NewMap()
	fields.Set(fieldCellType, nil)
	fields.Set(fieldMetadata, nil)
	fields.Set(fieldSource, nil)
	return &Cell{
		ID:       NewCellID(),
		Type:     cellType,
		Source:   source,
		Metadata: NewMap(),
		fields:   fields,
	}
}

// NewCellID returns a random cell id in the nbformat style (8 hex chars).
func NewCellID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:4])
}

// Field returns an unmanaged field of the cell object, such as outputs or
// execution_count.
func (c *Cell) Field(key string) (any, bool) {
	if c.fields == nil || isManagedField(key) {
		return nil, false
	}
	return c.fields.Get(key)
}

// Tags returns the cell's metadata.tags as strings.
func (c *Cell) Tags() []string {
	if c.Metadata == nil {
		return nil
	}
	raw, ok := c.Metadata.Get(KeyTags)
	if !ok {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	tags := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			tags = append(tags, s)
		}
	}
	return tags
}

// HasTag reports whether metadata.tags contains tag.
func (c *Cell) HasTag(tag string) bool {
	return slices.Contains(c.Tags(), tag)
}

// AddTag appends tag to metadata.tags unless already present.
// Returns true if the tag was added.
func (c *Cell) AddTag(tag string) bool {
	if c.HasTag(tag) {
		return false
	}
	c.ensureMetadata()
	var items []any
	if raw, ok := c.Metadata.Get(KeyTags); ok {
		items, _ = raw.([]any)
	}
	c.Metadata.Set(KeyTags, append(items, tag))
	return true
}

// Nested returns the cell stored under metadata.nested, if any.
func (c *Cell) Nested() *Cell {
	if c.Metadata == nil {
		return nil
	}
	raw, ok := c.Metadata.Get(KeyNested)
	if !ok {
		return nil
	}
	nested, _ := raw.(*Cell)
	return nested
}

// SetNested stores nested under metadata.nested.
func (c *Cell) SetNested(nested *Cell) {
	c.ensureMetadata()
	c.Metadata.Set(KeyNested, nested)
}

// TakeNested removes and returns the cell under metadata.nested.
func (c *Cell) TakeNested() *Cell {
	nested := c.Nested()
	if nested != nil {
		c.Metadata.Delete(KeyNested)
	}
	return nested
}

// Clone deep-copies the cell, keeping its ID.
func (c *Cell) Clone() *Cell {
	if c == nil {
		return nil
	}
	out := *c
	out.Metadata = CloneMap(c.Metadata)
	out.fields = CloneMap(c.fields)
	return &out
}

func (c *Cell) ensureMetadata() {
	if c.Metadata == nil {
		c.Metadata = NewMap()
	}
}

func isManagedField(key string) bool {
	switch key {
	case fieldCellType, fieldID, fieldMetadata, fieldSource:
		return true
	}
	return false
}
