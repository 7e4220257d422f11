package notebook

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func visibleIDs(nb *Notebook) []string {
	ids := make([]string, 0, nb.Len())
	for _, cell := range nb.Cells() {
		ids = append(ids, cell.ID)
	}
	return ids
}

func newTestNotebook(t *testing.T, ids ...string) *Notebook {
	t.Helper()
	nb := New()
	for _, id := range ids {
		cell := NewCell(Markdown, id)
		cell.ID = id
		if err := nb.Append(cell); err != nil {
			t.Fatalf("Append(%s) error = %v", id, err)
		}
	}
	return nb
}

func TestNotebook_InsertBefore(t *testing.T) {
	nb := newTestNotebook(t, "a", "c")

	cell := NewCell(Raw, "b")
	cell.ID = "b"
	if err := nb.InsertBefore("c", cell); err != nil {
		t.Fatalf("InsertBefore() error = %v", err)
	}

	if diff := cmp.Diff([]string{"a", "b", "c"}, visibleIDs(nb)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if got := nb.Index("b"); got != 1 {
		t.Errorf("Index(b) = %d, want 1", got)
	}
}

func TestNotebook_InsertBefore_Errors(t *testing.T) {
	nb := newTestNotebook(t, "a")

	orphan := NewCell(Raw, "x")
	if err := nb.InsertBefore("missing", orphan); !errors.Is(err, ErrCellNotFound) {
		t.Errorf("InsertBefore(missing) error = %v, want ErrCellNotFound", err)
	}

	dup := NewCell(Raw, "dup")
	dup.ID = "a"
	if err := nb.InsertBefore("a", dup); !errors.Is(err, ErrDuplicateCell) {
		t.Errorf("InsertBefore(dup) error = %v, want ErrDuplicateCell", err)
	}
}

func TestNotebook_RemoveAndFilter(t *testing.T) {
	nb := newTestNotebook(t, "a", "b", "c", "d")

	if !nb.Remove("b") {
		t.Fatal("Remove(b) = false, want true")
	}
	if nb.Remove("b") {
		t.Error("second Remove(b) = true, want false")
	}
	if _, ok := nb.Cell("b"); ok {
		t.Error("removed cell still in arena")
	}

	removed := nb.Filter(func(c *Cell) bool { return c.ID != "c" })
	if len(removed) != 1 || removed[0].ID != "c" {
		t.Errorf("Filter removed %v, want [c]", removed)
	}
	if diff := cmp.Diff([]string{"a", "d"}, visibleIDs(nb)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestNotebook_Next(t *testing.T) {
	nb := newTestNotebook(t, "a", "b")

	next, ok := nb.Next("a")
	if !ok || next.ID != "b" {
		t.Errorf("Next(a) = %v, %v; want b", next, ok)
	}
	if _, ok := nb.Next("b"); ok {
		t.Error("Next(last) should report no successor")
	}
}

func TestNotebook_Clone(t *testing.T) {
	nb := newTestNotebook(t, "a")
	nb.Metadata.Set("k", "v")

	clone := nb.Clone()
	cell, _ := clone.Cell("a")
	cell.Source = "changed"
	clone.Metadata.Set("k", "other")

	orig, _ := nb.Cell("a")
	if orig.Source != "a" {
		t.Errorf("original source = %q, clone leaked", orig.Source)
	}
	if v, _ := StringValue(nb.Metadata, "k"); v != "v" {
		t.Errorf("original metadata = %q, clone leaked", v)
	}
}

func TestCell_Tags(t *testing.T) {
	cell := NewCell(Raw, "")

	if cell.HasTag(TagRaw) {
		t.Fatal("new cell should have no tags")
	}
	if !cell.AddTag(TagRaw) {
		t.Error("AddTag() = false on first add")
	}
	if cell.AddTag(TagRaw) {
		t.Error("AddTag() = true on second add")
	}
	if diff := cmp.Diff([]string{TagRaw}, cell.Tags()); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestCell_Nested(t *testing.T) {
	host := NewCell(Markdown, "host")
	aux := NewCell(Raw, "aux")

	if host.Nested() != nil {
		t.Fatal("new cell should hold no nested cell")
	}
	host.SetNested(aux)
	if host.Nested() != aux {
		t.Error("Nested() did not return the stored cell")
	}
	if got := host.TakeNested(); got != aux {
		t.Error("TakeNested() did not return the stored cell")
	}
	if _, ok := host.Metadata.Get(KeyNested); ok {
		t.Error("TakeNested() left the metadata key behind")
	}
}
