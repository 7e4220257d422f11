package preprocess

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gorewood/nbjekyll/internal/notebook"
)

func tagAll(t *testing.T, nb *notebook.Notebook) {
	t.Helper()
	if err := NewTagger(DefaultOptions()).Preprocess(context.Background(), nb); err != nil {
		t.Fatal(err)
	}
}

// Scenario: an auxiliary cell followed by its host.
func TestEmbed_RemovesAuxiliaryCell(t *testing.T) {
	nb := buildNotebook(t,
		testCell{notebook.Raw, "<!-- aux -->"},
		testCell{notebook.Markdown, "host"},
	)
	tagAll(t, nb)

	if err := NewLinker(DefaultOptions()).Embed(nb); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}

	if nb.Len() != 1 {
		t.Fatalf("len = %d, want 1", nb.Len())
	}
	host := nb.Cells()[0]
	nested := host.Nested()
	if nested == nil || nested.Source != "<!-- aux -->" {
		t.Errorf("host nested = %v, want the auxiliary cell", nested)
	}
}

// Scenario: the auxiliary cell is last, so a placeholder host is appended.
func TestEmbed_PlaceholderHost(t *testing.T) {
	nb := buildNotebook(t,
		testCell{notebook.Markdown, "text"},
		testCell{notebook.Raw, "<!-- trailing -->"},
	)
	tagAll(t, nb)

	if err := NewLinker(DefaultOptions()).Embed(nb); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}

	if nb.Len() != 2 {
		t.Fatalf("len = %d, want 2", nb.Len())
	}
	placeholder := nb.Cells()[1]
	if placeholder.Type != notebook.Markdown || placeholder.Source != placeholderSource {
		t.Errorf("placeholder = %q %q", placeholder.Type, placeholder.Source)
	}
	if nested := placeholder.Nested(); nested == nil || nested.Source != "<!-- trailing -->" {
		t.Errorf("placeholder nested = %v", nested)
	}
}

func TestEmbed_FirstLinkWins(t *testing.T) {
	nb := buildNotebook(t,
		testCell{notebook.Raw, "<!-- new -->"},
		testCell{notebook.Markdown, "host"},
	)
	tagAll(t, nb)
	host := nb.Cells()[1]
	earlier := notebook.NewCell(notebook.Raw, "<!-- earlier -->")
	host.SetNested(earlier)
	opts := DefaultOptions()
	opts.Warnings = &Warnings{}

	if err := NewLinker(opts).Embed(nb); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}

	if host.Nested() != earlier {
		t.Error("existing nested cell was replaced")
	}
	if nb.Len() != 1 {
		t.Errorf("len = %d, want 1", nb.Len())
	}
	if len(opts.Warnings.List()) != 1 {
		t.Errorf("warnings = %v, want one drop warning", opts.Warnings.List())
	}
}

// Scenario: two adjacent auxiliary cells nest two levels deep and need two
// restore passes.
func TestRestore_TwoLevels(t *testing.T) {
	nb := buildNotebook(t,
		testCell{notebook.Raw, "<!-- one -->"},
		testCell{notebook.Raw, "<!-- two -->"},
		testCell{notebook.Markdown, "host"},
	)
	tagAll(t, nb)
	before := cellIDs(nb)
	linker := NewLinker(DefaultOptions())

	if err := linker.Embed(nb); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	host := nb.Cells()[0]
	if host.Nested() == nil || host.Nested().Nested() == nil {
		t.Fatal("expected a two-level nesting chain")
	}

	passes, err := linker.Restore(nb)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if passes != 2 {
		t.Errorf("passes = %d, want 2", passes)
	}
	if hasNested(nb) {
		t.Error("back-references remain after restore")
	}
	if diff := cmp.Diff(before, cellIDs(nb)); diff != "" {
		t.Errorf("sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestEmbedRestore_RoundTrip(t *testing.T) {
	nb := buildNotebook(t,
		testCell{notebook.Raw, scenarioFrontMatter},
		testCell{notebook.Markdown, "intro"},
		testCell{notebook.Raw, "<!-- a -->"},
		testCell{notebook.Code, "x = 1"},
		testCell{notebook.Raw, "<!-- b -->"},
		testCell{notebook.Raw, "<!-- c -->"},
		testCell{notebook.Markdown, "outro"},
		testCell{notebook.Raw, "<!-- last -->"},
	)
	tagAll(t, nb)
	before := cellIDs(nb)
	linker := NewLinker(DefaultOptions())

	if err := linker.Embed(nb); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if got := len(nb.TaggedCells(notebook.TagRaw)); got != 0 {
		t.Errorf("%d auxiliary cells still visible", got)
	}
	if _, err := linker.Restore(nb); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	after := cellIDs(nb)
	if len(after) != len(before)+1 {
		t.Fatalf("len = %d, want original plus placeholder (%d)", len(after), len(before)+1)
	}
	if diff := cmp.Diff(before, after[:len(before)]); diff != "" {
		t.Errorf("sequence mismatch (-want +got):\n%s", diff)
	}
	if last := nb.Cells()[len(after)-1]; last.Source != placeholderSource {
		t.Errorf("last cell = %q, want placeholder", last.Source)
	}
}

func TestEmbedRestore_SurvivesSerialization(t *testing.T) {
	nb := buildNotebook(t,
		testCell{notebook.Raw, "<!-- a -->"},
		testCell{notebook.Markdown, "host"},
	)
	tagAll(t, nb)
	before := cellIDs(nb)
	linker := NewLinker(DefaultOptions())
	if err := linker.Embed(nb); err != nil {
		t.Fatal(err)
	}

	data, err := notebook.Marshal(nb)
	if err != nil {
		t.Fatal(err)
	}
	reloaded, err := notebook.Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v\n%s", err, data)
	}
	if _, err := linker.Restore(reloaded); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	if diff := cmp.Diff(before, cellIDs(reloaded)); diff != "" {
		t.Errorf("sequence mismatch (-want +got):\n%s", diff)
	}
	if got := reloaded.Cells()[0]; got.Type != notebook.Raw || got.Source != "<!-- a -->" {
		t.Errorf("restored cell = %q %q", got.Type, got.Source)
	}
}

func TestRestore_Cycle(t *testing.T) {
	nb := buildNotebook(t, testCell{notebook.Markdown, "a"})
	a := nb.Cells()[0]
	b := notebook.NewCell(notebook.Raw, "b")
	a.SetNested(b)
	b.SetNested(a)

	_, err := NewLinker(DefaultOptions()).Restore(nb)
	if !errors.Is(err, ErrNestingCycle) {
		t.Errorf("Restore() error = %v, want ErrNestingCycle", err)
	}
}

func TestRestore_NothingNested(t *testing.T) {
	nb := buildNotebook(t, testCell{notebook.Markdown, "a"})

	passes, err := NewLinker(DefaultOptions()).Restore(nb)
	if err != nil || passes != 0 {
		t.Errorf("Restore() = %d, %v; want 0, nil", passes, err)
	}
}

func TestLinker_UnsupportedStyle(t *testing.T) {
	nb := buildNotebook(t, testCell{notebook.Markdown, "a"})
	opts := DefaultOptions()
	opts.Style = "pdf"

	if err := NewLinker(opts).Preprocess(context.Background(), nb); !errors.Is(err, ErrUnsupportedStyle) {
		t.Errorf("Preprocess() error = %v, want ErrUnsupportedStyle", err)
	}
}
