package preprocess

import (
	"context"
	"strings"

	"github.com/gorewood/nbjekyll/internal/frontmatter"
	"github.com/gorewood/nbjekyll/internal/notebook"
)

// Tagger gives every untagged raw cell either the front-matter tag or the
// raw tag, depending on whether its source opens a YAML block.
type Tagger struct {
	opts Options
}

// NewTagger creates a Tagger.
func NewTagger(opts Options) *Tagger {
	return &Tagger{opts: opts.WithDefaults()}
}

// Preprocess tags raw cells. Cells already carrying either tag are left
// alone, so running it twice changes nothing.
func (t *Tagger) Preprocess(_ context.Context, nb *notebook.Notebook) error {
	tagged := 0
	for _, cell := range nb.Cells() {
		if cell.Type != notebook.Raw {
			continue
		}
		if cell.HasTag(t.opts.FrontMatterTag) || cell.HasTag(t.opts.RawTag) {
			continue
		}
		tag := t.opts.RawTag
		if strings.HasPrefix(cell.Source, frontmatter.Delimiter) {
			tag = t.opts.FrontMatterTag
		}
		cell.AddTag(tag)
		tagged++
	}
	t.opts.Logger.Debug("tagged raw cells", "count", tagged)
	return nil
}
