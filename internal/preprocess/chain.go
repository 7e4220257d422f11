package preprocess

import (
	"context"

	"github.com/gorewood/nbjekyll/internal/notebook"
)

// Preprocessor transforms a notebook in place.
type Preprocessor interface {
	Preprocess(ctx context.Context, nb *notebook.Notebook) error
}

// Func adapts a function to Preprocessor.
type Func func(ctx context.Context, nb *notebook.Notebook) error

// Preprocess calls f.
func (f Func) Preprocess(ctx context.Context, nb *notebook.Notebook) error {
	return f(ctx, nb)
}

// Chain runs stages in order and stops at the first error.
func Chain(stages ...Preprocessor) Preprocessor {
	return Func(func(ctx context.Context, nb *notebook.Notebook) error {
		for _, stage := range stages {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := stage.Preprocess(ctx, nb); err != nil {
				return err
			}
		}
		return nil
	})
}

// New returns the full stage chain for opts: tagging, front-matter
// extraction, header rendering and linking.
func New(opts Options) (Preprocessor, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.WithDefaults()
	return Chain(
		NewTagger(opts),
		NewFrontMatter(opts),
		NewHeader(opts),
		NewLinker(opts),
	), nil
}
