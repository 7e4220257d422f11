package export

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// ErrDuplicateDestination is returned when two requests of a batch would
// write the same file.
var ErrDuplicateDestination = errors.New("several notebooks export to the same file")

// ExportAll runs reqs with at most limit exports in flight (limit <= 0 means
// no limit). Results are in request order. The first failure cancels the
// remaining exports.
func (e *Exporter) ExportAll(ctx context.Context, reqs []Request, limit int) ([]*Result, error) {
	if err := checkDestinations(reqs); err != nil {
		return nil, err
	}

	results := make([]*Result, len(reqs))
	g, gCtx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, req := range reqs {
		g.Go(func() error {
			res, err := e.Export(gCtx, req)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func checkDestinations(reqs []Request) error {
	seen := make(map[string]string, len(reqs))
	for _, req := range reqs {
		dest, err := Destination(req.Notebook, req.Outfile, req.InPlace)
		if err != nil {
			return err
		}
		key := filepath.Clean(dest)
		if other, dup := seen[key]; dup {
			return fmt.Errorf("%w: %s and %s both write %s", ErrDuplicateDestination, other, req.Notebook, dest)
		}
		seen[key] = req.Notebook
	}
	return nil
}
