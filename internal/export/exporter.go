package export

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/gorewood/nbjekyll/internal/notebook"
	"github.com/gorewood/nbjekyll/internal/preprocess"
	"github.com/gorewood/nbjekyll/internal/trust"
)

// State is a step of an export.
type State int

// Export states in the order they are reached.
const (
	StateLoaded State = iota
	StateTagged
	StateFrontMatterExtracted
	StateHeaderRendered
	StateLinked
	StateSerialized
	StateSigned
	StateWritten
)

var stateNames = [...]string{
	"loaded",
	"tagged",
	"front-matter-extracted",
	"header-rendered",
	"linked",
	"serialized",
	"signed",
	"written",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Request describes one export.
type Request struct {
	// Notebook is the source path.
	Notebook string
	// Outfile is the destination; empty derives it from Notebook.
	Outfile string
	// InPlace writes back to Notebook and ignores Outfile.
	InPlace bool
	Options preprocess.Options
}

// Result reports a finished export.
type Result struct {
	Notebook  string           `json:"notebook"`
	Outfile   string           `json:"outfile"`
	Style     preprocess.Style `json:"style"`
	Warnings  []string         `json:"warnings,omitempty"`
	Signature string           `json:"signature,omitempty"`
}

// Exporter runs export requests.
type Exporter struct {
	store  *notebook.Store
	signer *trust.Signer
	logger *log.Logger
}

// NewExporter creates an Exporter. A nil signer writes unsigned notebooks;
// a nil logger discards log output.
func NewExporter(store *notebook.Store, signer *trust.Signer, logger *log.Logger) *Exporter {
	if store == nil {
		store = notebook.NewStore(nil)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Exporter{store: store, signer: signer, logger: logger}
}

// Export runs req to completion.
func (e *Exporter) Export(ctx context.Context, req Request) (*Result, error) {
	opts := req.Options.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	dest, err := Destination(req.Notebook, req.Outfile, req.InPlace)
	if err != nil {
		return nil, err
	}

	logger := e.logger.With("notebook", req.Notebook)
	if req.Options.Logger == nil {
		opts.Logger = logger
	}
	warnings := &preprocess.Warnings{}
	opts.Warnings = warnings
	reached := func(s State) { logger.Debug("export", "state", s) }

	nb, err := e.store.Load(req.Notebook)
	if err != nil {
		return nil, err
	}
	reached(StateLoaded)

	stages := []struct {
		state State
		stage preprocess.Preprocessor
	}{
		{StateTagged, preprocess.NewTagger(opts)},
		{StateFrontMatterExtracted, preprocess.NewFrontMatter(opts)},
		{StateHeaderRendered, preprocess.NewHeader(opts)},
		{StateLinked, preprocess.NewLinker(opts)},
	}
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.stage.Preprocess(ctx, nb); err != nil {
			return nil, fmt.Errorf("%s: %w", req.Notebook, err)
		}
		reached(s.state)
	}

	data, err := notebook.Marshal(nb)
	if err != nil {
		return nil, fmt.Errorf("serializing %s: %w", req.Notebook, err)
	}
	reached(StateSerialized)

	result := &Result{Notebook: req.Notebook, Outfile: dest, Style: opts.Style}
	if e.signer != nil {
		sig, err := e.signer.Sign(ctx, nb, dest)
		if err != nil {
			return nil, fmt.Errorf("signing %s: %w", req.Notebook, err)
		}
		if data, err = notebook.Marshal(nb); err != nil {
			return nil, fmt.Errorf("serializing %s: %w", req.Notebook, err)
		}
		result.Signature = sig
	}
	reached(StateSigned)

	if !req.InPlace {
		if err := e.store.EnsureDir(filepath.Dir(dest)); err != nil {
			return nil, err
		}
	}
	if err := e.store.WriteBytes(dest, data); err != nil {
		return nil, fmt.Errorf("writing %s: %w", dest, err)
	}
	reached(StateWritten)

	result.Warnings = warnings.List()
	return result, nil
}
