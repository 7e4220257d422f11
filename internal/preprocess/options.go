package preprocess

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/gorewood/nbjekyll/internal/frontmatter"
	"github.com/gorewood/nbjekyll/internal/notebook"
)

// Style is the header style of a run.
type Style string

// Supported styles.
const (
	// StyleMarkdown renders a presentation header and hides auxiliary cells.
	StyleMarkdown Style = "markdown"
	// StyleRaw renders the YAML header and restores auxiliary cells.
	StyleRaw Style = "raw"
)

// Errors returned by the stages.
var (
	ErrUnsupportedStyle       = errors.New("unsupported header style")
	ErrMissingFrontMatterCell = errors.New("no front matter cell")
	ErrAlreadyConverted       = errors.New("front matter cell already converted")
	ErrNestingCycle           = errors.New("nested cells form a cycle")
)

// ParseStyle validates s as a Style.
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case StyleMarkdown, StyleRaw:
		return Style(s), nil
	default:
		return "", fmt.Errorf("%w: %q (valid: markdown, raw)", ErrUnsupportedStyle, s)
	}
}

// Options configures a run. The zero value is usable: empty fields take
// their defaults.
type Options struct {
	Style          Style
	FrontMatterTag string
	RawTag         string

	// Template renders the presentation header. Nil uses the built-in
	// default template.
	Template *frontmatter.Template

	Logger   *log.Logger
	Warnings *Warnings
}

// DefaultOptions returns Options for a markdown run with the default tags.
func DefaultOptions() Options {
	return Options{
		Style:          StyleMarkdown,
		FrontMatterTag: notebook.TagFrontMatter,
		RawTag:         notebook.TagRaw,
	}
}

// WithDefaults returns o with empty fields set to their defaults.
func (o Options) WithDefaults() Options {
	if o.Style == "" {
		o.Style = StyleMarkdown
	}
	if o.FrontMatterTag == "" {
		o.FrontMatterTag = notebook.TagFrontMatter
	}
	if o.RawTag == "" {
		o.RawTag = notebook.TagRaw
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// Validate checks the style and that the two tags differ.
func (o Options) Validate() error {
	o = o.WithDefaults()
	if _, err := ParseStyle(string(o.Style)); err != nil {
		return err
	}
	if o.FrontMatterTag == o.RawTag {
		return fmt.Errorf("front matter tag and raw tag must differ (both %q)", o.RawTag)
	}
	return nil
}

// warn logs a tolerated failure and records it.
func (o Options) warn(msg string, keyvals ...any) {
	o.Logger.Warn(msg, keyvals...)
	if o.Warnings != nil {
		o.Warnings.Add(msg)
	}
}

// Warnings collects tolerated failures reported during a run.
type Warnings struct {
	mu    sync.Mutex
	items []string
}

// Add records a warning.
func (w *Warnings) Add(msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.items = append(w.items, msg)
}

// List returns the recorded warnings in order.
func (w *Warnings) List() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.items))
	copy(out, w.items)
	return out
}
