// Package watch re-exports notebooks when they change on disk.
package watch

import (
	"context"
	"crypto/sha256"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before changed files are handled.
const DefaultDebounce = 200 * time.Millisecond

// Handler processes a changed notebook and returns the path it wrote, or
// "" when it wrote nothing.
type Handler func(ctx context.Context, path string) (string, error)

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	// Match selects the files to handle. Defaults to IsNotebook.
	Match  func(path string) bool
	Logger *log.Logger
}

// Watcher watches a directory tree and calls a Handler for changed files.
type Watcher struct {
	root     string
	handle   Handler
	debounce time.Duration
	match    func(string) bool
	logger   *log.Logger
	fsw      *fsnotify.Watcher

	// written maps files the handler produced to the hash of their content.
	written map[string][sha256.Size]byte
}

// New starts watching root and its subdirectories. Events are only
// handled once Run is called.
func New(root string, handle Handler, opts Options) (*Watcher, error) {
	if handle == nil {
		return nil, errors.New("watch: nil handler")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Match == nil {
		opts.Match = IsNotebook
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := addDirsRecursive(fsw, root); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	return &Watcher{
		root:     root,
		handle:   handle,
		debounce: opts.Debounce,
		match:    opts.Match,
		logger:   opts.Logger,
		fsw:      fsw,
		written:  make(map[string][sha256.Size]byte),
	}, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run handles events until ctx is canceled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("watching", "root", w.root, "debounce", w.debounce)

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			w.logger.Info("watcher stopped")
			return nil

		case <-timer.C:
			w.flush(ctx, pending)
			pending = make(map[string]struct{})

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addDirsRecursive(w.fsw, ev.Name); err != nil {
						w.logger.Warn("cannot watch new directory", "path", ev.Name, "err", err)
					}
					continue
				}
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 || !w.match(ev.Name) {
				continue
			}
			pending[ev.Name] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", "err", err)
		}
	}
}

// flush handles the pending files in name order.
func (w *Watcher) flush(ctx context.Context, pending map[string]struct{}) {
	paths := make([]string, 0, len(pending))
	for path := range pending {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		sum, err := hashFile(path)
		if err != nil {
			w.logger.Debug("changed file vanished", "path", path, "err", err)
			continue
		}
		if own, ok := w.written[path]; ok && own == sum {
			w.logger.Debug("skipping own write", "path", path)
			continue
		}

		out, err := w.handle(ctx, path)
		if err != nil {
			w.logger.Error("export failed", "path", path, "err", err)
			continue
		}
		if out == "" {
			continue
		}
		if sum, err := hashFile(out); err == nil {
			w.written[out] = sum
		}
		w.logger.Info("exported", "path", path, "outfile", out)
	}
}

// IsNotebook matches *.ipynb files, skipping hidden files such as the
// temporary files of atomic writes.
func IsNotebook(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, ".ipynb") && !strings.HasPrefix(base, ".")
}

func hashFile(path string) ([sha256.Size]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return [sha256.Size]byte{}, err
	}
	return sha256.Sum256(data), nil
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return w.Add(path)
		}
		return nil
	})
}
