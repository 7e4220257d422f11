package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gorewood/nbjekyll/internal/export"
	"github.com/gorewood/nbjekyll/internal/output"
	"github.com/gorewood/nbjekyll/internal/watch"
)

func newWatchCmd() *cobra.Command {
	var outDir string
	var noSign bool

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Re-export notebooks in a directory whenever they change",
		Long: `Watch a directory tree and prepare each notebook that changes, as if
nbjekyll had been run on it. Notebooks whose name has no "_" prefix segment
are ignored, so "_posts/_intro.ipynb" is exported to "_posts/intro.ipynb"
and the output itself is left alone.

With --out-dir the outputs are written under that directory instead, keeping
their path relative to the watched directory. Stop with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], outDir, noSign)
		},
	}

	cmd.Flags().StringVar(&outDir, "out-dir", "", "Directory to write prepared notebooks to")
	cmd.Flags().Duration("debounce", watch.DefaultDebounce, "Quiet period before a change is handled")
	cmd.Flags().StringP("header-type", "t", "markdown", "Header style: markdown (publish) or raw (edit)")
	cmd.Flags().StringP("rm-tag", "r", "jekyll_raw_tag", "Tag of the auxiliary raw cells to hide or restore")
	cmd.Flags().String("template", "default", "Presentation header template")
	cmd.Flags().BoolVar(&noSign, "no-sign", false, "Do not sign written notebooks")
	return cmd
}

func runWatch(cmd *cobra.Command, root, outDir string, noSign bool) error {
	printer := newPrinter(cmd)

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return fail(printer, output.NewUserError(root+" is not a directory"))
	}

	a, err := loadApp(cmd, appOptions{noSign: noSign, needTemplate: true})
	if err != nil {
		return fail(printer, err)
	}
	defer a.close()

	handle := func(ctx context.Context, path string) (string, error) {
		dest, err := watchDestination(root, outDir, path)
		if errors.Is(err, export.ErrNoOutfile) {
			a.logger.Debug("ignoring notebook", "notebook", path)
			return "", nil
		}
		if err != nil {
			return "", err
		}
		res, err := a.exporter.Export(ctx, export.Request{Notebook: path, Outfile: dest, Options: a.opts})
		if err != nil {
			return "", err
		}
		if printer.IsJSON() {
			return res.Outfile, printer.WriteJSON(res)
		}
		return res.Outfile, printer.Success(map[string]any{"message": "Prepared file written to: " + res.Outfile})
	}

	w, err := watch.New(root, handle, watch.Options{Debounce: a.cfg.Watch.Debounce, Logger: a.logger})
	if err != nil {
		return fail(printer, output.NewSystemErrorWithCause("failed to watch "+root, err))
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fail(printer, err)
	}
	return nil
}

// watchDestination derives the output of path, moved under outDir when one
// is set.
func watchDestination(root, outDir, path string) (string, error) {
	dest, err := export.Destination(path, "", false)
	if err != nil || outDir == "" {
		return dest, err
	}
	rel, err := filepath.Rel(root, dest)
	if err != nil {
		return "", err
	}
	return filepath.Join(outDir, rel), nil
}
