package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/gorewood/nbjekyll/internal/export"
	"github.com/gorewood/nbjekyll/internal/git"
	"github.com/gorewood/nbjekyll/internal/preprocess"
	"github.com/gorewood/nbjekyll/internal/setup"
)

// newHookCmd creates the hidden hook parent command for internal hook execution.
func newHookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "hook",
		Short:  "Internal hook runner",
		Long:   `Internal command for running hook logic. Called by git hooks.`,
		Hidden: true,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "run <hook-name>",
		Short: "Execute hook logic",
		Long:  `Execute the logic for the specified hook. Called by installed git hooks.`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  runHookRun,
	})
	return cmd
}

func runHookRun(cmd *cobra.Command, args []string) error {
	switch args[0] {
	case setup.PreCommit:
		return runPreCommitHook(cmd)
	case setup.PostCommit:
		return runPostCommitHook(cmd)
	default:
		// Unknown hook: succeed so git is never blocked.
		return nil
	}
}

// runPreCommitHook prepares staged notebooks for publishing and stages the
// result. A notebook without front matter is skipped; any other failure
// blocks the commit.
func runPreCommitHook(cmd *cobra.Command) error {
	printer := newPrinter(cmd)
	if !git.IsRepo() {
		return nil
	}

	a, err := loadApp(cmd, appOptions{needTemplate: true})
	if err != nil {
		return fail(printer, err)
	}
	defer a.close()

	ctx := cmd.Context()
	staged, err := git.StagedFiles(ctx, a.cfg.Hooks.Patterns)
	if err != nil {
		return fail(printer, err)
	}

	opts := a.opts
	opts.Style = preprocess.StyleMarkdown
	written := make([]string, 0, len(staged))
	for _, path := range staged {
		res, err := a.exporter.Export(ctx, export.Request{Notebook: path, InPlace: true, Options: opts})
		if errors.Is(err, preprocess.ErrMissingFrontMatterCell) {
			a.logger.Warn("skipping notebook without front matter", "notebook", path)
			continue
		}
		if err != nil {
			return fail(printer, err)
		}
		written = append(written, res.Outfile)
	}

	if len(written) == 0 {
		return nil
	}
	if err := git.Add(ctx, written...); err != nil {
		return fail(printer, err)
	}
	a.logger.Info("prepared staged notebooks", "count", len(written))
	return nil
}

// runPostCommitHook restores the notebooks of the new commit for editing.
// Failures are logged and never reported to git.
func runPostCommitHook(cmd *cobra.Command) error {
	if !git.IsRepo() {
		return nil
	}

	a, err := loadApp(cmd, appOptions{})
	if err != nil {
		newPrinter(cmd).Warn("nbjekyll post-commit: %v", err)
		return nil
	}
	defer a.close()

	head, err := git.HEAD()
	if err != nil {
		a.logger.Warn("resolving HEAD", "err", err)
		return nil
	}
	ctx := cmd.Context()
	committed, err := git.CommittedFiles(ctx, head, a.cfg.Hooks.Patterns)
	if err != nil {
		a.logger.Warn("listing committed notebooks", "err", err)
		return nil
	}

	opts := a.opts
	opts.Style = preprocess.StyleRaw
	a.logger.Debug("restoring committed notebooks", "commit", head, "count", len(committed))
	for _, path := range committed {
		if _, err := a.exporter.Export(ctx, export.Request{Notebook: path, InPlace: true, Options: opts}); err != nil {
			a.logger.Warn("restoring notebook", "notebook", path, "err", err)
		}
	}
	return nil
}
