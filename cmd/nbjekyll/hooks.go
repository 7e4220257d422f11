package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gorewood/nbjekyll/internal/git"
	"github.com/gorewood/nbjekyll/internal/output"
	"github.com/gorewood/nbjekyll/internal/setup"
)

// newHooksCmd creates the hooks parent command with subcommands.
func newHooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "Manage git hooks for nbjekyll",
		Long: `Manage git hooks that run nbjekyll around commits.

The pre-commit hook prepares staged notebooks for publishing and stages the
result, so committed notebooks carry the presentation header. It blocks the
commit when a notebook cannot be prepared. The post-commit hook restores the
committed notebooks for editing.

Examples:
  nbjekyll hooks list                   # Show hook status
  nbjekyll hooks install                # Install both hooks
  nbjekyll hooks install pre-commit     # Install one hook
  nbjekyll hooks install --chain        # Keep existing hooks, run them after
  nbjekyll hooks uninstall              # Remove hooks, restore backups`,
	}

	cmd.AddCommand(newHooksListCmd())
	cmd.AddCommand(newHooksInstallCmd())
	cmd.AddCommand(newHooksUninstallCmd())
	return cmd
}

// hooksDir returns the hooks directory of the current repository.
func hooksDir() (string, error) {
	if !git.IsRepo() {
		return "", output.NewUserError("not in a git repository")
	}
	dir, err := setup.GetHooksDir()
	if err != nil {
		return "", output.NewSystemErrorWithCause("failed to locate hooks directory", err)
	}
	return dir, nil
}

// hookNames returns args, or every managed hook when args is empty.
func hookNames(args []string) []string {
	if len(args) == 0 {
		return setup.HookNames
	}
	return args
}

func newHooksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show status of git hooks",
		Args:  cobra.NoArgs,
		RunE:  runHooksList,
	}
}

func runHooksList(cmd *cobra.Command, _ []string) error {
	printer := newPrinter(cmd)

	dir, err := hooksDir()
	if err != nil {
		return fail(printer, err)
	}

	hooks := make([]setup.HookStatus, 0, len(setup.HookNames))
	for _, name := range setup.HookNames {
		hooks = append(hooks, setup.CheckHookStatus(filepath.Join(dir, name)))
	}

	if printer.IsJSON() {
		return printer.Success(map[string]any{"hooks_dir": dir, "hooks": hooks})
	}

	printer.Section("Git Hooks")
	for _, hook := range hooks {
		printer.KeyValue(hook.Name, describeStatus(hook))
	}
	return nil
}

func describeStatus(hook setup.HookStatus) string {
	switch {
	case hook.Installed && hook.Chained:
		return "installed (chained)"
	case hook.Installed:
		return "installed"
	case hook.Exists:
		return "other hook present"
	default:
		return "not installed"
	}
}

func newHooksInstallCmd() *cobra.Command {
	var opts setup.InstallOptions
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "install [hook...]",
		Short: "Install nbjekyll git hooks",
		Long: `Install nbjekyll git hooks into the repository's hooks directory.

Use --chain to keep an existing hook (it runs after nbjekyll succeeds).
Use --force to overwrite existing hooks without backup.`,
		ValidArgs: setup.HookNames,
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHooksInstall(cmd, args, opts, dryRun)
		},
	}

	cmd.Flags().BoolVar(&opts.Chain, "chain", false, "Preserve existing hooks, run them after nbjekyll")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite existing hooks without backup")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without doing it")
	return cmd
}

func runHooksInstall(cmd *cobra.Command, args []string, opts setup.InstallOptions, dryRun bool) error {
	printer := newPrinter(cmd)

	dir, err := hooksDir()
	if err != nil {
		return fail(printer, err)
	}
	names := hookNames(args)

	if dryRun {
		actions := make(map[string]string, len(names))
		for _, name := range names {
			status := setup.CheckHookStatus(filepath.Join(dir, name))
			actions[name] = setup.DescribeInstallAction(status, opts.Chain, opts.Force)
		}
		if printer.IsJSON() {
			return printer.Success(map[string]any{"status": "dry_run", "actions": actions})
		}
		printer.Section("Dry Run")
		for _, name := range names {
			printer.KeyValue(name, actions[name])
		}
		return nil
	}

	installed := make([]setup.HookStatus, 0, len(names))
	for _, name := range names {
		status, err := setup.InstallHook(dir, name, opts)
		if err != nil {
			return fail(printer, err)
		}
		installed = append(installed, status)
	}

	if printer.IsJSON() {
		return printer.Success(map[string]any{"status": "ok", "hooks": installed})
	}
	for _, status := range installed {
		msg := "Installed " + status.Name + " hook"
		if status.Chained {
			msg += " (existing hook chained)"
		}
		if err := printer.Success(map[string]any{"message": msg}); err != nil {
			return err
		}
	}
	return nil
}

func newHooksUninstallCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:       "uninstall [hook...]",
		Short:     "Remove nbjekyll git hooks",
		Long:      `Remove nbjekyll git hooks and restore any backups.`,
		ValidArgs: setup.HookNames,
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHooksUninstall(cmd, args, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without doing it")
	return cmd
}

func runHooksUninstall(cmd *cobra.Command, args []string, dryRun bool) error {
	printer := newPrinter(cmd)

	dir, err := hooksDir()
	if err != nil {
		return fail(printer, err)
	}
	names := hookNames(args)

	if dryRun {
		actions := make(map[string]string, len(names))
		for _, name := range names {
			actions[name] = setup.DescribeUninstallAction(setup.CheckHookStatus(filepath.Join(dir, name)))
		}
		if printer.IsJSON() {
			return printer.Success(map[string]any{"status": "dry_run", "actions": actions})
		}
		printer.Section("Dry Run")
		for _, name := range names {
			printer.KeyValue(name, actions[name])
		}
		return nil
	}

	results := make([]setup.UninstallResult, 0, len(names))
	for _, name := range names {
		res, err := setup.UninstallHook(dir, name)
		if err != nil {
			return fail(printer, err)
		}
		results = append(results, res)
	}

	if printer.IsJSON() {
		return printer.Success(map[string]any{"status": "ok", "hooks": results})
	}
	for _, res := range results {
		msg := "No nbjekyll " + res.Name + " hook installed"
		if res.Removed {
			msg = "Removed " + res.Name + " hook"
			if res.Restored {
				msg += " and restored original"
			}
		}
		if err := printer.Success(map[string]any{"message": msg}); err != nil {
			return err
		}
	}
	return nil
}
