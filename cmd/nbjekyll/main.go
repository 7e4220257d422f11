// Package main provides the entry point for the nbjekyll CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gorewood/nbjekyll/internal/config"
	"github.com/gorewood/nbjekyll/internal/envfile"
	"github.com/gorewood/nbjekyll/internal/output"
)

// Build info set via ldflags at build time by goreleaser.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// isJSONMode reads the --json persistent flag from the command hierarchy.
func isJSONMode(cmd *cobra.Command) bool {
	flag := cmd.Flags().Lookup("json")
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup("json")
	}
	return flag != nil && flag.Value.String() == "true"
}

// useColor resolves the --color flag against the output terminal.
func useColor(cmd *cobra.Command) bool {
	mode := "auto"
	if flag := cmd.Root().PersistentFlags().Lookup("color"); flag != nil {
		mode = flag.Value.String()
	}
	return output.ResolveColorMode(mode, output.IsTTY(cmd.OutOrStdout()))
}

// newPrinter returns the printer commands write through.
func newPrinter(cmd *cobra.Command) *output.Printer {
	return output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).
		WithStderr(cmd.ErrOrStderr())
}

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	os.Exit(run())
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd, fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// newRootCmd creates the root command. Run with notebook arguments it
// behaves like "nbjekyll export".
func newRootCmd() *cobra.Command {
	flags := &exportFlags{}
	cmd := &cobra.Command{
		Use:   "nbjekyll <notebook>...",
		Short: "Prepare Jupyter notebooks for a Jekyll blog",
		Long: `nbjekyll prepares Jupyter notebooks for publishing on a Jekyll blog.

A raw cell holding YAML front matter becomes a presentation header, and the
other raw cells are hidden inside the metadata of the cell that follows them.
Running with --header-type raw restores the YAML header and the hidden cells,
so a notebook can go back and forth between its editing and publishing forms.

The notebook is written in the standard nbformat layout and signed so Jupyter
trusts it. Without --outfile or --in-place, "01_intro.ipynb" is written to
"intro.ipynb".

All commands support --json for structured output.`,
		Example: `  nbjekyll _posts/_intro.ipynb
  nbjekyll -i -t raw _posts/intro.ipynb
  nbjekyll -o site/post.ipynb --template byline draft.ipynb`,
		Args:          cobra.ArbitraryArgs,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if isJSONMode(cmd) {
					err := output.NewUserError("no notebook specified. Run 'nbjekyll --help' for usage")
					newPrinter(cmd).Error(err)
					return err
				}
				return cmd.Help()
			}
			return runExport(cmd, args, flags)
		},
	}

	// Environment variables always take precedence over file values.
	cmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		loadEnvFiles()
		return nil
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().Bool("verbose", false, "Log pipeline stages")
	cmd.PersistentFlags().String("config", "", "Config file (replaces config.yaml and .nbjekyll.yaml)")
	cmd.PersistentFlags().String("color", "auto", "Color output: auto, always, never")
	flags.register(cmd)

	lipgloss.SetHasDarkBackground(true)

	addCommandGroups(cmd)
	addCommands(cmd)
	return cmd
}

// loadEnvFiles loads .env.local, .env and the global env file. The first
// file that sets a variable wins.
func loadEnvFiles() {
	_ = envfile.LoadAll(envfile.Files(".", config.Dir())...)
}

func addCommandGroups(cmd *cobra.Command) {
	cmd.AddGroup(&cobra.Group{ID: "core", Title: "Notebook Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "git", Title: "Git Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "admin", Title: "Admin Commands:"})
}

func addCommands(cmd *cobra.Command) {
	addGroupedCommand(cmd, newExportCmd(), "core")
	addGroupedCommand(cmd, newInspectCmd(), "core")
	addGroupedCommand(cmd, newVerifyCmd(), "core")
	addGroupedCommand(cmd, newWatchCmd(), "core")

	addGroupedCommand(cmd, newHooksCmd(), "git")

	addGroupedCommand(cmd, newSignaturesCmd(), "admin")
	addGroupedCommand(cmd, newServeCmd(), "admin")

	cmd.AddCommand(newHookCmd())
}

func addGroupedCommand(parent *cobra.Command, child *cobra.Command, groupID string) {
	child.GroupID = groupID
	parent.AddCommand(child)
}
