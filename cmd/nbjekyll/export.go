package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/nbjekyll/internal/export"
	"github.com/gorewood/nbjekyll/internal/output"
)

// exportFlags are shared by the root and export commands.
type exportFlags struct {
	outfile string
	inPlace bool
	noSign  bool
}

func (f *exportFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.outfile, "outfile", "o", "", "Output file (single notebook only)")
	flags.StringP("header-type", "t", "markdown", "Header style: markdown (publish) or raw (edit)")
	flags.StringP("rm-tag", "r", "jekyll_raw_tag", "Tag of the auxiliary raw cells to hide or restore")
	flags.BoolVarP(&f.inPlace, "in-place", "i", false, "Overwrite the input notebook")
	flags.String("template", "default", "Presentation header template")
	flags.Int("jobs", 0, "Notebooks exported concurrently (default: number of CPUs)")
	flags.BoolVar(&f.noSign, "no-sign", false, "Do not sign the written notebook")
}

func newExportCmd() *cobra.Command {
	flags := &exportFlags{}
	cmd := &cobra.Command{
		Use:   "export <notebook>...",
		Short: "Prepare notebooks for publishing, or restore them for editing",
		Long: `Prepare notebooks for a Jekyll blog. This is what running nbjekyll with
notebook arguments does.

With --header-type markdown (the default) the front matter cell becomes a
presentation header and auxiliary raw cells are hidden. With raw the YAML
header and the hidden cells come back.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func runExport(cmd *cobra.Command, args []string, flags *exportFlags) error {
	printer := newPrinter(cmd)

	if flags.outfile != "" && len(args) > 1 {
		return fail(printer, output.NewUserError("--outfile cannot be used with more than one notebook"))
	}

	a, err := loadApp(cmd, appOptions{noSign: flags.noSign, needTemplate: true})
	if err != nil {
		return fail(printer, err)
	}
	defer a.close()

	reqs := make([]export.Request, 0, len(args))
	for _, path := range args {
		reqs = append(reqs, export.Request{
			Notebook: path,
			Outfile:  flags.outfile,
			InPlace:  flags.inPlace,
			Options:  a.opts,
		})
	}

	results, err := a.exporter.ExportAll(cmd.Context(), reqs, a.cfg.Jobs)
	if err != nil {
		return fail(printer, err)
	}

	if printer.IsJSON() {
		return printer.Success(map[string]any{"results": results})
	}
	for _, res := range results {
		if err := printer.Success(map[string]any{"message": "Prepared file written to: " + res.Outfile}); err != nil {
			return err
		}
	}
	return nil
}
