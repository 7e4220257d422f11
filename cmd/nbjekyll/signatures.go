package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gorewood/nbjekyll/internal/output"
)

func newSignaturesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signatures",
		Short: "Inspect and prune the signature store",
		Long: `The signature store remembers every notebook nbjekyll signed, so a notebook
stays trusted after its signature field is lost.`,
	}
	cmd.AddCommand(newSignaturesListCmd())
	cmd.AddCommand(newSignaturesCullCmd())
	return cmd
}

func newSignaturesListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the most recently seen signatures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := newPrinter(cmd)
			a, err := openSignatureStore(cmd)
			if err != nil {
				return fail(printer, err)
			}
			defer a.close()

			records, err := a.sigs.Recent(cmd.Context(), limit)
			if err != nil {
				return fail(printer, err)
			}
			if printer.IsJSON() {
				return printer.Success(map[string]any{"signatures": records})
			}
			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					rec.LastSeen.Local().Format(time.DateTime),
					rec.Algorithm + ":" + shorten(rec.Signature, 12),
					rec.Path,
				})
			}
			printer.Table([]string{"LAST SEEN", "SIGNATURE", "PATH"}, rows)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of signatures to show")
	return cmd
}

func newSignaturesCullCmd() *cobra.Command {
	var keep int
	cmd := &cobra.Command{
		Use:   "cull",
		Short: "Delete all but the most recently seen signatures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := newPrinter(cmd)
			if keep < 0 {
				return fail(printer, output.NewUserError("--keep must not be negative"))
			}
			a, err := openSignatureStore(cmd)
			if err != nil {
				return fail(printer, err)
			}
			defer a.close()

			removed, err := a.sigs.Cull(cmd.Context(), keep)
			if err != nil {
				return fail(printer, err)
			}
			if printer.IsJSON() {
				return printer.Success(map[string]any{"removed": removed, "kept": keep})
			}
			return printer.Success(map[string]any{"message": fmt.Sprintf("Removed %d signature(s)", removed)})
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 5000, "Number of signatures to keep")
	return cmd
}

// openSignatureStore loads an app with the signature store open, failing
// when signing is disabled.
func openSignatureStore(cmd *cobra.Command) (*app, error) {
	a, err := loadApp(cmd, appOptions{})
	if err != nil {
		return nil, err
	}
	if a.sigs == nil {
		a.close()
		return nil, output.NewUserError("signing is disabled (trust.enabled is false)")
	}
	return a, nil
}

func shorten(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
