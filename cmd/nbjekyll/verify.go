package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gorewood/nbjekyll/internal/output"
)

type verifyResult struct {
	Notebook string `json:"notebook"`
	Trusted  bool   `json:"trusted"`
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <notebook>...",
		Short: "Check the trust signature of notebooks",
		Long: `Check that each notebook's signature matches its content, or that the
signature store has seen the notebook before. Exits with status 1 when any
notebook is not trusted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runVerify,
	}
}

func runVerify(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	a, err := loadApp(cmd, appOptions{})
	if err != nil {
		return fail(printer, err)
	}
	defer a.close()

	results := make([]verifyResult, 0, len(args))
	untrusted := 0
	for _, path := range args {
		ok, err := a.exporter.Verify(cmd.Context(), path)
		if err != nil {
			return fail(printer, err)
		}
		if !ok {
			untrusted++
		}
		results = append(results, verifyResult{Notebook: path, Trusted: ok})
	}

	if printer.IsJSON() {
		if err := printer.Success(map[string]any{"results": results, "untrusted": untrusted}); err != nil {
			return err
		}
	} else {
		for _, res := range results {
			state := "trusted"
			if !res.Trusted {
				state = "not trusted"
			}
			printer.KeyValue(res.Notebook, state)
		}
	}

	if untrusted > 0 {
		return output.NewUserError(fmt.Sprintf("%d of %d notebook(s) not trusted", untrusted, len(results)))
	}
	return nil
}
