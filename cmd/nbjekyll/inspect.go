package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/nbjekyll/internal/export"
	"github.com/gorewood/nbjekyll/internal/output"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <notebook>",
		Short: "Show cells, tags, hidden cells and front matter of a notebook",
		Long: `Show the state of a notebook: each cell with its type and tags, the
auxiliary cells hidden inside other cells, the front matter and whether its
header is raw (editing) or markdown (published), and the trust signature.`,
		Args: cobra.ExactArgs(1),
		RunE: runInspect,
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	a, err := loadApp(cmd, appOptions{noSign: true})
	if err != nil {
		return fail(printer, err)
	}
	defer a.close()

	summary, err := a.exporter.Inspect(args[0], a.cfg.FrontMatterTag)
	if err != nil {
		return fail(printer, err)
	}

	if printer.IsJSON() {
		return printer.WriteJSON(summary)
	}
	printSummary(printer, summary)
	return nil
}

func printSummary(printer *output.Printer, s *export.Summary) {
	printer.Section("Notebook")
	printer.KeyValue("Path", s.Notebook)
	printer.KeyValue("Format", s.Format)
	printer.KeyValue("Hidden cells", fmt.Sprint(s.Hidden))
	signature := s.Signature
	if signature == "" {
		signature = "none"
	}
	printer.KeyValue("Signature", signature)

	printer.Section("Front matter")
	if s.FrontMatterCell < 0 {
		printer.Println("no front matter cell")
	} else {
		printer.KeyValue("Cell", fmt.Sprint(s.FrontMatterCell))
		printer.KeyValue("Header", s.HeaderStyle)
		for _, field := range s.FrontMatter {
			printer.KeyValue(field.Key, field.Value)
		}
	}
	if s.Problem != "" {
		printer.Warn("%s", s.Problem)
	}

	printer.Section("Cells")
	rows := make([][]string, 0, len(s.Cells))
	for _, cell := range s.Cells {
		rows = append(rows, []string{fmt.Sprint(cell.Index), cell.Type, strings.Join(cell.Tags, ","), cell.Preview})
		for _, nested := range cell.Nested {
			rows = append(rows, []string{"  ↳", nested.Type, strings.Join(nested.Tags, ","), nested.Preview})
		}
	}
	printer.Table([]string{"#", "TYPE", "TAGS", "PREVIEW"}, rows)
}
