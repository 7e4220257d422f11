// Package output writes command results for nbjekyll, either as styled
// text for people or as JSON for scripts and git hooks.
//
// # Printer
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), jsonFlag, output.IsTTY(cmd.OutOrStdout()))
//	printer.Success(map[string]any{"message": "Prepared file written to: posts/intro.ipynb"})
//	printer.Error(err)
//
// In JSON mode errors are written as {"error": "...", "code": N}.
//
// # Exit Codes
//
//	output.ExitSuccess     // 0
//	output.ExitUserError   // 1: bad arguments, malformed front matter, missing marker cell
//	output.ExitSystemError // 2: I/O, git or signature store failures
//	output.ExitConflict    // 3: a git hook exists and would be overwritten
package output
