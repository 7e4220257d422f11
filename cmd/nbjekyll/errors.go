package main

import (
	"errors"

	"github.com/gorewood/nbjekyll/internal/config"
	"github.com/gorewood/nbjekyll/internal/export"
	"github.com/gorewood/nbjekyll/internal/frontmatter"
	"github.com/gorewood/nbjekyll/internal/notebook"
	"github.com/gorewood/nbjekyll/internal/output"
	"github.com/gorewood/nbjekyll/internal/preprocess"
)

// userErrors are failures the user can fix by changing arguments or the
// notebook. Anything else is a system error.
var userErrors = []error{
	preprocess.ErrMissingFrontMatterCell,
	preprocess.ErrUnsupportedStyle,
	preprocess.ErrNestingCycle,
	frontmatter.ErrMalformed,
	frontmatter.ErrTemplateNotFound,
	config.ErrInvalid,
	export.ErrNoOutfile,
	export.ErrDuplicateDestination,
	export.ErrSigningDisabled,
	notebook.ErrNotFound,
	notebook.ErrInvalidNotebook,
}

// classify attaches an exit code to err. Errors that already carry one are
// returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *output.ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return output.NewUserErrorWithCause(err.Error(), err)
		}
	}
	return output.NewSystemErrorWithCause(err.Error(), err)
}

// fail prints err and returns it with an exit code.
func fail(printer *output.Printer, err error) error {
	err = classify(err)
	printer.Error(err)
	return err
}
