// Package cli implements the pagecraft command-line interface.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	clierrors "github.com/raveheart1/pagecraft/internal/errors"
)

var rootCmd = &cobra.Command{
	Use:   "pagecraft",
	Short: "Generate marketing page content from a product record",
	Long: `Pagecraft turns a single product record into a set of validated
marketing documents: an FAQ page, a product page, and a competitor
comparison page. Content is produced by a model provider and checked
against structural schemas before anything is written to disk.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError carries a process exit code through cobra's error return.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return ""
}

func (e *exitError) Unwrap() error { return e.err }

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if cliErr := clierrors.AsCLIError(exitErr.err); cliErr != nil {
			clierrors.PrintError(cliErr)
		} else if exitErr.err != nil {
			clierrors.PrintSimpleError(exitErr.err, clierrors.Runtime)
		}
		return exitErr.code
	}

	clierrors.PrintSimpleError(err, clierrors.Argument)
	return ExitInvalidArguments
}
