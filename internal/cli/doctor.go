package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/raveheart1/pagecraft/internal/health"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that pagecraft is ready to run",
	Long: `Doctor verifies the local environment: configuration loads and
validates, a provider API key is available, and the output directory is
writable. It performs no model calls.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		report := health.RunHealthChecks()

		green := color.New(color.FgGreen, color.Bold).SprintFunc()
		red := color.New(color.FgRed, color.Bold).SprintFunc()

		for _, check := range report.Checks {
			mark := green("✓")
			if !check.Passed {
				mark = red("✗")
			}
			cmd.Printf("%s %s: %s\n", mark, check.Name, check.Message)
		}

		if !report.Passed {
			return &exitError{code: ExitInvalidArguments}
		}
		cmd.Println("\nAll checks passed.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
