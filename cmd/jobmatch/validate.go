package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobmatch/internal/extraction"
)

var validateCmd = &cobra.Command{
	Use:   "validate <skill>...",
	Short: "Check whether skill names are known to the vocabulary",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.close()

	checks := a.engine.NewSession().Extractor().Validate(args)
	return a.output(checks, func() { printValidation(cmd, checks) })
}

func printValidation(cmd *cobra.Command, checks []extraction.Validation) {
	out := cmd.OutOrStdout()
	known := 0
	for _, c := range checks {
		status := "unknown"
		if c.Known {
			status = "known"
			known++
		}
		if c.Canonical != "" && c.Canonical != c.Name {
			_, _ = fmt.Fprintf(out, "%-24s %-8s (%s)\n", c.Name, status, c.Canonical)
		} else {
			_, _ = fmt.Fprintf(out, "%-24s %s\n", c.Name, status)
		}
	}
	_, _ = fmt.Fprintf(out, "%d of %d known\n", known, len(checks))
}
