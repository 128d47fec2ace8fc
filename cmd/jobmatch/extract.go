package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobmatch/internal/ingestion"
	"github.com/jonathan/jobmatch/internal/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract confidence-scored skills from a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var extractMinConfidence float64

func init() {
	extractCmd.Flags().Float64Var(&extractMinConfidence, "min-confidence", 0, "drop skills below this confidence")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if extractMinConfidence < 0 || extractMinConfidence > 1 {
		return fmt.Errorf("--min-confidence must be between 0 and 1")
	}

	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.close()

	text, err := ingestion.ExtractText(args[0])
	if err != nil {
		return err
	}
	set := a.engine.NewSession().Extractor().Extract(text)
	if extractMinConfidence > 0 {
		set = filterConfidence(set, extractMinConfidence)
	}

	return a.output(set, func() { a.printer.PrintSkills(set) })
}

// filterConfidence keeps skills whose confidence is at least min.
func filterConfidence(set types.SkillSet, min float64) types.SkillSet {
	out := types.NewSkillSet()
	out.Degraded = set.Degraded
	keep := make(map[string]struct{})
	for _, name := range set.AtLeast(min) {
		out.Confidence[name] = set.Confidence[name]
		keep[name] = struct{}{}
	}
	for cat, names := range set.Categories {
		for _, name := range names {
			if _, ok := keep[name]; ok {
				out.Categories[cat] = append(out.Categories[cat], name)
			}
		}
	}
	return out
}
