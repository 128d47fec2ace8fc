package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/ingestion"
)

var learnCmd = &cobra.Command{
	Use:   "learn [files...]",
	Short: "Teach the skill vocabulary from documents and posting corpora",
	Long: "Learn skills from text, Markdown, PDF or DOCX documents and from the descriptions of a " +
		"posting corpus (JSON or CSV), then save the vocabulary.",
	RunE: runLearn,
}

var (
	learnPostings string
	learnTerms    string
)

func init() {
	learnCmd.Flags().StringVarP(&learnPostings, "postings", "p", "", "posting corpus file (JSON or CSV)")
	learnCmd.Flags().StringVar(&learnTerms, "terms", "", "comma separated external terms to merge")

	rootCmd.AddCommand(learnCmd)
}

type learnResult struct {
	Documents int      `json:"documents"`
	Learned   []string `json:"learned"`
	Merged    []string `json:"merged"`
	Records   int      `json:"records"`
}

func runLearn(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && learnPostings == "" && learnTerms == "" {
		return fmt.Errorf("nothing to learn: pass files, --postings or --terms")
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	learned := make(map[string]struct{})
	result := learnResult{Learned: []string{}, Merged: []string{}}

	for _, path := range args {
		text, err := ingestion.ExtractText(path)
		if err != nil {
			return err
		}
		for _, name := range a.vocab.LearnFromText(text) {
			learned[name] = struct{}{}
		}
		result.Documents++
	}

	if learnPostings != "" {
		postings, err := ingestion.LoadPostings(learnPostings)
		if err != nil {
			return err
		}
		for _, p := range postings {
			for _, name := range a.vocab.LearnFromText(p.Description) {
				learned[name] = struct{}{}
			}
			result.Documents++
		}
	}

	if learnTerms != "" {
		result.Merged = a.vocab.MergeExternal(splitList(learnTerms))
	}

	if err := a.save(ctx); err != nil {
		return err
	}

	result.Learned = sortedNames(learned)
	result.Records = a.vocab.Len()
	a.logger.Info("learning complete", zap.Int("documents", result.Documents), zap.Int("learned", len(result.Learned)))

	return a.output(result, func() {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "Learned %d skills from %d documents\n", len(result.Learned), result.Documents)
		if len(result.Merged) > 0 {
			_, _ = fmt.Fprintf(out, "Merged %d external terms\n", len(result.Merged))
		}
		_, _ = fmt.Fprintf(out, "Vocabulary: %d skills\n", result.Records)
	})
}
