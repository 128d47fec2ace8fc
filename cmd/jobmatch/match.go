package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/corpus"
	"github.com/jonathan/jobmatch/internal/ingestion"
)

var matchCmd = &cobra.Command{
	Use:   "match <resume>",
	Short: "Rank postings against a resume",
	Long:  "Parse a resume and rank the postings of a corpus by fused lexical, skill, experience and optional semantic similarity.",
	Args:  cobra.ExactArgs(1),
	RunE:  runMatch,
}

var (
	matchPostings string
	matchFromDB   bool
	matchURL      string
	matchTitle    string
	matchCompany  string
	matchTop      int
	matchLearn    bool
)

func init() {
	matchCmd.Flags().StringVarP(&matchPostings, "postings", "p", "", "posting corpus file (JSON or CSV), default from config, else built-in samples")
	matchCmd.Flags().BoolVar(&matchFromDB, "from-db", false, "also load postings stored in Postgres")
	matchCmd.Flags().StringVar(&matchURL, "url", "", "fetch one more posting from a job board URL")
	matchCmd.Flags().StringVar(&matchTitle, "title", "", "title of the --url posting")
	matchCmd.Flags().StringVar(&matchCompany, "company", "", "company of the --url posting")
	matchCmd.Flags().IntVarP(&matchTop, "top", "n", 10, "number of matches to show")
	matchCmd.Flags().BoolVar(&matchLearn, "learn", false, "learn from the resume and postings before matching and save the vocabulary")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	if matchTop < 0 {
		return fmt.Errorf("--top must be non-negative")
	}
	if matchURL != "" && (matchTitle == "" || matchCompany == "") {
		return fmt.Errorf("--url needs --title and --company")
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	postings, err := a.loadPostings(ctx, matchPostings, matchFromDB, matchURL == "")
	if err != nil {
		return err
	}
	if matchURL != "" {
		posting, _, err := ingestion.PostingFromURL(ctx, matchURL, matchTitle, matchCompany, a.cfg.FetchOptions())
		if err != nil {
			return err
		}
		postings = append(postings, posting)
	}

	if matchLearn {
		if text, err := ingestion.ExtractText(args[0]); err == nil {
			a.vocab.LearnFromText(text)
		}
		for _, p := range postings {
			a.vocab.LearnFromText(p.Description)
		}
		if err := a.save(ctx); err != nil {
			return err
		}
	}

	index := a.newIndex()
	report := index.Rebuild(postings)
	for _, skipped := range report.Skipped {
		a.logger.Warn("posting not indexed", zap.Error(skipped))
	}
	if index.Len() == 0 {
		return fmt.Errorf("nothing to match against: %w", corpus.ErrEmptyCorpus)
	}

	profile, err := a.loadProfile(args[0])
	if err != nil {
		return err
	}

	results, err := index.TopMatches(profile, matchTop)
	if err != nil {
		return err
	}
	return a.output(results, func() { a.printer.PrintMatches(results) })
}
