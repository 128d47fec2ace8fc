package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobmatch/internal/gap"
	"github.com/jonathan/jobmatch/internal/ingestion"
	"github.com/jonathan/jobmatch/internal/types"
)

var gapCmd = &cobra.Command{
	Use:   "gap <resume>",
	Short: "Explain the skill gap between a resume and one posting",
	Args:  cobra.ExactArgs(1),
	RunE:  runGap,
}

var (
	gapPostings string
	gapFromDB   bool
	gapTitle    string
	gapCompany  string
	gapURL      string
)

func init() {
	gapCmd.Flags().StringVarP(&gapPostings, "postings", "p", "", "posting corpus file (JSON or CSV), default from config, else built-in samples")
	gapCmd.Flags().BoolVar(&gapFromDB, "from-db", false, "also look the posting up in Postgres")
	gapCmd.Flags().StringVar(&gapTitle, "title", "", "posting title")
	gapCmd.Flags().StringVar(&gapCompany, "company", "", "posting company")
	gapCmd.Flags().StringVar(&gapURL, "url", "", "fetch the posting from a job board URL instead of the corpus")

	rootCmd.AddCommand(gapCmd)
}

type gapResult struct {
	Posting string          `json:"posting"`
	Score   float64         `json:"overall_score"`
	Gap     types.GapReport `json:"gap"`
}

func runGap(cmd *cobra.Command, args []string) error {
	if gapTitle == "" || gapCompany == "" {
		return fmt.Errorf("--title and --company are required")
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	var posting types.Posting
	if gapURL != "" {
		posting, _, err = ingestion.PostingFromURL(ctx, gapURL, gapTitle, gapCompany, a.cfg.FetchOptions())
		if err != nil {
			return err
		}
	} else {
		postings, err := a.loadPostings(ctx, gapPostings, gapFromDB, true)
		if err != nil {
			return err
		}
		index := a.newIndex()
		index.Rebuild(postings)
		found, ok := index.Get(gapTitle, gapCompany)
		if !ok {
			return fmt.Errorf("posting %q at %q not found", gapTitle, gapCompany)
		}
		posting = found
	}

	profile, err := a.loadProfile(args[0])
	if err != nil {
		return err
	}

	session := a.engine.NewSession()
	score := session.Prepare(nil, profile).Score(&posting)
	result := gapResult{
		Posting: posting.Title + " @ " + posting.Company,
		Score:   score.OverallScore,
		Gap:     gap.AnalyzeResult(profile, score, session.Extractor().Canonical),
	}
	return a.output(result, func() { a.printer.PrintGap(result.Posting, result.Gap) })
}
