package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/ingestion"
	"github.com/jonathan/jobmatch/internal/types"
)

var postingsCmd = &cobra.Command{
	Use:   "postings",
	Short: "Manage postings stored in Postgres",
}

var postingsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a posting corpus file (JSON or CSV) into Postgres",
	Args:  cobra.ExactArgs(1),
	RunE:  runPostingsImport,
}

var postingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored postings",
	Args:  cobra.NoArgs,
	RunE:  runPostingsList,
}

var postingsDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a stored posting by title and company",
	Args:  cobra.NoArgs,
	RunE:  runPostingsDelete,
}

var (
	postingsTitle   string
	postingsCompany string
)

func init() {
	postingsDeleteCmd.Flags().StringVar(&postingsTitle, "title", "", "posting title")
	postingsDeleteCmd.Flags().StringVar(&postingsCompany, "company", "", "posting company")

	postingsCmd.AddCommand(postingsImportCmd, postingsListCmd, postingsDeleteCmd)
	rootCmd.AddCommand(postingsCmd)
}

// dbApp opens the app and requires a database.
func dbApp(cmd *cobra.Command) (*app, error) {
	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return nil, err
	}
	if a.db == nil {
		a.close()
		return nil, fmt.Errorf("postings commands need database-url or DATABASE_URL")
	}
	return a, nil
}

func runPostingsImport(cmd *cobra.Command, args []string) error {
	postings, err := ingestion.LoadPostings(args[0])
	if err != nil {
		return err
	}

	a, err := dbApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	stored := 0
	for i := range postings {
		if _, err := a.db.UpsertPosting(cmd.Context(), &postings[i]); err != nil {
			a.logger.Warn("skipping posting", zap.Int("index", i), zap.Error(err))
			continue
		}
		stored++
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stored %d of %d postings\n", stored, len(postings))
	return nil
}

func runPostingsList(cmd *cobra.Command, _ []string) error {
	a, err := dbApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	postings, err := a.db.ListPostings(cmd.Context())
	if err != nil {
		return err
	}
	return a.output(postings, func() { printPostings(cmd, postings) })
}

func printPostings(cmd *cobra.Command, postings []types.Posting) {
	out := cmd.OutOrStdout()
	for _, p := range postings {
		_, _ = fmt.Fprintf(out, "%-36s  %s @ %s\n", p.ID, p.Title, p.Company)
	}
	_, _ = fmt.Fprintf(out, "%d postings\n", len(postings))
}

func runPostingsDelete(cmd *cobra.Command, _ []string) error {
	if postingsTitle == "" || postingsCompany == "" {
		return fmt.Errorf("--title and --company are required")
	}

	a, err := dbApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	removed, err := a.db.DeletePosting(cmd.Context(), postingsTitle, postingsCompany)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("posting %q at %q not found", postingsTitle, postingsCompany)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s @ %s\n", postingsTitle, postingsCompany)
	return nil
}
