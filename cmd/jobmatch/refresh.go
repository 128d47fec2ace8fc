package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/fetch"
	"github.com/jonathan/jobmatch/internal/llm"
	"github.com/jonathan/jobmatch/internal/refresh"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch postings and trending terms and update the vocabulary",
	Long: "Fetch postings from RemoteOK (and Postgres), trending terms from GitHub and Stack Overflow, " +
		"optionally ask the LLM tagger for new terms, then learn and save the vocabulary. " +
		"Runs at most once per refresh interval unless --force is given.",
	Args: cobra.NoArgs,
	RunE: runRefresh,
}

var (
	refreshForce bool
	refreshWatch bool
	refreshStore bool
)

func init() {
	refreshCmd.Flags().BoolVarP(&refreshForce, "force", "f", false, "refresh even if the interval has not elapsed")
	refreshCmd.Flags().BoolVarP(&refreshWatch, "watch", "w", false, "keep running and refresh on every interval")
	refreshCmd.Flags().BoolVar(&refreshStore, "store-postings", false, "upsert fetched postings into Postgres")

	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if refreshStore && a.db == nil {
		return fmt.Errorf("--store-postings needs database-url or DATABASE_URL")
	}

	index := a.newIndex()
	if a.cfg.Corpus != "" {
		postings, err := a.loadPostings(ctx, "", false, false)
		if err != nil {
			return err
		}
		index.Rebuild(postings)
	}

	opts, closeTagger, err := a.refreshOptions(ctx)
	if err != nil {
		return err
	}
	defer closeTagger()
	r := refresh.New(a.vocab, index, opts...)

	if refreshWatch {
		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		a.logger.Info("watching", zap.Duration("interval", a.cfg.Refresh.Interval))
		if err := r.Run(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	}

	report, err := r.Refresh(ctx, refreshForce)
	if err != nil {
		return err
	}
	if refreshStore && !report.Skipped {
		for _, p := range index.Postings() {
			if _, err := a.db.UpsertPosting(ctx, &p); err != nil {
				a.logger.Warn("failed to store posting", zap.String("key", p.Key()), zap.Error(err))
			}
		}
	}
	return a.output(report, func() { a.printer.PrintRefresh(report) })
}

// refreshOptions builds the configured sources and tagger. The returned func closes the tagger client.
func (a *app) refreshOptions(ctx context.Context) ([]refresh.Option, func(), error) {
	cfg := a.cfg
	fetchOpts := cfg.FetchOptions()
	opts := []refresh.Option{
		refresh.WithStore(a.store),
		refresh.WithInterval(cfg.Refresh.Interval),
		refresh.WithTimeout(cfg.Refresh.Timeout),
		refresh.WithLastUpdated(a.vocab.LastUpdated()),
		refresh.WithLogger(a.logger.Named("refresh")),
	}

	if cfg.Refresh.RemoteOK {
		src := fetch.NewRemoteOKSource(cfg.Refresh.SearchTerm)
		src.Options = fetchOpts
		opts = append(opts, refresh.WithPostingSources(src))
	}
	if cfg.Refresh.Postgres && a.db != nil {
		opts = append(opts, refresh.WithPostingSources(a.db.PostingSource()))
	}
	if cfg.Refresh.GitHub {
		src := fetch.NewGitHubTopicsSource()
		src.Options = fetchOpts
		opts = append(opts, refresh.WithTermSources(src))
	}
	if cfg.Refresh.StackOverflow {
		src := fetch.NewStackOverflowTagsSource()
		src.Options = fetchOpts
		opts = append(opts, refresh.WithTermSources(src))
	}

	closeTagger := func() {}
	if cfg.Refresh.Tagger {
		client, err := llm.NewClient(ctx, cfg.LLMModelConfig(), cfg.LLM.APIKey)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		closeTagger = func() { _ = client.Close() }
		tagger := llm.NewTagger(client,
			llm.WithMaxTerms(cfg.LLM.MaxTerms),
			llm.WithLogger(a.logger.Named("tagger")))
		opts = append(opts, refresh.WithTagger(tagger))
	}
	return opts, closeTagger, nil
}
