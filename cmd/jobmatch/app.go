package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/config"
	"github.com/jonathan/jobmatch/internal/corpus"
	"github.com/jonathan/jobmatch/internal/db"
	"github.com/jonathan/jobmatch/internal/ingestion"
	"github.com/jonathan/jobmatch/internal/logger"
	"github.com/jonathan/jobmatch/internal/nlp"
	"github.com/jonathan/jobmatch/internal/observability"
	"github.com/jonathan/jobmatch/internal/similarity"
	"github.com/jonathan/jobmatch/internal/types"
	"github.com/jonathan/jobmatch/internal/vocabulary"
)

// app holds the components shared by commands.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	printer *observability.Printer
	vocab   *vocabulary.Vocabulary
	store   vocabulary.BlobStore
	db      *db.DB
	engine  *similarity.Engine
	closers []func()
}

// newApp loads configuration, opens the vocabulary store and restores the vocabulary.
func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	v := viper.New()
	flags := cmd.Root().PersistentFlags()
	if err := v.BindPFlag("debug", flags.Lookup("debug")); err != nil {
		return nil, fmt.Errorf("failed to bind debug flag: %w", err)
	}
	if err := v.BindPFlag("json", flags.Lookup("json")); err != nil {
		return nil, fmt.Errorf("failed to bind json flag: %w", err)
	}

	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.JSON, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}

	a := &app{
		cfg:     cfg,
		logger:  log,
		printer: observability.NewPrinter(cmd.OutOrStdout()),
	}
	a.closers = append(a.closers, func() { _ = log.Sync() })

	vocabOpts := []vocabulary.Option{vocabulary.WithLogger(log.Named("vocabulary"))}
	if cfg.ExtendedCatalog {
		vocabOpts = append(vocabOpts, vocabulary.WithExtendedCatalog())
	}
	a.vocab = vocabulary.New(vocabOpts...)

	if err := a.openStore(ctx); err != nil {
		a.close()
		return nil, err
	}
	if err := a.vocab.Load(ctx, a.store); err != nil {
		if errors.Is(err, vocabulary.ErrBlobNotFound) {
			log.Debug("starting from the base taxonomy")
		} else {
			log.Warn("using base taxonomy", zap.Error(err))
		}
	}

	engineOpts := []similarity.Option{
		similarity.WithWeights(cfg.Weights),
		similarity.WithAnalyzer(nlp.NewChunker()),
		similarity.WithLogger(log.Named("similarity")),
	}
	if cfg.Semantic {
		engineOpts = append(engineOpts, similarity.WithSemantic(nlp.NewChunker()))
	}
	a.engine = similarity.NewEngine(a.vocab, engineOpts...)
	return a, nil
}

// openStore selects Postgres, SQLite or a local file for the vocabulary blob.
func (a *app) openStore(ctx context.Context) error {
	switch {
	case a.cfg.DatabaseURL != "":
		database, err := db.Connect(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, database.Close)
		if err := database.EnsureSchema(ctx); err != nil {
			return err
		}
		a.db = database
		a.store = database.VocabularyStore(a.cfg.VocabularyName)
		a.logger.Debug("vocabulary store", zap.String("kind", "postgres"))
	case a.cfg.SQLitePath != "":
		store, err := db.OpenSQLite(ctx, a.cfg.SQLitePath, a.cfg.VocabularyName)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() { _ = store.Close() })
		a.store = store
		a.logger.Debug("vocabulary store", zap.String("kind", "sqlite"), zap.String("path", a.cfg.SQLitePath))
	default:
		a.store = vocabulary.NewFileStore(a.cfg.VocabularyPath)
		a.logger.Debug("vocabulary store", zap.String("kind", "file"), zap.String("path", a.cfg.VocabularyPath))
	}
	return nil
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func (a *app) save(ctx context.Context) error {
	return a.vocab.Save(ctx, a.store)
}

// newIndex returns an empty corpus index over the app's engine.
func (a *app) newIndex() *corpus.Index {
	return corpus.New(a.engine, corpus.WithLogger(a.logger.Named("corpus")))
}

// loadPostings gathers postings from path (or the configured corpus file) and, when
// fromDB is set, from Postgres. With samples set and neither source configured, the
// built-in sample postings are returned.
func (a *app) loadPostings(ctx context.Context, path string, fromDB, samples bool) ([]types.Posting, error) {
	if path == "" {
		path = a.cfg.Corpus
	}
	if samples && path == "" && !fromDB {
		a.logger.Info("no posting source configured, using built-in sample postings")
		return ingestion.SamplePostings()
	}
	var postings []types.Posting
	if path != "" {
		loaded, err := ingestion.LoadPostings(path)
		if err != nil {
			return nil, err
		}
		postings = append(postings, loaded...)
	}
	if fromDB {
		if a.db == nil {
			return nil, fmt.Errorf("--from-db needs database-url or DATABASE_URL")
		}
		stored, err := a.db.ListPostings(ctx)
		if err != nil {
			return nil, err
		}
		postings = append(postings, stored...)
	}
	return postings, nil
}

// loadProfile extracts and parses a resume file with a fresh extractor over the vocabulary.
func (a *app) loadProfile(path string) (*types.Profile, error) {
	text, meta, err := ingestion.IngestFromFile(path)
	if err != nil {
		return nil, err
	}
	profile := ingestion.ParseProfile(text, a.engine.NewSession().Extractor())
	profile.Source = path
	a.logger.Debug("parsed resume",
		zap.String("path", path),
		zap.String("hash", meta.Hash),
		zap.Int("skills", profile.Skills.Len()),
		zap.Int("spans", len(profile.Experience.Spans)))
	return profile, nil
}

// output prints v as JSON under --json, otherwise calls human.
func (a *app) output(v any, human func()) error {
	if a.cfg.JSON {
		return a.printer.PrintJSON(v)
	}
	human()
	return nil
}
