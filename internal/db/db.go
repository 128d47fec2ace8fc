// Package db provides PostgreSQL storage for the posting corpus and the vocabulary blob,
// plus a SQLite vocabulary store for single-machine use.
package db

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/jobmatch/internal/types"
	"github.com/jonathan/jobmatch/internal/vocabulary"
)

//go:embed schema.sql
var schema string

// DefaultVocabularyName is the row name of the vocabulary blob.
const DefaultVocabularyName = "default"

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the tables if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// UpsertPosting stores p, replacing any posting with the same title and company. A posting
// without an ID is assigned one; the stored ID is returned.
func (db *DB) UpsertPosting(ctx context.Context, p *types.Posting) (string, error) {
	if err := p.Validate(); err != nil {
		return "", fmt.Errorf("invalid posting: %w", err)
	}
	id := p.ID
	if id == "" {
		id = uuid.NewString()
	}
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}

	err := db.pool.QueryRow(ctx,
		`INSERT INTO job_postings (id, posting_key, title, company, location, description,
		        requirements, skills, salary, job_type, level, source, url, posted_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 ON CONFLICT (posting_key) DO UPDATE SET
		        id = EXCLUDED.id, title = EXCLUDED.title, company = EXCLUDED.company,
		        location = EXCLUDED.location, description = EXCLUDED.description,
		        requirements = EXCLUDED.requirements, skills = EXCLUDED.skills,
		        salary = EXCLUDED.salary, job_type = EXCLUDED.job_type, level = EXCLUDED.level,
		        source = EXCLUDED.source, url = EXCLUDED.url, posted_date = EXCLUDED.posted_date,
		        updated_at = NOW()
		 RETURNING id`,
		id, p.Key(), strings.TrimSpace(p.Title), strings.TrimSpace(p.Company), p.Location,
		p.Description, p.Requirements, skills, p.Salary, p.Type, p.Level, p.Source, p.URL, p.PostedDate,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to upsert posting %q: %w", p.Key(), err)
	}
	return id, nil
}

// ListPostings returns every stored posting, least recently written first.
func (db *DB) ListPostings(ctx context.Context) ([]types.Posting, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, company, location, description, requirements, skills,
		        salary, job_type, level, source, url, posted_date
		 FROM job_postings ORDER BY updated_at, posting_key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list postings: %w", err)
	}
	defer rows.Close()

	postings := []types.Posting{}
	for rows.Next() {
		var p types.Posting
		if err := rows.Scan(&p.ID, &p.Title, &p.Company, &p.Location, &p.Description,
			&p.Requirements, &p.Skills, &p.Salary, &p.Type, &p.Level, &p.Source, &p.URL,
			&p.PostedDate); err != nil {
			return nil, fmt.Errorf("failed to scan posting: %w", err)
		}
		if len(p.Skills) == 0 {
			p.Skills = nil
		}
		postings = append(postings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate postings: %w", err)
	}
	return postings, nil
}

// DeletePosting removes the posting with the given title and company and reports whether
// one existed.
func (db *DB) DeletePosting(ctx context.Context, title, company string) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM job_postings WHERE posting_key = $1`,
		types.PostingKey(title, company))
	if err != nil {
		return false, fmt.Errorf("failed to delete posting: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// PostingSource reads the stored corpus as a refresh source.
type PostingSource struct {
	db *DB
}

// PostingSource returns the table as a posting source.
func (db *DB) PostingSource() *PostingSource {
	return &PostingSource{db: db}
}

// Name identifies the source in logs.
func (s *PostingSource) Name() string {
	return "postgres"
}

// FetchPostings implements the refresh posting source contract.
func (s *PostingSource) FetchPostings(ctx context.Context) ([]types.Posting, error) {
	return s.db.ListPostings(ctx)
}

// VocabularyStore keeps a vocabulary blob in the vocabulary_blobs table.
type VocabularyStore struct {
	db   *DB
	name string
}

// VocabularyStore returns a blob store for the named vocabulary. An empty name selects
// DefaultVocabularyName.
func (db *DB) VocabularyStore(name string) *VocabularyStore {
	if name == "" {
		name = DefaultVocabularyName
	}
	return &VocabularyStore{db: db, name: name}
}

// ReadBlob implements vocabulary.BlobStore.
func (s *VocabularyStore) ReadBlob(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.db.pool.QueryRow(ctx,
		`SELECT data FROM vocabulary_blobs WHERE name = $1`, s.name,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", vocabulary.ErrBlobNotFound, s.name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary blob %s: %w", s.name, err)
	}
	return data, nil
}

// WriteBlob implements vocabulary.BlobStore.
func (s *VocabularyStore) WriteBlob(ctx context.Context, data []byte) error {
	_, err := s.db.pool.Exec(ctx,
		`INSERT INTO vocabulary_blobs (name, data) VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
		s.name, data)
	if err != nil {
		return fmt.Errorf("failed to write vocabulary blob %s: %w", s.name, err)
	}
	return nil
}
