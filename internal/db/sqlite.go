package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure Go sqlite driver

	"github.com/jonathan/jobmatch/internal/vocabulary"
)

// SQLiteStore keeps vocabulary blobs in a local SQLite database.
type SQLiteStore struct {
	sql  *sql.DB
	name string
}

// OpenSQLite opens or creates the database at path and ensures its schema. An empty name
// selects DefaultVocabularyName.
func OpenSQLite(ctx context.Context, path, name string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	if name == "" {
		name = DefaultVocabularyName
	}
	s := &SQLiteStore{sql: sqldb, name: name}
	if err := s.EnsureSchema(ctx); err != nil {
		_ = sqldb.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates the blob table if it does not exist.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	_, err := s.sql.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS vocabulary_blobs (
		name TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		updated_at DATETIME NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to ensure sqlite schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.sql.Close()
}

// ReadBlob implements vocabulary.BlobStore.
func (s *SQLiteStore) ReadBlob(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.sql.QueryRowContext(ctx,
		`SELECT data FROM vocabulary_blobs WHERE name = ?`, s.name,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", vocabulary.ErrBlobNotFound, s.name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary blob %s: %w", s.name, err)
	}
	return data, nil
}

// WriteBlob implements vocabulary.BlobStore.
func (s *SQLiteStore) WriteBlob(ctx context.Context, data []byte) error {
	_, err := s.sql.ExecContext(ctx,
		`INSERT INTO vocabulary_blobs (name, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		s.name, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write vocabulary blob %s: %w", s.name, err)
	}
	return nil
}
