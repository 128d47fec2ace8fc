package vocabulary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/types"
)

// BlobStore persists the vocabulary as one opaque blob.
type BlobStore interface {
	// ReadBlob returns ErrBlobNotFound when nothing has been saved yet.
	ReadBlob(ctx context.Context) ([]byte, error)
	WriteBlob(ctx context.Context, data []byte) error
}

const blobFormatVersion = 1

// blob is the persisted form: learned records, plus the sighting data of base records that have been seen.
type blob struct {
	FormatVersion int       `json:"format_version"`
	Learned       []Record  `json:"learned"`
	BaseSightings []Record  `json:"base_sightings"`
	LastUpdated   time.Time `json:"last_updated"`
}

// Marshal serializes the learned state.
func (v *Vocabulary) Marshal() ([]byte, error) {
	v.mu.RLock()
	b := blob{
		FormatVersion: blobFormatVersion,
		Learned:       make([]Record, 0),
		BaseSightings: make([]Record, 0),
		LastUpdated:   v.updatedAt,
	}
	for _, rec := range v.records {
		switch {
		case rec.Origin == OriginLearned:
			b.Learned = append(b.Learned, rec.clone())
		case rec.Frequency > 0 || len(rec.Evidence) > 0:
			b.BaseSightings = append(b.BaseSightings, rec.clone())
		}
	}
	v.mu.RUnlock()

	byName := func(records []Record) func(i, j int) bool {
		return func(i, j int) bool { return records[i].Name < records[j].Name }
	}
	sort.Slice(b.Learned, byName(b.Learned))
	sort.Slice(b.BaseSightings, byName(b.BaseSightings))
	return json.MarshalIndent(b, "", "  ")
}

// Unmarshal replaces the learned state with data. On error the vocabulary is reset to the
// base taxonomy and a *LoadError is returned.
func (v *Vocabulary) Unmarshal(data []byte) error {
	var b blob
	if err := json.Unmarshal(data, &b); err != nil {
		return v.fallback(&LoadError{Message: "failed to unmarshal vocabulary blob", Cause: err})
	}
	if b.FormatVersion != blobFormatVersion {
		return v.fallback(&LoadError{Message: fmt.Sprintf("unsupported blob format version %d", b.FormatVersion)})
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.seedLocked()

	// base sightings only restore counters; the seeded category always wins
	for _, stored := range b.BaseSightings {
		rec, ok := v.records[normalizeName(stored.Name)]
		if !ok || rec.Origin != OriginBase {
			continue
		}
		rec.Frequency = max(stored.Frequency, 0)
		rec.Evidence = capEvidence(stored.Evidence)
		rec.LastSeen = stored.LastSeen
	}
	for _, stored := range b.Learned {
		name := normalizeName(stored.Name)
		if name == "" {
			continue
		}
		if existing, ok := v.records[name]; ok && existing.Origin == OriginBase {
			// a term learned before it became part of the base taxonomy
			existing.Frequency += max(stored.Frequency, 0)
			continue
		}
		cat, known := types.ParseCategory(string(stored.Category))
		if !known {
			cat = v.Categorize(name)
		}
		v.records[name] = &Record{
			Name:      name,
			Category:  cat,
			Origin:    OriginLearned,
			Frequency: max(stored.Frequency, 0),
			Evidence:  capEvidence(stored.Evidence),
			LastSeen:  stored.LastSeen,
		}
	}
	v.updatedAt = b.LastUpdated
	v.version++
	return nil
}

func capEvidence(evidence []string) []string {
	if over := len(evidence) - MaxEvidence; over > 0 {
		evidence = evidence[over:]
	}
	return append([]string(nil), evidence...)
}

// fallback resets to the base taxonomy, logs and returns err.
func (v *Vocabulary) fallback(err *LoadError) error {
	v.Seed()
	v.logger.Warn("vocabulary load failed, falling back to base taxonomy", zap.Error(err))
	return err
}

// Save writes the learned state to store.
func (v *Vocabulary) Save(ctx context.Context, store BlobStore) error {
	data, err := v.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal vocabulary: %w", err)
	}
	if err := store.WriteBlob(ctx, data); err != nil {
		return fmt.Errorf("failed to write vocabulary blob: %w", err)
	}
	v.logger.Info("vocabulary saved", zap.Int("records", v.Len()), zap.Int("bytes", len(data)))
	return nil
}

// Load restores the learned state from store. A missing or corrupt blob is not fatal:
// the vocabulary keeps working on the base taxonomy and the returned error matches ErrLoadFailed.
func (v *Vocabulary) Load(ctx context.Context, store BlobStore) error {
	data, err := store.ReadBlob(ctx)
	if err != nil {
		msg := "failed to read vocabulary blob"
		if errors.Is(err, ErrBlobNotFound) {
			msg = "no saved vocabulary"
		}
		return v.fallback(&LoadError{Message: msg, Cause: err})
	}
	if err := v.Unmarshal(data); err != nil {
		return err
	}
	v.logger.Info("vocabulary loaded", zap.Int("records", v.Len()))
	return nil
}

// FileStore keeps the blob in a local file.
type FileStore struct {
	Path string
}

// NewFileStore returns a FileStore writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// ReadBlob implements BlobStore.
func (s *FileStore) ReadBlob(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, s.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.Path, err)
	}
	return data, nil
}

// WriteBlob implements BlobStore. The file is replaced atomically via a temp file and rename.
func (s *FileStore) WriteBlob(_ context.Context, data []byte) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".vocabulary-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", s.Path, err)
	}
	return nil
}
