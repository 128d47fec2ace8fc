package vocabulary

import (
	"sort"

	"github.com/jonathan/jobmatch/internal/types"
)

// Snapshot is an immutable view of the vocabulary taken at one version.
// Extraction and scoring read from a Snapshot so concurrent learning cannot change
// the taxonomy under an in-flight pass.
type Snapshot struct {
	version    uint64
	categories map[types.Category][]string
	index      map[string]types.Category
	names      []string
}

// NewSnapshot builds a snapshot from a category to names mapping.
// Names are normalized to lowercase; a name listed twice keeps its first category.
func NewSnapshot(version uint64, byCategory map[types.Category][]string) *Snapshot {
	s := &Snapshot{
		version:    version,
		categories: make(map[types.Category][]string, len(byCategory)),
		index:      make(map[string]types.Category),
	}
	// walk categories in fixed order so duplicates resolve deterministically
	for _, cat := range types.AllCategories {
		for _, raw := range byCategory[cat] {
			name := normalizeName(raw)
			if name == "" {
				continue
			}
			if _, dup := s.index[name]; dup {
				continue
			}
			s.index[name] = cat
			s.categories[cat] = append(s.categories[cat], name)
		}
	}
	for cat := range s.categories {
		sort.Strings(s.categories[cat])
	}
	s.names = make([]string, 0, len(s.index))
	for name := range s.index {
		s.names = append(s.names, name)
	}
	sort.Strings(s.names)
	return s
}

// Version returns the vocabulary version the snapshot was taken at.
func (s *Snapshot) Version() uint64 { return s.version }

// Len returns the number of known names.
func (s *Snapshot) Len() int { return len(s.names) }

// Has reports whether name is a known skill.
func (s *Snapshot) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Category returns the category of a known skill.
func (s *Snapshot) Category(name string) (types.Category, bool) {
	cat, ok := s.index[name]
	return cat, ok
}

// Names returns every known name in sorted order. The slice must not be modified.
func (s *Snapshot) Names() []string { return s.names }

// InCategory returns a copy of the sorted names filed under cat.
func (s *Snapshot) InCategory(cat types.Category) []string {
	names := s.categories[cat]
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Categorize partitions names by their snapshot category. Unknown names go to general.
func (s *Snapshot) Categorize(names []string) map[types.Category][]string {
	out := make(map[types.Category][]string)
	for _, name := range names {
		cat, ok := s.index[name]
		if !ok {
			cat = types.CategoryGeneral
		}
		out[cat] = append(out[cat], name)
	}
	for cat := range out {
		sort.Strings(out[cat])
	}
	return out
}
