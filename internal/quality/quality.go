package quality

import (
	"cmp"
	"fmt"
	"slices"
)

// Quality is a named, ranked release quality.
// Higher rank means better quality. Rank 0 is reserved for "unknown".
type Quality struct {
	Name string `json:"name" yaml:"name"`
	Rank int    `json:"rank" yaml:"rank"`
}

// Ranked is implemented by values that carry a quality rank.
type Ranked interface {
	QualityRank() int
}

// QualityRank implements Ranked.
func (q Quality) QualityRank() int {
	return q.Rank
}

// String returns the quality name.
func (q Quality) String() string {
	return q.Name
}

// Compare orders qualities by rank, then by name for equal ranks.
func (q Quality) Compare(other Quality) int {
	if c := cmp.Compare(q.Rank, other.Rank); c != 0 {
		return c
	}
	return cmp.Compare(q.Name, other.Name)
}

// Better reports whether q ranks strictly above other.
func (q Quality) Better(other Quality) bool {
	return q.Rank > other.Rank
}

// Registry resolves stored quality names to qualities.
type Registry interface {
	// Lookup returns the quality stored under name.
	Lookup(name string) (Quality, bool)

	// All returns every known quality, lowest rank first.
	All() []Quality
}

// Set is an immutable Registry built from a fixed list of qualities.
type Set struct {
	byName map[string]Quality
	sorted []Quality
}

// NewSet builds a registry. Names must be non-empty and unique, ranks must be
// positive.
func NewSet(qualities ...Quality) (*Set, error) {
	s := &Set{
		byName: make(map[string]Quality, len(qualities)),
		sorted: make([]Quality, 0, len(qualities)),
	}
	for _, q := range qualities {
		if q.Name == "" {
			return nil, fmt.Errorf("quality name must not be empty")
		}
		if q.Rank <= 0 {
			return nil, fmt.Errorf("quality %q: rank must be positive, got %d", q.Name, q.Rank)
		}
		if _, dup := s.byName[q.Name]; dup {
			return nil, fmt.Errorf("quality %q defined twice", q.Name)
		}
		s.byName[q.Name] = q
		s.sorted = append(s.sorted, q)
	}
	slices.SortFunc(s.sorted, Quality.Compare)
	return s, nil
}

// MustSet is like NewSet but panics on invalid input.
// Intended for package-level tables and tests.
func MustSet(qualities ...Quality) *Set {
	s, err := NewSet(qualities...)
	if err != nil {
		panic(err)
	}
	return s
}

// Lookup implements Registry.
func (s *Set) Lookup(name string) (Quality, bool) {
	q, ok := s.byName[name]
	return q, ok
}

// All implements Registry.
func (s *Set) All() []Quality {
	return slices.Clone(s.sorted)
}

// Len returns the number of qualities.
func (s *Set) Len() int {
	return len(s.sorted)
}

// Best returns the highest-ranked quality.
func (s *Set) Best() (Quality, bool) {
	if len(s.sorted) == 0 {
		return Quality{}, false
	}
	return s.sorted[len(s.sorted)-1], true
}

// defaultQualities is the built-in catalog used when no registry file is
// configured.
var defaultQualities = []Quality{
	{Name: "sdtv", Rank: 10},
	{Name: "dvdrip", Rank: 20},
	{Name: "480p", Rank: 30},
	{Name: "576p", Rank: 40},
	{Name: "hdtv", Rank: 50},
	{Name: "720p", Rank: 60},
	{Name: "1080i", Rank: 70},
	{Name: "1080p", Rank: 80},
	{Name: "2160p", Rank: 90},
}

// Default returns the built-in registry.
func Default() *Set {
	return MustSet(defaultQualities...)
}
