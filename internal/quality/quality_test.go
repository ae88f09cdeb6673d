package quality

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSet_SortsByRank(t *testing.T) {
	s, err := NewSet(
		Quality{Name: "1080p", Rank: 3},
		Quality{Name: "sd", Rank: 1},
		Quality{Name: "hd", Rank: 2},
	)
	require.NoError(t, err)

	assert.Equal(t, []Quality{
		{Name: "sd", Rank: 1},
		{Name: "hd", Rank: 2},
		{Name: "1080p", Rank: 3},
	}, s.All())
	assert.Equal(t, 3, s.Len())

	best, ok := s.Best()
	require.True(t, ok)
	assert.Equal(t, "1080p", best.Name)
}

func TestNewSet_Rejects(t *testing.T) {
	testCases := []struct {
		name string
		in   []Quality
	}{
		{"empty name", []Quality{{Name: "", Rank: 1}}},
		{"zero rank", []Quality{{Name: "sd", Rank: 0}}},
		{"negative rank", []Quality{{Name: "sd", Rank: -1}}},
		{"duplicate", []Quality{{Name: "sd", Rank: 1}, {Name: "sd", Rank: 2}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSet(tc.in...)
			assert.Error(t, err)
		})
	}
}

func TestSet_Lookup(t *testing.T) {
	s := MustSet(Quality{Name: "sd", Rank: 1}, Quality{Name: "hd", Rank: 2})

	q, ok := s.Lookup("hd")
	require.True(t, ok)
	assert.Equal(t, 2, q.QualityRank())
	assert.Equal(t, "hd", q.String())

	_, ok = s.Lookup("HD")
	assert.False(t, ok, "lookup is exact")

	_, ok = s.Lookup("xyz")
	assert.False(t, ok)
}

func TestSet_AllReturnsCopy(t *testing.T) {
	s := MustSet(Quality{Name: "sd", Rank: 1})
	all := s.All()
	all[0].Name = "mutated"

	q, ok := s.Lookup("sd")
	require.True(t, ok)
	assert.Equal(t, "sd", s.All()[0].Name)
	assert.Equal(t, "sd", q.Name)
}

func TestEmptySet(t *testing.T) {
	s := MustSet()
	assert.Empty(t, s.All())
	_, ok := s.Best()
	assert.False(t, ok)
}

func TestMustSet_Panics(t *testing.T) {
	assert.Panics(t, func() { MustSet(Quality{Name: "", Rank: 1}) })
}

func TestQuality_Compare(t *testing.T) {
	sd := Quality{Name: "sd", Rank: 1}
	hd := Quality{Name: "hd", Rank: 2}

	assert.Equal(t, -1, sd.Compare(hd))
	assert.Equal(t, 1, hd.Compare(sd))
	assert.Equal(t, 0, hd.Compare(hd))
	assert.True(t, hd.Better(sd))
	assert.False(t, sd.Better(hd))
	assert.False(t, sd.Better(sd))
}

func TestDefault(t *testing.T) {
	d := Default()
	require.Greater(t, d.Len(), 0)

	hdtv, ok := d.Lookup("hdtv")
	require.True(t, ok)
	p1080, ok := d.Lookup("1080p")
	require.True(t, ok)
	assert.True(t, p1080.Better(hdtv))

	var _ Registry = d
}

func TestParse_Valid(t *testing.T) {
	src := []byte(`
qualities: [
	{name: "sd", rank: 1},
	{name: "hd", rank: 2},
	{name: "1080p", rank: 3},
]
`)
	s, err := Parse("test.cue", src)
	require.NoError(t, err)

	assert.Equal(t, 3, s.Len())
	q, ok := s.Lookup("1080p")
	require.True(t, ok)
	assert.Equal(t, 3, q.Rank)
}

func TestParse_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		src  string
	}{
		{"syntax error", `qualities: [`},
		{"missing list", `grades: []`},
		{"unknown field", `qualities: [{name: "sd", rank: 1, extra: true}]`},
		{"string rank", `qualities: [{name: "sd", rank: "1"}]`},
		{"zero rank", `qualities: [{name: "sd", rank: 0}]`},
		{"missing rank", `qualities: [{name: "sd"}]`},
		{"name with separator", `qualities: [{name: "s|d", rank: 1}]`},
		{"duplicate name", `qualities: [{name: "sd", rank: 1}, {name: "sd", rank: 2}]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse("bad.cue", []byte(tc.src))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qualities.cue")
	require.NoError(t, os.WriteFile(path, []byte(`qualities: [{name: "webdl", rank: 5}]`), 0o644))

	s, err := LoadFile(path)
	require.NoError(t, err)
	q, ok := s.Lookup("webdl")
	require.True(t, ok)
	assert.Equal(t, 5, q.Rank)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.cue"))
	assert.Error(t, err)
}

func TestLoadError_Message(t *testing.T) {
	err := &LoadError{Field: "qualities", Message: "qualities is required"}
	assert.Equal(t, "qualities: qualities is required", err.Error())
}
