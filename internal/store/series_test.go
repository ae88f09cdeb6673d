package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dbattr/internal/ir"
)

func TestAddSeries_RoundTripsVirtualAttributes(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	series := newSeries("The Expanse")
	series.Genres().Set([]string{"Drama", "Sci-Fi"})
	require.NoError(t, series.Premiered().SetText("2015-11-23"))
	require.NoError(t, series.Schedule().Set(map[string]any{
		"days":    []string{"Wednesday"},
		"time":    "22:00",
		"network": struct{ Name string }{"Syfy"}, // dropped
	}))
	series.Status = sql.NullString{String: "Ended", Valid: true}

	require.NoError(t, s.AddSeries(ctx, nil, series))
	require.NotEmpty(t, series.ID, "an ID is assigned")

	got, err := s.GetSeries(ctx, nil, series.ID)
	require.NoError(t, err)

	assert.Equal(t, "The Expanse", got.Name().Get().String())
	assert.Equal(t, []string{"Drama", "Sci-Fi"}, got.Genres().Get())
	assert.Equal(t, "Drama|Sci-Fi", got.RawGenres.String)

	premiered, ok := got.Premiered().Get()
	require.True(t, ok)
	assert.Equal(t, "2015-11-23", premiered.Format("2006-01-02"))

	year, ok := got.PremieredYear().Get()
	require.True(t, ok)
	assert.Equal(t, 2015, year)

	schedule, err := got.Schedule().Get()
	require.NoError(t, err)
	assert.True(t, ir.Equal(ir.Map{
		"days": ir.List{ir.String("Wednesday")},
		"time": ir.String("22:00"),
	}, schedule))

	assert.Equal(t, "Ended", got.Status.String)
	assert.False(t, got.LastUpdate.Valid)
}

func TestAddSeries_NullAttributes(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	series := newSeries("Unknown")
	require.NoError(t, s.AddSeries(ctx, nil, series))

	got, err := s.GetSeries(ctx, nil, series.ID)
	require.NoError(t, err)

	assert.Nil(t, got.Genres().Get())
	_, ok := got.Premiered().Get()
	assert.False(t, ok)
	schedule, err := got.Schedule().Get()
	require.NoError(t, err)
	assert.Nil(t, schedule)
}

func TestAddSeries_DuplicateID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first := newSeries("A")
	first.ID = "fixed"
	require.NoError(t, s.AddSeries(ctx, nil, first))

	second := newSeries("B")
	second.ID = "fixed"
	assert.Error(t, s.AddSeries(ctx, nil, second))
}

func TestGetSeries_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.GetSeries(context.Background(), nil, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestFindSeries_IgnoresCase(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"The Expanse", "Dark", "the expanse"} {
		require.NoError(t, s.AddSeries(ctx, nil, newSeries(name)))
	}

	found, err := s.FindSeries(ctx, nil, "THE EXPANSE")
	require.NoError(t, err)
	require.Len(t, found, 2)
	for _, series := range found {
		assert.True(t, series.Name().Get().Equal("The Expanse"))
	}

	found, err = s.FindSeries(ctx, nil, "Nope")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestFindSeries_NonASCIIName(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Élite", "Elite", "Ölüm"} {
		require.NoError(t, s.AddSeries(ctx, nil, newSeries(name)))
	}

	for _, query := range []string{"Élite", "élite", "ÉLITE"} {
		found, err := s.FindSeries(ctx, nil, query)
		require.NoError(t, err)
		require.Len(t, found, 1, query)
		assert.Equal(t, "Élite", found[0].RawName.String)
		assert.True(t, found[0].Name().Get().Equal(query))
	}

	found, err := s.FindSeries(ctx, nil, "ölüm")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Ölüm", found[0].RawName.String)
}

func TestSeriesPremieredIn(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	dates := map[string]string{
		"Dark":        "2017-12-01",
		"The Expanse": "2015-11-23",
		"Mr. Robot":   "2015-06-24",
		"Westworld":   "2016-10-02",
		"Better Call": "2015-02-08",
	}
	for name, date := range dates {
		series := newSeries(name)
		require.NoError(t, series.Premiered().SetText(date))
		require.NoError(t, s.AddSeries(ctx, nil, series))
	}
	// No premiere date: never matches
	require.NoError(t, s.AddSeries(ctx, nil, newSeries("Untitled")))

	found, err := s.SeriesPremieredIn(ctx, nil, 2015)
	require.NoError(t, err)

	var names []string
	for _, series := range found {
		year, ok := series.PremieredYear().Get()
		require.True(t, ok)
		assert.Equal(t, 2015, year, "row and query views agree")
		names = append(names, series.Name().Get().String())
	}
	assert.Equal(t, []string{"Better Call", "Mr. Robot", "The Expanse"}, names, "ordered by name ignoring case")
}

func TestSeriesPremieredIn_ZonedTime(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	series := newSeries("Kiribati Nights")
	series.Premiered().SetTime(time.Date(2021, 1, 1, 0, 30, 0, 0, time.FixedZone("+14", 14*3600)))
	require.NoError(t, s.AddSeries(ctx, nil, series))

	year, ok := series.PremieredYear().Get()
	require.True(t, ok)
	assert.Equal(t, 2020, year)

	found, err := s.SeriesPremieredIn(ctx, nil, year)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, series.ID, found[0].ID)

	found, err = s.SeriesPremieredIn(ctx, nil, 2021)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestTouchSeries(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	series := newSeries("Dark")
	require.NoError(t, s.AddSeries(ctx, nil, series))

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.TouchSeries(ctx, nil, series.ID, now))

	got, err := s.GetSeries(ctx, nil, series.ID)
	require.NoError(t, err)
	require.True(t, got.LastUpdate.Valid)
	assert.True(t, got.LastUpdate.Time.Equal(now))

	assert.ErrorIs(t, s.TouchSeries(ctx, nil, "missing", now), sql.ErrNoRows)
}

func TestSeries_Expired(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name       string
		lastUpdate sql.NullTime
		want       bool
	}{
		{"never updated", sql.NullTime{}, true},
		{"just updated", sql.NullTime{Time: now, Valid: true}, false},
		{"six days", sql.NullTime{Time: now.Add(-6 * 24 * time.Hour), Valid: true}, false},
		{"exactly interval", sql.NullTime{Time: now.Add(-DefaultUpdateInterval), Valid: true}, false},
		{"eight days", sql.NullTime{Time: now.Add(-8 * 24 * time.Hour), Valid: true}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			series := Series{LastUpdate: tc.lastUpdate}
			assert.Equal(t, tc.want, series.Expired(now, DefaultUpdateInterval))
		})
	}
}

func TestSession_SharedAcrossOperations(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	sess, err := s.Begin(ctx)
	require.NoError(t, err)
	defer sess.Close()

	series := newSeries("Dark")
	require.NoError(t, s.AddSeries(ctx, sess, series))

	// Visible inside the session before commit
	found, err := s.FindSeries(ctx, sess, "dark")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	require.NoError(t, sess.Commit())
}
