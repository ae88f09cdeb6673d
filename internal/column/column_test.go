package column

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dbattr/internal/ir"
	"github.com/roach88/dbattr/internal/sanitize"
)

func TestDelimitedList_Get(t *testing.T) {
	testCases := []struct {
		name string
		raw  sql.NullString
		want []string
	}{
		{"null", sql.NullString{}, nil},
		{"empty", sql.NullString{String: "", Valid: true}, nil},
		{"only separators", sql.NullString{String: "|||", Valid: true}, nil},
		{"single", sql.NullString{String: "Drama", Valid: true}, []string{"Drama"}},
		{"several", sql.NullString{String: "Drama|Sci-Fi|Thriller", Valid: true}, []string{"Drama", "Sci-Fi", "Thriller"}},
		{"outer separators trimmed", sql.NullString{String: "|Drama|Comedy|", Valid: true}, []string{"Drama", "Comedy"}},
		{"inner empty kept", sql.NullString{String: "a||b", Valid: true}, []string{"a", "", "b"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			raw := tc.raw
			assert.Equal(t, tc.want, PipeList(&raw).Get())
		})
	}
}

func TestDelimitedList_Set(t *testing.T) {
	var raw sql.NullString
	list := PipeList(&raw)

	list.Set([]string{"Drama", "Sci-Fi"})
	assert.Equal(t, sql.NullString{String: "Drama|Sci-Fi", Valid: true}, raw)

	list.SetRaw("|verbatim|")
	assert.Equal(t, "|verbatim|", raw.String, "single text is stored as-is")

	list.Clear()
	assert.False(t, raw.Valid)
}

func TestDelimitedList_RoundTrip(t *testing.T) {
	lists := [][]string{
		{"one"},
		{"Drama", "Sci-Fi", "Mystery"},
		{"with space", "x"},
	}

	for _, parts := range lists {
		var raw sql.NullString
		list := PipeList(&raw)
		list.Set(parts)
		first := list.Get()

		list.Set(first)
		assert.Equal(t, first, list.Get())
		assert.Equal(t, parts, first)
	}
}

func TestDelimitedList_CustomSeparator(t *testing.T) {
	raw := sql.NullString{String: ",a,b,", Valid: true}
	list := DelimitedList{Raw: &raw, Sep: ","}

	assert.Equal(t, []string{"a", "b"}, list.Get())

	list.Set([]string{"x", "y"})
	assert.Equal(t, "x,y", raw.String)
}

func TestTextDate_SetText(t *testing.T) {
	var raw sql.NullTime
	date := TextDate{Raw: &raw}

	require.NoError(t, date.SetText("2020-01-15"))

	got, ok := date.Get()
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2020, got.Year())
	assert.Equal(t, time.January, got.Month())
	assert.Equal(t, 15, got.Day())
}

func TestTextDate_SetTextRejectsOtherLayouts(t *testing.T) {
	original := time.Date(1999, 3, 3, 0, 0, 0, 0, time.UTC)
	raw := sql.NullTime{Time: original, Valid: true}
	date := TextDate{Raw: &raw}

	for _, in := range []string{"15-01-2020", "2020/01/15", "2020-01-15T10:00:00", "", "2020-13-01", "yesterday"} {
		err := date.SetText(in)
		require.Error(t, err, "input %q", in)
		assert.True(t, IsFormatError(err))

		var fe *FormatError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, in, fe.Input)
		assert.Equal(t, DateLayout, fe.Layout)
		assert.NotNil(t, fe.Unwrap())
	}

	got, ok := date.Get()
	require.True(t, ok)
	assert.True(t, got.Equal(original), "failed parse must not modify the column")
}

func TestTextDate_SetTimeAndClear(t *testing.T) {
	var raw sql.NullTime
	date := TextDate{Raw: &raw}

	_, ok := date.Get()
	assert.False(t, ok)

	ts := time.Date(2015, 9, 14, 21, 30, 0, 0, time.UTC)
	date.SetTime(ts)
	got, ok := date.Get()
	require.True(t, ok)
	assert.Equal(t, ts, got)

	date.Clear()
	_, ok = date.Get()
	assert.False(t, ok)
}

func TestTextDate_SetTimeStoresUTC(t *testing.T) {
	var raw sql.NullTime
	date := TextDate{Raw: &raw}

	ts := time.Date(2021, 1, 1, 0, 30, 0, 0, time.FixedZone("+14", 14*3600))
	date.SetTime(ts)

	got, ok := date.Get()
	require.True(t, ok)
	assert.True(t, got.Equal(ts))
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, 2020, got.Year())
}

func TestSanitizedBlob_SetGet(t *testing.T) {
	var raw []byte
	blob := SanitizedBlob{Raw: &raw}

	v, err := blob.Get()
	require.NoError(t, err)
	assert.Nil(t, v)

	schedule := map[string]any{
		"days": []string{"Tuesday"},
		"time": "21:00",
		"bad":  struct{ X int }{1},
	}
	require.NoError(t, blob.Set(schedule))
	assert.NotEmpty(t, raw)

	got, err := blob.Get()
	require.NoError(t, err)
	assert.True(t, ir.Equal(ir.Map{
		"days": ir.List{ir.String("Tuesday")},
		"time": ir.String("21:00"),
	}, got))
}

func TestSanitizedBlob_SetUnsupportedTopLevel(t *testing.T) {
	raw := []byte(`{"t":"str","v":"kept"}`)
	blob := SanitizedBlob{Raw: &raw}

	err := blob.Set(struct{ Name string }{"x"})
	require.Error(t, err)
	assert.True(t, sanitize.IsUnsupportedType(err))

	got, err := blob.Get()
	require.NoError(t, err)
	assert.Equal(t, ir.String("kept"), got, "failed write must not modify the column")
}

func TestSanitizedBlob_SetRejectsLossyText(t *testing.T) {
	raw := []byte(`{"t":"str","v":"kept"}`)
	blob := SanitizedBlob{Raw: &raw}

	err := blob.Set("a\xffb")
	require.Error(t, err)
	assert.True(t, sanitize.IsUnsupportedType(err))

	err = blob.Set(time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.True(t, sanitize.IsUnsupportedType(err))

	got, err := blob.Get()
	require.NoError(t, err)
	assert.Equal(t, ir.String("kept"), got)
}

func TestSanitizedBlob_GetCorrupt(t *testing.T) {
	raw := []byte(`{"t":"widget","v":1}`)
	blob := SanitizedBlob{Raw: &raw}

	_, err := blob.Get()
	assert.Error(t, err)

	blob.Clear()
	v, err := blob.Get()
	require.NoError(t, err)
	assert.Nil(t, v)
}
