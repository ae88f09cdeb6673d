package attr

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dbattr/internal/compare"
	"github.com/roach88/dbattr/internal/quality"
	"github.com/roach88/dbattr/internal/queryir"
	"github.com/roach88/dbattr/internal/querysql"
)

var registry = quality.MustSet(
	quality.Quality{Name: "sd", Rank: 1},
	quality.Quality{Name: "hd", Rank: 2},
	quality.Quality{Name: "1080p", Rank: 3},
)

func TestQuality_GetSet(t *testing.T) {
	var raw sql.NullString
	a := Quality{Raw: &raw, Column: "quality", Registry: registry}

	_, ok := a.Get()
	assert.False(t, ok)

	a.Set(quality.Quality{Name: "hd", Rank: 2})
	assert.Equal(t, "hd", raw.String, "only the name is stored")

	q, ok := a.Get()
	require.True(t, ok)
	assert.Equal(t, quality.Quality{Name: "hd", Rank: 2}, q)

	a.SetName("vhs")
	q, ok = a.Get()
	require.True(t, ok)
	assert.Equal(t, quality.Quality{Name: "vhs", Rank: 0}, q)

	a.Clear()
	_, ok = a.Get()
	assert.False(t, ok)
}

func TestQuality_RowComparison(t *testing.T) {
	raw := sql.NullString{String: "hd", Valid: true}
	a := Quality{Raw: &raw, Column: "quality", Registry: registry}

	q, ok := a.Get()
	require.True(t, ok)
	sd, _ := registry.Lookup("sd")
	assert.True(t, q.Better(sd))
}

func TestQuality_Comparator(t *testing.T) {
	a := Quality{Raw: &sql.NullString{}, Column: "releases.quality", Registry: registry}

	c := a.Comparator()
	assert.Equal(t, queryir.Col("releases.quality"), c.Column)

	expr, err := c.Operate(queryir.Gt, "sd")
	require.NoError(t, err)

	sql, args, err := querysql.NewSQLCompiler().CompileExpr(expr)
	require.NoError(t, err)
	assert.Equal(t, "CASE releases.quality WHEN ? THEN ? WHEN ? THEN ? WHEN ? THEN ? ELSE ? END > ?", sql)
	assert.Equal(t, []any{"sd", int64(1), "hd", int64(2), "1080p", int64(3), int64(0), int64(1)}, args)
}

func TestIgnoreCase(t *testing.T) {
	var raw sql.NullString
	a := IgnoreCase{Raw: &raw, Column: "name"}

	assert.Equal(t, compare.Fold(""), a.Get())

	a.Set("The Expanse")
	assert.Equal(t, "The Expanse", raw.String, "stored text keeps its case")
	assert.True(t, a.Get().Equal("the expanse"))

	out, err := compare.Operate(queryir.Eq, a.Get(), "THE EXPANSE")
	require.NoError(t, err)
	assert.Equal(t, compare.Bool(true), out)

	out, err = compare.Operate(queryir.Eq, a.Expr(), "THE EXPANSE")
	require.NoError(t, err)
	assert.IsType(t, compare.Predicate{}, out)
}

func TestYear_Get(t *testing.T) {
	var raw sql.NullTime
	a := Year{Raw: &raw, Column: "premiered"}

	_, ok := a.Get()
	assert.False(t, ok)

	raw = sql.NullTime{Time: time.Date(2015, 11, 23, 0, 0, 0, 0, time.UTC), Valid: true}
	year, ok := a.Get()
	require.True(t, ok)
	assert.Equal(t, 2015, year)
}

func TestYear_ExprMatchesRowValue(t *testing.T) {
	db, err := sql.Open(querysql.DriverName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE series (id TEXT PRIMARY KEY, premiered DATE)`)
	require.NoError(t, err)
	dates := map[string]time.Time{
		"a": time.Date(2015, 11, 23, 0, 0, 0, 0, time.UTC),
		"b": time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
		"c": time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for id, d := range dates {
		_, err = db.Exec(`INSERT INTO series (id, premiered) VALUES (?, ?)`, id, d)
		require.NoError(t, err)
	}

	a := Year{Column: "premiered"}
	query, args, err := querysql.NewSQLCompiler().Compile(queryir.Select{
		From:    "series",
		Columns: []string{"id", "premiered"},
		Filter:  queryir.Compare{Op: queryir.Eq, Left: a.Expr(), Right: queryir.Lit(2015)},
	})
	require.NoError(t, err)

	rows, err := db.Query(query, args...)
	require.NoError(t, err)
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		var premiered sql.NullTime
		require.NoError(t, rows.Scan(&id, &premiered))

		year, ok := Year{Raw: &premiered}.Get()
		require.True(t, ok)
		assert.Equal(t, 2015, year)
		ids = append(ids, id)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"a", "c"}, ids)
}

func TestYear_NonUTCZoneMatchesSQL(t *testing.T) {
	db, err := sql.Open(querysql.DriverName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE series (id TEXT PRIMARY KEY, premiered DATE)`)
	require.NoError(t, err)

	ts := time.Date(2021, 1, 1, 0, 30, 0, 0, time.FixedZone("+14", 14*3600))
	_, err = db.Exec(`INSERT INTO series (id, premiered) VALUES (?, ?)`, "a", ts)
	require.NoError(t, err)

	a := Year{Raw: &sql.NullTime{Time: ts, Valid: true}, Column: "premiered"}
	year, ok := a.Get()
	require.True(t, ok)
	assert.Equal(t, 2020, year)

	sqlText, args, err := querysql.NewSQLCompiler().CompileExpr(a.Expr())
	require.NoError(t, err)

	var sqlYear int
	require.NoError(t, db.QueryRow("SELECT "+sqlText+" FROM series", args...).Scan(&sqlYear))
	assert.Equal(t, year, sqlYear)
}
