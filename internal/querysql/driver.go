package querysql

import (
	"database/sql"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/dbattr/internal/queryir"
)

// DriverName is the database/sql driver compiled queries must run on. It is
// the sqlite3 driver with the functions the compiler renders registered on
// every connection.
const DriverName = "sqlite3_dbattr"

// lowerFunc renders queryir.Lower. SQLite's own LOWER only folds ASCII.
const lowerFunc = "dbattr_lower"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc(lowerFunc, sqlLower, true)
		},
	})
}

// sqlLower is lowerFunc. NULL stays NULL and non-text values pass through.
func sqlLower(v any) any {
	switch s := v.(type) {
	case string:
		return queryir.LowerText(s)
	case []byte:
		if s == nil {
			return nil
		}
		return queryir.LowerText(string(s))
	default:
		return v
	}
}
