// Package store provides the SQLite-backed series catalog.
//
// Rows are plain structs whose Raw* fields mirror the columns. Typed views
// over those fields come from the column and attr packages:
//   - Series.Genres: pipe-delimited list
//   - Series.Premiered: YYYY-MM-DD date, with a queryable year
//   - Series.Schedule: sanitized blob
//   - Series.Name: compared ignoring case, in Go and in SQL
//   - Release.Quality: ranked by the configured quality registry
//
// # Queries
//
// Reads are built as queryir trees and compiled by querysql. Every query
// ends with id COLLATE BINARY ASC so equal sort keys come back in
// insertion order (ids are UUIDv7).
//
// # Sessions
//
// Every operation takes a session.Session. Pass nil to run in a
// transaction of its own; pass one from Store.Begin to group several
// operations and commit them together.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Releases are deleted with their series
package store
