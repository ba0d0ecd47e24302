// Package sqlite records run traces in a SQLite database (modernc.org/sqlite,
// no cgo). Each fired movement becomes one row of the trace table.
package sqlite
