// Package database stores publication snapshots in SQLite.
//
// The sync command saves a snapshot every time the fetched publications
// differ from the latest stored ones; the history command lists snapshots
// and diffs any two of them.
//
// Design decision: SQLite through modernc.org/sqlite, so the database is a
// single CGO-free file under the XDG data directory. Queries are built with
// squirrel; the schema is created on open.
package database
