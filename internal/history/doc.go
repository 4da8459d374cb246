// Package history records the totals of past scans in a SQLite database.
//
// A run is stored only when the user asks for it (--record). The history
// lets a project track whether its TODO debt grows or shrinks over time
// without keeping full reports around.
//
// The database lives at $XDG_DATA_HOME/todolint/history.db by default and is
// opened through modernc.org/sqlite, so no cgo toolchain is required.
package history
