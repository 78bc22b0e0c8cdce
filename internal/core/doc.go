// Package core implements the change-tracking and reconciliation engine
// behind the grid editor. It has no UI dependencies.
//
// A load builds a Session: the full grid contents plus a schema of column
// descriptors classified into semantic kinds (numeric, text, boolean,
// date). Edits update the grid in place and record the touched row
// positions in the session's ChangeSet. A save hands the session to the
// Engine, which resolves the table's primary-key columns from the key
// registry, projects exactly the changed rows out of the grid, coerces any
// date cells still holding display strings, and issues one atomic merge
// through the Store boundary: matched rows get their non-key columns
// updated, unmatched rows are inserted whole.
//
// All expected failures are values from the taxonomy in errors.go; callers
// branch with errors.Is/As and render user-facing status lines via
// MapError. Nothing in this package retries or crashes the process.
package core
