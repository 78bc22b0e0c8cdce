package core

import (
	"context"
	"fmt"
	"sort"
)

// Engine reconciles a session's tracked edits against the backing table.
// A save resolves the table's key columns, projects the changed rows out of
// the grid, coerces pending date strings, and issues one atomic merge.
// The grid is the single source of truth for what to save; the engine never
// re-reads the backing store.
type Engine struct {
	Store Store
	Keys  KeyResolver

	// ClearOnSave empties the session's changed set after a fully
	// successful merge. Off by default: a saved row is then re-sent on
	// every subsequent save until the session is reset, which keeps saves
	// idempotent from the user's point of view.
	ClearOnSave bool
}

// SaveResult reports the outcome of a successful save.
type SaveResult struct {
	RowsWritten int
	Message     string
}

// Save writes the session's changed rows back to the backing table. On any
// error nothing is assumed committed and the changed set is left untouched
// so the user may retry. There are no automatic retries.
func (e *Engine) Save(ctx context.Context, sess *Session) (SaveResult, error) {
	if sess.Changes().Empty() {
		return SaveResult{Message: "No changes to be saved."}, nil
	}

	keys, err := e.Keys.Resolve(ctx, sess.Table.String())
	if err != nil {
		return SaveResult{}, err
	}
	if len(keys) == 0 {
		return SaveResult{}, fmt.Errorf("%w for %s", ErrNoPrimaryKey, sess.Table)
	}
	for _, k := range keys {
		if sess.Schema.Index(k) < 0 {
			return SaveResult{}, fmt.Errorf("%w: registered key column %q is not in table %s",
				ErrNoPrimaryKey, k, sess.Table)
		}
	}

	indices := sess.Changes().Indices()
	sort.Ints(indices)

	source := make([]Row, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(sess.Grid) {
			return SaveResult{}, fmt.Errorf("%w: %d (grid has %d rows)", ErrIndexOutOfRange, idx, len(sess.Grid))
		}
		row, err := coerceDates(sess.Grid[idx], sess.Schema, idx)
		if err != nil {
			return SaveResult{}, err
		}
		source = append(source, row)
	}

	updateCols := sess.Schema.NonKeyColumns(keys)
	if err := e.Store.MergeUpsert(ctx, sess.Table, sess.Schema, source, keys, updateCols); err != nil {
		return SaveResult{}, &StorageError{Op: "merge", Err: err}
	}

	if e.ClearOnSave {
		sess.Changes().Reset()
	}
	return SaveResult{
		RowsWritten: len(source),
		Message:     "Data was successfully saved!",
	}, nil
}

// coerceDates returns a copy of row with every date-kind cell that still
// holds a display string converted to a typed date. A string that does not
// parse with the fixed layout fails the whole save.
func coerceDates(row Row, schema Schema, rowIdx int) (Row, error) {
	out := row.Clone()
	for i, col := range schema {
		if col.Kind != KindDate || i >= len(out) {
			continue
		}
		cell := out[i]
		if cell.IsNull() || cell.Kind() != KindText {
			continue
		}
		v, err := ParseCell(cell.Str(), KindDate)
		if err != nil {
			return nil, &DateCoercionError{Row: rowIdx, Column: col.Name, Raw: cell.Str(), Err: err}
		}
		out[i] = v
	}
	return out, nil
}
