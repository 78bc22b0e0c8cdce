package core

import (
	"context"
	"log/slog"
)

// Loader builds editing sessions: it fetches a table's schema and full
// contents in one pass and derives the grid's column definitions.
type Loader struct {
	Store Store
	Keys  KeyResolver
}

// Load fetches the named table and returns a fresh session over it. Any
// backend failure is wrapped as a LoadError naming the table; no partial
// grid is ever returned.
func (l Loader) Load(ctx context.Context, name string) (*Session, error) {
	table, err := ParseTableName(name)
	if err != nil {
		return nil, err
	}
	schema, rows, err := l.Store.GetTable(ctx, table)
	if err != nil {
		return nil, &LoadError{Table: name, Err: err}
	}
	return NewSession(table, schema, rows), nil
}

// ColumnDef is the grid-facing definition of one column.
type ColumnDef struct {
	HeaderName string `json:"headerName"`
	Field      string `json:"field"`
	Editable   bool   `json:"editable"`
	Type       string `json:"type"`
	Filter     bool   `json:"filter"`
	Keyed      bool   `json:"keyed"`
}

// ColumnDefs derives the grid column definitions for a session. Key columns
// are marked non-editable and flagged for visual distinction. A failed key
// lookup degrades to "no key columns known" so the table still displays; the
// save path re-resolves keys and enforces them strictly.
func (l Loader) ColumnDefs(ctx context.Context, sess *Session) []ColumnDef {
	keys, err := l.Keys.Resolve(ctx, sess.Table.String())
	if err != nil {
		slog.Warn("key lookup failed, rendering without key columns",
			"table", sess.Table.String(),
			"error", err,
		)
		keys = nil
	}
	sess.Schema.MarkKeys(keys)

	defs := make([]ColumnDef, len(sess.Schema))
	for i, col := range sess.Schema {
		defs[i] = ColumnDef{
			HeaderName: col.Name,
			Field:      col.Name,
			Editable:   !col.IsKey,
			Type:       col.Kind.GridType(),
			Filter:     true,
			Keyed:      col.IsKey,
		}
	}
	return defs
}
