package core

import "context"

// KeyResolver looks up the declared primary-key columns for a table in the
// key registry table. The registry holds one row per key column with
// table_catalog, table_schema, table_name and column_name fields, matching
// the target by case-sensitive equality on all three name parts.
type KeyResolver struct {
	Store    Store
	Registry TableName
}

// Resolve returns the key column names for the named table in
// storage-return order. A table with no registry rows resolves to an empty
// list and a nil error; callers decide whether that is fatal (a save) or a
// degraded display (column defs).
func (r KeyResolver) Resolve(ctx context.Context, name string) ([]string, error) {
	target, err := ParseTableName(name)
	if err != nil {
		return nil, err
	}
	keys, err := r.Store.KeyColumns(ctx, r.Registry, target)
	if err != nil {
		return nil, &StorageError{Op: "key lookup", Err: err}
	}
	return keys, nil
}
