package core

import "context"

// Store is the boundary to the backing tabular storage. It is satisfied by
// the Postgres implementation in internal/store and by test fakes.
type Store interface {
	// GetTable returns the schema and full contents of the named table in
	// one pass. Row cells are aligned with the returned schema.
	GetTable(ctx context.Context, table TableName) (Schema, []Row, error)

	// KeyColumns queries the key registry table for the primary-key column
	// names of the target table, filtering on its catalog, schema and table
	// name with case-sensitive equality. Returns the names in
	// storage-return order; zero rows means no keys are known.
	KeyColumns(ctx context.Context, registry, target TableName) ([]string, error)

	// MergeUpsert issues a single atomic merge against the target table:
	// source rows matching on every matchCol update the updateCols, rows
	// with no match are inserted whole. The backend either commits the
	// whole merge or reports a failure for the whole call.
	MergeUpsert(ctx context.Context, target TableName, schema Schema, source []Row, matchCols, updateCols []string) error
}
