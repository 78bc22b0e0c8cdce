// Package store implements the core.Store boundary on PostgreSQL via pgx.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/avdw/planagrid/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx operations the store needs. Satisfied by both
// *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres is the pgx-backed storage backend.
type Postgres struct {
	db DBTX

	// MaxRows caps how many rows a single load may return. Zero means no
	// cap.
	MaxRows int
}

// NewPostgres returns a store over the given pool or transaction.
func NewPostgres(db DBTX) *Postgres {
	return &Postgres{db: db}
}

// GetTable loads the schema and full contents of the named table in one
// pass. The schema comes from information_schema.columns in ordinal order;
// rows are scanned into typed cells per column kind.
func (p *Postgres) GetTable(ctx context.Context, table core.TableName) (core.Schema, []core.Row, error) {
	schema, err := p.tableSchema(ctx, table)
	if err != nil {
		return nil, nil, err
	}

	cols := make([]string, len(schema))
	for i, c := range schema {
		cols[i] = core.QuoteIdent(c.Name)
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), table.Quoted())
	if p.MaxRows > 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, p.MaxRows)
	}

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("select %s: %w", table, err)
	}
	defer rows.Close()

	var grid []core.Row
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, nil, fmt.Errorf("scan %s: %w", table, err)
		}
		row := make(core.Row, len(schema))
		for i := range schema {
			var raw any
			if i < len(vals) {
				raw = vals[i]
			}
			row[i] = core.ScanValue(raw, schema[i].Kind)
		}
		grid = append(grid, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", table, err)
	}
	return schema, grid, nil
}

// tableSchema introspects the table's columns. A table with no columns in
// information_schema does not exist from the grid's point of view.
func (p *Postgres) tableSchema(ctx context.Context, table core.TableName) (core.Schema, error) {
	rows, err := p.db.Query(ctx, `
		SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_catalog = $1 AND table_schema = $2 AND table_name = $3
		ORDER BY ordinal_position`,
		table.Catalog, table.Schema, table.Table)
	if err != nil {
		return nil, fmt.Errorf("introspect %s: %w", table, err)
	}
	defer rows.Close()

	var schema core.Schema
	for rows.Next() {
		var name, dbType, nullable string
		if err := rows.Scan(&name, &dbType, &nullable); err != nil {
			return nil, fmt.Errorf("introspect %s: %w", table, err)
		}
		schema = append(schema, core.ColumnDescriptor{
			Name:     name,
			DBType:   dbType,
			Kind:     core.Classify(dbType),
			Nullable: strings.EqualFold(nullable, "yes"),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("introspect %s: %w", table, err)
	}
	if len(schema) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}
	return schema, nil
}

// KeyColumns reads the registered primary-key column names for the target
// table from the key registry, preserving storage-return order.
func (p *Postgres) KeyColumns(ctx context.Context, registry, target core.TableName) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT column_name FROM %s
		WHERE table_catalog = $1 AND table_schema = $2 AND table_name = $3`,
		registry.Quoted())

	rows, err := p.db.Query(ctx, query, target.Catalog, target.Schema, target.Table)
	if err != nil {
		return nil, fmt.Errorf("key registry %s: %w", registry, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("key registry %s: %w", registry, err)
		}
		keys = append(keys, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("key registry %s: %w", registry, err)
	}
	return keys, nil
}

// MergeUpsert writes the source rows with a single MERGE statement: rows
// matching on every key column get their update columns set from the source,
// rows with no match are inserted whole. One statement, so the backend
// commits all rows or none.
func (p *Postgres) MergeUpsert(ctx context.Context, target core.TableName, schema core.Schema, source []core.Row, matchCols, updateCols []string) error {
	if len(source) == 0 {
		return nil
	}
	if len(matchCols) == 0 {
		return fmt.Errorf("merge into %s: no match columns", target)
	}

	query, args := buildMerge(target, schema, source, matchCols, updateCols)
	slog.Debug("merge",
		"table", target.String(),
		"rows", len(source),
		"match", strings.Join(matchCols, ","),
	)

	tag, err := p.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("merge into %s: %w", target, err)
	}
	if tag.RowsAffected() < int64(len(source)) {
		slog.Warn("merge affected fewer rows than sent",
			"table", target.String(),
			"sent", len(source),
			"affected", tag.RowsAffected(),
		)
	}
	return nil
}

// buildMerge renders the MERGE statement and its bind arguments. Source rows
// become a VALUES list with every cell cast to its column's declared type so
// nulls and dates bind unambiguously.
func buildMerge(target core.TableName, schema core.Schema, source []core.Row, matchCols, updateCols []string) (string, []any) {
	cols := schema.Columns()
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = core.QuoteIdent(c)
	}

	var b strings.Builder
	args := make([]any, 0, len(source)*len(cols))

	b.WriteString("MERGE INTO ")
	b.WriteString(target.Quoted())
	b.WriteString(" AS target USING (VALUES ")
	arg := 1
	for r, row := range source {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for i, col := range schema {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", arg)
			if cast := castType(col.DBType); cast != "" {
				b.WriteString("::")
				b.WriteString(cast)
			}
			arg++
			var cell core.Value
			if i < len(row) {
				cell = row[i]
			}
			args = append(args, cell.Bind())
		}
		b.WriteByte(')')
	}
	b.WriteString(") AS source (")
	b.WriteString(strings.Join(quoted, ", "))
	b.WriteString(") ON ")
	for i, k := range matchCols {
		if i > 0 {
			b.WriteString(" AND ")
		}
		q := core.QuoteIdent(k)
		b.WriteString("target." + q + " = source." + q)
	}
	if len(updateCols) > 0 {
		b.WriteString(" WHEN MATCHED THEN UPDATE SET ")
		for i, c := range updateCols {
			if i > 0 {
				b.WriteString(", ")
			}
			q := core.QuoteIdent(c)
			b.WriteString(q + " = source." + q)
		}
	} else {
		// Every column is a key; a matched row has nothing to update.
		b.WriteString(" WHEN MATCHED THEN DO NOTHING")
	}
	b.WriteString(" WHEN NOT MATCHED THEN INSERT (")
	b.WriteString(strings.Join(quoted, ", "))
	b.WriteString(") VALUES (")
	for i, c := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("source." + core.QuoteIdent(c))
	}
	b.WriteString(")")

	return b.String(), args
}

// castType returns the SQL type to cast a bound source value to, or "" when
// the declared type is not usable in a cast expression.
func castType(dbType string) string {
	t := strings.ToLower(strings.TrimSpace(dbType))
	switch t {
	case "", "array", "user-defined":
		return ""
	}
	return t
}
