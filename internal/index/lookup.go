package index

import (
	"context"
	"database/sql"
	"fmt"
)

// Declaration is one declaration site of an indexed symbol.
type Declaration struct {
	File   string
	Symbol string
	Flags  string
	// Table is locals, exports or members; empty for symbols no table holds.
	Table string
	Owner string
	Kind  string
	Line  int
	Col   int
}

// Lookup returns every declaration of a symbol called name, ordered by file
// and position.
func (ix *Index) Lookup(ctx context.Context, name string) ([]Declaration, error) {
	if ix == nil || ix.db == nil {
		return nil, ErrClosed
	}
	rows, err := ix.db.QueryContext(ctx, `
		SELECT f.path, s.name, s.flags, s.table_kind, s.owner, d.kind, d.line, d.col
		FROM symbols s
		JOIN files f ON f.id = s.file_id
		JOIN declarations d ON d.file_id = s.file_id AND d.symbol_id = s.symbol_id
		WHERE s.name = ?
		ORDER BY f.path, d.line, d.col, s.table_kind`, name)
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w", name, err)
	}
	defer rows.Close()

	var out []Declaration
	for rows.Next() {
		var (
			d            Declaration
			table, owner sql.NullString
		)
		if err := rows.Scan(&d.File, &d.Symbol, &d.Flags, &table, &owner, &d.Kind, &d.Line, &d.Col); err != nil {
			return nil, fmt.Errorf("lookup %q: %w", name, err)
		}
		d.Table, d.Owner = table.String, owner.String
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lookup %q: %w", name, err)
	}
	return out, nil
}

// Stats counts the indexed files and symbols.
func (ix *Index) Stats(ctx context.Context) (files, syms int, err error) {
	if ix == nil || ix.db == nil {
		return 0, 0, ErrClosed
	}
	err = ix.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM files), (SELECT COUNT(*) FROM symbols)`).Scan(&files, &syms)
	if err != nil {
		return 0, 0, fmt.Errorf("index stats: %w", err)
	}
	return files, syms, nil
}
