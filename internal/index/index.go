// Package index exports bound symbol tables into a SQLite database so
// declarations can be looked up across files after the run.
package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"tsbind/internal/ast"
	"tsbind/internal/binder"
	"tsbind/internal/source"
	"tsbind/internal/symbols"
)

const schema = `
CREATE TABLE IF NOT EXISTS files (
	id           INTEGER PRIMARY KEY,
	path         TEXT NOT NULL UNIQUE,
	module       TEXT,
	symbol_count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS symbols (
	file_id    INTEGER NOT NULL,
	symbol_id  INTEGER NOT NULL,
	name       TEXT NOT NULL,
	flags      TEXT NOT NULL,
	table_kind TEXT,
	owner      TEXT,
	parent_id  INTEGER,
	export_id  INTEGER,
	PRIMARY KEY (file_id, symbol_id)
);
CREATE INDEX IF NOT EXISTS symbols_by_name ON symbols (name);
CREATE TABLE IF NOT EXISTS declarations (
	file_id   INTEGER NOT NULL,
	symbol_id INTEGER NOT NULL,
	ordinal   INTEGER NOT NULL,
	kind      TEXT NOT NULL,
	line      INTEGER NOT NULL,
	col       INTEGER NOT NULL,
	PRIMARY KEY (file_id, symbol_id, ordinal)
);`

var (
	// ErrClosed is returned by operations on a closed Index.
	ErrClosed = errors.New("index is closed")
	// ErrNoSource means a declaration's text is not in the file set, so its
	// position cannot be stored.
	ErrNoSource = errors.New("source text not in file set")
)

// Index is an open symbol database.
type Index struct {
	db *sql.DB
}

// Open creates or opens the database at path and ensures the schema.
func Open(ctx context.Context, path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", path, err)
	}
	// one writer; sqlite serialises anyway
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create index schema: %w", err)
	}
	return &Index{db: db}, nil
}

func (ix *Index) Close() error {
	if ix == nil || ix.db == nil {
		return nil
	}
	err := ix.db.Close()
	ix.db = nil
	return err
}

// tableSlot says where a symbol is reachable from.
type tableSlot struct {
	kind  string // locals, exports or members
	owner string
}

// slots maps every symbol held by a table of sf to that table. Symbols
// that no table holds, such as anonymous function symbols, are absent.
func slots(sf *binder.SourceFile) map[symbols.SymbolID]tableSlot {
	out := make(map[symbols.SymbolID]tableSlot)
	f := sf.AST
	var visit func(kind, owner string, table *symbols.SymbolTable)
	visit = func(kind, owner string, table *symbols.SymbolTable) {
		table.Each(func(_ source.StringID, id symbols.SymbolID) {
			if _, seen := out[id]; seen {
				return
			}
			out[id] = tableSlot{kind: kind, owner: owner}
			sym := sf.Symbol(id)
			name := sf.Symbols.Name(id)
			if sym.Exports != nil {
				visit("exports", name, sym.Exports)
			}
			if sym.Members != nil {
				visit("members", name, sym.Members)
			}
		})
	}
	if mod := sf.SymbolOf(f.Root); mod.IsValid() {
		out[mod] = tableSlot{}
		visit("exports", sf.Symbols.Name(mod), sf.Symbol(mod).Exports)
	}
	for c := f.Root; c.IsValid(); c = sf.NextContainer(c) {
		if locals := sf.LocalsOf(c); locals != nil {
			visit("locals", containerLabel(f, c), locals)
		}
	}
	return out
}

func containerLabel(f *ast.File, c ast.NodeID) string {
	if name := f.Node(c).Name; name.IsValid() {
		return f.Kind(c).String() + " " + f.DeclarationNameToString(name)
	}
	return f.Kind(c).String()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullableID(id symbols.SymbolID) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(id), Valid: id.IsValid()}
}

// AddFile stores every symbol of a bound file, replacing an earlier copy of
// the same path. fs must hold the file's text.
func (ix *Index) AddFile(ctx context.Context, sf *binder.SourceFile, fs *source.FileSet) (err error) {
	if ix == nil || ix.db == nil {
		return ErrClosed
	}
	if !sf.IsBound() {
		return fmt.Errorf("index %s: file is not bound", sf.AST.Path)
	}
	f := sf.AST
	src := fs.Get(f.Source)
	if src == nil {
		return fmt.Errorf("index %s: %w", f.Path, ErrNoSource)
	}
	path := src.Path

	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("index %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = deleteFile(ctx, tx, path); err != nil {
		return fmt.Errorf("index %s: %w", path, err)
	}
	var module string
	if mod := sf.SymbolOf(f.Root); mod.IsValid() {
		module = sf.Symbols.Name(mod)
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO files (path, module, symbol_count) VALUES (?, ?, ?)`,
		path, nullable(module), sf.SymbolCount)
	if err != nil {
		return fmt.Errorf("index %s: insert file: %w", path, err)
	}
	fileID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("index %s: %w", path, err)
	}

	symStmt, err := tx.PrepareContext(ctx, `INSERT INTO symbols
		(file_id, symbol_id, name, flags, table_kind, owner, parent_id, export_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index %s: %w", path, err)
	}
	defer symStmt.Close()
	declStmt, err := tx.PrepareContext(ctx, `INSERT INTO declarations
		(file_id, symbol_id, ordinal, kind, line, col) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index %s: %w", path, err)
	}
	defer declStmt.Close()

	where := slots(sf)
	sf.Symbols.Symbols.Each(func(id symbols.SymbolID, sym *symbols.Symbol) {
		if err != nil {
			return
		}
		slot := where[id]
		if _, err = symStmt.ExecContext(ctx, fileID, int64(id), sf.Symbols.Name(id), sym.Flags.String(),
			nullable(slot.kind), nullable(slot.owner), nullableID(sym.Parent), nullableID(sym.ExportSymbol)); err != nil {
			err = fmt.Errorf("index %s: insert symbol %d: %w", path, id, err)
			return
		}
		for i, decl := range sym.Declarations {
			span := nameSpan(f, decl)
			if span.File != src.ID {
				err = fmt.Errorf("index %s: declaration %d of %s: %w", path, decl, sf.Symbols.Name(id), ErrNoSource)
				return
			}
			start := src.Position(span.Start)
			if _, err = declStmt.ExecContext(ctx, fileID, int64(id), i, f.Kind(decl).String(), start.Line, start.Col); err != nil {
				err = fmt.Errorf("index %s: insert declaration: %w", path, err)
				return
			}
		}
	})
	if err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("index %s: commit: %w", path, err)
	}
	return nil
}

func deleteFile(ctx context.Context, tx *sql.Tx, path string) error {
	var id int64
	switch err := tx.QueryRowContext(ctx, `SELECT id FROM files WHERE path = ?`, path).Scan(&id); {
	case errors.Is(err, sql.ErrNoRows):
		return nil
	case err != nil:
		return err
	}
	for _, stmt := range []string{
		`DELETE FROM declarations WHERE file_id = ?`,
		`DELETE FROM symbols WHERE file_id = ?`,
		`DELETE FROM files WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return err
		}
	}
	return nil
}

// nameSpan is where a declaration is reported: its name when it has one.
func nameSpan(f *ast.File, decl ast.NodeID) source.Span {
	n := f.Node(decl)
	if name := f.Node(n.Name); name != nil {
		return name.Span
	}
	return n.Span
}
