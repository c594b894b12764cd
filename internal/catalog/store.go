// Package catalog persists which tables were declared into which schema, in
// SQLite. Records outlive the process, so a later run can hand tables
// declared earlier to templates that need them as upstream tables.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/vk/schematemplate/internal/catalog/migrations"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by Get for an unknown table.
var ErrNotFound = errors.New("table not found in catalog")

// Record is one declared table. It implements binding.Table.
type Record struct {
	Schema      string
	Name        string
	StorageName string
	Tier        string
	Definition  string
	Parents     []string
	DeclaredAt  time.Time
}

// TableName implements binding.Table.
func (r Record) TableName() string { return r.Name }

// Store is the SQLite-backed catalog.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the catalog at path and applies pending migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("catalog path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Record inserts or replaces the record for (rec.Schema, rec.Name).
func (s *Store) Record(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(rec.Schema) == "" || strings.TrimSpace(rec.Name) == "" {
		return fmt.Errorf("schema and table name are required")
	}
	if rec.DeclaredAt.IsZero() {
		rec.DeclaredAt = time.Now()
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO declared_tables (schema_name, table_name, storage_name, tier, definition, parents, declared_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (schema_name, table_name) DO UPDATE SET
    storage_name = excluded.storage_name,
    tier = excluded.tier,
    definition = excluded.definition,
    parents = excluded.parents,
    declared_at = excluded.declared_at`,
		rec.Schema, rec.Name, rec.StorageName, rec.Tier, rec.Definition,
		strings.Join(rec.Parents, ","), rec.DeclaredAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record table %s.%s: %w", rec.Schema, rec.Name, err)
	}
	return nil
}

// Get returns one record.
func (s *Store) Get(ctx context.Context, schema, name string) (Record, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT schema_name, table_name, storage_name, tier, definition, parents, declared_at
FROM declared_tables WHERE schema_name = ? AND table_name = ?`, schema, name)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%s.%s: %w", schema, name, ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("get table %s.%s: %w", schema, name, err)
	}
	return rec, nil
}

// ListTables returns every record of schema in declaration order.
func (s *Store) ListTables(ctx context.Context, schema string) ([]Record, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT schema_name, table_name, storage_name, tier, definition, parents, declared_at
FROM declared_tables WHERE schema_name = ?
ORDER BY declared_at, rowid`, schema)
	if err != nil {
		return nil, fmt.Errorf("list tables of %s: %w", schema, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		rec        Record
		parents    string
		declaredAt int64
	)
	if err := row.Scan(&rec.Schema, &rec.Name, &rec.StorageName, &rec.Tier, &rec.Definition, &parents, &declaredAt); err != nil {
		return Record{}, err
	}
	if parents != "" {
		rec.Parents = strings.Split(parents, ",")
	}
	rec.DeclaredAt = time.UnixMilli(declaredAt).UTC()
	return rec, nil
}
