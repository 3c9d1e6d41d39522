// Package postgres implements store.Store on a PostgreSQL database.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBPool defines the interface for database connection pool
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements store.Store using a pgx connection pool
type PostgresStore struct {
	pool DBPool
}

// Options configuration for Postgres connection
type Options struct {
	ConnString string
}

// New creates a new Postgres store
func New(ctx context.Context, opts Options) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// NewWithPool creates a new Postgres store with an existing pool.
// Useful for testing with mocks.
func NewWithPool(pool DBPool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Execute runs a query and returns columns, rows and any execution error
func (s *PostgresStore) Execute(ctx context.Context, query string) ([]string, []map[string]any, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, field := range fields {
		columns[i] = field.Name
	}

	var result []map[string]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, nil, err
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = normalizeValue(values[i])
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return columns, result, nil
}

// Schema returns public table names mapped to their column names
func (s *PostgresStore) Schema(ctx context.Context) (map[string][]string, error) {
	query := `
		SELECT table_name, column_name
		FROM information_schema.columns
		WHERE table_schema = 'public'
		ORDER BY table_name, ordinal_position
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect schema: %w", err)
	}
	defer rows.Close()

	schema := make(map[string][]string)
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return nil, fmt.Errorf("failed to scan schema row: %w", err)
		}
		schema[table] = append(schema[table], column)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return schema, nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// normalizeValue converts driver byte slices to strings so row values are
// comparable and JSON-friendly
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
