// Package store defines the relational backend interface the copilot
// submits generated queries to.
package store

import "context"

// Store is a read-mostly relational backend. Implementations must be safe
// for sequential use from a single pipeline run; concurrent runs must
// serialize query submissions unless the backend supports concurrent reads.
type Store interface {
	// Execute runs a query and returns the result columns in selection
	// order plus one map per row. A query error is returned as err; the
	// caller decides whether to repair and resubmit.
	Execute(ctx context.Context, query string) (columns []string, rows []map[string]any, err error)

	// Schema returns a mapping from table name to its column names in
	// definition order.
	Schema(ctx context.Context) (map[string][]string, error)

	// Close releases the underlying connection.
	Close() error
}
