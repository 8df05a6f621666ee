package database

import (
	"context"
	"errors"
)

var (
	// ErrNotConnected is returned by drivers used before Connect or after Close.
	ErrNotConnected = errors.New("not connected")

	// ErrTableNotFound is returned when table introspection yields no columns.
	ErrTableNotFound = errors.New("table not found")
)

// Driver defines the interface for database operations.
// All implementations must be safe for concurrent use.
type Driver interface {
	// Connect establishes a connection to the database.
	Connect(ctx context.Context, dsn string) error

	// Close closes the database connection.
	Close() error

	// Ping checks if the connection is alive.
	Ping(ctx context.Context) error

	// ListTables returns all user table names.
	ListTables(ctx context.Context) ([]string, error)

	// TableInfo returns the column metadata for a table, in declaration order.
	TableInfo(ctx context.Context, table string) (Schema, error)

	// ExecuteQuery runs a SQL statement verbatim and returns its rows.
	ExecuteQuery(ctx context.Context, query string) (*QueryResult, error)

	// DatabaseName returns the name of the connected database.
	DatabaseName() string
}
