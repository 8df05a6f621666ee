package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/joacominatel/sqlcli/internal/database"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

const driverName = "sqlite"

// Driver implements the database.Driver interface for SQLite.
type Driver struct {
	db         *sql.DB
	release    func() error
	dbName     string
	cached     bool
	serialized bool
}

// Option configures a Driver.
type Option func(*Driver)

// WithCache makes drivers opening the same DSN share one handle, closed when
// the last of them is closed.
func WithCache() Option {
	return func(d *Driver) { d.cached = true }
}

// WithSerialized funnels all statements through a single connection.
func WithSerialized() Option {
	return func(d *Driver) { d.serialized = true }
}

// New creates a new SQLite driver.
func New(opts ...Option) *Driver {
	d := &Driver{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Connect opens the database named by dsn, typically built with BuildDSN.
func (d *Driver) Connect(ctx context.Context, dsn string) error {
	var (
		db      *sql.DB
		release func() error
		err     error
	)
	if d.cached {
		db, release, err = acquire(dsn, d.serialized)
	} else {
		db, err = open(dsn, d.serialized)
		if db != nil {
			release = db.Close
		}
	}
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = release()
		return fmt.Errorf("ping: %w", err)
	}

	d.db = db
	d.release = release
	d.dbName = filenameFromDSN(dsn)
	return nil
}

// Close releases the database handle.
func (d *Driver) Close() error {
	if d.release == nil {
		return nil
	}
	err := d.release()
	d.db = nil
	d.release = nil
	return err
}

// Ping checks if the connection is alive.
func (d *Driver) Ping(ctx context.Context) error {
	if d.db == nil {
		return database.ErrNotConnected
	}
	return d.db.PingContext(ctx)
}

// ListTables returns all user table names.
func (d *Driver) ListTables(ctx context.Context) ([]string, error) {
	if d.db == nil {
		return nil, database.ErrNotConnected
	}
	rows, err := d.db.QueryContext(ctx, queryListTables)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// TableInfo returns column metadata for a table using pragma table_info.
// A quoted name ("x", [x], `x`) is looked up by the identifier it denotes.
func (d *Driver) TableInfo(ctx context.Context, table string) (database.Schema, error) {
	if d.db == nil {
		return nil, database.ErrNotConnected
	}
	rows, err := d.db.QueryContext(ctx, queryTableInfo, database.UnquoteIdentifier(table))
	if err != nil {
		return nil, fmt.Errorf("table info: %w", err)
	}
	defer rows.Close()

	var schema database.Schema
	for rows.Next() {
		var (
			col     database.Column
			notNull int
			dflt    sql.NullString
		)
		if err := rows.Scan(&col.OrdinalPos, &col.Name, &col.DataType, &notNull, &dflt, &col.PrimaryKey); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		col.OrdinalPos++ // cid is 0-based
		col.IsNullable = notNull == 0
		if dflt.Valid {
			v := dflt.String
			col.Default = &v
		}
		schema = append(schema, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if len(schema) == 0 {
		return nil, fmt.Errorf("%w: %q", database.ErrTableNotFound, table)
	}
	return schema, nil
}

// ExecuteQuery runs a SQL statement and returns the rows it produced.
func (d *Driver) ExecuteQuery(ctx context.Context, query string) (*database.QueryResult, error) {
	if d.db == nil {
		return nil, database.ErrNotConnected
	}
	start := time.Now()

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	var resultRows []database.Row
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		row := make(database.Row, len(columns))
		for i, c := range columns {
			row[c] = values[i]
		}
		resultRows = append(resultRows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return &database.QueryResult{
		Columns:  columns,
		Rows:     resultRows,
		Duration: time.Since(start),
	}, nil
}

// DatabaseName returns the database filename.
func (d *Driver) DatabaseName() string {
	return d.dbName
}
