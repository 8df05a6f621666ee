package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/joacominatel/sqlcli/internal/database"
	"github.com/joacominatel/sqlcli/internal/schema"
)

// QueryOptions tunes schema handling for a single Query call.
// The zero value reuses cached schemas and caches fresh ones.
type QueryOptions struct {
	// ReloadSchema re-runs introspection even when the table is cached.
	ReloadSchema bool
	// SkipTableCache keeps a freshly fetched schema out of the cache.
	SkipTableCache bool
}

// Result pairs the rows of a statement with the schema of the table it read.
type Result struct {
	Columns []string
	Rows    []database.Row
	// Schemas has one entry per row, all the same shared descriptor.
	Schemas  []database.Schema
	Table    string
	Duration time.Duration
}

// Schema returns the descriptor shared by all rows, or nil for no rows.
func (r *Result) Schema() database.Schema {
	if len(r.Schemas) == 0 {
		return nil
	}
	return r.Schemas[0]
}

// Session couples a driver with the schema cache that lives as long as its
// connection.
type Session struct {
	driver database.Driver
	cache  *schema.Cache
	log    *slog.Logger
	id     string
}

// NewSession creates a session over driver. A nil logger discards output.
func NewSession(driver database.Driver, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	id := uuid.NewString()
	return &Session{
		driver: driver,
		cache:  schema.NewCache(),
		log:    logger.With(slog.String("session", id)),
		id:     id,
	}
}

// ID returns the session identifier used in log records.
func (s *Session) ID() string {
	return s.id
}

// Connect establishes a database connection.
func (s *Session) Connect(ctx context.Context, dsn string) error {
	if err := s.driver.Connect(ctx, dsn); err != nil {
		return &ErrConnection{Cause: err}
	}
	s.log.Debug("connected", slog.String("database", s.driver.DatabaseName()))
	return nil
}

// Close closes the database connection and drops the schema cache.
func (s *Session) Close() error {
	s.cache.Clear()
	s.log.Debug("closed")
	return s.driver.Close()
}

// Ping checks if the connection is alive.
func (s *Session) Ping(ctx context.Context) error {
	if err := s.driver.Ping(ctx); err != nil {
		return &ErrConnection{Cause: err}
	}
	return nil
}

// Query executes query verbatim, then attaches the schema of the table named
// after its first "from" to every row. See schema.TableName for how the name
// is derived.
//
// A failing statement returns *ErrExecution. A failing schema lookup,
// including an empty or unknown table name, returns *ErrIntrospection; the
// statement has already run by then.
func (s *Session) Query(ctx context.Context, query string, opts QueryOptions) (*Result, error) {
	res, err := s.driver.ExecuteQuery(ctx, query)
	if err != nil {
		return nil, &ErrExecution{Query: query, Cause: err}
	}
	s.log.Debug("executed", slog.Int("rows", len(res.Rows)), slog.Duration("duration", res.Duration))

	table := schema.TableName(query)
	desc, err := s.tableSchema(ctx, table, opts)
	if err != nil {
		return nil, err
	}

	schemas := make([]database.Schema, len(res.Rows))
	for i := range schemas {
		schemas[i] = desc
	}

	return &Result{
		Columns:  res.Columns,
		Rows:     res.Rows,
		Schemas:  schemas,
		Table:    table,
		Duration: res.Duration,
	}, nil
}

// Columns returns the schema of table, through the session cache.
func (s *Session) Columns(ctx context.Context, table string) (database.Schema, error) {
	return s.tableSchema(ctx, table, QueryOptions{})
}

// Tables lists the tables of the connected database.
func (s *Session) Tables(ctx context.Context) ([]string, error) {
	tables, err := s.driver.ListTables(ctx)
	if err != nil {
		return nil, &ErrExecution{Cause: err}
	}
	return tables, nil
}

// CachedTables returns the number of tables whose schema is cached.
func (s *Session) CachedTables() int {
	return s.cache.Len()
}

// DatabaseName returns the current database name.
func (s *Session) DatabaseName() string {
	return s.driver.DatabaseName()
}

func (s *Session) tableSchema(ctx context.Context, table string, opts QueryOptions) (database.Schema, error) {
	if !opts.ReloadSchema {
		if desc, ok := s.cache.Get(table); ok {
			s.log.Debug("schema cache hit", slog.String("table", table))
			return desc, nil
		}
	}

	if table == "" {
		return nil, &ErrIntrospection{Table: table, Cause: database.ErrTableNotFound}
	}

	desc, err := s.driver.TableInfo(ctx, table)
	if err != nil {
		return nil, &ErrIntrospection{Table: table, Cause: err}
	}
	s.log.Debug("schema loaded",
		slog.String("table", table),
		slog.Int("columns", len(desc)),
		slog.Bool("cached", !opts.SkipTableCache),
	)

	if !opts.SkipTableCache {
		s.cache.Put(table, desc)
	}
	return desc, nil
}
