// Package sqlcli is a small adapter over an embedded SQL database. It opens a
// connection, runs SQL text verbatim and attaches to every returned row the
// column metadata of the table the statement reads from, cached per
// connection.
//
//	conn, err := sqlcli.CreateConnection(ctx, sqlcli.Options{Database: "app.db"})
//	if err != nil {
//		return err
//	}
//	defer conn.End()
//
//	res, err := conn.Query(ctx, "SELECT * FROM users;")
//	// res.Rows[i] is described by res.Schemas[i]
package sqlcli

import (
	"context"
	"log/slog"

	"github.com/joacominatel/sqlcli/internal/app"
	"github.com/joacominatel/sqlcli/internal/config"
	"github.com/joacominatel/sqlcli/internal/database"
)

// CommentMarker starts a SQL line comment.
const CommentMarker = database.CommentMarker

// OpenFlag is a bitwise-combinable SQLite open mode.
type OpenFlag = database.OpenFlag

// Open modes, passed through to SQLite.
const (
	OpenReadOnly     = database.OpenReadOnly
	OpenReadWrite    = database.OpenReadWrite
	OpenCreate       = database.OpenCreate
	OpenURI          = database.OpenURI
	OpenFullMutex    = database.OpenFullMutex
	OpenSharedCache  = database.OpenSharedCache
	OpenPrivateCache = database.OpenPrivateCache
)

// Drivers accepted by Options.Driver.
const (
	DriverSQLite   = config.DriverSQLite
	DriverPostgres = config.DriverPostgres
)

type (
	// Row maps column names to values.
	Row = database.Row
	// Column is the metadata of one table column.
	Column = database.Column
	// Schema is the ordered column metadata of one table.
	Schema = database.Schema
	// Result holds the rows of a statement and one schema per row.
	Result = app.Result

	// ErrExecution is returned when a statement fails.
	ErrExecution = app.ErrExecution
	// ErrIntrospection is returned when the schema lookup fails.
	ErrIntrospection = app.ErrIntrospection
	// ErrConnection is returned when the database cannot be opened.
	ErrConnection = app.ErrConnection
	// ErrConfig is returned for invalid Options.
	ErrConfig = app.ErrConfig
)

// ErrTableNotFound is wrapped by ErrIntrospection when the derived table name
// is empty or names no table.
var ErrTableNotFound = database.ErrTableNotFound

// Options configures CreateConnection.
type Options struct {
	// Database is the SQLite filename (":memory:" or "" for in-memory) or
	// the PostgreSQL database name.
	Database string
	// Driver is DriverSQLite (default) or DriverPostgres.
	Driver string

	// Host, Port, User and Password are used by DriverPostgres.
	Host     string
	Port     int
	User     string
	Password string

	// Mode is a combination of Open* flags. Zero means
	// OpenReadWrite|OpenCreate.
	Mode OpenFlag
	// Cache shares one database handle between connections to the same
	// file; it is closed when the last of them ends.
	Cache bool

	// Logger receives debug records; nil discards them.
	Logger *slog.Logger
}

// Conn is an open connection with its own schema cache.
type Conn struct {
	session *app.Session
}

// CreateConnection opens the database described by opts.
func CreateConnection(ctx context.Context, opts Options) (*Conn, error) {
	conn := config.Connection{
		Driver:   opts.Driver,
		Host:     opts.Host,
		Port:     opts.Port,
		Database: opts.Database,
		Username: opts.User,
		Password: opts.Password,
		Cache:    opts.Cache,
		Flags:    opts.Mode,
	}
	s, err := app.Open(ctx, conn, opts.Logger)
	if err != nil {
		return nil, err
	}
	return &Conn{session: s}, nil
}

// QueryOption adjusts schema handling for one Query call.
type QueryOption func(*app.QueryOptions)

// ReloadSchema forces the table schema to be fetched again.
func ReloadSchema() QueryOption {
	return func(o *app.QueryOptions) { o.ReloadSchema = true }
}

// WithoutTableCache keeps a freshly fetched schema out of the cache.
func WithoutTableCache() QueryOption {
	return func(o *app.QueryOptions) { o.SkipTableCache = true }
}

// Query runs sqlText and pairs every row with the schema of the table named
// after its first FROM keyword.
func (c *Conn) Query(ctx context.Context, sqlText string, opts ...QueryOption) (*Result, error) {
	var o app.QueryOptions
	for _, opt := range opts {
		opt(&o)
	}
	return c.session.Query(ctx, sqlText, o)
}

// Columns returns the schema of table, through the connection's cache.
func (c *Conn) Columns(ctx context.Context, table string) (Schema, error) {
	return c.session.Columns(ctx, table)
}

// Tables lists the tables of the database.
func (c *Conn) Tables(ctx context.Context) ([]string, error) {
	return c.session.Tables(ctx)
}

// Ping checks that the connection is alive.
func (c *Conn) Ping(ctx context.Context) error {
	return c.session.Ping(ctx)
}

// End closes the connection and drops its schema cache.
func (c *Conn) End() error {
	return c.session.Close()
}
