package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joacominatel/sqlcli/internal/config"
	"github.com/joacominatel/sqlcli/internal/database"
	"github.com/joacominatel/sqlcli/internal/database/postgres"
	"github.com/joacominatel/sqlcli/internal/database/sqlite"
)

// NewDriver picks the driver for a connection profile.
func NewDriver(conn config.Connection) (database.Driver, error) {
	switch conn.DriverName() {
	case config.DriverSQLite:
		flags, err := conn.OpenFlags()
		if err != nil {
			return nil, err
		}
		var opts []sqlite.Option
		if conn.Cache {
			opts = append(opts, sqlite.WithCache())
		}
		if flags.Has(database.OpenFullMutex) {
			opts = append(opts, sqlite.WithSerialized())
		}
		return sqlite.New(opts...), nil
	case config.DriverPostgres:
		return postgres.New(), nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", conn.Driver)
	}
}

// Open builds the driver for conn, connects it and returns a fresh session.
func Open(ctx context.Context, conn config.Connection, logger *slog.Logger) (*Session, error) {
	driver, err := NewDriver(conn)
	if err != nil {
		return nil, &ErrConfig{Cause: err}
	}
	dsn, err := conn.DSN()
	if err != nil {
		return nil, &ErrConfig{Cause: err}
	}

	s := NewSession(driver, logger)
	if err := s.Connect(ctx, dsn); err != nil {
		return nil, err
	}
	return s, nil
}
