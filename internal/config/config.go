package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/joacominatel/sqlcli/internal/database"
	"github.com/joacominatel/sqlcli/internal/database/sqlite"
)

// Supported driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config represents the application configuration.
type Config struct {
	Connections []Connection `mapstructure:"connections" yaml:"connections"`
	Preferences Preferences  `mapstructure:"preferences" yaml:"preferences"`
}

// Connection represents a saved database connection profile.
type Connection struct {
	Name     string `mapstructure:"name" yaml:"name"`
	Driver   string `mapstructure:"driver" yaml:"driver"`
	Host     string `mapstructure:"host" yaml:"host,omitempty"`
	Port     int    `mapstructure:"port" yaml:"port,omitempty"`
	Database string `mapstructure:"database" yaml:"database"`
	Username string `mapstructure:"username" yaml:"username,omitempty"`
	Password string `mapstructure:"password" yaml:"password,omitempty"`
	SSLMode  string `mapstructure:"sslmode" yaml:"sslmode,omitempty"`
	// Mode lists SQLite open modes by name, e.g. [readonly, sharedcache].
	Mode []string `mapstructure:"mode" yaml:"mode,omitempty"`
	// Cache shares one handle between connections to the same file.
	Cache bool `mapstructure:"cache" yaml:"cache,omitempty"`

	// Flags are extra open flags set programmatically, combined with Mode.
	Flags database.OpenFlag `mapstructure:"-" yaml:"-"`
}

// Preferences holds user preferences.
type Preferences struct {
	DefaultConnection string `mapstructure:"default_connection" yaml:"default_connection"`
	ReloadSchema      bool   `mapstructure:"reload_schema" yaml:"reload_schema"`
	UseTableCache     bool   `mapstructure:"use_table_cache" yaml:"use_table_cache"`
}

// DriverName returns the profile's driver, defaulting to SQLite.
func (c Connection) DriverName() string {
	if c.Driver == "" {
		return DriverSQLite
	}
	return strings.ToLower(c.Driver)
}

// OpenFlags combines Flags with the named Mode entries.
func (c Connection) OpenFlags() (database.OpenFlag, error) {
	f, err := database.ParseOpenFlags(c.Mode)
	if err != nil {
		return 0, err
	}
	return f | c.Flags, nil
}

// DSN builds the driver connection string from the connection profile.
func (c Connection) DSN() (string, error) {
	switch c.DriverName() {
	case DriverSQLite:
		flags, err := c.OpenFlags()
		if err != nil {
			return "", err
		}
		return sqlite.BuildDSN(c.Database, flags), nil
	case DriverPostgres:
		return c.postgresDSN(), nil
	default:
		return "", fmt.Errorf("unsupported driver %q", c.Driver)
	}
}

func (c Connection) postgresDSN() string {
	u := url.URL{Scheme: "postgresql", Path: "/" + c.Database}
	if c.Username != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.Username, c.Password)
		} else {
			u.User = url.User(c.Username)
		}
	}
	u.Host = c.Host
	if c.Port > 0 {
		u.Host += ":" + strconv.Itoa(c.Port)
	}
	if c.SSLMode != "" {
		u.RawQuery = "sslmode=" + url.QueryEscape(c.SSLMode)
	}
	return u.String()
}

// DisplayString returns a human-readable summary of the connection.
func (c Connection) DisplayString() string {
	if c.DriverName() == DriverSQLite {
		if c.Database == "" {
			return "sqlite::memory:"
		}
		return "sqlite:" + c.Database
	}
	s := c.Host
	if c.Port > 0 {
		s += ":" + strconv.Itoa(c.Port)
	}
	s += "/" + c.Database
	if c.Username != "" {
		s = c.Username + "@" + s
	}
	return s
}

// ParseTarget turns a command-line target into a Connection. PostgreSQL
// URLs select the postgres driver; anything else is a SQLite filename.
func ParseTarget(target string) (Connection, error) {
	if strings.HasPrefix(target, "postgres://") || strings.HasPrefix(target, "postgresql://") {
		return ParseDSN(target)
	}
	conn := Connection{
		Driver:   DriverSQLite,
		Database: target,
		Name:     "sqlite-" + target,
	}
	if strings.HasPrefix(target, "file:") {
		conn.Flags = database.OpenURI
	}
	return conn, nil
}

// ParseDSN parses a PostgreSQL connection string into a Connection.
func ParseDSN(dsn string) (Connection, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return Connection{}, fmt.Errorf("invalid DSN: %w", err)
	}

	conn := Connection{
		Driver:   DriverPostgres,
		Host:     u.Hostname(),
		Database: strings.TrimPrefix(u.Path, "/"),
		SSLMode:  u.Query().Get("sslmode"),
	}

	if u.User != nil {
		conn.Username = u.User.Username()
		if p, ok := u.User.Password(); ok {
			conn.Password = p
		}
	}

	if portStr := u.Port(); portStr != "" {
		conn.Port, _ = strconv.Atoi(portStr)
	}
	if conn.Port == 0 {
		conn.Port = 5432
	}

	conn.Name = fmt.Sprintf("postgres-%s-%d-%s", conn.Host, conn.Port, conn.Database)

	return conn, nil
}

// Connection returns the profile with the given name.
func (cfg *Config) Connection(name string) (*Connection, bool) {
	for i := range cfg.Connections {
		if cfg.Connections[i].Name == name {
			return &cfg.Connections[i], true
		}
	}
	return nil, false
}

// HasConnection checks if a connection with the given name already exists.
func (cfg *Config) HasConnection(name string) bool {
	_, ok := cfg.Connection(name)
	return ok
}

// AddConnection appends a connection if it doesn't already exist.
func (cfg *Config) AddConnection(conn Connection) {
	if !cfg.HasConnection(conn.Name) {
		cfg.Connections = append(cfg.Connections, conn)
	}
}
