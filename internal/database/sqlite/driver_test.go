package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/joacominatel/sqlcli/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ database.Driver = (*Driver)(nil)

const seedSQL = `
CREATE TABLE users (
	id    INTEGER PRIMARY KEY,
	name  TEXT NOT NULL,
	email TEXT DEFAULT 'none',
	avatar BLOB
)`

func tempDSN(t *testing.T, flags database.OpenFlag) string {
	t.Helper()
	return BuildDSN(filepath.Join(t.TempDir(), "test.db"), flags)
}

func connect(t *testing.T, dsn string, opts ...Option) *Driver {
	t.Helper()
	d := New(opts...)
	require.NoError(t, d.Connect(context.Background(), dsn))
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func exec(t *testing.T, d *Driver, query string) {
	t.Helper()
	_, err := d.ExecuteQuery(context.Background(), query)
	require.NoError(t, err)
}

func TestDriver_ExecuteQuery(t *testing.T) {
	d := connect(t, tempDSN(t, 0))
	exec(t, d, seedSQL)
	exec(t, d, `INSERT INTO users (id, name, avatar) VALUES (1, 'ada', x'00ff'), (2, 'bob', NULL)`)

	res, err := d.ExecuteQuery(context.Background(), "SELECT id, name, email, avatar FROM users ORDER BY id")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "email", "avatar"}, res.Columns)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, int64(1), res.Rows[0]["id"])
	assert.Equal(t, "ada", res.Rows[0]["name"])
	assert.Equal(t, "none", res.Rows[0]["email"])
	assert.Equal(t, []byte{0x00, 0xff}, res.Rows[0]["avatar"])
	assert.Nil(t, res.Rows[1]["avatar"])
}

func TestDriver_ExecuteQuery_Errors(t *testing.T) {
	d := connect(t, tempDSN(t, 0))
	exec(t, d, seedSQL)

	_, err := d.ExecuteQuery(context.Background(), "SELEC * FROM users")
	require.Error(t, err)

	_, err = d.ExecuteQuery(context.Background(), "SELECT * FROM missing")
	require.Error(t, err)

	_, err = d.ExecuteQuery(context.Background(), "INSERT INTO users (id) VALUES (1)")
	require.Error(t, err, "name is NOT NULL")
}

func TestDriver_TableInfo(t *testing.T) {
	d := connect(t, tempDSN(t, 0))
	exec(t, d, seedSQL)

	schema, err := d.TableInfo(context.Background(), "users")
	require.NoError(t, err)
	require.Len(t, schema, 4)

	id := schema[0]
	assert.Equal(t, 1, id.OrdinalPos)
	assert.Equal(t, "id", id.Name)
	assert.Equal(t, "INTEGER", id.DataType)
	assert.Equal(t, 1, id.PrimaryKey)
	assert.Nil(t, id.Default)

	name := schema[1]
	assert.False(t, name.IsNullable)
	assert.False(t, name.IsPrimary())

	email := schema[2]
	assert.True(t, email.IsNullable)
	require.NotNil(t, email.Default)
	assert.Equal(t, "'none'", *email.Default)

	assert.Equal(t, []string{"id", "name", "email", "avatar"}, schema.Names())
}

func TestDriver_TableInfo_NotFound(t *testing.T) {
	d := connect(t, tempDSN(t, 0))

	for _, table := range []string{"missing", "", "(SELECT"} {
		_, err := d.TableInfo(context.Background(), table)
		require.Error(t, err)
		assert.True(t, errors.Is(err, database.ErrTableNotFound), "table %q: %v", table, err)
	}
}

func TestDriver_ListTables(t *testing.T) {
	d := connect(t, tempDSN(t, 0))
	exec(t, d, seedSQL)
	exec(t, d, "CREATE TABLE audit (id INTEGER)")

	tables, err := d.ListTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"audit", "users"}, tables)
}

func TestDriver_Memory(t *testing.T) {
	d := connect(t, BuildDSN("", 0))
	exec(t, d, seedSQL)

	// A single pooled connection keeps the in-memory database visible.
	_, err := d.TableInfo(context.Background(), "users")
	require.NoError(t, err)
	assert.Equal(t, ":memory:", d.DatabaseName())
}

func TestDriver_ReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ro.db")

	// read-only does not create the file
	err := New().Connect(context.Background(), BuildDSN(path, database.OpenReadOnly))
	require.Error(t, err)

	rw := New()
	require.NoError(t, rw.Connect(context.Background(), BuildDSN(path, 0)))
	exec(t, rw, seedSQL)
	require.NoError(t, rw.Close())

	ro := connect(t, BuildDSN(path, database.OpenReadOnly))
	_, err = ro.ExecuteQuery(context.Background(), "INSERT INTO users (id, name) VALUES (1, 'x')")
	require.Error(t, err)

	res, err := ro.ExecuteQuery(context.Background(), "SELECT COUNT(*) AS n FROM users")
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Rows[0]["n"])
}

func TestDriver_Close(t *testing.T) {
	d := New()
	require.NoError(t, d.Connect(context.Background(), tempDSN(t, 0)))
	require.NoError(t, d.Ping(context.Background()))
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())

	assert.ErrorIs(t, d.Ping(context.Background()), database.ErrNotConnected)
	_, err := d.ExecuteQuery(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, database.ErrNotConnected)
	_, err = d.TableInfo(context.Background(), "users")
	assert.ErrorIs(t, err, database.ErrNotConnected)
}

func TestDriver_CacheSharesHandle(t *testing.T) {
	dsn := tempDSN(t, 0)

	a := New(WithCache())
	require.NoError(t, a.Connect(context.Background(), dsn))
	b := New(WithCache())
	require.NoError(t, b.Connect(context.Background(), dsn))
	assert.Same(t, a.db, b.db)

	plain := connect(t, dsn)
	assert.NotSame(t, a.db, plain.db)

	shared.mu.Lock()
	assert.Equal(t, 2, shared.handles[dsn].refs)
	shared.mu.Unlock()

	require.NoError(t, a.Close())
	require.NoError(t, b.Ping(context.Background()), "handle stays open for the remaining holder")

	require.NoError(t, b.Close())
	shared.mu.Lock()
	_, ok := shared.handles[dsn]
	shared.mu.Unlock()
	assert.False(t, ok)
}

func TestDriver_Serialized(t *testing.T) {
	d := connect(t, tempDSN(t, 0), WithSerialized())
	assert.Equal(t, 1, d.db.Stats().MaxOpenConnections)
}

func TestDriver_TableInfo_QuotedNames(t *testing.T) {
	d := connect(t, tempDSN(t, 0))
	exec(t, d, `CREATE TABLE "order" (id INTEGER PRIMARY KEY, total REAL)`)
	exec(t, d, `CREATE TABLE "odd""name" (v TEXT)`)

	tests := []struct {
		table string
		want  []string
	}{
		{"order", []string{"id", "total"}},
		{`"order"`, []string{"id", "total"}},
		{"[order]", []string{"id", "total"}},
		{"`order`", []string{"id", "total"}},
		{"'order'", []string{"id", "total"}},
		{`"odd""name"`, []string{"v"}},
	}
	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			schema, err := d.TableInfo(context.Background(), tt.table)
			require.NoError(t, err)
			assert.Equal(t, tt.want, schema.Names())
		})
	}

	_, err := d.TableInfo(context.Background(), `"order`)
	assert.ErrorIs(t, err, database.ErrTableNotFound)
}
