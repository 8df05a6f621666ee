package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenFlag_Values(t *testing.T) {
	assert.Equal(t, OpenFlag(0x1), OpenReadOnly)
	assert.Equal(t, OpenFlag(0x2), OpenReadWrite)
	assert.Equal(t, OpenFlag(0x4), OpenCreate)
	assert.Equal(t, OpenFlag(0x40), OpenURI)
	assert.Equal(t, OpenFlag(0x10000), OpenFullMutex)
	assert.Equal(t, OpenFlag(0x20000), OpenSharedCache)
	assert.Equal(t, OpenFlag(0x40000), OpenPrivateCache)
}

func TestOpenFlag_String(t *testing.T) {
	assert.Equal(t, "none", OpenFlag(0).String())
	assert.Equal(t, "readwrite|create", DefaultOpenFlags.String())
	assert.Equal(t, "readonly|0x8", (OpenReadOnly | 0x8).String())
}

func TestParseOpenFlags(t *testing.T) {
	f, err := ParseOpenFlags([]string{"ReadOnly", " sharedcache "})
	require.NoError(t, err)
	assert.Equal(t, OpenReadOnly|OpenSharedCache, f)
	assert.True(t, f.Has(OpenSharedCache))
	assert.False(t, f.Has(OpenReadWrite))

	f, err = ParseOpenFlags(nil)
	require.NoError(t, err)
	assert.Zero(t, f)

	_, err = ParseOpenFlags([]string{"exclusive"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exclusive")
}

func TestSchema_Lookup(t *testing.T) {
	s := Schema{
		{OrdinalPos: 1, Name: "id", PrimaryKey: 1},
		{OrdinalPos: 2, Name: "name"},
	}

	c, ok := s.Column("name")
	require.True(t, ok)
	assert.False(t, c.IsPrimary())

	c, ok = s.Column("id")
	require.True(t, ok)
	assert.True(t, c.IsPrimary())

	_, ok = s.Column("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"id", "name"}, s.Names())
}
