package schema

import (
	"sync"

	"github.com/joacominatel/sqlcli/internal/database"
)

// Cache maps table names, verbatim as derived by TableName, to their schema.
// It has no eviction; entries live until Clear.
//
// Concurrent callers may each miss on a cold key and store equivalent values;
// the last write wins.
type Cache struct {
	mu      sync.RWMutex
	schemas map[string]database.Schema
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{schemas: make(map[string]database.Schema)}
}

// Get returns the cached schema for table.
func (c *Cache) Get(table string) (database.Schema, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.schemas[table]
	return s, ok
}

// Put stores schema for table, replacing any previous entry.
func (c *Cache) Put(table string, schema database.Schema) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.schemas[table] = schema
}

// Len returns the number of cached tables.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.schemas)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.schemas)
}
