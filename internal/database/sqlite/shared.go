package sqlite

import (
	"database/sql"
	"fmt"
	"sync"
)

// sharedHandle is a reference-counted *sql.DB reused by cached drivers that
// open the same DSN.
type sharedHandle struct {
	db   *sql.DB
	refs int
}

var shared = struct {
	mu      sync.Mutex
	handles map[string]*sharedHandle
}{handles: make(map[string]*sharedHandle)}

// acquire returns the shared handle for dsn, opening it on first use, and a
// release func that closes it once the last holder lets go.
func acquire(dsn string, serialized bool) (*sql.DB, func() error, error) {
	shared.mu.Lock()
	defer shared.mu.Unlock()

	h, ok := shared.handles[dsn]
	if !ok {
		db, err := open(dsn, serialized)
		if err != nil {
			return nil, nil, err
		}
		h = &sharedHandle{db: db}
		shared.handles[dsn] = h
	}
	h.refs++

	var once sync.Once
	release := func() error {
		var err error
		once.Do(func() {
			shared.mu.Lock()
			defer shared.mu.Unlock()
			h.refs--
			if h.refs > 0 {
				return
			}
			delete(shared.handles, dsn)
			err = h.db.Close()
		})
		return err
	}
	return h.db, release, nil
}

func open(dsn string, serialized bool) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	// Every pooled connection to :memory: would be a separate database.
	if serialized || isMemory(dsn) {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}
