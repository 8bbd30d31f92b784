// Package storetest opens throwaway SQLite-backed stores for tests.
package storetest

import (
	"path/filepath"

	"github.com/productivity-engines/website/core/store"
	"github.com/productivity-engines/website/db"
)

// New creates a migrated store in dir.
func New(dir string) (*store.Store, error) {
	conn, err := db.Connect(filepath.Join(dir, "test.db"))
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(conn); err != nil {
		return nil, err
	}
	return store.New(conn), nil
}
