// Package testutil provides shared test helpers for setting up
// snapshot databases.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/herald/internal/store"
)

// TestStore creates a temporary SQLite snapshot store that is
// automatically cleaned up.
func TestStore(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "herald-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
