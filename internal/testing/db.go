// Package testing provides test helpers shared across finsight packages.
package testing

import (
	"path/filepath"
	"testing"

	"github.com/aristath/finsight/internal/clientdata"
	"github.com/aristath/finsight/internal/database"
)

// NewTestDB creates a migrated SQLite database in a per-test temporary
// directory. It is closed when the test finishes.
//
// Supported schema names:
//   - "client_data" - applies client_data_schema.sql
//   - Unknown names - creates empty database (no schema applied)
func NewTestDB(t *testing.T, name string) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), name+".db"),
		Profile: database.ProfileCache,
		Name:    name,
	})
	if err != nil {
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database %s: %v", name, err)
		}
	})

	if err := db.Migrate(); err != nil {
		t.Fatalf("Failed to migrate test database %s: %v", name, err)
	}

	return db
}

// NewCacheRepo returns a provider response cache backed by a fresh
// client_data database.
func NewCacheRepo(t *testing.T) *clientdata.Repository {
	t.Helper()
	return clientdata.NewRepository(NewTestDB(t, "client_data").Conn())
}
