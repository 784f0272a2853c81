package tests

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/castelan/accountd/src/accountd/account"
	"github.com/castelan/accountd/src/accountd/db"
)

// =============================================================================
// Database Tests
// =============================================================================

func TestDatabase_New(t *testing.T) {
	database, err := db.New(db.Config{
		PersistPath: "",
		LoadOnStart: false,
	})
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	defer database.Shutdown()

	if database.DB() == nil {
		t.Fatal("expected DB() to return non-nil connection")
	}
}

func TestDatabase_Settings(t *testing.T) {
	database, err := db.New(db.Config{
		PersistPath: "",
		LoadOnStart: false,
	})
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	defer database.Shutdown()

	if err := database.SetSetting("test_key", "test_value"); err != nil {
		t.Fatalf("failed to set setting: %v", err)
	}

	value, err := database.GetSetting("test_key")
	if err != nil {
		t.Fatalf("failed to get setting: %v", err)
	}
	if value != "test_value" {
		t.Fatalf("expected 'test_value', got '%s'", value)
	}

	// Upsert overwrites
	if err := database.SetSetting("test_key", "updated_value"); err != nil {
		t.Fatalf("failed to update setting: %v", err)
	}

	value, err = database.GetSetting("test_key")
	if err != nil {
		t.Fatalf("failed to get updated setting: %v", err)
	}
	if value != "updated_value" {
		t.Fatalf("expected 'updated_value', got '%s'", value)
	}
}

func TestDatabase_PersistAndReload(t *testing.T) {
	persistPath := filepath.Join(t.TempDir(), "accountd.db")

	database, err := db.New(db.Config{
		PersistPath: persistPath,
		LoadOnStart: false,
	})
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}

	store := account.NewStore(database.DB())
	user := account.NewUser("persisted@example.com", "P", "hash", account.RoleAdmin)
	if err := store.CreateUser(user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	if err := database.SetSetting("jwt_secret", "abc123"); err != nil {
		t.Fatalf("failed to set setting: %v", err)
	}

	// Shutdown persists to disk
	if err := database.Shutdown(); err != nil {
		t.Fatalf("failed to shutdown database: %v", err)
	}
	if _, err := os.Stat(persistPath); err != nil {
		t.Fatalf("expected database file on disk: %v", err)
	}

	// A fresh instance loads the persisted state
	reloaded, err := db.New(db.Config{
		PersistPath: persistPath,
		LoadOnStart: true,
	})
	if err != nil {
		t.Fatalf("failed to reload database: %v", err)
	}
	defer reloaded.Shutdown()

	reloadedStore := account.NewStore(reloaded.DB())
	got, err := reloadedStore.GetUserByEmail("persisted@example.com")
	if err != nil {
		t.Fatalf("failed to fetch persisted user: %v", err)
	}
	if got.ID != user.ID || got.Role != account.RoleAdmin {
		t.Fatalf("persisted user mismatch: %+v", got)
	}

	secret, err := reloaded.GetSetting("jwt_secret")
	if err != nil {
		t.Fatalf("failed to fetch persisted setting: %v", err)
	}
	if secret != "abc123" {
		t.Fatalf("expected persisted secret 'abc123', got %q", secret)
	}
}

func TestDatabase_ShutdownIdempotent(t *testing.T) {
	database, err := db.New(db.Config{
		PersistPath: "",
		LoadOnStart: false,
	})
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}

	if err := database.Shutdown(); err != nil {
		t.Fatalf("first shutdown failed: %v", err)
	}
	if err := database.Shutdown(); err != nil {
		t.Fatalf("second shutdown should be a no-op, got: %v", err)
	}
}
