package account

import (
	"database/sql"
	"fmt"
	"sync"
	"testing"

	"github.com/castelan/accountd/src/common/errors"
	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	// Use shared cache mode for in-memory database to allow concurrent access
	db, err := sql.Open("sqlite3", "file::memory:?cache=shared&_busy_timeout=5000")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)

	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
	CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);
	`

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		db.Exec("DELETE FROM users")
		db.Close()
	})

	return db
}

func TestStore_CreateUser(t *testing.T) {
	store := NewStore(setupTestDB(t))

	user := NewUser("alice@example.com", "Alice", "hashedpass", RoleUser)
	if err := store.CreateUser(user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	got, err := store.GetUserByEmail("alice@example.com")
	if err != nil {
		t.Fatalf("failed to fetch user: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected id %q, got %q", user.ID, got.ID)
	}
	if got.Role != RoleUser {
		t.Fatalf("expected role %q, got %q", RoleUser, got.Role)
	}
}

func TestStore_CreateUser_DuplicateEmail(t *testing.T) {
	store := NewStore(setupTestDB(t))

	first := NewUser("same@example.com", "First", "hashedpass", RoleUser)
	if err := store.CreateUser(first); err != nil {
		t.Fatalf("failed to create first user: %v", err)
	}

	second := NewUser("same@example.com", "Second", "hashedpass", RoleUser)
	err := store.CreateUser(second)
	if !errors.Is(err, errors.ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got: %v", err)
	}
}

func TestStore_CreateUser_ConcurrentDuplicates(t *testing.T) {
	store := NewStore(setupTestDB(t))

	const numGoroutines = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	successCount := 0

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			user := NewUser("race@example.com", "Racer", "hashedpass", RoleUser)
			if err := store.CreateUser(user); err == nil {
				mu.Lock()
				successCount++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	if successCount != 1 {
		t.Fatalf("expected exactly one signup to win, got %d", successCount)
	}
}

func TestStore_GetUserByEmail_NotFound(t *testing.T) {
	store := NewStore(setupTestDB(t))

	_, err := store.GetUserByEmail("ghost@example.com")
	if !errors.Is(err, errors.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got: %v", err)
	}
}

func TestStore_GetUserByID_NotFound(t *testing.T) {
	store := NewStore(setupTestDB(t))

	_, err := store.GetUserByID("no-such-id")
	if !errors.Is(err, errors.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got: %v", err)
	}
}

func TestStore_ListUsers(t *testing.T) {
	store := NewStore(setupTestDB(t))

	for i := 0; i < 3; i++ {
		user := NewUser(fmt.Sprintf("user%d@example.com", i), "", "hashedpass", RoleUser)
		if err := store.CreateUser(user); err != nil {
			t.Fatalf("failed to create user %d: %v", i, err)
		}
	}

	users, err := store.ListUsers()
	if err != nil {
		t.Fatalf("failed to list users: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
}

func TestStore_HasAdminUser(t *testing.T) {
	store := NewStore(setupTestDB(t))

	hasAdmin, err := store.HasAdminUser()
	if err != nil {
		t.Fatalf("failed to check for admin: %v", err)
	}
	if hasAdmin {
		t.Fatal("expected no admin in empty store")
	}

	plain := NewUser("plain@example.com", "", "hashedpass", RoleUser)
	if err := store.CreateUser(plain); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	hasAdmin, err = store.HasAdminUser()
	if err != nil {
		t.Fatalf("failed to check for admin: %v", err)
	}
	if hasAdmin {
		t.Fatal("expected no admin with only plain users")
	}

	admin := NewUser("admin@example.com", "", "hashedpass", RoleAdmin)
	if err := store.CreateUser(admin); err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}

	hasAdmin, err = store.HasAdminUser()
	if err != nil {
		t.Fatalf("failed to check for admin: %v", err)
	}
	if !hasAdmin {
		t.Fatal("expected admin to be detected")
	}
}

func TestStore_CountUsers(t *testing.T) {
	store := NewStore(setupTestDB(t))

	count, err := store.CountUsers()
	if err != nil {
		t.Fatalf("failed to count users: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 users, got %d", count)
	}

	user := NewUser("one@example.com", "", "hashedpass", RoleAdmin)
	if err := store.CreateUser(user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	count, err = store.CountUsers()
	if err != nil {
		t.Fatalf("failed to count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 user, got %d", count)
	}
}
