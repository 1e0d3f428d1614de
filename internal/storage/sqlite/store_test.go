package sqlite

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/julianstephens/dailyquest/internal/storage"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestInitCreatesSchema(t *testing.T) {
	store := setupTestStore(t)

	for _, table := range []string{"kv", "schema_version", "KV"} {
		exists, err := store.tableExists(table)
		if err != nil {
			t.Fatalf("tableExists(%q) error: %v", table, err)
		}
		if !exists {
			t.Errorf("tableExists(%q) = false, want true", table)
		}
	}

	pending, err := store.PendingMigrations()
	if err != nil {
		t.Fatalf("PendingMigrations() error: %v", err)
	}
	if pending != 0 {
		t.Errorf("PendingMigrations() = %d, want 0", pending)
	}
}

func TestGetSet(t *testing.T) {
	store := setupTestStore(t)

	if _, ok, err := store.Get("missing"); err != nil || ok {
		t.Errorf("Get(missing) = ok %v, err %v; want absent", ok, err)
	}

	if err := store.Set("daily-quests-last-visit", "2024-01-05"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := store.Set("daily-quests-last-visit", "2024-01-06"); err != nil {
		t.Fatalf("Set() overwrite failed: %v", err)
	}

	got, ok, err := store.Get("daily-quests-last-visit")
	if err != nil || !ok {
		t.Fatalf("Get() = ok %v, err %v", ok, err)
	}
	if got != "2024-01-06" {
		t.Errorf("Get() = %q, want %q", got, "2024-01-06")
	}

	if err := store.Set("a", "1"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	keys, err := store.Keys()
	if err != nil {
		t.Fatalf("Keys() failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "daily-quests-last-visit" {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestLoadPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	first := NewStore(path)
	if err := first.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if err := first.Set("k", "v"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	first.Close()

	second := NewStore(path)
	if err := second.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	defer second.Close()

	got, ok, err := second.Get("k")
	if err != nil || !ok || got != "v" {
		t.Errorf("Get() after reopen = %q, %v, %v", got, ok, err)
	}
}

func TestLoadUninitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.db"))
	err := store.Load()
	if !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("Load() error = %v, want ErrNotInitialized", err)
	}
}

func TestUseBeforeLoad(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "x.db"))
	if _, _, err := store.Get("k"); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("Get() error = %v, want ErrNotLoaded", err)
	}
	if err := store.Set("k", "v"); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("Set() error = %v, want ErrNotLoaded", err)
	}
}
