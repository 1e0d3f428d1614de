package backup

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/dailyquest/internal/constants"
	"github.com/julianstephens/dailyquest/internal/storage/sqlite"
)

func setupTestDB(t *testing.T, quests string) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "dailyquest.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	if err := store.Set(constants.QuestsKey, quests); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}
	return dbPath
}

func readQuests(t *testing.T, dbPath string) string {
	t.Helper()
	store := sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatalf("failed to load %s: %v", dbPath, err)
	}
	defer store.Close()
	v, _, err := store.Get(constants.QuestsKey)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

// stepClock returns successive seconds starting at start.
func stepClock(start time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		t := start.Add(time.Duration(n) * time.Second)
		n++
		return t
	}
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t, `[{"id":"1"}]`)
	mgr := NewManager(dbPath)

	path, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if filepath.Dir(path) != mgr.GetBackupDir() {
		t.Errorf("backup written to %s, want %s", filepath.Dir(path), mgr.GetBackupDir())
	}
	if !backupName.MatchString(filepath.Base(path)) {
		t.Errorf("unexpected backup name %s", filepath.Base(path))
	}
	if got := readQuests(t, path); got != `[{"id":"1"}]` {
		t.Errorf("backup holds %q", got)
	}
}

func TestCreateBackupWithoutDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.CreateBackup(); !errors.Is(err, ErrNoDatabase) {
		t.Errorf("expected ErrNoDatabase, got %v", err)
	}
}

func TestUniqueBackupFilenames(t *testing.T) {
	dbPath := setupTestDB(t, "[]")
	mgr := NewManager(dbPath)
	fixed := time.Date(2024, 1, 6, 9, 30, 0, 0, time.Local)
	mgr.now = func() time.Time { return fixed }

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		path, err := mgr.CreateBackup()
		if err != nil {
			t.Fatal(err)
		}
		if seen[path] {
			t.Fatalf("duplicate backup path %s", path)
		}
		seen[path] = true
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups, got %d", len(backups))
	}
	if filepath.Base(backups[0].Path) != "dailyquest-20240106-093000-2.db" {
		t.Errorf("newest backup = %s", filepath.Base(backups[0].Path))
	}
}

func TestBackupRotation(t *testing.T) {
	dbPath := setupTestDB(t, "[]")
	mgr := NewManager(dbPath)
	mgr.keep = 3
	mgr.now = stepClock(time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local))

	var paths []string
	for i := 0; i < 5; i++ {
		p, err := mgr.CreateBackup()
		if err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups after rotation, got %d", len(backups))
	}
	for i, b := range backups {
		if b.Path != paths[4-i] {
			t.Errorf("backup %d = %s, want %s", i, b.Path, paths[4-i])
		}
	}
	for _, old := range paths[:2] {
		if _, err := os.Stat(old); !os.IsNotExist(err) {
			t.Errorf("old backup %s was not removed", old)
		}
	}
}

func TestListBackupsIgnoresOtherFiles(t *testing.T) {
	dbPath := setupTestDB(t, "[]")
	mgr := NewManager(dbPath)
	if err := os.MkdirAll(mgr.GetBackupDir(), 0o700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "dailyquest-latest.db", "other-20240101-0800.db"} {
		if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), name), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups, got %+v", backups)
	}
}

func TestListBackupsMissingDir(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "dailyquest.db"))
	backups, err := mgr.ListBackups()
	if err != nil || len(backups) != 0 {
		t.Errorf("got %v, %v", backups, err)
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t, "before")
	mgr := NewManager(dbPath)
	mgr.now = stepClock(time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local))

	saved, err := mgr.CreateBackup()
	if err != nil {
		t.Fatal(err)
	}

	store := sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(constants.QuestsKey, "after"); err != nil {
		t.Fatal(err)
	}
	store.Close()

	previous, err := mgr.RestoreBackup(saved)
	if err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	if got := readQuests(t, dbPath); got != "before" {
		t.Errorf("restored database holds %q", got)
	}
	if previous == "" {
		t.Fatal("expected a pre-restore snapshot")
	}
	if got := readQuests(t, previous); got != "after" {
		t.Errorf("pre-restore snapshot holds %q", got)
	}
}

func TestRestoreRejectsInvalidBackups(t *testing.T) {
	dbPath := setupTestDB(t, "keep")
	mgr := NewManager(dbPath)
	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.db")
	if err := os.WriteFile(garbage, []byte("not a database at all, just text"), 0o600); err != nil {
		t.Fatal(err)
	}

	foreign := filepath.Join(dir, "foreign.db")
	db, err := sql.Open("sqlite", foreign)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("CREATE TABLE tasks (id TEXT)"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	for _, path := range []string{filepath.Join(dir, "missing.db"), garbage, foreign} {
		if _, err := mgr.RestoreBackup(path); err == nil {
			t.Errorf("RestoreBackup(%s) should fail", filepath.Base(path))
		}
	}
	if got := readQuests(t, dbPath); got != "keep" {
		t.Errorf("database changed after failed restores: %q", got)
	}
}
