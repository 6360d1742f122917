package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "memkeeper.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("CREATE TABLE memories (id TEXT PRIMARY KEY, title TEXT)"); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	if _, err := db.Exec("INSERT INTO memories (id, title) VALUES ('mem-1', 'hello')"); err != nil {
		t.Fatalf("failed to insert row: %v", err)
	}

	return dbPath
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	info, err := os.Stat(backupPath)
	if err != nil {
		t.Fatalf("backup file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("backup file is empty")
	}

	// Backup is a valid database with the data
	db, err := sql.Open("sqlite", backupPath)
	if err != nil {
		t.Fatalf("failed to open backup: %v", err)
	}
	defer db.Close()

	var title string
	if err := db.QueryRow("SELECT title FROM memories WHERE id = 'mem-1'").Scan(&title); err != nil {
		t.Fatalf("failed to query backup: %v", err)
	}
	if title != "hello" {
		t.Errorf("title = %q, want %q", title, "hello")
	}
}

func TestCreateBackupMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(); err == nil {
		t.Error("Create() on missing database should fail")
	}
}

func TestListBackups(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("List() before any backup = %d entries", len(backups))
	}

	if _, err := mgr.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if _, err := mgr.Create(); err != nil {
		t.Fatalf("second Create() failed: %v", err)
	}

	backups, err = mgr.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(backups) != 2 {
		t.Errorf("List() = %d entries, want 2", len(backups))
	}
	for _, b := range backups {
		if b.Size == 0 {
			t.Errorf("backup %s has zero size", b.Path)
		}
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	// Change the live database after the backup
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if _, err := db.Exec("UPDATE memories SET title = 'changed' WHERE id = 'mem-1'"); err != nil {
		t.Fatalf("failed to update: %v", err)
	}
	db.Close()

	if err := mgr.Restore(backupPath); err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}

	db, err = sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to reopen database: %v", err)
	}
	defer db.Close()

	var title string
	if err := db.QueryRow("SELECT title FROM memories WHERE id = 'mem-1'").Scan(&title); err != nil {
		t.Fatalf("failed to query restored database: %v", err)
	}
	if title != "hello" {
		t.Errorf("restored title = %q, want %q", title, "hello")
	}
}

func TestRestoreMissingBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	if err := mgr.Restore(filepath.Join(mgr.BackupDir(), "nope.db")); err == nil {
		t.Error("Restore() of missing backup should fail")
	}
}

func TestRestoreInvalidBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	badPath := filepath.Join(t.TempDir(), "bad.db")
	if err := os.WriteFile(badPath, []byte("not a database"), 0600); err != nil {
		t.Fatalf("failed to write bad file: %v", err)
	}

	if err := mgr.Restore(badPath); err == nil {
		t.Error("Restore() of corrupt backup should fail")
	}
}
