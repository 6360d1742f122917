package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/memkeeper/internal/models"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS memories (
	id            TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	content       TEXT NOT NULL,
	category      TEXT NOT NULL,
	tags          TEXT,
	importance    INTEGER NOT NULL DEFAULT 3,
	mood          TEXT,
	created_at    TEXT NOT NULL,
	unlock_kind   TEXT NOT NULL,
	unlock_policy TEXT NOT NULL,
	unlock_date   TEXT NOT NULL,
	deleted_at    TEXT
);
CREATE INDEX IF NOT EXISTS idx_memories_unlock ON memories(unlock_date);
CREATE INDEX IF NOT EXISTS idx_memories_deleted ON memories(deleted_at);

CREATE TABLE IF NOT EXISTS responses (
	id         TEXT PRIMARY KEY,
	memory_id  TEXT NOT NULL REFERENCES memories(id),
	content    TEXT NOT NULL,
	mood       TEXT,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_responses_memory ON responses(memory_id);

CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

func (s *SQLiteStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if _, err := s.db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// Initialize default settings if not present
	if _, err := s.GetSettings(); err != nil {
		if err := s.SaveSettings(DefaultSettings()); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'memkeeper init' first")
	}

	db, err := sql.Open("sqlite", s.path+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) GetSettings() (Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return Settings{}, err
	}
	defer rows.Close()

	// Missing keys fall back to defaults so a partially seeded table
	// never yields zero values
	settings := DefaultSettings()
	count := 0
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Settings{}, err
		}
		switch key {
		case "default_unlock_days":
			if _, err := fmt.Sscanf(value, "%d", &settings.DefaultUnlockDays); err != nil {
				return Settings{}, fmt.Errorf("parsing default_unlock_days: %w", err)
			}
		case "import_policy":
			settings.ImportPolicy = value
		}
		count++
	}

	if count == 0 {
		return Settings{}, fmt.Errorf("settings not found")
	}

	return settings, nil
}

func (s *SQLiteStore) SaveSettings(settings Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	if _, err := stmt.Exec("default_unlock_days", fmt.Sprintf("%d", settings.DefaultUnlockDays)); err != nil {
		return err
	}
	if _, err := stmt.Exec("import_policy", settings.ImportPolicy); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) AddMemory(memory models.Memory) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertMemoryTx(tx, memory); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) AddMemories(memories []models.Memory) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, memory := range memories {
		if err := insertMemoryTx(tx, memory); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertMemoryTx(tx *sql.Tx, memory models.Memory) error {
	tagsJSON, err := json.Marshal(memory.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}
	policyJSON, err := json.Marshal(memory.UnlockPolicy)
	if err != nil {
		return fmt.Errorf("failed to marshal unlock policy: %w", err)
	}

	var deletedAt sql.NullString
	if memory.DeletedAt != nil {
		deletedAt = sql.NullString{String: memory.DeletedAt.UTC().Format(time.RFC3339), Valid: true}
	}

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO memories (
			id, title, content, category, tags, importance, mood,
			created_at, unlock_kind, unlock_policy, unlock_date, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		memory.ID, memory.Title, memory.Content, string(memory.Category), string(tagsJSON),
		memory.Importance, memory.Mood, memory.CreatedAt.UTC().Format(time.RFC3339),
		string(memory.UnlockPolicy.Kind), string(policyJSON),
		memory.UnlockDate.UTC().Format(time.RFC3339), deletedAt,
	)
	if err != nil {
		return err
	}

	for _, r := range memory.Responses {
		if err := insertResponseTx(tx, r); err != nil {
			return err
		}
	}

	return nil
}

func insertResponseTx(tx *sql.Tx, r models.Response) error {
	_, err := tx.Exec(`
		INSERT OR REPLACE INTO responses (id, memory_id, content, mood, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.MemoryID, r.Text, r.Mood, r.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

const memoryColumns = `id, title, content, category, tags, importance, mood,
	created_at, unlock_policy, unlock_date, deleted_at`

func (s *SQLiteStore) GetMemory(id string) (models.Memory, error) {
	row := s.db.QueryRow(
		"SELECT "+memoryColumns+" FROM memories WHERE id = ? AND deleted_at IS NULL", id)

	memory, err := scanMemory(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Memory{}, fmt.Errorf("memory not found: %s", id)
		}
		return models.Memory{}, err
	}

	responses, err := s.getResponses(id)
	if err != nil {
		return models.Memory{}, err
	}
	memory.Responses = responses

	return memory, nil
}

func (s *SQLiteStore) GetAllMemories() ([]models.Memory, error) {
	return s.getMemories("SELECT " + memoryColumns + " FROM memories WHERE deleted_at IS NULL ORDER BY unlock_date ASC")
}

func (s *SQLiteStore) GetAllMemoriesIncludingDeleted() ([]models.Memory, error) {
	return s.getMemories("SELECT " + memoryColumns + " FROM memories ORDER BY unlock_date ASC")
}

func (s *SQLiteStore) getMemories(query string) ([]models.Memory, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memories []models.Memory
	for rows.Next() {
		memory, err := scanMemory(rows)
		if err != nil {
			return nil, err
		}
		memories = append(memories, memory)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range memories {
		responses, err := s.getResponses(memories[i].ID)
		if err != nil {
			return nil, err
		}
		memories[i].Responses = responses
	}

	return memories, nil
}

func (s *SQLiteStore) getResponses(memoryID string) ([]models.Response, error) {
	rows, err := s.db.Query(`
		SELECT id, memory_id, content, mood, created_at
		FROM responses WHERE memory_id = ? ORDER BY created_at ASC`, memoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []models.Response
	for rows.Next() {
		var r models.Response
		var createdAt string
		if err := rows.Scan(&r.ID, &r.MemoryID, &r.Text, &r.Mood, &createdAt); err != nil {
			return nil, err
		}
		r.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse response timestamp: %w", err)
		}
		responses = append(responses, r)
	}

	return responses, rows.Err()
}

func (s *SQLiteStore) DeleteMemory(id string) error {
	// Soft delete: set deleted_at timestamp instead of removing the record
	var deletedAt sql.NullString
	err := s.db.QueryRow("SELECT deleted_at FROM memories WHERE id = ?", id).Scan(&deletedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("memory not found: %s", id)
		}
		return fmt.Errorf("failed to check memory existence: %w", err)
	}

	if deletedAt.Valid {
		return fmt.Errorf("memory %s is already deleted", id)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec("UPDATE memories SET deleted_at = ? WHERE id = ?", now, id)
	return err
}

func (s *SQLiteStore) RestoreMemory(id string) error {
	var deletedAt sql.NullString
	err := s.db.QueryRow("SELECT deleted_at FROM memories WHERE id = ?", id).Scan(&deletedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("memory not found: %s", id)
		}
		return fmt.Errorf("failed to check memory existence: %w", err)
	}

	if !deletedAt.Valid {
		return fmt.Errorf("cannot restore a memory that is not deleted: %s", id)
	}

	_, err = s.db.Exec("UPDATE memories SET deleted_at = NULL WHERE id = ?", id)
	return err
}

func (s *SQLiteStore) ReplaceAll(memories []models.Memory) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM responses"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM memories"); err != nil {
		return err
	}

	for _, memory := range memories {
		if err := insertMemoryTx(tx, memory); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) AddResponse(r models.Response) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertResponseTx(tx, r); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

func (s *SQLiteStore) GetDB() *sql.DB {
	return s.db
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanMemory(row scanner) (models.Memory, error) {
	var m models.Memory
	var category, createdAt, policyJSON, unlockDate string
	var tagsJSON sql.NullString
	var deletedAt sql.NullString

	err := row.Scan(
		&m.ID, &m.Title, &m.Content, &category, &tagsJSON, &m.Importance, &m.Mood,
		&createdAt, &policyJSON, &unlockDate, &deletedAt,
	)
	if err != nil {
		return models.Memory{}, err
	}

	m.Category = models.Category(category)

	if tagsJSON.Valid && tagsJSON.String != "" && tagsJSON.String != "null" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &m.Tags); err != nil {
			return models.Memory{}, fmt.Errorf("failed to unmarshal tags: %w", err)
		}
	}

	if err := json.Unmarshal([]byte(policyJSON), &m.UnlockPolicy); err != nil {
		return models.Memory{}, fmt.Errorf("failed to unmarshal unlock policy: %w", err)
	}

	m.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Memory{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	m.UnlockDate, err = time.Parse(time.RFC3339, unlockDate)
	if err != nil {
		return models.Memory{}, fmt.Errorf("failed to parse unlock_date: %w", err)
	}

	if deletedAt.Valid {
		t, err := time.Parse(time.RFC3339, deletedAt.String)
		if err != nil {
			return models.Memory{}, fmt.Errorf("failed to parse deleted_at: %w", err)
		}
		m.DeletedAt = &t
	}

	return m, nil
}
