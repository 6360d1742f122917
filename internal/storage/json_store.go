package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/julianstephens/memkeeper/internal/models"
)

type jsonStoreFile struct {
	Version  int                      `json:"version"`
	Settings Settings                 `json:"settings"`
	Memories map[string]models.Memory `json:"memories"`
}

type JSONStore struct {
	path  string
	store *jsonStoreFile
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.store = &jsonStoreFile{
		Version:  1,
		Settings: DefaultSettings(),
		Memories: make(map[string]models.Memory),
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'memkeeper init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &jsonStoreFile{}
	if err := json.Unmarshal(data, s.store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	if s.store.Memories == nil {
		s.store.Memories = make(map[string]models.Memory)
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

// save writes to a temp file in the same directory and renames it into
// place, so a crash mid-write never leaves a torn storage file.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp storage file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp storage file: %w", err)
	}

	if err := os.Chmod(tmpPath, 0600); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set storage permissions: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace storage file: %w", err)
	}

	return nil
}

func (s *JSONStore) GetSettings() (Settings, error) {
	if s.store == nil {
		return Settings{}, fmt.Errorf("storage not loaded")
	}
	return s.store.Settings, nil
}

func (s *JSONStore) SaveSettings(settings Settings) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Settings = settings
	return s.save()
}

func (s *JSONStore) AddMemory(memory models.Memory) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}

	s.store.Memories[memory.ID] = memory
	return s.save()
}

func (s *JSONStore) AddMemories(memories []models.Memory) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}

	for _, memory := range memories {
		s.store.Memories[memory.ID] = memory
	}
	return s.save()
}

func (s *JSONStore) GetMemory(id string) (models.Memory, error) {
	if s.store == nil {
		return models.Memory{}, fmt.Errorf("storage not loaded")
	}

	memory, ok := s.store.Memories[id]
	if !ok || memory.DeletedAt != nil {
		return models.Memory{}, fmt.Errorf("memory not found: %s", id)
	}

	return memory, nil
}

func (s *JSONStore) GetAllMemories() ([]models.Memory, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	memories := make([]models.Memory, 0, len(s.store.Memories))
	for _, memory := range s.store.Memories {
		if memory.DeletedAt == nil {
			memories = append(memories, memory)
		}
	}
	sortByUnlockDate(memories)

	return memories, nil
}

func (s *JSONStore) GetAllMemoriesIncludingDeleted() ([]models.Memory, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	memories := make([]models.Memory, 0, len(s.store.Memories))
	for _, memory := range s.store.Memories {
		memories = append(memories, memory)
	}
	sortByUnlockDate(memories)

	return memories, nil
}

func (s *JSONStore) DeleteMemory(id string) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}

	memory, ok := s.store.Memories[id]
	if !ok {
		return fmt.Errorf("memory not found: %s", id)
	}
	if memory.DeletedAt != nil {
		return fmt.Errorf("memory %s is already deleted", id)
	}

	now := time.Now().UTC()
	memory.DeletedAt = &now
	s.store.Memories[id] = memory
	return s.save()
}

func (s *JSONStore) RestoreMemory(id string) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}

	memory, ok := s.store.Memories[id]
	if !ok {
		return fmt.Errorf("memory not found: %s", id)
	}
	if memory.DeletedAt == nil {
		return fmt.Errorf("cannot restore a memory that is not deleted: %s", id)
	}

	memory.DeletedAt = nil
	s.store.Memories[id] = memory
	return s.save()
}

func (s *JSONStore) ReplaceAll(memories []models.Memory) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}

	replacement := make(map[string]models.Memory, len(memories))
	for _, memory := range memories {
		replacement[memory.ID] = memory
	}
	s.store.Memories = replacement
	return s.save()
}

func (s *JSONStore) AddResponse(r models.Response) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}

	memory, ok := s.store.Memories[r.MemoryID]
	if !ok || memory.DeletedAt != nil {
		return fmt.Errorf("memory not found: %s", r.MemoryID)
	}

	memory.Responses = append(memory.Responses, r)
	s.store.Memories[r.MemoryID] = memory
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

func sortByUnlockDate(memories []models.Memory) {
	sort.Slice(memories, func(i, j int) bool {
		return memories[i].UnlockDate.Before(memories[j].UnlockDate)
	})
}
