package storage

import "github.com/julianstephens/memkeeper/internal/models"

// Import policies: merge keeps existing memories and adds records with new
// IDs; replace wipes the store and loads the snapshot wholesale.
const (
	ImportPolicyMerge   = "merge"
	ImportPolicyReplace = "replace"
)

type Settings struct {
	DefaultUnlockDays int    `json:"default_unlock_days"`
	ImportPolicy      string `json:"import_policy"`
}

// DefaultSettings are written on first init.
func DefaultSettings() Settings {
	return Settings{
		DefaultUnlockDays: 30,
		ImportPolicy:      ImportPolicyMerge,
	}
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (Settings, error)
	SaveSettings(Settings) error

	// Memories
	AddMemory(models.Memory) error
	// AddMemories inserts a batch atomically; either every record lands or
	// none do.
	AddMemories([]models.Memory) error
	GetMemory(id string) (models.Memory, error)
	GetAllMemories() ([]models.Memory, error)
	GetAllMemoriesIncludingDeleted() ([]models.Memory, error)
	DeleteMemory(id string) error
	RestoreMemory(id string) error
	// ReplaceAll atomically swaps the entire store contents for the given
	// records, responses included.
	ReplaceAll([]models.Memory) error

	// Responses
	AddResponse(models.Response) error

	// Utils
	GetConfigPath() string
}
