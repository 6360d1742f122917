package vault

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/julianstephens/memkeeper/internal/models"
	"github.com/julianstephens/memkeeper/internal/storage"
	"github.com/julianstephens/memkeeper/internal/validation"
)

const snapshotVersion = 1

// Snapshot is the export file format. Locked memories are exported in full,
// including content; the file is for backup, not display.
type Snapshot struct {
	Version    int             `json:"version"`
	ExportedAt time.Time       `json:"exported_at"`
	Memories   []models.Memory `json:"memories"`
}

// Export writes every memory, including soft-deleted ones, to w.
func (k *Keeper) Export(w io.Writer) (int, error) {
	memories, err := k.store.GetAllMemoriesIncludingDeleted()
	if err != nil {
		return 0, err
	}

	snapshot := Snapshot{
		Version:    snapshotVersion,
		ExportedAt: k.now().UTC(),
		Memories:   memories,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return 0, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	return len(memories), nil
}

// ImportResult reports what an import did.
type ImportResult struct {
	Imported int
	Skipped  int
}

// Import reads a snapshot and applies it under the given policy. Every
// memory is validated before anything is written; a single invalid record
// rejects the whole snapshot.
func (k *Keeper) Import(r io.Reader, policy string) (ImportResult, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var snapshot Snapshot
	if err := dec.Decode(&snapshot); err != nil {
		return ImportResult{}, models.NewValidationError("snapshot", "malformed snapshot: %v", err)
	}

	if snapshot.Version != snapshotVersion {
		return ImportResult{}, models.NewValidationError("version", "unsupported snapshot version %d", snapshot.Version)
	}

	seen := make(map[string]bool)
	for i, m := range snapshot.Memories {
		if seen[m.ID] {
			return ImportResult{}, models.NewValidationError("memories", "duplicate memory id %s", m.ID)
		}
		seen[m.ID] = true
		if err := validation.ValidateMemory(m); err != nil {
			return ImportResult{}, fmt.Errorf("memory %d (%s): %w", i, m.ID, err)
		}
	}

	switch policy {
	case storage.ImportPolicyReplace:
		if err := k.store.ReplaceAll(snapshot.Memories); err != nil {
			return ImportResult{}, fmt.Errorf("failed to replace memories: %w", err)
		}
		return ImportResult{Imported: len(snapshot.Memories)}, nil
	case storage.ImportPolicyMerge:
		existing, err := k.store.GetAllMemoriesIncludingDeleted()
		if err != nil {
			return ImportResult{}, err
		}
		have := make(map[string]bool, len(existing))
		for _, m := range existing {
			have[m.ID] = true
		}

		var fresh []models.Memory
		skipped := 0
		for _, m := range snapshot.Memories {
			if have[m.ID] {
				skipped++
				continue
			}
			fresh = append(fresh, m)
		}

		if len(fresh) > 0 {
			if err := k.store.AddMemories(fresh); err != nil {
				return ImportResult{}, fmt.Errorf("failed to import memories: %w", err)
			}
		}
		return ImportResult{Imported: len(fresh), Skipped: skipped}, nil
	default:
		return ImportResult{}, models.NewValidationError("policy", "unknown import policy %q", policy)
	}
}
