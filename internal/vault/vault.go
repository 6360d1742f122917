// Package vault implements the memory lifecycle: creating memories with a
// resolved unlock date, listing and opening them according to lock state,
// and recording responses to unlocked memories.
package vault

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/memkeeper/internal/models"
	"github.com/julianstephens/memkeeper/internal/storage"
	"github.com/julianstephens/memkeeper/internal/validation"
)

// Keeper coordinates memory operations on top of a storage provider.
type Keeper struct {
	store storage.Provider
	now   func() time.Time
	rng   *rand.Rand
}

// Option configures a Keeper.
type Option func(*Keeper)

// WithClock overrides the time source. Used by tests and by commands that
// need deterministic lock-state decisions.
func WithClock(now func() time.Time) Option {
	return func(k *Keeper) {
		k.now = now
	}
}

// WithRandSource overrides the randomness used to resolve random-date
// unlock policies.
func WithRandSource(src rand.Source) Option {
	return func(k *Keeper) {
		k.rng = rand.New(src)
	}
}

func NewKeeper(store storage.Provider, opts ...Option) *Keeper {
	k := &Keeper{
		store: store,
		now:   time.Now,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Draft holds the user-supplied fields for a new memory.
type Draft struct {
	Title      string
	Content    string
	Category   models.Category
	Tags       []string
	Importance int
	Mood       string
	Policy     models.UnlockPolicy
}

// Create validates the draft, resolves its unlock policy to a concrete
// unlock date, and stores the resulting memory. The unlock date is resolved
// exactly once; random-date policies never re-roll.
func (k *Keeper) Create(draft Draft) (models.Memory, error) {
	now := k.now().UTC()

	unlockDate, err := k.resolveUnlockDate(draft.Policy, now)
	if err != nil {
		return models.Memory{}, err
	}

	memory := models.Memory{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(draft.Title),
		Content:      draft.Content,
		Category:     draft.Category,
		Tags:         normalizeTags(draft.Tags),
		Importance:   draft.Importance,
		Mood:         strings.TrimSpace(draft.Mood),
		CreatedAt:    now,
		UnlockPolicy: draft.Policy,
		UnlockDate:   unlockDate,
	}

	if err := validation.ValidateMemory(memory); err != nil {
		return models.Memory{}, err
	}

	if err := k.store.AddMemory(memory); err != nil {
		return models.Memory{}, fmt.Errorf("failed to store memory: %w", err)
	}

	return memory, nil
}

func (k *Keeper) resolveUnlockDate(p models.UnlockPolicy, now time.Time) (time.Time, error) {
	if err := validation.ValidatePolicy(p); err != nil {
		return time.Time{}, err
	}

	switch p.Kind {
	case models.UnlockFixedDate:
		date := p.FixedDate.UTC()
		if date.Before(now) {
			return time.Time{}, models.NewValidationError("unlock_policy", "unlock date %s is in the past", date.Format(time.RFC3339))
		}
		return date, nil
	case models.UnlockInterval:
		return now.AddDate(0, 0, p.IntervalDays), nil
	case models.UnlockRandomDate:
		start, end := p.RandomStart.UTC(), p.RandomEnd.UTC()
		if end.Before(now) {
			return time.Time{}, models.NewValidationError("unlock_policy", "random window ends in the past")
		}
		if start.Before(now) {
			start = now
		}
		span := end.Sub(start)
		offset := time.Duration(0)
		if span > 0 {
			offset = time.Duration(k.rng.Int63n(int64(span) + 1))
		}
		return start.Add(offset), nil
	default:
		return time.Time{}, models.NewValidationError("unlock_policy", "unknown unlock kind %q", p.Kind)
	}
}

func normalizeTags(tags []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// Filter selects which memories List returns.
type Filter int

const (
	FilterAll Filter = iota
	FilterLocked
	FilterUnlocked
)

// List returns memories sorted by unlock date ascending. Locked memories are
// redacted so their content never leaks before their time.
func (k *Keeper) List(filter Filter) ([]models.Memory, error) {
	memories, err := k.store.GetAllMemories()
	if err != nil {
		return nil, err
	}

	now := k.now()
	var out []models.Memory
	for _, m := range memories {
		unlocked := m.IsUnlocked(now)
		switch filter {
		case FilterLocked:
			if unlocked {
				continue
			}
		case FilterUnlocked:
			if !unlocked {
				continue
			}
		}
		if !unlocked {
			m = m.Redacted()
		}
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].UnlockDate.Before(out[j].UnlockDate)
	})

	return out, nil
}

// Get returns a single memory, redacted if it is still locked.
func (k *Keeper) Get(id string) (models.Memory, error) {
	memory, err := k.store.GetMemory(id)
	if err != nil {
		return models.Memory{}, err
	}
	if !memory.IsUnlocked(k.now()) {
		return memory.Redacted(), nil
	}
	return memory, nil
}

// Open returns the full memory, failing with a StateError if it is locked.
func (k *Keeper) Open(id string) (models.Memory, error) {
	memory, err := k.store.GetMemory(id)
	if err != nil {
		return models.Memory{}, err
	}
	if !memory.IsUnlocked(k.now()) {
		return models.Memory{}, &models.StateError{MemoryID: memory.ID, UnlockDate: memory.UnlockDate}
	}
	return memory, nil
}

// RecordResponse appends a reflection to an unlocked memory. Responses are
// an append-only log; they are never edited or removed.
func (k *Keeper) RecordResponse(memoryID, text, mood string) (models.Response, error) {
	memory, err := k.Open(memoryID)
	if err != nil {
		return models.Response{}, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return models.Response{}, models.NewValidationError("response", "response text must not be empty")
	}

	response := models.Response{
		ID:        uuid.NewString(),
		MemoryID:  memory.ID,
		Text:      text,
		Mood:      strings.TrimSpace(mood),
		CreatedAt: k.now().UTC(),
	}

	if err := k.store.AddResponse(response); err != nil {
		return models.Response{}, fmt.Errorf("failed to store response: %w", err)
	}

	return response, nil
}

// Upcoming returns the next locked memories in unlock order, at most limit.
// A limit of zero or less means no cap.
func (k *Keeper) Upcoming(limit int) ([]models.Memory, error) {
	locked, err := k.List(FilterLocked)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(locked) > limit {
		locked = locked[:limit]
	}
	return locked, nil
}

// Counts summarizes the vault by lock state.
type Counts struct {
	Total      int
	Locked     int
	Unlocked   int
	ByCategory map[models.Category]int
	Responses  int
}

func (k *Keeper) Stats() (Counts, error) {
	memories, err := k.store.GetAllMemories()
	if err != nil {
		return Counts{}, err
	}

	now := k.now()
	counts := Counts{ByCategory: make(map[models.Category]int)}
	for _, m := range memories {
		counts.Total++
		if m.IsUnlocked(now) {
			counts.Unlocked++
		} else {
			counts.Locked++
		}
		counts.ByCategory[m.Category]++
		counts.Responses += len(m.Responses)
	}

	return counts, nil
}

// Delete soft-deletes a memory so it can be restored later.
func (k *Keeper) Delete(id string) error {
	return k.store.DeleteMemory(id)
}

// Restore brings a soft-deleted memory back.
func (k *Keeper) Restore(id string) error {
	return k.store.RestoreMemory(id)
}
