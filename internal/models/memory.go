package models

import "time"

// Category is the fixed set of memory categories.
type Category string

const (
	CategoryMilestone  Category = "milestone"
	CategoryLetter     Category = "letter"
	CategoryQuestion   Category = "question"
	CategoryPrediction Category = "prediction"
	CategoryGratitude  Category = "gratitude"
)

// CategoryInfo carries the display metadata for a category.
type CategoryInfo struct {
	Name        Category `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
}

// Categories lists every valid category with its description and icon.
var Categories = []CategoryInfo{
	{CategoryMilestone, "Important life events and achievements", "trophy"},
	{CategoryLetter, "Messages to your future self", "envelope"},
	{CategoryQuestion, "Questions for your future self to answer", "question-mark"},
	{CategoryPrediction, "Guesses about your future", "crystal-ball"},
	{CategoryGratitude, "Things you're thankful for", "heart"},
}

// Info returns the display metadata for a category, zero if unknown.
func (c Category) Info() CategoryInfo {
	for _, info := range Categories {
		if info.Name == c {
			return info
		}
	}
	return CategoryInfo{Name: c}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, info := range Categories {
		if info.Name == c {
			return true
		}
	}
	return false
}

// ParseCategory resolves a user-supplied string to a Category.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	if c.Valid() {
		return c, true
	}
	return "", false
}

type UnlockKind string

const (
	UnlockFixedDate  UnlockKind = "fixed_date"
	UnlockInterval   UnlockKind = "interval"
	UnlockRandomDate UnlockKind = "random_date"
)

// UnlockPolicy describes how a memory's unlock date was chosen. The policy is
// resolved to a concrete UnlockDate exactly once, at creation; it is kept on
// the record for provenance only and is never re-evaluated.
type UnlockPolicy struct {
	Kind UnlockKind `json:"kind"`

	// FixedDate is set when Kind is fixed_date.
	FixedDate *time.Time `json:"fixed_date,omitempty"`

	// IntervalDays is set when Kind is interval; the unlock date is
	// IntervalDays days after creation.
	IntervalDays int `json:"interval_days,omitempty"`

	// RandomStart/RandomEnd bound the sample range when Kind is random_date.
	RandomStart *time.Time `json:"random_start,omitempty"`
	RandomEnd   *time.Time `json:"random_end,omitempty"`
}

// Response is one reaction written after a memory unlocked. A memory keeps an
// ordered log of responses.
type Response struct {
	ID        string    `json:"id"`
	MemoryID  string    `json:"memory_id"`
	Text      string    `json:"text"`
	Mood      string    `json:"mood,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Memory is a single time-locked entry. Every field except Responses and
// DeletedAt is fixed at creation.
type Memory struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Content      string       `json:"content,omitempty"`
	Category     Category     `json:"category"`
	Tags         []string     `json:"tags,omitempty"`
	Importance   int          `json:"importance"`
	Mood         string       `json:"mood,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UnlockPolicy UnlockPolicy `json:"unlock_policy"`
	UnlockDate   time.Time    `json:"unlock_date"`
	Responses    []Response   `json:"responses,omitempty"`
	DeletedAt    *time.Time   `json:"deleted_at,omitempty"`
}

type MemoryState string

const (
	StateLocked   MemoryState = "locked"
	StateUnlocked MemoryState = "unlocked"
)

// IsUnlocked reports whether the memory is readable at the given instant.
// The comparison is pure: the same now always yields the same answer, and
// once true it stays true for every later instant.
func (m Memory) IsUnlocked(now time.Time) bool {
	return !now.Before(m.UnlockDate)
}

// State classifies the memory relative to now.
func (m Memory) State(now time.Time) MemoryState {
	if m.IsUnlocked(now) {
		return StateUnlocked
	}
	return StateLocked
}

// Redacted returns a copy safe to show while the memory is still locked:
// metadata only, with the content and response log withheld.
func (m Memory) Redacted() Memory {
	m.Content = ""
	m.Responses = nil
	return m
}

const (
	MinImportance = 1
	MaxImportance = 5
)

// SuggestedMoods are offered by the interactive forms; any free-form mood is
// accepted.
var SuggestedMoods = []string{
	"Happy", "Reflective", "Excited", "Curious", "Hopeful", "Anxious", "Proud",
}
