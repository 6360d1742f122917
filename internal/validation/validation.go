package validation

import (
	"strings"

	"github.com/julianstephens/memkeeper/internal/models"
)

// ValidatePolicy checks that an unlock policy is internally consistent. It
// does not resolve the policy; resolution happens once, in the vault.
func ValidatePolicy(p models.UnlockPolicy) error {
	switch p.Kind {
	case models.UnlockFixedDate:
		if p.FixedDate == nil {
			return models.NewValidationError("unlock_policy", "fixed_date policy requires a date")
		}
	case models.UnlockInterval:
		if p.IntervalDays <= 0 {
			return models.NewValidationError("unlock_policy", "interval must be a positive number of days, got %d", p.IntervalDays)
		}
	case models.UnlockRandomDate:
		if p.RandomStart == nil || p.RandomEnd == nil {
			return models.NewValidationError("unlock_policy", "random_date policy requires both range bounds")
		}
		if p.RandomEnd.Before(*p.RandomStart) {
			return models.NewValidationError("unlock_policy", "random range end %s is before start %s",
				p.RandomEnd.Format("2006-01-02"), p.RandomStart.Format("2006-01-02"))
		}
	default:
		return models.NewValidationError("unlock_policy", "unknown unlock kind %q", p.Kind)
	}
	return nil
}

// ValidateMemory checks a fully-built memory record. It is used both on the
// create path (after the unlock date has been resolved) and on import, where
// every record must pass before any is applied.
func ValidateMemory(m models.Memory) error {
	if strings.TrimSpace(m.ID) == "" {
		return models.NewValidationError("id", "must not be empty")
	}
	if strings.TrimSpace(m.Title) == "" {
		return models.NewValidationError("title", "must not be empty")
	}
	if strings.TrimSpace(m.Content) == "" {
		return models.NewValidationError("content", "must not be empty")
	}
	if !m.Category.Valid() {
		return models.NewValidationError("category", "unknown category %q", m.Category)
	}
	if m.Importance < models.MinImportance || m.Importance > models.MaxImportance {
		return models.NewValidationError("importance", "must be between %d and %d, got %d",
			models.MinImportance, models.MaxImportance, m.Importance)
	}
	if m.CreatedAt.IsZero() {
		return models.NewValidationError("created_at", "must be set")
	}
	if m.UnlockDate.IsZero() {
		return models.NewValidationError("unlock_date", "must be set")
	}
	if m.UnlockDate.Before(m.CreatedAt) {
		return models.NewValidationError("unlock_date", "%s is before creation time %s",
			m.UnlockDate.Format("2006-01-02"), m.CreatedAt.Format("2006-01-02"))
	}
	if err := ValidatePolicy(m.UnlockPolicy); err != nil {
		return err
	}
	for _, r := range m.Responses {
		if err := validateResponse(m, r); err != nil {
			return err
		}
	}
	return nil
}

// Responses are only reachable from the unlocked state, so every response
// must postdate the unlock. This holds regardless of the current clock, which
// keeps import validation time-independent.
func validateResponse(m models.Memory, r models.Response) error {
	if strings.TrimSpace(r.ID) == "" {
		return models.NewValidationError("response.id", "must not be empty")
	}
	if r.MemoryID != m.ID {
		return models.NewValidationError("response.memory_id", "response %s does not belong to memory %s", r.ID, m.ID)
	}
	if strings.TrimSpace(r.Text) == "" {
		return models.NewValidationError("response.text", "must not be empty")
	}
	if r.CreatedAt.Before(m.UnlockDate) {
		return models.NewValidationError("response.created_at", "response %s predates the unlock date", r.ID)
	}
	return nil
}
