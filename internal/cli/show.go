package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/memkeeper/internal/constants"
	"github.com/julianstephens/memkeeper/internal/models"
)

type ShowCmd struct {
	ID string `arg:"" help:"Memory ID (or unique prefix)."`
}

func (c *ShowCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	id, err := resolveID(ctx, c.ID)
	if err != nil {
		return err
	}

	memory, err := ctx.Keeper.Get(id)
	if err != nil {
		return err
	}

	now := time.Now()
	info := memory.Category.Info()
	fmt.Printf("%s %s\n", info.Icon, memory.Title)
	fmt.Printf("  Category:   %s\n", memory.Category)
	fmt.Printf("  Importance: %d/%d\n", memory.Importance, models.MaxImportance)
	if memory.Mood != "" {
		fmt.Printf("  Mood:       %s\n", memory.Mood)
	}
	if len(memory.Tags) > 0 {
		fmt.Printf("  Tags:       %s\n", strings.Join(memory.Tags, ", "))
	}
	fmt.Printf("  Created:    %s\n", memory.CreatedAt.Local().Format(constants.DateTimeFormat))
	fmt.Printf("  Unlocks:    %s\n", memory.UnlockDate.Local().Format(constants.DateTimeFormat))

	if !memory.IsUnlocked(now) {
		remaining := memory.UnlockDate.Sub(now)
		fmt.Printf("\n🔒 This memory is locked for another %s.\n", formatDuration(remaining))
		return nil
	}

	fmt.Printf("\n%s\n", memory.Content)

	if len(memory.Responses) > 0 {
		fmt.Printf("\nResponses (%d):\n", len(memory.Responses))
		for _, r := range memory.Responses {
			mood := ""
			if r.Mood != "" {
				mood = fmt.Sprintf(" (%s)", r.Mood)
			}
			fmt.Printf("  %s%s\n    %s\n", r.CreatedAt.Local().Format(constants.DateTimeFormat), mood, r.Text)
		}
	}

	return nil
}

// resolveID accepts a full memory ID or a unique prefix of one.
func resolveID(ctx *Context, prefix string) (string, error) {
	memories, err := ctx.Store.GetAllMemories()
	if err != nil {
		return "", err
	}

	var matches []string
	for _, m := range memories {
		if m.ID == prefix {
			return m.ID, nil
		}
		if strings.HasPrefix(m.ID, prefix) {
			matches = append(matches, m.ID)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("memory not found: %s", prefix)
	default:
		return "", fmt.Errorf("ambiguous memory id %q matches %d memories", prefix, len(matches))
	}
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours() / 24)
	switch {
	case days > 1:
		return fmt.Sprintf("%d days", days)
	case days == 1:
		return "1 day"
	case d.Hours() >= 1:
		return fmt.Sprintf("%d hours", int(d.Hours()))
	default:
		return fmt.Sprintf("%d minutes", int(d.Minutes())+1)
	}
}
