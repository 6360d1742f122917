package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/memkeeper/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case StateVault:
		content = docStyle.Render(m.vaultList.View())
	case StateUnlocked:
		content = docStyle.Render(m.unlockedList.View())
	case StateStats:
		content = docStyle.Render(m.viewStats())
	case StateDetail:
		content = docStyle.Render(m.viewDetail())
	case StateCreate, StateRespond:
		content = m.form.View()
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	parts := []string{m.viewTabs(), content}
	if m.statusMessage != "" {
		parts = append(parts, lockedStyle.Render(" "+m.statusMessage))
	}
	parts = append(parts, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Vault", "Unlocked", "Stats"} {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStats() string {
	counts, err := m.keeper.Stats()
	if err != nil {
		return fmt.Sprintf("⚠ failed to load stats: %v", err)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Vault statistics"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "  Total:     %d\n", counts.Total)
	fmt.Fprintf(&b, "  Locked:    %d\n", counts.Locked)
	fmt.Fprintf(&b, "  Unlocked:  %d\n", counts.Unlocked)
	fmt.Fprintf(&b, "  Responses: %d\n", counts.Responses)

	if counts.Total > 0 {
		b.WriteString("\n  By category:\n")
		for _, info := range models.Categories {
			if n := counts.ByCategory[info.Name]; n > 0 {
				fmt.Fprintf(&b, "    %-12s %d\n", info.Name, n)
			}
		}
	}

	return b.String()
}

func (m Model) viewDetail() string {
	if m.detail == nil {
		return ""
	}
	memory := *m.detail
	now := time.Now()

	var b strings.Builder
	info := memory.Category.Info()
	b.WriteString(titleStyle.Render(info.Icon + " " + memory.Title))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "  Category:   %s\n", memory.Category)
	fmt.Fprintf(&b, "  Importance: %d/%d\n", memory.Importance, models.MaxImportance)
	if memory.Mood != "" {
		fmt.Fprintf(&b, "  Mood:       %s\n", memory.Mood)
	}
	if len(memory.Tags) > 0 {
		fmt.Fprintf(&b, "  Tags:       %s\n", strings.Join(memory.Tags, ", "))
	}
	fmt.Fprintf(&b, "  Created:    %s\n", memory.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "  Unlocks:    %s\n", memory.UnlockDate.Local().Format("2006-01-02 15:04"))

	if !memory.IsUnlocked(now) {
		b.WriteString("\n")
		b.WriteString(lockedStyle.Render("  🔒 This memory is still locked. Its content stays hidden until the unlock date."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(memory.Content)
	b.WriteString("\n")

	if len(memory.Responses) > 0 {
		fmt.Fprintf(&b, "\nResponses (%d):\n", len(memory.Responses))
		for _, r := range memory.Responses {
			mood := ""
			if r.Mood != "" {
				mood = fmt.Sprintf(" (%s)", r.Mood)
			}
			fmt.Fprintf(&b, "  %s%s\n    %s\n", r.CreatedAt.Local().Format("2006-01-02 15:04"), mood, r.Text)
		}
	}

	b.WriteString("\n")
	b.WriteString(lockedStyle.Render("  [p] respond  [esc] back"))
	return b.String()
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Are you sure you want to delete this memory?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
