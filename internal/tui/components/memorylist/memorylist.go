package memorylist

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/memkeeper/internal/models"
)

type AddMemoryMsg struct{}

type OpenMemoryMsg struct {
	ID string
}

type RespondMsg struct {
	ID string
}

type DeleteMemoryMsg struct {
	ID string
}

type RestoreMemoryMsg struct {
	ID string
}

type Item struct {
	Memory models.Memory
	Now    time.Time
}

func (i Item) Title() string {
	icon := i.Memory.Category.Info().Icon
	if i.Memory.DeletedAt != nil {
		return "👻 " + i.Memory.Title + " (deleted)"
	}
	if !i.Memory.IsUnlocked(i.Now) {
		return "🔒 " + i.Memory.Title
	}
	return icon + " " + i.Memory.Title
}

func (i Item) Description() string {
	if i.Memory.DeletedAt != nil {
		return "can restore with 'r'"
	}
	if !i.Memory.IsUnlocked(i.Now) {
		return fmt.Sprintf("%s | unlocks %s", i.Memory.Category, i.Memory.UnlockDate.Local().Format("2006-01-02"))
	}
	return fmt.Sprintf("%s | unlocked %s | %d response(s)",
		i.Memory.Category, i.Memory.UnlockDate.Local().Format("2006-01-02"), len(i.Memory.Responses))
}

func (i Item) FilterValue() string { return i.Memory.Title }

type KeyMap struct {
	Add     key.Binding
	Open    key.Binding
	Respond key.Binding
	Delete  key.Binding
	Restore key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Respond: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "respond"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Restore: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restore"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
	now  func() time.Time
}

func New(memories []models.Memory, now func() time.Time, width, height int) Model {
	l := list.New(toItems(memories, now()), list.NewDefaultDelegate(), width, height)
	l.Title = "Memories"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // Help is rendered globally by the main model

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Open, keys.Respond, keys.Delete, keys.Restore}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Open, keys.Respond, keys.Delete, keys.Restore}
	}

	return Model{list: l, keys: keys, now: now}
}

func toItems(memories []models.Memory, now time.Time) []list.Item {
	items := make([]list.Item, len(memories))
	for i, m := range memories {
		items[i] = Item{Memory: m, Now: now}
	}
	return items
}

func (m *Model) SetMemories(memories []models.Memory) {
	m.list.SetItems(toItems(memories, m.now()))
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddMemoryMsg{} }
		case key.Matches(msg, m.keys.Open):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return OpenMemoryMsg{ID: i.Memory.ID} }
			}
		case key.Matches(msg, m.keys.Respond):
			if i, ok := m.list.SelectedItem().(Item); ok {
				if i.Memory.DeletedAt == nil && i.Memory.IsUnlocked(m.now()) {
					return m, func() tea.Msg { return RespondMsg{ID: i.Memory.ID} }
				}
			}
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				if i.Memory.DeletedAt == nil {
					return m, func() tea.Msg { return DeleteMemoryMsg{ID: i.Memory.ID} }
				}
			}
		case key.Matches(msg, m.keys.Restore):
			if i, ok := m.list.SelectedItem().(Item); ok {
				if i.Memory.DeletedAt != nil {
					return m, func() tea.Msg { return RestoreMemoryMsg{ID: i.Memory.ID} }
				}
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No memories here yet.\n  Press 'a' to seal one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
