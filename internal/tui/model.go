package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/memkeeper/internal/models"
	"github.com/julianstephens/memkeeper/internal/storage"
	"github.com/julianstephens/memkeeper/internal/tui/components/memorylist"
	"github.com/julianstephens/memkeeper/internal/vault"
)

type SessionState int

const (
	StateVault SessionState = iota
	StateUnlocked
	StateStats
	StateDetail
	StateCreate
	StateRespond
	StateConfirmDelete
)

// tabCount is the number of top-level tabs cycled by tab/shift+tab.
const tabCount = 3

type MemoryFormModel struct {
	Title      string
	Content    string
	Category   string
	Mood       string
	Importance string
	UnlockDays string
}

type ResponseFormModel struct {
	Text string
	Mood string
}

type Model struct {
	store         storage.Provider
	keeper        *vault.Keeper
	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	vaultList     memorylist.Model
	unlockedList  memorylist.Model
	form          *huh.Form
	memoryForm    *MemoryFormModel
	responseForm  *ResponseFormModel
	detail        *models.Memory
	respondToID   string
	deleteID      string
	statusMessage string
	quitting      bool
	width         int
	height        int
}

func NewModel(store storage.Provider, keeper *vault.Keeper) Model {
	m := Model{
		store:        store,
		keeper:       keeper,
		state:        StateVault,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		vaultList:    memorylist.New(nil, time.Now, 0, 0),
		unlockedList: memorylist.New(nil, time.Now, 0, 0),
	}
	m.refreshLists()
	return m
}

func (m *Model) refreshLists() {
	locked, err := m.keeper.List(vault.FilterLocked)
	if err != nil {
		m.statusMessage = fmt.Sprintf("⚠ failed to load memories: %v", err)
		return
	}
	unlocked, err := m.keeper.List(vault.FilterUnlocked)
	if err != nil {
		m.statusMessage = fmt.Sprintf("⚠ failed to load memories: %v", err)
		return
	}

	m.vaultList.SetMemories(locked)
	m.unlockedList.SetMemories(unlocked)
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateVault:
		keys = append(keys, m.keys.Add, m.keys.Delete)
	case StateUnlocked:
		keys = append(keys, m.keys.Enter, m.keys.Respond, m.keys.Delete)
	case StateDetail:
		keys = append(keys, m.keys.Back, m.keys.Respond)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter, m.keys.Back}

	var actions []key.Binding
	switch m.state {
	case StateVault:
		actions = []key.Binding{m.keys.Add, m.keys.Delete, m.keys.Restore}
	case StateUnlocked:
		actions = []key.Binding{m.keys.Respond, m.keys.Delete, m.keys.Restore}
	case StateDetail:
		actions = []key.Binding{m.keys.Respond}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// newMemoryForm builds the create form shown in StateCreate.
func newMemoryForm(fm *MemoryFormModel) *huh.Form {
	categoryOptions := make([]huh.Option[string], 0, len(models.Categories))
	for _, info := range models.Categories {
		label := fmt.Sprintf("%s - %s", info.Name, info.Description)
		categoryOptions = append(categoryOptions, huh.NewOption(label, string(info.Name)))
	}

	moodOptions := make([]huh.Option[string], 0, len(models.SuggestedMoods)+1)
	moodOptions = append(moodOptions, huh.NewOption("(none)", ""))
	for _, mood := range models.SuggestedMoods {
		moodOptions = append(moodOptions, huh.NewOption(mood, mood))
	}

	importanceOptions := make([]huh.Option[string], 0, models.MaxImportance)
	for i := models.MinImportance; i <= models.MaxImportance; i++ {
		importanceOptions = append(importanceOptions, huh.NewOption(strconv.Itoa(i), strconv.Itoa(i)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Write to your future self").
				Value(&fm.Content).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("content is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Category").
				Options(categoryOptions...).
				Value(&fm.Category),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Importance").
				Options(importanceOptions...).
				Value(&fm.Importance),
			huh.NewSelect[string]().
				Title("How do you feel right now?").
				Options(moodOptions...).
				Value(&fm.Mood),
			huh.NewInput().
				Title("Unlock after how many days?").
				Value(&fm.UnlockDays).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n <= 0 {
						return fmt.Errorf("enter a positive number of days")
					}
					return nil
				}),
		),
	)
}

// newResponseForm builds the response form shown in StateRespond.
func newResponseForm(fm *ResponseFormModel) *huh.Form {
	moodOptions := make([]huh.Option[string], 0, len(models.SuggestedMoods)+1)
	moodOptions = append(moodOptions, huh.NewOption("(none)", ""))
	for _, mood := range models.SuggestedMoods {
		moodOptions = append(moodOptions, huh.NewOption(mood, mood))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Your response").
				Value(&fm.Text).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("response text is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("How do you feel reading this?").
				Options(moodOptions...).
				Value(&fm.Mood),
		),
	)
}
