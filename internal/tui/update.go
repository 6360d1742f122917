package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/memkeeper/internal/models"
	"github.com/julianstephens/memkeeper/internal/tui/components/memorylist"
	"github.com/julianstephens/memkeeper/internal/vault"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.vaultList.SetSize(msg.Width-4, msg.Height-6)
		m.unlockedList.SetSize(msg.Width-4, msg.Height-6)

	case memorylist.AddMemoryMsg:
		m.previousState = m.state
		m.memoryForm = &MemoryFormModel{
			Category:   string(models.CategoryLetter),
			Importance: "3",
			UnlockDays: "30",
		}
		m.form = newMemoryForm(m.memoryForm)
		m.state = StateCreate
		return m, m.form.Init()

	case memorylist.OpenMemoryMsg:
		memory, err := m.keeper.Get(msg.ID)
		if err != nil {
			m.statusMessage = fmt.Sprintf("⚠ %v", err)
			return m, nil
		}
		m.previousState = m.state
		m.detail = &memory
		m.state = StateDetail
		return m, nil

	case memorylist.RespondMsg:
		m.previousState = m.state
		m.respondToID = msg.ID
		m.responseForm = &ResponseFormModel{}
		m.form = newResponseForm(m.responseForm)
		m.state = StateRespond
		return m, m.form.Init()

	case memorylist.DeleteMemoryMsg:
		m.previousState = m.state
		m.deleteID = msg.ID
		m.state = StateConfirmDelete
		return m, nil

	case memorylist.RestoreMemoryMsg:
		if err := m.keeper.Restore(msg.ID); err != nil {
			m.statusMessage = fmt.Sprintf("⚠ %v", err)
		} else {
			m.statusMessage = "✓ Memory restored"
			m.refreshLists()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Active forms consume every message, not just keys
	if m.form != nil && (m.state == StateCreate || m.state == StateRespond) {
		return m.updateForm(msg)
	}

	return m.updateChildren(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Forms swallow all key input while active
	if m.state == StateCreate || m.state == StateRespond {
		return m.updateForm(msg)
	}

	switch m.state {
	case StateConfirmDelete:
		switch msg.String() {
		case "y", "Y":
			if err := m.keeper.Delete(m.deleteID); err != nil {
				m.statusMessage = fmt.Sprintf("⚠ %v", err)
			} else {
				m.statusMessage = "✓ Memory deleted"
				m.refreshLists()
			}
			m.state = m.previousState
			m.deleteID = ""
		case "n", "N", "esc":
			m.state = m.previousState
			m.deleteID = ""
		}
		return m, nil

	case StateDetail:
		switch {
		case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
			m.detail = nil
			m.state = m.previousState
			return m, nil
		case key.Matches(msg, m.keys.Respond):
			if m.detail != nil {
				id := m.detail.ID
				return m.Update(memorylist.RespondMsg{ID: id})
			}
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		m.state = (m.state + 1) % tabCount
		return m, nil
	case key.Matches(msg, m.keys.ShiftTab):
		m.state = (m.state - 1 + tabCount) % tabCount
		return m, nil
	}

	return m.updateChildren(msg)
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		switch m.state {
		case StateCreate:
			m.submitMemoryForm()
		case StateRespond:
			m.submitResponseForm()
		}
		m.form = nil
		m.state = m.previousState
		m.refreshLists()
		return m, nil
	}
	if m.form.State == huh.StateAborted {
		m.form = nil
		m.state = m.previousState
		return m, nil
	}

	return m, cmd
}

func (m *Model) submitMemoryForm() {
	fm := m.memoryForm
	m.memoryForm = nil

	days, err := strconv.Atoi(fm.UnlockDays)
	if err != nil || days <= 0 {
		m.statusMessage = "⚠ invalid unlock days"
		return
	}
	importance, err := strconv.Atoi(fm.Importance)
	if err != nil {
		m.statusMessage = "⚠ invalid importance"
		return
	}

	memory, err := m.keeper.Create(vault.Draft{
		Title:      fm.Title,
		Content:    fm.Content,
		Category:   models.Category(fm.Category),
		Importance: importance,
		Mood:       fm.Mood,
		Policy:     models.UnlockPolicy{Kind: models.UnlockInterval, IntervalDays: days},
	})
	if err != nil {
		m.statusMessage = fmt.Sprintf("⚠ %v", err)
		return
	}
	m.statusMessage = fmt.Sprintf("✓ %q sealed until %s", memory.Title, memory.UnlockDate.Local().Format("2006-01-02"))
}

func (m *Model) submitResponseForm() {
	fm := m.responseForm
	m.responseForm = nil
	id := m.respondToID
	m.respondToID = ""

	if _, err := m.keeper.RecordResponse(id, fm.Text, fm.Mood); err != nil {
		m.statusMessage = fmt.Sprintf("⚠ %v", err)
		return
	}
	m.statusMessage = "✓ Response recorded"

	// Keep the detail view current if it is showing this memory
	if m.detail != nil && m.detail.ID == id {
		if memory, err := m.keeper.Get(id); err == nil {
			m.detail = &memory
		}
	}
}

func (m Model) updateChildren(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case StateVault:
		m.vaultList, cmd = m.vaultList.Update(msg)
	case StateUnlocked:
		m.unlockedList, cmd = m.unlockedList.Update(msg)
	}
	return m, cmd
}
