package handlers

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/tui/state"
)

// HandleHomeState handles the habit list screen
func HandleHomeState(m *state.Model, msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case key.Matches(keyMsg, m.Keys.Up):
		if m.HomeCursor > 0 {
			m.HomeCursor--
		}
	case key.Matches(keyMsg, m.Keys.Down):
		if m.HomeCursor < m.App.Habits.Len()-1 {
			m.HomeCursor++
		}
	case key.Matches(keyMsg, m.Keys.Increment):
		return Increment(m)
	case key.Matches(keyMsg, m.Keys.Decrement):
		return Decrement(m)
	case key.Matches(keyMsg, m.Keys.Edit, m.Keys.Enter):
		if h, ok := m.SelectedHabit(); ok {
			m.LoadHabitForm(h)
			return openHabitForm(m, constants.ScreenEdit)
		}
	case key.Matches(keyMsg, m.Keys.Delete):
		if h, ok := m.SelectedHabit(); ok {
			m.ConfirmDeleteID = h.ID
		}
	}
	return nil
}

// Increment records one completion of the selected habit for today.
func Increment(m *state.Model) tea.Cmd {
	h, ok := m.SelectedHabit()
	if !ok {
		return nil
	}
	task, ok := m.App.Increment(m.Ctx, h.ID)
	if !ok {
		return nil
	}
	return awaitMutation(m.Ctx, constants.ActionTrack, h.ID, task, false)
}

// Decrement removes the latest completion of the selected habit for today.
func Decrement(m *state.Model) tea.Cmd {
	h, ok := m.SelectedHabit()
	if !ok {
		return nil
	}
	task, ok := m.App.Decrement(m.Ctx, h.ID)
	if !ok {
		return nil
	}
	return awaitMutation(m.Ctx, constants.ActionUndoTrack, h.ID, task, false)
}
