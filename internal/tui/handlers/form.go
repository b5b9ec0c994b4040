package handlers

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/tui/state"
)

// OpenAddForm resets the habit form to defaults and shows it.
func OpenAddForm(m *state.Model) tea.Cmd {
	m.ResetHabitForm()
	return openHabitForm(m, constants.ScreenAdd)
}

func openHabitForm(m *state.Model, screen constants.Screen) tea.Cmd {
	m.Form = NewHabitForm(m.HabitForm)
	m.Screen = screen
	return m.Form.Init()
}

func closeHabitForm(m *state.Model) {
	m.Form = nil
	m.ResetHabitForm()
	m.Screen = constants.ScreenHome
}

// HandleFormState handles the add and edit screens
func HandleFormState(m *state.Model, msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case keyMsg.Type == tea.KeyEsc:
			closeHabitForm(m)
			return nil
		case m.Screen == constants.ScreenEdit && keyMsg.String() == "ctrl+d":
			m.ConfirmDeleteID = m.HabitForm.ID
			return nil
		}
	}

	if m.Form == nil {
		return openHabitForm(m, m.Screen)
	}

	var cmds []tea.Cmd
	form, cmd := m.Form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.Form = f
	}
	cmds = append(cmds, cmd)

	switch m.Form.State {
	case huh.StateCompleted:
		cmds = append(cmds, SubmitHabitForm(m))
	case huh.StateAborted:
		closeHabitForm(m)
	}
	return tea.Batch(cmds...)
}

// SubmitHabitForm saves the form optimistically and returns to home. The
// result of the request triggers a refetch either way.
func SubmitHabitForm(m *state.Model) tea.Cmd {
	form := *m.HabitForm
	action := constants.ActionCreateHabit
	if form.IsEdit() {
		action = constants.ActionEditHabit
	}

	task, ok := m.App.SaveHabit(m.Ctx, form)
	if !ok {
		if m.Form != nil {
			m.Form.State = huh.StateNormal
		}
		return nil
	}
	closeHabitForm(m)
	if action == constants.ActionCreateHabit {
		m.HomeCursor = m.App.Habits.Len() - 1
	}
	return awaitMutation(m.Ctx, action, form.ID, task, true)
}

// HandleConfirmDelete handles the yes/no gate in front of a habit delete
func HandleConfirmDelete(m *state.Model, msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(keyMsg, m.Keys.Confirm):
		return ConfirmDelete(m)
	case key.Matches(keyMsg, m.Keys.Deny), keyMsg.String() == "q":
		m.ConfirmDeleteID = ""
	}
	return nil
}

// ConfirmDelete removes the pending habit and its logs and sends the delete.
func ConfirmDelete(m *state.Model) tea.Cmd {
	id := m.ConfirmDeleteID
	m.ConfirmDeleteID = ""
	if id == "" {
		return nil
	}
	if m.Screen == constants.ScreenEdit {
		closeHabitForm(m)
	}
	task, ok := m.App.DeleteHabit(m.Ctx, id)
	m.ClampCursor()
	if !ok {
		return nil
	}
	return awaitDelete(m.Ctx, id, task)
}
