package handlers

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/gateway"
	"github.com/julianstephens/habitual/internal/tui/state"
)

// OpenAuthForm rebuilds the login/signup form from the current auth model.
func OpenAuthForm(m *state.Model) tea.Cmd {
	m.Form = NewAuthForm(m.AuthMode, m.AuthForm)
	return m.Form.Init()
}

// ToggleAuthMode switches between login and signup.
func ToggleAuthMode(m *state.Model) tea.Cmd {
	if m.AuthMode == constants.AuthLogin {
		m.AuthMode = constants.AuthSignup
	} else {
		m.AuthMode = constants.AuthLogin
	}
	m.AuthError = ""
	return OpenAuthForm(m)
}

// HandleUnauthenticatedState handles the login/signup screen
func HandleUnauthenticatedState(m *state.Model, msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.Keys.ToggleAuth) {
		if m.Submitting {
			return nil
		}
		return ToggleAuthMode(m)
	}

	if m.Form == nil {
		return OpenAuthForm(m)
	}

	var cmds []tea.Cmd
	form, cmd := m.Form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.Form = f
	}
	cmds = append(cmds, cmd)

	switch m.Form.State {
	case huh.StateCompleted:
		cmds = append(cmds, SubmitAuth(m))
	case huh.StateAborted:
		// esc clears the form rather than leaving the screen
		m.ResetAuth()
		cmds = append(cmds, OpenAuthForm(m))
	}
	return tea.Batch(cmds...)
}

// SubmitAuth sends the auth form. Only one auth request runs at a time.
func SubmitAuth(m *state.Model) tea.Cmd {
	if m.Submitting {
		return nil
	}
	username := strings.TrimSpace(m.AuthForm.Username)
	if username == "" || m.AuthForm.Password == "" {
		return nil
	}
	m.Submitting = true
	m.AuthError = ""
	task := m.App.Authenticate(m.Ctx, m.AuthMode, username, m.AuthForm.Password)
	return awaitAuth(m.Ctx, task)
}

// HandleAuthResult moves to home and fetches on success, or shows the
// server message inline and lets the user retry.
func HandleAuthResult(m *state.Model, msg AuthResultMsg) tea.Cmd {
	m.Submitting = false
	if err := m.App.CompleteAuth(msg.Resp, msg.Err); err != nil {
		m.AuthError = gateway.AuthMessage(err)
		m.AuthForm.Password = ""
		return OpenAuthForm(m)
	}

	m.ResetAuth()
	m.ResetHabitForm()
	m.HomeCursor = 0
	m.ResetCalendar()
	m.Form = nil
	m.Screen = constants.ScreenHome
	return FetchCmd(m)
}
