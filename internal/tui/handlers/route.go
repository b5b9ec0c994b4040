package handlers

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/tui/state"
)

// Route dispatches a message to the handler of the active screen. Async
// results are applied whatever screen is showing.
func Route(m *state.Model, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case AuthResultMsg:
		return HandleAuthResult(m, msg)
	case FetchResultMsg:
		return HandleFetchResult(m, msg)
	case MutationResultMsg:
		return HandleMutationResult(m, msg)
	case DeleteResultMsg:
		return HandleDeleteResult(m, msg)
	case TickMsg:
		return HandleTick(m)
	case tea.KeyMsg:
		if handled, cmd := HandleGlobalKeys(m, msg); handled {
			return cmd
		}
	}

	if m.ConfirmDeleteID != "" {
		return HandleConfirmDelete(m, msg)
	}

	switch m.Screen {
	case constants.ScreenUnauthenticated:
		return HandleUnauthenticatedState(m, msg)
	case constants.ScreenHome:
		return HandleHomeState(m, msg)
	case constants.ScreenCalendar:
		return HandleCalendarState(m, msg)
	case constants.ScreenAdd, constants.ScreenEdit:
		return HandleFormState(m, msg)
	}
	return nil
}
