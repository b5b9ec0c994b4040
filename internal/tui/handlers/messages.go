package handlers

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/app"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/gateway"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/tui/state"
)

// AuthResultMsg carries the outcome of a login or signup request
type AuthResultMsg struct {
	Resp gateway.Response
	Err  error
}

// FetchResultMsg carries a downloaded snapshot for UserID
type FetchResultMsg struct {
	UserID string
	Snap   models.Snapshot
	Err    error
}

// MutationResultMsg carries the outcome of a create, edit or track request
type MutationResultMsg struct {
	Action  constants.Action
	HabitID string
	Resp    gateway.Response
	Err     error
	Refetch bool
}

// DeleteResultMsg carries the outcome of a delete request
type DeleteResultMsg struct {
	HabitID string
	Resp    gateway.Response
	Err     error
}

// TickMsg triggers a periodic refresh
type TickMsg time.Time

func awaitAuth(ctx context.Context, task *gateway.Task[gateway.Response]) tea.Cmd {
	return func() tea.Msg {
		resp, err := task.Wait(ctx)
		return AuthResultMsg{Resp: resp, Err: err}
	}
}

func awaitMutation(ctx context.Context, action constants.Action, habitID string, task *gateway.Task[gateway.Response], refetch bool) tea.Cmd {
	return func() tea.Msg {
		resp, err := task.Wait(ctx)
		return MutationResultMsg{Action: action, HabitID: habitID, Resp: resp, Err: err, Refetch: refetch}
	}
}

func awaitDelete(ctx context.Context, habitID string, task *gateway.Task[gateway.Response]) tea.Cmd {
	return func() tea.Msg {
		resp, err := task.Wait(ctx)
		return DeleteResultMsg{HabitID: habitID, Resp: resp, Err: err}
	}
}

// FetchCmd starts a fetch for the current user and marks the model as syncing.
func FetchCmd(m *state.Model) tea.Cmd {
	task, err := m.App.Fetch(m.Ctx)
	if err != nil {
		return nil
	}
	m.Syncing++
	userID := m.App.Session.UserID
	ctx := m.Ctx
	return func() tea.Msg {
		snap, err := task.Wait(ctx)
		return FetchResultMsg{UserID: userID, Snap: snap, Err: err}
	}
}

// TickCmd schedules the next auto refresh. A zero interval disables it.
func TickCmd(d time.Duration) tea.Cmd {
	if d <= 0 {
		return nil
	}
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// HandleFetchResult applies a snapshot unless it belongs to a previous session.
func HandleFetchResult(m *state.Model, msg FetchResultMsg) tea.Cmd {
	if m.Syncing > 0 {
		m.Syncing--
	}
	if msg.UserID != m.App.Session.UserID {
		logger.Debug("dropping snapshot of a previous session", "user_id", msg.UserID)
		return nil
	}
	if msg.Err != nil {
		logger.Warn("fetch failed", "error", msg.Err)
		return nil
	}
	m.App.ApplySnapshot(msg.Snap)
	m.ClampCursor()
	return nil
}

// HandleMutationResult logs failures and refetches after create or edit.
func HandleMutationResult(m *state.Model, msg MutationResultMsg) tea.Cmd {
	app.LogMutation(msg.Action, msg.HabitID, msg.Resp, msg.Err)
	if msg.Refetch {
		return FetchCmd(m)
	}
	return nil
}

// HandleDeleteResult records the outcome of a delete. No refetch follows.
func HandleDeleteResult(m *state.Model, msg DeleteResultMsg) tea.Cmd {
	m.App.CompleteDelete(msg.HabitID, msg.Resp, msg.Err)
	return nil
}

// HandleTick refreshes while a session is active and schedules the next tick.
func HandleTick(m *state.Model) tea.Cmd {
	next := TickCmd(m.RefreshInterval)
	if !m.App.Authenticated() || m.Syncing > 0 {
		return next
	}
	return tea.Batch(FetchCmd(m), next)
}
