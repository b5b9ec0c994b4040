package state

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/app"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

// AuthFormModel represents the login/signup form model
type AuthFormModel struct {
	Username string
	Password string
}

// Model represents the shared state for the TUI
type Model struct {
	App *app.App
	Ctx context.Context

	Screen     constants.Screen
	Keys       KeyMap
	Help       help.Model
	Spinner    spinner.Model
	Progress   progress.Model
	Form       *huh.Form
	Width      int
	Height     int
	Quitting   bool
	Submitting bool // auth request in flight
	Syncing    int  // fetches in flight

	AuthMode  constants.AuthMode
	AuthForm  *AuthFormModel
	AuthError string

	HabitForm       *models.HabitForm
	ConfirmDeleteID string // habit awaiting a yes/no answer
	HomeCursor      int

	CalendarMonth  time.Time
	CalendarCursor int    // zero-based day of CalendarMonth
	DayDetail      string // date key of the open overlay, empty when closed

	RefreshInterval time.Duration
}

// New creates a new state Model. A restored session starts on home.
func New(ctx context.Context, a *app.App, refresh time.Duration) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		App:             a,
		Ctx:             ctx,
		Screen:          constants.ScreenUnauthenticated,
		Keys:            DefaultKeyMap(),
		Help:            help.New(),
		Spinner:         sp,
		Progress:        progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		AuthMode:        constants.AuthLogin,
		AuthForm:        &AuthFormModel{},
		RefreshInterval: refresh,
	}
	if a.Authenticated() {
		m.Screen = constants.ScreenHome
	}
	m.ResetCalendar()
	m.ResetHabitForm()
	return m
}

// Busy reports whether the sync indicator should show.
func (m *Model) Busy() bool {
	return m.Syncing > 0 || m.Submitting
}

// ResetHabitForm fills the form with defaults for a new habit.
func (m *Model) ResetHabitForm() {
	m.HabitForm = &models.HabitForm{
		Emoji:        constants.DefaultEmoji,
		WeeklyTarget: constants.DefaultWeeklyTarget,
		DailyTarget:  constants.DefaultDailyTarget,
	}
}

// LoadHabitForm pre-populates the form from an existing habit.
func (m *Model) LoadHabitForm(h models.Habit) {
	m.HabitForm = &models.HabitForm{
		ID:           h.ID,
		Name:         h.Name,
		Emoji:        h.Emoji,
		WeeklyTarget: h.WeeklyTarget,
		DailyTarget:  h.DailyTarget,
	}
}

// ResetAuth clears the auth form, keeping the mode.
func (m *Model) ResetAuth() {
	m.AuthForm = &AuthFormModel{}
	m.AuthError = ""
	m.Submitting = false
}

// ResetCalendar moves the calendar to today and closes the overlay.
func (m *Model) ResetCalendar() {
	now := m.App.Now()
	m.CalendarMonth = utils.StartOfMonth(now)
	m.CalendarCursor = now.Day() - 1
	m.DayDetail = ""
}

// SelectedHabit returns the habit under the home cursor.
func (m *Model) SelectedHabit() (models.Habit, bool) {
	habits := m.App.Habits.List()
	if len(habits) == 0 {
		return models.Habit{}, false
	}
	m.ClampCursor()
	return habits[m.HomeCursor], true
}

// ClampCursor keeps the home cursor inside the habit list.
func (m *Model) ClampCursor() {
	n := m.App.Habits.Len()
	if m.HomeCursor >= n {
		m.HomeCursor = n - 1
	}
	if m.HomeCursor < 0 {
		m.HomeCursor = 0
	}
}
