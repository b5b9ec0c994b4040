// Package app holds the state of a signed-in session and the operations every
// front end shares: optimistic habit mutations, tracking, fetch reconciliation
// and the derived views over them.
//
// An App is not safe for concurrent use. Front ends call it from one goroutine
// and hand the returned tasks back to that goroutine when they complete.
package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/gateway"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/logstore"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/registry"
	"github.com/julianstephens/habitual/internal/session"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

// ErrNotAuthenticated is returned by operations that need a session
var ErrNotAuthenticated = errors.New("not logged in")

// SessionStore persists the signed-in identity
type SessionStore interface {
	Load() (models.Session, error)
	Save(models.Session) error
	Clear() error
}

// App is the explicit application state: created on session start and torn
// down on logout.
type App struct {
	Session models.Session
	Habits  *registry.Registry
	Logs    *logstore.Store

	gw       *gateway.Dispatcher
	sessions SessionStore
	cache    storage.Provider
	loc      *time.Location
	locale   string
	clock    func() time.Time
	regOpts  []registry.Option
}

// Option configures an App
type Option func(*App)

// WithCache enables the local snapshot cache.
func WithCache(p storage.Provider) Option {
	return func(a *App) { a.cache = p }
}

// WithSessionStore replaces the OS keyring session store.
func WithSessionStore(s SessionStore) Option {
	return func(a *App) { a.sessions = s }
}

// WithLocation sets the timezone that decides what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(a *App) {
		if loc != nil {
			a.loc = loc
		}
	}
}

// WithLocale sets the label locale, e.g. "id_ID" or "en_US".
func WithLocale(locale string) Option {
	return func(a *App) {
		if locale != "" {
			a.locale = locale
		}
	}
}

// WithClock overrides the wall clock.
func WithClock(fn func() time.Time) Option {
	return func(a *App) { a.clock = fn }
}

// WithRegistryOptions passes options to the habit registry.
func WithRegistryOptions(opts ...registry.Option) Option {
	return func(a *App) { a.regOpts = append(a.regOpts, opts...) }
}

// New creates an App talking to gw.
func New(gw gateway.Gateway, opts ...Option) *App {
	a := &App{
		gw:       gateway.NewDispatcher(gw),
		sessions: session.Keyring{},
		loc:      time.Local,
		locale:   constants.DefaultLocale,
		clock:    time.Now,
		Logs:     logstore.New(nil),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.Habits = registry.New(a.regOpts...)
	return a
}

// Now returns the current time in the configured timezone.
func (a *App) Now() time.Time {
	return a.clock().In(a.loc)
}

// Today returns today's date key.
func (a *App) Today() string {
	return utils.DateKeyIn(a.Now(), a.loc)
}

// Location returns the configured timezone.
func (a *App) Location() *time.Location {
	return a.loc
}

// Locale returns the label locale.
func (a *App) Locale() string {
	return a.locale
}

// Authenticated reports whether a session is active.
func (a *App) Authenticated() bool {
	return a.Session.Valid()
}

// Restore resumes a stored session and shows the cached snapshot, if any,
// until the first fetch lands. It reports whether a session was found.
func (a *App) Restore() bool {
	s, err := a.sessions.Load()
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			logger.Warn("failed to load session", "error", err)
		}
		return false
	}
	a.Session = s
	logger.SetUser(s.UserID)

	if a.cache != nil {
		snap, err := a.cache.GetSnapshot(s.UserID)
		switch {
		case err == nil:
			a.load(snap)
		case !errors.Is(err, storage.ErrNoSnapshot):
			logger.Warn("failed to read snapshot cache", "error", err)
		}
	}
	return true
}

// Authenticate starts a login or signup request.
func (a *App) Authenticate(ctx context.Context, mode constants.AuthMode, username, password string) *gateway.Task[gateway.Response] {
	return a.gw.Post(ctx, gateway.AuthRequest(mode, strings.TrimSpace(username), password))
}

// CompleteAuth applies the result of Authenticate. On success the session is
// persisted and becomes active.
func (a *App) CompleteAuth(resp gateway.Response, err error) error {
	if err != nil {
		logger.Warn("auth request failed", "error", err)
		return err
	}
	s, err := gateway.SessionFromAuth(resp)
	if err != nil {
		return err
	}
	a.Habits.Clear()
	a.Logs.Replace(nil)
	a.Session = s
	if err := a.sessions.Save(s); err != nil {
		logger.Warn("failed to persist session", "error", err)
	}
	logger.SetUser(s.UserID)
	logger.Info("signed in", "username", s.Username)
	return nil
}

// Logout clears the persisted session, the snapshot cache and all in-memory state.
func (a *App) Logout() error {
	var errs []error
	if err := a.sessions.Clear(); err != nil {
		errs = append(errs, err)
	}
	if a.cache != nil {
		if err := a.cache.Clear(); err != nil {
			errs = append(errs, err)
		}
	}
	a.Session = models.Session{}
	a.Habits.Clear()
	a.Logs.Replace(nil)
	logger.SetUser("")
	return errors.Join(errs...)
}

// Fetch starts an authoritative download of the user's data.
func (a *App) Fetch(ctx context.Context) (*gateway.Task[models.Snapshot], error) {
	if !a.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	return a.gw.Fetch(ctx, a.Session.UserID), nil
}

// ApplySnapshot replaces local state with a fetch result. Habits deleted during
// this session, and their logs, stay gone even if the server still lists them.
// The result is written to the cache.
func (a *App) ApplySnapshot(snap models.Snapshot) {
	a.load(snap)
	if a.cache == nil || !a.Authenticated() {
		return
	}
	stored := models.Snapshot{Habits: a.Habits.List(), Logs: a.Logs.All(), FetchedAt: snap.FetchedAt}
	if err := a.cache.SaveSnapshot(a.Session.UserID, stored); err != nil {
		logger.Warn("failed to write snapshot cache", "error", err)
	}
}

func (a *App) load(snap models.Snapshot) {
	a.Habits.Reconcile(snap.Habits)

	logs := make([]models.LogEntry, 0, len(snap.Logs))
	for _, l := range snap.Logs {
		if a.Habits.IsTombstoned(l.HabitID) {
			continue
		}
		l.Date = utils.DateKeyIn(l.Date, a.loc)
		logs = append(logs, l)
	}
	a.Logs.Replace(logs)
}

// Increment records one completion of a habit for today. It is a no-op, with
// no request, once the daily target is reached.
func (a *App) Increment(ctx context.Context, habitID string) (*gateway.Task[gateway.Response], bool) {
	h, ok := a.Habits.Get(habitID)
	if !ok || !a.Authenticated() {
		return nil, false
	}
	today := a.Today()
	if a.Logs.CountMatching(habitID, today) >= h.DailyTarget {
		return nil, false
	}
	a.Logs.Append(models.LogEntry{HabitID: habitID, Date: today, Status: constants.LogStatusDone})
	return a.gw.Post(ctx, gateway.TrackRequest(constants.ActionTrack, a.Session.UserID, habitID, today)), true
}

// Decrement removes the latest completion of a habit for today. It is a no-op
// when there is nothing to remove.
func (a *App) Decrement(ctx context.Context, habitID string) (*gateway.Task[gateway.Response], bool) {
	if _, ok := a.Habits.Get(habitID); !ok || !a.Authenticated() {
		return nil, false
	}
	today := a.Today()
	if !a.Logs.RemoveLastMatching(habitID, today) {
		return nil, false
	}
	return a.gw.Post(ctx, gateway.TrackRequest(constants.ActionUndoTrack, a.Session.UserID, habitID, today)), true
}

// SaveHabit creates or edits a habit optimistically. A blank name is a no-op.
// Callers refetch once the returned task completes, whatever its outcome.
func (a *App) SaveHabit(ctx context.Context, form models.HabitForm) (*gateway.Task[gateway.Response], bool) {
	if !a.Authenticated() {
		return nil, false
	}
	form.Name = strings.TrimSpace(form.Name)
	if form.Name == "" {
		return nil, false
	}

	if form.IsEdit() {
		h := form.Habit()
		if !a.Habits.Edit(h) {
			return nil, false
		}
		h, _ = a.Habits.Get(h.ID)
		return a.gw.Post(ctx, gateway.HabitRequest(constants.ActionEditHabit, a.Session.UserID, h)), true
	}

	created := a.Habits.Create(form.Habit())
	// The server assigns the permanent id
	body := created
	body.ID = ""
	return a.gw.Post(ctx, gateway.HabitRequest(constants.ActionCreateHabit, a.Session.UserID, body)), true
}

// DeleteHabit hides a habit and its logs and starts the delete request. The
// caller is responsible for having confirmed the action with the user.
func (a *App) DeleteHabit(ctx context.Context, habitID string) (*gateway.Task[gateway.Response], bool) {
	if !a.Authenticated() {
		return nil, false
	}
	if _, ok := a.Habits.MarkPendingDelete(habitID); !ok {
		return nil, false
	}
	a.Logs.RemoveAllForHabit(habitID)
	return a.gw.Post(ctx, gateway.DeleteRequest(a.Session.UserID, habitID)), true
}

// CompleteDelete records the outcome of a delete request. A failed delete
// keeps the habit hidden; the next fetch after restart shows it again.
func (a *App) CompleteDelete(habitID string, resp gateway.Response, err error) {
	if err == nil && resp.OK() {
		a.Habits.ConfirmDeleted(habitID)
		return
	}
	LogMutation(constants.ActionDeleteHabit, habitID, resp, err)
}

// LogMutation records a failed mutation. Failures are never shown to the user.
func LogMutation(action constants.Action, habitID string, resp gateway.Response, err error) {
	switch {
	case err != nil:
		logger.Warn("request failed", "action", string(action), "habit_id", habitID, "error", err)
	case !resp.OK():
		logger.Warn("request rejected", "action", string(action), "habit_id", habitID, "message", resp.Message)
	}
}
