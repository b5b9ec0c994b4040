package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/gateway"
	"github.com/julianstephens/habitual/internal/gateway/gatewaytest"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/session"
	"github.com/julianstephens/habitual/internal/storage"
)

// Thursday
var fixedNow = time.Date(2024, 6, 6, 9, 30, 0, 0, time.UTC)

type memSessions struct {
	s models.Session
}

func (m *memSessions) Load() (models.Session, error) {
	if !m.s.Valid() {
		return models.Session{}, session.ErrNotFound
	}
	return m.s, nil
}

func (m *memSessions) Save(s models.Session) error {
	m.s = s
	return nil
}

func (m *memSessions) Clear() error {
	m.s = models.Session{}
	return nil
}

type fixture struct {
	app      *App
	fake     *gatewaytest.Fake
	sessions *memSessions
	cache    storage.Provider
	ctx      context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cache, err := storage.Open(filepath.Join(t.TempDir(), "cache.json"))
	if err != nil {
		t.Fatalf("opening cache: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	f := &fixture{
		fake:     gatewaytest.New(),
		sessions: &memSessions{},
		cache:    cache,
		ctx:      ctx,
	}
	f.app = New(f.fake,
		WithCache(cache),
		WithSessionStore(f.sessions),
		WithLocation(time.UTC),
		WithLocale("en_US"),
		WithClock(func() time.Time { return fixedNow }),
	)
	return f
}

// login signs up on the fake backend and completes auth through the app.
func (f *fixture) login(t *testing.T) models.Session {
	t.Helper()
	resp, err := f.app.Authenticate(f.ctx, constants.AuthSignup, "sari", "pw").Wait(f.ctx)
	if err := f.app.CompleteAuth(resp, err); err != nil {
		t.Fatalf("CompleteAuth() failed: %v", err)
	}
	return f.app.Session
}

func (f *fixture) refresh(t *testing.T) {
	t.Helper()
	task, err := f.app.Fetch(f.ctx)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	snap, err := task.Wait(f.ctx)
	if err != nil {
		t.Fatalf("fetch task failed: %v", err)
	}
	f.app.ApplySnapshot(snap)
}

func (f *fixture) seedHabit(t *testing.T, h models.Habit) models.Habit {
	t.Helper()
	f.fake.Store.Handle(gateway.HabitRequest(constants.ActionCreateHabit, f.app.Session.UserID, h))
	f.refresh(t)
	got, ok := f.app.Habits.FindByName(h.Name)
	if !ok {
		t.Fatalf("seeded habit %q missing", h.Name)
	}
	return got
}

func mustWait(t *testing.T, ctx context.Context, task *gateway.Task[gateway.Response]) gateway.Response {
	t.Helper()
	resp, err := task.Wait(ctx)
	if err != nil {
		t.Fatalf("task failed: %v", err)
	}
	return resp
}

func TestAuthPersistsSession(t *testing.T) {
	f := newFixture(t)
	s := f.login(t)
	if !f.app.Authenticated() {
		t.Fatal("app not authenticated after signup")
	}
	if f.sessions.s != s {
		t.Errorf("persisted session = %+v, want %+v", f.sessions.s, s)
	}
}

func TestAuthFailureKeepsUnauthenticated(t *testing.T) {
	f := newFixture(t)
	resp, err := f.app.Authenticate(f.ctx, constants.AuthLogin, "ghost", "pw").Wait(f.ctx)
	err = f.app.CompleteAuth(resp, err)
	if !errors.Is(err, gateway.ErrAuthFailed) {
		t.Fatalf("CompleteAuth() error = %v, want %v", err, gateway.ErrAuthFailed)
	}
	if f.app.Authenticated() {
		t.Error("failed login must not authenticate")
	}
}

func TestIncrementStopsAtDailyTarget(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	h := f.seedHabit(t, models.Habit{Name: "Water", DailyTarget: 2})

	for i := 0; i < 2; i++ {
		task, ok := f.app.Increment(f.ctx, h.ID)
		if !ok {
			t.Fatalf("increment %d was refused", i+1)
		}
		mustWait(t, f.ctx, task)
	}
	posts := len(f.fake.Posts())

	task, ok := f.app.Increment(f.ctx, h.ID)
	if ok || task != nil {
		t.Fatal("increment past the daily target must be a no-op")
	}
	if got := f.app.Logs.CountMatching(h.ID, "2024-06-06"); got != 2 {
		t.Errorf("count = %d, want 2", got)
	}
	if got := len(f.fake.Posts()); got != posts {
		t.Errorf("a request was issued for a full habit: posts %d -> %d", posts, got)
	}
}

func TestDecrementAtZeroIsNoOp(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	h := f.seedHabit(t, models.Habit{Name: "Walk"})
	posts := len(f.fake.Posts())

	if _, ok := f.app.Decrement(f.ctx, h.ID); ok {
		t.Fatal("decrement with no entries must be a no-op")
	}
	if got := len(f.fake.Posts()); got != posts {
		t.Errorf("a request was issued: posts %d -> %d", posts, got)
	}

	task, ok := f.app.Increment(f.ctx, h.ID)
	if !ok {
		t.Fatal("increment refused")
	}
	mustWait(t, f.ctx, task)
	task, ok = f.app.Decrement(f.ctx, h.ID)
	if !ok {
		t.Fatal("decrement refused")
	}
	mustWait(t, f.ctx, task)

	last := f.fake.Posts()[len(f.fake.Posts())-1]
	want := gateway.TrackRequest(constants.ActionUndoTrack, f.app.Session.UserID, h.ID, "2024-06-06")
	if last != want {
		t.Errorf("last request = %+v, want %+v", last, want)
	}
}

func TestCreateIsOptimisticThenReconciled(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	task, ok := f.app.SaveHabit(f.ctx, models.HabitForm{Name: "  Read  ", Emoji: "📚", WeeklyTarget: 5, DailyTarget: 1})
	if !ok {
		t.Fatal("SaveHabit() refused a valid form")
	}
	pending := f.app.Habits.Pending()
	if len(pending) != 1 || pending[0].Name != "Read" {
		t.Fatalf("pending = %+v, want one temp habit named Read", pending)
	}
	tempID := pending[0].ID

	mustWait(t, f.ctx, task)
	sent := f.fake.Posts()[len(f.fake.Posts())-1]
	if sent.Action != constants.ActionCreateHabit || sent.HabitID != "" {
		t.Errorf("create request = %+v, want empty habit id", sent)
	}

	f.refresh(t)
	if _, ok := f.app.Habits.Get(tempID); ok {
		t.Error("temporary id survived reconciliation")
	}
	h, ok := f.app.Habits.FindByName("Read")
	if !ok {
		t.Fatal("created habit missing after refetch")
	}
	if st, _ := f.app.Habits.State(h.ID); st != models.HabitConfirmed {
		t.Errorf("state = %v, want confirmed", st)
	}
}

func TestSaveHabitBlankNameIsNoOp(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	if _, ok := f.app.SaveHabit(f.ctx, models.HabitForm{Name: "   "}); ok {
		t.Error("blank name must be a no-op")
	}
	if f.app.Habits.Len() != 0 {
		t.Error("blank name created a habit")
	}
}

func TestEditIsOptimistic(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	h := f.seedHabit(t, models.Habit{Name: "Read", WeeklyTarget: 3})

	form := models.HabitForm{ID: h.ID, Name: "Read daily", Emoji: "🧠", WeeklyTarget: 7, DailyTarget: 2}
	task, ok := f.app.SaveHabit(f.ctx, form)
	if !ok {
		t.Fatal("edit refused")
	}
	got, _ := f.app.Habits.Get(h.ID)
	if got.Name != "Read daily" || got.DailyTarget != 2 {
		t.Errorf("habit not updated before the response: %+v", got)
	}
	mustWait(t, f.ctx, task)
	f.refresh(t)
	got, _ = f.app.Habits.Get(h.ID)
	if got.Emoji != "🧠" {
		t.Errorf("server copy = %+v", got)
	}
}

func TestDeleteRemovesLogsAndNeverResurrects(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	keep := f.seedHabit(t, models.Habit{Name: "Walk"})
	gone := f.seedHabit(t, models.Habit{Name: "Smoke-free", DailyTarget: 3})
	for _, id := range []string{keep.ID, gone.ID, gone.ID} {
		task, _ := f.app.Increment(f.ctx, id)
		mustWait(t, f.ctx, task)
	}
	// A stale row for the habit from another day
	f.app.Logs.Append(models.LogEntry{HabitID: gone.ID, Date: "2024-06-01", Status: constants.LogStatusDone})

	// Hold the delete so a fetch can race it
	f.fake.Hold()
	task, ok := f.app.DeleteHabit(f.ctx, gone.ID)
	if !ok {
		t.Fatal("delete refused")
	}
	if _, visible := f.app.Habits.Get(gone.ID); visible {
		t.Error("deleted habit still visible")
	}
	if n := f.app.Logs.CountForHabit(gone.ID); n != 0 {
		t.Errorf("logs left for deleted habit: %d", n)
	}
	for _, date := range []string{"2024-06-01", "2024-06-06"} {
		for _, dh := range f.app.DayDetail(date) {
			if dh.Habit.ID == gone.ID {
				t.Errorf("deleted habit listed on %s", date)
			}
		}
	}

	// The server still has the habit; reconciliation must not bring it back.
	snap := f.fake.Store.Snapshot(f.app.Session.UserID)
	f.app.ApplySnapshot(snap)
	if _, visible := f.app.Habits.Get(gone.ID); visible {
		t.Error("fetch resurrected a pending delete")
	}
	if n := f.app.Logs.CountForHabit(gone.ID); n != 0 {
		t.Errorf("fetch restored %d logs of a pending delete", n)
	}
	if n := f.app.Logs.CountForHabit(keep.ID); n != 1 {
		t.Errorf("kept habit logs = %d, want 1", n)
	}

	f.fake.Release()
	resp := mustWait(t, f.ctx, task)
	f.app.CompleteDelete(gone.ID, resp, nil)
	if st, _ := f.app.Habits.State(gone.ID); st != models.HabitDeleted {
		t.Errorf("state after confirmation = %v, want deleted", st)
	}
}

func TestRestoreUsesCachedSnapshot(t *testing.T) {
	f := newFixture(t)
	s := f.login(t)
	f.seedHabit(t, models.Habit{Name: "Stretch"})

	next := New(f.fake,
		WithCache(f.cache),
		WithSessionStore(f.sessions),
		WithLocation(time.UTC),
		WithClock(func() time.Time { return fixedNow }),
	)
	if !next.Restore() {
		t.Fatal("Restore() found no session")
	}
	if next.Session != s {
		t.Errorf("restored session = %+v, want %+v", next.Session, s)
	}
	if _, ok := next.Habits.FindByName("Stretch"); !ok {
		t.Error("cached habit not shown before the first fetch")
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	h := f.seedHabit(t, models.Habit{Name: "Read"})
	task, _ := f.app.Increment(f.ctx, h.ID)
	mustWait(t, f.ctx, task)
	userID := f.app.Session.UserID

	if err := f.app.Logout(); err != nil {
		t.Fatalf("Logout() failed: %v", err)
	}
	if f.app.Authenticated() || f.app.Habits.Len() != 0 || f.app.Logs.Len() != 0 {
		t.Error("in-memory state survived logout")
	}
	if f.sessions.s.Valid() {
		t.Error("persisted session survived logout")
	}
	if _, err := f.cache.GetSnapshot(userID); !errors.Is(err, storage.ErrNoSnapshot) {
		t.Errorf("cache after logout: %v, want %v", err, storage.ErrNoSnapshot)
	}
	if _, err := f.app.Fetch(f.ctx); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("Fetch() after logout error = %v, want %v", err, ErrNotAuthenticated)
	}
}

func TestApplySnapshotCleansDates(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.app.ApplySnapshot(models.Snapshot{
		Habits: []models.Habit{{ID: "h1", Name: "Run", Emoji: "🏃", WeeklyTarget: 3, DailyTarget: 1}},
		Logs: []models.LogEntry{
			{HabitID: "h1", Date: "2024-06-05T00:00:00.000Z", Status: "Done"},
			{HabitID: "h1", Date: "Thu Jun 06 2024 00:00:00 GMT+0000 (Coordinated Universal Time)", Status: "Done"},
		},
	})
	if got := f.app.Logs.CountMatching("h1", "2024-06-05"); got != 1 {
		t.Errorf("ISO timestamp not normalized, count = %d", got)
	}
	if got := f.app.Logs.CountMatching("h1", "2024-06-06"); got != 1 {
		t.Errorf("JS date string not normalized, count = %d", got)
	}
}

func TestViews(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.app.ApplySnapshot(models.Snapshot{
		Habits: []models.Habit{
			{ID: "h1", Name: "Run", Emoji: "🏃", WeeklyTarget: 3, DailyTarget: 1},
			{ID: "h2", Name: "Read", Emoji: "📚", WeeklyTarget: 7, DailyTarget: 2},
		},
		Logs: []models.LogEntry{
			{HabitID: "h1", Date: "2024-06-03", Status: "Done"},
			{HabitID: "h1", Date: "2024-06-05", Status: "Done"},
			{HabitID: "h2", Date: "2024-06-06", Status: "Done"},
		},
	})

	rows := f.app.Rows()
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Week != 2 || rows[0].Progress < 66.66 || rows[0].Progress > 66.67 {
		t.Errorf("Run row = %+v, want 2 days and 66.67%%", rows[0])
	}
	if rows[1].Today != 1 || rows[1].Full {
		t.Errorf("Read row = %+v, want 1/2 and not full", rows[1])
	}
	if got := f.app.Streak(); got != 2 {
		t.Errorf("Streak() = %d, want 2", got)
	}
	if got := f.app.TodayLabel(); got != "Thursday, 6 June" {
		t.Errorf("TodayLabel() = %q", got)
	}
	if trend := f.app.Trend(); len(trend) != constants.TrendDays || !trend[6].IsToday {
		t.Errorf("Trend() = %+v", trend)
	}
	if freq := f.app.Frequency(); freq[0].Habit.ID != "h1" || freq[0].Width != 100 || freq[1].Width != 50 {
		t.Errorf("Frequency() = %+v", freq)
	}
	grid := f.app.Month(fixedNow)
	if grid.Days[4].Intensity != 1 || !grid.Days[5].IsToday {
		t.Errorf("Month() = %+v", grid.Days[:6])
	}
}
