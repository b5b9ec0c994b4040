package gateway_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/devserver"
	"github.com/julianstephens/habitual/internal/gateway"
	"github.com/julianstephens/habitual/internal/models"
)

func newDevServer(t *testing.T) (*gateway.HTTPClient, *devserver.Store) {
	t.Helper()
	store := devserver.NewStore(devserver.WithBcryptCost(bcrypt.MinCost))
	srv := httptest.NewServer(devserver.New(store).Routes())
	t.Cleanup(srv.Close)
	return gateway.NewHTTPClient(srv.URL, 5*time.Second, time.UTC), store
}

func TestAuthenticateSignupThenLogin(t *testing.T) {
	client, _ := newDevServer(t)
	ctx := context.Background()

	signed, err := gateway.Authenticate(ctx, client, constants.AuthSignup, "sari", "rahasia")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if !signed.Valid() || signed.Username != "sari" {
		t.Fatalf("signup session = %+v", signed)
	}

	logged, err := gateway.Authenticate(ctx, client, constants.AuthLogin, "sari", "rahasia")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged != signed {
		t.Errorf("login session = %+v, want %+v", logged, signed)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	client, _ := newDevServer(t)
	ctx := context.Background()

	if _, err := gateway.Authenticate(ctx, client, constants.AuthSignup, "sari", "rahasia"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	_, err := gateway.Authenticate(ctx, client, constants.AuthLogin, "sari", "salah")
	if !errors.Is(err, gateway.ErrAuthFailed) {
		t.Fatalf("login error = %v, want %v", err, gateway.ErrAuthFailed)
	}
	if msg := gateway.AuthMessage(err); msg != devserver.MsgBadCredentials {
		t.Errorf("AuthMessage() = %q, want %q", msg, devserver.MsgBadCredentials)
	}
}

func TestAuthMessageTransportError(t *testing.T) {
	if got := gateway.AuthMessage(errors.New("dial tcp: refused")); got != constants.ConnectionFailed {
		t.Errorf("AuthMessage() = %q, want %q", got, constants.ConnectionFailed)
	}
	if got := gateway.AuthMessage(nil); got != "" {
		t.Errorf("AuthMessage(nil) = %q, want empty", got)
	}
}

func TestMutationsRoundTrip(t *testing.T) {
	client, _ := newDevServer(t)
	ctx := context.Background()

	sess, err := gateway.Authenticate(ctx, client, constants.AuthSignup, "budi", "pw")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	habit := models.Habit{Name: "Read", Emoji: "📚", WeeklyTarget: 5, DailyTarget: 2}
	post := func(req gateway.Request) {
		t.Helper()
		resp, err := client.Post(ctx, req)
		if err != nil {
			t.Fatalf("%s failed: %v", req.Action, err)
		}
		if !resp.OK() {
			t.Fatalf("%s status = %q (%s)", req.Action, resp.Status, resp.Message)
		}
	}

	post(gateway.HabitRequest(constants.ActionCreateHabit, sess.UserID, habit))
	snap, err := client.Fetch(ctx, sess.UserID)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if len(snap.Habits) != 1 || snap.Habits[0].Name != "Read" || snap.Habits[0].ID == "" {
		t.Fatalf("habits after create = %+v", snap.Habits)
	}
	id := snap.Habits[0].ID

	post(gateway.TrackRequest(constants.ActionTrack, sess.UserID, id, "2024-06-05"))
	post(gateway.TrackRequest(constants.ActionTrack, sess.UserID, id, "2024-06-05"))
	post(gateway.TrackRequest(constants.ActionUndoTrack, sess.UserID, id, "2024-06-05"))

	habit.ID = id
	habit.Name = "Read more"
	post(gateway.HabitRequest(constants.ActionEditHabit, sess.UserID, habit))

	snap, err = client.Fetch(ctx, sess.UserID)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if len(snap.Logs) != 1 || snap.Logs[0].Date != "2024-06-05" || snap.Logs[0].Status != constants.LogStatusDone {
		t.Errorf("logs = %+v, want one Done entry", snap.Logs)
	}
	if snap.Habits[0].Name != "Read more" {
		t.Errorf("edited name = %q", snap.Habits[0].Name)
	}

	post(gateway.DeleteRequest(sess.UserID, id))
	snap, err = client.Fetch(ctx, sess.UserID)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if len(snap.Habits) != 0 || len(snap.Logs) != 0 {
		t.Errorf("after delete: habits=%+v logs=%+v", snap.Habits, snap.Logs)
	}
}

func TestFetchNormalizesSpreadsheetValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("userId") != "u1" {
			t.Errorf("userId query = %q", r.URL.Query().Get("userId"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"habits": [{"id": 17, "name": "Walk", "emoji": "", "weeklyTarget": "3", "dailyTarget": 2.0}],
			"logs": [
				{"habitId": 17, "date": "2024-06-05T00:00:00.000Z", "status": "Done"},
				{"habitId": "17", "date": "2024-06-06", "status": "Done"}
			]
		}`)
	}))
	defer srv.Close()

	client := gateway.NewHTTPClient(srv.URL, time.Second, time.UTC)
	snap, err := client.Fetch(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	want := models.Habit{ID: "17", Name: "Walk", Emoji: constants.DefaultEmoji, WeeklyTarget: 3, DailyTarget: 2}
	if len(snap.Habits) != 1 || snap.Habits[0] != want {
		t.Errorf("habits = %+v, want [%+v]", snap.Habits, want)
	}
	if len(snap.Logs) != 2 || snap.Logs[0].Date != "2024-06-05" || snap.Logs[0].HabitID != "17" {
		t.Errorf("logs = %+v", snap.Logs)
	}
}

func TestNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := gateway.NewHTTPClient(srv.URL, time.Second, nil)
	_, err := client.Post(context.Background(), gateway.TrackRequest(constants.ActionTrack, "u1", "h1", "2024-06-05"))
	if !errors.Is(err, gateway.ErrUnexpectedStatus) {
		t.Errorf("Post() error = %v, want %v", err, gateway.ErrUnexpectedStatus)
	}
}

func TestRequestTimeout(t *testing.T) {
	store := devserver.NewStore()
	srv := httptest.NewServer(devserver.New(store, devserver.WithLatency(2*time.Second)).Routes())
	defer srv.Close()

	client := gateway.NewHTTPClient(srv.URL, 50*time.Millisecond, nil)
	start := time.Now()
	if _, err := client.Fetch(context.Background(), "u1"); err == nil {
		t.Fatal("Fetch() against slow server should time out")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("timeout took %v", elapsed)
	}
}

func TestPostBodyShape(t *testing.T) {
	var gotContentType string
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = io.WriteString(w, `{"status":"success"}`)
	}))
	defer srv.Close()

	client := gateway.NewHTTPClient(srv.URL, time.Second, nil)
	read := models.Habit{Name: "Read", Emoji: "📚", WeeklyTarget: 5, DailyTarget: 2}
	edited := read
	edited.ID = "h1"

	tests := []struct {
		name string
		req  gateway.Request
		want string
	}{
		{
			name: "delete",
			req:  gateway.DeleteRequest("u1", "h1"),
			want: `{"action":"delete_habit","userId":"u1","habitId":"h1"}`,
		},
		{
			name: "create keeps an empty habitId",
			req:  gateway.HabitRequest(constants.ActionCreateHabit, "u1", read),
			want: `{"action":"create_habit","userId":"u1","habitId":"","name":"Read","emoji":"📚","weeklyTarget":5,"dailyTarget":2}`,
		},
		{
			name: "edit",
			req:  gateway.HabitRequest(constants.ActionEditHabit, "u1", edited),
			want: `{"action":"edit_habit","userId":"u1","habitId":"h1","name":"Read","emoji":"📚","weeklyTarget":5,"dailyTarget":2}`,
		},
		{
			name: "track",
			req:  gateway.TrackRequest(constants.ActionTrack, "u1", "h1", "2024-06-05"),
			want: `{"action":"track","userId":"u1","habitId":"h1","date":"2024-06-05"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := client.Post(context.Background(), tt.req); err != nil {
				t.Fatalf("Post() failed: %v", err)
			}
			if gotContentType != "text/plain;charset=utf-8" {
				t.Errorf("Content-Type = %q", gotContentType)
			}
			if gotBody != tt.want {
				t.Errorf("body = %s, want %s", gotBody, tt.want)
			}
		})
	}
}
