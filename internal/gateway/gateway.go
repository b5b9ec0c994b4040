// Package gateway is the contract with the remote habit API: one endpoint that
// answers GET ?userId= with the full dataset and POST {action, ...} for mutations.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

var (
	// ErrAuthFailed wraps the server message of a rejected login or signup
	ErrAuthFailed = errors.New("authentication failed")
	// ErrUnexpectedStatus is returned for non-2xx HTTP responses
	ErrUnexpectedStatus = errors.New("unexpected response status")
)

// Request is the JSON body of a POST
type Request struct {
	Action       constants.Action `json:"action"`
	UserID       string           `json:"userId,omitempty"`
	HabitID      string           `json:"habitId,omitempty"`
	Name         string           `json:"name,omitempty"`
	Emoji        string           `json:"emoji,omitempty"`
	WeeklyTarget int              `json:"weeklyTarget,omitempty"`
	DailyTarget  int              `json:"dailyTarget,omitempty"`
	Date         string           `json:"date,omitempty"`
	Username     string           `json:"username,omitempty"`
	Password     string           `json:"password,omitempty"`
}

// habitBody is the wire form of create_habit and edit_habit. Every field is
// always present; a create sends an empty habitId.
type habitBody struct {
	Action       constants.Action `json:"action"`
	UserID       string           `json:"userId"`
	HabitID      string           `json:"habitId"`
	Name         string           `json:"name"`
	Emoji        string           `json:"emoji"`
	WeeklyTarget int              `json:"weeklyTarget"`
	DailyTarget  int              `json:"dailyTarget"`
}

// MarshalJSON writes habit actions with the full field set and every other
// action with only the fields it uses.
func (r Request) MarshalJSON() ([]byte, error) {
	switch r.Action {
	case constants.ActionCreateHabit, constants.ActionEditHabit:
		return json.Marshal(habitBody{
			Action:       r.Action,
			UserID:       r.UserID,
			HabitID:      r.HabitID,
			Name:         r.Name,
			Emoji:        r.Emoji,
			WeeklyTarget: r.WeeklyTarget,
			DailyTarget:  r.DailyTarget,
		})
	}
	type plain Request
	return json.Marshal(plain(r))
}

// Response is the JSON answer to a POST
type Response struct {
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
	UserID   string `json:"userId,omitempty"`
	Username string `json:"username,omitempty"`
}

// OK reports whether the server answered with the success status.
func (r Response) OK() bool {
	return r.Status == constants.StatusSuccess
}

// Gateway is the remote API the client depends on
type Gateway interface {
	Fetch(ctx context.Context, userID string) (models.Snapshot, error)
	Post(ctx context.Context, req Request) (Response, error)
}

// AuthRequest builds a login or signup request.
func AuthRequest(mode constants.AuthMode, username, password string) Request {
	return Request{Action: constants.Action(mode), Username: username, Password: password}
}

// HabitRequest builds a create_habit or edit_habit request from a habit.
func HabitRequest(action constants.Action, userID string, h models.Habit) Request {
	return Request{
		Action:       action,
		UserID:       userID,
		HabitID:      h.ID,
		Name:         h.Name,
		Emoji:        h.Emoji,
		WeeklyTarget: h.WeeklyTarget,
		DailyTarget:  h.DailyTarget,
	}
}

// DeleteRequest builds a delete_habit request.
func DeleteRequest(userID, habitID string) Request {
	return Request{Action: constants.ActionDeleteHabit, UserID: userID, HabitID: habitID}
}

// TrackRequest builds a track or undo_track request.
func TrackRequest(action constants.Action, userID, habitID, date string) Request {
	return Request{Action: action, UserID: userID, HabitID: habitID, Date: date}
}

// SessionFromAuth converts an auth response into a session, or reports ErrAuthFailed
// with the server message.
func SessionFromAuth(resp Response) (models.Session, error) {
	if !resp.OK() {
		return models.Session{}, fmt.Errorf("%w: %s", ErrAuthFailed, resp.Message)
	}
	return models.Session{UserID: resp.UserID, Username: resp.Username}, nil
}

// Authenticate performs a login or signup round trip.
func Authenticate(ctx context.Context, gw Gateway, mode constants.AuthMode, username, password string) (models.Session, error) {
	resp, err := gw.Post(ctx, AuthRequest(mode, username, password))
	if err != nil {
		return models.Session{}, err
	}
	return SessionFromAuth(resp)
}

// AuthMessage extracts the user-facing message of an auth error.
func AuthMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrAuthFailed) {
		msg := err.Error()
		prefix := ErrAuthFailed.Error() + ": "
		if len(msg) > len(prefix) {
			return msg[len(prefix):]
		}
		return ErrAuthFailed.Error()
	}
	return constants.ConnectionFailed
}
