package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

// HTTPClient talks to the habit API over HTTP. It never retries.
type HTTPClient struct {
	endpoint   string
	httpClient *http.Client
	location   *time.Location
}

// NewHTTPClient creates a client for the given endpoint URL. A zero timeout
// falls back to the default.
func NewHTTPClient(endpoint string, timeout time.Duration, loc *time.Location) *HTTPClient {
	if timeout <= 0 {
		timeout = constants.DefaultTimeout
	}
	if loc == nil {
		loc = time.Local
	}
	return &HTTPClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		location:   loc,
	}
}

// Endpoint returns the configured URL.
func (c *HTTPClient) Endpoint() string {
	return c.endpoint
}

// Fetch downloads every habit and log of a user. Log dates are normalized to
// date keys on the way in.
func (c *HTTPClient) Fetch(ctx context.Context, userID string) (models.Snapshot, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("invalid api url: %w", err)
	}
	q := u.Query()
	q.Set("userId", userID)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	var payload fetchPayload
	if err := c.do(req, &payload); err != nil {
		return models.Snapshot{}, err
	}
	return payload.snapshot(c.location), nil
}

// Post sends an action body and decodes the response.
func (c *HTTPClient) Post(ctx context.Context, body Request) (Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return Response{}, fmt.Errorf("marshaling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return Response{}, fmt.Errorf("creating request: %w", err)
	}
	// Plain text keeps the request "simple" so script endpoints skip CORS preflight
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")
	req.Header.Set("Accept", "application/json")

	var resp Response
	if err := c.do(req, &resp); err != nil {
		return Response{}, err
	}
	return resp, nil
}

func (c *HTTPClient) do(req *http.Request, result interface{}) error {
	started := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request %s: %w", req.Method, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	logger.Debug("api request", "method", req.Method, "status", res.StatusCode, "elapsed", time.Since(started))

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, res.StatusCode, truncate(string(body), 200))
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Spreadsheet-backed servers return cells with whatever type the sheet
// inferred, so ids and targets may arrive as numbers or strings.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(b))
	}
	*f = flexString(n.String())
	return nil
}

type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	if s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
	if err != nil {
		return fmt.Errorf("expected integer, got %s", string(b))
	}
	*f = flexInt(int(v))
	return nil
}

type wireHabit struct {
	ID           flexString `json:"id"`
	Name         flexString `json:"name"`
	Emoji        flexString `json:"emoji"`
	WeeklyTarget flexInt    `json:"weeklyTarget"`
	DailyTarget  flexInt    `json:"dailyTarget"`
}

type wireLog struct {
	HabitID flexString `json:"habitId"`
	Date    flexString `json:"date"`
	Status  flexString `json:"status"`
}

type fetchPayload struct {
	Habits []wireHabit `json:"habits"`
	Logs   []wireLog   `json:"logs"`
}

func (p fetchPayload) snapshot(loc *time.Location) models.Snapshot {
	snap := models.Snapshot{
		Habits:    make([]models.Habit, 0, len(p.Habits)),
		Logs:      make([]models.LogEntry, 0, len(p.Logs)),
		FetchedAt: time.Now(),
	}
	for _, h := range p.Habits {
		snap.Habits = append(snap.Habits, models.Habit{
			ID:           string(h.ID),
			Name:         string(h.Name),
			Emoji:        string(h.Emoji),
			WeeklyTarget: int(h.WeeklyTarget),
			DailyTarget:  int(h.DailyTarget),
		}.Normalize())
	}
	for _, l := range p.Logs {
		date := utils.DateKeyIn(string(l.Date), loc)
		if !utils.IsDateKey(date) {
			logger.Debug("non-canonical log date", "habit_id", string(l.HabitID), "date", date)
		}
		snap.Logs = append(snap.Logs, models.LogEntry{
			HabitID: string(l.HabitID),
			Date:    date,
			Status:  string(l.Status),
		})
	}
	return snap
}
