package devserver

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/gateway"
	"github.com/julianstephens/habitual/internal/logstore"
	"github.com/julianstephens/habitual/internal/models"
)

// Messages returned by the backend, matching the production script.
const (
	MsgUsernameTaken   = "Username sudah digunakan."
	MsgBadCredentials  = "Username atau password salah."
	MsgMissingFields   = "Username dan password wajib diisi."
	MsgUnknownAction   = "Aksi tidak dikenal."
	MsgHabitNotFound   = "Habit tidak ditemukan."
	MsgSignupSucceeded = "Akun berhasil dibuat."
	MsgLoginSucceeded  = "Login berhasil."
)

type account struct {
	id       string
	username string
	hash     []byte
}

// Store is an in-memory habit backend with the same action semantics as the
// production endpoint.
type Store struct {
	mu       sync.Mutex
	accounts map[string]*account // by lower-cased username
	habits   map[string][]models.Habit
	logs     map[string]*logstore.Store
	newID    func() string
	cost     int
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithIDGenerator overrides id generation for users and habits.
func WithIDGenerator(fn func() string) StoreOption {
	return func(s *Store) { s.newID = fn }
}

// WithBcryptCost sets the password hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) StoreOption {
	return func(s *Store) { s.cost = cost }
}

// NewStore creates an empty backend.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		accounts: make(map[string]*account),
		habits:   make(map[string][]models.Habit),
		logs:     make(map[string]*logstore.Store),
		newID:    uuid.NewString,
		cost:     bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns every habit and log of a user. Unknown users get an empty dataset.
func (s *Store) Snapshot(userID string) models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := models.Snapshot{Habits: []models.Habit{}, Logs: []models.LogEntry{}}
	snap.Habits = append(snap.Habits, s.habits[userID]...)
	if logs, ok := s.logs[userID]; ok {
		snap.Logs = append(snap.Logs, logs.All()...)
	}
	return snap
}

// Handle applies one POST action.
func (s *Store) Handle(req gateway.Request) gateway.Response {
	switch req.Action {
	case constants.ActionSignup:
		return s.signup(req.Username, req.Password)
	case constants.ActionLogin:
		return s.login(req.Username, req.Password)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch req.Action {
	case constants.ActionCreateHabit:
		h := habitFromRequest(req)
		h.ID = s.newID()
		s.habits[req.UserID] = append(s.habits[req.UserID], h)
		return success("")
	case constants.ActionEditHabit:
		for i, h := range s.habits[req.UserID] {
			if h.ID == req.HabitID {
				edited := habitFromRequest(req)
				edited.ID = h.ID
				s.habits[req.UserID][i] = edited
				return success("")
			}
		}
		return failure(MsgHabitNotFound)
	case constants.ActionDeleteHabit:
		habits := s.habits[req.UserID]
		for i, h := range habits {
			if h.ID == req.HabitID {
				s.habits[req.UserID] = append(habits[:i:i], habits[i+1:]...)
				s.userLogs(req.UserID).RemoveAllForHabit(req.HabitID)
				return success("")
			}
		}
		return failure(MsgHabitNotFound)
	case constants.ActionTrack:
		s.userLogs(req.UserID).Append(models.LogEntry{
			HabitID: req.HabitID,
			Date:    req.Date,
			Status:  constants.LogStatusDone,
		})
		return success("")
	case constants.ActionUndoTrack:
		s.userLogs(req.UserID).RemoveLastMatching(req.HabitID, req.Date)
		return success("")
	}
	return failure(MsgUnknownAction)
}

func (s *Store) userLogs(userID string) *logstore.Store {
	logs, ok := s.logs[userID]
	if !ok {
		logs = logstore.New(nil)
		s.logs[userID] = logs
	}
	return logs
}

func (s *Store) signup(username, password string) gateway.Response {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return failure(MsgMissingFields)
	}
	// bcrypt runs outside the lock
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return failure(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(username)
	if _, exists := s.accounts[key]; exists {
		return failure(MsgUsernameTaken)
	}
	acct := &account{id: s.newID(), username: username, hash: hash}
	s.accounts[key] = acct
	return gateway.Response{
		Status:   constants.StatusSuccess,
		Message:  MsgSignupSucceeded,
		UserID:   acct.id,
		Username: acct.username,
	}
}

func (s *Store) login(username, password string) gateway.Response {
	s.mu.Lock()
	acct, ok := s.accounts[strings.ToLower(strings.TrimSpace(username))]
	s.mu.Unlock()
	if !ok {
		return failure(MsgBadCredentials)
	}
	if err := bcrypt.CompareHashAndPassword(acct.hash, []byte(password)); err != nil {
		return failure(MsgBadCredentials)
	}
	return gateway.Response{
		Status:   constants.StatusSuccess,
		Message:  MsgLoginSucceeded,
		UserID:   acct.id,
		Username: acct.username,
	}
}

func habitFromRequest(req gateway.Request) models.Habit {
	return models.Habit{
		Name:         req.Name,
		Emoji:        req.Emoji,
		WeeklyTarget: req.WeeklyTarget,
		DailyTarget:  req.DailyTarget,
	}.Normalize()
}

func success(msg string) gateway.Response {
	return gateway.Response{Status: constants.StatusSuccess, Message: msg}
}

func failure(msg string) gateway.Response {
	return gateway.Response{Status: "error", Message: msg}
}
