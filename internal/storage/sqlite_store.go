package storage

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitual/internal/migration"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/migrations"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	s.db = db

	runner, err := s.runner()
	if err != nil {
		return err
	}
	if _, err := runner.Apply(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("cache not initialized at %s", s.path)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	s.db = db

	runner, err := s.runner()
	if err != nil {
		return err
	}
	if err := runner.Validate(); err != nil {
		return err
	}
	// Caches written by an older release pick up new tables on load
	if _, err := runner.Apply(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS), nil
}

func (s *SQLiteStore) SaveSnapshot(userID string, snap models.Snapshot) error {
	if s.db == nil {
		return fmt.Errorf("cache not loaded")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, table := range []string{"habits", "logs", "snapshots"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE user_id = ?", userID); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	fetchedAt := snap.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}
	if _, err := tx.Exec("INSERT INTO snapshots (user_id, fetched_at) VALUES (?, ?)",
		userID, fetchedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	habitStmt, err := tx.Prepare(`INSERT INTO habits (user_id, position, id, name, emoji, weekly_target, daily_target)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer habitStmt.Close()
	for i, h := range snap.Habits {
		if _, err := habitStmt.Exec(userID, i, h.ID, h.Name, h.Emoji, h.WeeklyTarget, h.DailyTarget); err != nil {
			return fmt.Errorf("saving habit %s: %w", h.ID, err)
		}
	}

	logStmt, err := tx.Prepare("INSERT INTO logs (user_id, position, habit_id, date, status) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer logStmt.Close()
	for i, l := range snap.Logs {
		if _, err := logStmt.Exec(userID, i, l.HabitID, l.Date, l.Status); err != nil {
			return fmt.Errorf("saving log: %w", err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetSnapshot(userID string) (models.Snapshot, error) {
	if s.db == nil {
		return models.Snapshot{}, fmt.Errorf("cache not loaded")
	}

	var fetchedAt string
	err := s.db.QueryRow("SELECT fetched_at FROM snapshots WHERE user_id = ?", userID).Scan(&fetchedAt)
	if err == sql.ErrNoRows {
		return models.Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return models.Snapshot{}, err
	}

	snap := models.Snapshot{Habits: []models.Habit{}, Logs: []models.LogEntry{}}
	if t, err := time.Parse(time.RFC3339Nano, fetchedAt); err == nil {
		snap.FetchedAt = t
	}

	rows, err := s.db.Query(`SELECT id, name, emoji, weekly_target, daily_target
		FROM habits WHERE user_id = ? ORDER BY position`, userID)
	if err != nil {
		return models.Snapshot{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var h models.Habit
		if err := rows.Scan(&h.ID, &h.Name, &h.Emoji, &h.WeeklyTarget, &h.DailyTarget); err != nil {
			return models.Snapshot{}, err
		}
		snap.Habits = append(snap.Habits, h)
	}
	if err := rows.Err(); err != nil {
		return models.Snapshot{}, err
	}

	logRows, err := s.db.Query("SELECT habit_id, date, status FROM logs WHERE user_id = ? ORDER BY position", userID)
	if err != nil {
		return models.Snapshot{}, err
	}
	defer logRows.Close()
	for logRows.Next() {
		var l models.LogEntry
		if err := logRows.Scan(&l.HabitID, &l.Date, &l.Status); err != nil {
			return models.Snapshot{}, err
		}
		snap.Logs = append(snap.Logs, l)
	}
	return snap, logRows.Err()
}

func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return fmt.Errorf("cache not loaded")
	}
	for _, table := range []string{"habits", "logs", "snapshots"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

// SchemaVersion reports the applied and the newest embedded schema versions.
func (s *SQLiteStore) SchemaVersion() (current, latest int, err error) {
	if s.db == nil {
		return 0, 0, fmt.Errorf("cache not loaded")
	}
	runner, err := s.runner()
	if err != nil {
		return 0, 0, err
	}
	if current, err = runner.CurrentVersion(); err != nil {
		return 0, 0, err
	}
	migrations, err := runner.Migrations()
	if err != nil {
		return 0, 0, err
	}
	if len(migrations) > 0 {
		latest = migrations[len(migrations)-1].Version
	}
	return current, latest, nil
}
