package storage

import (
	"errors"

	"github.com/julianstephens/habitual/internal/models"
)

// ErrNoSnapshot is returned when nothing is cached for a user
var ErrNoSnapshot = errors.New("no cached snapshot")

// Provider caches the last fetched dataset per user so the app can render
// before the first network round trip completes.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Snapshots
	SaveSnapshot(userID string, snap models.Snapshot) error
	GetSnapshot(userID string) (models.Snapshot, error)
	Clear() error

	// Utils
	GetConfigPath() string
}
