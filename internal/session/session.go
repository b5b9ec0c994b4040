// Package session keeps the signed-in identity in the OS keyring so it
// survives restarts.
package session

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

var (
	// ErrNotFound is returned when no session is stored
	ErrNotFound = errors.New("no stored session")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Load returns the stored session. Both the user id and the username must be
// present for a session to count.
func Load() (models.Session, error) {
	uid, err := get(constants.KeyringUserID)
	if err != nil {
		return models.Session{}, err
	}
	name, err := get(constants.KeyringUsername)
	if err != nil {
		return models.Session{}, err
	}
	s := models.Session{UserID: uid, Username: name}
	if !s.Valid() {
		return models.Session{}, ErrNotFound
	}
	return s, nil
}

// Save stores the session.
func Save(s models.Session) error {
	if !s.Valid() {
		return errors.New("session requires a user id and username")
	}
	if err := keyring.Set(constants.AppName, constants.KeyringUserID, s.UserID); err != nil {
		return fmt.Errorf("failed to store session in keyring: %w", err)
	}
	if err := keyring.Set(constants.AppName, constants.KeyringUsername, s.Username); err != nil {
		return fmt.Errorf("failed to store session in keyring: %w", err)
	}
	return nil
}

// Clear removes the stored session. Clearing an empty keyring is not an error.
func Clear() error {
	for _, key := range []string{constants.KeyringUserID, constants.KeyringUsername} {
		if err := keyring.Delete(constants.AppName, key); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("failed to delete session from keyring: %w", err)
		}
	}
	return nil
}

// IsAvailable checks if the OS keyring is available on the current system.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

func get(key string) (string, error) {
	v, err := keyring.Get(constants.AppName, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return v, nil
}

// Keyring adapts the package functions to a session store value.
type Keyring struct{}

func (Keyring) Load() (models.Session, error) { return Load() }
func (Keyring) Save(s models.Session) error   { return Save(s) }
func (Keyring) Clear() error                  { return Clear() }
