// Package gatewaytest provides an in-process gateway backed by the devserver
// store, with call recording and failure injection.
package gatewaytest

import (
	"context"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/devserver"
	"github.com/julianstephens/habitual/internal/gateway"
	"github.com/julianstephens/habitual/internal/models"
)

// Fake implements gateway.Gateway without a network
type Fake struct {
	Store *devserver.Store

	mu       sync.Mutex
	posts    []gateway.Request
	fetches  []string
	err      error
	gate     chan struct{}
	fetchErr error
}

// New creates a fake with an empty backend.
func New() *Fake {
	return &Fake{Store: devserver.NewStore(devserver.WithBcryptCost(bcrypt.MinCost))}
}

// SignUp registers an account directly and returns its session.
func (f *Fake) SignUp(username, password string) models.Session {
	resp := f.Store.Handle(gateway.AuthRequest(constants.AuthSignup, username, password))
	return models.Session{UserID: resp.UserID, Username: resp.Username}
}

// Fail makes every later call return err; nil restores normal behaviour.
func (f *Fake) Fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// FailFetch makes only fetches fail.
func (f *Fake) FailFetch(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchErr = err
}

// Hold blocks every later call until Release.
func (f *Fake) Hold() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gate == nil {
		f.gate = make(chan struct{})
	}
}

// Release unblocks held calls.
func (f *Fake) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gate != nil {
		close(f.gate)
		f.gate = nil
	}
}

// Posts returns the recorded POST bodies in call order.
func (f *Fake) Posts() []gateway.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]gateway.Request(nil), f.posts...)
}

// Fetches returns how many fetches were issued.
func (f *Fake) Fetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetches)
}

func (f *Fake) wait(ctx context.Context) error {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Fake) Fetch(ctx context.Context, userID string) (models.Snapshot, error) {
	f.mu.Lock()
	f.fetches = append(f.fetches, userID)
	err := f.err
	if err == nil {
		err = f.fetchErr
	}
	f.mu.Unlock()

	if werr := f.wait(ctx); werr != nil {
		return models.Snapshot{}, werr
	}
	if err != nil {
		return models.Snapshot{}, err
	}
	return f.Store.Snapshot(userID), nil
}

func (f *Fake) Post(ctx context.Context, req gateway.Request) (gateway.Response, error) {
	f.mu.Lock()
	f.posts = append(f.posts, req)
	err := f.err
	f.mu.Unlock()

	if werr := f.wait(ctx); werr != nil {
		return gateway.Response{}, werr
	}
	if err != nil {
		return gateway.Response{}, err
	}
	return f.Store.Handle(req), nil
}
