package gateway

import (
	"context"
	"encoding/json"

	"golang.org/x/sync/singleflight"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
)

// Task is a request running in the background. Its result becomes available
// once Done is closed.
type Task[T any] struct {
	done   chan struct{}
	result T
	err    error
	shared bool
}

func newTask[T any]() *Task[T] {
	return &Task[T]{done: make(chan struct{})}
}

func (t *Task[T]) finish(v T, err error, shared bool) {
	t.result, t.err, t.shared = v, err, shared
	close(t.done)
}

// Done is closed when the request has completed.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the request completes or ctx is done.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Shared reports whether the result was shared with an identical in-flight request.
// Only meaningful after Done.
func (t *Task[T]) Shared() bool {
	return t.shared
}

// Dispatcher runs gateway calls off the caller's goroutine. Idempotent requests
// with an identical request already in flight join that request instead of
// issuing a new one. Tracking and creation are never joined.
//
// A joinable call runs detached from the cancellation of whichever caller
// started it, so one caller giving up never fails the others; the gateway's
// own request timeout still bounds it. Each caller stops waiting through the
// context passed to Task.Wait.
type Dispatcher struct {
	gw    Gateway
	group singleflight.Group
}

// NewDispatcher wraps a gateway.
func NewDispatcher(gw Gateway) *Dispatcher {
	return &Dispatcher{gw: gw}
}

// Gateway returns the wrapped gateway.
func (d *Dispatcher) Gateway() Gateway {
	return d.gw
}

// Fetch starts a dataset download.
func (d *Dispatcher) Fetch(ctx context.Context, userID string) *Task[models.Snapshot] {
	task := newTask[models.Snapshot]()
	go func() {
		v, err, shared := d.group.Do("fetch:"+userID, func() (interface{}, error) {
			return d.gw.Fetch(context.WithoutCancel(ctx), userID)
		})
		snap, _ := v.(models.Snapshot)
		task.finish(snap, err, shared)
	}()
	return task
}

// Post starts a mutation or auth request.
func (d *Dispatcher) Post(ctx context.Context, req Request) *Task[Response] {
	task := newTask[Response]()
	go func() {
		key, ok := DedupKey(req)
		if !ok {
			resp, err := d.gw.Post(ctx, req)
			task.finish(resp, err, false)
			return
		}
		v, err, shared := d.group.Do(key, func() (interface{}, error) {
			return d.gw.Post(context.WithoutCancel(ctx), req)
		})
		if shared {
			logger.Debug("joined in-flight request", "action", string(req.Action), "habit_id", req.HabitID)
		}
		resp, _ := v.(Response)
		task.finish(resp, err, shared)
	}()
	return task
}

// DedupKey returns the key identical in-flight requests share, and false for
// actions that must always reach the server.
func DedupKey(req Request) (string, bool) {
	switch req.Action {
	case constants.ActionEditHabit, constants.ActionDeleteHabit:
		body, err := json.Marshal(req)
		if err != nil {
			return "", false
		}
		return string(req.Action) + ":" + req.UserID + ":" + req.HabitID + ":" + string(body), true
	default:
		return "", false
	}
}
