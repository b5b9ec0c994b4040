// Package registry tracks the habits of the signed-in user together with the
// optimistic lifecycle state of each one.
package registry

import (
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

type entry struct {
	habit models.Habit
	state models.HabitState
}

// Registry is an ordered habit collection. Habits in the pending-delete or
// deleted state are hidden from every query and never come back from a fetch.
type Registry struct {
	entries    []*entry
	tombstones map[string]models.HabitState
	newID      func() string
}

// Option customizes a Registry
type Option func(*Registry)

// WithIDGenerator overrides how temporary ids are produced.
func WithIDGenerator(fn func() string) Option {
	return func(r *Registry) {
		r.newID = fn
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		tombstones: make(map[string]models.HabitState),
		newID: func() string {
			return constants.TempIDPrefix + uuid.NewString()
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile replaces local state with an authoritative habit list. Pending
// creates are dropped (the server copy carries the permanent id) and tombstoned
// ids are filtered out.
func (r *Registry) Reconcile(habits []models.Habit) {
	r.entries = r.entries[:0]
	for _, h := range habits {
		if _, dead := r.tombstones[h.ID]; dead {
			continue
		}
		r.entries = append(r.entries, &entry{habit: h, state: models.HabitConfirmed})
	}
}

// Create inserts a habit under a fresh temporary id in the pending-create state.
func (r *Registry) Create(h models.Habit) models.Habit {
	h = h.Normalize()
	h.ID = r.newID()
	r.entries = append(r.entries, &entry{habit: h, state: models.HabitPendingCreate})
	return h
}

// Edit replaces the fields of the habit with the same id. The lifecycle state is kept.
func (r *Registry) Edit(h models.Habit) bool {
	e := r.find(h.ID)
	if e == nil {
		return false
	}
	e.habit = h.Normalize()
	return true
}

// MarkPendingDelete hides the habit while its delete request is in flight.
func (r *Registry) MarkPendingDelete(id string) (models.Habit, bool) {
	for i, e := range r.entries {
		if e.habit.ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			r.tombstones[id] = models.HabitPendingDelete
			return e.habit, true
		}
	}
	return models.Habit{}, false
}

// ConfirmDeleted moves a pending delete into the terminal deleted state.
func (r *Registry) ConfirmDeleted(id string) {
	if _, ok := r.tombstones[id]; ok {
		r.tombstones[id] = models.HabitDeleted
	}
}

// IsTombstoned reports whether the id was deleted during this session.
func (r *Registry) IsTombstoned(id string) bool {
	_, ok := r.tombstones[id]
	return ok
}

// State returns the lifecycle state of an id, including tombstones.
func (r *Registry) State(id string) (models.HabitState, bool) {
	if e := r.find(id); e != nil {
		return e.state, true
	}
	st, ok := r.tombstones[id]
	return st, ok
}

// Get returns a visible habit by id.
func (r *Registry) Get(id string) (models.Habit, bool) {
	if e := r.find(id); e != nil {
		return e.habit, true
	}
	return models.Habit{}, false
}

// FindByName returns the first visible habit with the given name, ignoring case.
func (r *Registry) FindByName(name string) (models.Habit, bool) {
	for _, e := range r.entries {
		if strings.EqualFold(e.habit.Name, name) {
			return e.habit, true
		}
	}
	return models.Habit{}, false
}

// List returns the visible habits in insertion order.
func (r *Registry) List() []models.Habit {
	out := make([]models.Habit, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.habit)
	}
	return out
}

// Pending returns habits still awaiting a server id.
func (r *Registry) Pending() []models.Habit {
	var out []models.Habit
	for _, e := range r.entries {
		if e.state == models.HabitPendingCreate {
			out = append(out, e.habit)
		}
	}
	return out
}

// Len returns the number of visible habits.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Clear drops every habit and tombstone, used on logout.
func (r *Registry) Clear() {
	r.entries = nil
	r.tombstones = make(map[string]models.HabitState)
}

func (r *Registry) find(id string) *entry {
	for _, e := range r.entries {
		if e.habit.ID == id {
			return e
		}
	}
	return nil
}
