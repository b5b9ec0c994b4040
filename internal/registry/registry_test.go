package registry

import (
	"fmt"
	"strings"
	"testing"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

func sequentialIDs() Option {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("%s%d", constants.TempIDPrefix, n)
	})
}

func TestCreateAssignsTemporaryID(t *testing.T) {
	r := New()
	h := r.Create(models.Habit{Name: "Read"})

	if !strings.HasPrefix(h.ID, constants.TempIDPrefix) {
		t.Errorf("Create() id = %q, want %q prefix", h.ID, constants.TempIDPrefix)
	}
	if !h.IsTemporary() {
		t.Error("IsTemporary() = false for a created habit")
	}
	if h.Emoji != constants.DefaultEmoji || h.DailyTarget != 1 || h.WeeklyTarget != 1 {
		t.Errorf("Create() did not normalize: %+v", h)
	}
	st, ok := r.State(h.ID)
	if !ok || st != models.HabitPendingCreate {
		t.Errorf("State() = %v, %v; want pending-create", st, ok)
	}
}

func TestCreateIDsAreUnique(t *testing.T) {
	r := New()
	a := r.Create(models.Habit{Name: "a"})
	b := r.Create(models.Habit{Name: "b"})
	if a.ID == b.ID {
		t.Errorf("two creates produced the same id %q", a.ID)
	}
}

func TestReconcileReplacesPendingCreates(t *testing.T) {
	r := New(sequentialIDs())
	r.Reconcile([]models.Habit{{ID: "h1", Name: "Run"}})
	r.Create(models.Habit{Name: "Read"})

	if r.Len() != 2 || len(r.Pending()) != 1 {
		t.Fatalf("before reconcile: len=%d pending=%d", r.Len(), len(r.Pending()))
	}

	r.Reconcile([]models.Habit{{ID: "h1", Name: "Run"}, {ID: "h2", Name: "Read"}})

	if len(r.Pending()) != 0 {
		t.Errorf("Pending() = %v after reconcile, want none", r.Pending())
	}
	if _, ok := r.Get("temp-1"); ok {
		t.Error("temporary habit survived reconcile")
	}
	st, _ := r.State("h2")
	if st != models.HabitConfirmed {
		t.Errorf("State(h2) = %v, want confirmed", st)
	}
}

func TestEditReplacesFields(t *testing.T) {
	r := New()
	r.Reconcile([]models.Habit{{ID: "h1", Name: "Run", Emoji: "🏃", WeeklyTarget: 3, DailyTarget: 1}})

	ok := r.Edit(models.Habit{ID: "h1", Name: "Run far", Emoji: "🏃", WeeklyTarget: 9, DailyTarget: 2})
	if !ok {
		t.Fatal("Edit() = false")
	}
	h, _ := r.Get("h1")
	if h.Name != "Run far" || h.WeeklyTarget != constants.MaxWeeklyTarget || h.DailyTarget != 2 {
		t.Errorf("Edit() result = %+v", h)
	}
	if r.Edit(models.Habit{ID: "missing"}) {
		t.Error("Edit() of unknown id = true")
	}
}

func TestDeleteIsNeverResurrected(t *testing.T) {
	r := New()
	r.Reconcile([]models.Habit{{ID: "h1", Name: "Run"}, {ID: "h2", Name: "Read"}})

	if _, ok := r.MarkPendingDelete("h1"); !ok {
		t.Fatal("MarkPendingDelete() = false")
	}
	if _, ok := r.Get("h1"); ok {
		t.Error("pending-delete habit is still visible")
	}
	st, _ := r.State("h1")
	if st != models.HabitPendingDelete {
		t.Errorf("State(h1) = %v, want pending-delete", st)
	}

	// A stale fetch still containing h1 must not bring it back
	r.Reconcile([]models.Habit{{ID: "h1", Name: "Run"}, {ID: "h2", Name: "Read"}})
	if _, ok := r.Get("h1"); ok {
		t.Error("stale fetch resurrected a pending delete")
	}

	r.ConfirmDeleted("h1")
	st, _ = r.State("h1")
	if st != models.HabitDeleted {
		t.Errorf("State(h1) = %v, want deleted", st)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestClear(t *testing.T) {
	r := New()
	r.Reconcile([]models.Habit{{ID: "h1"}})
	r.MarkPendingDelete("h1")
	r.Clear()
	if r.Len() != 0 || r.IsTombstoned("h1") {
		t.Error("Clear() left state behind")
	}
}

func TestFindByNameIgnoresCaseAndTombstones(t *testing.T) {
	r := New()
	r.Reconcile([]models.Habit{{ID: "h1", Name: "Read"}, {ID: "h2", Name: "Run"}})

	if h, ok := r.FindByName("read"); !ok || h.ID != "h1" {
		t.Errorf("FindByName(read) = %+v, %v", h, ok)
	}
	r.MarkPendingDelete("h2")
	if _, ok := r.FindByName("Run"); ok {
		t.Error("a habit pending delete should not be found")
	}
}
