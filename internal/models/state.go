package models

// HabitState is the lifecycle position of a habit in the registry
type HabitState int

const (
	HabitPendingCreate HabitState = iota
	HabitConfirmed
	HabitPendingDelete
	HabitDeleted
)

func (s HabitState) String() string {
	switch s {
	case HabitPendingCreate:
		return "pending-create"
	case HabitConfirmed:
		return "confirmed"
	case HabitPendingDelete:
		return "pending-delete"
	case HabitDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// HabitForm is the shared add/edit form model
type HabitForm struct {
	ID           string
	Name         string
	Emoji        string
	WeeklyTarget int
	DailyTarget  int
}

// Habit converts the form into a habit value.
func (f HabitForm) Habit() Habit {
	return Habit{
		ID:           f.ID,
		Name:         f.Name,
		Emoji:        f.Emoji,
		WeeklyTarget: f.WeeklyTarget,
		DailyTarget:  f.DailyTarget,
	}
}

// IsEdit reports whether the form targets an existing habit.
func (f HabitForm) IsEdit() bool {
	return f.ID != ""
}
