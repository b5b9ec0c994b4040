package constants

import "time"

// Screen represents the active screen of the view controller
type Screen int

// Action is the discriminator of a POST request to the habit API
type Action string

// AuthMode selects which auth action the login form submits
type AuthMode string

const (
	AppName        = "habitual"
	Version        = "v0.3.0"
	DefaultCfgDir  = "~/.config/habitual"
	DefaultCfgFile = "~/.config/habitual/config.yaml"
	DefaultCache   = "~/.config/habitual/cache.db"

	// DateFormat is the canonical date key layout (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MonthFormat is used by the calendar commands (YYYY-MM)
	MonthFormat = "2006-01"

	// Keyring entries holding the durable session
	KeyringUserID   = "nextgas_uid"
	KeyringUsername = "nextgas_uname"

	// TempIDPrefix marks client-generated habit ids awaiting a server id
	TempIDPrefix = "temp-"

	// LogStatusDone is the only completion marker written by this client
	LogStatusDone = "Done"

	// Habit defaults and bounds
	DefaultEmoji        = "🔥"
	DefaultWeeklyTarget = 7
	DefaultDailyTarget  = 1
	MinWeeklyTarget     = 1
	MaxWeeklyTarget     = 7
	MinDailyTarget      = 1
	MaxDailyTarget      = 10

	// Metrics
	TrendDays        = 7
	TrendMinScale    = 5
	DefaultLocale    = "id_ID"
	DefaultTimezone  = "Local"
	DefaultTimeout   = 30 * time.Second
	LockfileName     = "habitual-tui.lock"
	ConnectionFailed = "Gagal koneksi server."

	// Actions accepted by the habit API
	ActionLogin       Action = "login"
	ActionSignup      Action = "signup"
	ActionCreateHabit Action = "create_habit"
	ActionEditHabit   Action = "edit_habit"
	ActionDeleteHabit Action = "delete_habit"
	ActionTrack       Action = "track"
	ActionUndoTrack   Action = "undo_track"

	AuthLogin  AuthMode = "login"
	AuthSignup AuthMode = "signup"

	StatusSuccess = "success"
)

// Screens
const (
	ScreenUnauthenticated Screen = iota
	ScreenHome
	ScreenCalendar
	ScreenStats
	ScreenAdd
	ScreenEdit
)

// EmojiPalette lists the icons offered by the habit form
var EmojiPalette = []string{"🔥", "🏃", "💪", "📚", "💧", "🧘", "💰", "🎨", "🧠", "🤲"}

func (s Screen) String() string {
	switch s {
	case ScreenUnauthenticated:
		return "unauthenticated"
	case ScreenHome:
		return "home"
	case ScreenCalendar:
		return "calendar"
	case ScreenStats:
		return "stats"
	case ScreenAdd:
		return "add"
	case ScreenEdit:
		return "edit"
	default:
		return "unknown"
	}
}
