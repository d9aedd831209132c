package constants

import "time"

// SessionState represents the current view of the TUI application
type SessionState int

const (
	AppName            = "ticktock"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/ticktock/ticktock.db"
	DefaultSettings    = "~/.config/ticktock/settings.yaml"
	Version            = "v0.3.0"

	// Persistence keys shared by every storage backend
	TimersKey  = "timers"
	HistoryKey = "timerHistory"

	// TickInterval is the period of the countdown scheduler
	TickInterval = time.Second

	// MemoryConfig selects the non-persistent in-memory backend
	MemoryConfig = ":memory:"

	// ConnectionEnvVar holds a PostgreSQL connection string when no --config is given
	ConnectionEnvVar = "TICKTOCK_DB_CONNECTION"

	// ExportFilePrefix is used for default export file names
	ExportFilePrefix = "timer-data-"

	// AllCategories is the pseudo-category that matches every timer
	AllCategories = "all"

	// Backup constants
	MaxBackups    = 14
	BackupDirName = "backups"
	BackupPrefix  = "ticktock-"

	// Log rotation
	LogMaxSizeMB  = 10
	LogMaxBackups = 3
	LogMaxAgeDays = 28

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "ticktock-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.ticktock"
)

// Session States
const (
	StateTimers SessionState = iota
	StateHistory
	StateAddTimer
	StateConfirmDelete
)
