package constants

import "time"

const (
	AppName            = "dailyquest"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/dailyquest"
	DefaultDBPath      = "~/.config/dailyquest/dailyquest.db"
	ConfigFileName     = "config.yaml"
	Version            = "v0.3.0"

	// DateFormat is the logical-day format used for the marker and history keys (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MonthFormat is used by the history command (YYYY-MM)
	MonthFormat = "2006-01"

	// Store keys
	QuestsKey    = "daily-quests-data-v2"
	LastVisitKey = "daily-quests-last-visit"
	HistoryKey   = "daily-quests-history"

	// Lifecycle defaults
	DefaultCutoff        = 3 * time.Hour
	DefaultCheckInterval = 60 * time.Second
	DefaultTimezone      = "Local"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "dailyquest-"
	BackupFileSuffix = ".db"

	// Tray notifier constants
	NotifierLockfileName   = "dailyquest-tray.lock"
	NotificationDurationMs = 5000
	NotificationTimeout    = 5 * time.Second
	TrayAppIdentifier      = "com.julianstephens.dailyquest"
	TrayExecutablePrefix   = "dailyquest-tray"
	TraySecretHeader       = "X-Dailyquest-Secret"

	// Environment
	EnvDBConnection = "DAILYQUEST_DB_CONNECTION"
)
