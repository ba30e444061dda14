package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		UI
		Security
		Sessions
		Tasks
		Snapshots
		Activity
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path     string
		LogLevel string // gorm logger level: silent, error, warn, info
	}
	UI struct {
		TemplatesPath string
		ReadOnly      bool // Reject every mutating request
	}
	Security struct {
		CSRFEnabled   bool
		CSRFSecret    string // Generated at startup if empty
		SecureCookies bool   // Set to true when served over HTTPS
	}
	Sessions struct {
		Lifetime time.Duration
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Snapshots struct {
		Dir      string
		Keep     int    // Number of snapshot files to retain
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Activity struct {
		RetentionDays   int
		CleanupSchedule string
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 5004)
	v.SetDefault("host", "localhost")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("gorm_log_level", "warn")
	v.SetDefault("templates_path", "./templates")
	v.SetDefault("read_only", false)

	v.SetDefault("csrf_enabled", true)
	v.SetDefault("csrf_secret", "")
	v.SetDefault("secure_cookies", false)
	v.SetDefault("session_lifetime", "24h")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("snapshot_dir", DefaultSnapshotDir)
	v.SetDefault("snapshot_keep", 7)
	v.SetDefault("snapshot_schedule", "0 3 * * *")
	v.SetDefault("activity_retention_days", 30)
	v.SetDefault("activity_cleanup_schedule", "30 3 * * *")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path:     v.GetString("DATABASE_PATH"),
			LogLevel: v.GetString("GORM_LOG_LEVEL"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			ReadOnly:      v.GetBool("READ_ONLY"),
		},
		Security: Security{
			CSRFEnabled:   v.GetBool("CSRF_ENABLED"),
			CSRFSecret:    v.GetString("CSRF_SECRET"),
			SecureCookies: v.GetBool("SECURE_COOKIES"),
		},
		Sessions: Sessions{
			Lifetime: v.GetDuration("SESSION_LIFETIME"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Snapshots: Snapshots{
			Dir:      v.GetString("SNAPSHOT_DIR"),
			Keep:     v.GetInt("SNAPSHOT_KEEP"),
			Schedule: v.GetString("SNAPSHOT_SCHEDULE"),
		},
		Activity: Activity{
			RetentionDays:   v.GetInt("ACTIVITY_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("ACTIVITY_CLEANUP_SCHEDULE"),
		},
	}
}
