package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	DatabaseURL        string
	LogLevel           string
	Environment        string
	Location           *time.Location
	CronSpecReconcile  string
	RunOnStartup       bool
	PayrollDay         int // Day of month on which payroll is generated
	TrainingNoticeDays int // Forward window for training-end alerts
	JobTimeout         time.Duration
	TelegramToken      string // Empty disables the admin bot
	AdminTelegramID    int64
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.Location = time.Local
	if tz := os.Getenv("TIMEZONE"); tz != "" {
		cfg.Location, err = time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
		}
	}

	cfg.CronSpecReconcile = os.Getenv("CRON_SPEC_RECONCILE")
	if cfg.CronSpecReconcile == "" {
		cfg.CronSpecReconcile = "0 7 * * *" // Default: 07:00 daily
	}

	cfg.RunOnStartup, err = getBool("RUN_ON_STARTUP", true)
	if err != nil {
		return nil, err
	}

	cfg.PayrollDay, err = getInt("PAYROLL_DAY", 1)
	if err != nil {
		return nil, err
	}
	if cfg.PayrollDay < 1 || cfg.PayrollDay > 28 {
		return nil, fmt.Errorf("invalid PAYROLL_DAY %d: must be between 1 and 28", cfg.PayrollDay)
	}

	cfg.TrainingNoticeDays, err = getInt("TRAINING_NOTICE_DAYS", 7)
	if err != nil {
		return nil, err
	}
	if cfg.TrainingNoticeDays < 0 {
		return nil, fmt.Errorf("invalid TRAINING_NOTICE_DAYS %d: must not be negative", cfg.TrainingNoticeDays)
	}

	cfg.JobTimeout = 2 * time.Minute
	if v := os.Getenv("JOB_TIMEOUT"); v != "" {
		cfg.JobTimeout, err = time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid JOB_TIMEOUT: %w", err)
		}
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken != "" {
		adminIDStr := os.Getenv("ADMIN_TELEGRAM_ID")
		if adminIDStr == "" {
			return nil, fmt.Errorf("ADMIN_TELEGRAM_ID is not set")
		}
		cfg.AdminTelegramID, err = strconv.ParseInt(adminIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
	}

	return cfg, nil
}

// BotEnabled reports whether the Telegram admin bot should be started.
func (c *AppConfig) BotEnabled() bool {
	return c.TelegramToken != ""
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
