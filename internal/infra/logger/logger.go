package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"training_center_ledger/internal/infra/config"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger, configured by Init.
var Log = logrus.New()

// Init applies level and output format from cfg to Log.
func Init(cfg *config.AppConfig) {
	configure(Log, cfg.LogLevel, cfg.Environment, os.Stdout)
	Log.WithFields(logrus.Fields{
		"log_level":   Log.GetLevel().String(),
		"environment": cfg.Environment,
	}).Info("Logger initialized")
}

func configure(l *logrus.Logger, level, environment string, out io.Writer) {
	l.SetOutput(out)
	l.SetFormatter(formatterFor(environment))

	parsed, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		l.SetLevel(logrus.InfoLevel)
		l.WithError(err).WithField("log_level", level).Warn("Unknown log level, using info")
		return
	}
	l.SetLevel(parsed)
}

// formatterFor picks JSON for deployed environments and readable text elsewhere.
func formatterFor(environment string) logrus.Formatter {
	switch strings.ToLower(environment) {
	case "production", "staging":
		return &logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap:        logrus.FieldMap{logrus.FieldKeyMsg: "message"},
		}
	default:
		return &logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"}
	}
}

// Component returns an entry tagged with the component name.
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
