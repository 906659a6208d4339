package helpers

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger: human-readable text while developing,
// JSON everywhere else. level overrides the env default when it parses.
func NewLogger(appName, env, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	lvl := logrus.InfoLevel
	if env == "development" {
		lvl = logrus.DebugLevel
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			logger.WithError(err).Warn("ignoring LOG_LEVEL")
		} else {
			lvl = parsed
		}
	}
	logger.SetLevel(lvl)
	logger.WithFields(logrus.Fields{"app": appName, "env": env, "level": lvl.String()}).Info("logger initialized")
	return logger
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// LogError logs err under msg with optional extra fields.
func LogError(logger *logrus.Logger, msg string, err error, fields logrus.Fields) {
	if logger == nil {
		return
	}
	entry := logger.WithFields(fields)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(msg)
}
