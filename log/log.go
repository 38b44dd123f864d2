// Package log provides structured logging with filesystem-based persistence.
//
// Logging is inoperative unless enabled with the logs.write setting,
// in which case every emission is discarded silently.
package log

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/eyedrop-cli/eyedrop/filesystem"
	"github.com/eyedrop-cli/eyedrop/key"
	"github.com/eyedrop-cli/eyedrop/where"
	"github.com/samber/lo"
	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var enabled bool

// Setup opens the daily log file and configures format and level from the global configuration.
func Setup() error {
	enabled = viper.GetBool(key.LogsWrite)
	if !enabled {
		return nil
	}

	dir := where.Logs()
	if dir == "" {
		return errors.New("log directory path is empty")
	}

	filename := fmt.Sprintf("%s.log", time.Now().Format("2006-01-02"))
	path := filepath.Join(dir, filename)

	if exists := lo.Must(filesystem.API().Exists(path)); !exists {
		lo.Must(filesystem.API().Create(path))
	}

	f, err := filesystem.API().OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(f)

	if viper.GetBool(key.LogsJson) {
		logrus.SetFormatter(&logrus.JSONFormatter{PrettyPrint: true})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{})
	}

	parsed, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)

	return nil
}

// Logger tags every emission with the component that produced it.
type Logger struct {
	entry *logrus.Entry
}

// For returns a logger for the named component, e.g. "hub" or "picker".
func For(component string) *Logger {
	return &Logger{entry: logrus.WithField("component", component)}
}

// With returns a copy of the logger carrying an extra field.
func (l *Logger) With(name string, value any) *Logger {
	return &Logger{entry: l.entry.WithField(name, value)}
}

func (l *Logger) Error(args ...any) {
	if enabled {
		l.entry.Error(args...)
	}
}
func (l *Logger) Errorf(format string, args ...any) {
	if enabled {
		l.entry.Errorf(format, args...)
	}
}
func (l *Logger) Warnf(format string, args ...any) {
	if enabled {
		l.entry.Warnf(format, args...)
	}
}
func (l *Logger) Infof(format string, args ...any) {
	if enabled {
		l.entry.Infof(format, args...)
	}
}
func (l *Logger) Debugf(format string, args ...any) {
	if enabled {
		l.entry.Debugf(format, args...)
	}
}

// Package level emissions, untagged.

func Error(args ...any) {
	if enabled {
		logrus.Error(args...)
	}
}
func Errorf(format string, args ...any) {
	if enabled {
		logrus.Errorf(format, args...)
	}
}
func Warn(args ...any) {
	if enabled {
		logrus.Warn(args...)
	}
}
func Warnf(format string, args ...any) {
	if enabled {
		logrus.Warnf(format, args...)
	}
}
func Info(args ...any) {
	if enabled {
		logrus.Info(args...)
	}
}
func Infof(format string, args ...any) {
	if enabled {
		logrus.Infof(format, args...)
	}
}
func Debug(args ...any) {
	if enabled {
		logrus.Debug(args...)
	}
}
func Debugf(format string, args ...any) {
	if enabled {
		logrus.Debugf(format, args...)
	}
}
