// Package logger holds the process-wide structured logger. Every helper is a
// no-op until Init has been called, so packages can log unconditionally.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/ticktock/internal/constants"
)

var (
	// Logger is the global logger instance
	Logger *log.Logger

	// logPath is the rotating log file, empty when Config.Writer was used
	logPath string
)

// Config holds logger configuration
type Config struct {
	Debug     bool
	ConfigDir string
	// Writer replaces the rotating log file
	Writer io.Writer
}

// Init initializes the global logger with the given configuration
func Init(cfg Config) error {
	writer := cfg.Writer
	logPath = ""

	if writer == nil {
		logDir := filepath.Join(cfg.ConfigDir, "logs")
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return err
		}
		logPath = filepath.Join(logDir, constants.AppName+".log")

		rotating := &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    constants.LogMaxSizeMB,
			MaxBackups: constants.LogMaxBackups,
			MaxAge:     constants.LogMaxAgeDays,
			Compress:   true,
		}
		writer = rotating
		if cfg.Debug {
			writer = io.MultiWriter(os.Stderr, rotating)
		}
	}

	level := log.InfoLevel
	if cfg.Debug {
		level = log.DebugLevel
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		// logAt and its exported wrapper sit between the caller and Log
		CallerOffset:    2,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	return nil
}

// Path returns the log file in use, or "" when logging to a custom writer or
// before Init.
func Path() string {
	return logPath
}

func logAt(level log.Level, msg string, keyvals []interface{}) {
	if Logger == nil {
		return
	}
	Logger.Log(level, msg, keyvals...)
}

func Debug(msg string, keyvals ...interface{}) { logAt(log.DebugLevel, msg, keyvals) }

func Info(msg string, keyvals ...interface{}) { logAt(log.InfoLevel, msg, keyvals) }

func Warn(msg string, keyvals ...interface{}) { logAt(log.WarnLevel, msg, keyvals) }

func Error(msg string, keyvals ...interface{}) { logAt(log.ErrorLevel, msg, keyvals) }

// Fatal logs at error level and exits with status 1, even before Init.
func Fatal(msg string, keyvals ...interface{}) {
	logAt(log.ErrorLevel, msg, keyvals)
	os.Exit(1)
}
