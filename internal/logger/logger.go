// Package logger is awase's process-wide structured logger. Output goes to a
// rotating file under the data directory; --debug lowers the level and tees
// to stderr. All helpers are safe to call before Init.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the global logger. Nil until Init.
var Logger *log.Logger

var file *lumberjack.Logger

// Config holds logger configuration.
type Config struct {
	Debug bool
	// Dir is the data directory; logs go to Dir/logs/awase.log.
	Dir string
	// Stderr overrides where debug output is teed. Defaults to os.Stderr.
	Stderr io.Writer
}

// Init sets up the global logger.
func Init(cfg Config) error {
	logDir := filepath.Join(cfg.Dir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	file = &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "awase.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	level := log.WarnLevel
	var w io.Writer = file
	if cfg.Debug {
		level = log.DebugLevel
		stderr := cfg.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		w = io.MultiWriter(stderr, file)
	}

	Logger = log.NewWithOptions(w, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "awase",
	})
	return nil
}

// Close flushes and closes the log file.
func Close() error {
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	Logger = nil
	return err
}

// With returns a child logger carrying keyvals, or nil before Init.
func With(keyvals ...any) *log.Logger {
	if Logger == nil {
		return nil
	}
	return Logger.With(keyvals...)
}

func Debug(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
