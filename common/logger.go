// Package common provides shared constants, types, and utilities
// used across vpn-status.
package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gologme/log"
)

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// AppLogger is a leveled logger for the application.
// Diagnostics always go to stderr; stdout carries the status string.
type AppLogger struct {
	mu      sync.Mutex
	level   LogLevel
	output  io.Writer
	logger  *log.Logger
	logFile *os.File
}

// LogConfig holds configuration options for the logger.
type LogConfig struct {
	Level      LogLevel
	EnableFile bool
}

var (
	defaultLogger *AppLogger
	loggerOnce    sync.Once
)

// NewLogger creates a logger writing to w at the given level.
func NewLogger(w io.Writer, level LogLevel) *AppLogger {
	l := &AppLogger{level: level, output: w}
	l.logger = newLevelLogger(w, level)
	return l
}

// newLevelLogger enables every level at or above min.
func newLevelLogger(w io.Writer, min LogLevel) *log.Logger {
	logger := log.New(w, "", log.Flags())
	for lvl := min; lvl <= LevelError; lvl++ {
		logger.EnableLevel(strings.ToLower(lvl.String()))
	}
	return logger
}

// GetLogger returns the singleton logger instance.
func GetLogger() *AppLogger {
	loggerOnce.Do(func() {
		defaultLogger = NewLogger(os.Stderr, LevelWarn)
	})
	return defaultLogger
}

// InitLogger initializes the default logger with custom configuration.
// Should be called early in application startup.
func InitLogger(config LogConfig) error {
	logger := GetLogger()
	logger.SetLevel(config.Level)

	if config.EnableFile {
		return logger.EnableFileLogging()
	}
	return nil
}

// SetLevel sets the minimum log level.
func (l *AppLogger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.logger = newLevelLogger(l.output, level)
}

// SetOutput sets the log output destination.
func (l *AppLogger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
	l.logger = newLevelLogger(w, l.level)
}

// EnableFileLogging appends log lines to a file in the config directory
// in addition to stderr.
func (l *AppLogger) EnableFileLogging() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}

	logPath := filepath.Join(configDir, LogFileName)
	if isSymlink(logPath) {
		return fmt.Errorf("security error: log file is a symlink")
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile != nil {
		l.logFile.Close()
	}

	l.logFile = file
	l.output = io.MultiWriter(os.Stderr, file)
	l.logger = newLevelLogger(l.output, l.level)
	return nil
}

// Debug logs a debug message.
func (l *AppLogger) Debug(msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.Debugf(msg, args...)
}

// Info logs an informational message.
func (l *AppLogger) Info(msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.Infof(msg, args...)
}

// Warn logs a warning message.
func (l *AppLogger) Warn(msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.Warnf(msg, args...)
}

// Error logs an error message.
func (l *AppLogger) Error(msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.Errorf(msg, args...)
}

// Shorthand functions for default logger.

// LogDebug logs a debug message to the default logger.
func LogDebug(msg string, args ...interface{}) {
	GetLogger().Debug(msg, args...)
}

// LogInfo logs an info message to the default logger.
func LogInfo(msg string, args ...interface{}) {
	GetLogger().Info(msg, args...)
}

// LogWarn logs a warning message to the default logger.
func LogWarn(msg string, args ...interface{}) {
	GetLogger().Warn(msg, args...)
}

// LogError logs an error message to the default logger.
func LogError(msg string, args ...interface{}) {
	GetLogger().Error(msg, args...)
}

// Close closes the log file. Should be called on application shutdown.
func (l *AppLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.logFile != nil {
		err := l.logFile.Close()
		l.logFile = nil
		l.output = os.Stderr
		l.logger = newLevelLogger(l.output, l.level)
		return err
	}
	return nil
}

// CloseLogger closes the default logger.
func CloseLogger() error {
	return GetLogger().Close()
}
