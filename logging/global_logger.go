package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff
)

// String returns the lowercase level name
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "off"
	}
}

// Logger writes leveled log lines through the standard library logger
type Logger struct {
	mu     sync.RWMutex
	level  LogLevel
	logger *log.Logger
	closer io.Closer
}

var (
	globalLogger *Logger
	globalMu     sync.RWMutex
	loggerOnce   sync.Once
)

// NewLogger creates a logger writing to w
func NewLogger(level LogLevel, w io.Writer) *Logger {
	if w == nil {
		w = io.Discard
	}
	return &Logger{
		level:  level,
		logger: log.New(w, "", log.LstdFlags),
	}
}

// NewFileLogger creates a logger for the given level and log file.
// An empty file name logs to stderr.
func NewFileLogger(levelStr, logFile string) (*Logger, error) {
	level := ParseLevel(levelStr)
	if logFile == "" {
		return NewLogger(level, os.Stderr), nil
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", logFile, err)
	}

	l := NewLogger(level, file)
	l.closer = file
	return l, nil
}

// ParseLevel parses a log level string, defaulting to info
func ParseLevel(levelStr string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return LevelDebug
	case "info", "":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "off", "none":
		return LevelOff
	default:
		return LevelInfo
	}
}

// ValidLevel reports whether levelStr names a known level
func ValidLevel(levelStr string) bool {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug", "info", "warn", "warning", "error", "off", "none":
		return true
	}
	return false
}

// SetLevel changes the minimum level that gets written
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// Level returns the current minimum level
func (l *Logger) Level() LogLevel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// SetOutput redirects log lines to w. A nil writer discards them.
func (l *Logger) SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	l.logger.SetOutput(w)
}

// Writer returns where log lines currently go
func (l *Logger) Writer() io.Writer {
	return l.logger.Writer()
}

// Close releases the log file, if any
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func (l *Logger) logf(level LogLevel, tag, format string, args ...interface{}) {
	if l.Level() > level {
		return
	}
	l.logger.Printf("["+tag+"] "+format, args...)
}

// Debugf logs a formatted debug message
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.logf(LevelDebug, "DEBUG", format, args...)
}

// Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.logf(LevelInfo, "INFO", format, args...)
}

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.logf(LevelWarn, "WARN", format, args...)
}

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.logf(LevelError, "ERROR", format, args...)
}

// InitLogger initializes the global logger once. Debug forces the debug level.
func InitLogger(levelStr, logFile string, debug bool) error {
	var initErr error
	loggerOnce.Do(func() {
		l, err := NewFileLogger(levelStr, logFile)
		if err != nil {
			initErr = err
			return
		}
		if debug {
			l.SetLevel(LevelDebug)
		}
		SetGlobalLogger(l)
	})
	return initErr
}

// SetGlobalLogger replaces the global logger. Passing nil disables logging.
func SetGlobalLogger(l *Logger) {
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

// GetGlobalLogger returns the global logger instance, or nil
func GetGlobalLogger() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// Global convenience functions for logging

func LogDebugf(format string, args ...interface{}) {
	if l := GetGlobalLogger(); l != nil {
		l.Debugf(format, args...)
	}
}

func LogInfof(format string, args ...interface{}) {
	if l := GetGlobalLogger(); l != nil {
		l.Infof(format, args...)
	}
}

func LogWarnf(format string, args ...interface{}) {
	if l := GetGlobalLogger(); l != nil {
		l.Warnf(format, args...)
	}
}

func LogErrorf(format string, args ...interface{}) {
	if l := GetGlobalLogger(); l != nil {
		l.Errorf(format, args...)
	}
}
