// Package logger provides leveled diagnostic logging for the caddex
// CLI. Messages go to stderr so they never mix with the user-facing
// stdout output (tables, JSON) produced by the output package.
//
// The --verbose flag drives initialization:
//
//	logger.Init(verbose) // verbose=true enables Debug and Info
//
// By default only Warn and Error are shown. Messages are formatted as
//
//	[LEVEL] YYYY-MM-DD HH:MM:SS message
//
// and the *Fields variants append sorted key=value pairs:
//
//	[DEBUG] 2026-02-03 10:30:45 reload finished projects=5 tier=admin-api
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents a logging severity level.
type Level int

// Log levels from least to most severe.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

// String returns the string representation of the log level.
func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// Logger handles leveled logging with thread-safe output.
type Logger struct {
	level  Level
	output io.Writer
	mu     sync.Mutex
}

// Global logger instance.
var std = &Logger{
	level:  LevelWarn,
	output: os.Stderr,
}

// Init initializes the global logger with the specified verbosity.
// Verbose enables the Debug and Info levels; the default shows only
// Warn and Error.
func Init(verbose bool) {
	if verbose {
		SetLevel(LevelDebug)
	} else {
		SetLevel(LevelWarn)
	}
}

// SetLevel sets the minimum log level for the global logger.
func SetLevel(level Level) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.level = level
}

// SetOutput sets the output destination for the global logger.
// Useful for testing. Default is os.Stderr.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.output = w
}

// GetLevel returns the current log level.
func GetLevel() Level {
	std.mu.Lock()
	defer std.mu.Unlock()
	return std.level
}

// emit writes one formatted line if the level passes the threshold.
// suffix carries the pre-rendered structured fields, if any.
func (l *Logger) emit(level Level, msg, suffix string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	stamp := time.Now().Format("2006-01-02 15:04:05")
	_, _ = fmt.Fprintf(l.output, "[%s] %s %s%s\n", level, stamp, msg, suffix)
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	l.emit(level, fmt.Sprintf(format, args...), "")
}

// logFields sorts the field keys so output is stable across runs.
func (l *Logger) logFields(level Level, msg string, fields map[string]interface{}) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}

	l.emit(level, msg, b.String())
}

// Debug logs a debug message. Only shown in verbose mode.
func Debug(format string, args ...interface{}) {
	std.log(LevelDebug, format, args...)
}

// Info logs an informational message. Only shown in verbose mode.
func Info(format string, args ...interface{}) {
	std.log(LevelInfo, format, args...)
}

// Warn logs a warning message.
func Warn(format string, args ...interface{}) {
	std.log(LevelWarn, format, args...)
}

// Error logs an error message.
func Error(format string, args ...interface{}) {
	std.log(LevelError, format, args...)
}

// DebugFields logs a debug message with structured fields.
func DebugFields(msg string, fields map[string]interface{}) {
	std.logFields(LevelDebug, msg, fields)
}

// InfoFields logs an informational message with structured fields.
func InfoFields(msg string, fields map[string]interface{}) {
	std.logFields(LevelInfo, msg, fields)
}

// WarnFields logs a warning message with structured fields.
func WarnFields(msg string, fields map[string]interface{}) {
	std.logFields(LevelWarn, msg, fields)
}

// ErrorFields logs an error message with structured fields.
func ErrorFields(msg string, fields map[string]interface{}) {
	std.logFields(LevelError, msg, fields)
}

// LogError logs an error with additional context, skipping nil errors.
func LogError(err error, msg string) {
	if err == nil {
		return
	}
	std.log(LevelError, "%s: %v", msg, err)
}
