// Package logger provides the console logger and the progress bar used while
// converting files.
//
// Implementations are safe for concurrent use: conversion workers log from
// their own goroutines.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Log level constants for filtering
const (
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// ValidLevels lists the accepted log level names.
var ValidLevels = []string{"debug", "info", "warn", "error"}

// ConsoleLogger writes leveled, timestamped lines to a writer.
// Format: "[HH:MM:SS] [LEVEL] <message>"
// Color is enabled automatically for os.Stdout/os.Stderr attached to a TTY.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
	now         func() time.Time
}

// NewConsoleLogger creates a ConsoleLogger that writes to writer.
// A nil writer discards every message. An empty or unknown level means "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    NormalizeLevel(logLevel),
		colorOutput: isTerminal(writer),
		now:         time.Now,
	}
}

// isTerminal reports whether w is a standard stream that supports colors.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}

	if w == os.Stdout || w == os.Stderr {
		// fatih/color already checks for a TTY and NO_COLOR.
		return !color.NoColor
	}

	return false
}

// NormalizeLevel lowercases level and falls back to "info" when it is unknown.
func NormalizeLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	if IsValidLevel(normalized) {
		return normalized
	}
	return "info"
}

// IsValidLevel reports whether level names a known log level.
func IsValidLevel(level string) bool {
	for _, valid := range ValidLevels {
		if level == valid {
			return true
		}
	}
	return false
}

func logLevelToInt(level string) int {
	switch level {
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// Debug logs a debug-level message.
func (cl *ConsoleLogger) Debug(msg string, args ...interface{}) {
	cl.logWithLevel("debug", msg, args...)
}

// Info logs an info-level message.
func (cl *ConsoleLogger) Info(msg string, args ...interface{}) {
	cl.logWithLevel("info", msg, args...)
}

// Warn logs a warning.
func (cl *ConsoleLogger) Warn(msg string, args ...interface{}) {
	cl.logWithLevel("warn", msg, args...)
}

// Error logs an error.
func (cl *ConsoleLogger) Error(msg string, args ...interface{}) {
	cl.logWithLevel("error", msg, args...)
}

func (cl *ConsoleLogger) logWithLevel(level, msg string, args ...interface{}) {
	if cl.writer == nil || !cl.shouldLog(level) {
		return
	}

	text := msg
	if len(args) > 0 {
		text = fmt.Sprintf(msg, args...)
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	timestamp := cl.now().Format("15:04:05")
	label := "[" + strings.ToUpper(level) + "]"
	if cl.colorOutput {
		label = levelColor(level).Sprint(label)
	}

	fmt.Fprintf(cl.writer, "[%s] %s %s\n", timestamp, label, text)
}

func levelColor(level string) *color.Color {
	switch level {
	case "debug":
		return color.New(color.FgCyan)
	case "warn":
		return color.New(color.FgYellow)
	case "error":
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgBlue)
	}
}
