// Package logger wraps log/slog with automatic PII redaction. Development
// output is colored through tint; production output is JSON.
package logger

import (
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case DEBUG:
		return slog.LevelDebug
	case WARN:
		return slog.LevelWarn
	case ERROR:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger provides secure logging with automatic PII redaction
type Logger struct {
	level  *slog.LevelVar
	slog   *slog.Logger
	isDev  bool
	redact bool
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// New builds a logger writing to w. Redaction is skipped only for DEBUG level
// in development.
func New(w io.Writer, level LogLevel, isDev bool) *Logger {
	levelVar := new(slog.LevelVar)
	levelVar.Set(level.slogLevel())

	var handler slog.Handler
	if isDev {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      levelVar,
			TimeFormat: time.Kitchen,
		})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: levelVar})
	}

	return &Logger{
		level:  levelVar,
		slog:   slog.New(handler),
		isDev:  isDev,
		redact: !isDev || level > DEBUG,
	}
}

// Initialize sets up the default logger instance and makes it the slog default.
func Initialize(level LogLevel, isDev bool) {
	once.Do(func() {
		defaultLogger = New(os.Stdout, level, isDev)
		slog.SetDefault(defaultLogger.slog)
	})
}

// GetLogger returns the default logger instance
func GetLogger() *Logger {
	if defaultLogger == nil {
		Initialize(INFO, false)
	}
	return defaultLogger
}

// SetLevel updates the log level
func SetLevel(level LogLevel) {
	l := GetLogger()
	l.level.Set(level.slogLevel())
	l.redact = !l.isDev || level > DEBUG
}

func redactEmail(email string) string {
	if email == "" {
		return ""
	}

	local, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return "****"
	}

	if len(local) <= 2 {
		return "****@" + domain
	}

	return local[0:1] + "****" + local[len(local)-1:] + "@" + domain
}

// hashUserID creates a consistent hash for user IDs
func hashUserID(userID any) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%v", userID)))
	return fmt.Sprintf("user_%x", hash[:4])
}

// truncateID keeps the first characters of tokens and long identifiers.
func truncateID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:4] + "****"
}

// redactValue redacts sensitive values based on the key name
func redactValue(key string, value any) any {
	if err, ok := value.(error); ok {
		value = err.Error()
	}

	keyLower := strings.ToLower(key)
	valueStr := fmt.Sprintf("%v", value)

	if strings.Contains(keyLower, "password") {
		return "[REDACTED]"
	}

	if strings.Contains(keyLower, "email") || strings.Contains(valueStr, "@") {
		return redactEmail(valueStr)
	}

	if strings.Contains(keyLower, "userid") || strings.Contains(keyLower, "user_id") {
		return hashUserID(value)
	}

	if strings.Contains(keyLower, "token") || strings.Contains(keyLower, "authorization") {
		return truncateID(valueStr)
	}

	if strings.Contains(keyLower, "packlistid") || strings.Contains(keyLower, "pack_list_id") {
		return truncateID(valueStr)
	}

	return value
}

func (l *Logger) attrs(keysAndValues []any) []any {
	if !l.redact {
		return keysAndValues
	}

	out := make([]any, 0, len(keysAndValues))
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprintf("%v", keysAndValues[i])
		var value any
		if i+1 < len(keysAndValues) {
			value = keysAndValues[i+1]
		}
		out = append(out, key, redactValue(key, value))
	}
	return out
}

func (l *Logger) Debug(msg string, keysAndValues ...any) {
	l.slog.Debug(msg, l.attrs(keysAndValues)...)
}

func (l *Logger) Info(msg string, keysAndValues ...any) {
	l.slog.Info(msg, l.attrs(keysAndValues)...)
}

func (l *Logger) Warn(msg string, keysAndValues ...any) {
	l.slog.Warn(msg, l.attrs(keysAndValues)...)
}

func (l *Logger) Error(msg string, keysAndValues ...any) {
	l.slog.Error(msg, l.attrs(keysAndValues)...)
}

// Package-level convenience functions

func Debug(msg string, keysAndValues ...any) {
	GetLogger().Debug(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...any) {
	GetLogger().Info(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...any) {
	GetLogger().Warn(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...any) {
	GetLogger().Error(msg, keysAndValues...)
}

// ParseLevel converts a string to a LogLevel
func ParseLevel(level string) LogLevel {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}
