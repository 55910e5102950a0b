package logger

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/harrison/msutils/internal/edition"
	"github.com/harrison/msutils/internal/page"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// Levels lists the accepted log level names, most verbose first.
var Levels = []string{"trace", "debug", "info", "warn", "error"}

// Logger is implemented by every logger in this package. It satisfies
// edition.Logger and transfer.UploadLogger.
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)

	LogSkippedFile(path string, err error)
	LogMisfiledPages(date time.Time, pages []page.Page)
	LogStoreUnreachable(store edition.Store)
	LogUpload(p page.Page, remoteName string)
	LogProgress(done, total int)
	LogSummary(target string, sent, skipped int, duration time.Duration)
}

var (
	_ Logger = (*ConsoleLogger)(nil)
	_ Logger = (*FileLogger)(nil)
	_ Logger = (*MultiLogger)(nil)
	_ Logger = (*NoOpLogger)(nil)

	_ edition.Logger = Logger(nil)
)

// IsValidLevel reports whether level names a known log level.
func IsValidLevel(level string) bool {
	normalized := strings.ToLower(strings.TrimSpace(level))
	for _, l := range Levels {
		if l == normalized {
			return true
		}
	}
	return false
}

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	if IsValidLevel(level) {
		return strings.ToLower(strings.TrimSpace(level))
	}
	return "info"
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
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

func skippedFileMessage(path string, err error) string {
	return fmt.Sprintf("Skipping %s: %v", filepath.Base(path), err)
}

func misfiledMessage(date time.Time, count int, names string) string {
	noun := "page"
	if count != 1 {
		noun = "pages"
	}
	return fmt.Sprintf("Ignoring %d misfiled %s in %s edition: %s",
		count, noun, date.Format(time.DateOnly), names)
}

func storeUnreachableMessage(store edition.Store) string {
	return fmt.Sprintf("Store unreachable: %s", store)
}

func uploadMessage(local, remote string) string {
	return fmt.Sprintf("Uploaded file: %s -> %s", local, remote)
}

func pageNames(pages []page.Page) string {
	names := make([]string, len(pages))
	for i, p := range pages {
		names[i] = p.Name()
	}
	return strings.Join(names, ", ")
}

// MultiLogger fans every call out to a list of loggers, typically the
// console and a per-run file.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger creates a MultiLogger. Nil entries are ignored.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	ml := &MultiLogger{}
	for _, l := range loggers {
		if l != nil {
			ml.loggers = append(ml.loggers, l)
		}
	}
	return ml
}

func (m *MultiLogger) each(fn func(Logger)) {
	for _, l := range m.loggers {
		fn(l)
	}
}

func (m *MultiLogger) LogTrace(message string) { m.each(func(l Logger) { l.LogTrace(message) }) }
func (m *MultiLogger) LogDebug(message string) { m.each(func(l Logger) { l.LogDebug(message) }) }
func (m *MultiLogger) LogInfo(message string)  { m.each(func(l Logger) { l.LogInfo(message) }) }
func (m *MultiLogger) LogWarn(message string)  { m.each(func(l Logger) { l.LogWarn(message) }) }
func (m *MultiLogger) LogError(message string) { m.each(func(l Logger) { l.LogError(message) }) }

func (m *MultiLogger) LogSkippedFile(path string, err error) {
	m.each(func(l Logger) { l.LogSkippedFile(path, err) })
}

func (m *MultiLogger) LogMisfiledPages(date time.Time, pages []page.Page) {
	m.each(func(l Logger) { l.LogMisfiledPages(date, pages) })
}

func (m *MultiLogger) LogStoreUnreachable(store edition.Store) {
	m.each(func(l Logger) { l.LogStoreUnreachable(store) })
}

func (m *MultiLogger) LogUpload(p page.Page, remoteName string) {
	m.each(func(l Logger) { l.LogUpload(p, remoteName) })
}

func (m *MultiLogger) LogProgress(done, total int) {
	m.each(func(l Logger) { l.LogProgress(done, total) })
}

func (m *MultiLogger) LogSummary(target string, sent, skipped int, duration time.Duration) {
	m.each(func(l Logger) { l.LogSummary(target, sent, skipped, duration) })
}

// NoOpLogger is a Logger implementation that discards all log messages.
// Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(string)                            {}
func (n *NoOpLogger) LogDebug(string)                            {}
func (n *NoOpLogger) LogInfo(string)                             {}
func (n *NoOpLogger) LogWarn(string)                             {}
func (n *NoOpLogger) LogError(string)                            {}
func (n *NoOpLogger) LogSkippedFile(string, error)               {}
func (n *NoOpLogger) LogMisfiledPages(time.Time, []page.Page)    {}
func (n *NoOpLogger) LogStoreUnreachable(edition.Store)          {}
func (n *NoOpLogger) LogUpload(page.Page, string)                {}
func (n *NoOpLogger) LogProgress(int, int)                       {}
func (n *NoOpLogger) LogSummary(string, int, int, time.Duration) {}
