package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/msutils/internal/edition"
	"github.com/harrison/msutils/internal/page"
)

// FileLogger logs to per-run files in a log directory. Each run gets a
// timestamped run-YYYYMMDD-HHMMSS.log and latest.log is a symlink to the
// most recent one. It is thread-safe and supports log level filtering.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates a FileLogger writing to logDir at the "info" level.
func NewFileLogger(logDir string) (*FileLogger, error) {
	return NewFileLoggerWithLevel(logDir, "info")
}

// NewFileLoggerWithLevel creates a FileLogger with a custom log level.
// It creates logDir if it doesn't exist, opens a timestamped run log file,
// and creates/updates the latest.log symlink.
func NewFileLoggerWithLevel(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", timestamp))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	logger := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizeLogLevel(logLevel),
	}

	logger.writeRunLog("=== msutils Run Log ===\n")
	logger.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return logger, nil
}

// RunFile returns the path of this run's log file.
func (fl *FileLogger) RunFile() string {
	return fl.runFile
}

// shouldLog checks if a message at the given level should be logged.
func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), level, message))
}

// LogSkippedFile logs a page file whose name could not be parsed, at WARN level.
func (fl *FileLogger) LogSkippedFile(path string, err error) {
	// The full path is more useful in a file than on the console.
	fl.LogWarn(fmt.Sprintf("Skipping %s: %v", path, err))
}

// LogMisfiledPages logs pages dropped for carrying the wrong date, one per
// line with their full paths, at WARN level.
func (fl *FileLogger) LogMisfiledPages(date time.Time, pages []page.Page) {
	if len(pages) == 0 || !fl.shouldLog("warn") {
		return
	}

	ts := timestamp()
	message := fmt.Sprintf("[%s] [WARN] %s\n", ts, misfiledMessage(date, len(pages), pageNames(pages)))
	for _, p := range pages {
		message += fmt.Sprintf("[%s]          %s\n", ts, p.Path())
	}
	fl.writeRunLog(message)
}

// LogStoreUnreachable logs a configured store root that does not exist, at DEBUG level.
func (fl *FileLogger) LogStoreUnreachable(store edition.Store) {
	fl.LogDebug(storeUnreachableMessage(store))
}

// LogUpload logs one uploaded file with its full local path, at INFO level.
func (fl *FileLogger) LogUpload(p page.Page, remoteName string) {
	fl.LogInfo(uploadMessage(p.Path(), remoteName))
}

// LogProgress is a no-op: progress bars are console-only.
func (fl *FileLogger) LogProgress(done, total int) {
}

// LogSummary logs the outcome of an upload run at INFO level.
func (fl *FileLogger) LogSummary(target string, sent, skipped int, duration time.Duration) {
	if !fl.shouldLog("info") {
		return
	}

	ts := timestamp()
	message := fmt.Sprintf(
		"\n[%s] === UPLOAD SUMMARY ===\n"+
			"[%s] Target:       %s\n"+
			"[%s] Sent:         %d\n"+
			"[%s] Skipped:      %d\n"+
			"[%s] Total time:   %.1fs\n"+
			"[%s] Completed at: %s\n",
		ts,
		ts, target,
		ts, sent,
		ts, skipped,
		ts, duration.Seconds(),
		ts, time.Now().Format(time.RFC3339),
	)
	fl.writeRunLog(message)
}

// Close flushes and closes the run log file.
// It should be called when the logger is no longer needed.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}

	return nil
}

// writeRunLog is a thread-safe helper to write to the run log file.
func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
		// Flush after each write for real-time logging
		fl.runLog.Sync()
	}
}
