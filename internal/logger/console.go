// Package logger provides logging implementations for msutils.
//
// Loggers report scanning diagnostics (skipped and misfiled pages), store
// reachability, and upload progress. Implementations are thread-safe and
// support various output destinations (console, file, both).
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/harrison/msutils/internal/edition"
	"github.com/harrison/msutils/internal/page"
	"github.com/mattn/go-isatty"
)

// ConsoleLogger logs to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] timestamps.
// It supports log level filtering to control message verbosity.
// Color output is enabled when the writer is a terminal.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// logLevel determines the minimum log level for messages to be output.
// Valid levels: trace, debug, info, warn, error (case-insensitive).
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal reports whether w is a TTY that should receive colors.
// NO_COLOR (via color.NoColor) always wins.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// shouldLog checks if a message at the given level should be logged.
func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
// Format: "[HH:MM:SS] [TRACE] <message>"
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

// logWithLevel is a helper that logs a message at the specified level if filtering allows it.
func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil {
		return
	}
	if !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var formatted string
	if cl.colorOutput {
		formatted = cl.formatWithColor(ts, level, message)
	} else {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}

	cl.writer.Write([]byte(formatted))
}

// formatWithColor formats a log message with ANSI color codes.
func (cl *ConsoleLogger) formatWithColor(ts, level, message string) string {
	var coloredLevel string

	switch strings.ToUpper(level) {
	case "TRACE":
		coloredLevel = color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		coloredLevel = color.New(color.FgCyan).Sprint(level)
	case "INFO":
		coloredLevel = color.New(color.FgBlue).Sprint(level)
	case "WARN":
		coloredLevel = color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		coloredLevel = color.New(color.FgRed).Sprint(level)
	default:
		coloredLevel = level
	}

	return fmt.Sprintf("[%s] [%s] %s\n", ts, coloredLevel, message)
}

// LogSkippedFile logs a page file whose name could not be parsed, at WARN level.
// Format: "[HH:MM:SS] [WARN] Skipping <name>: <err>"
func (cl *ConsoleLogger) LogSkippedFile(path string, err error) {
	cl.LogWarn(skippedFileMessage(path, err))
}

// LogMisfiledPages logs pages dropped for carrying the wrong date, at WARN level.
// Format: "[HH:MM:SS] [WARN] Ignoring N misfiled page(s) in 2016-05-04 edition: a, b"
func (cl *ConsoleLogger) LogMisfiledPages(date time.Time, pages []page.Page) {
	if len(pages) == 0 {
		return
	}
	names := pageNames(pages)
	if cl.colorOutput {
		names = newColorScheme().warn.Sprint(names)
	}
	cl.LogWarn(misfiledMessage(date, len(pages), names))
}

// LogStoreUnreachable logs a configured store root that does not exist, at DEBUG level.
func (cl *ConsoleLogger) LogStoreUnreachable(store edition.Store) {
	cl.LogDebug(storeUnreachableMessage(store))
}

// LogUpload logs one uploaded file at INFO level.
// Format: "[HH:MM:SS] [INFO] Uploaded file: <local name> -> <remote name>"
func (cl *ConsoleLogger) LogUpload(p page.Page, remoteName string) {
	if cl.colorOutput {
		scheme := newColorScheme()
		cl.LogInfo(uploadMessage(p.Name(), scheme.success.Sprint(remoteName)))
		return
	}
	cl.LogInfo(uploadMessage(p.Name(), remoteName))
}

// LogProgress logs upload progress with a bar at INFO level.
// Format: "[HH:MM:SS] Progress: [=====     ] 2/4 (50%)"
func (cl *ConsoleLogger) LogProgress(done, total int) {
	if cl.writer == nil {
		return
	}
	if !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	pb := NewProgressBar(done, total, progressWidth, cl.colorOutput)
	cl.writer.Write([]byte(fmt.Sprintf("[%s] Progress: %s\n", timestamp(), pb.Render())))
}

// LogSummary logs the outcome of an upload run at INFO level.
func (cl *ConsoleLogger) LogSummary(target string, sent, skipped int, duration time.Duration) {
	if cl.writer == nil {
		return
	}
	if !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var output string
	if cl.colorOutput {
		scheme := newColorScheme()
		header := color.New(color.Bold).Sprint("=== Upload Summary ===")
		output = fmt.Sprintf("[%s] %s\n", ts, header)
		output += fmt.Sprintf("[%s] %s\n", ts, formatColorizedMetric("Target", target, scheme))
		output += fmt.Sprintf("[%s] %s\n", ts, scheme.success.Sprintf("Sent: %d", sent))
		if skipped > 0 {
			output += fmt.Sprintf("[%s] %s\n", ts, scheme.warn.Sprintf("Skipped: %d", skipped))
		} else {
			output += fmt.Sprintf("[%s] Skipped: %d\n", ts, skipped)
		}
	} else {
		output = fmt.Sprintf("[%s] === Upload Summary ===\n", ts)
		output += fmt.Sprintf("[%s] Target: %s\n", ts, target)
		output += fmt.Sprintf("[%s] Sent: %d\n", ts, sent)
		output += fmt.Sprintf("[%s] Skipped: %d\n", ts, skipped)
	}
	output += fmt.Sprintf("[%s] Duration: %s\n", ts, formatDuration(duration))

	cl.writer.Write([]byte(output))
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration converts a time.Duration to a human-readable string.
// Examples: "5s", "1m30s", "2h15m"
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Hour:
		hours := d / time.Hour
		remainder := d % time.Hour
		if remainder == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		minutes := remainder / time.Minute
		remainder = remainder % time.Minute
		if remainder == 0 {
			return fmt.Sprintf("%dh%dm", hours, minutes)
		}
		seconds := remainder / time.Second
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
	case d >= time.Minute:
		minutes := d / time.Minute
		remainder := d % time.Minute
		if remainder == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		seconds := remainder / time.Second
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	}
}
