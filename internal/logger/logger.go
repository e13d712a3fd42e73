// Package logger holds the process-wide structured logger used by ftl.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Logger is the global logger. Diagnostics about feature files are not
// logged; they are returned as compiler messages.
var Logger *log.Logger

func init() {
	Logger = log.New(os.Stderr)
	Logger.SetTimeFormat("")
	Logger.SetLevel(log.WarnLevel)
}

// Configure replaces the global logger. An empty level falls back to
// FTL_LOG_LEVEL and then to "warn". An empty file logs to stderr.
func Configure(level string, file string) error {
	if level == "" {
		level = os.Getenv("FTL_LOG_LEVEL")
	}

	var output io.Writer = os.Stderr
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return err
		}
		output = f
	}

	Logger = log.New(output)
	Logger.SetTimeFormat("")
	Logger.SetLevel(ParseLevel(level))
	return nil
}

// SetOutput redirects the global logger, keeping its level. Tests use it to
// capture log lines.
func SetOutput(w io.Writer) {
	level := Logger.GetLevel()
	Logger = log.New(w)
	Logger.SetTimeFormat("")
	Logger.SetLevel(level)
}

// ParseLevel converts a level name; unknown names mean warn.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.WarnLevel
	}
}

func Debug(msg interface{}, keyvals ...interface{}) {
	Logger.Debug(msg, keyvals...)
}

func Info(msg interface{}, keyvals ...interface{}) {
	Logger.Info(msg, keyvals...)
}

func Warn(msg interface{}, keyvals ...interface{}) {
	Logger.Warn(msg, keyvals...)
}

func Error(msg interface{}, keyvals ...interface{}) {
	Logger.Error(msg, keyvals...)
}

// SourceOperation logs a change to the set of registered definition sources.
func SourceOperation(operation string, uid string, definitions int) {
	Debug("Definition source", "operation", operation, "uid", uid, "definitions", definitions)
}

// LinkSummary logs the outcome of linking one file.
func LinkSummary(path string, bound, unbound int) {
	Debug("Linked file", "path", path, "bound", bound, "unbound", unbound)
}

// WithPrefix returns a child of the global logger with a styled prefix, for
// long-running components such as the file watcher.
func WithPrefix(prefix string) *log.Logger {
	styles := log.DefaultStyles()
	styles.Keys["path"] = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	styles.Keys["error"] = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	styles.Values["error"] = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	child := Logger.WithPrefix(prefix)
	child.SetStyles(styles)
	return child
}
