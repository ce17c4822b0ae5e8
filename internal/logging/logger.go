// Package logging is the single logging surface for thinkmapd and
// thinkmapctl.
//
// Messages are printf-style and rendered by charmbracelet/log with
// lipgloss-colored level badges. INFO and SUCCESS go to stdout, WARN, ERROR
// and DEBUG to stderr, unless SetOutput sends everything to one log file.
// Third-party libraries are folded in through adapters: LevelWriter for
// io.Writer based loggers (gin, the standard library) and BadgerLogger for
// the storage engine.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	stdlog "log"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// silent is above every level charmbracelet emits.
const silent = log.FatalLevel + 1

// palette holds the badge text and color for each level.
var palette = []struct {
	level log.Level
	name  string
	color string
}{
	{log.DebugLevel, "DEBUG", "#7F6DFF"},
	{log.InfoLevel, "INFO", "#42E7FF"},
	{log.WarnLevel, "WARN", "#FFE763"},
	{log.ErrorLevel, "ERROR", "#FF4473"},
}

const successColor = "#60F281"

var (
	stdoutLogger = newLogger(os.Stdout, false)
	stderrLogger = newLogger(os.Stderr, false)

	// successOut is where SUCCESS lines go; it follows SetOutput.
	successOut io.Writer = os.Stdout

	// cliConfigured is set once a CLI has taken over the log setup, so
	// servers embedded in tests or the CLI leave it alone.
	cliConfigured bool
)

// newLogger builds a timestamped logger. With success set, INFO lines are
// badged SUCCESS in green.
func newLogger(w io.Writer, success bool) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	styles := log.DefaultStyles()
	for _, p := range palette {
		styles.Levels[p.level] = lipgloss.NewStyle().SetString(p.name).Foreground(lipgloss.Color(p.color))
	}
	if success {
		styles.Levels[log.InfoLevel] = lipgloss.NewStyle().SetString("SUCCESS").Foreground(lipgloss.Color(successColor))
	}
	l.SetStyles(styles)
	return l
}

// Info logs routine progress: server start, saves, batches sent.
func Info(format string, v ...any) {
	stdoutLogger.Info(fmt.Sprintf(format, v...))
}

// Warn logs problems that did not stop the operation.
func Warn(format string, v ...any) {
	stderrLogger.Warn(fmt.Sprintf(format, v...))
}

// Error logs failures.
func Error(format string, v ...any) {
	stderrLogger.Error(fmt.Sprintf(format, v...))
}

// Debug logs detail useful when tracing requests and batches.
func Debug(format string, v ...any) {
	stderrLogger.Debug(fmt.Sprintf(format, v...))
}

// Success logs a completed operation in green. It is filtered like INFO.
func Success(format string, v ...any) {
	level := stdoutLogger.GetLevel()
	if level > log.InfoLevel {
		return
	}
	l := newLogger(successOut, true)
	l.SetLevel(level)
	l.Info(fmt.Sprintf(format, v...))
}

// SetLevel sets the minimum level on both streams. Unknown names mean INFO.
func SetLevel(level string) {
	l := parseLevel(level)
	stdoutLogger.SetLevel(l)
	stderrLogger.SetLevel(l)
}

// SetOutput sends every level to w, keeping the current level. A nil w
// silences logging entirely.
func SetOutput(w *os.File) {
	if w == nil {
		stdoutLogger.SetLevel(silent)
		stderrLogger.SetLevel(silent)
		return
	}

	level := stdoutLogger.GetLevel()
	stdoutLogger = newLogger(w, false)
	stderrLogger = newLogger(w, false)
	stdoutLogger.SetLevel(level)
	stderrLogger.SetLevel(level)
	successOut = w
}

// SuppressOutput keeps only ERROR lines. CLIs call it so that their own
// table output is not interleaved with progress logs.
func SuppressOutput() {
	stdoutLogger.SetLevel(log.ErrorLevel)
	stderrLogger.SetLevel(log.ErrorLevel)
	cliConfigured = true
}

// RestoreOutput returns to stdout/stderr at INFO.
func RestoreOutput() {
	stdoutLogger = newLogger(os.Stdout, false)
	stderrLogger = newLogger(os.Stderr, false)
	successOut = os.Stdout
	cliConfigured = true
}

// IsConfiguredByCLI returns true if logging has been explicitly configured by CLI tools.
func IsConfiguredByCLI() bool {
	return cliConfigured
}

// LevelWriter is an io.Writer that logs each non-blank line at a fixed
// level, prefixed with the source name.
type LevelWriter struct {
	level  string
	prefix string
}

// NewLevelWriter returns a LevelWriter. level is DEBUG, INFO, WARN or ERROR
// in any case.
func NewLevelWriter(level, prefix string) io.Writer {
	return &LevelWriter{level: strings.ToUpper(level), prefix: prefix}
}

func (w *LevelWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(string(p), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if w.prefix != "" {
			line = w.prefix + ": " + line
		}
		logAt(w.level, "%s", line)
	}
	return len(p), nil
}

// BadgerLogger implements badger.Logger. Badger narrates compactions and
// replays at INFO, so those lines are logged at DEBUG.
type BadgerLogger struct{}

func (BadgerLogger) Errorf(format string, v ...any) { logAt("ERROR", badgerFormat(format), v...) }

func (BadgerLogger) Warningf(format string, v ...any) { logAt("WARN", badgerFormat(format), v...) }

func (BadgerLogger) Infof(format string, v ...any) { logAt("DEBUG", badgerFormat(format), v...) }

func (BadgerLogger) Debugf(format string, v ...any) { logAt("DEBUG", badgerFormat(format), v...) }

func badgerFormat(format string) string {
	return "(badger) " + strings.TrimSpace(format)
}

// logAt dispatches to the function for a level name. WARNING and ERR are
// accepted because some libraries print them.
func logAt(level, format string, v ...any) {
	switch level {
	case "DEBUG":
		Debug(format, v...)
	case "WARN", "WARNING":
		Warn(format, v...)
	case "ERR", "ERROR":
		Error(format, v...)
	default:
		Info(format, v...)
	}
}

// RedirectStandardLog points the standard library logger at w, or discards
// its output when w is nil.
func RedirectStandardLog(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	stdlog.SetOutput(w)
}
