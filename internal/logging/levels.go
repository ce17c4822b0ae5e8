package logging

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// levels maps the accepted --log-level names (uppercase only) to
// charmbracelet levels.
var levels = map[string]log.Level{
	"DEBUG": log.DebugLevel,
	"INFO":  log.InfoLevel,
	"WARN":  log.WarnLevel,
	"ERROR": log.ErrorLevel,
}

// IsValidLogLevel checks if the provided log level string is supported.
func IsValidLogLevel(level string) bool {
	_, ok := levels[level]
	return ok
}

// ValidateLogLevel validates a log level string and returns an error if invalid.
func ValidateLogLevel(level string) error {
	if !IsValidLogLevel(level) {
		return fmt.Errorf("invalid log level: %s (valid: DEBUG, INFO, WARN, ERROR)", level)
	}
	return nil
}

// parseLevel resolves a level name, defaulting to INFO for unknown names.
func parseLevel(name string) log.Level {
	if l, ok := levels[name]; ok {
		return l
	}
	return log.InfoLevel
}
