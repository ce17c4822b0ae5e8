// Package logging provides ID formatting utilities for consistent ID display
// across all logging contexts.
//
// Map, user and feedback IDs are UUIDs. Debug logs show them in full for
// traceability; other levels show the first 8 characters, which is enough to
// tell entries apart in a session.
package logging

import (
	"github.com/charmbracelet/log"
)

// shortIDLength is the number of leading characters kept outside debug logs.
const shortIDLength = 8

// FormatID formats an ID for logging based on the current log level context.
func FormatID(id string) string {
	if stderrLogger.GetLevel() <= log.DebugLevel {
		return id
	}
	return TruncateID(id)
}

// TruncateID shortens an ID to its display prefix. IDs shorter than the
// prefix are returned unchanged.
func TruncateID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}

// FormatMapID formats a mind map ID for logging with context-aware truncation.
//
// Usage: logging.Info("Saved map %s", logging.FormatMapID(mapID))
func FormatMapID(mapID string) string {
	return FormatID(mapID)
}

// FormatEntryID formats a feedback entry ID for logging with context-aware truncation.
func FormatEntryID(entryID string) string {
	return FormatID(entryID)
}
