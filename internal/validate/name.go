// Package validate provides input validation for mind-map identifiers,
// usernames and map titles.
//
// VALIDATION COVERAGE:
//   - Node IDs: short ids typed by authors in edit sessions (e.g. "thesis")
//   - Usernames: account names for register/login
//   - Map titles: free text with a length bound
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	nodeIDRegex   = regexp.MustCompile(`^[a-z0-9_-]+$`)
	usernameRegex = regexp.MustCompile(`^[a-z][a-z0-9_.-]*$`)
)

const (
	// MaxNodeIDLength bounds node ids so they stay typeable in sessions.
	MaxNodeIDLength = 64

	// MinUsernameLength and MaxUsernameLength bound account names.
	MinUsernameLength = 3
	MaxUsernameLength = 32

	// MaxTitleLength bounds map titles (in runes).
	MaxTitleLength = 120
)

// NodeIDFormat validates mind-map node ids. Ids contain only [a-z0-9_-] and
// don't start/end with a separator.
func NodeIDFormat(id string) error {
	if id == "" {
		return fmt.Errorf("node id cannot be empty")
	}

	if len(id) > MaxNodeIDLength {
		return fmt.Errorf("node id '%s' is longer than %d characters", id, MaxNodeIDLength)
	}

	if !nodeIDRegex.MatchString(id) {
		return fmt.Errorf("node id '%s' must contain only lowercase letters [a-z], numbers [0-9], hyphens (-), and underscores (_)", id)
	}

	if strings.HasPrefix(id, "-") || strings.HasPrefix(id, "_") ||
		strings.HasSuffix(id, "-") || strings.HasSuffix(id, "_") {
		return fmt.Errorf("node id '%s' cannot start or end with hyphen (-) or underscore (_)", id)
	}

	return nil
}

// UsernameFormat validates account names: lowercase, starting with a letter,
// 3 to 32 characters of [a-z0-9_.-].
func UsernameFormat(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return fmt.Errorf("username must be between %d and %d characters", MinUsernameLength, MaxUsernameLength)
	}

	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username '%s' must start with a lowercase letter and contain only [a-z0-9_.-]", username)
	}

	return nil
}

// MapTitle validates a mind map title.
func MapTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("map title cannot be empty")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return fmt.Errorf("map title is longer than %d characters", MaxTitleLength)
	}
	return nil
}
