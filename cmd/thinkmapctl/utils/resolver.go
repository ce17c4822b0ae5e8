package utils

import (
	"fmt"
	"strings"

	"github.com/concave-dev/thinkmap/internal/logging"
	"github.com/concave-dev/thinkmap/internal/mindmap"
)

// ResolveMapIdentifier finds a map by full ID, unique ID prefix or exact
// (case-insensitive) title. Tables print 8-character IDs, so a prefix copied
// from `map ls` resolves.
func ResolveMapIdentifier(maps []*mindmap.Map, identifier string) (*mindmap.Map, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, fmt.Errorf("map identifier cannot be empty")
	}

	for _, m := range maps {
		if m.ID == identifier {
			return m, nil
		}
	}

	var matches []*mindmap.Map
	for _, m := range maps {
		if strings.HasPrefix(m.ID, identifier) {
			matches = append(matches, m)
		}
	}
	if len(matches) == 0 {
		for _, m := range maps {
			if strings.EqualFold(m.Title, identifier) {
				matches = append(matches, m)
			}
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("map '%s' not found", identifier)
	case 1:
		logging.Debug("Resolved '%s' to map %s (%s)", identifier, matches[0].ID, matches[0].Title)
		return matches[0], nil
	}

	logging.Error("Identifier '%s' is not unique, matches multiple maps:", identifier)
	for _, m := range matches {
		logging.Error("  %s (%s)", m.ID, m.Title)
	}
	return nil, fmt.Errorf("map identifier '%s' not unique", identifier)
}
