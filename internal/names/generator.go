// Package names generates default titles for new mind maps.
//
// Titles are drawn from two small vocabularies, a reflective adjective and a
// nature noun, so that an author who skips --title still gets something they
// can recognise in `thinkmapctl map ls`. Slugs use the "adjective-noun" form
// and titles the capitalised "Adjective Noun" form.
//
// Examples: "curious-orchard", "Quiet Estuary"
package names

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

var adjectives = []string{
	// Reflective
	"curious", "pensive", "lucid", "musing", "candid",
	"earnest", "patient", "quiet", "restless", "skeptical",
	"thoughtful", "wandering", "wistful", "wondering", "attentive",
	"deliberate", "questioning", "searching", "steady", "tentative",

	// Structural
	"branching", "layered", "nested", "tangled", "woven",
	"spiral", "radial", "linked", "rooted", "sprawling",

	// Light and weather
	"amber", "bright", "clear", "dawning", "hazy",
	"misty", "silver", "sunlit", "twilight", "windswept",
}

var nouns = []string{
	// Landscape
	"orchard", "estuary", "meadow", "ridge", "canyon",
	"delta", "harbor", "glacier", "prairie", "valley",
	"tundra", "lagoon", "fjord", "plateau", "savanna",

	// Trees and growth
	"acorn", "aspen", "banyan", "cedar", "fern",
	"grove", "ivy", "juniper", "lichen", "mangrove",
	"moss", "sapling", "sequoia", "willow", "root",

	// Paths and maps
	"atlas", "compass", "crossroads", "lantern", "path",
	"trail", "waypoint", "bridge", "junction", "beacon",
}

// Generate returns a random "adjective-noun" slug.
func Generate() string {
	adjective := adjectives[randomIndex(len(adjectives))]
	noun := nouns[randomIndex(len(nouns))]
	return fmt.Sprintf("%s-%s", adjective, noun)
}

// Title returns a random map title such as "Curious Orchard".
func Title() string {
	return SlugToTitle(Generate())
}

// SlugToTitle converts "curious-orchard" into "Curious Orchard".
func SlugToTitle(slug string) string {
	parts := strings.Split(slug, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// randomIndex uses crypto/rand and falls back to 0 if the reader fails.
func randomIndex(max int) int {
	if max <= 0 {
		return 0
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0
	}

	return int(n.Int64())
}

// GenerateMany returns count slugs, unique where the vocabulary allows. After
// 100 collisions for one slot the duplicate is accepted.
func GenerateMany(count int) []string {
	if count <= 0 {
		return []string{}
	}

	names := make([]string, count)
	used := make(map[string]bool)

	for i := 0; i < count; i++ {
		var name string
		attempts := 0

		for {
			name = Generate()
			if !used[name] || attempts > 100 {
				break
			}
			attempts++
		}

		used[name] = true
		names[i] = name
	}

	return names
}
