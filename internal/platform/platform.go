// Package platform holds the static registry of social platforms a post can target.
package platform

import (
	"fmt"
	"strings"
)

// ID identifies a platform in the registry.
type ID string

const (
	Instagram ID = "instagram"
	LinkedIn  ID = "linkedin"
	X         ID = "x"
	Facebook  ID = "facebook"
)

// Info describes a platform and its publishing limits.
type Info struct {
	ID           ID
	Label        string
	MaxLength    int    // Maximum post text length in characters
	HashtagLimit int    // Maximum number of hashtags
	AspectRatio  string // Preferred image aspect ratio, e.g. "1:1"
	ImageSize    string // Preferred image size, e.g. "1080x1350"
}

// registry is ordered; export and display follow this order.
var registry = []Info{
	{ID: Instagram, Label: "Instagram", MaxLength: 2200, HashtagLimit: 30, AspectRatio: "1:1", ImageSize: "1080x1350"},
	{ID: LinkedIn, Label: "LinkedIn", MaxLength: 3000, HashtagLimit: 5, AspectRatio: "1.91:1", ImageSize: "1200x1350"},
	{ID: X, Label: "X", MaxLength: 280, HashtagLimit: 3, AspectRatio: "16:9", ImageSize: "1600x900"},
	{ID: Facebook, Label: "Facebook", MaxLength: 63206, HashtagLimit: 10, AspectRatio: "1.91:1", ImageSize: "1200x630"},
}

// All returns a copy of the registry in display order.
func All() []Info {
	out := make([]Info, len(registry))
	copy(out, registry)
	return out
}

// IDs returns all platform ids in registry order.
func IDs() []ID {
	ids := make([]ID, len(registry))
	for i, p := range registry {
		ids[i] = p.ID
	}
	return ids
}

// Lookup returns the registry entry for id.
func Lookup(id ID) (Info, bool) {
	for _, p := range registry {
		if p.ID == id {
			return p, true
		}
	}
	return Info{}, false
}

// Label returns the display label for id, or the raw id when unknown.
func Label(id ID) string {
	if p, ok := Lookup(id); ok {
		return p.Label
	}
	return string(id)
}

// Index returns the registry position of id, or -1.
func Index(id ID) int {
	for i, p := range registry {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Valid reports whether id is in the registry.
func Valid(id ID) bool {
	return Index(id) >= 0
}

// Normalize filters unknown ids, removes duplicates and sorts into registry order.
func Normalize(ids []ID) []ID {
	seen := make(map[ID]bool, len(ids))
	for _, id := range ids {
		if Valid(id) {
			seen[id] = true
		}
	}
	out := make([]ID, 0, len(seen))
	for _, p := range registry {
		if seen[p.ID] {
			out = append(out, p.ID)
		}
	}
	return out
}

// Parse converts user input (id or label, any case) into an ID.
func Parse(s string) (ID, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "twitter" {
		return X, nil
	}
	for _, p := range registry {
		if s == string(p.ID) || s == strings.ToLower(p.Label) {
			return p.ID, nil
		}
	}
	return "", fmt.Errorf("unknown platform: %q", s)
}

// ParseList parses a list of platform names, failing on the first unknown entry.
func ParseList(names []string) ([]ID, error) {
	ids := make([]ID, 0, len(names))
	for _, n := range names {
		id, err := Parse(n)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return Normalize(ids), nil
}
