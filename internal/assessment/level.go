// Package assessment scores seniority levels from per-category answer tallies.
package assessment

import (
	"fmt"
	"strings"
)

// Level is a seniority tier being assessed.
type Level string

const (
	LevelJunior Level = "junior"
	LevelMid    Level = "mid"
	LevelSenior Level = "senior"
)

var levelOrder = []Level{LevelJunior, LevelMid, LevelSenior}

// Levels returns every level in ascending seniority. Best-fit selection
// walks this order, so earlier levels win ties.
func Levels() []Level {
	return append([]Level(nil), levelOrder...)
}

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	switch l {
	case LevelJunior, LevelMid, LevelSenior:
		return true
	}
	return false
}

// Title returns the level name with a capital first letter.
func (l Level) Title() string {
	s := string(l)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseLevel converts a case-insensitive level name.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("%w: %q (expected junior, mid or senior)", ErrUnknownLevel, s)
	}
	return l, nil
}

// Category names a competency group within one level.
type Category string

// FormatCategoryName turns a snake_case category into title case words.
func FormatCategoryName(c Category) string {
	parts := strings.Split(string(c), "_")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		out = append(out, strings.ToUpper(part[:1])+part[1:])
	}
	return strings.Join(out, " ")
}
