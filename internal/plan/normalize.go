// Package plan turns free text from the generative service into the fixed
// presentation grammar and parses that grammar into plan sections and tasks.
package plan

import "strings"

// Canonical markers produced by Normalize.
const (
	Bullet     = "•"
	TaskMarker = "🎯 Task:"
)

const taskWord = "Task:"

// Normalize rewrites raw model output so it satisfies the formatting
// contract. It never fails and Normalize(Normalize(s)) == Normalize(s).
//
// Rules, in order: drop "**", drop "#", map remaining "*" to the bullet
// glyph, tag "Task:" with the task marker, trim the whole text.
func Normalize(raw string) string {
	s := strings.ReplaceAll(raw, "**", "")
	s = strings.ReplaceAll(s, "#", "")
	s = strings.ReplaceAll(s, "*", Bullet)
	s = tagTasks(s)
	return strings.TrimSpace(s)
}

// tagTasks prefixes every "Task:" not already carrying the marker.
func tagTasks(s string) string {
	if !strings.Contains(s, taskWord) {
		return s
	}

	prefix := strings.TrimSuffix(TaskMarker, taskWord)
	var b strings.Builder
	b.Grow(len(s) + 8)

	rest := s
	for {
		i := strings.Index(rest, taskWord)
		if i < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:i])
		if !strings.HasSuffix(b.String(), prefix) {
			b.WriteString(prefix)
		}
		b.WriteString(taskWord)
		rest = rest[i+len(taskWord):]
	}
	return b.String()
}
