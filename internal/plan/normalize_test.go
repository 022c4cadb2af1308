package plan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "  \n\t ", ""},
		{"bold removed", "**Exercise** daily", "Exercise daily"},
		{"heading removed", "## 1. Exercise Plan", "1. Exercise Plan"},
		{"bullet canonicalized", "* foo\n* bar", "• foo\n• bar"},
		{"task tagged", "Task: drink water", "🎯 Task: drink water"},
		{"bold task", "**Task:** stretch", "🎯 Task: stretch"},
		{"already normalized", "🎯 Task: walk\n• item", "🎯 Task: walk\n• item"},
		{"trimmed", "\n\n  1. Plan  \n", "1. Plan"},
		{"adjacent tasks", "Task:Task:", "🎯 Task:🎯 Task:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"*#*",
		"Ta**sk: sneaky",
		"🎯#Task: x",
		"🎯Task: no space",
		"### Title\n**bold** and *italic*\nTask: one\n  * Task: two  ",
		"1. Exercise Plan\n• Walk\n🎯 Task: Walk 10000 steps",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalize_NoBareMarkup(t *testing.T) {
	out := Normalize("# Heading\n* foo\n**bar**")
	assert.Contains(t, out, "• foo")
	assert.NotContains(t, out, "*")
	assert.NotContains(t, out, "#")
}

func TestNormalize_TaskMarkerOnce(t *testing.T) {
	out := Normalize("Task: drink water")
	assert.Equal(t, 1, strings.Count(out, TaskMarker))
	assert.Equal(t, 1, strings.Count(out, "Task:"))
}
