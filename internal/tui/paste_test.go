package tui

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/postgenie/internal/platform"
	"github.com/stretchr/testify/require"
)

func TestSanitizePaste(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "hello world", "hello world"},
		{"ansi colors", "\x1b[31mred\x1b[0m text", "red text"},
		{"crlf", "line1\r\nline2\r\n", "line1\nline2"},
		{"control chars", "a\x00b\x07c\x7fd", "abcd"},
		{"keeps tabs", "a\tb", "a\tb"},
		{"trailing whitespace", "text  \n\n\t", "text"},
		{"only whitespace", " \n ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, sanitizePaste(tt.input))
		})
	}
}

func TestCollapseNewlines(t *testing.T) {
	t.Parallel()

	require.Equal(t, "#a #b #c", collapseNewlines("#a\n#b\n\n#c"))
}

func TestApp_PasteCommitsToController(t *testing.T) {
	ta := newTestApp(t, nil)

	_, cmd := ta.Update(tea.PasteMsg{Content: "\x1b[1mScholarship\x1b[0m news\r\nApply now\r\n"})
	ta.drain(t, cmd)
	require.Equal(t, "Scholarship news\nApply now", ta.wizard.State().Source)

	// Platform list has focus: nothing is inserted
	ta.press(t, key("tab"))
	_, cmd = ta.Update(tea.PasteMsg{Content: "ignored"})
	ta.drain(t, cmd)
	require.Equal(t, "Scholarship news\nApply now", ta.wizard.State().Source)

	ta.press(t, key("space"), ctrl('n'))
	require.Equal(t, platform.Instagram, ta.text.current)

	// Hashtags collapse to one line
	ta.press(t, key("tab"), key("tab"))
	ta.text.hashtags.SetValue("")
	_, cmd = ta.Update(tea.PasteMsg{Content: "#one\n#two"})
	ta.drain(t, cmd)
	require.Equal(t, "#one #two", ta.wizard.State().Posts[platform.Instagram].Hashtags)
}

func TestApp_PasteIgnoredUnderModal(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.press(t, ctrl('r'))

	_, cmd := ta.Update(tea.PasteMsg{Content: "text"})
	ta.drain(t, cmd)
	require.Empty(t, ta.wizard.State().Source)
}
