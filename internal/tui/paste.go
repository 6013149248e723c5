package tui

import (
	"regexp"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mark3labs/postgenie/internal/wizard"
)

// sanitizePaste strips escape sequences and control characters (keeping
// newlines and tabs), normalizes CRLF and trims trailing whitespace.
func sanitizePaste(content string) string {
	content = ansi.Strip(content)
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var b strings.Builder
	for _, r := range content {
		switch {
		case r == '\n' || r == '\t':
			b.WriteRune(r)
		case r < 32 || r == 127:
			continue
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(b.String(), " \t\n")
}

var newlinePattern = regexp.MustCompile(`\n+`)

// collapseNewlines joins lines with a space for single-line inputs.
func collapseNewlines(content string) string {
	return newlinePattern.ReplaceAllString(content, " ")
}

// handlePaste inserts cleaned pasted text into the focused editor and
// commits the result to the controller.
func (a *App) handlePaste(msg tea.PasteMsg) tea.Cmd {
	content := sanitizePaste(msg.Content)
	if content == "" {
		return nil
	}
	paste := tea.PasteMsg{Content: content}

	var cmd tea.Cmd
	switch a.wizard.State().Step {
	case wizard.StepInput:
		s := a.input
		if s.focusZone != inputFocusSource {
			return nil
		}
		s.source, cmd = s.source.Update(paste)
		a.wizard.SetSource(s.source.Value())

	case wizard.StepTextOptions:
		s := a.text
		if s.current == "" {
			return nil
		}
		switch s.focusZone {
		case textFocusText:
			s.text, cmd = s.text.Update(paste)
			cmd = tea.Batch(cmd, a.commitPostField(wizard.FieldText, s.text.Value()))
		case textFocusHashtags:
			s.hashtags, cmd = s.hashtags.Update(tea.PasteMsg{Content: collapseNewlines(content)})
			cmd = tea.Batch(cmd, a.commitPostField(wizard.FieldHashtags, s.hashtags.Value()))
		}

	case wizard.StepPromptSelect:
		s := a.prompt
		if s.focusZone != promptFocusWorking {
			return nil
		}
		s.working, cmd = s.working.Update(paste)
		a.wizard.SetWorkingPrompt(s.working.Value())
	}
	return cmd
}
