package tui

import (
	"fmt"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/editor"
)

// editorAvailable reports whether $EDITOR is set.
func editorAvailable() bool {
	return os.Getenv("EDITOR") != ""
}

// openEditor launches $EDITOR on a temp file holding content and reports the
// edited text as an EditorDoneMsg.
func openEditor(target EditTarget, content string) tea.Cmd {
	tmpfile, err := os.CreateTemp("", "postgenie_*.md")
	if err != nil {
		return editorFailed(target, err)
	}
	path := tmpfile.Name()
	if _, err := tmpfile.WriteString(content); err != nil {
		_ = tmpfile.Close()
		_ = os.Remove(path)
		return editorFailed(target, err)
	}
	_ = tmpfile.Close()

	cmd, err := editor.Command("postgenie", path)
	if err != nil {
		_ = os.Remove(path)
		return editorFailed(target, err)
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		defer func() { _ = os.Remove(path) }()
		if err != nil {
			return EditorDoneMsg{Target: target, Err: fmt.Errorf("editor: %w", err)}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return EditorDoneMsg{Target: target, Err: fmt.Errorf("reading edited file: %w", err)}
		}
		return EditorDoneMsg{Target: target, Content: strings.TrimRight(string(data), "\n")}
	})
}

func editorFailed(target EditTarget, err error) tea.Cmd {
	return func() tea.Msg {
		return EditorDoneMsg{Target: target, Err: err}
	}
}
