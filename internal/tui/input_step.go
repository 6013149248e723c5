package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/postgenie/internal/platform"
	"github.com/mark3labs/postgenie/internal/tui/theme"
	"github.com/mark3labs/postgenie/internal/wizard"
)

// Focus zones of the Input step.
const (
	inputFocusSource = iota
	inputFocusPlatforms
)

// inputStep edits the source content and the platform selection.
type inputStep struct {
	source    textarea.Model
	focusZone int
	cursor    int // Platform list cursor
}

func newInputStep() *inputStep {
	ta := textarea.New()
	ta.Placeholder = "Paste an announcement, article excerpt or notes…"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	return &inputStep{source: ta}
}

func (s *inputStep) setSize(width, height int) {
	s.source.SetWidth(width)
	s.source.SetHeight(max(3, height-len(platform.All())-3))
}

func (s *inputStep) focus(zone int) tea.Cmd {
	s.focusZone = zone
	if zone == inputFocusSource {
		return s.source.Focus()
	}
	s.source.Blur()
	return nil
}

func (s *inputStep) sync(st wizard.State) {
	if s.source.Value() != st.Source {
		s.source.SetValue(st.Source)
	}
}

func (s *inputStep) forward(msg tea.Msg) tea.Cmd {
	if s.focusZone != inputFocusSource {
		return nil
	}
	var cmd tea.Cmd
	s.source, cmd = s.source.Update(msg)
	return cmd
}

func (a *App) updateInput(msg tea.KeyPressMsg) tea.Cmd {
	s := a.input
	switch msg.String() {
	case "tab", "shift+tab":
		return s.focus(1 - s.focusZone)
	case "esc":
		return s.focus(inputFocusPlatforms)
	case "ctrl+e":
		if editorAvailable() {
			return openEditor(EditTarget{Source: true}, a.wizard.State().Source)
		}
		return a.notifyErr(fmt.Errorf("set $EDITOR to edit in an external editor"))
	}

	if s.focusZone == inputFocusSource {
		var cmd tea.Cmd
		s.source, cmd = s.source.Update(msg)
		a.wizard.SetSource(s.source.Value())
		return cmd
	}

	ids := platform.IDs()
	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(ids)-1 {
			s.cursor++
		}
	case "space", " ", "enter":
		a.wizard.TogglePlatform(ids[s.cursor])
	case "a":
		a.wizard.ToggleAllPlatforms()
	}
	return nil
}

func (s *inputStep) view(st wizard.State, a *App) string {
	th := theme.Current().S()

	sourceTitle := th.PanelTitle
	listTitle := th.PanelTitle
	if s.focusZone == inputFocusSource {
		sourceTitle = th.PanelTitleFocused
	} else {
		listTitle = th.PanelTitleFocused
	}

	var b strings.Builder
	b.WriteString(sourceTitle.Render("Source Content"))
	b.WriteString("\n")
	b.WriteString(s.source.View())
	b.WriteString("\n\n")

	all := "Select All"
	if len(st.Selected) == len(platform.IDs()) {
		all = "Deselect All"
	}
	b.WriteString(listTitle.Render("Platforms") + "  " + th.ItemMuted.Render("(a: "+all+")"))
	for i, info := range platform.All() {
		b.WriteString("\n")
		mark := th.Unchecked.Render("[ ]")
		if st.IsSelected(info.ID) {
			mark = th.Checked.Render("[x]")
		}
		label := th.Item.Render(info.Label)
		if s.focusZone == inputFocusPlatforms && i == s.cursor {
			label = th.ItemSelected.Render("› " + info.Label)
		}
		limits := th.ItemMuted.Render(fmt.Sprintf("  %d chars, %d hashtags, %s", a.brand.TextLimit(info.ID), info.HashtagLimit, info.AspectRatio))
		b.WriteString(mark + " " + label + limits)
	}
	return b.String()
}

func (s *inputStep) hints() string {
	if s.focusZone == inputFocusSource {
		return RenderHintBar(KeyTab, "platforms", KeyEdit, "$EDITOR")
	}
	return RenderHintBar(KeyUpDown, "move", KeySpace, "toggle", "a", "all", KeyTab, "source")
}
