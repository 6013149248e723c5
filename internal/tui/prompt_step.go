package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/postgenie/internal/tui/theme"
	"github.com/mark3labs/postgenie/internal/wizard"
)

const (
	promptFocusCandidates = iota
	promptFocusWorking
)

// promptStep picks a prompt candidate and edits the working prompt.
type promptStep struct {
	working   textarea.Model
	focusZone int
	cursor    int
}

func newPromptStep() *promptStep {
	ta := textarea.New()
	ta.Placeholder = "Select a suggestion or describe the image…"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	return &promptStep{working: ta}
}

func (s *promptStep) setSize(width, height int) {
	s.working.SetWidth(width)
	s.working.SetHeight(max(3, height-12))
}

func (s *promptStep) focus(zone int) tea.Cmd {
	s.focusZone = zone
	if zone == promptFocusWorking {
		return s.working.Focus()
	}
	s.working.Blur()
	return nil
}

func (s *promptStep) sync(st wizard.State) {
	if s.cursor >= len(st.Prompts) {
		s.cursor = 0
	}
	if s.working.Value() != st.WorkingPrompt {
		s.working.SetValue(st.WorkingPrompt)
	}
}

func (s *promptStep) forward(msg tea.Msg) tea.Cmd {
	if s.focusZone != promptFocusWorking {
		return nil
	}
	var cmd tea.Cmd
	s.working, cmd = s.working.Update(msg)
	return cmd
}

func (a *App) updatePrompt(msg tea.KeyPressMsg) tea.Cmd {
	s := a.prompt
	switch msg.String() {
	case "tab", "shift+tab":
		return s.focus(1 - s.focusZone)
	case "esc":
		return s.focus(promptFocusCandidates)
	}

	if s.focusZone == promptFocusWorking {
		var cmd tea.Cmd
		s.working, cmd = s.working.Update(msg)
		a.wizard.SetWorkingPrompt(s.working.Value())
		return cmd
	}

	st := a.wizard.State()
	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(st.Prompts)-1 {
			s.cursor++
		}
	case "enter", "space", " ":
		if s.cursor < len(st.Prompts) {
			a.wizard.SelectPrompt(st.Prompts[s.cursor].ID)
		}
	case "r":
		cmd, err := a.startPromptBatch()
		if err != nil {
			return a.notifyErr(err)
		}
		return cmd
	}
	return nil
}

func (s *promptStep) view(st wizard.State, a *App) string {
	th := theme.Current().S()

	listTitle, workTitle := th.PanelTitle, th.PanelTitle
	if s.focusZone == promptFocusCandidates {
		listTitle = th.PanelTitleFocused
	} else {
		workTitle = th.PanelTitleFocused
	}

	var b strings.Builder
	b.WriteString(listTitle.Render(a.spinnerFor(st, wizard.KeyPrompts) + "Suggested Image Prompts"))
	b.WriteString("\n")
	if len(st.Prompts) == 0 {
		if st.IsPending(wizard.KeyPrompts) {
			b.WriteString(th.ItemMuted.Render("Generating suggestions…"))
		} else {
			b.WriteString(th.ItemMuted.Render("No suggestions yet. Press r to generate."))
		}
	}
	for i, c := range st.Prompts {
		mark := th.Unchecked.Render("( )")
		if c.ID == st.SelectedPromptID {
			mark = th.Checked.Render("(•)")
		}
		text := th.Item.Render(c.Text)
		if s.focusZone == promptFocusCandidates && i == s.cursor {
			text = th.ItemSelected.Render("› " + c.Text)
		}
		b.WriteString(fmt.Sprintf("%s %s. %s", mark, c.ID, text))
		if c.Recommended {
			b.WriteString("  " + th.Badge.Render("Recommended"))
			b.WriteString("\n      " + th.Rationale.Render(c.Rationale))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(workTitle.Render(a.spinnerFor(st, wizard.KeyImages) + "Image Prompt"))
	b.WriteString("\n")
	b.WriteString(s.working.View())
	return b.String()
}

func (s *promptStep) hints() string {
	if s.focusZone == promptFocusCandidates {
		return RenderHintBar(KeyUpDown, "move", KeyEnter, "use prompt", "r", "new suggestions", KeyTab, "edit prompt")
	}
	return RenderHintBar(KeyTab, "suggestions", KeyNext, "generate images")
}
