package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/postgenie/internal/platform"
	"github.com/mark3labs/postgenie/internal/tui/theme"
	"github.com/mark3labs/postgenie/internal/wizard"
)

// Focus zones of the Post Text Options step.
const (
	textFocusPlatforms = iota
	textFocusText
	textFocusHashtags
	textFocusZones
)

// textStep edits each selected platform's post.
type textStep struct {
	text      textarea.Model
	hashtags  textinput.Model
	focusZone int
	cursor    int
	current   platform.ID
	showDiff  bool
}

func newTextStep() *textStep {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ti := textinput.New()
	ti.Placeholder = "#hashtags"
	return &textStep{text: ta, hashtags: ti}
}

func (s *textStep) setSize(width, height int) {
	s.text.SetWidth(width)
	s.text.SetHeight(max(3, height/2))
	s.hashtags.SetWidth(width - 2)
}

func (s *textStep) focus(zone int) tea.Cmd {
	s.focusZone = zone
	s.text.Blur()
	s.hashtags.Blur()
	switch zone {
	case textFocusText:
		return s.text.Focus()
	case textFocusHashtags:
		return s.hashtags.Focus()
	}
	return nil
}

// sync keeps the cursor on a selected platform and mirrors that platform's
// post into the editors.
func (s *textStep) sync(st wizard.State) {
	if len(st.Selected) == 0 {
		s.cursor = 0
		s.current = ""
		return
	}
	if s.cursor >= len(st.Selected) {
		s.cursor = len(st.Selected) - 1
	}
	s.current = st.Selected[s.cursor]
	post := st.Posts[s.current]
	if s.text.Value() != post.Text {
		s.text.SetValue(post.Text)
	}
	if s.hashtags.Value() != post.Hashtags {
		s.hashtags.SetValue(post.Hashtags)
	}
}

func (s *textStep) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch s.focusZone {
	case textFocusText:
		s.text, cmd = s.text.Update(msg)
	case textFocusHashtags:
		s.hashtags, cmd = s.hashtags.Update(msg)
	}
	return cmd
}

func (a *App) updateText(msg tea.KeyPressMsg) tea.Cmd {
	s := a.text
	switch msg.String() {
	case "tab":
		return s.focus((s.focusZone + 1) % textFocusZones)
	case "shift+tab":
		return s.focus((s.focusZone + textFocusZones - 1) % textFocusZones)
	case "esc":
		return s.focus(textFocusPlatforms)
	case "ctrl+e":
		if s.current == "" {
			return nil
		}
		if !editorAvailable() {
			return a.notifyErr(fmt.Errorf("set $EDITOR to edit in an external editor"))
		}
		return openEditor(EditTarget{Platform: s.current}, a.wizard.State().Posts[s.current].Text)
	}

	switch s.focusZone {
	case textFocusText:
		var cmd tea.Cmd
		s.text, cmd = s.text.Update(msg)
		return tea.Batch(cmd, a.commitPostField(wizard.FieldText, s.text.Value()))
	case textFocusHashtags:
		var cmd tea.Cmd
		s.hashtags, cmd = s.hashtags.Update(msg)
		return tea.Batch(cmd, a.commitPostField(wizard.FieldHashtags, s.hashtags.Value()))
	}

	st := a.wizard.State()
	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(st.Selected)-1 {
			s.cursor++
		}
	case "enter":
		return s.focus(textFocusText)
	case "d":
		s.showDiff = !s.showDiff
		a.savePrefs()
	case "r":
		if s.current == "" {
			return nil
		}
		cmd, err := a.startRegenerateText(s.current)
		if err != nil {
			return a.notifyErr(err)
		}
		return cmd
	}
	return nil
}

func (s *textStep) view(st wizard.State, a *App) string {
	th := theme.Current().S()

	var tabs []string
	for i, id := range st.Selected {
		label := platform.Label(id)
		if st.Posts[id].Edited() {
			label += "*"
		}
		label = a.spinnerFor(st, wizard.TextKey(id)) + label
		if i == s.cursor {
			if s.focusZone == textFocusPlatforms {
				tabs = append(tabs, th.ItemSelected.Render("› "+label))
			} else {
				tabs = append(tabs, th.Item.Bold(true).Render(label))
			}
			continue
		}
		tabs = append(tabs, th.ItemMuted.Render(label))
	}

	var b strings.Builder
	b.WriteString(strings.Join(tabs, "   "))
	b.WriteString("\n\n")
	if s.current == "" {
		b.WriteString(th.ItemMuted.Render("No platforms selected."))
		return b.String()
	}

	post := st.Posts[s.current]
	info, _ := platform.Lookup(s.current)
	limit := a.brand.TextLimit(s.current)

	textTitle, tagTitle := th.PanelTitle, th.PanelTitle
	switch s.focusZone {
	case textFocusText:
		textTitle = th.PanelTitleFocused
	case textFocusHashtags:
		tagTitle = th.PanelTitleFocused
	}

	count := fmt.Sprintf("%d/%d", utf8.RuneCountInString(post.Text), limit)
	b.WriteString(textTitle.Render(info.Label+" Post") + "  " + th.ItemMuted.Render(count))
	b.WriteString("\n")
	if s.showDiff {
		if diff := highlightDiff(postDiff(post.Generated, post.Text)); diff != "" {
			b.WriteString(diff)
		} else {
			b.WriteString(th.ItemMuted.Render("No edits since the text was generated."))
		}
	} else {
		b.WriteString(s.text.View())
	}
	b.WriteString("\n\n")
	b.WriteString(tagTitle.Render("Hashtags"))
	b.WriteString("\n")
	b.WriteString(s.hashtags.View())

	for _, issue := range a.wizard.PostIssues(s.current) {
		b.WriteString("\n")
		b.WriteString(th.Issue.Render("! " + issue))
	}
	return b.String()
}

func (s *textStep) hints() string {
	if s.focusZone == textFocusPlatforms {
		return RenderHintBar(KeyUpDown, "platform", "r", "regenerate", "d", "diff", KeyTab, "edit")
	}
	return RenderHintBar(KeyTab, "next field", KeyEsc, "platforms", KeyEdit, "$EDITOR")
}

// commitPostField writes an edited field of the current platform's post.
func (a *App) commitPostField(field wizard.Field, value string) tea.Cmd {
	if a.text.current == "" {
		return nil
	}
	if err := a.wizard.SetPostField(a.text.current, field, value); err != nil {
		return a.notifyErr(err)
	}
	return nil
}
