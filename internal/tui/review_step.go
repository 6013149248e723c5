package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/postgenie/internal/tui/theme"
	"github.com/mark3labs/postgenie/internal/wizard"
)

// reviewStep shows one card per selected platform with approval toggles.
type reviewStep struct {
	viewport viewport.Model
	cursor   int
	cards    []wizard.ReviewCard
	width    int

	// Rendered previews keyed by card markdown and width.
	cache map[string]string
}

func newReviewStep() *reviewStep {
	vp := viewport.New(
		viewport.WithWidth(60),
		viewport.WithHeight(10),
	)
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3
	return &reviewStep{viewport: vp, width: 60, cache: make(map[string]string)}
}

func (s *reviewStep) setSize(width, height int) {
	s.width = width
	s.viewport.SetWidth(width)
	s.viewport.SetHeight(max(5, height))
}

func (s *reviewStep) sync(st wizard.State, width int) {
	s.cards = st.Cards
	if s.cursor >= len(s.cards) {
		s.cursor = max(0, len(s.cards)-1)
	}
	if st.Step != wizard.StepReview {
		return
	}
	s.viewport.SetContent(s.renderCards(width))
}

func (s *reviewStep) preview(card wizard.ReviewCard, width int) string {
	md := cardMarkdown(card)
	key := fmt.Sprintf("%d:%s", width, md)
	if out, ok := s.cache[key]; ok {
		return out
	}
	if len(s.cache) > 64 {
		s.cache = make(map[string]string)
	}
	out := renderMarkdown(md, width)
	s.cache[key] = out
	return out
}

func (s *reviewStep) renderCards(width int) string {
	th := theme.Current().S()
	if len(s.cards) == 0 {
		return th.ItemMuted.Render("No platforms selected.")
	}
	inner := max(20, width-4)
	rendered := make([]string, 0, len(s.cards))
	for i, card := range s.cards {
		status := th.StatusDraft.Render("○ Draft")
		if card.Ready() {
			status = th.StatusReady.Render("● Ready")
		}
		body := lipgloss.JoinVertical(lipgloss.Left, status, s.preview(card, inner))
		style := th.Card
		if i == s.cursor {
			style = th.CardFocused
		}
		rendered = append(rendered, style.Width(width).Render(body))
	}
	return strings.Join(rendered, "\n")
}

func (a *App) updateReview(msg tea.KeyPressMsg) tea.Cmd {
	s := a.review
	st := a.wizard.State()
	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(st.Cards)-1 {
			s.cursor++
		}
	case "space", " ", "enter":
		if s.cursor < len(st.Cards) {
			a.wizard.ToggleApproval(st.Cards[s.cursor].Platform)
		}
	case "a":
		for _, c := range st.Cards {
			a.wizard.SetApproval(c.Platform, true)
		}
	case "e":
		if s.cursor >= len(st.Cards) {
			return nil
		}
		if !editorAvailable() {
			return a.notifyErr(fmt.Errorf("set $EDITOR to edit in an external editor"))
		}
		card := st.Cards[s.cursor]
		return openEditor(EditTarget{Platform: card.Platform}, card.Text)
	case "x":
		return a.exportCmd(false)
	case "p":
		return a.exportCmd(true)
	default:
		var cmd tea.Cmd
		s.viewport, cmd = s.viewport.Update(msg)
		return cmd
	}
	return nil
}

func (s *reviewStep) view() string {
	return s.viewport.View()
}

func (s *reviewStep) hints(publish bool) string {
	pairs := []string{KeyUpDown, "card", KeySpace, "approve", "a", "approve all", "e", "edit", "x", "export csv"}
	if publish {
		pairs = append(pairs, "p", "publish")
	}
	return RenderHintBar(pairs...)
}
