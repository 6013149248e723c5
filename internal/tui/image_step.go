package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/postgenie/internal/tui/theme"
	"github.com/mark3labs/postgenie/internal/wizard"
)

// imageStep picks one image of the current batch.
type imageStep struct {
	cursor int
}

func (s *imageStep) sync(st wizard.State) {
	if s.cursor >= len(st.Images) {
		s.cursor = 0
	}
}

func (a *App) updateImages(msg tea.KeyPressMsg) tea.Cmd {
	s := a.images
	st := a.wizard.State()
	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(st.Images)-1 {
			s.cursor++
		}
	case "enter", "space", " ":
		if s.cursor < len(st.Images) {
			a.wizard.SelectImage(st.Images[s.cursor].ID)
		}
	case "r":
		if s.cursor >= len(st.Images) {
			return nil
		}
		cmd, err := a.startRegenerateImage(st.Images[s.cursor].ID)
		if err != nil {
			return a.notifyErr(err)
		}
		return cmd
	case "g":
		cmd, err := a.startImageBatch(st.WorkingPrompt)
		if err != nil {
			return a.notifyErr(err)
		}
		return cmd
	}
	return nil
}

func (s *imageStep) view(st wizard.State, a *App) string {
	th := theme.Current().S()

	var b strings.Builder
	b.WriteString(th.PanelTitleFocused.Render(a.spinnerFor(st, wizard.KeyImages) + "Generated Images"))
	b.WriteString("\n")
	b.WriteString(th.ItemMuted.Render("Prompt: " + st.WorkingPrompt))
	b.WriteString("\n\n")
	if len(st.Images) == 0 {
		b.WriteString(th.ItemMuted.Render("No images. Press g to generate a batch."))
		return b.String()
	}
	for i, img := range st.Images {
		mark := th.Unchecked.Render("( )")
		if img.ID == st.SelectedImageID {
			mark = th.Checked.Render("(•)")
		}
		label := th.Item.Render(img.ID)
		if i == s.cursor {
			label = th.ItemSelected.Render("› " + img.ID)
		}
		b.WriteString(mark + " " + a.spinnerFor(st, wizard.ImageKey(img.ID)) + label + "  " + th.ItemMuted.Render(img.URL))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *imageStep) hints() string {
	return RenderHintBar(KeyUpDown, "move", KeyEnter, "select", "r", "regenerate image", "g", "new batch")
}
