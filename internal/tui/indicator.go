package tui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/postgenie/internal/tui/theme"
	"github.com/mark3labs/postgenie/internal/wizard"
)

// renderIndicator draws the step indicator as "1 Input › 2 Text › ...".
// Completed steps fade from the secondary accent toward success green.
func renderIndicator(ind wizard.Indicator) string {
	t := theme.Current()
	s := t.S()

	parts := make([]string, 0, len(ind.Items))
	for i, item := range ind.Items {
		label := fmt.Sprintf("%d %s", i+1, item.Label)
		switch {
		case item.Current:
			parts = append(parts, s.StepCurrent.Render(label))
		case item.Done:
			pos := float64(i) / float64(max(1, int(ind.Current)))
			c := theme.Blend(t.Secondary, t.Success, pos)
			parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Padding(0, 1).Render("✓ "+label))
		case item.Reachable:
			parts = append(parts, s.StepReachable.Render(label))
		default:
			parts = append(parts, s.StepUnreachable.Render(label))
		}
	}
	return strings.Join(parts, s.StepSeparator.Render("›"))
}

// renderChecklist draws the current step's checklist on one line.
func renderChecklist(items []wizard.ChecklistItem) string {
	s := theme.Current().S()
	parts := make([]string, 0, len(items))
	for _, it := range items {
		mark := s.Unchecked.Render("○")
		if it.Checked {
			mark = s.Checked.Render("●")
		}
		label := it.Label
		if it.Optional {
			label += " (optional)"
		}
		parts = append(parts, mark+" "+s.ItemMuted.Render(label))
	}
	return strings.Join(parts, "   ")
}
