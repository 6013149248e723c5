package tui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/postgenie/internal/tui/theme"
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Enabled
	ButtonDisabled                    // Grayed out
	ButtonFocused                     // Primary action
)

// Button is one entry of the button bar.
type Button struct {
	Label string
	State ButtonState
}

// ButtonBar renders a centered row of buttons.
type ButtonBar struct {
	buttons []Button
	width   int
}

// NewButtonBar creates a button bar with the given buttons.
func NewButtonBar(buttons []Button) *ButtonBar {
	return &ButtonBar{buttons: buttons, width: 60}
}

// SetWidth updates the width the bar is centered in.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

// Render renders the buttons centered in the bar width.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}
	s := theme.Current().S()

	rendered := make([]string, 0, len(b.buttons))
	for _, btn := range b.buttons {
		switch btn.State {
		case ButtonDisabled:
			rendered = append(rendered, s.ButtonDisabled.Render(btn.Label))
		case ButtonFocused:
			rendered = append(rendered, s.ButtonFocused.Render(btn.Label))
		default:
			rendered = append(rendered, s.ButtonNormal.Render(btn.Label))
		}
	}
	return lipgloss.Place(b.width, 1, lipgloss.Center, lipgloss.Center, strings.Join(rendered, ""))
}

// navButtons builds the Back / primary action pair for a step. The primary
// button is focused when enabled.
func navButtons(backEnabled bool, next string, nextEnabled bool) []Button {
	back := Button{Label: "← Back", State: ButtonNormal}
	if !backEnabled {
		back.State = ButtonDisabled
	}
	primary := Button{Label: next, State: ButtonFocused}
	if !nextEnabled {
		primary.State = ButtonDisabled
	}
	return []Button{back, primary}
}
