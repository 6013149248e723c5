package tui

import (
	"github.com/mark3labs/postgenie/internal/tui/theme"
)

// Standard key representations for consistent hints across the app.
const (
	KeyUpDown   = "↑/↓"
	KeyEnter    = "enter"
	KeySpace    = "space"
	KeyEsc      = "esc"
	KeyTab      = "tab"
	KeyCtrlC    = "ctrl+c"
	KeyNext     = "ctrl+n"
	KeyBack     = "ctrl+b"
	KeyNewSet   = "ctrl+r"
	KeyJump     = "alt+1-5"
	KeyEdit     = "ctrl+e"
	KeyPgUpDown = "pgup/pgdn"
)

// RenderHint renders a single key-description pair.
// Example: RenderHint("enter", "select") -> "enter select"
func RenderHint(key, desc string) string {
	s := theme.Current().S()
	return s.HintKey.Render(key) + " " + s.HintDesc.Render(desc)
}

// RenderHintBar renders a hint bar with multiple key-description pairs.
// Example: RenderHintBar("↑/↓", "move", "esc", "back") -> "↑/↓ move • esc back"
func RenderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	s := theme.Current().S()
	var result string
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			result += " " + s.HintSeparator.Render("•") + " "
		}
		result += s.HintKey.Render(pairs[i]) + " " + s.HintDesc.Render(pairs[i+1])
	}
	return result
}

// HintGlobal returns the navigation hints shown on every step.
func HintGlobal() string {
	return RenderHintBar(KeyNext, "next", KeyBack, "back", KeyJump, "jump", KeyNewSet, "new set", KeyCtrlC, "quit")
}

// HintModal returns the hints for confirmation modals.
func HintModal() string {
	return RenderHintBar("y", "confirm", "n/"+KeyEsc, "cancel")
}
