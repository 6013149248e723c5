package tui

import (
	"fmt"
	"strings"

	"charm.land/glamour/v2"
	"github.com/mark3labs/postgenie/internal/platform"
	"github.com/mark3labs/postgenie/internal/wizard"
)

// renderMarkdown renders markdown with glamour's dark style. Falls back to
// the raw content if rendering fails.
func renderMarkdown(content string, width int) string {
	if width > 120 {
		width = 120
	}
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(rendered, "\n")
}

// cardMarkdown is the preview of a review card.
func cardMarkdown(card wizard.ReviewCard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### %s\n\n", card.Label)
	b.WriteString(card.Text)
	b.WriteString("\n\n")
	if card.Hashtags != "" {
		fmt.Fprintf(&b, "*%s*\n\n", card.Hashtags)
	}
	if card.ImageURL != "" {
		info, _ := platform.Lookup(card.Platform)
		fmt.Fprintf(&b, "Image (%s): %s\n", info.ImageSize, card.ImageURL)
	}
	return b.String()
}
