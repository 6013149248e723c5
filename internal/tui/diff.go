package tui

import (
	"bytes"
	"os"
	"strings"

	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/aymanbagabas/go-udiff"
	"github.com/charmbracelet/colorprofile"
	"github.com/mark3labs/postgenie/internal/tui/theme"
)

// postDiff returns a unified diff from the generated text to the edited
// text, or "" when they are equal.
func postDiff(generated, edited string) string {
	if generated == edited {
		return ""
	}
	return udiff.Unified("generated", "edited", ensureNewline(generated), ensureNewline(edited))
}

func ensureNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// terminalProfile is the color support of the terminal the diff is drawn on.
var terminalProfile = colorprofile.Detect(os.Stdout, os.Environ())

// formatterFor picks the chroma terminal formatter for a color profile.
// It returns "" when colors should not be emitted.
func formatterFor(p colorprofile.Profile) string {
	switch p {
	case colorprofile.TrueColor:
		return "terminal16m"
	case colorprofile.ANSI256:
		return "terminal256"
	case colorprofile.ANSI:
		return "terminal16"
	default:
		return ""
	}
}

// highlightDiff applies diff syntax highlighting for terminal display.
// It falls back to the plain diff when chroma cannot format it.
func highlightDiff(diff string) string {
	return highlightDiffFor(diff, terminalProfile)
}

func highlightDiffFor(diff string, p colorprofile.Profile) string {
	if diff == "" {
		return ""
	}
	name := formatterFor(p)
	if name == "" {
		return diff
	}
	lexer := lexers.Get("diff")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	formatter := formatters.Get(name)
	if formatter == nil {
		return diff
	}

	baseStyle := styles.Get("monokai")
	if baseStyle == nil {
		baseStyle = styles.Fallback
	}
	// Match token backgrounds to the panel background.
	bg := chroma.MustParseColour(theme.Current().BgBase)
	style, err := baseStyle.Builder().Transform(func(entry chroma.StyleEntry) chroma.StyleEntry {
		entry.Background = bg
		return entry
	}).Build()
	if err != nil {
		style = baseStyle
	}

	iterator, err := lexer.Tokenise(nil, diff)
	if err != nil {
		return diff
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return diff
	}
	return strings.TrimRight(buf.String(), "\n")
}
