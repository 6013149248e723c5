package main

import (
	"context"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/mark3labs/postgenie/internal/logger"
	"github.com/mark3labs/postgenie/internal/tui/theme"
	"github.com/spf13/cobra"
)

const logoText = "✦ postgenie"

// Version set via ldflags during build
var version = "dev"

func main() {
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "postgenie",
	Short: "Turn one piece of content into social media posts",
}

// renderLogo fades the logo from the primary to the secondary accent.
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	runes := []rune(logoText)
	var b strings.Builder
	for i, r := range runes {
		pos := float64(i) / float64(max(1, len(runes)-1))
		c := theme.Blend(t.Primary, t.Secondary, pos)
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Bold(true).Render(string(r)))
	}
	return b.String()
}

func init() {
	rootCmd.Long = renderLogo() + `

postgenie walks you through turning source content into platform-specific
posts: generate text per platform, pick an image prompt, generate and choose
an image, review every post, then export approved posts to CSV or push them
to the publisher outbox.

Configuration is loaded from multiple sources with the following precedence:
  CLI flags > Environment variables > Project config > Global config > Defaults

Project config: ./postgenie.yml
Global config: ~/.config/postgenie/postgenie.yml`

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(outboxCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(platformsCmd)
	rootCmd.AddCommand(genTemplateCmd)
}
