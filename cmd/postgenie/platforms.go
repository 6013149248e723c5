package main

import (
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/mark3labs/postgenie/internal/brand"
	"github.com/mark3labs/postgenie/internal/platform"
	"github.com/spf13/cobra"
)

var platformsBrand string

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "Show supported platforms and their limits",
	Long: `Show supported platforms with the limits in effect for the brand profile.

Text limits are the tighter of the platform maximum and the brand override.`,
	RunE: runPlatforms,
}

func init() {
	platformsCmd.Flags().StringVarP(&platformsBrand, "brand", "b", "", "Brand profile YAML file (default: from config)")
}

func runPlatforms(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(&commonFlags{brandFile: platformsBrand})
	if err != nil {
		return err
	}
	profile, err := brand.Load(cfg.BrandFile)
	if err != nil {
		return err
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("ID", "Platform", "Text limit", "Hashtags", "Aspect", "Image size")
	for _, info := range platform.All() {
		t.Row(
			string(info.ID),
			info.Label,
			strconv.Itoa(profile.TextLimit(info.ID)),
			strconv.Itoa(info.HashtagLimit),
			info.AspectRatio,
			profile.ImageSize(info.ID),
		)
	}
	lipgloss.Fprintf(cmd.OutOrStdout(), "Brand: %s\n", profile.Name)
	lipgloss.Fprintln(cmd.OutOrStdout(), t.String())
	return nil
}
