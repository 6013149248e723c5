package main

import (
	"fmt"
	"strconv"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/mark3labs/postgenie/internal/logger"
	"github.com/mark3labs/postgenie/internal/nats"
	"github.com/mark3labs/postgenie/internal/outbox"
	"github.com/mark3labs/postgenie/internal/template"
	"github.com/spf13/cobra"
)

var outboxFlags struct {
	session string
	dataDir string
}

var outboxCmd = &cobra.Command{
	Use:   "outbox",
	Short: "List posts pushed to the publisher",
	Long: `List the posts and CSV exports recorded in a session's outbox.

The outbox lives in the data directory and cannot be opened while a wizard
for the same data directory is running.`,
	RunE: runOutbox,
}

func init() {
	outboxCmd.Flags().StringVarP(&outboxFlags.session, "session", "s", "", "Session name (default: from config)")
	outboxCmd.Flags().StringVar(&outboxFlags.dataDir, "data-dir", "", "Data directory for NATS storage (default: from config)")
}

func runOutbox(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(&commonFlags{session: outboxFlags.session, dataDir: outboxFlags.dataDir})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	embedded, err := nats.Start(ctx, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open outbox: %w", err)
	}
	defer func() {
		if err := embedded.Close(); err != nil {
			logger.Warn("Error closing outbox: %v", err)
		}
	}()

	state, err := outbox.NewStore(embedded.JS, embedded.Stream).Load(ctx, cfg.Session)
	if err != nil {
		return fmt.Errorf("failed to load outbox: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(state.Posts) == 0 && len(state.Exports) == 0 {
		fmt.Fprintf(out, "Session %q has no published posts or exports.\n", cfg.Session)
		return nil
	}

	for i, batch := range state.Batches() {
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			Headers("Platform", "Text", "Hashtags", "Image")
		for _, p := range batch {
			t.Row(p.Label, template.Truncate(p.Text, 48), p.Hashtags, p.ImageURL)
		}
		lipgloss.Fprintf(out, "Batch %d · %s · %s\n", i+1, batch[0].Batch, batch[0].PublishedAt.Format(time.DateTime))
		lipgloss.Fprintln(out, t.String())
	}

	if len(state.Exports) > 0 {
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			Headers("Exported", "File", "Posts")
		for _, e := range state.Exports {
			t.Row(e.ExportedAt.Format(time.DateTime), e.File, strconv.Itoa(e.Count))
		}
		lipgloss.Fprintln(out, "CSV exports")
		lipgloss.Fprintln(out, t.String())
	}
	return nil
}
