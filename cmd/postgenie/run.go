package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/postgenie/internal/logger"
	"github.com/mark3labs/postgenie/internal/tui"
	"github.com/spf13/cobra"
)

var runFlags commonFlags

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive post wizard",
	Long: `Start the interactive post wizard.

The wizard has five steps: source content, post text per platform, image
prompt, image choice and final review. Approved posts are exported to CSV in
the export directory or pushed to the publisher outbox.`,
	RunE: runWizard,
}

func init() {
	runFlags.register(runCmd)
}

func runWizard(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := newStack(ctx, &runFlags)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("Error during shutdown: %v", err)
		}
	}()

	app := tui.New(ctx, st.wizard, st.provider,
		tui.WithSinks(st.sinks),
		tui.WithBrand(st.brand),
		tui.WithStateDir(st.cfg.DataDir),
	)
	if err := tui.Run(ctx, app); err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}
	return nil
}
