package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/postgenie/internal/logger"
	"github.com/mark3labs/postgenie/internal/mcpserver"
	"github.com/spf13/cobra"
)

var serveFlags struct {
	commonFlags
	addr string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the wizard as MCP tools over HTTP",
	Long: `Expose the wizard as MCP tools over streamable HTTP.

An agent drives the same five steps as the interactive wizard through tools
such as set-source, generate-posts and export-csv. The server runs
until interrupted.`,
	RunE: runServe,
}

func init() {
	serveFlags.register(serveCmd)
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", mcpserver.DefaultAddr, "Listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := newStack(ctx, &serveFlags.commonFlags)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("Error during shutdown: %v", err)
		}
	}()

	srv := mcpserver.New(st.wizard, st.sinks, version)
	if _, err := srv.Start(ctx, serveFlags.addr); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on %s\n", srv.URL())

	<-ctx.Done()
	fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down gracefully...")
	return srv.Stop()
}
