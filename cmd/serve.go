package cmd

import (
	"fmt"

	"github.com/mj1618/applaunch/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing applaunch tools",
	Long: `Start a Model Context Protocol (MCP) server that exposes the launcher as tools:
catalog, running, launch, history editing, kill and modifier state. State is shared
across calls and persisted after every change.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  applaunch serve
  applaunch serve --transport streamable-http --port 8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")

	a, err := newApp()
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer a.Close()

	n := a.mgr.Rescan()
	a.log.Info("catalog scanned", zap.Int("apps", n), zap.Strings("dirs", a.cfg.ScanDirs()))

	// The filter key feeds DisplayedHistory for the lifetime of the server.
	go a.watcher.Run(cmd.Context())

	srv := server.New(a.mgr, a.apps, a.indicator, a.watcher, a.log)
	return srv.Serve(server.Config{Transport: transport, Port: port})
}
