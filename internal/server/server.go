// Package server exposes the launcher manager as MCP tools.
package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mj1618/applaunch/internal/keys"
	"github.com/mj1618/applaunch/internal/manager"
	"github.com/mj1618/applaunch/internal/running"
	"github.com/mj1618/applaunch/internal/version"
	"go.uber.org/zap"
)

// Config holds MCP server configuration.
type Config struct {
	Transport string
	Port      int
}

// Server wraps the MCP server with the manager and the live probes.
type Server struct {
	mgr       *manager.Manager
	apps      running.Source
	indicator *running.Indicator
	watcher   *keys.Watcher
	log       *zap.Logger
	mcp       *mcpserver.MCPServer
}

// New creates an MCP server with every launcher tool registered. indicator
// may be nil, in which case history rows are never marked running. watcher
// may be nil, in which case the modifiers tool reports an error.
func New(mgr *manager.Manager, apps running.Source, indicator *running.Indicator, watcher *keys.Watcher, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		mgr:       mgr,
		apps:      apps,
		indicator: indicator,
		watcher:   watcher,
		log:       log.Named("mcp"),
	}
	s.mcp = mcpserver.NewMCPServer("applaunch", version.Version)
	s.registerTools()
	return s
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcpserver.MCPServer {
	return s.mcp
}

// Serve starts the MCP server with the configured transport.
func (s *Server) Serve(cfg Config) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *Server) registerTools() {
	target := mcp.WithString("target", mcp.Required(), mcp.Description("Application path (e.g. '/Applications/Safari.app') or name"))

	s.mcp.AddTool(
		mcp.NewTool("catalog",
			mcp.WithDescription("List installed applications found in the scanned directories, sorted by name"),
			mcp.WithBoolean("refresh", mcp.Description("Rescan the directories before listing")),
		),
		s.handleCatalog,
	)
	s.mcp.AddTool(
		mcp.NewTool("add_to_catalog",
			mcp.WithDescription("Add an application bundle outside the scanned directories to the catalog"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Absolute path to the .app bundle")),
		),
		s.handleAddToCatalog,
	)
	s.mcp.AddTool(
		mcp.NewTool("running",
			mcp.WithDescription("List running applications that have a bundle path, one per path, sorted by name"),
		),
		s.handleRunning,
	)
	s.mcp.AddTool(
		mcp.NewTool("select_running",
			mcp.WithDescription("Select a running application, adding it to the catalog if needed"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Bundle path of the running application")),
		),
		s.handleSelectRunning,
	)
	s.mcp.AddTool(
		mcp.NewTool("launch",
			mcp.WithDescription("Open an application and record the launch in history"),
			target,
		),
		s.handleLaunch,
	)
	s.mcp.AddTool(
		mcp.NewTool("history",
			mcp.WithDescription("Show the launch history as currently displayed (sort mode and favorites filter applied)"),
		),
		s.handleHistory,
	)
	s.mcp.AddTool(
		mcp.NewTool("delete_history",
			mcp.WithDescription("Remove a history entry"),
			mcp.WithString("id", mcp.Required(), mcp.Description("History entry id")),
		),
		s.handleDeleteHistory,
	)
	s.mcp.AddTool(
		mcp.NewTool("toggle_favorite",
			mcp.WithDescription("Flip the favorite flag of a history entry"),
			mcp.WithString("id", mcp.Required(), mcp.Description("History entry id")),
		),
		s.handleToggleFavorite,
	)
	s.mcp.AddTool(
		mcp.NewTool("clear_non_favorites",
			mcp.WithDescription("Remove every history entry that is not a favorite"),
		),
		s.handleClearNonFavorites,
	)
	s.mcp.AddTool(
		mcp.NewTool("move",
			mcp.WithDescription("Move a history entry to the position of another entry (manual sort mode only)"),
			mcp.WithString("from", mcp.Required(), mcp.Description("Id of the entry to move")),
			mcp.WithString("to", mcp.Required(), mcp.Description("Id of the entry whose position it takes")),
		),
		s.handleMove,
	)
	s.mcp.AddTool(
		mcp.NewTool("set_sort",
			mcp.WithDescription("Set the history sort mode"),
			mcp.WithString("mode", mcp.Required(), mcp.Description("manual or recent")),
		),
		s.handleSetSort,
	)
	s.mcp.AddTool(
		mcp.NewTool("set_favorites_only",
			mcp.WithDescription("Show only favorites in the history view"),
			mcp.WithBoolean("enabled", mcp.Required(), mcp.Description("true to filter to favorites")),
		),
		s.handleSetFavoritesOnly,
	)
	s.mcp.AddTool(
		mcp.NewTool("kill",
			mcp.WithDescription("Quit every running instance of an application, escalating to force quit and SIGKILL"),
			target,
			mcp.WithBoolean("wait", mcp.Description("Wait for the escalation to finish before returning")),
		),
		s.handleKill,
	)
	s.mcp.AddTool(
		mcp.NewTool("modifiers",
			mcp.WithDescription("Report which launcher modifier keys are currently held"),
		),
		s.handleModifiers,
	)
}
