package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mj1618/applaunch/internal/manager"
	"github.com/mj1618/applaunch/internal/model"
	"github.com/mj1618/applaunch/internal/output"
	"go.uber.org/zap"
)

// textResult renders v as YAML tool output.
func textResult(v interface{}) (*mcp.CallToolResult, error) {
	text, err := output.YAMLString(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

// outcomeResult reports a manager outcome. Outcomes are never tool errors;
// a not-found id is a normal answer.
func outcomeResult(action string, outcome manager.Outcome, id, path string) (*mcp.CallToolResult, error) {
	return textResult(output.ActionResult{
		OK:      true,
		Action:  action,
		Outcome: string(outcome),
		ID:      id,
		Path:    path,
	})
}

func (s *Server) handleCatalog(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	if boolParam(params, "refresh", false) || len(s.mgr.Catalog()) == 0 {
		s.mgr.Rescan()
	}
	apps := s.mgr.Catalog()
	return textResult(output.AppsResult{Count: len(apps), Apps: apps})
}

func (s *Server) handleAddToCatalog(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := stringParam(request.GetArguments(), "path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}
	return outcomeResult("add_to_catalog", s.mgr.AddToCatalog(path), "", path)
}

func (s *Server) handleRunning(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	apps, err := s.apps.Snapshot(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return textResult(output.RunningResult{Count: len(apps), Apps: apps})
}

func (s *Server) handleSelectRunning(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := stringParam(request.GetArguments(), "path", "")
	apps, err := s.apps.Snapshot(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	for _, a := range apps {
		if a.Path == path {
			outcome := s.mgr.SelectFromRunning(a.Record())
			sel, _ := s.mgr.Selected()
			return outcomeResult("select_running", outcome, sel.ID, sel.Path)
		}
	}
	return outcomeResult("select_running", manager.NotFound, "", path)
}

func (s *Server) handleLaunch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target := stringParam(request.GetArguments(), "target", "")
	record, ok := s.mgr.Resolve(target)
	if !ok {
		return outcomeResult("launch", manager.NotFound, "", "")
	}
	outcome, err := s.mgr.Launch(ctx, record)
	result := output.ActionResult{OK: err == nil, Action: "launch", Outcome: string(outcome), Path: record.Path}
	history := s.mgr.History()
	if i := model.IndexByPath(history, record.Path); i >= 0 {
		result.ID = history[i].ID
	}
	if err != nil {
		result.Error = err.Error()
		text, _ := output.YAMLString(result)
		return mcp.NewToolResultError(text), nil
	}
	return textResult(result)
}

func (s *Server) handleHistory(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries := s.mgr.DisplayedHistory()
	var flags []bool
	if s.indicator != nil {
		var err error
		if flags, err = s.indicator.Running(ctx, entries); err != nil {
			s.log.Warn("running indicator unavailable", zap.Error(err))
		}
	}
	return textResult(output.NewHistoryResult(s.mgr.SortMode(), s.mgr.ShowOnlyFavorites(), entries, flags))
}

func (s *Server) handleDeleteHistory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := stringParam(request.GetArguments(), "id", "")
	return outcomeResult("delete_history", s.mgr.DeleteFromHistory(id), id, "")
}

func (s *Server) handleToggleFavorite(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := stringParam(request.GetArguments(), "id", "")
	return outcomeResult("toggle_favorite", s.mgr.ToggleFavorite(id), id, "")
}

func (s *Server) handleClearNonFavorites(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return outcomeResult("clear_non_favorites", s.mgr.ClearNonFavorites(), "", "")
}

func (s *Server) handleMove(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	from := stringParam(params, "from", "")
	to := stringParam(params, "to", "")
	return outcomeResult("move", s.mgr.Move(from, to), from, "")
}

func (s *Server) handleSetSort(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mode, err := model.ParseSortMode(stringParam(request.GetArguments(), "mode", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return outcomeResult("set_sort", s.mgr.SetSortMode(mode), "", "")
}

func (s *Server) handleSetFavoritesOnly(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	on := boolParam(request.GetArguments(), "enabled", false)
	return outcomeResult("set_favorites_only", s.mgr.SetShowOnlyFavorites(on), "", "")
}

func (s *Server) handleKill(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	target := stringParam(params, "target", "")
	record, ok := s.mgr.Resolve(target)
	if !ok {
		return textResult(output.KillResult{OK: true, Outcome: string(manager.NotFound), Path: target})
	}

	esc, outcome := s.mgr.Kill(ctx, record)
	result := output.KillResult{OK: true, Outcome: string(outcome), Path: record.Path, Done: true}
	if esc == nil {
		return textResult(result)
	}
	result.Identifier = esc.Identifier
	result.PIDs = esc.PIDs
	result.Done = false
	if boolParam(params, "wait", false) {
		if err := esc.Wait(ctx); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("waiting for kill: %v", err)), nil
		}
		result.Done = true
	}
	result.Steps = esc.Steps()
	return textResult(result)
}

func (s *Server) handleModifiers(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.watcher == nil {
		return mcp.NewToolResultError("modifier keys are not available on this platform"), nil
	}
	if err := s.watcher.Poll(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return textResult(s.watcher.State())
}
