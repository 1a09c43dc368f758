// Package mcpserver provides the Model Context Protocol (MCP) server implementation.
package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ehuang2/releaseflow/internal/contract"
)

// NewMCPServer initializes and configures the releaseflow MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Release Flow Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_release_preview ---
	s.AddTool(mcp.NewTool("get_release_preview",
		mcp.WithDescription("Build the pre-release preview for the most recent release train: features, risk flags and pending backmerges."),
		mcp.WithString("repo", mcp.Description("Repository slug as owner/repo (defaults to the configured repository).")),
		mcp.WithNumber("days", mcp.Description("Days to look back for release trains.")),
	), h.handleGetReleasePreview)

	// --- 2. Tool: get_release_retro ---
	s.AddTool(mcp.NewTool("get_release_retro",
		mcp.WithDescription("Build the post-release retrospective: outcome, shipped work, hotfixes with backmerge status and the release trend."),
		mcp.WithString("repo", mcp.Description("Repository slug as owner/repo.")),
		mcp.WithNumber("days", mcp.Description("Days to look back for release trains.")),
	), h.handleGetReleaseRetro)

	// --- 3. Tool: get_release_trend ---
	s.AddTool(mcp.NewTool("get_release_trend",
		mcp.WithDescription("Build the multi-release trend table with per-release feature and hotfix counts."),
		mcp.WithString("repo", mcp.Description("Repository slug as owner/repo.")),
		mcp.WithNumber("cycles", mcp.Description("Number of releases to include in the trend.")),
	), h.handleGetReleaseTrend)

	return s
}

// StartMCPServer starts the releaseflow MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
