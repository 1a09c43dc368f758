package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ehuang2/releaseflow/core"
	"github.com/ehuang2/releaseflow/internal/contract"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

func (h *toolHandler) handleGetReleasePreview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.configFor(request)

	report, err := core.GetPreviewResults(ctx, core.NewReportDeps(ctx, cfg, h.mgr))
	if errors.Is(err, core.ErrNoReleaseTrain) {
		return mcp.NewToolResultText(fmt.Sprintf("No release train found in last %d days.", cfg.LookbackDays)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("preview failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetReleaseRetro(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.configFor(request)

	report, err := core.GetRetroResults(ctx, core.NewReportDeps(ctx, cfg, h.mgr))
	if errors.Is(err, core.ErrNoReleaseTrain) {
		return mcp.NewToolResultText(fmt.Sprintf("No release train found in last %d days.", cfg.LookbackDays)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("retro failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetReleaseTrend(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.configFor(request)
	if c := request.GetInt("cycles", 0); c > 0 && c <= contract.MaxTrendCycles {
		cfg.TrendCycles = c
	}

	report := core.GetTrendResults(ctx, core.NewReportDeps(ctx, cfg, h.mgr))

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

// configFor clones the base config and applies the request overrides
// shared by every tool.
func (h *toolHandler) configFor(request mcp.CallToolRequest) *contract.Config {
	cfg := h.baseCfg.Clone()
	if r := request.GetString("repo", ""); r != "" {
		cfg.RepoSlug = r
	}
	if d := request.GetInt("days", 0); d > 0 {
		cfg.LookbackDays = d
	}
	return cfg
}
