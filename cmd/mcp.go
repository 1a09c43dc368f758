package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ehuang2/releaseflow/internal/mcpserver"
)

// mcpCmd starts the MCP server on stdio.
//
// Note: stdout carries the MCP protocol, so report output must never be
// written there. The tools return JSON payloads through protocol results.
var mcpCmd = &cobra.Command{
	Use:   "mcp [repo-path]",
	Short: "Start a Model Context Protocol server for release reports",
	Long: `Start an MCP server exposing release reports over stdio.

The server exposes three tools:
  get_release_preview - Pre-release preview for the latest release train
  get_release_retro   - Post-release retrospective with hotfix breakdown
  get_release_trend   - Feature/hotfix counts across recent releases

Add to an MCP client configuration:
  {
    "mcpServers": {
      "releaseflow": {
        "command": "releaseflow",
        "args": ["mcp", "/path/to/repo"]
      }
    }
  }

Examples:
  # Serve reports for the current repository
  releaseflow mcp

  # Serve reports for another repository
  releaseflow mcp ~/src/webapp`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcpserver.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
