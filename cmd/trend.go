package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ehuang2/releaseflow/core"
	"github.com/ehuang2/releaseflow/internal/contract"
)

// trendCmd generates the multi-release trend report.
var trendCmd = &cobra.Command{
	Use:   "trend [repo-path]",
	Short: "Show feature and hotfix counts across recent releases.",
	Long: `Build a table of recent release trains with per-release feature counts,
hotfix counts split by guarded branch, and a clean/hotfix outcome.

At least two release trains must exist in the trend lookback window;
with fewer the table is empty.

Examples:
  # Trend over the default number of releases
  releaseflow trend

  # Trend over the last 8 releases as JSON
  releaseflow trend --trend-cycles 8 --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTrend(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build trend report", err)
		}
	},
}
