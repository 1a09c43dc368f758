package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ehuang2/releaseflow/core"
	"github.com/ehuang2/releaseflow/internal/contract"
)

// retroCmd generates the post-release retrospective report.
var retroCmd = &cobra.Command{
	Use:   "retro [repo-path]",
	Short: "Review how the most recent release actually went.",
	Long: `Summarize the outcome of the most recent release train after it shipped.

Shows:
- Promotion status: when the train hit staging and production
- Outcome: clean release, or hotfixes required
- What shipped: PR and contributor counts, line totals, top contributors
- Every hotfix merged during QA with its backmerge status
- The trend across recent releases

Run this after the QA window closes, typically early the following week.

Examples:
  # Retro for the latest shipped train
  releaseflow retro

  # Longer trend table
  releaseflow retro --trend-cycles 8`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRetro(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build retro report", err)
		}
	},
}
