package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ehuang2/releaseflow/core"
	"github.com/ehuang2/releaseflow/internal/contract"
)

// previewCmd generates the pre-release preview report.
var previewCmd = &cobra.Command{
	Use:   "preview [repo-path]",
	Short: "Preview what the most recent release train will ship.",
	Long: `Summarize the release cycle closed by the most recent release train.

Shows:
- Feature PRs merged into develop during the cycle, with line totals per area
- Risk flags: large PRs, suspiciously quick approvals
- Hotfixes from the previous cycle that still need a backmerge
- A QA focus list for the upcoming verification window

Run this after the release train is cut, before it is promoted to
production. The repo-path argument is the local clone used for
ancestry checks and remote detection; it defaults to the current
directory.

Examples:
  # Preview the latest train for the current clone
  releaseflow preview

  # Preview against an explicit repository slug
  releaseflow preview --repo acme/webapp

  # Machine-readable output
  releaseflow preview --output json --output-file preview.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePreview(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build preview report", err)
		}
	},
}
