package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/ehuang2/releaseflow/internal/contract"
	"github.com/ehuang2/releaseflow/schema"
)

// writePreviewText renders the pre-release preview in the weekly
// announcement format.
func writePreviewText(w io.Writer, report *schema.PreviewReport, cfg *contract.Config, duration time.Duration) error {
	cycle := &report.Cycle
	trainDate := cycle.Train.MergedAt.Format("January 02")

	fmt.Fprintf(w, "📦 *Release Preview: %s*\n\n", trainDate)
	fmt.Fprintf(w, "Release Train: #%d merged %s\n\n", cycle.Train.Number, trainDate)
	fmt.Fprintf(w, "%d PRs from %d contributors\n", len(cycle.Features), cycle.Contributors)
	fmt.Fprintf(w, "Lines: %s\n\n", formatLines(cycle.TotalStats))

	if err := writeAreaBreakdown(w, cycle.AreaTotals); err != nil {
		return err
	}

	fmt.Fprintln(w, "⚠️ *Risk Flags*")
	fmt.Fprintln(w)

	if len(cycle.LargePRs) > 0 {
		fmt.Fprintf(w, "Large PRs (%d+ lines):\n", cfg.LargeLines)
		for _, pr := range cycle.LargePRs {
			title := contract.TruncateTitle(pr.Title, titleWidth(cfg, wideTitleWidth))
			fmt.Fprintf(w, "  #%d @%s %q (%d lines)\n", pr.Number, pr.Author, title, pr.Stats.Total())
		}
	} else {
		fmt.Fprintf(w, "Large PRs (%d+ lines): None ✅\n", cfg.LargeLines)
	}
	fmt.Fprintln(w)

	if len(cycle.QuickApprovals) > 0 {
		fmt.Fprintf(w, "Quick approvals (<%.0f min, large or no comments):\n", cfg.QuickMinutes)
		for _, qa := range cycle.QuickApprovals {
			title := contract.TruncateTitle(qa.PR.Title, titleWidth(cfg, wideTitleWidth))
			fmt.Fprintf(w, "  #%d @%s %q\n", qa.PR.Number, qa.PR.Author, title)
		}
	} else {
		fmt.Fprintln(w, "Quick approvals: None ✅")
	}
	fmt.Fprintln(w)

	if len(cycle.MissingBackmerge) > 0 {
		fmt.Fprintln(w, "Hotfixes needing backmerge (from previous cycle):")
		for _, hf := range cycle.MissingBackmerge {
			title := contract.TruncateTitle(hf.Title, titleWidth(cfg, wideTitleWidth))
			fmt.Fprintf(w, "  #%d → %s @%s %q\n", hf.Number, hf.BaseRef, hf.Author, title)
		}
	} else {
		fmt.Fprintln(w, "Hotfixes needing backmerge: None ✅")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "🎯 *Monday QA Focus*")
	if len(cycle.LargePRs) > 0 {
		fmt.Fprintln(w, "- Review large PRs for potential regressions:")
		focus := cycle.LargePRs
		if len(focus) > 3 {
			focus = focus[:3]
		}
		for _, pr := range focus {
			fmt.Fprintf(w, "  - #%d: %s\n", pr.Number, contract.TruncateTitle(pr.Title, titleWidth(cfg, narrowTitleWidth)))
		}
	} else {
		fmt.Fprintln(w, "- No high-risk items identified")
	}

	_, err := fmt.Fprintf(w, "\nReport generated in %v. Cache backend: %s\n", duration.Round(time.Millisecond), cfg.CacheBackend)
	return err
}
