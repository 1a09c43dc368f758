package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/ehuang2/releaseflow/internal/contract"
	"github.com/ehuang2/releaseflow/schema"
)

// promotionStampFormat renders merge timestamps in announcement style,
// e.g. "Tue Jan 06 03PM".
const promotionStampFormat = "Mon Jan 02 03PM"

// writeRetroText renders the post-release retrospective.
func writeRetroText(w io.Writer, report *schema.RetroReport, cfg *contract.Config, duration time.Duration) error {
	cycle := &report.Cycle

	prevDate := cycle.Since.Format("Jan 02")
	currDate := cycle.Until.Format("Jan 02")
	fmt.Fprintf(w, "📦 *Release Retro: %s → %s*\n\n", prevDate, currDate)

	fmt.Fprintf(w, "Staging: %s ✅\n", cycle.Train.MergedAt.Format(promotionStampFormat))
	if report.Promotion != nil {
		fmt.Fprintf(w, "Prod: %s ✅\n", report.Promotion.MergedAt.Format(promotionStampFormat))
	} else {
		fmt.Fprintln(w, "Prod: Pending")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, sectionRule)
	fmt.Fprintln(w)

	if cycle.Outcome() == schema.CleanOutcome {
		fmt.Fprintln(w, "🚦 *Outcome: ✅ Clean Release*")
	} else {
		fmt.Fprintln(w, "🚦 *Outcome: ⚠️ Hotfixes Required*")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, sectionRule)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "📊 *What Shipped*")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d PRs from %d contributors\n", len(cycle.Features), cycle.Contributors)
	fmt.Fprintf(w, "Lines: %s\n\n", formatLines(cycle.TotalStats))

	if err := writeAreaBreakdown(w, cycle.AreaTotals); err != nil {
		return err
	}

	if len(report.TopContributors) > 0 {
		fmt.Fprintln(w, "Top contributors:")
		for _, contributor := range report.TopContributors {
			fmt.Fprintf(w, "  @%s    %d PRs\n", contributor.Author, contributor.Count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, sectionRule)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "🚨 *Hotfixes During QA* (direct PRs to staging)")
	fmt.Fprintln(w)
	writeHotfixList(w, cycle.HotfixesStaging, cfg)
	fmt.Fprintln(w)

	if len(cycle.HotfixesRelease) > 0 {
		fmt.Fprintln(w, "🚨 *Hotfixes in Prod* (direct PRs to release)")
		fmt.Fprintln(w)
		writeHotfixList(w, cycle.HotfixesRelease, cfg)
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, sectionRule)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "📈 *Trend (Last %d Releases)*\n\n", cfg.TrendCycles)
	if len(report.Trend) > 0 {
		if err := writeTrendTable(w, report.Trend, cfg); err != nil {
			return err
		}
		if report.TrendSummary != "" {
			fmt.Fprintf(w, "\n%s\n", report.TrendSummary)
		}
	} else {
		fmt.Fprintln(w, "Not enough release history for trend data.")
	}

	_, err := fmt.Fprintf(w, "\nReport generated in %v. Cache backend: %s\n", duration.Round(time.Millisecond), cfg.CacheBackend)
	return err
}

// writeHotfixList prints hotfixes with their backmerge status.
func writeHotfixList(w io.Writer, hotfixes []schema.PullRequest, cfg *contract.Config) {
	if len(hotfixes) == 0 {
		fmt.Fprintln(w, "None - clean release! 🎉")
		return
	}
	for _, hf := range hotfixes {
		title := contract.TruncateTitle(hf.Title, titleWidth(cfg, narrowTitleWidth))
		var status string
		if hf.Backmerge == schema.BackmergeResolved {
			status = "✅ backmerged"
		} else {
			status = "❌ NEEDS BACKMERGE"
			if cfg.UseColors {
				status = "❌ " + contract.MissingColor.Sprint("NEEDS BACKMERGE")
			}
		}
		fmt.Fprintf(w, "#%d  @%s  %q  %s\n", hf.Number, hf.Author, title, status)
	}
}
