package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/ehuang2/releaseflow/internal/contract"
	"github.com/ehuang2/releaseflow/schema"
)

// writeTrendText renders the standalone trend report.
func writeTrendText(w io.Writer, report *schema.TrendReport, cfg *contract.Config, duration time.Duration) error {
	fmt.Fprintf(w, "📈 *Trend (Last %d Releases)*\n\n", cfg.TrendCycles)

	if len(report.Entries) == 0 {
		fmt.Fprintln(w, "Not enough release history for trend data.")
		return nil
	}

	if err := writeTrendTable(w, report.Entries, cfg); err != nil {
		return err
	}
	if report.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", report.Summary)
	}

	_, err := fmt.Fprintf(w, "\nReport generated in %v. Cache backend: %s\n", duration.Round(time.Millisecond), cfg.CacheBackend)
	return err
}

// writeTrendTable renders trend entries as a table, newest release first.
func writeTrendTable(w io.Writer, entries []schema.TrendEntry, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Release", "PRs", "Staging Fixes", "Prod Fixes", "Outcome"})

	table.Configure(func(tableCfg *tablewriter.Config) {
		tableCfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, entry := range entries {
		label := contract.CleanValue
		if entry.Outcome == schema.HotfixOutcome {
			label = contract.HotfixValue
		}
		data = append(data, []string{
			entry.DateLabel,
			strconv.Itoa(entry.FeatureCount),
			strconv.Itoa(entry.HotfixStaging),
			strconv.Itoa(entry.HotfixRelease),
			outcomeIcon(entry.Outcome) + " " + contract.ColorizeLabel(label, cfg.UseColors),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
