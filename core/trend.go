package core

import (
	"context"
	"fmt"
	"time"

	"github.com/ehuang2/releaseflow/internal/contract"
	"github.com/ehuang2/releaseflow/schema"
)

// BuildTrend produces one entry per recent release train, newest first.
// It needs at least two trains to bound the oldest feature window; with
// fewer it returns an empty report rather than guessing at a window.
func BuildTrend(ctx context.Context, deps *ReportDeps, maxCycles int) schema.TrendReport {
	trains := findReleaseTrains(ctx, deps, contract.TrendLookbackDays, maxCycles+1)
	if len(trains) < 2 {
		return schema.TrendReport{Summary: SummarizeTrend(nil)}
	}

	classifier := NewClassifier(deps.Cfg)
	entries := make([]schema.TrendEntry, 0, maxCycles)

	// trains is newest first; each train pairs with the next-older one
	// to bound its feature window.
	for i := 0; i+1 < len(trains) && len(entries) < maxCycles; i++ {
		current := trains[i]
		previous := trains[i+1]

		features := cachedFetchWindow(ctx, deps, deps.Cfg.DevelopBranch, previous.MergedAt, current.MergedAt)
		features = filterWindow(features, classifier.IsFeature)

		// Hotfixes land after the train ships; the window closes when
		// the next train ships, or stays open for the newest train.
		var hotfixUntil time.Time
		if i > 0 {
			hotfixUntil = trains[i-1].MergedAt
		}
		staging := cachedFetchWindow(ctx, deps, deps.Cfg.StagingBranch, current.MergedAt, hotfixUntil)
		release := cachedFetchWindow(ctx, deps, deps.Cfg.ReleaseBranch, current.MergedAt, hotfixUntil)

		entry := schema.TrendEntry{
			DateLabel:     current.MergedAt.Format("01/02"),
			FeatureCount:  len(features),
			HotfixStaging: len(filterWindow(staging, classifier.IsHotfixToStaging)),
			HotfixRelease: len(filterWindow(release, classifier.IsHotfixToRelease)),
		}
		if entry.HotfixTotal() > 0 {
			entry.Outcome = schema.HotfixOutcome
		} else {
			entry.Outcome = schema.CleanOutcome
		}
		entries = append(entries, entry)
	}

	return schema.TrendReport{
		Entries: entries,
		Summary: SummarizeTrend(entries),
	}
}

// SummarizeTrend turns trend entries into a short prose readout keyed on
// the run of consecutive hotfix releases starting from the newest entry.
func SummarizeTrend(entries []schema.TrendEntry) string {
	if len(entries) == 0 {
		return ""
	}
	streak := 0
	for _, e := range entries {
		if e.Outcome != schema.HotfixOutcome {
			break
		}
		streak++
	}
	switch {
	case streak == len(entries):
		return fmt.Sprintf("Every one of the last %d releases needed a hotfix.", len(entries))
	case streak > 0:
		return fmt.Sprintf("%d of the last %d releases needed a hotfix.", streak, len(entries))
	default:
		total := 0
		for _, e := range entries {
			total += e.HotfixTotal()
		}
		return fmt.Sprintf("Last release was clean (%d hotfixes across the last %d releases).", total, len(entries))
	}
}
