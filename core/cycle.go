package core

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/ehuang2/releaseflow/internal/contract"
	"github.com/ehuang2/releaseflow/schema"
)

// ReportDeps bundles the collaborators a report run needs. Tests inject
// mocks; the command layer wires the GitHub source, the local git oracle
// and the global cache manager.
type ReportDeps struct {
	Source contract.PRSource
	Oracle contract.AncestryOracle
	Cache  contract.CacheManager
	Cfg    *contract.Config
	Now    func() time.Time
}

// now returns the injected clock, defaulting to wall time.
func (d *ReportDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now().UTC()
}

// cycleOptions controls which guarded branches a cycle reconciles
// hotfixes against, and from when. The preview report looks at staging
// hotfixes left over from the previous cycle; the retro looks at
// hotfixes that landed after the train, on staging and release both.
type cycleOptions struct {
	hotfixSince    time.Time
	includeRelease bool
}

// BuildCycle assembles one fully enriched release cycle from a train
// boundary pair. previous may be nil, in which case the feature window
// opens a default lookback before the train. Every feature and hotfix
// PR considered ends up in exactly one report section; enrichment
// failures degrade individual records, never the cycle.
func BuildCycle(ctx context.Context, deps *ReportDeps, current schema.PullRequest, previous *schema.PullRequest, opts cycleOptions) *schema.Cycle {
	cfg := deps.Cfg
	classifier := NewClassifier(cfg)

	until := current.MergedAt
	var since time.Time
	if previous != nil {
		since = previous.MergedAt
	} else {
		since = until.AddDate(0, 0, -contract.DefaultCycleDays)
	}

	cycle := &schema.Cycle{
		Train: current,
		Since: since,
		Until: until,
	}

	// Feature PRs merged into develop within the window, excluding
	// backmerge noise from guarded heads.
	features := cachedFetchWindow(ctx, deps, cfg.DevelopBranch, since, until)
	features = filterWindow(features, classifier.IsFeature)

	contributors := make(map[string]struct{})
	cycle.AreaTotals = make(map[schema.Area]schema.DiffStat)

	for i := range features {
		enrichPR(ctx, deps, &features[i])
		contributors[features[i].Author] = struct{}{}
		cycle.TotalStats.Add(features[i].Stats)
		for area, stat := range features[i].Areas {
			total := cycle.AreaTotals[area]
			total.Add(stat)
			cycle.AreaTotals[area] = total
		}
		if features[i].Stats.Total() >= cfg.LargeLines {
			cycle.LargePRs = append(cycle.LargePRs, features[i])
		}
	}
	cycle.Features = features
	cycle.Contributors = len(contributors)

	cycle.QuickApprovals = findQuickApprovals(ctx, deps, features)

	// Hotfix reconciliation on the guarded branches.
	hotfixSince := opts.hotfixSince
	if hotfixSince.IsZero() {
		hotfixSince = since
	}

	staging := cachedFetchWindow(ctx, deps, cfg.StagingBranch, hotfixSince, time.Time{})
	cycle.HotfixesStaging = filterWindow(staging, classifier.IsHotfixToStaging)

	if opts.includeRelease {
		release := cachedFetchWindow(ctx, deps, cfg.ReleaseBranch, hotfixSince, time.Time{})
		cycle.HotfixesRelease = filterWindow(release, classifier.IsHotfixToRelease)
	}

	develop := cachedFetchWindow(ctx, deps, cfg.DevelopBranch, hotfixSince, time.Time{})
	backmerges := filterWindow(develop, classifier.IsBackmerge)

	allHotfixes := append(append([]schema.PullRequest{}, cycle.HotfixesStaging...), cycle.HotfixesRelease...)
	reachable := ComputeReachableSet(ctx, deps.Oracle, trunkRef(cfg), allHotfixes)

	cycle.MissingBackmerge = nil
	cycle.MissingBackmerge = append(cycle.MissingBackmerge,
		annotateBackmerges(cycle.HotfixesStaging, backmerges, reachable)...)
	cycle.MissingBackmerge = append(cycle.MissingBackmerge,
		annotateBackmerges(cycle.HotfixesRelease, backmerges, reachable)...)

	return cycle
}

// trunkRef is the remote-tracking ref ancestry checks run against.
func trunkRef(cfg *contract.Config) string {
	return "origin/" + cfg.DevelopBranch
}

// enrichPR attaches diff stats and the per-area breakdown to a PR.
// Both calls are best-effort: a failed stats fetch leaves zeros and
// marks the record partial so aggregates stay additive.
func enrichPR(ctx context.Context, deps *ReportDeps, pr *schema.PullRequest) {
	stats := deps.Source.FetchDiffStats(ctx, deps.Cfg.RepoSlug, pr.Number)
	pr.Stats = stats
	pr.StatsPartial = stats == schema.DiffStat{}

	files := deps.Source.FetchFileDiffs(ctx, deps.Cfg.RepoSlug, pr.Number)
	if len(files) == 0 {
		return
	}
	areas := make(map[schema.Area]schema.DiffStat)
	for _, f := range files {
		area := assignArea(f.Path, deps.Cfg.AreaRules)
		stat := areas[area]
		stat.Add(schema.DiffStat{Additions: f.Additions, Deletions: f.Deletions})
		areas[area] = stat
	}
	pr.Areas = areas
	if pr.StatsPartial {
		// File diffs succeeded even though the summary stats call did
		// not; recover the totals from the breakdown.
		var total schema.DiffStat
		for _, stat := range areas {
			total.Add(stat)
		}
		pr.Stats = total
		pr.StatsPartial = false
	}
}

// assignArea maps a file path to a code area by first matching prefix.
func assignArea(path string, rules []contract.AreaRule) schema.Area {
	for _, rule := range rules {
		if strings.HasPrefix(path, rule.Prefix) {
			return rule.Area
		}
	}
	return schema.AreaOther
}

// findQuickApprovals flags PRs whose first qualifying approval landed
// under the configured threshold. A review qualifies when the PR is
// either large or has zero review comments; the first qualifying
// approval wins and later reviews on that PR are ignored.
func findQuickApprovals(ctx context.Context, deps *ReportDeps, prs []schema.PullRequest) []schema.QuickApproval {
	cfg := deps.Cfg
	var flagged []schema.QuickApproval

	for _, pr := range prs {
		large := pr.Stats.Total() >= cfg.LargeLines

		reviews := deps.Source.FetchReviews(ctx, cfg.RepoSlug, pr.Number)
		if len(reviews) == 0 {
			continue
		}
		comments := deps.Source.FetchReviewComments(ctx, cfg.RepoSlug, pr.Number)

		for _, review := range reviews {
			if review.State != schema.ReviewApproved || review.SubmittedAt.IsZero() {
				continue
			}
			minutes := review.SubmittedAt.Sub(pr.CreatedAt).Minutes()
			if minutes >= cfg.QuickMinutes {
				continue
			}
			if large || len(comments) == 0 {
				flagged = append(flagged, schema.QuickApproval{
					PR:            pr,
					ReviewMinutes: minutes,
					CommentCount:  len(comments),
					Large:         large,
				})
				break
			}
		}
	}
	return flagged
}

// topContributors tallies feature PRs per author, most active first.
func topContributors(prs []schema.PullRequest, limit int) []schema.AuthorCount {
	counts := make(map[string]int)
	for _, pr := range prs {
		counts[pr.Author]++
	}

	out := make([]schema.AuthorCount, 0, len(counts))
	for author, count := range counts {
		out = append(out, schema.AuthorCount{Author: author, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Author < out[j].Author
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
