package core

import (
	"context"
	"errors"
	"time"

	"github.com/ehuang2/releaseflow/internal/contract"
	"github.com/ehuang2/releaseflow/internal/ghsource"
	"github.com/ehuang2/releaseflow/internal/gitancestry"
	"github.com/ehuang2/releaseflow/internal/outwriter"
	"github.com/ehuang2/releaseflow/schema"
)

// ErrNoReleaseTrain signals that the lookback window holds no release
// train. It is a terminal condition for a report, not a failure: the
// command layer prints a friendly message and exits zero.
var ErrNoReleaseTrain = errors.New("no release train found")

// topContributorLimit caps the retro contributor list.
const topContributorLimit = 5

// ExecutorFunc defines the function signature for executing different report modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// writer renders finished reports. The executors share one instance.
var writer = outwriter.NewOutWriter()

// NewReportDeps wires the production collaborators for a report run.
func NewReportDeps(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) *ReportDeps {
	return &ReportDeps{
		Source: ghsource.NewGitHubSource(ctx),
		Oracle: gitancestry.NewLocalOracle(cfg.RepoPath, cfg.DevelopBranch),
		Cache:  mgr,
		Cfg:    cfg,
	}
}

// ExecutePreview runs the pre-release preview and prints it to stdout.
// It serves as the main entry point for the 'preview' mode.
func ExecutePreview(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	report, err := GetPreviewResults(ctx, NewReportDeps(ctx, cfg, mgr))
	if errors.Is(err, ErrNoReleaseTrain) {
		return writer.WriteNoReleaseTrain(cfg)
	}
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return writer.WritePreview(report, cfg, duration)
}

// ExecuteRetro runs the post-release retrospective and prints it to stdout.
// It serves as the main entry point for the 'retro' mode.
func ExecuteRetro(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	report, err := GetRetroResults(ctx, NewReportDeps(ctx, cfg, mgr))
	if errors.Is(err, ErrNoReleaseTrain) {
		return writer.WriteNoReleaseTrain(cfg)
	}
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return writer.WriteRetro(report, cfg, duration)
}

// ExecuteTrend runs the multi-cycle trend report and prints it to stdout.
// It serves as the main entry point for the 'trend' mode.
func ExecuteTrend(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	report := GetTrendResults(ctx, NewReportDeps(ctx, cfg, mgr))
	duration := time.Since(start)
	return writer.WriteTrend(report, cfg, duration)
}

// GetPreviewResults assembles the preview report: the cycle closed by
// the most recent train, with staging hotfixes reconciled from the
// window start. Exposed for the MCP server and tests.
func GetPreviewResults(ctx context.Context, deps *ReportDeps) (*schema.PreviewReport, error) {
	current, previous, err := findTrainPair(ctx, deps)
	if err != nil {
		return nil, err
	}
	cycle := BuildCycle(ctx, deps, current, previous, cycleOptions{})
	return &schema.PreviewReport{Cycle: *cycle}, nil
}

// GetRetroResults assembles the retrospective: the same cycle as the
// preview, plus post-train hotfixes on both guarded branches, the
// promotion that shipped the train (when one exists), the contributor
// leaderboard and the historical trend.
func GetRetroResults(ctx context.Context, deps *ReportDeps) (*schema.RetroReport, error) {
	current, previous, err := findTrainPair(ctx, deps)
	if err != nil {
		return nil, err
	}
	cycle := BuildCycle(ctx, deps, current, previous, cycleOptions{
		hotfixSince:    current.MergedAt,
		includeRelease: true,
	})

	trend := BuildTrend(ctx, deps, deps.Cfg.TrendCycles)

	return &schema.RetroReport{
		Cycle:           *cycle,
		Promotion:       findLastPromotion(ctx, deps, current),
		TopContributors: topContributors(cycle.Features, topContributorLimit),
		Trend:           trend.Entries,
		TrendSummary:    trend.Summary,
	}, nil
}

// GetTrendResults assembles the multi-cycle trend report.
// Exposed for the MCP server and tests.
func GetTrendResults(ctx context.Context, deps *ReportDeps) *schema.TrendReport {
	report := BuildTrend(ctx, deps, deps.Cfg.TrendCycles)
	return &report
}

// findTrainPair locates the most recent release train and the one
// before it within the configured lookback. previous is nil when only
// one train exists; no train at all is ErrNoReleaseTrain.
func findTrainPair(ctx context.Context, deps *ReportDeps) (schema.PullRequest, *schema.PullRequest, error) {
	trains := findReleaseTrains(ctx, deps, deps.Cfg.LookbackDays, 2)
	if len(trains) == 0 {
		return schema.PullRequest{}, nil, ErrNoReleaseTrain
	}
	current := trains[0]
	var previous *schema.PullRequest
	if len(trains) > 1 {
		previous = &trains[1]
	}
	return current, previous, nil
}

// findReleaseTrains returns release trains merged into staging within
// the lookback, newest first, capped at limit.
func findReleaseTrains(ctx context.Context, deps *ReportDeps, lookbackDays, limit int) []schema.PullRequest {
	classifier := NewClassifier(deps.Cfg)
	since := deps.now().AddDate(0, 0, -lookbackDays)

	staging := cachedFetchWindow(ctx, deps, deps.Cfg.StagingBranch, since, time.Time{})
	trains := filterWindow(staging, classifier.IsReleaseTrain)
	if len(trains) > limit {
		trains = trains[:limit]
	}
	return trains
}

// findLastPromotion returns the newest staging-to-production promotion
// merged after the given train, or nil while the train is still waiting
// on production.
func findLastPromotion(ctx context.Context, deps *ReportDeps, train schema.PullRequest) *schema.PullRequest {
	classifier := NewClassifier(deps.Cfg)

	release := cachedFetchWindow(ctx, deps, deps.Cfg.ReleaseBranch, train.MergedAt, time.Time{})
	promotions := filterWindow(release, classifier.IsPromotion)

	for i := range promotions {
		if promotions[i].MergedAt.After(train.MergedAt) {
			return &promotions[i]
		}
	}
	return nil
}
