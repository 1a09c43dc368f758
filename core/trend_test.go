package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ehuang2/releaseflow/internal/contract"
	"github.com/ehuang2/releaseflow/schema"
)

func TestBuildTrend(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 12, 28, 12, 0, 0, 0, time.UTC)

	trainThree := mergedPR(300, "staging", "staging-12-22-25", time.Date(2025, 12, 22, 9, 0, 0, 0, time.UTC))
	trainTwo := mergedPR(200, "staging", "staging-12-15-25", time.Date(2025, 12, 15, 9, 0, 0, 0, time.UTC))
	trainOne := mergedPR(100, "staging", "staging-12-08-25", time.Date(2025, 12, 8, 9, 0, 0, 0, time.UTC))

	stagingPRs := []schema.PullRequest{
		mergedPR(301, "staging", "fix-checkout", time.Date(2025, 12, 23, 10, 0, 0, 0, time.UTC)),
		trainThree,
		mergedPR(201, "staging", "fix-signup", time.Date(2025, 12, 16, 10, 0, 0, 0, time.UTC)),
		trainTwo,
		trainOne,
	}
	developPRs := []schema.PullRequest{
		mergedPR(520, "develop", "add-search", time.Date(2025, 12, 20, 10, 0, 0, 0, time.UTC)),
		mergedPR(518, "develop", "add-filters", time.Date(2025, 12, 18, 10, 0, 0, 0, time.UTC)),
		mergedPR(510, "develop", "add-export", time.Date(2025, 12, 10, 10, 0, 0, 0, time.UTC)),
		mergedPR(509, "develop", "staging", time.Date(2025, 12, 9, 10, 0, 0, 0, time.UTC)), // backmerge noise
	}
	releasePRs := []schema.PullRequest{
		mergedPR(401, "release", "fix-prod-crash", time.Date(2025, 12, 17, 10, 0, 0, 0, time.UTC)),
		mergedPR(400, "release", "staging", time.Date(2025, 12, 16, 10, 0, 0, 0, time.UTC)), // promotion
	}

	src := &contract.MockPRSource{}
	src.On("FetchMergedPage", ctx, "acme/webapp", "staging", 1, contract.PageSize).Return(stagingPRs, nil)
	src.On("FetchMergedPage", ctx, "acme/webapp", "develop", 1, contract.PageSize).Return(developPRs, nil)
	src.On("FetchMergedPage", ctx, "acme/webapp", "release", 1, contract.PageSize).Return(releasePRs, nil)

	deps := &ReportDeps{
		Source: src,
		Cfg:    testConfig(),
		Now:    func() time.Time { return now },
	}

	report := BuildTrend(ctx, deps, 2)

	assert.Len(t, report.Entries, 2)

	newest := report.Entries[0]
	assert.Equal(t, "12/22", newest.DateLabel)
	assert.Equal(t, 2, newest.FeatureCount)
	assert.Equal(t, 1, newest.HotfixStaging)
	assert.Equal(t, 0, newest.HotfixRelease)
	assert.Equal(t, schema.HotfixOutcome, newest.Outcome)

	older := report.Entries[1]
	assert.Equal(t, "12/15", older.DateLabel)
	assert.Equal(t, 1, older.FeatureCount)
	assert.Equal(t, 1, older.HotfixStaging)
	assert.Equal(t, 1, older.HotfixRelease) // the promotion itself does not count
	assert.Equal(t, schema.HotfixOutcome, older.Outcome)

	assert.Equal(t, "Every one of the last 2 releases needed a hotfix.", report.Summary)
}

// TestBuildTrendNeedsTwoTrains verifies that a single train yields no
// entries: the oldest feature window would have no lower bound.
func TestBuildTrendNeedsTwoTrains(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 12, 28, 12, 0, 0, 0, time.UTC)

	stagingPRs := []schema.PullRequest{
		mergedPR(300, "staging", "staging-12-22-25", time.Date(2025, 12, 22, 9, 0, 0, 0, time.UTC)),
	}

	src := &contract.MockPRSource{}
	src.On("FetchMergedPage", ctx, "acme/webapp", "staging", 1, contract.PageSize).Return(stagingPRs, nil)

	deps := &ReportDeps{
		Source: src,
		Cfg:    testConfig(),
		Now:    func() time.Time { return now },
	}

	report := BuildTrend(ctx, deps, 4)

	assert.Empty(t, report.Entries)
	assert.Empty(t, report.Summary)
}

func TestSummarizeTrend(t *testing.T) {
	entry := func(staging, release int) schema.TrendEntry {
		e := schema.TrendEntry{HotfixStaging: staging, HotfixRelease: release}
		if e.HotfixTotal() > 0 {
			e.Outcome = schema.HotfixOutcome
		} else {
			e.Outcome = schema.CleanOutcome
		}
		return e
	}

	tests := []struct {
		name    string
		entries []schema.TrendEntry
		want    string
	}{
		{
			name:    "no entries",
			entries: nil,
			want:    "",
		},
		{
			name:    "every release needed a hotfix",
			entries: []schema.TrendEntry{entry(1, 0), entry(0, 2), entry(3, 1)},
			want:    "Every one of the last 3 releases needed a hotfix.",
		},
		{
			name:    "streak broken by a clean release",
			entries: []schema.TrendEntry{entry(2, 0), entry(1, 0), entry(0, 0), entry(1, 0)},
			want:    "2 of the last 4 releases needed a hotfix.",
		},
		{
			name:    "latest release clean",
			entries: []schema.TrendEntry{entry(0, 0), entry(0, 0), entry(2, 0), entry(1, 0)},
			want:    "Last release was clean (3 hotfixes across the last 4 releases).",
		},
		{
			name:    "all clean",
			entries: []schema.TrendEntry{entry(0, 0), entry(0, 0)},
			want:    "Last release was clean (0 hotfixes across the last 2 releases).",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SummarizeTrend(tt.entries))
		})
	}
}
