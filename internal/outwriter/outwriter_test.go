package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehuang2/releaseflow/internal/contract"
	"github.com/ehuang2/releaseflow/schema"
)

func testConfig() *contract.Config {
	return &contract.Config{
		RepoSlug:      "acme/webapp",
		DevelopBranch: "develop",
		StagingBranch: "staging",
		ReleaseBranch: "release",
		LookbackDays:  30,
		TrendCycles:   4,
		LargeLines:    500,
		QuickMinutes:  5,
		Output:        schema.TextOut,
		Width:         120, // Fixed width keeps output independent of the test terminal
		UseColors:     false,
		CacheBackend:  schema.SQLiteBackend,
	}
}

func testCycle() schema.Cycle {
	sinceAt := time.Date(2025, 12, 15, 9, 0, 0, 0, time.UTC)
	untilAt := time.Date(2025, 12, 22, 9, 0, 0, 0, time.UTC)

	bigFeature := schema.PullRequest{
		Number:  520,
		Title:   "Add search across the catalog",
		Author:  "alice",
		BaseRef: "develop",
		Stats:   schema.DiffStat{Additions: 900, Deletions: 350},
	}
	smallFeature := schema.PullRequest{
		Number:  518,
		Title:   "Add filters",
		Author:  "bob",
		BaseRef: "develop",
		Stats:   schema.DiffStat{Additions: 30, Deletions: 20},
	}
	hotfixResolved := schema.PullRequest{
		Number:    601,
		Title:     "Fix checkout",
		Author:    "carol",
		BaseRef:   "staging",
		Backmerge: schema.BackmergeResolved,
	}
	hotfixMissing := schema.PullRequest{
		Number:    602,
		Title:     "Fix cart total",
		Author:    "dave",
		BaseRef:   "staging",
		Backmerge: schema.BackmergeMissing,
	}

	return schema.Cycle{
		Train: schema.PullRequest{
			Number:   300,
			BaseRef:  "staging",
			HeadRef:  "staging-12-22-25",
			MergedAt: untilAt,
		},
		Since:        sinceAt,
		Until:        untilAt,
		Features:     []schema.PullRequest{bigFeature, smallFeature},
		Contributors: 2,
		TotalStats:   schema.DiffStat{Additions: 930, Deletions: 370},
		AreaTotals: map[schema.Area]schema.DiffStat{
			schema.AreaFrontend: {Additions: 900, Deletions: 350},
			schema.AreaOther:    {Additions: 30, Deletions: 20},
		},
		LargePRs: []schema.PullRequest{bigFeature},
		QuickApprovals: []schema.QuickApproval{
			{PR: bigFeature, ReviewMinutes: 3, CommentCount: 0, Large: true},
		},
		HotfixesStaging:  []schema.PullRequest{hotfixResolved, hotfixMissing},
		MissingBackmerge: []schema.PullRequest{hotfixMissing},
	}
}

func TestWritePreviewText(t *testing.T) {
	var buf bytes.Buffer
	report := &schema.PreviewReport{Cycle: testCycle()}

	err := writePreviewText(&buf, report, testConfig(), 1500*time.Millisecond)
	require.NoError(t, err)
	out := buf.String()

	assert.Contains(t, out, "📦 *Release Preview: December 22*")
	assert.Contains(t, out, "Release Train: #300 merged December 22")
	assert.Contains(t, out, "2 PRs from 2 contributors")
	assert.Contains(t, out, "Lines: +930 / -370")
	assert.Contains(t, out, "By area:")
	assert.Contains(t, out, "frontend")
	assert.Contains(t, out, "⚠️ *Risk Flags*")
	assert.Contains(t, out, "Large PRs (500+ lines):")
	assert.Contains(t, out, `#520 @alice "Add search across the catalog" (1250 lines)`)
	assert.Contains(t, out, "Quick approvals (<5 min, large or no comments):")
	assert.Contains(t, out, "Hotfixes needing backmerge (from previous cycle):")
	assert.Contains(t, out, `#602 → staging @dave "Fix cart total"`)
	assert.Contains(t, out, "🎯 *Monday QA Focus*")
	assert.Contains(t, out, "- Review large PRs for potential regressions:")
	assert.Contains(t, out, "  - #520: Add search across the catalog")
	assert.Contains(t, out, "Report generated in 1.5s. Cache backend: sqlite")
}

func TestWritePreviewTextCleanRelease(t *testing.T) {
	var buf bytes.Buffer
	cycle := testCycle()
	cycle.LargePRs = nil
	cycle.QuickApprovals = nil
	cycle.MissingBackmerge = nil
	report := &schema.PreviewReport{Cycle: cycle}

	err := writePreviewText(&buf, report, testConfig(), time.Second)
	require.NoError(t, err)
	out := buf.String()

	assert.Contains(t, out, "Large PRs (500+ lines): None ✅")
	assert.Contains(t, out, "Quick approvals: None ✅")
	assert.Contains(t, out, "Hotfixes needing backmerge: None ✅")
	assert.Contains(t, out, "- No high-risk items identified")
}

func TestWriteRetroText(t *testing.T) {
	var buf bytes.Buffer
	promotion := &schema.PullRequest{
		Number:   400,
		BaseRef:  "release",
		HeadRef:  "staging",
		MergedAt: time.Date(2025, 12, 23, 15, 0, 0, 0, time.UTC),
	}
	report := &schema.RetroReport{
		Cycle:     testCycle(),
		Promotion: promotion,
		TopContributors: []schema.AuthorCount{
			{Author: "alice", Count: 1},
			{Author: "bob", Count: 1},
		},
		Trend: []schema.TrendEntry{
			{DateLabel: "12/22", FeatureCount: 2, HotfixStaging: 2, Outcome: schema.HotfixOutcome},
		},
		TrendSummary: "Every one of the last 1 releases needed a hotfix.",
	}

	err := writeRetroText(&buf, report, testConfig(), 2*time.Second)
	require.NoError(t, err)
	out := buf.String()

	assert.Contains(t, out, "📦 *Release Retro: Dec 15 → Dec 22*")
	assert.Contains(t, out, "Staging: Mon Dec 22 09AM ✅")
	assert.Contains(t, out, "Prod: Tue Dec 23 03PM ✅")
	assert.Contains(t, out, "🚦 *Outcome: ⚠️ Hotfixes Required*")
	assert.Contains(t, out, "📊 *What Shipped*")
	assert.Contains(t, out, "Top contributors:")
	assert.Contains(t, out, "  @alice    1 PRs")
	assert.Contains(t, out, "🚨 *Hotfixes During QA* (direct PRs to staging)")
	assert.Contains(t, out, `#601  @carol  "Fix checkout"  ✅ backmerged`)
	assert.Contains(t, out, `#602  @dave  "Fix cart total"  ❌ NEEDS BACKMERGE`)
	assert.Contains(t, out, "📈 *Trend (Last 4 Releases)*")
	assert.Contains(t, out, "Every one of the last 1 releases needed a hotfix.")
	assert.Contains(t, out, sectionRule)
	assert.NotContains(t, out, "Hotfixes in Prod")
}

func TestWriteRetroTextCleanPendingProd(t *testing.T) {
	var buf bytes.Buffer
	cycle := testCycle()
	cycle.HotfixesStaging = nil
	cycle.MissingBackmerge = nil
	report := &schema.RetroReport{Cycle: cycle}

	err := writeRetroText(&buf, report, testConfig(), time.Second)
	require.NoError(t, err)
	out := buf.String()

	assert.Contains(t, out, "Prod: Pending")
	assert.Contains(t, out, "🚦 *Outcome: ✅ Clean Release*")
	assert.Contains(t, out, "None - clean release! 🎉")
	assert.Contains(t, out, "Not enough release history for trend data.")
}

func TestWriteRetroTextProdHotfixes(t *testing.T) {
	var buf bytes.Buffer
	cycle := testCycle()
	cycle.HotfixesRelease = []schema.PullRequest{
		{Number: 701, Title: "Fix prod crash", Author: "erin", BaseRef: "release", Backmerge: schema.BackmergeResolved},
	}
	report := &schema.RetroReport{Cycle: cycle}

	err := writeRetroText(&buf, report, testConfig(), time.Second)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "🚨 *Hotfixes in Prod* (direct PRs to release)")
	assert.Contains(t, buf.String(), `#701  @erin  "Fix prod crash"  ✅ backmerged`)
}

func TestWriteTrendText(t *testing.T) {
	var buf bytes.Buffer
	report := &schema.TrendReport{
		Entries: []schema.TrendEntry{
			{DateLabel: "12/22", FeatureCount: 12, HotfixStaging: 2, HotfixRelease: 1, Outcome: schema.HotfixOutcome},
			{DateLabel: "12/15", FeatureCount: 8, Outcome: schema.CleanOutcome},
		},
		Summary: "1 of the last 2 releases needed a hotfix.",
	}

	err := writeTrendText(&buf, report, testConfig(), time.Second)
	require.NoError(t, err)
	out := buf.String()

	assert.Contains(t, out, "📈 *Trend (Last 4 Releases)*")
	upper := strings.ToUpper(out)
	assert.Contains(t, upper, "RELEASE")
	assert.Contains(t, upper, "STAGING FIXES")
	assert.Contains(t, out, "12/22")
	assert.Contains(t, out, "⚠️ Hotfix")
	assert.Contains(t, out, "✅ Clean")
	assert.Contains(t, out, "1 of the last 2 releases needed a hotfix.")
}

func TestWriteTrendTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	report := &schema.TrendReport{}

	err := writeTrendText(&buf, report, testConfig(), time.Second)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Not enough release history for trend data.")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	report := &schema.TrendReport{
		Entries: []schema.TrendEntry{{DateLabel: "12/22", FeatureCount: 3, Outcome: schema.CleanOutcome}},
		Summary: "Last release was clean (0 hotfixes across the last 1 releases).",
	}

	err := writeJSON(&buf, report)
	require.NoError(t, err)

	var decoded schema.TrendReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, *report, decoded)
	assert.True(t, strings.HasPrefix(buf.String(), "{\n  "), "output should be indented")
}

func TestGroupDigits(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1,000"},
		{12345, "12,345"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, groupDigits(tt.n))
	}
}

func TestFormatLines(t *testing.T) {
	assert.Equal(t, "+1,234 / -567", formatLines(schema.DiffStat{Additions: 1234, Deletions: 567}))
	assert.Equal(t, "+0 / -0", formatLines(schema.DiffStat{}))
}

func TestTitleWidth(t *testing.T) {
	cfg := testConfig()

	cfg.Width = 120
	assert.Equal(t, wideTitleWidth, titleWidth(cfg, wideTitleWidth))

	cfg.Width = 60
	assert.Equal(t, 30, titleWidth(cfg, wideTitleWidth))

	cfg.Width = 40
	assert.Equal(t, 20, titleWidth(cfg, wideTitleWidth))
}

func TestOutcomeIcon(t *testing.T) {
	assert.Equal(t, "✅", outcomeIcon(schema.CleanOutcome))
	assert.Equal(t, "⚠️", outcomeIcon(schema.HotfixOutcome))
}

func TestWriteAreaBreakdown(t *testing.T) {
	var buf bytes.Buffer
	totals := map[schema.Area]schema.DiffStat{
		schema.AreaBackend:  {Additions: 10, Deletions: 5},
		schema.AreaFrontend: {Additions: 20, Deletions: 2},
		schema.AreaOther:    {}, // Empty areas are skipped
	}

	require.NoError(t, writeAreaBreakdown(&buf, totals))
	out := buf.String()

	assert.Contains(t, out, "By area:")
	assert.NotContains(t, out, "other")
	// Fixed ordering, frontend before backend regardless of map order.
	assert.Less(t, strings.Index(out, "frontend"), strings.Index(out, "backend"))
}

func TestWriteAreaBreakdownEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeAreaBreakdown(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestOutWriterDispatch(t *testing.T) {
	dir := t.TempDir()
	ow := NewOutWriter()

	cfg := testConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(dir, "preview.json")

	report := &schema.PreviewReport{Cycle: testCycle()}
	require.NoError(t, ow.WritePreview(report, cfg, time.Second))

	raw, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	var decoded schema.PreviewReport
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, 300, decoded.Cycle.Train.Number)
	assert.Len(t, decoded.Cycle.Features, 2)
}

func TestOutWriterNoReleaseTrain(t *testing.T) {
	dir := t.TempDir()
	ow := NewOutWriter()

	cfg := testConfig()
	cfg.OutputFile = filepath.Join(dir, "report.txt")

	require.NoError(t, ow.WriteNoReleaseTrain(cfg))

	raw, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "No release train found in last 30 days.")
	assert.Contains(t, string(raw), "Run this command after a release train is merged.")
}
