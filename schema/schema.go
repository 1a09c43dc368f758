// Package schema has configs, models and shared constants for all parts of releaseflow.
package schema

import "time"

// DiffStat holds line-level change counts for a pull request or file.
type DiffStat struct {
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

// Total returns the total number of changed lines.
func (d DiffStat) Total() int {
	return d.Additions + d.Deletions
}

// Add accumulates another stat into this one.
func (d *DiffStat) Add(other DiffStat) {
	d.Additions += other.Additions
	d.Deletions += other.Deletions
}

// FileDiff holds the change counts for a single file within a pull request.
type FileDiff struct {
	Path      string `json:"path"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// Review is a single pull request review as reported by the PR source.
type Review struct {
	Reviewer    string    `json:"reviewer"`
	State       string    `json:"state"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// ReviewComment is a single review comment; only the author matters
// for rushed-approval detection.
type ReviewComment struct {
	Author string `json:"author"`
}

// PullRequest represents one merged pull request as fetched from the
// PR source, plus enrichment attached later in the pipeline.
//
// Fetch-stage fields (Number through MergeCommitSHA) are immutable once
// fetched. Enrichment fields (Stats, Areas, Backmerge) are attached as
// the record passes linearly through fetch, stat enrichment and
// aggregation; nothing mutates a field twice.
type PullRequest struct {
	Number         int       `json:"number"`
	Title          string    `json:"title"`
	Body           string    `json:"body,omitempty"`
	Author         string    `json:"author"`
	CreatedAt      time.Time `json:"created_at"`
	MergedAt       time.Time `json:"merged_at"`
	BaseRef        string    `json:"base_ref"`
	HeadRef        string    `json:"head_ref"`
	MergeCommitSHA string    `json:"merge_commit_sha,omitempty"`

	// Enrichment. Stats is best-effort: a transport failure leaves it
	// zero-valued and sets StatsPartial so callers who care can tell
	// "no changes" apart from "stats unavailable".
	Stats        DiffStat          `json:"stats"`
	StatsPartial bool              `json:"stats_partial,omitempty"`
	Areas        map[Area]DiffStat `json:"areas,omitempty"`
	Backmerge    BackmergeStatus   `json:"backmerge,omitempty"`
}

// QuickApproval flags a PR whose first approval landed suspiciously fast.
type QuickApproval struct {
	PR            PullRequest `json:"pr"`
	ReviewMinutes float64     `json:"review_minutes"`
	CommentCount  int         `json:"comment_count"`
	Large         bool        `json:"large"`
}

// Cycle is one release-train event: the triggering train PR, the
// feature window it closes, and everything aggregated inside it.
// Cycles never overlap; Since is the previous train's merge time or
// Until minus the default lookback when no prior train exists.
type Cycle struct {
	Train    PullRequest   `json:"train"`
	Since    time.Time     `json:"since"`
	Until    time.Time     `json:"until"`
	Features []PullRequest `json:"features"`

	HotfixesStaging []PullRequest `json:"hotfixes_staging"`
	HotfixesRelease []PullRequest `json:"hotfixes_release"`

	Contributors int               `json:"contributors"`
	TotalStats   DiffStat          `json:"total_stats"`
	AreaTotals   map[Area]DiffStat `json:"area_totals"`

	LargePRs         []PullRequest   `json:"large_prs"`
	QuickApprovals   []QuickApproval `json:"quick_approvals"`
	MissingBackmerge []PullRequest   `json:"missing_backmerge"`
}

// Outcome reports whether the cycle needed hotfixes.
func (c *Cycle) Outcome() Outcome {
	if len(c.HotfixesStaging) > 0 || len(c.HotfixesRelease) > 0 {
		return HotfixOutcome
	}
	return CleanOutcome
}

// TrendEntry is one historical cycle's summary, derived and never
// persisted. Entries are ordered most-recent-first.
type TrendEntry struct {
	DateLabel     string  `json:"date"`
	FeatureCount  int     `json:"feature_count"`
	HotfixStaging int     `json:"hotfix_staging"`
	HotfixRelease int     `json:"hotfix_release"`
	Outcome       Outcome `json:"outcome"`
}

// HotfixTotal returns the combined hotfix count across guarded branches.
func (t TrendEntry) HotfixTotal() int {
	return t.HotfixStaging + t.HotfixRelease
}

// PreviewReport is the structured output of the preview command,
// consumed by outwriter for rendering only.
type PreviewReport struct {
	Cycle Cycle `json:"cycle"`
}

// RetroReport is the structured output of the retro command.
type RetroReport struct {
	Cycle           Cycle         `json:"cycle"`
	Promotion       *PullRequest  `json:"promotion,omitempty"`
	TopContributors []AuthorCount `json:"top_contributors"`
	Trend           []TrendEntry  `json:"trend"`
	TrendSummary    string        `json:"trend_summary"`
}

// TrendReport is the structured output of the trend command.
type TrendReport struct {
	Entries []TrendEntry `json:"entries"`
	Summary string       `json:"summary"`
}

// AuthorCount pairs a contributor handle with a PR count.
type AuthorCount struct {
	Author string `json:"author"`
	Count  int    `json:"count"`
}

// CacheStatus holds status information about a cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int64     `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}
