// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/ehuang2/releaseflow/schema"
)

// PRSource defines the operations needed from the pull request hosting
// platform. This allows the core classification logic to be tested
// without a network connection.
//
// Only FetchMergedPage surfaces transport errors. The remaining methods
// are best-effort by contract: on failure they return a zero value or an
// empty list so that one bad record never blocks a whole report. Callers
// that need to distinguish "empty" from "unavailable" check the partial
// markers on the enriched record.
type PRSource interface {
	// FetchMergedPage returns one raw page of closed PRs for the given
	// base branch, in descending merge-time order as delivered by the
	// platform. Closed-but-unmerged PRs are included with a zero
	// MergedAt so callers see the true page length when deciding
	// whether more pages remain.
	FetchMergedPage(ctx context.Context, repo string, base string, page, perPage int) ([]schema.PullRequest, error)

	// FetchDiffStats returns additions/deletions for a PR, zero on error.
	FetchDiffStats(ctx context.Context, repo string, number int) schema.DiffStat

	// FetchFileDiffs returns per-file change counts for a PR, empty on error.
	FetchFileDiffs(ctx context.Context, repo string, number int) []schema.FileDiff

	// FetchReviews returns the reviews submitted on a PR, empty on error.
	FetchReviews(ctx context.Context, repo string, number int) []schema.Review

	// FetchReviewComments returns the review comments on a PR, empty on error.
	FetchReviewComments(ctx context.Context, repo string, number int) []schema.ReviewComment
}

// AncestryOracle answers commit-ancestry questions against the local
// clone. Both methods tolerate unavailability (missing git binary,
// not a repository, network timeout) by reporting a negative result;
// they never return an error. A negative answer degrades the backmerge
// resolver to its text-matching fallback automatically.
type AncestryOracle interface {
	// RefreshTrunk fetches the latest trunk ref. Idempotent; the report
	// driver calls it exactly once before any ancestry checks.
	RefreshTrunk(ctx context.Context) bool

	// IsAncestor reports whether commitID is reachable from trunkRef.
	IsAncestor(ctx context.Context, commitID, trunkRef string) bool
}

// RepoLocator resolves the "owner/repo" slug for the current run.
// Failure here is cross-cutting and aborts the run.
type RepoLocator interface {
	Identify(ctx context.Context) (string, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetPageStore() CacheStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}
