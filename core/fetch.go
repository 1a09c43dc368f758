package core

import (
	"context"
	"time"

	"github.com/ehuang2/releaseflow/internal/contract"
	"github.com/ehuang2/releaseflow/schema"
)

// FetchMergedWindow retrieves merged PRs into base within [since, until),
// most-recently-merged-first as delivered by the source.
//
// Paging stops early once a PR older than since shows up: the source
// returns descending merge-time order, so everything after it is older
// still. That short-circuit is only safe under monotonic ordering; the
// until bound, by contrast, is applied as a skip filter because PRs past
// it can interleave with in-window ones near the boundary.
//
// A zero until leaves the window open-ended. Transport errors degrade to
// whatever was collected so far, with a diagnostic on stderr; a partial
// report beats a dead process.
func FetchMergedWindow(ctx context.Context, src contract.PRSource, repo, base string, since, until time.Time) []schema.PullRequest {
	var prs []schema.PullRequest

	for page := 1; ; page++ {
		pagePRs, err := src.FetchMergedPage(ctx, repo, base, page, contract.PageSize)
		if err != nil {
			contract.LogWarn("fetching PRs for "+base, err)
			return prs
		}
		if len(pagePRs) == 0 {
			break
		}

		for _, pr := range pagePRs {
			// Closed-but-unmerged PRs arrive with a zero MergedAt. They
			// must be skipped before the since check or they would end
			// the walk on the spot.
			if pr.MergedAt.IsZero() {
				continue
			}
			if pr.MergedAt.Before(since) {
				return prs
			}
			if !until.IsZero() && !pr.MergedAt.Before(until) {
				continue
			}
			prs = append(prs, pr)
		}

		if len(pagePRs) < contract.PageSize {
			break
		}
	}

	return prs
}

// filterWindow keeps the PRs matching the given predicate.
func filterWindow(prs []schema.PullRequest, keep func(schema.PullRequest) bool) []schema.PullRequest {
	var out []schema.PullRequest
	for _, pr := range prs {
		if keep(pr) {
			out = append(out, pr)
		}
	}
	return out
}
