package core

import (
	"context"
	"strconv"
	"strings"

	"github.com/ehuang2/releaseflow/internal/contract"
	"github.com/ehuang2/releaseflow/schema"
)

// ComputeReachableSet returns the set of hotfix merge-commit SHAs that
// are reachable from the trunk ref. It performs exactly one trunk
// refresh followed by one ancestry check per unique SHA, so repeated
// resolver calls within a single report never re-trigger the network.
//
// Oracle unavailability (missing tool, timeout, not a repository) is
// reported by the oracle as "not reachable", which lands the affected
// hotfixes on the text-matching fallback path automatically.
func ComputeReachableSet(ctx context.Context, oracle contract.AncestryOracle, trunkRef string, hotfixes []schema.PullRequest) map[string]struct{} {
	reachable := make(map[string]struct{})
	if oracle == nil || len(hotfixes) == 0 {
		return reachable
	}

	oracle.RefreshTrunk(ctx)

	seen := make(map[string]struct{})
	for _, hf := range hotfixes {
		sha := hf.MergeCommitSHA
		if sha == "" {
			continue
		}
		if _, dup := seen[sha]; dup {
			continue
		}
		seen[sha] = struct{}{}
		if oracle.IsAncestor(ctx, sha, trunkRef) {
			reachable[sha] = struct{}{}
		}
	}
	return reachable
}

// ResolveBackmerge reports whether a hotfix's change has reached trunk.
//
// Primary evidence: the hotfix's merge commit is in the precomputed
// reachable set. Fallback: a candidate backmerge PR merged strictly
// after the hotfix mentions the hotfix number or its lowercased title in
// its own title or body. The fallback is a heuristic and can
// false-positive on numeric coincidences (hotfix #4 matching a body that
// contains "42"); that behavior is inherited deliberately rather than
// silently tightened.
func ResolveBackmerge(hotfix schema.PullRequest, candidates []schema.PullRequest, reachable map[string]struct{}) bool {
	if hotfix.MergeCommitSHA != "" && reachable != nil {
		if _, ok := reachable[hotfix.MergeCommitSHA]; ok {
			return true
		}
	}
	return matchBackmergeText(hotfix, candidates)
}

// matchBackmergeText scans backmerge candidates for a textual mention of
// the hotfix.
func matchBackmergeText(hotfix schema.PullRequest, candidates []schema.PullRequest) bool {
	number := strconv.Itoa(hotfix.Number)
	title := strings.ToLower(hotfix.Title)

	for _, bm := range candidates {
		if !bm.MergedAt.After(hotfix.MergedAt) {
			continue
		}

		bmTitle := strings.ToLower(bm.Title)
		bmBody := strings.ToLower(bm.Body)

		if strings.Contains(bmTitle, number) || strings.Contains(bmBody, number) {
			return true
		}
		if title != "" && strings.Contains(bmTitle, title) {
			return true
		}
	}
	return false
}

// annotateBackmerges resolves and records the backmerge status on each
// hotfix, returning the ones with no recorded backmerge.
func annotateBackmerges(hotfixes []schema.PullRequest, candidates []schema.PullRequest, reachable map[string]struct{}) []schema.PullRequest {
	var missing []schema.PullRequest
	for i := range hotfixes {
		if ResolveBackmerge(hotfixes[i], candidates, reachable) {
			hotfixes[i].Backmerge = schema.BackmergeResolved
		} else {
			hotfixes[i].Backmerge = schema.BackmergeMissing
			missing = append(missing, hotfixes[i])
		}
	}
	return missing
}
