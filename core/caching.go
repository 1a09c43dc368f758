package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ehuang2/releaseflow/internal/contract"
	"github.com/ehuang2/releaseflow/schema"
)

// currentCacheVersion defines the version of the cache schema.
const currentCacheVersion = 1

// cacheMaxAge bounds how long a cached window stays valid. PR history is
// append-only but open-ended windows keep growing, so entries age out
// quickly compared to immutable git logs.
const cacheMaxAge = time.Hour

// cachedFetchWindow serves a merged-PR window from the page store when a
// fresh entry exists, computing and storing it otherwise. With no store
// configured it falls back to direct fetching.
func cachedFetchWindow(ctx context.Context, deps *ReportDeps, base string, since, until time.Time) []schema.PullRequest {
	var store contract.CacheStore
	if deps.Cache != nil {
		store = deps.Cache.GetPageStore()
	}
	if store == nil {
		return FetchMergedWindow(ctx, deps.Source, deps.Cfg.RepoSlug, base, since, until)
	}

	key := windowCacheKey(deps.Cfg.RepoSlug, base, since, until)

	if result := checkCacheHit(store, key); result != nil {
		return result
	}

	prs := FetchMergedWindow(ctx, deps.Source, deps.Cfg.RepoSlug, base, since, until)
	if data, err := json.Marshal(prs); err == nil {
		_ = store.Set(key, data, currentCacheVersion, time.Now().Unix())
	}
	return prs
}

// checkCacheHit attempts to retrieve and validate a cached window.
func checkCacheHit(store contract.CacheStore, key string) []schema.PullRequest {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	if version != currentCacheVersion {
		return nil
	}
	if time.Since(time.Unix(ts, 0)) > cacheMaxAge {
		return nil
	}

	var result []schema.PullRequest
	if err := json.Unmarshal(data, &result); err != nil {
		// Undecodable payloads would poison every downstream timestamp
		// comparison; treat them as a miss and refetch.
		return nil
	}
	return result
}

// windowCacheKey creates a unique key based on the fetch parameters.
// Times are truncated to the caching granularity so that near-identical
// windows share entries.
func windowCacheKey(repo, base string, since, until time.Time) string {
	untilPart := "open"
	if !until.IsZero() {
		untilPart = fmt.Sprintf("%d", until.Truncate(contract.CacheGranularity).Unix())
	}
	key := fmt.Sprintf("%s:%s:%d:%s",
		repo,
		base,
		since.Truncate(contract.CacheGranularity).Unix(),
		untilPart,
	)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
