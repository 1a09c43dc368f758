// Package core has core logic for classification, windowed fetching,
// backmerge resolution, cycle aggregation and trend building.
package core

import (
	"regexp"

	"github.com/ehuang2/releaseflow/internal/contract"
	"github.com/ehuang2/releaseflow/schema"
)

// Release train head patterns: dated staging/release branches plus the
// legacy alias. The date suffix is matched syntactically only; a branch
// named staging-99-99-99 still counts as a train.
var releaseTrainPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^staging-\d{2}-\d{2}-\d{2}$`), // staging-12-21-25
	regexp.MustCompile(`^release-\d{2}-\d{2}-\d{2}$`), // release-12-14-25
	regexp.MustCompile(`^release-to-staging$`),
}

// datedReleasePattern matches dated release branches promoted to production.
var datedReleasePattern = regexp.MustCompile(`^release-\d{2}-\d{2}-\d{2}$`)

// Classifier assigns each PR to exactly one release-flow category based
// on its base and head refs. All predicates are pure and total: empty or
// missing refs simply never match.
type Classifier struct {
	develop string
	staging string
	release string
}

// NewClassifier creates a classifier for the configured branch names.
func NewClassifier(cfg *contract.Config) *Classifier {
	return &Classifier{
		develop: cfg.DevelopBranch,
		staging: cfg.StagingBranch,
		release: cfg.ReleaseBranch,
	}
}

// IsReleaseTrain reports whether the PR is a release train
// (dated branch merged into staging).
func (c *Classifier) IsReleaseTrain(pr schema.PullRequest) bool {
	if pr.BaseRef != c.staging {
		return false
	}
	for _, p := range releaseTrainPatterns {
		if p.MatchString(pr.HeadRef) {
			return true
		}
	}
	return false
}

// IsPromotion reports whether the PR moves staging's accumulated changes
// into production. Both the dated release branch and the legacy direct
// staging head count.
func (c *Classifier) IsPromotion(pr schema.PullRequest) bool {
	if pr.BaseRef != c.release {
		return false
	}
	return pr.HeadRef == c.staging || datedReleasePattern.MatchString(pr.HeadRef)
}

// IsBackmerge reports whether the PR reintroduces staging into develop.
func (c *Classifier) IsBackmerge(pr schema.PullRequest) bool {
	return pr.BaseRef == c.develop && pr.HeadRef == c.staging
}

// IsHotfixToStaging reports whether the PR is a hotfix merged directly
// into staging. Release trains and release-to-staging backmerges are
// excluded.
func (c *Classifier) IsHotfixToStaging(pr schema.PullRequest) bool {
	if pr.BaseRef != c.staging {
		return false
	}
	if c.IsReleaseTrain(pr) {
		return false
	}
	return pr.HeadRef != c.release
}

// IsHotfixToRelease reports whether the PR is a hotfix merged directly
// into production, bypassing the promotion flow.
func (c *Classifier) IsHotfixToRelease(pr schema.PullRequest) bool {
	if pr.BaseRef != c.release {
		return false
	}
	return !c.IsPromotion(pr)
}

// IsFeature reports whether the PR is a plain feature merge into
// develop. Heads named after a guarded branch are backmerge noise,
// not features.
func (c *Classifier) IsFeature(pr schema.PullRequest) bool {
	if pr.BaseRef != c.develop {
		return false
	}
	return pr.HeadRef != c.staging && pr.HeadRef != c.release
}

// Classify returns the single category for a PR. Rules are evaluated in
// fixed precedence so that train and promotion patterns are checked
// before the generic hotfix buckets and no PR is double-counted.
func (c *Classifier) Classify(pr schema.PullRequest) schema.Category {
	switch {
	case c.IsReleaseTrain(pr):
		return schema.CategoryReleaseTrain
	case c.IsPromotion(pr):
		return schema.CategoryPromotion
	case c.IsBackmerge(pr):
		return schema.CategoryBackmerge
	case c.IsHotfixToStaging(pr):
		return schema.CategoryHotfixStaging
	case c.IsHotfixToRelease(pr):
		return schema.CategoryHotfixRelease
	case c.IsFeature(pr):
		return schema.CategoryFeature
	default:
		return schema.CategoryNone
	}
}
