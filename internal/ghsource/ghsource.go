// Package ghsource implements the PR source contract on top of the
// GitHub REST API.
package ghsource

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/ehuang2/releaseflow/internal/contract"
	"github.com/ehuang2/releaseflow/schema"
)

var _ contract.PRSource = (*GitHubSource)(nil)

// PullRequestsService is the slice of the go-github client this source
// depends on, narrowed for test substitution.
type PullRequestsService interface {
	List(ctx context.Context, owner, repo string, opts *github.PullRequestListOptions) ([]*github.PullRequest, *github.Response, error)
	Get(ctx context.Context, owner, repo string, number int) (*github.PullRequest, *github.Response, error)
	ListFiles(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.CommitFile, *github.Response, error)
	ListReviews(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.PullRequestReview, *github.Response, error)
	ListComments(ctx context.Context, owner, repo string, number int, opts *github.PullRequestListCommentsOptions) ([]*github.PullRequestComment, *github.Response, error)
}

// GitHubSource fetches merged pull requests and their enrichment data
// from the GitHub API. Page fetches surface errors so the window walker
// can stop; enrichment fetches degrade to zero values.
type GitHubSource struct {
	prService PullRequestsService
}

// NewGitHubSource creates a source authenticated from RELEASEFLOW_TOKEN
// or GITHUB_TOKEN. Without a token the client runs anonymously, which
// works for public repositories at a lower rate limit.
func NewGitHubSource(ctx context.Context) *GitHubSource {
	token := os.Getenv("RELEASEFLOW_TOKEN")
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}

	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	}

	client := github.NewClient(httpClient)
	return &GitHubSource{prService: client.PullRequests}
}

// NewGitHubSourceWithService creates a source with an injected PR
// service. Exposed for unit testing.
func NewGitHubSourceWithService(prService PullRequestsService) *GitHubSource {
	return &GitHubSource{prService: prService}
}

// FetchMergedPage returns one raw page of closed PRs into base, in the
// API's descending update order. Closed-but-unmerged PRs come through
// with a zero MergedAt; the walker skips them. Filtering here would
// shorten the page and make it look like the last one.
func (s *GitHubSource) FetchMergedPage(ctx context.Context, repo, base string, page, perPage int) ([]schema.PullRequest, error) {
	owner, name := splitSlug(repo)

	opts := &github.PullRequestListOptions{
		State:     "closed",
		Base:      base,
		Sort:      "updated",
		Direction: "desc",
		ListOptions: github.ListOptions{
			Page:    page,
			PerPage: perPage,
		},
	}

	ghPRs, _, err := s.prService.List(ctx, owner, name, opts)
	if err != nil {
		return nil, err
	}

	prs := make([]schema.PullRequest, 0, len(ghPRs))
	for _, ghPR := range ghPRs {
		prs = append(prs, schema.PullRequest{
			Number:         ghPR.GetNumber(),
			Title:          ghPR.GetTitle(),
			Body:           ghPR.GetBody(),
			Author:         ghPR.GetUser().GetLogin(),
			CreatedAt:      ghPR.GetCreatedAt().Time,
			MergedAt:       ghPR.GetMergedAt().Time,
			BaseRef:        ghPR.GetBase().GetRef(),
			HeadRef:        ghPR.GetHead().GetRef(),
			MergeCommitSHA: ghPR.GetMergeCommitSHA(),
		})
	}
	return prs, nil
}

// FetchDiffStats returns the PR's total line counts, zero on any error.
func (s *GitHubSource) FetchDiffStats(ctx context.Context, repo string, number int) schema.DiffStat {
	owner, name := splitSlug(repo)

	ghPR, _, err := s.prService.Get(ctx, owner, name, number)
	if err != nil || ghPR == nil {
		return schema.DiffStat{}
	}
	return schema.DiffStat{
		Additions: ghPR.GetAdditions(),
		Deletions: ghPR.GetDeletions(),
	}
}

// FetchFileDiffs returns per-file line counts, empty on any error.
// A single page covers the file list; PRs beyond it are counted from
// their first hundred files, which is enough for area attribution.
func (s *GitHubSource) FetchFileDiffs(ctx context.Context, repo string, number int) []schema.FileDiff {
	owner, name := splitSlug(repo)

	files, _, err := s.prService.ListFiles(ctx, owner, name, number, &github.ListOptions{PerPage: contract.PageSize})
	if err != nil {
		return nil
	}

	diffs := make([]schema.FileDiff, 0, len(files))
	for _, f := range files {
		diffs = append(diffs, schema.FileDiff{
			Path:      f.GetFilename(),
			Additions: f.GetAdditions(),
			Deletions: f.GetDeletions(),
		})
	}
	return diffs
}

// FetchReviews returns the PR's reviews in submission order, empty on
// any error.
func (s *GitHubSource) FetchReviews(ctx context.Context, repo string, number int) []schema.Review {
	owner, name := splitSlug(repo)

	ghReviews, _, err := s.prService.ListReviews(ctx, owner, name, number, &github.ListOptions{PerPage: contract.PageSize})
	if err != nil {
		return nil
	}

	reviews := make([]schema.Review, 0, len(ghReviews))
	for _, r := range ghReviews {
		reviews = append(reviews, schema.Review{
			Reviewer:    r.GetUser().GetLogin(),
			State:       r.GetState(),
			SubmittedAt: r.GetSubmittedAt().Time,
		})
	}
	return reviews
}

// FetchReviewComments returns the PR's review comments, empty on any error.
func (s *GitHubSource) FetchReviewComments(ctx context.Context, repo string, number int) []schema.ReviewComment {
	owner, name := splitSlug(repo)

	ghComments, _, err := s.prService.ListComments(ctx, owner, name, number, &github.PullRequestListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: contract.PageSize},
	})
	if err != nil {
		return nil
	}

	comments := make([]schema.ReviewComment, 0, len(ghComments))
	for _, c := range ghComments {
		comments = append(comments, schema.ReviewComment{Author: c.GetUser().GetLogin()})
	}
	return comments
}

// splitSlug breaks an owner/repo slug into its halves. Validation
// happens at config time, so a malformed slug here degrades to empty
// parts and API errors.
func splitSlug(slug string) (string, string) {
	owner, name, _ := strings.Cut(slug, "/")
	return owner, name
}
