package ghsource

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ehuang2/releaseflow/schema"
)

// mockPRService is a testify mock for the narrowed go-github surface.
type mockPRService struct {
	mock.Mock
}

var _ PullRequestsService = &mockPRService{} // Compile-time check

func (m *mockPRService) List(ctx context.Context, owner, repo string, opts *github.PullRequestListOptions) ([]*github.PullRequest, *github.Response, error) {
	args := m.Called(ctx, owner, repo, opts)
	prs, _ := args.Get(0).([]*github.PullRequest)
	resp, _ := args.Get(1).(*github.Response)
	return prs, resp, args.Error(2)
}

func (m *mockPRService) Get(ctx context.Context, owner, repo string, number int) (*github.PullRequest, *github.Response, error) {
	args := m.Called(ctx, owner, repo, number)
	pr, _ := args.Get(0).(*github.PullRequest)
	resp, _ := args.Get(1).(*github.Response)
	return pr, resp, args.Error(2)
}

func (m *mockPRService) ListFiles(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.CommitFile, *github.Response, error) {
	args := m.Called(ctx, owner, repo, number, opts)
	files, _ := args.Get(0).([]*github.CommitFile)
	resp, _ := args.Get(1).(*github.Response)
	return files, resp, args.Error(2)
}

func (m *mockPRService) ListReviews(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.PullRequestReview, *github.Response, error) {
	args := m.Called(ctx, owner, repo, number, opts)
	reviews, _ := args.Get(0).([]*github.PullRequestReview)
	resp, _ := args.Get(1).(*github.Response)
	return reviews, resp, args.Error(2)
}

func (m *mockPRService) ListComments(ctx context.Context, owner, repo string, number int, opts *github.PullRequestListCommentsOptions) ([]*github.PullRequestComment, *github.Response, error) {
	args := m.Called(ctx, owner, repo, number, opts)
	comments, _ := args.Get(0).([]*github.PullRequestComment)
	resp, _ := args.Get(1).(*github.Response)
	return comments, resp, args.Error(2)
}

func TestFetchMergedPage(t *testing.T) {
	ctx := context.Background()
	mergedAt := time.Date(2025, 12, 20, 10, 0, 0, 0, time.UTC)
	createdAt := mergedAt.Add(-24 * time.Hour)

	ghPRs := []*github.PullRequest{
		{
			Number:         github.Ptr(42),
			Title:          github.Ptr("Fix login timeout"),
			Body:           github.Ptr("closes #41"),
			User:           &github.User{Login: github.Ptr("alice")},
			CreatedAt:      &github.Timestamp{Time: createdAt},
			MergedAt:       &github.Timestamp{Time: mergedAt},
			Base:           &github.PullRequestBranch{Ref: github.Ptr("develop")},
			Head:           &github.PullRequestBranch{Ref: github.Ptr("fix-login")},
			MergeCommitSHA: github.Ptr("abc123"),
		},
		{
			// Closed without merging: kept with a zero MergedAt so the
			// page length stays honest.
			Number: github.Ptr(43),
			Title:  github.Ptr("Abandoned"),
		},
	}

	svc := &mockPRService{}
	svc.On("List", ctx, "acme", "webapp", mock.MatchedBy(func(opts *github.PullRequestListOptions) bool {
		return opts.State == "closed" &&
			opts.Base == "develop" &&
			opts.Sort == "updated" &&
			opts.Direction == "desc" &&
			opts.Page == 2 &&
			opts.PerPage == 100
	})).Return(ghPRs, &github.Response{}, nil)

	source := NewGitHubSourceWithService(svc)
	prs, err := source.FetchMergedPage(ctx, "acme/webapp", "develop", 2, 100)

	require.NoError(t, err)
	require.Len(t, prs, 2)
	assert.Equal(t, schema.PullRequest{
		Number:         42,
		Title:          "Fix login timeout",
		Body:           "closes #41",
		Author:         "alice",
		CreatedAt:      createdAt,
		MergedAt:       mergedAt,
		BaseRef:        "develop",
		HeadRef:        "fix-login",
		MergeCommitSHA: "abc123",
	}, prs[0])
	assert.Equal(t, 43, prs[1].Number)
	assert.True(t, prs[1].MergedAt.IsZero())
	svc.AssertExpectations(t)
}

func TestFetchMergedPageError(t *testing.T) {
	ctx := context.Background()

	svc := &mockPRService{}
	svc.On("List", ctx, "acme", "webapp", mock.Anything).
		Return(nil, nil, errors.New("rate limited"))

	source := NewGitHubSourceWithService(svc)
	prs, err := source.FetchMergedPage(ctx, "acme/webapp", "develop", 1, 100)

	assert.Error(t, err)
	assert.Nil(t, prs)
}

func TestFetchDiffStats(t *testing.T) {
	ctx := context.Background()

	svc := &mockPRService{}
	svc.On("Get", ctx, "acme", "webapp", 42).Return(&github.PullRequest{
		Additions: github.Ptr(120),
		Deletions: github.Ptr(30),
	}, &github.Response{}, nil)

	source := NewGitHubSourceWithService(svc)
	stats := source.FetchDiffStats(ctx, "acme/webapp", 42)

	assert.Equal(t, schema.DiffStat{Additions: 120, Deletions: 30}, stats)
}

func TestFetchDiffStatsDegradesToZero(t *testing.T) {
	ctx := context.Background()

	svc := &mockPRService{}
	svc.On("Get", ctx, "acme", "webapp", 42).
		Return(nil, nil, errors.New("not found"))

	source := NewGitHubSourceWithService(svc)
	stats := source.FetchDiffStats(ctx, "acme/webapp", 42)

	assert.Equal(t, schema.DiffStat{}, stats)
}

func TestFetchFileDiffs(t *testing.T) {
	ctx := context.Background()

	svc := &mockPRService{}
	svc.On("ListFiles", ctx, "acme", "webapp", 42, mock.Anything).Return([]*github.CommitFile{
		{Filename: github.Ptr("frontend/app.tsx"), Additions: github.Ptr(10), Deletions: github.Ptr(2)},
		{Filename: github.Ptr("backend/api.go"), Additions: github.Ptr(5), Deletions: github.Ptr(1)},
	}, &github.Response{}, nil)

	source := NewGitHubSourceWithService(svc)
	diffs := source.FetchFileDiffs(ctx, "acme/webapp", 42)

	require.Len(t, diffs, 2)
	assert.Equal(t, schema.FileDiff{Path: "frontend/app.tsx", Additions: 10, Deletions: 2}, diffs[0])
}

func TestFetchFileDiffsDegradesToNil(t *testing.T) {
	ctx := context.Background()

	svc := &mockPRService{}
	svc.On("ListFiles", ctx, "acme", "webapp", 42, mock.Anything).
		Return(nil, nil, errors.New("not found"))

	source := NewGitHubSourceWithService(svc)

	assert.Nil(t, source.FetchFileDiffs(ctx, "acme/webapp", 42))
}

func TestFetchReviews(t *testing.T) {
	ctx := context.Background()
	submittedAt := time.Date(2025, 12, 19, 11, 0, 0, 0, time.UTC)

	svc := &mockPRService{}
	svc.On("ListReviews", ctx, "acme", "webapp", 42, mock.Anything).Return([]*github.PullRequestReview{
		{
			User:        &github.User{Login: github.Ptr("bob")},
			State:       github.Ptr("APPROVED"),
			SubmittedAt: &github.Timestamp{Time: submittedAt},
		},
	}, &github.Response{}, nil)

	source := NewGitHubSourceWithService(svc)
	reviews := source.FetchReviews(ctx, "acme/webapp", 42)

	require.Len(t, reviews, 1)
	assert.Equal(t, schema.Review{Reviewer: "bob", State: "APPROVED", SubmittedAt: submittedAt}, reviews[0])
}

func TestFetchReviewComments(t *testing.T) {
	ctx := context.Background()

	svc := &mockPRService{}
	svc.On("ListComments", ctx, "acme", "webapp", 42, mock.Anything).Return([]*github.PullRequestComment{
		{User: &github.User{Login: github.Ptr("carol")}},
	}, &github.Response{}, nil)

	source := NewGitHubSourceWithService(svc)
	comments := source.FetchReviewComments(ctx, "acme/webapp", 42)

	require.Len(t, comments, 1)
	assert.Equal(t, "carol", comments[0].Author)
}

func TestSplitSlug(t *testing.T) {
	owner, name := splitSlug("acme/webapp")
	assert.Equal(t, "acme", owner)
	assert.Equal(t, "webapp", name)

	owner, name = splitSlug("malformed")
	assert.Equal(t, "malformed", owner)
	assert.Empty(t, name)
}
