package contract

import (
	"context"

	"github.com/ehuang2/releaseflow/schema"
	"github.com/stretchr/testify/mock"
)

// MockPRSource is a mock implementation of PRSource for testing.
type MockPRSource struct {
	mock.Mock
}

var _ PRSource = &MockPRSource{} // Compile-time check

// FetchMergedPage implements the PRSource interface.
func (m *MockPRSource) FetchMergedPage(ctx context.Context, repo string, base string, page, perPage int) ([]schema.PullRequest, error) {
	args := m.Called(ctx, repo, base, page, perPage)
	prs, _ := args.Get(0).([]schema.PullRequest)
	return prs, args.Error(1)
}

// FetchDiffStats implements the PRSource interface.
func (m *MockPRSource) FetchDiffStats(ctx context.Context, repo string, number int) schema.DiffStat {
	args := m.Called(ctx, repo, number)
	return args.Get(0).(schema.DiffStat)
}

// FetchFileDiffs implements the PRSource interface.
func (m *MockPRSource) FetchFileDiffs(ctx context.Context, repo string, number int) []schema.FileDiff {
	args := m.Called(ctx, repo, number)
	diffs, _ := args.Get(0).([]schema.FileDiff)
	return diffs
}

// FetchReviews implements the PRSource interface.
func (m *MockPRSource) FetchReviews(ctx context.Context, repo string, number int) []schema.Review {
	args := m.Called(ctx, repo, number)
	reviews, _ := args.Get(0).([]schema.Review)
	return reviews
}

// FetchReviewComments implements the PRSource interface.
func (m *MockPRSource) FetchReviewComments(ctx context.Context, repo string, number int) []schema.ReviewComment {
	args := m.Called(ctx, repo, number)
	comments, _ := args.Get(0).([]schema.ReviewComment)
	return comments
}

// MockAncestryOracle is a mock implementation of AncestryOracle for testing.
type MockAncestryOracle struct {
	mock.Mock
}

var _ AncestryOracle = &MockAncestryOracle{} // Compile-time check

// RefreshTrunk implements the AncestryOracle interface.
func (m *MockAncestryOracle) RefreshTrunk(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

// IsAncestor implements the AncestryOracle interface.
func (m *MockAncestryOracle) IsAncestor(ctx context.Context, commitID, trunkRef string) bool {
	args := m.Called(ctx, commitID, trunkRef)
	return args.Bool(0)
}

// MockRepoLocator is a mock implementation of RepoLocator for testing.
type MockRepoLocator struct {
	mock.Mock
}

var _ RepoLocator = &MockRepoLocator{} // Compile-time check

// Identify implements the RepoLocator interface.
func (m *MockRepoLocator) Identify(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
