package gitancestry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAncestorEmptyCommit(t *testing.T) {
	oracle := NewLocalOracle(t.TempDir(), "develop")

	assert.False(t, oracle.IsAncestor(context.Background(), "", "origin/develop"))
}

func TestIsAncestorOutsideRepository(t *testing.T) {
	oracle := NewLocalOracle(t.TempDir(), "develop")

	// Not a git repository: every failure mode reads as not reachable.
	assert.False(t, oracle.IsAncestor(context.Background(), "abc123", "origin/develop"))
}

func TestRefreshTrunkOutsideRepository(t *testing.T) {
	oracle := NewLocalOracle(t.TempDir(), "develop")

	assert.False(t, oracle.RefreshTrunk(context.Background()))
}
