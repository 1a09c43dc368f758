// Package gitancestry answers commit-ancestry questions by executing
// the local 'git' binary installed on the machine.
package gitancestry

import (
	"context"
	"os/exec"
	"time"

	"github.com/ehuang2/releaseflow/internal/contract"
)

// Command timeouts. Fetch touches the network; ancestry checks are
// local and fast.
const (
	fetchTimeout    = 20 * time.Second
	ancestryTimeout = 10 * time.Second
)

// LocalOracle implements the ancestry contract against a local clone.
// Every failure mode (no git binary, not a repository, offline remote,
// timeout) reports a negative answer; the backmerge resolver treats
// that as "fall back to text matching", so an unusable clone degrades a
// report instead of killing it.
type LocalOracle struct {
	repoPath    string
	trunkBranch string
}

var _ contract.AncestryOracle = (*LocalOracle)(nil)

// NewLocalOracle creates an oracle for the given clone and trunk branch.
func NewLocalOracle(repoPath, trunkBranch string) *LocalOracle {
	return &LocalOracle{repoPath: repoPath, trunkBranch: trunkBranch}
}

// RefreshTrunk fetches the trunk branch from origin so that subsequent
// ancestry checks see merges that happened after the local clone last
// pulled. Returns false when the fetch failed; checks still run against
// whatever state the clone has.
func (o *LocalOracle) RefreshTrunk(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "-C", o.repoPath, "fetch", "origin", o.trunkBranch)
	if err := cmd.Run(); err != nil {
		contract.LogWarn("refreshing "+o.trunkBranch+" from origin", err)
		return false
	}
	return true
}

// IsAncestor reports whether commitID is reachable from trunkRef using
// 'git merge-base --is-ancestor'. Exit status 1 means not an ancestor;
// any other failure also reads as not reachable.
func (o *LocalOracle) IsAncestor(ctx context.Context, commitID, trunkRef string) bool {
	if commitID == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, ancestryTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "-C", o.repoPath, "merge-base", "--is-ancestor", commitID, trunkRef)
	return cmd.Run() == nil
}
