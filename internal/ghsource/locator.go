package ghsource

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ehuang2/releaseflow/internal/contract"
)

// GitRemoteLocator derives the owner/repo slug from the origin remote
// of a local clone.
type GitRemoteLocator struct {
	repoPath string
}

var _ contract.RepoLocator = (*GitRemoteLocator)(nil)

// NewGitRemoteLocator creates a locator for the given clone path.
func NewGitRemoteLocator(repoPath string) *GitRemoteLocator {
	return &GitRemoteLocator{repoPath: repoPath}
}

// Identify runs 'git remote get-url origin' and parses the slug out of
// the remote URL. Both SSH and HTTPS remote forms are handled.
func (l *GitRemoteLocator) Identify(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", l.repoPath, "remote", "get-url", "origin")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("reading origin remote in %q: %w. Pass --repo owner/repo to skip remote detection", l.repoPath, err)
	}
	return ParseRemoteURL(strings.TrimSpace(string(out)))
}

// ParseRemoteURL extracts "owner/repo" from a git remote URL.
// Supported forms:
//
//	git@github.com:owner/repo.git
//	https://github.com/owner/repo.git
//	https://github.com/owner/repo
func ParseRemoteURL(url string) (string, error) {
	cleaned := strings.TrimSuffix(url, ".git")

	if _, after, found := strings.Cut(cleaned, ":"); found && strings.HasPrefix(url, "git@") {
		cleaned = after
	} else if idx := strings.Index(cleaned, "://"); idx >= 0 {
		parts := strings.SplitN(cleaned[idx+3:], "/", 2)
		if len(parts) < 2 {
			return "", fmt.Errorf("remote URL %q has no repository path", url)
		}
		cleaned = parts[1]
	}

	segments := strings.Split(strings.Trim(cleaned, "/"), "/")
	if len(segments) < 2 || segments[len(segments)-2] == "" || segments[len(segments)-1] == "" {
		return "", fmt.Errorf("cannot parse owner/repo from remote URL %q", url)
	}
	return segments[len(segments)-2] + "/" + segments[len(segments)-1], nil
}
