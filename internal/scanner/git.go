package scanner

import (
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// GitMetadata describes the repository an input path was checked out from
type GitMetadata struct {
	IsGitRepo      bool   `json:"is_git_repo" yaml:"is_git_repo"`
	RemoteURL      string `json:"remote_url,omitempty" yaml:"remote_url,omitempty"`
	CurrentBranch  string `json:"current_branch,omitempty" yaml:"current_branch,omitempty"`
	Commit         string `json:"commit,omitempty" yaml:"commit,omitempty"`
	HasUncommitted bool   `json:"has_uncommitted,omitempty" yaml:"has_uncommitted,omitempty"`
}

// CollectGitMetadata inspects the repository enclosing path, if any.
// Returns metadata with IsGitRepo=false when path is not inside a repository.
func CollectGitMetadata(path string) *GitMetadata {
	dir := path
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		dir = filepath.Dir(path)
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return &GitMetadata{}
	}

	md := &GitMetadata{IsGitRepo: true, RemoteURL: remoteURL(repo)}
	if head, err := repo.Head(); err == nil {
		md.Commit = head.Hash().String()
		if head.Name().IsBranch() {
			md.CurrentBranch = head.Name().Short()
		}
	}
	if wt, err := repo.Worktree(); err == nil {
		if status, err := wt.Status(); err == nil {
			md.HasUncommitted = !status.IsClean()
		}
	}
	return md
}

// remoteURL picks origin's first URL, else the first URL of any remote
func remoteURL(repo *git.Repository) string {
	remotes, err := repo.Remotes()
	if err != nil {
		return ""
	}
	var fallback string
	for _, r := range remotes {
		cfg := r.Config()
		if len(cfg.URLs) == 0 {
			continue
		}
		if cfg.Name == git.DefaultRemoteName {
			return cfg.URLs[0]
		}
		if fallback == "" {
			fallback = cfg.URLs[0]
		}
	}
	return fallback
}
