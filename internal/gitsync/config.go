// Package gitsync fetches a vault that lives in a remote Git repository to
// a local checkout before scanning. It is a one-shot clone-or-pull step,
// not a background daemon: it runs to completion before Scan ever opens a
// transaction, and performs no network I/O afterward.
package gitsync

import "errors"

// Source describes a vault backed by a remote Git repository.
type Source struct {
	RepoURL      string // remote URL (https or ssh)
	Branch       string // branch to track; defaults to "main"
	LocalPath    string // where to check it out locally
	ShallowClone bool   // clone with depth=1
	SingleBranch bool   // clone/fetch only Branch
}

// DefaultSource fills in sane defaults for a one-shot shallow clone of a
// single branch.
func DefaultSource(repoURL, localPath string) Source {
	return Source{
		RepoURL:      repoURL,
		Branch:       "main",
		LocalPath:    localPath,
		ShallowClone: true,
		SingleBranch: true,
	}
}

var (
	ErrNoRepoURL   = errors.New("gitsync: repository URL is required")
	ErrNoLocalPath = errors.New("gitsync: local path is required")
)

// Validate checks the Source is well-formed.
func (s Source) Validate() error {
	if s.RepoURL == "" {
		return ErrNoRepoURL
	}
	if s.LocalPath == "" {
		return ErrNoLocalPath
	}
	return nil
}

func (s Source) branch() string {
	if s.Branch == "" {
		return "main"
	}
	return s.Branch
}
