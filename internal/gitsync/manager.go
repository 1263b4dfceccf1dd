package gitsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

var (
	ErrCloneFailed = errors.New("gitsync: clone failed")
	ErrPullFailed  = errors.New("gitsync: pull failed")
)

// Sync makes src.LocalPath a checkout of src's remote branch: clones it if
// the path doesn't exist yet, otherwise opens it and pulls. Returns the
// local path, ready for the Scanner to walk.
func Sync(ctx context.Context, src Source, logger *slog.Logger) (string, error) {
	if err := src.Validate(); err != nil {
		return "", err
	}
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := os.Stat(src.LocalPath); err == nil {
		repo, openErr := git.PlainOpen(src.LocalPath)
		if openErr != nil {
			return "", fmt.Errorf("gitsync: open existing checkout: %w", openErr)
		}
		if err := pull(ctx, repo, src); err != nil {
			return "", err
		}
		logger.Info("pulled vault repository", "path", src.LocalPath)
		return src.LocalPath, nil
	}

	cloneOpts := &git.CloneOptions{
		URL:           src.RepoURL,
		SingleBranch:  src.SingleBranch,
		ReferenceName: plumbing.NewBranchReferenceName(src.branch()),
	}
	if src.ShallowClone {
		cloneOpts.Depth = 1
	}

	if _, err := git.PlainCloneContext(ctx, src.LocalPath, false, cloneOpts); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCloneFailed, err)
	}

	logger.Info("cloned vault repository", "url", src.RepoURL, "path", src.LocalPath)
	return src.LocalPath, nil
}

func pull(ctx context.Context, repo *git.Repository, src Source) error {
	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("gitsync: open worktree: %w", err)
	}

	err = worktree.PullContext(ctx, &git.PullOptions{
		RemoteName:    "origin",
		SingleBranch:  src.SingleBranch,
		ReferenceName: plumbing.NewBranchReferenceName(src.branch()),
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("%w: %v", ErrPullFailed, err)
	}
	return nil
}
