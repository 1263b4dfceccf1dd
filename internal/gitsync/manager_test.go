package gitsync

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceValidateRequiresURLAndPath(t *testing.T) {
	_, err := Sync(context.Background(), Source{}, nil)
	assert.ErrorIs(t, err, ErrNoRepoURL)

	_, err = Sync(context.Background(), Source{RepoURL: "x"}, nil)
	assert.ErrorIs(t, err, ErrNoLocalPath)
}

func TestDefaultSourceFillsBranchAndFlags(t *testing.T) {
	src := DefaultSource("https://example.com/vault.git", "/tmp/vault")
	assert.Equal(t, "main", src.Branch)
	assert.True(t, src.ShallowClone)
	assert.True(t, src.SingleBranch)
}

// newLocalOriginRepo creates a bare-enough local repository with one commit
// so Sync can clone/pull it without any network access.
func newLocalOriginRepo(t *testing.T) string {
	t.Helper()
	originPath := filepath.Join(t.TempDir(), "origin")
	repo, err := git.PlainInit(originPath, false)
	require.NoError(t, err)

	worktree, err := repo.Worktree()
	require.NoError(t, err)

	readmePath := filepath.Join(originPath, "README.md")
	require.NoError(t, os.WriteFile(readmePath, []byte("# hello\n"), 0o644))
	_, err = worktree.Add("README.md")
	require.NoError(t, err)

	_, err = worktree.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com"},
	})
	require.NoError(t, err)

	head, err := repo.Head()
	require.NoError(t, err)
	branchRef := head.Name().Short()
	t.Setenv("GITSYNC_TEST_BRANCH", branchRef)

	return originPath
}

func TestSyncClonesThenPulls(t *testing.T) {
	origin := newLocalOriginRepo(t)
	localPath := filepath.Join(t.TempDir(), "clone")

	src := Source{RepoURL: origin, Branch: os.Getenv("GITSYNC_TEST_BRANCH"), LocalPath: localPath, SingleBranch: true}

	path, err := Sync(context.Background(), src, nil)
	require.NoError(t, err)
	assert.Equal(t, localPath, path)
	assert.FileExists(t, filepath.Join(localPath, "README.md"))

	// Second call opens the existing checkout and pulls (no-op here since
	// nothing changed upstream, but exercises the non-clone path).
	path, err = Sync(context.Background(), src, nil)
	require.NoError(t, err)
	assert.Equal(t, localPath, path)
}
