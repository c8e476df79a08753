package vcs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitFiles(t *testing.T, repo *git.Repository, root string, files map[string]string, msg string) {
	t.Helper()
	w, err := repo.Worktree()
	require.NoError(t, err)

	for name, content := range files {
		full := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
		_, err := w.Add(name)
		require.NoError(t, err)
	}
	_, err = w.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)
}

// initTestRepo creates a repo with two commits; the tag v1 marks the first.
func initTestRepo(t *testing.T) string {
	t.Helper()
	repoPath := t.TempDir()
	repo, err := git.PlainInit(repoPath, false)
	require.NoError(t, err)

	commitFiles(t, repo, repoPath, map[string]string{
		"shapes.py":     "class Shape:\n    pass\n",
		"pkg/circle.py": "class Circle(Shape):\n    pass\n",
	}, "initial")

	head, err := repo.Head()
	require.NoError(t, err)
	_, err = repo.CreateTag("v1", head.Hash(), nil)
	require.NoError(t, err)

	commitFiles(t, repo, repoPath, map[string]string{
		"shapes.py": "class Shape:\n    sides = 0\n",
	}, "second")
	return repoPath
}

func TestGitOpener_PlainOpen(t *testing.T) {
	repoPath := initTestRepo(t)

	repo, err := NewGitOpener().PlainOpen(repoPath)
	require.NoError(t, err)
	assert.Equal(t, repoPath, repo.RepoPath())

	_, err = NewGitOpener().PlainOpen("/nonexistent/path")
	assert.Error(t, err)
}

func TestGitOpener_PlainOpenWithDetect(t *testing.T) {
	repoPath := initTestRepo(t)

	repo, err := NewGitOpener().PlainOpenWithDetect(filepath.Join(repoPath, "pkg"))
	require.NoError(t, err)
	assert.Equal(t, repoPath, repo.RepoPath())
}

func TestGitRepository_ResolveTree(t *testing.T) {
	repo, err := NewGitOpener().PlainOpen(initTestRepo(t))
	require.NoError(t, err)

	head, err := repo.ResolveTree("")
	require.NoError(t, err)
	content, err := head.File("shapes.py")
	require.NoError(t, err)
	assert.Contains(t, string(content), "sides = 0")

	old, err := repo.ResolveTree("v1")
	require.NoError(t, err)
	content, err = old.File("shapes.py")
	require.NoError(t, err)
	assert.Equal(t, "class Shape:\n    pass\n", string(content))

	_, err = repo.ResolveTree("no-such-branch")
	assert.Error(t, err)
}

func TestGitTree_Entries(t *testing.T) {
	repo, err := NewGitOpener().PlainOpen(initTestRepo(t))
	require.NoError(t, err)
	tree, err := repo.ResolveTree("HEAD")
	require.NoError(t, err)

	entries, err := tree.Entries()
	require.NoError(t, err)

	paths := make(map[string]int64)
	for _, e := range entries {
		paths[e.Path] = e.Size
	}
	assert.Len(t, paths, 2)
	assert.Contains(t, paths, "pkg/circle.py")
	assert.Equal(t, int64(len("class Shape:\n    sides = 0\n")), paths["shapes.py"])
}

func TestGitTree_FileMissing(t *testing.T) {
	repo, err := NewGitOpener().PlainOpen(initTestRepo(t))
	require.NoError(t, err)
	tree, err := repo.ResolveTree("HEAD")
	require.NoError(t, err)

	_, err = tree.File("nonexistent.py")
	assert.ErrorIs(t, err, ErrNotFile)
}

func TestGitRepository_CurrentRef(t *testing.T) {
	repo, err := NewGitOpener().PlainOpen(initTestRepo(t))
	require.NoError(t, err)

	ref, err := repo.CurrentRef()
	require.NoError(t, err)
	assert.Equal(t, "master", ref)
}

func TestDefaultOpener(t *testing.T) {
	original := DefaultOpener()
	defer SetDefaultOpener(original)

	custom := NewGitOpener()
	SetDefaultOpener(custom)
	assert.Same(t, custom, DefaultOpener())
}
