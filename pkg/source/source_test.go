package source

import (
	"io/fs"
	"path/filepath"
	"sync"
	"testing"

	"github.com/panbanda/mood/internal/testutil"
	"github.com/panbanda/mood/internal/vcs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ContentSource = (*FilesystemSource)(nil)
	_ ContentSource = (*TreeSource)(nil)
	_ ContentSource = MemorySource(nil)
)

func TestFilesystemSource(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(dir, "shapes.py"), "class Shape: pass\n")
	src := NewFilesystem()

	content, err := src.Read(filepath.Join(dir, "shapes.py"))
	require.NoError(t, err)
	assert.Equal(t, "class Shape: pass\n", string(content))

	_, err = src.Read(filepath.Join(dir, "nonexistent.py"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestTreeSource(t *testing.T) {
	dir := t.TempDir()
	testutil.InitRepo(t, dir, map[string]string{
		"pkg/shapes.py": testutil.SampleSource,
	})

	repo, err := vcs.NewGitOpener().PlainOpen(dir)
	require.NoError(t, err)
	tree, err := repo.ResolveTree("HEAD")
	require.NoError(t, err)

	src := NewTree(tree)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			content, err := src.Read("pkg/shapes.py")
			assert.NoError(t, err)
			assert.Equal(t, testutil.SampleSource, string(content))
		}()
	}
	wg.Wait()

	_, err = src.Read("missing.py")
	assert.ErrorIs(t, err, vcs.ErrNotFile)
}

func TestMemorySource(t *testing.T) {
	src := NewMemory(map[string]string{"a/b.py": "class B: pass\n"})

	content, err := src.Read("a/b.py")
	require.NoError(t, err)
	assert.Equal(t, "class B: pass\n", string(content))

	_, err = src.Read("a/c.py")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
