package analysis

import (
	"context"
	"io"
	"os/exec"
	"testing"

	"github.com/panbanda/mood/internal/testutil"
)

func TestFetchKeepsLocalPaths(t *testing.T) {
	dir := t.TempDir()
	paths, cleanup, err := New().Fetch(context.Background(), []string{dir, "missing-dir"}, io.Discard)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	defer cleanup()

	if len(paths) != 2 || paths[0] != dir || paths[1] != "missing-dir" {
		t.Errorf("Fetch paths = %v", paths)
	}
}

func TestFetchFailedCloneIsGitError(t *testing.T) {
	_, cleanup, err := New().Fetch(context.Background(), []string{"https://127.0.0.1:1/none/repo"}, io.Discard)
	cleanup()

	var gitErr *GitError
	if !errorsAs(err, &gitErr) {
		t.Fatalf("expected GitError, got %v", err)
	}
}

func TestFetchAndRunClone(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed; local clones need git-upload-pack")
	}
	origin := t.TempDir()
	testutil.InitRepo(t, origin, map[string]string{"sample.py": testutil.SampleSource})

	// A file:// URL is not a local path, so it is cloned.
	svc := New(WithConfig(testConfig(t)))
	paths, cleanup, err := svc.Fetch(context.Background(), []string{"file://" + origin}, io.Discard)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	defer cleanup()

	in, err := svc.Resolve(paths, "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	res, err := svc.Run(context.Background(), in, LoadOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Analysis.Classes) != 6 {
		t.Errorf("classes = %d, want 6", len(res.Analysis.Classes))
	}
}
