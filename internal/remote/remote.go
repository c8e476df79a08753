// Package remote clones repositories named on the command line so their
// Python sources can be analyzed like a local checkout.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Source represents a remote repository to analyze.
type Source struct {
	URL      string // normalized git URL
	Ref      string // branch, tag, or SHA (empty = default branch)
	CloneDir string // temp directory after clone
}

// Parse detects if a path is a remote reference.
// Returns nil if path exists on filesystem (local path takes precedence).
func Parse(path string) (*Source, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, nil
	}

	// SSH URLs carry an @ of their own: git@host:owner/repo.git[@ref]
	if strings.HasPrefix(path, "git@") {
		url, ref := splitRef(strings.TrimPrefix(path, "git@"))
		return &Source{URL: "git@" + url, Ref: ref}, nil
	}

	if scheme, rest, ok := strings.Cut(path, "://"); ok && hasScheme(scheme) {
		var user string
		if at, slash := strings.Index(rest, "@"), strings.Index(rest, "/"); at != -1 && (slash == -1 || at < slash) {
			user, rest = rest[:at+1], rest[at+1:]
		}
		url, ref := splitRef(rest)
		return &Source{URL: scheme + "://" + user + url, Ref: ref}, nil
	}

	path, ref := splitRef(path)
	switch {
	case hasHostPrefix(path):
		return &Source{URL: "https://" + path, Ref: ref}, nil
	case isGitHubShorthand(path):
		return &Source{URL: "https://github.com/" + path, Ref: ref}, nil
	}
	return nil, nil
}

func hasScheme(scheme string) bool {
	switch scheme {
	case "https", "http", "ssh", "git", "file":
		return true
	}
	return false
}

// splitRef splits a trailing @ref off path.
func splitRef(path string) (string, string) {
	if idx := strings.LastIndex(path, "@"); idx != -1 {
		return path[:idx], path[idx+1:]
	}
	return path, ""
}

// hasHostPrefix reports whether path starts with a domain followed by at
// least owner/repo, e.g. github.com/golang/go.
func hasHostPrefix(path string) bool {
	host, rest, ok := strings.Cut(path, "/")
	if !ok || !strings.Contains(host, ".") {
		return false
	}
	return strings.Count(rest, "/") >= 1 && !strings.HasSuffix(rest, "/")
}

// isGitHubShorthand returns true if path matches owner/repo pattern.
func isGitHubShorthand(path string) bool {
	slashIdx := strings.Index(path, "/")
	if slashIdx == -1 {
		return false
	}
	// Must have exactly one slash
	if strings.Count(path, "/") != 1 {
		return false
	}
	// No dots before the slash (would indicate a domain)
	if strings.Contains(path[:slashIdx], ".") {
		return false
	}
	// Both parts must be non-empty
	return slashIdx > 0 && slashIdx < len(path)-1
}

// Clone clones the repository into a fresh temp directory and checks out
// Ref. Progress messages from the server go to progress. A shallow clone
// fetches only the tip of Ref; it cannot check out an arbitrary SHA.
func (s *Source) Clone(ctx context.Context, progress io.Writer, shallow bool) error {
	dir, err := os.MkdirTemp("", "mood-clone-*")
	if err != nil {
		return fmt.Errorf("create clone dir: %w", err)
	}
	s.CloneDir = dir

	opts := &git.CloneOptions{
		URL:      s.URL,
		Progress: progress,
		Tags:     git.NoTags,
	}
	if shallow {
		opts.Depth = 1
		opts.SingleBranch = true
	}

	if s.Ref == "" {
		_, err = git.PlainCloneContext(ctx, dir, false, opts)
		return s.cloneErr(err)
	}

	// Try the ref as a branch, then as a tag, before falling back to a
	// full clone and a revision checkout.
	for _, name := range []plumbing.ReferenceName{
		plumbing.NewBranchReferenceName(s.Ref),
		plumbing.NewTagReferenceName(s.Ref),
	} {
		opts.ReferenceName = name
		_, err = git.PlainCloneContext(ctx, dir, false, opts)
		if err == nil {
			return nil
		}
		if !isMissingRef(err) {
			return s.cloneErr(err)
		}
		if err := resetDir(dir); err != nil {
			return err
		}
	}

	if shallow {
		return fmt.Errorf("clone %s: ref %q is not a branch or tag and cannot be fetched shallow", s.URL, s.Ref)
	}
	opts.ReferenceName = ""
	opts.SingleBranch = false
	opts.Tags = git.AllTags
	repo, err := git.PlainCloneContext(ctx, dir, false, opts)
	if err != nil {
		return s.cloneErr(err)
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(s.Ref))
	if err != nil {
		return fmt.Errorf("resolve %s in %s: %w", s.Ref, s.URL, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return err
	}
	if err := wt.Checkout(&git.CheckoutOptions{Hash: *hash}); err != nil {
		return fmt.Errorf("checkout %s: %w", s.Ref, err)
	}
	return nil
}

// Cleanup removes the clone directory.
func (s *Source) Cleanup() error {
	if s.CloneDir == "" {
		return nil
	}
	err := os.RemoveAll(s.CloneDir)
	s.CloneDir = ""
	return err
}

func (s *Source) cloneErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("clone %s: %w", s.URL, err)
}

func isMissingRef(err error) bool {
	var noMatch git.NoMatchingRefSpecError
	return errors.As(err, &noMatch) || errors.Is(err, plumbing.ErrReferenceNotFound)
}

// resetDir empties dir after a failed clone attempt.
func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}
