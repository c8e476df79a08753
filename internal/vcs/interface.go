// Package vcs provides version control system abstractions.
package vcs

import (
	"errors"
)

// ErrNotFile is returned when a tree path names a directory or nothing.
var ErrNotFile = errors.New("not a file in tree")

// Repository provides access to the git objects analysis reads from.
type Repository interface {
	// ResolveTree returns the tree of the commit a revision names
	// ("HEAD", a branch, a tag, a short or full hash).
	ResolveTree(rev string) (Tree, error)
	// CurrentRef returns the checked-out branch name, or the HEAD hash
	// when detached.
	CurrentRef() (string, error)
	// RepoPath returns the root path of the repository.
	RepoPath() string
}

// TreeEntry represents a file in a git tree.
type TreeEntry struct {
	Path string
	Size int64
}

// Tree represents a git tree object.
type Tree interface {
	// Entries returns all files in the tree (recursively).
	Entries() ([]TreeEntry, error)
	// File returns the content of the file at path.
	File(path string) ([]byte, error)
}

// Opener opens git repositories.
type Opener interface {
	// PlainOpen opens an existing git repository.
	PlainOpen(path string) (Repository, error)
	// PlainOpenWithDetect opens a git repository, detecting .git in parent directories.
	PlainOpenWithDetect(path string) (Repository, error)
}
