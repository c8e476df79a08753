// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// SampleSource is a small hierarchy exercising every naming rule:
// setter-style __init__, hidden methods, protected methods, inherited and
// overridden methods, class attributes and a childless empty base.
const SampleSource = `class Base1:
    def __init__(self, name):
        self._name = name
        self.area = 0
        self.__test = "test"

    def test(self):
        pass

    def __private(self):
        print("private")

    def test2(self):
        pass

class Base2:
    pass

class A1(Base1):
    def test2(self):
        self.area = 1
        pass

    def test4(self):
        pass

    def _t_protected():
        print("protected")

class A2(Base1):
    pass

class B1(A1):
    class_attribute = "test"

class C1(B1):
    def test(self):
        pass

    def test3(self):
        pass
`

// SampleRecords is the records-format report of SampleSource. Every
// record, the last included, is followed by a blank line.
const SampleRecords = `cls: Base1
dit: 0
noc: 2
mif: 0
mhf: 0.33
aif: 0
ahf: 0.33

cls: Base2
dit: 0
noc: 0
mif: 0
mhf: 0
aif: 0
ahf: 0

cls: A1
dit: 1
noc: 1
mif: 0.25
mhf: 0.5
aif: 1
ahf: 0

cls: A2
dit: 1
noc: 0
mif: 1
mhf: 0
aif: 1
ahf: 0

cls: B1
dit: 2
noc: 1
mif: 1
mhf: 0
aif: 0.67
ahf: 0

cls: C1
dit: 3
noc: 0
mif: 0.5
mhf: 0
aif: 1
ahf: 0

cls: --Total--
mif: 0.5
mhf: 0.25
aif: 0.69
ahf: 0.25

`

// WriteFile writes content to a file in the real filesystem.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll(%s) error: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile(%s) error: %v", path, err)
	}
}

// ReadFile reads content from a file.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error: %v", path, err)
	}
	return string(data)
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// CreateFileTree creates multiple files from a map of path -> content.
func CreateFileTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		WriteFile(t, filepath.Join(root, path), content)
	}
}

// InitRepo creates a git repository at root and commits files to it.
func InitRepo(t *testing.T, root string, files map[string]string) *git.Repository {
	t.Helper()
	repo, err := git.PlainInit(root, false)
	if err != nil {
		t.Fatalf("PlainInit(%s) error: %v", root, err)
	}
	Commit(t, repo, root, files, "initial")
	return repo
}

// Commit writes files under root and commits them.
func Commit(t *testing.T, repo *git.Repository, root string, files map[string]string, msg string) {
	t.Helper()
	CreateFileTree(t, root, files)

	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree() error: %v", err)
	}
	for path := range files {
		if _, err := w.Add(filepath.ToSlash(path)); err != nil {
			t.Fatalf("Add(%s) error: %v", path, err)
		}
	}
	_, err = w.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit() error: %v", err)
	}
}
