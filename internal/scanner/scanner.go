package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/panbanda/mood/internal/vcs"
	"github.com/panbanda/mood/pkg/config"
	"github.com/panbanda/mood/pkg/parser"
)

// Scanner finds Python source files.
type Scanner struct {
	config   *config.Config
	matchers []gitignore.Matcher
}

// NewScanner creates a new file scanner.
func NewScanner(cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Scanner{config: cfg}
}

// findGitRoot finds the root of the git repository by looking for .git directory.
// Returns empty string if not in a git repository.
func findGitRoot(start string) string {
	dir, err := filepath.Abs(start)
	if err != nil {
		return ""
	}
	for {
		gitDir := filepath.Join(dir, ".git")
		if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadExcludePatterns loads exclusion patterns from both config and .gitignore files.
// Config patterns are parsed as gitignore patterns and combined with .gitignore files.
func (s *Scanner) loadExcludePatterns(root string, gitignores bool) {
	s.matchers = nil
	var patterns []gitignore.Pattern

	for _, pattern := range s.config.Exclude.Patterns {
		patterns = append(patterns, gitignore.ParsePattern(pattern, nil))
	}
	if len(patterns) > 0 {
		s.matchers = append(s.matchers, gitignore.NewMatcher(patterns))
	}

	if !gitignores || !s.config.Exclude.Gitignore {
		return
	}
	gitRoot := findGitRoot(root)
	if gitRoot == "" {
		return
	}
	// ReadPatterns reads every .gitignore below the git root; matching is
	// then done on paths relative to that root.
	if gitPatterns, err := gitignore.ReadPatterns(osfs.New(gitRoot), nil); err == nil && len(gitPatterns) > 0 {
		absRoot, _ := filepath.Abs(root)
		s.matchers = append(s.matchers, &rootedMatcher{
			matcher: gitignore.NewMatcher(gitPatterns),
			gitRoot: gitRoot,
			root:    absRoot,
		})
	}
}

// rootedMatcher re-bases scan-relative paths onto the git root.
type rootedMatcher struct {
	matcher gitignore.Matcher
	gitRoot string
	root    string
}

func (m *rootedMatcher) Match(path []string, isDir bool) bool {
	full := filepath.Join(append([]string{m.root}, path...)...)
	rel, err := filepath.Rel(m.gitRoot, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	return m.matcher.Match(strings.Split(rel, string(filepath.Separator)), isDir)
}

// isExcluded checks if a path matches any exclusion pattern.
func (s *Scanner) isExcluded(path string, isDir bool) bool {
	if len(s.matchers) == 0 {
		return false
	}

	pathParts := strings.Split(filepath.ToSlash(path), "/")
	for _, m := range s.matchers {
		if m.Match(pathParts, isDir) {
			return true
		}
	}
	return false
}

func (s *Scanner) isExcludedDir(name string) bool {
	for _, dir := range s.config.Exclude.Dirs {
		if name == dir {
			return true
		}
	}
	return false
}

// Scan resolves the given paths into Python files. A file path is taken as
// is when it holds Python source (stubs included); a directory is walked
// with ScanDir, which finds only .py modules. The
// result keeps argument order and holds each file once.
func (s *Scanner) Scan(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(f string) {
		key := filepath.Clean(f)
		if !seen[key] {
			seen[key] = true
			files = append(files, f)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if parser.IsSupported(p) {
				add(p)
			}
			continue
		}
		found, err := s.ScanDir(p)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}
	return files, nil
}

// ScanDir recursively scans a directory for Python files, in lexical order.
// Validates that all paths stay within the root directory to prevent traversal attacks.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	files := make([]string, 0, 256)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, err
	}

	s.loadExcludePatterns(root, true)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		relPath, _ := filepath.Rel(root, path)

		// Security: validate path stays within root (prevent symlink traversal)
		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil || !isWithinRoot(resolved, absRoot) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			if relPath == "." {
				return nil
			}
			if s.isExcludedDir(d.Name()) || s.isExcluded(relPath, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if !parser.IsDiscoverable(path) {
			return nil
		}
		if s.isExcluded(relPath, false) || s.config.ShouldExclude(relPath) {
			return nil
		}
		files = append(files, path)
		return nil
	})

	return files, walkErr
}

// ScanTree selects the Python files of a git tree listing under prefix
// ("" for the whole tree), applying config exclusions and the size limit.
// .gitignore does not apply: tracked files are analyzed.
func (s *Scanner) ScanTree(entries []vcs.TreeEntry, prefix string) []string {
	s.loadExcludePatterns("", false)
	prefix = strings.Trim(filepath.ToSlash(prefix), "/")
	if prefix == "." {
		prefix = ""
	}

	var files []string
	for _, e := range entries {
		rel := e.Path
		if prefix != "" {
			if e.Path != prefix && !strings.HasPrefix(e.Path, prefix+"/") {
				continue
			}
			rel = strings.TrimPrefix(strings.TrimPrefix(e.Path, prefix), "/")
			if rel == "" {
				rel = filepath.Base(e.Path)
			}
		}
		named := prefix != "" && e.Path == prefix
		if !parser.IsDiscoverable(e.Path) && !(named && parser.IsSupported(e.Path)) {
			continue
		}
		if s.inExcludedDir(rel) || s.isExcluded(rel, false) || s.config.ShouldExclude(rel) {
			continue
		}
		if limit := s.config.Analysis.MaxFileSize; limit > 0 && e.Size > limit {
			continue
		}
		files = append(files, e.Path)
	}
	return files
}

func (s *Scanner) inExcludedDir(rel string) bool {
	parts := strings.Split(rel, "/")
	for _, p := range parts[:len(parts)-1] {
		if s.isExcludedDir(p) {
			return true
		}
	}
	return false
}

// isWithinRoot checks if a path is contained within the root directory.
// Returns false if the path escapes via symlinks or relative paths.
func isWithinRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)

	// Add separator to prevent "/root2" matching "/root"
	return absPath == root || strings.HasPrefix(absPath, root+string(filepath.Separator))
}

// FilterBySize filters files that exceed the configured maximum size.
// Returns the filtered list and the count of files that were skipped.
// If maxSize is 0, returns the original list unchanged.
func FilterBySize(files []string, maxSize int64) ([]string, int) {
	if maxSize <= 0 {
		return files, 0
	}

	filtered := make([]string, 0, len(files))
	skipped := 0

	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			skipped++
			continue
		}
		if info.Size() > maxSize {
			skipped++
			continue
		}
		filtered = append(filtered, f)
	}

	return filtered, skipped
}
