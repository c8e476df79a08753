// Package loader turns Python source files into class models.
package loader

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/panbanda/mood/internal/cache"
	"github.com/panbanda/mood/internal/fileproc"
	"github.com/panbanda/mood/pkg/models"
	"github.com/panbanda/mood/pkg/parser"
	"github.com/panbanda/mood/pkg/source"
	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"
)

// ErrSyntax marks a file tree-sitter could only parse with error recovery.
var ErrSyntax = errors.New("syntax error")

// Loader parses Python files into class models in parallel.
type Loader struct {
	source      source.ContentSource
	cache       *cache.Cache
	workers     int
	maxFileSize int64
	onProgress  func()
	logger      *zap.Logger
}

// Option is a functional option for configuring Loader.
type Option func(*Loader)

// WithSource sets where file content is read from (default: filesystem).
func WithSource(src source.ContentSource) Option {
	return func(l *Loader) {
		l.source = src
	}
}

// WithCache enables the parse cache.
func WithCache(c *cache.Cache) Option {
	return func(l *Loader) {
		l.cache = c
	}
}

// WithWorkers caps the number of files parsed at once (0 = 2x NumCPU).
func WithWorkers(n int) Option {
	return func(l *Loader) {
		l.workers = n
	}
}

// WithMaxFileSize skips files larger than n bytes (0 = no limit).
func WithMaxFileSize(n int64) Option {
	return func(l *Loader) {
		l.maxFileSize = n
	}
}

// WithProgress registers a callback run once per file.
func WithProgress(fn func()) Option {
	return func(l *Loader) {
		l.onProgress = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		source: source.NewFilesystem(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SkippedFile is a file that contributed no classes because it could not
// be read or parsed.
type SkippedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Result is the outcome of one Load.
type Result struct {
	// Classes in file order, then source order within each file.
	Classes   []models.Class `json:"classes"`
	Files     int            `json:"files"`
	CacheHits int            `json:"cache_hits"`
	Skipped   []SkippedFile  `json:"skipped,omitempty"`
}

// Load parses files and concatenates their classes. Files that cannot be
// read or parsed are skipped, logged and listed in Result.Skipped; only
// context cancellation fails the load.
func (l *Loader) Load(ctx context.Context, files []string) (*Result, error) {
	var hits atomic.Int32

	perFile, errs, err := fileproc.MapSourceFiles(ctx, files, l.source, fileproc.Options{
		Workers:    l.workers,
		MaxSize:    l.maxFileSize,
		OnProgress: l.onProgress,
	}, func(psr *parser.Parser, path string, content []byte) ([]models.Class, error) {
		if classes, ok := l.cache.Classes(path, content); ok {
			hits.Add(1)
			return classes, nil
		}
		classes, err := parseClasses(ctx, psr, path, content)
		if err != nil {
			return nil, err
		}
		if err := l.cache.StoreClasses(path, content, classes); err != nil {
			l.logger.Debug("cache store failed", zap.String("path", path), zap.Error(err))
		}
		return classes, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load sources: %w", err)
	}

	res := &Result{Files: len(files), CacheHits: int(hits.Load())}
	for _, classes := range perFile {
		res.Classes = append(res.Classes, classes...)
	}
	if errs != nil {
		for _, e := range errs.Errors {
			l.logger.Warn("skipping file", zap.String("path", e.Path), zap.Error(e.Err))
			res.Skipped = append(res.Skipped, SkippedFile{Path: e.Path, Reason: e.Err.Error()})
		}
		sort.Slice(res.Skipped, func(i, j int) bool { return res.Skipped[i].Path < res.Skipped[j].Path })
	}

	l.logger.Debug("sources loaded",
		zap.Int("files", res.Files),
		zap.Int("classes", len(res.Classes)),
		zap.Int("cache_hits", res.CacheHits),
		zap.Int("skipped", len(res.Skipped)))
	return res, nil
}

// ParseSource extracts the classes of one in-memory Python source.
func ParseSource(ctx context.Context, path string, content []byte) ([]models.Class, error) {
	psr := parser.New()
	defer psr.Close()
	return parseClasses(ctx, psr, path, content)
}

func parseClasses(ctx context.Context, psr *parser.Parser, path string, content []byte) ([]models.Class, error) {
	res, err := psr.Parse(ctx, content, path)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	if res.HasErrors() {
		return nil, fmt.Errorf("%w near line %d", ErrSyntax, firstErrorLine(res))
	}
	return ExtractClasses(res), nil
}

// firstErrorLine returns the 1-based line of the first error node.
func firstErrorLine(res *parser.ParseResult) uint32 {
	var line uint32
	parser.WalkTyped(res.Root(), res.Source, func(node *sitter.Node, nodeType string, _ []byte) bool {
		if line != 0 {
			return false
		}
		if nodeType == "ERROR" || node.IsMissing() {
			line = node.StartPoint().Row + 1
			return false
		}
		return node.HasError()
	})
	return line
}
