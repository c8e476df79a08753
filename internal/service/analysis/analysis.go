// Package analysis runs the scan, load and metrics pipeline shared by the
// CLI and the MCP server.
package analysis

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/panbanda/mood/internal/cache"
	"github.com/panbanda/mood/internal/scanner"
	"github.com/panbanda/mood/internal/vcs"
	"github.com/panbanda/mood/pkg/analyzer/mood"
	"github.com/panbanda/mood/pkg/config"
	"github.com/panbanda/mood/pkg/loader"
	"github.com/panbanda/mood/pkg/models"
	"github.com/panbanda/mood/pkg/source"
	"go.uber.org/zap"
)

// Service orchestrates class metrics analysis.
type Service struct {
	config *config.Config
	opener vcs.Opener
	logger *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

// WithOpener sets the VCS opener (for testing).
func WithOpener(opener vcs.Opener) Option {
	return func(s *Service) {
		s.opener = opener
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a new analysis service.
func New(opts ...Option) *Service {
	s := &Service{
		config: config.DefaultConfig(),
		opener: vcs.DefaultOpener(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the configuration in use.
func (s *Service) Config() *config.Config {
	return s.config
}

// Input is a resolved set of Python files and where to read them from.
type Input struct {
	Files  []string
	Source source.ContentSource
	// Ref is the git revision the files were read from, "" for the
	// working tree or inline sources.
	Ref string
}

// Resolve turns command-line paths into the Python files to analyze. With
// a ref, the files come from that git revision of the repository holding
// the first path; otherwise they are read from disk.
func (s *Service) Resolve(paths []string, ref string) (*Input, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	if ref != "" {
		return s.resolveRef(paths, ref)
	}

	files, err := scanner.NewScanner(s.config).Scan(paths)
	if err != nil {
		return nil, &ScanError{Path: paths[0], Err: err}
	}
	if limit := s.config.Analysis.MaxFileSize; limit > 0 {
		var skipped int
		files, skipped = scanner.FilterBySize(files, limit)
		if skipped > 0 {
			s.logger.Info("skipped oversized files", zap.Int("count", skipped), zap.Int64("max_file_size", limit))
		}
	}
	return &Input{Files: files, Source: source.NewFilesystem()}, nil
}

func (s *Service) resolveRef(paths []string, ref string) (*Input, error) {
	start, err := filepath.Abs(paths[0])
	if err != nil {
		return nil, &PathError{Path: paths[0], Err: err}
	}
	repo, err := s.opener.PlainOpenWithDetect(start)
	if err != nil {
		return nil, &GitError{Err: err}
	}
	tree, err := repo.ResolveTree(ref)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", ref, err)
	}
	entries, err := tree.Entries()
	if err != nil {
		return nil, fmt.Errorf("list tree of %s: %w", ref, err)
	}

	scan := scanner.NewScanner(s.config)
	seen := make(map[string]bool)
	var files []string
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, &PathError{Path: p, Err: err}
		}
		rel, err := filepath.Rel(repo.RepoPath(), abs)
		if err != nil {
			return nil, &PathError{Path: p, Err: err}
		}
		for _, f := range scan.ScanTree(entries, rel) {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	return &Input{Files: files, Source: source.NewTree(tree), Ref: ref}, nil
}

// Inline builds an input over source text keyed by file name, in name order.
func Inline(files map[string]string) *Input {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, filepath.ToSlash(name))
	}
	sort.Strings(names)
	return &Input{Files: names, Source: source.NewMemory(files)}
}

// LoadOptions configures Load.
type LoadOptions struct {
	NoCache    bool
	OnProgress func()
}

// Load parses the input's files into classes.
func (s *Service) Load(ctx context.Context, in *Input, opts LoadOptions) (*loader.Result, error) {
	c, err := cache.New(s.config.Cache.Dir, s.config.Cache.TTL, s.config.Cache.Enabled && !opts.NoCache)
	if err != nil {
		s.logger.Warn("parse cache unavailable", zap.String("dir", s.config.Cache.Dir), zap.Error(err))
		c = nil
	}

	l := loader.New(
		loader.WithSource(in.Source),
		loader.WithCache(c),
		loader.WithWorkers(s.config.Analysis.Workers),
		loader.WithMaxFileSize(s.config.Analysis.MaxFileSize),
		loader.WithProgress(opts.OnProgress),
		loader.WithLogger(s.logger),
	)
	return l.Load(ctx, in.Files)
}

// Analyze computes the metrics of the loaded classes.
func (s *Service) Analyze(ctx context.Context, classes []models.Class) (*mood.Analysis, error) {
	a := mood.New(
		mood.WithReceiver(s.config.Analysis.Receiver),
		mood.WithWorkers(s.config.Analysis.Workers),
		mood.WithLogger(s.logger),
	)
	return a.Analyze(ctx, classes)
}

// Graph builds the inheritance graph of the loaded classes.
func (s *Service) Graph(classes []models.Class, external bool) (*models.InheritanceGraph, error) {
	return mood.New(mood.WithLogger(s.logger)).Graph(classes, external)
}

// Result is one complete run.
type Result struct {
	Analysis *mood.Analysis
	Loaded   *loader.Result
}

// Run loads and analyzes in one step.
func (s *Service) Run(ctx context.Context, in *Input, opts LoadOptions) (*Result, error) {
	loaded, err := s.Load(ctx, in, opts)
	if err != nil {
		return nil, err
	}
	analysis, err := s.Analyze(ctx, loaded.Classes)
	if err != nil {
		return nil, err
	}
	return &Result{Analysis: analysis, Loaded: loaded}, nil
}
