package analysis

import (
	"context"
	"io"

	"github.com/panbanda/mood/internal/remote"
	"go.uber.org/zap"
)

// Fetch clones every path that names a remote repository (owner/repo,
// host/owner/repo or a git URL, each with an optional @ref) and returns the
// paths to scan, clones replaced by their checkout directory. The returned
// cleanup removes the clones and is never nil.
func (s *Service) Fetch(ctx context.Context, paths []string, progress io.Writer) ([]string, func(), error) {
	var clones []*remote.Source
	cleanup := func() {
		for _, src := range clones {
			if err := src.Cleanup(); err != nil {
				s.logger.Warn("remove clone", zap.String("url", src.URL), zap.Error(err))
			}
		}
	}

	local := make([]string, 0, len(paths))
	for _, p := range paths {
		src, err := remote.Parse(p)
		if err != nil {
			cleanup()
			return nil, func() {}, &PathError{Path: p, Err: err}
		}
		if src == nil {
			local = append(local, p)
			continue
		}

		s.logger.Info("cloning", zap.String("url", src.URL), zap.String("ref", src.Ref))
		err = src.Clone(ctx, progress, true)
		if err != nil && src.Ref != "" {
			// A commit SHA needs the full history.
			_ = src.Cleanup()
			err = src.Clone(ctx, progress, false)
		}
		if err != nil {
			_ = src.Cleanup()
			cleanup()
			return nil, func() {}, &GitError{Err: err}
		}
		clones = append(clones, src)
		local = append(local, src.CloneDir)
	}
	return local, cleanup, nil
}
