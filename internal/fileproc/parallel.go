// Package fileproc provides concurrent file processing utilities.
package fileproc

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/panbanda/mood/pkg/parser"
	"github.com/panbanda/mood/pkg/source"
	"github.com/sourcegraph/conc/pool"
)

// ErrTooLarge marks a file skipped for exceeding the size limit.
var ErrTooLarge = errors.New("file exceeds size limit")

// ProcessingError represents an error that occurred while processing a file.
type ProcessingError struct {
	Path string
	Err  error
}

func (e ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e ProcessingError) Unwrap() error {
	return e.Err
}

// ProcessingErrors collects multiple file processing errors.
type ProcessingErrors struct {
	Errors []ProcessingError
	mu     sync.Mutex
}

// Add appends an error to the collection (thread-safe).
func (e *ProcessingErrors) Add(path string, err error) {
	e.mu.Lock()
	e.Errors = append(e.Errors, ProcessingError{Path: path, Err: err})
	e.mu.Unlock()
}

// HasErrors returns true if any errors were collected.
func (e *ProcessingErrors) HasErrors() bool {
	if e == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Errors) > 0
}

// Error implements the error interface.
func (e *ProcessingErrors) Error() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d files failed to process (first: %v)", len(e.Errors), e.Errors[0])
}

// DefaultWorkerMultiplier is the multiplier applied to NumCPU for worker count.
// 2x is optimal for mixed I/O and CGO workloads.
const DefaultWorkerMultiplier = 2

// ProgressFunc is called after each file is processed.
type ProgressFunc func()

// Options tunes MapSourceFiles.
type Options struct {
	// Workers caps concurrency; <= 0 means 2x NumCPU.
	Workers int
	// MaxSize skips files larger than this many bytes; 0 disables the limit.
	MaxSize int64
	// OnProgress is called once per file, processed or not.
	OnProgress ProgressFunc
}

// fileWithContent holds a file path and its content.
type fileWithContent struct {
	index   int
	path    string
	content []byte
}

// MapSourceFiles reads files from src and calls fn for each with a pooled
// parser. results[i] belongs to files[i]; a file that could not be read,
// exceeded the size limit or made fn fail keeps T's zero value and is
// reported in the returned ProcessingErrors (nil when none). The error is
// non-nil only when ctx was canceled.
func MapSourceFiles[T any](
	ctx context.Context,
	files []string,
	src source.ContentSource,
	opts Options,
	fn func(*parser.Parser, string, []byte) (T, error),
) ([]T, *ProcessingErrors, error) {
	results := make([]T, len(files))
	errs := &ProcessingErrors{}
	tick := func() {
		if opts.OnProgress != nil {
			opts.OnProgress()
		}
	}

	// Read sequentially: git tree access is not concurrent.
	pending := make([]fileWithContent, 0, len(files))
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return results, nilIfEmpty(errs), err
		}
		content, err := src.Read(path)
		if err != nil {
			errs.Add(path, err)
			tick()
			continue
		}
		if opts.MaxSize > 0 && int64(len(content)) > opts.MaxSize {
			errs.Add(path, fmt.Errorf("%w (%d > %d bytes)", ErrTooLarge, len(content), opts.MaxSize))
			tick()
			continue
		}
		pending = append(pending, fileWithContent{index: i, path: path, content: content})
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU() * DefaultWorkerMultiplier
	}
	parsers := newParserPool(min(workers, max(len(pending), 1)))
	defer parsers.close()

	p := pool.New().WithMaxGoroutines(workers).WithContext(ctx)
	for _, fc := range pending {
		p.Go(func(ctx context.Context) error {
			defer tick()

			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			psr := parsers.get()
			defer parsers.put(psr)

			result, err := fn(psr, fc.path, fc.content)
			if err != nil {
				errs.Add(fc.path, err)
				return nil
			}
			results[fc.index] = result
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return results, nilIfEmpty(errs), err
	}
	return results, nilIfEmpty(errs), ctx.Err()
}

func nilIfEmpty(errs *ProcessingErrors) *ProcessingErrors {
	if !errs.HasErrors() {
		return nil
	}
	return errs
}

// parserPool hands out tree-sitter parsers, one per concurrent worker.
type parserPool struct {
	parsers chan *parser.Parser
	mu      sync.Mutex
	created []*parser.Parser
}

func newParserPool(size int) *parserPool {
	return &parserPool{parsers: make(chan *parser.Parser, size)}
}

func (p *parserPool) get() *parser.Parser {
	select {
	case psr := <-p.parsers:
		return psr
	default:
	}
	psr := parser.New()
	p.mu.Lock()
	p.created = append(p.created, psr)
	p.mu.Unlock()
	return psr
}

func (p *parserPool) put(psr *parser.Parser) {
	select {
	case p.parsers <- psr:
	default:
		// Pool full: the parser stays in created and is closed with the rest.
	}
}

func (p *parserPool) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, psr := range p.created {
		psr.Close()
	}
	p.created = nil
}
