// Package mood computes inheritance and encapsulation metrics over a set of
// class models: Depth of Inheritance Tree, Number of Children and the MOOD
// factors (method/attribute inheritance and hiding).
package mood

import (
	"context"
	"fmt"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/panbanda/mood/pkg/models"
	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"
)

// Analyzer computes DIT, NOC and MOOD metrics for a corpus of classes.
// An Analyzer holds no per-run state and may be reused concurrently.
type Analyzer struct {
	receiver  string
	workers   int
	breakdown bool
	logger    *zap.Logger
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithReceiver sets the instance parameter name used to recognise
// attribute assignments in setter-style methods (default "self").
func WithReceiver(name string) Option {
	return func(a *Analyzer) {
		a.receiver = name
	}
}

// WithWorkers caps the goroutines used for per-class computation
// (0 = GOMAXPROCS).
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		a.workers = n
	}
}

// WithBreakdown attaches the member sets behind each class's counts.
func WithBreakdown() Option {
	return func(a *Analyzer) {
		a.breakdown = true
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates a new MOOD analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		receiver: DefaultReceiver,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// classInput is the hierarchy data resolved for one class before the
// parallel member reconciliation.
type classInput struct {
	id        uint32
	dit       int
	noc       int
	ancestors *roaring.Bitmap
}

// Analyze computes the metrics of every class, in input order, plus the
// corpus totals. It fails only on cyclic inheritance.
func (a *Analyzer) Analyze(ctx context.Context, classes []models.Class) (*Analysis, error) {
	idx := NewIndex(classes)
	if err := idx.Validate(); err != nil {
		return nil, err
	}

	h := NewHierarchy(idx)
	inputs := make([]classInput, idx.Len())
	for i := range inputs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		id := uint32(i)
		dit, err := h.DIT(id)
		if err != nil {
			return nil, err
		}
		ancestors, err := h.Ancestors(id)
		if err != nil {
			return nil, err
		}
		inputs[i] = classInput{id: id, dit: dit, noc: h.NOC(id), ancestors: ancestors}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	classifier := NewClassifier(a.receiver)
	mapper := iter.Mapper[classInput, ClassMetrics]{MaxGoroutines: a.workers}
	results := mapper.Map(inputs, func(in *classInput) ClassMetrics {
		cls := idx.Class(in.id)
		counts, breakdown := classifier.countMembers(cls, in.ancestors, idx)
		m := ClassMetrics{
			ClassName: cls.Name,
			Path:      cls.Path,
			Line:      cls.Line,
			DIT:       in.dit,
			NOC:       in.noc,
			Factors:   FactorsOf(counts),
			Counts:    counts,
		}
		if a.breakdown {
			m.Breakdown = &breakdown
		}
		return m
	})

	for _, m := range results {
		a.logger.Debug("class metrics",
			zap.String("class", m.ClassName),
			zap.Int("dit", m.DIT),
			zap.Int("noc", m.NOC),
			zap.Float64("mif", m.MIF),
			zap.Float64("mhf", m.MHF),
			zap.Float64("aif", m.AIF),
			zap.Float64("ahf", m.AHF))
	}

	totals := Aggregate(results)
	return &Analysis{
		GeneratedAt: time.Now().UTC(),
		Classes:     results,
		Totals:      totals,
		Total:       totals.Factors(),
	}, nil
}

// Graph builds the inheritance graph of classes, failing on cycles. With
// external set, bases outside the corpus appear as external nodes.
func (a *Analyzer) Graph(classes []models.Class, external bool) (*models.InheritanceGraph, error) {
	idx := NewIndex(classes)
	if err := idx.Validate(); err != nil {
		return nil, fmt.Errorf("inheritance graph: %w", err)
	}
	return BuildGraph(idx, external), nil
}
