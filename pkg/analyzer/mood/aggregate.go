package mood

import "github.com/panbanda/mood/pkg/models"

// Totals accumulates corpus-wide MOOD counts.
//
// MethodsOriginal is weighted: each class's original-method count is
// multiplied by its NOC before being added. AttrsClassOnly is summed
// without weighting.
type Totals struct {
	models.MoodCounts
}

// Add folds one class's counts into the running totals and returns the
// updated accumulator.
func (t Totals) Add(c models.MoodCounts, noc int) Totals {
	t.MethodsTotal += c.MethodsTotal
	t.MethodsHidden += c.MethodsHidden
	t.MethodsOverridden += c.MethodsOverridden
	t.MethodsNotOverridden += c.MethodsNotOverridden
	t.MethodsOriginal += c.MethodsOriginal * noc

	t.AttrsTotal += c.AttrsTotal
	t.AttrsHidden += c.AttrsHidden
	t.AttrsClassOnly += c.AttrsClassOnly
	t.AttrsNotOverridden += c.AttrsNotOverridden
	return t
}

// Factors applies the per-class formulas to the totals.
func (t Totals) Factors() models.Factors {
	return FactorsOf(t.MoodCounts)
}

// Aggregate folds per-class results into corpus totals.
func Aggregate(classes []ClassMetrics) Totals {
	var t Totals
	for _, cls := range classes {
		t = t.Add(cls.Counts, cls.NOC)
	}
	return t
}
