package mood

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/panbanda/mood/pkg/models"
)

// ratio returns numerator/denominator in [0, 1], rounded half-to-even to two
// decimals. A zero denominator yields 0.
func ratio(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	r := float64(numerator) / float64(denominator)
	if r > 1 {
		r = 1
	}
	if r < 0 {
		r = 0
	}
	return math.RoundToEven(r*100) / 100
}

// FactorsOf applies the MOOD formulas to raw counts.
func FactorsOf(c models.MoodCounts) models.Factors {
	return models.Factors{
		MIF: ratio(c.MethodsNotOverridden, c.MethodsTotal),
		MHF: ratio(c.MethodsHidden, c.MethodsOriginal),
		AIF: ratio(c.AttrsNotOverridden, c.AttrsTotal),
		AHF: ratio(c.AttrsHidden, c.AttrsClassOnly),
	}
}

// MemberBreakdown is the detailed set view behind one class's counts.
type MemberBreakdown struct {
	OwnMethods          []string `json:"own_methods,omitempty"`
	InheritedMethods    []string `json:"inherited_methods,omitempty"`
	OverriddenMethods   []string `json:"overridden_methods,omitempty"`
	HiddenMethods       []string `json:"hidden_methods,omitempty"`
	OwnAttributes       []string `json:"own_attributes,omitempty"`
	InheritedAttributes []string `json:"inherited_attributes,omitempty"`
	HiddenAttributes    []string `json:"hidden_attributes,omitempty"`
}

// countMembers reconciles cls's own members with those inherited from the
// given ancestors and returns the MOOD counts.
func (c *Classifier) countMembers(cls *models.Class, ancestors *roaring.Bitmap, idx *Index) (models.MoodCounts, MemberBreakdown) {
	own := c.Own(cls)

	inheritedMethods := make(nameSet)
	inheritedAttrs := make(nameSet)
	it := ancestors.Iterator()
	for it.HasNext() {
		c.inheritable(idx.Class(it.Next()), inheritedMethods, inheritedAttrs)
	}

	methods := own.Methods.clone()
	methods.union(inheritedMethods)
	overriddenMethods := inheritedMethods.intersectLen(own.Methods)

	original := 0
	for name := range methods {
		if !inheritedMethods.has(name) {
			original++
		}
	}

	attrs := own.Attributes.clone()
	attrs.union(inheritedAttrs)
	overriddenAttrs := inheritedAttrs.intersectLen(own.Attributes)

	counts := models.MoodCounts{
		MethodsTotal:         len(methods),
		MethodsHidden:        len(own.HiddenMethods),
		MethodsOverridden:    overriddenMethods,
		MethodsNotOverridden: len(inheritedMethods) - overriddenMethods,
		MethodsOriginal:      original,
		AttrsTotal:           len(attrs),
		AttrsHidden:          len(own.HiddenAttributes),
		AttrsClassOnly:       len(own.ClassOnlyAttributes),
		AttrsNotOverridden:   len(inheritedAttrs) - overriddenAttrs,
	}

	overridden := make(nameSet)
	for name := range inheritedMethods {
		if own.Methods.has(name) {
			overridden.add(name)
		}
	}

	breakdown := MemberBreakdown{
		OwnMethods:          own.Methods.sorted(),
		InheritedMethods:    inheritedMethods.sorted(),
		OverriddenMethods:   overridden.sorted(),
		HiddenMethods:       own.HiddenMethods.sorted(),
		OwnAttributes:       own.ClassOnlyAttributes.sorted(),
		InheritedAttributes: inheritedAttrs.sorted(),
		HiddenAttributes:    own.HiddenAttributes.sorted(),
	}
	return counts, breakdown
}
