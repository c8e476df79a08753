package mood

import (
	"testing"

	"github.com/panbanda/mood/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestClassifier_Own(t *testing.T) {
	base1 := sampleHierarchy()[0]
	own := NewClassifier("").Own(&base1)

	assert.Equal(t, []string{"__private", "test", "test2"}, own.Methods.sorted())
	assert.Equal(t, []string{"__private"}, own.HiddenMethods.sorted())
	assert.Equal(t, []string{"__test", "_name", "area"}, own.Attributes.sorted())
	assert.Equal(t, []string{"__test"}, own.HiddenAttributes.sorted())
	assert.Equal(t, own.Attributes.sorted(), own.ClassOnlyAttributes.sorted())
}

func TestClassifier_Own_NoMembers(t *testing.T) {
	empty := class("Empty", nil)
	own := NewClassifier(DefaultReceiver).Own(&empty)

	assert.Empty(t, own.Methods)
	assert.Empty(t, own.HiddenMethods)
	assert.Empty(t, own.Attributes)
	assert.Empty(t, own.HiddenAttributes)
	assert.Empty(t, own.ClassOnlyAttributes)
}

func TestClassifier_SetterStyleScansOnlyReceiverAssignments(t *testing.T) {
	cls := class("Config", nil,
		method("load_",
			selfAssign("path"),
			assign("other", "ignored"),
			other("if_statement"),
			selfAssign("__cache"),
		),
		field("DEFAULT"),
		field("__registry"),
	)
	own := NewClassifier("").Own(&cls)

	assert.Empty(t, own.Methods, "setter-style methods are not methods")
	assert.Equal(t, []string{"DEFAULT", "__cache", "__registry", "path"}, own.Attributes.sorted())
	assert.Equal(t, []string{"__cache", "__registry"}, own.HiddenAttributes.sorted())
}

func TestClassifier_OwnIgnoresDeclarationOrder(t *testing.T) {
	a := class("X", nil, method("b"), field("f"), method("_a"))
	b := class("X", nil, method("_a"), method("b"), field("f"))

	c := NewClassifier("")
	assert.Equal(t, c.Own(&a).Methods.sorted(), c.Own(&b).Methods.sorted())
	assert.Equal(t, c.Own(&a).Attributes.sorted(), c.Own(&b).Attributes.sorted())
}

func TestNamingConventions(t *testing.T) {
	tests := []struct {
		name         string
		setter       bool
		hiddenMethod bool
		hiddenAttr   bool
	}{
		{"run", false, false, false},
		{"_run", false, true, false},
		{"__run", false, true, true},
		{"__init__", true, true, true},
		{"configure_", true, false, false},
		{"_name", false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.setter, isSetterStyle(tt.name))
			assert.Equal(t, tt.hiddenMethod, isHiddenMethod(tt.name))
			assert.Equal(t, tt.hiddenAttr, isHiddenAttribute(tt.name))
		})
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		num, den int
		want     float64
	}{
		{0, 0, 0},
		{3, 0, 0},
		{0, 4, 0},
		{1, 3, 0.33},
		{2, 3, 0.67},
		{1, 8, 0.12},
		{3, 8, 0.38},
		{9, 13, 0.69},
		{4, 4, 1},
		{5, 2, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ratio(tt.num, tt.den), "ratio(%d, %d)", tt.num, tt.den)
	}
}

func TestTotals_Add(t *testing.T) {
	var totals Totals
	totals = totals.Add(models.MoodCounts{MethodsOriginal: 3, AttrsClassOnly: 3, MethodsHidden: 1}, 2)
	totals = totals.Add(models.MoodCounts{MethodsOriginal: 5, AttrsClassOnly: 2}, 0)

	assert.Equal(t, 6, totals.MethodsOriginal)
	assert.Equal(t, 5, totals.AttrsClassOnly)
	assert.Equal(t, 1, totals.MethodsHidden)
	assert.Equal(t, 0.17, totals.Factors().MHF)
}
