package mood

import (
	"sort"
	"strings"

	"github.com/panbanda/mood/pkg/models"
)

// DefaultReceiver is the instance parameter name whose attribute
// assignments define instance attributes.
const DefaultReceiver = "self"

// nameSet is an unordered set of member names.
type nameSet map[string]struct{}

func (s nameSet) add(name string) { s[name] = struct{}{} }

func (s nameSet) has(name string) bool {
	_, ok := s[name]
	return ok
}

func (s nameSet) clone() nameSet {
	out := make(nameSet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

func (s nameSet) union(other nameSet) {
	for k := range other {
		s[k] = struct{}{}
	}
}

// intersectLen counts the names present in both sets.
func (s nameSet) intersectLen(other nameSet) int {
	n := 0
	for k := range s {
		if other.has(k) {
			n++
		}
	}
	return n
}

// sorted returns the names in lexical order, for stable output.
func (s nameSet) sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Naming conventions. Visibility is never stored, only derived from names.

// isSetterStyle reports a method whose trailing underscore marks it as
// defining instance attributes rather than being a callable member.
func isSetterStyle(name string) bool { return strings.HasSuffix(name, "_") }

func isHiddenMethod(name string) bool { return strings.HasPrefix(name, "_") }

func isHiddenAttribute(name string) bool { return strings.HasPrefix(name, "__") }

// OwnMembers is the Member Classifier output for a single class body.
type OwnMembers struct {
	Methods          nameSet
	HiddenMethods    nameSet
	Attributes       nameSet
	HiddenAttributes nameSet
	// ClassOnlyAttributes is Attributes before inherited attributes are merged.
	ClassOnlyAttributes nameSet
}

// Classifier splits class bodies into method and attribute sets.
type Classifier struct {
	receiver string
}

// NewClassifier returns a classifier treating `<receiver>.<attr> = ...` as
// an instance attribute definition. An empty receiver means "self".
func NewClassifier(receiver string) *Classifier {
	if receiver == "" {
		receiver = DefaultReceiver
	}
	return &Classifier{receiver: receiver}
}

// assignedAttributes returns the receiver attributes assigned at the top
// level of a method body, in statement order.
func (c *Classifier) assignedAttributes(m *models.Method) []string {
	var attrs []string
	for _, stmt := range m.Statements {
		switch s := stmt.(type) {
		case *models.AttributeAssignment:
			if s.Object == c.receiver {
				attrs = append(attrs, s.Attr)
			}
		case *models.OtherStatement:
		}
	}
	return attrs
}

// Own classifies the members declared directly in cls.
func (c *Classifier) Own(cls *models.Class) OwnMembers {
	own := OwnMembers{
		Methods:          make(nameSet),
		HiddenMethods:    make(nameSet),
		Attributes:       make(nameSet),
		HiddenAttributes: make(nameSet),
	}

	addAttribute := func(name string) {
		own.Attributes.add(name)
		if isHiddenAttribute(name) {
			own.HiddenAttributes.add(name)
		}
	}

	for _, member := range cls.Members {
		switch m := member.(type) {
		case *models.Method:
			if isSetterStyle(m.Name) {
				for _, attr := range c.assignedAttributes(m) {
					addAttribute(attr)
				}
				continue
			}
			own.Methods.add(m.Name)
			if isHiddenMethod(m.Name) {
				own.HiddenMethods.add(m.Name)
			}
		case *models.FieldAssignment:
			addAttribute(m.Name)
		}
	}

	own.ClassOnlyAttributes = own.Attributes.clone()
	return own
}

// inheritable adds the members an ancestor exposes to its descendants.
// Underscore methods stay private to the ancestor, but the attributes they
// assign are inherited unless double-underscored. Any other method is
// inherited as-is, setter-style or not.
func (c *Classifier) inheritable(ancestor *models.Class, methods, attrs nameSet) {
	for _, member := range ancestor.Members {
		switch m := member.(type) {
		case *models.Method:
			if isHiddenMethod(m.Name) {
				for _, attr := range c.assignedAttributes(m) {
					if !isHiddenAttribute(attr) {
						attrs.add(attr)
					}
				}
				continue
			}
			methods.add(m.Name)
		case *models.FieldAssignment:
			if !isHiddenAttribute(m.Name) {
				attrs.add(m.Name)
			}
		}
	}
}
