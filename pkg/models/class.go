package models

import (
	"encoding/json"
	"fmt"
)

// Class is the declarative model of one class declaration: its name, the
// ordered base references and the ordered class-body members.
// A Class is immutable once loaded.
type Class struct {
	Name    string    `json:"name"`
	Path    string    `json:"path,omitempty"`
	Line    uint32    `json:"line,omitempty"`
	Bases   []BaseRef `json:"bases,omitempty"`
	Members []Member  `json:"-"`
}

// BaseKind distinguishes a bare base name from a qualified one.
type BaseKind string

const (
	BaseName      BaseKind = "name"      // Base
	BaseQualified BaseKind = "qualified" // module.Base
)

// BaseRef is a syntactic reference to a parent class.
type BaseRef struct {
	Kind BaseKind `json:"kind"`
	// Name is the bare name, or the trailing component of a qualified reference.
	Name string `json:"name"`
	// Qualifier holds everything before the trailing component ("pkg.mod").
	Qualifier string `json:"qualifier,omitempty"`
}

// NewBase returns a bare base reference.
func NewBase(name string) BaseRef {
	return BaseRef{Kind: BaseName, Name: name}
}

// NewQualifiedBase returns a qualified base reference.
func NewQualifiedBase(qualifier, name string) BaseRef {
	return BaseRef{Kind: BaseQualified, Name: name, Qualifier: qualifier}
}

// String renders the reference as written in source.
func (b BaseRef) String() string {
	if b.Kind == BaseQualified && b.Qualifier != "" {
		return b.Qualifier + "." + b.Name
	}
	return b.Name
}

// Member is a class-body element. The set of implementations is closed:
// *Method and *FieldAssignment.
type Member interface {
	member()
}

// Method is a function defined in a class body.
type Method struct {
	Name       string
	Statements []Statement
}

// FieldAssignment is a simple class-level assignment (a class attribute).
type FieldAssignment struct {
	Name string
}

func (*Method) member()          {}
func (*FieldAssignment) member() {}

// Statement is a top-level statement of a method body. The set of
// implementations is closed: *AttributeAssignment and *OtherStatement.
type Statement interface {
	statement()
}

// AttributeAssignment is `<Object>.<Attr> = ...`.
type AttributeAssignment struct {
	Object string
	Attr   string
}

// OtherStatement is any statement the metrics never look into.
type OtherStatement struct {
	Kind string
}

func (*AttributeAssignment) statement() {}
func (*OtherStatement) statement()      {}

// Wire forms for the parse cache and structured output.

type memberJSON struct {
	Kind       string          `json:"kind"`
	Name       string          `json:"name"`
	Statements []statementJSON `json:"statements,omitempty"`
}

type statementJSON struct {
	Kind   string `json:"kind"`
	Object string `json:"object,omitempty"`
	Attr   string `json:"attr,omitempty"`
}

const (
	memberMethod = "method"
	memberField  = "field"
	stmtAssign   = "attribute_assignment"
)

type classJSON struct {
	Name    string       `json:"name"`
	Path    string       `json:"path,omitempty"`
	Line    uint32       `json:"line,omitempty"`
	Bases   []BaseRef    `json:"bases,omitempty"`
	Members []memberJSON `json:"members,omitempty"`
}

// MarshalJSON encodes the closed member variants with an explicit kind tag.
func (c Class) MarshalJSON() ([]byte, error) {
	out := classJSON{Name: c.Name, Path: c.Path, Line: c.Line, Bases: c.Bases}
	for _, m := range c.Members {
		switch m := m.(type) {
		case *Method:
			mj := memberJSON{Kind: memberMethod, Name: m.Name}
			for _, s := range m.Statements {
				switch s := s.(type) {
				case *AttributeAssignment:
					mj.Statements = append(mj.Statements, statementJSON{Kind: stmtAssign, Object: s.Object, Attr: s.Attr})
				case *OtherStatement:
					mj.Statements = append(mj.Statements, statementJSON{Kind: s.Kind})
				}
			}
			out.Members = append(out.Members, mj)
		case *FieldAssignment:
			out.Members = append(out.Members, memberJSON{Kind: memberField, Name: m.Name})
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (c *Class) UnmarshalJSON(data []byte) error {
	var in classJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*c = Class{Name: in.Name, Path: in.Path, Line: in.Line, Bases: in.Bases}
	for _, mj := range in.Members {
		switch mj.Kind {
		case memberMethod:
			m := &Method{Name: mj.Name}
			for _, sj := range mj.Statements {
				if sj.Kind == stmtAssign {
					m.Statements = append(m.Statements, &AttributeAssignment{Object: sj.Object, Attr: sj.Attr})
				} else {
					m.Statements = append(m.Statements, &OtherStatement{Kind: sj.Kind})
				}
			}
			c.Members = append(c.Members, m)
		case memberField:
			c.Members = append(c.Members, &FieldAssignment{Name: mj.Name})
		default:
			return fmt.Errorf("class %s: unknown member kind %q", in.Name, mj.Kind)
		}
	}
	return nil
}
