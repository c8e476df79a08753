package mood

import "github.com/panbanda/mood/pkg/models"

// Helpers building class models the way the Python loader would.

func method(name string, stmts ...models.Statement) *models.Method {
	return &models.Method{Name: name, Statements: stmts}
}

func assign(obj, attr string) *models.AttributeAssignment {
	return &models.AttributeAssignment{Object: obj, Attr: attr}
}

func selfAssign(attr string) *models.AttributeAssignment {
	return assign("self", attr)
}

func other(kind string) *models.OtherStatement {
	return &models.OtherStatement{Kind: kind}
}

func field(name string) *models.FieldAssignment {
	return &models.FieldAssignment{Name: name}
}

func class(name string, bases []models.BaseRef, members ...models.Member) models.Class {
	return models.Class{Name: name, Bases: bases, Members: members}
}

func bases(names ...string) []models.BaseRef {
	refs := make([]models.BaseRef, 0, len(names))
	for _, n := range names {
		refs = append(refs, models.NewBase(n))
	}
	return refs
}

// sampleHierarchy mirrors:
//
//	class Base1:
//	    def __init__(self, name):
//	        self._name = name
//	        self.area = 0
//	        self.__test = "test"
//	    def test(self): pass
//	    def __private(self): print("private")
//	    def test2(self): pass
//	class Base2: pass
//	class A1(Base1):
//	    def test2(self):
//	        self.area = 1
//	    def test4(self): pass
//	    def _t_protected(): print("protected")
//	class A2(Base1): pass
//	class B1(A1):
//	    class_attribute = "test"
//	class C1(B1):
//	    def test(self): pass
//	    def test3(self): pass
func sampleHierarchy() []models.Class {
	return []models.Class{
		class("Base1", nil,
			method("__init__", selfAssign("_name"), selfAssign("area"), selfAssign("__test")),
			method("test", other("pass_statement")),
			method("__private", other("expression_statement")),
			method("test2", other("pass_statement")),
		),
		class("Base2", nil),
		class("A1", bases("Base1"),
			method("test2", selfAssign("area"), other("pass_statement")),
			method("test4", other("pass_statement")),
			method("_t_protected", other("expression_statement")),
		),
		class("A2", bases("Base1")),
		class("B1", bases("A1"),
			field("class_attribute"),
		),
		class("C1", bases("B1"),
			method("test", other("pass_statement")),
			method("test3", other("pass_statement")),
		),
	}
}
