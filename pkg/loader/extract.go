package loader

import (
	"github.com/panbanda/mood/pkg/models"
	"github.com/panbanda/mood/pkg/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// Python grammar node types the extractor inspects.
const (
	nodeClass      = "class_definition"
	nodeFunction   = "function_definition"
	nodeDecorated  = "decorated_definition"
	nodeExpression = "expression_statement"
	nodeAssignment = "assignment"
	nodeIdentifier = "identifier"
	nodeAttribute  = "attribute"
	nodeComment    = "comment"
)

// ExtractClasses returns the module-level classes of a parsed Python file in
// source order. Classes nested in functions, conditionals or other classes
// are not part of the module body and are not returned.
func ExtractClasses(res *parser.ParseResult) []models.Class {
	var classes []models.Class
	for _, node := range parser.NamedChildren(res.Root()) {
		if def := unwrapDecorated(node); def != nil && def.Type() == nodeClass {
			classes = append(classes, extractClass(def, res))
		}
	}
	return classes
}

// unwrapDecorated returns the definition under any decorators.
func unwrapDecorated(node *sitter.Node) *sitter.Node {
	if node != nil && node.Type() == nodeDecorated {
		return node.ChildByFieldName("definition")
	}
	return node
}

func extractClass(def *sitter.Node, res *parser.ParseResult) models.Class {
	cls := models.Class{
		Name: parser.FieldText(def, "name", res.Source),
		Path: res.Path,
		Line: def.StartPoint().Row + 1,
	}

	for _, arg := range parser.NamedChildren(def.ChildByFieldName("superclasses")) {
		if ref, ok := baseRef(arg, res.Source); ok {
			cls.Bases = append(cls.Bases, ref)
		}
	}

	for _, stmt := range parser.NamedChildren(def.ChildByFieldName("body")) {
		switch node := unwrapDecorated(stmt); {
		case node == nil:
		case node.Type() == nodeFunction:
			cls.Members = append(cls.Members, extractMethod(node, res.Source))
		case node.Type() == nodeExpression:
			if name, ok := fieldTarget(node, res.Source); ok {
				cls.Members = append(cls.Members, &models.FieldAssignment{Name: name})
			}
		}
	}
	return cls
}

// baseRef converts one superclass argument. Keyword arguments, calls,
// subscripts and splats name no class and are dropped.
func baseRef(node *sitter.Node, source []byte) (models.BaseRef, bool) {
	switch node.Type() {
	case nodeIdentifier:
		return models.NewBase(parser.GetNodeText(node, source)), true
	case nodeAttribute:
		if !isDottedName(node) {
			return models.BaseRef{}, false
		}
		return models.NewQualifiedBase(
			parser.FieldText(node, "object", source),
			parser.FieldText(node, "attribute", source),
		), true
	default:
		return models.BaseRef{}, false
	}
}

// isDottedName reports whether node is a plain a.b.c chain.
func isDottedName(node *sitter.Node) bool {
	switch node.Type() {
	case nodeIdentifier:
		return true
	case nodeAttribute:
		attr := node.ChildByFieldName("attribute")
		return attr != nil && attr.Type() == nodeIdentifier && isDottedName(node.ChildByFieldName("object"))
	default:
		return false
	}
}

func extractMethod(def *sitter.Node, source []byte) *models.Method {
	m := &models.Method{Name: parser.FieldText(def, "name", source)}
	for _, stmt := range parser.NamedChildren(def.ChildByFieldName("body")) {
		if stmt.Type() == nodeComment {
			continue
		}
		if object, attr, ok := attributeTarget(stmt, source); ok {
			m.Statements = append(m.Statements, &models.AttributeAssignment{Object: object, Attr: attr})
			continue
		}
		m.Statements = append(m.Statements, &models.OtherStatement{Kind: stmt.Type()})
	}
	return m
}

// plainAssignment returns the assignment held by an expression statement,
// provided it carries no type annotation.
func plainAssignment(stmt *sitter.Node) *sitter.Node {
	if stmt.Type() != nodeExpression || stmt.NamedChildCount() == 0 {
		return nil
	}
	assign := stmt.NamedChild(0)
	if assign.Type() != nodeAssignment || assign.ChildByFieldName("type") != nil {
		return nil
	}
	return assign
}

// fieldTarget matches `name = ...` at class level. In chained assignments
// only the first target counts.
func fieldTarget(stmt *sitter.Node, source []byte) (string, bool) {
	assign := plainAssignment(stmt)
	if assign == nil {
		return "", false
	}
	left := assign.ChildByFieldName("left")
	if left == nil || left.Type() != nodeIdentifier {
		return "", false
	}
	return parser.GetNodeText(left, source), true
}

// attributeTarget matches `obj.attr = ...` in a method body.
func attributeTarget(stmt *sitter.Node, source []byte) (object, attr string, ok bool) {
	assign := plainAssignment(stmt)
	if assign == nil {
		return "", "", false
	}
	left := assign.ChildByFieldName("left")
	if left == nil || left.Type() != nodeAttribute {
		return "", "", false
	}
	return parser.FieldText(left, "object", source), parser.FieldText(left, "attribute", source), true
}
