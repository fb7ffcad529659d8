package check

import (
	"oolangc/ast"
	"oolangc/symtab"
)

// resolveExpr resolves n's data type, annotating it with "data_type" and,
// when it produces a runtime value, a "label" naming a freshly allocated
// Literal or Temporary entry (SPEC_FULL.md §4.6). On error it annotates
// "data_type" as errorType so callers can keep walking without cascading
// nil checks, and without confusing a genuine error with a void call's
// legitimate "" return type.
func (c *checker) resolveExpr(ctx *funcCtx, n *ast.Node) string {
	switch n.Kind {
	case "intLit":
		lit := &symtab.Literal{Id: nextLiteralID(ctx.fn), Kind: symtab.IntegerLiteral, IntVal: n.Payload.IntVal, Line: n.Line, Col: n.Col}
		lit.ComputedSize()
		ctx.fn.Table.Add(lit)
		return c.annotate(n, "integer", entryLabel(ctx, lit, nil))

	case "floatLit":
		lit := &symtab.Literal{Id: nextLiteralID(ctx.fn), Kind: symtab.RealLiteral, RealVal: n.Payload.FloatVal, Line: n.Line, Col: n.Col}
		lit.ComputedSize()
		ctx.fn.Table.Add(lit)
		return c.annotate(n, "float", entryLabel(ctx, lit, nil))

	case "strLit":
		lit := &symtab.Literal{Id: nextLiteralID(ctx.fn), Kind: symtab.StringLiteral, StrVal: n.Payload.StringVal, Line: n.Line, Col: n.Col}
		lit.ComputedSize()
		ctx.fn.Table.Add(lit)
		return c.annotate(n, "string", entryLabel(ctx, lit, nil))

	case "varElement":
		return c.resolveVarElement(ctx, n)

	case "call":
		return c.resolveCall(ctx, n)

	default:
		if arithmeticOps[n.Kind] {
			return c.resolveArithmetic(ctx, n)
		}
		if relationalOps[n.Kind] {
			return c.resolveRelational(ctx, n)
		}
		c.errorf(n.Line, n.Col, "MalformedAst", "unrecognized expression node kind %q", n.Kind)
		return c.annotate(n, errorType, "")
	}
}

func (c *checker) annotate(n *ast.Node, dataType, label string) string {
	n.Annotate("data_type", dataType)
	if label != "" {
		n.Annotate("label", label)
	}
	return dataType
}

func (c *checker) resolveArithmetic(ctx *funcCtx, n *ast.Node) string {
	view, err := ast.AsBinaryOp(n)
	if err != nil {
		c.errorf(n.Line, n.Col, "MalformedAst", "%s", err)
		return c.annotate(n, errorType, "")
	}
	lt := c.resolveExpr(ctx, view.Left)
	rt := c.resolveExpr(ctx, view.Right)
	if lt == errorType || rt == errorType {
		return c.annotate(n, errorType, "")
	}
	if lt != rt {
		c.errorf(n.Line, n.Col, "BinaryMismatchedTypes",
			"operator %q requires operands of the same type, got %q and %q", n.Kind, lt, rt)
		return c.annotate(n, errorType, "")
	}
	if booleanArithmeticOps[n.Kind] && lt != "integer" {
		c.errorf(n.Line, n.Col, "IntegerOperandRequired",
			"operator %q requires integer operands, got %q", n.Kind, lt)
		return c.annotate(n, errorType, "")
	}
	if lt != "integer" && lt != "float" {
		c.errorf(n.Line, n.Col, "NonNumericOperand",
			"operator %q requires numeric operands, got %q", n.Kind, lt)
		return c.annotate(n, errorType, "")
	}
	tmp := &symtab.Temporary{Id: nextTempID(ctx.fn), DataType: lt}
	tmp.ComputedSize()
	ctx.fn.Table.Add(tmp)
	return c.annotate(n, lt, entryLabel(ctx, tmp, nil))
}

func (c *checker) resolveRelational(ctx *funcCtx, n *ast.Node) string {
	view, err := ast.AsBinaryOp(n)
	if err != nil {
		c.errorf(n.Line, n.Col, "MalformedAst", "%s", err)
		return c.annotate(n, errorType, "")
	}
	lt := c.resolveExpr(ctx, view.Left)
	rt := c.resolveExpr(ctx, view.Right)
	if lt == errorType || rt == errorType {
		return c.annotate(n, errorType, "")
	}
	if lt != rt {
		c.errorf(n.Line, n.Col, "BinaryMismatchedTypes",
			"operator %q requires operands of the same type, got %q and %q", n.Kind, lt, rt)
		return c.annotate(n, errorType, "")
	}
	if lt != "integer" && lt != "float" {
		c.errorf(n.Line, n.Col, "NonNumericOperand",
			"operator %q requires integer or float operands, got %q", n.Kind, lt)
		return c.annotate(n, errorType, "")
	}
	tmp := &symtab.Temporary{Id: nextTempID(ctx.fn), DataType: lt}
	tmp.ComputedSize()
	ctx.fn.Table.Add(tmp)
	return c.annotate(n, lt, entryLabel(ctx, tmp, nil))
}

// resolveVarElement resolves an identifier reference, searching the
// current function's own table first, then — inside a method — the
// owning class's fields and its ancestors (SPEC_FULL.md §4.6).
func (c *checker) resolveVarElement(ctx *funcCtx, n *ast.Node) string {
	view, err := ast.AsVarElement(n)
	if err != nil {
		c.errorf(n.Line, n.Col, "MalformedAst", "%s", err)
		return c.annotate(n, errorType, "")
	}
	id := view.ID.Payload.StringVal
	entry, owner := lookupIdentifier(ctx, id)
	if entry == nil {
		c.errorf(n.Line, n.Col, "UndefinedIdentifier", "Undefined identifier %q", id)
		return c.annotate(n, errorType, "")
	}
	base, rank := entryTypeInfo(entry)

	indices := view.Indices.Children()
	for _, idx := range indices {
		if t := c.resolveExpr(ctx, idx); t != "integer" {
			c.errorf(idx.Line, idx.Col, "IndexMustBeInteger", "array index must be of type integer, got %q", t)
		}
	}
	if len(indices) != 0 && len(indices) != rank {
		c.errorf(n.Line, n.Col, "ArrayRankMismatch",
			"identifier %q has %d dimensions, indexed with %d", id, rank, len(indices))
		return c.annotate(n, errorType, "")
	}

	resultType := base
	if len(indices) == 0 {
		resultType = typeWithRank(base, rank)
	}
	return c.annotate(n, resultType, entryLabel(ctx, entry, owner))
}

// lookupIdentifier implements SPEC_FULL.md §4.6's variable lookup order:
// the current function's table, then (inside a method) the class's own
// fields, then recursively through inherited classes. owner is nil for a
// match in the function's own table.
func lookupIdentifier(ctx *funcCtx, id string) (symtab.Entry, *symtab.Class) {
	if e := ctx.fn.Table.Get(id); e != nil {
		return e, nil
	}
	if ctx.class == nil {
		return nil, nil
	}
	if e := ctx.class.Table.Get(id); e != nil {
		if _, ok := e.(*symtab.Data); ok {
			return e, ctx.class
		}
	}
	return findInheritedField(ctx.global, ctx.class, id, map[string]bool{ctx.class.Id: true})
}

// findInheritedField walks cls's ancestor classes depth-first, guarded by
// visited, looking for a Data field named id — the same cycle-guarded
// traversal shape as symtab.GetAllInherited, but also reporting which
// ancestor owns the match (needed to mangle the field's storage label).
func findInheritedField(global *symtab.Table, cls *symtab.Class, id string, visited map[string]bool) (symtab.Entry, *symtab.Class) {
	for _, parentName := range cls.Table.Inherits() {
		if visited[parentName] {
			continue
		}
		visited[parentName] = true
		parent, ok := global.Get(parentName).(*symtab.Class)
		if !ok {
			continue
		}
		if e := parent.Table.Get(id); e != nil {
			if _, ok := e.(*symtab.Data); ok {
				return e, parent
			}
		}
		if e, owner := findInheritedField(global, parent, id, visited); e != nil {
			return e, owner
		}
	}
	return nil, nil
}
