package check

import (
	"fmt"
	"strings"

	"oolangc/ast"
	"oolangc/symtab"
)

// checkBlock walks a "statBlock" node's children, dispatching each
// statement. varDecl nodes are skipped — their entries were already
// installed by package symtab's builder pass.
func (c *checker) checkBlock(ctx *funcCtx, block *ast.Node) {
	for _, stmt := range block.Children() {
		c.checkStmt(ctx, stmt)
	}
}

func (c *checker) checkStmt(ctx *funcCtx, n *ast.Node) {
	switch n.Kind {
	case "varDecl":
		// Already installed in the enclosing table by symtab.Build.
	case "assignOp":
		c.checkAssign(ctx, n)
	case "ifStat":
		c.checkIf(ctx, n)
	case "whileStat":
		c.checkWhile(ctx, n)
	case "writeStat":
		c.checkWrite(ctx, n)
	case "returnStat":
		c.checkReturn(ctx, n)
	case "call":
		c.resolveCall(ctx, n)
	case "statBlock":
		c.checkBlock(ctx, n)
	default:
		c.errorf(n.Line, n.Col, "MalformedAst", "unrecognized statement node kind %q", n.Kind)
	}
}

// checkAssign implements SPEC_FULL.md §4.6's assignment rule: LHS and RHS
// types, including array rank, must match.
func (c *checker) checkAssign(ctx *funcCtx, n *ast.Node) {
	view, err := ast.AsAssignOp(n)
	if err != nil {
		c.errorf(n.Line, n.Col, "MalformedAst", "%s", err)
		return
	}
	lt := c.resolveExpr(ctx, view.LHS)
	rt := c.resolveExpr(ctx, view.RHS)
	if lt == errorType || rt == errorType {
		return
	}
	if lt != rt {
		c.errorf(n.Line, n.Col, "AssignmentTypeMismatch",
			"cannot assign value of type %q to a variable of type %q", rt, lt)
	}
}

// checkIf implements the conditional half of SPEC_FULL.md §4.6's
// control-flow rule: the condition must be numeric, and a unique
// per-function label pair is allocated via the enclosing table's if_id
// counter for the emitter to mangle later.
func (c *checker) checkIf(ctx *funcCtx, n *ast.Node) {
	view, err := ast.AsIfStat(n)
	if err != nil {
		c.errorf(n.Line, n.Col, "MalformedAst", "%s", err)
		return
	}
	c.checkCondition(ctx, view.Cond)
	n.Annotate("if_id", fmt.Sprintf("%d", ctx.fn.Table.NextIf()))
	c.checkBlock(ctx, view.Then)
	if view.Else.Payload.Kind != ast.Epsilon {
		c.checkBlock(ctx, view.Else)
	}
}

func (c *checker) checkWhile(ctx *funcCtx, n *ast.Node) {
	view, err := ast.AsWhileStat(n)
	if err != nil {
		c.errorf(n.Line, n.Col, "MalformedAst", "%s", err)
		return
	}
	c.checkCondition(ctx, view.Cond)
	n.Annotate("while_id", fmt.Sprintf("%d", ctx.fn.Table.NextWhile()))
	c.checkBlock(ctx, view.Body)
}

func (c *checker) checkCondition(ctx *funcCtx, cond *ast.Node) {
	t := c.resolveExpr(ctx, cond)
	if t != errorType && t != "integer" && t != "float" {
		c.errorf(cond.Line, cond.Col, "NonNumericCondition",
			"condition must be of type integer or float, got %q", t)
	}
}

// checkWrite resolves a "writeStat" node's single expression child; the
// write statement accepts any scalar type but not a whole array. The
// emitter's intstr preamble routine formats the written word as an
// integer whatever its type.
func (c *checker) checkWrite(ctx *funcCtx, n *ast.Node) {
	children := n.Children()
	if len(children) != 1 {
		c.errorf(n.Line, n.Col, "MalformedAst", "writeStat must have exactly one expression child")
		return
	}
	if t := c.resolveExpr(ctx, children[0]); strings.HasSuffix(t, "[]") {
		c.errorf(n.Line, n.Col, "WriteArrayValue", "write statement cannot output a whole array of type %q", t)
	}
}

// checkReturn implements SPEC_FULL.md §4.6's return rule: the expression's
// type must match the enclosing function's declared return type, and a
// Temporary of that type is allocated to hold the return value.
func (c *checker) checkReturn(ctx *funcCtx, n *ast.Node) {
	children := n.Children()
	if len(children) != 1 {
		c.errorf(n.Line, n.Col, "MalformedAst", "returnStat must have exactly one child (expression or epsilon)")
		return
	}
	value := children[0]
	if value.Payload.Kind == ast.Epsilon {
		if ctx.fn.ReturnType != "" {
			c.errorf(n.Line, n.Col, "ReturnTypeMismatch",
				"function %q must return a value of type %q", ctx.fn.Id, ctx.fn.ReturnType)
		}
		return
	}
	t := c.resolveExpr(ctx, value)
	if t == errorType {
		return
	}
	if t != ctx.fn.ReturnType {
		c.errorf(n.Line, n.Col, "ReturnTypeMismatch",
			"function %q declares return type %q, got %q", ctx.fn.Id, ctx.fn.ReturnType, t)
		return
	}
	tmp := &symtab.Temporary{Id: nextTempID(ctx.fn), DataType: t}
	tmp.ComputedSize()
	ctx.fn.Table.Add(tmp)
	n.Annotate("label", entryLabel(ctx, tmp, nil))
}
