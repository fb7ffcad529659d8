package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oolangc/ast"
	"oolangc/diag"
	"oolangc/symtab"
)

// assertNoErrors fails the test if any diagnostic is a Fatal or
// SemanticError (warnings, e.g. FunctionOverload, are expected noise in
// some fixtures and don't indicate a broken build pass).
func assertNoErrors(t *testing.T, diags []diag.Diagnostic) {
	t.Helper()
	for _, d := range diags {
		assert.False(t, d.IsError() || d.Severity == diag.Fatal, "unexpected diagnostic: %s", d)
	}
}

func strLeaf(s string) *ast.Node   { return ast.NewLeaf("id", ast.StringPayload(s), 1, 1) }
func intLeaf(v int64) *ast.Node    { return ast.NewLeaf("intLit", ast.IntegerPayload(v), 1, 1) }
func floatLeaf(v float64) *ast.Node { return ast.NewLeaf("floatLit", ast.FloatPayload(v), 1, 1) }
func strValLeaf(s string) *ast.Node { return ast.NewLeaf("strLit", ast.StringPayload(s), 1, 1) }
func eps() *ast.Node               { return ast.NewLeaf("epsilon", ast.EpsilonPayload(), 1, 1) }

func block(stmts ...*ast.Node) *ast.Node { return ast.NewList("statBlock", stmts, 1, 1) }

func varElem(id string, indices ...*ast.Node) *ast.Node {
	return ast.NewList("varElement", []*ast.Node{strLeaf(id), ast.NewList("indexList", indices, 1, 1)}, 1, 1)
}

func binOp(op string, l, r *ast.Node) *ast.Node { return ast.NewList(op, []*ast.Node{l, r}, 1, 1) }

func assign(lhs, rhs *ast.Node) *ast.Node {
	return ast.NewList("assignOp", []*ast.Node{lhs, rhs}, 1, 1)
}

func writeStat(e *ast.Node) *ast.Node  { return ast.NewList("writeStat", []*ast.Node{e}, 1, 1) }
func returnStat(e *ast.Node) *ast.Node { return ast.NewList("returnStat", []*ast.Node{e}, 1, 1) }

func ifStat(cond, then, els *ast.Node) *ast.Node {
	return ast.NewList("ifStat", []*ast.Node{cond, then, els}, 1, 1)
}

func whileStat(cond, body *ast.Node) *ast.Node {
	return ast.NewList("whileStat", []*ast.Node{cond, body}, 1, 1)
}

func call(id string, args ...*ast.Node) *ast.Node {
	return ast.NewList("call", []*ast.Node{strLeaf(id), ast.NewList("argList", args, 1, 1)}, 1, 1)
}

func varDecl(id, typ string, dims ...*ast.Node) *ast.Node {
	return ast.NewList("varDecl", []*ast.Node{strLeaf(id), strLeaf(typ), ast.NewList("dimList", dims, 1, 1)}, 1, 1)
}

func funcDecl(id string, returnType *ast.Node, params ...*ast.Node) *ast.Node {
	return ast.NewList("funcDecl", []*ast.Node{strLeaf(id), ast.NewList("params", params, 1, 1), returnType}, 1, 1)
}

func funcDef(id string, scope *ast.Node, returnType, body *ast.Node, params ...*ast.Node) *ast.Node {
	return ast.NewList("funcDef", []*ast.Node{strLeaf(id), scope, ast.NewList("params", params, 1, 1), returnType, body}, 1, 1)
}

func classDecl(id string, inherit []string, members ...*ast.Node) *ast.Node {
	var inheritNodes []*ast.Node
	for _, p := range inherit {
		inheritNodes = append(inheritNodes, strLeaf(p))
	}
	return ast.NewList("classDecl", []*ast.Node{
		strLeaf(id),
		ast.NewList("inheritList", inheritNodes, 1, 1),
		ast.NewList("memberList", members, 1, 1),
	}, 1, 1)
}

func prog(classes, funcs []*ast.Node, mainBody *ast.Node) *ast.Node {
	return ast.NewList("prog", []*ast.Node{
		ast.NewList("classList", classes, 1, 1),
		ast.NewList("funcList", funcs, 1, 1),
		mainBody,
	}, 1, 1)
}

func TestCheckArithmeticAnnotatesDataType(t *testing.T) {
	addExpr := binOp("+", intLeaf(1), intLeaf(2))
	root := prog(nil, nil, block(writeStat(addExpr)))

	global, buildDiags := symtab.Build(root)
	require.Empty(t, buildDiags)

	diags := Check(global)
	assert.Empty(t, diags)
	assert.Equal(t, "integer", addExpr.DataType())
	assert.NotEmpty(t, addExpr.Label())
}

func TestCheckArithmeticMismatchedTypes(t *testing.T) {
	addExpr := binOp("+", intLeaf(1), floatLeaf(2.5))
	root := prog(nil, nil, block(writeStat(addExpr)))

	global, _ := symtab.Build(root)
	diags := Check(global)

	var found bool
	for _, d := range diags {
		if d.Kind == "BinaryMismatchedTypes" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCheckAndRequiresIntegerOperands(t *testing.T) {
	andExpr := binOp("and", floatLeaf(1), floatLeaf(2))
	root := prog(nil, nil, block(writeStat(andExpr)))

	global, _ := symtab.Build(root)
	diags := Check(global)

	var found bool
	for _, d := range diags {
		if d.Kind == "IntegerOperandRequired" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCheckUndefinedIdentifier(t *testing.T) {
	root := prog(nil, nil, block(writeStat(varElem("ghost"))))

	global, _ := symtab.Build(root)
	diags := Check(global)

	var found bool
	for _, d := range diags {
		if d.Kind == "UndefinedIdentifier" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCheckAssignmentTypeMismatch(t *testing.T) {
	body := block(
		varDecl("x", "integer"),
		assign(varElem("x"), floatLeaf(1.5)),
	)
	root := prog(nil, nil, body)

	global, buildDiags := symtab.Build(root)
	require.Empty(t, buildDiags)
	diags := Check(global)

	var found bool
	for _, d := range diags {
		if d.Kind == "AssignmentTypeMismatch" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCheckAssignmentAccepted(t *testing.T) {
	body := block(
		varDecl("x", "integer"),
		assign(varElem("x"), intLeaf(5)),
	)
	root := prog(nil, nil, body)

	global, buildDiags := symtab.Build(root)
	require.Empty(t, buildDiags)
	diags := Check(global)
	assert.Empty(t, diags)
}

func TestCheckOverloadResolution(t *testing.T) {
	root := prog(nil, []*ast.Node{
		funcDef("add", eps(), strLeaf("integer"), block(returnStat(intLeaf(1))),
			varDecl("a", "integer"), varDecl("b", "integer")),
		funcDef("add", eps(), strLeaf("float"), block(returnStat(floatLeaf(1.0))),
			varDecl("a", "float"), varDecl("b", "float")),
	}, block(writeStat(call("add", intLeaf(1), intLeaf(2)))))

	global, buildDiags := symtab.Build(root)
	assertNoErrors(t, buildDiags) // two "add" overloads raise a FunctionOverload warning, not an error
	diags := Check(global)
	assert.Empty(t, diags)
}

func TestCheckNoMatchingOverload(t *testing.T) {
	root := prog(nil, []*ast.Node{
		funcDef("add", eps(), strLeaf("integer"), block(returnStat(intLeaf(1))),
			varDecl("a", "integer"), varDecl("b", "integer")),
	}, block(writeStat(call("add", floatLeaf(1.0), floatLeaf(2.0)))))

	global, _ := symtab.Build(root)
	diags := Check(global)

	var found bool
	for _, d := range diags {
		if d.Kind == "NoMatchingOverload" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCheckInheritedFieldLookup(t *testing.T) {
	root := prog([]*ast.Node{
		classDecl("Base", nil, varDecl("x", "integer")),
		classDecl("Derived", []string{"Base"}, funcDecl("useX", eps())),
	}, []*ast.Node{
		funcDef("useX", strLeaf("Derived"), eps(), block(writeStat(varElem("x")))),
	}, block())

	global, buildDiags := symtab.Build(root)
	require.Empty(t, buildDiags)
	diags := Check(global)
	assert.Empty(t, diags)
}

func TestCheckMissingReturn(t *testing.T) {
	root := prog(nil, []*ast.Node{
		funcDef("f", eps(), strLeaf("integer"), block(writeStat(intLeaf(1)))),
	}, block())

	global, _ := symtab.Build(root)
	diags := Check(global)

	var found bool
	for _, d := range diags {
		if d.Kind == "MissingReturn" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCheckReturnPresentAnywhereSatisfiesCoverage(t *testing.T) {
	root := prog(nil, []*ast.Node{
		funcDef("f", eps(), strLeaf("integer"), block(
			ifStat(intLeaf(1), block(returnStat(intLeaf(1))), eps()),
		)),
	}, block())

	global, buildDiags := symtab.Build(root)
	require.Empty(t, buildDiags)
	diags := Check(global)

	for _, d := range diags {
		assert.NotEqual(t, "MissingReturn", d.Kind)
	}
}

func TestCheckWhileAllocatesLabel(t *testing.T) {
	loop := whileStat(intLeaf(1), block())
	root := prog(nil, nil, block(loop))

	global, _ := symtab.Build(root)
	Check(global)
	assert.Equal(t, "1", loop.Annotations["while_id"])
}

func TestCheckArrayIndexMustBeInteger(t *testing.T) {
	body := block(
		varDecl("arr", "integer", intLeaf(4)),
		writeStat(varElem("arr", floatLeaf(1.0))),
	)
	root := prog(nil, nil, body)

	global, buildDiags := symtab.Build(root)
	require.Empty(t, buildDiags)
	diags := Check(global)

	var found bool
	for _, d := range diags {
		if d.Kind == "IndexMustBeInteger" {
			found = true
		}
	}
	assert.True(t, found)
}
