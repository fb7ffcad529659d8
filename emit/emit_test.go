package emit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oolangc/ast"
	"oolangc/check"
	"oolangc/symtab"
)

func strLeaf(s string) *ast.Node    { return ast.NewLeaf("id", ast.StringPayload(s), 1, 1) }
func intLeaf(v int64) *ast.Node     { return ast.NewLeaf("intLit", ast.IntegerPayload(v), 1, 1) }
func floatLeaf(v float64) *ast.Node { return ast.NewLeaf("floatLit", ast.FloatPayload(v), 1, 1) }
func strValLeaf(s string) *ast.Node { return ast.NewLeaf("strLit", ast.StringPayload(s), 1, 1) }
func eps() *ast.Node                { return ast.NewLeaf("epsilon", ast.EpsilonPayload(), 1, 1) }

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

func call(id string, args ...*ast.Node) *ast.Node {
	return ast.NewList("call", []*ast.Node{strLeaf(id), ast.NewList("argList", args, 1, 1)}, 1, 1)
}

func varDecl(id, typ string, dims ...*ast.Node) *ast.Node {
	return ast.NewList("varDecl", []*ast.Node{strLeaf(id), strLeaf(typ), ast.NewList("dimList", dims, 1, 1)}, 1, 1)
}

func funcDef(id string, scope, returnType, body *ast.Node, params ...*ast.Node) *ast.Node {
	return ast.NewList("funcDef", []*ast.Node{strLeaf(id), scope, ast.NewList("params", params, 1, 1), returnType, body}, 1, 1)
}

func prog(classes, funcs []*ast.Node, mainBody *ast.Node) *ast.Node {
	return ast.NewList("prog", []*ast.Node{
		ast.NewList("classList", classes, 1, 1),
		ast.NewList("funcList", funcs, 1, 1),
		mainBody,
	}, 1, 1)
}

// build runs the symtab builder and the type checker over root, failing
// the test on any error-level diagnostic from either pass, and returns the
// resulting global table ready for Emit.
func build(t *testing.T, root *ast.Node) *symtab.Table {
	t.Helper()
	global, buildDiags := symtab.Build(root)
	require.Empty(t, buildDiags)
	checkDiags := check.Check(global)
	require.Empty(t, checkDiags)
	return global
}

func joined(lines []string) string { return strings.Join(lines, "\n") }

func TestEmitEmptyMainProducesEntryAndHalt(t *testing.T) {
	root := prog(nil, nil, block())
	global := build(t, root)

	_, code := Emit(root, global)
	text := joined(code)

	assert.Contains(t, text, "entry")
	assert.Contains(t, text, "hlt")
	assert.Contains(t, text, "addi  r14, r0, topaddr")
}

func TestEmitWriteStatementUsesIntstrPutstrPattern(t *testing.T) {
	root := prog(nil, nil, block(writeStat(intLeaf(7))))
	global := build(t, root)

	_, code := Emit(root, global)
	text := joined(code)

	assert.Contains(t, text, "jl    r15, intstr")
	assert.Contains(t, text, "jl    r15, putstr")
	assert.Contains(t, text, "-8(r14)")
	assert.Contains(t, text, "-12(r14)")
}

func TestEmitAssignmentLoadsAndStores(t *testing.T) {
	root := prog(nil, nil, block(
		varDecl("x", "integer"),
		assign(varElem("x"), intLeaf(5)),
	))
	global := build(t, root)

	data, code := Emit(root, global)
	text := joined(code)

	assert.Contains(t, text, "lw")
	assert.Contains(t, text, "sw")
	assert.NotEmpty(t, data)
}

func TestEmitBinaryOpEmitsAddInstruction(t *testing.T) {
	root := prog(nil, nil, block(writeStat(binOp("+", intLeaf(1), intLeaf(2)))))
	global := build(t, root)

	_, code := Emit(root, global)
	text := joined(code)

	assert.Contains(t, text, "add")
}

func TestEmitIfElseEmitsElseAndEndifLabels(t *testing.T) {
	root := prog(nil, nil, block(
		ast.NewList("ifStat", []*ast.Node{
			intLeaf(1),
			block(writeStat(intLeaf(1))),
			block(writeStat(intLeaf(2))),
		}, 1, 1),
	))
	global := build(t, root)

	_, code := Emit(root, global)
	text := joined(code)

	assert.Contains(t, text, "_main_else1")
	assert.Contains(t, text, "_main_endif1")
	assert.Contains(t, text, "bz")
}

func TestEmitWhileEmitsHeadAndEndLabels(t *testing.T) {
	root := prog(nil, nil, block(
		ast.NewList("whileStat", []*ast.Node{intLeaf(1), block()}, 1, 1),
	))
	global := build(t, root)

	_, code := Emit(root, global)
	text := joined(code)

	assert.Contains(t, text, "_main_while1")
	assert.Contains(t, text, "_main_endwhile1")
}

func TestEmitFunctionCallUsesMangledCalleeLabel(t *testing.T) {
	root := prog(nil, []*ast.Node{
		funcDef("triple", eps(), strLeaf("integer"), block(returnStat(intLeaf(3))), varDecl("n", "integer")),
	}, block(writeStat(call("triple", intLeaf(1)))))
	global := build(t, root)

	_, code := Emit(root, global)
	text := joined(code)

	assert.Contains(t, text, "_triple_integer")
	assert.Contains(t, text, "_triple_integer_exit")
	assert.Contains(t, text, "_triple_integer_ret")
	assert.Contains(t, text, "jl    r15, _triple_integer")
}

func TestEmitStringLiteralReservesBytesAndCellLabels(t *testing.T) {
	root := prog(nil, nil, block(writeStat(strValLeaf("hi"))))
	global := build(t, root)

	data, _ := Emit(root, global)
	text := joined(data)

	assert.Contains(t, text, "_bytes")
	assert.Contains(t, text, "db")
	assert.Contains(t, text, "dw")
}

func TestEmitRegisterPoolPanicsWhenExhausted(t *testing.T) {
	pool := NewRegisterPool()
	rental := pool.Reserve(12)
	for i := 0; i < 12; i++ {
		pool.Pop()
	}
	assert.Panics(t, func() { pool.Pop() })
	pool.Release(rental)
}
