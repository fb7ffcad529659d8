package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oolangc/ast"
	"oolangc/grammar"
	"oolangc/token"
)

func TestExecMakeNodeInteger(t *testing.T) {
	var stack []*ast.Node
	tok := token.New("intLit", "42", 1, 1)
	err := execute(&stack, grammar.ActionOp{Op: "makenode", Kind: "num"}, tok)
	require.NoError(t, err)
	require.Len(t, stack, 1)
	assert.Equal(t, "num", stack[0].Kind)
	assert.Equal(t, ast.Integer, stack[0].Payload.Kind)
	assert.Equal(t, int64(42), stack[0].Payload.IntVal)
}

func TestExecMakeNodeList(t *testing.T) {
	var stack []*ast.Node
	err := execute(&stack, grammar.ActionOp{Op: "makenode", Kind: "items", List: true}, token.Token{})
	require.NoError(t, err)
	require.Len(t, stack, 1)
	assert.Equal(t, ast.Children, stack[0].Payload.Kind)
	assert.Empty(t, stack[0].Children())
}

func TestExecMakeFamily(t *testing.T) {
	a := ast.NewLeaf("num", ast.IntegerPayload(1), 1, 1)
	b := ast.NewLeaf("num", ast.IntegerPayload(2), 1, 1)
	stack := []*ast.Node{a, b}
	err := execute(&stack, grammar.ActionOp{Op: "makefamily", Kind: "sum", N: 2}, token.Token{})
	require.NoError(t, err)
	require.Len(t, stack, 1)
	assert.Equal(t, "sum", stack[0].Kind)
	assert.Equal(t, []*ast.Node{a, b}, stack[0].Children())
}

func TestExecMakeSiblingAppends(t *testing.T) {
	list := ast.NewList("items", nil, 1, 1)
	item := ast.NewLeaf("num", ast.IntegerPayload(7), 1, 1)
	stack := []*ast.Node{list, item}
	err := execute(&stack, grammar.ActionOp{Op: "makesibling"}, token.Token{})
	require.NoError(t, err)
	require.Len(t, stack, 1)
	assert.Same(t, list, stack[0])
	assert.Len(t, list.Children(), 1)
	assert.Same(t, item, list.Children()[0])
}

func TestExecRenameOverwritesKind(t *testing.T) {
	node := ast.NewLeaf("binOp", ast.StringPayload(""), 1, 1)
	stack := []*ast.Node{node}
	tok := token.New("+", "+", 1, 1)
	err := execute(&stack, grammar.ActionOp{Op: "rename"}, tok)
	require.NoError(t, err)
	assert.Equal(t, "+", stack[0].Kind)
}

func TestExecMakeEpsilon(t *testing.T) {
	var stack []*ast.Node
	tok := token.New("semi", ";", 3, 9)
	err := execute(&stack, grammar.ActionOp{Op: "makeepsilon", Kind: "returnType"}, tok)
	require.NoError(t, err)
	require.Len(t, stack, 1)
	assert.Equal(t, "returnType", stack[0].Kind)
	assert.Equal(t, ast.Epsilon, stack[0].Payload.Kind)
	assert.Equal(t, 3, stack[0].Line)
}

func TestExecMakeFamilyUnderflow(t *testing.T) {
	stack := []*ast.Node{ast.NewLeaf("num", ast.IntegerPayload(1), 1, 1)}
	err := execute(&stack, grammar.ActionOp{Op: "makefamily", Kind: "sum", N: 3}, token.Token{})
	assert.Error(t, err)
}
