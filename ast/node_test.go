package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendGrowsChildList(t *testing.T) {
	list := NewList("statBlock", nil, 1, 1)
	child := NewLeaf("intLit", IntegerPayload(5), 1, 1)
	list.Append(child)
	assert.Len(t, list.Children(), 1)
	assert.Same(t, child, list.Children()[0])
}

func TestLeafHasNoChildren(t *testing.T) {
	leaf := NewLeaf("intLit", IntegerPayload(5), 1, 1)
	assert.True(t, leaf.IsLeaf())
	assert.Nil(t, leaf.Children())
}

func TestAnnotateAndRead(t *testing.T) {
	n := NewLeaf("id", StringPayload("x"), 1, 1)
	n.Annotate("data_type", "integer")
	assert.Equal(t, "integer", n.DataType())
}

func TestDotGraphShapes(t *testing.T) {
	leaf := NewLeaf("intLit", IntegerPayload(5), 1, 1)
	root := NewList("assignOp", []*Node{leaf}, 1, 1)
	out := DotGraph(root)
	assert.Contains(t, out, "digraph A {")
	assert.Contains(t, out, `shape=ellipse, label="assignOp"`)
	assert.Contains(t, out, `shape=box, label="5"`)
	assert.Contains(t, out, "n0 -> n1;")
}

func TestAsFuncDefRejectsWrongShape(t *testing.T) {
	bad := NewList("funcDef", []*Node{NewLeaf("id", StringPayload("f"), 1, 1)}, 1, 1)
	_, err := AsFuncDef(bad)
	require.Error(t, err)
	var malformed *MalformedAst
	assert.ErrorAs(t, err, &malformed)
}

func TestAsVarDeclAccepts(t *testing.T) {
	n := NewList("varDecl", []*Node{
		NewLeaf("id", StringPayload("x"), 1, 1),
		NewLeaf("type", StringPayload("integer"), 1, 1),
		NewList("dimList", nil, 1, 1),
	}, 1, 1)
	view, err := AsVarDecl(n)
	require.NoError(t, err)
	assert.Equal(t, "x", view.ID.Payload.StringVal)
	assert.Equal(t, "integer", view.Type.Payload.StringVal)
}
