package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oolangc/ast"
)

func strLeaf(s string) *ast.Node { return ast.NewLeaf("id", ast.StringPayload(s), 1, 1) }
func intLeaf(v int64) *ast.Node  { return ast.NewLeaf("intLit", ast.IntegerPayload(v), 1, 1) }
func eps() *ast.Node             { return ast.NewLeaf("epsilon", ast.EpsilonPayload(), 1, 1) }

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

func TestBuildSimpleClassAndFreeFunction(t *testing.T) {
	root := prog(
		[]*ast.Node{
			classDecl("Shape", nil,
				varDecl("area", "float"),
				funcDecl("getArea", eps()),
			),
		},
		[]*ast.Node{
			funcDef("helper", eps(), eps(), ast.NewList("statBlock", nil, 1, 1)),
		},
		ast.NewList("statBlock", nil, 1, 1),
	)

	table, diags := Build(root)
	for _, d := range diags {
		t.Logf("diag: %s", d)
	}

	shape, ok := table.Get("Shape").(*Class)
	require.True(t, ok)
	area, ok := shape.Table.Get("area").(*Data)
	require.True(t, ok)
	assert.Equal(t, "float", area.ActualType)

	getArea, ok := shape.Table.Get("getArea").(*Function)
	require.True(t, ok)
	assert.False(t, getArea.Defined)

	helper, ok := table.Get("helper").(*Function)
	require.True(t, ok)
	assert.True(t, helper.Defined)

	require.NotNil(t, table.Get("main"))
}

func TestBuildDetectsRedefinition(t *testing.T) {
	root := prog(nil, []*ast.Node{
		funcDef("f", eps(), eps(), ast.NewList("statBlock", nil, 1, 1)),
		funcDef("f", eps(), eps(), ast.NewList("statBlock", nil, 1, 1)),
	}, ast.NewList("statBlock", nil, 1, 1))

	_, diags := Build(root)
	var found bool
	for _, d := range diags {
		if d.Kind == "IdentifierRedefinition" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestBuildDetectsOverloadWarning(t *testing.T) {
	root := prog(nil, []*ast.Node{
		funcDef("f", eps(), eps(), ast.NewList("statBlock", nil, 1, 1)),
		funcDef("f", eps(), eps(), ast.NewList("statBlock", nil, 1, 1), varDecl("x", "integer", intLeaf(0))),
	}, ast.NewList("statBlock", nil, 1, 1))

	_, diags := Build(root)
	var found bool
	for _, d := range diags {
		if d.Kind == "FunctionOverload" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestBuildDetectsCyclicInheritance(t *testing.T) {
	root := prog([]*ast.Node{
		classDecl("A", []string{"B"}),
		classDecl("B", []string{"A"}),
	}, nil, ast.NewList("statBlock", nil, 1, 1))

	_, diags := Build(root)
	var found bool
	for _, d := range diags {
		if d.Kind == "CyclicInheritance" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestBuildDetectsDeclaredButNotDefined(t *testing.T) {
	root := prog([]*ast.Node{
		classDecl("Shape", nil, funcDecl("getArea", eps())),
	}, nil, ast.NewList("statBlock", nil, 1, 1))

	_, diags := Build(root)
	var found bool
	for _, d := range diags {
		if d.Kind == "DeclaredButNotDefined" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestBuildMissingArrayDimension(t *testing.T) {
	root := prog(nil, []*ast.Node{
		funcDef("f", eps(), eps(), ast.NewList("statBlock", []*ast.Node{
			varDecl("arr", "integer", eps()),
		}, 1, 1)),
	}, ast.NewList("statBlock", nil, 1, 1))

	_, diags := Build(root)
	var found bool
	for _, d := range diags {
		if d.Kind == "MissingArrayDimension" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestRenderProducesBorderedTable(t *testing.T) {
	root := prog([]*ast.Node{
		classDecl("Shape", nil, varDecl("area", "float")),
	}, nil, ast.NewList("statBlock", nil, 1, 1))

	table, _ := Build(root)
	out := table.Render()
	assert.Contains(t, out, "table: global")
	assert.Contains(t, out, "Shape")
}

func TestGetAllInheritedWalksAncestors(t *testing.T) {
	root := prog([]*ast.Node{
		classDecl("Base", nil, varDecl("x", "integer")),
		classDecl("Derived", []string{"Base"}),
	}, nil, ast.NewList("statBlock", nil, 1, 1))

	table, _ := Build(root)
	derived := table.Get("Derived").(*Class)
	inherited := GetAllInherited(table, derived, "x")
	require.Len(t, inherited, 1)
	assert.Equal(t, "x", inherited[0].ID())
}
