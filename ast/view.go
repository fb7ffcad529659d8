package ast

import "fmt"

// MalformedAst is returned when a subtree doesn't match the shape a View
// requires (SPEC_FULL.md §4.4).
type MalformedAst struct {
	Expected string
	Got      *Node
}

func (e *MalformedAst) Error() string {
	return fmt.Sprintf("malformed AST at %d:%d: expected %s, got kind %q", e.Got.Line, e.Got.Col, e.Expected, e.Got.Kind)
}

func malformed(expected string, n *Node) error {
	return &MalformedAst{Expected: expected, Got: n}
}

// requireChildren validates that n is a Children-payload node with exactly
// want children, returning them, or a MalformedAst error naming the shape.
func requireChildren(n *Node, kind string, want int, shape string) ([]*Node, error) {
	if n.Kind != kind || n.Payload.Kind != Children {
		return nil, malformed(fmt.Sprintf("%s(%s)", kind, shape), n)
	}
	kids := n.Children()
	if len(kids) != want {
		return nil, malformed(fmt.Sprintf("%s with %d children (%s)", kind, want, shape), n)
	}
	return kids, nil
}

func requireLeaf(n *Node, payloadKind PayloadKind, what string) error {
	if n.Payload.Kind != payloadKind {
		return malformed(what, n)
	}
	return nil
}

// ClassDeclView is the shape-checked projection of a "classDecl" node:
// [id-string, inherit-list, member-list].
type ClassDeclView struct {
	ID      *Node
	Inherit *Node // Children of string leaves (possibly empty)
	Members *Node // Children of varDecl/funcDecl
}

func AsClassDecl(n *Node) (*ClassDeclView, error) {
	kids, err := requireChildren(n, "classDecl", 3, "id-string, inherit-list, member-list")
	if err != nil {
		return nil, err
	}
	if err := requireLeaf(kids[0], String, "classDecl id must be a string leaf"); err != nil {
		return nil, err
	}
	return &ClassDeclView{ID: kids[0], Inherit: kids[1], Members: kids[2]}, nil
}

// FuncDefView is the shape-checked projection of a "funcDef" node:
// [id-string, scope-string(optional), param-list, return-type-string
// (optional), body-statBlock].
type FuncDefView struct {
	ID         *Node
	Scope      *Node // String payload ("" means free function) or Epsilon
	Params     *Node
	ReturnType *Node // String payload or Epsilon (void)
	Body       *Node
}

func AsFuncDef(n *Node) (*FuncDefView, error) {
	kids, err := requireChildren(n, "funcDef", 5, "id, scope?, params, returnType?, body")
	if err != nil {
		return nil, err
	}
	if err := requireLeaf(kids[0], String, "funcDef id must be a string leaf"); err != nil {
		return nil, err
	}
	return &FuncDefView{ID: kids[0], Scope: kids[1], Params: kids[2], ReturnType: kids[3], Body: kids[4]}, nil
}

// FuncDeclView is the shape-checked projection of a class-member stub
// "funcDecl" node: [id-string, param-list, return-type-string(optional)].
type FuncDeclView struct {
	ID         *Node
	Params     *Node
	ReturnType *Node
}

func AsFuncDecl(n *Node) (*FuncDeclView, error) {
	kids, err := requireChildren(n, "funcDecl", 3, "id, params, returnType?")
	if err != nil {
		return nil, err
	}
	if err := requireLeaf(kids[0], String, "funcDecl id must be a string leaf"); err != nil {
		return nil, err
	}
	return &FuncDeclView{ID: kids[0], Params: kids[1], ReturnType: kids[2]}, nil
}

// VarDeclView is the shape-checked projection of a "varDecl" node used for
// locals, fields, and parameters alike: [id-string, type-string, dim-list].
type VarDeclView struct {
	ID      *Node
	Type    *Node
	DimList *Node // Children of Integer leaves (or Epsilon for []-by-reference dims)
}

func AsVarDecl(n *Node) (*VarDeclView, error) {
	kids, err := requireChildren(n, "varDecl", 3, "id, type, dimList")
	if err != nil {
		return nil, err
	}
	if err := requireLeaf(kids[0], String, "varDecl id must be a string leaf"); err != nil {
		return nil, err
	}
	if err := requireLeaf(kids[1], String, "varDecl type must be a string leaf"); err != nil {
		return nil, err
	}
	return &VarDeclView{ID: kids[0], Type: kids[1], DimList: kids[2]}, nil
}

// IfStatView is the shape-checked projection of an "ifStat" node:
// [condition, then-block, else-block(optional, Epsilon if absent)].
type IfStatView struct {
	Cond, Then, Else *Node
}

func AsIfStat(n *Node) (*IfStatView, error) {
	kids, err := requireChildren(n, "ifStat", 3, "cond, then, else?")
	if err != nil {
		return nil, err
	}
	return &IfStatView{Cond: kids[0], Then: kids[1], Else: kids[2]}, nil
}

// WhileStatView is the shape-checked projection of a "whileStat" node:
// [condition, body-block].
type WhileStatView struct {
	Cond, Body *Node
}

func AsWhileStat(n *Node) (*WhileStatView, error) {
	kids, err := requireChildren(n, "whileStat", 2, "cond, body")
	if err != nil {
		return nil, err
	}
	return &WhileStatView{Cond: kids[0], Body: kids[1]}, nil
}

// AssignOpView is the shape-checked projection of an "assignOp" node:
// [lhs-variable, rhs-expression].
type AssignOpView struct {
	LHS, RHS *Node
}

func AsAssignOp(n *Node) (*AssignOpView, error) {
	kids, err := requireChildren(n, "assignOp", 2, "lhs, rhs")
	if err != nil {
		return nil, err
	}
	return &AssignOpView{LHS: kids[0], RHS: kids[1]}, nil
}

// BinaryOpView is the shape-checked projection of any binary-operator node
// (arithmetic "+ - * /", relational "== != < <= > >=", or the
// integer-only "and"/"or"): [left, right]. The operator itself is the
// node's own Kind, set by the grammar's makefamily~<op>~2 action
// (SPEC_FULL.md §4.3).
type BinaryOpView struct {
	Left, Right *Node
}

func AsBinaryOp(n *Node) (*BinaryOpView, error) {
	if n.Payload.Kind != Children || len(n.Children()) != 2 {
		return nil, malformed("binary operator with exactly 2 children", n)
	}
	kids := n.Children()
	return &BinaryOpView{Left: kids[0], Right: kids[1]}, nil
}

// VarElementView is the shape-checked projection of a "varElement" node
// (a variable reference, possibly indexed): [id-string, index-list].
type VarElementView struct {
	ID      *Node
	Indices *Node // Children of index expressions (possibly empty)
}

func AsVarElement(n *Node) (*VarElementView, error) {
	kids, err := requireChildren(n, "varElement", 2, "id, indexList")
	if err != nil {
		return nil, err
	}
	if err := requireLeaf(kids[0], String, "varElement id must be a string leaf"); err != nil {
		return nil, err
	}
	return &VarElementView{ID: kids[0], Indices: kids[1]}, nil
}

// ProgView is the shape-checked projection of the root "prog" node:
// [class-list, free-function-list, main-body-statBlock].
type ProgView struct {
	Classes   *Node
	Functions *Node
	MainBody  *Node
}

func AsProg(n *Node) (*ProgView, error) {
	kids, err := requireChildren(n, "prog", 3, "classList, funcList, mainBody")
	if err != nil {
		return nil, err
	}
	return &ProgView{Classes: kids[0], Functions: kids[1], MainBody: kids[2]}, nil
}

// Visibility returns the "visibility" annotation on a class member node
// ("public" or "private"), defaulting to "public" when unset — matching
// the source language's own default member visibility.
func (n *Node) Visibility() string {
	if v, ok := n.Annotations["visibility"]; ok && v != "" {
		return v
	}
	return "public"
}

// CallView is the shape-checked projection of a "call" node:
// [id-string, arg-list].
type CallView struct {
	ID   *Node
	Args *Node
}

func AsCall(n *Node) (*CallView, error) {
	kids, err := requireChildren(n, "call", 2, "id, argList")
	if err != nil {
		return nil, err
	}
	if err := requireLeaf(kids[0], String, "call id must be a string leaf"); err != nil {
		return nil, err
	}
	return &CallView{ID: kids[0], Args: kids[1]}, nil
}
