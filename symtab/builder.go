package symtab

import (
	"oolangc/ast"
	"oolangc/diag"
)

// Build runs the depth-first symbol-table construction pass of SPEC_FULL.md
// §4.5 over a validated "prog" AST root, returning the populated global
// table and every redefinition/overload/defined-not-declared diagnostic
// raised along the way. The inheritance-cycle check runs once, after every
// class has been installed and before any free function is; the
// declared-but-not-defined check runs once, after every function has been
// installed.
func Build(root *ast.Node) (*Table, []diag.Diagnostic) {
	b := &builder{global: New("global", "")}

	prog, err := ast.AsProg(root)
	if err != nil {
		b.fatalf(root, "%s", err)
		return b.global, b.diags
	}

	for _, classNode := range prog.Classes.Children() {
		b.buildClass(classNode)
	}
	b.checkInheritanceCycles()

	for _, fnNode := range prog.Functions.Children() {
		b.buildFreeFunction(fnNode)
	}

	mainFn := NewFunctionDefinition("main", "", nil, "", prog.MainBody.Line, prog.MainBody.Col)
	mainFn.Body = prog.MainBody
	b.global.Add(mainFn)

	b.checkDeclaredButNotDefined()
	return b.global, b.diags
}

type builder struct {
	global *Table
	diags  []diag.Diagnostic
}

func (b *builder) fatalf(n *ast.Node, format string, args ...any) {
	b.diags = append(b.diags, diag.New(diag.Fatal, "MalformedAst", n.Line, n.Col, format, args...))
}

func (b *builder) errorf(line, col int, kind, format string, args ...any) {
	b.diags = append(b.diags, diag.New(diag.SemanticError, kind, line, col, format, args...))
}

func (b *builder) warnf(line, col int, kind, format string, args ...any) {
	b.diags = append(b.diags, diag.New(diag.SemanticWarning, kind, line, col, format, args...))
}

func (b *builder) buildClass(n *ast.Node) {
	view, err := ast.AsClassDecl(n)
	if err != nil {
		b.fatalf(n, "%s", err)
		return
	}
	id := view.ID.Payload.StringVal

	if b.global.Contains(id) {
		b.errorf(n.Line, n.Col, "IdentifierRedefinition",
			"identifier %q is already defined in this scope", id)
		return
	}

	class := NewClass(id)
	class.Table.Add(NewInherit(stringChildren(view.Inherit)))

	for _, member := range view.Members.Children() {
		b.buildClassMember(class, member)
	}

	b.global.Add(class)
}

func (b *builder) buildClassMember(class *Class, member *ast.Node) {
	switch member.Kind {
	case "varDecl":
		view, err := ast.AsVarDecl(member)
		if err != nil {
			b.fatalf(member, "%s", err)
			return
		}
		dims, ok := b.requiredDims(view.DimList)
		if !ok {
			b.errorf(member.Line, member.Col, "MissingArrayDimension",
				"class field %q must specify every array dimension", view.ID.Payload.StringVal)
		}
		vis := Public
		if member.Visibility() == "private" {
			vis = Private
		}
		id := view.ID.Payload.StringVal
		if class.Table.Contains(id) {
			b.errorf(member.Line, member.Col, "IdentifierRedefinition",
				"identifier %q is already defined in this scope", id)
			return
		}
		class.Table.Add(&Data{
			Id: id, ActualType: view.Type.Payload.StringVal, Visibility: vis, Dims: dims,
			DataType: typeWithDims(view.Type.Payload.StringVal, dims),
		})

	case "funcDecl":
		view, err := ast.AsFuncDecl(member)
		if err != nil {
			b.fatalf(member, "%s", err)
			return
		}
		id := view.ID.Payload.StringVal
		params := b.buildParams(view.Params)
		vis := Public
		if member.Visibility() == "private" {
			vis = Private
		}
		stub := NewFunctionDeclaration(id, class.Id, params, returnTypeOf(view.ReturnType), vis, member.Line, member.Col)

		for _, existing := range class.Table.GetAll(id) {
			existingFn, ok := existing.(*Function)
			if !ok {
				b.errorf(member.Line, member.Col, "IdentifierRedefinition",
					"identifier %q is already defined in this scope and names %q", id, existing.String())
				return
			}
			if existingFn.SameSignature(stub) {
				b.errorf(member.Line, member.Col, "IdentifierRedefinition",
					"function %q is already declared with this signature", stub.String())
				return
			}
			b.warnf(member.Line, member.Col, "FunctionOverload",
				"declaration of %q overloads an existing member function named %q", stub.String(), id)
		}
		class.Table.Add(stub)

	default:
		b.fatalf(member, "varDecl or funcDecl class member, got %q", member.Kind)
	}
}

func (b *builder) buildFreeFunction(n *ast.Node) {
	view, err := ast.AsFuncDef(n)
	if err != nil {
		b.fatalf(n, "%s", err)
		return
	}
	id := view.ID.Payload.StringVal
	scope := optionalString(view.Scope)
	params := b.buildParams(view.Params)
	returnType := returnTypeOf(view.ReturnType)

	if scope != "" {
		b.buildMemberDefinition(n, id, scope, params, returnType, view.Body)
		return
	}

	def := NewFunctionDefinition(id, "", params, returnType, n.Line, n.Col)
	def.Body = view.Body
	for _, existing := range b.global.GetAll(id) {
		existingFn, ok := existing.(*Function)
		if !ok {
			b.errorf(n.Line, n.Col, "IdentifierRedefinition",
				"identifier %q is already defined in this scope and names %q", id, existing.String())
			return
		}
		if existingFn.SameSignature(def) {
			b.errorf(n.Line, n.Col, "IdentifierRedefinition",
				"function %q is already defined with this signature", def.String())
			return
		}
		b.warnf(n.Line, n.Col, "FunctionOverload",
			"definition of %q overloads an existing free function named %q", def.String(), id)
	}
	b.buildLocals(def.Table, view.Body)
	b.global.Add(def)
}

func (b *builder) buildMemberDefinition(n *ast.Node, id, scope string, params []Param, returnType string, body *ast.Node) {
	entry := b.global.Get(scope)
	class, ok := entry.(*Class)
	if !ok {
		b.errorf(n.Line, n.Col, "InvalidScopeIdentifier",
			"scope identifier %q does not name a class", scope)
		return
	}

	var stub *Function
	for _, candidate := range class.Table.GetAll(id) {
		fn, ok := candidate.(*Function)
		if !ok {
			continue
		}
		probe := &Function{Id: id, Params: params}
		if fn.SameSignature(probe) {
			stub = fn
			break
		}
	}
	if stub == nil {
		b.errorf(n.Line, n.Col, "DefinedButNotDeclared",
			"definition provided for undeclared member function %s::%s", scope, id)
		return
	}
	if stub.Defined {
		b.errorf(n.Line, n.Col, "IdentifierRedefinition",
			"function %q is already defined for scope %q", id, scope)
		return
	}

	def := NewFunctionDefinition(id, scope, params, returnType, n.Line, n.Col)
	def.Visibility, def.HasVis = stub.Visibility, true
	def.Body = body
	b.buildLocals(def.Table, body)
	class.Table.ReplaceFunction(stub, def)
}

func (b *builder) buildParams(n *ast.Node) []Param {
	var out []Param
	for _, p := range n.Children() {
		view, err := ast.AsVarDecl(p)
		if err != nil {
			b.fatalf(p, "%s", err)
			continue
		}
		dims := b.optionalDims(view.DimList)
		out = append(out, Param{
			Id:       view.ID.Payload.StringVal,
			DataType: typeWithDims(view.Type.Payload.StringVal, dims),
			Dims:     dims,
		})
	}
	return out
}

func (b *builder) buildLocals(table *Table, body *ast.Node) {
	for _, stmt := range body.Children() {
		if stmt.Kind != "varDecl" {
			continue
		}
		view, err := ast.AsVarDecl(stmt)
		if err != nil {
			b.fatalf(stmt, "%s", err)
			continue
		}
		dims, ok := b.requiredDims(view.DimList)
		if !ok {
			b.errorf(stmt.Line, stmt.Col, "MissingArrayDimension",
				"local variable %q must specify every array dimension", view.ID.Payload.StringVal)
		}
		id := view.ID.Payload.StringVal
		if table.Contains(id) {
			b.errorf(stmt.Line, stmt.Col, "IdentifierRedefinition",
				"identifier %q is already defined in this scope", id)
			continue
		}
		table.Add(&Local{
			Id: id, ActualType: view.Type.Payload.StringVal, Dims: dims,
			DataType: typeWithDims(view.Type.Payload.StringVal, dims),
		})
	}
}

// requiredDims parses a dimension list where every dimension must be an
// integer literal (locals and fields, SPEC_FULL.md §4.5's mandatory
// dimensions rule); ok is false if any slot is empty.
func (b *builder) requiredDims(n *ast.Node) (dims []int64, ok bool) {
	ok = true
	for _, d := range n.Children() {
		if d.Payload.Kind != ast.Integer {
			ok = false
			continue
		}
		dims = append(dims, d.Payload.IntVal)
	}
	return dims, ok
}

// optionalDims parses a parameter's dimension list, where an empty-bracket
// (Epsilon payload) slot is legal and recorded as -1 (by-reference array
// parameter, SPEC_FULL.md §4.5).
func (b *builder) optionalDims(n *ast.Node) []int64 {
	var dims []int64
	for _, d := range n.Children() {
		if d.Payload.Kind == ast.Integer {
			dims = append(dims, d.Payload.IntVal)
		} else {
			dims = append(dims, -1)
		}
	}
	return dims
}

func (b *builder) checkInheritanceCycles() {
	for _, class := range b.global.Classes() {
		if InheritanceHasCycle(b.global, class) {
			b.errorf(0, 0, "CyclicInheritance",
				"class %q participates in a cyclic inheritance chain", class.Id)
		}
	}
}

func (b *builder) checkDeclaredButNotDefined() {
	for _, class := range b.global.Classes() {
		for _, fn := range class.Table.Functions() {
			if !fn.Defined {
				b.warnf(fn.Line, fn.Col, "DeclaredButNotDefined",
					"no definition for declared member function %s::%s%s", class.Id, fn.Id, fn.Signature())
			}
		}
	}
}

func stringChildren(n *ast.Node) []string {
	var out []string
	for _, c := range n.Children() {
		if c.Payload.Kind == ast.String {
			out = append(out, c.Payload.StringVal)
		}
	}
	return out
}

func optionalString(n *ast.Node) string {
	if n == nil || n.Payload.Kind != ast.String {
		return ""
	}
	return n.Payload.StringVal
}

func returnTypeOf(n *ast.Node) string {
	return optionalString(n)
}
