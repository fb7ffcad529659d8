package check

import (
	"oolangc/ast"
	"oolangc/mangle"
	"oolangc/symtab"
)

// resolveCall implements SPEC_FULL.md §4.6's function-call rule: collect
// argument types, then select the unique overload whose parameter types
// match element-wise (array rank compared separately via
// symtab.Param.TypeString, which already folds rank into the string). A
// method body searches its own class (then ancestors) before falling back
// to free functions; a free function body only ever sees free functions.
func (c *checker) resolveCall(ctx *funcCtx, n *ast.Node) string {
	view, err := ast.AsCall(n)
	if err != nil {
		c.errorf(n.Line, n.Col, "MalformedAst", "%s", err)
		return c.annotate(n, errorType, "")
	}
	id := view.ID.Payload.StringVal

	argTypes := make([]string, 0, len(view.Args.Children()))
	ok := true
	for _, arg := range view.Args.Children() {
		t := c.resolveExpr(ctx, arg)
		if t == errorType {
			ok = false
		}
		argTypes = append(argTypes, t)
	}
	if !ok {
		return c.annotate(n, errorType, "")
	}

	match := findOverload(ctx.global, ctx.class, id, argTypes)
	if match == nil {
		c.errorf(n.Line, n.Col, "NoMatchingOverload",
			"no overload of %q matches the given argument types", id)
		return c.annotate(n, errorType, "")
	}

	// Record which concrete overload was selected, mangled, so the
	// emitter can generate the call site without re-running overload
	// resolution itself (SPEC_FULL.md §4.7: "the emitter does NOT
	// re-check types; it assumes the AST has been fully annotated").
	calleeParamTypes := make([]string, len(match.Params))
	for i, p := range match.Params {
		calleeParamTypes[i] = p.TypeString()
	}
	n.Annotate("callee", mangle.Function(match.Scope, match.Id, calleeParamTypes))

	if match.ReturnType == "" {
		return c.annotate(n, "", "")
	}
	tmp := &symtab.Temporary{Id: nextTempID(ctx.fn), DataType: match.ReturnType}
	tmp.ComputedSize()
	ctx.fn.Table.Add(tmp)
	return c.annotate(n, match.ReturnType, entryLabel(ctx, tmp, nil))
}

func findOverload(global *symtab.Table, class *symtab.Class, id string, argTypes []string) *symtab.Function {
	if class != nil {
		if fn := matchFunctions(class.Table.Functions(), id, argTypes); fn != nil {
			return fn
		}
		if fn := findInheritedOverload(global, class, id, argTypes, map[string]bool{class.Id: true}); fn != nil {
			return fn
		}
	}
	return matchFunctions(global.Functions(), id, argTypes)
}

func findInheritedOverload(global *symtab.Table, cls *symtab.Class, id string, argTypes []string, visited map[string]bool) *symtab.Function {
	for _, parentName := range cls.Table.Inherits() {
		if visited[parentName] {
			continue
		}
		visited[parentName] = true
		parent, ok := global.Get(parentName).(*symtab.Class)
		if !ok {
			continue
		}
		if fn := matchFunctions(parent.Table.Functions(), id, argTypes); fn != nil {
			return fn
		}
		if fn := findInheritedOverload(global, parent, id, argTypes, visited); fn != nil {
			return fn
		}
	}
	return nil
}

func matchFunctions(candidates []*symtab.Function, id string, argTypes []string) *symtab.Function {
	for _, fn := range candidates {
		if fn.Id != id || len(fn.Params) != len(argTypes) {
			continue
		}
		match := true
		for i, p := range fn.Params {
			if p.TypeString() != argTypes[i] {
				match = false
				break
			}
		}
		if match {
			return fn
		}
	}
	return nil
}
