package emit

import (
	"fmt"
	"math"
	"strconv"

	"oolangc/ast"
	"oolangc/mangle"
	"oolangc/symtab"
)

// outputBufferSize is the fixed word count reserved for intstr's
// numeric-to-string scratch space (SPEC_FULL.md §4.7). Like every other
// res directive here, the reservation is given in bytes: 4 per word.
const outputBufferSize = 20

// Emit runs the single-pass code emitter of SPEC_FULL.md §4.7 over a
// type-checked AST (root, per symtab.Build + check.Check) and its global
// symbol table, returning the data-segment and code-segment lines.
// Concatenating code then data (in that order) produces the final
// assembly text.
func Emit(root *ast.Node, global *symtab.Table) (data, code []string) {
	e := &emitter{regs: NewRegisterPool()}

	for _, l := range splitLines(preamble) {
		e.code = append(e.code, l)
	}

	e.data = append(e.data, cmtLine("Buffer space used for console output"))
	e.reserveData("buf", outputBufferSize*4)

	e.reserveSpace(global, "")

	prog, err := ast.AsProg(root)
	if err != nil {
		panic(fmt.Sprintf("emit: %s", err))
	}

	mainEntry := global.Get("main")
	mainFn, ok := mainEntry.(*symtab.Function)
	if !ok {
		panic("emit: global table has no main function entry")
	}
	e.emitEntryPoint(prog.MainBody, mainFn)

	for _, fn := range global.Functions() {
		if fn.Id == "main" || !fn.Defined {
			continue
		}
		e.emitFunction(fn, "")
	}
	for _, class := range global.Classes() {
		for _, fn := range class.Table.Functions() {
			if !fn.Defined {
				continue
			}
			e.emitFunction(fn, class.Id)
		}
	}

	return e.data, e.code
}

type emitter struct {
	regs *RegisterPool
	data []string
	code []string
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

// --- data segment: reservation (SPEC_FULL.md §4.7's "Data-segment
// reservation") ---

func (e *emitter) reserveData(label string, words int) {
	e.data = append(e.data, labeledLine(label, res(strconv.Itoa(words))))
	e.data = append(e.data, instrLine(align()))
}

// reserveSpace walks table (and every nested Class/Function table)
// emitting a res/dw directive for each Local/Param/Data/Literal/Temporary
// entry, mirroring original_source/code_gen/src/visitor.rs's
// reserve_space. fnMangle is the mangled name of the enclosing function,
// used to label that function's own Locals/Params/Literals/Temporaries;
// it is unused for Class/Data entries, which are labeled from the table's
// own Scope (a Class's table is always scoped to its own id — see
// symtab.NewClass).
func (e *emitter) reserveSpace(table *symtab.Table, fnMangle string) {
	for _, entry := range table.Values {
		switch v := entry.(type) {
		case *symtab.Class:
			e.data = append(e.data, cmtLine(fmt.Sprintf("Reserved memory for class %s", v.Id)))
			e.reserveSpace(v.Table, "")

		case *symtab.Function:
			paramTypes := make([]string, len(v.Params))
			for i, p := range v.Params {
				paramTypes[i] = p.TypeString()
			}
			owner := ""
			if v.Scope != "" {
				owner = v.Scope
			}
			fm := mangle.Function(owner, v.Id, paramTypes)
			e.data = append(e.data, cmtLine(fmt.Sprintf("Reserved memory for function %s", v.Id)))
			e.reserveSpace(v.Table, fm)

		case *symtab.Data:
			// A class field is static, class-scoped storage (this
			// language has no object-instantiation syntax); its label is
			// scoped to the class, not any one function.
			label := mangle.ID(mangle.Function(table.Scope, "", nil), v.Id)
			e.reserveData(label, sizeOf(v.ActualType, v.Dims))

		case *symtab.Local:
			e.reserveData(mangle.ID(fnMangle, v.Id), sizeOf(v.ActualType, v.Dims))

		case *symtab.Param:
			e.reserveData(mangle.ID(fnMangle, v.Id), sizeOfParam(v))

		case *symtab.Temporary:
			e.reserveData(mangle.ID(fnMangle, v.Id), v.ComputedSize())

		case *symtab.Literal:
			e.reserveLiteral(fnMangle, v)
		}
	}
}

// sizeOf computes a scalar or array's byte size (base size × product of
// dimensions), grounded on
// original_source/semantic_analyzer/src/symbol_table/sizes.rs's size_of.
func sizeOf(base string, dims []int64) int {
	size := baseSize(base)
	for _, d := range dims {
		if d > 0 {
			size *= int(d)
		}
	}
	return size
}

// sizeOfParam mirrors sizes.rs's size_of_optional: a scalar parameter is
// its base size, but any array parameter — by-reference, so its
// dimensions may be unspecified — is always address-sized (a pointer),
// never the element-count product.
func sizeOfParam(p *symtab.Param) int {
	if len(p.Dims) == 0 {
		return baseSize(p.TypeString())
	}
	return 4
}

func baseSize(dataType string) int {
	switch dataType {
	case "integer", "float":
		return 4
	case "string":
		return 4 // address-width; the bytes live at a companion label
	default:
		return 4
	}
}

func (e *emitter) reserveLiteral(fnMangle string, lit *symtab.Literal) {
	label := mangle.ID(fnMangle, lit.Id)
	switch lit.Kind {
	case symtab.IntegerLiteral:
		e.data = append(e.data, labeledLine(label, dw(strconv.FormatInt(lit.IntVal, 10))))
	case symtab.RealLiteral:
		bits := math.Float32bits(float32(lit.RealVal))
		e.data = append(e.data, labeledLine(label, dw(strconv.FormatInt(int64(int32(bits)), 10))))
	default: // StringLiteral, SPEC_FULL.md §4.6A
		bytesLabel := label + "_bytes"
		e.data = append(e.data, labeledLine(bytesLabel, db(strconv.Quote(lit.StrVal)+",0")))
		e.data = append(e.data, labeledLine(label, dw(bytesLabel)))
	}
}

// --- code segment ---

func (e *emitter) emitEntryPoint(body *ast.Node, mainFn *symtab.Function) {
	e.code = append(e.code, cmtLine("Begin main"))
	e.code = append(e.code, instrLine(entry()))
	e.code = append(e.code, instrLine(addI(R14, R0, "topaddr")))

	ctx := &funcCtx{fm: mangle.Function("", "main", nil)}
	e.emitBlock(ctx, body)

	e.code = append(e.code, instrLine(halt()))
	e.code = append(e.code, cmtLine("End of program / beginning of data"))
}

func (e *emitter) emitFunction(fn *symtab.Function, classID string) {
	paramTypes := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		paramTypes[i] = p.TypeString()
	}
	fm := mangle.Function(classID, fn.Id, paramTypes)

	e.code = append(e.code, cmtLine(fmt.Sprintf("Defining function %s", fn.Id)))
	e.code = append(e.code, labeledLine(fm, noop()))

	ctx := &funcCtx{fm: fm}
	e.emitBlock(ctx, fn.Body)

	e.code = append(e.code, labeledLine(mangle.FunctionExit(fm), noop()))
	e.code = append(e.code, instrLine(jmpReg(R15)))
}

// funcCtx carries the enclosing function's mangled name through a single
// emitFunction/emitEntryPoint call.
type funcCtx struct {
	fm string
}

func (e *emitter) emitBlock(ctx *funcCtx, block *ast.Node) {
	for _, stmt := range block.Children() {
		e.emitStmt(ctx, stmt)
	}
}

func (e *emitter) emitStmt(ctx *funcCtx, n *ast.Node) {
	switch n.Kind {
	case "varDecl":
		// Storage already reserved by reserveSpace.
	case "assignOp":
		e.emitAssign(ctx, n)
	case "ifStat":
		e.emitIf(ctx, n)
	case "whileStat":
		e.emitWhile(ctx, n)
	case "writeStat":
		e.emitWrite(ctx, n)
	case "returnStat":
		e.emitReturn(ctx, n)
	case "call":
		e.emitExpr(ctx, n)
	case "statBlock":
		e.emitBlock(ctx, n)
	default:
		panic(fmt.Sprintf("emit: unrecognized statement node kind %q", n.Kind))
	}
}

// emitExpr emits any instructions a (sub-)expression needs to compute its
// value. A literal or variable reference needs none — its label already
// addresses valid storage, reserved ahead of time by reserveSpace;
// composite expressions (binary operators, calls) are the only ones that
// produce runtime instructions, matching
// original_source/code_gen/src/visitor.rs's own no-op intfactor/
// floatfactor/id/dataMember visitor cases.
func (e *emitter) emitExpr(ctx *funcCtx, n *ast.Node) {
	switch {
	case arithmeticOps[n.Kind] || relationalOps[n.Kind]:
		e.emitBinaryOp(ctx, n)
	case n.Kind == "call":
		e.emitCall(ctx, n)
	}
}

var arithmeticOps = map[string]bool{"+": true, "-": true, "*": true, "/": true, "and": true, "or": true}
var relationalOps = map[string]bool{"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true}

func (e *emitter) emitBinaryOp(ctx *funcCtx, n *ast.Node) {
	children := n.Children()
	lhs, rhs := children[0], children[1]
	e.emitExpr(ctx, lhs)
	e.emitExpr(ctx, rhs)

	rental := e.regs.Reserve(3)
	dstReg := e.regs.Pop()
	lhsReg := e.regs.Pop()
	rhsReg := e.regs.Pop()

	lhsLabel, rhsLabel, dstLabel := lhs.Label(), rhs.Label(), n.Label()
	e.code = append(e.code, cmtLine(fmt.Sprintf("%s <- %s %s %s", dstLabel, lhsLabel, n.Kind, rhsLabel)))
	e.code = append(e.code, instrLine(loadW(lhsReg, lhsLabel, R0)))
	e.code = append(e.code, instrLine(loadW(rhsReg, rhsLabel, R0)))
	e.code = append(e.code, instrLine(opInstr(n.Kind, dstReg, lhsReg, rhsReg)))
	e.code = append(e.code, instrLine(storeW(dstLabel, R0, dstReg)))

	e.regs.Release(rental)
}

// emitCall emits a call site: each argument's value is stored into the
// callee's mangled parameter slot, then control transfers via jl; if the
// callee is non-void, its return-value slot is copied into this call
// node's own Temporary. The callee was already selected and mangled by
// package check (node annotation "callee") — this package never
// re-resolves overloads.
func (e *emitter) emitCall(ctx *funcCtx, n *ast.Node) {
	view, err := ast.AsCall(n)
	if err != nil {
		panic(fmt.Sprintf("emit: %s", err))
	}
	callee := n.Annotations["callee"]
	if callee == "" {
		panic("emit: call node missing \"callee\" annotation from package check")
	}

	args := view.Args.Children()
	for _, arg := range args {
		e.emitExpr(ctx, arg)
	}

	rental := e.regs.Reserve(1)
	reg := e.regs.Pop()
	for i, arg := range args {
		e.code = append(e.code, instrLine(loadW(reg, arg.Label(), R0)))
		e.code = append(e.code, instrLine(storeW(mangle.FunctionParameter(callee, i), R0, reg)))
	}
	e.regs.Release(rental)

	e.code = append(e.code, cmtLine(fmt.Sprintf("Calling %s", callee)))
	e.code = append(e.code, instrLine(jmpLnk(R15, callee)))

	if dstLabel := n.Label(); dstLabel != "" {
		rental := e.regs.Reserve(1)
		reg := e.regs.Pop()
		e.code = append(e.code, instrLine(loadW(reg, mangle.FunctionReturn(callee), R0)))
		e.code = append(e.code, instrLine(storeW(dstLabel, R0, reg)))
		e.regs.Release(rental)
	}
}

func (e *emitter) emitAssign(ctx *funcCtx, n *ast.Node) {
	view, err := ast.AsAssignOp(n)
	if err != nil {
		panic(fmt.Sprintf("emit: %s", err))
	}
	e.emitExpr(ctx, view.RHS)

	rental := e.regs.Reserve(1)
	reg := e.regs.Pop()
	dst, src := view.LHS.Label(), view.RHS.Label()
	e.code = append(e.code, cmtLine(fmt.Sprintf("Processing assign op to %q from %q", dst, src)))
	e.code = append(e.code, instrLine(loadW(reg, src, R0)))
	e.code = append(e.code, instrLine(storeW(dst, R0, reg)))
	e.regs.Release(rental)
}

func (e *emitter) emitIf(ctx *funcCtx, n *ast.Node) {
	view, err := ast.AsIfStat(n)
	if err != nil {
		panic(fmt.Sprintf("emit: %s", err))
	}
	ifID := n.Annotations["if_id"]
	elseLabel := ctx.fm + "_else" + ifID
	endifLabel := ctx.fm + "_endif" + ifID

	e.code = append(e.code, cmtLine(fmt.Sprintf("If statement (%s, %s)", elseLabel, endifLabel)))
	e.emitExpr(ctx, view.Cond)

	rental := e.regs.Reserve(1)
	reg := e.regs.Pop()
	e.code = append(e.code, instrLine(loadW(reg, view.Cond.Label(), R0)))
	e.code = append(e.code, instrLine(jmpZero(reg, elseLabel)))
	e.regs.Release(rental)

	e.emitBlock(ctx, view.Then)
	e.code = append(e.code, instrLine(jmp(endifLabel)))
	e.code = append(e.code, labeledLine(elseLabel, noop()))
	if view.Else.Payload.Kind != ast.Epsilon {
		e.emitBlock(ctx, view.Else)
	}
	e.code = append(e.code, labeledLine(endifLabel, noop()))
}

func (e *emitter) emitWhile(ctx *funcCtx, n *ast.Node) {
	view, err := ast.AsWhileStat(n)
	if err != nil {
		panic(fmt.Sprintf("emit: %s", err))
	}
	whileID := n.Annotations["while_id"]
	headLabel := ctx.fm + "_while" + whileID
	endLabel := ctx.fm + "_endwhile" + whileID

	e.code = append(e.code, labeledLine(headLabel, noop()))
	e.code = append(e.code, cmtLine(fmt.Sprintf("While statement (%s, %s)", headLabel, endLabel)))
	e.emitExpr(ctx, view.Cond)

	rental := e.regs.Reserve(1)
	reg := e.regs.Pop()
	e.code = append(e.code, instrLine(loadW(reg, view.Cond.Label(), R0)))
	e.code = append(e.code, instrLine(jmpZero(reg, endLabel)))
	e.regs.Release(rental)

	e.emitBlock(ctx, view.Body)
	e.code = append(e.code, instrLine(jmp(headLabel)))
	e.code = append(e.code, labeledLine(endLabel, noop()))
}

// emitWrite emits the fixed write-statement shape of SPEC_FULL.md §4.7:
// load the value, store it at -8(r14), point -12(r14) at the output
// buffer, and make two linked jumps into the preamble's intstr/putstr
// routines.
func (e *emitter) emitWrite(ctx *funcCtx, n *ast.Node) {
	children := n.Children()
	e.emitExpr(ctx, children[0])
	src := children[0].Label()

	rental := e.regs.Reserve(1)
	reg := e.regs.Pop()
	e.code = append(e.code, cmtLine("Processing write statement"))
	e.code = append(e.code, instrLine(loadW(reg, src, R0)))
	e.code = append(e.code, cmtLine("put value on stack"))
	e.code = append(e.code, instrLine(storeW("-8", R14, reg)))
	e.code = append(e.code, cmtLine("link buffer to stack"))
	e.code = append(e.code, instrLine(addI(reg, R0, "buf")))
	e.code = append(e.code, instrLine(storeW("-12", R14, reg)))
	e.code = append(e.code, cmtLine("convert value to string for output"))
	e.code = append(e.code, instrLine(jmpLnk(R15, "intstr")))
	e.code = append(e.code, instrLine(storeW("-8", R14, R13)))
	e.code = append(e.code, cmtLine("output to console"))
	e.code = append(e.code, instrLine(jmpLnk(R15, "putstr")))
	e.regs.Release(rental)
}

func (e *emitter) emitReturn(ctx *funcCtx, n *ast.Node) {
	children := n.Children()
	value := children[0]
	if value.Payload.Kind == ast.Epsilon {
		e.code = append(e.code, instrLine(jmp(mangle.FunctionExit(ctx.fm))))
		return
	}
	e.emitExpr(ctx, value)

	rental := e.regs.Reserve(1)
	reg := e.regs.Pop()
	e.code = append(e.code, cmtLine("Processing return statement"))
	e.code = append(e.code, instrLine(loadW(reg, value.Label(), R0)))
	e.code = append(e.code, instrLine(storeW(mangle.FunctionReturn(ctx.fm), R0, reg)))
	e.regs.Release(rental)

	e.code = append(e.code, instrLine(jmp(mangle.FunctionExit(ctx.fm))))
}
