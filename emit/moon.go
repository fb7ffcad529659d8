package emit

import (
	"fmt"
	"strings"
)

// LabelWidth and InstrWidth are the target-VM assembler's fixed column
// widths (SPEC_FULL.md §2C/§4.7), ported as named constants from
// original_source/code_gen/src/moon_instructions.rs's LABEL_WIDTH/
// INSTRUCTION_WIDTH rather than repeating the literals at each call site.
const (
	LabelWidth = 24
	InstrWidth = 5
)

// labeledLine formats a line carrying its own label in column 1.
func labeledLine(label, instruction string) string {
	return fmt.Sprintf(" %-*s %s", LabelWidth, label, instruction)
}

// instrLine formats a label-less instruction line.
func instrLine(instruction string) string {
	return fmt.Sprintf(" %-*s %s", LabelWidth, "", instruction)
}

// cmtLine formats a full-line comment. original_source's own cmt_line
// leaves the comment unmarked; SPEC_FULL.md §4.7 calls for a `;` prefix so
// a human (or a re-assembler) can tell comment lines from code at a
// glance, so this departs from the original by exactly that prefix.
func cmtLine(comment string) string {
	return instrLine("; " + comment)
}

func instrBare(op string) string {
	return fmt.Sprintf("%-*s", InstrWidth, op)
}

func instrSingle(op, a string) string {
	return fmt.Sprintf("%-*s %s", InstrWidth, op, a)
}

func instrDouble(op, a, b string) string {
	return fmt.Sprintf("%-*s %s, %s", InstrWidth, op, a, b)
}

func instrTriple(op, a, b, c string) string {
	return fmt.Sprintf("%-*s %s, %s, %s", InstrWidth, op, a, b, c)
}

func loadW(ri, k, rj string) string {
	return fmt.Sprintf("%-*s %s,%s(%s)", InstrWidth, "lw", ri, k, rj)
}

func storeW(k, rj, ri string) string {
	return fmt.Sprintf("%-*s %s(%s),%s", InstrWidth, "sw", k, rj, ri)
}

func add(dst, lhs, rhs string) string     { return instrTriple("add", dst, lhs, rhs) }
func sub(dst, lhs, rhs string) string     { return instrTriple("sub", dst, lhs, rhs) }
func mul(dst, lhs, rhs string) string     { return instrTriple("mul", dst, lhs, rhs) }
func div(dst, lhs, rhs string) string     { return instrTriple("div", dst, lhs, rhs) }
func bitAnd(dst, lhs, rhs string) string  { return instrTriple("and", dst, lhs, rhs) }
func bitOr(dst, lhs, rhs string) string   { return instrTriple("or", dst, lhs, rhs) }
func cmpEq(dst, lhs, rhs string) string   { return instrTriple("ceq", dst, lhs, rhs) }
func cmpNeq(dst, lhs, rhs string) string  { return instrTriple("cne", dst, lhs, rhs) }
func cmpLt(dst, lhs, rhs string) string   { return instrTriple("clt", dst, lhs, rhs) }
func cmpLte(dst, lhs, rhs string) string  { return instrTriple("cle", dst, lhs, rhs) }
func cmpGt(dst, lhs, rhs string) string   { return instrTriple("cgt", dst, lhs, rhs) }
func cmpGte(dst, lhs, rhs string) string  { return instrTriple("cge", dst, lhs, rhs) }
func addI(dst, lhs, k string) string      { return instrTriple("addi", dst, lhs, k) }

func jmpZero(ri, k string) string { return instrDouble("bz", ri, k) }
func jmp(k string) string         { return instrSingle("j", k) }
func jmpLnk(ri, k string) string  { return instrDouble("jl", ri, k) }
func jmpReg(ri string) string     { return instrSingle("jr", ri) }

func noop() string  { return instrBare("nop") }
func halt() string  { return instrBare("hlt") }
func entry() string { return instrBare("entry") }
func align() string { return instrBare("align") }

func res(k string) string { return instrSingle("res", k) }
func org(k string) string { return instrSingle("org", k) }

// dw reserves initialized words; db reserves initialized bytes (a string
// literal's backing storage, SPEC_FULL.md §4.6A). Unlike
// original_source/code_gen/src/moon_instructions.rs's mem_store_b (which
// reuses the "dw" mnemonic constant for byte storage — a bug in the
// original left uncorrected there), this emits the distinct "db"
// directive the two really call for.
func dw(vals ...string) string { return memStore("dw", vals) }
func db(vals ...string) string { return memStore("db", vals) }

func memStore(mnemonic string, vals []string) string {
	return fmt.Sprintf("%-*s", InstrWidth, mnemonic) + strings.Join(vals, ", ")
}

// opInstr maps a binary-operator node's Kind to the triple-register
// instruction emitting it (SPEC_FULL.md §4.7's expression emission
// pattern). and/or reuse the bitwise instructions since they are parsed as
// +/× over integer operands (Open Question 4, resolved in package check).
func opInstr(op, dst, lhs, rhs string) string {
	switch op {
	case "+":
		return add(dst, lhs, rhs)
	case "-":
		return sub(dst, lhs, rhs)
	case "*":
		return mul(dst, lhs, rhs)
	case "/":
		return div(dst, lhs, rhs)
	case "and":
		return bitAnd(dst, lhs, rhs)
	case "or":
		return bitOr(dst, lhs, rhs)
	case "==":
		return cmpEq(dst, lhs, rhs)
	case "!=":
		return cmpNeq(dst, lhs, rhs)
	case "<":
		return cmpLt(dst, lhs, rhs)
	case "<=":
		return cmpLte(dst, lhs, rhs)
	case ">":
		return cmpGt(dst, lhs, rhs)
	case ">=":
		return cmpGte(dst, lhs, rhs)
	default:
		panic(fmt.Sprintf("emit: unrecognized binary operator %q", op))
	}
}
