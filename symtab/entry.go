// Package symtab implements the nested symbol-table model of SPEC_FULL.md
// §3.6/§4.5: a builder pass over the generic AST that produces an ordered,
// non-map table of tagged-variant entries, plus a rosed-rendered text dump.
//
// Grounded on original_source/semantic_analyzer/src/symbol_table/*.rs (the
// Class/Function/Inherit/Param/Local/Data/Literal/Temporary structs and the
// SymbolTableEntry enum in symbol_table.rs) and
// original_source/semantic_analyzer/src/symbol_table_creator.rs (the
// AST-dispatch builder). This departs from the teacher (informatter-nilan
// has no symbol table at all — its interpreter resolves names dynamically
// at eval time); the nested-table shape and entry vocabulary are adapted
// from the Rust original into Go idiom: an Entry interface implemented by
// concrete structs instead of an enum, matching how the teacher's own
// ast/ package used one Go type per grammar production. See DESIGN.md.
package symtab

import (
	"fmt"

	"oolangc/ast"
)

// Visibility is a class member's declared access (public/private), carried
// on Data and Function entries.
type Visibility int

const (
	Public Visibility = iota
	Private
)

func (v Visibility) String() string {
	if v == Private {
		return "private"
	}
	return "public"
}

// LiteralKind tags a Literal entry's value variant.
type LiteralKind int

const (
	IntegerLiteral LiteralKind = iota
	RealLiteral
	StringLiteral
)

// Entry is the tagged-variant symbol-table entry of SPEC_FULL.md §3.6.
// Implemented by *Class, *Function, *Inherit, *Param, *Local, *Data,
// *Literal, *Temporary.
type Entry interface {
	// ID returns the entry's identifier, or "" for entries with no name
	// of their own (Inherit).
	ID() string
	// String renders a one-line human-readable description, matching the
	// teacher's fmt.Stringer-everywhere convention.
	String() string
}

// Class is a class declaration's entry: its own id and a nested symbol
// table holding its Inherit entry, field Data entries, and member-function
// stubs/definitions.
type Class struct {
	Id    string
	Table *Table
}

func NewClass(id string) *Class {
	return &Class{Id: id, Table: New(id, id)}
}

func (c *Class) ID() string     { return c.Id }
func (c *Class) String() string { return fmt.Sprintf("Class %s", c.Id) }

// Function is a free or member function, declared or defined.
type Function struct {
	Id         string
	Scope      string // owning class id, "" if free
	Params     []Param
	ReturnType string // "" means void
	Visibility Visibility
	HasVis     bool // Visibility is only meaningful for class members
	Table      *Table
	Defined    bool
	Line, Col  int
	// Body is the function's "statBlock" AST node, retained so the type
	// checker (package check) can walk it without re-deriving which
	// funcDef a symbol-table entry came from.
	Body *ast.Node
}

func NewFunctionDefinition(id, scope string, params []Param, returnType string, line, col int) *Function {
	name := id
	if scope != "" {
		name = scope + "::" + id
	}
	return &Function{
		Id: id, Scope: scope, Params: params, ReturnType: returnType,
		Table: New(name, scope), Defined: true, Line: line, Col: col,
	}
}

func NewFunctionDeclaration(id, scope string, params []Param, returnType string, vis Visibility, line, col int) *Function {
	return &Function{
		Id: id, Scope: scope, Params: params, ReturnType: returnType,
		Visibility: vis, HasVis: true,
		Table: New(scope+"::"+id, scope), Defined: false, Line: line, Col: col,
	}
}

func (f *Function) ID() string { return f.Id }

// Signature renders the "(type,type,...)" portion of a function's display
// string and is the value compared for redefinition/overload detection.
func (f *Function) Signature() string {
	out := "("
	for i, p := range f.Params {
		if i > 0 {
			out += ","
		}
		out += p.TypeString()
	}
	return out + ")"
}

// SameSignature reports whether two functions share an id and an identical
// ordered parameter-type sequence (SPEC_FULL.md §4.5's redefinition rule;
// return type is deliberately excluded).
func (f *Function) SameSignature(other *Function) bool {
	if f.Id != other.Id || len(f.Params) != len(other.Params) {
		return false
	}
	for i := range f.Params {
		if f.Params[i].TypeString() != other.Params[i].TypeString() {
			return false
		}
	}
	return true
}

func (f *Function) String() string {
	vis := ""
	if f.HasVis {
		vis = f.Visibility.String() + " "
	}
	return fmt.Sprintf("Function %s%s%s", vis, f.Id, f.Signature())
}

// Inherit records a class's ordered parent-class id list.
type Inherit struct {
	Names []string
}

func NewInherit(names []string) *Inherit { return &Inherit{Names: append([]string{}, names...)} }

func (i *Inherit) ID() string { return "" }
func (i *Inherit) String() string {
	out := "Inherit"
	for j, n := range i.Names {
		if j == 0 {
			out += " " + n
		} else {
			out += ", " + n
		}
	}
	return out
}

// Param is a function parameter: id, declared type, and array dimensions
// (empty-bracket dims, represented as -1, are legal for by-reference
// array parameters per SPEC_FULL.md §4.5's mandatory-dimensions rule).
type Param struct {
	Id       string
	DataType string
	Dims     []int64
}

// TypeString renders the type with its array-rank suffix, e.g. "integer[][3]".
func (p Param) TypeString() string {
	out := p.DataType
	for range p.Dims {
		out += "[]"
	}
	return out
}

func (p Param) ID() string { return p.Id }
func (p Param) String() string {
	return fmt.Sprintf("Parameter %s %s", p.TypeString(), p.Id)
}

// Local is a function-local variable.
type Local struct {
	Id         string
	DataType   string
	ActualType string
	Dims       []int64
}

func (l *Local) ID() string { return l.Id }
func (l *Local) String() string {
	return fmt.Sprintf("Local variable %s %s", typeWithDims(l.ActualType, l.Dims), l.Id)
}

// Data is a class field.
type Data struct {
	Id         string
	DataType   string
	ActualType string
	Visibility Visibility
	Dims       []int64
}

func (d *Data) ID() string { return d.Id }
func (d *Data) String() string {
	return fmt.Sprintf("Member variable %s %s %s", d.Visibility, typeWithDims(d.ActualType, d.Dims), d.Id)
}

func typeWithDims(base string, dims []int64) string {
	out := base
	for range dims {
		out += "[]"
	}
	return out
}

// Literal is a literal value encountered while type-checking an expression,
// sized per SPEC_FULL.md §4.6A (4 bytes for int/float, a 4-byte label cell
// for strings whose bytes live at a companion "_bytes" label).
type Literal struct {
	Id       string
	Kind     LiteralKind
	IntVal   int64
	RealVal  float64
	StrVal   string
	Bytes    int
	Line, Col int
}

func (l *Literal) ID() string { return l.Id }
func (l *Literal) String() string {
	return fmt.Sprintf("Literal value %s %s", l.Id, l.valueString())
}

func (l *Literal) valueString() string {
	switch l.Kind {
	case IntegerLiteral:
		return fmt.Sprintf("%d", l.IntVal)
	case RealLiteral:
		return fmt.Sprintf("%g", l.RealVal)
	default:
		return l.StrVal
	}
}

// ComputedSize fixes Bytes for this literal's kind and returns it.
func (l *Literal) ComputedSize() int {
	switch l.Kind {
	case IntegerLiteral, RealLiteral:
		l.Bytes = 4
	default:
		l.Bytes = 4 // label cell; the backing bytes live at a companion label
	}
	return l.Bytes
}

// Temporary is compiler-allocated expression-result storage, created only
// by the type checker (SPEC_FULL.md §3.6).
type Temporary struct {
	Id       string
	DataType string
	Bytes    int
}

func (t *Temporary) ID() string { return t.Id }
func (t *Temporary) String() string {
	return fmt.Sprintf("Temporary value %s %s", t.DataType, t.Id)
}

// ComputedSize fixes Bytes for this temporary's scalar type (SPEC_FULL.md
// never allocates array-valued temporaries) and returns it.
func (t *Temporary) ComputedSize() int {
	t.Bytes = 4
	return t.Bytes
}
