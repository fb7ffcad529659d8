// Package ast defines the generic abstract syntax tree node model of
// SPEC_FULL.md §3.2/§9: a single Node type tagged by a kind string, carrying
// a payload that is one of Children/Integer/Float/String/Epsilon.
//
// This deliberately departs from the teacher's own per-node-type Visitor
// interface hierarchy (nilan's ast/interfaces.go); SPEC_FULL.md §9 explicitly
// calls for no open-ended inheritance hierarchy, so new node kinds are new
// string tags rather than new Go types. See DESIGN.md for the full
// grounding of this departure.
package ast

import "fmt"

// PayloadKind tags which field of Payload is live.
type PayloadKind int

const (
	Children PayloadKind = iota
	Integer
	Float
	String
	Epsilon
)

// Payload is the tagged variant carried by a Node (SPEC_FULL.md §3.2).
type Payload struct {
	Kind        PayloadKind
	ChildrenVal []*Node
	IntVal      int64
	FloatVal    float64
	StringVal   string
}

func ChildrenPayload(children ...*Node) Payload {
	return Payload{Kind: Children, ChildrenVal: children}
}
func IntegerPayload(v int64) Payload  { return Payload{Kind: Integer, IntVal: v} }
func FloatPayload(v float64) Payload  { return Payload{Kind: Float, FloatVal: v} }
func StringPayload(v string) Payload  { return Payload{Kind: String, StringVal: v} }
func EpsilonPayload() Payload         { return Payload{Kind: Epsilon} }

// Node is the single AST node type (SPEC_FULL.md §3.2). Annotations are
// populated by the type checker (§4.6): "data_type", "label", "callee",
// "if_id", "while_id". Array rank is carried as "[]" suffixes on
// "data_type"; no separate "dimensions" annotation is set.
type Node struct {
	Kind        string
	Payload     Payload
	Line, Col   int
	Annotations map[string]string
}

// NewLeaf builds a leaf node carrying a non-Children payload.
func NewLeaf(kind string, payload Payload, line, col int) *Node {
	return &Node{Kind: kind, Payload: payload, Line: line, Col: col, Annotations: map[string]string{}}
}

// NewList builds a node carrying an ordered Children payload.
func NewList(kind string, children []*Node, line, col int) *Node {
	return &Node{Kind: kind, Payload: ChildrenPayload(children...), Line: line, Col: col, Annotations: map[string]string{}}
}

// IsLeaf reports whether this node carries a non-Children payload.
func (n *Node) IsLeaf() bool { return n.Payload.Kind != Children }

// Children returns the node's child list, or nil if this is a leaf.
func (n *Node) Children() []*Node {
	if n.Payload.Kind != Children {
		return nil
	}
	return n.Payload.ChildrenVal
}

// Append adds a child to a Children-payload node (SPEC_FULL.md §4.3's
// MakeSibling action).
func (n *Node) Append(child *Node) {
	n.Payload.ChildrenVal = append(n.Payload.ChildrenVal, child)
}

// Annotate sets an annotation, creating the map if needed.
func (n *Node) Annotate(key, value string) {
	if n.Annotations == nil {
		n.Annotations = map[string]string{}
	}
	n.Annotations[key] = value
}

// DataType returns the "data_type" annotation, or "" if unset.
func (n *Node) DataType() string { return n.Annotations["data_type"] }

// Label returns the "label" annotation (mangled assembly name), or "" if unset.
func (n *Node) Label() string { return n.Annotations["label"] }

func (n *Node) leafText() string {
	switch n.Payload.Kind {
	case Integer:
		return fmt.Sprintf("%d", n.Payload.IntVal)
	case Float:
		return fmt.Sprintf("%g", n.Payload.FloatVal)
	case String:
		return n.Payload.StringVal
	case Epsilon:
		return "ε"
	default:
		return ""
	}
}
