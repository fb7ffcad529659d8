// Package grammar implements the LL(1) grammar engine of SPEC_FULL.md §4.2:
// FIRST/FOLLOW computation with fixpoint expansion, and parse-table
// construction. Grounded on original_source/syntactic_analyzer/src/grammar2.rs
// (the pack's final, tested Grammar implementation) and
// original_source/syntactic_analyzer/src/parse_table2.rs.
package grammar

import "fmt"

// Kind tags the variant a Symbol is (SPEC_FULL.md §3.3).
type Kind int

const (
	Terminal Kind = iota
	NonTerminal
	Action
	Epsilon
	Eos
)

// epsilonMarker and eosMarker are the internal set-membership keys used by
// FIRST/FOLLOW sets; they never collide with a real terminal name because
// grammar terminals come from quoted literals in the grammar file.
const (
	epsilonMarker = "\x00EPSILON"
	eosMarker     = "\x00EOS"
)

// ActionOp describes one semantic action (SPEC_FULL.md §3.3/§4.3). The
// accepted spellings inside a grammar file's @...@ token are the ones
// ParseActionOp (action.go) lists.
type ActionOp struct {
	Op   string // "makenode" | "makefamily" | "makesibling" | "rename" | "makeepsilon"
	Kind string // makenode/makefamily/makeepsilon only: the new node's kind
	List bool   // makenode only: literal-type is "list" (empty Children payload)
	N    int    // makefamily only: number of children to pop
}

// Symbol is the tagged variant over Terminal/NonTerminal/SemanticAction
// /Epsilon/Eos grammar symbols (SPEC_FULL.md §3.3).
type Symbol struct {
	Kind   Kind
	Name   string // terminal or non-terminal name
	Action ActionOp
}

func NewTerminal(name string) Symbol    { return Symbol{Kind: Terminal, Name: name} }
func NewNonTerminal(name string) Symbol { return Symbol{Kind: NonTerminal, Name: name} }
func NewAction(op ActionOp) Symbol      { return Symbol{Kind: Action, Action: op} }
func NewEpsilon() Symbol                { return Symbol{Kind: Epsilon} }
func NewEos() Symbol                    { return Symbol{Kind: Eos} }

func (s Symbol) String() string {
	switch s.Kind {
	case Terminal:
		return fmt.Sprintf("'%s'", s.Name)
	case NonTerminal:
		return fmt.Sprintf("<%s>", s.Name)
	case Action:
		return fmt.Sprintf("@%s@", s.Action.Op)
	case Epsilon:
		return "EPSILON"
	case Eos:
		return "$"
	default:
		return "?"
	}
}

// setKey returns the FIRST/FOLLOW-set membership key for a terminal/Eos
// symbol (the only kinds that ever appear inside a FIRST or FOLLOW set).
func (s Symbol) setKey() string {
	if s.Kind == Eos {
		return eosMarker
	}
	return s.Name
}
