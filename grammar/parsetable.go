package grammar

import "fmt"

// ParseTable maps NonTerminal -> (Terminal-name|eosMarker) -> the index of
// the winning production alternative in Grammar.Productions[NonTerminal]
// (SPEC_FULL.md §3.5).
type ParseTable struct {
	cells map[string]map[string]int
}

// BuildParseTable constructs the LL(1) parse table, per SPEC_FULL.md §4.2.
// A grammar that would assign two distinct options to the same cell is
// rejected as non-LL(1) (a fatal grammar conflict, §7 class 1).
func BuildParseTable(g *Grammar) (*ParseTable, error) {
	t := &ParseTable{cells: map[string]map[string]int{}}
	for _, nt := range g.Order {
		t.cells[nt] = map[string]int{}
	}

	for _, lhs := range g.Order {
		for i, sentence := range g.Productions[lhs] {
			sentFirst := g.sentenceFirst(sentence, map[string]bool{})
			_, hasEps := sentFirst[epsilonMarker]
			for term := range sentFirst {
				if term == epsilonMarker {
					continue
				}
				if err := t.set(lhs, term, i); err != nil {
					return nil, err
				}
			}
			if hasEps {
				for term := range g.followSets[lhs] {
					if err := t.set(lhs, term, i); err != nil {
						return nil, err
					}
				}
			}
		}
	}
	return t, nil
}

func (t *ParseTable) set(lhs, term string, option int) error {
	if existing, ok := t.cells[lhs][term]; ok && existing != option {
		return fmt.Errorf("grammar: LL(1) conflict at T[%s][%s]: options %d and %d both apply", lhs, displayTerm(term), existing, option)
	}
	t.cells[lhs][term] = option
	return nil
}

// Lookup returns the production option index for T[nt][term], or false if
// the cell is empty (a syntax error during parsing, §4.3).
func (t *ParseTable) Lookup(nt, term string) (int, bool) {
	row, ok := t.cells[nt]
	if !ok {
		return 0, false
	}
	opt, ok := row[term]
	return opt, ok
}

// LookupEos looks up T[nt][Eos].
func (t *ParseTable) LookupEos(nt string) (int, bool) {
	return t.Lookup(nt, eosMarker)
}

func displayTerm(term string) string {
	if term == eosMarker {
		return "$"
	}
	return term
}
