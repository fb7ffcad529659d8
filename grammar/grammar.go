package grammar

import "fmt"

// Sentence is an ordered sequence of symbols on the right-hand side of a
// production (SPEC_FULL.md §3.4).
type Sentence []Symbol

// Grammar is a start symbol plus its productions, with FIRST/FOLLOW cached
// at construction (SPEC_FULL.md §3.4).
type Grammar struct {
	Start       string
	Productions map[string][]Sentence
	Order       []string // non-terminals in first-seen order, for deterministic dumps

	firstSets  map[string]map[string]struct{}
	followSets map[string]map[string]struct{}
}

// defaultMaxFollowExpansions bounds the FOLLOW fixpoint expansion (SPEC_FULL.md
// §4.2); overridable via compiler.toml's follow_expansion_cap (§6.1).
const defaultMaxFollowExpansions = 1_000_000

// New builds a Grammar from its productions and computes FIRST/FOLLOW.
// maxExpansions <= 0 uses defaultMaxFollowExpansions.
func New(start string, productions map[string][]Sentence, order []string, maxExpansions int) (*Grammar, error) {
	if maxExpansions <= 0 {
		maxExpansions = defaultMaxFollowExpansions
	}
	for lhs, sentences := range productions {
		for _, s := range sentences {
			for _, sym := range s {
				if sym.Kind == NonTerminal {
					if _, ok := productions[sym.Name]; !ok {
						return nil, fmt.Errorf("grammar: non-terminal %q referenced in production for %q has no productions of its own", sym.Name, lhs)
					}
				}
			}
		}
	}

	g := &Grammar{Start: start, Productions: productions, Order: order}
	g.computeFirstSets()
	if err := g.computeFollowSets(maxExpansions); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Grammar) computeFirstSets() {
	g.firstSets = map[string]map[string]struct{}{}
	for _, nt := range g.Order {
		g.firstSets[nt] = g.First(NewNonTerminal(nt))
	}
}

// First computes FIRST(sym), per SPEC_FULL.md §4.2. visited guards against
// left-recursive non-terminals, matching grammar2.rs's first_internal.
func (g *Grammar) First(sym Symbol) map[string]struct{} {
	return g.firstInternal(sym, map[string]bool{})
}

func (g *Grammar) firstInternal(sym Symbol, visited map[string]bool) map[string]struct{} {
	switch sym.Kind {
	case Terminal:
		return map[string]struct{}{sym.Name: {}}
	case Eos:
		return map[string]struct{}{eosMarker: {}}
	case Epsilon:
		return map[string]struct{}{epsilonMarker: {}}
	case Action:
		return map[string]struct{}{epsilonMarker: {}}
	case NonTerminal:
		if visited[sym.Name] {
			return map[string]struct{}{}
		}
		visited[sym.Name] = true
		result := map[string]struct{}{}
		for _, sentence := range g.Productions[sym.Name] {
			for k := range g.sentenceFirst(sentence, visited) {
				result[k] = struct{}{}
			}
		}
		return result
	default:
		return map[string]struct{}{}
	}
}

// sentenceFirst computes FIRST of a whole right-hand side, skipping
// semantic actions (transparent to FIRST/FOLLOW per SPEC_FULL.md §4.2).
func (g *Grammar) sentenceFirst(sentence Sentence, visited map[string]bool) map[string]struct{} {
	result := map[string]struct{}{}
	allEpsilon := true
	for _, sym := range sentence {
		if sym.Kind == Action {
			continue
		}
		symFirst := g.firstInternal(sym, visited)
		_, hasEps := symFirst[epsilonMarker]
		for k := range symFirst {
			if k != epsilonMarker {
				result[k] = struct{}{}
			}
		}
		if !hasEps {
			allEpsilon = false
			break
		}
	}
	if allEpsilon {
		result[epsilonMarker] = struct{}{}
	}
	return result
}

// FirstOf returns the cached FIRST(nt).
func (g *Grammar) FirstOf(nt string) map[string]struct{} { return g.firstSets[nt] }

// FollowOf returns the cached FOLLOW(nt).
func (g *Grammar) FollowOf(nt string) map[string]struct{} { return g.followSets[nt] }

// computeFollowSets seeds FOLLOW(start) with Eos and, for every production
// A → αBβ, records the FOLLOW(B) ⊇ FIRST(β) contributions directly and
// records FOLLOW(B) ⊇ FOLLOW(A) dependencies separately; a fixpoint pass then propagates
// those dependencies until no FOLLOW set changes or the cap is hit.
// Grounded on grammar2.rs's unexpanded_follow/expand_follow/expand_follow_once.
func (g *Grammar) computeFollowSets(maxExpansions int) error {
	follow := map[string]map[string]struct{}{}
	deps := map[string]map[string]struct{}{}
	for _, nt := range g.Order {
		follow[nt] = map[string]struct{}{}
		deps[nt] = map[string]struct{}{}
	}
	follow[g.Start][eosMarker] = struct{}{}

	for lhs, sentences := range g.Productions {
		for _, sentence := range sentences {
			for i, sym := range sentence {
				if sym.Kind != NonTerminal {
					continue
				}
				beta := sentence[i+1:]
				betaFirst := g.sentenceFirst(beta, map[string]bool{})
				_, betaHasEps := betaFirst[epsilonMarker]
				for k := range betaFirst {
					if k != epsilonMarker {
						follow[sym.Name][k] = struct{}{}
					}
				}
				if betaHasEps || len(beta) == 0 {
					if sym.Name != lhs {
						deps[sym.Name][lhs] = struct{}{}
					}
				}
			}
		}
	}

	for i := 0; i < maxExpansions; i++ {
		changed := false
		for nt, ds := range deps {
			for dep := range ds {
				for k := range follow[dep] {
					if _, ok := follow[nt][k]; !ok {
						follow[nt][k] = struct{}{}
						changed = true
					}
				}
			}
		}
		if !changed {
			g.followSets = follow
			return nil
		}
	}
	return fmt.Errorf("grammar: FOLLOW-set fixpoint did not converge within %d expansions", maxExpansions)
}
