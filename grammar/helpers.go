package grammar

// ContainsSymbol reports whether target (a Terminal or Eos symbol) is a
// member of a FIRST/FOLLOW set.
func ContainsSymbol(set map[string]struct{}, target Symbol) bool {
	_, ok := set[target.setKey()]
	return ok
}

// HasEpsilon reports whether a FIRST set contains ε.
func HasEpsilon(set map[string]struct{}) bool {
	_, ok := set[epsilonMarker]
	return ok
}

// FollowOfSymbol returns FOLLOW(sym) for a NonTerminal, or the empty set
// for any other symbol kind (terminals/Eos have no FOLLOW set of their
// own in the panic-mode recovery rule of SPEC_FULL.md §4.3).
func (g *Grammar) FollowOfSymbol(sym Symbol) map[string]struct{} {
	if sym.Kind == NonTerminal {
		return g.followSets[sym.Name]
	}
	return map[string]struct{}{}
}

// LookupSymbol looks up T[nt][sym] for a Terminal or Eos lookahead symbol.
func (t *ParseTable) LookupSymbol(nt string, sym Symbol) (int, bool) {
	if sym.Kind == Eos {
		return t.LookupEos(nt)
	}
	return t.Lookup(nt, sym.Name)
}
