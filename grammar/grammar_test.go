package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// canonicalGrammar builds E -> T E' ; E' -> + T E' | ε ; T -> F T' ;
// T' -> * F T' | ε ; F -> 0 | 1 | ( E ), the exact grammar used in
// SPEC_FULL.md §8 and in original_source/syntactic_analyzer/src/grammar2.rs's
// own unit tests.
func canonicalGrammar(t *testing.T) *Grammar {
	t.Helper()
	productions := map[string][]Sentence{
		"E":  {{NewNonTerminal("T"), NewNonTerminal("E'")}},
		"E'": {{NewTerminal("+"), NewNonTerminal("T"), NewNonTerminal("E'")}, {NewEpsilon()}},
		"T":  {{NewNonTerminal("F"), NewNonTerminal("T'")}},
		"T'": {{NewTerminal("*"), NewNonTerminal("F"), NewNonTerminal("T'")}, {NewEpsilon()}},
		"F":  {{NewTerminal("0")}, {NewTerminal("1")}, {NewTerminal("("), NewNonTerminal("E"), NewTerminal(")")}},
	}
	order := []string{"E", "E'", "T", "T'", "F"}
	g, err := New("E", productions, order, 0)
	require.NoError(t, err)
	return g
}

func symSet(keys ...string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, k := range keys {
		out[k] = struct{}{}
	}
	return out
}

func withEpsilon(s map[string]struct{}) map[string]struct{} {
	out := map[string]struct{}{}
	for k := range s {
		out[k] = struct{}{}
	}
	out[epsilonMarker] = struct{}{}
	return out
}

func withEos(s map[string]struct{}) map[string]struct{} {
	out := map[string]struct{}{}
	for k := range s {
		out[k] = struct{}{}
	}
	out[eosMarker] = struct{}{}
	return out
}

func TestCanonicalGrammarFirstSets(t *testing.T) {
	g := canonicalGrammar(t)
	expected := symSet("0", "1", "(")
	assert.Equal(t, expected, g.FirstOf("E"))
	assert.Equal(t, expected, g.FirstOf("T"))
	assert.Equal(t, expected, g.FirstOf("F"))
	assert.Equal(t, withEpsilon(symSet("+")), g.FirstOf("E'"))
	assert.Equal(t, withEpsilon(symSet("*")), g.FirstOf("T'"))
}

func TestCanonicalGrammarFollowSets(t *testing.T) {
	g := canonicalGrammar(t)
	eParen := withEos(symSet(")"))
	assert.Equal(t, eParen, g.FollowOf("E"))
	assert.Equal(t, eParen, g.FollowOf("E'"))

	tFollow := withEos(symSet(")", "+"))
	assert.Equal(t, tFollow, g.FollowOf("T"))
	assert.Equal(t, tFollow, g.FollowOf("T'"))

	assert.Equal(t, withEos(symSet(")", "+", "*")), g.FollowOf("F"))
}

func TestCanonicalGrammarParseTable(t *testing.T) {
	g := canonicalGrammar(t)
	table, err := BuildParseTable(g)
	require.NoError(t, err)

	for _, term := range []string{"0", "1", "("} {
		opt, ok := table.Lookup("E", term)
		require.True(t, ok)
		assert.Equal(t, 0, opt)
	}

	opt, ok := table.Lookup("E'", "+")
	require.True(t, ok)
	assert.Equal(t, 0, opt)

	opt, ok = table.Lookup("E'", ")")
	require.True(t, ok)
	assert.Equal(t, 1, opt)

	opt, ok = table.LookupEos("E'")
	require.True(t, ok)
	assert.Equal(t, 1, opt)

	for term, want := range map[string]int{"0": 0, "1": 1, "(": 2} {
		opt, ok := table.Lookup("F", term)
		require.True(t, ok)
		assert.Equal(t, want, opt)
	}
}

func TestConflictingGrammarIsRejected(t *testing.T) {
	productions := map[string][]Sentence{
		"S": {{NewTerminal("a")}, {NewTerminal("a")}},
	}
	g, err := New("S", productions, []string{"S"}, 0)
	require.NoError(t, err)
	_, err = BuildParseTable(g)
	assert.Error(t, err)
}

func TestParseActionOpSpellings(t *testing.T) {
	op, err := ParseActionOp("makenode~expr")
	require.NoError(t, err)
	assert.Equal(t, ActionOp{Op: "makenode", Kind: "expr"}, op)

	op, err = ParseActionOp("makenode~params~list")
	require.NoError(t, err)
	assert.True(t, op.List)

	op, err = ParseActionOp("makefamily~binOp~3")
	require.NoError(t, err)
	assert.Equal(t, 3, op.N)
	assert.Equal(t, "binOp", op.Kind)

	op, err = ParseActionOp("makesibling")
	require.NoError(t, err)
	assert.Equal(t, "makesibling", op.Op)

	op, err = ParseActionOp("rename")
	require.NoError(t, err)
	assert.Equal(t, "rename", op.Op)

	op, err = ParseActionOp("makeepsilon~returnType")
	require.NoError(t, err)
	assert.Equal(t, ActionOp{Op: "makeepsilon", Kind: "returnType"}, op)

	_, err = ParseActionOp("bogus")
	assert.Error(t, err)
}
