package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oolangc/ast"
	"oolangc/grammar"
	"oolangc/token"
)

// fakeSource feeds a fixed token slice through the TokenSource interface,
// appending a synthetic end-of-stream token once exhausted.
type fakeSource struct {
	toks []token.Token
	pos  int
}

func newFakeSource(toks ...token.Token) *fakeSource {
	return &fakeSource{toks: toks}
}

func (f *fakeSource) Peek() (token.Token, error) {
	if f.pos >= len(f.toks) {
		return token.EndOfStream(0, 0), nil
	}
	return f.toks[f.pos], nil
}

func (f *fakeSource) Next() (token.Token, error) {
	tok, _ := f.Peek()
	if f.pos < len(f.toks) {
		f.pos++
	}
	return tok, nil
}

// listGrammar builds a tiny comma-separated integer list grammar exercising
// makenode (scalar and list), makesibling, and panic-mode recovery:
//
//	Start      -> @makenode~items~list@ Elem ElemTail
//	Elem       -> 'intLit' @makenode~num@ @makesibling@
//	ElemTail   -> ',' Elem ElemTail | EPSILON
func listGrammar(t *testing.T) (*grammar.Grammar, *grammar.ParseTable) {
	t.Helper()
	seed, err := grammar.ParseActionOp("makenode~items~list")
	require.NoError(t, err)
	num, err := grammar.ParseActionOp("makenode~num")
	require.NoError(t, err)
	sibling, err := grammar.ParseActionOp("makesibling")
	require.NoError(t, err)

	productions := map[string][]grammar.Sentence{
		"Start": {{
			grammar.NewAction(seed),
			grammar.NewNonTerminal("Elem"),
			grammar.NewNonTerminal("ElemTail"),
		}},
		"Elem": {{
			grammar.NewTerminal("intLit"),
			grammar.NewAction(num),
			grammar.NewAction(sibling),
		}},
		"ElemTail": {
			{grammar.NewTerminal(","), grammar.NewNonTerminal("Elem"), grammar.NewNonTerminal("ElemTail")},
			{grammar.NewEpsilon()},
		},
	}
	order := []string{"Start", "Elem", "ElemTail"}
	g, err := grammar.New("Start", productions, order, 0)
	require.NoError(t, err)
	table, err := grammar.BuildParseTable(g)
	require.NoError(t, err)
	return g, table
}

func intTok(lexeme string, col int) token.Token {
	return token.New("intLit", lexeme, 1, col)
}

func commaTok(col int) token.Token {
	return token.New(",", ",", 1, col)
}

func TestParserBuildsListAst(t *testing.T) {
	g, table := listGrammar(t)
	src := newFakeSource(intTok("1", 1), commaTok(2), intTok("2", 3), commaTok(4), intTok("3", 5))

	p := New(g, table, src)
	root, err := p.Parse()
	require.NoError(t, err)
	require.NotNil(t, root)

	assert.Equal(t, "items", root.Kind)
	require.Len(t, root.Children(), 3)
	for i, want := range []int64{1, 2, 3} {
		child := root.Children()[i]
		assert.Equal(t, "num", child.Kind)
		assert.Equal(t, ast.Integer, child.Payload.Kind)
		assert.Equal(t, want, child.Payload.IntVal)
	}
	assert.Empty(t, p.Diagnostics())
	assert.NotEmpty(t, p.Derivation())
}

func TestParserRecoversFromUnexpectedToken(t *testing.T) {
	g, table := listGrammar(t)
	// A stray '+' between elements: recovery should skip it and resynchronize
	// on the following comma, producing exactly one syntactic diagnostic while
	// still returning every well-formed element.
	src := newFakeSource(intTok("1", 1), token.New("+", "+", 1, 2), commaTok(3), intTok("2", 4))

	p := New(g, table, src)
	root, err := p.Parse()
	require.NoError(t, err)
	require.NotNil(t, root)

	require.Len(t, p.Diagnostics(), 1)
	assert.True(t, p.Diagnostics()[0].IsError())
	assert.GreaterOrEqual(t, len(root.Children()), 1)
}

func TestParserReportsTrailingGarbage(t *testing.T) {
	// Start -> 'intLit' @makenode~num@ accepts exactly one token, so the
	// second one is still unread once the symbol stack holds only Eos.
	num, err := grammar.ParseActionOp("makenode~num")
	require.NoError(t, err)
	productions := map[string][]grammar.Sentence{
		"Start": {{grammar.NewTerminal("intLit"), grammar.NewAction(num)}},
	}
	g, err := grammar.New("Start", productions, []string{"Start"}, 0)
	require.NoError(t, err)
	table, err := grammar.BuildParseTable(g)
	require.NoError(t, err)
	src := newFakeSource(intTok("1", 1), intTok("2", 3))

	p := New(g, table, src)
	root, err := p.Parse()
	require.NoError(t, err)
	require.NotNil(t, root)
	require.Len(t, p.Diagnostics(), 1)
	assert.Equal(t, "TrailingGarbage", p.Diagnostics()[0].Kind)
}
