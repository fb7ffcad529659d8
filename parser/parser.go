// Package parser implements the table-driven LL(1) predictive parser and
// its embedded semantic-action machine (SPEC_FULL.md §4.3).
//
// Grounded on original_source/syntactic_analyzer/src/parser.rs (the real
// symbol-stack-driven main loop and skip_errors panic-mode recovery) and
// original_source/syntactic_analyzer/src/semantic_action.rs (the
// authoritative Action::execute semantics). This departs from the
// teacher's own parser/parser.go, a hand-written recursive-descent parser
// whose grammar is compiled into Go control flow — SPEC_FULL.md requires a
// data-driven grammar loaded from a file, which only a genuine table-driven
// driver can express. See DESIGN.md.
package parser

import (
	"fmt"

	"oolangc/ast"
	"oolangc/diag"
	"oolangc/grammar"
	"oolangc/token"
)

// TokenSource is the pull-based, one-ahead token stream the parser drives
// (satisfied by *lexer.Scanner).
type TokenSource interface {
	Peek() (token.Token, error)
	Next() (token.Token, error)
}

// Parser drives a symbol stack and a semantic-action stack over a grammar's
// parse table and a token source.
type Parser struct {
	g     *grammar.Grammar
	table *grammar.ParseTable
	src   TokenSource

	diagnostics []diag.Diagnostic
	derivation  []string
}

func New(g *grammar.Grammar, table *grammar.ParseTable, src TokenSource) *Parser {
	return &Parser{g: g, table: table, src: src}
}

// Diagnostics returns every syntactic diagnostic recorded during Parse
// (§6.2 .outsyntaxerrors).
func (p *Parser) Diagnostics() []diag.Diagnostic { return p.diagnostics }

// Derivation returns the human-readable sequence of applied productions
// for the .outderivation stream (§6.2).
func (p *Parser) Derivation() []string { return p.derivation }

// Parse runs the main LL(1) loop, building and returning the AST rooted at
// whatever the semantic stack holds when the symbol stack empties.
func (p *Parser) Parse() (*ast.Node, error) {
	symbolStack := []grammar.Symbol{grammar.NewEos(), grammar.NewNonTerminal(p.g.Start)}
	var semanticStack []*ast.Node
	var previous token.Token

	for len(symbolStack) > 0 {
		top := symbolStack[len(symbolStack)-1]

		lookTok, err := p.src.Peek()
		if err != nil {
			return nil, fmt.Errorf("parser: fatal read error: %w", err)
		}
		lookSym := symbolOf(lookTok)

		switch top.Kind {
		case grammar.Eos:
			if lookSym.Kind == grammar.Eos {
				symbolStack = symbolStack[:len(symbolStack)-1]
				continue
			}
			p.diagnostics = append(p.diagnostics, diag.New(diag.SemanticWarning, "TrailingGarbage",
				lookTok.Line, lookTok.Col, "trailing input after a complete parse, starting at %q", lookTok.Lexeme))
			return p.finish(semanticStack)

		case grammar.Terminal:
			if top.Name == lookTok.Kind {
				symbolStack = symbolStack[:len(symbolStack)-1]
				previous = lookTok
				if _, err := p.src.Next(); err != nil {
					return nil, fmt.Errorf("parser: fatal read error: %w", err)
				}
				continue
			}
			symbolStack, err = p.recover(symbolStack, top, lookSym, lookTok)
			if err != nil {
				return nil, err
			}

		case grammar.NonTerminal:
			optIdx, ok := p.table.LookupSymbol(top.Name, lookSym)
			if !ok {
				symbolStack, err = p.recover(symbolStack, top, lookSym, lookTok)
				if err != nil {
					return nil, err
				}
				continue
			}
			sentence := p.g.Productions[top.Name][optIdx]
			p.derivation = append(p.derivation, fmt.Sprintf("%s -> %s", top.Name, sentenceText(sentence)))
			symbolStack = symbolStack[:len(symbolStack)-1]
			for i := len(sentence) - 1; i >= 0; i-- {
				symbolStack = append(symbolStack, sentence[i])
			}

		case grammar.Action:
			symbolStack = symbolStack[:len(symbolStack)-1]
			if err := execute(&semanticStack, top.Action, previous); err != nil {
				return nil, fmt.Errorf("parser: semantic action failed: %w", err)
			}

		case grammar.Epsilon:
			// Pushed by an epsilon production so the reversed-sentence push
			// loop above has something to put on the stack; it matches
			// nothing and is simply discarded.
			symbolStack = symbolStack[:len(symbolStack)-1]

		default:
			return nil, fmt.Errorf("parser: unexpected symbol kind on stack")
		}
	}

	return p.finish(semanticStack)
}

func (p *Parser) finish(semanticStack []*ast.Node) (*ast.Node, error) {
	if len(semanticStack) == 0 {
		return nil, fmt.Errorf("parser: no AST root was produced")
	}
	return semanticStack[len(semanticStack)-1], nil
}

// recover implements panic-mode error recovery (SPEC_FULL.md §4.3): log a
// syntax error, then either pop top (if the lookahead is in FOLLOW(top) or
// is Eos) or skip lookahead tokens until one is acceptable.
func (p *Parser) recover(symbolStack []grammar.Symbol, top, look grammar.Symbol, lookTok token.Token) ([]grammar.Symbol, error) {
	p.diagnostics = append(p.diagnostics, diag.New(diag.Syntactic, "UnexpectedToken",
		lookTok.Line, lookTok.Col, "syntax error at %d:%d: unexpected %q", lookTok.Line, lookTok.Col, lookTok.Lexeme))

	follow := p.g.FollowOfSymbol(top)
	if look.Kind == grammar.Eos || grammar.ContainsSymbol(follow, look) {
		return symbolStack[:len(symbolStack)-1], nil
	}

	first := p.g.First(top)
	epsilonInFirst := grammar.HasEpsilon(first)
	for {
		if grammar.ContainsSymbol(first, look) {
			return symbolStack, nil
		}
		if epsilonInFirst && grammar.ContainsSymbol(follow, look) {
			return symbolStack, nil
		}
		if look.Kind == grammar.Eos {
			return symbolStack[:0], nil
		}
		if _, err := p.src.Next(); err != nil {
			return nil, fmt.Errorf("parser: fatal read error during recovery: %w", err)
		}
		lookTok, err := p.src.Peek()
		if err != nil {
			return nil, fmt.Errorf("parser: fatal read error during recovery: %w", err)
		}
		look = symbolOf(lookTok)
	}
}

func symbolOf(tok token.Token) grammar.Symbol {
	if tok.Kind == token.Eos {
		return grammar.NewEos()
	}
	return grammar.NewTerminal(tok.Kind)
}

func sentenceText(s grammar.Sentence) string {
	out := ""
	for i, sym := range s {
		if i > 0 {
			out += " "
		}
		out += sym.String()
	}
	if out == "" {
		return "EPSILON"
	}
	return out
}
