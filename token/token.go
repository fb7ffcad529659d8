// Package token defines the lexical token produced by the scanner and
// consumed by the parser.
package token

import "fmt"

// Eos is the synthetic end-of-stream kind the parser treats as a terminal
// symbol once the token stream is exhausted.
const Eos = "EOS"

// Token is a single lexical unit: a kind assigned by whichever lexical rule
// matched, the exact source substring that matched, and its source position.
//
// Kind is data-driven: it comes from the token_kind field of a lexical rule
// (see package lexer), not from a fixed Go enum. An identifier-kind token
// whose Lexeme matches a configured keyword is rewritten in place to that
// keyword's own kind by the scanner's keyword-promotion step.
type Token struct {
	Kind    string
	Lexeme  string
	Line    int
	Col     int
	IsError bool
}

// New constructs a Token at the given position.
func New(kind, lexeme string, line, col int) Token {
	return Token{Kind: kind, Lexeme: lexeme, Line: line, Col: col}
}

// NewError constructs an error Token: a scanner diagnostic carrying the
// offending lexeme and the rule kind that flagged it (e.g. "InvalidCharacter").
func NewError(kind, lexeme string, line, col int) Token {
	return Token{Kind: kind, Lexeme: lexeme, Line: line, Col: col, IsError: true}
}

// EndOfStream is the sentinel token the scanner yields once input is exhausted.
func EndOfStream(line, col int) Token {
	return Token{Kind: Eos, Line: line, Col: col}
}

// String renders the token for diagnostics and the .outlextokens stream.
func (t Token) String() string {
	return fmt.Sprintf("[%s, %q, %d:%d]", t.Kind, t.Lexeme, t.Line, t.Col)
}
