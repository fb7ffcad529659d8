// Package lexer implements the double-buffered, multi-rule longest-match
// scanner described in SPEC_FULL.md §4.1. Each lexical rule's regular
// expression is compiled once at startup with github.com/coregx/coregex and
// queried at every cursor position; the rule with the longest match wins,
// ties broken by declaration order (SPEC_FULL.md §2B).
package lexer

import (
	"fmt"
	"io"
	"unicode/utf8"

	"oolangc/token"
)

// Scanner is a pull-based, one-token-lookahead token source over a source
// reader, per SPEC_FULL.md §9's "coroutine-style iteration" design note.
type Scanner struct {
	buf       *doubleBuffer
	rules     []Rule
	keywords  map[string]struct{}
	line, col int
	lookahead *token.Token
	errors    []token.Token
}

// New constructs a Scanner over r using the given compiled rules and
// keyword set. Rule priority is the order of rules (declaration order in
// the lexical-rules file).
func New(r io.Reader, rules []Rule, keywords map[string]struct{}) (*Scanner, error) {
	buf, err := newDoubleBuffer(r)
	if err != nil {
		return nil, fmt.Errorf("lexer: fatal read error: %w", err)
	}
	return &Scanner{buf: buf, rules: rules, keywords: keywords, line: 1, col: 1}, nil
}

// Errors returns every lexical error token produced so far (§7 class 2).
func (s *Scanner) Errors() []token.Token {
	return s.errors
}

// Peek returns the next token without consuming it.
func (s *Scanner) Peek() (token.Token, error) {
	if s.lookahead == nil {
		tok, err := s.scanOne()
		if err != nil {
			return token.Token{}, err
		}
		s.lookahead = &tok
	}
	return *s.lookahead, nil
}

// Next consumes and returns the next token.
func (s *Scanner) Next() (token.Token, error) {
	if s.lookahead != nil {
		t := *s.lookahead
		s.lookahead = nil
		return t, nil
	}
	return s.scanOne()
}

// scanOne skips whitespace, finds the longest match among all rules at the
// cursor, advances past it, and returns the resulting token — discarding
// comment-kind and error-kind matches and looping to find the next
// returnable token, per SPEC_FULL.md §4.1.
func (s *Scanner) scanOne() (token.Token, error) {
	for {
		s.skipWhitespace()

		if s.buf.Err() != nil {
			return token.Token{}, fmt.Errorf("lexer: fatal read error: %w", s.buf.Err())
		}
		if s.buf.AtEOF() {
			return token.EndOfStream(s.line, s.col), nil
		}

		window := s.buf.Window(BufferSize)
		bestLen := 0
		bestIdx := -1
		for i, rule := range s.rules {
			loc := rule.Regex.FindIndex(window)
			if loc == nil || loc[0] != 0 {
				continue
			}
			if loc[1] > bestLen {
				bestLen = loc[1]
				bestIdx = i
			}
		}

		line, col := s.line, s.col
		switch {
		case bestIdx < 0:
			// No rule matched at all: consume one UTF-8 codepoint as an
			// InvalidCharacter error (§4.1 rule 1).
			r, size := utf8.DecodeRune(window)
			if r == utf8.RuneError && size <= 1 {
				size = 1
			}
			lexeme := string(window[:size])
			s.advance(window[:size])
			errTok := token.NewError("InvalidCharacter", lexeme, line, col)
			s.errors = append(s.errors, errTok)
			continue

		case bestLen >= BufferSize:
			lexeme := string(window[:bestLen])
			s.advance(window[:bestLen])
			errTok := token.NewError("LexemeTooLong", lexeme, line, col)
			s.errors = append(s.errors, errTok)
			continue

		default:
			rule := s.rules[bestIdx]
			lexeme := string(window[:bestLen])
			s.advance(window[:bestLen])

			if rule.IsErrorToken {
				errTok := token.NewError(rule.Kind, lexeme, line, col)
				s.errors = append(s.errors, errTok)
				continue
			}
			if rule.Kind == "comment" {
				continue
			}

			kind := rule.Kind
			if kind == "id" {
				if _, isKeyword := s.keywords[lexeme]; isKeyword {
					kind = lexeme
				}
			}
			return token.New(kind, lexeme, line, col), nil
		}
	}
}

// skipWhitespace advances past the longest run of space/tab/CR/LF at the
// cursor, updating line/col.
func (s *Scanner) skipWhitespace() {
	for {
		if s.buf.Err() != nil || s.buf.AtEOF() {
			return
		}
		window := s.buf.Window(1)
		if len(window) == 0 {
			return
		}
		b := window[0]
		if b != ' ' && b != '\t' && b != '\r' && b != '\n' {
			return
		}
		s.advance(window)
	}
}

// advance moves the cursor past consumed, updating line/col per the UTF-8
// codepoint-start rule of SPEC_FULL.md §4.1: column only increments on
// bytes that are not UTF-8 continuation bytes (top two bits 10).
func (s *Scanner) advance(consumed []byte) {
	for _, b := range consumed {
		if b == '\n' {
			s.line++
			s.col = 1
			continue
		}
		if b&0xC0 != 0x80 {
			s.col++
		}
	}
	s.buf.Advance(len(consumed))
}
