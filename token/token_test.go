package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSetsFields(t *testing.T) {
	tok := New("id", "counter", 3, 10)
	assert.Equal(t, "id", tok.Kind)
	assert.Equal(t, "counter", tok.Lexeme)
	assert.Equal(t, 3, tok.Line)
	assert.Equal(t, 10, tok.Col)
	assert.False(t, tok.IsError)
}

func TestNewErrorSetsIsError(t *testing.T) {
	tok := NewError("InvalidCharacter", "\x01", 1, 1)
	assert.True(t, tok.IsError)
	assert.Equal(t, "InvalidCharacter", tok.Kind)
}

func TestEndOfStreamKind(t *testing.T) {
	tok := EndOfStream(5, 1)
	assert.Equal(t, Eos, tok.Kind)
}

func TestStringFormat(t *testing.T) {
	tok := New("intLit", "42", 1, 1)
	assert.Equal(t, `[intLit, "42", 1:1]`, tok.String())
}
