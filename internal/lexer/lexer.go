// Package lexer splits decoded text into tokens: maximal runs of digits,
// maximal runs of letters, or single symbol characters. Whitespace separates
// tokens and is never part of one.
//
// The same tokenizer and normalization are used when building an index and
// when tokenizing a query, so terms from both sides compare equal.
package lexer

import (
	"strings"
	"unicode"
)

// Lexer is a pull-style tokenizer over a pre-decoded sequence of runes.
// It is not restartable: once a token has been returned it cannot be
// returned again without creating a new Lexer over the same content.
type Lexer struct {
	content []rune
}

// New creates a Lexer over content. The slice is not copied or modified.
func New(content []rune) *Lexer {
	return &Lexer{content: content}
}

// Next returns the next raw token, or false when the input is exhausted.
// The returned slice aliases the Lexer's content.
func (l *Lexer) Next() ([]rune, bool) {
	l.trimLeft()

	if len(l.content) == 0 {
		return nil, false
	}

	switch r := l.content[0]; {
	case isNumeric(r):
		return l.chopWhile(isNumeric), true
	case isAlphabetic(r):
		return l.chopWhile(isAlphabetic), true
	default:
		return l.chop(1), true
	}
}

// NextTerm returns the next token in canonical form.
func (l *Lexer) NextTerm() (string, bool) {
	tok, ok := l.Next()
	if !ok {
		return "", false
	}
	return Normalize(tok), true
}

// Remaining reports how many runes have not been consumed yet.
func (l *Lexer) Remaining() int {
	return len(l.content)
}

func (l *Lexer) trimLeft() {
	for len(l.content) > 0 && unicode.IsSpace(l.content[0]) {
		l.content = l.content[1:]
	}
}

func (l *Lexer) chop(n int) []rune {
	token := l.content[:n:n]
	l.content = l.content[n:]
	return token
}

func (l *Lexer) chopWhile(pred func(rune) bool) []rune {
	n := 0
	for n < len(l.content) && pred(l.content[n]) {
		n++
	}
	return l.chop(n)
}

// Normalize returns the canonical (upper-cased) form of a raw token.
func Normalize(raw []rune) string {
	return strings.ToUpper(string(raw))
}

// Tokenize decodes text once and returns every token in canonical form.
func Tokenize(text string) []string {
	lx := New([]rune(text))

	var terms []string
	for {
		term, ok := lx.NextTerm()
		if !ok {
			return terms
		}
		terms = append(terms, term)
	}
}

// isNumeric matches decimal digits, letter-like numerals and other numeric
// characters (Unicode categories Nd, Nl, No).
func isNumeric(r rune) bool {
	return unicode.IsNumber(r)
}

// isAlphabetic approximates the Unicode Alphabetic property.
func isAlphabetic(r rune) bool {
	return unicode.IsLetter(r) ||
		unicode.Is(unicode.Nl, r) ||
		unicode.Is(unicode.Other_Alphabetic, r)
}
