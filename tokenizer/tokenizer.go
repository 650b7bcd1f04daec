package tokenizer

import (
	"iter"
	"strings"
	"unicode"

	"github.com/shibukawa/snappage"
	"github.com/shibukawa/snappage/message"
)

// TokenIterator uses Go 1.24 iterator pattern
type TokenIterator iter.Seq2[Token, error]

// ELTokenizer splits the body of one expression into tokens.
//
// The tokenizer does not know where the expression ends; callers stop pulling
// tokens when they see the closing brace. Mark and Reset give callers cheap
// backtracking for lookahead.
type ELTokenizer struct {
	expression string
	src        []rune
	cur        Mark
	options    TokenizerOptions
}

// TokenizerOptions are options for the tokenizer
type TokenizerOptions struct {
	// Start is the position of the first rune of the expression in its source.
	Start    Mark
	Messages *message.Catalog
}

// NewELTokenizer creates a tokenizer positioned at the start of expression
func NewELTokenizer(expression string, options ...TokenizerOptions) *ELTokenizer {
	var opts TokenizerOptions
	if len(options) > 0 {
		opts = options[0]
	}

	if !opts.Start.IsValid() {
		opts.Start = StartOf(opts.Start.Source)
	}

	start := opts.Start
	start.Offset = 0

	return &ELTokenizer{
		expression: expression,
		src:        []rune(expression),
		cur:        start,
		options:    opts,
	}
}

// Mark returns the current position. Handing it back to Reset rewinds the tokenizer.
func (t *ELTokenizer) Mark() Mark {
	return t.cur
}

// Reset moves the tokenizer back (or forward) to a mark obtained from Mark.
func (t *ELTokenizer) Reset(m Mark) {
	t.cur = m
}

// Remaining returns the untokenized rest of the expression.
func (t *ELTokenizer) Remaining() string {
	if t.cur.Offset >= len(t.src) {
		return ""
	}

	return string(t.src[t.cur.Offset:])
}

// HasNextChar reports whether any rune, blank or not, is left.
func (t *ELTokenizer) HasNextChar() bool {
	return t.cur.Offset < len(t.src)
}

// NextChar consumes and returns one rune, or -1 at end of input.
func (t *ELTokenizer) NextChar() rune {
	if t.cur.Offset >= len(t.src) {
		return -1
	}

	r := t.src[t.cur.Offset]
	t.cur = t.cur.Advance(r)

	return r
}

// PeekChar returns the rune n positions ahead without consuming it, or -1.
func (t *ELTokenizer) PeekChar(n int) rune {
	idx := t.cur.Offset + n
	if idx < 0 || idx >= len(t.src) {
		return -1
	}

	return t.src[idx]
}

// Next returns the next token. At end of input it returns an EOF token whose
// Whitespace carries any trailing blanks.
func (t *ELTokenizer) Next() (Token, error) {
	ws := t.skipSpaces()
	start := t.cur

	if !t.HasNextChar() {
		return Token{Type: EOF, Whitespace: ws, Position: start}, nil
	}

	ch := t.NextChar()

	switch {
	case isIdentifierStart(ch):
		var builder strings.Builder
		builder.WriteRune(ch)

		for t.HasNextChar() && isIdentifierPart(t.PeekChar(0)) {
			builder.WriteRune(t.NextChar())
		}

		return Token{Type: IDENTIFIER, Whitespace: ws, Value: builder.String(), Position: start}, nil
	case ch == '\'' || ch == '"':
		return t.readQuoted(ch, ws, start)
	default:
		return Token{Type: PUNCTUATION, Whitespace: ws, Value: string(ch), Position: start}, nil
	}
}

// Tokens returns an iterator of tokens up to and including EOF
func (t *ELTokenizer) Tokens() TokenIterator {
	return func(yield func(Token, error) bool) {
		for {
			token, err := t.Next()
			if err != nil {
				yield(Token{}, err)
				return
			}

			if !yield(token, nil) || token.Type == EOF {
				return
			}
		}
	}
}

// AllTokens gets all tokens as a slice (for debugging)
func (t *ELTokenizer) AllTokens() ([]Token, error) {
	tokens := make([]Token, 0, 16)

	for token, err := range t.Tokens() {
		if err != nil {
			return tokens, err
		}

		tokens = append(tokens, token)
	}

	return tokens, nil
}

// skipSpaces consumes control characters and blanks and returns them
func (t *ELTokenizer) skipSpaces() string {
	var builder strings.Builder

	for t.HasNextChar() && t.PeekChar(0) <= ' ' {
		builder.WriteRune(t.NextChar())
	}

	return builder.String()
}

// readQuoted reads a string literal whose opening quote was already consumed.
// Only \\, \' and \" are valid escapes.
func (t *ELTokenizer) readQuoted(quote rune, ws string, start Mark) (Token, error) {
	var builder strings.Builder
	builder.WriteRune(quote)

	for t.HasNextChar() {
		ch := t.NextChar()

		switch ch {
		case '\\':
			escapePos := t.cur
			next := t.NextChar()
			if next != '\\' && next != '\'' && next != '"' {
				return Token{}, t.errorAt(snappage.ErrInvalidQuoting, escapePos, message.ELInvalidQuoting)
			}

			builder.WriteRune(next)
		case quote:
			builder.WriteRune(ch)
			return Token{Type: QUOTED_LITERAL, Whitespace: ws, Value: builder.String(), Position: start}, nil
		default:
			builder.WriteRune(ch)
		}
	}

	return Token{}, t.errorAt(snappage.ErrUnterminatedQuote, start, message.ELUnterminatedQuote)
}

func (t *ELTokenizer) errorAt(err error, pos Mark, key string) error {
	msg := t.options.Messages.Message(key, t.expression)
	return snappage.NewSourceError(err, pos.Source, pos.Line, pos.Column, msg)
}

func isIdentifierStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentifierPart(r rune) bool {
	return isIdentifierStart(r) || unicode.IsDigit(r)
}
