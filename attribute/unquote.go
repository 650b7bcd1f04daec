// Package attribute turns quoted attribute values of template tags into the
// text seen by code generators and expression evaluators.
package attribute

import (
	"strings"

	"github.com/shibukawa/snappage"
	"github.com/shibukawa/snappage/message"
	tok "github.com/shibukawa/snappage/tokenizer"
)

// Options controls Unquote.
type Options struct {
	// Quote is the character the value was quoted with, 0 if unquoted.
	Quote                          rune
	ELIgnored                      bool
	DeferredSyntaxAllowedAsLiteral bool
	// Strict rejects a bare Quote character inside the value.
	Strict bool
	// QuoteAttributeEL decodes escapes inside expressions too.
	QuoteAttributeEL bool

	// Position of the first character of the value, used in errors.
	Position tok.Mark
	Messages *message.Catalog
}

// Unquote resolves the escapes of an attribute value.
//
// Literal text is decoded (&apos; &quot; \\ \" \' \$ \# <\% %\>). Characters that
// an expression evaluator would otherwise read as syntax are emitted as small
// expressions producing the character itself, e.g. ${'$'} for an escaped dollar,
// when the value contains an expression. Expressions are copied through.
func Unquote(input string, opts Options) (string, error) {
	u := &unquoter{
		input: []rune(input),
		opts:  opts,
	}

	u.exprType = u.detectType()

	for u.i < len(u.input) {
		if err := u.parseLiteral(); err != nil {
			return "", err
		}

		if err := u.parseEL(); err != nil {
			return "", err
		}
	}

	return u.result.String(), nil
}

type unquoter struct {
	input    []rune
	opts     Options
	exprType rune // '$', '#' or 0 when the value holds no expression
	i        int

	lastEscaped bool
	result      strings.Builder
}

// detectType finds the delimiter of the first unescaped expression.
func (u *unquoter) detectType() rune {
	if u.opts.ELIgnored {
		return 0
	}

	for j := 0; j < len(u.input); j++ {
		switch current := u.input[j]; {
		case current == '\\':
			j++
		case current == '#' && !u.opts.DeferredSyntaxAllowedAsLiteral, current == '$':
			if j+1 < len(u.input) && u.input[j+1] == '{' {
				return current
			}
		}
	}

	return 0
}

func (u *unquoter) parseLiteral() error {
	el := !u.opts.ELIgnored

	for u.i < len(u.input) {
		ch, err := u.nextChar()
		if err != nil {
			return err
		}

		switch {
		case el && ch == '\\':
			u.writeEscaped(`\`, `'\\'`)
		case el && ch == '$' && u.lastEscaped:
			u.writeEscaped(`\$`, `'$'`)
		case el && ch == '#' && u.lastEscaped:
			u.writeEscaped(`\#`, `'#'`)
		case ch == u.exprType && u.exprType != 0:
			if u.i < len(u.input) && u.input[u.i] == '{' {
				// back up so parseEL sees the delimiter
				u.i--
				return nil
			}

			u.result.WriteRune(ch)
		default:
			u.result.WriteRune(ch)
		}
	}

	return nil
}

// writeEscaped writes plain when the value has no expression, otherwise an
// expression that evaluates to literal.
func (u *unquoter) writeEscaped(plain, literal string) {
	if u.exprType == 0 {
		u.result.WriteString(plain)
		return
	}

	u.result.WriteRune(u.exprType)
	u.result.WriteRune('{')
	u.result.WriteString(literal)
	u.result.WriteRune('}')
}

func (u *unquoter) parseEL() error {
	var literalQuote rune

	insideLiteral := false

	for u.i < len(u.input) {
		ch, err := u.elChar()
		if err != nil {
			return err
		}

		u.result.WriteRune(ch)

		switch ch {
		case '\'', '"':
			if !insideLiteral {
				insideLiteral = true
				literalQuote = ch
			} else if literalQuote == ch {
				insideLiteral = false
			}
		case '\\':
			if insideLiteral && u.i < len(u.input) {
				escaped, err := u.elChar()
				if err != nil {
					return err
				}

				u.result.WriteRune(escaped)
			}
		case '}':
			if !insideLiteral {
				return nil
			}
		}
	}

	return nil
}

func (u *unquoter) elChar() (rune, error) {
	if u.opts.QuoteAttributeEL {
		return u.nextChar()
	}

	ch := u.input[u.i]
	u.i++

	return ch, nil
}

// nextChar decodes one logical character. For <\% and %\> the first output
// character is written directly and the second returned.
func (u *unquoter) nextChar() (rune, error) {
	u.lastEscaped = false

	ch := u.input[u.i]

	switch {
	case ch == '&':
		switch {
		case u.hasPrefix("&apos;"):
			u.i += 6
			return '\'', nil
		case u.hasPrefix("&quot;"):
			u.i += 6
			return '"', nil
		}
	case ch == '\\' && u.i+1 < len(u.input):
		next := u.input[u.i+1]
		if next == '\\' || next == '"' || next == '\'' ||
			(!u.opts.ELIgnored && (next == '$' || (!u.opts.DeferredSyntaxAllowedAsLiteral && next == '#'))) {
			u.i += 2
			u.lastEscaped = true

			return next, nil
		}
	case ch == '<' && u.hasPrefix(`<\%`):
		u.result.WriteRune('<')
		u.i += 3

		return '%', nil
	case ch == '%' && u.hasPrefix(`%\>`):
		u.result.WriteRune('%')
		u.i += 3

		return '>', nil
	case ch == u.opts.Quote && u.opts.Strict && u.opts.Quote != 0:
		return 0, u.ambiguousQuote()
	}

	u.i++

	return ch, nil
}

func (u *unquoter) hasPrefix(s string) bool {
	j := u.i
	for _, r := range s {
		if j >= len(u.input) || u.input[j] != r {
			return false
		}

		j++
	}

	return true
}

func (u *unquoter) ambiguousQuote() error {
	pos := u.opts.Position
	if !pos.IsValid() {
		pos = tok.StartOf(pos.Source)
	}

	for _, r := range u.input[:u.i] {
		pos = pos.Advance(r)
	}

	msg := u.opts.Messages.Message(message.AttributeNoEscape, string(u.input), string(u.opts.Quote))

	return snappage.NewSourceError(snappage.ErrAmbiguousQuote, pos.Source, pos.Line, pos.Column, msg)
}
