package el

import (
	"strings"

	pc "github.com/shibukawa/parsercombinator"
	"github.com/shibukawa/snappage"
	"github.com/shibukawa/snappage/message"
	tok "github.com/shibukawa/snappage/tokenizer"
)

// ParseOptions are options for Parse
type ParseOptions struct {
	// Start is the position of the first rune of the expression in its source.
	Start    tok.Mark
	Messages *message.Catalog
}

// Parse splits expression into literal text and ${...} / #{...} blocks.
// When deferredAsLiteral is set, #{ is plain text.
func Parse(expression string, deferredAsLiteral bool, options ...ParseOptions) (*Nodes, error) {
	var opts ParseOptions
	if len(options) > 0 {
		opts = options[0]
	}

	p := &parser{
		tokenizer:         tok.NewELTokenizer(expression, tok.TokenizerOptions{Start: opts.Start, Messages: opts.Messages}),
		deferredAsLiteral: deferredAsLiteral,
		messages:          opts.Messages,
	}

	nodes := &Nodes{messages: opts.Messages}

	for p.tokenizer.HasNextChar() {
		text := p.skipUntilEL()
		if text != "" {
			nodes.Add(&Text{Text: text})
		}

		if p.opener == 0 {
			continue
		}

		body, err := p.parseEL()
		if err != nil {
			return nil, err
		}

		if !body.IsEmpty() {
			nodes.Add(&Root{Body: body, Type: p.opener})
		}
	}

	return nodes, nil
}

type parser struct {
	tokenizer         *tok.ELTokenizer
	deferredAsLiteral bool
	messages          *message.Catalog

	opener      rune // delimiter of the expression being parsed, 0 in text
	openerStart tok.Mark
}

func (p *parser) isDelimiter(ch rune) bool {
	return ch == '$' || (!p.deferredAsLiteral && ch == '#')
}

// skipUntilEL consumes literal text up to and including the next unescaped
// expression opener. A backslash before a delimiter drops the backslash.
func (p *parser) skipUntilEL() string {
	var builder strings.Builder

	var prev rune

	var prevMark tok.Mark

	p.opener = 0

	for p.tokenizer.HasNextChar() {
		mark := p.tokenizer.Mark()
		ch := p.tokenizer.NextChar()

		if prev == '\\' {
			switch {
			case p.isDelimiter(ch):
				prev = 0
				builder.WriteRune(ch)
			case ch == '\\':
				// the second backslash may still escape what follows
				builder.WriteRune('\\')
			default:
				prev = 0
				builder.WriteRune('\\')
				builder.WriteRune(ch)
			}

			continue
		} else if p.isDelimiter(prev) {
			if ch == '{' {
				p.opener = prev
				p.openerStart = prevMark

				return builder.String()
			}

			builder.WriteRune(prev)
			prev = 0
		}

		if ch == '\\' || p.isDelimiter(ch) {
			prev = ch
			prevMark = mark
		} else {
			builder.WriteRune(ch)
		}
	}

	if prev != 0 {
		builder.WriteRune(prev)
	}

	return builder.String()
}

// parseEL tokenizes an expression body up to its closing brace. Identifiers and
// quoted literals become their own ELText nodes so that rendering can re-escape
// literals; punctuation is grouped.
func (p *parser) parseEL() (*Nodes, error) {
	body := &Nodes{messages: p.messages}

	var buf strings.Builder

	flush := func() {
		if buf.Len() > 0 {
			body.Add(&ELText{Text: buf.String()})
			buf.Reset()
		}
	}

	var prev tok.Token

	openBraces := 0

	for {
		current, err := p.tokenizer.Next()
		if err != nil {
			return nil, err
		}

		switch current.Type {
		case tok.EOF:
			return nil, p.truncated()
		case tok.PUNCTUATION:
			if current.Is('}') {
				openBraces--
				if openBraces < 0 {
					buf.WriteString(current.Whitespace)
					flush()

					return body, nil
				}
			} else if current.Is('{') {
				openBraces++
			}

			buf.WriteString(current.String())
		default:
			flush()

			fn, err := p.parseFunction(current, prev)
			if err != nil {
				return nil, err
			}

			if fn != nil {
				body.Add(fn)
			} else {
				body.Add(&ELText{Text: current.String()})
			}
		}

		prev = current
	}
}

// functionCall matches `name (` and `prefix : name (`.
var functionCall = pc.Or(
	pc.Seq(tokenOf("identifier", tok.IDENTIFIER), punctuation(':'), tokenOf("identifier", tok.IDENTIFIER), punctuation('(')),
	pc.Seq(tokenOf("identifier", tok.IDENTIFIER), punctuation('(')),
)

// functionLookahead is the longest token window functionCall can match.
const functionLookahead = 4

// parseFunction checks whether current starts a function call. On a match the
// tokenizer is left after the opening parenthesis; otherwise it is restored.
func (p *parser) parseFunction(current, prev tok.Token) (*Function, error) {
	if current.Type != tok.IDENTIFIER || tok.IsReserved(current.Value) || prev.Is('.') {
		return nil, nil
	}

	window := []tok.Token{current}
	marks := []tok.Mark{p.tokenizer.Mark()}

	for len(window) < functionLookahead {
		next, err := p.tokenizer.Next()
		if err != nil || next.Type == tok.EOF {
			// a broken literal is reported when the main loop reaches it
			break
		}

		window = append(window, next)
		marks = append(marks, p.tokenizer.Mark())

		if next.Is('(') {
			break
		}
	}

	pctx := pc.NewParseContext[tok.Token]()

	consumed, _, err := functionCall(pctx, toParserTokens(window))
	if err != nil || consumed == 0 {
		p.tokenizer.Reset(marks[0])
		return nil, nil
	}

	p.tokenizer.Reset(marks[consumed-1])

	var original strings.Builder
	for _, t := range window[:consumed-1] {
		original.WriteString(t.String())
	}

	original.WriteString(window[consumed-1].Whitespace)

	fn := &Function{OriginalText: original.String()}
	if consumed == functionLookahead {
		fn.Prefix = window[0].Value
		fn.Name = window[2].Value
	} else {
		fn.Name = window[0].Value
	}

	return fn, nil
}

func (p *parser) truncated() error {
	opener := string(p.opener) + "{"
	msg := p.messages.Message(message.ELUnterminated, opener)
	start := p.openerStart

	return snappage.NewSourceError(snappage.ErrTruncatedExpression, start.Source, start.Line, start.Column, msg)
}

func tokenOf(name string, types ...tok.TokenType) pc.Parser[tok.Token] {
	return func(pctx *pc.ParseContext[tok.Token], tokens []pc.Token[tok.Token]) (int, []pc.Token[tok.Token], error) {
		if len(tokens) > 0 {
			for _, t := range types {
				if tokens[0].Val.Type == t {
					return 1, tokens[:1], nil
				}
			}
		}

		return 0, nil, pc.ErrNotMatch
	}
}

func punctuation(ch rune) pc.Parser[tok.Token] {
	return func(pctx *pc.ParseContext[tok.Token], tokens []pc.Token[tok.Token]) (int, []pc.Token[tok.Token], error) {
		if len(tokens) > 0 && tokens[0].Val.Is(ch) {
			return 1, tokens[:1], nil
		}

		return 0, nil, pc.ErrNotMatch
	}
}

func toParserTokens(tokens []tok.Token) []pc.Token[tok.Token] {
	results := make([]pc.Token[tok.Token], len(tokens))

	for i, token := range tokens {
		results[i] = pc.Token[tok.Token]{
			Type: token.Type.String(),
			Pos: &pc.Pos{
				Line:  token.Position.Line,
				Col:   token.Position.Column,
				Index: token.Position.Offset,
			},
			Val: token,
			Raw: token.Value,
		}
	}

	return results
}
