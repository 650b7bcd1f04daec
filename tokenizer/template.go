package tokenizer

import (
	"errors"
	"strings"

	"github.com/shibukawa/snappage"
	"github.com/shibukawa/snappage/message"
)

// SegmentKind distinguishes plain template text from expressions
type SegmentKind int

const (
	TextSegment SegmentKind = iota
	ExpressionSegment
)

// String returns the string representation of SegmentKind
func (k SegmentKind) String() string {
	switch k {
	case TextSegment:
		return "TEXT"
	case ExpressionSegment:
		return "EXPRESSION"
	default:
		return "UNKNOWN"
	}
}

// Segment is a run of template text or one ${...} / #{...} expression.
// For expressions Text is the body without delimiters and Type is '$' or '#'.
type Segment struct {
	Kind  SegmentKind
	Type  rune
	Text  string
	Start Mark
	End   Mark
}

// ScanOptions control how template text is split
type ScanOptions struct {
	ELIgnored                      bool
	DeferredSyntaxAllowedAsLiteral bool
	Messages                       *message.Catalog
}

// ScanTemplate splits template text into text and expression segments.
//
// Escaped openers (\${ and \#{) stay in the text segment verbatim so a later
// expression parse can resolve them. An opened expression without a closing
// brace is an error.
func ScanTemplate(source, text string, options ...ScanOptions) ([]Segment, error) {
	var opts ScanOptions
	if len(options) > 0 {
		opts = options[0]
	}

	reader := NewReader(source, text, ReaderOptions{Messages: opts.Messages})

	var segments []Segment

	var buf strings.Builder

	textStart := reader.Mark()

	flush := func(end Mark) {
		if buf.Len() > 0 {
			segments = append(segments, Segment{Kind: TextSegment, Text: buf.String(), Start: textStart, End: end})
			buf.Reset()
		}
	}

	for reader.HasMoreInput() {
		pos := reader.Mark()
		ch := reader.NextChar()

		switch {
		case opts.ELIgnored:
			buf.WriteRune(ch)
		case ch == '\\' && isOpener(reader.PeekChar(0), opts) && reader.PeekChar(1) == '{':
			buf.WriteRune(ch)
			buf.WriteRune(reader.NextChar())
		case isOpener(ch, opts) && reader.PeekChar(0) == '{':
			flush(pos)
			reader.NextChar()

			end, err := reader.SkipELExpression()
			if errors.Is(err, snappage.ErrTruncatedExpression) {
				msg := opts.Messages.Message(message.ELUnterminated, string(ch)+"{")
				return nil, snappage.NewSourceError(snappage.ErrTruncatedExpression, source, pos.Line, pos.Column, msg)
			} else if err != nil {
				return nil, err
			}

			body := reader.Text(pos.AdvanceString(string(ch)+"{"), end)
			segments = append(segments, Segment{Kind: ExpressionSegment, Type: ch, Text: body, Start: pos, End: reader.Mark()})
			textStart = reader.Mark()
		default:
			buf.WriteRune(ch)
		}
	}

	flush(reader.Mark())

	return segments, nil
}

func isOpener(ch rune, opts ScanOptions) bool {
	return ch == '$' || (ch == '#' && !opts.DeferredSyntaxAllowedAsLiteral)
}
