package tokenizer

import (
	"github.com/shibukawa/snappage"
	"github.com/shibukawa/snappage/message"
)

// Reader walks a template source buffer rune by rune.
type Reader struct {
	src      []rune
	cur      Mark
	messages *message.Catalog
}

// ReaderOptions are options for the reader
type ReaderOptions struct {
	Messages *message.Catalog
}

// NewReader creates a reader over text; source identifies the buffer in marks.
func NewReader(source, text string, options ...ReaderOptions) *Reader {
	var opts ReaderOptions
	if len(options) > 0 {
		opts = options[0]
	}

	return &Reader{
		src:      []rune(text),
		cur:      StartOf(source),
		messages: opts.Messages,
	}
}

// Mark returns the current position
func (r *Reader) Mark() Mark {
	return r.cur
}

// Reset restores a position obtained from Mark
func (r *Reader) Reset(m Mark) {
	r.cur = m
}

// HasMoreInput reports whether unread runes remain
func (r *Reader) HasMoreInput() bool {
	return r.cur.Offset < len(r.src)
}

// NextChar consumes one rune; -1 at end of input
func (r *Reader) NextChar() rune {
	if !r.HasMoreInput() {
		return -1
	}

	ch := r.src[r.cur.Offset]
	r.cur = r.cur.Advance(ch)

	return ch
}

// PeekChar returns the rune n positions ahead of the cursor, or -1
func (r *Reader) PeekChar(n int) rune {
	idx := r.cur.Offset + n
	if idx < 0 || idx >= len(r.src) {
		return -1
	}

	return r.src[idx]
}

// Matches consumes s if the input continues with it.
func (r *Reader) Matches(s string) bool {
	saved := r.cur

	for _, want := range s {
		if r.NextChar() != want {
			r.cur = saved
			return false
		}
	}

	return true
}

// Text returns the runes between two marks of this reader
func (r *Reader) Text(start, end Mark) string {
	if start.Offset >= end.Offset {
		return ""
	}

	return string(r.src[start.Offset:end.Offset])
}

// SkipELExpression scans an expression body whose opening "${" or "#{" was
// already consumed. It returns the mark of the closing '}' and leaves the
// reader just past it.
//
// Braces inside single or double quoted literals and balanced nested {...}
// blocks do not close the expression. Inside quotes a backslash skips the next
// rune.
func (r *Reader) SkipELExpression() (Mark, error) {
	start := r.cur
	singleQuoted := false
	doubleQuoted := false
	nesting := 0

	for {
		last := r.cur
		ch := r.NextChar()

		for ch == '\\' && (singleQuoted || doubleQuoted) {
			r.NextChar()
			ch = r.NextChar()
		}

		if ch == -1 {
			r.cur = start
			return Mark{}, r.errorAt(snappage.ErrTruncatedExpression, start, message.ELUnterminated, r.opener(start))
		}

		switch {
		case ch == '"' && !singleQuoted:
			doubleQuoted = !doubleQuoted
		case ch == '\'' && !doubleQuoted:
			singleQuoted = !singleQuoted
		case ch == '{' && !doubleQuoted && !singleQuoted:
			nesting++
		case ch == '}' && !doubleQuoted && !singleQuoted:
			if nesting == 0 {
				return last, nil
			}

			nesting--
		}
	}
}

// opener returns the two runes preceding an expression body ("${" when unknown)
func (r *Reader) opener(body Mark) string {
	if body.Offset < 2 {
		return "${"
	}

	return string(r.src[body.Offset-2 : body.Offset])
}

func (r *Reader) errorAt(err error, pos Mark, key string, args ...any) error {
	return snappage.NewSourceError(err, pos.Source, pos.Line, pos.Column, r.messages.Message(key, args...))
}
