package tokenizer

import "fmt"

// Mark is a position in a source buffer. It is a plain value: taking a
// snapshot is copying it, restoring is handing it back to the reader.
type Mark struct {
	Offset int // rune index, 0-based
	Line   int // 1-based
	Column int // 1-based
	Source string
}

// StartOf returns the mark of the first rune of source.
func StartOf(source string) Mark {
	return Mark{Offset: 0, Line: 1, Column: 1, Source: source}
}

// Advance returns the mark that follows r.
func (m Mark) Advance(r rune) Mark {
	m.Offset++
	if r == '\n' {
		m.Line++
		m.Column = 1
	} else {
		m.Column++
	}

	return m
}

// AdvanceString returns the mark that follows every rune of s.
func (m Mark) AdvanceString(s string) Mark {
	for _, r := range s {
		m = m.Advance(r)
	}

	return m
}

// IsValid reports whether the mark points into a buffer.
func (m Mark) IsValid() bool {
	return m.Line > 0
}

// String returns "source:line:column" (or "line:column" for anonymous buffers).
func (m Mark) String() string {
	if m.Source == "" {
		return fmt.Sprintf("%d:%d", m.Line, m.Column)
	}

	return fmt.Sprintf("%s:%d:%d", m.Source, m.Line, m.Column)
}
