package tokenizer

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/snappage"
)

func TestSkipELExpression(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int // offset of the closing brace
	}{
		{"simple", "${a}", 3},
		{"brace in single quotes", "${fn:m('}')}", 11},
		{"brace in double quotes", `${"}"}`, 5},
		{"nested braces", "${ {1:2} }", 9},
		{"escaped quote in literal", `${'a\'}'}`, 8},
		{"other quote inside literal", `${"'}"}`, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewReader("test.jsp", tt.input)
			assert.True(t, reader.Matches("${"))

			last, err := reader.SkipELExpression()
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, last.Offset)
			assert.Equal(t, '}', reader.PeekChar(-1))
			assert.False(t, reader.HasMoreInput())
		})
	}
}

func TestSkipELExpression_Truncated(t *testing.T) {
	tests := []string{"${a", "${'}'", "${ {a} ", "#{\"}"}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			reader := NewReader("test.jsp", input)
			reader.NextChar()
			reader.NextChar()
			start := reader.Mark()

			_, err := reader.SkipELExpression()
			assert.True(t, errors.Is(err, snappage.ErrTruncatedExpression))
			assert.Contains(t, err.Error(), input[:2])
			assert.Equal(t, start, reader.Mark())
		})
	}
}

func TestReader_MarkReset(t *testing.T) {
	reader := NewReader("a.jsp", "ab\ncd")
	start := reader.Mark()

	assert.Equal(t, 'a', reader.NextChar())
	assert.Equal(t, 'b', reader.NextChar())
	assert.Equal(t, '\n', reader.NextChar())
	assert.Equal(t, Mark{Offset: 3, Line: 2, Column: 1, Source: "a.jsp"}, reader.Mark())
	assert.Equal(t, "a.jsp:2:1", reader.Mark().String())

	assert.False(t, reader.Matches("cx"))
	assert.Equal(t, 'c', reader.PeekChar(0))
	assert.True(t, reader.Matches("cd"))
	assert.Equal(t, rune(-1), reader.NextChar())

	end := reader.Mark()
	reader.Reset(start)
	assert.Equal(t, "ab\ncd", reader.Text(start, end))
	assert.Equal(t, 'a', reader.NextChar())
}

func TestScanTemplate(t *testing.T) {
	segments, err := ScanTemplate("page.jsp", "Hello ${user.name}!\nTotal: #{fn:sum(items, '}')} \\${raw}")
	assert.NoError(t, err)

	assert.Equal(t, []Segment{
		{Kind: TextSegment, Text: "Hello ", Start: Mark{0, 1, 1, "page.jsp"}, End: Mark{6, 1, 7, "page.jsp"}},
		{Kind: ExpressionSegment, Type: '$', Text: "user.name", Start: Mark{6, 1, 7, "page.jsp"}, End: Mark{18, 1, 19, "page.jsp"}},
		{Kind: TextSegment, Text: "!\nTotal: ", Start: Mark{18, 1, 19, "page.jsp"}, End: Mark{27, 2, 8, "page.jsp"}},
		{Kind: ExpressionSegment, Type: '#', Text: "fn:sum(items, '}')", Start: Mark{27, 2, 8, "page.jsp"}, End: Mark{48, 2, 29, "page.jsp"}},
		{Kind: TextSegment, Text: " \\${raw}", Start: Mark{48, 2, 29, "page.jsp"}, End: Mark{56, 2, 37, "page.jsp"}},
	}, segments)
}

func TestScanTemplate_Options(t *testing.T) {
	segments, err := ScanTemplate("p", "#{a} ${b}", ScanOptions{DeferredSyntaxAllowedAsLiteral: true})
	assert.NoError(t, err)
	assert.Equal(t, 2, len(segments))
	assert.Equal(t, "#{a} ", segments[0].Text)
	assert.Equal(t, "b", segments[1].Text)

	segments, err = ScanTemplate("p", "#{a} ${b", ScanOptions{ELIgnored: true})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(segments))
	assert.Equal(t, TextSegment, segments[0].Kind)
}

func TestScanTemplate_Unterminated(t *testing.T) {
	_, err := ScanTemplate("p.jsp", "line1\n  #{oops")

	var srcErr *snappage.SourceError
	assert.True(t, errors.As(err, &srcErr))
	assert.Equal(t, 2, srcErr.Line)
	assert.Equal(t, 3, srcErr.Column)
	assert.Equal(t, "p.jsp:2:3: Unterminated #{ expression", err.Error())
}
