package el

import (
	"fmt"
	"strings"

	"github.com/shibukawa/snappage"
	"github.com/shibukawa/snappage/message"
)

// EscapeLiteral puts a backslash before every $ (and # unless deferredAsLiteral)
// that is directly followed by '{', so the text is not read as an expression.
func EscapeLiteral(input string, deferredAsLiteral bool) string {
	runes := []rune(input)

	var output *strings.Builder

	lastAppend := 0

	for i, ch := range runes {
		if ch != '$' && (deferredAsLiteral || ch != '#') {
			continue
		}

		if i+1 < len(runes) && runes[i+1] == '{' {
			if output == nil {
				output = &strings.Builder{}
				output.Grow(len(input) + 20)
			}

			output.WriteString(string(runes[lastAppend:i]))
			output.WriteRune('\\')
			output.WriteRune(ch)

			lastAppend = i + 1
		}
	}

	if output == nil {
		return input
	}

	output.WriteString(string(runes[lastAppend:]))

	return output.String()
}

// EscapeELText escapes backslashes in expression text. When the trimmed text is
// a quoted literal, the quote character is escaped between the outer quotes as
// well; a literal that opens and closes with different quotes is rejected.
func EscapeELText(input string, messages ...*message.Catalog) (string, error) {
	runes := []rune(input)
	start, end := 0, len(runes)

	var quote rune

	trimmed := []rune(strings.TrimSpace(input))
	if len(trimmed) > 1 {
		quote = trimmed[0]
		if quote == '\'' || quote == '"' {
			if trimmed[len(trimmed)-1] != quote {
				var catalog *message.Catalog
				if len(messages) > 0 {
					catalog = messages[0]
				}

				msg := catalog.Message(message.ELInvalidLiteralQuotes, input)

				return "", fmt.Errorf("%w: %s", snappage.ErrInvalidLiteralQuoting, msg)
			}

			start = indexRune(runes, quote) + 1
			end = start + len(trimmed) - 2
		} else {
			quote = 0
		}
	}

	var output *strings.Builder

	lastAppend := 0

	for i := start; i < end; i++ {
		ch := runes[i]
		if ch != '\\' && ch != quote {
			continue
		}

		if output == nil {
			output = &strings.Builder{}
			output.Grow(len(input) + 20)
		}

		output.WriteString(string(runes[lastAppend:i]))
		output.WriteRune('\\')
		output.WriteRune(ch)

		lastAppend = i + 1
	}

	if output == nil {
		return input, nil
	}

	output.WriteString(string(runes[lastAppend:]))

	return output.String(), nil
}

func indexRune(runes []rune, r rune) int {
	for i, c := range runes {
		if c == r {
			return i
		}
	}

	return -1
}
