package el

import "strings"

// Render rebuilds source text that parses back into nodes. Text is re-escaped
// with EscapeLiteral, expression text with EscapeELText.
func Render(nodes *Nodes, deferredAsLiteral bool) (string, error) {
	var builder strings.Builder

	if err := render(&builder, nodes, deferredAsLiteral); err != nil {
		return "", err
	}

	return builder.String(), nil
}

func render(builder *strings.Builder, nodes *Nodes, deferredAsLiteral bool) error {
	if nodes == nil {
		return nil
	}

	for _, node := range nodes.Items {
		switch n := node.(type) {
		case *Text:
			builder.WriteString(EscapeLiteral(n.Text, deferredAsLiteral))
		case *Root:
			builder.WriteRune(n.Type)
			builder.WriteRune('{')

			if err := render(builder, n.Body, deferredAsLiteral); err != nil {
				return err
			}

			builder.WriteRune('}')
		case *ELText:
			text, err := EscapeELText(n.Text, nodes.messages)
			if err != nil {
				return err
			}

			builder.WriteString(text)
		case *Function:
			builder.WriteString(EscapeLiteral(n.OriginalText, deferredAsLiteral))
			builder.WriteRune('(')
		}
	}

	return nil
}
