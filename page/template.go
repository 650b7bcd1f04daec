package page

import (
	tok "github.com/shibukawa/snappage/tokenizer"
)

// FromTemplate builds a root node from plain template text: literal runs become
// template text nodes and every ${...} or #{...} an EL expression node. Nodes
// carry source lines only; generated lines are left to the code generator.
func FromTemplate(file, text string, opts tok.ScanOptions) (*Node, error) {
	segments, err := tok.ScanTemplate(file, text, opts)
	if err != nil {
		return nil, err
	}

	root := &Node{Kind: KindRoot, File: file, Line: 1}

	for _, seg := range segments {
		switch seg.Kind {
		case tok.TextSegment:
			root.Append(&Node{Kind: KindTemplateText, Line: seg.Start.Line, Text: seg.Text})
		case tok.ExpressionSegment:
			root.Append(&Node{
				Kind: KindELExpression,
				Line: seg.Start.Line,
				Text: string(seg.Type) + "{" + seg.Text + "}",
			})
		}
	}

	return root, nil
}
