package tokenizer

// TokenType represents the type of an expression language token
type TokenType int

const (
	EOF TokenType = iota
	IDENTIFIER     // identifier or reserved word
	PUNCTUATION    // any other single character
	QUOTED_LITERAL // 'text' or "text"
)

// String returns the string representation of TokenType
func (t TokenType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case IDENTIFIER:
		return "IDENTIFIER"
	case PUNCTUATION:
		return "PUNCTUATION"
	case QUOTED_LITERAL:
		return "QUOTED_LITERAL"
	default:
		return "UNKNOWN"
	}
}

// Token is one expression language token.
//
// Whitespace holds the blanks that preceded the token so the original text can
// be rebuilt. For QUOTED_LITERAL, Value keeps the quotes but has the escape
// backslashes removed.
type Token struct {
	Type       TokenType
	Whitespace string
	Value      string
	Position   Mark
}

// String returns the token as it appeared in the source, leading whitespace included.
func (t Token) String() string {
	return t.Whitespace + t.Value
}

// Trimmed returns the token value without leading whitespace.
func (t Token) Trimmed() string {
	return t.Value
}

// Char returns the character of a PUNCTUATION token, or 0 for other types.
func (t Token) Char() rune {
	if t.Type != PUNCTUATION {
		return 0
	}

	for _, r := range t.Value {
		return r
	}

	return 0
}

// Is reports whether t is the punctuation character ch.
func (t Token) Is(ch rune) bool {
	return t.Type == PUNCTUATION && t.Char() == ch
}
