package tokenizer

import "slices"

// ReservedWords are the reserved identifiers of the expression language, sorted.
var ReservedWords = []string{
	"and", "div", "empty", "eq", "false", "ge", "gt", "instanceof",
	"le", "lt", "mod", "ne", "not", "null", "or", "true",
}

// IsReserved reports whether id is an expression language reserved word.
// The comparison is case-sensitive.
func IsReserved(id string) bool {
	_, found := slices.BinarySearch(ReservedWords, id)
	return found
}
