package types

// Tokens is an ordered segmentation of a corpus. A token is an opaque string
// unit; the only operations the engine performs on one are equality and
// concatenation.
type Tokens []string

// Pair is an ordered pair of adjacent tokens. Pairs compare field-wise, so
// ("ab", "c") and ("a", "bc") are distinct even though they join to the same
// string.
type Pair struct {
	Left  string
	Right string
}

// TokenSet is a deduplicated set of tokens.
type TokenSet map[string]struct{}
