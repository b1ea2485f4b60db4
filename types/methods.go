package types

import (
	"io"
	"sort"
	"strings"
)

// Joined returns the concatenation of the pair, i.e. the token a merge of the
// pair produces.
func (pair Pair) Joined() string {
	return pair.Left + pair.Right
}

func (pair Pair) String() string {
	return pair.Left + " " + pair.Right
}

// Has reports whether either side of the pair is token.
func (pair Pair) Has(token string) bool {
	return pair.Left == token || pair.Right == token
}

// Pairs returns every overlapping adjacent pair of tokens, in order.
func (tokens Tokens) Pairs() []Pair {
	if len(tokens) < 2 {
		return nil
	}
	pairs := make([]Pair, 0, len(tokens)-1)
	for idx := 1; idx < len(tokens); idx++ {
		pairs = append(pairs, Pair{tokens[idx-1], tokens[idx]})
	}
	return pairs
}

// Clone returns a copy of tokens that shares no backing storage.
func (tokens Tokens) Clone() Tokens {
	cloned := make(Tokens, len(tokens))
	copy(cloned, tokens)
	return cloned
}

// Join renders tokens with sep between them.
func (tokens Tokens) Join(sep string) string {
	return strings.Join(tokens, sep)
}

// WriteTo writes tokens separated by single spaces followed by a newline,
// which is the format the corpus loader reads back in `tokens` mode.
func (tokens Tokens) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, tokens.Join(" ")+"\n")
	return int64(n), err
}

func NewTokenSet(tokens ...string) TokenSet {
	set := make(TokenSet, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}

func (set TokenSet) Add(token string) {
	set[token] = struct{}{}
}

func (set TokenSet) Contains(token string) bool {
	_, ok := set[token]
	return ok
}

// Sorted returns the members of the set in ascending order.
func (set TokenSet) Sorted() []string {
	sorted := make([]string, 0, len(set))
	for token := range set {
		sorted = append(sorted, token)
	}
	sort.Strings(sorted)
	return sorted
}
