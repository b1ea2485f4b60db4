package wordifier

import (
	"math"

	"github.com/wbrown/wordifier/types"
)

const DEFAULT_BOUNDARY = "<dummy>"

// BoundaryScore is the score of any pair that touches the boundary marker.
// Every other score is non-negative, so a boundary pair can never pass a
// positive score threshold.
const BoundaryScore = -1.0

type Tokens = types.Tokens
type Pair = types.Pair

// PairCounts maps each adjacent pair to the number of times it occurs in one
// snapshot of a token sequence.
type PairCounts map[Pair]int

// PairProbs maps each pair to its joint probability, count / total pairs.
type PairProbs map[Pair]float64

// UnigramProbs maps a token to its first-position marginal: the summed count
// of pairs that start with the token, over the total pair count.
type UnigramProbs map[string]float64

// PairScores maps each pair to its association score.
type PairScores map[Pair]float64

// NewWords is the set of pairs selected for merging in one round.
type NewWords map[Pair]struct{}

// CountPairs
// Counts every overlapping adjacent pair in tokens. Sequences shorter than
// two tokens produce an empty map.
func CountPairs(tokens Tokens) PairCounts {
	counts := make(PairCounts)
	for idx := 1; idx < len(tokens); idx++ {
		counts[Pair{Left: tokens[idx-1], Right: tokens[idx]}]++
	}
	return counts
}

// Total returns the number of pairs counted.
func (counts PairCounts) Total() int {
	total := 0
	for _, count := range counts {
		total += count
	}
	return total
}

// ToProbabilities
// Converts pair counts into joint pair probabilities and first-position
// unigram marginals. Returns false when there is nothing to normalize by,
// i.e. the sequence was too short to form a pair.
func ToProbabilities(counts PairCounts) (PairProbs, UnigramProbs, bool) {
	total := counts.Total()
	if total == 0 {
		return nil, nil, false
	}
	firstCounts := make(map[string]int)
	for pair, count := range counts {
		firstCounts[pair.Left] += count
	}
	pairProbs := make(PairProbs, len(counts))
	for pair, count := range counts {
		pairProbs[pair] = float64(count) / float64(total)
	}
	unigramProbs := make(UnigramProbs, len(firstCounts))
	for token, count := range firstCounts {
		unigramProbs[token] = float64(count) / float64(total)
	}
	return pairProbs, unigramProbs, true
}

// Scorer computes association scores, forcing pairs that touch Boundary to
// BoundaryScore.
type Scorer struct {
	Boundary string
}

// Score
// Returns P(w1,w2) / sqrt(P(w1) * P(w2)) for every pair, which equals
// sqrt(P(w1|w2) * P(w2|w1)).
//
// Because the marginals only count first positions, a right-hand token that
// never starts a pair has no marginal; such pairs score 0. The same asymmetry
// can push a ratio slightly above 1, so scores are capped at 1.
func (scorer Scorer) Score(pairProbs PairProbs,
	unigramProbs UnigramProbs) PairScores {
	scores := make(PairScores, len(pairProbs))
	for pair, joint := range pairProbs {
		if pair.Has(scorer.Boundary) {
			scores[pair] = BoundaryScore
			continue
		}
		leftProb := unigramProbs[pair.Left]
		rightProb := unigramProbs[pair.Right]
		if leftProb == 0 || rightProb == 0 {
			scores[pair] = 0
			continue
		}
		scores[pair] = math.Min(1, joint/math.Sqrt(leftProb*rightProb))
	}
	return scores
}

// SelectNewWords
// Returns the pairs that were counted, occur at least countThreshold times,
// and score at least scoreThreshold.
func SelectNewWords(counts PairCounts, scores PairScores,
	countThreshold int, scoreThreshold float64) NewWords {
	newWords := make(NewWords)
	for pair, count := range counts {
		if count < countThreshold {
			continue
		}
		if score, ok := scores[pair]; ok && score >= scoreThreshold {
			newWords[pair] = struct{}{}
		}
	}
	return newWords
}

func (newWords NewWords) Contains(pair Pair) bool {
	_, ok := newWords[pair]
	return ok
}

// Sorted returns the selected pairs ordered by their merged form, then by
// their left element.
func (newWords NewWords) Sorted() []Pair {
	pairs := make([]Pair, 0, len(newWords))
	for pair := range newWords {
		pairs = append(pairs, pair)
	}
	sortPairs(pairs)
	return pairs
}

// Resegment
// Merges selected pairs in a single greedy left-to-right pass. A merged pair
// consumes both of its tokens, so with A-B and B-C both selected, A B C
// becomes AB C. Returns the new sequence and the number of merges made.
func Resegment(tokens Tokens, newWords NewWords) (Tokens, int) {
	merged := make(Tokens, 0, len(tokens))
	merges := 0
	i := 0
	for i < len(tokens) {
		if i+1 < len(tokens) &&
			newWords.Contains(Pair{Left: tokens[i], Right: tokens[i+1]}) {
			merged = append(merged, tokens[i]+tokens[i+1])
			merges++
			i += 2
		} else {
			merged = append(merged, tokens[i])
			i += 1
		}
	}
	return merged, merges
}
