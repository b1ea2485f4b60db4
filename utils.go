package wordifier

import (
	"sort"
)

// PairRank is a selected pair together with the statistics it was selected
// on, used to report new words in a stable order.
type PairRank struct {
	Pair  Pair
	Count int
	Score float64
}

// PairRanks sorts by descending count, then descending score, then by the
// merged form of the pair.
type PairRanks []PairRank

func (ranks PairRanks) Len() int {
	return len(ranks)
}

func (ranks PairRanks) Swap(i, j int) {
	ranks[i], ranks[j] = ranks[j], ranks[i]
}

func (ranks PairRanks) Less(i, j int) bool {
	if ranks[i].Count != ranks[j].Count {
		return ranks[i].Count > ranks[j].Count
	}
	if ranks[i].Score != ranks[j].Score {
		return ranks[i].Score > ranks[j].Score
	}
	return pairLess(ranks[i].Pair, ranks[j].Pair)
}

// rankNewWords pairs every selected word with its count and score.
func rankNewWords(newWords NewWords, counts PairCounts,
	scores PairScores) PairRanks {
	ranks := make(PairRanks, 0, len(newWords))
	for pair := range newWords {
		ranks = append(ranks, PairRank{pair, counts[pair], scores[pair]})
	}
	sort.Sort(ranks)
	return ranks
}

func pairLess(a, b Pair) bool {
	aJoined, bJoined := a.Joined(), b.Joined()
	if aJoined != bJoined {
		return aJoined < bJoined
	}
	return a.Left < b.Left
}

func sortPairs(pairs []Pair) {
	sort.Slice(pairs, func(i, j int) bool {
		return pairLess(pairs[i], pairs[j])
	})
}
