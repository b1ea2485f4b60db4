package wordifier

import (
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

const SEGMENT_LRU_SZ = 65536

// MergeTable is the ordered list of pair sets a discovery run merged, one
// per round.
type MergeTable []NewWords

// Words returns every token the table can produce, across all rounds.
func (table MergeTable) Words() []string {
	seen := make(map[string]struct{})
	words := make([]string, 0)
	for _, newWords := range table {
		for _, pair := range newWords.Sorted() {
			joined := pair.Joined()
			if _, ok := seen[joined]; !ok {
				seen[joined] = struct{}{}
				words = append(words, joined)
			}
		}
	}
	return words
}

// Segmenter replays a learned merge table over new input, so text that was
// not part of the training corpus is segmented the same way.
type Segmenter struct {
	Table        MergeTable
	Cache        *lru.ARCCache
	LruHits      int
	LruMisses    int
	LruEvictions int
}

func NewSegmenter(table MergeTable, cacheSize int) (*Segmenter, error) {
	if cacheSize <= 0 {
		cacheSize = SEGMENT_LRU_SZ
	}
	cache, err := lru.NewARC(cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create segment cache")
	}
	return &Segmenter{Table: table, Cache: cache}, nil
}

// Segment
// Applies each round of the table in order, with the same greedy pass used
// during discovery.
func (segmenter *Segmenter) Segment(tokens Tokens) Tokens {
	segmented := tokens.Clone()
	for _, newWords := range segmenter.Table {
		if len(segmented) < 2 {
			break
		}
		segmented, _ = Resegment(segmented, newWords)
	}
	return segmented
}

// SegmentLine
// Splits line on whitespace into tokens and segments them. Results are
// cached by line.
func (segmenter *Segmenter) SegmentLine(line string) Tokens {
	if lookup, ok := segmenter.Cache.Get(line); ok {
		segmenter.LruHits++
		return lookup.(Tokens)
	}
	segmenter.LruMisses++
	segmented := segmenter.Segment(strings.Fields(line))
	before := segmenter.Cache.Len()
	segmenter.Cache.Add(line, segmented)
	if segmenter.Cache.Len() == before {
		segmenter.LruEvictions++
	}
	return segmented
}
