package wordifier

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/wordifier/types"
)

// chars splits text into one token per rune, spaces included.
func chars(text string) Tokens {
	return strings.Split(text, "")
}

func words(text string) Tokens {
	return strings.Fields(text)
}

func newWords(pairs ...Pair) NewWords {
	set := make(NewWords, len(pairs))
	for _, pair := range pairs {
		set[pair] = struct{}{}
	}
	return set
}

var countTests = []Tokens{
	{},
	{"a"},
	{"a", "b"},
	words("a b a b a"),
	words("t h e <dummy> c a t <dummy> t h e"),
	chars("the cat sat on the mat"),
}

func TestCountPairs_Conservation(t *testing.T) {
	for _, tokens := range countTests {
		counts := CountPairs(tokens)
		if len(tokens) < 2 {
			assert.Empty(t, counts)
			continue
		}
		assert.Equal(t, len(tokens)-1, counts.Total(), tokens.Join(" "))
	}
}

func TestCountPairs(t *testing.T) {
	counts := CountPairs(words("a b a b a"))
	assert.Equal(t, PairCounts{{Left: "a", Right: "b"}: 2, {Left: "b", Right: "a"}: 2}, counts)
}

func TestCountPairs_PairNotJoinedString(t *testing.T) {
	counts := CountPairs(Tokens{"ab", "c", "a", "bc"})
	assert.Equal(t, 1, counts[Pair{Left: "ab", Right: "c"}])
	assert.Equal(t, 1, counts[Pair{Left: "a", Right: "bc"}])
	assert.Len(t, counts, 3)
}

func TestToProbabilities_Normalized(t *testing.T) {
	for _, tokens := range countTests {
		pairProbs, unigramProbs, ok := ToProbabilities(CountPairs(tokens))
		if len(tokens) < 2 {
			assert.False(t, ok)
			continue
		}
		require.True(t, ok)
		pairSum, unigramSum := 0.0, 0.0
		for _, prob := range pairProbs {
			pairSum += prob
		}
		for _, prob := range unigramProbs {
			unigramSum += prob
		}
		assert.InDelta(t, 1.0, pairSum, 1e-9)
		assert.InDelta(t, 1.0, unigramSum, 1e-9)
	}
}

func TestToProbabilities_FirstPositionMarginal(t *testing.T) {
	// b occurs as often as a overall, but starts only one of three pairs.
	pairProbs, unigramProbs, ok := ToProbabilities(
		CountPairs(words("a b a b")))
	require.True(t, ok)
	assert.InDelta(t, 2.0/3.0, pairProbs[Pair{Left: "a", Right: "b"}], 1e-9)
	assert.InDelta(t, 1.0/3.0, pairProbs[Pair{Left: "b", Right: "a"}], 1e-9)
	assert.InDelta(t, 2.0/3.0, unigramProbs["a"], 1e-9)
	assert.InDelta(t, 1.0/3.0, unigramProbs["b"], 1e-9)
}

func TestScorer_Score(t *testing.T) {
	pairProbs, unigramProbs, ok := ToProbabilities(
		CountPairs(words("a b a c")))
	require.True(t, ok)
	scores := Scorer{DEFAULT_BOUNDARY}.Score(pairProbs, unigramProbs)
	assert.InDelta(t, 1/math.Sqrt2, scores[Pair{Left: "a", Right: "b"}], 1e-9)
	assert.InDelta(t, 1/math.Sqrt2, scores[Pair{Left: "b", Right: "a"}], 1e-9)
	// c only ever ends the sequence, so it has no marginal.
	assert.Equal(t, 0.0, scores[Pair{Left: "a", Right: "c"}])
}

func TestScorer_ScoreCapped(t *testing.T) {
	pairProbs, unigramProbs, _ := ToProbabilities(CountPairs(words("a b a b")))
	scores := Scorer{DEFAULT_BOUNDARY}.Score(pairProbs, unigramProbs)
	assert.Equal(t, 1.0, scores[Pair{Left: "a", Right: "b"}])
	assert.InDelta(t, 1/math.Sqrt2, scores[Pair{Left: "b", Right: "a"}], 1e-9)
}

func TestScorer_Bounds(t *testing.T) {
	for _, tokens := range countTests {
		pairProbs, unigramProbs, ok := ToProbabilities(CountPairs(tokens))
		if !ok {
			continue
		}
		scores := Scorer{DEFAULT_BOUNDARY}.Score(pairProbs, unigramProbs)
		assert.Len(t, scores, len(pairProbs))
		for pair, score := range scores {
			if pair.Has(DEFAULT_BOUNDARY) {
				assert.Equal(t, BoundaryScore, score, pair.String())
			} else {
				assert.GreaterOrEqual(t, score, 0.0, pair.String())
				assert.LessOrEqual(t, score, 1.0, pair.String())
			}
		}
	}
}

func TestScorer_BoundaryAlwaysExcluded(t *testing.T) {
	// The boundary pairs here are perfectly predictive, and still score -1.
	tokens := words("x <dummy> x <dummy> x <dummy>")
	counts := CountPairs(tokens)
	pairProbs, unigramProbs, _ := ToProbabilities(counts)
	scores := Scorer{DEFAULT_BOUNDARY}.Score(pairProbs, unigramProbs)
	for _, score := range scores {
		assert.Equal(t, BoundaryScore, score)
	}
	assert.Empty(t, SelectNewWords(counts, scores, 1, 0.01))
}

func TestSelectNewWords(t *testing.T) {
	counts := PairCounts{
		{Left: "a", Right: "b"}: 5,
		{Left: "b", Right: "c"}: 2,
		{Left: "c", Right: "d"}: 5,
		{Left: "d", Right: "e"}: 3,
	}
	scores := PairScores{
		{Left: "a", Right: "b"}: 0.9,
		{Left: "b", Right: "c"}: 0.9,
		{Left: "c", Right: "d"}: 0.4,
		// d e has no score and is never selected.
		{Left: "x", Right: "y"}: 1.0,
	}
	selected := SelectNewWords(counts, scores, 3, 0.5)
	assert.Equal(t, newWords(Pair{Left: "a", Right: "b"}), selected)

	// Both thresholds are inclusive.
	selected = SelectNewWords(counts, scores, 2, 0.4)
	assert.Equal(t,
		[]Pair{{Left: "a", Right: "b"}, {Left: "b", Right: "c"}, {Left: "c", Right: "d"}}, selected.Sorted())
}

type resegmentTest struct {
	Name     string
	Input    Tokens
	NewWords NewWords
	Expected Tokens
}

var resegmentTests = []resegmentTest{
	{"merges selected pairs",
		words("A B C D E F G H I"),
		newWords(Pair{Left: "B", Right: "C"}, Pair{Left: "G", Right: "H"}),
		words("A BC D E F GH I")},
	{"leftmost pair wins",
		words("A B C"),
		newWords(Pair{Left: "A", Right: "B"}, Pair{Left: "B", Right: "C"}),
		words("AB C")},
	{"merged tokens do not re-merge in the same pass",
		words("a a a a a"),
		newWords(Pair{Left: "a", Right: "a"}),
		words("aa aa a")},
	{"dangling final token is kept",
		words("x y z"),
		newWords(Pair{Left: "x", Right: "y"}),
		words("xy z")},
	{"pairs compare field-wise",
		Tokens{"a", "bc", "ab", "c"},
		newWords(Pair{Left: "ab", Right: "c"}),
		Tokens{"a", "bc", "abc"}},
	{"nothing selected",
		words("p q r"),
		newWords(),
		words("p q r")},
	{"empty input",
		Tokens{},
		newWords(Pair{Left: "a", Right: "b"}),
		Tokens{}},
	{"single token",
		Tokens{"a"},
		newWords(Pair{Left: "a", Right: "a"}),
		Tokens{"a"}},
}

func TestResegment(t *testing.T) {
	for _, test := range resegmentTests {
		t.Run(test.Name, func(t *testing.T) {
			input := test.Input.Clone()
			output, merges := Resegment(test.Input, test.NewWords)
			assert.Equal(t, test.Expected, output)
			assert.Equal(t, len(test.Input)-merges, len(output))
			assert.LessOrEqual(t, len(output), len(test.Input))
			assert.Equal(t, input, test.Input, "input was modified")
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	invalid := []Config{
		{CountThreshold: 0, ScoreThreshold: 0.5, MaxIterations: 1,
			Boundary: DEFAULT_BOUNDARY},
		{CountThreshold: 1, ScoreThreshold: 0, MaxIterations: 1,
			Boundary: DEFAULT_BOUNDARY},
		{CountThreshold: 1, ScoreThreshold: 1.5, MaxIterations: 1,
			Boundary: DEFAULT_BOUNDARY},
		{CountThreshold: 1, ScoreThreshold: math.NaN(), MaxIterations: 1,
			Boundary: DEFAULT_BOUNDARY},
		{CountThreshold: 1, ScoreThreshold: 0.5, MaxIterations: 0,
			Boundary: DEFAULT_BOUNDARY},
		{CountThreshold: 1, ScoreThreshold: 0.5, MaxIterations: 1},
	}
	for _, config := range invalid {
		err := config.Validate()
		assert.ErrorIs(t, err, ErrInvalidConfig, "%+v", config)
	}
	_, err := NewDiscoverer(invalid[0])
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func newTestDiscoverer(t *testing.T, countThreshold int,
	scoreThreshold float64, maxIterations int,
	boundary string) *Discoverer {
	discoverer, err := NewDiscoverer(Config{
		CountThreshold: countThreshold,
		ScoreThreshold: scoreThreshold,
		MaxIterations:  maxIterations,
		Boundary:       boundary,
	})
	require.NoError(t, err)
	return discoverer
}

func TestDiscoverer_Discover(t *testing.T) {
	// Spaces are the boundary marker here, so words can never span them.
	tokens := chars("the cat the cat the cat")
	discoverer := newTestDiscoverer(t, 1, 0.5, 10, " ")
	discovery := discoverer.Discover(tokens)

	assert.Equal(t, words("the   cat   the   cat   the   cat"),
		filterBoundary(discovery.Tokens, " "))
	assert.Equal(t, chars("the cat the cat the cat"), tokens,
		"input was modified")
	require.Len(t, discovery.Rounds, 3)
	assert.Equal(t, StopNoNewWords, discovery.Reason)

	first := discovery.Rounds[0]
	assert.Equal(t, 1, first.Index)
	assert.Equal(t, 23, first.LenBefore)
	assert.Equal(t, 6, first.Merges)
	assert.Equal(t, 17, first.LenAfter)
	assert.Equal(t, []string{"at", "ca", "he", "th"},
		rankedJoined(first.NewWords))

	second := discovery.Rounds[1]
	assert.Equal(t, 6, second.Merges)
	assert.Equal(t, []string{"cat", "the"}, rankedJoined(second.NewWords))

	report := Evaluate(discovery.Tokens, types.NewTokenSet("the", "cat",
		"dog"))
	assert.Equal(t, []ReportEntry{{"cat", 3}, {"the", 3}}, report.Entries)
	assert.Equal(t, 2, report.Unique)
	assert.Equal(t, 6, report.Total)
}

func TestDiscoverer_DummyBoundary(t *testing.T) {
	tokens := words(strings.Repeat("t h e <dummy> c a t <dummy> ", 3))
	discovery := newTestDiscoverer(t, 1, 0.5, 10,
		DEFAULT_BOUNDARY).Discover(tokens)
	assert.Equal(t,
		words(strings.Repeat("the <dummy> cat <dummy> ", 3)),
		discovery.Tokens)
	assert.Len(t, discovery.Rounds, 3)
}

func TestDiscoverer_NoQualifyingPairs(t *testing.T) {
	tokens := chars("abcdefg")
	discovery := newTestDiscoverer(t, 2, 0.5, 10,
		DEFAULT_BOUNDARY).Discover(tokens)
	assert.Len(t, discovery.Rounds, 1)
	assert.Equal(t, StopNoNewWords, discovery.Reason)
	assert.Equal(t, tokens, discovery.Tokens)
	assert.Empty(t, discovery.Merges())
}

func TestDiscoverer_Degenerate(t *testing.T) {
	discoverer := newTestDiscoverer(t, 1, 0.1, 10, DEFAULT_BOUNDARY)
	for _, tokens := range []Tokens{{}, {"solo"}} {
		discovery := discoverer.Discover(tokens)
		assert.Empty(t, discovery.Rounds)
		assert.Equal(t, StopDegenerate, discovery.Reason)
		assert.Equal(t, tokens, discovery.Tokens)
	}

	// Everything collapses into one token, which ends the next round.
	discovery := discoverer.Discover(words("a b a b"))
	assert.Equal(t, Tokens{"abab"}, discovery.Tokens)
	assert.Len(t, discovery.Rounds, 2)
	assert.Equal(t, StopDegenerate, discovery.Reason)
}

func TestDiscoverer_MaxIterations(t *testing.T) {
	tokens := chars("the cat the cat the cat")
	discovery := newTestDiscoverer(t, 1, 0.5, 1, " ").Discover(tokens)
	assert.Len(t, discovery.Rounds, 1)
	assert.Equal(t, StopMaxIterations, discovery.Reason)
	assert.Len(t, discovery.Tokens, 17)
}

func TestDiscoverer_Deterministic(t *testing.T) {
	tokens := chars(strings.Repeat("abcab abcab cabba ", 20))
	discoverer := newTestDiscoverer(t, 2, 0.3, 10, " ")
	first := discoverer.Discover(tokens)
	for i := 0; i < 5; i++ {
		again := discoverer.Discover(tokens)
		assert.Equal(t, first.Tokens, again.Tokens)
		assert.Equal(t, first.Rounds, again.Rounds)
	}
}

func TestDiscoverer_Step(t *testing.T) {
	discoverer := newTestDiscoverer(t, 1, 0.5, 10, " ")
	tokens := chars("the cat the cat the cat")
	next, round, ok := discoverer.Step(tokens)
	require.True(t, ok)
	assert.Equal(t, len(tokens)-round.Merges, len(next))
	assert.Equal(t, 8, round.UniqueSeen)

	_, _, ok = discoverer.Step(Tokens{"x"})
	assert.False(t, ok)
}

func TestEvaluate_Ordering(t *testing.T) {
	vocab := Vocabulary{"zeta": 2, "alpha": 3, "beta": 7}
	report := vocab.Evaluate(types.NewTokenSet("alpha", "zeta", "omega"))
	assert.Equal(t, []ReportEntry{{"alpha", 3}, {"zeta", 2}},
		report.Entries)

	var buf bytes.Buffer
	_, err := report.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, "Discovered alpha (count 3)\n"+
		"Discovered zeta (count 2)\n"+
		"Number of Unique Words Discovered: 2\n"+
		"Total Number of Words Discovered: 5\n", buf.String())
}

func TestEvaluate_NoMatches(t *testing.T) {
	report := Evaluate(words("x y z"), types.NewTokenSet())
	assert.Empty(t, report.Entries)

	var buf bytes.Buffer
	_, err := report.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, "Number of Unique Words Discovered: 0\n"+
		"Total Number of Words Discovered: 0\n", buf.String())
}

func TestVocabularyOf(t *testing.T) {
	assert.Equal(t, Vocabulary{"a": 3, "b": 1, "ab": 1},
		VocabularyOf(words("a b a ab a")))
}

func TestSegmenter_SegmentLine(t *testing.T) {
	discovery := newTestDiscoverer(t, 1, 0.5, 10, " ").Discover(
		chars("the cat the cat the cat"))
	table := discovery.Merges()
	require.Len(t, table, 2)
	assert.Equal(t, []string{"at", "ca", "he", "th", "cat", "the"},
		table.Words())

	segmenter, err := NewSegmenter(table, 0)
	require.NoError(t, err)
	assert.Equal(t, Tokens{"the", "cat"}, segmenter.SegmentLine("t h e c a t"))
	assert.Equal(t, Tokens{"the", "cat"}, segmenter.SegmentLine("t h e c a t"))
	assert.Equal(t, 1, segmenter.LruHits)
	assert.Equal(t, 1, segmenter.LruMisses)

	assert.Equal(t, Tokens{"c", "the", "h"},
		segmenter.SegmentLine("c t h e h"))
	assert.Empty(t, segmenter.SegmentLine(""))
}

func TestSegmenter_Evictions(t *testing.T) {
	segmenter, err := NewSegmenter(MergeTable{newWords(Pair{Left: "a", Right: "b"})}, 2)
	require.NoError(t, err)
	for _, line := range []string{"a b", "b a", "a a", "b b"} {
		segmenter.SegmentLine(line)
	}
	assert.Equal(t, 4, segmenter.LruMisses)
	assert.Equal(t, 2, segmenter.LruEvictions)
}

func rankedJoined(ranks PairRanks) []string {
	joined := make([]string, 0, len(ranks))
	for _, pair := range ranksToPairs(ranks) {
		joined = append(joined, pair.Joined())
	}
	return joined
}

func ranksToPairs(ranks PairRanks) []Pair {
	pairs := make([]Pair, 0, len(ranks))
	for _, rank := range ranks {
		pairs = append(pairs, rank.Pair)
	}
	sortPairs(pairs)
	return pairs
}

func filterBoundary(tokens Tokens, boundary string) Tokens {
	kept := make(Tokens, 0, len(tokens))
	for _, token := range tokens {
		if token != boundary {
			kept = append(kept, token)
		}
	}
	return kept
}
