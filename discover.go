package wordifier

import (
	"log"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

var ErrInvalidConfig = errors.New("invalid wordifier configuration")

// Config holds the tuning parameters of a discovery run.
type Config struct {
	CountThreshold int     `mapstructure:"count_threshold"`
	ScoreThreshold float64 `mapstructure:"score_threshold"`
	MaxIterations  int     `mapstructure:"max_iterations"`
	Boundary       string  `mapstructure:"boundary"`
}

func DefaultConfig() Config {
	return Config{
		CountThreshold: 2,
		ScoreThreshold: 0.5,
		MaxIterations:  10,
		Boundary:       DEFAULT_BOUNDARY,
	}
}

// Validate
// Checks that the thresholds and iteration cap are in range. Scores are
// capped at 1, so a score threshold above 1 could never be met.
func (config Config) Validate() error {
	if config.CountThreshold < 1 {
		return errors.Wrapf(ErrInvalidConfig,
			"count threshold must be at least 1, got %d",
			config.CountThreshold)
	}
	if !(config.ScoreThreshold > 0 && config.ScoreThreshold <= 1) {
		return errors.Wrapf(ErrInvalidConfig,
			"score threshold must be in (0, 1], got %v",
			config.ScoreThreshold)
	}
	if config.MaxIterations < 1 {
		return errors.Wrapf(ErrInvalidConfig,
			"max iterations must be at least 1, got %d",
			config.MaxIterations)
	}
	if config.Boundary == "" {
		return errors.Wrap(ErrInvalidConfig, "boundary marker is empty")
	}
	return nil
}

// StopReason records why a discovery run ended.
type StopReason uint

const (
	StopMaxIterations StopReason = iota
	StopDegenerate
	StopNoNewWords
	StopNoMerges
)

func (reason StopReason) String() string {
	switch reason {
	case StopMaxIterations:
		return "iteration limit reached"
	case StopDegenerate:
		return "fewer than two tokens"
	case StopNoNewWords:
		return "no pair passed both thresholds"
	case StopNoMerges:
		return "no merges performed"
	default:
		return "unknown"
	}
}

// Round describes one pass of counting, scoring, selecting and merging.
type Round struct {
	Index      int
	NewWords   PairRanks
	Merges     int
	LenBefore  int
	LenAfter   int
	UniqueSeen int
}

// Discovery is the outcome of a run: the final segmentation and the history
// of rounds that produced it.
type Discovery struct {
	Tokens Tokens
	Rounds []Round
	Reason StopReason
}

// Merges returns the merge table learned by the run, one entry per round
// that selected new words.
func (discovery *Discovery) Merges() MergeTable {
	table := make(MergeTable, 0, len(discovery.Rounds))
	for _, round := range discovery.Rounds {
		if len(round.NewWords) == 0 {
			continue
		}
		newWords := make(NewWords, len(round.NewWords))
		for _, rank := range round.NewWords {
			newWords[rank.Pair] = struct{}{}
		}
		table = append(table, newWords)
	}
	return table
}

// Discoverer runs the discovery loop.
type Discoverer struct {
	Config
	Verbose bool
}

func NewDiscoverer(config Config) (*Discoverer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Discoverer{Config: config}, nil
}

// Step
// Runs a single round over tokens. The returned sequence is always a fresh
// slice; tokens is not modified. ok is false when tokens is too short to
// form a pair, in which case tokens is returned as-is.
func (discoverer *Discoverer) Step(tokens Tokens) (next Tokens, round Round,
	ok bool) {
	round.LenBefore = len(tokens)
	counts := CountPairs(tokens)
	pairProbs, unigramProbs, ok := ToProbabilities(counts)
	if !ok {
		round.LenAfter = len(tokens)
		return tokens, round, false
	}
	round.UniqueSeen = len(counts)
	scores := Scorer{discoverer.Boundary}.Score(pairProbs, unigramProbs)
	newWords := SelectNewWords(counts, scores, discoverer.CountThreshold,
		discoverer.ScoreThreshold)
	round.NewWords = rankNewWords(newWords, counts, scores)
	next, round.Merges = Resegment(tokens, newWords)
	round.LenAfter = len(next)
	return next, round, true
}

// Discover
// Repeats Step until a round merges nothing, the sequence degenerates, or
// MaxIterations rounds have run. Each round's output replaces the previous
// sequence; there is no rollback.
func (discoverer *Discoverer) Discover(tokens Tokens) *Discovery {
	discovery := &Discovery{Tokens: tokens, Reason: StopMaxIterations}
	start := time.Now()
	for idx := 1; idx <= discoverer.MaxIterations; idx++ {
		next, round, ok := discoverer.Step(discovery.Tokens)
		if !ok {
			discovery.Reason = StopDegenerate
			break
		}
		round.Index = idx
		discovery.Rounds = append(discovery.Rounds, round)
		discovery.Tokens = next
		if discoverer.Verbose {
			discoverer.logRound(round)
		}
		if len(round.NewWords) == 0 {
			discovery.Reason = StopNoNewWords
			break
		}
		if round.Merges == 0 || round.LenAfter == round.LenBefore {
			discovery.Reason = StopNoMerges
			break
		}
	}
	if discoverer.Verbose {
		elapsed := time.Since(start)
		log.Printf("Discovery finished after %d rounds (%s) in %0.2fs, "+
			"%s tokens remain", len(discovery.Rounds), discovery.Reason,
			elapsed.Seconds(),
			humanize.Comma(int64(len(discovery.Tokens))))
	}
	return discovery
}

func (discoverer *Discoverer) logRound(round Round) {
	log.Printf("Round %d: %s tokens, %s distinct pairs, %d new words, "+
		"%s merges, %s tokens remain", round.Index,
		humanize.Comma(int64(round.LenBefore)),
		humanize.Comma(int64(round.UniqueSeen)), len(round.NewWords),
		humanize.Comma(int64(round.Merges)),
		humanize.Comma(int64(round.LenAfter)))
	for idx, rank := range round.NewWords {
		if idx == 10 {
			log.Printf("  ... and %d more", len(round.NewWords)-idx)
			break
		}
		log.Printf("  %q + %q -> %q (count %d, score %0.4f)",
			rank.Pair.Left, rank.Pair.Right, rank.Pair.Joined(),
			rank.Count, rank.Score)
	}
}
