package wordifier

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/wbrown/wordifier/types"
)

// Dictionary is the set of reference words discovered tokens are scored
// against.
type Dictionary = types.TokenSet

// Vocabulary maps each token to its number of occurrences.
type Vocabulary map[string]int

func VocabularyOf(tokens Tokens) Vocabulary {
	vocab := make(Vocabulary)
	for _, token := range tokens {
		vocab[token]++
	}
	return vocab
}

type ReportEntry struct {
	Token string
	Count int
}

// Report lists the vocabulary entries found in the dictionary, in ascending
// token order.
type Report struct {
	Entries []ReportEntry
	Unique  int
	Total   int
}

// Evaluate
// Tallies the final tokens and reports which of them are dictionary words.
// Total weights each discovered word by its number of occurrences.
func Evaluate(tokens Tokens, dictionary Dictionary) *Report {
	return VocabularyOf(tokens).Evaluate(dictionary)
}

func (vocab Vocabulary) Evaluate(dictionary Dictionary) *Report {
	report := &Report{Entries: make([]ReportEntry, 0)}
	for token, count := range vocab {
		if dictionary.Contains(token) {
			report.Entries = append(report.Entries, ReportEntry{token, count})
			report.Unique++
			report.Total += count
		}
	}
	sort.Slice(report.Entries, func(i, j int) bool {
		return report.Entries[i].Token < report.Entries[j].Token
	})
	return report
}

// WriteTo renders the report, one line per discovered word followed by the
// unique and weighted totals.
func (report *Report) WriteTo(w io.Writer) (int64, error) {
	writer := bufio.NewWriter(w)
	var written int64
	for _, entry := range report.Entries {
		n, err := fmt.Fprintf(writer, "Discovered %s (count %d)\n",
			entry.Token, entry.Count)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	n, err := fmt.Fprintf(writer,
		"Number of Unique Words Discovered: %d\n"+
			"Total Number of Words Discovered: %d\n",
		report.Unique, report.Total)
	written += int64(n)
	if err != nil {
		return written, err
	}
	return written, writer.Flush()
}
