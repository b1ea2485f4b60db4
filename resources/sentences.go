//go:build !wasip1 && !js

package resources

import (
	"strings"

	"github.com/jdkato/prose/v2"
	"github.com/pkg/errors"
)

// SplitSentences splits a run of text into sentences. Text without any
// sentence break comes back as a single sentence.
func SplitSentences(text string) ([]string, error) {
	doc, err := prose.NewDocument(
		text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
		prose.WithTokenization(false),
	)
	if err != nil {
		return nil, errors.Wrap(err, "cannot split sentences")
	}
	sentences := make([]string, 0)
	for _, sentence := range doc.Sentences() {
		if trimmed := strings.TrimSpace(sentence.Text); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	if len(sentences) == 0 && strings.TrimSpace(text) != "" {
		sentences = append(sentences, strings.TrimSpace(text))
	}
	return sentences, nil
}
