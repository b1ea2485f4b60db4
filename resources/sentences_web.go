//go:build js || wasip1

package resources

import "strings"

// SplitSentences treats the whole line as one sentence; the sentence model is
// not available on this platform.
func SplitSentences(text string) ([]string, error) {
	if trimmed := strings.TrimSpace(text); trimmed != "" {
		return []string{trimmed}, nil
	}
	return nil, nil
}
