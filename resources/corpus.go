package resources

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/wbrown/wordifier/types"
	"github.com/yargevad/filepathx"
)

// CorpusMode selects how a source's bytes become tokens.
type CorpusMode string

const (
	// ModeTokens reads whitespace-delimited tokens, in order.
	ModeTokens CorpusMode = "tokens"
	// ModeText makes every non-space rune a token, and places the boundary
	// marker between sentences and between lines.
	ModeText CorpusMode = "text"
)

func ParseCorpusMode(mode string) (CorpusMode, error) {
	switch CorpusMode(mode) {
	case ModeTokens, ModeText:
		return CorpusMode(mode), nil
	case "":
		return ModeTokens, nil
	default:
		return "", errors.Errorf("unknown corpus mode %q, expected %q or %q",
			mode, ModeTokens, ModeText)
	}
}

type CorpusOptions struct {
	Mode     CorpusMode
	Boundary string
	Auth     string
}

// Corpus is a loaded token sequence and the sources it came from.
type Corpus struct {
	Tokens  types.Tokens
	Sources []string
	Bytes   uint64
}

// GlobCorpus
// Given a directory path, recursively finds all `.txt` files, sorted by path.
func GlobCorpus(dirPath string) ([]string, error) {
	textPaths, err := filepathx.Glob(dirPath + "/**/*.txt")
	if err != nil {
		return nil, &ResourceError{dirPath, err}
	}
	if len(textPaths) == 0 {
		return nil, &ResourceError{dirPath,
			errors.New("directory does not contain any .txt files")}
	}
	sort.Strings(textPaths)
	return textPaths, nil
}

// LoadCorpus
// Reads the source at uri into a token sequence. A directory is read as the
// concatenation of its `.txt` files with the boundary marker between files.
func LoadCorpus(uri string, options CorpusOptions) (*Corpus, error) {
	if options.Mode == "" {
		options.Mode = ModeTokens
	}
	sources := []string{uri}
	if !isValidUrl(uri) {
		if stat, statErr := os.Stat(uri); statErr == nil && stat.IsDir() {
			globbed, globErr := GlobCorpus(uri)
			if globErr != nil {
				return nil, globErr
			}
			sources = globbed
		}
	}

	corpus := &Corpus{Tokens: make(types.Tokens, 0), Sources: sources}
	for _, source := range sources {
		rsrc, rsrcErr := Resolve(source, options.Auth)
		if rsrcErr != nil {
			return nil, rsrcErr
		}
		tokens, readErr := ReadTokens(rsrc.Reader(), options)
		corpus.Bytes += rsrc.Size()
		closeErr := rsrc.Close()
		if readErr != nil {
			return nil, errors.Wrapf(readErr, "error reading %s", source)
		}
		if closeErr != nil {
			return nil, errors.Wrapf(closeErr, "error closing %s", source)
		}
		if len(tokens) == 0 {
			continue
		}
		if len(corpus.Tokens) > 0 && options.Boundary != "" {
			corpus.Tokens = append(corpus.Tokens, options.Boundary)
		}
		corpus.Tokens = append(corpus.Tokens, tokens...)
	}
	return corpus, nil
}

// ReadTokens
// Tokenizes reader according to options.Mode.
func ReadTokens(reader io.Reader, options CorpusOptions) (types.Tokens,
	error) {
	switch options.Mode {
	case ModeText:
		return readTextTokens(reader, options.Boundary)
	case ModeTokens, "":
		return readWordTokens(reader)
	default:
		return nil, errors.Errorf("unknown corpus mode %q", options.Mode)
	}
}

func readWordTokens(reader io.Reader) (types.Tokens, error) {
	tokens := make(types.Tokens, 0)
	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 1024*1024)
	scanner.Buffer(buf, 1024*1024)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		tokens = append(tokens, scanner.Text())
	}
	return tokens, scanner.Err()
}

func readTextTokens(reader io.Reader, boundary string) (types.Tokens,
	error) {
	tokens := make(types.Tokens, 0)
	pendingBoundary := false
	emit := func(r rune) {
		if pendingBoundary && len(tokens) > 0 && boundary != "" {
			tokens = append(tokens, boundary)
		}
		pendingBoundary = false
		tokens = append(tokens, string(r))
	}

	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 1024*1024)
	scanner.Buffer(buf, 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		sentences, err := SplitSentences(line)
		if err != nil {
			return nil, err
		}
		for _, sentence := range sentences {
			for _, r := range sentence {
				if !unicode.IsSpace(r) {
					emit(r)
				}
			}
			pendingBoundary = true
		}
	}
	return tokens, scanner.Err()
}
