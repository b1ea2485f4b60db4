package resources

import (
	"bufio"

	"github.com/pkg/errors"
	"github.com/wbrown/wordifier/types"
)

// LoadDictionary
// Reads a whitespace-delimited word list into a deduplicated set.
func LoadDictionary(uri string, auth string) (types.TokenSet, error) {
	rsrc, rsrcErr := Resolve(uri, auth)
	if rsrcErr != nil {
		return nil, rsrcErr
	}
	defer rsrc.Close()

	dictionary := types.NewTokenSet()
	scanner := bufio.NewScanner(rsrc.Reader())
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		dictionary.Add(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "error reading %s", uri)
	}
	return dictionary, nil
}
