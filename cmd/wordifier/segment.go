package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wbrown/wordifier"
	"github.com/wbrown/wordifier/resources"
)

// The segment command learns merges from a corpus, then replays them over
// each line of its input, printing the tokens separated by `|`.
func newSegmentCmd(v *viper.Viper) *cobra.Command {
	segmentCmd := &cobra.Command{
		Use:   "segment [input]",
		Short: "segment lines of input with the words learned from a corpus",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := loadOptions(v)
			if err != nil {
				return err
			}
			input := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				handle, openErr := os.Open(args[0])
				if openErr != nil {
					return &resources.ResourceError{Name: args[0],
						Err: openErr}
				}
				defer handle.Close()
				input = handle
			}
			discovery, err := discover(options)
			if err != nil {
				return err
			}
			segmenter, err := wordifier.NewSegmenter(discovery.Merges(),
				options.CacheSize)
			if err != nil {
				return err
			}
			if err := segmentLines(segmenter, input,
				cmd.OutOrStdout()); err != nil {
				return err
			}
			if options.Verbose {
				log.Printf("Segment cache: %d hits, %d misses, %d evictions",
					segmenter.LruHits, segmenter.LruMisses,
					segmenter.LruEvictions)
			}
			return nil
		},
	}
	segmentCmd.Flags().Int("cache_size", wordifier.SEGMENT_LRU_SZ,
		"number of segmented lines to cache")
	return segmentCmd
}

func segmentLines(segmenter *wordifier.Segmenter, input io.Reader,
	output io.Writer) error {
	writer := bufio.NewWriter(output)
	scanner := bufio.NewScanner(input)
	buf := make([]byte, 1024*1024)
	scanner.Buffer(buf, 1024*1024)
	for scanner.Scan() {
		tokens := segmenter.SegmentLine(scanner.Text())
		for _, token := range tokens {
			fmt.Fprintf(writer, "|%s", token)
		}
		if _, err := fmt.Fprintln(writer); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "error reading input")
	}
	return writer.Flush()
}
