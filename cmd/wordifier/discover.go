package main

import (
	"log"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wbrown/wordifier"
	"github.com/wbrown/wordifier/resources"
)

func newDiscoverCmd(v *viper.Viper) *cobra.Command {
	discoverCmd := &cobra.Command{
		Use:   "discover",
		Short: "discover words in a corpus and score them against a dictionary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := loadOptions(v)
			if err != nil {
				return err
			}
			if options.Dictionary == "" {
				return errors.Wrap(wordifier.ErrInvalidConfig,
					"a dictionary is required (--dictionary)")
			}
			// Both sources are opened before any discovery work is done.
			dictionary, err := resources.LoadDictionary(options.Dictionary,
				options.Auth)
			if err != nil {
				return err
			}
			if options.Verbose {
				log.Printf("Dictionary %s: %s words", options.Dictionary,
					humanize.Comma(int64(len(dictionary))))
			}
			discovery, err := discover(options)
			if err != nil {
				return err
			}
			report := wordifier.Evaluate(discovery.Tokens, dictionary)
			_, err = report.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
	discoverCmd.Flags().StringP("dictionary", "d", "",
		"reference word list file or URL")
	return discoverCmd
}

func logCorpus(options *Options, corpus *resources.Corpus) {
	if !options.Verbose {
		return
	}
	log.Printf("Corpus %s: %d source(s), %s, %s tokens", options.Corpus,
		len(corpus.Sources), humanize.Bytes(corpus.Bytes),
		humanize.Comma(int64(len(corpus.Tokens))))
}
