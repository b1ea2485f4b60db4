package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wbrown/wordifier"
	"github.com/wbrown/wordifier/resources"
)

// Exit statuses. A source that cannot be opened has its own status so that
// callers can tell it apart from a bad invocation.
const (
	ExitOK                  = 0
	ExitResourceUnavailable = 1
	ExitUsage               = 2
	ExitFailure             = 3
)

// Options is everything a command reads from flags, environment and the
// optional config file.
type Options struct {
	wordifier.Config `mapstructure:",squash"`
	Corpus           string `mapstructure:"corpus"`
	Dictionary       string `mapstructure:"dictionary"`
	Mode             string `mapstructure:"mode"`
	Auth             string `mapstructure:"auth"`
	Verbose          bool   `mapstructure:"verbose"`
	CacheSize        int    `mapstructure:"cache_size"`
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	defaults := wordifier.DefaultConfig()
	rootCmd := &cobra.Command{
		Use:   "wordifier",
		Short: "discover words in a token-segmented corpus",
		Long: "wordifier repeatedly merges strongly associated adjacent " +
			"tokens of a corpus into single tokens, then reports how many " +
			"of the resulting tokens are dictionary words.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cmd)
		},
	}
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.Wrap(wordifier.ErrInvalidConfig, err.Error())
	})

	flags := rootCmd.PersistentFlags()
	flags.String("config", "",
		"config file (yaml, json or toml) supplying any of the flags below")
	flags.StringP("corpus", "c", "", "corpus file, directory or URL")
	flags.String("mode", string(resources.ModeTokens),
		"corpus mode [tokens, text]")
	flags.Int("count_threshold", defaults.CountThreshold,
		"minimum occurrences for a pair to become a word")
	flags.Float64("score_threshold", defaults.ScoreThreshold,
		"minimum association score, in (0, 1], for a pair to become a word")
	flags.Int("max_iterations", defaults.MaxIterations,
		"maximum number of discovery rounds")
	flags.String("boundary", defaults.Boundary,
		"boundary marker token that is never merged")
	flags.String("auth", "", "bearer token for http(s) sources")
	flags.BoolP("verbose", "v", false, "log every discovery round")

	rootCmd.AddCommand(newDiscoverCmd(v), newSegmentCmd(v))
	return rootCmd
}

// initConfig layers flags over WORDIFIER_* environment variables over the
// config file over defaults.
func initConfig(v *viper.Viper, cmd *cobra.Command) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	v.SetEnvPrefix("wordifier")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return &resources.ResourceError{Name: configFile, Err: err}
		}
	}
	return nil
}

func loadOptions(v *viper.Viper) (*Options, error) {
	var options Options
	if err := v.Unmarshal(&options); err != nil {
		return nil, errors.Wrap(wordifier.ErrInvalidConfig, err.Error())
	}
	if err := options.Validate(); err != nil {
		return nil, err
	}
	if options.Corpus == "" {
		return nil, errors.Wrap(wordifier.ErrInvalidConfig,
			"a corpus is required (--corpus)")
	}
	if _, err := resources.ParseCorpusMode(options.Mode); err != nil {
		return nil, errors.Wrap(wordifier.ErrInvalidConfig, err.Error())
	}
	return &options, nil
}

func discover(options *Options) (*wordifier.Discovery, error) {
	mode, _ := resources.ParseCorpusMode(options.Mode)
	corpus, err := resources.LoadCorpus(options.Corpus,
		resources.CorpusOptions{
			Mode:     mode,
			Boundary: options.Boundary,
			Auth:     options.Auth,
		})
	if err != nil {
		return nil, err
	}
	logCorpus(options, corpus)
	discoverer, err := wordifier.NewDiscoverer(options.Config)
	if err != nil {
		return nil, err
	}
	discoverer.Verbose = options.Verbose
	return discoverer.Discover(corpus.Tokens), nil
}

// exitCode maps an error returned by a command to the process exit status,
// printing the message the status stands for.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return ExitOK
	}
	if name, ok := resources.IsResourceUnavailable(err); ok {
		fmt.Fprintf(stderr, "Error: Unable to open file %s\n", name)
		return ExitResourceUnavailable
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	if errors.Is(err, wordifier.ErrInvalidConfig) {
		return ExitUsage
	}
	return ExitFailure
}

func main() {
	log.SetFlags(log.LstdFlags)
	os.Exit(exitCode(newRootCmd().Execute(), os.Stderr))
}
