// Package cli is the word-replacer command line
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/judell/word-replacer/internal/configstore"
	"github.com/judell/word-replacer/internal/core/version"
	"github.com/judell/word-replacer/internal/core/wordmap"
	perr "github.com/judell/word-replacer/internal/platform/errors"
	"github.com/judell/word-replacer/internal/platform/logger"
)

// DefaultConfigPath is used when neither --config nor WORD_REPLACER_CONFIG is set
const DefaultConfigPath = "./word-replacer.json"

// RootOptions holds global flags for all commands
type RootOptions struct {
	Config  string
	Store   string
	Verbose bool
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	bi := version.Info("word-replacer")

	cmd := &cobra.Command{
		Use:   "word-replacer",
		Short: "Whole-word replacement for text and HTML",
		Long: `word-replacer rewrites text using a table of whole-word mappings.
Phrases listed as exceptions are never touched, even when they contain a mapped word.`,
		Version:       bi.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			lo := logger.FromEnv()
			lo.Writer = cmd.ErrOrStderr()
			lo.Level = "warn"
			if opts.Verbose {
				lo.Level = "debug"
			}
			logger.Init(lo)
		},
	}
	cmd.SetVersionTemplate(bi.String() + "\n")

	def := os.Getenv("WORD_REPLACER_CONFIG")
	if def == "" {
		def = DefaultConfigPath
	}
	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", def, "configuration file (JSON, YAML or sqlite database)")
	cmd.PersistentFlags().StringVar(&opts.Store, "store", "file", "store driver (file|sqlite)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging on stderr")

	cmd.AddCommand(NewRewriteCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))
	return cmd
}

// Execute runs the root command and returns the process exit code
func Execute(ctx context.Context) int {
	cmd := NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		cmd.PrintErrln("error:", err)
		return 1
	}
	return 0
}

func (o *RootOptions) open(ctx context.Context) (configstore.Store, error) {
	return configstore.Open(ctx, configstore.Options{Driver: o.Store, Path: o.Config, AppName: "word-replacer"})
}

// load reads the configuration. Unlike the service, a broken file is an error here
func (o *RootOptions) load(ctx context.Context) (*wordmap.Configuration, error) {
	st, err := o.open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = st.Close(ctx) }()
	cfg, err := st.Load(ctx)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeConfigLoad, "load %s", o.Config)
	}
	return cfg, nil
}
