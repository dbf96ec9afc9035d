package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/judell/word-replacer/internal/core/wordmap"
	perr "github.com/judell/word-replacer/internal/platform/errors"
	"github.com/judell/word-replacer/internal/platform/logger"
)

// NewConfigCommand groups the configuration subcommands
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the stored configuration",
	}
	cmd.AddCommand(newConfigShowCommand(rootOpts))
	cmd.AddCommand(newConfigSetCommand(rootOpts))
	return cmd
}

func newConfigShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			b, err := json.MarshalIndent(cfg.Document(), "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}
}

// SetOptions holds flags for config set
type SetOptions struct {
	*RootOptions
	Map      []string
	Unmap    []string
	Except   []string
	Unexcept []string
	Reset    bool
}

func newConfigSetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SetOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Add or remove mappings and exceptions",
		Example: `  word-replacer config set --map "Elon Musk=someone" --except "Musk Foundation"
  word-replacer config set --unmap musk`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigSet(cmd, opts)
		},
	}
	cmd.Flags().StringArrayVarP(&opts.Map, "map", "m", nil, "target=replacement, repeatable")
	cmd.Flags().StringArrayVar(&opts.Unmap, "unmap", nil, "target to remove, repeatable")
	cmd.Flags().StringArrayVarP(&opts.Except, "except", "e", nil, "protected phrase, repeatable")
	cmd.Flags().StringArrayVar(&opts.Unexcept, "unexcept", nil, "protected phrase to remove, repeatable")
	cmd.Flags().BoolVar(&opts.Reset, "reset", false, "start from an empty configuration")
	return cmd
}

func runConfigSet(cmd *cobra.Command, opts *SetOptions) error {
	ctx := cmd.Context()
	st, err := opts.open(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close(ctx) }()

	doc := wordmap.Document{}
	if !opts.Reset {
		cfg, err := st.Load(ctx)
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeConfigLoad, "load %s", opts.Config)
		}
		doc = cfg.Document()
	}

	for _, kv := range opts.Map {
		target, repl, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(target) == "" || strings.TrimSpace(repl) == "" {
			return perr.WithField(perr.InvalidArgf("--map %q: want target=replacement", kv), "map")
		}
		doc.WordMappings = append(doc.WordMappings, wordmap.Entry{Target: target, Replacement: repl})
	}
	doc.WordExceptions = append(doc.WordExceptions, opts.Except...)
	doc.WordMappings = dropTargets(doc.WordMappings, opts.Unmap)
	doc.WordExceptions = dropPhrases(doc.WordExceptions, opts.Unexcept)

	cfg := wordmap.New(doc)
	if err := st.Save(ctx, cfg); err != nil {
		return perr.Wrap(err, perr.ErrorCodeConfigSave, "save configuration")
	}
	logger.Named("cli").Debug().Str("path", opts.Config).Msg("configuration saved")
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "saved %d mappings and %d exceptions to %s\n",
		cfg.Table.Len(), cfg.Exceptions.Len(), opts.Config)
	return err
}

func dropTargets(in wordmap.Mappings, targets []string) wordmap.Mappings {
	if len(targets) == 0 {
		return in
	}
	out := in[:0:0]
	for _, e := range in {
		if !containsFold(targets, e.Target) {
			out = append(out, e)
		}
	}
	return out
}

func dropPhrases(in, phrases []string) []string {
	if len(phrases) == 0 {
		return in
	}
	out := in[:0:0]
	for _, p := range in {
		if !containsFold(phrases, p) {
			out = append(out, p)
		}
	}
	return out
}

func containsFold(list []string, s string) bool {
	s = strings.TrimSpace(s)
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), s) {
			return true
		}
	}
	return false
}
