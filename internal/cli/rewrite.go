package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/judell/word-replacer/internal/core/rewriter"
	"github.com/judell/word-replacer/internal/document/htmldoc"
	"github.com/judell/word-replacer/internal/driver"
)

// RewriteOptions holds flags for the rewrite command
type RewriteOptions struct {
	*RootOptions
	HTML   bool
	Report bool
}

// NewRewriteCommand creates the rewrite command
func NewRewriteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RewriteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rewrite [file]",
		Short: "Rewrite a file or stdin to stdout",
		Long: `Rewrite reads text from file, or stdin when no file is given, applies the
configured mappings and writes the result to stdout. With --html the input is
parsed as HTML and only prose text nodes are rewritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRewrite(cmd, opts, args)
		},
	}
	cmd.Flags().BoolVar(&opts.HTML, "html", false, "treat input as HTML")
	cmd.Flags().BoolVar(&opts.Report, "report", false, "print a JSON summary to stderr")
	return cmd
}

func runRewrite(cmd *cobra.Command, opts *RewriteOptions, args []string) error {
	ctx := cmd.Context()
	cfg, err := opts.load(ctx)
	if err != nil {
		return err
	}

	var src []byte
	if len(args) == 1 && args[0] != "-" {
		src, err = os.ReadFile(args[0])
	} else {
		src, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	drv := driver.New(driver.Options{})
	drv.Replace(cfg)

	var summary any
	if opts.HTML {
		doc, err := htmldoc.Parse(bytes.NewReader(src))
		if err != nil {
			return err
		}
		rep := drv.Scan(ctx, doc)
		out, err := doc.Render(htmldoc.IsDocument(string(src)))
		if err != nil {
			return err
		}
		if _, err := io.WriteString(cmd.OutOrStdout(), out); err != nil {
			return err
		}
		summary = rep
	} else {
		res := rewriter.Apply(drv.Matcher(), string(src))
		if _, err := io.WriteString(cmd.OutOrStdout(), res.Text); err != nil {
			return err
		}
		summary = struct {
			Changed      bool `json:"changed"`
			Replacements int  `json:"replacements"`
			Exceptions   int  `json:"exceptions"`
		}{res.Changed, res.Replacements, res.Exceptions}
	}

	if opts.Report {
		enc := json.NewEncoder(cmd.ErrOrStderr())
		return enc.Encode(summary)
	}
	return nil
}
