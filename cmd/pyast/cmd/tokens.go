package cmd

import (
	"bufio"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/malphas-lang/pyast/internal/lexer"
)

func newTokensCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream, one token per line",
		Long: `tokens runs only the tokenizer and prints every token it produces,
including the NEWLINE, INDENT and DEDENT tokens derived from the layout,
prefixed with its line and column.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, opts, args)
		},
	}
}

func runTokens(cmd *cobra.Command, opts *rootOptions, args []string) error {
	s, err := newSession(cmd, opts, args)
	if err != nil {
		return err
	}
	defer s.close()

	out := bufio.NewWriter(cmd.OutOrStdout())
	layout := lexer.NewLayout(s.input(), s.layoutOptions()...)

	count, structural := 0, 0
	for tok, err := range layout.All() {
		if err != nil {
			if flushErr := out.Flush(); flushErr != nil {
				return errors.Wrap(flushErr, "writing tokens")
			}
			return s.report(err)
		}
		fmt.Fprintf(out, "%d:%d\t%s\n", tok.Span.Line, tok.Span.Column, tok)
		count++
		if tok.Type.IsStructural() {
			structural++
		}
	}

	s.logger.Debug("tokenized", "tokens", count, "structural", structural)
	return errors.Wrap(out.Flush(), "writing tokens")
}
