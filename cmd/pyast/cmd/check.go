package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/malphas-lang/pyast/internal/ast"
	"github.com/malphas-lang/pyast/internal/parser"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Parse the program and report whether it is well formed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts, args)
			if err != nil {
				return err
			}
			defer s.close()

			program, err := parser.New(s.input(), s.parserOptions()...).ParseProgram()
			if err != nil {
				return s.report(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d statements, %d nodes\n", len(program.Stmts), ast.Count(program))
			return nil
		},
	}
}
