package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/malphas-lang/pyast/internal/dot"
	"github.com/malphas-lang/pyast/internal/parser"
)

// errReported marks a failure whose diagnostic has already been written.
var errReported = errors.New("failure already reported")

type rootOptions struct {
	cfgFile string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "pyast [file]",
		Short: "Parse an indentation-structured program and print its syntax tree",
		Long: `pyast reads a program written in a small Python-like language, parses it
and writes the syntax tree as a Graphviz digraph to stdout.

Without a file argument the program is read from stdin. On failure nothing
is written to stdout, a diagnostic is written to stderr and the exit status
is 1.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, opts, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default: $PYAST_CONFIG or ./pyast.toml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log tokenizer and parser activity to stderr")

	rootCmd.AddCommand(newTokensCmd(opts))
	rootCmd.AddCommand(newCheckCmd(opts))

	return rootCmd
}

// Execute runs the command line against the process's arguments and
// standard streams.
func Execute() error {
	rootCmd := newRootCmd()
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		printError(rootCmd, err)
	}
	return err
}

func printError(cmd *cobra.Command, err error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
}

func runGraph(cmd *cobra.Command, opts *rootOptions, args []string) error {
	s, err := newSession(cmd, opts, args)
	if err != nil {
		return err
	}
	defer s.close()

	program, err := parser.New(s.input(), s.parserOptions()...).ParseProgram()
	if err != nil {
		return s.report(err)
	}

	s.logger.Debug("rendering graph", "graph", s.cfg.Output.GraphName)
	if err := dot.Render(cmd.OutOrStdout(), program, dot.WithGraphName(s.cfg.Output.GraphName)); err != nil {
		return errors.Wrap(err, "writing graph")
	}
	return nil
}
