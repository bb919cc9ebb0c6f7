package cmd

import (
	"bytes"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/malphas-lang/pyast/internal/config"
	"github.com/malphas-lang/pyast/internal/diag"
	"github.com/malphas-lang/pyast/internal/lexer"
	"github.com/malphas-lang/pyast/internal/logging"
	"github.com/malphas-lang/pyast/internal/parser"
)

// session is the state shared by every command for one invocation: the
// resolved configuration, the logger and the program input.
type session struct {
	cmd    *cobra.Command
	cfg    *config.Config
	logger *slog.Logger

	filename string
	src      io.Reader
	closer   io.Closer
	seen     bytes.Buffer // everything read from src so far
}

func newSession(cmd *cobra.Command, opts *rootOptions, args []string) (*session, error) {
	cfg, err := config.Resolve(opts.cfgFile)
	if err != nil {
		return nil, err
	}

	s := &session{
		cmd:    cmd,
		cfg:    cfg,
		logger: logging.New(cmd.ErrOrStderr(), cfg.Log.Level, opts.verbose),
		src:    cmd.InOrStdin(),
	}

	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, errors.Wrap(err, "opening program")
		}
		s.filename = args[0]
		s.src = f
		s.closer = f
	}

	s.logger.Debug("configuration loaded",
		"tab_width", cfg.Layout.TabWidth,
		"ignore_comment_indentation", cfg.Layout.IgnoreCommentIndentation,
		"color", cfg.Output.Color,
	)
	return s, nil
}

// input returns the program reader. Everything read through it is kept so
// diagnostics can quote the source.
func (s *session) input() io.Reader {
	return io.TeeReader(s.src, &s.seen)
}

func (s *session) close() {
	if s.closer != nil {
		s.closer.Close()
	}
}

func (s *session) layoutOptions() []lexer.Option {
	opts := []lexer.Option{
		lexer.WithTabWidth(s.cfg.Layout.TabWidth),
		lexer.WithLogger(s.logger),
	}
	if s.cfg.Layout.IgnoreCommentIndentation {
		opts = append(opts, lexer.WithCommentLinesIgnored())
	}
	if s.filename != "" {
		opts = append(opts, lexer.WithFilename(s.filename))
	}
	return opts
}

func (s *session) parserOptions() []parser.Option {
	return []parser.Option{
		parser.WithFilename(s.filename),
		parser.WithLogger(s.logger),
		parser.WithLayoutOptions(s.layoutOptions()...),
	}
}

// report writes err as a diagnostic to stderr and returns errReported.
func (s *session) report(err error) error {
	var lexErr *lexer.LexerError
	if !errors.As(err, &lexErr) || !lexErr.IsReadFailure() {
		// Pull in the rest of the input so the snippet has trailing context.
		_, _ = io.Copy(io.Discard, s.input())
	}

	f := diag.NewFormatter(s.cmd.ErrOrStderr(), diag.ColorMode(s.cfg.Output.Color))
	f.AddSource(s.filename, s.seen.String())
	f.Format(diag.FromError(err))

	s.logger.Debug("parse failed", "error", err)
	return errReported
}
