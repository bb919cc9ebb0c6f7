package lexer

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Option configures a Layout.
type Option func(*Layout)

// WithTabWidth sets the column a tab advances to: the next multiple of n.
// The default of 1 counts a tab as a single column.
func WithTabWidth(n int) Option {
	return func(l *Layout) {
		if n > 0 {
			l.tabWidth = n
		}
	}
}

// WithCommentLinesIgnored makes comment-only lines behave like blank lines,
// so their indentation never reaches the indentation stack.
func WithCommentLinesIgnored() Option {
	return func(l *Layout) {
		l.ignoreCommentLines = true
	}
}

// WithFilename attributes every emitted span to the given filename.
func WithFilename(name string) Option {
	return func(l *Layout) {
		l.filename = name
	}
}

// WithLogger routes indentation tracing to logger at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Layout) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Layout is the indentation-aware tokenizer. It reads its input one line at
// a time, reconciles each line's leading whitespace against a stack of open
// block widths, and interleaves INDENT, DEDENT and NEWLINE tokens with the
// lexical tokens produced by a Scanner for the rest of the line.
//
// Invariants:
//   - indents[0] == 0 and indents is strictly increasing.
//   - queue only ever holds tokens of lines that have been read completely;
//     Next drains it before reading another line.
//   - every INDENT is eventually balanced by a DEDENT, at the latest when the
//     input ends.
//   - errors are sticky: after the first one, Next keeps returning it.
type Layout struct {
	r       *bufio.Reader
	indents []int
	queue   []Token

	line       int  // number of physical lines read
	offset     int  // bytes consumed so far
	lastColumn int  // column just past the last line's content
	atBOL      bool // last line read ended with a terminator
	eof        bool
	err        error

	tabWidth           int
	ignoreCommentLines bool
	filename           string
	logger             *slog.Logger
}

// NewLayout creates a tokenizer reading from r.
func NewLayout(r io.Reader, opts ...Option) *Layout {
	l := &Layout{
		r:        bufio.NewReader(r),
		indents:  []int{0},
		atBOL:    true,
		tabWidth: 1,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Depth returns the number of currently open indentation levels.
func (l *Layout) Depth() int {
	return len(l.indents) - 1
}

// Next returns the next token of the stream. It reads as many lines as it
// takes to have something to return. After the input is exhausted and all
// open levels are closed it returns EOF on every call.
func (l *Layout) Next() (Token, error) {
	for len(l.queue) == 0 {
		if l.err != nil {
			return l.illegal(), l.err
		}
		if l.eof {
			return Token{Type: EOF, Span: l.endSpan()}, nil
		}
		if err := l.readLine(); err != nil {
			l.err = err
			return l.illegal(), err
		}
	}

	tok := l.queue[0]
	l.queue = l.queue[1:]
	return tok, nil
}

// All returns the remaining tokens as a lazy sequence that stops before EOF
// or after yielding the first error. Like the Layout itself it cannot be
// restarted.
func (l *Layout) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := l.Next()
			if err != nil {
				yield(tok, err)
				return
			}
			if tok.Type == EOF {
				return
			}
			if !yield(tok, nil) {
				return
			}
		}
	}
}

// Tokenize runs a Layout over r and collects every token before EOF.
func Tokenize(r io.Reader, opts ...Option) ([]Token, error) {
	var toks []Token
	for tok, err := range NewLayout(r, opts...).All() {
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
	}
	return toks, nil
}

func (l *Layout) illegal() Token {
	tok := Token{Type: ILLEGAL}
	var lexErr *LexerError
	if errors.As(l.err, &lexErr) {
		tok.Raw = lexErr.Text
		tok.Span = lexErr.Span
	}
	return tok
}

// endSpan is the zero-width position just past the last byte read.
func (l *Layout) endSpan() Span {
	if l.atBOL {
		return Span{Filename: l.filename, Line: l.line + 1, Column: 1, Start: l.offset, End: l.offset}
	}
	return Span{Filename: l.filename, Line: l.line, Column: l.lastColumn, Start: l.offset, End: l.offset}
}

// readLine consumes one physical line and queues its tokens.
func (l *Layout) readLine() error {
	text, readErr := l.r.ReadString('\n')
	if readErr != nil && readErr != io.EOF {
		return &LexerError{
			Kind:    ErrRead,
			Message: fmt.Sprintf("read failure on line %d: %v", l.line+1, readErr),
			Cause:   errors.Wrapf(readErr, "reading line %d", l.line+1),
		}
	}
	if text == "" {
		l.finish()
		return nil
	}

	l.line++
	lineStart := l.offset
	l.offset += len(text)
	l.atBOL = strings.HasSuffix(text, "\n")
	content := strings.TrimRight(text, "\r\n")
	l.lastColumn = utf8.RuneCountInString(content) + 1

	if err := l.scanLine(content, lineStart); err != nil {
		return err
	}

	if readErr == io.EOF {
		l.finish()
	}
	return nil
}

func (l *Layout) scanLine(content string, lineStart int) error {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	width, indentBytes := l.measure(content)
	rest := content[indentBytes:]

	if l.ignoreCommentLines && strings.HasPrefix(strings.TrimLeft(rest, " \t\f\v\r"), "#") {
		return nil
	}

	var toks []Token
	lineSpan := Span{Filename: l.filename, Line: l.line, Column: 1, Start: lineStart, End: lineStart}

	top := l.indents[len(l.indents)-1]
	switch {
	case width > top:
		l.indents = append(l.indents, width)
		span := lineSpan
		span.End = lineStart + indentBytes
		toks = append(toks, Token{Type: INDENT, Span: span})
		l.logger.Debug("indent", "line", l.line, "width", width, "depth", l.Depth())
	case width < top:
		for l.indents[len(l.indents)-1] > width {
			l.indents = l.indents[:len(l.indents)-1]
			toks = append(toks, Token{Type: DEDENT, Span: lineSpan})
		}
		if l.indents[len(l.indents)-1] != width {
			span := lineSpan
			span.End = lineStart + indentBytes
			return &LexerError{
				Kind:    ErrIndentation,
				Message: fmt.Sprintf("indentation error: unindent to width %d does not match any outer indentation level", width),
				Text:    content[:indentBytes],
				Span:    span,
			}
		}
		l.logger.Debug("dedent", "line", l.line, "width", width, "depth", l.Depth())
	}

	sc := NewScanner(rest,
		AtPosition(l.line, utf8.RuneCountInString(content[:indentBytes])+1, lineStart+indentBytes),
		InFile(l.filename),
	)
	lexical := 0
	for {
		tok, err := sc.Next()
		if err != nil {
			return err
		}
		if tok.Type == EOF {
			break
		}
		toks = append(toks, tok)
		lexical++
	}

	if lexical > 0 {
		end := lineStart + len(content)
		toks = append(toks, Token{
			Type: NEWLINE,
			Span: Span{Filename: l.filename, Line: l.line, Column: l.lastColumn, Start: end, End: end},
		})
	}

	l.queue = append(l.queue, toks...)
	return nil
}

// measure returns the indentation width of line and the number of bytes of
// leading whitespace.
func (l *Layout) measure(line string) (width, n int) {
	for n < len(line) {
		switch line[n] {
		case ' ':
			width++
		case '\t':
			width += l.tabWidth - width%l.tabWidth
		default:
			return width, n
		}
		n++
	}
	return width, n
}

// finish closes every open indentation level and marks the stream done.
func (l *Layout) finish() {
	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.queue = append(l.queue, Token{Type: DEDENT, Span: l.endSpan()})
	}
	l.eof = true
}
