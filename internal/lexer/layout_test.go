package lexer

import (
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTypes(t *testing.T, src string, opts ...Option) []TokenType {
	t.Helper()

	toks, err := Tokenize(strings.NewReader(src), opts...)
	require.NoError(t, err)
	return types(toks)
}

func TestLayoutStructure(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []TokenType
	}{
		{
			name: "single statement",
			src:  "x = 1\n",
			want: []TokenType{IDENT, ASSIGN, INT, NEWLINE},
		},
		{
			name: "missing final newline",
			src:  "x = 1",
			want: []TokenType{IDENT, ASSIGN, INT, NEWLINE},
		},
		{
			name: "indent and dedent",
			src:  "if a:\n  b = 1\nc = 2\n",
			want: []TokenType{
				IF, IDENT, COLON, NEWLINE,
				INDENT, IDENT, ASSIGN, INT, NEWLINE,
				DEDENT, IDENT, ASSIGN, INT, NEWLINE,
			},
		},
		{
			name: "dedent several levels at once",
			src:  "if a:\n  if b:\n    c = 1\nd = 2\n",
			want: []TokenType{
				IF, IDENT, COLON, NEWLINE,
				INDENT, IF, IDENT, COLON, NEWLINE,
				INDENT, IDENT, ASSIGN, INT, NEWLINE,
				DEDENT, DEDENT, IDENT, ASSIGN, INT, NEWLINE,
			},
		},
		{
			name: "open levels close at end of input",
			src:  "while a:\n  while b:\n    break",
			want: []TokenType{
				WHILE, IDENT, COLON, NEWLINE,
				INDENT, WHILE, IDENT, COLON, NEWLINE,
				INDENT, BREAK, NEWLINE,
				DEDENT, DEDENT,
			},
		},
		{
			name: "blank lines are skipped",
			src:  "\nx = 1\n\n   \n\t\ny = 2\n\n",
			want: []TokenType{IDENT, ASSIGN, INT, NEWLINE, IDENT, ASSIGN, INT, NEWLINE},
		},
		{
			name: "comment lines emit no newline",
			src:  "# leading\nx = 1 # trailing\n# closing\n",
			want: []TokenType{IDENT, ASSIGN, INT, NEWLINE},
		},
		{
			name: "comment line takes part in indentation",
			src:  "if a:\n  b = 1\n# note\n  c = 2\n",
			want: []TokenType{
				IF, IDENT, COLON, NEWLINE,
				INDENT, IDENT, ASSIGN, INT, NEWLINE,
				DEDENT,
				INDENT, IDENT, ASSIGN, INT, NEWLINE,
				DEDENT,
			},
		},
		{
			name: "empty input",
			src:  "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenTypes(t, tt.src))
		})
	}
}

func TestLayoutIgnoresCommentLines(t *testing.T) {
	got := tokenTypes(t, "if a:\n  b = 1\n# note\n      # deeper\n  c = 2\n", WithCommentLinesIgnored())

	want := []TokenType{
		IF, IDENT, COLON, NEWLINE,
		INDENT, IDENT, ASSIGN, INT, NEWLINE,
		IDENT, ASSIGN, INT, NEWLINE,
		DEDENT,
	}
	assert.Equal(t, want, got)
}

func TestLayoutIndentDedentBalance(t *testing.T) {
	programs := []string{
		"if a:\n  b = 1\n",
		"if a:\n  if b:\n    if c:\n      d = 1\n  e = 2\n",
		"while a:\n    x = 1\n    if b:\n        break\n    y = 2\nz = 3",
	}

	for _, src := range programs {
		toks, err := Tokenize(strings.NewReader(src))
		require.NoError(t, err)

		depth := 0
		for _, tok := range toks {
			switch tok.Type {
			case INDENT:
				depth++
			case DEDENT:
				depth--
			}
			require.GreaterOrEqual(t, depth, 0, "dedent below zero in %q", src)
		}
		assert.Zero(t, depth, "unbalanced indentation in %q", src)
	}
}

func TestLayoutConcatenation(t *testing.T) {
	a := "if a:\n  b = 1\n"
	b := "while c:\n    break\nd = 2\n"

	joined := tokenTypes(t, a+b)
	separate := append(tokenTypes(t, a), tokenTypes(t, b)...)
	assert.Equal(t, separate, joined)
}

func TestLayoutTabWidth(t *testing.T) {
	const src = "if a:\n\tb = 1\n        c = 2\n"

	assert.Equal(t, []TokenType{
		IF, IDENT, COLON, NEWLINE,
		INDENT, IDENT, ASSIGN, INT, NEWLINE,
		INDENT, IDENT, ASSIGN, INT, NEWLINE,
		DEDENT, DEDENT,
	}, tokenTypes(t, src))

	assert.Equal(t, []TokenType{
		IF, IDENT, COLON, NEWLINE,
		INDENT, IDENT, ASSIGN, INT, NEWLINE,
		IDENT, ASSIGN, INT, NEWLINE,
		DEDENT,
	}, tokenTypes(t, src, WithTabWidth(8)))
}

func TestLayoutTabStops(t *testing.T) {
	l := NewLayout(strings.NewReader(""), WithTabWidth(4))

	width, n := l.measure("  \tx")
	assert.Equal(t, 4, width)
	assert.Equal(t, 3, n)

	width, n = l.measure("\t\t x")
	assert.Equal(t, 9, width)
	assert.Equal(t, 3, n)
}

func TestLayoutInconsistentDedent(t *testing.T) {
	toks, err := Tokenize(strings.NewReader("if a:\n    b = 1\n  c = 2\n"))
	require.Error(t, err)

	var lexErr *LexerError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, ErrIndentation, lexErr.Kind)
	assert.Equal(t, 3, lexErr.Span.Line)
	assert.Equal(t, 1, lexErr.Span.Column)
	assert.Contains(t, lexErr.Error(), "3:1: indentation error")

	// Tokens of the lines before the failing one are still delivered.
	assert.Equal(t, []TokenType{
		IF, IDENT, COLON, NEWLINE,
		INDENT, IDENT, ASSIGN, INT, NEWLINE,
	}, types(toks))
}

func TestLayoutNULByte(t *testing.T) {
	for _, src := range []string{"x = 1\x00 $ junk\n", "\x00\n"} {
		toks, err := Tokenize(strings.NewReader(src))
		require.Error(t, err, "%q", src)

		var lexErr *LexerError
		require.ErrorAs(t, err, &lexErr)
		assert.Equal(t, ErrIllegalRune, lexErr.Kind)
		assert.Equal(t, "\x00", lexErr.Text)
		assert.NotContains(t, types(toks), NEWLINE, "line with NUL must not be completed")
	}
}

func TestLayoutErrorsAreSticky(t *testing.T) {
	l := NewLayout(strings.NewReader("x = 1 $\ny = 2\n"))

	tok, err := l.Next()
	require.Error(t, err)
	assert.Equal(t, ILLEGAL, tok.Type)
	assert.Equal(t, "$", tok.Raw)

	for range 3 {
		tok, again := l.Next()
		assert.Same(t, err, again)
		assert.Equal(t, ILLEGAL, tok.Type)
	}
}

func TestLayoutEOFRepeats(t *testing.T) {
	l := NewLayout(strings.NewReader("x = 1\n"))
	for range 4 {
		_, err := l.Next()
		require.NoError(t, err)
	}

	for range 3 {
		tok, err := l.Next()
		require.NoError(t, err)
		assert.Equal(t, EOF, tok.Type)
	}
}

func TestLayoutReadFailure(t *testing.T) {
	boom := errors.New("disk on fire")
	r := io.MultiReader(strings.NewReader("x = 1\n"), iotest.ErrReader(boom))

	toks, err := Tokenize(r)
	require.Error(t, err)
	assert.Equal(t, []TokenType{IDENT, ASSIGN, INT, NEWLINE}, types(toks))

	var lexErr *LexerError
	require.ErrorAs(t, err, &lexErr)
	assert.True(t, lexErr.IsReadFailure())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "line 2")
}

func TestLayoutSpans(t *testing.T) {
	toks, err := Tokenize(strings.NewReader("if a:\n  b = 1\n"), WithFilename("prog.py"))
	require.NoError(t, err)
	require.Len(t, toks, 10)

	for _, tok := range toks {
		assert.Equal(t, "prog.py", tok.Span.Filename)
	}

	// NEWLINE sits just past the line's content.
	assert.Equal(t, Span{Filename: "prog.py", Line: 1, Column: 6, Start: 5, End: 5}, toks[3].Span)

	// INDENT covers the leading whitespace.
	assert.Equal(t, Span{Filename: "prog.py", Line: 2, Column: 1, Start: 6, End: 8}, toks[4].Span)

	// b starts after the indentation.
	assert.Equal(t, Span{Filename: "prog.py", Line: 2, Column: 3, Start: 8, End: 9}, toks[5].Span)

	// The closing DEDENT is positioned at end of input.
	assert.Equal(t, DEDENT, toks[9].Type)
	assert.Equal(t, Span{Filename: "prog.py", Line: 3, Column: 1, Start: 14, End: 14}, toks[9].Span)
}

func TestLayoutDepth(t *testing.T) {
	l := NewLayout(strings.NewReader("if a:\n  if b:\n    c = 1\n"))

	maxDepth := 0
	for _, err := range l.All() {
		require.NoError(t, err)
		maxDepth = max(maxDepth, l.Depth())
	}
	assert.Equal(t, 2, maxDepth)
	assert.Zero(t, l.Depth())
}
