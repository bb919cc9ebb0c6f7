package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Scanner turns the text of a single line into lexical tokens. It knows
// nothing about indentation; Layout feeds it the part of each line that
// follows the leading whitespace.
type Scanner struct {
	input  string
	pos    int  // byte index of the current rune
	ch     rune // current rune (0 past the end of the line)
	width  int  // byte width of ch
	line   int  // 1-based line number
	column int  // 1-based column of ch
	base   int  // byte offset of input[0] within the whole source

	filename string
	prev     TokenType // type of the last token produced
	err      *LexerError
}

// ScannerOption positions a Scanner inside a larger source.
type ScannerOption func(*Scanner)

// AtPosition tells the scanner where its input starts in the enclosing
// source so spans refer to the whole input.
func AtPosition(line, column, offset int) ScannerOption {
	return func(s *Scanner) {
		s.line = line
		s.column = column
		s.base = offset
	}
}

// InFile attributes every span to the given filename.
func InFile(name string) ScannerOption {
	return func(s *Scanner) {
		s.filename = name
	}
}

// NewScanner creates a scanner over one line of text. A trailing line
// terminator, if present, is ignored.
func NewScanner(line string, opts ...ScannerOption) *Scanner {
	line = strings.TrimRight(line, "\r\n")
	s := &Scanner{
		input:  line,
		pos:    0,
		line:   1,
		column: 1,
		prev:   NEWLINE,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.decode()
	return s
}

// decode loads the rune at pos into ch.
func (s *Scanner) decode() {
	if s.pos >= len(s.input) {
		s.ch = 0
		s.width = 0
		return
	}
	s.ch, s.width = utf8.DecodeRuneInString(s.input[s.pos:])
}

// atEnd reports whether the whole line has been consumed. A NUL byte in
// the input is a rune like any other.
func (s *Scanner) atEnd() bool {
	return s.pos >= len(s.input)
}

// read advances to the next rune.
func (s *Scanner) read() {
	if s.atEnd() {
		return
	}
	s.pos += s.width
	s.column++
	s.decode()
}

func (s *Scanner) peek() rune {
	return s.peekAt(1)
}

// peekAt returns the rune n positions after the current one without
// advancing.
func (s *Scanner) peekAt(n int) rune {
	next := s.pos + s.width
	for ; n > 1; n-- {
		if next >= len(s.input) {
			return 0
		}
		_, w := utf8.DecodeRuneInString(s.input[next:])
		next += w
	}
	if next >= len(s.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.input[next:])
	return r
}

func (s *Scanner) span(startCol, startPos int) Span {
	return Span{
		Filename: s.filename,
		Line:     s.line,
		Column:   startCol,
		Start:    s.base + startPos,
		End:      s.base + s.pos,
	}
}

func (s *Scanner) fail(kind LexerErrorKind, msg string, tok Token) (Token, error) {
	s.err = &LexerError{
		Kind:    kind,
		Message: msg,
		Text:    tok.Raw,
		Span:    tok.Span,
	}
	tok.Type = ILLEGAL
	return tok, s.err
}

func (s *Scanner) skipWhitespace() {
	for s.ch == ' ' || s.ch == '\t' || s.ch == '\r' || s.ch == '\f' || s.ch == '\v' {
		s.read()
	}
}

// Next returns the next lexical token of the line. Once the line is
// exhausted, or a comment marker is reached, it returns EOF forever. An
// unrecognized lexeme yields an ILLEGAL token together with a *LexerError;
// the error is sticky.
func (s *Scanner) Next() (Token, error) {
	if s.err != nil {
		return Token{Type: ILLEGAL, Raw: s.err.Text, Span: s.err.Span}, s.err
	}

	s.skipWhitespace()

	startCol, startPos := s.column, s.pos

	if s.atEnd() || s.ch == '#' {
		// A comment runs to the end of the line and contributes nothing.
		s.pos = len(s.input)
		s.decode()
		return Token{Type: EOF, Span: s.span(startCol, startPos)}, nil
	}

	switch {
	case isLetter(s.ch):
		return s.emit(s.readIdentifier(startCol, startPos))
	case isDigit(s.ch) || (s.ch == '.' && isDigit(s.peek())):
		return s.readNumber(startCol, startPos)
	case s.ch == '-' && s.negativeLiteralAllowed():
		if isDigit(s.peekAt(1)) || (s.peekAt(1) == '.' && isDigit(s.peekAt(2))) {
			return s.readNumber(startCol, startPos)
		}
	}

	rest := s.input[s.pos:]
	for _, op := range operators {
		if strings.HasPrefix(rest, op.text) {
			for range utf8.RuneCountInString(op.text) {
				s.read()
			}
			return s.emit(Token{Type: op.typ, Raw: op.text, Span: s.span(startCol, startPos)})
		}
	}

	raw := string(s.ch)
	s.read()
	tok := Token{Type: ILLEGAL, Raw: raw, Span: s.span(startCol, startPos)}
	return s.fail(ErrIllegalRune, "illegal character "+strconv.QuoteRune([]rune(raw)[0]), tok)
}

func (s *Scanner) emit(tok Token) (Token, error) {
	s.prev = tok.Type
	return tok, nil
}

// negativeLiteralAllowed reports whether a '-' at the current position may
// start a negative literal: only where no operand precedes it.
func (s *Scanner) negativeLiteralAllowed() bool {
	switch s.prev {
	case IDENT, INT, FLOAT, BOOL, RPAREN:
		return false
	default:
		return true
	}
}

// readIdentifier reads an identifier, keyword or boolean literal
func (s *Scanner) readIdentifier(startCol, startPos int) Token {
	for isLetter(s.ch) || isDigit(s.ch) {
		s.read()
	}
	raw := s.input[startPos:s.pos]
	tok := Token{Type: LookupIdent(raw), Raw: raw, Span: s.span(startCol, startPos)}
	if tok.Type == BOOL {
		tok.Bool = booleans[raw]
	}
	return tok
}

// readNumber reads an integer ([0-9]+) or float ([0-9]*.[0-9]+) literal with
// an optional leading '-', and validates it against its 32-bit range.
func (s *Scanner) readNumber(startCol, startPos int) (Token, error) {
	if s.ch == '-' {
		s.read()
	}
	for isDigit(s.ch) {
		s.read()
	}

	typ := INT
	if s.ch == '.' && isDigit(s.peek()) {
		typ = FLOAT
		s.read() // consume '.'
		for isDigit(s.ch) {
			s.read()
		}
	}

	raw := s.input[startPos:s.pos]
	tok := Token{Type: typ, Raw: raw, Span: s.span(startCol, startPos)}

	if typ == INT {
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return s.fail(ErrInvalidNumber, "integer literal "+raw+" does not fit in 32 bits", tok)
		}
		tok.Int = int32(v)
		return s.emit(tok)
	}

	v, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return s.fail(ErrInvalidNumber, "float literal "+raw+" does not fit in 32 bits", tok)
	}
	tok.Float = float32(v)
	return s.emit(tok)
}

func isLetter(ch rune) bool {
	// Identifiers are ASCII only: [a-zA-Z_][a-zA-Z0-9_]*.
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_'
}

func isDigit(ch rune) bool {
	// Numeric literals are restricted to ASCII digits.
	return ch >= '0' && ch <= '9'
}
