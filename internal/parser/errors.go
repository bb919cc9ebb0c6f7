package parser

import (
	"fmt"
	"strings"

	"github.com/malphas-lang/pyast/internal/diag"
	"github.com/malphas-lang/pyast/internal/lexer"
)

// SyntaxError reports the first token that could not extend the program,
// together with the alternatives that would have been accepted there.
type SyntaxError struct {
	Found    lexer.Token
	Expected []string
	Span     lexer.Span

	// Unclosed is the opening '(' still waiting for its ')', if any.
	Unclosed *lexer.Span
}

func newSyntaxError(found lexer.Token, expected []string) *SyntaxError {
	return &SyntaxError{
		Found:    found,
		Expected: expected,
		Span:     found.Span,
	}
}

// Message returns the error text without position information.
func (e *SyntaxError) Message() string {
	var b strings.Builder
	if e.Found.Type == lexer.EOF {
		b.WriteString("unexpected end of input")
	} else {
		b.WriteString("unexpected ")
		b.WriteString(e.Found.Describe())
	}
	if expected := e.expectedText(); expected != "" {
		b.WriteString(", expected ")
		b.WriteString(expected)
	}
	return b.String()
}

func (e *SyntaxError) expectedText() string {
	switch len(e.Expected) {
	case 0:
		return ""
	case 1:
		return e.Expected[0]
	default:
		return "one of " + strings.Join(e.Expected, ", ")
	}
}

func (e *SyntaxError) Error() string {
	if e.Span.Line == 0 {
		return "syntax error: " + e.Message()
	}
	if e.Span.Filename != "" {
		return fmt.Sprintf("%s:%d:%d: syntax error: %s", e.Span.Filename, e.Span.Line, e.Span.Column, e.Message())
	}
	return fmt.Sprintf("%d:%d: syntax error: %s", e.Span.Line, e.Span.Column, e.Message())
}

func (e *SyntaxError) expects(what string) bool {
	for _, exp := range e.Expected {
		if exp == what {
			return true
		}
	}
	return false
}

// UnexpectedEOF reports whether the input ended before the grammar allowed.
func (e *SyntaxError) UnexpectedEOF() bool {
	return e.Found.Type == lexer.EOF
}

// ToDiagnostic converts the syntax error into a shared diagnostic structure.
func (e *SyntaxError) ToDiagnostic() diag.Diagnostic {
	code := diag.CodeParseUnexpectedToken
	if e.UnexpectedEOF() {
		code = diag.CodeParseUnexpectedEOF
	}

	span := toDiagSpan(e.Span)

	d := diag.Diagnostic{
		Stage:    diag.StageParser,
		Severity: diag.SeverityError,
		Code:     code,
		Message:  e.Message(),
		Span:     span,
	}
	if expected := e.expectedText(); expected != "" {
		d = d.WithPrimarySpan(span, "expected "+expected)
	}
	if e.Unclosed != nil {
		d = d.WithSecondarySpan(toDiagSpan(*e.Unclosed), "unclosed `(`")
	}
	if e.Found.Type == lexer.INDENT {
		d = d.WithNote("a block may only be indented after a line ending in ':'")
	}
	if e.Found.Type.IsKeyword() && (e.expects("expression") || e.expects(lexer.IDENT.Describe())) {
		d = d.WithHelp(e.Found.Describe() + " is a keyword and cannot be used as a name or value")
	}
	return d
}

func toDiagSpan(s lexer.Span) diag.Span {
	return diag.Span{
		Filename: s.Filename,
		Line:     s.Line,
		Column:   s.Column,
		Start:    s.Start,
		End:      s.End,
	}
}

// markUnclosed attaches the span of an open '(' to the recorded syntax
// error. Only the innermost unclosed parenthesis is kept.
func (p *Parser) markUnclosed(open lexer.Span) {
	synErr, ok := p.err.(*SyntaxError)
	if !ok || synErr.Unclosed != nil {
		return
	}
	open = p.spanWithFilename(open)
	synErr.Unclosed = &open
}

// fail records a syntax error at found unless an error is already recorded.
// When found is the ILLEGAL token standing in for a tokenizer failure, the
// tokenizer's error is recorded instead.
func (p *Parser) fail(found lexer.Token, expected ...string) {
	if p.err != nil {
		return
	}
	if found.Type == lexer.ILLEGAL && p.peekErr != nil {
		p.err = p.peekErr
		return
	}
	if found.Span.Filename == "" && p.filename != "" {
		found.Span.Filename = p.filename
	}
	p.err = newSyntaxError(found, expected)
}
