package lexer

import (
	"fmt"

	"github.com/malphas-lang/pyast/internal/diag"
)

type LexerErrorKind int

const (
	ErrIllegalRune LexerErrorKind = iota
	ErrInvalidNumber
	ErrIndentation
	ErrRead
)

func (k LexerErrorKind) String() string {
	switch k {
	case ErrIllegalRune:
		return "illegal rune"
	case ErrInvalidNumber:
		return "invalid number"
	case ErrIndentation:
		return "indentation"
	case ErrRead:
		return "read failure"
	default:
		return "unknown"
	}
}

// LexerError reports why the token stream could not be continued. ErrRead is
// the only kind caused by the input stream rather than its text; Cause holds
// the underlying I/O error for it.
type LexerError struct {
	Kind    LexerErrorKind
	Message string
	Text    string // offending source text, if any
	Span    Span
	Cause   error
}

func (e *LexerError) Error() string {
	if e.Span.Line == 0 {
		return e.Message
	}
	if e.Span.Filename != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.Span.Filename, e.Span.Line, e.Span.Column, e.Message)
	}
	return fmt.Sprintf("%d:%d: %s", e.Span.Line, e.Span.Column, e.Message)
}

func (e *LexerError) Unwrap() error { return e.Cause }

// IsReadFailure reports whether the error came from the underlying reader.
func (e *LexerError) IsReadFailure() bool { return e.Kind == ErrRead }

func (k LexerErrorKind) diagnosticCode() diag.Code {
	switch k {
	case ErrIllegalRune:
		return diag.CodeLexerIllegalRune
	case ErrInvalidNumber:
		return diag.CodeLexerInvalidNumber
	case ErrIndentation:
		return diag.CodeLexerIndentation
	case ErrRead:
		return diag.CodeReadFailure
	default:
		return diag.Code("LEXER_UNKNOWN_ERROR")
	}
}

// ToDiagnostic converts a lexer error into a shared diagnostic structure.
func (e *LexerError) ToDiagnostic() diag.Diagnostic {
	stage := diag.StageLexer
	if e.Kind == ErrRead {
		stage = diag.StageInput
	}
	d := diag.Diagnostic{
		Stage:    stage,
		Severity: diag.SeverityError,
		Code:     e.Kind.diagnosticCode(),
		Message:  e.Message,
		Span: diag.Span{
			Filename: e.Span.Filename,
			Line:     e.Span.Line,
			Column:   e.Span.Column,
			Start:    e.Span.Start,
			End:      e.Span.End,
		},
	}
	if e.Kind == ErrIndentation {
		d = d.WithHelp("dedent to the column of an enclosing block")
	}
	return d
}
