package parser

import (
	"github.com/malphas-lang/pyast/internal/lexer"
)

// mergeSpan assumes start.End <= end.End and returns a span covering both.
// Callers pass the earliest span first so node spans grow monotonically.
func mergeSpan(start, end lexer.Span) lexer.Span {
	span := start

	if end.End > span.End {
		span.End = end.End
	}

	return span
}

func (p *Parser) spanWithFilename(span lexer.Span) lexer.Span {
	if span.Filename == "" {
		span.Filename = p.filename
	}
	return span
}

func (p *Parser) tokenWithFilename(tok lexer.Token) lexer.Token {
	tok.Span = p.spanWithFilename(tok.Span)
	return tok
}
