package parser

import (
	"io"
	"log/slog"
	"strings"

	"github.com/malphas-lang/pyast/internal/ast"
	"github.com/malphas-lang/pyast/internal/lexer"
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

type Option func(*options)

type options struct {
	filename string
	layout   []lexer.Option
	logger   *slog.Logger
}

// WithFilename configures the parser to attribute all emitted spans to the provided filename.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// WithLayoutOptions passes options through to the underlying tokenizer.
func WithLayoutOptions(opts ...lexer.Option) Option {
	return func(o *options) {
		o.layout = append(o.layout, opts...)
	}
}

// WithLogger sets the logger used for debug tracing of the parser and its
// tokenizer.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

const (
	precedenceLowest = iota
	precedenceOr
	precedenceAnd
	precedenceEquality
	precedenceComparison
	precedenceSum
	precedenceProduct
	precedencePrefix
)

var precedences = map[lexer.TokenType]int{
	lexer.OR:       precedenceOr,
	lexer.AND:      precedenceAnd,
	lexer.EQ:       precedenceEquality,
	lexer.NOT_EQ:   precedenceEquality,
	lexer.LT:       precedenceComparison,
	lexer.LE:       precedenceComparison,
	lexer.GT:       precedenceComparison,
	lexer.GE:       precedenceComparison,
	lexer.PLUS:     precedenceSum,
	lexer.MINUS:    precedenceSum,
	lexer.ASTERISK: precedenceProduct,
	lexer.SLASH:    precedenceProduct,
}

// tokenSource is the pull interface the parser consumes; *lexer.Layout
// for programs and *lexer.Scanner for single-line expressions.
type tokenSource interface {
	Next() (lexer.Token, error)
}

// Parser is a recursive descent parser for indentation-structured programs
// with a Pratt expression core.
// Invariants:
//   - Lookahead: curTok always reflects the token currently under examination;
//     peekTok mirrors the next token pulled from the source. The pair forms the
//     parser's sole lookahead window and is only mutated via nextToken.
//   - Statements: a parse function entered with curTok on a statement's first
//     token returns with curTok on its last token (NEWLINE for simple
//     statements, DEDENT for compound ones).
//   - Errors: err holds the first failure. A tokenizer error travels with the
//     ILLEGAL token it produced (peekErr) and only becomes the parse error
//     once that token is reached, so a syntax error earlier in the stream
//     wins over a lexical error further ahead. Once err is set, every parse
//     function unwinds by returning nil and nothing else is recorded.
type Parser struct {
	src     tokenSource
	curTok  lexer.Token
	peekTok lexer.Token

	err     error
	peekErr error // source error that produced peekTok, if any

	filename string
	logger   *slog.Logger

	prefixFns map[lexer.TokenType]prefixParseFn
	infixFns  map[lexer.TokenType]infixParseFn
}

// New returns a parser reading a program from r.
func New(r io.Reader, opts ...Option) *Parser {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	layoutOpts := append([]lexer.Option{}, cfg.layout...)
	if cfg.filename != "" {
		layoutOpts = append(layoutOpts, lexer.WithFilename(cfg.filename))
	}
	if cfg.logger != nil {
		layoutOpts = append(layoutOpts, lexer.WithLogger(cfg.logger))
	}

	return newParser(lexer.NewLayout(r, layoutOpts...), cfg)
}

func newParser(src tokenSource, cfg options) *Parser {
	p := &Parser{
		src:       src,
		filename:  cfg.filename,
		logger:    cfg.logger,
		prefixFns: make(map[lexer.TokenType]prefixParseFn),
		infixFns:  make(map[lexer.TokenType]infixParseFn),
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}

	p.registerPrefix(lexer.IDENT, p.parseIdentifier)
	p.registerPrefix(lexer.INT, p.parseIntegerLiteral)
	p.registerPrefix(lexer.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(lexer.BOOL, p.parseBoolLiteral)
	p.registerPrefix(lexer.NOT, p.parseNotExpr)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedExpr)

	for tt := range precedences {
		p.registerInfix(tt, p.parseInfixExpr)
	}

	// Seed curTok/peekTok.
	p.nextToken()
	p.nextToken()

	return p
}

// ParseProgram parses r as a complete program.
func ParseProgram(r io.Reader, opts ...Option) (*ast.BlockStmt, error) {
	return New(r, opts...).ParseProgram()
}

// ParseProgram parses the whole input and returns the program root. On
// failure it returns the first error, either a *lexer.LexerError or a
// *SyntaxError, and no tree.
func (p *Parser) ParseProgram() (*ast.BlockStmt, error) {
	program := p.parseBlock(lexer.EOF)
	if p.err != nil {
		return nil, p.err
	}
	if !p.expect(lexer.EOF) {
		return nil, p.err
	}

	p.logger.Debug("parsed program",
		"statements", len(program.Stmts),
		"nodes", ast.Count(program),
	)
	return program, nil
}

// ParseExpr parses a single expression written on one line.
func ParseExpr(src string) (ast.Expr, error) {
	if strings.ContainsAny(strings.TrimRight(src, "\r\n"), "\r\n") {
		return nil, newSyntaxError(lexer.Token{Type: lexer.NEWLINE}, []string{"expression on a single line"})
	}
	p := newParser(lexer.NewScanner(src), options{})
	expr := p.parseExpr()
	if p.err != nil {
		return nil, p.err
	}
	if p.peekTok.Type != lexer.EOF {
		p.fail(p.peekTok, lexer.EOF.Describe(), "operator")
		return nil, p.err
	}
	return expr, nil
}

func (p *Parser) registerPrefix(tt lexer.TokenType, fn prefixParseFn) {
	p.prefixFns[tt] = fn
}

func (p *Parser) registerInfix(tt lexer.TokenType, fn infixParseFn) {
	p.infixFns[tt] = fn
}

// nextToken advances the parser's token window.
// Contract: after calling nextToken, curTok == old(peekTok). The source is
// only queried from this hop.
func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	if p.peekErr != nil && p.err == nil {
		p.err = p.peekErr
	}
	p.peekTok, p.peekErr = p.src.Next()
}

// expect asserts that the peek token matches the provided type.
// The caller is responsible for inspecting curTok before invoking expect,
// because expect never rewinds; on success it promotes peekTok into curTok.
func (p *Parser) expect(tt lexer.TokenType) bool {
	if p.err != nil {
		return false
	}
	if p.peekTok.Type == tt {
		p.nextToken()
		return true
	}

	p.fail(p.peekTok, tt.Describe())
	return false
}

// expectAfterExpr is expect for the token that closes an expression, where
// a binary operator would also have been accepted.
func (p *Parser) expectAfterExpr(tt lexer.TokenType) bool {
	if p.err != nil {
		return false
	}
	if p.peekTok.Type == tt {
		p.nextToken()
		return true
	}

	p.fail(p.peekTok, tt.Describe(), "operator")
	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekTok.Type]; ok {
		return prec
	}

	return precedenceLowest
}
