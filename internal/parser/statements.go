package parser

import (
	"github.com/malphas-lang/pyast/internal/ast"
	"github.com/malphas-lang/pyast/internal/lexer"
)

// statementStarts lists what may begin a statement, for diagnostics.
var statementStarts = []string{
	lexer.IF.Describe(),
	lexer.WHILE.Describe(),
	lexer.BREAK.Describe(),
	lexer.IDENT.Describe(),
	lexer.INT.Describe(),
	lexer.FLOAT.Describe(),
	lexer.BOOL.Describe(),
	lexer.NOT.Describe(),
	lexer.LPAREN.Describe(),
}

// parseBlock parses one or more statements until peekTok is end. It is
// entered with curTok on the first statement's first token and returns with
// curTok on the last statement's last token.
func (p *Parser) parseBlock(end lexer.TokenType) *ast.BlockStmt {
	start := p.curTok.Span
	var stmts []ast.Stmt

	for {
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		stmts = append(stmts, stmt)

		if p.peekTok.Type == end {
			break
		}
		p.nextToken()
	}

	span := mergeSpan(start, stmts[len(stmts)-1].Span())
	return ast.NewBlockStmt(stmts, p.spanWithFilename(span))
}

func (p *Parser) parseStatement() ast.Stmt {
	if p.err != nil {
		return nil
	}

	switch p.curTok.Type {
	case lexer.IF:
		return p.parseIfStmt()
	case lexer.WHILE:
		return p.parseWhileStmt()
	case lexer.BREAK:
		return p.parseBreakStmt()
	}

	if _, ok := p.prefixFns[p.curTok.Type]; ok {
		return p.parseAssignStmt()
	}

	p.fail(p.curTok, statementStarts...)
	return nil
}

// parseAssignStmt parses "target = value NEWLINE".
func (p *Parser) parseAssignStmt() ast.Stmt {
	target := p.parseExpr()
	if target == nil {
		return nil
	}

	if !p.expectAfterExpr(lexer.ASSIGN) {
		return nil
	}
	p.nextToken()

	value := p.parseExpr()
	if value == nil {
		return nil
	}

	if !p.expectAfterExpr(lexer.NEWLINE) {
		return nil
	}

	span := mergeSpan(target.Span(), value.Span())
	return ast.NewAssignStmt(target, value, p.spanWithFilename(span))
}

func (p *Parser) parseBreakStmt() ast.Stmt {
	span := p.curTok.Span

	if !p.expect(lexer.NEWLINE) {
		return nil
	}

	return ast.NewBreakStmt(p.spanWithFilename(span))
}

// parseSuite parses ": NEWLINE INDENT block DEDENT" following a clause
// header. It is entered with curTok on the header's last token and returns
// with curTok on the DEDENT.
func (p *Parser) parseSuite() *ast.BlockStmt {
	if !p.expect(lexer.COLON) {
		return nil
	}
	if !p.expect(lexer.NEWLINE) {
		return nil
	}
	if !p.expect(lexer.INDENT) {
		return nil
	}
	p.nextToken()

	body := p.parseBlock(lexer.DEDENT)
	if body == nil {
		return nil
	}

	if !p.expect(lexer.DEDENT) {
		return nil
	}

	return body
}

// parseCondSuite parses "expr : NEWLINE INDENT block DEDENT" with curTok on
// the keyword that introduces the clause.
func (p *Parser) parseCondSuite() (ast.Expr, *ast.BlockStmt) {
	p.nextToken()

	cond := p.parseExpr()
	if cond == nil {
		return nil, nil
	}

	if p.peekTok.Type != lexer.COLON {
		p.fail(p.peekTok, lexer.COLON.Describe(), "operator")
		return nil, nil
	}

	body := p.parseSuite()
	if body == nil {
		return nil, nil
	}

	return cond, body
}

func (p *Parser) parseIfStmt() ast.Stmt {
	start := p.curTok.Span

	cond, body := p.parseCondSuite()
	if body == nil {
		return nil
	}
	span := mergeSpan(start, body.Span())

	var elifs []*ast.ElIfStmt
	for p.peekTok.Type == lexer.ELIF {
		p.nextToken()
		clauseStart := p.curTok.Span

		elifCond, elifBody := p.parseCondSuite()
		if elifBody == nil {
			return nil
		}

		clauseSpan := p.spanWithFilename(mergeSpan(clauseStart, elifBody.Span()))
		elifs = append(elifs, ast.NewElIfStmt(elifCond, elifBody, clauseSpan))
		span = mergeSpan(span, clauseSpan)
	}

	var elseBody *ast.BlockStmt
	if p.peekTok.Type == lexer.ELSE {
		p.nextToken()

		elseBody = p.parseSuite()
		if elseBody == nil {
			return nil
		}
		span = mergeSpan(span, elseBody.Span())
	}

	return ast.NewIfStmt(cond, body, elifs, elseBody, p.spanWithFilename(span))
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	start := p.curTok.Span

	cond, body := p.parseCondSuite()
	if body == nil {
		return nil
	}

	span := mergeSpan(start, body.Span())
	return ast.NewWhileStmt(cond, body, p.spanWithFilename(span))
}
