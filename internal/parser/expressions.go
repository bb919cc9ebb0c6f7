package parser

import (
	"github.com/malphas-lang/pyast/internal/ast"
	"github.com/malphas-lang/pyast/internal/lexer"
)

// spanSetter is satisfied by nodes that expose SetSpan. parseGroupedExpr uses it
// to widen spans without wrapping the underlying node in a synthetic AST type.
type spanSetter interface {
	SetSpan(lexer.Span)
}

func (p *Parser) parseExpr() ast.Expr {
	return p.parseExprPrecedence(precedenceLowest)
}

// parseExprPrecedence parses an expression whose operators all bind tighter
// than precedence. Operators of equal precedence associate to the left.
func (p *Parser) parseExprPrecedence(precedence int) ast.Expr {
	if p.err != nil {
		return nil
	}

	prefix := p.prefixFns[p.curTok.Type]
	if prefix == nil {
		p.fail(p.curTok, "expression")
		return nil
	}

	left := prefix()
	if left == nil {
		return nil
	}

	for precedence < p.peekPrecedence() {
		infix := p.infixFns[p.peekTok.Type]
		if infix == nil {
			break
		}

		p.nextToken()

		left = infix(left)
		if left == nil {
			return nil
		}
	}

	return left
}

func (p *Parser) parseIdentifier() ast.Expr {
	return ast.NewIdent(p.tokenWithFilename(p.curTok))
}

func (p *Parser) parseIntegerLiteral() ast.Expr {
	return ast.NewIntegerLit(p.tokenWithFilename(p.curTok))
}

func (p *Parser) parseFloatLiteral() ast.Expr {
	return ast.NewFloatLit(p.tokenWithFilename(p.curTok))
}

func (p *Parser) parseBoolLiteral() ast.Expr {
	return ast.NewBoolLit(p.tokenWithFilename(p.curTok))
}

// parseNotExpr parses "not operand". The operand binds tighter than every
// binary operator, so "not a and b" is "(not a) and b".
func (p *Parser) parseNotExpr() ast.Expr {
	start := p.curTok.Span
	p.nextToken()

	operand := p.parseExprPrecedence(precedencePrefix)
	if operand == nil {
		return nil
	}

	span := mergeSpan(start, operand.Span())
	return ast.NewNotExpr(operand, p.spanWithFilename(span))
}

// parseGroupedExpr parses "(expr)" without introducing an explicit ParenExpr
// node. Instead, it rewrites the span on the parsed sub-expression.
func (p *Parser) parseGroupedExpr() ast.Expr {
	start := p.curTok.Span
	p.nextToken() // consume '('

	expr := p.parseExpr()
	if expr == nil {
		return nil
	}

	if !p.expectAfterExpr(lexer.RPAREN) {
		p.markUnclosed(start)
		return nil
	}

	span := mergeSpan(start, p.curTok.Span)
	if setter, ok := expr.(spanSetter); ok {
		setter.SetSpan(p.spanWithFilename(span))
	}

	return expr
}

func (p *Parser) parseInfixExpr(left ast.Expr) ast.Expr {
	operatorTok := p.curTok
	precedence := precedences[operatorTok.Type]

	op, ok := ast.BinaryOpFor(operatorTok.Type)
	if !ok {
		p.fail(operatorTok, "operator")
		return nil
	}

	p.nextToken()

	right := p.parseExprPrecedence(precedence)
	if right == nil {
		return nil
	}

	span := mergeSpan(left.Span(), operatorTok.Span)
	span = mergeSpan(span, right.Span())

	return ast.NewBinaryExpr(op, left, right, p.spanWithFilename(span))
}
