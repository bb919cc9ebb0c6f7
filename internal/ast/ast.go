package ast

import (
	"strconv"

	"github.com/malphas-lang/pyast/internal/lexer"
)

// Node represents any AST node with an associated source span.
type Node interface {
	Span() lexer.Span
}

// Expr represents an expression node. The set of expressions is closed:
// only types in this package implement it.
type Expr interface {
	Node
	exprNode()
}

// Stmt represents a statement node. The set of statements is closed:
// only types in this package implement it.
type Stmt interface {
	Node
	stmtNode()
}

// Ident represents an identifier reference.
type Ident struct {
	Token lexer.Token
	span  lexer.Span
}

// Span returns the identifier span.
func (e *Ident) Span() lexer.Span { return e.span }

// Name returns the identifier text.
func (e *Ident) Name() string { return e.Token.Raw }

// NewIdent constructs an identifier node from its token.
func NewIdent(tok lexer.Token) *Ident {
	return &Ident{Token: tok, span: tok.Span}
}

// SetSpan updates the identifier span.
func (e *Ident) SetSpan(span lexer.Span) {
	e.span = span
}

// exprNode marks Ident as an expression.
func (*Ident) exprNode() {}

// IntegerLit represents a 32-bit integer literal.
type IntegerLit struct {
	Token lexer.Token
	span  lexer.Span
}

func (l *IntegerLit) Span() lexer.Span { return l.span }

// Value returns the literal's value.
func (l *IntegerLit) Value() int32 { return l.Token.Int }

// NewIntegerLit constructs an integer literal node.
func NewIntegerLit(tok lexer.Token) *IntegerLit {
	return &IntegerLit{Token: tok, span: tok.Span}
}

func (l *IntegerLit) SetSpan(span lexer.Span) {
	l.span = span
}

func (*IntegerLit) exprNode() {}

// FloatLit represents a 32-bit floating-point literal.
type FloatLit struct {
	Token lexer.Token
	span  lexer.Span
}

func (l *FloatLit) Span() lexer.Span { return l.span }

// Value returns the literal's value.
func (l *FloatLit) Value() float32 { return l.Token.Float }

// Text formats the value the shortest way that round-trips at 32 bits.
func (l *FloatLit) Text() string {
	return strconv.FormatFloat(float64(l.Token.Float), 'f', -1, 32)
}

// NewFloatLit constructs a float literal node.
func NewFloatLit(tok lexer.Token) *FloatLit {
	return &FloatLit{Token: tok, span: tok.Span}
}

func (l *FloatLit) SetSpan(span lexer.Span) {
	l.span = span
}

func (*FloatLit) exprNode() {}

// BoolLit represents True or False.
type BoolLit struct {
	Token lexer.Token
	span  lexer.Span
}

func (l *BoolLit) Span() lexer.Span { return l.span }

// Value returns the literal's value.
func (l *BoolLit) Value() bool { return l.Token.Bool }

// NewBoolLit constructs a boolean literal node.
func NewBoolLit(tok lexer.Token) *BoolLit {
	return &BoolLit{Token: tok, span: tok.Span}
}

func (l *BoolLit) SetSpan(span lexer.Span) {
	l.span = span
}

func (*BoolLit) exprNode() {}

// BinaryOp enumerates the binary operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpAnd
	OpOr
	OpEqual
	OpNotEqual
	OpLT
	OpGT
	OpLTE
	OpGTE
)

var binaryOpNames = [...]string{
	OpAdd:      "Add",
	OpSubtract: "Subtract",
	OpMultiply: "Multiply",
	OpDivide:   "Divide",
	OpAnd:      "And",
	OpOr:       "Or",
	OpEqual:    "Equal",
	OpNotEqual: "NotEqual",
	OpLT:       "LT",
	OpGT:       "GT",
	OpLTE:      "LTE",
	OpGTE:      "GTE",
}

func (op BinaryOp) String() string {
	if op < 0 || int(op) >= len(binaryOpNames) {
		return "BinaryOp(" + strconv.Itoa(int(op)) + ")"
	}
	return binaryOpNames[op]
}

var binaryOps = map[lexer.TokenType]BinaryOp{
	lexer.PLUS:     OpAdd,
	lexer.MINUS:    OpSubtract,
	lexer.ASTERISK: OpMultiply,
	lexer.SLASH:    OpDivide,
	lexer.AND:      OpAnd,
	lexer.OR:       OpOr,
	lexer.EQ:       OpEqual,
	lexer.NOT_EQ:   OpNotEqual,
	lexer.LT:       OpLT,
	lexer.GT:       OpGT,
	lexer.LE:       OpLTE,
	lexer.GE:       OpGTE,
}

// BinaryOpFor maps an operator token to its binary operator.
func BinaryOpFor(tt lexer.TokenType) (BinaryOp, bool) {
	op, ok := binaryOps[tt]
	return op, ok
}

// BinaryExpr represents an infix binary expression.
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
	span  lexer.Span
}

// Span returns the expression span.
func (e *BinaryExpr) Span() lexer.Span { return e.span }

// NewBinaryExpr constructs a binary expression node.
func NewBinaryExpr(op BinaryOp, left, right Expr, span lexer.Span) *BinaryExpr {
	return &BinaryExpr{
		Op:    op,
		Left:  left,
		Right: right,
		span:  span,
	}
}

// SetSpan updates the binary expression span.
func (e *BinaryExpr) SetSpan(span lexer.Span) {
	e.span = span
}

// exprNode marks BinaryExpr as an expression.
func (*BinaryExpr) exprNode() {}

// NotExpr represents logical negation ("not x").
type NotExpr struct {
	Operand Expr
	span    lexer.Span
}

func (e *NotExpr) Span() lexer.Span { return e.span }

// NewNotExpr constructs a negation node.
func NewNotExpr(operand Expr, span lexer.Span) *NotExpr {
	return &NotExpr{Operand: operand, span: span}
}

func (e *NotExpr) SetSpan(span lexer.Span) {
	e.span = span
}

func (*NotExpr) exprNode() {}

// AssignStmt represents "target = value".
type AssignStmt struct {
	Target Expr
	Value  Expr
	span   lexer.Span
}

// Span returns the statement span.
func (s *AssignStmt) Span() lexer.Span { return s.span }

// NewAssignStmt constructs an assignment statement node.
func NewAssignStmt(target, value Expr, span lexer.Span) *AssignStmt {
	return &AssignStmt{
		Target: target,
		Value:  value,
		span:   span,
	}
}

// stmtNode marks AssignStmt as a statement.
func (*AssignStmt) stmtNode() {}

// IfStmt represents an if statement with its elif clauses, evaluated in
// order, and an optional else body.
type IfStmt struct {
	Cond  Expr
	Body  *BlockStmt
	ElIfs []*ElIfStmt
	Else  *BlockStmt // nil when there is no else clause
	span  lexer.Span
}

// Span returns the statement span.
func (s *IfStmt) Span() lexer.Span { return s.span }

// NewIfStmt constructs an if statement node.
func NewIfStmt(cond Expr, body *BlockStmt, elifs []*ElIfStmt, elseBody *BlockStmt, span lexer.Span) *IfStmt {
	return &IfStmt{
		Cond:  cond,
		Body:  body,
		ElIfs: elifs,
		Else:  elseBody,
		span:  span,
	}
}

// stmtNode marks IfStmt as a statement.
func (*IfStmt) stmtNode() {}

// ElIfStmt represents one elif clause of an IfStmt.
type ElIfStmt struct {
	Cond Expr
	Body *BlockStmt
	span lexer.Span
}

// Span returns the clause span.
func (s *ElIfStmt) Span() lexer.Span { return s.span }

// NewElIfStmt constructs an elif clause node.
func NewElIfStmt(cond Expr, body *BlockStmt, span lexer.Span) *ElIfStmt {
	return &ElIfStmt{Cond: cond, Body: body, span: span}
}

// stmtNode marks ElIfStmt as a statement.
func (*ElIfStmt) stmtNode() {}

// WhileStmt represents a while loop.
type WhileStmt struct {
	Cond Expr
	Body *BlockStmt
	span lexer.Span
}

// Span returns the statement span.
func (s *WhileStmt) Span() lexer.Span { return s.span }

// NewWhileStmt constructs a while statement node.
func NewWhileStmt(cond Expr, body *BlockStmt, span lexer.Span) *WhileStmt {
	return &WhileStmt{Cond: cond, Body: body, span: span}
}

// stmtNode marks WhileStmt as a statement.
func (*WhileStmt) stmtNode() {}

// BlockStmt represents a sequence of statements sharing one indentation
// level. Stmts is in execution order.
type BlockStmt struct {
	Stmts []Stmt
	span  lexer.Span
}

// Span returns the block span.
func (b *BlockStmt) Span() lexer.Span { return b.span }

// NewBlockStmt constructs a block node.
func NewBlockStmt(stmts []Stmt, span lexer.Span) *BlockStmt {
	return &BlockStmt{Stmts: stmts, span: span}
}

// stmtNode marks BlockStmt as a statement.
func (*BlockStmt) stmtNode() {}

// BreakStmt represents a break statement.
type BreakStmt struct {
	span lexer.Span
}

// Span returns the statement span.
func (s *BreakStmt) Span() lexer.Span { return s.span }

// NewBreakStmt constructs a break statement node.
func NewBreakStmt(span lexer.Span) *BreakStmt {
	return &BreakStmt{span: span}
}

// stmtNode marks BreakStmt as a statement.
func (*BreakStmt) stmtNode() {}
