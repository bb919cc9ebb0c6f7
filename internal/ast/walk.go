package ast

import "fmt"

// Children returns the direct children of node in source order:
// AssignStmt(target, value), IfStmt(cond, body, elifs..., else),
// ElIfStmt(cond, body), WhileStmt(cond, body), BlockStmt(stmts...),
// BinaryExpr(left, right), NotExpr(operand). Leaves have none.
func Children(node Node) []Node {
	switch n := node.(type) {
	case *BlockStmt:
		children := make([]Node, 0, len(n.Stmts))
		for _, stmt := range n.Stmts {
			children = append(children, stmt)
		}
		return children

	case *AssignStmt:
		return []Node{n.Target, n.Value}

	case *IfStmt:
		children := make([]Node, 0, len(n.ElIfs)+3)
		children = append(children, n.Cond, n.Body)
		for _, elif := range n.ElIfs {
			children = append(children, elif)
		}
		if n.Else != nil {
			children = append(children, n.Else)
		}
		return children

	case *ElIfStmt:
		return []Node{n.Cond, n.Body}

	case *WhileStmt:
		return []Node{n.Cond, n.Body}

	case *BreakStmt:
		return nil

	case *BinaryExpr:
		return []Node{n.Left, n.Right}

	case *NotExpr:
		return []Node{n.Operand}

	case *Ident, *IntegerLit, *FloatLit, *BoolLit:
		return nil

	default:
		panic(fmt.Sprintf("ast: unexpected node type %T", node))
	}
}

// Walk traverses the AST starting from node in pre-order, calling fn for
// each node. If fn returns false, Walk stops traversing that branch.
func Walk(node Node, fn func(Node) bool) {
	if !fn(node) {
		return
	}
	for _, child := range Children(node) {
		Walk(child, fn)
	}
}

// Count returns the number of nodes in the tree rooted at node.
func Count(node Node) int {
	n := 0
	Walk(node, func(Node) bool {
		n++
		return true
	})
	return n
}
