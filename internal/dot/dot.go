// Package dot renders a parsed program as a Graphviz digraph.
package dot

import (
	"fmt"
	"io"
	"strings"

	"github.com/malphas-lang/pyast/internal/ast"
)

// DefaultGraphName is the name written after "Digraph" unless overridden.
const DefaultGraphName = "G"

type Option func(*printer)

// WithGraphName sets the graph name. An empty name keeps the default.
func WithGraphName(name string) Option {
	return func(p *printer) {
		if name != "" {
			p.graphName = name
		}
	}
}

type printer struct {
	b         strings.Builder
	graphName string
	next      int
}

// Render writes the graph of the tree rooted at root to w.
func Render(w io.Writer, root ast.Node, opts ...Option) error {
	_, err := io.WriteString(w, String(root, opts...))
	return err
}

// String returns the graph of the tree rooted at root. Nodes are numbered
// a0, a1, ... in pre-order; every node but the root is preceded by the edge
// from its parent.
func String(root ast.Node, opts ...Option) string {
	p := &printer{graphName: DefaultGraphName}
	for _, opt := range opts {
		opt(p)
	}

	p.b.WriteString(fmt.Sprintf("Digraph %s{\n", p.graphName))
	p.node(root, -1)
	p.b.WriteString("}\n")
	return p.b.String()
}

func (p *printer) node(n ast.Node, parent int) {
	id := p.next
	p.next++

	if parent >= 0 {
		p.b.WriteString(fmt.Sprintf("a%d -> a%d;\n", parent, id))
	}
	p.b.WriteString(fmt.Sprintf("a%d [label = %q];\n", id, Label(n)))

	for _, child := range ast.Children(n) {
		p.node(child, id)
	}
}

// Label returns the text shown for a single node.
func Label(n ast.Node) string {
	switch n := n.(type) {
	case *ast.BlockStmt:
		return "Block"
	case *ast.AssignStmt:
		return "Assignment"
	case *ast.IfStmt:
		return "If"
	case *ast.ElIfStmt:
		return "ElseIf"
	case *ast.WhileStmt:
		return "While"
	case *ast.BreakStmt:
		return "Break"
	case *ast.BinaryExpr:
		return n.Op.String()
	case *ast.NotExpr:
		return "Negate"
	case *ast.Ident:
		return "Identifier: " + n.Name()
	case *ast.IntegerLit:
		return fmt.Sprintf("Integer: %d", n.Value())
	case *ast.FloatLit:
		return "Float: " + n.Text()
	case *ast.BoolLit:
		return fmt.Sprintf("Boolean: %t", n.Value())
	default:
		panic(fmt.Sprintf("dot: unexpected node type %T", n))
	}
}
