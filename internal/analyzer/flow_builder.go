package analyzer

import (
	"github.com/codepulse/codepulse/internal/parser"
)

// flowBuilder assigns monotonic ids while walking the tree
type flowBuilder struct {
	graph   *FlowGraph
	counter int
}

// BuildFlowGraph constructs a control flow graph from an AST. Every visited
// node becomes one FlowNode; each child links from its parent, so siblings
// never chain to each other. Top-level statements start with in-degree 0.
func BuildFlowGraph(root *parser.Node) *FlowGraph {
	b := &flowBuilder{graph: NewFlowGraph()}
	if root != nil {
		for _, child := range root.ChildNodes() {
			b.visit(child, -1)
		}
	}
	return b.graph
}

func (b *flowBuilder) visit(node *parser.Node, parentID int) int {
	if node == nil {
		return -1
	}

	id := b.counter
	b.counter++
	b.graph.AddNode(id, node.Kind, node.Line)
	if parentID >= 0 {
		b.graph.AddEdge(parentID, id)
	}

	switch node.Kind {
	case parser.KindIf:
		// Both branches hang off the condition node; the test expression
		// itself produces no flow nodes.
		for _, stmt := range node.Body {
			b.visit(stmt, id)
		}
		for _, stmt := range node.Orelse {
			b.visit(stmt, id)
		}

	case parser.KindFor, parser.KindWhile:
		bodyStart := b.counter
		for _, stmt := range node.Body {
			b.visit(stmt, id)
		}
		// Back edge from the last body node models iteration. An empty
		// body produces no back edge, so empty loops are never cyclic.
		if bodyStart < b.counter {
			b.graph.AddEdge(b.counter-1, id)
		}

	case parser.KindTry:
		// Which handler fires is unknowable statically; the protected
		// body and every handler body all hang off the try node.
		for _, stmt := range node.Body {
			b.visit(stmt, id)
		}
		for _, handler := range node.Handlers {
			for _, stmt := range handler.Body {
				b.visit(stmt, id)
			}
		}

	default:
		for _, child := range node.ChildNodes() {
			b.visit(child, id)
		}
	}

	return id
}
