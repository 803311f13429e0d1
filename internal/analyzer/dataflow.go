package analyzer

import (
	"github.com/codepulse/codepulse/internal/parser"
)

// BuildDataFlowGraph records, per variable name, the lines where it is
// assigned and the lines where it is read. Same-named variables in different
// lexical scopes share one record; scoping is deliberately flattened.
func BuildDataFlowGraph(root *parser.Node) *DataFlowGraph {
	g := NewDataFlowGraph()
	collectDataFlow(root, g)
	return g
}

func collectDataFlow(node *parser.Node, g *DataFlowGraph) {
	if node == nil {
		return
	}

	switch node.Kind {
	case parser.KindAssign:
		for _, target := range node.Targets {
			collectTarget(target, g, node.Line)
		}
		collectDataFlow(node.Value, g)

	case parser.KindAugAssign:
		// x += 1 counts purely as a definition; the implicit read of the
		// old value is not tracked.
		for _, target := range node.Targets {
			collectTarget(target, g, node.Line)
		}
		collectDataFlow(node.Value, g)

	case parser.KindFor:
		// Loop targets are stores, not reads.
		collectDataFlow(node.Iter, g)
		for _, stmt := range node.Body {
			collectDataFlow(stmt, g)
		}
		for _, stmt := range node.Orelse {
			collectDataFlow(stmt, g)
		}

	case parser.KindNamedExpr:
		collectDataFlow(node.Value, g)

	case parser.KindName:
		g.AddUse(node.Name, node.Line)

	default:
		for _, child := range node.ChildNodes() {
			collectDataFlow(child, g)
		}
	}
}

// collectTarget records an assignment target. Plain names and names inside
// unpacking patterns are definitions; subscript and attribute targets read
// their object and index expressions, so those subtrees count as uses.
func collectTarget(target *parser.Node, g *DataFlowGraph, line int) {
	if target == nil {
		return
	}
	switch target.Kind {
	case parser.KindName:
		g.AddDefinition(target.Name, line)
	case parser.KindTuple, parser.KindList:
		for _, elt := range target.Children {
			collectTarget(elt, g, line)
		}
	default:
		collectDataFlow(target, g)
	}
}
