package analyzer

import (
	"github.com/codepulse/codepulse/internal/parser"
)

// BuildCallGraph indexes every function definition by name, then records an
// edge for each direct name(...) call whose callee is an indexed function.
// Method calls and calls through variables are not tracked.
func BuildCallGraph(root *parser.Node) *CallGraph {
	g := NewCallGraph()
	if root == nil {
		return g
	}

	var functions []*parser.Node
	root.Walk(func(n *parser.Node) bool {
		if n.Kind == parser.KindFunctionDef {
			functions = append(functions, n)
		}
		return true
	})

	for _, fn := range functions {
		g.AddFunction(fn.Name, fn.Line)
	}

	// Calls inside nested functions attribute to every enclosing function;
	// the walk is unconditional.
	for _, fn := range functions {
		caller := fn.Name
		fn.Walk(func(n *parser.Node) bool {
			if n.Kind == parser.KindCall && n.Value != nil && n.Value.Kind == parser.KindName {
				g.AddCall(caller, n.Value.Name)
			}
			return true
		})
	}

	return g
}
