package analyzer

import (
	"sort"

	"github.com/codepulse/codepulse/internal/parser"
)

// FlowNode is one vertex of a control flow graph. IDs are assigned
// monotonically in visitation order; edges are only appended, never removed.
type FlowNode struct {
	ID           int
	Kind         parser.NodeKind
	Line         int
	Successors   []int
	Predecessors []int
}

// FlowGraph is a control flow graph over FlowNodes. Graphs are value
// objects built fresh per analysis; nothing mutates them afterwards.
type FlowGraph struct {
	Nodes     map[int]*FlowNode
	EdgeCount int
}

// NewFlowGraph creates an empty flow graph
func NewFlowGraph() *FlowGraph {
	return &FlowGraph{Nodes: make(map[int]*FlowNode)}
}

// AddNode registers a new node and returns it
func (g *FlowGraph) AddNode(id int, kind parser.NodeKind, line int) *FlowNode {
	node := &FlowNode{ID: id, Kind: kind, Line: line}
	g.Nodes[id] = node
	return node
}

// AddEdge wires from -> to. Duplicate edges are ignored so the edge count
// matches the number of distinct (from, to) pairs.
func (g *FlowGraph) AddEdge(from, to int) {
	fromNode, ok1 := g.Nodes[from]
	toNode, ok2 := g.Nodes[to]
	if !ok1 || !ok2 {
		return
	}
	for _, succ := range fromNode.Successors {
		if succ == to {
			return
		}
	}
	fromNode.Successors = append(fromNode.Successors, to)
	toNode.Predecessors = append(toNode.Predecessors, from)
	g.EdgeCount++
}

// Roots returns the ids of all in-degree-0 nodes in ascending order
func (g *FlowGraph) Roots() []int {
	var roots []int
	for id, node := range g.Nodes {
		if len(node.Predecessors) == 0 {
			roots = append(roots, id)
		}
	}
	sort.Ints(roots)
	return roots
}

// SortedIDs returns every node id in ascending order, for deterministic walks
func (g *FlowGraph) SortedIDs() []int {
	ids := make([]int, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// DataFlowNode records where one variable is defined and used. Variables
// with the same name in different lexical scopes are not distinguished.
type DataFlowNode struct {
	Name            string
	DefinitionLines []int
	UseLines        []int
}

// DataFlowGraph maps variable names to their definition/use records
type DataFlowGraph struct {
	Variables map[string]*DataFlowNode
}

// NewDataFlowGraph creates an empty data flow graph
func NewDataFlowGraph() *DataFlowGraph {
	return &DataFlowGraph{Variables: make(map[string]*DataFlowNode)}
}

func (g *DataFlowGraph) variable(name string) *DataFlowNode {
	v, ok := g.Variables[name]
	if !ok {
		v = &DataFlowNode{Name: name}
		g.Variables[name] = v
	}
	return v
}

// AddDefinition records that name is assigned on the given line
func (g *DataFlowGraph) AddDefinition(name string, line int) {
	v := g.variable(name)
	v.DefinitionLines = append(v.DefinitionLines, line)
}

// AddUse records that name is read on the given line
func (g *DataFlowGraph) AddUse(name string, line int) {
	v := g.variable(name)
	v.UseLines = append(v.UseLines, line)
}

// DataDependencies counts distinct (definition, use) line pairs where the
// use occurs on a later line than the definition.
func (g *DataFlowGraph) DataDependencies() int {
	total := 0
	for _, v := range g.Variables {
		seen := make(map[[2]int]bool)
		for _, def := range v.DefinitionLines {
			for _, use := range v.UseLines {
				if use > def && !seen[[2]int{def, use}] {
					seen[[2]int{def, use}] = true
					total++
				}
			}
		}
	}
	return total
}

// SortedNames returns variable names in ascending order
func (g *DataFlowGraph) SortedNames() []string {
	names := make([]string, 0, len(g.Variables))
	for name := range g.Variables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CallGraphNode is one function in the call graph
type CallGraphNode struct {
	Name    string
	Line    int
	Callees []string
	Callers []string
}

// Degree returns the total (in + out) degree of the function
func (n *CallGraphNode) Degree() int {
	return len(n.Callees) + len(n.Callers)
}

// CallGraph maps function names to their call relationships. Only direct
// name(...) calls to functions defined in the same unit produce edges.
type CallGraph struct {
	Functions map[string]*CallGraphNode
	EdgeCount int
}

// NewCallGraph creates an empty call graph
func NewCallGraph() *CallGraph {
	return &CallGraph{Functions: make(map[string]*CallGraphNode)}
}

// AddFunction registers a function definition
func (g *CallGraph) AddFunction(name string, line int) {
	if _, ok := g.Functions[name]; !ok {
		g.Functions[name] = &CallGraphNode{Name: name, Line: line}
	}
}

// AddCall wires caller -> callee. Calls to names not in the index are
// silently ignored; the index is necessarily incomplete for a single file.
func (g *CallGraph) AddCall(caller, callee string) {
	from, ok1 := g.Functions[caller]
	to, ok2 := g.Functions[callee]
	if !ok1 || !ok2 {
		return
	}
	for _, existing := range from.Callees {
		if existing == callee {
			return
		}
	}
	from.Callees = append(from.Callees, callee)
	to.Callers = append(to.Callers, caller)
	g.EdgeCount++
}

// SortedNames returns function names in ascending order
func (g *CallGraph) SortedNames() []string {
	names := make([]string, 0, len(g.Functions))
	for name := range g.Functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
