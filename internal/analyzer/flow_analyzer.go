package analyzer

import (
	"fmt"
	"math"

	"github.com/codepulse/codepulse/domain"
	"github.com/codepulse/codepulse/internal/config"
	"github.com/codepulse/codepulse/internal/parser"
)

// FlowAnalyzer runs reachability, cycle detection, and coupling analysis
// over the graphs built from one file's AST. Each Analyze* method is a pure
// function of its graph; no state survives between calls.
type FlowAnalyzer struct {
	BranchThreshold   int
	CouplingThreshold float64
}

// NewFlowAnalyzer creates a flow analyzer with default thresholds
func NewFlowAnalyzer() *FlowAnalyzer {
	return &FlowAnalyzer{
		BranchThreshold:   config.DefaultBranchThreshold,
		CouplingThreshold: config.DefaultCouplingThreshold,
	}
}

// AnalyzeDeep builds all three graphs from the AST and runs every graph
// analysis, returning the combined bundle with its quality score.
func (a *FlowAnalyzer) AnalyzeDeep(root *parser.Node) *domain.DeepAnalysisResult {
	cfg := BuildFlowGraph(root)
	dfg := BuildDataFlowGraph(root)
	callGraph := BuildCallGraph(root)

	result := &domain.DeepAnalysisResult{
		Flow:         a.AnalyzeFlow(cfg),
		DataFlow:     a.AnalyzeDataFlow(dfg),
		Dependencies: a.AnalyzeDependencies(callGraph),
		Structure:    AnalyzeStructure(root),
		Complexity:   ComputeGraphComplexity(cfg, dfg, callGraph),
	}
	result.QualityScore = qualityScore(result)
	return result
}

// AnalyzeFlow detects unreachable code, infinite loops, and dense branching
// in a control flow graph.
func (a *FlowAnalyzer) AnalyzeFlow(g *FlowGraph) domain.FlowResult {
	issues := []domain.Issue{}

	// Unreachable nodes are aggregated into one warning; one issue per
	// node would drown everything else.
	unreachable := unreachableNodes(g)
	if len(unreachable) > 0 {
		issues = append(issues, domain.Issue{
			Category: domain.CategoryUnreachableCode,
			Severity: domain.SeverityWarning,
			Message:  fmt.Sprintf("Found %d unreachable code blocks", len(unreachable)),
		})
	}

	cycles := findCycles(g.SortedIDs(), func(id int) []int {
		return g.Nodes[id].Successors
	})
	for _, cycle := range cycles {
		if !cycleHasExit(g, cycle) {
			issues = append(issues, domain.Issue{
				Category: domain.CategoryInfiniteLoop,
				Severity: domain.SeverityError,
				Message:  "Detected potential infinite loop",
			})
		}
	}

	branchPoints := 0
	for _, node := range g.Nodes {
		if len(node.Successors) > 1 {
			branchPoints++
		}
	}
	if branchPoints > a.BranchThreshold {
		issues = append(issues, domain.Issue{
			Category: domain.CategoryHighBranching,
			Severity: domain.SeverityWarning,
			Message:  fmt.Sprintf("High branching complexity: %d decision points", branchPoints),
		})
	}

	return domain.FlowResult{
		Issues:          issues,
		TotalNodes:      len(g.Nodes),
		TotalEdges:      g.EdgeCount,
		BranchPoints:    branchPoints,
		CyclomaticProxy: len(cycles) + 1,
	}
}

// AnalyzeDataFlow flags unused variables and use-before-definition. The
// use-before-definition check compares earliest lines only; independent
// branches can produce false positives, an accepted limitation.
func (a *FlowAnalyzer) AnalyzeDataFlow(g *DataFlowGraph) domain.DataFlowResult {
	issues := []domain.Issue{}

	for _, name := range g.SortedNames() {
		v := g.Variables[name]

		if len(v.DefinitionLines) > 0 && len(v.UseLines) == 0 {
			issues = append(issues, domain.Issue{
				Category: domain.CategoryUnusedVariable,
				Severity: domain.SeverityInfo,
				Variable: name,
				Message:  fmt.Sprintf("Variable %q defined but never used", name),
			})
		}

		if len(v.DefinitionLines) > 0 && len(v.UseLines) > 0 {
			if minInt(v.UseLines) < minInt(v.DefinitionLines) {
				issues = append(issues, domain.Issue{
					Category: domain.CategoryUseBeforeDef,
					Severity: domain.SeverityError,
					Variable: name,
					Message:  fmt.Sprintf("Variable %q used before definition", name),
				})
			}
		}
	}

	return domain.DataFlowResult{
		Issues:           issues,
		TotalVariables:   len(g.Variables),
		DataDependencies: g.DataDependencies(),
	}
}

// AnalyzeDependencies detects circular call chains and measures coupling
func (a *FlowAnalyzer) AnalyzeDependencies(g *CallGraph) domain.DependencyResult {
	issues := []domain.Issue{}

	names := g.SortedNames()
	index := make(map[string]int, len(names))
	for i, name := range names {
		index[name] = i
	}
	order := make([]int, len(names))
	for i := range names {
		order[i] = i
	}

	cycles := findCycles(order, func(i int) []int {
		callees := g.Functions[names[i]].Callees
		succ := make([]int, 0, len(callees))
		for _, callee := range callees {
			succ = append(succ, index[callee])
		}
		return succ
	})
	if len(cycles) > 0 {
		issues = append(issues, domain.Issue{
			Category: domain.CategoryCircularDependency,
			Severity: domain.SeverityWarning,
			Message:  fmt.Sprintf("Found %d circular dependencies", len(cycles)),
		})
	}

	avgCoupling := 0.0
	if len(g.Functions) > 0 {
		total := 0
		for _, fn := range g.Functions {
			total += fn.Degree()
		}
		avgCoupling = float64(total) / float64(len(g.Functions))

		if avgCoupling > a.CouplingThreshold {
			issues = append(issues, domain.Issue{
				Category: domain.CategoryHighCoupling,
				Severity: domain.SeverityWarning,
				Message:  fmt.Sprintf("High average coupling: %.1f connections per function", avgCoupling),
			})
		}
	}

	return domain.DependencyResult{
		Issues:               issues,
		TotalFunctions:       len(g.Functions),
		FunctionCalls:        g.EdgeCount,
		CircularDependencies: len(cycles),
		AverageCoupling:      round2(avgCoupling),
		MaxDependencyDepth:   callDepth(g),
	}
}

// AnalyzeStructure counts structural constructs and derives the structural
// complexity index: (functions + 2*classes + 1.5*loops + 1.2*conditions)
// averaged over the construct count.
func AnalyzeStructure(root *parser.Node) domain.StructureResult {
	var functions, classes, loops, conditions int
	if root != nil {
		root.Walk(func(n *parser.Node) bool {
			switch n.Kind {
			case parser.KindFunctionDef:
				functions++
			case parser.KindClassDef:
				classes++
			case parser.KindFor, parser.KindWhile:
				loops++
			case parser.KindIf:
				conditions++
			}
			return true
		})
	}

	total := functions + classes + loops + conditions
	sci := (float64(functions)*1.0 +
		float64(classes)*2.0 +
		float64(loops)*1.5 +
		float64(conditions)*1.2) / float64(maxInt(total, 1))

	return domain.StructureResult{
		Functions:                 functions,
		Classes:                   classes,
		Loops:                     loops,
		Conditions:                conditions,
		StructuralComplexityIndex: round2(sci),
	}
}

// ComputeGraphComplexity derives composite complexity from edge densities of
// the control and data flow graphs plus the call depth, weighted 0.4/0.3/0.3.
func ComputeGraphComplexity(cfg *FlowGraph, dfg *DataFlowGraph, callGraph *CallGraph) domain.GraphComplexity {
	graphComplexity := 0.0
	if len(cfg.Nodes) > 0 {
		graphComplexity = float64(cfg.EdgeCount) / float64(len(cfg.Nodes))
	}

	infoFlow := 0.0
	if len(dfg.Variables) > 0 {
		infoFlow = float64(dfg.DataDependencies()) / float64(len(dfg.Variables))
	}

	depth := callDepth(callGraph)

	combined := graphComplexity*0.4 + infoFlow*0.3 + float64(depth)*0.3

	return domain.GraphComplexity{
		GraphComplexity:    round2(graphComplexity),
		InfoFlowComplexity: round2(infoFlow),
		CallDepth:          depth,
		CombinedComplexity: round2(combined),
	}
}

// qualityScore composes a 0-100 score: 100 minus per-issue deductions, a
// combined-complexity penalty above 5, and a coupling penalty above 3.
func qualityScore(r *domain.DeepAnalysisResult) float64 {
	score := 100.0

	for _, issue := range r.AllIssues() {
		score -= issue.Severity.ScoreDeduction()
	}

	if r.Complexity.CombinedComplexity > 5 {
		score -= (r.Complexity.CombinedComplexity - 5) * 5
	}
	if r.Dependencies.AverageCoupling > 3 {
		score -= (r.Dependencies.AverageCoupling - 3) * 3
	}

	return math.Max(0, math.Min(100, score))
}

// unreachableNodes returns the ids not reachable from any in-degree-0 root,
// in ascending order. The traversal uses an explicit stack; depth never
// bounds it.
func unreachableNodes(g *FlowGraph) []int {
	if len(g.Nodes) == 0 {
		return nil
	}

	// A graph with no in-degree-0 node has no designated entry; the
	// unreachable check is meaningless there and is skipped.
	stack := g.Roots()
	if len(stack) == 0 {
		return nil
	}

	reachable := make(map[int]bool)
	for _, root := range stack {
		reachable[root] = true
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, succ := range g.Nodes[id].Successors {
			if !reachable[succ] {
				reachable[succ] = true
				stack = append(stack, succ)
			}
		}
	}

	var unreachable []int
	for _, id := range g.SortedIDs() {
		if !reachable[id] {
			unreachable = append(unreachable, id)
		}
	}
	return unreachable
}

// findCycles enumerates cycles via DFS with a recursion stack: a back edge
// to a node currently on the stack closes a cycle, sliced from the path at
// that node's position. Visiting order follows the given order slice so the
// result is deterministic.
func findCycles(order []int, successors func(int) []int) [][]int {
	var cycles [][]int
	visited := make(map[int]bool)
	onStack := make(map[int]bool)
	var path []int

	var dfs func(id int)
	dfs = func(id int) {
		visited[id] = true
		onStack[id] = true
		path = append(path, id)

		for _, succ := range successors(id) {
			if !visited[succ] {
				dfs(succ)
			} else if onStack[succ] {
				for i, n := range path {
					if n == succ {
						cycle := make([]int, len(path)-i)
						copy(cycle, path[i:])
						cycles = append(cycles, cycle)
						break
					}
				}
			}
		}

		path = path[:len(path)-1]
		onStack[id] = false
	}

	for _, id := range order {
		if !visited[id] {
			dfs(id)
		}
	}
	return cycles
}

// cycleHasExit reports whether any node in the cycle has a successor
// outside it. A cycle with no exit is a likely genuine infinite loop.
func cycleHasExit(g *FlowGraph, cycle []int) bool {
	inCycle := make(map[int]bool, len(cycle))
	for _, id := range cycle {
		inCycle[id] = true
	}
	for _, id := range cycle {
		for _, succ := range g.Nodes[id].Successors {
			if !inCycle[succ] {
				return true
			}
		}
	}
	return false
}

// callDepth returns the longest call chain length in edges, considering
// only acyclic chains. A function on or depending on a circular chain has
// no well-defined depth and contributes 0.
func callDepth(g *CallGraph) int {
	const (
		unvisited  = 0
		inProgress = 1
		done       = 2
	)

	state := make(map[string]int, len(g.Functions))
	depth := make(map[string]int, len(g.Functions))
	cyclic := make(map[string]bool, len(g.Functions))

	var walk func(name string) int
	walk = func(name string) int {
		switch state[name] {
		case done:
			return depth[name]
		case inProgress:
			cyclic[name] = true
			return 0
		}
		state[name] = inProgress

		best := 0
		for _, callee := range g.Functions[name].Callees {
			d := walk(callee) + 1
			if cyclic[callee] {
				cyclic[name] = true
			}
			if d > best {
				best = d
			}
		}

		state[name] = done
		if cyclic[name] {
			best = 0
		}
		depth[name] = best
		return best
	}

	max := 0
	for _, name := range g.SortedNames() {
		if d := walk(name); d > max && !cyclic[name] {
			max = d
		}
	}
	return max
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func minInt(values []int) int {
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
