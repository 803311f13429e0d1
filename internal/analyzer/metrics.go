package analyzer

import (
	"math"
	"strings"

	"github.com/codepulse/codepulse/domain"
	"github.com/codepulse/codepulse/internal/parser"
)

// MetricsCalculator derives Halstead, complexity, and maintainability
// metrics from the AST and raw source. Stateless; every method is a pure
// function of its inputs.
type MetricsCalculator struct{}

// NewMetricsCalculator creates a metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// Calculate produces the full metrics bundle for one file
func (c *MetricsCalculator) Calculate(root *parser.Node, source []byte) *domain.MetricsResult {
	halstead := c.CalculateHalstead(root)
	complexity := c.CalculateComplexity(root)
	maintainability := c.CalculateMaintainability(root, source)

	lines := splitLines(source)
	debt := c.EstimateTechnicalDebt(complexity, maintainability, len(lines))

	overall := complexity.Score()*0.4 + maintainability.MaintainabilityIndex*0.6

	return &domain.MetricsResult{
		Halstead:        halstead,
		Complexity:      complexity,
		Maintainability: maintainability,
		TechnicalDebt:   debt,
		LinesOfCode:     len(lines),
		OverallScore:    round2(overall),
	}
}

// CalculateHalstead counts operator and operand occurrences. Operators are
// binary/unary/boolean/comparison operator tokens, calls, and assignments;
// operands are name loads and literal constants.
func (c *MetricsCalculator) CalculateHalstead(root *parser.Node) domain.HalsteadMetrics {
	operators := make(map[string]bool)
	operands := make(map[string]bool)
	operatorCount := 0
	operandCount := 0

	if root != nil {
		root.Walk(func(n *parser.Node) bool {
			switch n.Kind {
			case parser.KindBinOp, parser.KindUnaryOp, parser.KindBoolOp:
				operators[n.Op] = true
				operatorCount++
			case parser.KindCompare:
				// A chained comparison carries one operator per link
				for _, op := range n.Ops {
					operators[op] = true
					operatorCount++
				}
			case parser.KindCall:
				operators["Call"] = true
				operatorCount++
			case parser.KindAssign, parser.KindAugAssign:
				operators["Assign"] = true
				operatorCount++
			case parser.KindName:
				operands[n.Name] = true
				operandCount++
			case parser.KindConstant:
				operands[n.Name] = true
				operandCount++
			}
			return true
		})
	}

	return domain.HalsteadMetrics{
		DistinctOperators: len(operators),
		DistinctOperands:  len(operands),
		TotalOperators:    operatorCount,
		TotalOperands:     operandCount,
	}
}

// CalculateComplexity computes cyclomatic, cognitive, essential, and
// nesting-depth complexity for the whole file.
func (c *MetricsCalculator) CalculateComplexity(root *parser.Node) domain.ComplexityMetrics {
	cyclomatic := cyclomaticComplexity(root)
	functionCount := 0
	if root != nil {
		functionCount = len(root.FindByKind(parser.KindFunctionDef))
	}

	return domain.ComplexityMetrics{
		Cyclomatic:        cyclomatic,
		Cognitive:         cognitiveComplexity(root),
		Essential:         essentialComplexity(root),
		MaxNestingDepth:   maxNestingDepth(root),
		AverageComplexity: float64(cyclomatic) / float64(maxInt(functionCount, 1)),
	}
}

// cyclomaticComplexity is base 1 plus one per decision point. An elif chain
// parses as a nested If in the else branch and contributes one extra point
// per link.
func cyclomaticComplexity(root *parser.Node) int {
	complexity := 1
	if root == nil {
		return complexity
	}

	root.Walk(func(n *parser.Node) bool {
		switch n.Kind {
		case parser.KindIf, parser.KindWhile, parser.KindFor,
			parser.KindExceptHandler, parser.KindWith, parser.KindAssert,
			parser.KindBoolOp:
			complexity++
		}
		if n.Kind == parser.KindIf && len(n.Orelse) > 0 && n.Orelse[0].Kind == parser.KindIf {
			complexity++
		}
		return true
	})
	return complexity
}

// cognitiveComplexity accumulates 1 + nesting depth per conditional or loop,
// the boolean operand count minus one per boolean expression, and one per
// direct name call. Iterative with a (node, depth) work stack so deep trees
// cannot exhaust the goroutine stack.
func cognitiveComplexity(root *parser.Node) int {
	if root == nil {
		return 0
	}

	type frame struct {
		node  *parser.Node
		depth int
	}

	complexity := 0
	stack := []frame{{root, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		childDepth := f.depth
		switch f.node.Kind {
		case parser.KindIf, parser.KindWhile, parser.KindFor:
			complexity += 1 + f.depth
			childDepth++
		case parser.KindBoolOp:
			if operands := len(f.node.Children); operands > 1 {
				complexity += operands - 1
			}
		case parser.KindCall:
			if f.node.Value != nil && f.node.Value.Kind == parser.KindName {
				complexity++
			}
		}

		children := f.node.ChildNodes()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{children[i], childDepth})
		}
	}
	return complexity
}

// essentialComplexity approximates unstructured flow: base 1 plus one per
// break, continue, or return.
func essentialComplexity(root *parser.Node) int {
	complexity := 1
	if root == nil {
		return complexity
	}

	root.Walk(func(n *parser.Node) bool {
		switch n.Kind {
		case parser.KindBreak, parser.KindContinue, parser.KindReturn:
			complexity++
		}
		return true
	})
	return complexity
}

// maxNestingDepth is the deepest stacking of if/while/for/with/try blocks
func maxNestingDepth(root *parser.Node) int {
	if root == nil {
		return 0
	}

	type frame struct {
		node  *parser.Node
		depth int
	}

	max := 0
	stack := []frame{{root, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.depth > max {
			max = f.depth
		}

		childDepth := f.depth
		switch f.node.Kind {
		case parser.KindIf, parser.KindWhile, parser.KindFor, parser.KindWith, parser.KindTry:
			childDepth++
		}

		children := f.node.ChildNodes()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{children[i], childDepth})
		}
	}
	return max
}

// CalculateMaintainability derives comment/docstring ratios and the
// maintainability index MI = 171 - 5.2*ln(V) - 0.23*G - 16.2*ln(LOC),
// clamped to [0,100]. Zero volume or zero code lines defaults to 50.
func (c *MetricsCalculator) CalculateMaintainability(root *parser.Node, source []byte) domain.MaintainabilityMetrics {
	lines := splitLines(source)

	commentLines := 0
	codeLines := 0
	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}
		if strings.HasPrefix(stripped, "#") {
			commentLines++
		} else {
			codeLines++
		}
	}
	commentRatio := float64(commentLines) / float64(maxInt(len(lines), 1))

	docstrings := 0
	documentable := 0
	if root != nil {
		root.Walk(func(n *parser.Node) bool {
			switch n.Kind {
			case parser.KindFunctionDef, parser.KindClassDef:
				documentable++
				if hasDocstring(n) {
					docstrings++
				}
			case parser.KindModule:
				if hasDocstring(n) {
					docstrings++
				}
			}
			return true
		})
	}
	docRatio := float64(docstrings) / float64(maxInt(documentable, 1))

	volume := c.CalculateHalstead(root).Volume()
	cyclomatic := cyclomaticComplexity(root)

	mi := 50.0
	if volume > 0 && codeLines > 0 {
		mi = 171 - 5.2*math.Log(volume) - 0.23*float64(cyclomatic) - 16.2*math.Log(float64(codeLines))
		mi = math.Max(0, math.Min(100, mi))
	}

	return domain.MaintainabilityMetrics{
		MaintainabilityIndex: mi,
		CommentRatio:         commentRatio,
		DocumentationRatio:   docRatio,
	}
}

// hasDocstring reports whether a module/function/class body starts with a
// string literal expression.
func hasDocstring(n *parser.Node) bool {
	if len(n.Body) == 0 {
		return false
	}
	first := n.Body[0]
	if first.Kind != parser.KindExpr || first.Value == nil {
		return false
	}
	v := first.Value
	return v.Kind == parser.KindConstant &&
		(strings.HasPrefix(v.Name, `"`) || strings.HasPrefix(v.Name, "'"))
}

// EstimateTechnicalDebt estimates remediation time in minutes following the
// SQALE-style thresholds: excess cyclomatic and cognitive complexity, low
// maintainability, thin documentation, and oversized files all add time.
// Every term contributes only when its threshold is crossed.
func (c *MetricsCalculator) EstimateTechnicalDebt(complexity domain.ComplexityMetrics, maintainability domain.MaintainabilityMetrics, linesOfCode int) float64 {
	debt := 0.0

	if complexity.Cyclomatic > 10 {
		debt += float64(complexity.Cyclomatic-10) * 5
	}
	if complexity.Cognitive > 15 {
		debt += float64(complexity.Cognitive-15) * 3
	}
	if maintainability.MaintainabilityIndex < 65 {
		debt += (65 - maintainability.MaintainabilityIndex) * 2
	}
	if maintainability.DocumentationRatio < 0.5 {
		debt += (0.5 - maintainability.DocumentationRatio) * 100
	}
	if linesOfCode > 500 {
		debt += float64(linesOfCode-500) * 0.1
	}
	return debt
}
