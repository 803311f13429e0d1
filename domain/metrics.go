package domain

import "math"

// HalsteadMetrics holds the classic software-science operator/operand counts.
// The derived values follow the standard Halstead formulas.
type HalsteadMetrics struct {
	DistinctOperators int `json:"n1"` // n1
	DistinctOperands  int `json:"n2"` // n2
	TotalOperators    int `json:"N1"` // N1
	TotalOperands     int `json:"N2"` // N2
}

// Vocabulary returns n1 + n2
func (h HalsteadMetrics) Vocabulary() int {
	return h.DistinctOperators + h.DistinctOperands
}

// Length returns N1 + N2
func (h HalsteadMetrics) Length() int {
	return h.TotalOperators + h.TotalOperands
}

// Volume returns length * log2(vocabulary)
func (h HalsteadMetrics) Volume() float64 {
	vocab := h.Vocabulary()
	if vocab == 0 {
		return 0
	}
	return float64(h.Length()) * math.Log2(float64(vocab))
}

// Difficulty returns (n1/2) * (N2/n2)
func (h HalsteadMetrics) Difficulty() float64 {
	if h.DistinctOperands == 0 || h.TotalOperands == 0 {
		return 0
	}
	return (float64(h.DistinctOperators) / 2) * (float64(h.TotalOperands) / float64(h.DistinctOperands))
}

// Effort returns difficulty * volume
func (h HalsteadMetrics) Effort() float64 {
	return h.Difficulty() * h.Volume()
}

// EstimatedBugs returns volume / 3000
func (h HalsteadMetrics) EstimatedBugs() float64 {
	return h.Volume() / 3000
}

// ComplexityMetrics holds the per-file complexity measurements
type ComplexityMetrics struct {
	Cyclomatic        int     `json:"cyclomatic_complexity"`
	Cognitive         int     `json:"cognitive_complexity"`
	Essential         int     `json:"essential_complexity"`
	MaxNestingDepth   int     `json:"max_nesting_depth"`
	AverageComplexity float64 `json:"average_complexity"`
}

// Score converts complexity into a 0-100 penalty-based score
func (c ComplexityMetrics) Score() float64 {
	score := 100.0

	switch {
	case c.Cyclomatic > 50:
		score -= 30
	case c.Cyclomatic > 30:
		score -= 20
	case c.Cyclomatic > 15:
		score -= 10
	}

	switch {
	case c.Cognitive > 40:
		score -= 25
	case c.Cognitive > 25:
		score -= 15
	}

	switch {
	case c.MaxNestingDepth > 5:
		score -= 15
	case c.MaxNestingDepth > 3:
		score -= 10
	}

	return math.Max(0, score)
}

// MaintainabilityMetrics holds documentation and maintainability measurements
type MaintainabilityMetrics struct {
	MaintainabilityIndex float64 `json:"maintainability_index"`
	CommentRatio         float64 `json:"comment_ratio"`
	DocumentationRatio   float64 `json:"documentation_ratio"`
}

// Grade maps the maintainability index to a letter band
func (m MaintainabilityMetrics) Grade() string {
	switch {
	case m.MaintainabilityIndex >= 85:
		return "A - Highly Maintainable"
	case m.MaintainabilityIndex >= 70:
		return "B - Moderately Maintainable"
	case m.MaintainabilityIndex >= 50:
		return "C - Difficult to Maintain"
	default:
		return "D - Very Difficult to Maintain"
	}
}

// MetricsResult bundles all numeric metrics for one file
type MetricsResult struct {
	Halstead        HalsteadMetrics        `json:"halstead"`
	Complexity      ComplexityMetrics      `json:"complexity"`
	Maintainability MaintainabilityMetrics `json:"maintainability"`
	TechnicalDebt   float64                `json:"technical_debt_minutes"`
	LinesOfCode     int                    `json:"lines_of_code"`
	OverallScore    float64                `json:"overall_quality_score"`
}
