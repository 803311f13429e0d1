package domain

// Severity classifies how serious a finding is
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ScoreDeduction returns how many points a finding of this severity
// removes from the quality score
func (s Severity) ScoreDeduction() float64 {
	switch s {
	case SeverityError:
		return 10
	case SeverityWarning:
		return 5
	case SeverityInfo:
		return 2
	default:
		return 0
	}
}

// IssueCategory identifies which analysis produced an issue
type IssueCategory string

const (
	CategoryUnreachableCode    IssueCategory = "unreachable_code"
	CategoryInfiniteLoop       IssueCategory = "potential_infinite_loop"
	CategoryHighBranching      IssueCategory = "high_branching"
	CategoryUnusedVariable     IssueCategory = "unused_variable"
	CategoryUseBeforeDef       IssueCategory = "use_before_definition"
	CategoryCircularDependency IssueCategory = "circular_dependency"
	CategoryHighCoupling       IssueCategory = "high_coupling"
)

// Issue is a single finding about the analyzed code. Issues describe the
// target code, never failures of the scanner itself.
type Issue struct {
	Category IssueCategory `json:"type"`
	Severity Severity      `json:"severity"`
	Message  string        `json:"message"`
	Variable string        `json:"variable,omitempty"`
	Line     int           `json:"line,omitempty"`
}
