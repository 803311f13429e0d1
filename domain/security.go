package domain

// SecurityLevel ranks how dangerous a vulnerability is
type SecurityLevel string

const (
	SecurityCritical SecurityLevel = "critical"
	SecurityHigh     SecurityLevel = "high"
	SecurityMedium   SecurityLevel = "medium"
	SecurityLow      SecurityLevel = "low"
)

// scoreWeight returns the deduction this level contributes to the security score
func (l SecurityLevel) scoreWeight() int {
	switch l {
	case SecurityCritical:
		return 10
	case SecurityHigh:
		return 5
	case SecurityMedium:
		return 2
	case SecurityLow:
		return 1
	default:
		return 0
	}
}

// VulnerabilityType categorizes a security finding
type VulnerabilityType string

const (
	VulnHardcodedSecret  VulnerabilityType = "hardcoded_secret"
	VulnSQLInjection     VulnerabilityType = "sql_injection"
	VulnCommandInjection VulnerabilityType = "command_injection"
	VulnWeakCrypto       VulnerabilityType = "weak_cryptography"
	VulnPathTraversal    VulnerabilityType = "path_traversal"
)

// SecurityIssue represents a security vulnerability found in code
type SecurityIssue struct {
	FilePath    string            `json:"file_path"`
	Line        int               `json:"line_number"`
	Severity    SecurityLevel     `json:"severity"`
	Type        VulnerabilityType `json:"vulnerability_type"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Remediation string            `json:"remediation"`
	Snippet     string            `json:"code_snippet,omitempty"`
	CWE         string            `json:"cwe_id,omitempty"`
}

// SecurityResult summarizes a security scan
type SecurityResult struct {
	Issues        []SecurityIssue           `json:"issues"`
	SecurityScore float64                   `json:"security_score"`
	BySeverity    map[SecurityLevel]int     `json:"severity_breakdown"`
	ByType        map[VulnerabilityType]int `json:"vulnerability_types"`
}

// NewSecurityResult computes the weighted security score from raw issues
func NewSecurityResult(issues []SecurityIssue) SecurityResult {
	bySeverity := make(map[SecurityLevel]int)
	byType := make(map[VulnerabilityType]int)
	weighted := 0

	for _, issue := range issues {
		bySeverity[issue.Severity]++
		byType[issue.Type]++
		weighted += issue.Severity.scoreWeight()
	}

	score := 100.0
	if len(issues) > 0 {
		score = float64(100 - weighted)
		if score < 0 {
			score = 0
		}
	}

	return SecurityResult{
		Issues:        issues,
		SecurityScore: score,
		BySeverity:    bySeverity,
		ByType:        byType,
	}
}
