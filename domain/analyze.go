package domain

import (
	"io"
	"time"
)

// AnalyzeRequest describes a full analysis run
type AnalyzeRequest struct {
	Paths           []string
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	OutputFormat OutputFormat
	OutputWriter io.Writer

	MinCloneLines       int
	ShowProgress        bool
	SkipClones          bool
	SkipSecurity        bool
	SkipSmells          bool
	CrossFileComparison bool
}

// FileReport bundles every detector's output for a single file. A detector
// that failed internally leaves its section nil and records the failure in
// Degraded; the rest of the bundle is still valid.
type FileReport struct {
	FilePath string              `json:"file_path"`
	Deep     *DeepAnalysisResult `json:"deep_analysis,omitempty"`
	Clones   *CloneResult        `json:"clones,omitempty"`
	Metrics  *MetricsResult      `json:"metrics,omitempty"`
	Security *SecurityResult     `json:"security,omitempty"`
	Smells   *SmellResult        `json:"smells,omitempty"`
	Degraded []string            `json:"degraded_sections,omitempty"`
	Skipped  bool                `json:"skipped,omitempty"`
	SkipWhy  string              `json:"skip_reason,omitempty"`
}

// AnalyzeResponse is the aggregated project-level report
type AnalyzeResponse struct {
	ScanDate      time.Time     `json:"scan_date"`
	Files         []*FileReport `json:"files"`
	TotalFiles    int           `json:"total_files"`
	SkippedFiles  int           `json:"skipped_files"`
	TotalLines    int           `json:"total_lines"`
	QualityScore  float64       `json:"avg_quality_score"`
	SecurityScore float64       `json:"security_score"`
	OverallScore  float64       `json:"overall_score"`
	Grade         string        `json:"grade"`
	TotalIssues   int           `json:"total_issues"`
	TotalClones   int           `json:"total_clones"`
	CrossFile     []CloneRecord `json:"cross_file_clones,omitempty"`
}

// GradeFor maps a 0-100 score to the letter grade bands
func GradeFor(score float64) string {
	switch {
	case score >= 90:
		return "A+ Excellent"
	case score >= 85:
		return "A Very Good"
	case score >= 80:
		return "B+ Good"
	case score >= 75:
		return "B Fair"
	case score >= 70:
		return "C+ Needs Improvement"
	case score >= 60:
		return "C Weak"
	default:
		return "D Needs Serious Work"
	}
}

// FileReader abstracts source file discovery and reading
type FileReader interface {
	CollectPythonFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error)
	ReadFile(path string) ([]byte, error)
	IsValidPythonFile(path string) bool
}

// OutputFormatter renders an AnalyzeResponse for human or machine consumption
type OutputFormatter interface {
	Write(response *AnalyzeResponse, format OutputFormat, writer io.Writer) error
}

// ProgressReporter reports batch progress to the user
type ProgressReporter interface {
	StartAnalysis(totalFiles int)
	FileCompleted(path string)
	FileSkipped(path string, reason string)
	Finish()
}
