package domain

// FlowResult summarizes control flow analysis for one file.
// All fields are plain data; nothing references the underlying graph.
type FlowResult struct {
	Issues          []Issue `json:"issues"`
	TotalNodes      int     `json:"total_nodes"`
	TotalEdges      int     `json:"total_edges"`
	BranchPoints    int     `json:"branch_points"`
	CyclomaticProxy int     `json:"cyclomatic_complexity"`
}

// DataFlowResult summarizes data flow analysis for one file
type DataFlowResult struct {
	Issues           []Issue `json:"issues"`
	TotalVariables   int     `json:"total_variables"`
	DataDependencies int     `json:"data_dependencies"`
}

// DependencyResult summarizes call graph analysis for one file
type DependencyResult struct {
	Issues               []Issue `json:"issues"`
	TotalFunctions       int     `json:"total_functions"`
	FunctionCalls        int     `json:"function_calls"`
	CircularDependencies int     `json:"circular_dependencies"`
	AverageCoupling      float64 `json:"average_coupling"`
	MaxDependencyDepth   int     `json:"max_dependency_depth"`
}

// StructureResult holds structural node counts for one file
type StructureResult struct {
	Functions                 int     `json:"functions"`
	Classes                   int     `json:"classes"`
	Loops                     int     `json:"loops"`
	Conditions                int     `json:"conditions"`
	StructuralComplexityIndex float64 `json:"structural_complexity_index"`
}

// GraphComplexity holds composite complexity derived from the three graphs
type GraphComplexity struct {
	GraphComplexity    float64 `json:"graph_complexity"`
	InfoFlowComplexity float64 `json:"information_flow_complexity"`
	CallDepth          int     `json:"call_depth"`
	CombinedComplexity float64 `json:"combined_complexity_score"`
}

// DeepAnalysisResult bundles every graph-based analysis for one file
type DeepAnalysisResult struct {
	FilePath     string           `json:"file_path"`
	Flow         FlowResult       `json:"control_flow_analysis"`
	DataFlow     DataFlowResult   `json:"data_flow_analysis"`
	Dependencies DependencyResult `json:"dependency_analysis"`
	Structure    StructureResult  `json:"structural_analysis"`
	Complexity   GraphComplexity  `json:"complexity_metrics"`
	QualityScore float64          `json:"code_quality_score"`
}

// AllIssues returns the issues from every graph analysis combined
func (r *DeepAnalysisResult) AllIssues() []Issue {
	issues := make([]Issue, 0, len(r.Flow.Issues)+len(r.DataFlow.Issues)+len(r.Dependencies.Issues))
	issues = append(issues, r.Flow.Issues...)
	issues = append(issues, r.DataFlow.Issues...)
	issues = append(issues, r.Dependencies.Issues...)
	return issues
}
