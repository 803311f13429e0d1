package domain

import "fmt"

// CloneType represents different types of code clones
type CloneType int

const (
	// Type1Clone - identical code fragments (except whitespace and comments)
	Type1Clone CloneType = iota + 1
	// Type2Clone - syntactically identical but with different identifiers
	Type2Clone
	// Type3Clone - near-miss clones; not implemented by this scanner
	Type3Clone
	// Type4Clone - functionally similar but syntactically different
	Type4Clone
)

// String returns string representation of CloneType
func (ct CloneType) String() string {
	switch ct {
	case Type1Clone:
		return "Type-1 (Identical)"
	case Type2Clone:
		return "Type-2 (Renamed)"
	case Type3Clone:
		return "Type-3 (Near-Miss)"
	case Type4Clone:
		return "Type-4 (Semantic)"
	default:
		return "Unknown"
	}
}

// CloneSeverity tiers a clone by how costly it is to leave in place
type CloneSeverity string

const (
	CloneSeverityHigh   CloneSeverity = "HIGH"
	CloneSeverityMedium CloneSeverity = "MEDIUM"
)

// CloneLocation is one side of a clone pair
type CloneLocation struct {
	FilePath  string `json:"file"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

// String returns string representation of CloneLocation
func (cl CloneLocation) String() string {
	return fmt.Sprintf("%s:%d-%d", cl.FilePath, cl.StartLine, cl.EndLine)
}

// CloneRecord is a single detected duplicate pair. Records are created once
// per detection run and never mutated.
type CloneRecord struct {
	Type       CloneType     `json:"type"`
	Location1  CloneLocation `json:"location1"`
	Location2  CloneLocation `json:"location2"`
	Similarity float64       `json:"similarity"` // 0-100
	Size       int           `json:"size"`       // line count
	Severity   CloneSeverity `json:"severity"`
}

// CloneResult collects every clone found in one detection run
type CloneResult struct {
	Clones               []CloneRecord `json:"clones"`
	TotalDuplicatedLines int           `json:"total_duplicated_lines"`
}

// CountBySeverity returns the number of clones at each severity tier
func (r *CloneResult) CountBySeverity() map[CloneSeverity]int {
	counts := make(map[CloneSeverity]int)
	for _, c := range r.Clones {
		counts[c.Severity]++
	}
	return counts
}

// CountByType returns the number of clones of each type
func (r *CloneResult) CountByType() map[CloneType]int {
	counts := make(map[CloneType]int)
	for _, c := range r.Clones {
		counts[c.Type]++
	}
	return counts
}
