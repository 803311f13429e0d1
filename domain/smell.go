package domain

// SmellCategory groups code smells following the classic taxonomy
type SmellCategory string

const (
	SmellBloater SmellCategory = "Bloater"
	SmellCoupler SmellCategory = "Coupler"
)

// CodeSmell represents a design-level problem in the analyzed code
type CodeSmell struct {
	FilePath    string        `json:"file_path"`
	Line        int           `json:"line"`
	Category    SmellCategory `json:"category"`
	Name        string        `json:"name"`
	Severity    CloneSeverity `json:"severity"`
	Description string        `json:"description"`
	Suggestion  string        `json:"suggestion"`
}

// SmellResult summarizes a smell detection run
type SmellResult struct {
	Smells []CodeSmell `json:"smells"`
}
