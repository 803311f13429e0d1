package domain

// OutputFormat specifies how analysis results are rendered
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)

// IsValid reports whether the format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case OutputFormatText, OutputFormatJSON:
		return true
	}
	return false
}
