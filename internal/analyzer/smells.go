package analyzer

import (
	"fmt"

	"github.com/codepulse/codepulse/domain"
	"github.com/codepulse/codepulse/internal/config"
	"github.com/codepulse/codepulse/internal/parser"
)

// SmellDetector flags bloater smells: long functions, long parameter lists,
// and oversized classes.
type SmellDetector struct {
	LongFunctionLines int
	MaxParameters     int
}

// NewSmellDetector creates a smell detector with default thresholds
func NewSmellDetector() *SmellDetector {
	return &SmellDetector{
		LongFunctionLines: config.DefaultLongFunctionLines,
		MaxParameters:     config.DefaultMaxParameters,
	}
}

// Detect walks the tree and reports every smell found
func (d *SmellDetector) Detect(filePath string, root *parser.Node) *domain.SmellResult {
	smells := []domain.CodeSmell{}
	if root == nil {
		return &domain.SmellResult{Smells: smells}
	}

	root.Walk(func(n *parser.Node) bool {
		switch n.Kind {
		case parser.KindFunctionDef:
			length := n.EndLine - n.Line
			if length > d.LongFunctionLines {
				severity := domain.CloneSeverityMedium
				if length > 2*d.LongFunctionLines {
					severity = domain.CloneSeverityHigh
				}
				smells = append(smells, domain.CodeSmell{
					FilePath:    filePath,
					Line:        n.Line,
					Category:    domain.SmellBloater,
					Name:        "Long Method",
					Severity:    severity,
					Description: fmt.Sprintf("Function %q is %d lines long", n.Name, length),
					Suggestion:  "Extract smaller methods. Aim for under 30 lines per function.",
				})
			}

			if count := len(n.Args); count > d.MaxParameters {
				smells = append(smells, domain.CodeSmell{
					FilePath:    filePath,
					Line:        n.Line,
					Category:    domain.SmellBloater,
					Name:        "Long Parameter List",
					Severity:    domain.CloneSeverityMedium,
					Description: fmt.Sprintf("Function %q has %d parameters", n.Name, count),
					Suggestion:  "Use parameter objects or configuration structs.",
				})
			}

		case parser.KindClassDef:
			size := n.EndLine - n.Line
			methods := 0
			for _, stmt := range n.Body {
				if stmt.Kind == parser.KindFunctionDef {
					methods++
				}
			}
			if size > 300 || methods > 20 {
				smells = append(smells, domain.CodeSmell{
					FilePath:    filePath,
					Line:        n.Line,
					Category:    domain.SmellBloater,
					Name:        "Large Class",
					Severity:    domain.CloneSeverityHigh,
					Description: fmt.Sprintf("Class %q has %d lines and %d methods", n.Name, size, methods),
					Suggestion:  "Split into smaller, focused classes.",
				})
			}
		}
		return true
	})

	return &domain.SmellResult{Smells: smells}
}
