package analyzer

import (
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/codepulse/codepulse/domain"
	"github.com/codepulse/codepulse/internal/parser"
)

// DetectStructural finds Type-2 clones: function pairs whose structural
// fingerprints align above the threshold. Fingerprints discard identifier
// and literal text, so renaming every variable leaves them unchanged.
func (d *CloneDetector) DetectStructural(filePath string, root *parser.Node) []domain.CloneRecord {
	functions := root.FindByKind(parser.KindFunctionDef)

	fingerprints := make([]string, len(functions))
	for i, fn := range functions {
		fingerprints[i] = structuralFingerprint(fn)
	}

	var clones []domain.CloneRecord
	for i := 0; i < len(functions); i++ {
		for j := i + 1; j < len(functions); j++ {
			similarity := fingerprintSimilarity(fingerprints[i], fingerprints[j])
			if similarity <= d.StructuralThreshold {
				continue
			}

			size := functions[i].EndLine - functions[i].Line
			if size < 1 {
				size = 1
			}
			clones = append(clones, domain.CloneRecord{
				Type: domain.Type2Clone,
				Location1: domain.CloneLocation{
					FilePath:  filePath,
					StartLine: functions[i].Line,
					EndLine:   functions[i].EndLine,
				},
				Location2: domain.CloneLocation{
					FilePath:  filePath,
					StartLine: functions[j].Line,
					EndLine:   functions[j].EndLine,
				},
				Similarity: similarity * 100,
				Size:       size,
				Severity:   domain.CloneSeverityMedium,
			})
		}
	}
	return clones
}

// structuralFingerprint flattens a subtree into a string of node-kind tags.
// Loops normalize to LOOP and conditionals to COND regardless of concrete
// kind; binary operators keep their operator token. Identifier and literal
// text never enters the fingerprint.
func structuralFingerprint(fn *parser.Node) string {
	var sb strings.Builder

	stack := []*parser.Node{fn}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		sb.WriteString(string(node.Kind))
		switch node.Kind {
		case parser.KindFor, parser.KindWhile:
			sb.WriteString("LOOP")
		case parser.KindIf:
			sb.WriteString("COND")
		case parser.KindBinOp:
			sb.WriteString(node.Op)
		}

		children := node.ChildNodes()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return sb.String()
}

// fingerprintSimilarity scores two fingerprints in [0,1] as an alignment
// ratio: twice the longest common subsequence over the combined length.
func fingerprintSimilarity(f1, f2 string) float64 {
	if f1 == "" || f2 == "" {
		return 0
	}
	lcs := edlib.LCS(f1, f2)
	return 2 * float64(lcs) / float64(len(f1)+len(f2))
}
