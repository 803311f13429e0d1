package analyzer

import (
	"github.com/codepulse/codepulse/domain"
	"github.com/codepulse/codepulse/internal/config"
	"github.com/codepulse/codepulse/internal/parser"
)

// SemanticCloneDetector finds Type-4 clones: functions that appear to do the
// same thing written differently. The comparison is a heuristic fingerprint
// match, not a behavioral equivalence proof.
type SemanticCloneDetector struct {
	Threshold float64
}

// NewSemanticCloneDetector creates a detector with the default threshold
func NewSemanticCloneDetector() *SemanticCloneDetector {
	return &SemanticCloneDetector{Threshold: config.DefaultSemanticSimilarityThreshold}
}

// behaviorFingerprint captures what a function does rather than how it is
// written: its arithmetic, what it returns, what it calls, and whether it
// loops or branches.
type behaviorFingerprint struct {
	operations     []string
	returnsKind    parser.NodeKind
	callees        map[string]bool
	usesLoops      bool
	usesConditions bool
}

// Detect compares every function pair and reports those whose behavior
// fingerprints score above the threshold.
func (d *SemanticCloneDetector) Detect(filePath string, root *parser.Node) []domain.CloneRecord {
	functions := root.FindByKind(parser.KindFunctionDef)

	fingerprints := make([]*behaviorFingerprint, len(functions))
	for i, fn := range functions {
		fingerprints[i] = analyzeBehavior(fn)
	}

	var clones []domain.CloneRecord
	for i := 0; i < len(functions); i++ {
		for j := i + 1; j < len(functions); j++ {
			similarity := compareBehaviors(fingerprints[i], fingerprints[j])
			if similarity <= d.Threshold {
				continue
			}

			size := functions[i].EndLine - functions[i].Line
			if size < 1 {
				size = 1
			}
			clones = append(clones, domain.CloneRecord{
				Type: domain.Type4Clone,
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

// analyzeBehavior walks the function with an explicit stack and collects
// its behavior fingerprint.
func analyzeBehavior(fn *parser.Node) *behaviorFingerprint {
	fp := &behaviorFingerprint{callees: make(map[string]bool)}

	stack := []*parser.Node{fn}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch node.Kind {
		case parser.KindBinOp:
			fp.operations = append(fp.operations, node.Op)
		case parser.KindReturn:
			if node.Value != nil {
				fp.returnsKind = node.Value.Kind
			}
		case parser.KindCall:
			if node.Value != nil && node.Value.Kind == parser.KindName {
				fp.callees[node.Value.Name] = true
			}
		case parser.KindFor, parser.KindWhile:
			fp.usesLoops = true
		case parser.KindIf:
			fp.usesConditions = true
		}

		children := node.ChildNodes()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return fp
}

// compareBehaviors scores two fingerprints in [0,1]. Weights: operator
// sequence 0.30, return kind 0.20, shared callees 0.25, loop presence
// 0.125, conditional presence 0.125.
func compareBehaviors(b1, b2 *behaviorFingerprint) float64 {
	score := 0.0

	if equalStringSlices(b1.operations, b2.operations) {
		score += 0.30
	}
	if b1.returnsKind == b2.returnsKind {
		score += 0.20
	}
	if intersects(b1.callees, b2.callees) {
		score += 0.25
	}
	if b1.usesLoops == b2.usesLoops {
		score += 0.125
	}
	if b1.usesConditions == b2.usesConditions {
		score += 0.125
	}
	return score
}

func equalStringSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func intersects(a, b map[string]bool) bool {
	for k := range a {
		if b[k] {
			return true
		}
	}
	return false
}
