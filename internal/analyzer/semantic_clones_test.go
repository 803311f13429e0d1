package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codepulse/codepulse/domain"
)

func TestDetectSemanticClones(t *testing.T) {
	detector := NewSemanticCloneDetector()

	t.Run("SameBehaviorDifferentShape", func(t *testing.T) {
		// Both sum with + in a loop, call log, and return a name;
		// the loop constructs and variable names differ.
		root := parseSource(t, `
def sum_for(values):
    total = 0
    for v in values:
        total = total + v
    log(total)
    return total

def sum_while(numbers):
    acc = 0
    i = 0
    while i < len(numbers):
        acc = acc + numbers[i]
        i += 1
    log(acc)
    return acc
`)
		clones := detector.Detect("sums.py", root)

		require.Len(t, clones, 1)
		assert.Equal(t, domain.Type4Clone, clones[0].Type)
		assert.Greater(t, clones[0].Similarity, 70.0)
	})

	t.Run("UnrelatedBehaviorNotFlagged", func(t *testing.T) {
		root := parseSource(t, `
def multiply(a, b):
    return a * b

def report(events):
    for e in events:
        if e:
            emit(e)
`)
		clones := detector.Detect("mixed.py", root)
		assert.Empty(t, clones)
	})
}

func TestCompareBehaviors(t *testing.T) {
	full := &behaviorFingerprint{
		operations:  []string{"+"},
		returnsKind: "Name",
		callees:     map[string]bool{"log": true},
		usesLoops:   true,
	}
	same := &behaviorFingerprint{
		operations:  []string{"+"},
		returnsKind: "Name",
		callees:     map[string]bool{"log": true, "extra": true},
		usesLoops:   true,
	}

	assert.Equal(t, 1.0, compareBehaviors(full, same))

	differentOps := &behaviorFingerprint{
		operations:  []string{"*"},
		returnsKind: "Name",
		callees:     map[string]bool{"log": true},
		usesLoops:   true,
	}
	assert.InDelta(t, 0.70, compareBehaviors(full, differentOps), 1e-9)
}
