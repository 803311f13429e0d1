package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codepulse/codepulse/domain"
)

const duplicatedPair = `def first(data):
    a = data[0]
    b = data[1]
    c = a + b
    d = a - b
    e = c * d
    f = c / d
    g = e + f
    return g

def second(data):
    a = data[0]
    b = data[1]
    c = a + b
    d = a - b
    e = c * d
    f = c / d
    g = e + f
    return g
`

func TestDetectExact(t *testing.T) {
	detector := NewCloneDetector()

	t.Run("EightLineDuplicateReportedOnce", func(t *testing.T) {
		clones := detector.DetectExact("dup.py", []byte(duplicatedPair))

		require.Len(t, clones, 1, "overlapping windows must merge into one record")
		clone := clones[0]
		assert.Equal(t, domain.Type1Clone, clone.Type)
		assert.Equal(t, 8, clone.Size)
		assert.Equal(t, domain.CloneSeverityMedium, clone.Severity)
		assert.Equal(t, 100.0, clone.Similarity)
	})

	t.Run("LocationsUseRealLineNumbers", func(t *testing.T) {
		clones := detector.DetectExact("dup.py", []byte(duplicatedPair))

		require.Len(t, clones, 1)
		assert.Equal(t, 2, clones[0].Location1.StartLine)
		assert.Equal(t, 9, clones[0].Location1.EndLine)
		assert.Equal(t, 12, clones[0].Location2.StartLine)
		assert.Equal(t, 19, clones[0].Location2.EndLine)
	})

	t.Run("BlankAndCommentLinesIgnored", func(t *testing.T) {
		// Interleaving blanks and comments must not break the match.
		spaced := strings.ReplaceAll(duplicatedPair, "    c = a + b\n", "\n    # combine\n    c = a + b\n")
		clones := detector.DetectExact("dup.py", []byte(spaced))

		require.Len(t, clones, 1)
		assert.Equal(t, 8, clones[0].Size)
	})

	t.Run("NoCloneBelowWindow", func(t *testing.T) {
		clones := detector.DetectExact("small.py", []byte("x = 1\ny = 2\nx = 1\ny = 2\n"))
		assert.Empty(t, clones)
	})

	t.Run("LargeCloneIsHighSeverity", func(t *testing.T) {
		var b strings.Builder
		b.WriteString("def one():\n")
		for i := 0; i < 25; i++ {
			b.WriteString("    x" + strings.Repeat("x", i) + " = 1\n")
		}
		b.WriteString("def two():\n")
		for i := 0; i < 25; i++ {
			b.WriteString("    x" + strings.Repeat("x", i) + " = 1\n")
		}

		clones := detector.DetectExact("big.py", []byte(b.String()))
		require.Len(t, clones, 1)
		assert.Equal(t, 25, clones[0].Size)
		assert.Equal(t, domain.CloneSeverityHigh, clones[0].Severity)
	})
}

func TestDetectCrossFile(t *testing.T) {
	detector := NewCloneDetector()

	shared := `a = load()
b = transform(a)
c = validate(b)
d = persist(c)
e = notify(d)
f = cleanup(e)
`

	t.Run("SharedBlockFound", func(t *testing.T) {
		source1 := "# first file\n" + shared
		source2 := "# second file\nprologue = True\n" + shared

		clones := detector.DetectCrossFile("one.py", []byte(source1), "two.py", []byte(source2))

		require.Len(t, clones, 1)
		clone := clones[0]
		assert.Equal(t, 6, clone.Size)
		assert.Equal(t, "one.py", clone.Location1.FilePath)
		assert.Equal(t, "two.py", clone.Location2.FilePath)
		assert.Equal(t, 2, clone.Location1.StartLine)
		assert.Equal(t, 3, clone.Location2.StartLine)
		assert.Equal(t, 100.0, clone.Similarity)
	})

	t.Run("ShortMatchesSkipped", func(t *testing.T) {
		clones := detector.DetectCrossFile("one.py", []byte("x = 1\ny = 2\n"), "two.py", []byte("x = 1\ny = 2\n"))
		assert.Empty(t, clones)
	})
}

func TestDetectInFile(t *testing.T) {
	detector := NewCloneDetector()
	root := parseSource(t, duplicatedPair)

	result := detector.DetectInFile("dup.py", []byte(duplicatedPair), root)

	// One exact record plus one structural record for the identical pair.
	byType := result.CountByType()
	assert.Equal(t, 1, byType[domain.Type1Clone])
	assert.Equal(t, 1, byType[domain.Type2Clone])
	assert.Greater(t, result.TotalDuplicatedLines, 0)
}

func TestMatchingBlocks(t *testing.T) {
	a := []string{"one", "two", "three", "four"}
	b := []string{"zero", "one", "two", "three", "five"}

	blocks := matchingBlocks(a, b)

	require.Len(t, blocks, 1)
	assert.Equal(t, matchBlock{a: 0, b: 1, size: 3}, blocks[0])
}
