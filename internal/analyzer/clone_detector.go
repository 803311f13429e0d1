package analyzer

import (
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/codepulse/codepulse/domain"
	"github.com/codepulse/codepulse/internal/config"
	"github.com/codepulse/codepulse/internal/parser"
)

// CloneDetector finds duplicated code. Type-1 uses sliding-window hashing
// over normalized lines, Type-2 compares structural AST fingerprints, and
// the cross-file variant aligns raw line sequences.
type CloneDetector struct {
	MinLines            int
	LargeCloneLines     int
	StructuralThreshold float64
}

// NewCloneDetector creates a clone detector with default thresholds
func NewCloneDetector() *CloneDetector {
	return &CloneDetector{
		MinLines:            config.DefaultMinCloneLines,
		LargeCloneLines:     config.DefaultLargeCloneLines,
		StructuralThreshold: config.DefaultStructuralSimilarityThreshold,
	}
}

// DetectInFile runs exact and structural detection within one file. The AST
// may be nil when the file failed to parse; structural detection is skipped
// and exact detection still runs over the raw text.
func (d *CloneDetector) DetectInFile(filePath string, source []byte, root *parser.Node) *domain.CloneResult {
	clones := d.DetectExact(filePath, source)
	if root != nil {
		clones = append(clones, d.DetectStructural(filePath, root)...)
	}

	total := 0
	for _, c := range clones {
		total += c.Size
	}
	return &domain.CloneResult{
		Clones:               clones,
		TotalDuplicatedLines: total,
	}
}

// normalizedLine pairs a stripped code line with its original line number
type normalizedLine struct {
	text string
	line int
}

// DetectExact finds Type-1 clones: byte-identical blocks of at least
// MinLines code lines, ignoring blank lines, comment-only lines, and
// leading/trailing whitespace.
func (d *CloneDetector) DetectExact(filePath string, source []byte) []domain.CloneRecord {
	normalized := normalizeLines(source)
	if len(normalized) < d.MinLines {
		return nil
	}

	// Hash every window of MinLines normalized lines.
	windows := make(map[uint64][]int)
	var order []uint64
	for i := 0; i+d.MinLines <= len(normalized); i++ {
		parts := make([]string, d.MinLines)
		for j := 0; j < d.MinLines; j++ {
			parts[j] = normalized[i+j].text
		}
		h := xxhash.Sum64String(strings.Join(parts, "\n"))
		if _, seen := windows[h]; !seen {
			order = append(order, h)
		}
		windows[h] = append(windows[h], i)
	}

	// Every pair of positions sharing a hash is a duplicate window pair.
	pairSet := make(map[[2]int]bool)
	var pairs [][2]int
	for _, h := range order {
		positions := windows[h]
		if len(positions) < 2 {
			continue
		}
		for j := 0; j < len(positions); j++ {
			for k := j + 1; k < len(positions); k++ {
				p := [2]int{positions[j], positions[k]}
				if !pairSet[p] {
					pairSet[p] = true
					pairs = append(pairs, p)
				}
			}
		}
	}

	// Consecutive window pairs (i,j),(i+1,j+1) describe one larger block;
	// only the head of each diagonal run produces a record.
	var clones []domain.CloneRecord
	for _, p := range pairs {
		if pairSet[[2]int{p[0] - 1, p[1] - 1}] {
			continue
		}
		runLen := 1
		for pairSet[[2]int{p[0] + runLen, p[1] + runLen}] {
			runLen++
		}
		size := d.MinLines + runLen - 1

		severity := domain.CloneSeverityMedium
		if size > d.LargeCloneLines {
			severity = domain.CloneSeverityHigh
		}
		clones = append(clones, domain.CloneRecord{
			Type: domain.Type1Clone,
			Location1: domain.CloneLocation{
				FilePath:  filePath,
				StartLine: normalized[p[0]].line,
				EndLine:   normalized[p[0]+size-1].line,
			},
			Location2: domain.CloneLocation{
				FilePath:  filePath,
				StartLine: normalized[p[1]].line,
				EndLine:   normalized[p[1]+size-1].line,
			},
			Similarity: 100.0,
			Size:       size,
			Severity:   severity,
		})
	}
	return clones
}

// DetectCrossFile aligns two files' raw line sequences and reports every
// matching block of at least MinLines lines.
func (d *CloneDetector) DetectCrossFile(file1 string, source1 []byte, file2 string, source2 []byte) []domain.CloneRecord {
	lines1 := splitLines(source1)
	lines2 := splitLines(source2)

	var clones []domain.CloneRecord
	for _, m := range matchingBlocks(lines1, lines2) {
		if m.size < d.MinLines {
			continue
		}

		severity := domain.CloneSeverityMedium
		if m.size > d.LargeCloneLines {
			severity = domain.CloneSeverityHigh
		}
		clones = append(clones, domain.CloneRecord{
			Type: domain.Type1Clone,
			Location1: domain.CloneLocation{
				FilePath:  file1,
				StartLine: m.a + 1,
				EndLine:   m.a + m.size,
			},
			Location2: domain.CloneLocation{
				FilePath:  file2,
				StartLine: m.b + 1,
				EndLine:   m.b + m.size,
			},
			Similarity: blockSimilarity(lines1[m.a:m.a+m.size], lines2[m.b:m.b+m.size]) * 100,
			Size:       m.size,
			Severity:   severity,
		})
	}
	return clones
}

// normalizeLines strips whitespace and drops blank and comment-only lines,
// remembering each surviving line's 1-based source position.
func normalizeLines(source []byte) []normalizedLine {
	var normalized []normalizedLine
	for i, raw := range splitLines(source) {
		stripped := strings.TrimSpace(raw)
		if stripped == "" || strings.HasPrefix(stripped, "#") {
			continue
		}
		normalized = append(normalized, normalizedLine{text: stripped, line: i + 1})
	}
	return normalized
}

func splitLines(source []byte) []string {
	text := strings.TrimSuffix(string(source), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// matchBlock is one run of equal elements: a[a:a+size] == b[b:b+size]
type matchBlock struct {
	a, b, size int
}

// matchingBlocks returns the non-overlapping matching runs between two line
// sequences, in ascending order. Longest-match-first divide and conquer;
// adjacent runs are merged.
func matchingBlocks(a, b []string) []matchBlock {
	type span struct{ alo, ahi, blo, bhi int }

	queue := []span{{0, len(a), 0, len(b)}}
	var matches []matchBlock

	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		m := longestMatch(a, b, s.alo, s.ahi, s.blo, s.bhi)
		if m.size == 0 {
			continue
		}
		matches = append(matches, m)
		if s.alo < m.a && s.blo < m.b {
			queue = append(queue, span{s.alo, m.a, s.blo, m.b})
		}
		if m.a+m.size < s.ahi && m.b+m.size < s.bhi {
			queue = append(queue, span{m.a + m.size, s.ahi, m.b + m.size, s.bhi})
		}
	}

	sortMatches(matches)

	// Merge runs that touch on both sides.
	var merged []matchBlock
	for _, m := range matches {
		if n := len(merged); n > 0 && merged[n-1].a+merged[n-1].size == m.a && merged[n-1].b+merged[n-1].size == m.b {
			merged[n-1].size += m.size
			continue
		}
		merged = append(merged, m)
	}
	return merged
}

// longestMatch finds the longest run of equal elements within the given
// bounds, preferring the earliest in a, then the earliest in b.
func longestMatch(a, b []string, alo, ahi, blo, bhi int) matchBlock {
	b2j := make(map[string][]int)
	for j := blo; j < bhi; j++ {
		b2j[b[j]] = append(b2j[b[j]], j)
	}

	best := matchBlock{a: alo, b: blo}
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newJ2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			k := j2len[j-1] + 1
			newJ2len[j] = k
			if k > best.size {
				best = matchBlock{a: i - k + 1, b: j - k + 1, size: k}
			}
		}
		j2len = newJ2len
	}
	return best
}

func sortMatches(matches []matchBlock) {
	for i := 1; i < len(matches); i++ {
		for j := i; j > 0 && matches[j].a < matches[j-1].a; j-- {
			matches[j], matches[j-1] = matches[j-1], matches[j]
		}
	}
}

// blockSimilarity is the alignment ratio of two blocks: twice the matched
// element count over the total length, in [0,1].
func blockSimilarity(block1, block2 []string) float64 {
	matched := 0
	for _, m := range matchingBlocks(block1, block2) {
		matched += m.size
	}
	total := len(block1) + len(block2)
	if total == 0 {
		return 0
	}
	return 2 * float64(matched) / float64(total)
}
