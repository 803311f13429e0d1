package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codepulse/codepulse/domain"
	"github.com/codepulse/codepulse/service"
)

func newTestUseCase() *AnalyzeUseCase {
	return NewAnalyzeUseCase(
		service.NewFileReader(),
		service.NewAnalysisService(),
		service.NewOutputFormatter(),
		service.NewNoOpProgressReporter(),
	)
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExecute(t *testing.T) {
	t.Run("CleanProjectGetsTopGrade", func(t *testing.T) {
		dir := t.TempDir()
		writeSource(t, dir, "clean.py", "x = 1\ny = x\nprint(y)\n")

		response, err := newTestUseCase().Execute(context.Background(), &domain.AnalyzeRequest{
			Paths:        []string{dir},
			Recursive:    true,
			OutputFormat: domain.OutputFormatText,
		})
		require.NoError(t, err)

		assert.Equal(t, 1, response.TotalFiles)
		assert.Equal(t, 0, response.SkippedFiles)
		assert.Equal(t, 100.0, response.QualityScore)
		assert.Equal(t, 100.0, response.SecurityScore)
		assert.Equal(t, "A+ Excellent", response.Grade)
	})

	t.Run("BrokenFileDoesNotAbortBatch", func(t *testing.T) {
		dir := t.TempDir()
		writeSource(t, dir, "good.py", "x = 1\nprint(x)\n")
		writeSource(t, dir, "broken.py", "def broken(:\n")

		response, err := newTestUseCase().Execute(context.Background(), &domain.AnalyzeRequest{
			Paths:        []string{dir},
			Recursive:    true,
			OutputFormat: domain.OutputFormatText,
		})
		require.NoError(t, err)

		assert.Equal(t, 2, response.TotalFiles)
		assert.Equal(t, 1, response.SkippedFiles)

		var skipped *domain.FileReport
		for _, f := range response.Files {
			if f.Skipped {
				skipped = f
			}
		}
		require.NotNil(t, skipped)
		assert.Contains(t, skipped.SkipWhy, "PARSE_ERROR")
		assert.Contains(t, skipped.SkipWhy, "syntax errors")
	})

	t.Run("CrossFileClonesReported", func(t *testing.T) {
		dir := t.TempDir()
		shared := `a = 1
b = 2
c = 3
d = 4
e = 5
f = 6
g = 7
`
		writeSource(t, dir, "one.py", shared)
		writeSource(t, dir, "two.py", shared+"h = 8\n")

		response, err := newTestUseCase().Execute(context.Background(), &domain.AnalyzeRequest{
			Paths:               []string{dir},
			Recursive:           true,
			OutputFormat:        domain.OutputFormatText,
			CrossFileComparison: true,
		})
		require.NoError(t, err)

		require.NotEmpty(t, response.CrossFile)
		assert.GreaterOrEqual(t, response.CrossFile[0].Size, 7)
	})

	t.Run("WritesFormattedOutput", func(t *testing.T) {
		dir := t.TempDir()
		writeSource(t, dir, "a.py", "x = 1\n")

		var buf bytes.Buffer
		_, err := newTestUseCase().Execute(context.Background(), &domain.AnalyzeRequest{
			Paths:        []string{dir},
			Recursive:    true,
			OutputFormat: domain.OutputFormatJSON,
			OutputWriter: &buf,
		})
		require.NoError(t, err)

		var decoded domain.AnalyzeResponse
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, 1, decoded.TotalFiles)
	})

	t.Run("NoPythonFilesIsAnError", func(t *testing.T) {
		dir := t.TempDir()
		writeSource(t, dir, "readme.txt", "nothing here\n")

		_, err := newTestUseCase().Execute(context.Background(), &domain.AnalyzeRequest{
			Paths:        []string{dir},
			Recursive:    true,
			OutputFormat: domain.OutputFormatText,
		})
		assert.Error(t, err)
	})

	t.Run("EmptyPathsRejected", func(t *testing.T) {
		_, err := newTestUseCase().Execute(context.Background(), &domain.AnalyzeRequest{
			OutputFormat: domain.OutputFormatText,
		})
		assert.Error(t, err)
	})

	t.Run("UnknownFormatRejected", func(t *testing.T) {
		_, err := newTestUseCase().Execute(context.Background(), &domain.AnalyzeRequest{
			Paths:        []string{"."},
			OutputFormat: domain.OutputFormat("xml"),
		})
		assert.Error(t, err)
	})
}

func TestAggregate(t *testing.T) {
	uc := newTestUseCase()

	reports := []*domain.FileReport{
		{
			FilePath: "a.py",
			Deep:     &domain.DeepAnalysisResult{QualityScore: 80},
			Security: &domain.SecurityResult{SecurityScore: 90},
			Metrics:  &domain.MetricsResult{LinesOfCode: 10},
		},
		{
			FilePath: "b.py",
			Deep:     &domain.DeepAnalysisResult{QualityScore: 60},
			Security: &domain.SecurityResult{SecurityScore: 70},
			Metrics:  &domain.MetricsResult{LinesOfCode: 5},
		},
		{FilePath: "c.py", Skipped: true, SkipWhy: "unreadable"},
	}

	response := uc.aggregate(reports, nil)

	assert.Equal(t, 3, response.TotalFiles)
	assert.Equal(t, 1, response.SkippedFiles)
	assert.Equal(t, 15, response.TotalLines)
	assert.Equal(t, 70.0, response.QualityScore)
	assert.Equal(t, 80.0, response.SecurityScore)
	// 70*0.4 + 80*0.6
	assert.Equal(t, 76.0, response.OverallScore)
	assert.Equal(t, "B Fair", response.Grade)
}
