package service

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codepulse/codepulse/domain"
)

func sampleResponse() *domain.AnalyzeResponse {
	return &domain.AnalyzeResponse{
		ScanDate: time.Now(),
		Files: []*domain.FileReport{
			{
				FilePath: "good.py",
				Deep:     &domain.DeepAnalysisResult{QualityScore: 95},
			},
			{
				FilePath: "broken.py",
				Skipped:  true,
				SkipWhy:  "syntax errors found in source code",
			},
		},
		TotalFiles:    2,
		SkippedFiles:  1,
		TotalLines:    10,
		QualityScore:  95,
		SecurityScore: 100,
		OverallScore:  98,
		Grade:         domain.GradeFor(98),
	}
}

func TestOutputFormatterJSON(t *testing.T) {
	formatter := NewOutputFormatter()

	var buf bytes.Buffer
	err := formatter.Write(sampleResponse(), domain.OutputFormatJSON, &buf)
	require.NoError(t, err)

	var decoded domain.AnalyzeResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 2, decoded.TotalFiles)
	assert.Equal(t, 1, decoded.SkippedFiles)
	assert.Equal(t, "A+ Excellent", decoded.Grade)
	assert.Len(t, decoded.Files, 2)
}

func TestOutputFormatterText(t *testing.T) {
	formatter := NewOutputFormatter()
	color.NoColor = true

	var buf bytes.Buffer
	err := formatter.Write(sampleResponse(), domain.OutputFormatText, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Code Quality Report")
	assert.Contains(t, out, "good.py")
	assert.Contains(t, out, "broken.py")
	assert.Contains(t, out, "skipped: syntax errors found in source code")
	assert.Contains(t, out, "Files analyzed:  2 (1 skipped)")
	assert.Contains(t, out, "A+ Excellent")
}

func TestOutputFormatterUnsupportedFormat(t *testing.T) {
	formatter := NewOutputFormatter()

	var buf bytes.Buffer
	err := formatter.Write(sampleResponse(), domain.OutputFormat("xml"), &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}
