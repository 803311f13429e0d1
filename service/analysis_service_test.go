package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codepulse/codepulse/domain"
	"github.com/codepulse/codepulse/internal/config"
)

func TestAnalyzeFile(t *testing.T) {
	svc := NewAnalysisService()
	req := &domain.AnalyzeRequest{}

	t.Run("AllSectionsPresent", func(t *testing.T) {
		source := []byte(`def add(a, b):
    return a + b

result = add(1, 2)
`)
		report, err := svc.AnalyzeFile(context.Background(), "add.py", source, req)
		require.NoError(t, err)

		assert.False(t, report.Skipped)
		assert.Empty(t, report.Degraded)
		require.NotNil(t, report.Deep)
		assert.Equal(t, "add.py", report.Deep.FilePath)
		require.NotNil(t, report.Metrics)
		require.NotNil(t, report.Security)
		require.NotNil(t, report.Clones)
		require.NotNil(t, report.Smells)
	})

	t.Run("SyntaxErrorIsAParseError", func(t *testing.T) {
		report, err := svc.AnalyzeFile(context.Background(), "broken.py", []byte("def broken(:\n"), req)

		require.Error(t, err)
		assert.True(t, domain.IsParseError(err))
		assert.Contains(t, err.Error(), "broken.py")
		assert.Nil(t, report)
	})

	t.Run("SkipFlagsRespected", func(t *testing.T) {
		skipping := &domain.AnalyzeRequest{
			SkipClones:   true,
			SkipSecurity: true,
			SkipSmells:   true,
		}
		report, err := svc.AnalyzeFile(context.Background(), "x.py", []byte("x = 1\n"), skipping)
		require.NoError(t, err)

		assert.NotNil(t, report.Deep)
		assert.Nil(t, report.Clones)
		assert.Nil(t, report.Security)
		assert.Nil(t, report.Smells)
	})

	t.Run("SecurityFindingsSurface", func(t *testing.T) {
		report, err := svc.AnalyzeFile(context.Background(), "bad.py", []byte("value = eval(raw)\n"), req)
		require.NoError(t, err)

		require.NotNil(t, report.Security)
		assert.NotEmpty(t, report.Security.Issues)
	})
}

func TestNewAnalysisServiceFromConfig(t *testing.T) {
	t.Run("ThresholdsReachDetectors", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Clones.MinLines = 9
		cfg.Clones.LargeCloneLines = 40
		cfg.Clones.StructuralThreshold = 0.95
		cfg.Clones.SemanticThreshold = 0.90
		cfg.Flow.BranchThreshold = 3
		cfg.Flow.CouplingThreshold = 2.5
		cfg.Smells.LongFunctionLines = 25
		cfg.Smells.MaxParameters = 2

		svc := NewAnalysisServiceFromConfig(cfg)
		assert.Equal(t, 9, svc.clones.MinLines)
		assert.Equal(t, 40, svc.clones.LargeCloneLines)
		assert.Equal(t, 0.95, svc.clones.StructuralThreshold)
		assert.Equal(t, 0.90, svc.semantic.Threshold)
		assert.Equal(t, 3, svc.flow.BranchThreshold)
		assert.Equal(t, 2.5, svc.flow.CouplingThreshold)
		assert.Equal(t, 25, svc.smells.LongFunctionLines)
		assert.Equal(t, 2, svc.smells.MaxParameters)
	})

	t.Run("LoweredParameterLimitChangesFindings", func(t *testing.T) {
		source := []byte("def configure(host, port, user):\n    return host\n")
		req := &domain.AnalyzeRequest{}

		defaultReport, err := NewAnalysisService().AnalyzeFile(context.Background(), "cfg.py", source, req)
		require.NoError(t, err)
		assert.Empty(t, defaultReport.Smells.Smells, "three parameters pass the default limit")

		cfg := config.DefaultConfig()
		cfg.Smells.MaxParameters = 2
		strictReport, err := NewAnalysisServiceFromConfig(cfg).AnalyzeFile(context.Background(), "cfg.py", source, req)
		require.NoError(t, err)
		require.Len(t, strictReport.Smells.Smells, 1)
		assert.Equal(t, "Long Parameter List", strictReport.Smells.Smells[0].Name)
	})

	t.Run("NilConfigKeepsDefaults", func(t *testing.T) {
		svc := NewAnalysisServiceFromConfig(nil)
		assert.Equal(t, config.DefaultMinCloneLines, svc.clones.MinLines)
		assert.Equal(t, config.DefaultBranchThreshold, svc.flow.BranchThreshold)
	})
}

func TestSetMinCloneLines(t *testing.T) {
	svc := NewAnalysisService()

	svc.SetMinCloneLines(10)
	assert.Equal(t, 10, svc.clones.MinLines)

	svc.SetMinCloneLines(0)
	assert.Equal(t, 10, svc.clones.MinLines, "zero is ignored")
}

func TestCompareFiles(t *testing.T) {
	svc := NewAnalysisService()

	shared := []byte(`a = 1
b = 2
c = 3
d = 4
e = 5
f = 6
`)
	records := svc.CompareFiles("one.py", shared, "two.py", shared)
	require.NotEmpty(t, records)
	assert.Equal(t, domain.Type1Clone, records[0].Type)
	assert.GreaterOrEqual(t, records[0].Size, 6)
}
