package service

import (
	"context"
	"fmt"
	"log"

	"github.com/codepulse/codepulse/domain"
	"github.com/codepulse/codepulse/internal/analyzer"
	"github.com/codepulse/codepulse/internal/config"
	"github.com/codepulse/codepulse/internal/parser"
)

// AnalysisService runs every detector against single files. Detectors are
// isolated from each other: one detector failing leaves its section empty
// and the rest of the report intact.
type AnalysisService struct {
	parser   *parser.Parser
	flow     *analyzer.FlowAnalyzer
	clones   *analyzer.CloneDetector
	semantic *analyzer.SemanticCloneDetector
	metrics  *analyzer.MetricsCalculator
	security *analyzer.SecurityScanner
	smells   *analyzer.SmellDetector
	logger   *log.Logger
}

// NewAnalysisService creates an analysis service with default thresholds
func NewAnalysisService() *AnalysisService {
	return &AnalysisService{
		parser:   parser.New(),
		flow:     analyzer.NewFlowAnalyzer(),
		clones:   analyzer.NewCloneDetector(),
		semantic: analyzer.NewSemanticCloneDetector(),
		metrics:  analyzer.NewMetricsCalculator(),
		security: analyzer.NewSecurityScanner(),
		smells:   analyzer.NewSmellDetector(),
	}
}

// NewAnalysisServiceFromConfig creates an analysis service with detector
// thresholds taken from cfg. Zero-valued knobs keep their defaults.
func NewAnalysisServiceFromConfig(cfg *config.Config) *AnalysisService {
	s := NewAnalysisService()
	if cfg == nil {
		return s
	}

	if cfg.Clones.MinLines > 0 {
		s.clones.MinLines = cfg.Clones.MinLines
	}
	if cfg.Clones.LargeCloneLines > 0 {
		s.clones.LargeCloneLines = cfg.Clones.LargeCloneLines
	}
	if cfg.Clones.StructuralThreshold > 0 {
		s.clones.StructuralThreshold = cfg.Clones.StructuralThreshold
	}
	if cfg.Clones.SemanticThreshold > 0 {
		s.semantic.Threshold = cfg.Clones.SemanticThreshold
	}
	if cfg.Flow.BranchThreshold > 0 {
		s.flow.BranchThreshold = cfg.Flow.BranchThreshold
	}
	if cfg.Flow.CouplingThreshold > 0 {
		s.flow.CouplingThreshold = cfg.Flow.CouplingThreshold
	}
	if cfg.Smells.LongFunctionLines > 0 {
		s.smells.LongFunctionLines = cfg.Smells.LongFunctionLines
	}
	if cfg.Smells.MaxParameters > 0 {
		s.smells.MaxParameters = cfg.Smells.MaxParameters
	}
	return s
}

// AnalyzeFile runs all detectors on one file and bundles their output.
// Files that fail to parse return a PARSE_ERROR domain error; callers
// skip the file and keep the batch going.
func (s *AnalysisService) AnalyzeFile(ctx context.Context, filePath string, source []byte, req *domain.AnalyzeRequest) (*domain.FileReport, error) {
	result, err := s.parser.Parse(ctx, source)
	if err != nil {
		return nil, domain.NewParseError(filePath, err)
	}
	root := result.Root

	report := &domain.FileReport{FilePath: filePath}

	s.runSection(report, "deep_analysis", func() {
		deep := s.flow.AnalyzeDeep(root)
		deep.FilePath = filePath
		report.Deep = deep
	})

	if !req.SkipClones {
		s.runSection(report, "clones", func() {
			clones := s.clones.DetectInFile(filePath, source, root)
			semantic := s.semantic.Detect(filePath, root)
			clones.Clones = append(clones.Clones, semantic...)
			report.Clones = clones
		})
	}

	s.runSection(report, "metrics", func() {
		report.Metrics = s.metrics.Calculate(root, source)
	})

	if !req.SkipSecurity {
		s.runSection(report, "security", func() {
			security := s.security.Scan(filePath, source)
			report.Security = &security
		})
	}

	if !req.SkipSmells {
		s.runSection(report, "smells", func() {
			report.Smells = s.smells.Detect(filePath, root)
		})
	}

	return report, nil
}

// SetLogger directs detector failure warnings to logger
func (s *AnalysisService) SetLogger(logger *log.Logger) {
	s.logger = logger
}

// SetMinCloneLines overrides the exact clone detection window size
func (s *AnalysisService) SetMinCloneLines(lines int) {
	if lines > 0 {
		s.clones.MinLines = lines
	}
}

// CompareFiles runs cross-file clone detection between two files
func (s *AnalysisService) CompareFiles(file1 string, source1 []byte, file2 string, source2 []byte) []domain.CloneRecord {
	return s.clones.DetectCrossFile(file1, source1, file2, source2)
}

// runSection runs one detector, converting a panic into a degraded section
func (s *AnalysisService) runSection(report *domain.FileReport, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			derr := domain.NewAnalysisError(fmt.Sprintf("%s failed", name), fmt.Errorf("%v", r))
			report.Degraded = append(report.Degraded, derr.Error())
			if s.logger != nil {
				s.logger.Printf("detector %s failed on %s: %v", name, report.FilePath, r)
			}
		}
	}()
	fn()
}
