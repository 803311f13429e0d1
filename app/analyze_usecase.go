package app

import (
	"context"
	"math"
	"time"

	"github.com/codepulse/codepulse/domain"
	"github.com/codepulse/codepulse/service"
)

// AnalyzeUseCase orchestrates a full scan: file discovery, per-file
// analysis, cross-file clone comparison, aggregation, and output.
type AnalyzeUseCase struct {
	reader    domain.FileReader
	analysis  *service.AnalysisService
	formatter domain.OutputFormatter
	progress  domain.ProgressReporter
}

// NewAnalyzeUseCase creates the use case with its collaborators
func NewAnalyzeUseCase(
	reader domain.FileReader,
	analysis *service.AnalysisService,
	formatter domain.OutputFormatter,
	progress domain.ProgressReporter,
) *AnalyzeUseCase {
	return &AnalyzeUseCase{
		reader:    reader,
		analysis:  analysis,
		formatter: formatter,
		progress:  progress,
	}
}

// Execute runs the analysis described by req and writes the formatted
// report. Individual file failures never abort the batch.
func (uc *AnalyzeUseCase) Execute(ctx context.Context, req *domain.AnalyzeRequest) (*domain.AnalyzeResponse, error) {
	if err := uc.validateRequest(req); err != nil {
		return nil, err
	}

	files, err := uc.reader.CollectPythonFiles(req.Paths, req.Recursive, req.IncludePatterns, req.ExcludePatterns)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no Python files found in the specified paths", nil)
	}

	if req.MinCloneLines > 0 {
		uc.analysis.SetMinCloneLines(req.MinCloneLines)
	}

	uc.progress.StartAnalysis(len(files))

	reports := make([]*domain.FileReport, 0, len(files))
	sources := make(map[string][]byte, len(files))

	for _, file := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		source, err := uc.reader.ReadFile(file)
		if err != nil {
			reports = append(reports, &domain.FileReport{
				FilePath: file,
				Skipped:  true,
				SkipWhy:  err.Error(),
			})
			uc.progress.FileSkipped(file, err.Error())
			continue
		}

		report, err := uc.analysis.AnalyzeFile(ctx, file, source, req)
		if err != nil {
			// Parse failures skip the file; anything else aborts the batch
			if !domain.IsParseError(err) {
				return nil, err
			}
			report = &domain.FileReport{
				FilePath: file,
				Skipped:  true,
				SkipWhy:  err.Error(),
			}
		}
		reports = append(reports, report)

		if report.Skipped {
			uc.progress.FileSkipped(file, report.SkipWhy)
		} else {
			sources[file] = source
			uc.progress.FileCompleted(file)
		}
	}

	var crossFile []domain.CloneRecord
	if req.CrossFileComparison && !req.SkipClones {
		crossFile = uc.compareAcrossFiles(files, sources)
	}

	uc.progress.Finish()

	response := uc.aggregate(reports, crossFile)

	if req.OutputWriter != nil {
		if err := uc.formatter.Write(response, req.OutputFormat, req.OutputWriter); err != nil {
			return nil, err
		}
	}

	return response, nil
}

func (uc *AnalyzeUseCase) validateRequest(req *domain.AnalyzeRequest) error {
	if len(req.Paths) == 0 {
		return domain.NewInvalidInputError("no paths specified", nil)
	}
	if !req.OutputFormat.IsValid() {
		return domain.NewUnsupportedFormatError(string(req.OutputFormat))
	}
	return nil
}

// compareAcrossFiles runs pairwise clone comparison over every analyzed
// file pair, preserving discovery order
func (uc *AnalyzeUseCase) compareAcrossFiles(files []string, sources map[string][]byte) []domain.CloneRecord {
	var records []domain.CloneRecord

	for i := 0; i < len(files); i++ {
		source1, ok := sources[files[i]]
		if !ok {
			continue
		}
		for j := i + 1; j < len(files); j++ {
			source2, ok := sources[files[j]]
			if !ok {
				continue
			}
			records = append(records, uc.analysis.CompareFiles(files[i], source1, files[j], source2)...)
		}
	}

	return records
}

// aggregate folds per-file reports into the project-level response.
// Scores average over analyzed files only; the overall score weights
// security above quality.
func (uc *AnalyzeUseCase) aggregate(reports []*domain.FileReport, crossFile []domain.CloneRecord) *domain.AnalyzeResponse {
	response := &domain.AnalyzeResponse{
		ScanDate:   time.Now(),
		Files:      reports,
		TotalFiles: len(reports),
		CrossFile:  crossFile,
	}

	analyzed := 0
	qualitySum := 0.0
	securitySum := 0.0

	for _, report := range reports {
		if report.Skipped {
			response.SkippedFiles++
			continue
		}
		analyzed++

		if report.Deep != nil {
			qualitySum += report.Deep.QualityScore
			response.TotalIssues += len(report.Deep.AllIssues())
		}
		if report.Security != nil {
			securitySum += report.Security.SecurityScore
			response.TotalIssues += len(report.Security.Issues)
		}
		if report.Smells != nil {
			response.TotalIssues += len(report.Smells.Smells)
		}
		if report.Clones != nil {
			response.TotalClones += len(report.Clones.Clones)
		}
		if report.Metrics != nil {
			response.TotalLines += report.Metrics.LinesOfCode
		}
	}
	response.TotalClones += len(crossFile)

	if analyzed > 0 {
		response.QualityScore = round2(qualitySum / float64(analyzed))
		response.SecurityScore = round2(securitySum / float64(analyzed))
	}
	response.OverallScore = round2(response.QualityScore*0.4 + response.SecurityScore*0.6)
	response.Grade = domain.GradeFor(response.OverallScore)

	return response
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
