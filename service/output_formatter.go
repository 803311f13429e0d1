package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/codepulse/codepulse/domain"
)

// OutputFormatterImpl renders analysis responses as text or JSON
type OutputFormatterImpl struct{}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// Write renders the response in the requested format
func (f *OutputFormatterImpl) Write(response *domain.AnalyzeResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return f.writeJSON(response, writer)
	case domain.OutputFormatText:
		return f.writeText(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

func (f *OutputFormatterImpl) writeJSON(response *domain.AnalyzeResponse, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return domain.NewOutputError("failed to encode JSON output", err)
	}
	return nil
}

func (f *OutputFormatterImpl) writeText(response *domain.AnalyzeResponse, writer io.Writer) error {
	header := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Fprintf(writer, "%s\n", header("Code Quality Report"))
	fmt.Fprintf(writer, "%s\n\n", strings.Repeat("=", 50))

	for _, file := range response.Files {
		f.writeFileSection(file, writer)
	}

	f.writeSummary(response, writer)
	return nil
}

func (f *OutputFormatterImpl) writeFileSection(file *domain.FileReport, writer io.Writer) {
	fmt.Fprintf(writer, "%s\n", color.New(color.Bold).Sprint(file.FilePath))

	if file.Skipped {
		fmt.Fprintf(writer, "  %s %s\n\n", color.YellowString("skipped:"), file.SkipWhy)
		return
	}

	if file.Deep != nil {
		fmt.Fprintf(writer, "  Quality score: %s\n", scoreString(file.Deep.QualityScore))
		for _, issue := range file.Deep.AllIssues() {
			fmt.Fprintf(writer, "  %s %s\n", severityString(issue.Severity), issue.Message)
		}
	}

	if file.Security != nil {
		for _, issue := range file.Security.Issues {
			fmt.Fprintf(writer, "  %s line %d: %s\n",
				securityLevelString(issue.Severity), issue.Line, issue.Title)
		}
	}

	if file.Clones != nil && len(file.Clones.Clones) > 0 {
		fmt.Fprintf(writer, "  Clones: %d (%d duplicated lines)\n",
			len(file.Clones.Clones), file.Clones.TotalDuplicatedLines)
	}

	if file.Smells != nil {
		for _, smell := range file.Smells.Smells {
			fmt.Fprintf(writer, "  %s line %d: %s\n",
				color.YellowString("[smell]"), smell.Line, smell.Description)
		}
	}

	for _, degraded := range file.Degraded {
		fmt.Fprintf(writer, "  %s %s\n", color.RedString("[degraded]"), degraded)
	}

	fmt.Fprintln(writer)
}

func (f *OutputFormatterImpl) writeSummary(response *domain.AnalyzeResponse, writer io.Writer) {
	fmt.Fprintf(writer, "%s\n", strings.Repeat("-", 50))
	fmt.Fprintf(writer, "Files analyzed:  %d (%d skipped)\n",
		response.TotalFiles, response.SkippedFiles)
	fmt.Fprintf(writer, "Total lines:     %d\n", response.TotalLines)
	fmt.Fprintf(writer, "Issues found:    %d\n", response.TotalIssues)
	fmt.Fprintf(writer, "Clones found:    %d\n", response.TotalClones)

	if len(response.CrossFile) > 0 {
		fmt.Fprintf(writer, "Cross-file clones:\n")
		for _, clone := range response.CrossFile {
			fmt.Fprintf(writer, "  %s <-> %s (%d lines)\n",
				clone.Location1.String(), clone.Location2.String(), clone.Size)
		}
	}

	fmt.Fprintf(writer, "Quality score:   %s\n", scoreString(response.QualityScore))
	fmt.Fprintf(writer, "Security score:  %s\n", scoreString(response.SecurityScore))
	fmt.Fprintf(writer, "Overall:         %s  %s\n",
		scoreString(response.OverallScore), response.Grade)
}

// scoreString colors a 0-100 score green/yellow/red
func scoreString(score float64) string {
	switch {
	case score >= 80:
		return color.GreenString("%.1f", score)
	case score >= 60:
		return color.YellowString("%.1f", score)
	default:
		return color.RedString("%.1f", score)
	}
}

func severityString(severity domain.Severity) string {
	switch severity {
	case domain.SeverityError:
		return color.RedString("[error]")
	case domain.SeverityWarning:
		return color.YellowString("[warning]")
	default:
		return color.CyanString("[info]")
	}
}

func securityLevelString(level domain.SecurityLevel) string {
	switch level {
	case domain.SecurityCritical, domain.SecurityHigh:
		return color.RedString("[%s]", level)
	case domain.SecurityMedium:
		return color.YellowString("[%s]", level)
	default:
		return color.CyanString("[%s]", level)
	}
}
