package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/codepulse/codepulse/app"
	"github.com/codepulse/codepulse/domain"
	"github.com/codepulse/codepulse/internal/config"
	"github.com/codepulse/codepulse/service"
)

// AnalyzeCommand represents the analyze command
type AnalyzeCommand struct {
	format     string
	configFile string
	outputPath string

	includePatterns []string
	excludePatterns []string
	recursive       bool

	minCloneLines int
	skipClones    bool
	skipSecurity  bool
	skipSmells    bool
	crossFile     bool
	noProgress    bool
}

// NewAnalyzeCommand creates a new analyze command
func NewAnalyzeCommand() *AnalyzeCommand {
	return &AnalyzeCommand{}
}

// CreateCobraCommand creates the cobra command for analysis
func (c *AnalyzeCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [paths...]",
		Short: "Scan Python files for quality, duplication, and security problems",
		Long: `Run the full scanner on the given files or directories.

Each file gets control flow, data flow, and dependency analysis, clone
detection, complexity and maintainability metrics, a security scan, and
smell detection. The report ends with a project-level quality grade.

Examples:
  # Scan the current directory
  codepulse analyze .

  # Scan specific files with JSON output
  codepulse analyze --format json src/app.py src/util.py

  # Compare duplicated code across files
  codepulse analyze --cross-file src/`,
		Args: cobra.MinimumNArgs(1),
		RunE: c.runAnalyze,
	}

	c.registerFlags(cmd.Flags())

	return cmd
}

func (c *AnalyzeCommand) registerFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&c.format, "format", "f", "", "Output format: text or json")
	flags.StringVarP(&c.configFile, "config", "c", "", "Path to configuration file")
	flags.StringVarP(&c.outputPath, "output", "o", "", "Write the report to a file instead of stdout")
	flags.StringSliceVar(&c.includePatterns, "include", nil, "Glob patterns for files to include")
	flags.StringSliceVar(&c.excludePatterns, "exclude", nil, "Glob patterns for files to exclude")
	flags.BoolVarP(&c.recursive, "recursive", "r", true, "Recurse into subdirectories")
	flags.IntVar(&c.minCloneLines, "min-clone-lines", 0, "Minimum lines for exact clone detection")
	flags.BoolVar(&c.skipClones, "skip-clones", false, "Skip clone detection")
	flags.BoolVar(&c.skipSecurity, "skip-security", false, "Skip security scanning")
	flags.BoolVar(&c.skipSmells, "skip-smells", false, "Skip smell detection")
	flags.BoolVar(&c.crossFile, "cross-file", false, "Compare duplicated code across file pairs")
	flags.BoolVar(&c.noProgress, "no-progress", false, "Disable progress reporting")
}

func (c *AnalyzeCommand) runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(c.configFile)
	if err != nil {
		return err
	}

	req := c.buildRequest(cmd, args, cfg)

	progress := service.CreateProgressReporter(os.Stderr, !c.noProgress && cfg.Output.ShowProgress)
	formatter := service.NewOutputFormatter()
	useCase := app.NewAnalyzeUseCase(
		service.NewFileReader(),
		service.NewAnalysisServiceFromConfig(cfg),
		formatter,
		progress,
	)

	response, err := useCase.Execute(context.Background(), req)
	if err != nil {
		return err
	}

	writer := service.NewFileWriter(cmd.ErrOrStderr())
	return writer.Write(cmd.OutOrStdout(), c.outputPath, func(w io.Writer) error {
		return formatter.Write(response, req.OutputFormat, w)
	})
}

// buildRequest merges config file settings with command line flags.
// Flags win when both are set.
func (c *AnalyzeCommand) buildRequest(cmd *cobra.Command, args []string, cfg *config.Config) *domain.AnalyzeRequest {
	format := cfg.Output.Format
	if c.format != "" {
		format = c.format
	}

	include := cfg.Analysis.IncludePatterns
	if len(c.includePatterns) > 0 {
		include = c.includePatterns
	}
	exclude := cfg.Analysis.ExcludePatterns
	if len(c.excludePatterns) > 0 {
		exclude = c.excludePatterns
	}

	recursive := cfg.Analysis.Recursive
	if cmd.Flags().Changed("recursive") {
		recursive = c.recursive
	}

	minCloneLines := cfg.Clones.MinLines
	if c.minCloneLines > 0 {
		minCloneLines = c.minCloneLines
	}

	// OutputWriter stays nil; the command routes output through FileWriter
	return &domain.AnalyzeRequest{
		Paths:               args,
		Recursive:           recursive,
		IncludePatterns:     include,
		ExcludePatterns:     exclude,
		OutputFormat:        domain.OutputFormat(format),
		MinCloneLines:       minCloneLines,
		ShowProgress:        !c.noProgress,
		SkipClones:          c.skipClones,
		SkipSecurity:        c.skipSecurity,
		SkipSmells:          c.skipSmells,
		CrossFileComparison: c.crossFile,
	}
}

// NewAnalyzeCmd creates and returns the analyze cobra command
func NewAnalyzeCmd() *cobra.Command {
	return NewAnalyzeCommand().CreateCobraCommand()
}
