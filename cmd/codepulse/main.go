package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/codepulse/codepulse/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "codepulse",
	Short: "A static quality scanner for Python code",
	Long: `codepulse scans Python source files for quality problems that
traditional linters miss.

It builds control flow, data flow, and call graphs for each file to find
unreachable code, potential infinite loops, unused variables, and circular
dependencies. On top of the graphs it detects duplicated code (exact,
renamed, and semantic clones), computes complexity and maintainability
metrics, scans for common security issues, and flags design smells.`,
	Version: version.Short(),
}

func init() {
	rootCmd.AddCommand(NewAnalyzeCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
