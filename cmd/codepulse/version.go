package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codepulse/codepulse/internal/version"
)

// VersionCommand represents the version command
type VersionCommand struct {
	short bool
}

// NewVersionCommand creates a new version command
func NewVersionCommand() *VersionCommand {
	return &VersionCommand{}
}

// CreateCobraCommand creates the cobra command for version display
func (v *VersionCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display detailed version information for codepulse.

Use --short to display only the version number.`,
		RunE: v.runVersion,
	}

	cmd.Flags().BoolVarP(&v.short, "short", "s", false, "Show only version number")

	return cmd
}

func (v *VersionCommand) runVersion(cmd *cobra.Command, args []string) error {
	if v.short {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", version.Short())
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", version.Info())
	}
	return nil
}

// NewVersionCmd creates and returns the version cobra command
func NewVersionCmd() *cobra.Command {
	return NewVersionCommand().CreateCobraCommand()
}
