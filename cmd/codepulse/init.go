package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codepulse/codepulse/internal/config"
)

// InitCommand represents the init command
type InitCommand struct {
	force      bool
	configPath string
}

// NewInitCommand creates a new init command
func NewInitCommand() *InitCommand {
	return &InitCommand{
		configPath: ".codepulse.toml",
	}
}

// CreateCobraCommand creates the cobra command for configuration initialization
func (i *InitCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a codepulse configuration file",
		Long: `Create a configuration file with the default thresholds so they
can be customized per project.

The file extension picks the format: .toml or .yaml.

Examples:
  # Create .codepulse.toml in the current directory
  codepulse init

  # Create a YAML config instead
  codepulse init --config .codepulse.yaml`,
		RunE: i.runInit,
	}

	cmd.Flags().BoolVarP(&i.force, "force", "f", false, "Overwrite an existing configuration file")
	cmd.Flags().StringVarP(&i.configPath, "config", "c", ".codepulse.toml", "Configuration file path")

	return cmd
}

func (i *InitCommand) runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(i.configPath); err == nil && !i.force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", i.configPath)
	}

	if err := config.WriteDefault(i.configPath); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created: %s\n", i.configPath)
	return nil
}

// NewInitCmd creates and returns the init cobra command
func NewInitCmd() *cobra.Command {
	return NewInitCommand().CreateCobraCommand()
}
