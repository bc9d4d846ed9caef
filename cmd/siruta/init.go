package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Far-Se/coduri-siruta/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/siruta.yaml
var configTemplate embed.FS

// configFileName is the default configuration file name.
const configFileName = config.DefaultConfigFile

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a siruta configuration file",
		Long: `Init writes a commented .siruta.yaml to the current directory.

Every setting in the generated file is commented out, so the file changes
nothing until you edit it.

Examples:
  # Create .siruta.yaml in current directory
  siruta init

  # Create config file at a specific path
  siruta init -o myconfig.yaml

  # Force overwrite existing file
  siruta init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/siruta.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nUncomment the settings you want to change, for example:")
	fmt.Fprintln(out, "  - dateSuffix when the ministry republishes the nomenclature")
	fmt.Fprintln(out, "  - output to write the merged document elsewhere")
	fmt.Fprintln(out, "  - history to record every run")

	return nil
}
