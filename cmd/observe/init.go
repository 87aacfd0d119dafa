package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vango-dev/observe/internal/config"
	"github.com/vango-dev/observe/internal/errors"
)

func initCmd() *cobra.Command {
	var (
		format string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a sample configuration",
		Long: `Write a sample observe.yaml (or observe.json) to the given directory.

Examples:
  observe init
  observe init --format=json
  observe init ./state --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			path, err := runInit(dir, format, force)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Config format (yaml, json)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config")

	return cmd
}

// runInit writes the sample config and returns its path.
func runInit(dir, format string, force bool) (string, error) {
	var name string
	switch format {
	case "yaml", "yml":
		name = config.YAMLConfigFileName
	case "json":
		name = config.ConfigFileName
	default:
		return "", errors.Newf(errors.CategoryCLI, "unknown format %q", format).
			WithSuggestion("Use --format=yaml or --format=json")
	}

	if !force && config.Exists(dir) {
		return "", errors.New("E200").
			WithDetail("A config file already exists in " + dir + ".").
			WithSuggestion("Use --force to overwrite it")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.New("E200").Wrap(err)
	}

	path := filepath.Join(dir, name)
	if err := config.Sample().SaveTo(path); err != nil {
		return "", err
	}
	return path, nil
}
