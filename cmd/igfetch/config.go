package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"igfetch/pkg/config"
	"igfetch/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage igfetch configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (IGFETCH_*, .env files included)
  - Configuration file
  - Default values (lowest priority)`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default values",
	Long: `Write a configuration file with every option at its default value.

The file is created as .igfetch.yaml in the current directory unless a
different path is given with --config.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration from every source and check it.

This command checks:
  - YAML syntax
  - Value ranges
  - Whether the download, session and log directories can be created`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = ".igfetch.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file already exists: %s", path)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}

	ui.PrintSuccess("Configuration file created: " + path)
	fmt.Fprintln(cmd.ErrOrStderr(), "\nNext steps:")
	fmt.Fprintln(cmd.ErrOrStderr(), "1. Adjust the values you care about")
	fmt.Fprintln(cmd.ErrOrStderr(), "2. Run 'igfetch config validate' to check the file")
	fmt.Fprintln(cmd.ErrOrStderr(), "3. Run 'igfetch preview <url>'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, globalFlags())
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, globalFlags())
	if err != nil {
		return err
	}

	if problems := checkPaths(cfg); problems != nil {
		return problems
	}

	ui.PrintSuccess("Configuration is valid")
	ui.PrintInfo("Output directory", cfg.Download.BaseDirectory)
	ui.PrintInfo("Session directory", cfg.Session.Directory)
	ui.PrintInfo("Fetch delay", cfg.Fetch.Delay.String())
	ui.PrintInfo("Download delay", cfg.Download.Delay.String())
	ui.PrintInfo("Log level", cfg.Logging.Level)
	return nil
}

// checkPaths verifies that the directories igfetch writes to can be created
func checkPaths(cfg *config.Config) error {
	var errs []error
	dirs := map[string]string{
		"output directory":  cfg.Download.BaseDirectory,
		"session directory": cfg.Session.Directory,
	}
	if cfg.Logging.File != "" {
		dirs["log directory"] = filepath.Dir(cfg.Logging.File)
	}
	for name, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			errs = append(errs, fmt.Errorf("cannot create %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
