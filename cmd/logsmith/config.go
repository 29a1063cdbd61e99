package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/johnnynv/logsmith/pkg/logger"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
	Long:  "Validate, inspect and create logsmith configuration files",
}

var showCmd = &cobra.Command{
	Use:   "show [config-file]",
	Short: "Show the effective configuration",
	Long: heredoc.Doc(`
		Display the configuration a logger would be built from: the file with
		environment variables expanded, LOGSMITH_* overrides applied and
		defaults filled in.
	`),
	Args: cobra.MaximumNArgs(1),
	RunE: runShowConfig,
}

var initCmd = &cobra.Command{
	Use:   "init [config-file]",
	Short: "Initialize a new configuration file",
	Long: heredoc.Doc(`
		Create a new configuration file from a template:

		  minimal   console only
		  rotating  daily files under ./logs, errors in a separate file
		  static    a single append-only file, no rotation
	`),
	Args: cobra.MaximumNArgs(1),
	RunE: runInitConfig,
}

var (
	showFormat   string
	initForce    bool
	initTemplate string
)

func init() {
	showCmd.Flags().StringVar(&showFormat, "format", "yaml", "Output format (yaml, json)")

	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing configuration file")
	initCmd.Flags().StringVar(&initTemplate, "template", "rotating", "Configuration template (minimal, rotating, static)")

	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(initCmd)

	rootCmd.AddCommand(configCmd)
}

func runShowConfig(cmd *cobra.Command, args []string) error {
	manager, cliLogger, err := loadManager(cmd, configPath(args))
	if err != nil {
		return err
	}
	defer cliLogger.Close()

	cfg := manager.Get()
	out := cmd.OutOrStdout()

	switch showFormat {
	case "json":
		jsonBytes, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(out, string(jsonBytes))

	case "yaml":
		yamlBytes, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		fmt.Fprint(out, string(yamlBytes))

	default:
		return fmt.Errorf("unsupported format: %s (supported: yaml, json)", showFormat)
	}

	return nil
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	configFile := "./logsmith.yaml"
	if len(args) > 0 {
		configFile = args[0]
	}

	if _, err := os.Stat(configFile); err == nil && !initForce {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configFile)
	}

	var cfg logger.Config
	switch initTemplate {
	case "minimal":
		cfg = generateMinimalConfig()
	case "rotating":
		cfg = generateRotatingConfig()
	case "static":
		cfg = generateStaticConfig()
	default:
		return fmt.Errorf("unknown template: %s (supported: minimal, rotating, static)", initTemplate)
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	yamlBytes, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	if err := os.WriteFile(configFile, yamlBytes, 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✅ Configuration file created: %s\n", configFile)
	fmt.Fprintf(out, "📝 Template: %s\n", initTemplate)
	fmt.Fprintf(out, "\n💡 Next steps:\n")
	fmt.Fprintf(out, "   1. Adjust levels and file names to your application\n")
	fmt.Fprintf(out, "   2. Validate configuration: logsmith config validate %s\n", configFile)
	fmt.Fprintf(out, "   3. Try it: logsmith emit --config %s hello\n", configFile)

	return nil
}

func generateMinimalConfig() logger.Config {
	return logger.Config{
		Level: logger.DefaultLevel,
	}
}

func generateRotatingConfig() logger.Config {
	rotate := true
	return logger.Config{
		Level:      logger.DefaultLevel,
		RotateLogs: &rotate,
		LogsDir:    "./logs",
		DateFormat: logger.DefaultDateFormat,
		MaxFiles:   logger.DefaultMaxFiles,
		FileTransports: logger.FileTransports{
			{Filename: "app.log"},
			{Filename: "error.log", Level: "error"},
		},
	}
}

func generateStaticConfig() logger.Config {
	rotate := false
	return logger.Config{
		Level:      logger.DefaultLevel,
		RotateLogs: &rotate,
		FileTransports: logger.FileTransports{
			{Filename: "./logs/app.log"},
		},
	}
}
