package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/johnnynv/logsmith/internal/config"
	"github.com/johnnynv/logsmith/pkg/logger"
)

var validateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate a logsmith configuration file",
	Long: heredoc.Doc(`
		Validate the syntax and content of a logsmith configuration file.

		This command checks:
		- YAML syntax
		- level names of the logger and of every file transport
		- the maxFiles retention format (a number followed by h, d or w)
		- environment variable references left unexpanded
		- file transports that can never receive a record
	`),
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

var validateFormat string

// validationResult is the JSON form of a validation run
type validationResult struct {
	File     string                  `json:"file"`
	Valid    bool                    `json:"valid"`
	Errors   logger.ValidationErrors `json:"errors"`
	Warnings []string                `json:"warnings"`
	Config   *logger.Config          `json:"config,omitempty"`
}

func init() {
	validateCmd.Flags().StringVar(&validateFormat, "format", "text", "Output format (text, json)")

	configCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile := configPath(args)
	if configFile == "" {
		configFile = "./logsmith.yaml"
	}

	cliLogger, err := newCLILogger(cmd)
	if err != nil {
		return err
	}
	defer cliLogger.Close()

	cliLogger.WithFields(logger.Fields{
		"config_file": configFile,
		"format":      validateFormat,
	}).Debug("Starting configuration validation")

	result := validationResult{File: configFile, Errors: logger.ValidationErrors{}, Warnings: []string{}}

	loader := config.NewLoader()
	cfg, err := loader.LoadFromFile(configFile)
	if err == nil {
		err = loader.Validate(cfg)
	}

	var cfgErr *logger.ConfigurationError
	switch {
	case err == nil:
		result.Valid = true
		result.Config = cfg
		result.Warnings = append(result.Warnings, performBasicChecks(cfg)...)
		for _, name := range loader.Unresolved() {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Environment variable %s is not set or not allowed", name))
		}
	case errors.As(err, &cfgErr):
		result.Errors = cfgErr.Errors
	default:
		result.Errors = logger.ValidationErrors{{Field: "file", Value: configFile, Message: err.Error()}}
	}

	if validateFormat == "json" {
		if err := printValidationResultJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	} else {
		printValidationResultText(cmd.OutOrStdout(), result)
	}

	if !result.Valid {
		return fmt.Errorf("configuration validation failed with %d error(s)", len(result.Errors))
	}
	return nil
}

// performBasicChecks finds settings that are valid but probably unintended
func performBasicChecks(cfg *logger.Config) []string {
	var warnings []string

	loggerLevel, _ := logger.ParseLevel(cfg.Level)

	namesSeen := make(map[string]bool)
	for _, transport := range cfg.FileTransports {
		name := transport.Filename
		if cfg.Rotating() {
			name = logger.RotatingFilename(name)
		}
		if namesSeen[name] {
			warnings = append(warnings, fmt.Sprintf("Duplicate file transport: %s", transport.Filename))
		}
		namesSeen[name] = true

		if transport.Level != "" {
			level, _ := logger.ParseLevel(transport.Level)
			if !loggerLevel.Enables(level) {
				warnings = append(warnings, fmt.Sprintf(
					"File transport %s is at %s but the logger is at %s; records between them are dropped before reaching it",
					transport.Filename, level, loggerLevel))
			}
		}

		if !cfg.Rotating() && !filepath.IsAbs(transport.Filename) {
			warnings = append(warnings, fmt.Sprintf("File transport %s is relative to the working directory", transport.Filename))
		}
		if !cfg.Rotating() && transport.MaxFiles != "" {
			warnings = append(warnings, fmt.Sprintf("File transport %s: maxFiles only applies when rotateLogs is enabled", transport.Filename))
		}
		if cfg.Rotating() && filepath.Dir(transport.Filename) != "." {
			warnings = append(warnings, fmt.Sprintf("File transport %s: only the base name is used under %s", transport.Filename, cfg.LogsDir))
		}
	}

	if !cfg.Rotating() && (cfg.MaxSize > 0 || cfg.Compress) {
		warnings = append(warnings, "maxSize and compress only apply when rotateLogs is enabled")
	}

	return warnings
}

func printValidationResultJSON(out io.Writer, result validationResult) error {
	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	fmt.Fprintln(out, string(jsonBytes))
	return nil
}

func printValidationResultText(out io.Writer, result validationResult) {
	if result.Valid {
		fmt.Fprintf(out, "✅ Configuration validation PASSED\n\n")
	} else {
		fmt.Fprintf(out, "❌ Configuration validation FAILED\n\n")
	}

	fmt.Fprintf(out, "File: %s\n", result.File)
	if cfg := result.Config; cfg != nil {
		fmt.Fprintf(out, "Level: %s\n", cfg.Level)
		fmt.Fprintf(out, "Rotation: %t\n", cfg.Rotating())
		fmt.Fprintf(out, "Logs Dir: %s\n", cfg.LogsDir)
		fmt.Fprintf(out, "File Transports: %d\n", len(cfg.FileTransports))
	}
	fmt.Fprintln(out)

	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "🚨 Errors:\n")
		for _, err := range result.Errors {
			fmt.Fprintf(out, "  - %s: %s\n", err.Field, err.Message)
		}
		fmt.Fprintln(out)
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintf(out, "⚠️  Warnings:\n")
		for _, warn := range result.Warnings {
			fmt.Fprintf(out, "  - %s\n", warn)
		}
		fmt.Fprintln(out)
	}

	if result.Valid && len(result.Warnings) == 0 {
		fmt.Fprintf(out, "🎉 No issues found!\n")
	}
}
