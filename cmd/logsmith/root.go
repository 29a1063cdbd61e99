package main

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/johnnynv/logsmith/internal/config"
	"github.com/johnnynv/logsmith/pkg/logger"
)

var (
	globalConfigFile string
	globalLogLevel   string
	globalEnvFiles   []string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "logsmith",
	Short: "logsmith - logger factory toolkit",
	Long: heredoc.Doc(`
		logsmith builds loggers from a small YAML configuration: a console sink
		that is always present plus optional date-rotating or static JSON file
		sinks, each with its own severity threshold.

		Use it to validate and inspect configurations, write test records
		through a configured logger, and manage the files it produces.
	`),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadEnvFiles,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&globalConfigFile, "config", "", "config file (default: defaults plus LOGSMITH_* environment)")
	rootCmd.PersistentFlags().StringVar(&globalLogLevel, "log-level", "info", "level of logsmith's own diagnostics (error, warn, info, http, verbose, debug, silly)")
	rootCmd.PersistentFlags().StringSliceVar(&globalEnvFiles, "env-file", nil, "load variables from these .env files (default: ./.env when present)")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("LOGSMITH") // LOGSMITH_CONFIG, LOGSMITH_LOG_LEVEL
	viper.AutomaticEnv()
}

func loadEnvFiles(cmd *cobra.Command, args []string) error {
	return config.LoadDotEnv(globalEnvFiles...)
}

// configPath picks the configuration file: positional argument first, then
// --config or LOGSMITH_CONFIG. Empty means defaults plus environment.
func configPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return viper.GetString("config")
}

// newCLILogger is the console logger for logsmith's own diagnostics
func newCLILogger(cmd *cobra.Command) (*logger.Logger, error) {
	log, err := logger.New(logger.Config{Level: viper.GetString("log_level")},
		logger.WithConsoleWriter(cmd.ErrOrStderr()))
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	return log, nil
}

// loadManager loads and validates the configuration at path
func loadManager(cmd *cobra.Command, path string) (*config.Manager, *logger.Logger, error) {
	cliLogger, err := newCLILogger(cmd)
	if err != nil {
		return nil, nil, err
	}

	manager := config.NewManager(cliLogger)
	if err := manager.Load(path); err != nil {
		cliLogger.Close()
		return nil, nil, err
	}
	return manager, cliLogger, nil
}
