package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnnynv/logsmith/pkg/logger"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Log file management commands",
	Long:  "Commands for managing the files written by the configured file sinks",
}

var logStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show log statistics",
	Long:  "Display the current file, size, retention and dated files of every file sink",
	RunE:  runLogStats,
}

var logRotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Manually rotate log files",
	Long:  "Roll the current file of every rotating file sink over to a backup",
	RunE:  runLogRotate,
}

func init() {
	logCmd.AddCommand(logStatsCmd)
	logCmd.AddCommand(logRotateCmd)

	rootCmd.AddCommand(logCmd)
}

// openConfiguredLogger builds the configured logger with the console
// going to the command's stderr
func openConfiguredLogger(cmd *cobra.Command) (*logger.Logger, error) {
	manager, cliLogger, err := loadManager(cmd, configPath(nil))
	if err != nil {
		return nil, err
	}
	defer cliLogger.Close()

	cfg := manager.Get()
	cfg.OverwriteConsole = false

	l, err := logger.New(*cfg, logger.WithConsoleWriter(cmd.ErrOrStderr()))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return l, nil
}

func runLogStats(cmd *cobra.Command, args []string) error {
	l, err := openConfiguredLogger(cmd)
	if err != nil {
		return err
	}
	defer l.Close()

	stats, err := l.Stats()
	if err != nil {
		return fmt.Errorf("failed to get log stats: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(stats) == 0 {
		fmt.Fprintln(out, "No file sinks configured (console only)")
		return nil
	}

	fmt.Fprintln(out, "=== 📊 logsmith Log Statistics ===")
	for _, st := range stats {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "🔖 Sink: %s (%s, level %s)\n", st.Name, st.Kind, st.Level)
		fmt.Fprintf(out, "📁 Current File: %s\n", st.CurrentFile)
		fmt.Fprintf(out, "📦 Current Size: %s\n", st.FormatSize(st.CurrentSize))
		if !st.LastModified.IsZero() {
			fmt.Fprintf(out, "🕐 Last Modified: %s\n", st.LastModified.Format("2006-01-02 15:04:05"))
		}
		if st.Kind != logger.RotatingFileSink.String() {
			continue
		}

		fmt.Fprintf(out, "📅 Retention: %s\n", st.Retention)
		if st.MaxSize > 0 {
			fmt.Fprintf(out, "⚙️  Max Size: %d MB\n", st.MaxSize)
		}
		fmt.Fprintf(out, "🗜️  Compression: %t\n", st.Compress)
		fmt.Fprintf(out, "📚 Files: %d\n", len(st.Files))
		for _, f := range st.Files {
			fmt.Fprintf(out, "   - %s\n", f)
		}

		if st.MaxSize > 0 {
			currentSizeMB := float64(st.CurrentSize) / (1024 * 1024)
			if currentSizeMB > float64(st.MaxSize)*0.8 {
				fmt.Fprintf(out, "⚠️  Warning: Log file is %.1f%% of max size\n",
					(currentSizeMB/float64(st.MaxSize))*100)
			}
		}
	}

	return nil
}

func runLogRotate(cmd *cobra.Command, args []string) error {
	l, err := openConfiguredLogger(cmd)
	if err != nil {
		return err
	}
	defer l.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "🔄 Rotating log files...")
	if err := l.Rotate(); err != nil {
		if errors.Is(err, logger.ErrRotationUnavailable) {
			return fmt.Errorf("no rotating file sinks configured: %w", err)
		}
		return fmt.Errorf("failed to rotate log: %w", err)
	}

	fmt.Fprintln(out, "✅ Log rotation completed successfully")
	return nil
}
