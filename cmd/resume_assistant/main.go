// Package main provides the entry point for the resume assistant HTTP API server and CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-assistant/internal/config"
)

var (
	configFile string
	logFormat  string
	logLevel   string
	verbose    bool

	// cfg and logger are set before any subcommand runs.
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "resume_assistant",
	Short: "Resume Assistant HTTP API Server",
	Long: "Resume Assistant typesets resumes as PDFs, tailors them to job descriptions, " +
		"writes cover letters and keeps job bookmarks with interview preparation.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to JSON config file")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print a summary of each step")
}

func setup(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if logFormat != "" {
		loaded.LogFormat = logFormat
	}
	if logLevel != "" {
		loaded.LogLevel = logLevel
	}

	l, err := newLogger(os.Stderr, loaded.LogFormat, loaded.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(l)
	cfg, logger = loaded, l
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
