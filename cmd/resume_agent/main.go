// Package main provides the entry point for the resume_agent CLI and HTTP
// API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atul48kumar90/resume-tailor-agent/internal/config"
	"github.com/atul48kumar90/resume-tailor-agent/internal/logger"
)

// app carries state resolved once by the root command for every subcommand.
type app struct {
	configPath string
	logJSON    bool
	debug      bool
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "resume_agent",
		Short: "Resume version history, comparison and ATS scoring",
		Long: "resume_agent keeps an append-only history of structured resume snapshots, " +
			"compares any two of them section by section, and scores them against job requirements. " +
			"It runs as a REST API server or as a local CLI.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Path to a YAML, JSON or TOML config file")
	flags.BoolVar(&a.logJSON, "json", false, "Write logs as JSON")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug logging")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Print human-readable summaries to stderr")

	rootCmd.AddCommand(
		newServeCmd(a),
		newDiffCmd(a),
		newScoreCmd(a),
		newVersionsCmd(a),
	)
	return rootCmd
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	log, err := logger.New(a.logJSON || cfg.Log.JSON, a.debug || cfg.Log.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.logger = log
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
