package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"diffscope/internal/config"
	"diffscope/internal/logging"
	"diffscope/internal/version"
)

var (
	configFlag    string
	repoFlag      string
	logLevelFlag  string
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "diffscope",
	Short: "diffscope - review context for code diffs",
	Long: `diffscope turns a unified diff into a reviewable context bundle: the
changed line ranges, the symbols those lines touch, and the definitions
behind them, all gathered under hard character budgets.`,
	Version: version.Info(),
}

func init() {
	rootCmd.SetVersionTemplate("diffscope version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "",
		"Path to a config file (default: .diffscope.yml in the repo root)")
	rootCmd.PersistentFlags().StringVar(&repoFlag, "repo", "",
		"Repository root (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "",
		"Log format: human or json")
}

// mustResolveRepoRoot returns the absolute repository root or exits.
func mustResolveRepoRoot() string {
	root := repoFlag
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		root = cwd
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return abs
}

// mustLoadConfig loads configuration for the resolved repository root
// with command-line overrides applied, or exits.
func mustLoadConfig() *config.Config {
	root := mustResolveRepoRoot()

	cfg, err := config.LoadConfig(root, configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if logLevelFlag != "" {
		cfg.Logging.Level = logLevelFlag
	}
	if logFormatFlag != "" {
		cfg.Logging.Format = logFormatFlag
	}
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newRunLogger builds the logger for one command invocation.
func newRunLogger(cfg *config.Config) *logging.Logger {
	return logging.NewLogger(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  logging.ParseLevel(cfg.Logging.Level),
	})
}
