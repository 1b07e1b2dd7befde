package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"diffscope/internal/symbols"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect a usable language server for this repository",
	Long: `Samples the repository's file extensions, ranks the known language
servers against them, and prints the launch command of the best one
whose executable is installed. Prints "none" when no candidate is
usable; the index then falls back to the pattern scan.`,
	Run: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()

	enabled := make(map[string]bool, len(cfg.SymbolIndex.Languages))
	for ext := range cfg.SymbolIndex.Languages {
		enabled[ext] = true
	}

	command := symbols.DetectServerCommand(cfg.RepoRoot, cfg.SymbolIndex.MaxFiles, enabled, cfg.ShouldExclude)
	if command == "" {
		fmt.Println("none")
		return
	}
	fmt.Println(command)
}
