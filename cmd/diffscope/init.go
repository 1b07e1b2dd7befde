package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"diffscope/internal/config"
)

var (
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default .diffscope.yml",
	Long:  "Creates a commented .diffscope.yml with default settings in the repository root",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	root := mustResolveRepoRoot()
	path := filepath.Join(root, ".diffscope.yml")

	if _, err := os.Stat(path); err == nil {
		if !initForce {
			// Already initialized counts as success (CI-friendly).
			fmt.Println("diffscope already initialized.")
			fmt.Printf("Configuration at: %s\n", path)
			fmt.Println("\nRun 'diffscope init --force' to rewrite it.")
			return nil
		}
		if removeErr := os.Remove(path); removeErr != nil {
			return removeErr
		}
	}

	if err := config.WriteDefault(path); err != nil {
		return err
	}

	fmt.Printf("Configuration written to: %s\n", path)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Run 'diffscope detect' to see if a language server is available")
	fmt.Println("  2. Run 'diffscope review' on your next change")
	return nil
}
