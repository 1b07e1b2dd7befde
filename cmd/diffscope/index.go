package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"diffscope/internal/config"
	"diffscope/internal/symbols"
)

var (
	indexStrategy string
	indexSymbol   string
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the symbol index and inspect it",
	Long: `Builds the symbol index for the repository and prints its stats, or
the definition locations of a single symbol.

Examples:
  diffscope index                      # build with the configured strategy
  diffscope index --strategy server    # force the language-server strategy
  diffscope index --symbol ParseConfig # where is ParseConfig defined?`,
	Run: runIndexCmd,
}

func init() {
	indexCmd.Flags().StringVar(&indexStrategy, "strategy", "", "Index strategy: pattern or server (default: configured)")
	indexCmd.Flags().StringVar(&indexSymbol, "symbol", "", "Print definition locations for one symbol")
	rootCmd.AddCommand(indexCmd)
}

func runIndexCmd(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	logger := newRunLogger(cfg)

	if indexStrategy != "" {
		switch indexStrategy {
		case config.StrategyPattern, config.StrategyServer:
			cfg.SymbolIndex.Strategy = indexStrategy
		default:
			fmt.Fprintf(os.Stderr, "Unknown strategy: %s (want pattern or server)\n", indexStrategy)
			os.Exit(1)
		}
	}
	cfg.SymbolIndex.Enabled = true

	indexer := symbols.NewIndexer(cfg, logger)
	ix, err := indexer.BuildIndex(cfg.RepoRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building index: %v\n", err)
		os.Exit(1)
	}

	if indexSymbol != "" {
		printSymbolLocations(ix, indexSymbol)
		return
	}

	fmt.Printf("Strategy: %s\n", indexer.Name())
	fmt.Printf("Files:    %d\n", ix.FilesIndexed())
	fmt.Printf("Symbols:  %d\n", ix.SymbolCount())
}

func printSymbolLocations(ix *symbols.Index, name string) {
	locs := ix.Lookup(name)
	if len(locs) == 0 {
		fmt.Printf("No definitions found for %s\n", name)
		return
	}

	fmt.Printf("%s: %d definition(s)\n", name, len(locs))
	for _, loc := range locs {
		fmt.Printf("\n%s:%d-%d\n", loc.FilePath, loc.Range.Start, loc.Range.End)
		if loc.Snippet != "" {
			fmt.Println(loc.Snippet)
		}
	}
}
