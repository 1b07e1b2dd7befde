package symbols

import (
	"diffscope/internal/config"
	"diffscope/internal/logging"
)

// BuildOptions bound the resource usage of one index build. All caps
// are hard limits, not advisory.
type BuildOptions struct {
	MaxFiles     int
	MaxFileBytes int
	MaxLocations int
	Exclude      func(rel string) bool
}

// OptionsFromConfig maps the symbol index configuration to build bounds.
func OptionsFromConfig(cfg *config.Config) BuildOptions {
	return BuildOptions{
		MaxFiles:     cfg.SymbolIndex.MaxFiles,
		MaxFileBytes: cfg.SymbolIndex.MaxFileBytes,
		MaxLocations: cfg.SymbolIndex.MaxLocations,
		Exclude:      cfg.ShouldExclude,
	}
}

// Indexer is one symbol-indexing strategy. Both implementations
// produce the same Index shape; callers stay indifferent to which
// strategy satisfied the build.
type Indexer interface {
	Name() string
	BuildIndex(root string) (*Index, error)
}

// NewIndexer selects the indexing strategy for the configuration. The
// server strategy needs a launch command: the configured one, or one
// detected from the repository's extension mix. Without a usable
// command the pattern strategy is used instead.
func NewIndexer(cfg *config.Config, logger *logging.Logger) Indexer {
	si := cfg.SymbolIndex
	opts := OptionsFromConfig(cfg)
	if si.Strategy == config.StrategyServer {
		command := si.ServerCommand
		if command == "" {
			command = DetectServerCommand(cfg.RepoRoot, si.MaxFiles, languageExtensions(si.Languages), cfg.ShouldExclude)
			if command != "" {
				logger.Info("detected language server", map[string]interface{}{
					"command": command,
				})
			}
		}
		if command != "" {
			return NewServerIndexer(command, si.Languages, opts, logger)
		}
		logger.Warn("no language server available, using pattern scan", map[string]interface{}{
			"strategy": si.Strategy,
		})
	}
	return NewPatternIndexer(opts, logger)
}

func languageExtensions(languages map[string]string) map[string]bool {
	if len(languages) == 0 {
		return nil
	}
	exts := make(map[string]bool, len(languages))
	for ext := range languages {
		exts[ext] = true
	}
	return exts
}
