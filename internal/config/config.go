package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"diffscope/internal/errors"
)

// Strategy values for the symbol index.
const (
	StrategyPattern = "pattern"
	StrategyServer  = "server"
)

// Config represents the complete diffscope configuration
type Config struct {
	RepoRoot string `json:"repoRoot" yaml:"-" mapstructure:"-"`

	MaxContextChars int `json:"maxContextChars" yaml:"max_context_chars" mapstructure:"max_context_chars"`
	MaxChunkChars   int `json:"maxChunkChars" yaml:"max_chunk_chars" mapstructure:"max_chunk_chars"`
	MaxDiffChars    int `json:"maxDiffChars" yaml:"max_diff_chars" mapstructure:"max_diff_chars"`

	SymbolIndex SymbolIndexConfig `json:"symbolIndex" yaml:"symbol_index" mapstructure:"symbol_index"`

	ExcludePatterns []string `json:"excludePatterns" yaml:"exclude_patterns" mapstructure:"exclude_patterns"`
	ExtraContext    []string `json:"extraContext" yaml:"extra_context" mapstructure:"extra_context"`

	Logging LoggingConfig `json:"logging" yaml:"logging" mapstructure:"logging"`
}

// SymbolIndexConfig contains symbol indexing configuration
type SymbolIndexConfig struct {
	Enabled       bool              `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Strategy      string            `json:"strategy" yaml:"strategy" mapstructure:"strategy"`
	ServerCommand string            `json:"serverCommand" yaml:"server_command" mapstructure:"server_command"`
	Languages     map[string]string `json:"languages" yaml:"languages" mapstructure:"languages"`
	MaxFiles      int               `json:"maxFiles" yaml:"max_files" mapstructure:"max_files"`
	MaxFileBytes  int               `json:"maxFileBytes" yaml:"max_file_bytes" mapstructure:"max_file_bytes"`
	MaxLocations  int               `json:"maxLocations" yaml:"max_locations" mapstructure:"max_locations"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" yaml:"format" mapstructure:"format"`
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		RepoRoot:        ".",
		MaxContextChars: 20000,
		MaxChunkChars:   8000,
		MaxDiffChars:    40000,
		SymbolIndex: SymbolIndexConfig{
			Enabled:  true,
			Strategy: StrategyPattern,
			Languages: map[string]string{
				"go": "go",
				"rs": "rust",
			},
			MaxFiles:     500,
			MaxFileBytes: 200_000,
			MaxLocations: 5,
		},
		ExcludePatterns: []string{},
		ExtraContext:    []string{},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig reads .diffscope.yml from the repo root (then $HOME).
// An explicit path overrides the search. A missing file yields defaults.
func LoadConfig(repoRoot, explicitPath string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("max_context_chars", defaults.MaxContextChars)
	v.SetDefault("max_chunk_chars", defaults.MaxChunkChars)
	v.SetDefault("max_diff_chars", defaults.MaxDiffChars)
	v.SetDefault("symbol_index.enabled", defaults.SymbolIndex.Enabled)
	v.SetDefault("symbol_index.strategy", defaults.SymbolIndex.Strategy)
	v.SetDefault("symbol_index.server_command", "")
	v.SetDefault("symbol_index.languages", defaults.SymbolIndex.Languages)
	v.SetDefault("symbol_index.max_files", defaults.SymbolIndex.MaxFiles)
	v.SetDefault("symbol_index.max_file_bytes", defaults.SymbolIndex.MaxFileBytes)
	v.SetDefault("symbol_index.max_locations", defaults.SymbolIndex.MaxLocations)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.level", defaults.Logging.Level)

	v.SetEnvPrefix("DIFFSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
	} else {
		v.SetConfigName(".diffscope")
		v.SetConfigType("yaml")
		v.AddConfigPath(repoRoot)
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && explicitPath == "" {
			cfg := DefaultConfig()
			cfg.RepoRoot = repoRoot
			return cfg, nil
		}
		return nil, errors.Wrap(errors.InvalidConfig, "reading config file", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.InvalidConfig, "decoding config file", err)
	}

	cfg.RepoRoot = repoRoot
	cfg.Normalize()
	return &cfg, nil
}

// Normalize clamps out-of-range values back to defaults and
// canonicalizes strings. Safe to call repeatedly.
func (c *Config) Normalize() {
	defaults := DefaultConfig()

	if c.MaxContextChars <= 0 {
		c.MaxContextChars = defaults.MaxContextChars
	}
	if c.MaxChunkChars <= 0 {
		c.MaxChunkChars = defaults.MaxChunkChars
	}
	if c.MaxDiffChars <= 0 {
		c.MaxDiffChars = defaults.MaxDiffChars
	}
	if c.SymbolIndex.MaxFiles <= 0 {
		c.SymbolIndex.MaxFiles = defaults.SymbolIndex.MaxFiles
	}
	if c.SymbolIndex.MaxFileBytes <= 0 {
		c.SymbolIndex.MaxFileBytes = defaults.SymbolIndex.MaxFileBytes
	}
	if c.SymbolIndex.MaxLocations <= 0 {
		c.SymbolIndex.MaxLocations = defaults.SymbolIndex.MaxLocations
	}

	switch c.SymbolIndex.Strategy {
	case StrategyPattern, StrategyServer:
	default:
		c.SymbolIndex.Strategy = StrategyPattern
	}

	if c.SymbolIndex.Languages == nil {
		c.SymbolIndex.Languages = defaults.SymbolIndex.Languages
	} else {
		langs := make(map[string]string, len(c.SymbolIndex.Languages))
		for ext, id := range c.SymbolIndex.Languages {
			langs[strings.ToLower(strings.TrimPrefix(ext, "."))] = id
		}
		c.SymbolIndex.Languages = langs
	}

	if c.Logging.Format != "json" {
		c.Logging.Format = "human"
	}
}

// Validate checks configuration values that Normalize cannot repair.
func (c *Config) Validate() error {
	if c.SymbolIndex.Strategy == StrategyServer && c.SymbolIndex.ServerCommand == "" && len(c.SymbolIndex.Languages) == 0 {
		return errors.New(errors.InvalidConfig,
			"server strategy needs a server_command or a languages map to detect one")
	}
	for _, pattern := range c.ExcludePatterns {
		if strings.ContainsAny(pattern, "*?[{") {
			if !doublestar.ValidatePattern(pattern) {
				return errors.New(errors.InvalidConfig, "invalid exclude pattern").
					WithDetails(map[string]interface{}{"pattern": pattern})
			}
		}
	}
	return nil
}

// ShouldExclude reports whether a repo-relative path matches an
// exclusion pattern. Patterns with glob metacharacters match the whole
// path; plain patterns match by prefix.
func (c *Config) ShouldExclude(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range c.ExcludePatterns {
		pattern = filepath.ToSlash(pattern)
		if strings.ContainsAny(pattern, "*?[{") {
			if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
				return true
			}
			continue
		}
		if rel == pattern || strings.HasPrefix(rel, strings.TrimSuffix(pattern, "/")+"/") {
			return true
		}
	}
	return false
}

// EnabledExtensions returns the sorted extensions of the language map.
func (c *Config) EnabledExtensions() []string {
	exts := make([]string, 0, len(c.SymbolIndex.Languages))
	for ext := range c.SymbolIndex.Languages {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// WriteDefault writes a commented default config file. Refuses to
// overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.New(errors.InvalidConfig, "config file already exists").
			WithDetails(map[string]interface{}{"path": path})
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return errors.Wrap(errors.InternalError, "encoding default config", err)
	}

	var b strings.Builder
	b.WriteString("# diffscope configuration.\n")
	b.WriteString("# Budgets are characters; caps are hard limits.\n")
	b.WriteString("# symbol_index.strategy: pattern | server\n")
	b.Write(data)

	return os.WriteFile(path, []byte(b.String()), 0o644)
}
