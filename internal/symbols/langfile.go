package symbols

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"diffscope/internal/logging"
)

// languageFile is the optional per-repository language declaration
// file, located under the repository root. Each top-level table names
// an extension and may supply extra definition patterns and a server
// language id:
//
//	[zig]
//	patterns = ['^\s*(?:pub\s+)?fn\s+([A-Za-z_][A-Za-z0-9_]*)']
//	language-id = "zig"
const languageFile = ".diffscope/languages.toml"

type languageEntry struct {
	Patterns   []string `toml:"patterns"`
	LanguageID string   `toml:"language-id"`
}

// PatternOverlay holds the parsed declarations: extra definition
// patterns per extension, plus server language ids for extensions the
// configuration does not map. A nil overlay is valid and empty.
type PatternOverlay struct {
	patterns    map[string][]*regexp.Regexp
	languageIDs map[string]string
}

// Patterns returns the overlay patterns declared for ext.
func (o *PatternOverlay) Patterns(ext string) []*regexp.Regexp {
	if o == nil {
		return nil
	}
	return o.patterns[ext]
}

// LanguageID returns the server language id declared for ext, or "".
func (o *PatternOverlay) LanguageID(ext string) string {
	if o == nil {
		return ""
	}
	return o.languageIDs[ext]
}

// LoadPatternOverlay reads the repository's language declarations. A
// missing file contributes nothing silently; a malformed file or an
// invalid pattern logs a warning and is skipped.
func LoadPatternOverlay(root string, logger *logging.Logger) *PatternOverlay {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(languageFile)))
	if err != nil {
		return nil
	}

	var entries map[string]languageEntry
	if err := toml.Unmarshal(data, &entries); err != nil {
		logger.Warn("ignoring malformed language overlay", map[string]interface{}{
			"file":  languageFile,
			"error": err.Error(),
		})
		return nil
	}

	overlay := &PatternOverlay{
		patterns:    make(map[string][]*regexp.Regexp),
		languageIDs: make(map[string]string),
	}
	for ext, entry := range entries {
		key := strings.ToLower(strings.TrimPrefix(ext, "."))
		if key == "" {
			continue
		}
		if entry.LanguageID != "" {
			overlay.languageIDs[key] = entry.LanguageID
		}
		for _, pattern := range entry.Patterns {
			re, compErr := regexp.Compile(pattern)
			if compErr != nil {
				logger.Warn("ignoring invalid language pattern", map[string]interface{}{
					"extension": key,
					"pattern":   pattern,
					"error":     compErr.Error(),
				})
				continue
			}
			overlay.patterns[key] = append(overlay.patterns[key], re)
		}
	}
	if len(overlay.patterns) == 0 && len(overlay.languageIDs) == 0 {
		return nil
	}
	return overlay
}

// patternsWithOverlay returns the static patterns for ext extended by
// any overlay patterns. Overlay entries for unknown extensions enable
// pattern scanning for those files.
func patternsWithOverlay(ext string, overlay *PatternOverlay) []*regexp.Regexp {
	base := PatternsForExtension(ext)
	extra := overlay.Patterns(ext)
	if len(extra) == 0 {
		return base
	}
	merged := make([]*regexp.Regexp, 0, len(base)+len(extra))
	merged = append(merged, base...)
	return append(merged, extra...)
}
