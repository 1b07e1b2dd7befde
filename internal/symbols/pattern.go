package symbols

import (
	"path/filepath"

	"diffscope/internal/logging"
)

// PatternIndexer builds the index with the per-language regex tables
// alone. It is also the fallback for the server strategy.
type PatternIndexer struct {
	opts   BuildOptions
	logger *logging.Logger
}

func NewPatternIndexer(opts BuildOptions, logger *logging.Logger) *PatternIndexer {
	return &PatternIndexer{opts: opts, logger: logger}
}

func (p *PatternIndexer) Name() string {
	return "pattern"
}

// BuildIndex walks the repository and scans every file whose extension
// has a pattern table. A file counts toward MaxFiles only when it
// contributed at least one symbol; the walk stops once the cap is
// reached.
func (p *PatternIndexer) BuildIndex(root string) (*Index, error) {
	ix := newIndex()
	if p.opts.MaxFiles <= 0 {
		return ix, nil
	}

	overlay := LoadPatternOverlay(root, p.logger)

	filesSeen := 0
	for _, rel := range listRepoFiles(root, p.opts.Exclude) {
		if filesSeen >= p.opts.MaxFiles {
			break
		}
		patterns := patternsWithOverlay(fileExtension(rel), overlay)
		if len(patterns) == 0 {
			continue
		}
		lines, ok := readScannable(filepath.Join(root, filepath.FromSlash(rel)), p.opts.MaxFileBytes)
		if !ok {
			continue
		}
		if ix.scanLines(rel, lines, patterns, p.opts.MaxLocations) {
			filesSeen++
			ix.filesIndexed++
		}
	}

	p.logger.Debug("symbol index built", map[string]interface{}{
		"strategy": p.Name(),
		"files":    ix.FilesIndexed(),
		"symbols":  ix.SymbolCount(),
	})
	return ix, nil
}
