package review

import (
	"github.com/google/uuid"

	"diffscope/internal/chunks"
	"diffscope/internal/config"
	"diffscope/internal/diff"
	"diffscope/internal/logging"
	"diffscope/internal/symbols"
)

// Engine runs review passes for one repository. The symbol indexer is
// chosen once at construction; the index itself and the context
// budgets are fresh on every Run.
type Engine struct {
	cfg      *config.Config
	logger   *logging.Logger
	indexer  symbols.Indexer
	feedback *Feedback
}

func NewEngine(cfg *config.Config, logger *logging.Logger) *Engine {
	e := &Engine{
		cfg:      cfg,
		logger:   logger,
		feedback: LoadFeedback(cfg.RepoRoot, logger),
	}
	if cfg.SymbolIndex.Enabled {
		e.indexer = symbols.NewIndexer(cfg, logger)
	}
	return e
}

// Run parses diffText and produces a report for every file it names.
// Malformed diff input fails the whole run; everything past parsing
// degrades per file.
func (e *Engine) Run(diffText string) (*ReviewReport, error) {
	diffs, err := diff.ParseUnifiedDiff(diffText)
	if err != nil {
		return nil, err
	}

	if len(diffText) > e.cfg.MaxDiffChars {
		e.logger.Warn("diff exceeds configured budget", map[string]interface{}{
			"chars":  len(diffText),
			"budget": e.cfg.MaxDiffChars,
		})
	}

	report := &ReviewReport{
		RunID: uuid.New().String(),
		Root:  e.cfg.RepoRoot,
	}

	var ix *symbols.Index
	if e.indexer != nil {
		ix, err = e.indexer.BuildIndex(e.cfg.RepoRoot)
		if err != nil {
			return nil, err
		}
		report.Index = IndexStats{
			Strategy: e.indexer.Name(),
			Files:    ix.FilesIndexed(),
			Symbols:  ix.SymbolCount(),
		}
		e.logger.Info("symbol index built", map[string]interface{}{
			"strategy": report.Index.Strategy,
			"files":    report.Index.Files,
			"symbols":  report.Index.Symbols,
		})
	}

	assembler := chunks.NewAssembler(e.cfg.RepoRoot, e.cfg.MaxChunkChars, e.cfg.MaxContextChars)

	for i := range diffs {
		d := &diffs[i]
		fr := FileReport{Path: d.FilePath, Hunks: len(d.Hunks)}
		fr.Added, fr.Removed = d.Stats()

		if reason := e.skipReason(d); reason != "" {
			fr.Skipped = true
			fr.SkipReason = reason
			e.logger.Debug("skipping file", map[string]interface{}{
				"path":   d.FilePath,
				"reason": reason,
			})
			report.Files = append(report.Files, fr)
			continue
		}

		fr.Chunks = assembler.FileContext(d.FilePath, diff.NewLineRanges(d))
		fr.Symbols = diff.ExtractSymbols(d)
		if ix != nil && len(fr.Symbols) > 0 {
			fr.Chunks = append(fr.Chunks, assembler.DefinitionChunks(d.FilePath, fr.Symbols, ix)...)
		}
		fr.Truncated = assembler.Truncated()
		report.Files = append(report.Files, fr)
	}

	report.Extra = assembler.ExtraContext(e.cfg.ExtraContext)

	if dropped := e.feedback.Apply(report); dropped > 0 {
		e.logger.Debug("feedback applied", map[string]interface{}{
			"dropped": dropped,
		})
	}

	e.logger.Info("review complete", map[string]interface{}{
		"runId": report.RunID,
		"files": len(report.Files),
	})
	return report, nil
}

func (e *Engine) skipReason(d *diff.UnifiedDiff) string {
	switch {
	case e.cfg.ShouldExclude(d.FilePath):
		return SkipExcluded
	case d.IsDeleted:
		return SkipDeleted
	case d.IsBinary:
		return SkipBinary
	case len(d.Hunks) == 0:
		return SkipNoHunks
	}
	return ""
}
