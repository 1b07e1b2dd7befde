package symbols

import (
	"os"
	"path/filepath"
	"strings"

	"diffscope/internal/diff"
	"diffscope/internal/logging"
	"diffscope/internal/lsp"
	"diffscope/internal/paths"
)

// ServerIndexer drives an external language server for files whose
// extension maps to a configured language id, and falls back to the
// pattern scan for everything else. Spawn or protocol failures abort
// only the server session: files not yet processed are rescanned with
// patterns, sharing the same file budget.
type ServerIndexer struct {
	command   string
	languages map[string]string
	opts      BuildOptions
	logger    *logging.Logger
}

func NewServerIndexer(command string, languages map[string]string, opts BuildOptions, logger *logging.Logger) *ServerIndexer {
	return &ServerIndexer{
		command:   command,
		languages: languages,
		opts:      opts,
		logger:    logger,
	}
}

func (s *ServerIndexer) Name() string {
	return "server"
}

type serverFile struct {
	rel        string
	languageID string
}

func (s *ServerIndexer) BuildIndex(root string) (*Index, error) {
	ix := newIndex()
	if s.opts.MaxFiles <= 0 {
		return ix, nil
	}

	overlay := LoadPatternOverlay(root, s.logger)

	var serverFiles []serverFile
	var patternFiles []string
	for _, rel := range listRepoFiles(root, s.opts.Exclude) {
		ext := fileExtension(rel)
		if ext == "" {
			continue
		}
		languageID, ok := s.languages[ext]
		if !ok {
			if id := overlay.LanguageID(ext); id != "" {
				languageID, ok = id, true
			}
		}
		if ok {
			serverFiles = append(serverFiles, serverFile{rel: rel, languageID: languageID})
		} else if len(patternsWithOverlay(ext, overlay)) > 0 {
			patternFiles = append(patternFiles, rel)
		}
	}

	filesSeen := 0
	if len(serverFiles) > 0 {
		processed, err := s.indexWithServer(root, ix, serverFiles, &filesSeen)
		if err != nil {
			s.logger.Warn("language server session failed, falling back to pattern scan", map[string]interface{}{
				"command":   s.command,
				"processed": processed,
				"error":     err.Error(),
			})
			for _, sf := range serverFiles[processed:] {
				patternFiles = append(patternFiles, sf.rel)
			}
		}
	}

	for _, rel := range patternFiles {
		if filesSeen >= s.opts.MaxFiles {
			break
		}
		patterns := patternsWithOverlay(fileExtension(rel), overlay)
		if len(patterns) == 0 {
			continue
		}
		lines, ok := readScannable(filepath.Join(root, filepath.FromSlash(rel)), s.opts.MaxFileBytes)
		if !ok {
			continue
		}
		if ix.scanLines(rel, lines, patterns, s.opts.MaxLocations) {
			filesSeen++
			ix.filesIndexed++
		}
	}

	s.logger.Debug("symbol index built", map[string]interface{}{
		"strategy": s.Name(),
		"files":    ix.FilesIndexed(),
		"symbols":  ix.SymbolCount(),
	})
	return ix, nil
}

// indexWithServer feeds server-eligible files through one language
// server session. It returns how many files were consumed and a
// non-nil error when the session aborted; the caller rescans the
// remainder with patterns.
func (s *ServerIndexer) indexWithServer(root string, ix *Index, files []serverFile, filesSeen *int) (int, error) {
	client, err := lsp.Spawn(s.command, root, s.logger)
	if err != nil {
		return 0, err
	}
	defer client.Close()

	for i, sf := range files {
		if *filesSeen >= s.opts.MaxFiles {
			return len(files), nil
		}

		abs, err := paths.Canonicalize(filepath.Join(root, filepath.FromSlash(sf.rel)))
		if err != nil {
			continue
		}
		info, err := os.Stat(abs)
		if err != nil || info.Size() > int64(s.opts.MaxFileBytes) {
			continue
		}
		data, err := os.ReadFile(abs)
		if err != nil {
			continue
		}
		content := string(data)

		found, err := client.DocumentSymbols(abs, sf.languageID, content)
		if err != nil {
			return i, err
		}
		if len(found) == 0 {
			continue
		}

		lines := splitFileLines(content)
		fileAdded := false
		for _, sym := range found {
			start := sym.StartLine
			if start < 1 {
				start = 1
			}
			end := sym.EndLine
			if end < start {
				end = start
			}

			startIdx := start - 3
			if startIdx < 0 {
				startIdx = 0
			}
			endIdx := end + 2
			if endIdx > len(lines) {
				endIdx = len(lines)
			}
			snippet := ""
			if startIdx < endIdx && startIdx < len(lines) {
				snippet = strings.Join(lines[startIdx:endIdx], "\n")
			}

			loc := Location{
				FilePath: sf.rel,
				Range:    diff.LineRange{Start: start, End: end},
				Snippet:  snippet,
			}
			if ix.add(sym.Name, loc, s.opts.MaxLocations) {
				fileAdded = true
			}
		}
		if fileAdded {
			*filesSeen++
			ix.filesIndexed++
		}
	}

	return len(files), nil
}
