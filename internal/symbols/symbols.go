// Package symbols builds a repository-wide index of symbol definition
// locations. Two strategies produce the same Index shape: a per-language
// regex scan over repository files, and a language-server session driven
// over stdio for extensions with a configured language id. The index is
// built once per review run and read-only afterward.
package symbols

import (
	"sort"

	"diffscope/internal/diff"
)

// Location is one place a symbol is defined.
type Location struct {
	FilePath string         `json:"filePath"`
	Range    diff.LineRange `json:"range"`
	Snippet  string         `json:"snippet"`
}

// Index maps symbol names to their definition locations. Entries per
// name are insertion-ordered and capped at build time; the index is
// never mutated after Build returns.
type Index struct {
	locations    map[string][]Location
	filesIndexed int
}

func newIndex() *Index {
	return &Index{locations: make(map[string][]Location)}
}

// Lookup returns the locations recorded for a symbol name, or nil.
func (ix *Index) Lookup(name string) []Location {
	return ix.locations[name]
}

// FilesIndexed reports how many files contributed at least one symbol.
func (ix *Index) FilesIndexed() int {
	return ix.filesIndexed
}

// SymbolCount reports the number of distinct symbol names indexed.
func (ix *Index) SymbolCount() int {
	return len(ix.locations)
}

// Names returns all indexed symbol names, sorted.
func (ix *Index) Names() []string {
	names := make([]string, 0, len(ix.locations))
	for name := range ix.locations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// add records a location for name unless the per-name cap is already
// reached. Reports whether the location was stored.
func (ix *Index) add(name string, loc Location, maxLocations int) bool {
	entry := ix.locations[name]
	if len(entry) >= maxLocations {
		return false
	}
	ix.locations[name] = append(entry, loc)
	return true
}

// Resolve returns locations for each requested symbol name, ordering
// hits in fromFile ahead of hits elsewhere. The per-name cap was
// enforced at build time; Resolve only reorders.
func (ix *Index) Resolve(fromFile string, names []string) []Location {
	var same, other []Location
	for _, name := range names {
		for _, loc := range ix.locations[name] {
			if loc.FilePath == fromFile {
				same = append(same, loc)
			} else {
				other = append(other, loc)
			}
		}
	}
	return append(same, other...)
}

// splitFileLines splits file content the way the scanners consume it:
// no trailing empty line for newline-terminated content, CR stripped.
func splitFileLines(content string) []string {
	if content == "" {
		return nil
	}
	var lines []string
	start := 0
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			lines = append(lines, trimCR(content[start:i]))
			start = i + 1
		}
	}
	if start < len(content) {
		lines = append(lines, trimCR(content[start:]))
	}
	return lines
}

func trimCR(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\r' {
		return s[:n-1]
	}
	return s
}
