package chunks

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"

	"diffscope/internal/diff"
	"diffscope/internal/symbols"
)

const (
	truncatedMarker = "\n[truncated]"
	stoppedNote     = "[context truncated]"

	maxExtraFiles        = 10
	maxExtraLinesPerFile = 200
)

// Resolver yields definition locations for symbol names, nearest file
// first.
type Resolver interface {
	Resolve(fromFile string, names []string) []symbols.Location
}

// Assembler produces chunks under two budgets: MaxChunkChars bounds a
// single chunk's content, MaxTotalChars bounds the cumulative content
// of everything the assembler has produced. Once the total budget is
// hit, a single Note chunk marks the cut and all later calls return
// nothing. One assembler serves one review pass; it is not safe for
// concurrent use.
type Assembler struct {
	root          string
	maxChunkChars int
	maxTotalChars int

	used    int
	stopped bool
}

func NewAssembler(root string, maxChunkChars, maxTotalChars int) *Assembler {
	return &Assembler{
		root:          root,
		maxChunkChars: maxChunkChars,
		maxTotalChars: maxTotalChars,
	}
}

// Truncated reports whether the total budget cut assembly short.
func (a *Assembler) Truncated() bool {
	return a.stopped
}

// FileContext slices the named file into FileContent chunks, one per
// merged range. Ranges are 1-based inclusive and clamped to the file;
// an unreadable file contributes nothing.
func (a *Assembler) FileContext(path string, ranges []diff.LineRange) []Chunk {
	if a.stopped || len(ranges) == 0 {
		return nil
	}
	lines, ok := a.readLines(path)
	if !ok {
		return nil
	}

	var out []Chunk
	for _, r := range MergeLineRanges(ranges) {
		start := r.Start
		if start < 1 {
			start = 1
		}
		end := r.End
		if end > len(lines) {
			end = len(lines)
		}
		if start > end {
			continue
		}

		out, ok = a.push(out, Chunk{
			FilePath:  path,
			Content:   strings.Join(lines[start-1:end], "\n"),
			Kind:      FileContent,
			StartLine: start,
			EndLine:   end,
		})
		if !ok {
			break
		}
	}
	return out
}

// DefinitionChunks resolves symbol names and wraps each location's
// snippet in a Definition chunk, preserving the resolver's order.
func (a *Assembler) DefinitionChunks(fromFile string, names []string, resolver Resolver) []Chunk {
	if a.stopped || resolver == nil || len(names) == 0 {
		return nil
	}

	var out []Chunk
	var ok bool
	for _, loc := range resolver.Resolve(fromFile, names) {
		if loc.Snippet == "" {
			continue
		}
		out, ok = a.push(out, Chunk{
			FilePath:  loc.FilePath,
			Content:   loc.Snippet,
			Kind:      Definition,
			StartLine: loc.Range.Start,
			EndLine:   loc.Range.End,
		})
		if !ok {
			break
		}
	}
	return out
}

// ExtraContext expands glob patterns relative to the root and wraps
// each matched file in a Reference chunk. At most ten files contribute
// and each is cut at two hundred lines; unreadable matches are skipped.
func (a *Assembler) ExtraContext(patterns []string) []Chunk {
	if a.stopped || len(patterns) == 0 {
		return nil
	}

	fsys := os.DirFS(a.root)
	seen := make(map[string]bool)
	files := 0
	var out []Chunk
	var ok bool
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			continue
		}
		for _, rel := range matches {
			if files >= maxExtraFiles {
				return out
			}
			if seen[rel] {
				continue
			}
			seen[rel] = true

			lines, readOK := a.readLines(rel)
			if !readOK {
				continue
			}
			end := len(lines)
			if end > maxExtraLinesPerFile {
				end = maxExtraLinesPerFile
			}
			if end == 0 {
				continue
			}

			out, ok = a.push(out, Chunk{
				FilePath:  rel,
				Content:   strings.Join(lines[:end], "\n"),
				Kind:      Reference,
				StartLine: 1,
				EndLine:   end,
			})
			if !ok {
				return out
			}
			files++
		}
	}
	return out
}

// push applies both budgets to c. The per-chunk cap truncates content
// with a marker; breaching the total cap appends the stop note instead
// of c and reports false.
func (a *Assembler) push(out []Chunk, c Chunk) ([]Chunk, bool) {
	if a.stopped {
		return out, false
	}

	if len(c.Content) > a.maxChunkChars {
		cut := a.maxChunkChars
		// Never split a multi-byte rune.
		for cut > 0 && !utf8.RuneStart(c.Content[cut]) {
			cut--
		}
		c.Content = c.Content[:cut] + truncatedMarker
	}

	if a.used+len(c.Content) > a.maxTotalChars {
		a.stopped = true
		return append(out, Chunk{Kind: Note, Content: stoppedNote}), false
	}

	a.used += len(c.Content)
	return append(out, c), true
}

func (a *Assembler) readLines(rel string) ([]string, bool) {
	data, err := os.ReadFile(filepath.Join(a.root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, false
	}
	return splitLines(string(data)), true
}

func splitLines(content string) []string {
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
