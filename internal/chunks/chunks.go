// Package chunks turns located line ranges and symbol snippets into
// bounded context chunks. Ranges are merged before any file content is
// sliced; character budgets are hard caps applied as chunks are
// produced, never after the fact.
package chunks

import (
	"fmt"
	"sort"
	"strings"

	"diffscope/internal/diff"
)

// ChunkKind classifies where a chunk's content came from.
type ChunkKind string

const (
	FileContent ChunkKind = "FileContent"
	Definition  ChunkKind = "Definition"
	Reference   ChunkKind = "Reference"
	Note        ChunkKind = "Note"
)

// Chunk is one bounded piece of review context. StartLine and EndLine
// are 1-based inclusive; zero means the chunk has no line position.
type Chunk struct {
	FilePath  string    `json:"filePath,omitempty"`
	Content   string    `json:"content"`
	Kind      ChunkKind `json:"kind"`
	StartLine int       `json:"startLine,omitempty"`
	EndLine   int       `json:"endLine,omitempty"`
}

// MergeLineRanges returns the minimal ascending, non-overlapping cover
// of ranges. Ranges merge when they overlap, touch, or are separated by
// a single line. The input is not modified; the result is idempotent
// under re-merging.
func MergeLineRanges(ranges []diff.LineRange) []diff.LineRange {
	if len(ranges) == 0 {
		return nil
	}

	sorted := make([]diff.LineRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	merged := make([]diff.LineRange, 0, len(sorted))
	merged = append(merged, sorted[0])
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		// A gap of one line still merges: (1,5) and (7,9) become (1,9).
		if r.Start <= last.End+2 {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// Format renders chunks as labeled text blocks. Budgets were applied
// when the chunks were assembled; Format never drops or truncates.
func Format(cs []Chunk) string {
	var b strings.Builder
	for _, c := range cs {
		b.WriteString("\n")
		b.WriteString(c.header())
		b.WriteString("\n")
		b.WriteString(c.Content)
		b.WriteString("\n")
	}
	return b.String()
}

func (c Chunk) header() string {
	switch {
	case c.FilePath == "":
		return fmt.Sprintf("[%s]", c.Kind)
	case c.StartLine == 0:
		return fmt.Sprintf("[%s - %s]", c.Kind, c.FilePath)
	default:
		return fmt.Sprintf("[%s - %s:%d-%d]", c.Kind, c.FilePath, c.StartLine, c.EndLine)
	}
}
