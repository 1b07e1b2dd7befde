// Package diff parses and synthesizes unified diffs into an
// addressable line-level model.
package diff

// ChangeType classifies a single diff line
type ChangeType string

const (
	// Added lines exist only on the new side
	Added ChangeType = "added"
	// Removed lines exist only on the old side
	Removed ChangeType = "removed"
	// Context lines exist on both sides
	Context ChangeType = "context"
)

// DiffLine is one line of a hunk. OldLine/NewLine are 1-based; zero
// means the line has no number on that side (Added has no OldLine,
// Removed no NewLine, Context has both).
type DiffLine struct {
	OldLine int        `json:"oldLine,omitempty"`
	NewLine int        `json:"newLine,omitempty"`
	Type    ChangeType `json:"type"`
	Content string     `json:"content"`
}

// DiffHunk is a contiguous block of changes bounded by a @@ header.
// Counts satisfy: Removed-or-Context lines == OldLines and
// Added-or-Context lines == NewLines (header counts may default to 1).
type DiffHunk struct {
	OldStart int        `json:"oldStart"`
	OldLines int        `json:"oldLines"`
	NewStart int        `json:"newStart"`
	NewLines int        `json:"newLines"`
	Header   string     `json:"header"`
	Changes  []DiffLine `json:"changes"`
}

// UnifiedDiff is one file's change. Immutable once returned from a
// parse or assemble call.
type UnifiedDiff struct {
	FilePath  string     `json:"filePath"`
	Hunks     []DiffHunk `json:"hunks"`
	IsBinary  bool       `json:"isBinary,omitempty"`
	IsNew     bool       `json:"isNew,omitempty"`
	IsDeleted bool       `json:"isDeleted,omitempty"`
}

// Stats returns the added and removed line totals across all hunks.
func (d *UnifiedDiff) Stats() (added, removed int) {
	for _, h := range d.Hunks {
		for _, c := range h.Changes {
			switch c.Type {
			case Added:
				added++
			case Removed:
				removed++
			}
		}
	}
	return added, removed
}

// splitLines mirrors line iteration used throughout the package:
// split on \n, drop a final empty element from a trailing newline,
// and strip one trailing \r per line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := make([]string, 0, 64)
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, trimCR(s[start:i]))
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, trimCR(s[start:]))
	}
	return lines
}

func trimCR(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\r' {
		return s[:n-1]
	}
	return s
}
