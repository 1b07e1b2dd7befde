package diff

import "regexp"

// LineRange is a 1-based inclusive span of lines in one file.
type LineRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// NewLineRanges returns the new-side span of each hunk, in hunk order.
func NewLineRanges(d *UnifiedDiff) []LineRange {
	ranges := make([]LineRange, 0, len(d.Hunks))
	for _, h := range d.Hunks {
		end := h.NewStart
		if h.NewLines > 0 {
			end = h.NewStart + h.NewLines - 1
		}
		ranges = append(ranges, LineRange{Start: h.NewStart, End: end})
	}
	return ranges
}

// IsLineInDiff reports whether a new-side line number appears anywhere
// in the diff. Line 0 is never in the diff.
func IsLineInDiff(d *UnifiedDiff, lineNumber int) bool {
	if lineNumber == 0 {
		return false
	}
	for _, h := range d.Hunks {
		for _, change := range h.Changes {
			if change.NewLine == lineNumber {
				return true
			}
		}
	}
	return false
}

var (
	callRe = regexp.MustCompile(`\b([A-Za-z][A-Za-z0-9_]*)\s*\(`)
	declRe = regexp.MustCompile(`\b(class|struct|interface|enum)\s+([A-Z][a-zA-Z0-9_]*)`)
)

// ExtractSymbols collects candidate symbol names from the changed
// lines of a diff: call-site identifiers longer than 2 characters and
// type names introduced by class/struct/interface/enum keywords.
// Order-preserving, deduplicated.
func ExtractSymbols(d *UnifiedDiff) []string {
	var symbols []string
	seen := make(map[string]bool)

	for _, h := range d.Hunks {
		for _, change := range h.Changes {
			if change.Type != Added && change.Type != Removed {
				continue
			}

			for _, m := range callRe.FindAllStringSubmatch(change.Content, -1) {
				name := m[1]
				if len(name) > 2 && !seen[name] {
					seen[name] = true
					symbols = append(symbols, name)
				}
			}

			for _, m := range declRe.FindAllStringSubmatch(change.Content, -1) {
				name := m[2]
				if !seen[name] {
					seen[name] = true
					symbols = append(symbols, name)
				}
			}
		}
	}

	return symbols
}
