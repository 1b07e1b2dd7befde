package diff

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// contextLines is the context window around change clusters.
const contextLines = 3

// AssembleDiff builds a UnifiedDiff for path directly from two full
// file contents, without serializing through diff text. Line-level
// differencing is delegated to difflib's sequence matcher; each
// grouped opcode run becomes one hunk.
func AssembleDiff(oldText, newText, path string) UnifiedDiff {
	oldLines := splitLines(oldText)
	newLines := splitLines(newText)

	matcher := difflib.NewMatcher(oldLines, newLines)
	d := UnifiedDiff{
		FilePath:  path,
		IsNew:     oldText == "" && newText != "",
		IsDeleted: oldText != "" && newText == "",
	}

	for _, group := range matcher.GetGroupedOpCodes(contextLines) {
		var changes []DiffLine
		oldStart, newStart := 0, 0
		oldCount, newCount := 0, 0

		for _, op := range group {
			switch op.Tag {
			case 'd':
				for idx := op.I1; idx < op.I2; idx++ {
					if oldStart == 0 {
						oldStart = idx + 1
					}
					oldCount++
					changes = append(changes, DiffLine{
						OldLine: idx + 1,
						Type:    Removed,
						Content: oldLines[idx],
					})
				}
			case 'i':
				for idx := op.J1; idx < op.J2; idx++ {
					if newStart == 0 {
						newStart = idx + 1
					}
					newCount++
					changes = append(changes, DiffLine{
						NewLine: idx + 1,
						Type:    Added,
						Content: newLines[idx],
					})
				}
			case 'r':
				// A replace run is a removed block then an added block.
				for idx := op.I1; idx < op.I2; idx++ {
					if oldStart == 0 {
						oldStart = idx + 1
					}
					oldCount++
					changes = append(changes, DiffLine{
						OldLine: idx + 1,
						Type:    Removed,
						Content: oldLines[idx],
					})
				}
				for idx := op.J1; idx < op.J2; idx++ {
					if newStart == 0 {
						newStart = idx + 1
					}
					newCount++
					changes = append(changes, DiffLine{
						NewLine: idx + 1,
						Type:    Added,
						Content: newLines[idx],
					})
				}
			case 'e':
				for k := 0; op.I1+k < op.I2 && op.J1+k < op.J2; k++ {
					oldIdx, newIdx := op.I1+k, op.J1+k
					if oldStart == 0 {
						oldStart = oldIdx + 1
					}
					if newStart == 0 {
						newStart = newIdx + 1
					}
					oldCount++
					newCount++
					changes = append(changes, DiffLine{
						OldLine: oldIdx + 1,
						NewLine: newIdx + 1,
						Type:    Context,
						Content: oldLines[oldIdx],
					})
				}
			}
		}

		if len(changes) == 0 {
			continue
		}
		if oldStart == 0 {
			oldStart = 1
		}
		if newStart == 0 {
			newStart = 1
		}

		d.Hunks = append(d.Hunks, DiffHunk{
			OldStart: oldStart,
			OldLines: oldCount,
			NewStart: newStart,
			NewLines: newCount,
			Header:   fmt.Sprintf("@@ -%d,%d +%d,%d @@", oldStart, oldCount, newStart, newCount),
			Changes:  changes,
		})
	}

	return d
}
