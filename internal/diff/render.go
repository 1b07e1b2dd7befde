package diff

import "strings"

// FormatUnifiedDiff serializes a UnifiedDiff back to unified-diff
// text. Output reparses under ParseUnifiedDiff: new and deleted files
// get /dev/null on the appropriate side, binary files get a marker
// line instead of hunks.
func FormatUnifiedDiff(d UnifiedDiff) string {
	var b strings.Builder

	oldHeader := "a/" + d.FilePath
	newHeader := "b/" + d.FilePath
	if d.IsNew {
		oldHeader = "/dev/null"
	}
	if d.IsDeleted {
		newHeader = "/dev/null"
	}

	b.WriteString("--- " + oldHeader + "\n")
	b.WriteString("+++ " + newHeader + "\n")

	if d.IsBinary {
		b.WriteString("Binary files a/" + d.FilePath + " and b/" + d.FilePath + " differ\n")
		return b.String()
	}

	for _, hunk := range d.Hunks {
		b.WriteString(hunk.Header + "\n")
		for _, change := range hunk.Changes {
			switch change.Type {
			case Added:
				b.WriteString("+")
			case Removed:
				b.WriteString("-")
			default:
				b.WriteString(" ")
			}
			b.WriteString(change.Content + "\n")
		}
	}

	return b.String()
}

// FormatUnifiedDiffs serializes multiple file diffs in order.
func FormatUnifiedDiffs(diffs []UnifiedDiff) string {
	var b strings.Builder
	for _, d := range diffs {
		b.WriteString(FormatUnifiedDiff(d))
	}
	return b.String()
}
