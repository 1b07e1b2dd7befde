package diff

import (
	"regexp"
	"strconv"
	"strings"

	"diffscope/internal/errors"
)

var hunkHeaderRe = regexp.MustCompile(`@@ -(\d+),?(\d*) \+(\d+),?(\d*) @@`)

// ParseUnifiedDiff parses multi-file unified-diff text into one
// UnifiedDiff per file section, preserving file order. Both git
// extended headers ("diff --git a/X b/Y") and bare header pairs
// ("--- a/X" / "+++ b/Y") are recognized. A malformed file or hunk
// header fails the whole call: diffs are assumed well-formed input.
func ParseUnifiedDiff(text string) ([]UnifiedDiff, error) {
	lines := splitLines(text)
	diffs := []UnifiedDiff{}

	i := 0
	for i < len(lines) {
		switch {
		case strings.HasPrefix(lines[i], "diff --git"):
			d, err := parseGitFileDiff(lines, &i)
			if err != nil {
				return nil, err
			}
			diffs = append(diffs, d)
		case strings.HasPrefix(lines[i], "--- ") && i+1 < len(lines) && strings.HasPrefix(lines[i+1], "+++ "):
			d, err := parseBareFileDiff(lines, &i)
			if err != nil {
				return nil, err
			}
			diffs = append(diffs, d)
		default:
			i++
		}
	}

	return diffs, nil
}

// parseGitFileDiff consumes one "diff --git" section: the header, a
// preamble of extended headers (index lines, mode changes, binary
// markers, ---/+++ pair), then zero or more hunks.
func parseGitFileDiff(lines []string, i *int) (UnifiedDiff, error) {
	filePath, err := extractGitPath(lines[*i])
	if err != nil {
		return UnifiedDiff{}, err
	}
	*i++

	d := UnifiedDiff{FilePath: filePath}
	for *i < len(lines) && !strings.HasPrefix(lines[*i], "@@") && !strings.HasPrefix(lines[*i], "diff --git") {
		line := lines[*i]
		switch {
		case strings.HasPrefix(line, "Binary files"), strings.HasPrefix(line, "GIT binary patch"):
			d.IsBinary = true
		case strings.HasPrefix(line, "new file mode"), line == "--- /dev/null":
			d.IsNew = true
		case strings.HasPrefix(line, "deleted file mode"), line == "+++ /dev/null":
			d.IsDeleted = true
		}
		*i++
	}

	for *i < len(lines) && strings.HasPrefix(lines[*i], "@@") {
		hunk, err := parseHunk(lines, i)
		if err != nil {
			return UnifiedDiff{}, err
		}
		d.Hunks = append(d.Hunks, hunk)
	}

	return d, nil
}

// parseBareFileDiff consumes a "--- a/X" / "+++ b/Y" section up to the
// next file header.
func parseBareFileDiff(lines []string, i *int) (UnifiedDiff, error) {
	oldPath := extractHeaderPath(lines[*i], "--- ")
	newPath := extractHeaderPath(lines[*i+1], "+++ ")

	d := UnifiedDiff{
		IsNew:     oldPath == "/dev/null",
		IsDeleted: newPath == "/dev/null",
	}
	// A deleted file has /dev/null on the new side; keep the real name.
	if newPath != "/dev/null" {
		d.FilePath = newPath
	} else {
		d.FilePath = oldPath
	}

	*i += 2

	for *i < len(lines) &&
		!strings.HasPrefix(lines[*i], "diff --git") &&
		!(strings.HasPrefix(lines[*i], "--- ") && *i+1 < len(lines) && strings.HasPrefix(lines[*i+1], "+++ ")) {
		line := lines[*i]
		if strings.HasPrefix(line, "Binary files") || strings.HasPrefix(line, "GIT binary patch") {
			d.IsBinary = true
		}
		if strings.HasPrefix(line, "@@") {
			hunk, err := parseHunk(lines, i)
			if err != nil {
				return UnifiedDiff{}, err
			}
			d.Hunks = append(d.Hunks, hunk)
			continue
		}
		*i++
	}

	return d, nil
}

// extractGitPath pulls the a-side path out of a "diff --git a/X b/Y"
// header line.
func extractGitPath(line string) (string, error) {
	parts := strings.Fields(line)
	if len(parts) < 4 {
		return "", errors.New(errors.MalformedDiff, "invalid diff header").
			WithDetails(map[string]interface{}{"line": line})
	}
	return stripSidePrefix(parts[2]), nil
}

// extractHeaderPath pulls the path out of a "--- " or "+++ " header,
// dropping any trailing timestamp.
func extractHeaderPath(line, prefix string) string {
	raw := strings.TrimSpace(strings.TrimPrefix(line, prefix))
	path := raw
	if fields := strings.Fields(raw); len(fields) > 0 {
		path = fields[0]
	}
	return stripSidePrefix(path)
}

func stripSidePrefix(path string) string {
	if strings.HasPrefix(path, "a/") {
		return path[2:]
	}
	if strings.HasPrefix(path, "b/") {
		return path[2:]
	}
	return path
}

// parseHunk consumes a @@ header and its body. The body ends at the
// next hunk header, the next file header, or end of input.
func parseHunk(lines []string, i *int) (DiffHunk, error) {
	header := lines[*i]
	oldStart, oldLines, newStart, newLines, err := parseHunkHeader(header)
	if err != nil {
		return DiffHunk{}, err
	}
	*i++

	hunk := DiffHunk{
		OldStart: oldStart,
		OldLines: oldLines,
		NewStart: newStart,
		NewLines: newLines,
		Header:   header,
	}

	oldLine := oldStart
	newLine := newStart

	for *i < len(lines) &&
		!strings.HasPrefix(lines[*i], "@@") &&
		!strings.HasPrefix(lines[*i], "diff --git") &&
		!strings.HasPrefix(lines[*i], "--- ") &&
		!strings.HasPrefix(lines[*i], "+++ ") {
		line := lines[*i]
		if line == "" {
			*i++
			continue
		}

		var change DiffLine
		switch line[0] {
		case '+':
			change = DiffLine{NewLine: newLine, Type: Added, Content: line[1:]}
			newLine++
		case '-':
			change = DiffLine{OldLine: oldLine, Type: Removed, Content: line[1:]}
			oldLine++
		case ' ':
			change = DiffLine{OldLine: oldLine, NewLine: newLine, Type: Context, Content: line[1:]}
			oldLine++
			newLine++
		default:
			// Lines like "\ No newline at end of file" keep their
			// full content and count as context.
			change = DiffLine{OldLine: oldLine, NewLine: newLine, Type: Context, Content: line}
			oldLine++
			newLine++
		}

		hunk.Changes = append(hunk.Changes, change)
		*i++
	}

	return hunk, nil
}

func parseHunkHeader(header string) (oldStart, oldLines, newStart, newLines int, err error) {
	m := hunkHeaderRe.FindStringSubmatch(header)
	if m == nil {
		return 0, 0, 0, 0, errors.New(errors.MalformedDiff, "invalid hunk header").
			WithDetails(map[string]interface{}{"line": header})
	}

	oldStart, err = strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, 0, 0, errors.Wrap(errors.MalformedDiff, "hunk header old start", err)
	}
	newStart, err = strconv.Atoi(m[3])
	if err != nil {
		return 0, 0, 0, 0, errors.Wrap(errors.MalformedDiff, "hunk header new start", err)
	}

	oldLines = 1
	if m[2] != "" {
		if n, convErr := strconv.Atoi(m[2]); convErr == nil {
			oldLines = n
		}
	}
	newLines = 1
	if m[4] != "" {
		if n, convErr := strconv.Atoi(m[4]); convErr == nil {
			newLines = n
		}
	}

	return oldStart, oldLines, newStart, newLines, nil
}
