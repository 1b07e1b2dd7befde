package symbols

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"diffscope/internal/diff"
)

const binarySniffBytes = 2048

// readScannable loads a file for pattern indexing. It reports false
// when the file exceeds the byte cap, looks binary (null byte within
// the first 2048 bytes), or cannot be read; those files are skipped,
// never fatal.
func readScannable(absPath string, maxBytes int) ([]string, bool) {
	info, err := os.Stat(absPath)
	if err != nil || info.IsDir() {
		return nil, false
	}
	if info.Size() > int64(maxBytes) {
		return nil, false
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, false
	}
	sniff := data
	if len(sniff) > binarySniffBytes {
		sniff = sniff[:binarySniffBytes]
	}
	if bytes.IndexByte(sniff, 0) >= 0 {
		return nil, false
	}
	return splitFileLines(string(data)), true
}

// fileExtension returns the lowercase extension of path without the
// leading dot, or "" when there is none.
func fileExtension(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	return strings.ToLower(ext[1:])
}

// scanLines matches every pattern against every line and records a
// Location per hit. The snippet spans two lines before the match and
// three after, clamped to the file; the recorded range covers that
// window. Identifiers shorter than two characters are discarded.
// Reports whether the file contributed at least one stored symbol.
func (ix *Index) scanLines(rel string, lines []string, patterns []*regexp.Regexp, maxLocations int) bool {
	added := false
	for idx, line := range lines {
		for _, re := range patterns {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			name := m[1]
			if len(name) < 2 {
				continue
			}

			start := idx - 2
			if start < 0 {
				start = 0
			}
			end := idx + 3
			if last := len(lines) - 1; end > last {
				end = last
			}

			loc := Location{
				FilePath: rel,
				Range:    diff.LineRange{Start: start + 1, End: end + 1},
				Snippet:  strings.Join(lines[start:end+1], "\n"),
			}
			if ix.add(name, loc, maxLocations) {
				added = true
			}
		}
	}
	return added
}
