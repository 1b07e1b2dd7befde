package symbols

import "regexp"

// patternTable maps a lowercase file extension to the ordered list of
// patterns recognizing definition-introducing lines for that language.
// Capture group 1 is always the symbol name. Built once at startup and
// shared read-only across all scans.
var patternTable = buildPatternTable()

func buildPatternTable() map[string][]*regexp.Regexp {
	m := map[string][]*regexp.Regexp{
		"rs": {
			regexp.MustCompile(`^\s*(?:pub\s+)?(?:fn|struct|enum|trait|type|impl)\s+([A-Za-z_][A-Za-z0-9_]*)`),
		},
		"py": {
			regexp.MustCompile(`^\s*def\s+([A-Za-z_][A-Za-z0-9_]*)`),
			regexp.MustCompile(`^\s*class\s+([A-Za-z_][A-Za-z0-9_]*)`),
		},
		"go": {
			regexp.MustCompile(`^\s*func\s+(?:\([^)]*\)\s*)?([A-Za-z_][A-Za-z0-9_]*)`),
			regexp.MustCompile(`^\s*type\s+([A-Za-z_][A-Za-z0-9_]*)\s+`),
		},
		"js": {
			regexp.MustCompile(`^\s*(?:export\s+)?(?:async\s+)?function\s+([A-Za-z_$][A-Za-z0-9_$]*)`),
			regexp.MustCompile(`^\s*(?:export\s+)?class\s+([A-Za-z_$][A-Za-z0-9_$]*)`),
			regexp.MustCompile(`^\s*(?:export\s+)?const\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*=\s*\(`),
		},
		"ts": {
			regexp.MustCompile(`^\s*(?:export\s+)?(?:async\s+)?function\s+([A-Za-z_$][A-Za-z0-9_$]*)`),
			regexp.MustCompile(`^\s*(?:export\s+)?class\s+([A-Za-z_$][A-Za-z0-9_$]*)`),
			regexp.MustCompile(`^\s*(?:export\s+)?interface\s+([A-Za-z_$][A-Za-z0-9_$]*)`),
			regexp.MustCompile(`^\s*(?:export\s+)?type\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*=`),
		},
		"java": {
			regexp.MustCompile(`^\s*(?:public|protected|private)?\s*(?:abstract\s+)?class\s+([A-Za-z_][A-Za-z0-9_]*)`),
			regexp.MustCompile(`^\s*(?:public|protected|private)?\s*interface\s+([A-Za-z_][A-Za-z0-9_]*)`),
			regexp.MustCompile(`^\s*(?:public|protected|private)?\s*enum\s+([A-Za-z_][A-Za-z0-9_]*)`),
		},
		"kt": {
			regexp.MustCompile(`^\s*(?:public|private|protected)?\s*class\s+([A-Za-z_][A-Za-z0-9_]*)`),
			regexp.MustCompile(`^\s*(?:public|private|protected)?\s*interface\s+([A-Za-z_][A-Za-z0-9_]*)`),
			regexp.MustCompile(`^\s*fun\s+([A-Za-z_][A-Za-z0-9_]*)`),
		},
		"cs": {
			regexp.MustCompile(`^\s*(?:public|private|protected|internal)?\s*(?:static\s+)?class\s+([A-Za-z_][A-Za-z0-9_]*)`),
			regexp.MustCompile(`^\s*(?:public|private|protected|internal)?\s*interface\s+([A-Za-z_][A-Za-z0-9_]*)`),
			regexp.MustCompile(`^\s*(?:public|private|protected|internal)?\s*enum\s+([A-Za-z_][A-Za-z0-9_]*)`),
		},
		"cpp": {
			regexp.MustCompile(`^\s*(?:class|struct)\s+([A-Za-z_][A-Za-z0-9_]*)`),
		},
		"rb": {
			regexp.MustCompile(`^\s*def\s+([A-Za-z_][A-Za-z0-9_!?=]*)`),
			regexp.MustCompile(`^\s*class\s+([A-Za-z_][A-Za-z0-9_]*)`),
			regexp.MustCompile(`^\s*module\s+([A-Za-z_][A-Za-z0-9_]*)`),
		},
		"php": {
			regexp.MustCompile(`^\s*function\s+([A-Za-z_][A-Za-z0-9_]*)`),
			regexp.MustCompile(`^\s*(?:abstract\s+)?class\s+([A-Za-z_][A-Za-z0-9_]*)`),
			regexp.MustCompile(`^\s*interface\s+([A-Za-z_][A-Za-z0-9_]*)`),
			regexp.MustCompile(`^\s*trait\s+([A-Za-z_][A-Za-z0-9_]*)`),
		},
	}

	// Extensions sharing another language's table.
	m["tsx"] = m["ts"]
	m["jsx"] = m["js"]
	m["hpp"] = m["cpp"]
	m["h"] = m["cpp"]
	m["c"] = m["cpp"]

	return m
}

// PatternsForExtension returns the definition patterns for a lowercase
// extension, or nil when the language is not covered.
func PatternsForExtension(ext string) []*regexp.Regexp {
	return patternTable[ext]
}

// SupportedExtensions returns the extensions the pattern scan covers.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(patternTable))
	for ext := range patternTable {
		exts = append(exts, ext)
	}
	return exts
}
