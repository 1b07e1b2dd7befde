// Package paths resolves filesystem paths into the canonical forms the
// indexer and the language-server client exchange.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Canonicalize resolves a path to its absolute, symlink-free form.
// Missing files resolve to their absolute path unchanged.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return abs, nil
		}
		return "", err
	}
	return resolved, nil
}

// FileURI builds a file:// URI from a path. The path is canonicalized
// first and each segment is percent-encoded; alphanumerics and -_.~
// pass through unescaped, everything else is %XX-encoded.
func FileURI(path string) (string, error) {
	abs, err := Canonicalize(path)
	if err != nil {
		return "", err
	}
	slashed := filepath.ToSlash(abs)

	segments := strings.Split(slashed, "/")
	for i, seg := range segments {
		segments[i] = encodeSegment(seg)
	}
	return "file://" + strings.Join(segments, "/"), nil
}

func encodeSegment(seg string) string {
	var b strings.Builder
	for _, c := range []byte(seg) {
		if isUnreserved(c) {
			b.WriteByte(c)
		} else {
			b.WriteString(fmt.Sprintf("%%%02X", c))
		}
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_' || c == '.' || c == '~':
		return true
	}
	return false
}
