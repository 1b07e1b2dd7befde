package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "parser.go")
	if err := os.WriteFile(file, []byte("package core\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Canonicalize(file)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("result not absolute: %q", got)
	}
	if filepath.Base(got) != "parser.go" {
		t.Errorf("got %q, want a parser.go path", got)
	}
}

func TestCanonicalizeMissingFile(t *testing.T) {
	root := t.TempDir()
	missing := filepath.Join(root, "not", "yet.go")

	got, err := Canonicalize(missing)
	if err != nil {
		t.Fatalf("Canonicalize on missing file: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("result not absolute: %q", got)
	}
	if !strings.HasSuffix(filepath.ToSlash(got), "not/yet.go") {
		t.Errorf("got %q, want a not/yet.go path", got)
	}
}

func TestCanonicalizeResolvesSymlinks(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "real.go")
	if err := os.WriteFile(target, []byte("package x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(root, "alias.go")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	got, err := Canonicalize(link)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	want, err := Canonicalize(target)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("symlink resolved to %q, target to %q", got, want)
	}
}

func TestFileURI(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "my project")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	uri, err := FileURI(dir)
	if err != nil {
		t.Fatalf("FileURI: %v", err)
	}
	if !strings.HasPrefix(uri, "file:///") {
		t.Errorf("uri missing scheme: %q", uri)
	}
	if !strings.HasSuffix(uri, "/my%20project") {
		t.Errorf("space not percent-encoded: %q", uri)
	}
	if strings.Contains(uri, " ") {
		t.Errorf("raw space survived encoding: %q", uri)
	}
}

func TestEncodeSegment(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"with space", "with%20space"},
		{"dots.and-dash_ok~", "dots.and-dash_ok~"},
		{"a+b", "a%2Bb"},
		{"100%", "100%25"},
	}

	for _, tt := range tests {
		if got := encodeSegment(tt.in); got != tt.want {
			t.Errorf("encodeSegment(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
