// Package testutil provides golden-file helpers for tests.
package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

var update = flag.Bool("update", false, "update golden files")

// ShouldUpdate reports whether golden files are being rewritten this run.
func ShouldUpdate() bool {
	return *update
}

// Golden compares got against testdata/<name>.golden, failing with a
// unified diff on mismatch. With -update the golden file is rewritten
// instead of compared.
func Golden(t *testing.T, name string, got []byte) {
	t.Helper()

	path := filepath.Join("testdata", name+".golden")

	if *update {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("creating testdata directory: %v", err)
		}
		if err := os.WriteFile(path, got, 0o644); err != nil {
			t.Fatalf("writing golden file: %v", err)
		}
		t.Logf("updated %s", path)
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("golden file missing: %s\n\ngot:\n%s\nrun 'go test -run %s -update' to create it",
				path, got, t.Name())
		}
		t.Fatalf("reading golden file: %v", err)
	}

	if string(got) == string(want) {
		return
	}

	text, diffErr := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(want)),
		B:        difflib.SplitLines(string(got)),
		FromFile: path,
		ToFile:   "got",
		Context:  3,
	})
	if diffErr != nil {
		t.Fatalf("golden mismatch for %s\ngot:\n%s", path, got)
	}
	t.Fatalf("golden mismatch for %s:\n%s\nrun 'go test -run %s -update' to refresh", path, text, t.Name())
}
