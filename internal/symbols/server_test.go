package symbols

import (
	"bytes"
	"strings"
	"testing"
)

func TestServerIndexerName(t *testing.T) {
	s := NewServerIndexer("rust-analyzer", map[string]string{"rs": "rust"}, defaultBuildOptions(), testLogger())
	if got := s.Name(); got != "server" {
		t.Errorf("Name() = %q, want server", got)
	}
}

func TestServerIndexerSpawnFallback(t *testing.T) {
	root := t.TempDir()
	writeRepoFile(t, root, "src/lib.rs", []byte(rustFixture))
	t.Setenv("PATH", t.TempDir())

	var buf bytes.Buffer
	s := NewServerIndexer("diffscope-no-such-server", map[string]string{"rs": "rust"}, defaultBuildOptions(), warnLogger(&buf))
	ix, err := s.BuildIndex(root)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}

	// The session never started; the same files are indexed by pattern
	// scan instead.
	if len(ix.Lookup("compute")) != 1 {
		t.Errorf("compute not indexed after fallback, names: %v", ix.Names())
	}
	if got := ix.FilesIndexed(); got != 1 {
		t.Errorf("FilesIndexed = %d, want 1", got)
	}
	if !strings.Contains(buf.String(), "language server session failed") {
		t.Errorf("expected a fallback warning, log: %s", buf.String())
	}
}

func TestServerIndexerPartition(t *testing.T) {
	root := t.TempDir()
	// Not in the language map, so the pattern scan handles it directly
	// even though the server command is unusable.
	writeRepoFile(t, root, "tool.py", []byte("def helper(arg):\n    return arg\n"))
	// No language id and no pattern table: ignored entirely.
	writeRepoFile(t, root, "data.csv", []byte("a,b,c\n"))
	t.Setenv("PATH", t.TempDir())

	s := NewServerIndexer("diffscope-no-such-server", map[string]string{"rs": "rust"}, defaultBuildOptions(), testLogger())
	ix, err := s.BuildIndex(root)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}

	if len(ix.Lookup("helper")) != 1 {
		t.Errorf("pattern-eligible file not indexed, names: %v", ix.Names())
	}
	if got := ix.FilesIndexed(); got != 1 {
		t.Errorf("FilesIndexed = %d, want 1", got)
	}
}

func TestServerIndexerSharedBudget(t *testing.T) {
	root := t.TempDir()
	writeRepoFile(t, root, "a.py", []byte("def first(arg):\n    return arg\n"))
	writeRepoFile(t, root, "b.py", []byte("def second(arg):\n    return arg\n"))
	t.Setenv("PATH", t.TempDir())

	opts := defaultBuildOptions()
	opts.MaxFiles = 1
	s := NewServerIndexer("diffscope-no-such-server", map[string]string{"rs": "rust"}, opts, testLogger())
	ix, err := s.BuildIndex(root)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}

	if got := ix.FilesIndexed(); got != 1 {
		t.Errorf("FilesIndexed = %d, want 1", got)
	}
	if len(ix.Lookup("first")) != 1 || len(ix.Lookup("second")) != 0 {
		t.Errorf("budget not applied in walk order, names: %v", ix.Names())
	}
}

func TestServerIndexerZeroBudget(t *testing.T) {
	root := t.TempDir()
	writeRepoFile(t, root, "lib.rs", []byte(rustFixture))

	opts := defaultBuildOptions()
	opts.MaxFiles = 0
	s := NewServerIndexer("diffscope-no-such-server", map[string]string{"rs": "rust"}, opts, testLogger())
	ix, err := s.BuildIndex(root)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	if ix.SymbolCount() != 0 {
		t.Errorf("zero budget built a non-empty index")
	}
}
