package gitio

import (
	stderrors "errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"diffscope/internal/diff"
	"diffscope/internal/errors"
	"diffscope/internal/logging"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{
		Format: logging.JSONFormat,
		Level:  logging.ErrorLevel,
		Output: io.Discard,
	})
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test",
		"GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test",
		"GIT_COMMITTER_EMAIL=test@example.com",
		"GIT_CONFIG_GLOBAL=/dev/null",
		"GIT_CONFIG_SYSTEM=/dev/null",
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
	return string(out)
}

func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	root := t.TempDir()
	runGit(t, root, "init", "-b", "main")
	return root
}

func commitFile(t *testing.T, root, rel, content, message string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	runGit(t, root, "add", rel)
	runGit(t, root, "commit", "-m", message)
}

func TestIsRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	plain := t.TempDir()
	if NewSource(plain, testLogger()).IsRepository() {
		t.Errorf("plain directory reported as a repository")
	}

	root := initRepo(t)
	if !NewSource(root, testLogger()).IsRepository() {
		t.Errorf("initialized repository not recognized")
	}
}

func TestUncommittedDiff(t *testing.T) {
	root := initRepo(t)
	commitFile(t, root, "a.txt", "hello\n", "initial")
	if err := os.WriteFile(filepath.Join(root, "a.txt"), []byte("world\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewSource(root, testLogger())
	text, err := src.UncommittedDiff()
	if err != nil {
		t.Fatalf("UncommittedDiff: %v", err)
	}
	if !strings.HasPrefix(text, "diff --git") {
		t.Errorf("diff missing extended header:\n%s", text)
	}

	diffs, err := diff.ParseUnifiedDiff(text)
	if err != nil {
		t.Fatalf("parsing git output: %v", err)
	}
	if len(diffs) != 1 || diffs[0].FilePath != "a.txt" {
		t.Fatalf("parsed %+v", diffs)
	}
	added, removed := diffs[0].Stats()
	if added != 1 || removed != 1 {
		t.Errorf("stats = +%d -%d, want +1 -1", added, removed)
	}
}

func TestUncommittedDiffClean(t *testing.T) {
	root := initRepo(t)
	commitFile(t, root, "a.txt", "hello\n", "initial")

	text, err := NewSource(root, testLogger()).UncommittedDiff()
	if err != nil {
		t.Fatalf("UncommittedDiff: %v", err)
	}
	if text != "" {
		t.Errorf("clean worktree produced a diff:\n%s", text)
	}
}

func TestStagedDiff(t *testing.T) {
	root := initRepo(t)
	commitFile(t, root, "a.txt", "hello\n", "initial")
	if err := os.WriteFile(filepath.Join(root, "a.txt"), []byte("staged\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewSource(root, testLogger())
	before, err := src.StagedDiff()
	if err != nil {
		t.Fatalf("StagedDiff: %v", err)
	}
	if before != "" {
		t.Errorf("nothing staged yet, got:\n%s", before)
	}

	runGit(t, root, "add", "a.txt")
	after, err := src.StagedDiff()
	if err != nil {
		t.Fatalf("StagedDiff: %v", err)
	}
	if !strings.Contains(after, "+staged") {
		t.Errorf("staged change missing from diff:\n%s", after)
	}
}

func TestBranchDiff(t *testing.T) {
	root := initRepo(t)
	commitFile(t, root, "a.txt", "hello\n", "initial")
	runGit(t, root, "checkout", "-b", "feature")
	commitFile(t, root, "b.txt", "feature work\n", "add b")

	text, err := NewSource(root, testLogger()).BranchDiff("main")
	if err != nil {
		t.Fatalf("BranchDiff: %v", err)
	}
	if !strings.Contains(text, "b.txt") || !strings.Contains(text, "+feature work") {
		t.Errorf("branch diff missing the feature commit:\n%s", text)
	}
	if strings.Contains(text, "a.txt") {
		t.Errorf("branch diff includes unchanged file:\n%s", text)
	}
}

func TestCurrentBranch(t *testing.T) {
	root := initRepo(t)
	commitFile(t, root, "a.txt", "hello\n", "initial")

	src := NewSource(root, testLogger())
	if got, err := src.CurrentBranch(); err != nil || got != "main" {
		t.Errorf("CurrentBranch = %q, %v; want main", got, err)
	}

	runGit(t, root, "checkout", "-b", "feature")
	if got, err := src.CurrentBranch(); err != nil || got != "feature" {
		t.Errorf("CurrentBranch = %q, %v; want feature", got, err)
	}

	t.Run("detached HEAD", func(t *testing.T) {
		runGit(t, root, "checkout", "--detach")
		if got, err := src.CurrentBranch(); err != nil || got != "HEAD" {
			t.Errorf("CurrentBranch = %q, %v; want HEAD", got, err)
		}
	})
}

func TestDefaultBranch(t *testing.T) {
	t.Run("local main", func(t *testing.T) {
		root := initRepo(t)
		commitFile(t, root, "a.txt", "hello\n", "initial")
		if got := NewSource(root, testLogger()).DefaultBranch(); got != "main" {
			t.Errorf("DefaultBranch = %q, want main", got)
		}
	})

	t.Run("local master", func(t *testing.T) {
		if _, err := exec.LookPath("git"); err != nil {
			t.Skip("git not installed")
		}
		root := t.TempDir()
		runGit(t, root, "init", "-b", "master")
		commitFile(t, root, "a.txt", "hello\n", "initial")
		if got := NewSource(root, testLogger()).DefaultBranch(); got != "master" {
			t.Errorf("DefaultBranch = %q, want master", got)
		}
	})

	t.Run("origin symref wins", func(t *testing.T) {
		root := initRepo(t)
		commitFile(t, root, "a.txt", "hello\n", "initial")
		runGit(t, root, "symbolic-ref", "refs/remotes/origin/HEAD", "refs/remotes/origin/trunk")
		if got := NewSource(root, testLogger()).DefaultBranch(); got != "trunk" {
			t.Errorf("DefaultBranch = %q, want trunk from origin/HEAD", got)
		}
	})

	t.Run("no branches at all", func(t *testing.T) {
		root := initRepo(t)
		// main exists as the initial branch name only after a commit;
		// an empty repository falls through to the fixed default.
		if got := NewSource(root, testLogger()).DefaultBranch(); got != "main" {
			t.Errorf("DefaultBranch = %q, want main fallback", got)
		}
	})
}

func TestRecentCommits(t *testing.T) {
	root := initRepo(t)
	commitFile(t, root, "a.txt", "one\n", "first commit")
	commitFile(t, root, "a.txt", "two\n", "second commit")
	commitFile(t, root, "a.txt", "three\n", "third commit")

	src := NewSource(root, testLogger())
	got, err := src.RecentCommits(2)
	if err != nil {
		t.Fatalf("RecentCommits: %v", err)
	}
	if len(got) != 2 || got[0] != "third commit" || got[1] != "second commit" {
		t.Errorf("RecentCommits = %v", got)
	}

	if got, err := src.RecentCommits(0); err != nil || got != nil {
		t.Errorf("RecentCommits(0) = %v, %v; want nil, nil", got, err)
	}
}

func TestFileAtRevision(t *testing.T) {
	root := initRepo(t)
	commitFile(t, root, "dir/a.txt", "hello\n", "initial")
	if err := os.WriteFile(filepath.Join(root, "dir", "a.txt"), []byte("dirty\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewSource(root, testLogger())
	content, err := src.FileAtRevision("HEAD", "dir/a.txt")
	if err != nil {
		t.Fatalf("FileAtRevision: %v", err)
	}
	// Exact content, trailing newline preserved.
	if content != "hello\n" {
		t.Errorf("content = %q, want %q", content, "hello\n")
	}
}

func TestGitFailureCarriesStderr(t *testing.T) {
	root := initRepo(t)
	commitFile(t, root, "a.txt", "hello\n", "initial")

	_, err := NewSource(root, testLogger()).FileAtRevision("no-such-rev", "a.txt")
	if err == nil {
		t.Fatal("expected an error for an unknown revision")
	}
	if !errors.HasCode(err, errors.GitFailure) {
		t.Errorf("error code = %v, want GitFailure", errors.CodeOf(err))
	}
	var re *errors.ReviewError
	if !stderrors.As(err, &re) {
		t.Fatalf("error is not a ReviewError: %v", err)
	}
	details, ok := re.Details.(map[string]interface{})
	if !ok || details["stderr"] == "" {
		t.Errorf("error details missing stderr: %+v", re.Details)
	}
}
