// Package gitio reads diff text and repository facts by shelling out
// to git. Every invocation runs under a deadline; failures carry the
// command's stderr so callers can surface what git actually said.
package gitio

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"diffscope/internal/errors"
	"diffscope/internal/logging"
)

// DefaultTimeout bounds a single git invocation.
const DefaultTimeout = 5 * time.Second

// Source is bound to one repository root.
type Source struct {
	root    string
	timeout time.Duration
	logger  *logging.Logger
}

func NewSource(root string, logger *logging.Logger) *Source {
	return &Source{root: root, timeout: DefaultTimeout, logger: logger}
}

// IsRepository reports whether the root is inside a git work tree.
func (s *Source) IsRepository() bool {
	_, err := s.runLine("rev-parse", "--git-dir")
	return err == nil
}

// UncommittedDiff returns the HEAD-to-worktree diff, staged and
// unstaged changes included.
func (s *Source) UncommittedDiff() (string, error) {
	return s.run("diff", "HEAD")
}

// StagedDiff returns only what is staged for the next commit.
func (s *Source) StagedDiff() (string, error) {
	return s.run("diff", "--cached")
}

// BranchDiff returns the merge-base diff from base to HEAD, the same
// range a pull request against base would show.
func (s *Source) BranchDiff(base string) (string, error) {
	return s.run("diff", base+"...HEAD")
}

// CurrentBranch returns the checked-out branch name, or "HEAD" when
// detached.
func (s *Source) CurrentBranch() (string, error) {
	return s.runLine("rev-parse", "--abbrev-ref", "HEAD")
}

// DefaultBranch resolves the branch reviews should diff against: the
// origin/HEAD symref when one is configured, otherwise the first of
// main or master that exists, otherwise "main".
func (s *Source) DefaultBranch() string {
	if ref, err := s.runLine("symbolic-ref", "refs/remotes/origin/HEAD"); err == nil {
		if name := strings.TrimPrefix(ref, "refs/remotes/origin/"); name != "" {
			return name
		}
	}
	for _, name := range []string{"main", "master"} {
		if _, err := s.runLine("rev-parse", "--verify", "--quiet", "refs/heads/"+name); err == nil {
			return name
		}
	}
	return "main"
}

// RecentCommits returns the subjects of the last n commits, newest
// first.
func (s *Source) RecentCommits(n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	out, err := s.runLine("log", "-n", strconv.Itoa(n), "--pretty=format:%s")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// FileAtRevision returns the content of a repo-relative path at a
// revision.
func (s *Source) FileAtRevision(rev, path string) (string, error) {
	return s.run("show", rev+":"+path)
}

// run executes git with the source's root and timeout. Output is
// returned as-is: diff text must keep its trailing newline and any
// whitespace-only final line.
func (s *Source) run(args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = s.root

	s.logger.Debug("running git command", map[string]interface{}{
		"args": args,
	})

	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", errors.Wrap(errors.Timeout, "git command timed out", err).
				WithDetails(map[string]interface{}{
					"args":    args,
					"timeout": s.timeout.String(),
				})
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", errors.Wrap(errors.GitFailure, "git command failed", err).
				WithDetails(map[string]interface{}{
					"args":   args,
					"stderr": strings.TrimSpace(string(exitErr.Stderr)),
				})
		}
		return "", errors.Wrap(errors.GitFailure, "could not execute git", err).
			WithDetails(map[string]interface{}{"args": args})
	}

	return string(output), nil
}

// runLine is run for single-value queries: surrounding whitespace is
// trimmed.
func (s *Source) runLine(args ...string) (string, error) {
	out, err := s.run(args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
