package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"diffscope/internal/chunks"
	"diffscope/internal/config"
	"diffscope/internal/gitio"
	"diffscope/internal/logging"
	"diffscope/internal/review"
)

var (
	reviewStaged bool
	reviewBase   string
	reviewDiff   string
	reviewJSON   bool
)

var reviewCmd = &cobra.Command{
	Use:   "review [-]",
	Short: "Build review context for a diff",
	Long: `Runs the review engine over a diff and prints the context bundle:
per-file change stats, touched symbols, and the resolved definition
chunks, bounded by the configured character budgets.

The diff comes from git by default. Use --staged for the index, --base
to diff against the merge base of a ref, or --diff (or a lone "-") to
supply diff text from a file or stdin.

Examples:
  diffscope review                    # uncommitted changes (git diff HEAD)
  diffscope review --staged           # staged changes only
  diffscope review --base main        # changes since branching off main
  diffscope review --diff change.patch
  git diff | diffscope review -`,
	Args: cobra.MaximumNArgs(1),
	Run:  runReview,
}

func init() {
	reviewCmd.Flags().BoolVar(&reviewStaged, "staged", false, "Review staged changes (git diff --cached)")
	reviewCmd.Flags().StringVar(&reviewBase, "base", "", "Review changes since the merge base of REF (git diff REF...HEAD)")
	reviewCmd.Flags().StringVar(&reviewDiff, "diff", "", "Read diff text from a file (\"-\" for stdin)")
	reviewCmd.Flags().BoolVar(&reviewJSON, "json", false, "Print the report as JSON")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	logger := newRunLogger(cfg)

	diffPath := reviewDiff
	if len(args) == 1 {
		if diffPath != "" {
			fmt.Fprintln(os.Stderr, "Error: diff supplied both as argument and via --diff")
			os.Exit(1)
		}
		diffPath = args[0]
	}

	sources := 0
	if reviewStaged {
		sources++
	}
	if reviewBase != "" {
		sources++
	}
	if diffPath != "" {
		sources++
	}
	if sources > 1 {
		fmt.Fprintln(os.Stderr, "Error: --staged, --base, and --diff are mutually exclusive")
		os.Exit(1)
	}

	diffText, source := readDiffText(cfg, logger, diffPath)
	if strings.TrimSpace(diffText) == "" {
		fmt.Println("Nothing to review.")
		return
	}

	engine := review.NewEngine(cfg, logger)
	report, err := engine.Run(diffText)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if reviewJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error serializing report: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	fmt.Print(formatReportHuman(report, source))
}

// readDiffText fetches the diff to review along with a short label for
// the human header. Exits on any acquisition error.
func readDiffText(cfg *config.Config, logger *logging.Logger, diffPath string) (string, string) {
	if diffPath == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
			os.Exit(1)
		}
		return string(data), "stdin"
	}

	if diffPath != "" {
		data, err := os.ReadFile(diffPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading diff file: %v\n", err)
			os.Exit(1)
		}
		return string(data), diffPath
	}

	src := gitio.NewSource(cfg.RepoRoot, logger)
	if !src.IsRepository() {
		fmt.Fprintln(os.Stderr, "Error: not a git repository (use --diff or \"-\" to supply diff text)")
		os.Exit(1)
	}

	switch {
	case reviewStaged:
		text, err := src.StagedDiff()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return text, "staged changes"

	case reviewBase != "":
		text, err := src.BranchDiff(reviewBase)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return text, "changes since " + reviewBase

	default:
		text, err := src.UncommittedDiff()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		source := "uncommitted changes"
		if branch, branchErr := src.CurrentBranch(); branchErr == nil && branch != "" {
			source = "uncommitted changes on " + branch
		}
		return text, source
	}
}

// formatReportHuman renders a review report for terminal reading.
func formatReportHuman(report *review.ReviewReport, source string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Review Context - %s\n", source))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	b.WriteString(fmt.Sprintf("Run: %s\n", report.RunID))
	if report.Index.Files > 0 || report.Index.Symbols > 0 {
		b.WriteString(fmt.Sprintf("Index: %d symbols from %d files (%s)\n",
			report.Index.Symbols, report.Index.Files, report.Index.Strategy))
	}
	b.WriteString(fmt.Sprintf("Files: %d\n", len(report.Files)))

	for _, fr := range report.Files {
		b.WriteString("\n")
		if fr.Skipped {
			b.WriteString(fmt.Sprintf("%s (skipped: %s)\n", fr.Path, fr.SkipReason))
			continue
		}

		b.WriteString(fmt.Sprintf("%s  +%d -%d in %d hunks\n", fr.Path, fr.Added, fr.Removed, fr.Hunks))
		if len(fr.Symbols) > 0 {
			b.WriteString(fmt.Sprintf("  Symbols: %s\n", strings.Join(fr.Symbols, ", ")))
		}
		if fr.Truncated {
			b.WriteString("  Context truncated by budget.\n")
		}
		if len(fr.Chunks) > 0 {
			b.WriteString(chunks.Format(fr.Chunks))
		}
	}

	if len(report.Extra) > 0 {
		b.WriteString("\nExtra Context:\n")
		b.WriteString(chunks.Format(report.Extra))
	}

	return b.String()
}
