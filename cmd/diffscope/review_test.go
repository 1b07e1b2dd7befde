package main

import (
	"strings"
	"testing"

	"diffscope/internal/chunks"
	"diffscope/internal/review"
	"diffscope/internal/testutil"
)

func TestFormatReportHuman(t *testing.T) {
	report := &review.ReviewReport{
		RunID: "3f2a9c1e-8d44-4a6b-9c0f-2e51b7d08a91",
		Root:  "/work/app",
		Index: review.IndexStats{Strategy: "pattern", Files: 12, Symbols: 48},
		Files: []review.FileReport{
			{
				Path:    "src/app.go",
				Hunks:   1,
				Added:   2,
				Removed: 1,
				Symbols: []string{"Add", "Scale"},
				Chunks: []chunks.Chunk{
					{FilePath: "src/app.go", Content: "package app", Kind: chunks.FileContent, StartLine: 1, EndLine: 1},
				},
			},
			{Path: "vendor/dep.go", Skipped: true, SkipReason: "excluded"},
		},
	}

	result := formatReportHuman(report, "staged changes")

	for _, want := range []string{
		"Review Context - staged changes",
		"Run: 3f2a9c1e-8d44-4a6b-9c0f-2e51b7d08a91",
		"Index: 48 symbols from 12 files (pattern)",
		"Files: 2",
		"src/app.go  +2 -1 in 1 hunks",
		"Symbols: Add, Scale",
		"[FileContent - src/app.go:1-1]",
		"package app",
		"vendor/dep.go (skipped: excluded)",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("output missing %q:\n%s", want, result)
		}
	}
}

func TestFormatReportHumanGolden(t *testing.T) {
	report := &review.ReviewReport{
		RunID: "3f2a9c1e-8d44-4a6b-9c0f-2e51b7d08a91",
		Root:  "/work/app",
		Index: review.IndexStats{Strategy: "pattern", Files: 12, Symbols: 48},
		Files: []review.FileReport{
			{
				Path:    "src/app.go",
				Hunks:   1,
				Added:   2,
				Removed: 1,
				Symbols: []string{"Add", "Scale"},
				Chunks: []chunks.Chunk{
					{FilePath: "src/app.go", Content: "package app", Kind: chunks.FileContent, StartLine: 1, EndLine: 1},
				},
			},
			{Path: "vendor/dep.go", Skipped: true, SkipReason: "excluded"},
		},
		Extra: []chunks.Chunk{
			{FilePath: "docs/guide.md", Content: "# Guide", Kind: chunks.Reference, StartLine: 1, EndLine: 1},
		},
	}

	testutil.Golden(t, "report", []byte(formatReportHuman(report, "staged changes")))
}

func TestFormatReportHumanTruncated(t *testing.T) {
	report := &review.ReviewReport{
		RunID: "run",
		Files: []review.FileReport{
			{Path: "big.go", Hunks: 3, Added: 40, Removed: 2, Truncated: true},
		},
	}

	result := formatReportHuman(report, "stdin")
	if !strings.Contains(result, "Context truncated by budget.") {
		t.Errorf("missing truncation note:\n%s", result)
	}
	// No index stats line when nothing was indexed.
	if strings.Contains(result, "Index:") {
		t.Errorf("unexpected index line:\n%s", result)
	}
}

func TestFormatReportHumanExtraContext(t *testing.T) {
	report := &review.ReviewReport{
		RunID: "run",
		Extra: []chunks.Chunk{
			{FilePath: "docs/guide.md", Content: "# Guide", Kind: chunks.Reference, StartLine: 1, EndLine: 1},
		},
	}

	result := formatReportHuman(report, "stdin")
	if !strings.Contains(result, "Extra Context:") {
		t.Errorf("missing extra context section:\n%s", result)
	}
	if !strings.Contains(result, "[Reference - docs/guide.md:1-1]") {
		t.Errorf("missing reference chunk header:\n%s", result)
	}
}
