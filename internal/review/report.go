// Package review orchestrates one review pass: parse the diff, build
// the symbol index, assemble bounded context per changed file, and
// filter the result through stored reviewer feedback.
package review

import (
	"diffscope/internal/chunks"
)

// FileReport is the reviewed state of one file in the diff.
type FileReport struct {
	Path       string         `json:"path"`
	Skipped    bool           `json:"skipped,omitempty"`
	SkipReason string         `json:"skipReason,omitempty"`
	Hunks      int            `json:"hunks"`
	Added      int            `json:"added"`
	Removed    int            `json:"removed"`
	Symbols    []string       `json:"symbols,omitempty"`
	Chunks     []chunks.Chunk `json:"chunks,omitempty"`
	Truncated  bool           `json:"truncated,omitempty"`
}

// IndexStats summarizes the symbol index built for the run.
type IndexStats struct {
	Strategy string `json:"strategy,omitempty"`
	Files    int    `json:"files"`
	Symbols  int    `json:"symbols"`
}

// ReviewReport is the output of one engine run.
type ReviewReport struct {
	RunID string         `json:"runId"`
	Root  string         `json:"root"`
	Files []FileReport   `json:"files"`
	Index IndexStats     `json:"index"`
	Extra []chunks.Chunk `json:"extra,omitempty"`
}

// Skip reasons recorded on FileReport.
const (
	SkipExcluded = "excluded"
	SkipDeleted  = "deleted"
	SkipBinary   = "binary"
	SkipNoHunks  = "no hunks"
)
