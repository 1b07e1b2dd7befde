package review

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"diffscope/internal/errors"
	"diffscope/internal/logging"
)

// feedbackFile is stored under the repository root next to the rest of
// the tool's state.
const feedbackFile = ".diffscope/feedback.json"

// Feedback holds reviewer decisions keyed by fingerprint. Suppressed
// entries are removed from future reports; accepted entries are kept
// so a reviewer's "this is fine" survives across runs.
type Feedback struct {
	Suppressed []string `json:"suppressed"`
	Accepted   []string `json:"accepted"`

	suppressed map[string]bool
}

// Fingerprint identifies one finding: the file path joined with either
// the symbol name or the chunk's line span.
func Fingerprint(path, symbolOrRange string) string {
	return path + ":" + symbolOrRange
}

func rangeFingerprint(path string, start, end int) string {
	return Fingerprint(path, fmt.Sprintf("%d-%d", start, end))
}

// LoadFeedback reads the repository's feedback file. A missing file is
// an empty store; an unreadable or malformed one is logged and treated
// as empty rather than blocking the review.
func LoadFeedback(root string, logger *logging.Logger) *Feedback {
	fb := &Feedback{}
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(feedbackFile)))
	if err != nil {
		fb.reindex()
		return fb
	}
	if err := json.Unmarshal(data, fb); err != nil {
		logger.Warn("ignoring malformed feedback file", map[string]interface{}{
			"file":  feedbackFile,
			"error": err.Error(),
		})
		*fb = Feedback{}
	}
	fb.reindex()
	return fb
}

// Save writes the store back under the root, creating the state
// directory when needed.
func (f *Feedback) Save(root string) error {
	path := filepath.Join(root, filepath.FromSlash(feedbackFile))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.IoFailure, "creating feedback directory", err)
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return errors.Wrap(errors.InternalError, "encoding feedback", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.Wrap(errors.IoFailure, "writing feedback file", err)
	}
	return nil
}

// Suppress records a fingerprint as unwanted. Duplicates are ignored.
func (f *Feedback) Suppress(fingerprint string) {
	if f.suppressed[fingerprint] {
		return
	}
	f.Suppressed = append(f.Suppressed, fingerprint)
	f.reindex()
}

// Accept records a fingerprint as reviewed and fine.
func (f *Feedback) Accept(fingerprint string) {
	for _, fp := range f.Accepted {
		if fp == fingerprint {
			return
		}
	}
	f.Accepted = append(f.Accepted, fingerprint)
}

// IsSuppressed reports whether a fingerprint was suppressed.
func (f *Feedback) IsSuppressed(fingerprint string) bool {
	return f.suppressed[fingerprint]
}

// Apply removes suppressed symbols and chunks from the report in one
// pass and reports how many entries were dropped. Applying twice
// changes nothing further.
func (f *Feedback) Apply(report *ReviewReport) int {
	if len(f.suppressed) == 0 {
		return 0
	}

	removed := 0
	for i := range report.Files {
		fr := &report.Files[i]

		kept := fr.Symbols[:0]
		for _, sym := range fr.Symbols {
			if f.suppressed[Fingerprint(fr.Path, sym)] {
				removed++
				continue
			}
			kept = append(kept, sym)
		}
		fr.Symbols = kept

		keptChunks := fr.Chunks[:0]
		for _, c := range fr.Chunks {
			if c.FilePath != "" && f.suppressed[rangeFingerprint(c.FilePath, c.StartLine, c.EndLine)] {
				removed++
				continue
			}
			keptChunks = append(keptChunks, c)
		}
		fr.Chunks = keptChunks
	}
	return removed
}

func (f *Feedback) reindex() {
	f.suppressed = make(map[string]bool, len(f.Suppressed))
	for _, fp := range f.Suppressed {
		f.suppressed[fp] = true
	}
}
