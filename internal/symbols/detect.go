package symbols

import (
	"os"
	"os/exec"
	"path/filepath"
)

// ServerCandidate is one known language server launch option.
type ServerCandidate struct {
	Command    string
	Executable string
	Extensions []string
}

// serverCandidates is a ranked table: on equal scores the earlier
// entry wins.
var serverCandidates = []ServerCandidate{
	{Command: "rust-analyzer", Executable: "rust-analyzer", Extensions: []string{"rs"}},
	{Command: "gopls", Executable: "gopls", Extensions: []string{"go"}},
	{Command: "typescript-language-server --stdio", Executable: "typescript-language-server", Extensions: []string{"ts", "tsx", "js", "jsx", "mjs", "cjs"}},
	{Command: "pyright-langserver --stdio", Executable: "pyright-langserver", Extensions: []string{"py", "pyi"}},
	{Command: "pylsp", Executable: "pylsp", Extensions: []string{"py", "pyi"}},
	{Command: "clangd", Executable: "clangd", Extensions: []string{"c", "h", "cc", "cpp", "hpp", "cxx", "hxx"}},
	{Command: "jdtls", Executable: "jdtls", Extensions: []string{"java"}},
	{Command: "kotlin-language-server", Executable: "kotlin-language-server", Extensions: []string{"kt", "kts"}},
	{Command: "solargraph stdio", Executable: "solargraph", Extensions: []string{"rb"}},
	{Command: "intelephense --stdio", Executable: "intelephense", Extensions: []string{"php"}},
}

// detectSampleCap bounds how many files the detection pass will look
// at regardless of the configured file budget.
const detectSampleCap = 2000

// DetectServerCommand samples repository files, scores each candidate
// server by how many sampled files carry one of its extensions, and
// returns the launch command of the best-scoring candidate whose
// executable resolves. An empty result means no candidate is usable;
// callers degrade to the pattern scan. When enabled is non-empty only
// those extensions are counted.
func DetectServerCommand(root string, maxFiles int, enabled map[string]bool, exclude func(string) bool) string {
	sample := maxFiles
	if sample > detectSampleCap {
		sample = detectSampleCap
	}
	if sample <= 0 {
		return ""
	}

	files := listRepoFiles(root, exclude)
	if len(files) > sample {
		files = files[:sample]
	}

	counts := make(map[string]int)
	for _, rel := range files {
		ext := fileExtension(rel)
		if ext == "" {
			continue
		}
		if len(enabled) > 0 && !enabled[ext] {
			continue
		}
		counts[ext]++
	}

	best := ""
	bestScore := 0
	for _, cand := range serverCandidates {
		score := 0
		for _, ext := range cand.Extensions {
			score += counts[ext]
		}
		if score <= bestScore {
			continue
		}
		if !executableResolves(cand.Executable) {
			continue
		}
		best = cand.Command
		bestScore = score
	}
	return best
}

// executableResolves reports whether name is on the search path, or is
// an absolute path to an existing file.
func executableResolves(name string) bool {
	if filepath.IsAbs(name) {
		info, err := os.Stat(name)
		return err == nil && !info.IsDir()
	}
	_, err := exec.LookPath(name)
	return err == nil
}
