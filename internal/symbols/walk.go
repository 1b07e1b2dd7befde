package symbols

import (
	"path/filepath"
	"sort"

	"github.com/boyter/gocodewalker"
)

// listRepoFiles walks the repository honoring .gitignore and .ignore
// semantics, skipping hidden entries, and returns sorted
// slash-separated paths relative to root. Unreadable entries are
// skipped rather than failing the walk.
func listRepoFiles(root string, exclude func(string) bool) []string {
	queue := make(chan *gocodewalker.File, 256)
	walker := gocodewalker.NewFileWalker(root, queue)
	walker.SetErrorHandler(func(error) bool { return true })
	go func() {
		_ = walker.Start()
	}()

	var files []string
	for f := range queue {
		rel, err := filepath.Rel(root, f.Location)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		if exclude != nil && exclude(rel) {
			continue
		}
		files = append(files, rel)
	}
	sort.Strings(files)
	return files
}
