package scan

import (
	"fmt"
	"log/slog"
	"path/filepath"

	gocodewalker "github.com/boyter/gocodewalker"

	"github.com/smartmita/Code-Aggregation/internal/report"
)

// discoverGitignore walks via gocodewalker so .gitignore/.ignore files in
// the tree are honored, then applies the same ignore rules and extension
// filter as the default walker. The walker emits files only, so ignored
// directories are handled by checking each file's ancestor chain.
func discoverGitignore(absRoot string, exts []string, matcher *Matcher, rep report.Reporter) ([]string, error) {
	fileListQueue := make(chan *gocodewalker.File, 100)
	fileWalker := gocodewalker.NewFileWalker(absRoot, fileListQueue)
	fileWalker.IgnoreGitIgnore = false
	fileWalker.IgnoreIgnoreFile = false

	var firstWalkError error
	fileWalker.SetErrorHandler(func(e error) bool {
		slog.Warn("Error reported by file walker.", "root", absRoot, "error", e)
		if firstWalkError == nil {
			firstWalkError = e
		}
		return true
	})

	var walkErr error
	walkDone := make(chan struct{})
	go func() {
		defer close(walkDone)
		walkErr = fileWalker.Start()
	}()

	var found []string
	for f := range fileListQueue {
		absPath := f.Location
		base := filepath.Base(absPath)
		if matcher.Ignored(absPath, base) {
			slog.Debug("Skipping ignored file.", "path", absPath)
			continue
		}
		if underIgnoredDir(absRoot, absPath, matcher) {
			slog.Debug("Skipping file under ignored directory.", "path", absPath)
			continue
		}
		if matchesExtension(base, exts) {
			found = append(found, absPath)
			rep.Logf("  -> 找到: %s", absPath)
		}
	}
	<-walkDone

	if walkErr == nil {
		walkErr = firstWalkError
	}
	if walkErr != nil {
		return nil, fmt.Errorf("gitignore walk %q: %w", absRoot, walkErr)
	}
	return found, nil
}

// underIgnoredDir walks the parent chain of absPath up to (excluding)
// absRoot and reports whether any ancestor directory is ignored.
func underIgnoredDir(absRoot, absPath string, matcher *Matcher) bool {
	parent := filepath.Dir(absPath)
	for parent != absRoot && parent != filepath.Dir(parent) {
		if matcher.Ignored(parent, filepath.Base(parent)) {
			return true
		}
		parent = filepath.Dir(parent)
	}
	return false
}
