// Package scan finds the files to aggregate: it walks a directory tree,
// prunes ignored entries, and filters by extension suffix.
package scan

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/smartmita/Code-Aggregation/internal/report"
)

// Options configure one discovery call.
type Options struct {
	// Extensions are suffix strings including the leading dot (".py").
	// Matching is a case-insensitive suffix check on the whole filename,
	// not a dotted-extension comparison.
	Extensions []string
	// IgnoreItems are raw ignore strings, mixed basenames and paths.
	IgnoreItems []string
	// UseGitignore switches discovery to the gitignore-aware walker,
	// which additionally honors .gitignore/.ignore files in the tree.
	UseGitignore bool
}

// Discover walks rootDir top-down and returns the absolute paths of all
// files that pass the ignore rules and match one of the extensions. The
// order is the walk's enumeration order, which for the default walker is
// lexical per directory. Unreadable subdirectories are logged and skipped;
// a missing or non-directory root is an error.
func Discover(rootDir string, opts Options, rep report.Reporter) ([]string, error) {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolve root directory %q: %w", rootDir, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("stat root directory %q: %w", absRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path %q is not a directory", absRoot)
	}

	rep.Logf("开始在 '%s' 中搜索...", absRoot)

	exts := NormalizeExtensions(opts.Extensions)
	matcher := NewMatcher(opts.IgnoreItems)

	var found []string
	if opts.UseGitignore {
		found, err = discoverGitignore(absRoot, exts, matcher, rep)
		if err != nil {
			return nil, err
		}
	} else {
		found, err = discoverWalk(absRoot, exts, matcher, rep)
		if err != nil {
			return nil, err
		}
	}

	rep.Logf("搜索完成。共找到 %d 个文件。", len(found))
	return found, nil
}

func discoverWalk(absRoot string, exts []string, matcher *Matcher, rep report.Reporter) ([]string, error) {
	var found []string
	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Permission errors on a subdirectory are non-fatal; the
			// subtree simply cannot be enumerated.
			slog.Warn("Skipping unreadable path during discovery.", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			if path == absRoot {
				return nil
			}
			if matcher.Ignored(path, d.Name()) {
				slog.Debug("Pruning ignored directory.", "path", path)
				return fs.SkipDir
			}
			return nil
		}
		base := d.Name()
		if matcher.Ignored(path, base) {
			slog.Debug("Skipping ignored file.", "path", path)
			return nil
		}
		if matchesExtension(base, exts) {
			found = append(found, path)
			rep.Logf("  -> 找到: %s", path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk %q: %w", absRoot, walkErr)
	}
	return found, nil
}

// matchesExtension applies the raw suffix rule: the lower-cased filename
// must end with one of the lower-cased suffix strings.
func matchesExtension(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// NormalizeExtensions lower-cases, trims, deduplicates and dot-prefixes
// the configured extension strings, splitting comma-joined entries.
// Order of first appearance is preserved.
func NormalizeExtensions(extList []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, ext := range extList {
		for _, part := range strings.Split(ext, ",") {
			cleaned := strings.TrimSpace(strings.ToLower(part))
			if cleaned == "" {
				continue
			}
			if !strings.HasPrefix(cleaned, ".") {
				cleaned = "." + cleaned
			}
			if _, dup := seen[cleaned]; dup {
				continue
			}
			seen[cleaned] = struct{}{}
			out = append(out, cleaned)
		}
	}
	return out
}
