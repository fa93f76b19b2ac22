package scan

import (
	"path/filepath"
	"strings"
)

// RuleKind distinguishes the two ways an ignore item can match.
type RuleKind int

const (
	// BasenameRule matches any file or directory with that name,
	// anywhere in the tree, case-insensitively.
	BasenameRule RuleKind = iota
	// FullPathRule matches exactly one absolute path, case-insensitively.
	FullPathRule
)

// IgnoreRule is a single classified ignore item. Pattern holds the
// comparison key: a lower-cased basename, or a lower-cased absolute path.
type IgnoreRule struct {
	Kind    RuleKind
	Pattern string
}

// ClassifyRule turns a raw ignore item into a rule. Items containing the
// host path separator are full-path rules and get resolved to an absolute
// path; everything else is a basename rule.
func ClassifyRule(item string) IgnoreRule {
	if strings.ContainsRune(item, filepath.Separator) {
		abs, err := filepath.Abs(item)
		if err != nil {
			abs = filepath.Clean(item)
		}
		return IgnoreRule{Kind: FullPathRule, Pattern: strings.ToLower(abs)}
	}
	return IgnoreRule{Kind: BasenameRule, Pattern: strings.ToLower(item)}
}

// Matcher evaluates a fixed set of ignore rules. It is built once per
// discovery call and is read-only afterwards.
type Matcher struct {
	basenames map[string]struct{}
	fullPaths map[string]struct{}
}

// NewMatcher classifies the raw ignore items and prepares the lookup sets.
// Empty items are dropped.
func NewMatcher(items []string) *Matcher {
	m := &Matcher{
		basenames: make(map[string]struct{}),
		fullPaths: make(map[string]struct{}),
	}
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		rule := ClassifyRule(item)
		switch rule.Kind {
		case BasenameRule:
			m.basenames[rule.Pattern] = struct{}{}
		case FullPathRule:
			m.fullPaths[rule.Pattern] = struct{}{}
		}
	}
	return m
}

// Ignored reports whether the entry at absPath with the given basename is
// excluded. A full-path rule matches only that exact entry; descendants of
// an ignored directory are excluded by the traversal never descending into
// it, not by prefix matching here.
func (m *Matcher) Ignored(absPath, base string) bool {
	if _, ok := m.basenames[strings.ToLower(base)]; ok {
		return true
	}
	_, ok := m.fullPaths[strings.ToLower(absPath)]
	return ok
}
