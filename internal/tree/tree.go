// Package tree renders a flat list of file paths as a connector-drawn
// directory tree.
package tree

import (
	"path/filepath"
	"sort"
	"strings"
)

const (
	midPointer  = "├─── "
	lastPointer = "└─── "
	midIndent   = "│   "
	lastIndent  = "    "
	dirIcon     = "📁 "
	fileIcon    = "📄 "
)

// node is a transient nesting of path segments. A terminal node marks a
// file; anything with children is a directory. The insertion-order slice
// exists because rendering must not alphabetize: at each level files come
// before directories, ties broken by insertion order.
type node struct {
	children map[string]*node
	order    []string
	terminal bool
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

func (n *node) isDir() bool {
	return !n.terminal
}

func (n *node) child(name string) *node {
	c, ok := n.children[name]
	if !ok {
		c = newNode()
		n.children[name] = c
		n.order = append(n.order, name)
	}
	return c
}

func (n *node) insert(parts []string) {
	current := n
	for _, part := range parts[:len(parts)-1] {
		if part == "" {
			continue
		}
		current = current.child(part)
	}
	current.child(parts[len(parts)-1]).terminal = true
}

// Render builds the tree for paths under rootDir and returns it as a
// multi-line string whose first line is rootDir's base name. Each path is
// split relative to rootDir; if it cannot be expressed relative to rootDir
// (different drive, relative input) the absolute path is split instead.
// Rendering is deterministic for a given input order.
func Render(rootDir string, paths []string) string {
	root := newNode()
	for _, path := range paths {
		rel, err := filepath.Rel(rootDir, path)
		var parts []string
		if err == nil {
			parts = strings.Split(rel, string(filepath.Separator))
		} else {
			parts = strings.Split(path, string(filepath.Separator))
		}
		if len(parts) == 0 {
			continue
		}
		root.insert(parts)
	}

	lines := []string{filepath.Base(rootDir)}
	lines = append(lines, format(root, "")...)
	return strings.Join(lines, "\n")
}

func format(n *node, prefix string) []string {
	names := make([]string, len(n.order))
	copy(names, n.order)
	// Files first, then directories; stable keeps insertion order inside
	// each class.
	sort.SliceStable(names, func(i, j int) bool {
		return !n.children[names[i]].isDir() && n.children[names[j]].isDir()
	})

	var lines []string
	for i, name := range names {
		pointer := midPointer
		if i == len(names)-1 {
			pointer = lastPointer
		}
		child := n.children[name]
		icon := fileIcon
		if child.isDir() {
			icon = dirIcon
		}
		lines = append(lines, prefix+pointer+icon+name)
		if child.isDir() {
			indent := midIndent
			if pointer == lastPointer {
				indent = lastIndent
			}
			lines = append(lines, format(child, prefix+indent)...)
		}
	}
	return lines
}
