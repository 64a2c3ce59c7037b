// Package graph converts scan results into a visualization-ready node/link
// structure.
package graph

import (
	"path/filepath"
	"strings"

	"github.com/cybrdelic/repotronium/internal/scanner"
)

// Node is one file in the rendered graph. Group is a display-coloring
// bucket derived purely from the file extension; it carries no topological
// meaning.
type Node struct {
	ID    string `json:"id"`
	Group int    `json:"group"`
}

// Link is one rendered edge. Value is always 1; duplicate edges are not
// aggregated.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Value  int    `json:"value"`
}

// Graph is the formatter's output shape.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// extensionGroups is the static extension-to-color-bucket table. Extensions
// not listed default to group 1.
var extensionGroups = map[string]int{
	".js":   1,
	".jsx":  1,
	".ts":   2,
	".tsx":  2,
	".py":   3,
	".java": 4,
	".css":  5,
	".scss": 5,
	".html": 6,
	".json": 7,
	".md":   8,
	".yml":  9,
	".yaml": 9,
}

const defaultGroup = 1

// linkValue is the constant edge weight.
const linkValue = 1

// Format is a pure function from a scan result to a renderable graph.
// Malformed or empty input yields the fixed placeholder graph instead of an
// error; callers must treat an all-placeholder graph as "no usable data",
// not as a real empty repository.
func Format(result *scanner.Result) Graph {
	if result == nil || len(result.Files) == 0 {
		return Placeholder()
	}

	nodes := make([]Node, 0, len(result.Files))
	for _, f := range result.Files {
		nodes = append(nodes, Node{ID: f, Group: GroupFor(f)})
	}

	links := make([]Link, 0, len(result.Dependencies))
	for _, dep := range result.Dependencies {
		if dep.From == "" || dep.To == "" {
			continue
		}
		links = append(links, Link{
			Source: dep.From,
			Target: resolveTarget(dep, result.Files),
			Value:  linkValue,
		})
	}

	return Graph{Nodes: nodes, Links: links}
}

// GroupFor returns the display group for a file path.
func GroupFor(path string) int {
	if g, ok := extensionGroups[strings.ToLower(filepath.Ext(path))]; ok {
		return g
	}
	return defaultGroup
}

// resolveTarget points a link at a known file node when the raw import
// target's basename matches one; otherwise the raw target string is kept as
// the link target exactly as extracted.
func resolveTarget(dep scanner.Edge, files []string) string {
	base := strings.TrimSuffix(filepath.Base(dep.To), filepath.Ext(dep.To))
	if base == "" || base == "." {
		return dep.To
	}
	for _, f := range files {
		name := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		if name == base {
			return f
		}
	}
	return dep.To
}

// Placeholder is the fixed graph returned for missing or empty input.
func Placeholder() Graph {
	return Graph{
		Nodes: []Node{
			{ID: "index.js", Group: 1},
			{ID: "app.js", Group: 1},
			{ID: "utils.js", Group: 1},
			{ID: "styles.css", Group: 5},
		},
		Links: []Link{
			{Source: "index.js", Target: "app.js", Value: 1},
			{Source: "app.js", Target: "utils.js", Value: 1},
			{Source: "app.js", Target: "styles.css", Value: 1},
		},
	}
}
