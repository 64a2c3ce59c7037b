package graph

import (
	"reflect"
	"testing"

	"github.com/cybrdelic/repotronium/internal/scanner"
)

func TestFormat_TwoFileProject(t *testing.T) {
	result := &scanner.Result{
		Files: []string{"a.js", "b.js"},
		Dependencies: []scanner.Edge{
			{From: "a.js", To: "./b", Type: scanner.EdgeImport},
		},
		Provenance: scanner.ProvenanceScan,
	}

	g := Format(result)

	if len(g.Nodes) != 2 {
		t.Fatalf("nodes = %v, want 2", g.Nodes)
	}
	for _, n := range g.Nodes {
		if n.Group != 1 {
			t.Errorf("node %s group = %d, want 1", n.ID, n.Group)
		}
	}

	want := []Link{{Source: "a.js", Target: "b.js", Value: 1}}
	if !reflect.DeepEqual(g.Links, want) {
		t.Errorf("links = %v, want %v", g.Links, want)
	}
}

func TestFormat_GroupTable(t *testing.T) {
	tests := []struct {
		path string
		want int
	}{
		{"index.js", 1},
		{"app.jsx", 1},
		{"main.ts", 2},
		{"view.tsx", 2},
		{"script.py", 3},
		{"App.java", 4},
		{"site.css", 5},
		{"page.html", 6},
		{"data.json", 7},
		{"README.md", 8},
		{"ci.yml", 9},
		{"unknown.xyz", 1},
		{"Makefile", 1},
	}
	for _, tt := range tests {
		if got := GroupFor(tt.path); got != tt.want {
			t.Errorf("GroupFor(%q) = %d, want %d", tt.path, got, tt.want)
		}
	}
}

func TestFormat_Pure(t *testing.T) {
	result := &scanner.Result{
		Files: []string{"x.py", "y.py", "z.md"},
		Dependencies: []scanner.Edge{
			{From: "x.py", To: ".y", Type: scanner.EdgeImport},
		},
	}

	first := Format(result)
	for i := 0; i < 3; i++ {
		if again := Format(result); !reflect.DeepEqual(first, again) {
			t.Fatalf("Format is not pure: %v vs %v", first, again)
		}
	}
}

func TestFormat_DuplicateEdgesNotAggregated(t *testing.T) {
	result := &scanner.Result{
		Files: []string{"a.js", "b.js"},
		Dependencies: []scanner.Edge{
			{From: "a.js", To: "./b", Type: scanner.EdgeImport},
			{From: "a.js", To: "./b", Type: scanner.EdgeImport},
		},
	}

	g := Format(result)
	if len(g.Links) != 2 {
		t.Fatalf("links = %v, want 2 (no aggregation)", g.Links)
	}
	for _, l := range g.Links {
		if l.Value != 1 {
			t.Errorf("link value = %d, want constant 1", l.Value)
		}
	}
}

func TestFormat_UnresolvedTargetKeptVerbatim(t *testing.T) {
	result := &scanner.Result{
		Files: []string{"a.js"},
		Dependencies: []scanner.Edge{
			{From: "a.js", To: "./missing/thing", Type: scanner.EdgeImport},
		},
	}

	g := Format(result)
	if len(g.Links) != 1 || g.Links[0].Target != "./missing/thing" {
		t.Errorf("links = %v, want raw target kept", g.Links)
	}
}

func TestFormat_PlaceholderOnMalformedInput(t *testing.T) {
	want := Placeholder()

	if got := Format(nil); !reflect.DeepEqual(got, want) {
		t.Errorf("Format(nil) = %v, want placeholder", got)
	}
	if got := Format(&scanner.Result{}); !reflect.DeepEqual(got, want) {
		t.Errorf("Format(empty) = %v, want placeholder", got)
	}
	// Dependencies may be nil with files present; that is not malformed.
	g := Format(&scanner.Result{Files: []string{"a.go"}})
	if len(g.Nodes) != 1 || len(g.Links) != 0 {
		t.Errorf("files-only input = %v, want 1 node / 0 links", g)
	}

	if len(want.Nodes) != 4 || len(want.Links) != 3 {
		t.Errorf("placeholder shape = %d nodes / %d links, want 4/3", len(want.Nodes), len(want.Links))
	}
}
