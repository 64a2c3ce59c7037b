package scanner

import (
	"os"
	"path/filepath"
	"sort"
)

// rescanAlternateRoots implements the second fallback tier: when the primary
// pass finds almost nothing, look one level down for subdirectories that
// carry a project marker and scan each as an alternate root, prefixing its
// name onto the discovered paths.
func (s *Scanner) rescanAlternateRoots(root string) []string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var files []string
	for _, e := range entries {
		if !e.IsDir() || skipEntry(e.Name(), true) {
			continue
		}
		sub := filepath.Join(root, e.Name())
		if !hasProjectMarker(sub) {
			continue
		}
		files = append(files, s.listFiles(sub, e.Name())...)
	}
	return files
}

// hasProjectMarker reports whether dir directly contains any known project
// marker file or directory.
func hasProjectMarker(dir string) bool {
	for _, marker := range projectMarkers {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

// bareListing is the third tier's traversal: every regular file under dir
// with no filtering beyond .git, so even a repository made of nothing but
// hidden or denylisted files yields nodes.
func bareListing(dir, prefix string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var files []string
	for _, e := range entries {
		name := e.Name()
		if name == ".git" {
			continue
		}
		rel := name
		if prefix != "" {
			rel = prefix + "/" + name
		}
		if e.IsDir() {
			files = append(files, bareListing(filepath.Join(dir, name), rel)...)
			continue
		}
		if e.Type().IsRegular() {
			files = append(files, rel)
		}
	}
	return files
}

// syntheticResult chains every file to the first with "related" edges so the
// graph renders as a connected star even without real import data. Returns
// nil when there are no files at all.
func syntheticResult(files []string) *Result {
	if len(files) == 0 {
		return nil
	}
	result := &Result{Files: files, Provenance: ProvenanceSynthetic}
	for _, f := range files[1:] {
		result.Dependencies = append(result.Dependencies, Edge{
			From: f,
			To:   files[0],
			Type: EdgeRelated,
		})
	}
	return result
}

// ExampleResult is the final fallback tier: a fixed dataset substituted
// verbatim when a checkout contains no files at all. Callers must treat it
// as "no usable data", which is why its provenance is distinct.
func ExampleResult() *Result {
	return &Result{
		Files: []string{
			"src/index.js",
			"src/components/App.js",
			"src/components/Header.js",
			"src/utils/helpers.js",
			"package.json",
		},
		Dependencies: []Edge{
			{From: "src/index.js", To: "./components/App", Type: EdgeImport},
			{From: "src/components/App.js", To: "./Header", Type: EdgeImport},
			{From: "src/components/App.js", To: "../utils/helpers", Type: EdgeImport},
			{From: "src/components/Header.js", To: "../utils/helpers", Type: EdgeImport},
		},
		Provenance: ProvenanceExample,
	}
}
