// Package scanner walks a repository checkout and extracts a heuristic
// import graph: file nodes plus unresolved (from, to) dependency edges.
package scanner

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// Edge types.
const (
	EdgeImport  = "import"  // target extracted from an import-like statement
	EdgeRelated = "related" // synthetic edge produced by the third fallback tier
)

// Edge is a directed dependency. From is always a concrete file discovered
// during traversal; To is the raw import target taken from source text,
// never resolved or validated against the filesystem.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

// Provenance records which fallback tier produced a Result. The tiers carry
// very different trust levels and must stay distinguishable downstream.
type Provenance string

const (
	ProvenanceScan      Provenance = "scan"      // primary traversal
	ProvenanceRescan    Provenance = "rescan"    // alternate project roots one level down
	ProvenanceSynthetic Provenance = "synthetic" // bare listing with chained related edges
	ProvenanceExample   Provenance = "example"   // fixed example dataset, no real data
)

// Result is the scanner's output: relative file paths, dependency edges,
// and the provenance tier that produced them. Order of Files and
// Dependencies is not significant.
type Result struct {
	Files        []string   `json:"files"`
	Dependencies []Edge     `json:"dependencies"`
	Provenance   Provenance `json:"provenance"`
}

// minPrimaryFiles is the threshold below which the scanner tries alternate
// project roots one level down.
const minPrimaryFiles = 3

// Scanner extracts dependency edges from a checked-out repository.
type Scanner struct {
	concurrency int
	include     []string
	exclude     []string
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithConcurrency bounds the per-file extraction fan-out.
func WithConcurrency(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithFilters applies doublestar include/exclude globs on top of the fixed
// traversal denylist.
func WithFilters(include, exclude []string) Option {
	return func(s *Scanner) {
		s.include = include
		s.exclude = exclude
	}
}

// New creates a Scanner with default settings.
func New(opts ...Option) *Scanner {
	s := &Scanner{concurrency: 8}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan traverses root and returns the file list and dependency edges.
// Local failures (unreadable entries, patterns matching nothing) degrade
// through the fallback tiers instead of surfacing as errors; Scan fails only
// when root itself is not a directory.
func (s *Scanner) Scan(ctx context.Context, root string) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "scan", Path: root, Err: os.ErrInvalid}
	}

	files := s.listFiles(root, "")
	if len(files) < minPrimaryFiles {
		if alt := s.rescanAlternateRoots(root); len(alt) > len(files) {
			return s.extract(ctx, root, alt, ProvenanceRescan), nil
		}
	}
	if len(files) > 0 {
		return s.extract(ctx, root, files, ProvenanceScan), nil
	}

	// Tier three: bare listing with synthetic edges, then the fixed
	// example dataset for a truly empty checkout.
	if r := syntheticResult(bareListing(root, "")); r != nil {
		return r, nil
	}
	return ExampleResult(), nil
}

// listFiles walks the tree under dir, returning relative slash-separated
// paths for every entry that survives the denylist and the user filters.
// Entries are visited in sorted order so output is deterministic for
// identical trees. Unreadable directories are skipped, not fatal.
func (s *Scanner) listFiles(dir, prefix string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var files []string
	for _, e := range entries {
		name := e.Name()
		if skipEntry(name, e.IsDir()) {
			continue
		}
		rel := name
		if prefix != "" {
			rel = prefix + "/" + name
		}
		if e.IsDir() {
			files = append(files, s.listFiles(filepath.Join(dir, name), rel)...)
			continue
		}
		if !e.Type().IsRegular() {
			continue
		}
		if !s.passesFilters(rel) {
			continue
		}
		files = append(files, rel)
	}
	return files
}

func (s *Scanner) passesFilters(rel string) bool {
	if len(s.include) > 0 {
		matched := false
		for _, pattern := range s.include {
			if ok, err := doublestar.PathMatch(pattern, rel); err == nil && ok {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, pattern := range s.exclude {
		if ok, err := doublestar.PathMatch(pattern, rel); err == nil && ok {
			return false
		}
	}
	return true
}

// extract fans out one goroutine per supported file behind a semaphore of
// the configured width. Each worker reads one file and produces its own edge
// slice; results are merged under a mutex (collect-then-merge), so no two
// goroutines share mutable state.
func (s *Scanner) extract(ctx context.Context, root string, files []string, prov Provenance) *Result {
	result := &Result{Files: files, Provenance: prov}

	sem := make(chan struct{}, s.concurrency)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, rel := range files {
		if !supportedExtension(rel) {
			continue
		}
		select {
		case <-ctx.Done():
			// Cancellation yields a partial edge list; file nodes are
			// already complete.
			wg.Wait()
			return result
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(rel string) {
			defer wg.Done()
			defer func() { <-sem }()

			content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
			if err != nil {
				// Unreadable file: keep the node, drop the edges.
				return
			}

			var edges []Edge
			for _, target := range extractTargets(rel, content) {
				edges = append(edges, Edge{From: rel, To: target, Type: EdgeImport})
			}
			if len(edges) == 0 {
				return
			}
			mu.Lock()
			result.Dependencies = append(result.Dependencies, edges...)
			mu.Unlock()
		}(rel)
	}

	wg.Wait()
	return result
}
