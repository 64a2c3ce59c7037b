// Package pipeline orchestrates one full analysis run: clone, scan, score,
// format, and optionally generate insight reports.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/cybrdelic/repotronium/internal/complexity"
	"github.com/cybrdelic/repotronium/internal/github"
	"github.com/cybrdelic/repotronium/internal/graph"
	"github.com/cybrdelic/repotronium/internal/insight"
	"github.com/cybrdelic/repotronium/internal/scanner"
)

// RepoFetcher produces and disposes of local checkouts.
type RepoFetcher interface {
	Clone(ctx context.Context, owner, repo string) (string, error)
	Cleanup(dir string)
}

// MetadataClient fetches repository metadata; nil disables the lookup.
type MetadataClient interface {
	GetRepository(ctx context.Context, owner, repo string) (*github.Repository, error)
	ListLanguages(ctx context.Context, owner, repo string) (map[string]int, error)
}

// Pipeline wires the analysis stages together.
type Pipeline struct {
	fetcher   RepoFetcher
	metadata  MetadataClient
	scanner   *scanner.Scanner
	heuristic complexity.Heuristic
	generator *insight.Generator

	maxComplexityFiles int
	onProgress         ProgressFunc
}

// New creates a Pipeline. metadata and generator may be nil; the
// corresponding stages degrade to absent fields instead of failing the run.
func New(fetcher RepoFetcher, metadata MetadataClient, scan *scanner.Scanner, heuristic complexity.Heuristic, generator *insight.Generator, maxComplexityFiles int) *Pipeline {
	if maxComplexityFiles <= 0 {
		maxComplexityFiles = 50
	}
	return &Pipeline{
		fetcher:            fetcher,
		metadata:           metadata,
		scanner:            scan,
		heuristic:          heuristic,
		generator:          generator,
		maxComplexityFiles: maxComplexityFiles,
	}
}

// SetProgressFunc sets the pipeline-wide stage-transition callback. A
// per-run Options.OnProgress takes precedence.
func (p *Pipeline) SetProgressFunc(fn ProgressFunc) { p.onProgress = fn }

// Run executes one analysis. Only clone failures are fatal; every later
// stage degrades to partial output. The checkout directory is removed
// unconditionally before Run returns, even on error.
func (p *Pipeline) Run(ctx context.Context, owner, repo string, opts Options) (*Bundle, error) {
	start := time.Now()
	notify := opts.OnProgress
	if notify == nil {
		notify = p.onProgress
	}
	progress := func(stage Stage, format string, args ...any) {
		if notify != nil {
			notify(stage, fmt.Sprintf(format, args...))
		}
	}

	bundle := &Bundle{
		ID:        uuid.NewString(),
		Owner:     owner,
		Repo:      repo,
		CreatedAt: start.UTC(),
	}

	// Metadata lookup is best-effort: a missing token or an API outage
	// must not block the structural analysis.
	if p.metadata != nil {
		progress(StageFetch, "fetching metadata for %s/%s", owner, repo)
		if meta, err := p.metadata.GetRepository(ctx, owner, repo); err != nil {
			log.Printf("pipeline: metadata for %s/%s: %v", owner, repo, err)
		} else {
			bundle.Repository = meta
		}
		if langs, err := p.metadata.ListLanguages(ctx, owner, repo); err == nil {
			bundle.Languages = langs
		}
	}

	progress(StageFetch, "cloning %s/%s", owner, repo)
	dir, err := p.fetcher.Clone(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	defer p.fetcher.Cleanup(dir)

	progress(StageScan, "scanning checkout")
	scanResult, err := p.scanner.Scan(ctx, dir)
	if err != nil {
		// The checkout exists but is unreadable as a directory; treat as
		// an empty repository rather than failing the request.
		log.Printf("pipeline: scan %s/%s: %v", owner, repo, err)
		scanResult = scanner.ExampleResult()
	}
	bundle.Scan = scanResult
	bundle.Provenance = scanResult.Provenance

	progress(StageComplexity, "scoring %d files", len(scanResult.Files))
	bundle.Complexity = p.scoreFiles(dir, scanResult.Files)

	progress(StageGraph, "formatting dependency graph")
	bundle.Graph = graph.Format(scanResult)

	if p.generator != nil && len(opts.Kinds) > 0 {
		summary := Summarize(bundle)
		for _, kind := range opts.Kinds {
			progress(StageInsights, "generating %s report", kind)
			bundle.Reports = append(bundle.Reports, p.generator.Generate(ctx, kind, summary))
		}
	}

	bundle.Duration = time.Since(start)
	progress(StageDone, "analysis complete in %s", bundle.Duration.Round(time.Millisecond))
	return bundle, nil
}

// scoreFiles runs the heuristic over a bounded sample of the scanned files.
// Files that cannot be read (including fallback-tier paths that never
// existed on disk) are skipped, not errors.
func (p *Pipeline) scoreFiles(root string, files []string) []complexity.Metrics {
	metrics := make([]complexity.Metrics, 0, min(len(files), p.maxComplexityFiles))
	for _, rel := range files {
		if len(metrics) >= p.maxComplexityFiles {
			break
		}
		content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			continue
		}
		metrics = append(metrics, p.heuristic.Score(rel, content))
	}
	return metrics
}

// summaryPayload is the compact shape serialized for LLM prompts.
type summaryPayload struct {
	Repository   *github.Repository   `json:"repository,omitempty"`
	Languages    map[string]int       `json:"languages,omitempty"`
	Files        []string             `json:"files"`
	Dependencies []scanner.Edge       `json:"dependencies"`
	Provenance   scanner.Provenance   `json:"provenance"`
	Complexity   []complexity.Metrics `json:"complexity"`
}

// Summarize serializes the structural parts of a bundle for prompt
// embedding. Truncation to the LLM content ceiling happens downstream.
func Summarize(b *Bundle) string {
	payload := summaryPayload{
		Repository: b.Repository,
		Languages:  b.Languages,
		Provenance: b.Provenance,
		Complexity: b.Complexity,
	}
	if b.Scan != nil {
		payload.Files = b.Scan.Files
		payload.Dependencies = b.Scan.Dependencies
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "{}"
	}
	return string(data)
}
