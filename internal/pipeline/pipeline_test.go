package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cybrdelic/repotronium/internal/complexity"
	"github.com/cybrdelic/repotronium/internal/github"
	"github.com/cybrdelic/repotronium/internal/insight"
	"github.com/cybrdelic/repotronium/internal/llm"
	"github.com/cybrdelic/repotronium/internal/scanner"
)

// fakeFetcher hands out a pre-built directory instead of cloning and
// records whether cleanup ran.
type fakeFetcher struct {
	dir       string
	err       error
	cleanedUp bool
}

func (f *fakeFetcher) Clone(_ context.Context, _, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.dir, nil
}

func (f *fakeFetcher) Cleanup(string) { f.cleanedUp = true }

// fakeMetadata returns canned GitHub metadata.
type fakeMetadata struct {
	repo *github.Repository
	err  error
}

func (m *fakeMetadata) GetRepository(context.Context, string, string) (*github.Repository, error) {
	return m.repo, m.err
}

func (m *fakeMetadata) ListLanguages(context.Context, string, string) (map[string]int, error) {
	if m.err != nil {
		return nil, m.err
	}
	return map[string]int{"JavaScript": 100}, nil
}

// stubLLM is a canned llm.Provider for wiring a real Generator.
type stubLLM struct{ err error }

func (s *stubLLM) Name() string { return "stub" }

func (s *stubLLM) Complete(context.Context, llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &llm.CompletionResponse{Content: "# ok", Model: "m"}, nil
}

func projectDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"a.js": "import './b'\nif (x) { y(); }\n",
		"b.js": "const b = 1;\n",
		"c.py": "import os\n",
	}
	for rel, content := range files {
		if err := os.WriteFile(filepath.Join(dir, rel), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newTestPipeline(f *fakeFetcher, m MetadataClient, g *insight.Generator) *Pipeline {
	return New(f, m, scanner.New(), complexity.NewKeywordHeuristic(), g, 10)
}

func TestRun_FullBundle(t *testing.T) {
	f := &fakeFetcher{dir: projectDir(t)}
	m := &fakeMetadata{repo: &github.Repository{FullName: "octocat/hello", DefaultBranch: "main"}}

	p := newTestPipeline(f, m, nil)
	bundle, err := p.Run(t.Context(), "octocat", "hello", Options{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if !f.cleanedUp {
		t.Error("checkout was not cleaned up")
	}
	if bundle.Repository == nil || bundle.Repository.FullName != "octocat/hello" {
		t.Errorf("repository = %+v", bundle.Repository)
	}
	if bundle.Provenance != scanner.ProvenanceScan {
		t.Errorf("provenance = %q, want scan", bundle.Provenance)
	}
	if len(bundle.Scan.Files) != 3 {
		t.Errorf("files = %v, want 3", bundle.Scan.Files)
	}
	if len(bundle.Complexity) != 3 {
		t.Errorf("complexity entries = %d, want 3", len(bundle.Complexity))
	}
	if len(bundle.Graph.Nodes) != 3 {
		t.Errorf("graph nodes = %d, want 3", len(bundle.Graph.Nodes))
	}
	if bundle.ID == "" || bundle.Duration <= 0 {
		t.Errorf("bundle bookkeeping incomplete: id=%q duration=%s", bundle.ID, bundle.Duration)
	}
	if len(bundle.Reports) != 0 {
		t.Errorf("reports = %v, want none without kinds", bundle.Reports)
	}
}

func TestRun_CloneFailureIsFatal(t *testing.T) {
	f := &fakeFetcher{err: errors.New("authentication failed")}

	p := newTestPipeline(f, nil, nil)
	if _, err := p.Run(t.Context(), "octocat", "hello", Options{}); err == nil {
		t.Fatal("Run() should fail when clone fails")
	}
}

func TestRun_MetadataFailureDegrades(t *testing.T) {
	f := &fakeFetcher{dir: projectDir(t)}
	m := &fakeMetadata{err: github.ErrRateLimited}

	p := newTestPipeline(f, m, nil)
	bundle, err := p.Run(t.Context(), "octocat", "hello", Options{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if bundle.Repository != nil {
		t.Errorf("repository = %+v, want nil on metadata failure", bundle.Repository)
	}
	if len(bundle.Scan.Files) == 0 {
		t.Error("scan should still run when metadata fails")
	}
}

func TestRun_WithReports(t *testing.T) {
	f := &fakeFetcher{dir: projectDir(t)}
	g := insight.NewGenerator(&stubLLM{}, "m")

	p := newTestPipeline(f, nil, g)
	bundle, err := p.Run(t.Context(), "octocat", "hello", Options{
		Kinds: []insight.Kind{insight.KindArchitecture, insight.KindStrategic},
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(bundle.Reports) != 2 {
		t.Fatalf("reports = %d, want 2", len(bundle.Reports))
	}
	if r := bundle.ReportByKind(insight.KindArchitecture); r == nil || !r.OK() {
		t.Errorf("architecture report = %+v", r)
	}
	if bundle.ReportByKind(insight.KindBusiness) != nil {
		t.Error("business report present but not requested")
	}
}

func TestRun_ReportFailureIsPartial(t *testing.T) {
	f := &fakeFetcher{dir: projectDir(t)}
	g := insight.NewGenerator(&stubLLM{err: errors.New("rate limit")}, "m")

	p := newTestPipeline(f, nil, g)
	bundle, err := p.Run(t.Context(), "octocat", "hello", Options{
		Kinds: []insight.Kind{insight.KindBusiness},
	})
	if err != nil {
		t.Fatalf("Run() error: %v (partial results must win)", err)
	}

	r := bundle.ReportByKind(insight.KindBusiness)
	if r == nil || r.OK() {
		t.Fatalf("business report = %+v, want classified failure", r)
	}
	if r.Error.Code != insight.CodeRateLimited {
		t.Errorf("code = %q, want rate_limited", r.Error.Code)
	}
	if len(bundle.Scan.Files) == 0 {
		t.Error("structural results missing despite report-only failure")
	}
}

func TestRun_EmptyCheckoutUsesExampleData(t *testing.T) {
	f := &fakeFetcher{dir: t.TempDir()}

	p := newTestPipeline(f, nil, nil)
	bundle, err := p.Run(t.Context(), "octocat", "empty", Options{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if bundle.Provenance != scanner.ProvenanceExample {
		t.Errorf("provenance = %q, want example", bundle.Provenance)
	}
	// Example-tier paths never existed on disk, so no metrics.
	if len(bundle.Complexity) != 0 {
		t.Errorf("complexity = %v, want none for example data", bundle.Complexity)
	}
	if len(bundle.Graph.Nodes) != 5 {
		t.Errorf("graph nodes = %d, want 5 from example dataset", len(bundle.Graph.Nodes))
	}
}

func TestRun_StageProgression(t *testing.T) {
	f := &fakeFetcher{dir: projectDir(t)}
	p := newTestPipeline(f, nil, nil)

	var stages []Stage
	p.SetProgressFunc(func(stage Stage, _ string) {
		stages = append(stages, stage)
	})

	if _, err := p.Run(t.Context(), "o", "r", Options{}); err != nil {
		t.Fatal(err)
	}

	want := []Stage{StageFetch, StageScan, StageComplexity, StageGraph, StageDone}
	if len(stages) != len(want) {
		t.Fatalf("stages = %v, want %v", stages, want)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Errorf("stage %d = %q, want %q", i, stages[i], want[i])
		}
	}
}

func TestRun_PerRunProgressWinsOverPipelineWide(t *testing.T) {
	f := &fakeFetcher{dir: projectDir(t)}
	p := newTestPipeline(f, nil, nil)

	var shared, perRun int
	p.SetProgressFunc(func(Stage, string) { shared++ })

	if _, err := p.Run(t.Context(), "o", "r", Options{
		OnProgress: func(Stage, string) { perRun++ },
	}); err != nil {
		t.Fatal(err)
	}

	if shared != 0 {
		t.Errorf("pipeline-wide callback fired %d times, want 0", shared)
	}
	if perRun == 0 {
		t.Error("per-run callback never fired")
	}
}

func TestSummarize(t *testing.T) {
	bundle := &Bundle{
		Scan: &scanner.Result{
			Files:        []string{"a.js"},
			Dependencies: []scanner.Edge{{From: "a.js", To: "./b", Type: scanner.EdgeImport}},
			Provenance:   scanner.ProvenanceScan,
		},
		Provenance: scanner.ProvenanceScan,
	}

	s := Summarize(bundle)
	for _, want := range []string{`"a.js"`, `"./b"`, `"provenance":"scan"`} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %s: %s", want, s)
		}
	}
}
