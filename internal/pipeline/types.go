package pipeline

import (
	"time"

	"github.com/cybrdelic/repotronium/internal/complexity"
	"github.com/cybrdelic/repotronium/internal/github"
	"github.com/cybrdelic/repotronium/internal/graph"
	"github.com/cybrdelic/repotronium/internal/insight"
	"github.com/cybrdelic/repotronium/internal/scanner"
)

// Bundle is the aggregate returned to callers: everything one analysis run
// produced. It is recomputed from scratch on every request; nothing about
// the checkout survives the run.
type Bundle struct {
	ID    string `json:"id"`
	Owner string `json:"owner"`
	Repo  string `json:"repo"`

	// Repository metadata is best-effort; nil when the GitHub API was
	// unreachable or unconfigured.
	Repository *github.Repository `json:"repository,omitempty"`
	Languages  map[string]int     `json:"languages,omitempty"`

	Scan       *scanner.Result      `json:"scan"`
	Graph      graph.Graph          `json:"dependencyGraph"`
	Complexity []complexity.Metrics `json:"fileComplexityAnalysis"`
	Reports    []insight.Result     `json:"reports,omitempty"`

	Provenance scanner.Provenance `json:"provenance"`
	Duration   time.Duration      `json:"duration"`
	CreatedAt  time.Time          `json:"created_at"`
}

// ReportByKind returns the result for one report kind, if present.
func (b *Bundle) ReportByKind(kind insight.Kind) *insight.Result {
	for i := range b.Reports {
		if b.Reports[i].Kind == kind {
			return &b.Reports[i]
		}
	}
	return nil
}

// Options controls a single run.
type Options struct {
	// Kinds lists the insight reports to generate; empty means none.
	Kinds []insight.Kind

	// OnProgress, when set, receives this run's stage transitions instead
	// of the pipeline-wide callback.
	OnProgress ProgressFunc
}

// Stage identifies a pipeline phase for progress reporting.
type Stage string

const (
	StageFetch      Stage = "fetch"
	StageScan       Stage = "scan"
	StageComplexity Stage = "complexity"
	StageGraph      Stage = "graph"
	StageInsights   Stage = "insights"
	StageDone       Stage = "done"
)

// ProgressFunc receives stage transitions while a run executes.
type ProgressFunc func(stage Stage, message string)
