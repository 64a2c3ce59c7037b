// Package insight turns analysis data into LLM-generated markdown reports.
package insight

import (
	"context"
	"fmt"
	"time"

	"github.com/cybrdelic/repotronium/internal/complexity"
	"github.com/cybrdelic/repotronium/internal/llm"
)

// Generator produces insight reports through an LLM provider. It never
// retries; failures come back as classified Result errors so callers can map
// them to HTTP statuses.
type Generator struct {
	provider llm.Provider
	model    string
}

// NewGenerator creates a Generator bound to a provider and model. The
// provider carries its own credentials; nothing here touches the process
// environment.
func NewGenerator(provider llm.Provider, model string) *Generator {
	return &Generator{provider: provider, model: model}
}

// Generate produces one report. The summary is the serialized analysis
// bundle; it is truncated to the LLM content ceiling before being embedded
// in the prompt. The returned Result is always tagged with the kind, even
// on failure.
func (g *Generator) Generate(ctx context.Context, kind Kind, summary string) Result {
	if !kind.Valid() {
		return Result{
			Kind:  kind,
			Error: &ReportError{Code: CodeUpstream, Message: fmt.Sprintf("unknown report kind %q", kind)},
		}
	}

	system, user, maxTokens := promptFor(kind, complexity.TruncateForLLM(summary))

	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Model: g.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return Result{
			Kind:  kind,
			Error: &ReportError{Code: Classify(err), Message: err.Error()},
		}
	}

	return Result{
		Kind: kind,
		Report: &Report{
			Kind:         kind,
			Markdown:     resp.Content,
			Model:        resp.Model,
			InputTokens:  resp.InputTokens,
			OutputTokens: resp.OutputTokens,
			GeneratedAt:  time.Now().UTC(),
		},
	}
}

// GenerateAll produces every report kind in order, continuing past
// individual failures so partial results always win over a hard error.
func (g *Generator) GenerateAll(ctx context.Context, summary string) []Result {
	results := make([]Result, 0, len(Kinds))
	for _, kind := range Kinds {
		results = append(results, g.Generate(ctx, kind, summary))
	}
	return results
}
