package report

import (
	"strings"
	"testing"

	"github.com/cybrdelic/repotronium/internal/insight"
	"github.com/cybrdelic/repotronium/internal/pipeline"
)

func TestRenderBundle(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error: %v", err)
	}

	b := &pipeline.Bundle{
		Owner: "octocat",
		Repo:  "hello",
		Reports: []insight.Result{
			{
				Kind: insight.KindArchitecture,
				Report: &insight.Report{
					Kind:     insight.KindArchitecture,
					Markdown: "# Overview\n\nA **modular** frontend.\n\n```js\nconst a = 1;\n```\n",
				},
			},
			{
				Kind: insight.KindBusiness,
				Error: &insight.ReportError{
					Code:    insight.CodeRateLimited,
					Message: "rate limit reached",
				},
			},
		},
	}

	out, err := r.RenderBundle(b)
	if err != nil {
		t.Fatalf("RenderBundle() error: %v", err)
	}
	page := string(out)

	for _, want := range []string{
		"octocat/hello",
		"Architecture Documentation",
		"<strong>modular</strong>",
		"Business Insights",
		"rate limit reached",
		"rate_limited",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}
}

func TestRenderBundle_NoReports(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatal(err)
	}

	out, err := r.RenderBundle(&pipeline.Bundle{Owner: "o", Repo: "r"})
	if err != nil {
		t.Fatalf("RenderBundle() error: %v", err)
	}
	if !strings.Contains(string(out), "o/r") {
		t.Error("page missing title for empty bundle")
	}
}
