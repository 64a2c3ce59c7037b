package insight

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/cybrdelic/repotronium/internal/complexity"
	"github.com/cybrdelic/repotronium/internal/llm"
)

// stubProvider returns a canned response or error and records requests.
type stubProvider struct {
	reqs []llm.CompletionRequest
	resp *llm.CompletionResponse
	err  error
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.reqs = append(s.reqs, req)
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func okStub() *stubProvider {
	return &stubProvider{
		resp: &llm.CompletionResponse{
			Content:      "# Report\n\nLooks fine.",
			InputTokens:  100,
			OutputTokens: 200,
			Model:        "gpt-4o",
			FinishReason: "stop",
		},
	}
}

func TestGenerate_Success(t *testing.T) {
	stub := okStub()
	g := NewGenerator(stub, "gpt-4o")

	result := g.Generate(t.Context(), KindArchitecture, `{"files":["a.js"]}`)

	if !result.OK() {
		t.Fatalf("result error: %+v", result.Error)
	}
	if result.Kind != KindArchitecture {
		t.Errorf("kind = %q", result.Kind)
	}
	if result.Report.Markdown == "" {
		t.Error("report markdown is empty")
	}
	if result.Report.Model != "gpt-4o" {
		t.Errorf("model = %q", result.Report.Model)
	}

	if len(stub.reqs) != 1 {
		t.Fatalf("requests = %d, want 1", len(stub.reqs))
	}
	req := stub.reqs[0]
	if len(req.Messages) != 2 || req.Messages[0].Role != llm.RoleSystem || req.Messages[1].Role != llm.RoleUser {
		t.Errorf("messages = %+v, want system+user pair", req.Messages)
	}
	if !strings.Contains(req.Messages[1].Content, `{"files":["a.js"]}`) {
		t.Error("user message does not embed the summary")
	}
}

func TestGenerate_TokenCeilings(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindArchitecture, 2500},
		{KindStrategic, 2000},
		{KindBusiness, 1500},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			stub := okStub()
			NewGenerator(stub, "m").Generate(t.Context(), tt.kind, "{}")
			if got := stub.reqs[0].MaxTokens; got != tt.want {
				t.Errorf("max tokens = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGenerate_SummaryTruncation(t *testing.T) {
	stub := okStub()
	g := NewGenerator(stub, "m")

	long := strings.Repeat("x", complexity.MaxLLMContentChars+5000)
	g.Generate(t.Context(), KindBusiness, long)

	user := stub.reqs[0].Messages[1].Content
	if !strings.Contains(user, complexity.TruncationMarker) {
		t.Error("oversized summary was not truncated")
	}
	if len(user) > complexity.MaxLLMContentChars+len(complexity.TruncationMarker)+1000 {
		t.Errorf("user message length = %d, truncation ineffective", len(user))
	}
}

func TestGenerate_ClassifiedFailures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   ErrorCode
		wantStatus int
	}{
		{"bad key", errors.New("Incorrect API key provided"), CodeBadAPIKey, http.StatusUnauthorized},
		{"401 status", errors.New("status code 401"), CodeBadAPIKey, http.StatusUnauthorized},
		{"rate limit", errors.New("Rate limit reached for gpt-4o"), CodeRateLimited, http.StatusTooManyRequests},
		{"timeout", errors.New("context deadline exceeded (Client.Timeout)"), CodeTimeout, http.StatusGatewayTimeout},
		{"other", errors.New("connection reset by peer"), CodeUpstream, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(&stubProvider{err: tt.err}, "m")
			result := g.Generate(t.Context(), KindStrategic, "{}")

			if result.OK() {
				t.Fatal("expected failure result")
			}
			if result.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", result.Error.Code, tt.wantCode)
			}
			if got := result.Error.Code.HTTPStatus(); got != tt.wantStatus {
				t.Errorf("http status = %d, want %d", got, tt.wantStatus)
			}
		})
	}
}

func TestGenerate_UnknownKind(t *testing.T) {
	stub := okStub()
	g := NewGenerator(stub, "m")

	result := g.Generate(t.Context(), Kind("roadmap"), "{}")
	if result.OK() {
		t.Fatal("unknown kind should fail")
	}
	if len(stub.reqs) != 0 {
		t.Error("unknown kind should not reach the provider")
	}
}

func TestGenerateAll_PartialFailure(t *testing.T) {
	// Provider fails every call; all three kinds still come back tagged.
	g := NewGenerator(&stubProvider{err: errors.New("rate limit")}, "m")

	results := g.GenerateAll(t.Context(), "{}")
	if len(results) != len(Kinds) {
		t.Fatalf("results = %d, want %d", len(results), len(Kinds))
	}
	for i, r := range results {
		if r.Kind != Kinds[i] {
			t.Errorf("result %d kind = %q, want %q", i, r.Kind, Kinds[i])
		}
		if r.OK() {
			t.Errorf("result %d unexpectedly succeeded", i)
		}
	}
}
