package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/cybrdelic/repotronium/internal/insight"
	"github.com/cybrdelic/repotronium/internal/pipeline"
	"github.com/cybrdelic/repotronium/internal/report"
	"github.com/cybrdelic/repotronium/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func handleAnalyze(runner Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := chi.URLParam(r, "owner")
		repo := chi.URLParam(r, "repo")

		bundle, err := runner.Run(r.Context(), owner, repo, pipeline.Options{})
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, bundle)
	}
}

// advancedResponse is the full analysis payload: structural data plus the
// generated reports, flattened into the fields the frontend consumes.
type advancedResponse struct {
	Dependencies             *dependenciesSection `json:"dependencies"`
	DependencyGraph          any                  `json:"dependencyGraph"`
	FileComplexityAnalysis   any                  `json:"fileComplexityAnalysis"`
	AIAnalysis               string               `json:"aiAnalysis"`
	StrategicRecommendations string               `json:"strategicRecommendations"`
	Roadmap                  string               `json:"roadmap"`

	// Errors lists report generations that failed; the structural fields
	// above are still populated.
	Errors []insight.ReportError `json:"errors,omitempty"`
}

type dependenciesSection struct {
	Files        []string `json:"files"`
	Dependencies any      `json:"dependencies"`
	Provenance   string   `json:"provenance"`
}

func handleAdvancedAnalysis(runner Runner, st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := chi.URLParam(r, "owner")
		repo := chi.URLParam(r, "repo")

		bundle, err := runner.Run(r.Context(), owner, repo, pipeline.Options{Kinds: allKinds()})
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}

		if st != nil {
			if err := st.SaveBundle(r.Context(), bundle); err != nil {
				log.Printf("server: save analysis %s: %v", bundle.ID, err)
			}
		}

		resp := advancedResponse{
			DependencyGraph:        bundle.Graph,
			FileComplexityAnalysis: bundle.Complexity,
		}
		if bundle.Scan != nil {
			resp.Dependencies = &dependenciesSection{
				Files:        bundle.Scan.Files,
				Dependencies: bundle.Scan.Dependencies,
				Provenance:   string(bundle.Scan.Provenance),
			}
		}
		for _, res := range bundle.Reports {
			if !res.OK() {
				resp.Errors = append(resp.Errors, *res.Error)
				continue
			}
			switch res.Kind {
			case insight.KindArchitecture:
				resp.AIAnalysis = res.Report.Markdown
			case insight.KindStrategic:
				resp.StrategicRecommendations = res.Report.Markdown
				resp.Roadmap = extractRoadmap(res.Report.Markdown)
			case insight.KindBusiness:
				// Business insights have a dedicated endpoint; the report
				// still rides along in the stored bundle.
			}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// extractRoadmap pulls the roadmap section out of a strategic report. It
// returns the lines under the first heading mentioning "roadmap", up to the
// next heading of the same or higher level. Falls back to the whole report
// when no such heading exists.
func extractRoadmap(markdown string) string {
	lines := strings.Split(markdown, "\n")
	start, level := -1, 0
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			continue
		}
		depth := len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
		if start < 0 {
			if strings.Contains(strings.ToLower(trimmed), "roadmap") {
				start, level = i+1, depth
			}
			continue
		}
		if depth <= level {
			return strings.TrimSpace(strings.Join(lines[start:i], "\n"))
		}
	}
	if start < 0 {
		return markdown
	}
	return strings.TrimSpace(strings.Join(lines[start:], "\n"))
}

type businessRequest struct {
	AnalysisData json.RawMessage `json:"analysisData"`
}

type businessInsights struct {
	Documentation string `json:"documentation"`
	Analysis      string `json:"analysis"`
	Type          string `json:"type"`
}

// Insighter generates a single report from pre-serialized analysis data;
// satisfied by *insight.Generator.
type Insighter interface {
	Generate(ctx context.Context, kind insight.Kind, summary string) insight.Result
}

func handleBusinessInsights(gen Insighter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if gen == nil {
			writeError(w, http.StatusServiceUnavailable, "business insights generator not configured")
			return
		}

		var req businessRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(req.AnalysisData) == 0 {
			writeError(w, http.StatusBadRequest, "analysisData is required")
			return
		}

		res := gen.Generate(r.Context(), insight.KindBusiness, string(req.AnalysisData))
		if !res.OK() {
			writeJSON(w, res.Error.Code.HTTPStatus(), map[string]any{"error": res.Error})
			return
		}

		writeJSON(w, http.StatusOK, map[string]businessInsights{
			"businessInsights": {
				Documentation: res.Report.Markdown,
				Analysis:      res.Report.Model,
				Type:          string(res.Kind),
			},
		})
	}
}

func handleListAnalyses(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			writeError(w, http.StatusServiceUnavailable, "analysis history not configured")
			return
		}

		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}

		records, err := st.ListRecent(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if records == nil {
			records = []store.Record{}
		}

		writeJSON(w, http.StatusOK, records)
	}
}

func handleGetAnalysis(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			writeError(w, http.StatusServiceUnavailable, "analysis history not configured")
			return
		}

		bundle, err := st.GetBundle(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if bundle == nil {
			writeError(w, http.StatusNotFound, "analysis not found")
			return
		}

		writeJSON(w, http.StatusOK, bundle)
	}
}

func handleAnalysisReport(st *store.Store, renderer *report.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil || renderer == nil {
			writeError(w, http.StatusServiceUnavailable, "report rendering not configured")
			return
		}

		bundle, err := st.GetBundle(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if bundle == nil {
			writeError(w, http.StatusNotFound, "analysis not found")
			return
		}

		html, err := renderer.RenderBundle(bundle)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(html)
	}
}
