// Package complexity approximates per-file code-quality metrics with
// language-naive keyword counting.
package complexity

import "strings"

// Severity buckets for a complexity score.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// MaxLLMContentChars caps how much file content is forwarded to an LLM.
// Metric computation always runs on the full content.
const MaxLLMContentChars = 10000

// TruncationMarker is appended when content is cut at MaxLLMContentChars.
const TruncationMarker = "\n... [content truncated]"

// Metrics holds the approximate counts for one file. The four counts are
// independent and unnormalized; they are comparable only within the same
// language bucket.
type Metrics struct {
	Path       string `json:"path"`
	Lines      int    `json:"lines"`
	Characters int    `json:"characters"`
	Functions  int    `json:"functions"`
	Classes    int    `json:"classes"`
	Complexity int    `json:"complexity"`
	Severity   string `json:"severity"`
}

// Heuristic scores a file's content. It is an interface so a parser-based
// implementation could be swapped in without touching callers, though the
// severity thresholds are calibrated to the keyword counter below.
type Heuristic interface {
	Score(path string, content []byte) Metrics
}

// KeywordHeuristic is the regex keyword-counting Heuristic.
type KeywordHeuristic struct{}

// NewKeywordHeuristic returns the default keyword-counting heuristic.
func NewKeywordHeuristic() *KeywordHeuristic {
	return &KeywordHeuristic{}
}

// Score computes line/character counts and, for recognized language
// buckets, approximate function/class counts plus the raw keyword-token
// complexity score. Unrecognized buckets get zero for all three.
func (h *KeywordHeuristic) Score(path string, content []byte) Metrics {
	text := string(content)

	m := Metrics{
		Path:       path,
		Lines:      countLines(text),
		Characters: len(text),
	}

	r := rulesFor(bucketFor(path))
	if r != nil {
		for _, re := range r.functions {
			m.Functions += len(re.FindAllStringIndex(text, -1))
		}
		for _, re := range r.classes {
			m.Classes += len(re.FindAllStringIndex(text, -1))
		}
		for _, re := range r.keywords {
			m.Complexity += len(re.FindAllStringIndex(text, -1))
		}
		for _, op := range r.operators {
			m.Complexity += strings.Count(text, op)
		}
	}

	m.Severity = SeverityFor(m.Complexity)
	return m
}

// SeverityFor maps a complexity score onto the fixed severity thresholds.
func SeverityFor(score int) string {
	switch {
	case score <= 5:
		return SeverityLow
	case score <= 15:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}

// TruncateForLLM caps content at MaxLLMContentChars, appending a marker
// when anything was cut.
func TruncateForLLM(content string) string {
	if len(content) <= MaxLLMContentChars {
		return content
	}
	return content[:MaxLLMContentChars] + TruncationMarker
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
