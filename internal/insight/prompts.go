package insight

import "fmt"

// template holds the fixed prompt pair and token ceiling for one report
// kind. The ceilings differ per kind to keep the cheaper reports short.
type template struct {
	system    string
	user      string // fmt verb receives the serialized analysis summary
	maxTokens int
}

var templates = map[Kind]template{
	KindArchitecture: {
		system: "You are a senior software architect reviewing an unfamiliar codebase. " +
			"You write precise, well-structured markdown documentation.",
		user: "Below is structural data extracted from a repository: its file list, " +
			"heuristic dependency graph, and per-file complexity metrics. Produce " +
			"architecture documentation in markdown covering: overall structure, " +
			"apparent module boundaries, notable dependency patterns, and complexity " +
			"hot spots.\n\n%s",
		maxTokens: 2500,
	},
	KindStrategic: {
		system: "You are a principal engineer advising on codebase health and " +
			"engineering strategy. You write actionable markdown recommendations.",
		user: "Based on the repository analysis data below, produce strategic " +
			"recommendations in markdown: refactoring priorities, technical debt, " +
			"testing gaps, and a rough improvement roadmap.\n\n%s",
		maxTokens: 2000,
	},
	KindBusiness: {
		system: "You are a technical product advisor translating engineering signals " +
			"into business language for non-technical stakeholders.",
		user: "Based on the repository analysis data below, produce business insights " +
			"in markdown: what the product appears to do, delivery risks implied by " +
			"the code structure, and where engineering investment would pay off.\n\n%s",
		maxTokens: 1500,
	},
}

// promptFor builds the message content for a kind. Callers have already
// validated the kind.
func promptFor(kind Kind, summary string) (system, user string, maxTokens int) {
	t := templates[kind]
	return t.system, fmt.Sprintf(t.user, summary), t.maxTokens
}
