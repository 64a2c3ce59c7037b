package insight

import "time"

// Kind selects a report template and token ceiling.
type Kind string

const (
	KindArchitecture Kind = "architecture"
	KindStrategic    Kind = "strategic"
	KindBusiness     Kind = "business"
)

// Kinds lists all report kinds in generation order.
var Kinds = []Kind{KindArchitecture, KindStrategic, KindBusiness}

// Valid reports whether k names a known report kind.
func (k Kind) Valid() bool {
	switch k {
	case KindArchitecture, KindStrategic, KindBusiness:
		return true
	}
	return false
}

// Report is the success variant: the model's markdown output plus metadata.
type Report struct {
	Kind         Kind      `json:"kind"`
	Markdown     string    `json:"markdown"`
	Model        string    `json:"model"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// ReportError is the failure variant: a classified code plus the upstream
// message.
type ReportError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// Result is the tagged outcome of one report generation: exactly one of
// Report or Error is set.
type Result struct {
	Kind   Kind         `json:"kind"`
	Report *Report      `json:"report,omitempty"`
	Error  *ReportError `json:"error,omitempty"`
}

// OK reports whether the result carries a successful report.
func (r Result) OK() bool { return r.Report != nil }
