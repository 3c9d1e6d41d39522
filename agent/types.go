// Package agent implements the question-answering pipeline: route
// classification, document retrieval, constraint planning, SQL synthesis,
// bounded query repair and format-aware answer synthesis.
package agent

// Route identifies which information sources answer a question.
type Route string

const (
	// RouteDocs answers from the document corpus only.
	RouteDocs Route = "rag"

	// RouteSQL answers from structured aggregation only.
	RouteSQL Route = "sql"

	// RouteHybrid combines documents and structured aggregation.
	RouteHybrid Route = "hybrid"
)

// RouteDecision is the classifier's verdict for one question.
type RouteDecision struct {
	Route  Route
	Reason string
}

// Metric is the target KPI extracted from a question.
type Metric string

const (
	// MetricNone means no metric keyword was detected.
	MetricNone Metric = ""

	// MetricAOV is average order value.
	MetricAOV Metric = "AOV"

	// MetricGrossMargin is gross margin.
	MetricGrossMargin Metric = "GM"
)

// Constraints are the coarse structured facets the planner extracts from a
// question. Absent signals leave the corresponding field at its zero value.
type Constraints struct {
	DateFrom   string
	DateTo     string
	Categories []string
	Metric     Metric
	Notes      map[string]any
}

// ExecResult is the outcome of executing a generated query. Exactly one of
// (Rows populated, Err populated) holds after a terminal attempt; both are
// empty only when the query itself was empty.
type ExecResult struct {
	Columns []string
	Rows    []map[string]any
	Err     string
}

// Answer is the typed final answer with its provenance.
type Answer struct {
	Final       any
	Citations   []string
	Explanation string
	Confidence  float64
}

// Question is one input record of a batch run.
type Question struct {
	ID     string `json:"id"`
	Text   string `json:"question"`
	Format string `json:"format,omitempty"`
}

// Result is one output record of a batch run, shaped for JSONL emission.
type Result struct {
	ID          string   `json:"id"`
	FinalAnswer any      `json:"final_answer"`
	SQL         string   `json:"sql"`
	Confidence  float64  `json:"confidence"`
	Explanation string   `json:"explanation"`
	Citations   []string `json:"citations"`
}
