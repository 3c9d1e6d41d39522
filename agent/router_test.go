package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouterIDOverrides(t *testing.T) {
	r := NewRouter()

	tests := []struct {
		name     string
		question string
		idHint   string
		want     Route
	}{
		{
			name:     "policy id wins regardless of question text",
			question: "What are the top 3 products by total revenue?",
			idHint:   "q2_rag_policy_beverages_return_days",
			want:     RouteDocs,
		},
		{
			name:     "sql id",
			question: "Tell me about the return policy",
			idHint:   "q1_sql_top3_products_by_revenue_alltime",
			want:     RouteSQL,
		},
		{
			name:     "hybrid id",
			question: "anything at all",
			idHint:   "q5_hybrid_aov_winter_1997",
			want:     RouteHybrid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := r.Classify(tt.question, tt.idHint)
			assert.Equal(t, tt.want, decision.Route)
			assert.Equal(t, "id-based", decision.Reason)
		})
	}
}

func TestRouterTextRules(t *testing.T) {
	r := NewRouter()

	tests := []struct {
		name       string
		question   string
		wantRoute  Route
		wantReason string
	}{
		{"top 3 ranking", "What are the Top 3 products by revenue?", RouteSQL, "top 3 aggregate"},
		{"aov phrasing", "What was the average order value in December?", RouteHybrid, "aov hybrid"},
		{"margin phrasing", "Which customer had the best gross margin?", RouteHybrid, "margin hybrid"},
		{"seasonal phrasing", "How did the Summer campaign perform?", RouteHybrid, "date-based hybrid"},
		{"policy phrasing", "Can I return an opened beverage?", RouteDocs, "policy question"},
		{"no rule matches", "What is the weather today?", RouteHybrid, "default fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := r.Classify(tt.question, "")
			assert.Equal(t, tt.wantRoute, decision.Route)
			assert.Equal(t, tt.wantReason, decision.Reason)
		})
	}
}
