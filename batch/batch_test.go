package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/retailcopilot/agent"
	"github.com/smallnest/retailcopilot/rag"
)

// stubStore satisfies store.Store with canned responses so batch tests can
// drive a real agent without a database.
type stubStore struct{}

func (stubStore) Execute(context.Context, string) ([]string, []map[string]any, error) {
	return []string{"revenue"}, []map[string]any{{"revenue": 100.0}}, nil
}

func (stubStore) Schema(context.Context) (map[string][]string, error) {
	return map[string][]string{}, nil
}

func (stubStore) Close() error { return nil }

func newTestAgent(t *testing.T) *agent.Agent {
	t.Helper()
	corpus := []rag.Document{
		{Source: "product_policy.md", Content: "Beverages: unopened bottles may be returned within 7 days of purchase.\n"},
	}
	a, err := agent.New(context.Background(), stubStore{}, corpus)
	require.NoError(t, err)
	return a
}

func TestReadQuestions(t *testing.T) {
	t.Run("reads records preserving order", func(t *testing.T) {
		input := `{"id":"q1","question":"first"}
{"id":"q2","question":"second","format":"number"}
`
		questions, err := ReadQuestions(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, questions, 2)
		assert.Equal(t, agent.Question{ID: "q1", Text: "first"}, questions[0])
		assert.Equal(t, agent.Question{ID: "q2", Text: "second", Format: "number"}, questions[1])
	})

	t.Run("skips blank lines", func(t *testing.T) {
		input := "\n{\"id\":\"q1\",\"question\":\"only\"}\n   \n"
		questions, err := ReadQuestions(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, questions, 1)
		assert.Equal(t, "q1", questions[0].ID)
	})

	t.Run("invalid record reports its line number", func(t *testing.T) {
		input := "{\"id\":\"q1\",\"question\":\"ok\"}\nnot json\n"
		_, err := ReadQuestions(strings.NewReader(input))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	})

	t.Run("empty input yields no questions", func(t *testing.T) {
		questions, err := ReadQuestions(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, questions)
	})
}

func TestWriteResults(t *testing.T) {
	results := []agent.Result{
		{ID: "q1", FinalAnswer: 7, SQL: "", Confidence: 0.9, Explanation: "ok", Citations: []string{"product_policy::chunk0"}},
		{ID: "q2", FinalAnswer: "", Confidence: 0, Explanation: "none", Citations: []string{}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, results))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "q1", first["id"])
	assert.Equal(t, 7.0, first["final_answer"])
	assert.Equal(t, 0.9, first["confidence"])
	assert.Equal(t, []any{"product_policy::chunk0"}, first["citations"])
}

func TestRunnerSequential(t *testing.T) {
	a := newTestAgent(t)
	runner := NewRunner(a)

	questions := []agent.Question{
		{ID: "q2_rag_policy_beverages_return_days", Text: "What is the return window for unopened Beverages?"},
		{ID: "q9_custom", Text: "What is the weather today?"},
	}

	results := runner.Run(context.Background(), questions)
	require.Len(t, results, 2)
	assert.Equal(t, "q2_rag_policy_beverages_return_days", results[0].ID)
	assert.Equal(t, 7, results[0].FinalAnswer)
	assert.Equal(t, "q9_custom", results[1].ID)
	assert.Equal(t, 0.0, results[1].Confidence)
}

func TestRunnerConcurrentPreservesOrder(t *testing.T) {
	a := newTestAgent(t)
	runner := NewRunner(a, WithWorkers(4))

	var questions []agent.Question
	for i := 0; i < 20; i++ {
		questions = append(questions, agent.Question{
			ID:   fmt.Sprintf("q%02d_custom", i),
			Text: "What is the weather today?",
		})
	}

	results := runner.Run(context.Background(), questions)
	require.Len(t, results, 20)
	for i, result := range results {
		assert.Equal(t, questions[i].ID, result.ID)
	}
}

func TestRunnerMatchesSequentialOutput(t *testing.T) {
	a := newTestAgent(t)
	questions := []agent.Question{
		{ID: "q2_rag_policy_beverages_return_days", Text: "What is the return window for unopened Beverages?"},
		{ID: "q9_custom", Text: "What is the weather today?"},
	}

	sequential := NewRunner(a).Run(context.Background(), questions)
	concurrent := NewRunner(a, WithWorkers(4)).Run(context.Background(), questions)
	assert.Equal(t, sequential, concurrent)
}
