// Package batch reads newline-delimited question records, runs them through
// the agent and writes newline-delimited result records in input order.
package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/smallnest/retailcopilot/agent"
	"github.com/smallnest/retailcopilot/log"
)

// maxLineSize bounds a single JSONL record.
const maxLineSize = 1 << 20

// ReadQuestions reads one JSON question record per line, skipping blank
// lines and preserving input order
func ReadQuestions(r io.Reader) ([]agent.Question, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var questions []agent.Question
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Bytes()
		if len(bytesTrim(text)) == 0 {
			continue
		}

		var q agent.Question
		if err := json.Unmarshal(text, &q); err != nil {
			return nil, fmt.Errorf("invalid record on line %d: %w", line, err)
		}
		questions = append(questions, q)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch input: %w", err)
	}

	return questions, nil
}

// WriteResults writes one JSON result record per line, in slice order
func WriteResults(w io.Writer, results []agent.Result) error {
	writer := bufio.NewWriter(w)
	encoder := json.NewEncoder(writer)

	for _, result := range results {
		if err := encoder.Encode(result); err != nil {
			return fmt.Errorf("failed to encode result %s: %w", result.ID, err)
		}
	}

	return writer.Flush()
}

// Runner executes a batch of questions against an agent. Questions are
// independent, so the runner can fan them out over a bounded worker pool;
// output order always equals input order.
type Runner struct {
	agent   *agent.Agent
	workers int
}

// RunnerOption configures the Runner
type RunnerOption func(*Runner)

// WithWorkers sets the number of concurrent workers (default 1, sequential)
func WithWorkers(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// NewRunner creates a Runner over the given agent
func NewRunner(a *agent.Agent, opts ...RunnerOption) *Runner {
	r := &Runner{
		agent:   a,
		workers: 1,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run answers every question. Per-question failures never abort the batch:
// a failed question yields a zero-confidence record carrying the error text.
func (r *Runner) Run(ctx context.Context, questions []agent.Question) []agent.Result {
	runID := uuid.NewString()
	log.Info("batch %s: %d questions, %d workers", runID, len(questions), r.workers)

	results := make([]agent.Result, len(questions))

	if r.workers <= 1 {
		for i, q := range questions {
			results[i] = r.answerOne(ctx, q)
		}
		return results
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, q := range questions {
		i, q := i, q
		g.Go(func() error {
			results[i] = r.answerOne(gctx, q)
			return nil
		})
	}
	// Workers never return errors; Wait only joins them.
	_ = g.Wait()

	return results
}

// answerOne runs a single question, converting pipeline errors into a
// low-confidence record
func (r *Runner) answerOne(ctx context.Context, q agent.Question) agent.Result {
	result, err := r.agent.Answer(ctx, q)
	if err != nil {
		log.Error("question %s failed: %v", q.ID, err)
		return agent.Result{
			ID:          q.ID,
			FinalAnswer: "",
			Explanation: err.Error(),
			Citations:   []string{},
		}
	}
	return result
}

// bytesTrim trims ASCII whitespace without allocating
func bytesTrim(b []byte) []byte {
	start := 0
	for start < len(b) && isSpace(b[start]) {
		start++
	}
	end := len(b)
	for end > start && isSpace(b[end-1]) {
		end--
	}
	return b[start:end]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
