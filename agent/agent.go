package agent

import (
	"context"
	"fmt"

	"github.com/smallnest/retailcopilot/graph"
	"github.com/smallnest/retailcopilot/log"
	"github.com/smallnest/retailcopilot/rag"
	"github.com/smallnest/retailcopilot/rag/retriever"
	"github.com/smallnest/retailcopilot/rag/splitter"
	"github.com/smallnest/retailcopilot/store"
)

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 5

// pipelineState flows through the question-answering graph. Every field is
// written by exactly one node; questions never share state beyond the
// read-only chunk index and the store connection.
type pipelineState struct {
	question    Question
	route       RouteDecision
	retrieved   []rag.SearchResult
	constraints Constraints
	sql         string
	exec        ExecResult
	answer      Answer
}

// Agent answers analytical questions by routing each one through document
// retrieval, structured aggregation, or both.
type Agent struct {
	store     store.Store
	retriever rag.Retriever
	schema    map[string][]string

	router   *Router
	planner  *Planner
	sqlgen   *SQLGenerator
	executor *Executor
	synth    *Synthesizer

	topK     int
	runnable *graph.Runnable
}

// Option configures the Agent
type Option func(*Agent)

// WithTopK sets the number of chunks retrieved per question
func WithTopK(k int) Option {
	return func(a *Agent) {
		if k > 0 {
			a.topK = k
		}
	}
}

// WithRetriever replaces the default BM25 retriever
func WithRetriever(r rag.Retriever) Option {
	return func(a *Agent) {
		a.retriever = r
	}
}

// New creates an Agent over the given store and document corpus. The chunk
// index is built once here and is read-only afterwards.
func New(ctx context.Context, st store.Store, corpus []rag.Document, opts ...Option) (*Agent, error) {
	docs := make(map[string]string, len(corpus))
	for _, doc := range corpus {
		docs[doc.Source] = doc.Content
	}

	a := &Agent{
		store:    st,
		router:   NewRouter(),
		planner:  NewPlanner(docs),
		sqlgen:   NewSQLGenerator(),
		executor: NewExecutor(st),
		synth:    NewSynthesizer(docs),
		topK:     DefaultTopK,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.retriever == nil {
		chunks := splitter.NewParagraphTokenSplitter().SplitDocuments(corpus)
		a.retriever = retriever.NewBM25Retriever(chunks)
		log.Debug("indexed %d chunks from %d documents", len(chunks), len(corpus))
	}

	schema, err := st.Schema(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read store schema: %w", err)
	}
	a.schema = schema
	log.Debug("store exposes %d tables", len(schema))

	runnable, err := a.buildPipeline()
	if err != nil {
		return nil, err
	}
	a.runnable = runnable

	return a, nil
}

// Schema returns the relational store schema captured at startup
func (a *Agent) Schema() map[string][]string {
	return a.schema
}

// buildPipeline wires the six pipeline stages into a state graph. Document-
// only questions skip query generation and execution entirely.
func (a *Agent) buildPipeline() (*graph.Runnable, error) {
	g := graph.NewStateGraph()

	g.AddNode("route", "Route classification", a.routeNode)
	g.AddNode("retrieve", "Document retrieval", a.retrieveNode)
	g.AddNode("plan", "Constraint planning", a.planNode)
	g.AddNode("generate", "SQL synthesis", a.generateNode)
	g.AddNode("execute", "Query execution with repair", a.executeNode)
	g.AddNode("synthesize", "Answer synthesis", a.synthesizeNode)

	g.SetEntryPoint("route")
	g.AddEdge("route", "retrieve")
	g.AddEdge("retrieve", "plan")
	g.AddConditionalEdge("plan", func(ctx context.Context, state any) string {
		if state.(pipelineState).route.Route == RouteDocs {
			return "synthesize"
		}
		return "generate"
	})
	g.AddEdge("generate", "execute")
	g.AddEdge("execute", "synthesize")
	g.AddEdge("synthesize", graph.END)

	return g.Compile()
}

// Answer runs one question through the full pipeline and assembles the
// output record
func (a *Agent) Answer(ctx context.Context, question Question) (Result, error) {
	final, err := a.runnable.Invoke(ctx, pipelineState{question: question})
	if err != nil {
		return Result{}, err
	}

	state := final.(pipelineState)
	return Result{
		ID:          question.ID,
		FinalAnswer: state.answer.Final,
		SQL:         state.sql,
		Confidence:  state.answer.Confidence,
		Explanation: state.answer.Explanation,
		Citations:   state.answer.Citations,
	}, nil
}

func (a *Agent) routeNode(ctx context.Context, state any) (any, error) {
	s := state.(pipelineState)
	s.route = a.router.Classify(s.question.Text, s.question.ID)
	log.Debug("question %s routed to %s (%s)", s.question.ID, s.route.Route, s.route.Reason)
	return s, nil
}

func (a *Agent) retrieveNode(ctx context.Context, state any) (any, error) {
	s := state.(pipelineState)
	s.retrieved = a.retriever.Retrieve(s.question.Text, a.topK)
	return s, nil
}

func (a *Agent) planNode(ctx context.Context, state any) (any, error) {
	s := state.(pipelineState)
	s.constraints = a.planner.Plan(s.question.Text, s.retrieved)
	return s, nil
}

func (a *Agent) generateNode(ctx context.Context, state any) (any, error) {
	s := state.(pipelineState)
	s.sql = a.sqlgen.Generate(s.question.Text, s.constraints)
	return s, nil
}

func (a *Agent) executeNode(ctx context.Context, state any) (any, error) {
	s := state.(pipelineState)
	if s.sql == "" {
		s.exec = ExecResult{Err: "no-query-generated"}
		return s, nil
	}
	s.exec = a.executor.ExecuteWithRepair(ctx, s.sql)
	return s, nil
}

func (a *Agent) synthesizeNode(ctx context.Context, state any) (any, error) {
	s := state.(pipelineState)
	s.answer = a.synth.Synthesize(s.question.ID, s.route.Route, s.exec, s.constraints, s.retrieved, s.sql)
	return s, nil
}
