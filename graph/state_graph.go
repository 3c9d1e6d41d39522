package graph

import (
	"context"
	"fmt"
)

// StateGraph is a directed graph of named processing stages through which a
// single state value flows. Execution is strictly sequential: one node runs
// at a time, starting at the entry point and following static or conditional
// edges until END is reached.
type StateGraph struct {
	// nodes is a map of node names to their corresponding Node objects
	nodes map[string]Node

	// edges is a slice of Edge objects representing the connections between nodes
	edges []Edge

	// conditionalEdges contains a map between "From" node, while "To" node is derived based on the condition
	conditionalEdges map[string]func(ctx context.Context, state any) string

	// entryPoint is the name of the entry point node in the graph
	entryPoint string

	// schema defines the state structure and update logic
	schema StateSchema
}

// NewStateGraph creates a new instance of StateGraph
func NewStateGraph() *StateGraph {
	return &StateGraph{
		nodes:            make(map[string]Node),
		conditionalEdges: make(map[string]func(ctx context.Context, state any) string),
	}
}

// AddNode adds a new node to the state graph with the given name, description and function
func (g *StateGraph) AddNode(name string, description string, fn func(ctx context.Context, state any) (any, error)) {
	g.nodes[name] = Node{
		Name:        name,
		Description: description,
		Function:    fn,
	}
}

// AddEdge adds a new edge to the state graph between the "from" and "to" nodes
func (g *StateGraph) AddEdge(from, to string) {
	g.edges = append(g.edges, Edge{
		From: from,
		To:   to,
	})
}

// AddConditionalEdge adds a conditional edge where the target node is determined at runtime
func (g *StateGraph) AddConditionalEdge(from string, condition func(ctx context.Context, state any) string) {
	g.conditionalEdges[from] = condition
}

// SetEntryPoint sets the entry point node name for the state graph
func (g *StateGraph) SetEntryPoint(name string) {
	g.entryPoint = name
}

// SetSchema sets the state schema for the graph
func (g *StateGraph) SetSchema(schema StateSchema) {
	g.schema = schema
}

// Runnable represents a compiled state graph that can be invoked
type Runnable struct {
	graph *StateGraph
}

// Compile compiles the state graph and returns a Runnable instance
func (g *StateGraph) Compile() (*Runnable, error) {
	if g.entryPoint == "" {
		return nil, ErrEntryPointNotSet
	}

	return &Runnable{
		graph: g,
	}, nil
}

// Invoke executes the compiled state graph with the given input state.
// The state returned by each node is folded into the current state via the
// schema, or replaces it when no schema is set.
func (r *Runnable) Invoke(ctx context.Context, initialState any) (any, error) {
	state := initialState
	current := r.graph.entryPoint

	for current != END {
		node, ok := r.graph.nodes[current]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, current)
		}

		result, err := node.Function(ctx, state)
		if err != nil {
			return nil, fmt.Errorf("error in node %s: %w", current, err)
		}

		if r.graph.schema != nil {
			state, err = r.graph.schema.Update(state, result)
			if err != nil {
				return nil, fmt.Errorf("schema update failed: %w", err)
			}
		} else {
			state = result
		}

		current, err = r.nextNode(ctx, current, state)
		if err != nil {
			return nil, err
		}
	}

	return state, nil
}

// nextNode determines the next node to execute based on conditional or static edges
func (r *Runnable) nextNode(ctx context.Context, current string, state any) (string, error) {
	if condition, ok := r.graph.conditionalEdges[current]; ok {
		next := condition(ctx, state)
		if next == "" {
			return "", fmt.Errorf("conditional edge returned empty next node from %s", current)
		}
		return next, nil
	}

	for _, edge := range r.graph.edges {
		if edge.From == current {
			return edge.To, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrNoOutgoingEdge, current)
}
