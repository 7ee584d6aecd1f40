//
// Copyright (C) 2026 The weft authors. All rights reserved.
//
// weft is licensed under the Apache License Version 2.0.
//
//

package graph

// StateGraph provides a fluent interface for building graphs.
// This is the primary public API for creating executable graphs.
//
// Example usage:
//
//	schema := NewSchema().AddChannel("counter", Channel{...})
//	graph, err := NewStateGraph(schema).
//	  AddNode("increment", incrementFunc).
//	  SetEntryPoint("increment").
//	  SetFinishPoint("increment").
//	  Compile()
//
// Builder methods record the first registration error (duplicate node,
// unknown edge source) and Compile reports it; a chain can therefore be
// written without per-call error checks. The compiled Graph is immutable and
// executed with NewExecutor.
type StateGraph struct {
	graph    *Graph
	err      error
	compiled bool
}

// NewStateGraph creates a new graph builder with the given state schema.
func NewStateGraph(schema *Schema) *StateGraph {
	return &StateGraph{
		graph: newGraph(schema),
	}
}

// NodeOption configures a Node.
type NodeOption func(*Node)

// WithName sets the name of the node.
func WithName(name string) NodeOption {
	return func(node *Node) {
		node.Name = name
	}
}

// WithDescription sets the description of the node.
func WithDescription(description string) NodeOption {
	return func(node *Node) {
		node.Description = description
	}
}

// record keeps the first builder error.
func (sg *StateGraph) record(err error) {
	if sg.err == nil && err != nil {
		sg.err = err
	}
}

// AddNode adds a node with the given ID and function.
// The name and description of the node can be set with the options.
func (sg *StateGraph) AddNode(id string, function NodeFunc, opts ...NodeOption) *StateGraph {
	node := &Node{
		ID:       id,
		Name:     id,
		Function: function,
	}
	for _, opt := range opts {
		opt(node)
	}
	sg.record(sg.graph.addNode(node))
	return sg
}

// AddEdge adds a static edge between two nodes.
func (sg *StateGraph) AddEdge(from, to string) *StateGraph {
	sg.record(sg.graph.addEdge(&Edge{From: from, To: to}))
	return sg
}

// AddConditionalEdges adds conditional routing from a node. The condition's
// route key is looked up in pathMap; keys may route to End.
func (sg *StateGraph) AddConditionalEdges(
	from string,
	condition ConditionalFunc,
	pathMap map[string]string,
) *StateGraph {
	sg.record(sg.graph.addConditionalEdge(&ConditionalEdge{
		From:      from,
		Condition: condition,
		PathMap:   pathMap,
	}))
	return sg
}

// SetEntryPoint sets the entry point of the graph.
// This is equivalent to AddEdge(Entry, nodeID).
func (sg *StateGraph) SetEntryPoint(nodeID string) *StateGraph {
	sg.record(sg.graph.setEntryPoint(nodeID))
	if sg.err == nil {
		sg.AddEdge(Entry, nodeID)
	}
	return sg
}

// SetFinishPoint adds an edge from the node to End.
// This is equivalent to AddEdge(nodeID, End).
func (sg *StateGraph) SetFinishPoint(nodeID string) *StateGraph {
	sg.AddEdge(nodeID, End)
	return sg
}

// Compile validates the declarations and returns the immutable graph.
// Validation enforces: an entry point exists, every node is reachable from
// the entry point, each node has exactly one routing mechanism (one static
// edge or one conditional edge set), conditional path maps target known
// nodes, and at least one path reaches End. On failure Compile returns the
// recorded builder error or a ValidationError and no executable graph.
func (sg *StateGraph) Compile() (*Graph, error) {
	if sg.compiled {
		return nil, ErrAlreadyCompiled
	}
	if sg.err != nil {
		return nil, sg.err
	}
	if err := sg.graph.validate(); err != nil {
		return nil, err
	}
	sg.compiled = true
	return sg.graph, nil
}

// MustCompile compiles the graph or panics if invalid.
func (sg *StateGraph) MustCompile() *Graph {
	graph, err := sg.Compile()
	if err != nil {
		panic(err)
	}
	return graph
}
