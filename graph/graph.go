//
// Copyright (C) 2026 The weft authors. All rights reserved.
//
// weft is licensed under the Apache License Version 2.0.
//
//

// Package graph provides a directed stateful execution graph with
// channel-based state merging, conditional routing and checkpointed
// resumability.
package graph

import (
	"context"
	"sync"
)

// Special node identifiers for graph routing.
const (
	// Entry represents the virtual source node of a graph. It is not
	// user-executable.
	Entry = "__entry__"
	// End represents the virtual sink node. Reaching it ends the run.
	End = "__end__"
)

// NodeFunc is an asynchronous state-transition function executed by a node.
// It receives the full state (read-only by contract) and returns only the
// channel deltas it changes. An empty or nil delta is valid. Expected business
// conditions belong in returned state fields; failures are reported as errors
// and surface as NodeExecutionError.
type NodeFunc func(ctx context.Context, state State) (State, error)

// ConditionalFunc decides the route key for a conditional edge based on the
// current state. It runs synchronously between steps.
type ConditionalFunc func(ctx context.Context, state State) (string, error)

// Node represents a node in the graph.
type Node struct {
	ID          string
	Name        string
	Description string
	Function    NodeFunc
}

// Edge represents a static edge between two nodes.
type Edge struct {
	From string
	To   string
}

// ConditionalEdge represents a conditional edge with routing logic.
// The decision function's result is looked up in PathMap; an unmapped result
// fails the run with RoutingError.
type ConditionalEdge struct {
	From      string
	Condition ConditionalFunc
	PathMap   map[string]string
}

// Graph is the immutable runtime representation produced by
// StateGraph.Compile. Users typically don't create Graph instances directly;
// build one with StateGraph and execute it with an Executor. After compile the
// structure is read-only and safe for concurrent reads across runs.
type Graph struct {
	mu               sync.RWMutex
	schema           *Schema
	nodes            map[string]*Node
	edges            map[string][]*Edge
	conditionalEdges map[string]*ConditionalEdge
	entryPoint       string
}

// newGraph creates a new empty graph with the given state schema.
func newGraph(schema *Schema) *Graph {
	if schema == nil {
		schema = NewSchema()
	}
	return &Graph{
		schema:           schema,
		nodes:            make(map[string]*Node),
		edges:            make(map[string][]*Edge),
		conditionalEdges: make(map[string]*ConditionalEdge),
	}
}

// Node returns a node by ID.
func (g *Graph) Node(id string) (*Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	node, exists := g.nodes[id]
	return node, exists
}

// Nodes returns all registered node IDs.
func (g *Graph) Nodes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	return ids
}

// Edges returns all outgoing static edges from a node.
func (g *Graph) Edges(nodeID string) []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edges[nodeID]
}

// ConditionalEdge returns the conditional edge from a node.
func (g *Graph) ConditionalEdge(nodeID string) (*ConditionalEdge, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	edge, exists := g.conditionalEdges[nodeID]
	return edge, exists
}

// EntryPoint returns the entry point node ID.
func (g *Graph) EntryPoint() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.entryPoint
}

// Schema returns the state schema.
func (g *Graph) Schema() *Schema {
	return g.schema
}

// addNode adds a node to the graph.
func (g *Graph) addNode(node *Node) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if node.ID == "" {
		return &DuplicateNodeError{NodeID: node.ID, Reason: "node ID cannot be empty"}
	}
	if node.ID == Entry || node.ID == End {
		return &DuplicateNodeError{NodeID: node.ID, Reason: "node ID is reserved"}
	}
	if _, exists := g.nodes[node.ID]; exists {
		return &DuplicateNodeError{NodeID: node.ID}
	}
	g.nodes[node.ID] = node
	return nil
}

// addEdge adds a static edge to the graph.
func (g *Graph) addEdge(edge *Edge) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if edge.From == "" || edge.To == "" {
		return &UnknownNodeError{NodeID: ""}
	}
	if edge.From != Entry {
		if _, exists := g.nodes[edge.From]; !exists {
			return &UnknownNodeError{NodeID: edge.From}
		}
	}
	if edge.To != End {
		if _, exists := g.nodes[edge.To]; !exists {
			return &UnknownNodeError{NodeID: edge.To}
		}
	}
	g.edges[edge.From] = append(g.edges[edge.From], edge)
	return nil
}

// addConditionalEdge adds a conditional edge to the graph.
// Path map targets are validated at compile time so that routes to nodes
// registered later still work.
func (g *Graph) addConditionalEdge(condEdge *ConditionalEdge) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if condEdge.From == "" {
		return &UnknownNodeError{NodeID: ""}
	}
	if condEdge.From != Entry {
		if _, exists := g.nodes[condEdge.From]; !exists {
			return &UnknownNodeError{NodeID: condEdge.From}
		}
	}
	g.conditionalEdges[condEdge.From] = condEdge
	return nil
}

// setEntryPoint sets the entry point of the graph.
func (g *Graph) setEntryPoint(nodeID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if nodeID != "" {
		if _, exists := g.nodes[nodeID]; !exists {
			return &UnknownNodeError{NodeID: nodeID}
		}
	}
	g.entryPoint = nodeID
	return nil
}

// successors returns every possible target of a node: static edge targets
// plus conditional path map targets.
func (g *Graph) successors(nodeID string) []string {
	var out []string
	for _, e := range g.edges[nodeID] {
		out = append(out, e.To)
	}
	if ce, ok := g.conditionalEdges[nodeID]; ok {
		for _, to := range ce.PathMap {
			out = append(out, to)
		}
	}
	return out
}

// validate validates the graph structure. See StateGraph.Compile for the
// rules it enforces.
func (g *Graph) validate() error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.entryPoint == "" {
		return &ValidationError{Message: "graph must have an entry point"}
	}
	if _, exists := g.nodes[g.entryPoint]; !exists {
		return &ValidationError{Message: "entry point node " + g.entryPoint + " does not exist"}
	}
	// A node routes through exactly one mechanism: a single static edge or
	// one conditional edge set.
	for id := range g.nodes {
		static := g.edges[id]
		_, hasCond := g.conditionalEdges[id]
		if len(static) > 0 && hasCond {
			return &ValidationError{Message: "node " + id + " has both static and conditional outgoing edges"}
		}
		if len(static) > 1 {
			return &ValidationError{Message: "node " + id + " has more than one outgoing static edge"}
		}
		if len(static) == 0 && !hasCond {
			return &ValidationError{Message: "node " + id + " has no outgoing edge"}
		}
	}
	// Conditional path maps may only target registered nodes or End.
	for from, ce := range g.conditionalEdges {
		for key, to := range ce.PathMap {
			if to == End {
				continue
			}
			if _, ok := g.nodes[to]; !ok {
				return &ValidationError{Message: "conditional edge from " + from +
					" routes key " + key + " to unknown node " + to}
			}
		}
	}
	// Every node must be reachable from Entry and End must be reachable.
	reached := map[string]bool{}
	queue := []string{Entry}
	endReached := false
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.successors(cur) {
			if next == End {
				endReached = true
				continue
			}
			if !reached[next] {
				reached[next] = true
				queue = append(queue, next)
			}
		}
	}
	for id := range g.nodes {
		if !reached[id] {
			return &ValidationError{Message: "node " + id + " is not reachable from the entry point"}
		}
	}
	if !endReached {
		return &ValidationError{Message: "no path reaches the end marker"}
	}
	return nil
}
