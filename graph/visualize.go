//
// Copyright (C) 2026 The weft authors. All rights reserved.
//
// weft is licensed under the Apache License Version 2.0.
//
//

package graph

import (
	"fmt"
	"sort"
	"strings"
)

// Layout directions for Graphviz output.
const (
	// RankDirLR sets a left-to-right layout.
	RankDirLR = "LR"
	// RankDirTB sets a top-to-bottom layout.
	RankDirTB = "TB"
)

const (
	shapeBox  = "box"
	shapeOval = "oval"

	colorEntryFill   = "#e1f5e1"
	colorEntryBorder = "#4caf50"
	colorEndFill     = "#ffe1e1"
	colorEndBorder   = "#f44336"
	colorNodeFill    = "#e3f2fd"
	colorNodeBorder  = "#2196f3"

	colorConditionalEdge = "#999999"
)

// VizOptions configures DOT export.
type VizOptions struct {
	// RankDir sets the graph direction: "LR" or "TB".
	RankDir string
	// IncludeEntryEnd toggles the virtual Entry/End nodes.
	IncludeEntryEnd bool
	// GraphLabel optionally labels the whole graph.
	GraphLabel string
}

// VizOption mutates VizOptions.
type VizOption func(*VizOptions)

// WithRankDir sets the layout direction.
func WithRankDir(dir string) VizOption {
	return func(o *VizOptions) {
		o.RankDir = dir
	}
}

// WithGraphLabel labels the exported graph.
func WithGraphLabel(label string) VizOption {
	return func(o *VizOptions) {
		o.GraphLabel = label
	}
}

// WithoutEntryEnd hides the virtual Entry/End nodes.
func WithoutEntryEnd() VizOption {
	return func(o *VizOptions) {
		o.IncludeEntryEnd = false
	}
}

// DOT renders the compiled graph in Graphviz DOT format. Static edges are
// solid; conditional edges are dashed and labeled with their route key.
func (g *Graph) DOT(opts ...VizOption) string {
	options := &VizOptions{
		RankDir:         RankDirLR,
		IncludeEntryEnd: true,
	}
	for _, opt := range opts {
		opt(options)
	}

	var b strings.Builder
	b.WriteString("digraph weft {\n")
	fmt.Fprintf(&b, "  rankdir=%s;\n", options.RankDir)
	if options.GraphLabel != "" {
		fmt.Fprintf(&b, "  label=%q;\n", options.GraphLabel)
	}
	b.WriteString("  node [fontname=\"Helvetica\"];\n")

	if options.IncludeEntryEnd {
		fmt.Fprintf(&b, "  %q [shape=%s, style=filled, fillcolor=%q, color=%q, label=\"entry\"];\n",
			Entry, shapeOval, colorEntryFill, colorEntryBorder)
		fmt.Fprintf(&b, "  %q [shape=%s, style=filled, fillcolor=%q, color=%q, label=\"end\"];\n",
			End, shapeOval, colorEndFill, colorEndBorder)
	}

	ids := g.Nodes()
	sort.Strings(ids)
	for _, id := range ids {
		node, _ := g.Node(id)
		label := node.Name
		if label == "" {
			label = node.ID
		}
		fmt.Fprintf(&b, "  %q [shape=%s, style=filled, fillcolor=%q, color=%q, label=%q];\n",
			id, shapeBox, colorNodeFill, colorNodeBorder, label)
	}

	sources := append([]string{Entry}, ids...)
	for _, from := range sources {
		for _, edge := range g.Edges(from) {
			if !options.IncludeEntryEnd && (edge.From == Entry || edge.To == End) {
				continue
			}
			fmt.Fprintf(&b, "  %q -> %q;\n", edge.From, edge.To)
		}
		if condEdge, ok := g.ConditionalEdge(from); ok {
			keys := make([]string, 0, len(condEdge.PathMap))
			for key := range condEdge.PathMap {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				to := condEdge.PathMap[key]
				if !options.IncludeEntryEnd && (from == Entry || to == End) {
					continue
				}
				fmt.Fprintf(&b, "  %q -> %q [style=dashed, color=%q, label=%q];\n",
					from, to, colorConditionalEdge, key)
			}
		}
	}
	b.WriteString("}\n")
	return b.String()
}
