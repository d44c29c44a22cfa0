package interproc

import (
	"github.com/rainoftime/crab/internal/cfgbuilder"
	"github.com/rainoftime/crab/internal/ir"
	"github.com/rainoftime/crab/internal/wto"
)

// CallEdge records that Caller contains a call site invoking Callee.
type CallEdge struct {
	Caller, Callee string
}

// Order computes the bottom-up summarization order spec.md §4.8 needs
// ("the call graph supplies SCCs of functions for ordering"): every
// callee of a non-recursive call appears before its caller, by building
// the call graph as an ir.CFG (one label per function, plus a synthetic
// root with an edge to every function so disconnected callers are still
// reachable) and reusing internal/wto's weak topological order the same
// way liveness reuses it for backward dataflow. recursive reports, for
// each function that is the head of a non-trivial call cycle (direct or
// mutual recursion), that its summary must be recomputed under widening
// rather than computed once.
func Order(funcs []string, edges []CallEdge) (order []string, recursive map[string]bool) {
	const root ir.Label = 0
	label := make(map[string]ir.Label, len(funcs))
	name := make(map[ir.Label]string, len(funcs))
	for i, f := range funcs {
		l := ir.Label(i + 1)
		label[f] = l
		name[l] = f
	}

	g := cfgbuilder.New(root)
	for _, f := range funcs {
		g.AddEdge(root, label[f])
	}
	for _, e := range edges {
		from, ok := label[e.Caller]
		if !ok {
			continue
		}
		to, ok := label[e.Callee]
		if !ok {
			continue
		}
		g.AddEdge(from, to)
	}

	recursive = make(map[string]bool)
	for _, h := range wto.Heads(wto.Build(g)) {
		if h == root {
			continue
		}
		recursive[name[h]] = true
	}

	for _, l := range wto.ReverseTopological(g) {
		if l == root {
			continue
		}
		order = append(order, name[l])
	}
	return order, recursive
}
