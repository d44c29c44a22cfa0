package wto

import "github.com/rainoftime/crab/internal/ir"

// SCCs returns the strongly connected components of cfg reachable from
// its entry, in the topological order of their condensation graph
// (spec.md §4.10). A single-vertex component with no self-loop is
// returned as a size-1 SCC.
func SCCs(cfg ir.CFG) [][]ir.Label {
	top := Build(cfg)
	out := make([][]ir.Label, 0, len(top))
	for _, e := range top {
		if e.IsSCC {
			members := append([]ir.Label{e.Head}, Flatten(e.Nested)...)
			out = append(out, members)
		} else {
			out = append(out, []ir.Label{e.Head})
		}
	}
	return out
}

// ReverseTopological enumerates every reachable label with all members
// of a later SCC in the condensation preceding all members of an
// earlier one, the order internal/liveness iterates in. Order of members
// within one SCC is stable but otherwise unspecified, per spec.md §4.10.
func ReverseTopological(cfg ir.CFG) []ir.Label {
	sccs := SCCs(cfg)
	var out []ir.Label
	for i := len(sccs) - 1; i >= 0; i-- {
		out = append(out, sccs[i]...)
	}
	return out
}
