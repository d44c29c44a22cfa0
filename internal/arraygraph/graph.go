package arraygraph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rainoftime/crab/internal/ir"
	"github.com/rainoftime/crab/internal/lattice"
)

type edgeKey struct{ from, to ir.Var }

// graph is the weighted array-index graph G: vertices are index variables
// and their successor companions, edges carry a weight drawn from a
// generic lattice W. A missing edge denotes topW (no known relation); the
// diagonal is always botW (the range [i, i) is trivially empty).
type graph[W lattice.Domain[W]] struct {
	topW, botW W
	verts      []ir.Var
	vertSet    map[ir.Var]bool
	edges      map[edgeKey]W
}

func newGraph[W lattice.Domain[W]](topW, botW W) graph[W] {
	return graph[W]{topW: topW, botW: botW, vertSet: map[ir.Var]bool{}, edges: map[edgeKey]W{}}
}

func (g graph[W]) clone() graph[W] {
	out := graph[W]{
		topW:    g.topW,
		botW:    g.botW,
		verts:   append([]ir.Var{}, g.verts...),
		vertSet: make(map[ir.Var]bool, len(g.vertSet)),
		edges:   make(map[edgeKey]W, len(g.edges)),
	}
	for k, v := range g.vertSet {
		out.vertSet[k] = v
	}
	for k, v := range g.edges {
		out.edges[k] = v
	}
	return out
}

func (g *graph[W]) addVertex(v ir.Var) {
	if g.vertSet[v] {
		return
	}
	g.vertSet[v] = true
	g.verts = append(g.verts, v)
}

func equalW[W lattice.Domain[W]](a, b W) bool { return a.Leq(b) && b.Leq(a) }

func (g graph[W]) get(i, j ir.Var) W {
	if i == j {
		return g.botW
	}
	if w, ok := g.edges[edgeKey{i, j}]; ok {
		return w
	}
	return g.topW
}

// set records weight w on edge i->j, dropping the entry back to implicit
// top (removing it from the sparse map) when w is top.
func (g *graph[W]) set(i, j ir.Var, w W) {
	if i == j {
		return
	}
	if equalW(w, g.topW) {
		delete(g.edges, edgeKey{i, j})
		return
	}
	g.edges[edgeKey{i, j}] = w
}

func unionVerts[W lattice.Domain[W]](a, b graph[W]) []ir.Var {
	seen := make(map[ir.Var]bool, len(a.verts)+len(b.verts))
	var out []ir.Var
	for _, v := range a.verts {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, v := range b.verts {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func (g graph[W]) leq(other graph[W]) bool {
	for _, i := range unionVerts(g, other) {
		for _, j := range unionVerts(g, other) {
			if i == j {
				continue
			}
			if !g.get(i, j).Leq(other.get(i, j)) {
				return false
			}
		}
	}
	return true
}

func (g graph[W]) pointwise(other graph[W], combine func(a, b W) W) graph[W] {
	out := newGraph(g.topW, g.botW)
	verts := unionVerts(g, other)
	for _, v := range verts {
		out.addVertex(v)
	}
	for _, i := range verts {
		for _, j := range verts {
			if i == j {
				continue
			}
			out.set(i, j, combine(g.get(i, j), other.get(i, j)))
		}
	}
	return out
}

func (g graph[W]) join(other graph[W]) graph[W] {
	return g.pointwise(other, func(a, b W) W { return a.Join(b) })
}

func (g graph[W]) meet(other graph[W]) graph[W] {
	return g.pointwise(other, func(a, b W) W { return a.Meet(b) }).canonicalize()
}

// widen drops an edge to top the moment it grows past what the previous
// iteration established, the graph analogue of dbm.DBM.Widen.
func (g graph[W]) widen(other graph[W]) graph[W] {
	return g.pointwise(other, func(a, b W) W {
		if !b.Leq(a) {
			return g.topW
		}
		return a
	})
}

// narrow recovers precision only on edges widening left at top.
func (g graph[W]) narrow(other graph[W]) graph[W] {
	return g.pointwise(other, func(a, b W) W {
		if equalW(a, g.topW) {
			return b
		}
		return a
	})
}

// canonicalize enforces transitive tightening (spec.md §4.6): for all
// i, j, k, weight(i,j) must be <= weight(i,k) join weight(k,j). A single
// pass suffices when W is distributive; this iterates until stable
// (bounded by the vertex count) to remain correct for non-distributive
// weight lattices too.
func (g graph[W]) canonicalize() graph[W] {
	out := g.clone()
	verts := out.verts
	for round := 0; round <= len(verts); round++ {
		changed := false
		for _, k := range verts {
			for _, i := range verts {
				if i == k {
					continue
				}
				wik := out.get(i, k)
				if equalW(wik, out.topW) {
					continue
				}
				for _, j := range verts {
					if j == k || j == i {
						continue
					}
					wkj := out.get(k, j)
					if equalW(wkj, out.topW) {
						continue
					}
					cand := wik.Join(wkj)
					cur := out.get(i, j)
					merged := cur.Meet(cand)
					if !equalW(merged, cur) {
						out.set(i, j, merged)
						changed = true
					}
				}
			}
		}
		if !changed {
			break
		}
	}
	return out
}

func (g graph[W]) String() string {
	var edges []string
	for _, i := range g.verts {
		for _, j := range g.verts {
			if i == j {
				continue
			}
			w := g.get(i, j)
			if equalW(w, g.topW) {
				continue
			}
			edges = append(edges, fmt.Sprintf("%s -> %s: %s", i, j, stringerOrDefault(w)))
		}
	}
	sort.Strings(edges)
	return "{" + strings.Join(edges, ", ") + "}"
}

func stringerOrDefault[W lattice.Domain[W]](w W) string {
	if s, ok := any(w).(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", w)
}
