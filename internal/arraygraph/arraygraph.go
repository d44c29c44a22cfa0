package arraygraph

import (
	"github.com/rainoftime/crab/internal/dbm"
	"github.com/rainoftime/crab/internal/interval"
	"github.com/rainoftime/crab/internal/ir"
	"github.com/rainoftime/crab/internal/lattice"
	"github.com/rainoftime/crab/internal/number"
	"github.com/rainoftime/crab/internal/separate"
)

// ArrayGraph is the reduced product of a scalar numerical domain S and a
// weighted array-index graph G (spec.md §4.6). Each registered index
// variable i carries a successor i+1, enforced as an exact S constraint
// and a bottom edge (i+1, i) in G.
type ArrayGraph[S lattice.Numerical[S], W lattice.Domain[W]] struct {
	bot  bool
	s    S
	g    graph[W]
	succ map[ir.Var]ir.Var
}

// Top returns the unconstrained ArrayGraph: no indices registered, no
// edges, and topS as the scalar state.
func Top[S lattice.Numerical[S], W lattice.Domain[W]](topS S, topW, botW W) ArrayGraph[S, W] {
	return ArrayGraph[S, W]{s: topS, g: newGraph(topW, botW), succ: map[ir.Var]ir.Var{}}
}

// Bottom returns the infeasible ArrayGraph.
func Bottom[S lattice.Numerical[S], W lattice.Domain[W]](topS S, topW, botW W) ArrayGraph[S, W] {
	return ArrayGraph[S, W]{bot: true, s: topS, g: newGraph(topW, botW), succ: map[ir.Var]ir.Var{}}
}

func (ag ArrayGraph[S, W]) IsBottom() bool { return ag.bot || ag.s.IsBottom() }

func (ag ArrayGraph[S, W]) IsTop() bool {
	return !ag.bot && ag.s.IsTop() && len(ag.g.edges) == 0
}

func (ag ArrayGraph[S, W]) Leq(other ArrayGraph[S, W]) bool {
	if ag.IsBottom() {
		return true
	}
	if other.IsBottom() {
		return false
	}
	return ag.s.Leq(other.s) && ag.g.leq(other.g)
}

func (ag ArrayGraph[S, W]) Join(other ArrayGraph[S, W]) ArrayGraph[S, W] {
	if ag.IsBottom() {
		return other
	}
	if other.IsBottom() {
		return ag
	}
	return ArrayGraph[S, W]{s: ag.s.Join(other.s), g: ag.g.join(other.g), succ: mergeSucc(ag.succ, other.succ)}
}

func (ag ArrayGraph[S, W]) Meet(other ArrayGraph[S, W]) ArrayGraph[S, W] {
	if ag.IsBottom() || other.IsBottom() {
		return Bottom(ag.s, ag.g.topW, ag.g.botW)
	}
	return ArrayGraph[S, W]{s: ag.s.Meet(other.s), g: ag.g.meet(other.g), succ: mergeSucc(ag.succ, other.succ)}
}

func (ag ArrayGraph[S, W]) Widen(other ArrayGraph[S, W]) ArrayGraph[S, W] {
	if ag.IsBottom() {
		return other
	}
	if other.IsBottom() {
		return ag
	}
	return ArrayGraph[S, W]{s: ag.s.Widen(other.s), g: ag.g.widen(other.g), succ: mergeSucc(ag.succ, other.succ)}
}

func (ag ArrayGraph[S, W]) Narrow(other ArrayGraph[S, W]) ArrayGraph[S, W] {
	if ag.IsBottom() || other.IsBottom() {
		return Bottom(ag.s, ag.g.topW, ag.g.botW)
	}
	return ArrayGraph[S, W]{s: ag.s.Narrow(other.s), g: ag.g.narrow(other.g), succ: mergeSucc(ag.succ, other.succ)}
}

// Normalize canonicalizes G and normalizes S.
func (ag ArrayGraph[S, W]) Normalize() ArrayGraph[S, W] {
	if ag.IsBottom() {
		return ag
	}
	return ArrayGraph[S, W]{s: ag.s.Normalize(), g: ag.g.canonicalize(), succ: ag.succ}
}

func (ag ArrayGraph[S, W]) String() string {
	if ag.IsBottom() {
		return "_|_"
	}
	return ag.s.String() + " * " + ag.g.String()
}

// Assign, Forget, AddConstraints, Apply, ApplyConst and At pass straight
// through to the scalar sub-domain, letting ArrayGraph stand in for S
// itself on every statement that doesn't touch the index graph.
func (ag ArrayGraph[S, W]) Assign(x ir.Var, e ir.LinExpr) ArrayGraph[S, W] {
	out := ag
	out.s = ag.s.Assign(x, e)
	return out
}

// Forget drops x from S and resets every graph edge with x as an
// endpoint to top, since nothing is known any longer about the segment
// such an edge describes.
func (ag ArrayGraph[S, W]) Forget(x ir.Var) ArrayGraph[S, W] {
	out := ag
	out.s = ag.s.Forget(x)
	out.g = ag.g.clone()
	for k := range out.g.edges {
		if k.from == x || k.to == x {
			delete(out.g.edges, k)
		}
	}
	return out
}

func (ag ArrayGraph[S, W]) AddConstraints(cs []ir.LinConstraint) ArrayGraph[S, W] {
	out := ag
	out.s = ag.s.AddConstraints(cs)
	return out
}

func (ag ArrayGraph[S, W]) Apply(op string, dst, x, y ir.Var) ArrayGraph[S, W] {
	out := ag
	out.s = ag.s.Apply(op, dst, x, y)
	return out
}

func (ag ArrayGraph[S, W]) ApplyConst(op string, dst, x ir.Var, k int64) ArrayGraph[S, W] {
	out := ag
	out.s = ag.s.ApplyConst(op, dst, x, k)
	return out
}

func (ag ArrayGraph[S, W]) At(x ir.Var) lattice.Range { return ag.s.At(x) }

var _ lattice.Domain[ArrayGraph[separate.NonRelational, interval.Interval]] = ArrayGraph[separate.NonRelational, interval.Interval]{}
var _ lattice.Numerical[ArrayGraph[separate.NonRelational, interval.Interval]] = ArrayGraph[separate.NonRelational, interval.Interval]{}

func mergeSucc(a, b map[ir.Var]ir.Var) map[ir.Var]ir.Var {
	out := make(map[ir.Var]ir.Var, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// AddIndex registers i as an array-index variable with successor succ,
// asserting succ = i + 1 in S and a bottom edge (succ, i) in G.
func (ag ArrayGraph[S, W]) AddIndex(i, succ ir.Var) ArrayGraph[S, W] {
	if ag.IsBottom() {
		return ag
	}
	out := ag
	out.s = out.s.Assign(succ, ir.VarExpr(i).Add(ir.Const(1)))
	out.g = out.g.clone()
	out.g.addVertex(i)
	out.g.addVertex(succ)
	out.g.set(succ, i, out.g.botW)
	out.succ = make(map[ir.Var]ir.Var, len(ag.succ)+1)
	for k, v := range ag.succ {
		out.succ[k] = v
	}
	out.succ[i] = succ
	return out
}

// Load returns the weight on edge (i, i+1), i.e. the abstract value of
// a[i].
func (ag ArrayGraph[S, W]) Load(i ir.Var) W {
	succ, ok := ag.succ[i]
	if !ok {
		return ag.g.topW
	}
	return ag.g.get(i, succ)
}

// Store writes v to a[i]: strong update on edge (i, i+1), weak update
// (join) on every edge (p, q) that S proves strictly contains [i, i+1),
// then reduce and canonicalize, per spec.md §4.6.
func (ag ArrayGraph[S, W]) Store(i ir.Var, v W) ArrayGraph[S, W] {
	if ag.IsBottom() {
		return ag
	}
	succI, ok := ag.succ[i]
	if !ok {
		return ag
	}
	out := ag
	out.g = out.g.clone()
	out.g.set(i, succI, v)

	for _, p := range out.g.verts {
		for _, q := range out.g.verts {
			if p == q || (p == i && q == succI) {
				continue
			}
			if !out.entails(p, i) || !out.entails(succI, q) || !out.strictlyLess(p, q) {
				continue
			}
			out.g.set(p, q, out.g.get(p, q).Join(v))
		}
	}
	return out.reduce().Normalize()
}

// reduce drops any edge (p, q) whose feasibility S refutes outright.
func (ag ArrayGraph[S, W]) reduce() ArrayGraph[S, W] {
	out := ag
	out.g = out.g.clone()
	for _, p := range out.g.verts {
		for _, q := range out.g.verts {
			if p == q {
				continue
			}
			if equalW(out.g.get(p, q), out.g.topW) {
				continue
			}
			if !out.strictlyLess(p, q) {
				out.g.set(p, q, out.g.topW)
			}
		}
	}
	return out
}

// entails reports whether S proves p <= q. When S is a dbm.DBM this reads
// the difference bound directly instead of going through AddConstraints.
func (ag ArrayGraph[S, W]) entails(p, q ir.Var) bool {
	if b, ok := dbmDirectBound(ag.s, p, q); ok && b.LessEq(number.Zero) {
		return true
	}
	c := ir.LinConstraint{Expr: ir.VarExpr(p).Sub(ir.VarExpr(q)), Op: ir.LE}
	return ag.s.AddConstraints([]ir.LinConstraint{c.Negate()}).IsBottom()
}

// strictlyLess reports whether S finds p < q feasible.
func (ag ArrayGraph[S, W]) strictlyLess(p, q ir.Var) bool {
	if b, ok := dbmDirectBound(ag.s, q, p); ok && b.LessEq(number.Zero) {
		return false
	}
	c := ir.LinConstraint{Expr: ir.VarExpr(p).Sub(ir.VarExpr(q)).Add(ir.Const(1)), Op: ir.LE}
	return !ag.s.AddConstraints([]ir.LinConstraint{c}).IsBottom()
}

// dbmDirectBound reads the cached difference bound p - q <= c straight out
// of s's sparse matrix when s happens to be a dbm.DBM, skipping the
// general AddConstraints round trip used by the fallback path.
func dbmDirectBound[S lattice.Numerical[S]](s S, p, q ir.Var) (number.Bound, bool) {
	d, ok := any(s).(dbm.DBM)
	if !ok {
		return number.Bound{}, false
	}
	b := d.Get(p, q)
	if b.IsPosInf() {
		return number.Bound{}, false
	}
	return b, true
}
