package arraysmash

import (
	"fmt"

	"github.com/rainoftime/crab/internal/ir"
	"github.com/rainoftime/crab/internal/lattice"
	"github.com/rainoftime/crab/internal/separate"
)

// Smash lifts a scalar numerical domain S into an array abstraction: every
// element of a registered array shares one symbolic cell variable
// (spec.md §4.7).
type Smash[S lattice.Numerical[S]] struct {
	s     S
	cells map[ir.Var]ir.Var // array var -> its cell variable
	seq   int
}

// Top returns the Smash state with no arrays registered and topS as the
// scalar state.
func Top[S lattice.Numerical[S]](topS S) Smash[S] {
	return Smash[S]{s: topS, cells: map[ir.Var]ir.Var{}}
}

func (sm Smash[S]) IsBottom() bool { return sm.s.IsBottom() }
func (sm Smash[S]) IsTop() bool    { return sm.s.IsTop() }

func (sm Smash[S]) Leq(other Smash[S]) bool { return sm.s.Leq(other.s) }

func (sm Smash[S]) Join(other Smash[S]) Smash[S] {
	return Smash[S]{s: sm.s.Join(other.s), cells: mergeCells(sm.cells, other.cells)}
}

func (sm Smash[S]) Meet(other Smash[S]) Smash[S] {
	return Smash[S]{s: sm.s.Meet(other.s), cells: mergeCells(sm.cells, other.cells)}
}

func (sm Smash[S]) Widen(other Smash[S]) Smash[S] {
	return Smash[S]{s: sm.s.Widen(other.s), cells: mergeCells(sm.cells, other.cells)}
}

func (sm Smash[S]) Narrow(other Smash[S]) Smash[S] {
	return Smash[S]{s: sm.s.Narrow(other.s), cells: mergeCells(sm.cells, other.cells)}
}

func (sm Smash[S]) Normalize() Smash[S] {
	return Smash[S]{s: sm.s.Normalize(), cells: sm.cells, seq: sm.seq}
}

func (sm Smash[S]) String() string { return sm.s.String() }

// Assign, Forget, AddConstraints, Apply, ApplyConst and At pass straight
// through to the scalar state, letting Smash stand in for S itself on
// every statement that doesn't touch a registered array.
func (sm Smash[S]) Assign(x ir.Var, e ir.LinExpr) Smash[S] {
	out := sm
	out.s = sm.s.Assign(x, e)
	return out
}

func (sm Smash[S]) Forget(x ir.Var) Smash[S] {
	out := sm
	out.s = sm.s.Forget(x)
	return out
}

func (sm Smash[S]) AddConstraints(cs []ir.LinConstraint) Smash[S] {
	out := sm
	out.s = sm.s.AddConstraints(cs)
	return out
}

func (sm Smash[S]) Apply(op string, dst, x, y ir.Var) Smash[S] {
	out := sm
	out.s = sm.s.Apply(op, dst, x, y)
	return out
}

func (sm Smash[S]) ApplyConst(op string, dst, x ir.Var, k int64) Smash[S] {
	out := sm
	out.s = sm.s.ApplyConst(op, dst, x, k)
	return out
}

func (sm Smash[S]) At(x ir.Var) lattice.Range { return sm.s.At(x) }

// ArrayInit, ArrayLoad and ArrayStore implement fixpoint.ArrayAware:
// smashing's index-insensitivity means ArrayLoad/ArrayStore simply
// ignore the index variable.
func (sm Smash[S]) ArrayInit(arr ir.Var, consts []int64) Smash[S] { return sm.Init(arr, consts) }

func (sm Smash[S]) ArrayLoad(dst, arr, index ir.Var) Smash[S] { return sm.Load(dst, arr) }

func (sm Smash[S]) ArrayStore(arr, index, value ir.Var, isSingleton bool) Smash[S] {
	return sm.Store(arr, value, isSingleton)
}

var _ lattice.Domain[Smash[separate.NonRelational]] = Smash[separate.NonRelational]{}
var _ lattice.Numerical[Smash[separate.NonRelational]] = Smash[separate.NonRelational]{}

func mergeCells(a, b map[ir.Var]ir.Var) map[ir.Var]ir.Var {
	out := make(map[ir.Var]ir.Var, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// AddArray registers arr with a fresh cell variable, unconstrained.
func (sm Smash[S]) AddArray(arr ir.Var) Smash[S] {
	if _, ok := sm.cells[arr]; ok {
		return sm
	}
	out := sm
	out.cells = mergeCells(sm.cells, nil)
	out.cells[arr] = cellName(arr)
	return out
}

func cellName(arr ir.Var) ir.Var { return ir.Var(string(arr) + "$cell") }

// Load implements assign(lhs, a[i]): lhs is set from arr's cell through a
// fresh ghost variable, so relational sub-domains never tie lhs directly
// to the shared cell identity beyond this one snapshot.
func (sm Smash[S]) Load(lhs, arr ir.Var) Smash[S] {
	out := sm
	cell, ok := sm.cells[arr]
	if !ok {
		out.s = out.s.Forget(lhs)
		return out
	}
	out.seq++
	ghost := ir.Var(fmt.Sprintf("%s$load%d", arr, out.seq))
	out.s = out.s.Assign(ghost, ir.VarExpr(cell))
	out.s = out.s.Assign(lhs, ir.VarExpr(ghost))
	out.s = out.s.Forget(ghost)
	return out
}

// Store implements store(a, i, v, is_singleton): a strong update when the
// write is known to target a single concrete index, a weak update (join
// with the prior cell) otherwise.
func (sm Smash[S]) Store(arr, v ir.Var, isSingleton bool) Smash[S] {
	cell, ok := sm.cells[arr]
	if !ok {
		return sm
	}
	out := sm
	if isSingleton {
		out.s = out.s.Assign(cell, ir.VarExpr(v))
		return out
	}
	updated := out.s.Assign(cell, ir.VarExpr(v))
	out.s = out.s.Join(updated)
	return out
}

// Init implements array_init: the cell becomes the interval hull of the
// provided constants, or unconstrained if none are given.
func (sm Smash[S]) Init(arr ir.Var, consts []int64) Smash[S] {
	out := sm
	cell, ok := sm.cells[arr]
	if !ok {
		out.cells = mergeCells(sm.cells, nil)
		cell = cellName(arr)
		out.cells[arr] = cell
	}
	out.s = out.s.Forget(cell)
	if len(consts) == 0 {
		return out
	}
	lo, hi := consts[0], consts[0]
	for _, c := range consts[1:] {
		if c < lo {
			lo = c
		}
		if c > hi {
			hi = c
		}
	}
	out.s = out.s.AddConstraints([]ir.LinConstraint{
		{Expr: ir.VarExpr(cell).Add(ir.Const(-hi)), Op: ir.LE},
		{Expr: ir.VarExpr(cell).Scale(-1).Add(ir.Const(lo)), Op: ir.LE},
	})
	return out
}
