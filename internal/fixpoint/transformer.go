package fixpoint

import (
	"github.com/rainoftime/crab/internal/ir"
	"github.com/rainoftime/crab/internal/lattice"
	"github.com/rainoftime/crab/internal/separate"
)

// Transformer computes a statement's abstract post-state from its
// pre-state. Run calls it once per statement, in block order.
type Transformer[D lattice.Domain[D]] interface {
	Exec(pre D, stmt ir.Stmt) D
}

// ArrayAware is implemented by domains that can interpret array
// statements entirely in terms of plain ir.Var names in their own
// scalar state, e.g. internal/arraysmash.Smash, whose array cell and
// every assign/load/store operate over the same S. NumericalTransformer
// dispatches array statements here when D implements it, falling back
// to forgetting the statement's defined variables otherwise (spec.md
// §4.3: "dispatched to the array-domain traits").
//
// internal/arraygraph.ArrayGraph deliberately does not implement this:
// its Store takes the written value as an already-abstracted W, not an
// ir.Var, since the edge weight lattice need not coincide with the
// scalar domain S. Wiring ArrayGraph into a statement-level transformer
// needs a driver-supplied S -> W conversion (e.g. projecting S.At(value)
// into an interval.Interval), which belongs in the driver's own
// Transformer, not in this generic fallback.
type ArrayAware[D any] interface {
	ArrayInit(arr ir.Var, consts []int64) D
	ArrayLoad(dst, arr, index ir.Var) D
	ArrayStore(arr, index, value ir.Var, isSingleton bool) D
}

// unsatisfiable is a constraint no numerical domain can satisfy, used to
// drive a domain to Bottom without requiring a separate Bottom() entry
// point in the lattice.Numerical contract.
var unsatisfiable = []ir.LinConstraint{{Expr: ir.Const(1), Op: ir.LE}}

// NumericalTransformer is the default transformer of spec.md §4.3 for
// any lattice.Numerical domain: assignment, binary ops, select, havoc,
// assume and unreachable go through the domain's own operations; array
// statements dispatch to ArrayAware when available; pointer statements,
// calls and returns are left to higher layers and treated here as a
// conservative havoc of whatever the statement defines.
type NumericalTransformer[D lattice.Numerical[D]] struct{}

func (NumericalTransformer[D]) Exec(pre D, stmt ir.Stmt) D {
	switch s := stmt.(type) {
	case ir.BinOp:
		return pre.Apply(s.Op, s.Dst, s.Lhs, s.Rhs)
	case ir.Assign:
		return pre.Assign(s.Dst, s.Expr)
	case ir.Assume:
		return pre.AddConstraints([]ir.LinConstraint{s.Constraint})
	case ir.Havoc:
		return pre.Forget(s.Var)
	case ir.Unreachable:
		return pre.AddConstraints(unsatisfiable)
	case ir.Select:
		then := pre.AddConstraints([]ir.LinConstraint{s.Cond}).Assign(s.Dst, s.E1)
		els := pre.AddConstraints([]ir.LinConstraint{s.Cond.Negate()}).Assign(s.Dst, s.E2)
		return then.Join(els)
	case ir.ArrayInit:
		if aw, ok := any(pre).(ArrayAware[D]); ok {
			return aw.ArrayInit(s.Array, s.Values)
		}
		return havocDefs(pre, stmt)
	case ir.ArrayLoad:
		if aw, ok := any(pre).(ArrayAware[D]); ok {
			return aw.ArrayLoad(s.Dst, s.Array, s.Index)
		}
		return havocDefs(pre, stmt)
	case ir.ArrayStore:
		if aw, ok := any(pre).(ArrayAware[D]); ok {
			return aw.ArrayStore(s.Array, s.Index, s.Value, s.IsSingleton)
		}
		return havocDefs(pre, stmt)
	default:
		return havocDefs(pre, stmt)
	}
}

func havocDefs[D lattice.Numerical[D]](pre D, stmt ir.Stmt) D {
	out := pre
	for v := range stmt.Defs() {
		out = out.Forget(v)
	}
	return out
}

var _ Transformer[separate.NonRelational] = NumericalTransformer[separate.NonRelational]{}
