package separate

import (
	"github.com/rainoftime/crab/internal/interval"
	"github.com/rainoftime/crab/internal/ir"
	"github.com/rainoftime/crab/internal/lattice"
	"github.com/rainoftime/crab/internal/number"
)

// NonRelational is the non-relational numerical domain built by composing
// Map[interval.Interval]: one interval per tracked variable, with linear
// expressions evaluated and constraints propagated through interval
// arithmetic (spec.md §4.1's "Separate" functor instantiated with the
// interval element lattice).
type NonRelational struct {
	m Map[interval.Interval]
}

// Top returns the NonRelational state with every variable unconstrained.
func Top() NonRelational {
	return NonRelational{m: Empty(interval.Bottom(), interval.Top())}
}

// BottomState returns the infeasible NonRelational state.
func BottomState() NonRelational {
	return NonRelational{m: BottomOf(interval.Bottom(), interval.Top())}
}

func (n NonRelational) IsBottom() bool           { return n.m.IsBottom() }
func (n NonRelational) IsTop() bool              { return n.m.IsTop() }
func (n NonRelational) Leq(other NonRelational) bool { return n.m.Leq(other.m) }
func (n NonRelational) Join(other NonRelational) NonRelational {
	return NonRelational{m: n.m.Join(other.m)}
}
func (n NonRelational) Meet(other NonRelational) NonRelational {
	return NonRelational{m: n.m.Meet(other.m)}
}
func (n NonRelational) Widen(other NonRelational) NonRelational {
	return NonRelational{m: n.m.Widen(other.m)}
}
func (n NonRelational) Narrow(other NonRelational) NonRelational {
	return NonRelational{m: n.m.Narrow(other.m)}
}
func (n NonRelational) Normalize() NonRelational { return NonRelational{m: n.m.Normalize()} }
func (n NonRelational) String() string           { return n.m.String() }

var _ lattice.Domain[NonRelational] = NonRelational{}

// Get returns the interval currently tracked for v (top if untracked).
func (n NonRelational) Get(v ir.Var) interval.Interval { return n.m.Get(v) }

func (n NonRelational) eval(e ir.LinExpr) interval.Interval {
	acc := interval.Point(e.Const)
	for _, v := range e.Vars() {
		term := interval.Point(e.Coeffs[v]).Mul(n.m.Get(v))
		acc = acc.Add(term)
	}
	return acc
}

// Assign implements lattice.Numerical.
func (n NonRelational) Assign(x ir.Var, e ir.LinExpr) NonRelational {
	if n.IsBottom() {
		return n
	}
	return NonRelational{m: n.m.Set(x, n.eval(e))}
}

// Forget implements lattice.Numerical.
func (n NonRelational) Forget(x ir.Var) NonRelational {
	return NonRelational{m: n.m.Forget(x)}
}

// AddConstraints implements lattice.Numerical. For each constraint whose
// expression mentions exactly one variable it backward-propagates the
// tightened range onto that variable; constraints over several variables
// only contribute a feasibility check, since backward propagation through
// a relational expression is outside what a non-relational domain can
// represent (that is exactly what internal/dbm exists for).
func (n NonRelational) AddConstraints(cs []ir.LinConstraint) NonRelational {
	out := n
	for _, c := range cs {
		if out.IsBottom() {
			return out
		}
		out = out.addConstraint(c)
	}
	return out
}

func (n NonRelational) addConstraint(c ir.LinConstraint) NonRelational {
	exprRange := n.eval(c.Expr)
	tightened := refine(exprRange, c.Op)
	if tightened.IsBottom() {
		return BottomState()
	}
	vars := c.Expr.Vars()
	if len(vars) != 1 {
		return n
	}
	v := vars[0]
	coeff := c.Expr.Coeffs[v]
	rest := tightened.Sub(interval.Point(c.Expr.Const))
	vRange, _ := rest.DivRem(interval.Point(coeff))
	newV := n.m.Get(v).Meet(vRange)
	if newV.IsBottom() {
		return BottomState()
	}
	return NonRelational{m: n.m.Set(v, newV)}
}

func refine(r interval.Interval, op ir.RelOp) interval.Interval {
	switch op {
	case ir.LE:
		return r.Meet(interval.Range(number.NegInf, number.Zero))
	case ir.LT:
		return r.Meet(interval.Range(number.NegInf, number.Zero.Dec()))
	case ir.EQ:
		return r.Meet(interval.Point(0))
	case ir.NE:
		if r.IsSingleton() && r.Contains(number.Zero) {
			return interval.Bottom()
		}
		return r
	default:
		return r
	}
}

// Apply implements lattice.Numerical's closed set of binary operators.
func (n NonRelational) Apply(op string, dst, x, y ir.Var) NonRelational {
	xi, yi := n.m.Get(x), n.m.Get(y)
	return n.setBinary(dst, op, xi, yi)
}

// ApplyConst implements lattice.Numerical's constant-operand form.
func (n NonRelational) ApplyConst(op string, dst, x ir.Var, k int64) NonRelational {
	return n.setBinary(dst, op, n.m.Get(x), interval.Point(k))
}

func (n NonRelational) setBinary(dst ir.Var, op string, xi, yi interval.Interval) NonRelational {
	var result interval.Interval
	switch op {
	case "+":
		result = xi.Add(yi)
	case "-":
		result = xi.Sub(yi)
	case "*":
		result = xi.Mul(yi)
	case "/":
		result, _ = xi.DivRem(yi)
	case "%":
		_, result = xi.DivRem(yi)
	default:
		result = interval.Top()
	}
	return NonRelational{m: n.m.Set(dst, result)}
}

// At implements lattice.Numerical, projecting an interval onto the
// domain-independent lattice.Range type.
func (n NonRelational) At(x ir.Var) lattice.Range {
	i := n.m.Get(x)
	if i.IsBottom() {
		return lattice.Range{Lo: lattice.Endpoint{Finite: true}, Hi: lattice.Endpoint{}}
	}
	return lattice.Range{Lo: toEndpoint(i.Lo()), Hi: toEndpoint(i.Hi())}
}

func toEndpoint(b number.Bound) lattice.Endpoint {
	if n, ok := b.Int(); ok {
		return lattice.Endpoint{Finite: true, Value: n.Int64()}
	}
	return lattice.Endpoint{Neg: b.IsNegInf()}
}

var _ lattice.Numerical[NonRelational] = NonRelational{}
