package disjunctive

import (
	"github.com/rainoftime/crab/internal/interval"
	"github.com/rainoftime/crab/internal/ir"
	"github.com/rainoftime/crab/internal/lattice"
	"github.com/rainoftime/crab/internal/number"
	"github.com/rainoftime/crab/internal/separate"
)

// NonRelational composes separate.Map[Disjunctive]: one disjunctive
// interval per tracked variable, evaluated through Disjunctive's
// cross-product arithmetic instead of interval.Interval's directly
// (spec.md §4.4 instantiating the same "Separate" functor as
// internal/separate.NonRelational, but with a disjunct-carrying element).
type NonRelational struct {
	m separate.Map[Disjunctive]
}

// TopState returns the NonRelational state with every variable
// unconstrained.
func TopState() NonRelational {
	return NonRelational{m: separate.Empty(Bottom(), Top())}
}

// BottomState returns the infeasible NonRelational state.
func BottomState() NonRelational {
	return NonRelational{m: separate.BottomOf(Bottom(), Top())}
}

func (n NonRelational) IsBottom() bool               { return n.m.IsBottom() }
func (n NonRelational) IsTop() bool                  { return n.m.IsTop() }
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

// Get returns the disjunctive value currently tracked for v (top if
// untracked).
func (n NonRelational) Get(v ir.Var) Disjunctive { return n.m.Get(v) }

func (n NonRelational) eval(e ir.LinExpr) Disjunctive {
	acc := FromInterval(interval.Point(e.Const))
	for _, v := range e.Vars() {
		term := FromInterval(interval.Point(e.Coeffs[v])).Mul(n.m.Get(v))
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

// AddConstraints implements lattice.Numerical, mirroring
// separate.NonRelational: a single-variable constraint is propagated
// disjunct-wise, everything else only contributes a feasibility check.
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
	tightened := refineDisjunctive(exprRange, c.Op)
	if tightened.IsBottom() {
		return BottomState()
	}
	vars := c.Expr.Vars()
	if len(vars) != 1 {
		return n
	}
	v := vars[0]
	coeff := c.Expr.Coeffs[v]
	rest := tightened.Sub(FromInterval(interval.Point(c.Expr.Const)))
	vValue, _ := rest.DivRem(FromInterval(interval.Point(coeff)))
	newV := n.m.Get(v).Meet(vValue)
	if newV.IsBottom() {
		return BottomState()
	}
	return NonRelational{m: n.m.Set(v, newV)}
}

func refineDisjunctive(d Disjunctive, op ir.RelOp) Disjunctive {
	switch op {
	case ir.LE:
		return d.Meet(FromInterval(interval.Range(number.NegInf, number.Zero)))
	case ir.LT:
		return d.Meet(FromInterval(interval.Range(number.NegInf, number.Zero.Dec())))
	case ir.EQ:
		return d.Meet(FromInterval(interval.Point(0)))
	case ir.NE:
		return excludeZero(d)
	default:
		return d
	}
}

// excludeZero drops the singleton {0} disjunct, if present, leaving the
// rest of d untouched; this is the one case a disjunctive domain can
// represent more precisely than a plain interval box would.
func excludeZero(d Disjunctive) Disjunctive {
	if d.IsTop() || d.IsBottom() {
		return d
	}
	var out []interval.Interval
	for _, iv := range d.Disjuncts() {
		if iv.IsSingleton() && iv.Contains(number.Zero) {
			continue
		}
		out = append(out, iv)
	}
	if len(out) == 0 {
		return Bottom()
	}
	return finite(out)
}

// Apply implements lattice.Numerical's closed set of binary operators.
func (n NonRelational) Apply(op string, dst, x, y ir.Var) NonRelational {
	xi, yi := n.m.Get(x), n.m.Get(y)
	return n.setBinary(dst, op, xi, yi)
}

// ApplyConst implements lattice.Numerical's constant-operand form.
func (n NonRelational) ApplyConst(op string, dst, x ir.Var, k int64) NonRelational {
	return n.setBinary(dst, op, n.m.Get(x), FromInterval(interval.Point(k)))
}

func (n NonRelational) setBinary(dst ir.Var, op string, xv, yv Disjunctive) NonRelational {
	var result Disjunctive
	switch op {
	case "+":
		result = xv.Add(yv)
	case "-":
		result = xv.Sub(yv)
	case "*":
		result = xv.Mul(yv)
	case "/":
		result, _ = xv.DivRem(yv)
	case "%":
		_, result = xv.DivRem(yv)
	default:
		result = Top()
	}
	return NonRelational{m: n.m.Set(dst, result)}
}

// At implements lattice.Numerical, projecting the outer hull of v's
// disjuncts onto the domain-independent lattice.Range type.
func (n NonRelational) At(x ir.Var) lattice.Range {
	d := n.m.Get(x)
	if d.IsBottom() {
		return lattice.Range{Lo: lattice.Endpoint{Finite: true}, Hi: lattice.Endpoint{}}
	}
	if d.IsTop() {
		return lattice.Range{Lo: toEndpoint(number.NegInf), Hi: toEndpoint(number.PosInf)}
	}
	lo, hi := hull(d.list)
	return lattice.Range{Lo: toEndpoint(lo), Hi: toEndpoint(hi)}
}

func toEndpoint(b number.Bound) lattice.Endpoint {
	if n, ok := b.Int(); ok {
		return lattice.Endpoint{Finite: true, Value: n.Int64()}
	}
	return lattice.Endpoint{Neg: b.IsNegInf()}
}

var _ lattice.Numerical[NonRelational] = NonRelational{}
