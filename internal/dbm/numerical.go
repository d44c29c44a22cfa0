package dbm

import (
	"github.com/rainoftime/crab/internal/interval"
	"github.com/rainoftime/crab/internal/ir"
	"github.com/rainoftime/crab/internal/lattice"
	"github.com/rainoftime/crab/internal/number"
)

// projectInterval returns the tightest interval DBM currently implies
// for v, or top if v is untracked.
func (d DBM) projectInterval(v ir.Var) interval.Interval {
	idx, ok := d.varIdx[v]
	if !ok {
		return interval.Top()
	}
	hi := d.at(0, idx)
	lo := d.at(idx, 0).Neg()
	return interval.Range(lo, hi)
}

func (d DBM) evalExpr(e ir.LinExpr) interval.Interval {
	acc := interval.Point(e.Const)
	for _, v := range e.Vars() {
		term := interval.Point(e.Coeffs[v]).Mul(d.projectInterval(v))
		acc = acc.Add(term)
	}
	return acc
}

// setIntervalBounds installs rng as v's non-relational bound, overwriting
// whatever was there before. Callers must Forget(v) first if v may
// already carry tighter relational information worth preserving.
func (d DBM) setIntervalBounds(v ir.Var, rng interval.Interval) DBM {
	if rng.IsBottom() {
		return Bottom()
	}
	out := d.clone()
	idx := out.growVar(v)
	out.setAt(0, idx, rng.Hi())
	out.setAt(idx, 0, rng.Lo().Neg())
	return out.closure()
}

func (d DBM) setExactPoint(v ir.Var, k int64) DBM {
	out := d.clone()
	idx := out.growVar(v)
	out.setAt(0, idx, number.FromInt64(k))
	out.setAt(idx, 0, number.FromInt64(-k))
	return out.closure()
}

// setExactShift records x := y + k as the exact pair of edges a DBM can
// represent precisely. If y is untracked, x is left untracked too (both
// denote "unconstrained").
func (d DBM) setExactShift(x, y ir.Var, k int64) DBM {
	yIdx, ok := d.varIdx[y]
	if !ok {
		return d
	}
	out := d.clone()
	xIdx := out.growVar(x)
	out.setAt(yIdx, xIdx, number.FromInt64(k))
	out.setAt(xIdx, yIdx, number.FromInt64(-k))
	return out.closure()
}

// Forget removes every edge touching v, leaving it unconstrained.
func (d DBM) Forget(v ir.Var) DBM {
	if d.bot {
		return d
	}
	idx, ok := d.varIdx[v]
	if !ok {
		return d
	}
	out := d.clone()
	dim := out.dim()
	for j := 0; j < dim; j++ {
		if j == idx {
			continue
		}
		out.setAt(idx, j, number.PosInf)
		out.setAt(j, idx, number.PosInf)
	}
	return out
}

// Assign implements lattice.Numerical. A constant assignment or a unit
// shift of a single tracked variable (x := y + k) is represented
// exactly; anything else is approximated by projecting the right-hand
// side to an interval and installing it non-relationally, per spec.md
// §4.5's "stronger constraints are approximated by reducing to an
// interval box."
func (d DBM) Assign(x ir.Var, e ir.LinExpr) DBM {
	if d.bot {
		return d
	}
	vars := e.Vars()
	switch {
	case len(vars) == 0:
		return d.Forget(x).setExactPoint(x, e.Const)
	case len(vars) == 1 && e.Coeffs[vars[0]] == 1 && vars[0] == x:
		// x := x + k shifts every bound on x by k in place.
		idx, ok := d.varIdx[x]
		if !ok {
			return d
		}
		out := d.clone()
		k := number.FromInt64(e.Const)
		for j := 0; j < out.dim(); j++ {
			if j == idx {
				continue
			}
			out.setAt(j, idx, out.at(j, idx).Add(k))
			out.setAt(idx, j, out.at(idx, j).Sub(k))
		}
		return out
	case len(vars) == 1 && e.Coeffs[vars[0]] == 1:
		return d.Forget(x).setExactShift(x, vars[0], e.Const)
	default:
		rng := d.evalExpr(e)
		return d.Forget(x).setIntervalBounds(x, rng)
	}
}

// AddConstraints implements lattice.Numerical. A difference constraint
// (coefficients exactly +1/-1 on two variables) is translated to an edge
// update exactly, per spec.md §4.5; everything else goes through a
// projection to an interval box, which checks feasibility and, for a
// single-variable constraint, also tightens that variable's bounds.
func (d DBM) AddConstraints(cs []ir.LinConstraint) DBM {
	out := d
	for _, c := range cs {
		if out.IsBottom() {
			return out
		}
		out = out.addConstraint(c)
	}
	return out
}

func (d DBM) addConstraint(c ir.LinConstraint) DBM {
	vars := c.Expr.Vars()
	if len(vars) == 2 {
		var pos, neg ir.Var
		havePos, haveNeg := false, false
		for _, v := range vars {
			switch c.Expr.Coeffs[v] {
			case 1:
				pos, havePos = v, true
			case -1:
				neg, haveNeg = v, true
			}
		}
		if havePos && haveNeg {
			return d.addDifferenceConstraint(pos, neg, c.Expr.Const, c.Op)
		}
	}
	return d.addConstraintViaIntervalBox(c)
}

// addDifferenceConstraint handles pos - neg + k OP 0.
func (d DBM) addDifferenceConstraint(pos, neg ir.Var, k int64, op ir.RelOp) DBM {
	out := d.clone()
	iPos := out.growVar(pos)
	iNeg := out.growVar(neg)
	switch op {
	case ir.LE: // pos - neg <= -k
		out.tighten(iNeg, iPos, -k)
	case ir.LT: // pos - neg <= -k-1
		out.tighten(iNeg, iPos, -k-1)
	case ir.EQ:
		out.tighten(iNeg, iPos, -k)
		out.tighten(iPos, iNeg, k)
	case ir.NE:
		// Not representable as an edge bound; sound no-op.
	}
	return out.closure()
}

func (d *DBM) tighten(i, j int, c int64) {
	cand := number.FromInt64(c)
	if cand.Less(d.at(i, j)) {
		d.setAt(i, j, cand)
	}
}

func (d DBM) addConstraintViaIntervalBox(c ir.LinConstraint) DBM {
	exprRange := d.evalExpr(c.Expr)
	tightened := refine(exprRange, c.Op)
	if tightened.IsBottom() {
		return Bottom()
	}
	vars := c.Expr.Vars()
	if len(vars) != 1 {
		return d
	}
	v := vars[0]
	coeff := c.Expr.Coeffs[v]
	rest := tightened.Sub(interval.Point(c.Expr.Const))
	vRange, _ := rest.DivRem(interval.Point(coeff))
	newV := d.projectInterval(v).Meet(vRange)
	if newV.IsBottom() {
		return Bottom()
	}
	return d.Forget(v).setIntervalBounds(v, newV)
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
// Only a unit shift by a constant (handled by ApplyConst) is exact;
// every other combination is approximated through interval arithmetic,
// since a DBM cannot represent a ternary relation among dst, x and y.
func (d DBM) Apply(op string, dst, x, y ir.Var) DBM {
	result := binOp(op, d.projectInterval(x), d.projectInterval(y))
	return d.Forget(dst).setIntervalBounds(dst, result)
}

// ApplyConst implements lattice.Numerical's constant-operand form.
func (d DBM) ApplyConst(op string, dst, x ir.Var, k int64) DBM {
	switch op {
	case "+":
		return d.Assign(dst, ir.VarExpr(x).Add(ir.Const(k)))
	case "-":
		return d.Assign(dst, ir.VarExpr(x).Add(ir.Const(-k)))
	default:
		result := binOp(op, d.projectInterval(x), interval.Point(k))
		return d.Forget(dst).setIntervalBounds(dst, result)
	}
}

func binOp(op string, a, b interval.Interval) interval.Interval {
	switch op {
	case "+":
		return a.Add(b)
	case "-":
		return a.Sub(b)
	case "*":
		return a.Mul(b)
	case "/":
		q, _ := a.DivRem(b)
		return q
	case "%":
		_, r := a.DivRem(b)
		return r
	default:
		return interval.Top()
	}
}

// At implements lattice.Numerical.
func (d DBM) At(x ir.Var) lattice.Range {
	i := d.projectInterval(x)
	if i.IsBottom() {
		return lattice.Range{}
	}
	return lattice.Range{Lo: toEndpoint(i.Lo()), Hi: toEndpoint(i.Hi())}
}

func toEndpoint(b number.Bound) lattice.Endpoint {
	if n, ok := b.Int(); ok {
		return lattice.Endpoint{Finite: true, Value: n.Int64()}
	}
	return lattice.Endpoint{Neg: b.IsNegInf()}
}

var _ lattice.Numerical[DBM] = DBM{}
