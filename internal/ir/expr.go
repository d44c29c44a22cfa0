package ir

import (
	"fmt"
	"sort"
	"strings"
)

// LinExpr is an affine integer expression over variables:
// sum(coeff[v] * v) + const.
type LinExpr struct {
	Coeffs map[Var]int64
	Const  int64
}

// Const returns the constant expression k.
func Const(k int64) LinExpr {
	return LinExpr{Const: k}
}

// VarExpr returns the expression denoting variable v with coefficient 1.
func VarExpr(v Var) LinExpr {
	return LinExpr{Coeffs: map[Var]int64{v: 1}}
}

// Term returns the expression c*v.
func Term(c int64, v Var) LinExpr {
	if c == 0 {
		return LinExpr{}
	}
	return LinExpr{Coeffs: map[Var]int64{v: c}}
}

// Add returns e + other.
func (e LinExpr) Add(other LinExpr) LinExpr {
	out := LinExpr{Coeffs: make(map[Var]int64, len(e.Coeffs)+len(other.Coeffs)), Const: e.Const + other.Const}
	for v, c := range e.Coeffs {
		out.Coeffs[v] = c
	}
	for v, c := range other.Coeffs {
		out.Coeffs[v] += c
	}
	out.normalize()
	return out
}

// Scale returns k*e.
func (e LinExpr) Scale(k int64) LinExpr {
	if k == 0 {
		return LinExpr{}
	}
	out := LinExpr{Coeffs: make(map[Var]int64, len(e.Coeffs)), Const: e.Const * k}
	for v, c := range e.Coeffs {
		out.Coeffs[v] = c * k
	}
	return out
}

// Sub returns e - other.
func (e LinExpr) Sub(other LinExpr) LinExpr {
	return e.Add(other.Scale(-1))
}

func (e *LinExpr) normalize() {
	for v, c := range e.Coeffs {
		if c == 0 {
			delete(e.Coeffs, v)
		}
	}
}

// Vars returns the variables with a non-zero coefficient in e.
func (e LinExpr) Vars() []Var {
	out := make([]Var, 0, len(e.Coeffs))
	for v, c := range e.Coeffs {
		if c != 0 {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsConstant reports whether e has no variables with non-zero coefficient.
func (e LinExpr) IsConstant() bool {
	return len(e.Vars()) == 0
}

func (e LinExpr) String() string {
	vars := e.Vars()
	if len(vars) == 0 {
		return fmt.Sprintf("%d", e.Const)
	}
	var b strings.Builder
	for i, v := range vars {
		c := e.Coeffs[v]
		switch {
		case i == 0:
			if c == 1 {
				b.WriteString(string(v))
			} else if c == -1 {
				b.WriteString("-" + string(v))
			} else {
				fmt.Fprintf(&b, "%d*%s", c, v)
			}
		default:
			sign := "+"
			if c < 0 {
				sign = "-"
				c = -c
			}
			if c == 1 {
				fmt.Fprintf(&b, " %s %s", sign, v)
			} else {
				fmt.Fprintf(&b, " %s %d*%s", sign, c, v)
			}
		}
	}
	if e.Const > 0 {
		fmt.Fprintf(&b, " + %d", e.Const)
	} else if e.Const < 0 {
		fmt.Fprintf(&b, " - %d", -e.Const)
	}
	return b.String()
}

// RelOp is the comparison operator of a linear constraint: expr OP 0.
type RelOp int

const (
	LE RelOp = iota // <=
	LT              // <
	EQ              // ==
	NE              // !=
)

func (op RelOp) String() string {
	switch op {
	case LE:
		return "<="
	case LT:
		return "<"
	case EQ:
		return "=="
	case NE:
		return "!="
	default:
		return "?"
	}
}

// LinConstraint is a linear expression compared to zero.
type LinConstraint struct {
	Expr LinExpr
	Op   RelOp
}

func (c LinConstraint) String() string {
	return fmt.Sprintf("%s %s 0", c.Expr, c.Op)
}

// Negate returns the logical negation of c. LE and LT negate to each
// other with the expression scaled by -1; EQ and NE negate to each other
// with the expression unchanged.
func (c LinConstraint) Negate() LinConstraint {
	switch c.Op {
	case LE: // not(e<=0) == e>0 == -e<0
		return LinConstraint{Expr: c.Expr.Scale(-1), Op: LT}
	case LT: // not(e<0) == e>=0 == -e<=0
		return LinConstraint{Expr: c.Expr.Scale(-1), Op: LE}
	case EQ:
		return LinConstraint{Expr: c.Expr, Op: NE}
	case NE:
		return LinConstraint{Expr: c.Expr, Op: EQ}
	default:
		panic("ir: invalid RelOp")
	}
}
