// Package lattice defines the uniform contract every abstract domain in
// this module satisfies (spec.md §4.1).
//
// The original C++ source expresses "this-returning" lattice operations
// (join, widen, ...) via CRTP: a domain class inherits from a template
// parameterized by itself. Go has no CRTP; the idiomatic analogue (also
// flagged in spec.md §9) is a generic interface with a self-referential
// type parameter, so a domain D declares `lattice.Domain[D]` and every
// operation both takes and returns D:
//
//	type Interval struct { ... }
//	func (i Interval) Join(other Interval) Interval { ... }
//	var _ lattice.Domain[Interval] = Interval{}
//
// Multiple-inheritance across several lattice interfaces (numerical,
// division, bitwise, ...) in the original maps to composing several such
// generic interfaces into one capability bundle, as Numerical does below
// over Domain.
package lattice

import "github.com/rainoftime/crab/internal/ir"

// Domain is the contract every abstract value satisfies, independent of
// what it abstracts. Bottom and Top are deliberately not part of the
// interface: Go interfaces cannot express "static" constructors, so each
// concrete domain exposes its own `Bottom() D` / `Top() D` package-level
// functions instead (documented per domain).
type Domain[D any] interface {
	IsBottom() bool
	IsTop() bool
	// Leq is a reflexive, transitive partial order with d.IsBottom() =>
	// d.Leq(other) for all other, and other.IsTop() => d.Leq(other).
	Leq(other D) bool
	// Join is a commutative, associative, idempotent least upper bound.
	Join(other D) D
	// Meet is the dual of Join; it may return Bottom.
	Meet(other D) D
	// Widen guarantees d.Leq(d.Widen(other)) and that iterating Widen
	// over any ascending chain terminates in finitely many steps.
	Widen(other D) D
	// Narrow satisfies meet(d, other).Leq(d.Narrow(other)) and
	// d.Narrow(other).Leq(d).
	Narrow(other D) D
	// Normalize forces canonical form before sharing or comparison.
	Normalize() D
	String() string
}

// Numerical bundles Domain with the operations the fixpoint iterator's
// numerical transformer (spec.md §4.3) needs: assignment, forgetting a
// variable, and adding linear constraints.
type Numerical[D any] interface {
	Domain[D]
	// Assign returns the domain with x updated to the value of e.
	Assign(x ir.Var, e ir.LinExpr) D
	// Forget removes x: the domain still tracks every other variable,
	// but no longer constrains x. Equivalent to the join over every
	// possible value of x.
	Forget(x ir.Var) D
	// AddConstraints intersects the domain with a conjunction of linear
	// constraints; an unsatisfiable conjunction yields Bottom.
	AddConstraints(cs []ir.LinConstraint) D
	// Apply computes dst := x op y for a closed set of binary operator
	// names ("+", "-", "*", "/", "%").
	Apply(op string, dst, x, y ir.Var) D
	// ApplyConst computes dst := x op k for a constant right-hand side.
	ApplyConst(op string, dst, x ir.Var, k int64) D
	// At projects out the interval currently known for x.
	At(x ir.Var) Range
}

// Range is the projection of a numerical domain onto a single variable:
// a closed interval with possibly-infinite endpoints, printed as the
// canonical "[l, u]" spec.md §6 requires of every numerical domain.
// Concrete domains convert their own bound representation to/from Range
// at the package boundary so callers never need to import every domain's
// internal number representation just to call `operator[]`.
type Range struct {
	Lo, Hi Endpoint
}

// Endpoint is either a finite integer or one of the two infinities.
type Endpoint struct {
	Finite bool
	Value  int64 // valid iff Finite
	Neg    bool  // if !Finite: true means -inf, false means +inf
}

func (r Range) String() string {
	lo := "-oo"
	if r.Lo.Finite {
		lo = itoa(r.Lo.Value)
	} else if !r.Lo.Neg {
		lo = "+oo"
	}
	hi := "+oo"
	if r.Hi.Finite {
		hi = itoa(r.Hi.Value)
	} else if r.Hi.Neg {
		hi = "-oo"
	}
	return "[" + lo + ", " + hi + "]"
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Leq is a free-function helper so call sites that hold two domain
// values symmetrically (e.g. test helpers) don't need to pick a receiver.
func Leq[D Domain[D]](a, b D) bool { return a.Leq(b) }

// Join is the free-function dual of Leq, useful for folding over a slice
// of domain values: lattice.Fold(vals, lattice.Join[D]).
func Join[D Domain[D]](a, b D) D { return a.Join(b) }

// Fold reduces a non-empty slice of domain values with op, starting from
// the first element (a join over zero elements is the domain's identity,
// which callers should supply as a seed when the slice may be empty).
func Fold[D Domain[D]](vals []D, op func(a, b D) D) D {
	if len(vals) == 0 {
		panic("lattice: Fold over empty slice")
	}
	acc := vals[0]
	for _, v := range vals[1:] {
		acc = op(acc, v)
	}
	return acc
}
