// Package interval implements the single-variable interval lattice
// (spec.md §4.1, §6): an element is a closed range [lo, hi] over
// internal/number's extended integers, ordered by inclusion and joined
// by the convex hull of the two ranges.
//
// This package only defines the per-variable element; internal/separate
// composes many of these into the non-relational numerical domain a
// fixpoint analysis actually runs over.
package interval

import (
	"math/big"

	"github.com/rainoftime/crab/internal/lattice"
	"github.com/rainoftime/crab/internal/number"
)

// Interval is [Lo, Hi], or the distinguished bottom element when bot is
// set (Lo/Hi are then meaningless). There is no way to construct an
// Interval with Lo > Hi other than via bottom: every constructor and
// arithmetic operation that could produce a crossed range normalizes it
// to Bottom instead.
type Interval struct {
	bot    bool
	lo, hi number.Bound
}

// Bottom is the empty range.
func Bottom() Interval { return Interval{bot: true} }

// Top is (-oo, +oo).
func Top() Interval { return Interval{lo: number.NegInf, hi: number.PosInf} }

// Point returns the singleton interval [n, n].
func Point(n int64) Interval { return Range(number.FromInt64(n), number.FromInt64(n)) }

// Range returns [lo, hi], or Bottom if lo > hi.
func Range(lo, hi number.Bound) Interval {
	if hi.Less(lo) {
		return Bottom()
	}
	return Interval{lo: lo, hi: hi}
}

// Lo and Hi return the bounds of a non-bottom interval. Calling them on
// Bottom returns a meaningless but well-defined bound (PosInf, NegInf
// respectively) rather than panicking.
func (i Interval) Lo() number.Bound {
	if i.bot {
		return number.PosInf
	}
	return i.lo
}

func (i Interval) Hi() number.Bound {
	if i.bot {
		return number.NegInf
	}
	return i.hi
}

func (i Interval) IsBottom() bool { return i.bot }
func (i Interval) IsTop() bool {
	return !i.bot && i.lo.IsNegInf() && i.hi.IsPosInf()
}

// IsSingleton reports whether i denotes exactly one integer.
func (i Interval) IsSingleton() bool {
	return !i.bot && i.lo.IsFinite() && i.hi.IsFinite() && i.lo.Equal(i.hi)
}

// Contains reports whether n lies within i.
func (i Interval) Contains(n number.Bound) bool {
	return !i.bot && i.lo.LessEq(n) && n.LessEq(i.hi)
}

// Leq is interval inclusion.
func (i Interval) Leq(other Interval) bool {
	if i.bot {
		return true
	}
	if other.bot {
		return false
	}
	return other.lo.LessEq(i.lo) && i.hi.LessEq(other.hi)
}

// Join is the convex hull.
func (i Interval) Join(other Interval) Interval {
	if i.bot {
		return other
	}
	if other.bot {
		return i
	}
	return Interval{lo: number.Min(i.lo, other.lo), hi: number.Max(i.hi, other.hi)}
}

// Meet is set intersection.
func (i Interval) Meet(other Interval) Interval {
	if i.bot || other.bot {
		return Bottom()
	}
	return Range(number.Max(i.lo, other.lo), number.Min(i.hi, other.hi))
}

// Widen drops an endpoint to infinity the moment it moves, the classic
// interval widening of Cousot & Cousot's original abstract
// interpretation paper.
func (i Interval) Widen(other Interval) Interval {
	if i.bot {
		return other
	}
	if other.bot {
		return i
	}
	lo := i.lo
	if other.lo.Less(i.lo) {
		lo = number.NegInf
	}
	hi := i.hi
	if i.hi.Less(other.hi) {
		hi = number.PosInf
	}
	return Interval{lo: lo, hi: hi}
}

// Narrow tightens an infinite endpoint back down to other's finite
// bound, but never moves a bound that was already finite (spec.md §4.1:
// narrowing only recovers precision lost to widening, it never
// re-diverges).
func (i Interval) Narrow(other Interval) Interval {
	if other.bot {
		return Bottom()
	}
	if i.bot {
		return Bottom()
	}
	lo := i.lo
	if i.lo.IsNegInf() {
		lo = other.lo
	}
	hi := i.hi
	if i.hi.IsPosInf() {
		hi = other.hi
	}
	return Range(lo, hi)
}

// Normalize is the identity: intervals are already canonical by
// construction (Range collapses any crossed range to Bottom).
func (i Interval) Normalize() Interval { return i }

func (i Interval) String() string {
	if i.bot {
		return "_|_"
	}
	return "[" + i.lo.String() + ", " + i.hi.String() + "]"
}

var _ lattice.Domain[Interval] = Interval{}

// Neg returns -i.
func (i Interval) Neg() Interval {
	if i.bot {
		return i
	}
	return Range(i.hi.Neg(), i.lo.Neg())
}

// Add returns the interval sum.
func (i Interval) Add(other Interval) Interval {
	if i.bot || other.bot {
		return Bottom()
	}
	return Range(i.lo.Add(other.lo), i.hi.Add(other.hi))
}

// Sub returns the interval difference.
func (i Interval) Sub(other Interval) Interval {
	return i.Add(other.Neg())
}

// Mul returns the interval product, taken over all four corner
// combinations (the standard interval-multiplication rule).
func (i Interval) Mul(other Interval) Interval {
	if i.bot || other.bot {
		return Bottom()
	}
	a := i.lo.Mul(other.lo)
	b := i.lo.Mul(other.hi)
	c := i.hi.Mul(other.lo)
	d := i.hi.Mul(other.hi)
	lo := number.Min(number.Min(a, b), number.Min(c, d))
	hi := number.Max(number.Max(a, b), number.Max(c, d))
	return Range(lo, hi)
}

// DivRem returns the truncating-division quotient and remainder
// intervals. When the divisor's range straddles zero, spec.md §4.1
// requires splitting it into its strictly-negative and strictly-positive
// halves and joining the results, since division by exactly zero is
// undefined and must be excluded rather than approximated.
func (i Interval) DivRem(other Interval) (quot, rem Interval) {
	if i.bot || other.bot {
		return Bottom(), Bottom()
	}
	neg, pos := other.splitAroundZero()
	quot, rem = Bottom(), Bottom()
	if !neg.bot {
		q, r := i.divRemNonStraddling(neg)
		quot, rem = quot.Join(q), rem.Join(r)
	}
	if !pos.bot {
		q, r := i.divRemNonStraddling(pos)
		quot, rem = quot.Join(q), rem.Join(r)
	}
	return quot, rem
}

// splitAroundZero splits other into its negative and positive parts,
// excluding zero itself; either half may come back Bottom.
func (i Interval) splitAroundZero() (neg, pos Interval) {
	zero := number.Zero
	neg = i.Meet(Range(number.NegInf, zero.Dec()))
	pos = i.Meet(Range(zero.Inc(), number.PosInf))
	return neg, pos
}

// divRemNonStraddling divides by an interval known not to contain zero.
// The quotient is bounded by the four numerator/divisor corners, sound
// because truncating division is monotonic once the divisor's sign is
// fixed. The remainder is NOT determined by those same corners: e.g.
// [0,10] % [3,3] has corners 0%3=0 and 10%3=1, but 5%3=2 is also
// reachable and would be silently dropped. Since |x % d| < |d| for any
// x, the remainder is instead bounded purely by the divisor's maximum
// magnitude, with its sign following the numerator's per Go's
// truncating %.
func (i Interval) divRemNonStraddling(d Interval) (quot, rem Interval) {
	lo, lok := i.lo.Int()
	hi, hik := i.hi.Int()
	dlo, dlok := d.lo.Int()
	dhi, dhik := d.hi.Int()
	if !lok || !hik || !dlok || !dhik {
		// Either operand has an infinite endpoint. Dividing by exactly 1
		// or -1 is exact with remainder 0; for any other divisor |d| >= 1,
		// so |x / d| <= |x| and the quotient lies within the hull of i, -i
		// and 0, while the remainder is left unbounded.
		one := number.FromInt64(1)
		if d.IsSingleton() && d.lo.Equal(one) {
			return i, Point(0)
		}
		if d.IsSingleton() && d.lo.Equal(one.Neg()) {
			return i.Neg(), Point(0)
		}
		return i.Join(i.Neg()).Join(Point(0)), Top()
	}

	var qlo, qhi *big.Int
	for _, a := range []*big.Int{lo, hi} {
		for _, b := range []*big.Int{dlo, dhi} {
			q := new(big.Int).Quo(a, b)
			if qlo == nil || q.Cmp(qlo) < 0 {
				qlo = q
			}
			if qhi == nil || q.Cmp(qhi) > 0 {
				qhi = q
			}
		}
	}

	m := new(big.Int).Abs(dlo)
	if a := new(big.Int).Abs(dhi); a.Cmp(m) > 0 {
		m = a
	}
	mMinus1 := new(big.Int).Sub(m, big.NewInt(1))

	var rlo, rhi *big.Int
	switch {
	case lo.Sign() >= 0:
		rlo, rhi = big.NewInt(0), mMinus1
	case hi.Sign() <= 0:
		rlo, rhi = new(big.Int).Neg(mMinus1), big.NewInt(0)
	default:
		rlo, rhi = new(big.Int).Neg(mMinus1), mMinus1
	}

	return Range(number.FromBigInt(qlo), number.FromBigInt(qhi)), Range(number.FromBigInt(rlo), number.FromBigInt(rhi))
}
