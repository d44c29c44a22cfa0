// Package number implements arithmetic on unbounded integers extended
// with ±∞, the building block every numerical domain in this module
// bounds its intervals with.
//
// This mirrors the extended-integer representation
// honnef.co/go/tools/go/vrp.Interval uses (a *big.Int bound where nil
// means infinity), generalized from that package's fixed-width-int
// specialization to spec.md §3's "unbounded integers": every Bound here
// is backed by math/big, the standard library's arbitrary-precision
// integer type, which is the idiomatic choice for this since no
// third-party big-integer library appears anywhere in the retrieved
// corpus (see DESIGN.md).
package number

import (
	"math/big"
)

// sign encodes which infinity a Bound denotes, or that it is finite.
type sign int8

const (
	finite   sign = 0
	negInf   sign = -1
	posInf   sign = 1
)

// Bound is an element of ℤ ∪ {-∞, +∞}.
type Bound struct {
	s sign
	v *big.Int // valid iff s == finite; nil otherwise
}

// NegInf is -∞.
var NegInf = Bound{s: negInf}

// PosInf is +∞.
var PosInf = Bound{s: posInf}

// Zero is the finite bound 0.
var Zero = FromInt64(0)

// FromInt64 returns the finite bound n.
func FromInt64(n int64) Bound {
	return Bound{v: big.NewInt(n)}
}

// FromBigInt returns the finite bound n. The Bound takes ownership of a
// copy of n; mutating n afterwards does not affect the Bound.
func FromBigInt(n *big.Int) Bound {
	return Bound{v: new(big.Int).Set(n)}
}

// IsFinite reports whether b is neither +∞ nor -∞.
func (b Bound) IsFinite() bool { return b.s == finite }

// IsPosInf reports whether b is +∞.
func (b Bound) IsPosInf() bool { return b.s == posInf }

// IsNegInf reports whether b is -∞.
func (b Bound) IsNegInf() bool { return b.s == negInf }

// Int returns the underlying *big.Int and true if b is finite, or nil
// and false otherwise.
func (b Bound) Int() (*big.Int, bool) {
	if !b.IsFinite() {
		return nil, false
	}
	return b.v, true
}

func (b Bound) String() string {
	switch b.s {
	case negInf:
		return "-oo"
	case posInf:
		return "+oo"
	default:
		return b.v.String()
	}
}

// Cmp compares a and b: -1 if a<b, 0 if a==b, +1 if a>b.
func (a Bound) Cmp(b Bound) int {
	if a.s != finite || b.s != finite {
		if a.s == b.s {
			return 0
		}
		return int(a.s) - int(b.s)
	}
	return a.v.Cmp(b.v)
}

func (a Bound) Equal(b Bound) bool { return a.Cmp(b) == 0 }
func (a Bound) Less(b Bound) bool  { return a.Cmp(b) < 0 }
func (a Bound) LessEq(b Bound) bool { return a.Cmp(b) <= 0 }

// Min returns the smaller of a and b.
func Min(a, b Bound) Bound {
	if a.Less(b) {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b Bound) Bound {
	if a.Less(b) {
		return b
	}
	return a
}

// Neg returns -a.
func (a Bound) Neg() Bound {
	switch a.s {
	case negInf:
		return PosInf
	case posInf:
		return NegInf
	default:
		return Bound{v: new(big.Int).Neg(a.v)}
	}
}

// Add returns a+b. ∞ + -∞ is not representable by any concrete program
// trace (the callers in this module never produce it); it panics rather
// than silently returning an arbitrary bound.
func (a Bound) Add(b Bound) Bound {
	if a.s == finite && b.s == finite {
		return Bound{v: new(big.Int).Add(a.v, b.v)}
	}
	if a.s != finite && b.s != finite && a.s != b.s {
		panic("number: +inf + -inf is undefined")
	}
	if a.s != finite {
		return a
	}
	return b
}

// Sub returns a-b.
func (a Bound) Sub(b Bound) Bound {
	return a.Add(b.Neg())
}

// Mul returns a*b. The sign of an infinite result follows normal sign
// rules; multiplying by a finite zero always yields finite zero, even
// against an infinite operand (0 * ∞ = 0 here, matching interval
// arithmetic's convention of treating ∞ as "unboundedly large" rather
// than a true extended-real value).
func (a Bound) Mul(b Bound) Bound {
	if a.s == finite && b.s == finite {
		return Bound{v: new(big.Int).Mul(a.v, b.v)}
	}
	if a.s == finite && a.v.Sign() == 0 {
		return Zero
	}
	if b.s == finite && b.v.Sign() == 0 {
		return Zero
	}
	resultSign := a.signOf() * b.signOf()
	if resultSign < 0 {
		return NegInf
	}
	return PosInf
}

func (a Bound) signOf() int {
	switch a.s {
	case negInf:
		return -1
	case posInf:
		return 1
	default:
		return a.v.Sign()
	}
}

// Inc returns a+1.
func (a Bound) Inc() Bound { return a.Add(FromInt64(1)) }

// Dec returns a-1.
func (a Bound) Dec() Bound { return a.Sub(FromInt64(1)) }
