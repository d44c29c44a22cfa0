// Package nullity implements the flat 4-element nullity lattice
// (bottom < {null, non-null} < top) used to track pointer nullness,
// adapted from the teacher's zero-ness lattice
// (internal/analysis/lattice.ValueKind) onto the same four-element shape:
// Bottom < {Null, NonNull} < Top, joined/met by bitwise OR/AND on a
// 2-bit representation as spec.md §3 requires.
package nullity

import (
	"fmt"

	"github.com/rainoftime/crab/internal/lattice"
)

// Value is a 2-bit flat-lattice element: bit 0 means "may be null", bit
// 1 means "may be non-null". Bottom is 00, Top is 11.
type Value uint8

const (
	bitNull    = 1 << 0
	bitNonNull = 1 << 1
)

const (
	Bottom  Value = 0
	Null    Value = bitNull
	NonNull Value = bitNonNull
	Top     Value = bitNull | bitNonNull
)

func (v Value) String() string {
	switch v {
	case Bottom:
		return "_|_"
	case Null:
		return "null"
	case NonNull:
		return "non-null"
	case Top:
		return "T"
	default:
		return fmt.Sprintf("nullity(%#x)", uint8(v))
	}
}

func (v Value) IsBottom() bool { return v == Bottom }
func (v Value) IsTop() bool    { return v == Top }

// Leq is the partial order induced by bit-inclusion: a <= b iff every
// bit set in a is also set in b.
func (v Value) Leq(other Value) bool {
	return v&other == v
}

// Join is bitwise OR, as spec.md §3 specifies.
func (v Value) Join(other Value) Value {
	return v | other
}

// Meet is bitwise AND, as spec.md §3 specifies.
func (v Value) Meet(other Value) Value {
	return v & other
}

// Widen is join: the lattice has finite height (4 elements), so plain
// join already guarantees chain termination.
func (v Value) Widen(other Value) Value {
	return v.Join(other)
}

// Narrow is meet, restricted so it never drops below the concrete
// semantics already captured by v: since the lattice is finite, meet
// alone satisfies `a meet b <= narrow(a,b) <= a`.
func (v Value) Narrow(other Value) Value {
	return v.Meet(other)
}

// Normalize is the identity: every bit pattern is already canonical.
func (v Value) Normalize() Value { return v }

var _ lattice.Domain[Value] = Value(0)

// State maps pointer variables to their nullity. A nil State denotes
// Bottom, mirroring the teacher's AbstractState convention.
type State[V comparable] map[V]Value

// Get returns the stored value, or Top if v has no entry (an untracked
// variable is assumed to be anything).
func (s State[V]) Get(v V) Value {
	if s == nil {
		return Bottom
	}
	if val, ok := s[v]; ok {
		return val
	}
	return Top
}

// Set stores val for v, dropping the entry when val is Top (Top is the
// implicit default, so it need not be stored).
func (s State[V]) Set(v V, val Value) {
	if s == nil {
		return
	}
	if val.IsTop() {
		delete(s, v)
		return
	}
	s[v] = val
}

// Clone returns a shallow copy of s.
func (s State[V]) Clone() State[V] {
	if s == nil {
		return nil
	}
	out := make(State[V], len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Join merges two states pointwise.
func Join[V comparable](a, b State[V]) State[V] {
	if a == nil {
		return b.Clone()
	}
	if b == nil {
		return a.Clone()
	}
	out := make(State[V])
	seen := make(map[V]struct{}, len(a)+len(b))
	for k := range a {
		seen[k] = struct{}{}
	}
	for k := range b {
		seen[k] = struct{}{}
	}
	for k := range seen {
		out.Set(k, a.Get(k).Join(b.Get(k)))
	}
	return out
}

// Equal reports whether two states agree on every variable.
func Equal[V comparable](a, b State[V]) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// Forget removes v from the state, equivalent to joining over every
// possible value of v (spec.md §4.1's `forget`).
func (s State[V]) Forget(v V) {
	delete(s, v)
}
