package disjunctive

import (
	"sort"
	"strings"

	"github.com/rainoftime/crab/internal/interval"
	"github.com/rainoftime/crab/internal/lattice"
	"github.com/rainoftime/crab/internal/number"
)

type kind uint8

const (
	kindBottom kind = iota
	kindTop
	kindFinite
)

// MaxDisjunctions is the cardinality bound of spec.md §4.4; a normalized
// value with more disjuncts than this collapses to its outer hull.
// Tests may lower it to exercise the collapse path cheaply.
var MaxDisjunctions = 50

// Disjunctive is BOT, TOP, or a non-empty canonical list of intervals.
// The invariant that a single-element list is neither top nor bottom is
// maintained by collapsing those cases to the dedicated kind instead.
type Disjunctive struct {
	k    kind
	list []interval.Interval
}

// Bottom is the empty disjunction.
func Bottom() Disjunctive { return Disjunctive{k: kindBottom} }

// Top is the unconstrained value.
func Top() Disjunctive { return Disjunctive{k: kindTop} }

// FromInterval lifts a single interval into the disjunctive domain.
func FromInterval(i interval.Interval) Disjunctive {
	if i.IsBottom() {
		return Bottom()
	}
	return finite([]interval.Interval{i})
}

// finite builds and normalizes a disjunctive value from a raw list.
func finite(list []interval.Interval) Disjunctive {
	return Disjunctive{k: kindFinite, list: list}.Normalize()
}

func (d Disjunctive) IsBottom() bool { return d.k == kindBottom }
func (d Disjunctive) IsTop() bool    { return d.k == kindTop }

func (d Disjunctive) Leq(other Disjunctive) bool {
	switch {
	case d.k == kindBottom:
		return true
	case other.k == kindTop:
		return true
	case d.k == kindTop:
		return other.k == kindTop
	case other.k == kindBottom:
		return false
	default:
		for _, a := range d.list {
			covered := false
			for _, b := range other.list {
				if a.Leq(b) {
					covered = true
					break
				}
			}
			if !covered {
				return false
			}
		}
		return true
	}
}

func (d Disjunctive) Join(other Disjunctive) Disjunctive {
	if d.k == kindBottom {
		return other
	}
	if other.k == kindBottom {
		return d
	}
	if d.k == kindTop || other.k == kindTop {
		return Top()
	}
	merged := make([]interval.Interval, 0, len(d.list)+len(other.list))
	merged = append(merged, d.list...)
	merged = append(merged, other.list...)
	return finite(merged)
}

func (d Disjunctive) Meet(other Disjunctive) Disjunctive {
	if d.k == kindBottom || other.k == kindBottom {
		return Bottom()
	}
	if d.k == kindTop {
		return other
	}
	if other.k == kindTop {
		return d
	}
	var out []interval.Interval
	for _, a := range d.list {
		for _, b := range other.list {
			m := a.Meet(b)
			if !m.IsBottom() {
				out = append(out, m)
			}
		}
	}
	if len(out) == 0 {
		return Bottom()
	}
	return finite(out)
}

// Widen widens the outer hull's two ends and retains every interior
// interval of d verbatim, per spec.md §4.4.
func (d Disjunctive) Widen(other Disjunctive) Disjunctive {
	if d.k == kindBottom {
		return other
	}
	if other.k == kindBottom {
		return d
	}
	if d.k == kindTop || other.k == kindTop {
		return Top()
	}
	dLo, dHi := hull(d.list)
	oLo, oHi := hull(other.list)
	newLo := dLo
	if oLo.Less(dLo) {
		newLo = number.NegInf
	}
	newHi := dHi
	if dHi.Less(oHi) {
		newHi = number.PosInf
	}
	return finite(adjustEnds(d.list, newLo, newHi))
}

// Narrow recovers the precision widening gave up at the two outer ends,
// leaving interior intervals untouched.
func (d Disjunctive) Narrow(other Disjunctive) Disjunctive {
	if d.k == kindBottom || other.k == kindBottom {
		return Bottom()
	}
	if other.k == kindTop {
		return d
	}
	if d.k == kindTop {
		oLo, oHi := hull(other.list)
		return finite([]interval.Interval{interval.Range(oLo, oHi)})
	}
	dLo, dHi := hull(d.list)
	oLo, oHi := hull(other.list)
	newLo := dLo
	if dLo.IsNegInf() {
		newLo = oLo
	}
	newHi := dHi
	if dHi.IsPosInf() {
		newHi = oHi
	}
	return finite(adjustEnds(d.list, newLo, newHi))
}

// Normalize sorts by lower bound, fuses overlapping or consecutive
// intervals, drops bottom members, collapses a singleton top interval to
// Top, and collapses an over-cardinality list to its outer hull.
func (d Disjunctive) Normalize() Disjunctive {
	if d.k != kindFinite {
		return d
	}
	list := make([]interval.Interval, 0, len(d.list))
	for _, iv := range d.list {
		if !iv.IsBottom() {
			list = append(list, iv)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Lo().Less(list[j].Lo()) })

	var fused []interval.Interval
	for _, iv := range list {
		if n := len(fused); n > 0 && fuses(fused[n-1], iv) {
			fused[n-1] = fused[n-1].Join(iv)
			continue
		}
		fused = append(fused, iv)
	}

	if len(fused) == 0 {
		return Bottom()
	}
	if len(fused) == 1 && fused[0].IsTop() {
		return Top()
	}
	if len(fused) > MaxDisjunctions {
		lo, hi := hull(fused)
		fused = []interval.Interval{interval.Range(lo, hi)}
	}
	return Disjunctive{k: kindFinite, list: fused}
}

func fuses(a, b interval.Interval) bool {
	if a.Hi().IsPosInf() {
		return true
	}
	return b.Lo().LessEq(a.Hi().Inc())
}

func hull(list []interval.Interval) (lo, hi number.Bound) {
	lo, hi = list[0].Lo(), list[0].Hi()
	for _, iv := range list[1:] {
		lo = number.Min(lo, iv.Lo())
		hi = number.Max(hi, iv.Hi())
	}
	return lo, hi
}

func adjustEnds(list []interval.Interval, newLo, newHi number.Bound) []interval.Interval {
	out := make([]interval.Interval, len(list))
	copy(out, list)
	if len(out) == 1 {
		out[0] = interval.Range(newLo, newHi)
		return out
	}
	out[0] = interval.Range(newLo, out[0].Hi())
	last := len(out) - 1
	out[last] = interval.Range(out[last].Lo(), newHi)
	return out
}

func (d Disjunctive) String() string {
	switch d.k {
	case kindBottom:
		return "_|_"
	case kindTop:
		return "T"
	default:
		parts := make([]string, len(d.list))
		for i, iv := range d.list {
			parts[i] = iv.String()
		}
		return strings.Join(parts, " | ")
	}
}

var _ lattice.Domain[Disjunctive] = Disjunctive{}

// applyBinary cross-products every pair of disjuncts through f, dropping
// empty results, and normalizes the union.
func (d Disjunctive) applyBinary(other Disjunctive, f func(a, b interval.Interval) interval.Interval) Disjunctive {
	if d.k == kindBottom || other.k == kindBottom {
		return Bottom()
	}
	if d.k == kindTop || other.k == kindTop {
		return Top()
	}
	var out []interval.Interval
	for _, a := range d.list {
		for _, b := range other.list {
			r := f(a, b)
			if !r.IsBottom() {
				out = append(out, r)
			}
		}
	}
	if len(out) == 0 {
		return Bottom()
	}
	return finite(out)
}

func (d Disjunctive) Add(other Disjunctive) Disjunctive {
	return d.applyBinary(other, func(a, b interval.Interval) interval.Interval { return a.Add(b) })
}

func (d Disjunctive) Sub(other Disjunctive) Disjunctive {
	return d.applyBinary(other, func(a, b interval.Interval) interval.Interval { return a.Sub(b) })
}

func (d Disjunctive) Mul(other Disjunctive) Disjunctive {
	return d.applyBinary(other, func(a, b interval.Interval) interval.Interval { return a.Mul(b) })
}

func (d Disjunctive) DivRem(other Disjunctive) (quot, rem Disjunctive) {
	quot = d.applyBinary(other, func(a, b interval.Interval) interval.Interval { q, _ := a.DivRem(b); return q })
	rem = d.applyBinary(other, func(a, b interval.Interval) interval.Interval { _, r := a.DivRem(b); return r })
	return quot, rem
}

// Disjuncts returns a copy of the canonical interval list, or nil for
// BOT/TOP.
func (d Disjunctive) Disjuncts() []interval.Interval {
	if d.k != kindFinite {
		return nil
	}
	out := make([]interval.Interval, len(d.list))
	copy(out, d.list)
	return out
}
