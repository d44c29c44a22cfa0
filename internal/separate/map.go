package separate

import (
	"sort"
	"strings"

	"github.com/rainoftime/crab/internal/ir"
	"github.com/rainoftime/crab/internal/lattice"
)

// Map tracks one E per variable; a variable absent from the map is
// implicitly bound to E's Top. A nil/zero Map with bot set is the
// domain's Bottom.
type Map[E lattice.Domain[E]] struct {
	bot    bool
	bottom E // the E zero value is meaningless; callers supply Bottom/Top via Empty
	top    E
	vals   map[ir.Var]E
}

// Empty returns the Top element of Map[E]: every variable implicitly
// bound to top. Callers must pass E's own Bottom() and Top() values
// since Go generics give no way to call a static "zero-arg constructor"
// on a type parameter.
func Empty[E lattice.Domain[E]](bottom, top E) Map[E] {
	return Map[E]{bottom: bottom, top: top, vals: map[ir.Var]E{}}
}

// BottomOf returns the Bottom element of Map[E].
func BottomOf[E lattice.Domain[E]](bottom, top E) Map[E] {
	return Map[E]{bot: true, bottom: bottom, top: top}
}

func (m Map[E]) IsBottom() bool { return m.bot }

func (m Map[E]) IsTop() bool {
	if m.bot {
		return false
	}
	for _, v := range m.vals {
		if !v.IsTop() {
			return false
		}
	}
	return true
}

// Get returns the element tracked for v, or top if v is untracked.
func (m Map[E]) Get(v ir.Var) E {
	if m.bot {
		return m.bottom
	}
	if e, ok := m.vals[v]; ok {
		return e
	}
	return m.top
}

// Set returns a copy of m with v bound to e (dropped back to implicit
// top if e.IsTop(), to keep the map's size proportional to the number of
// constrained variables rather than the number of variables ever seen).
func (m Map[E]) Set(v ir.Var, e E) Map[E] {
	if m.bot {
		return m
	}
	if e.IsBottom() {
		return BottomOf(m.bottom, m.top)
	}
	out := m.clone()
	if e.IsTop() {
		delete(out.vals, v)
	} else {
		out.vals[v] = e
	}
	return out
}

// Forget drops any constraint on v.
func (m Map[E]) Forget(v ir.Var) Map[E] {
	if m.bot {
		return m
	}
	out := m.clone()
	delete(out.vals, v)
	return out
}

func (m Map[E]) clone() Map[E] {
	out := Map[E]{bottom: m.bottom, top: m.top, vals: make(map[ir.Var]E, len(m.vals))}
	for k, v := range m.vals {
		out.vals[k] = v
	}
	return out
}

func (m Map[E]) keyUnion(other Map[E]) []ir.Var {
	seen := make(map[ir.Var]struct{}, len(m.vals)+len(other.vals))
	for k := range m.vals {
		seen[k] = struct{}{}
	}
	for k := range other.vals {
		seen[k] = struct{}{}
	}
	out := make([]ir.Var, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	return out
}

func (m Map[E]) Leq(other Map[E]) bool {
	if m.bot {
		return true
	}
	if other.bot {
		return false
	}
	for _, v := range m.keyUnion(other) {
		if !m.Get(v).Leq(other.Get(v)) {
			return false
		}
	}
	return true
}

func (m Map[E]) Join(other Map[E]) Map[E] {
	if m.bot {
		return other
	}
	if other.bot {
		return m
	}
	out := Empty(m.bottom, m.top)
	for _, v := range m.keyUnion(other) {
		out = out.Set(v, m.Get(v).Join(other.Get(v)))
	}
	return out
}

func (m Map[E]) Meet(other Map[E]) Map[E] {
	if m.bot || other.bot {
		return BottomOf(m.bottom, m.top)
	}
	out := Empty(m.bottom, m.top)
	for _, v := range m.keyUnion(other) {
		e := m.Get(v).Meet(other.Get(v))
		if e.IsBottom() {
			return BottomOf(m.bottom, m.top)
		}
		out = out.Set(v, e)
	}
	return out
}

func (m Map[E]) Widen(other Map[E]) Map[E] {
	if m.bot {
		return other
	}
	if other.bot {
		return m
	}
	out := Empty(m.bottom, m.top)
	for _, v := range m.keyUnion(other) {
		out = out.Set(v, m.Get(v).Widen(other.Get(v)))
	}
	return out
}

func (m Map[E]) Narrow(other Map[E]) Map[E] {
	if m.bot || other.bot {
		return BottomOf(m.bottom, m.top)
	}
	out := Empty(m.bottom, m.top)
	for _, v := range m.keyUnion(other) {
		out = out.Set(v, m.Get(v).Narrow(other.Get(v)))
	}
	return out
}

func (m Map[E]) Normalize() Map[E] {
	if m.bot {
		return m
	}
	out := m.clone()
	for k, v := range out.vals {
		out.vals[k] = v.Normalize()
	}
	return out
}

func (m Map[E]) String() string {
	if m.bot {
		return "_|_"
	}
	if len(m.vals) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(m.vals))
	for k := range m.vals {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteString(" -> ")
		b.WriteString(m.vals[ir.Var(k)].String())
	}
	b.WriteByte('}')
	return b.String()
}
