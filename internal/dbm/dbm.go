package dbm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rainoftime/crab/internal/ir"
	"github.com/rainoftime/crab/internal/lattice"
	"github.com/rainoftime/crab/internal/number"
)

// DBM is a closed system of difference constraints, or Bottom when bot
// is set.
type DBM struct {
	bot     bool
	n       int // tracked variables, excluding the zero pseudo-variable
	matrix  []number.Bound
	varIdx  map[ir.Var]int
	varName []ir.Var // varName[i-1] is the variable at index i
}

// Bottom is the infeasible system.
func Bottom() DBM { return DBM{bot: true} }

// Top is the empty constraint system.
func Top() DBM {
	return DBM{n: 0, matrix: []number.Bound{number.Zero}, varIdx: map[ir.Var]int{}}
}

func (d DBM) dim() int { return d.n + 1 }

func (d DBM) at(i, j int) number.Bound { return d.matrix[i*d.dim()+j] }

func (d *DBM) setAt(i, j int, v number.Bound) { d.matrix[i*d.dim()+j] = v }

func (d DBM) clone() DBM {
	out := DBM{
		n:       d.n,
		matrix:  make([]number.Bound, len(d.matrix)),
		varIdx:  make(map[ir.Var]int, len(d.varIdx)),
		varName: make([]ir.Var, len(d.varName)),
	}
	copy(out.matrix, d.matrix)
	for k, v := range d.varIdx {
		out.varIdx[k] = v
	}
	copy(out.varName, d.varName)
	return out
}

// growVar returns v's index, allocating a fresh row/column (initialized
// to +inf off the diagonal, 0 on it) if v is new. d must already be an
// exclusively owned value (freshly cloned).
func (d *DBM) growVar(v ir.Var) int {
	if idx, ok := d.varIdx[v]; ok {
		return idx
	}
	oldDim := d.dim()
	d.n++
	newDim := d.dim()
	grown := make([]number.Bound, newDim*newDim)
	for i := 0; i < newDim; i++ {
		for j := 0; j < newDim; j++ {
			switch {
			case i == j:
				grown[i*newDim+j] = number.Zero
			case i < oldDim && j < oldDim:
				grown[i*newDim+j] = d.matrix[i*oldDim+j]
			default:
				grown[i*newDim+j] = number.PosInf
			}
		}
	}
	d.matrix = grown
	idx := d.n
	if d.varIdx == nil {
		d.varIdx = map[ir.Var]int{}
	}
	d.varIdx[v] = idx
	d.varName = append(d.varName, v)
	return idx
}

func (d DBM) IsBottom() bool { return d.bot }

func (d DBM) IsTop() bool {
	if d.bot {
		return false
	}
	dim := d.dim()
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			if i != j && !d.at(i, j).IsPosInf() {
				return false
			}
		}
	}
	return true
}

func (d DBM) Leq(other DBM) bool {
	a, b := d.Normalize(), other.Normalize()
	if a.bot {
		return true
	}
	if b.bot {
		return false
	}
	ua, ub := unify(a, b)
	dim := ua.dim()
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			if !ua.at(i, j).LessEq(ub.at(i, j)) {
				return false
			}
		}
	}
	return true
}

func (d DBM) Join(other DBM) DBM {
	a, b := d.Normalize(), other.Normalize()
	if a.bot {
		return b
	}
	if b.bot {
		return a
	}
	ua, ub := unify(a, b)
	out := ua.clone()
	dim := out.dim()
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			out.setAt(i, j, number.Max(ua.at(i, j), ub.at(i, j)))
		}
	}
	return out
}

func (d DBM) Meet(other DBM) DBM {
	if d.bot || other.bot {
		return Bottom()
	}
	ua, ub := unify(d, other)
	out := ua.clone()
	dim := out.dim()
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			out.setAt(i, j, number.Min(ua.at(i, j), ub.at(i, j)))
		}
	}
	return out.closure()
}

func (d DBM) Widen(other DBM) DBM {
	if d.bot {
		return other
	}
	if other.bot {
		return d
	}
	ua, ub := unify(d, other)
	out := ua.clone()
	dim := out.dim()
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			if !ub.at(i, j).LessEq(ua.at(i, j)) {
				out.setAt(i, j, number.PosInf)
			}
		}
	}
	return out
}

func (d DBM) Narrow(other DBM) DBM {
	if d.bot || other.bot {
		return Bottom()
	}
	ua, ub := unify(d, other)
	out := ua.clone()
	dim := out.dim()
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			if ua.at(i, j).IsPosInf() {
				out.setAt(i, j, ub.at(i, j))
			}
		}
	}
	return out.closure()
}

// Normalize re-runs shortest-path closure, detecting infeasibility from
// a negative self-loop.
func (d DBM) Normalize() DBM { return d.closure() }

func (d DBM) closure() DBM {
	if d.bot {
		return d
	}
	out := d.clone()
	dim := out.dim()
	for k := 0; k < dim; k++ {
		for i := 0; i < dim; i++ {
			ik := out.at(i, k)
			if ik.IsPosInf() {
				continue
			}
			for j := 0; j < dim; j++ {
				kj := out.at(k, j)
				if kj.IsPosInf() {
					continue
				}
				cand := ik.Add(kj)
				if cand.Less(out.at(i, j)) {
					out.setAt(i, j, cand)
				}
			}
		}
	}
	for i := 0; i < dim; i++ {
		if out.at(i, i).Less(number.Zero) {
			return Bottom()
		}
	}
	return out
}

func (d DBM) String() string {
	if d.bot {
		return "_|_"
	}
	if d.IsTop() {
		return "T"
	}
	name := func(i int) string {
		if i == 0 {
			return "0"
		}
		return string(d.varName[i-1])
	}
	var edges []string
	dim := d.dim()
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			if i == j {
				continue
			}
			v := d.at(i, j)
			if v.IsPosInf() {
				continue
			}
			edges = append(edges, fmt.Sprintf("%s - %s <= %s", name(j), name(i), v.String()))
		}
	}
	sort.Strings(edges)
	return "{" + strings.Join(edges, ", ") + "}"
}

// Zero is the pseudo-variable standing for the constant 0 in Get/Set, the
// same role index 0 plays internally.
const Zero ir.Var = ""

func idxFor(d DBM, v ir.Var) (int, bool) {
	if v == Zero {
		return 0, true
	}
	idx, ok := d.varIdx[v]
	return idx, ok
}

// Get returns the tightest known bound c on i - j <= c, or +inf if no such
// bound is tracked. A bottom DBM reports -inf, since the empty point set
// satisfies every bound vacuously.
func (d DBM) Get(i, j ir.Var) number.Bound {
	if d.bot {
		return number.NegInf
	}
	ii, iok := idxFor(d, i)
	jj, jok := idxFor(d, j)
	if !iok || !jok {
		return number.PosInf
	}
	return d.at(jj, ii)
}

// Set writes the cell for i - j <= c directly, growing the matrix to track
// i and j if either is new. It does not re-run closure; callers that need
// a consistent system should call Normalize afterward.
func (d DBM) Set(i, j ir.Var, c number.Bound) DBM {
	if d.bot {
		return d
	}
	out := d.clone()
	ii := out.ensureIdx(i)
	jj := out.ensureIdx(j)
	out.setAt(jj, ii, c)
	return out
}

func (d *DBM) ensureIdx(v ir.Var) int {
	if v == Zero {
		return 0
	}
	return d.growVar(v)
}

var _ lattice.Domain[DBM] = DBM{}

func unify(a, b DBM) (DBM, DBM) {
	universe, idx := buildUniverse(a, b)
	return rebuild(a, universe, idx), rebuild(b, universe, idx)
}

func buildUniverse(a, b DBM) ([]ir.Var, map[ir.Var]int) {
	seen := make(map[ir.Var]struct{}, len(a.varName)+len(b.varName))
	var universe []ir.Var
	for _, v := range a.varName {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			universe = append(universe, v)
		}
	}
	for _, v := range b.varName {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			universe = append(universe, v)
		}
	}
	idx := make(map[ir.Var]int, len(universe))
	for i, v := range universe {
		idx[v] = i + 1
	}
	return universe, idx
}

func rebuild(d DBM, universe []ir.Var, idx map[ir.Var]int) DBM {
	m := len(universe)
	dim := m + 1
	out := DBM{n: m, matrix: make([]number.Bound, dim*dim), varIdx: idx, varName: append([]ir.Var{}, universe...)}
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			if i == j {
				out.matrix[i*dim+j] = number.Zero
			} else {
				out.matrix[i*dim+j] = number.PosInf
			}
		}
	}
	if d.bot {
		return out
	}
	dDim := d.dim()
	for i := 0; i < dDim; i++ {
		for j := 0; j < dDim; j++ {
			if i == j {
				continue
			}
			v := d.at(i, j)
			if v.IsPosInf() {
				continue
			}
			oi := remapIndex(d, i, idx)
			oj := remapIndex(d, j, idx)
			out.matrix[oi*dim+oj] = v
		}
	}
	return out
}

func remapIndex(d DBM, i int, idx map[ir.Var]int) int {
	if i == 0 {
		return 0
	}
	return idx[d.varName[i-1]]
}
