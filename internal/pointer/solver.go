package pointer

import (
	"go.uber.org/zap"

	"github.com/rainoftime/crab/internal/diag"
	"github.com/rainoftime/crab/internal/interval"
	"github.com/rainoftime/crab/internal/ir"
)

// Options configures Solve: WidenThreshold is the number of plain-join
// rounds the outer extrapolate loop runs before it starts widening
// offsets; NarrowCap is the fixed number of refine rounds run
// afterward. Non-positive values fall back to 1. Logger, when non-nil,
// receives one Debug record per extrapolate and per narrow round.
type Options struct {
	WidenThreshold int
	NarrowCap      int
	Logger         *zap.Logger
}

func (o Options) normalize() Options {
	if o.WidenThreshold <= 0 {
		o.WidenThreshold = 1
	}
	if o.NarrowCap <= 0 {
		o.NarrowCap = 1
	}
	return o
}

// Solver is a single saturating points-to constraint system (spec.md
// §4.11): add every constraint with AddConstraint, call Solve once,
// then Query each pointer variable of interest.
type Solver struct {
	pts         map[ir.Var]PointsTo
	objPts      map[Object]PointsTo
	paramPts    map[string]map[int]PointsTo
	returnPts   map[string]PointsTo
	constraints []Constraint
	Diagnostics []diag.Diagnostic
}

// New returns an empty solver: every points-to set starts empty and
// every offset starts at Bottom, per spec.md §4.11 step 1.
func New() *Solver {
	return &Solver{
		pts:       map[ir.Var]PointsTo{},
		objPts:    map[Object]PointsTo{},
		paramPts:  map[string]map[int]PointsTo{},
		returnPts: map[string]PointsTo{},
	}
}

// AddConstraint records a points-to constraint to be applied on the
// next Solve.
func (s *Solver) AddConstraint(c Constraint) { s.constraints = append(s.constraints, c) }

// Query returns the objects a pointer variable may denote and the
// offset interval it may be into each of them. An unconstrained
// variable reports no objects and a Bottom offset: nothing has ever
// proven it holds a value.
func (s *Solver) Query(v ir.Var) (map[Object]struct{}, interval.Interval) {
	p := s.get(s.pts, v)
	return p.Objects, p.Offset
}

func (s *Solver) get(m map[ir.Var]PointsTo, v ir.Var) PointsTo {
	if p, ok := m[v]; ok {
		return p
	}
	return bottomPointsTo()
}

func (s *Solver) getParam(fn string, i int) PointsTo {
	if p, ok := s.paramPts[fn][i]; ok {
		return p
	}
	return bottomPointsTo()
}

func (s *Solver) getReturn(fn string) PointsTo {
	if p, ok := s.returnPts[fn]; ok {
		return p
	}
	return bottomPointsTo()
}

func (s *Solver) getObj(o Object) PointsTo {
	if p, ok := s.objPts[o]; ok {
		return p
	}
	return bottomPointsTo()
}

// combine is the offset-merge rule for one round: extrapolate's rule
// (join until WidenThreshold rounds, then widen) or refine's rule (a
// smaller offset replaces, otherwise join).
type combine func(old, contribution interval.Interval) interval.Interval

func joinUntil(round, threshold int) combine {
	return func(old, contribution interval.Interval) interval.Interval {
		joined := old.Join(contribution)
		if round <= threshold {
			return joined
		}
		return old.Widen(joined)
	}
}

func refineRule(old, contribution interval.Interval) interval.Interval {
	if contribution.Leq(old) {
		return contribution
	}
	return old.Join(contribution)
}

// Solve saturates the constraint set: an outer extrapolate loop
// (join-then-widen on offsets, same ascending shape
// internal/fixpoint's component loop uses for CFG widening points)
// repeated until no constraint changes anything, followed by a fixed
// number of refine rounds that never check for convergence, per
// spec.md §4.11 steps 2-3.
func (s *Solver) Solve(opts Options) {
	opts = opts.normalize()

	for round := 1; ; round++ {
		changed := s.pass(joinUntil(round, opts.WidenThreshold))
		s.logRound(opts.Logger, "extrapolate", round, changed)
		if !changed {
			break
		}
	}
	for i := 0; i < opts.NarrowCap; i++ {
		changed := s.pass(refineRule)
		s.logRound(opts.Logger, "narrow", i, changed)
	}
}

func (s *Solver) logRound(logger *zap.Logger, phase string, round int, changed bool) {
	if logger == nil {
		return
	}
	logger.Debug("pointer solve round",
		zap.String("phase", phase),
		zap.Int("round", round),
		zap.Bool("changed", changed),
	)
}

// pass applies every constraint once and reports whether anything
// changed.
func (s *Solver) pass(merge combine) bool {
	changed := false
	for _, c := range s.constraints {
		switch c.Kind {
		case Assign:
			if s.mergeVar(c.Lhs, s.resolve(c.Ref), merge) {
				changed = true
			}
		case Load:
			if !c.Ref.derefable() {
				s.reject(c, "load dereferences a function or object literal")
				continue
			}
			if s.mergeVar(c.Lhs, s.derefRead(c.Ref), merge) {
				changed = true
			}
		case Store:
			if !c.Ref.derefable() {
				s.reject(c, "store dereferences a function or object literal")
				continue
			}
			if s.derefWrite(c.Ref, s.get(s.pts, c.Rhs), merge) {
				changed = true
			}
		}
	}
	return changed
}

func (s *Solver) reject(c Constraint, msg string) {
	construct := c.String()
	for _, d := range s.Diagnostics {
		if d.Construct == construct && d.Message == msg {
			return
		}
	}
	s.Diagnostics = append(s.Diagnostics, *diag.New(diag.ProgrammerError, "pointer", construct, msg))
}

// resolve evaluates a Ref to the PointsTo value it denotes when used
// as the right-hand side of an assign or as the value written through
// a store.
func (s *Solver) resolve(r Ref) PointsTo {
	switch r.Kind {
	case RefPointer:
		base := s.get(s.pts, r.Var)
		return PointsTo{Objects: base.Objects, Offset: base.Offset.Add(r.Offset)}
	case RefObject:
		return PointsTo{Objects: map[Object]struct{}{r.Object: {}}, Offset: r.Offset}
	case RefFunc:
		return singleton(Object("func:"+r.Func), interval.Point(0))
	case RefParam:
		return s.getParam(r.Func, r.Param)
	case RefReturn:
		return s.getReturn(r.Func)
	default:
		return bottomPointsTo()
	}
}

// derefRead reads the objects ref denotes, returning the join of what
// each of those objects' shared cell currently holds.
func (s *Solver) derefRead(r Ref) PointsTo {
	target := s.resolve(r)
	out := bottomPointsTo()
	for o := range target.Objects {
		cell := s.getObj(o)
		out = PointsTo{Objects: out.union(cell), Offset: out.Offset.Join(cell.Offset)}
	}
	return out
}

// derefWrite joins value into every object ref denotes's shared cell.
func (s *Solver) derefWrite(r Ref, value PointsTo, merge combine) bool {
	target := s.resolve(r)
	changed := false
	for o := range target.Objects {
		old := s.getObj(o)
		next := PointsTo{Objects: old.union(value), Offset: merge(old.Offset, value.Offset)}
		if !value.leq(old) {
			changed = true
		}
		s.objPts[o] = next
	}
	return changed
}

func (s *Solver) mergeVar(v ir.Var, contribution PointsTo, merge combine) bool {
	old := s.get(s.pts, v)
	next := PointsTo{Objects: old.union(contribution), Offset: merge(old.Offset, contribution.Offset)}
	changed := !contribution.leq(old)
	s.pts[v] = next
	return changed
}

// SetParam seeds the abstract pointee flowing into a function's i-th
// formal parameter, the escape edge a driver wires up at a call site
// without needing the full interprocedural layer.
func (s *Solver) SetParam(fn string, i int, value PointsTo) {
	if s.paramPts[fn] == nil {
		s.paramPts[fn] = map[int]PointsTo{}
	}
	old := s.getParam(fn, i)
	s.paramPts[fn][i] = PointsTo{Objects: old.union(value), Offset: old.Offset.Join(value.Offset)}
}

// SetReturn joins value into fn's return-of points-to.
func (s *Solver) SetReturn(fn string, value PointsTo) {
	old := s.getReturn(fn)
	s.returnPts[fn] = PointsTo{Objects: old.union(value), Offset: old.Offset.Join(value.Offset)}
}
