package liveness

import (
	"github.com/rainoftime/crab/internal/ir"
	"github.com/rainoftime/crab/internal/wto"
)

// Result holds the outcome of an Analyze call. It keeps the live-in and
// live-out sets of every block alongside the dead-at-exit sets; none of
// them is released after Analyze returns, and all three are queryable
// through LiveIn, LiveOut, and DeadAtExit.
type Result struct {
	liveIn  map[ir.Label]ir.VarSet
	liveOut map[ir.Label]ir.VarSet
	dead    map[ir.Label]ir.VarSet
}

// LiveIn returns the variables live on entry to block l.
func (r *Result) LiveIn(l ir.Label) ir.VarSet { return r.liveIn[l] }

// LiveOut returns the variables live on exit from block l.
func (r *Result) LiveOut(l ir.Label) ir.VarSet { return r.liveOut[l] }

// DeadAtExit returns the variables used somewhere in block l that are
// not live past it: safe to forget from an abstract state once l's
// transformer has run.
func (r *Result) DeadAtExit(l ir.Label) ir.VarSet { return r.dead[l] }

// Analyze computes liveness over every block reachable from cfg's entry.
// Each pass visits every block once in reverse topological order, and
// passes repeat until no block's live-in or live-out set changes. There
// is no separate inner loop per strongly connected component: every
// pass covers the whole graph.
func Analyze(cfg ir.CFG) *Result {
	order := wto.ReverseTopological(cfg)
	liveIn := make(map[ir.Label]ir.VarSet, len(order))
	liveOut := make(map[ir.Label]ir.VarSet, len(order))
	for _, l := range order {
		liveIn[l] = ir.NewVarSet()
		liveOut[l] = ir.NewVarSet()
	}

	changed := true
	for changed {
		changed = false
		for _, l := range order {
			blk, ok := cfg.Block(l)
			if !ok {
				continue
			}
			out := ir.NewVarSet()
			for _, succ := range blk.Succs() {
				out = out.Union(liveIn[succ])
			}
			defs, gen := ir.DefUse(blk)
			in := gen.Union(out.Minus(defs))
			if !setEqual(liveOut[l], out) || !setEqual(liveIn[l], in) {
				changed = true
			}
			liveOut[l] = out
			liveIn[l] = in
		}
	}

	dead := make(map[ir.Label]ir.VarSet, len(order))
	for _, l := range order {
		blk, ok := cfg.Block(l)
		if !ok {
			continue
		}
		allUses := ir.NewVarSet()
		for _, s := range blk.Stmts() {
			for v := range s.Uses() {
				allUses.Add(v)
			}
		}
		dead[l] = allUses.Minus(liveOut[l])
	}

	return &Result{liveIn: liveIn, liveOut: liveOut, dead: dead}
}

func setEqual(a, b ir.VarSet) bool {
	if len(a) != len(b) {
		return false
	}
	for v := range a {
		if !b.Has(v) {
			return false
		}
	}
	return true
}
