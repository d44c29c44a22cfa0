package fixpoint

import (
	"go.uber.org/zap"

	"github.com/rainoftime/crab/internal/ir"
	"github.com/rainoftime/crab/internal/lattice"
	"github.com/rainoftime/crab/internal/liveness"
	"github.com/rainoftime/crab/internal/wto"
)

// forgetful is implemented by any domain the liveness-based forget pass
// can act on; lattice.Numerical domains satisfy it automatically.
type forgetful[D any] interface {
	Forget(x ir.Var) D
}

// Options configures Run. Every field is optional; the zero value runs
// with widening delay 1, an unbounded descending phase, no liveness
// pruning and no logging.
type Options struct {
	// WidenDelay is the number of plain-join rounds at a loop head
	// before Run switches to widen (spec.md §4.2's D). Zero means 1.
	WidenDelay int
	// NarrowCap bounds the descending phase's round count (spec.md
	// §4.2's N). Zero or negative means unbounded.
	NarrowCap int
	// Logger, when non-nil, receives one Debug record per widening
	// round and per descending round.
	Logger *zap.Logger
	// Liveness, when non-nil, makes Run forget every variable
	// liveness.Result.DeadAtExit reports for a block once that block's
	// transformer has run.
	Liveness *liveness.Result
}

// Result holds the invariant maps Run produces: the abstract state on
// entry to (Pre) and exit from (Post) every block Run visited.
type Result[D lattice.Domain[D]] struct {
	Pre, Post map[ir.Label]D
}

// Run computes a forward fixpoint of tf over cfg starting from seed at
// the entry block (spec.md §4.2).
func Run[D lattice.Domain[D]](cfg ir.CFG, tf Transformer[D], seed D, opts Options) Result[D] {
	r := &runner[D]{
		cfg:        cfg,
		tf:         tf,
		seed:       seed,
		entry:      cfg.Entry(),
		widenDelay: opts.WidenDelay,
		narrowCap:  opts.NarrowCap,
		logger:     opts.Logger,
		live:       opts.Liveness,
		pre:        map[ir.Label]D{},
		post:       map[ir.Label]D{},
	}
	if r.widenDelay <= 0 {
		r.widenDelay = 1
	}
	r.runAll(wto.Build(cfg))
	return Result[D]{Pre: r.pre, Post: r.post}
}

type runner[D lattice.Domain[D]] struct {
	cfg        ir.CFG
	tf         Transformer[D]
	seed       D
	entry      ir.Label
	widenDelay int
	narrowCap  int
	logger     *zap.Logger
	live       *liveness.Result
	pre, post  map[ir.Label]D
}

func (r *runner[D]) runAll(elems []wto.Element) {
	for _, e := range elems {
		if e.IsSCC {
			r.runComponent(e)
		} else {
			r.runVertex(e.Head)
		}
	}
}

// runVertex handles a plain (acyclic) block: one pre/post write, no
// widening or narrowing.
func (r *runner[D]) runVertex(l ir.Label) {
	p := r.joinPreds(l)
	r.pre[l] = p
	r.post[l] = r.execBlock(l, p)
}

// runComponent drives a cyclic component to a fixpoint at its head, then
// descends with narrowing, propagating through the nested WTO on every
// round exactly as a plain pass would.
func (r *runner[D]) runComponent(e wto.Element) {
	h := e.Head
	var oldPre D
	haveOld := false
	k := 0
	for {
		newPre := r.joinPreds(h)
		cur := newPre
		switch {
		case !haveOld:
			cur = newPre
		case k < r.widenDelay:
			cur = oldPre.Join(newPre)
		default:
			cur = oldPre.Widen(newPre)
		}
		r.pre[h] = cur
		r.post[h] = r.execBlock(h, cur)
		r.runAll(e.Nested)
		r.logRound("widen", h, k, cur)

		stable := haveOld && cur.Leq(oldPre)
		oldPre, haveOld = cur, true
		k++
		if stable {
			break
		}
	}

	rounds := 0
	for r.narrowCap <= 0 || rounds < r.narrowCap {
		newPre := r.joinPreds(h)
		narrowed := r.pre[h].Narrow(newPre)
		fixed := oldPre.Leq(narrowed)
		r.pre[h] = narrowed
		r.post[h] = r.execBlock(h, narrowed)
		r.runAll(e.Nested)
		r.logRound("narrow", h, rounds, narrowed)
		oldPre = narrowed
		rounds++
		if fixed {
			break
		}
	}
}

// joinPreds is the join of every already-computed predecessor post-state,
// seeded with the entry value when l is the CFG's entry block.
func (r *runner[D]) joinPreds(l ir.Label) D {
	var acc D
	have := false
	if l == r.entry {
		acc, have = r.seed, true
	}
	blk, ok := r.cfg.Block(l)
	if !ok {
		return acc
	}
	for _, p := range blk.Preds() {
		v, ok := r.post[p]
		if !ok {
			continue
		}
		if !have {
			acc, have = v, true
			continue
		}
		acc = acc.Join(v)
	}
	return acc
}

func (r *runner[D]) execBlock(l ir.Label, pre D) D {
	blk, ok := r.cfg.Block(l)
	if !ok {
		return pre
	}
	cur := pre
	for _, stmt := range blk.Stmts() {
		cur = r.tf.Exec(cur, stmt)
	}
	if r.live != nil {
		if fg, ok := any(cur).(forgetful[D]); ok {
			for v := range r.live.DeadAtExit(l) {
				cur = fg.Forget(v)
			}
		}
	}
	return cur
}

func (r *runner[D]) logRound(phase string, h ir.Label, round int, d D) {
	if r.logger == nil {
		return
	}
	r.logger.Debug("fixpoint round",
		zap.String("phase", phase),
		zap.Int("head", int(h)),
		zap.Int("round", round),
		zap.String("state", d.String()),
	)
}
