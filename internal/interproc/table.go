package interproc

import (
	"github.com/rainoftime/crab/internal/ir"
	"github.com/rainoftime/crab/internal/lattice"
)

// unsatisfiable is a manifestly-false constraint used to drive a
// Numerical domain to Bottom without relying on a static Bottom()
// constructor, the same trick internal/fixpoint uses for Unreachable.
var unsatisfiable = []ir.LinConstraint{{Expr: ir.Const(1), Op: ir.LE}}

// ReturnVar names the pseudo-variable a summary's Output uses to record
// the i-th value of a (possibly multi-valued) return statement. Index 0
// is what a single-result CallSite.Dst binds to.
func ReturnVar(i int) ir.Var {
	if i == 0 {
		return "$ret"
	}
	return ir.Var("$ret" + itoa(i))
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// Summary is the input-output abstract relation computed for one
// function: Input is the abstract state at its entry (over its formals
// only), Output is the abstract state at its exit (over its formals plus
// ReturnVar(i) for each returned value), per spec.md §4.8.
type Summary[D lattice.Numerical[D]] struct {
	Input  D
	Output D
}

// Table holds the summary table (keyed by function name) and the
// call-context table (keyed by a driver-chosen call-site key, typically
// "<caller>@<label>") spec.md §4.8 describes.
type Table[D lattice.Numerical[D]] struct {
	summaries map[string]Summary[D]
	contexts  map[string]D
}

// NewTable returns an empty table.
func NewTable[D lattice.Numerical[D]]() *Table[D] {
	return &Table[D]{summaries: map[string]Summary[D]{}, contexts: map[string]D{}}
}

// Lookup returns the cached summary for fn, if any.
func (t *Table[D]) Lookup(fn string) (Summary[D], bool) {
	s, ok := t.summaries[fn]
	return s, ok
}

// Store records (or overwrites) fn's summary.
func (t *Table[D]) Store(fn string, s Summary[D]) {
	t.summaries[fn] = s
}

// Context returns the cached caller-side context for a call site, if any.
func (t *Table[D]) Context(site string) (D, bool) {
	d, ok := t.contexts[site]
	return d, ok
}

// SetContext records the caller-side context a call site was last
// analyzed under, so a driver can detect when a recursive call needs a
// fresh (widened) summary rather than a cache hit.
func (t *Table[D]) SetContext(site string, d D) {
	t.contexts[site] = d
}

// InputContext projects caller's abstract state onto args, renaming
// the i-th actual to the i-th formal: formal i is assigned the current
// value of args[i] within a clone of caller, so any relational fact
// caller holds between two actuals is preserved between the
// corresponding formals. Only the first min(len(formals), len(args))
// pairs are assigned; any further formal keeps whatever caller's state
// already says about it.
func InputContext[D lattice.Numerical[D]](caller D, formals, args []ir.Var) D {
	out := caller
	n := len(formals)
	if len(args) < n {
		n = len(args)
	}
	for i := 0; i < n; i++ {
		out = out.Assign(formals[i], ir.VarExpr(args[i]))
	}
	return out
}

// BuildOutput turns a callee's exit state into a summary's Output:
// each returned value is renamed to ReturnVar(i), then every local
// variable that is neither a formal nor a return value is forgotten so
// the summary mentions nothing private to the callee's body.
func BuildOutput[D lattice.Numerical[D]](exit D, returns []ir.Var, locals []ir.Var) D {
	out := exit
	for i, v := range returns {
		out = out.Assign(ReturnVar(i), ir.VarExpr(v))
	}
	for _, l := range locals {
		out = out.Forget(l)
	}
	return out
}

// ApplyCall implements the call-handling step of spec.md §4.8 for
// `dst := f(args...)`: summary.Output's knowledge of ReturnVar(0) is
// read back as a Range and intersected onto dst in caller's own state,
// after forgetting dst's old value. Caller's other variables, including
// args themselves, pass through untouched: this IR's calls are by value,
// so nothing a callee does to its formals is observable by the caller
// beyond the returned value.
func ApplyCall[D lattice.Numerical[D]](caller D, dst ir.Var, summary Summary[D]) D {
	if summary.Output.IsBottom() {
		return caller.AddConstraints(unsatisfiable)
	}
	out := caller
	if dst == "" {
		return out
	}
	out = out.Forget(dst)
	return constrainRange(out, dst, summary.Output.At(ReturnVar(0)))
}

// constrainRange intersects x's current value with r by adding the
// linear constraints r's finite endpoints imply.
func constrainRange[D lattice.Numerical[D]](d D, x ir.Var, r lattice.Range) D {
	var cs []ir.LinConstraint
	if r.Lo.Finite {
		cs = append(cs, ir.LinConstraint{Expr: ir.VarExpr(x).Scale(-1).Add(ir.Const(r.Lo.Value)), Op: ir.LE})
	}
	if r.Hi.Finite {
		cs = append(cs, ir.LinConstraint{Expr: ir.VarExpr(x).Add(ir.Const(-r.Hi.Value)), Op: ir.LE})
	}
	if len(cs) == 0 {
		return d
	}
	return d.AddConstraints(cs)
}
