package ir

// Block is a basic block: a label, an ordered list of statements, and
// the labels of its predecessor and successor blocks. The core treats
// blocks as read-only during a fixpoint computation (spec §5).
type Block interface {
	Label() Label
	Stmts() []Stmt
	Succs() []Label
	Preds() []Label
}

// CFG is the external contract the fixpoint iterator, liveness, and WTO
// construction are written against. A driver owns the concrete
// implementation; the core only ever calls these methods.
type CFG interface {
	Entry() Label
	// Exit returns the distinguished exit block, if the CFG has one.
	Exit() (Label, bool)
	Block(l Label) (Block, bool)
	// Blocks returns every block's label, in a stable but otherwise
	// unspecified order.
	Blocks() []Label
}

// DefUse returns the union of Defs() across every statement in a block,
// and the block's upward-exposed uses: walking the statements in order,
// a use is counted only if no earlier statement of the block defined
// that variable. It is a convenience used by
// liveness and by tests; the core's dataflow does not require it to be
// precomputed or cached by the CFG implementation.
func DefUse(b Block) (defs, uses VarSet) {
	defs = make(VarSet)
	uses = make(VarSet)
	for _, s := range b.Stmts() {
		for v := range s.Uses() {
			if !defs.Has(v) {
				uses.Add(v)
			}
		}
		for v := range s.Defs() {
			defs.Add(v)
		}
	}
	return defs, uses
}
