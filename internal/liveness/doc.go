// Package liveness implements the standard backward kill/gen dataflow
// of spec.md §4.9 over an ir.CFG, producing for every block the set of
// variables dead at its exit: safe candidates for internal/fixpoint to
// forget from an invariant map once a block's post-state has been
// computed.
package liveness
