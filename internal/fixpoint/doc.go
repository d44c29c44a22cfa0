// Package fixpoint implements the forward fixpoint iterator of spec.md
// §4.2: it drives any lattice.Domain[D] to a stable invariant over a CFG
// by walking a weak topological order, widening at loop heads after a
// configurable delay and narrowing in a descending phase afterward.
package fixpoint
