// Package pointer implements the points-to constraint system of
// spec.md §4.11: pointer variables carry a set of object identifiers
// plus an offset interval, related by assign/store/load constraints
// over a closed set of reference kinds (pointer+offset, object+offset,
// function id, parameter-of(function), return-of(function)). Solve
// saturates the constraint set with an outer extrapolate loop
// (join-then-widen on offsets, same ascending shape
// internal/fixpoint's component loop uses for CFG widening points) and
// an inner, iteration-capped refine loop.
package pointer
