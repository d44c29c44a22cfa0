// Package disjunctive implements the disjunctive-interval domain of
// spec.md §4.4: a value is BOT, TOP, or a finite, strictly sorted,
// pairwise non-overlapping, non-consecutive sequence of intervals, with
// cardinality capped by MaxDisjunctions (collapsing to the outer hull on
// overflow).
//
// Like internal/interval, this package only defines the per-variable
// element; NonRelational in numerical.go composes many of them, through
// internal/separate, into a full numerical domain.
package disjunctive
