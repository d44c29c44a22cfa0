// Package separate implements the separate (a.k.a. reduced-product-free
// non-relational) domain functor of spec.md §4.1: given any element
// lattice E, Map[E] tracks one E per variable and lifts Join, Meet,
// Widen, Narrow and Leq to act pointwise, with an untracked variable
// implicitly mapped to E's top.
//
// Map itself only composes E's Domain[E] operations; it says nothing
// about arithmetic. NonRelational adds the numerical layer (Assign,
// Forget, AddConstraints, Apply) on top of Map[interval.Interval]
// specifically, since evaluating a linear expression or propagating a
// constraint through a map of elements requires E to support arithmetic,
// which only the numerical element domains provide (interval here;
// disjunctive intervals have their own disjunctive.NonRelational).
package separate
