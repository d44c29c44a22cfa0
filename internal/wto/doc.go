// Package wto computes weak topological orders over a control-flow
// graph by Bourdoncle's recursive partitioning algorithm (spec.md §4.10,
// §4.2 step 1): a nested sequence of elements where every strongly
// connected component is collapsed under a single designated head, with
// a further weak topological order computed recursively over the rest
// of the component.
//
// internal/fixpoint walks the result to decide where to apply widening
// (component heads) and in what order to visit the rest of the graph.
package wto
