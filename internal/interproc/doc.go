// Package interproc implements the interprocedural layer of spec.md
// §4.8: a summary table keyed by function name holding input/output
// abstract relations, a call-context table keyed by call site, and the
// call-graph ordering (reusing internal/wto's SCC machinery) that tells
// a driver which functions to summarize before which.
package interproc
