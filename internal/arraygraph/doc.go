// Package arraygraph implements the array-graph relational domain of
// spec.md §4.6: a reduced product of a scalar numerical sub-domain and a
// weighted graph over array-index variables, where an edge i -> j with
// weight w means w holds pointwise for array positions in [i, j).
package arraygraph
