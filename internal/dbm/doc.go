// Package dbm implements the difference-bound-matrix relational domain
// of spec.md §3/§4.5: a system of constraints x_j - x_i <= c closed
// under shortest paths by Floyd-Warshall.
//
// Variables are identified by small integer indices allocated lazily as
// they are first constrained; index 0 is the implicit "zero" variable
// used to encode absolute bounds (x - 0 <= c means x <= c; 0 - x <= c
// means x >= -c). A negative self-loop after closure means the system is
// infeasible, i.e. Bottom.
package dbm
