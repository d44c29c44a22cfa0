// Package ir defines the three-address statement kinds, linear
// expressions and constraints, and the control-flow-graph contract that
// the abstract-interpretation core consumes.
//
// The core never constructs a CFG itself: a driver builds one (from a
// textual front-end, an SSA form, whatever) and hands the core a value
// satisfying the CFG interface below. This package specifies only what
// the core needs from that external collaborator, plus the closed set of
// statement kinds every abstract transformer must handle:
//
//   - Variable and label identity (Var, Label).
//   - Linear expressions and constraints over variables.
//   - The Stmt interface and its concrete kinds.
//   - The Block and CFG interfaces.
package ir
