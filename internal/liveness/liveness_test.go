package liveness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rainoftime/crab/internal/cfgbuilder"
	"github.com/rainoftime/crab/internal/ir"
)

// entry: x := 1; y := 2
// b1 (loop head): assume x <= 99
// b2 (body): x := x + 1 ; z := y  -> back to b1
// exit: r := x
func buildCFG() *cfgbuilder.Graph {
	g := cfgbuilder.New(0)
	g.SetStmts(0, []ir.Stmt{
		ir.Assign{Dst: "x", Expr: ir.Const(1)},
		ir.Assign{Dst: "y", Expr: ir.Const(2)},
	})
	g.SetStmts(1, []ir.Stmt{
		ir.Assume{Constraint: ir.LinConstraint{Expr: ir.VarExpr("x").Sub(ir.Const(99)), Op: ir.LE}},
	})
	g.SetStmts(2, []ir.Stmt{
		ir.Assign{Dst: "x", Expr: ir.VarExpr("x").Add(ir.Const(1))},
		ir.Assign{Dst: "z", Expr: ir.VarExpr("y")},
	})
	g.SetStmts(3, []ir.Stmt{
		ir.Assign{Dst: "r", Expr: ir.VarExpr("x")},
	})
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(2, 1)
	g.AddEdge(1, 3)
	g.SetExit(3)
	return g
}

// The body reads y on every iteration, so y stays live across the back
// edge and is not dead at the body's exit.
func TestYStaysLiveAtBodyExitAcrossBackEdge(t *testing.T) {
	res := Analyze(buildCFG())
	assert.False(t, res.DeadAtExit(2).Has("y"))
}

func TestXStaysLiveAcrossTheLoop(t *testing.T) {
	res := Analyze(buildCFG())
	assert.True(t, res.LiveOut(1).Has("x"))
	assert.True(t, res.LiveIn(2).Has("x"))
}

func TestExitBlockHasEmptyLiveOut(t *testing.T) {
	res := Analyze(buildCFG())
	assert.Empty(t, res.LiveOut(3))
}
