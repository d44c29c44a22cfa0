package dbm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rainoftime/crab/internal/ir"
	"github.com/rainoftime/crab/internal/lattice"
	"github.com/rainoftime/crab/internal/number"
)

func TestDomainLaws(t *testing.T) {
	a := Top().Assign("x", ir.Const(0)).Assign("y", ir.Const(5))
	b := Top().AddConstraints([]ir.LinConstraint{
		{Expr: ir.VarExpr("x").Sub(ir.VarExpr("y")).Add(ir.Const(-3)), Op: ir.LE},
	})
	lattice.CheckLaws(t, Bottom(), Top(), []DBM{a, b})
}

func TestConstantAssignmentIsExact(t *testing.T) {
	d := Top().Assign("k", ir.Const(2147483648))
	rng := d.At("k")
	assert.True(t, rng.Lo.Finite)
	assert.Equal(t, int64(2147483648), rng.Lo.Value)
	assert.Equal(t, int64(2147483648), rng.Hi.Value)
}

func TestConstantSurvivesUnrelatedAssignments(t *testing.T) {
	d := Top().Assign("k", ir.Const(2147483648)).Assign("i", ir.Const(0))
	for n := 0; n < 5; n++ {
		d = d.Assign("i", ir.VarExpr("i").Add(ir.Const(1)))
	}
	rng := d.At("k")
	assert.Equal(t, int64(2147483648), rng.Lo.Value)
	assert.Equal(t, int64(2147483648), rng.Hi.Value)
}

func TestExactShiftTracksRelation(t *testing.T) {
	d := Top().Assign("y", ir.Const(10))
	d = d.Assign("x", ir.VarExpr("y").Add(ir.Const(5)))
	assert.Equal(t, int64(15), d.At("x").Lo.Value)
	assert.Equal(t, int64(15), d.At("x").Hi.Value)
}

func TestDifferenceConstraintTightensBothVariables(t *testing.T) {
	d := Top()
	d = d.AddConstraints([]ir.LinConstraint{
		{Expr: ir.VarExpr("x").Sub(ir.VarExpr("y")).Add(ir.Const(-5)), Op: ir.LE}, // x - y <= 5
		{Expr: ir.VarExpr("y").Sub(ir.VarExpr("x")).Add(ir.Const(-5)), Op: ir.LE}, // y - x <= 5
	})
	assert.False(t, d.IsBottom())
}

func TestContradictoryDifferenceConstraintsYieldBottom(t *testing.T) {
	d := Top()
	d = d.AddConstraints([]ir.LinConstraint{
		{Expr: ir.VarExpr("x").Sub(ir.VarExpr("y")).Add(ir.Const(1)), Op: ir.LE},   // x - y <= -1
		{Expr: ir.VarExpr("y").Sub(ir.VarExpr("x")).Add(ir.Const(1)), Op: ir.LE},   // y - x <= -1
	})
	assert.True(t, d.IsBottom())
}

func TestForgetDropsRelation(t *testing.T) {
	d := Top().Assign("y", ir.Const(10)).Assign("x", ir.VarExpr("y").Add(ir.Const(5)))
	d = d.Forget("y")
	rng := d.At("x")
	assert.Equal(t, int64(15), rng.Lo.Value)
	assert.Equal(t, int64(15), rng.Hi.Value)
	assert.False(t, d.At("y").Lo.Finite)
}

func TestStringOmitsUnconstrainedEdges(t *testing.T) {
	assert.Equal(t, "T", Top().String())
	assert.Equal(t, "_|_", Bottom().String())
}

func TestSetThenGetRoundTripsTheDifferenceBound(t *testing.T) {
	d := Top().Set("x", "y", number.FromInt64(3))
	n, ok := d.Get("x", "y").Int()
	assert.True(t, ok)
	assert.Equal(t, int64(3), n.Int64())
	assert.True(t, d.Get("y", "x").IsPosInf())
}

func TestGetOnUntrackedVariablesIsPosInf(t *testing.T) {
	d := Top()
	assert.True(t, d.Get("a", "b").IsPosInf())
}

func TestSetFeedsClosure(t *testing.T) {
	d := Top().Set("x", Zero, number.FromInt64(5)).Normalize()
	assert.False(t, d.IsBottom())
	assert.Equal(t, int64(5), d.At("x").Hi.Value)
}
