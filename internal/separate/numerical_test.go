package separate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rainoftime/crab/internal/ir"
)

func TestAssignEvaluatesLinearExpression(t *testing.T) {
	s := Top().Assign("x", ir.Const(5))
	assert.Equal(t, "[5, 5]", s.Get("x").String())

	s = s.Assign("y", ir.VarExpr("x").Add(ir.Const(1)))
	assert.Equal(t, "[6, 6]", s.Get("y").String())
}

func TestAddConstraintsTightensSingleVariable(t *testing.T) {
	s := Top().Assign("x", ir.Const(0))
	s = s.Forget("x") // x is now unconstrained, i.e. top
	s = s.AddConstraints([]ir.LinConstraint{
		{Expr: ir.VarExpr("x").Sub(ir.Const(5)), Op: ir.LE}, // x - 5 <= 0  =>  x <= 5
	})
	assert.Equal(t, "[-oo, 5]", s.Get("x").String())
}

func TestAddConstraintsDetectsInfeasibility(t *testing.T) {
	s := Top().Assign("x", ir.Const(10))
	s = s.AddConstraints([]ir.LinConstraint{
		{Expr: ir.VarExpr("x").Sub(ir.Const(5)), Op: ir.LE}, // x <= 5, but x == 10
	})
	assert.True(t, s.IsBottom())
}

func TestApplyBinaryOp(t *testing.T) {
	s := Top().Assign("x", ir.Const(3)).Assign("y", ir.Const(4))
	s = s.Apply("*", "z", "x", "y")
	assert.Equal(t, "[12, 12]", s.Get("z").String())
}

func TestLoopInvariantConvergesUnderWideningThenNarrows(t *testing.T) {
	// i := 0; while (i <= 99) { i := i + 1 }
	s := Top().Assign("i", ir.Const(0))
	guard := ir.LinConstraint{Expr: ir.VarExpr("i").Sub(ir.Const(99)), Op: ir.LE}
	for k := 0; k < 4; k++ {
		body := s.AddConstraints([]ir.LinConstraint{guard})
		body = body.Assign("i", ir.VarExpr("i").Add(ir.Const(1)))
		s = s.Widen(s.Join(body))
	}
	assert.True(t, s.Get("i").Lo().IsFinite())

	body := s.AddConstraints([]ir.LinConstraint{guard}).Assign("i", ir.VarExpr("i").Add(ir.Const(1)))
	s = s.Narrow(Top().Assign("i", ir.Const(0)).Join(body))
	assert.Equal(t, "[0, 100]", s.Get("i").String())

	loopExit := s.AddConstraints([]ir.LinConstraint{guard.Negate()})
	assert.False(t, loopExit.IsBottom())
}
