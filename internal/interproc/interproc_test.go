package interproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rainoftime/crab/internal/ir"
	"github.com/rainoftime/crab/internal/separate"
)

func TestInputContextRenamesActualsToFormals(t *testing.T) {
	caller := separate.Top().AddConstraints([]ir.LinConstraint{
		{Expr: ir.VarExpr("a").Add(ir.Const(-5)), Op: ir.LE},
		{Expr: ir.VarExpr("a").Scale(-1).Add(ir.Const(5)), Op: ir.LE},
	})
	in := InputContext[separate.NonRelational](caller, []ir.Var{"p"}, []ir.Var{"a"})
	assert.Equal(t, "[5, 5]", in.Get("p").String())
}

func TestBuildOutputForgetsLocalsAndKeepsReturn(t *testing.T) {
	exit := separate.Top().AddConstraints([]ir.LinConstraint{
		{Expr: ir.VarExpr("tmp").Add(ir.Const(-7)), Op: ir.LE},
		{Expr: ir.VarExpr("tmp").Scale(-1).Add(ir.Const(7)), Op: ir.LE},
	})
	exit = exit.Assign("result", ir.VarExpr("tmp"))

	out := BuildOutput[separate.NonRelational](exit, []ir.Var{"result"}, []ir.Var{"tmp", "result"})
	assert.Equal(t, "[7, 7]", out.Get(ReturnVar(0)).String())
	assert.True(t, out.Get("tmp").IsTop())
	assert.True(t, out.Get("result").IsTop())
}

func TestApplyCallConstrainsDstFromSummary(t *testing.T) {
	summary := Summary[separate.NonRelational]{
		Output: separate.Top().AddConstraints([]ir.LinConstraint{
			{Expr: ir.VarExpr(ReturnVar(0)).Add(ir.Const(-3)), Op: ir.LE},
			{Expr: ir.VarExpr(ReturnVar(0)).Scale(-1).Add(ir.Const(3)), Op: ir.LE},
		}),
	}
	caller := separate.Top().Assign("y", ir.Const(99))
	out := ApplyCall[separate.NonRelational](caller, "y", summary)
	assert.Equal(t, "[3, 3]", out.Get("y").String())
}

func TestApplyCallPropagatesBottomSummary(t *testing.T) {
	unsat := separate.Top().AddConstraints(unsatisfiable)
	require.True(t, unsat.IsBottom())
	summary := Summary[separate.NonRelational]{Output: unsat}

	out := ApplyCall[separate.NonRelational](separate.Top(), "y", summary)
	assert.True(t, out.IsBottom())
}

func TestOrderPutsCalleesBeforeCallers(t *testing.T) {
	order, recursive := Order(
		[]string{"main", "helper", "leaf"},
		[]CallEdge{{Caller: "main", Callee: "helper"}, {Caller: "helper", Callee: "leaf"}},
	)
	pos := make(map[string]int, len(order))
	for i, f := range order {
		pos[f] = i
	}
	assert.Less(t, pos["leaf"], pos["helper"])
	assert.Less(t, pos["helper"], pos["main"])
	assert.Empty(t, recursive)
}

func TestOrderFlagsMutualRecursionAsRecursive(t *testing.T) {
	order, recursive := Order(
		[]string{"a", "b"},
		[]CallEdge{{Caller: "a", Callee: "b"}, {Caller: "b", Callee: "a"}},
	)
	assert.Len(t, order, 2)
	assert.True(t, recursive["a"] || recursive["b"])
}
