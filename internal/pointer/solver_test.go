package pointer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rainoftime/crab/internal/interval"
)

func TestAssignFromObjectLiteralReachesQuery(t *testing.T) {
	s := New()
	s.AddConstraint(Constraint{Kind: Assign, Lhs: "p", Ref: Ref{Kind: RefObject, Object: "o1", Offset: interval.Point(0)}})
	s.Solve(Options{})

	objs, off := s.Query("p")
	require.Len(t, objs, 1)
	_, ok := objs["o1"]
	assert.True(t, ok)
	assert.Equal(t, interval.Point(0).String(), off.String())
}

func TestAssignChainPropagatesTransitively(t *testing.T) {
	s := New()
	s.AddConstraint(Constraint{Kind: Assign, Lhs: "p", Ref: Ref{Kind: RefObject, Object: "o1", Offset: interval.Point(0)}})
	s.AddConstraint(Constraint{Kind: Assign, Lhs: "q", Ref: Ref{Kind: RefPointer, Var: "p", Offset: interval.Point(0)}})
	s.Solve(Options{})

	objs, _ := s.Query("q")
	_, ok := objs["o1"]
	assert.True(t, ok)
}

func TestStoreThenLoadRoundTripsThroughObject(t *testing.T) {
	s := New()
	// p := &o1; *p := v; x := *p
	s.AddConstraint(Constraint{Kind: Assign, Lhs: "p", Ref: Ref{Kind: RefObject, Object: "o1", Offset: interval.Point(0)}})
	s.AddConstraint(Constraint{Kind: Assign, Lhs: "v", Ref: Ref{Kind: RefObject, Object: "o2", Offset: interval.Point(0)}})
	s.AddConstraint(Constraint{Kind: Store, Ref: Ref{Kind: RefPointer, Var: "p", Offset: interval.Point(0)}, Rhs: "v"})
	s.AddConstraint(Constraint{Kind: Load, Lhs: "x", Ref: Ref{Kind: RefPointer, Var: "p", Offset: interval.Point(0)}})
	s.Solve(Options{})

	objs, _ := s.Query("x")
	_, ok := objs["o2"]
	assert.True(t, ok)
	assert.Empty(t, s.Diagnostics)
}

func TestDereferencingObjectLiteralIsRejected(t *testing.T) {
	s := New()
	s.AddConstraint(Constraint{Kind: Load, Lhs: "x", Ref: Ref{Kind: RefObject, Object: "o1"}})
	s.Solve(Options{})

	require.Len(t, s.Diagnostics, 1)
	assert.Contains(t, s.Diagnostics[0].Error(), "programmer error")
}

func TestUnconstrainedVariableQueriesAsEmptyAndBottom(t *testing.T) {
	s := New()
	objs, off := s.Query("never-touched")
	assert.Empty(t, objs)
	assert.True(t, off.IsBottom())
}

func TestParamAndReturnEscapeEdgesFlowThroughAssign(t *testing.T) {
	s := New()
	s.SetParam("f", 0, singleton("arg-obj", interval.Point(0)))
	s.SetReturn("f", singleton("ret-obj", interval.Point(0)))
	s.AddConstraint(Constraint{Kind: Assign, Lhs: "formal0", Ref: Ref{Kind: RefParam, Func: "f", Param: 0}})
	s.AddConstraint(Constraint{Kind: Assign, Lhs: "y", Ref: Ref{Kind: RefReturn, Func: "f"}})
	s.Solve(Options{})

	objs, _ := s.Query("formal0")
	_, ok := objs["arg-obj"]
	assert.True(t, ok)

	objs, _ = s.Query("y")
	_, ok = objs["ret-obj"]
	assert.True(t, ok)
}

func TestWideningTerminatesOnAnAscendingOffsetChain(t *testing.T) {
	// p := o1; p := p+1 (self-referential growth of the offset).
	s := New()
	s.AddConstraint(Constraint{Kind: Assign, Lhs: "p", Ref: Ref{Kind: RefObject, Object: "o1", Offset: interval.Point(0)}})
	s.AddConstraint(Constraint{Kind: Assign, Lhs: "p", Ref: Ref{Kind: RefPointer, Var: "p", Offset: interval.Point(1)}})

	s.Solve(Options{WidenThreshold: 2, NarrowCap: 2})

	_, off := s.Query("p")
	assert.False(t, off.IsBottom())
}
