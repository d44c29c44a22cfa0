package arraysmash

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rainoftime/crab/internal/ir"
	"github.com/rainoftime/crab/internal/separate"
)

func TestStrongUpdateOverwritesCell(t *testing.T) {
	sm := Top(separate.Top()).AddArray("a")
	sm.s = sm.s.Assign("v", ir.Const(5))
	sm = sm.Store("a", "v", true)

	lhs := sm.Load("dst", "a")
	assert.Equal(t, "[5, 5]", lhs.s.Get("dst").String())
}

func TestWeakUpdateJoinsWithPriorCellValue(t *testing.T) {
	sm := Top(separate.Top()).AddArray("a")
	sm.s = sm.s.Assign("v1", ir.Const(1))
	sm = sm.Store("a", "v1", true)

	sm.s = sm.s.Assign("v2", ir.Const(9))
	sm = sm.Store("a", "v2", false)

	out := sm.Load("dst", "a")
	assert.Equal(t, "[1, 9]", out.s.Get("dst").String())
}

func TestLoadOfUnregisteredArrayLeavesDestinationTop(t *testing.T) {
	sm := Top(separate.Top())
	sm = sm.Load("dst", "missing")
	assert.True(t, sm.s.Get("dst").IsTop())
}

func TestInitSetsCellToIntervalHullOfConstants(t *testing.T) {
	sm := Top(separate.Top()).Init("a", []int64{3, -1, 7, 2})
	got := sm.Load("dst", "a")
	assert.Equal(t, "[-1, 7]", got.s.Get("dst").String())
}

func TestInitWithNoConstantsLeavesCellUnconstrained(t *testing.T) {
	sm := Top(separate.Top()).Init("a", nil)
	got := sm.Load("dst", "a")
	assert.True(t, got.s.Get("dst").IsTop())
}

func TestReassigningOneLoadDestinationDoesNotDisturbAnother(t *testing.T) {
	sm := Top(separate.Top()).AddArray("a")
	sm.s = sm.s.Assign("v", ir.Const(4))
	sm = sm.Store("a", "v", true)

	sm = sm.Load("x", "a")
	sm = sm.Load("y", "a")
	sm.s = sm.s.Assign("x", ir.Const(100))
	assert.Equal(t, "[4, 4]", sm.s.Get("y").String())
}
