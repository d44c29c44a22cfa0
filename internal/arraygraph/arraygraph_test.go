package arraygraph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rainoftime/crab/internal/interval"
	"github.com/rainoftime/crab/internal/ir"
	"github.com/rainoftime/crab/internal/lattice"
	"github.com/rainoftime/crab/internal/separate"
)

func topAG() ArrayGraph[separate.NonRelational, interval.Interval] {
	return Top(separate.Top(), interval.Top(), interval.Bottom())
}

func botAG() ArrayGraph[separate.NonRelational, interval.Interval] {
	return Bottom(separate.Top(), interval.Top(), interval.Bottom())
}

func TestDomainLaws(t *testing.T) {
	a := topAG().AddIndex("i", "i+")
	b := a.Store("i", interval.Point(5))
	lattice.CheckLaws(t, botAG(), topAG(), []ArrayGraph[separate.NonRelational, interval.Interval]{a, b})
}

func TestLoadAfterStoreReadsTheStrongUpdate(t *testing.T) {
	ag := topAG().AddIndex("i", "i+").Store("i", interval.Point(7))
	got := ag.Load("i")
	assert.Equal(t, "[7, 7]", got.String())
}

func TestWeakUpdateJoinsContainingRange(t *testing.T) {
	ag := topAG()
	ag.s = ag.s.Assign("p", ir.Const(0))
	ag = ag.AddIndex("p", "p+")
	ag.s = ag.s.Assign("q", ir.Const(10))
	ag = ag.AddIndex("q", "q+")

	// The whole range [p, q) is known to hold value 1 (e.g. from a prior
	// array-init covering the whole array).
	ag.g = ag.g.clone()
	ag.g.set("p", "q", interval.Point(1))

	ag.s = ag.s.Assign("i", ir.Const(3))
	ag = ag.AddIndex("i", "i+")

	updated := ag.Store("i", interval.Point(2))

	pq := updated.g.get("p", "q")
	assert.Equal(t, "[1, 2]", pq.String())
}

func TestReduceDropsEdgesRefutedByScalarState(t *testing.T) {
	ag := topAG().AddIndex("p", "p+").AddIndex("q", "q+")
	ag.s = ag.s.Assign("p", ir.Const(5)).Assign("q", ir.Const(5))
	ag.g = ag.g.clone()
	ag.g.set("p", "q", interval.Point(1))

	out := ag.reduce()
	assert.True(t, equalW(out.g.get("p", "q"), out.g.topW))
}

func TestCanonicalizeTightensThroughIntermediate(t *testing.T) {
	ag := topAG().AddIndex("a", "a+").AddIndex("b", "b+").AddIndex("c", "c+")
	ag.g = ag.g.clone()
	ag.g.set("a", "b", interval.Point(1))
	ag.g.set("b", "c", interval.Point(1))
	ag.g.set("a", "c", interval.Top())

	out := ag.Normalize()
	ac := out.g.get("a", "c")
	assert.Equal(t, "[1, 1]", ac.String())
}
