package wto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rainoftime/crab/internal/cfgbuilder"
	"github.com/rainoftime/crab/internal/ir"
)

// entry(0) -> head(1) -> body(2) -> head(1) [back edge]
//                 \-> exit(3)
func loopCFG() *cfgbuilder.Graph {
	g := cfgbuilder.New(0)
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(2, 1)
	g.AddEdge(1, 3)
	g.SetExit(3)
	return g
}

func TestBuildCollapsesLoopIntoComponent(t *testing.T) {
	elems := Build(loopCFG())
	assert.Equal(t, ir.Label(0), elems[0].Head)
	assert.False(t, elems[0].IsSCC)

	assert.Equal(t, ir.Label(1), elems[1].Head)
	assert.True(t, elems[1].IsSCC)
	assert.Len(t, elems[1].Nested, 1)
	assert.Equal(t, ir.Label(2), elems[1].Nested[0].Head)

	assert.Equal(t, ir.Label(3), elems[2].Head)
}

func TestFlattenVisitsEveryLabel(t *testing.T) {
	elems := Build(loopCFG())
	assert.ElementsMatch(t, []ir.Label{0, 1, 2, 3}, Flatten(elems))
}

func TestHeadsReturnsLoopHeadOnly(t *testing.T) {
	elems := Build(loopCFG())
	assert.Equal(t, []ir.Label{1}, Heads(elems))
}

func TestSCCsGroupsLoopBody(t *testing.T) {
	sccs := SCCs(loopCFG())
	assert.Len(t, sccs, 3)
	assert.ElementsMatch(t, []ir.Label{1, 2}, sccs[1])
}

func TestReverseTopologicalPutsExitBeforeEntry(t *testing.T) {
	order := ReverseTopological(loopCFG())
	indexOf := func(l ir.Label) int {
		for i, x := range order {
			if x == l {
				return i
			}
		}
		return -1
	}
	assert.Less(t, indexOf(3), indexOf(0))
}

func TestAcyclicGraphHasNoComponents(t *testing.T) {
	g := cfgbuilder.New(0)
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	elems := Build(g)
	assert.Empty(t, Heads(elems))
	assert.Equal(t, []ir.Label{0, 1, 2}, Flatten(elems))
}
