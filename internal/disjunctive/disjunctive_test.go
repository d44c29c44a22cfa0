package disjunctive

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rainoftime/crab/internal/interval"
	"github.com/rainoftime/crab/internal/lattice"
	"github.com/rainoftime/crab/internal/number"
)

func rng(lo, hi int64) interval.Interval {
	return interval.Range(number.FromInt64(lo), number.FromInt64(hi))
}

func TestDomainLaws(t *testing.T) {
	a := finite([]interval.Interval{interval.Point(0), interval.Point(10)})
	b := finite([]interval.Interval{rng(2, 5)})
	lattice.CheckLaws(t, Bottom(), Top(), []Disjunctive{a, b})
}

func TestFuseOverlappingIntervals(t *testing.T) {
	d := finite([]interval.Interval{rng(0, 5), rng(3, 8)})
	assert.Equal(t, 1, len(d.Disjuncts()))
	assert.Equal(t, "[0, 8]", d.Disjuncts()[0].String())
}

func TestFuseConsecutiveIntervals(t *testing.T) {
	d := finite([]interval.Interval{rng(0, 2), rng(3, 5)})
	assert.Equal(t, 1, len(d.Disjuncts()))
	assert.Equal(t, "[0, 5]", d.Disjuncts()[0].String())
}

func TestDisjointIntervalsStaySeparate(t *testing.T) {
	d := finite([]interval.Interval{interval.Point(0), interval.Point(10)})
	assert.Equal(t, 2, len(d.Disjuncts()))
	assert.Equal(t, "[0, 0] | [10, 10]", d.String())
}

func TestCardinalityOverflowCollapsesToHull(t *testing.T) {
	old := MaxDisjunctions
	MaxDisjunctions = 2
	defer func() { MaxDisjunctions = old }()

	d := finite([]interval.Interval{interval.Point(0), interval.Point(10), interval.Point(20)})
	assert.Equal(t, 1, len(d.Disjuncts()))
	assert.Equal(t, "[0, 20]", d.Disjuncts()[0].String())
}

func TestJoinOfDisjointIntervalsKeepsBothDisjuncts(t *testing.T) {
	a := FromInterval(interval.Point(0))
	b := FromInterval(interval.Point(10))
	j := a.Join(b)
	assert.Equal(t, 2, len(j.Disjuncts()))
}

func TestWidenDropsOnlyTheMovingOuterBound(t *testing.T) {
	a := finite([]interval.Interval{interval.Point(0), interval.Point(10)})
	b := finite([]interval.Interval{interval.Point(0), rng(10, 11)})
	w := a.Widen(b)
	assert.Equal(t, 2, len(w.Disjuncts()))
	assert.True(t, w.Disjuncts()[1].Hi().IsPosInf())
	assert.Equal(t, "[0, 0]", w.Disjuncts()[0].String())
}

// TestJoinKeepsGenuineDisjunctionUnderParityInvariant grounds the
// scenario where a single convex interval would lose the even/odd
// correlation between two branch values that the disjunctive domain
// keeps as two separate ranges at a join point.
func TestJoinKeepsGenuineDisjunctionUnderParityInvariant(t *testing.T) {
	evenBranch := FromInterval(interval.Point(0))
	oddBranch := FromInterval(interval.Point(3))
	joined := evenBranch.Join(oddBranch)
	assert.Equal(t, 2, len(joined.Disjuncts()))
	assert.False(t, joined.Leq(FromInterval(interval.Point(0))))
}

func TestMeetOfOverlappingFusedRangesIsExact(t *testing.T) {
	a := finite([]interval.Interval{rng(0, 10)})
	b := finite([]interval.Interval{rng(5, 15)})
	m := a.Meet(b)
	assert.Equal(t, "[5, 10]", m.String())
}

func TestTopAndBottomPrint(t *testing.T) {
	assert.Equal(t, "T", Top().String())
	assert.Equal(t, "_|_", Bottom().String())
}
