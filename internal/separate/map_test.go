package separate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rainoftime/crab/internal/ir"
	"github.com/rainoftime/crab/internal/nullity"
)

var _ = Empty[nullity.Value] // exercise the generic instantiation at compile time

func TestMapJoinPointwise(t *testing.T) {
	a := Empty(nullity.Bottom, nullity.Top).Set("p", nullity.Null).Set("q", nullity.NonNull)
	b := Empty(nullity.Bottom, nullity.Top).Set("p", nullity.NonNull)
	out := a.Join(b)
	assert.Equal(t, nullity.Top, out.Get("p"))
	// b leaves q untracked, i.e. top, so the join is top as well.
	assert.Equal(t, nullity.Top, out.Get("q"))
}

func TestMapMeetToBottomOnConflict(t *testing.T) {
	top := nullity.Top
	a := Empty(nullity.Bottom, top).Set("p", nullity.Null)
	b := Empty(nullity.Bottom, top).Set("p", nullity.NonNull)
	assert.True(t, a.Meet(b).IsBottom())
}

func TestUntrackedVariableIsTop(t *testing.T) {
	a := Empty(nullity.Bottom, nullity.Top)
	assert.Equal(t, nullity.Top, a.Get(ir.Var("unseen")))
}

func TestForgetDropsTracking(t *testing.T) {
	a := Empty(nullity.Bottom, nullity.Top).Set("p", nullity.Null)
	a = a.Forget("p")
	assert.Equal(t, nullity.Top, a.Get("p"))
}

func TestBottomAbsorbsJoinAndMeet(t *testing.T) {
	bot := BottomOf(nullity.Bottom, nullity.Top)
	top := Empty(nullity.Bottom, nullity.Top).Set("p", nullity.Null)
	assert.Equal(t, top, bot.Join(top))
	assert.True(t, bot.Meet(top).IsBottom())
}

func TestLeqIsPointwiseInclusion(t *testing.T) {
	a := Empty(nullity.Bottom, nullity.Top).Set("p", nullity.Null)
	b := Empty(nullity.Bottom, nullity.Top)
	assert.True(t, a.Leq(b))
	assert.False(t, b.Leq(a))
}
