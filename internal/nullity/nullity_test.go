package nullity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rainoftime/crab/internal/lattice"
)

func TestDomainLaws(t *testing.T) {
	lattice.CheckLaws(t, Bottom, Top, []Value{Null, NonNull})
}

func TestJoinMeet(t *testing.T) {
	assert.Equal(t, Top, Null.Join(NonNull))
	assert.Equal(t, Bottom, Null.Meet(NonNull))
	assert.Equal(t, Null, Null.Join(Bottom))
	assert.Equal(t, Null, Null.Meet(Top))
}

func TestStateForgetIsJoinOverAllValues(t *testing.T) {
	s := State[string]{"p": Null}
	s.Forget("p")
	assert.Equal(t, Top, s.Get("p"))
}

func TestStateJoin(t *testing.T) {
	a := State[string]{"p": Null, "q": NonNull}
	b := State[string]{"p": NonNull}
	out := Join(a, b)
	assert.Equal(t, Top, out.Get("p"))
	// b leaves q untracked, i.e. Top, so the join is Top as well.
	assert.Equal(t, Top, out.Get("q"))
}

func TestPointerProgramBuildsAssignsThenDereference(t *testing.T) {
	// p := new(1); q := new(2); *p := q; r := *p
	// With a flat nullity lattice alone we can at least say every freshly
	// allocated pointer is non-null, and that nothing here ever touches
	// bottom/top by construction.
	s := make(State[string])
	s.Set("p", NonNull)
	s.Set("q", NonNull)
	// *p := q does not change p's or q's own nullity.
	s.Set("r", s.Get("q"))
	assert.Equal(t, NonNull, s.Get("r"))
}
