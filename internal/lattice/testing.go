package lattice

import "testing"

// CheckLaws asserts the domain laws from spec.md §8 that hold for any
// triple of domain values, given bottom/top and a handful of sample
// values that exercise interesting regions of the lattice. The interval,
// DBM, disjunctive, array-graph and nullity test files call this with
// their own Bottom()/Top()/samples.
func CheckLaws[D Domain[D]](t *testing.T, bottom, top D, samples []D) {
	t.Helper()

	if !bottom.IsBottom() {
		t.Errorf("Bottom().IsBottom() = false")
	}
	if !top.IsTop() {
		t.Errorf("Top().IsTop() = false")
	}

	all := append([]D{bottom, top}, samples...)

	for _, a := range all {
		if !bottom.Leq(a) {
			t.Errorf("bottom.Leq(%v) = false", a)
		}
		if !a.Leq(top) {
			t.Errorf("%v.Leq(top) = false", a)
		}
		if !a.Leq(a) {
			t.Errorf("%v.Leq(%v) (reflexivity) = false", a, a)
		}
		if j := a.Join(bottom); !j.Leq(a) || !a.Leq(j) {
			t.Errorf("join(%v, bottom) = %v, want %v", a, j, a)
		}
		if m := a.Meet(top); !m.Leq(a) || !a.Leq(m) {
			t.Errorf("meet(%v, top) = %v, want %v", a, m, a)
		}
	}

	for _, a := range all {
		for _, b := range all {
			j := a.Join(b)
			if !a.Leq(j) {
				t.Errorf("%v.Leq(join(%v,%v)) = false", a, a, b)
			}
			if !b.Leq(j) {
				t.Errorf("%v.Leq(join(%v,%v)) = false", b, a, b)
			}
			if jb := b.Join(a); !jb.Leq(j) || !j.Leq(jb) {
				t.Errorf("join not commutative for %v, %v", a, b)
			}
			w := a.Widen(b)
			if !a.Leq(w) {
				t.Errorf("%v.Leq(widen(%v,%v)) = false", a, a, b)
			}
		}
	}
}
