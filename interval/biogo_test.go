package interval

import (
	"math/rand"
	"sort"
	"testing"

	biogo "github.com/biogo/store/interval"
)

// irange mirrors the half-open integer intervals goleft indexes with biogo.
type irange struct {
	Start, End int
	UID        uintptr
}

func (i irange) Overlap(b biogo.IntRange) bool {
	return i.End > b.Start && i.Start < b.End
}
func (i irange) ID() uintptr           { return i.UID }
func (i irange) Range() biogo.IntRange { return biogo.IntRange{Start: i.Start, End: i.End} }

// biogo's LLRB tree is an independent implementation so agreeing with it on
// integer data catches descent errors the brute force oracle shares with us.
func TestAgreesWithBiogo(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	ivs := make([]Interval, 0, 2000)
	var bt biogo.IntTree
	for i := 0; i < 2000; i++ {
		s := rng.Intn(100000)
		e := s + 1 + rng.Intn(500)
		ivs = append(ivs, Interval{Left: float64(s), Right: float64(e), ID: i})
		if err := bt.Insert(irange{s, e, uintptr(i)}, false); err != nil {
			t.Fatal(err)
		}
	}
	tree, err := NewTree(ivs)
	if err != nil {
		t.Fatal(err)
	}

	for k := 0; k < 500; k++ {
		s := rng.Intn(100000)
		e := s + 1 + rng.Intn(2000)
		var exp []int
		for _, hit := range bt.Get(irange{Start: s, End: e}) {
			exp = append(exp, int(hit.ID()))
		}
		var got []int
		for _, hit := range tree.Overlapping(Interval{Left: float64(s), Right: float64(e), ID: NoID}) {
			got = append(got, hit.ID)
		}
		sort.Ints(exp)
		sort.Ints(got)
		if len(exp) != len(got) {
			t.Fatalf("query [%d, %d): expected %d hits, got %d", s, e, len(exp), len(got))
		}
		for i := range exp {
			if exp[i] != got[i] {
				t.Fatalf("query [%d, %d): expected: %v, got: %v", s, e, exp, got)
			}
		}
	}
}
