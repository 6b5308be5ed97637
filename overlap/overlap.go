// Package overlap pairs up the intervals of two collections that overlap and
// reports the members of each collection that overlap nothing in the other.
package overlap

import (
	"github.com/groseq/grotools/interval"
	"github.com/pkg/errors"
	"go4.org/sort"
)

// Pair indexes an interval in the first collection (I) and one in the second (J).
type Pair struct {
	I, J int
}

// Result of matching two collections.
type Result struct {
	// Pairs maps each overlapping pair to the intersection of its intervals.
	Pairs map[Pair]interval.Interval
	// Unique1 and Unique2 hold, in increasing order, the indexes that appear in no pair.
	Unique1 []int
	Unique2 []int
}

// SortedPairs returns the keys of r.Pairs ordered by I, then J.
func (r *Result) SortedPairs() []Pair {
	ps := make([]Pair, 0, len(r.Pairs))
	for p := range r.Pairs {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool {
		return ps[i].I < ps[j].I || (ps[i].I == ps[j].I && ps[i].J < ps[j].J)
	})
	return ps
}

// tracker records which indexes of each side have been paired.
type tracker struct {
	res      *Result
	matched1 []bool
	matched2 []bool
}

func newTracker(m, n int) *tracker {
	return &tracker{
		res:      &Result{Pairs: make(map[Pair]interval.Interval)},
		matched1: make([]bool, m),
		matched2: make([]bool, n),
	}
}

func (tr *tracker) add(i, j int, o interval.Interval) {
	tr.res.Pairs[Pair{i, j}] = o
	tr.matched1[i] = true
	tr.matched2[j] = true
}

func (tr *tracker) result() *Result {
	tr.res.Unique1 = unmatched(tr.matched1)
	tr.res.Unique2 = unmatched(tr.matched2)
	return tr.res
}

func unmatched(matched []bool) []int {
	u := make([]int, 0, len(matched))
	for i, m := range matched {
		if !m {
			u = append(u, i)
		}
	}
	return u
}

func validate(list []interval.Interval, name string) error {
	for i, iv := range list {
		if !iv.Valid() {
			return errors.Wrapf(interval.ErrMalformedInterval, "%s[%d] %s", name, i, iv)
		}
	}
	return nil
}

// tag copies list, replacing each ID with the interval's position.
func tag(list []interval.Interval) []interval.Interval {
	out := make([]interval.Interval, len(list))
	for i, iv := range list {
		iv.ID = i
		out[i] = iv
	}
	return out
}

// Match finds all overlapping pairs between list1 and list2. The larger of the
// two lists is indexed in an interval.Tree and every member of the smaller one
// is used as a query; the resulting pairs are always keyed (list1, list2).
// IDs on the input intervals are ignored.
func Match(list1, list2 []interval.Interval) (*Result, error) {
	if err := validate(list1, "list1"); err != nil {
		return nil, err
	}
	if err := validate(list2, "list2"); err != nil {
		return nil, err
	}
	swapped := len(list1) < len(list2)
	indexed, queries := list1, list2
	if swapped {
		indexed, queries = list2, list1
	}
	tree, err := interval.NewTree(tag(indexed))
	if err != nil {
		return nil, errors.Wrap(err, "overlap: building index")
	}

	tr := newTracker(len(list1), len(list2))
	for qi, q := range queries {
		tree.DoOverlapping(q, func(hit interval.Interval) bool {
			o, _ := hit.FindOverlap(q)
			if swapped {
				tr.add(qi, hit.ID, o)
			} else {
				tr.add(hit.ID, qi, o)
			}
			return false
		})
	}
	return tr.result(), nil
}

// MatchBrute compares every interval of list1 with every interval of list2.
// It is the O(m*n) reference for Match.
func MatchBrute(list1, list2 []interval.Interval) (*Result, error) {
	if err := validate(list1, "list1"); err != nil {
		return nil, err
	}
	if err := validate(list2, "list2"); err != nil {
		return nil, err
	}
	tr := newTracker(len(list1), len(list2))
	for i, a := range list1 {
		for j, b := range list2 {
			if o, ok := a.FindOverlap(b); ok {
				tr.add(i, j, o)
			}
		}
	}
	return tr.result(), nil
}
