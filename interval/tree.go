package interval

import (
	"github.com/pkg/errors"
	"go4.org/sort"
)

// MaxDepth bounds the height of a Tree built by NewTree.
var MaxDepth = 1 << 20

// ErrDepthExceeded is returned by NewTree when the tree would be deeper than MaxDepth.
var ErrDepthExceeded = errors.New("interval: tree depth exceeded")

const absent = -1

// node buckets every interval that straddles key. Everything in the left
// subtree ends before key and everything in the right subtree starts after it.
type node struct {
	key         float64
	left, right int32
	intervals   []Interval
}

// Tree is an interval tree built once from a fixed set of intervals.
// Nodes live in a single slice and reference their children by index.
// A Tree is never modified after NewTree returns so it is safe for
// concurrent queries.
type Tree struct {
	nodes []node
	n     int
	depth int
}

type buildTask struct {
	intervals []Interval
	parent    int32
	right     bool
	depth     int
}

// NewTree builds a Tree over ivs. The key of each node is the median of all
// endpoints of the intervals that reach it. An empty ivs gives an empty Tree.
func NewTree(ivs []Interval) (*Tree, error) {
	for _, iv := range ivs {
		if !iv.Valid() {
			return nil, errors.Wrapf(ErrMalformedInterval, "%s", iv)
		}
	}
	t := &Tree{n: len(ivs)}
	if len(ivs) == 0 {
		return t, nil
	}
	// endpoint scratch is reused by every node.
	pts := make([]float64, 0, 2*len(ivs))

	stack := []buildTask{{intervals: ivs, parent: absent, depth: 1}}
	for len(stack) > 0 {
		task := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(task.intervals) == 0 {
			continue
		}
		if task.depth > MaxDepth {
			return nil, errors.Wrapf(ErrDepthExceeded, "depth %d with %d intervals left", task.depth, len(task.intervals))
		}
		if task.depth > t.depth {
			t.depth = task.depth
		}

		pts = pts[:0]
		for _, iv := range task.intervals {
			pts = append(pts, iv.Left, iv.Right)
		}
		key := median(pts)

		var lefts, middle, rights []Interval
		for _, iv := range task.intervals {
			switch {
			case iv.Right < key:
				lefts = append(lefts, iv)
			case iv.Left > key:
				rights = append(rights, iv)
			default:
				middle = append(middle, iv)
			}
		}

		idx := int32(len(t.nodes))
		t.nodes = append(t.nodes, node{key: key, left: absent, right: absent, intervals: middle})
		if task.parent != absent {
			if task.right {
				t.nodes[task.parent].right = idx
			} else {
				t.nodes[task.parent].left = idx
			}
		}
		stack = append(stack,
			buildTask{intervals: rights, parent: idx, right: true, depth: task.depth + 1},
			buildTask{intervals: lefts, parent: idx, depth: task.depth + 1})
	}
	return t, nil
}

// median sorts pts in place and returns the upper median.
func median(pts []float64) float64 {
	sort.Slice(pts, func(i, j int) bool { return pts[i] < pts[j] })
	return pts[len(pts)/2]
}

// Len returns the number of intervals in the tree.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return t.n
}

// Depth returns the number of levels in the tree.
func (t *Tree) Depth() int {
	if t == nil {
		return 0
	}
	return t.depth
}

// Overlapping returns every interval in t that overlaps q.
// The order of the result is not defined. A q with Left > Right matches nothing.
func (t *Tree) Overlapping(q Interval) []Interval {
	var out []Interval
	t.DoOverlapping(q, func(iv Interval) bool {
		out = append(out, iv)
		return false
	})
	return out
}

// Enclosing returns every interval in t that encloses q.
// The order of the result is not defined.
func (t *Tree) Enclosing(q Interval) []Interval {
	var out []Interval
	t.DoEnclosing(q, func(iv Interval) bool {
		out = append(out, iv)
		return false
	})
	return out
}

// DoOverlapping calls fn for each interval overlapping q. If fn returns true
// the search stops and DoOverlapping returns true.
func (t *Tree) DoOverlapping(q Interval, fn func(Interval) bool) bool {
	return t.search(q, q.HasOverlap, fn)
}

// DoEnclosing calls fn for each interval enclosing q. If fn returns true
// the search stops and DoEnclosing returns true.
func (t *Tree) DoEnclosing(q Interval, fn func(Interval) bool) bool {
	return t.search(q, func(iv Interval) bool { return iv.Encloses(q) }, fn)
}

func (t *Tree) search(q Interval, match func(Interval) bool, fn func(Interval) bool) bool {
	if t == nil || len(t.nodes) == 0 || !q.Valid() {
		return false
	}
	stack := make([]int32, 1, 32)
	stack[0] = 0
	for len(stack) > 0 {
		nd := &t.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		for _, iv := range nd.intervals {
			if match(iv) && fn(iv) {
				return true
			}
		}
		switch {
		case nd.key >= q.Left && nd.key <= q.Right:
			stack = push(stack, nd.left)
			stack = push(stack, nd.right)
		case nd.key > q.Right:
			stack = push(stack, nd.left)
		default:
			stack = push(stack, nd.right)
		}
	}
	return false
}

func push(stack []int32, i int32) []int32 {
	if i == absent {
		return stack
	}
	return append(stack, i)
}

// Do calls fn with the key and a copy of the bucket of every node, parents
// before children.
func (t *Tree) Do(fn func(key float64, bucket []Interval)) {
	if t == nil {
		return
	}
	var bucket []Interval
	for _, nd := range t.nodes {
		bucket = append(bucket[:0], nd.intervals...)
		fn(nd.key, bucket)
	}
}
