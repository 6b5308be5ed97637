// Package regioncount counts, for every region of a BED file, the peaks that
// fall entirely inside it, separately for each strand.
package regioncount

import (
	"github.com/groseq/grotools/groseq"
	"github.com/groseq/grotools/interval"
	"github.com/pkg/errors"
)

// Tally holds the peak counts of one chromosome's regions. Plus[i] and
// Minus[i] belong to the i'th region in input order.
type Tally struct {
	Plus  []int
	Minus []int
}

func newTally(n int) *Tally {
	return &Tally{Plus: make([]int, n), Minus: make([]int, n)}
}

// Total returns the count of region i over both strands.
func (t *Tally) Total(i int) int { return t.Plus[i] + t.Minus[i] }

// Counter indexes regions once and then accumulates peaks into a Tally per
// chromosome.
type Counter struct {
	trees   map[string]*interval.Tree
	tallies map[string]*Tally

	// Unindexed counts peaks on chromosomes without regions.
	Unindexed int
	// Unstranded counts peaks whose strand is neither + nor -.
	Unstranded int
}

// NewCounter builds one interval tree per chromosome. The IDs of the given
// intervals are replaced by their positions.
func NewCounter(regions map[string][]interval.Interval) (*Counter, error) {
	c := &Counter{
		trees:   make(map[string]*interval.Tree, len(regions)),
		tallies: make(map[string]*Tally, len(regions)),
	}
	for chrom, ivs := range regions {
		tagged := make([]interval.Interval, len(ivs))
		for i, iv := range ivs {
			iv.ID = i
			tagged[i] = iv
		}
		tree, err := interval.NewTree(tagged)
		if err != nil {
			return nil, errors.Wrapf(err, "regioncount: indexing %s", chrom)
		}
		c.trees[chrom] = tree
		c.tallies[chrom] = newTally(len(ivs))
	}
	return c, nil
}

// Add credits the peak to every region enclosing it and returns how many
// regions that was. Peaks on unknown chromosomes and peaks without a strand
// are not counted.
func (c *Counter) Add(chrom string, peak interval.Interval, strand groseq.Strand) int {
	tree, ok := c.trees[chrom]
	if !ok {
		c.Unindexed++
		return 0
	}
	var counts []int
	switch strand {
	case groseq.Plus:
		counts = c.tallies[chrom].Plus
	case groseq.Minus:
		counts = c.tallies[chrom].Minus
	default:
		c.Unstranded++
		return 0
	}
	n := 0
	tree.DoEnclosing(peak, func(region interval.Interval) bool {
		counts[region.ID]++
		n++
		return false
	})
	return n
}

// Tally returns the counts for chrom, or nil if it has no regions.
func (c *Counter) Tally(chrom string) *Tally { return c.tallies[chrom] }

// Tallies returns the counts of every chromosome.
func (c *Counter) Tallies() map[string]*Tally { return c.tallies }

// Count indexes regions and adds every peak. It is the one-shot form of
// NewCounter followed by Add.
func Count(regions map[string][]interval.Interval, peaks []groseq.Record) (map[string]*Tally, error) {
	c, err := NewCounter(regions)
	if err != nil {
		return nil, err
	}
	for _, p := range peaks {
		c.Add(p.Chrom, p.Interval(interval.NoID), p.Strand)
	}
	return c.Tallies(), nil
}
