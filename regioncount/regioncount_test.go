package regioncount

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/groseq/grotools/groseq"
	"github.com/groseq/grotools/interval"
	"github.com/groseq/grotools/logger"
)

func peak(chrom string, s, e int, strand groseq.Strand) groseq.Record {
	return groseq.Record{Chrom: chrom, Start: s, End: e, Strand: strand}
}

func TestCount(t *testing.T) {
	regions := map[string][]interval.Interval{
		"chr1": {{Left: 10, Right: 20}, {Left: 30, Right: 40}},
	}
	peaks := []groseq.Record{
		peak("chr1", 12, 13, groseq.Plus),
		peak("chr1", 35, 36, groseq.Minus),
		peak("chr1", 100, 101, groseq.Plus),
	}
	tallies, err := Count(regions, peaks)
	if err != nil {
		t.Fatal(err)
	}
	got := tallies["chr1"]
	if exp := []int{1, 0}; !reflect.DeepEqual(got.Plus, exp) {
		t.Errorf("expected: %v, got: %v", exp, got.Plus)
	}
	if exp := []int{0, 1}; !reflect.DeepEqual(got.Minus, exp) {
		t.Errorf("expected: %v, got: %v", exp, got.Minus)
	}
}

func TestCounterSkips(t *testing.T) {
	c, err := NewCounter(map[string][]interval.Interval{
		"chr1": {{Left: 0, Right: 100}, {Left: 10, Right: 20}, {Left: 15, Right: 50}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if n := c.Add("chr2", interval.Interval{Left: 15, Right: 16}, groseq.Plus); n != 0 {
		t.Errorf("expected peak on unknown chromosome to be skipped, got %d", n)
	}
	if n := c.Add("chr1", interval.Interval{Left: 15, Right: 16}, groseq.Unknown); n != 0 {
		t.Errorf("expected unstranded peak to be skipped, got %d", n)
	}
	// inside all three regions.
	if n := c.Add("chr1", interval.Interval{Left: 15, Right: 16}, groseq.Plus); n != 3 {
		t.Errorf("expected: 3, got: %d", n)
	}
	// crosses the end of region 1 so only 0 and 2 enclose it.
	if n := c.Add("chr1", interval.Interval{Left: 18, Right: 25}, groseq.Minus); n != 2 {
		t.Errorf("expected: 2, got: %d", n)
	}
	tl := c.Tally("chr1")
	if exp := []int{1, 1, 1}; !reflect.DeepEqual(tl.Plus, exp) {
		t.Errorf("expected: %v, got: %v", exp, tl.Plus)
	}
	if exp := []int{1, 0, 1}; !reflect.DeepEqual(tl.Minus, exp) {
		t.Errorf("expected: %v, got: %v", exp, tl.Minus)
	}
	if c.Unindexed != 1 || c.Unstranded != 1 {
		t.Errorf("expected 1 unindexed and 1 unstranded, got %d and %d", c.Unindexed, c.Unstranded)
	}
	if c.Tally("chr2") != nil {
		t.Errorf("expected no tally for chr2")
	}
}

func TestCountEmptyChromosome(t *testing.T) {
	tallies, err := Count(map[string][]interval.Interval{"chrM": nil}, []groseq.Record{peak("chrM", 1, 2, groseq.Plus)})
	if err != nil {
		t.Fatal(err)
	}
	if len(tallies["chrM"].Plus) != 0 {
		t.Errorf("expected empty tally, got: %v", tallies["chrM"])
	}
}

func TestCountMalformedRegion(t *testing.T) {
	if _, err := Count(map[string][]interval.Interval{"chr1": {{Left: 5, Right: 1}}}, nil); err == nil {
		t.Errorf("expected an error for a malformed region")
	}
}

func writeFile(t *testing.T, dir, name, body string) string {
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func readFile(t *testing.T, p string) string {
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestRun(t *testing.T) {
	logger.SetVerbosity(logger.Quiet)
	defer logger.SetVerbosity(logger.Info)

	dir := t.TempDir()
	bed := writeFile(t, dir, "ctcf.bed", "chr1\t10\t20\ta\nchr1\t30\t40\tb\nchr2\t0\t5\tc\n")
	peaks := writeFile(t, dir, "peaks.groseq", "chr1\t12\t13\tn\t2\t+\nchr1\t35\t36\tn\t1\t-\nchr1\t14\t15\tn\t1\t+\nchr3\t1\t2\tn\t0\t+\n")
	out := filepath.Join(dir, "counts")

	if err := run(cliargs{Bed: bed, Peaks: peaks, Output: out}); err != nil {
		t.Fatal(err)
	}
	if got, exp := readFile(t, out+"+"), "chr1\t10\t20\t2\n"; got != exp {
		t.Errorf("expected: %q, got: %q", exp, got)
	}
	if got, exp := readFile(t, out+"-"), "chr1\t30\t40\t1\n"; got != exp {
		t.Errorf("expected: %q, got: %q", exp, got)
	}

	if err := run(cliargs{Bed: bed, Peaks: peaks, Output: out, MergeStrands: true, KeepZeroCounts: true}); err != nil {
		t.Fatal(err)
	}
	if got, exp := readFile(t, out), "chr1\t10\t20\t2\nchr1\t30\t40\t1\nchr2\t0\t5\t0\n"; got != exp {
		t.Errorf("expected: %q, got: %q", exp, got)
	}
}
