package regioncount

import (
	"fmt"
	"io"

	arg "github.com/alexflint/go-arg"
	"github.com/brentp/xopen"
	"github.com/groseq/grotools"
	"github.com/groseq/grotools/groseq"
	"github.com/groseq/grotools/interval"
	"github.com/groseq/grotools/logger"
	"github.com/groseq/grotools/progress"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type cliargs struct {
	KeepZeroCounts bool   `arg:"--keep-zero-counts" help:"print regions with zero peaks"`
	MergeStrands   bool   `arg:"--merge-strands" help:"merge counts from the two strands (+ and -) into a single OUTPUT"`
	Verbosity      int    `arg:"-v" help:"verbosity level [0, 1, 2]"`
	Bed            string `arg:"positional,required" help:"BED file containing chromosome regions"`
	Peaks          string `arg:"positional,required" help:"GRO-seq file containing peaks"`
	Output         string `arg:"positional,required" help:"writes OUTPUT+ and OUTPUT- (for + and - strand) or, with --merge-strands, a single OUTPUT"`
}

func (c cliargs) Version() string {
	return fmt.Sprintf("regioncount %s", grotools.Version)
}

func (c cliargs) Description() string {
	return "count the peaks occurring in each region of a BED file"
}

func pcheck(e error) {
	if e != nil {
		logger.Fatalf("regioncount: %s", e)
	}
}

// Main is run from the dispatcher
func Main() {
	cli := cliargs{Verbosity: logger.Info}
	arg.MustParse(&cli)
	logger.SetVerbosity(cli.Verbosity)
	pcheck(run(cli))
}

func run(cli cliargs) error {
	logger.Infof("bed_file: %s", cli.Bed)
	logger.Infof("groseq_peak_file: %s", cli.Peaks)
	logger.Infof("output_file: %s", cli.Output)
	logger.Infof("strand_specific: %v", !cli.MergeStrands)
	logger.Infof("skip_zero_counts: %v", !cli.KeepZeroCounts)

	regions, err := groseq.ReadRegionMapPath(cli.Bed)
	if err != nil {
		return err
	}
	peaks, _, err := groseq.ReadRecordsPath(cli.Peaks)
	if err != nil {
		return err
	}
	counter, err := countPeaks(regions, peaks)
	if err != nil {
		return err
	}
	if counter.Unindexed > 0 {
		logger.Infof("%d peaks on chromosomes without regions were ignored", counter.Unindexed)
	}
	if counter.Unstranded > 0 {
		logger.Infof("%d peaks without a strand were ignored", counter.Unstranded)
	}

	if cli.MergeStrands {
		return writeOutput(cli.Output, regions, counter, merged, !cli.KeepZeroCounts)
	}
	if err := writeOutput(cli.Output+"+", regions, counter, plus, !cli.KeepZeroCounts); err != nil {
		return err
	}
	return writeOutput(cli.Output+"-", regions, counter, minus, !cli.KeepZeroCounts)
}

func countPeaks(regions *groseq.RegionMap, peaks []groseq.Record) (*Counter, error) {
	byChrom := make(map[string][]interval.Interval, len(regions.Chroms))
	for _, chrom := range regions.Chroms {
		logger.Infof("creating interval tree for chromosome %s with %d regions", chrom, len(regions.Regions[chrom]))
		byChrom[chrom] = regions.Intervals(chrom)
	}
	counter, err := NewCounter(byChrom)
	if err != nil {
		return nil, err
	}

	bar := progress.For("Reading GRO-seq peaks", len(peaks))
	for i, p := range peaks {
		bar.Update(i + 1)
		if n := counter.Add(p.Chrom, p.Interval(interval.NoID), p.Strand); n > 0 {
			logger.Debugf("peak: %s on %s in %d regions strand: %s", p.Interval(interval.NoID), p.Chrom, n, p.Strand)
		}
	}
	bar.Done()
	return counter, nil
}

type column int

const (
	plus column = iota
	minus
	merged
)

func (c column) String() string {
	switch c {
	case plus:
		return "+"
	case minus:
		return "-"
	}
	return "+/-"
}

func (c column) value(t *Tally, i int) int {
	switch c {
	case plus:
		return t.Plus[i]
	case minus:
		return t.Minus[i]
	}
	return t.Total(i)
}

func writeOutput(path string, regions *groseq.RegionMap, counter *Counter, col column, skipZero bool) error {
	fh, err := xopen.Wopen(path)
	if err != nil {
		return errors.Wrapf(err, "regioncount: opening %s", path)
	}
	for _, chrom := range regions.Chroms {
		if err := writeChrom(fh, chrom, regions.Regions[chrom], counter.Tally(chrom), col, skipZero); err != nil {
			fh.Close()
			return errors.Wrapf(err, "regioncount: writing %s", path)
		}
	}
	return fh.Close()
}

// writeChrom writes one line per region: chrom, start, end and count.
func writeChrom(w io.Writer, chrom string, regions []groseq.Record, t *Tally, col column, skipZero bool) error {
	n := len(regions)
	counts := make([]float64, n)
	written := 0
	bar := progress.For("Writing output for chromosome "+chrom, n)
	for i, r := range regions {
		bar.Update(i + 1)
		v := col.value(t, i)
		counts[i] = float64(v)
		if skipZero && v == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", chrom, r.Start, r.End, v); err != nil {
			return err
		}
		written++
	}
	bar.Done()
	logger.Infof("wrote %d of %d regions for %s on strand: %s", written, n, chrom, col)
	if n > 0 {
		logger.Infof("%s strand %s: %.0f peaks, mean %.3g per region, max %.0f", chrom, col,
			floats.Sum(counts), stat.Mean(counts, nil), floats.Max(counts))
	}
	return nil
}
