// Package common extracts the regions shared by two BED-like files.
//
// For every chromosome present in both files it writes:
//
//	OVERLAP_FILE     <chrom> <overlap start> <overlap end>	<FILE1 start> <FILE1 end>	<FILE2 start> <FILE2 end>
//	UNIQUE_PREFIX+F  regions of F that overlap nothing in the other file, as in F
//	COMMON_PREFIX+F  for every overlapping pair, the region of F taking part in it
//
// Regions of a pair are tab separated; within a region start and end are
// separated by a space.
package common

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"

	arg "github.com/alexflint/go-arg"
	"github.com/brentp/xopen"
	"github.com/groseq/grotools"
	"github.com/groseq/grotools/groseq"
	"github.com/groseq/grotools/interval"
	"github.com/groseq/grotools/logger"
	"github.com/groseq/grotools/overlap"
	"github.com/groseq/grotools/progress"
	"github.com/pkg/errors"
)

type cliargs struct {
	CommonPrefix string `arg:"-c" help:"prefix added to each input file name for its common regions"`
	UniquePrefix string `arg:"-p" help:"prefix added to each input file name for its unique regions"`
	Overlap      string `arg:"-o" help:"file containing region overlaps"`
	Verbosity    int    `arg:"-v" help:"verbosity level [0, 1, 2]"`
	Brute        bool   `arg:"--brute" help:"compare every pair of regions instead of using an interval tree"`
	File1        string `arg:"positional,required" help:"first file to read"`
	File2        string `arg:"positional,required" help:"second file to read"`
}

func (c cliargs) Version() string {
	return fmt.Sprintf("common %s", grotools.Version)
}

func (c cliargs) Description() string {
	return "extract the common regions of two files"
}

func pcheck(e error) {
	if e != nil {
		logger.Fatalf("common: %s", e)
	}
}

// Main is run from the dispatcher
func Main() {
	cli := cliargs{CommonPrefix: "co_", UniquePrefix: "u_", Overlap: "overlap.txt", Verbosity: logger.Info}
	arg.MustParse(&cli)
	logger.SetVerbosity(cli.Verbosity)
	pcheck(run(cli))
}

// prefixed adds prefix to the file name of path, keeping its directory.
func prefixed(prefix, path string) string {
	return filepath.Join(filepath.Dir(path), prefix+filepath.Base(path))
}

type matcher func(list1, list2 []interval.Interval) (*overlap.Result, error)

// outputs are the five streams written by compare.
type outputs struct {
	overlap          io.Writer
	unique1, unique2 io.Writer
	common1, common2 io.Writer
}

func run(cli cliargs) error {
	m1, err := groseq.ReadRegionMapPath(cli.File1)
	if err != nil {
		return err
	}
	m2, err := groseq.ReadRegionMapPath(cli.File2)
	if err != nil {
		return err
	}

	paths := []string{
		cli.Overlap,
		prefixed(cli.UniquePrefix, cli.File1), prefixed(cli.UniquePrefix, cli.File2),
		prefixed(cli.CommonPrefix, cli.File1), prefixed(cli.CommonPrefix, cli.File2),
	}
	fhs := make([]*xopen.Writer, len(paths))
	for i, p := range paths {
		if fhs[i], err = xopen.Wopen(p); err != nil {
			closeAll(fhs[:i])
			return errors.Wrapf(err, "could not open %s for writing", p)
		}
	}
	out := outputs{overlap: fhs[0], unique1: fhs[1], unique2: fhs[2], common1: fhs[3], common2: fhs[4]}

	match := matcher(overlap.Match)
	if cli.Brute {
		match = overlap.MatchBrute
	}
	if err := compare(m1, m2, cli.File1, cli.File2, match, out); err != nil {
		closeAll(fhs)
		return err
	}
	for i, fh := range fhs {
		if err := fh.Close(); err != nil {
			return errors.Wrapf(err, "closing %s", paths[i])
		}
	}
	return nil
}

func closeAll(fhs []*xopen.Writer) {
	for _, fh := range fhs {
		fh.Close()
	}
}

// commonChroms returns the chromosomes of both maps in sorted order.
func commonChroms(m1, m2 *groseq.RegionMap) []string {
	var chroms []string
	for _, c := range m1.Chroms {
		if _, ok := m2.Regions[c]; ok {
			chroms = append(chroms, c)
		}
	}
	sort.Strings(chroms)
	return chroms
}

// compare matches the regions of every shared chromosome and writes the
// results. Chromosomes found in only one of the maps are ignored.
func compare(m1, m2 *groseq.RegionMap, name1, name2 string, match matcher, out outputs) error {
	chroms := commonChroms(m1, m2)
	bar := progress.For("Comparing chromosomes", len(chroms))
	for k, chrom := range chroms {
		bar.Update(k + 1)
		list1, list2 := m1.Regions[chrom], m2.Regions[chrom]
		res, err := match(m1.Intervals(chrom), m2.Intervals(chrom))
		if err != nil {
			return errors.Wrapf(err, "chromosome %s", chrom)
		}
		logger.Infof("file: %s chromosome: %s unique regions: %d", name1, chrom, len(res.Unique1))
		logger.Infof("file: %s chromosome: %s unique regions: %d", name2, chrom, len(res.Unique2))
		logger.Infof("chromosome: %s overlapping regions: %d", chrom, len(res.Pairs))

		if err := writeUnique(out.unique1, chrom, list1, res.Unique1); err != nil {
			return err
		}
		if err := writeUnique(out.unique2, chrom, list2, res.Unique2); err != nil {
			return err
		}
		for _, p := range res.SortedPairs() {
			o := res.Pairs[p]
			r1, r2 := list1[p.I], list2[p.J]
			if _, err := fmt.Fprintf(out.overlap, "%s\t%d %d\t%d %d\t%d %d\n", chrom,
				int(o.Left), int(o.Right), r1.Start, r1.End, r2.Start, r2.End); err != nil {
				return err
			}
			if err := writeRegion(out.common1, r1); err != nil {
				return err
			}
			if err := writeRegion(out.common2, r2); err != nil {
				return err
			}
			logger.Debugf("%s common region: %s:%d-%d overlaps %s:%d-%d in %s", name1, chrom, r1.Start, r1.End, chrom, r2.Start, r2.End, name2)
		}
	}
	bar.Done()
	return nil
}

func writeUnique(w io.Writer, chrom string, regions []groseq.Record, ids []int) error {
	logger.Debugf("writing %d unique regions on chromosome: %s", len(ids), chrom)
	for _, id := range ids {
		if err := writeRegion(w, regions[id]); err != nil {
			return err
		}
	}
	return nil
}

// writeRegion writes r as chrom, start, end and its remaining columns.
func writeRegion(w io.Writer, r groseq.Record) error {
	var err error
	if r.Rest == "" {
		_, err = fmt.Fprintf(w, "%s\t%d\t%d\n", r.Chrom, r.Start, r.End)
	} else {
		_, err = fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", r.Chrom, r.Start, r.End, r.Rest)
	}
	return err
}
