package groseq

import (
	"bufio"
	"io"
	"strings"

	"github.com/brentp/xopen"
	"github.com/groseq/grotools/interval"
	"github.com/groseq/grotools/logger"
	"github.com/pkg/errors"
)

// maxWarnings is how many malformed lines are reported individually per file.
const maxWarnings = 5

// EachLine calls fn with every line of r, stripped of its line ending.
// lineNo starts at 1. A final line without a newline is still passed to fn.
func EachLine(r io.Reader, fn func(lineNo int, line string) error) error {
	br := bufio.NewReader(r)
	for n := 1; ; n++ {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			if ferr := fn(n, strings.TrimRight(line, "\r\n")); ferr != nil {
				return ferr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "groseq: reading line %d", n)
		}
	}
}

// RegionMap holds the regions of a file grouped by chromosome with the file
// order kept inside each chromosome.
type RegionMap struct {
	// Chroms lists chromosomes in the order they were first seen.
	Chroms  []string
	Regions map[string][]Record
	// Skipped counts malformed lines.
	Skipped int
}

// Len returns the total number of regions.
func (m *RegionMap) Len() int {
	n := 0
	for _, rs := range m.Regions {
		n += len(rs)
	}
	return n
}

// Intervals returns the regions of chrom as intervals whose ID is their
// position in m.Regions[chrom].
func (m *RegionMap) Intervals(chrom string) []interval.Interval {
	rs := m.Regions[chrom]
	ivs := make([]interval.Interval, len(rs))
	for i, r := range rs {
		ivs[i] = r.Interval(i)
	}
	return ivs
}

// ReadRegionMap reads every record of r. Header, comment and blank lines are
// ignored; malformed lines are counted in Skipped and the first few are logged.
// name is only used in log messages.
func ReadRegionMap(r io.Reader, name string) (*RegionMap, error) {
	m := &RegionMap{Regions: make(map[string][]Record)}
	warn := logger.NewLimited(maxWarnings, "malformed lines skipped in "+name)
	err := EachLine(r, func(lineNo int, line string) error {
		if isHeader(line) {
			return nil
		}
		rec, err := ParseRecord(line)
		if err != nil {
			m.Skipped++
			warn.Warnf("%s:%d: %s", name, lineNo, err)
			return nil
		}
		if _, ok := m.Regions[rec.Chrom]; !ok {
			m.Chroms = append(m.Chroms, rec.Chrom)
		}
		m.Regions[rec.Chrom] = append(m.Regions[rec.Chrom], rec)
		logger.Debugf("file: %s key: %s value: (%d, %d)", name, rec.Chrom, rec.Start, rec.End)
		return nil
	})
	if err != nil {
		return nil, err
	}
	warn.Report()
	for _, c := range m.Chroms {
		logger.Infof("%s chromosome: %s regions: %d", name, c, len(m.Regions[c]))
	}
	return m, nil
}

// ReadRegionMapPath opens path with xopen, so gzipped files and "-" work.
func ReadRegionMapPath(path string) (*RegionMap, error) {
	fh, err := xopen.Ropen(path)
	if err != nil {
		return nil, errors.Wrapf(err, "groseq: opening %s", path)
	}
	defer fh.Close()
	return ReadRegionMap(fh, path)
}

// ReadRecords reads all records of r in file order, skipping malformed lines
// as ReadRegionMap does. It returns the number skipped.
func ReadRecords(r io.Reader, name string) ([]Record, int, error) {
	var recs []Record
	skipped := 0
	warn := logger.NewLimited(maxWarnings, "malformed lines skipped in "+name)
	err := EachLine(r, func(lineNo int, line string) error {
		if isHeader(line) {
			return nil
		}
		rec, err := ParseRecord(line)
		if err != nil {
			skipped++
			warn.Warnf("%s:%d: %s", name, lineNo, err)
			return nil
		}
		recs = append(recs, rec)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	warn.Report()
	return recs, skipped, nil
}

// ReadRecordsPath opens path with xopen and calls ReadRecords.
func ReadRecordsPath(path string) ([]Record, int, error) {
	fh, err := xopen.Ropen(path)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "groseq: opening %s", path)
	}
	defer fh.Close()
	return ReadRecords(fh, path)
}
