// Package groseq parses the whitespace separated peak and region files
// (BED and GRO-seq peak calls) consumed by grotools.
//
// A record line looks like:
//
//	chr1	10554	10555	n	2	-
//
// The first three columns are required. The sixth, when present and equal to
// "+" or "-", is the strand.
package groseq

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/groseq/grotools/interval"
	"github.com/pkg/errors"
)

// ErrShortLine is returned for lines with fewer than three columns.
var ErrShortLine = errors.New("groseq: fewer than 3 fields")

// Strand is the orientation of a peak.
type Strand int8

const (
	Unknown Strand = iota
	Plus
	Minus
)

// ParseStrand maps "+" and "-" to Plus and Minus. Anything else is Unknown.
func ParseStrand(s string) Strand {
	switch s {
	case "+":
		return Plus
	case "-":
		return Minus
	}
	return Unknown
}

func (s Strand) String() string {
	switch s {
	case Plus:
		return "+"
	case Minus:
		return "-"
	}
	return "."
}

// Record is a single parsed line.
type Record struct {
	Chrom  string
	Start  int
	End    int
	Strand Strand
	// Rest holds columns 4 and up joined with tabs.
	Rest string
}

func (r Record) String() string {
	return fmt.Sprintf("%s\t%d\t%d", r.Chrom, r.Start, r.End)
}

// Interval returns the record's range tagged with id.
func (r Record) Interval(id int) interval.Interval {
	return interval.Interval{Left: float64(r.Start), Right: float64(r.End), ID: id}
}

// Less orders records by chromosome, then start, then end.
func (r Record) Less(o Record) bool { return r.Key().Less(o.Key()) }

// Key identifies a record by its location only.
type Key struct {
	Chrom      string
	Start, End int
}

func (r Record) Key() Key { return Key{r.Chrom, r.Start, r.End} }

// Less orders keys by chromosome, then start, then end.
func (k Key) Less(o Key) bool {
	if k.Chrom != o.Chrom {
		return k.Chrom < o.Chrom
	}
	if k.Start != o.Start {
		return k.Start < o.Start
	}
	return k.End < o.End
}

// parseCoord accepts integers and, failing that, floats which are rounded
// half away from zero. Floats outside the int range are rejected.
func parseCoord(s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.Errorf("groseq: bad coordinate %q", s)
	}
	f = math.Round(f)
	if f >= math.MaxInt || f < math.MinInt {
		return 0, errors.Errorf("groseq: bad coordinate %q", s)
	}
	return int(f), nil
}

// ParseRecord parses one line. Runs of any whitespace separate fields.
// A line whose start is after its end returns an error wrapping
// interval.ErrMalformedInterval.
func ParseRecord(line string) (Record, error) {
	toks := strings.Fields(line)
	if len(toks) < 3 {
		return Record{}, errors.Wrapf(ErrShortLine, "line %q", line)
	}
	start, err := parseCoord(toks[1])
	if err != nil {
		return Record{}, errors.Wrap(err, "start")
	}
	end, err := parseCoord(toks[2])
	if err != nil {
		return Record{}, errors.Wrap(err, "end")
	}
	r := Record{Chrom: toks[0], Start: start, End: end, Rest: strings.Join(toks[3:], "\t")}
	if start > end {
		return r, errors.Wrapf(interval.ErrMalformedInterval, "%s", r)
	}
	if len(toks) >= 6 {
		r.Strand = ParseStrand(toks[5])
	}
	return r, nil
}

// HasStrandColumn reports whether line has at least six fields.
func HasStrandColumn(line string) bool {
	return len(strings.Fields(line)) >= 6
}

// isHeader reports whether a line carries no record.
func isHeader(line string) bool {
	line = strings.TrimSpace(line)
	return line == "" || line[0] == '#' || strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser")
}
