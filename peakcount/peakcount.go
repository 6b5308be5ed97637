// Package peakcount collapses identical peaks of a GRO-seq peak file and counts them.
//
// Input (chrom, start, end, name, score, strand):
//
//	chr1	10554	10555	n	2	-
//	chr1	10554	10555	n	2	-
//	chr1	13365	13366	n	0	-
//
// Output (chrom, start, end, count[, strand]):
//
//	chr1	10554	10555	2	-
//	chr1	13365	13366	1	-
//
// The strand column is dropped from the whole output when any line lacks a
// strand or when the same peak is seen on both strands.
package peakcount

import (
	"fmt"
	"io"
	"strings"

	arg "github.com/alexflint/go-arg"
	"github.com/brentp/xopen"
	"github.com/groseq/grotools"
	"github.com/groseq/grotools/groseq"
	"github.com/groseq/grotools/logger"
	"github.com/groseq/grotools/progress"
	"github.com/pkg/errors"
	"go4.org/sort"
)

// Peak is a distinct peak location and how often it was seen.
type Peak struct {
	groseq.Key
	N int
	// Strand is the strand of the first occurrence.
	Strand groseq.Strand
}

// Counts are the distinct peaks of a file.
type Counts struct {
	peaks map[groseq.Key]*Peak
	// Reliable is false once a line without strand or a strand conflict was seen.
	Reliable bool
	// Skipped counts lines that could not be parsed.
	Skipped int
}

// Read counts the peaks of r. name is only used in log messages.
func Read(r io.Reader, name string) (*Counts, error) {
	c := &Counts{peaks: make(map[groseq.Key]*Peak), Reliable: true}
	bad := logger.NewLimited(5, "incomplete lines skipped in "+name)
	unstranded := logger.NewLimited(1, "lines without strand in "+name)
	err := groseq.EachLine(r, func(lineNo int, line string) error {
		if strings.TrimSpace(line) == "" {
			return nil
		}
		rec, err := groseq.ParseRecord(line)
		if err != nil {
			c.Skipped++
			bad.Warnf("%s:%d: %s - skipping", name, lineNo, err)
			return nil
		}
		if !groseq.HasStrandColumn(line) {
			if c.Reliable {
				unstranded.Warnf("%s:%d: %s missing strand - ignoring strands in output!", name, lineNo, rec)
			}
			c.Reliable = false
		}
		k := rec.Key()
		p, ok := c.peaks[k]
		if !ok {
			c.peaks[k] = &Peak{Key: k, N: 1, Strand: rec.Strand}
			return nil
		}
		if c.Reliable && rec.Strand != p.Strand {
			logger.Warnf("%s:%d: %s strand: %s prev_strand: %s - ignoring strands in output!", name, lineNo, rec, rec.Strand, p.Strand)
			c.Reliable = false
		}
		p.N++
		return nil
	})
	if err != nil {
		return nil, err
	}
	bad.Report()
	return c, nil
}

// Len returns the number of distinct peaks.
func (c *Counts) Len() int { return len(c.peaks) }

// Sorted returns the peaks ordered by chromosome, start and end.
func (c *Counts) Sorted() []*Peak {
	ps := make([]*Peak, 0, len(c.peaks))
	for _, p := range c.peaks {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].Key.Less(ps[j].Key) })
	return ps
}

// Write writes the sorted peaks with their counts, and their strand if c.Reliable.
func (c *Counts) Write(w io.Writer) error {
	ps := c.Sorted()
	logger.Infof("sorting %d records for printing", len(ps))
	bar := progress.For("Writing peak counts", len(ps))
	for i, p := range ps {
		bar.Update(i + 1)
		var err error
		if c.Reliable {
			_, err = fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n", p.Chrom, p.Start, p.End, p.N, p.Strand)
		} else {
			_, err = fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", p.Chrom, p.Start, p.End, p.N)
		}
		if err != nil {
			return err
		}
	}
	bar.Done()
	return nil
}

type cliargs struct {
	Verbosity int    `arg:"-v" help:"verbosity level [0, 1, 2]"`
	Input     string `arg:"positional,required" help:"GRO-seq peak file"`
	Output    string `arg:"positional,required" help:"file to write the peak counts to"`
}

func (c cliargs) Version() string {
	return fmt.Sprintf("peakcount %s", grotools.Version)
}

func (c cliargs) Description() string {
	return "count the number of times each peak occurs in a GRO-seq file"
}

func pcheck(e error) {
	if e != nil {
		logger.Fatalf("peakcount: %s", e)
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
	in, err := xopen.Ropen(cli.Input)
	if err != nil {
		return errors.Wrapf(err, "opening %s", cli.Input)
	}
	defer in.Close()
	counts, err := Read(in, cli.Input)
	if err != nil {
		return err
	}
	if !counts.Reliable {
		logger.Warnf("strands in %s are unreliable and are left out of %s", cli.Input, cli.Output)
	}

	out, err := xopen.Wopen(cli.Output)
	if err != nil {
		return errors.Wrapf(err, "opening %s", cli.Output)
	}
	if err := counts.Write(out); err != nil {
		out.Close()
		return errors.Wrapf(err, "writing %s", cli.Output)
	}
	return out.Close()
}
