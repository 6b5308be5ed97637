// Package counthist plots histograms of the per-region peak counts written by
// regioncount, one set of bars per chromosome (or other grouping column).
package counthist

import (
	"fmt"
	"io"
	"math"
	"regexp"
	"sort"
	"strconv"

	arg "github.com/alexflint/go-arg"
	"github.com/brentp/xopen"
	"github.com/groseq/grotools"
	"github.com/groseq/grotools/groseq"
	"github.com/groseq/grotools/logger"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

type cliargs struct {
	Col   int      `arg:"-c" help:"1-based column number to use for histogram"`
	Group int      `arg:"-g" help:"1-based column number to use for grouping. 0 for no grouping"`
	Sep   string   `arg:"-s" help:"regular expression separating columns"`
	Bins  int      `arg:"-b" help:"number of bins"`
	Path  string   `arg:"-p" help:"path to save plot"`
	Files []string `arg:"positional,required" help:"count files from regioncount ('-' for stdin)"`
}

func (c cliargs) Version() string {
	return fmt.Sprintf("counthist %s", grotools.Version)
}

func (c cliargs) Description() string {
	return "plot a histogram of region peak counts"
}

func pcheck(e error) {
	if e != nil {
		logger.Fatalf("counthist: %s", e)
	}
}

// Main is run from the dispatcher
func Main() {
	args := cliargs{Col: 4, Group: 1, Sep: "\t", Bins: 20, Path: "counts.png"}
	p := arg.MustParse(&args)
	if args.Col < 1 {
		p.Fail("column must be >= 1")
	}
	if args.Bins < 1 {
		p.Fail("bins must be >= 1")
	}
	pcheck(run(args))
}

func run(args cliargs) error {
	sep, err := regexp.Compile(args.Sep)
	if err != nil {
		return errors.Wrap(err, "bad separator")
	}
	grouped := make(map[string][]float64)
	for _, f := range args.Files {
		fh, err := xopen.Ropen(f)
		if err != nil {
			return errors.Wrapf(err, "opening %s", f)
		}
		err = read(fh, sep, args.Col-1, args.Group-1, grouped)
		fh.Close()
		if err != nil {
			return errors.Wrapf(err, "reading %s", f)
		}
	}
	if len(grouped) == 0 {
		return errors.New("no values to plot")
	}
	return save(grouped, args.Bins, args.Path)
}

// read adds the values of column col of r to grouped, keyed by column group
// (or "default" when group < 0). Lines where col is not a finite number are skipped.
func read(r io.Reader, sep *regexp.Regexp, col, group int, grouped map[string][]float64) error {
	bad := logger.NewLimited(5, "lines without a number in the count column")
	err := groseq.EachLine(r, func(lineNo int, line string) error {
		if line == "" {
			return nil
		}
		toks := sep.Split(line, -1)
		if col >= len(toks) || group >= len(toks) {
			bad.Warnf("line %d: only %d columns", lineNo, len(toks))
			return nil
		}
		v, err := strconv.ParseFloat(toks[col], 64)
		if err != nil {
			bad.Warnf("line %d: %s", lineNo, err)
			return nil
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			bad.Warnf("line %d: non-finite count %q", lineNo, toks[col])
			return nil
		}
		g := "default"
		if group > -1 {
			g = toks[group]
		}
		grouped[g] = append(grouped[g], v)
		return nil
	})
	bad.Report()
	return err
}

func mapkeys(m map[string][]float64) []string {
	var ks []string
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

// bin counts the values of every group in the same nbins equal-width bins
// spanning all values. It returns the counts and the lower edge of each bin.
func bin(grouped map[string][]float64, nbins int) (map[string][]float64, []float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, vs := range grouped {
		if len(vs) == 0 {
			continue
		}
		lo = math.Min(lo, floats.Min(vs))
		hi = math.Max(hi, floats.Max(vs))
	}
	if hi == lo {
		hi = lo + float64(nbins)
	}
	dividers := make([]float64, nbins+1)
	floats.Span(dividers, lo, hi)
	// stat.Histogram bins are half-open so the maximum needs to fit in the last one.
	dividers[nbins] = math.Nextafter(hi, math.Inf(1))

	counts := make(map[string][]float64, len(grouped))
	for g, vs := range grouped {
		sorted := append([]float64(nil), vs...)
		sort.Float64s(sorted)
		counts[g] = stat.Histogram(nil, dividers, sorted, nil)
	}
	return counts, dividers[:nbins]
}

func save(grouped map[string][]float64, nbins int, path string) error {
	keys := mapkeys(grouped)
	counts, edges := bin(grouped, nbins)

	p := plot.New()
	p.Y.Label.Text = "Regions"
	p.X.Label.Text = "Peaks"

	w := 30 / float64(len(keys)) * 20 / float64(nbins)
	var bars []plot.Plotter
	for i, k := range keys {
		bar, err := plotter.NewBarChart(plotter.Values(counts[k]), vg.Points(w+0.01))
		if err != nil {
			return err
		}
		bar.LineStyle.Width = vg.Length(0.1)
		bar.Color = plotutil.Color(i)
		bar.Offset = vg.Points(float64(i) * w)
		p.Legend.Add(k, bar)
		bars = append(bars, bar)
	}
	p.Add(bars...)

	labels := make([]string, len(edges))
	for i, e := range edges {
		labels[i] = strconv.FormatFloat(e, 'g', 3, 64)
	}
	p.NominalX(labels...)
	p.Legend.Top = true
	return p.Save(10*vg.Inch, 3*vg.Inch, path)
}
