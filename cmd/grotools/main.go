package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/groseq/grotools"
	"github.com/groseq/grotools/common"
	"github.com/groseq/grotools/counthist"
	"github.com/groseq/grotools/peakcount"
	"github.com/groseq/grotools/regioncount"
)

type progPair struct {
	help string
	main func()
}

var progs = map[string]progPair{
	"common":      {"split two region files into common and unique regions and report their overlaps", common.Main},
	"regioncount": {"count the GRO-seq peaks enclosed by each region of a BED file, per strand", regioncount.Main},
	"peakcount":   {"count how often each peak occurs in a GRO-seq peak file", peakcount.Main},
	"counthist":   {"plot a histogram of the per-region peak counts from regioncount", counthist.Main},
}

func printProgs() {

	var wtr io.Writer = os.Stdout

	fmt.Fprintf(wtr, "grotools Version: %s\n\n", grotools.Version)
	var keys []string
	l := 5
	for k := range progs {
		keys = append(keys, k)
		if len(k) > l {
			l = len(k)
		}
	}
	fmtr := "%-" + strconv.Itoa(l) + "s : %s\n"
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(wtr, fmtr, k, progs[k].help)
	}
	os.Exit(1)
}

func main() {

	if len(os.Args) < 2 {
		printProgs()
	}
	var p progPair
	var ok bool
	if p, ok = progs[os.Args[1]]; !ok {
		printProgs()
	}
	// remove the prog name from the call
	os.Args = append(os.Args[:1], os.Args[2:]...)
	p.main()
}
