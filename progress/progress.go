// Package progress draws a one-line progress bar on a terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/groseq/grotools/logger"
)

// DefaultEvery is how many iterations pass between redraws.
const DefaultEvery = 1000

const barLength = 10

// Bar is a progress bar for a loop of Total iterations.
// A nil *Bar is valid and draws nothing.
type Bar struct {
	w         io.Writer
	Operation string
	Total     int
	Every     int
}

// New returns a Bar writing to w. w is usually os.Stderr.
func New(w io.Writer, operation string, total int) *Bar {
	return &Bar{w: w, Operation: operation, Total: total, Every: DefaultEvery}
}

// For returns a Bar on stderr, or nil when logging is quiet.
func For(operation string, total int) *Bar {
	if logger.Verbosity() == logger.Quiet {
		return nil
	}
	return New(os.Stderr, operation, total)
}

// Update redraws the bar for iteration i. Short loops (Total <= Every) are
// never drawn and long ones are only redrawn every Every iterations.
func (b *Bar) Update(i int) {
	if b == nil || b.Total <= b.Every || i%b.Every != 0 {
		return
	}
	b.draw(float64(i)/float64(b.Total), "")
}

// Done draws the full bar followed by a newline.
func (b *Bar) Done() {
	if b == nil || b.Total <= b.Every {
		return
	}
	b.draw(1, color.GreenString("Done...")+"\n")
}

func (b *Bar) draw(frac float64, status string) {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	block := int(frac*barLength + 0.5)
	fmt.Fprintf(b.w, "\r%-40s: [%s%s] %.0f%% %s", b.Operation,
		strings.Repeat("#", block), strings.Repeat("-", barLength-block), frac*100, status)
}

// Format returns the bar text for frac without drawing it.
func Format(operation string, frac float64) string {
	var sb strings.Builder
	b := Bar{w: &sb, Operation: operation}
	b.draw(frac, "")
	return sb.String()
}
