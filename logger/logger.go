// Package logger adds verbosity levels on top of the standard log package.
// Level 0 shows only errors, 1 adds informational messages and warnings and 2
// adds debugging output.
package logger

import (
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
)

const (
	Quiet   = 0
	Info    = 1
	Verbose = 2
)

var verbosity = Info

var (
	warnPrefix  = color.New(color.FgYellow).SprintFunc()
	errorPrefix = color.New(color.BgRed).Add(color.Bold).SprintFunc()
)

// SetVerbosity sets the level. Values outside [0, 2] are clamped.
func SetVerbosity(v int) {
	if v < Quiet {
		v = Quiet
	}
	if v > Verbose {
		v = Verbose
	}
	verbosity = v
}

// Verbosity returns the current level.
func Verbosity() int { return verbosity }

func Debugf(format string, args ...interface{}) {
	if verbosity >= Verbose {
		log.Printf(format, args...)
	}
}

func Infof(format string, args ...interface{}) {
	if verbosity >= Info {
		log.Printf(format, args...)
	}
}

func Warnf(format string, args ...interface{}) {
	if verbosity >= Info {
		log.Printf("%s %s", warnPrefix("warning:"), fmt.Sprintf(format, args...))
	}
}

func Errorf(format string, args ...interface{}) {
	log.Printf("%s", errorPrefix(fmt.Sprintf(format, args...)))
}

// Fatalf logs at error level and exits with status 1.
func Fatalf(format string, args ...interface{}) {
	Errorf(format, args...)
	os.Exit(1)
}

// Limited prints the first Max warnings it is given and counts the rest.
type Limited struct {
	Max  int
	What string
	n    int
}

// NewLimited returns a Limited that reports on what (e.g. "malformed lines").
func NewLimited(max int, what string) *Limited {
	return &Limited{Max: max, What: what}
}

func (l *Limited) Warnf(format string, args ...interface{}) {
	if l.n < l.Max {
		Warnf(format, args...)
	}
	l.n++
}

// N returns the number of warnings seen.
func (l *Limited) N() int { return l.n }

// Report warns with the total if any warnings were seen.
func (l *Limited) Report() {
	if l.n > 0 {
		Warnf("%d %s in total", l.n, l.What)
	}
}
