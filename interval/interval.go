// Package interval holds the Interval type used for peaks and regions and a
// static interval tree that answers overlap and enclosure queries over them.
package interval

import (
	"fmt"

	"github.com/pkg/errors"
)

// NoID marks an Interval that does not correlate to a caller-owned collection.
const NoID = -1

// ErrMalformedInterval is returned when an interval has Left > Right.
var ErrMalformedInterval = errors.New("interval: left bound is greater than right bound")

// Interval is a numeric range with an optional identifier.
// ID is only used to map query results back to the caller's slice.
type Interval struct {
	Left  float64
	Right float64
	ID    int
}

// New returns an Interval without an ID. It fails with ErrMalformedInterval if l > r.
func New(l, r float64) (Interval, error) {
	return NewID(l, r, NoID)
}

// NewID returns an Interval tagged with id.
func NewID(l, r float64, id int) (Interval, error) {
	iv := Interval{Left: l, Right: r, ID: id}
	if !iv.Valid() {
		return iv, errors.Wrapf(ErrMalformedInterval, "%s", iv)
	}
	return iv, nil
}

// Valid reports whether Left <= Right.
func (a Interval) Valid() bool { return a.Left <= a.Right }

// HasID reports whether the interval carries an identifier.
func (a Interval) HasID() bool { return a.ID != NoID }

// HasOverlap uses half-open semantics so that touching intervals do not overlap.
func (a Interval) HasOverlap(b Interval) bool {
	return a.Left < b.Right && b.Left < a.Right
}

// FindOverlap returns the intersection of a and b. ok is false when they do not overlap.
func (a Interval) FindOverlap(b Interval) (o Interval, ok bool) {
	if !a.HasOverlap(b) {
		return Interval{ID: NoID}, false
	}
	return Interval{Left: max(a.Left, b.Left), Right: min(a.Right, b.Right), ID: NoID}, true
}

// IsWithin reports whether a lies inside b. Bounds are inclusive.
func (a Interval) IsWithin(b Interval) bool {
	return a.Left >= b.Left && a.Right <= b.Right
}

// Encloses reports whether b lies inside a.
func (a Interval) Encloses(b Interval) bool { return b.IsWithin(a) }

func (a Interval) String() string {
	return fmt.Sprintf("(%g, %g)", a.Left, a.Right)
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
