package perspective

import (
	"fmt"
	"strconv"
	"strings"

	"perspectivefix/pkg/geometry"
)

// CornerCount is the number of corners a correction needs.
const CornerCount = 4

// CornerSet is an ordered list of corner points, clockwise from the top-left
// corner by convention. It is a value: every edit returns a new set and never
// touches the receiver, so a holder can share it freely.
type CornerSet struct {
	pts []geometry.Point2D
}

// NewCornerSet copies the given points into a set. Any count is accepted here;
// Correct rejects sets that do not hold exactly four.
func NewCornerSet(points ...geometry.Point2D) CornerSet {
	if len(points) == 0 {
		return CornerSet{}
	}
	pts := make([]geometry.Point2D, len(points))
	copy(pts, points)
	return CornerSet{pts: pts}
}

// Len returns the number of points placed so far.
func (c CornerSet) Len() int {
	return len(c.pts)
}

// Complete reports whether the set holds exactly four corners.
func (c CornerSet) Complete() bool {
	return len(c.pts) == CornerCount
}

// At returns the i-th point.
func (c CornerSet) At(i int) geometry.Point2D {
	return c.pts[i]
}

// Points returns a copy of the points.
func (c CornerSet) Points() []geometry.Point2D {
	out := make([]geometry.Point2D, len(c.pts))
	copy(out, c.pts)
	return out
}

// Add returns a new set with p appended.
func (c CornerSet) Add(p geometry.Point2D) (CornerSet, error) {
	if len(c.pts) >= CornerCount {
		return c, fmt.Errorf("%w: set already holds %d corners", ErrInvalidCornerCount, len(c.pts))
	}
	pts := make([]geometry.Point2D, len(c.pts), len(c.pts)+1)
	copy(pts, c.pts)
	return CornerSet{pts: append(pts, p)}, nil
}

// Move returns a new set with the i-th point replaced.
func (c CornerSet) Move(i int, p geometry.Point2D) (CornerSet, error) {
	if i < 0 || i >= len(c.pts) {
		return c, fmt.Errorf("corner index %d out of range [0,%d)", i, len(c.pts))
	}
	pts := c.Points()
	pts[i] = p
	return CornerSet{pts: pts}, nil
}

// Clear returns an empty set.
func (c CornerSet) Clear() CornerSet {
	return CornerSet{}
}

// Nearest returns the index of the first point closer than radius to p, or -1.
func (c CornerSet) Nearest(p geometry.Point2D, radius float64) int {
	for i, q := range c.pts {
		if q.Distance(p) < radius {
			return i
		}
	}
	return -1
}

// Ordered returns a copy sorted clockwise around the centroid, starting at the
// point nearest the top-left. Correct never reorders on its own.
func (c CornerSet) Ordered() CornerSet {
	return CornerSet{pts: geometry.OrderClockwise(c.pts)}
}

// Winding describes which way a corner set runs around its quad.
type Winding int

const (
	WindingUnknown Winding = iota
	WindingClockwise
	WindingCounterClockwise
	WindingNotConvex
)

func (w Winding) String() string {
	switch w {
	case WindingClockwise:
		return "clockwise"
	case WindingCounterClockwise:
		return "counter-clockwise"
	case WindingNotConvex:
		return "not convex"
	default:
		return "unknown"
	}
}

// Winding classifies the set as drawn on screen (y pointing down). Sets with
// fewer than three points, or lying on one line, are WindingUnknown. Correct
// accepts every winding; a counter-clockwise set gives a mirrored result and
// a self-crossing or concave set a folded one.
func (c CornerSet) Winding() Winding {
	n := len(c.pts)
	if n < 3 {
		return WindingUnknown
	}
	if geometry.IsConvex(c.pts) {
		if geometry.SignedArea(c.pts) < 0 {
			return WindingCounterClockwise
		}
		return WindingClockwise
	}
	for i := range c.pts {
		if !geometry.Collinear(c.pts[i], c.pts[(i+1)%n], c.pts[(i+2)%n], 0) {
			return WindingNotConvex
		}
	}
	return WindingUnknown
}

// String formats the set the way ParseCornerSet reads it.
func (c CornerSet) String() string {
	parts := make([]string, len(c.pts))
	for i, p := range c.pts {
		parts[i] = strconv.FormatFloat(p.X, 'g', -1, 64) + "," + strconv.FormatFloat(p.Y, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}

// ParseCornerSet reads points written as "x,y x,y ..."; semicolons also separate points.
func ParseCornerSet(s string) (CornerSet, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ';' || r == '\t'
	})

	pts := make([]geometry.Point2D, 0, len(fields))
	for _, f := range fields {
		xy := strings.Split(f, ",")
		if len(xy) != 2 {
			return CornerSet{}, fmt.Errorf("bad corner %q: want x,y", f)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xy[0]), 64)
		if err != nil {
			return CornerSet{}, fmt.Errorf("bad corner %q: %w", f, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(xy[1]), 64)
		if err != nil {
			return CornerSet{}, fmt.Errorf("bad corner %q: %w", f, err)
		}
		pts = append(pts, geometry.NewPoint2D(x, y))
	}
	return CornerSet{pts: pts}, nil
}
