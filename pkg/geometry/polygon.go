package geometry

import (
	"math"
	"sort"
)

// IsConvex reports whether the polygon turns the same way at every vertex.
// A self-crossing quad fails because its turns alternate; a polygon with no
// turns at all is a line and fails too.
func IsConvex(polygon []Point2D) bool {
	n := len(polygon)
	if n < 3 {
		return false
	}

	var pos, neg bool
	for i := range polygon {
		switch c := crossProduct(polygon[i], polygon[(i+1)%n], polygon[(i+2)%n]); {
		case c > 0:
			pos = true
		case c < 0:
			neg = true
		}
		if pos && neg {
			return false
		}
	}
	return pos || neg
}

// SignedArea returns the shoelace area of the polygon. In image coordinates
// (y pointing down) a positive value means the vertices run clockwise on screen.
func SignedArea(polygon []Point2D) float64 {
	n := len(polygon)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		a, b := polygon[i], polygon[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// Collinear reports whether a, b and c lie on one line. tol is compared
// against twice the triangle area, so it scales with squared length.
func Collinear(a, b, c Point2D, tol float64) bool {
	return math.Abs(crossProduct(a, b, c)) <= tol
}

// HasCollinearTriple reports whether any three of the points are collinear
// or coincident. The tolerance is relative to the squared extent of the set,
// so the test behaves the same at every image scale.
func HasCollinearTriple(points []Point2D, relTol float64) bool {
	n := len(points)
	if n < 3 {
		return false
	}

	var extent float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if d := distSq(points[i], points[j]); d > extent {
				extent = d
			}
		}
	}
	if extent == 0 {
		return true
	}

	tol := relTol * extent
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				if Collinear(points[i], points[j], points[k], tol) {
					return true
				}
			}
		}
	}
	return false
}

// OrderClockwise returns a copy of the points sorted clockwise on screen by
// angle around their centroid, starting from the point nearest the top-left.
func OrderClockwise(points []Point2D) []Point2D {
	sorted := make([]Point2D, len(points))
	copy(sorted, points)
	if len(sorted) < 3 {
		return sorted
	}

	c := Centroid(sorted)
	sort.SliceStable(sorted, func(i, j int) bool {
		ai := math.Atan2(sorted[i].Y-c.Y, sorted[i].X-c.X)
		aj := math.Atan2(sorted[j].Y-c.Y, sorted[j].X-c.X)
		return ai < aj
	})

	start := 0
	for i := 1; i < len(sorted); i++ {
		if sorted[i].X+sorted[i].Y < sorted[start].X+sorted[start].Y {
			start = i
		}
	}

	out := make([]Point2D, 0, len(sorted))
	out = append(out, sorted[start:]...)
	out = append(out, sorted[:start]...)
	return out
}

// crossProduct computes the cross product of vectors OA and OB.
func crossProduct(o, a, b Point2D) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// distSq computes the squared distance between two points.
func distSq(a, b Point2D) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return dx*dx + dy*dy
}
