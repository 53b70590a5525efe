package perspective

import (
	"fmt"
	"math"

	"perspectivefix/pkg/geometry"
)

// collinearTolerance is relative to the squared extent of the corner set.
const collinearTolerance = 1e-9

// Plan is everything a backend needs to produce the corrected image.
type Plan struct {
	// Source corners in caller order: top-left, top-right, bottom-right, bottom-left.
	Corners [4]geometry.Point2D

	// Target rectangle size before rounding.
	EdgeWidth  float64
	EdgeHeight float64

	// Output size in pixels.
	Width  int
	Height int

	// Forward maps source pixels into the output; Inverse maps back.
	Forward geometry.Homography
	Inverse geometry.Homography
}

// OutputSize returns the longer of each pair of opposite edges: width from the
// top and bottom edges, height from the right and left edges.
func OutputSize(p0, p1, p2, p3 geometry.Point2D) (width, height float64) {
	width = math.Max(p1.Distance(p0), p3.Distance(p2))
	height = math.Max(p2.Distance(p1), p3.Distance(p0))
	return width, height
}

// NewPlan validates the corners and solves the transform onto the output
// rectangle. The corners are used in the order given.
func NewPlan(corners CornerSet) (*Plan, error) {
	if !corners.Complete() {
		return nil, fmt.Errorf("%w: need %d, got %d", ErrInvalidCornerCount, CornerCount, corners.Len())
	}

	var src [4]geometry.Point2D
	copy(src[:], corners.pts)
	for i, p := range src {
		if !p.IsFinite() {
			return nil, fmt.Errorf("%w: corner %d is not finite (%v, %v)", ErrDegenerateGeometry, i, p.X, p.Y)
		}
	}
	if geometry.HasCollinearTriple(src[:], collinearTolerance) {
		return nil, fmt.Errorf("%w: corners coincide or three of them are collinear", ErrDegenerateGeometry)
	}

	w, h := OutputSize(src[0], src[1], src[2], src[3])
	outW, outH := int(math.Round(w)), int(math.Round(h))
	if outW < 1 || outH < 1 {
		return nil, fmt.Errorf("%w: output would be %dx%d pixels", ErrDegenerateGeometry, outW, outH)
	}

	dst := [4]geometry.Point2D{
		{X: 0, Y: 0},
		{X: w, Y: 0},
		{X: w, Y: h},
		{X: 0, Y: h},
	}

	forward, err := ComputeHomography(src, dst)
	if err != nil {
		return nil, err
	}
	inverse, ok := forward.Inverse()
	if !ok {
		return nil, fmt.Errorf("%w: transform is not invertible", ErrDegenerateGeometry)
	}

	return &Plan{
		Corners:    src,
		EdgeWidth:  w,
		EdgeHeight: h,
		Width:      outW,
		Height:     outH,
		Forward:    forward,
		Inverse:    inverse,
	}, nil
}
