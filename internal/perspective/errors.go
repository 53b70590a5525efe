package perspective

import "errors"

// Failures reported before any resampling starts. Callers test for them with
// errors.Is; the returned errors carry the offending values as detail.
var (
	// ErrInvalidCornerCount means the corner set does not hold exactly four points.
	ErrInvalidCornerCount = errors.New("invalid corner count")

	// ErrDegenerateGeometry means the corners do not span a usable quadrilateral:
	// points coincide, three or more are collinear, or the transform is singular.
	ErrDegenerateGeometry = errors.New("degenerate corner geometry")

	// ErrEmptyImage means the source image has zero width or height.
	ErrEmptyImage = errors.New("empty image")
)
