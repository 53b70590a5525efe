package perspective

import (
	"fmt"
	"math"

	"perspectivefix/pkg/geometry"

	"gonum.org/v1/gonum/mat"
)

// maxCondition bounds the condition number of the normalised 8x8 system.
// Well-formed quads stay many orders of magnitude below it.
const maxCondition = 1e12

// residualTolerance is the largest corner reprojection error accepted, relative
// to the destination rectangle size.
const residualTolerance = 1e-6

// ComputeHomography solves the projective transform mapping src[i] onto dst[i]
// exactly. Both point sets are normalised first (centroid at the origin, mean
// distance sqrt(2)) so the conditioning check means the same at any image size.
func ComputeHomography(src, dst [4]geometry.Point2D) (geometry.Homography, error) {
	srcNorm, srcT, _ := normalizePoints(src)
	dstNorm, _, dstInv := normalizePoints(dst)

	hn, err := solveDLT(srcNorm, dstNorm)
	if err != nil {
		return geometry.Homography{}, err
	}

	// H = T_dst^-1 * Hn * T_src
	h := geometry.HomographyFromAffine(dstInv).
		Compose(hn).
		Compose(geometry.HomographyFromAffine(srcT))
	if h[8] == 0 {
		return geometry.Homography{}, fmt.Errorf("%w: transform maps the origin to infinity", ErrDegenerateGeometry)
	}
	s := h[8]
	for i := range h {
		h[i] /= s
	}

	if err := checkResiduals(h, src, dst); err != nil {
		return geometry.Homography{}, err
	}
	return h, nil
}

// solveDLT builds the 8x8 system for h00..h21 with h22 fixed to 1.
func solveDLT(src, dst [4]geometry.Point2D) (geometry.Homography, error) {
	A := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)

	for i := 0; i < 4; i++ {
		X, Y := src[i].X, src[i].Y
		x, y := dst[i].X, dst[i].Y
		r := 2 * i

		// x = (h0 X + h1 Y + h2) / (h6 X + h7 Y + 1)
		A.Set(r, 0, X)
		A.Set(r, 1, Y)
		A.Set(r, 2, 1)
		A.Set(r, 6, -X*x)
		A.Set(r, 7, -Y*x)
		b.SetVec(r, x)

		// y = (h3 X + h4 Y + h5) / (h6 X + h7 Y + 1)
		A.Set(r+1, 3, X)
		A.Set(r+1, 4, Y)
		A.Set(r+1, 5, 1)
		A.Set(r+1, 6, -X*y)
		A.Set(r+1, 7, -Y*y)
		b.SetVec(r+1, y)
	}

	if c := mat.Cond(A, 2); math.IsInf(c, 1) || math.IsNaN(c) || c > maxCondition {
		return geometry.Homography{}, fmt.Errorf("%w: singular transform (condition %.3g)", ErrDegenerateGeometry, c)
	}

	var params mat.VecDense
	if err := params.SolveVec(A, b); err != nil {
		return geometry.Homography{}, fmt.Errorf("%w: %v", ErrDegenerateGeometry, err)
	}

	var h geometry.Homography
	for i := 0; i < 8; i++ {
		h[i] = params.AtVec(i)
	}
	h[8] = 1
	return h, nil
}

// normalizePoints returns the points moved to a zero centroid and scaled to a
// mean distance of sqrt(2), together with the transform that did it and its
// inverse. The inverse is built from the scale directly; its determinant
// shrinks with the square of the extent and would trip a generic inverse.
func normalizePoints(pts [4]geometry.Point2D) ([4]geometry.Point2D, geometry.AffineTransform, geometry.AffineTransform) {
	c := geometry.Centroid(pts[:])

	var mean float64
	for _, p := range pts {
		mean += p.Distance(c)
	}
	mean /= float64(len(pts))

	scale := 1.0
	if mean > 0 {
		scale = math.Sqrt2 / mean
	}

	t := geometry.Scale(scale, scale).Compose(geometry.Translation(-c.X, -c.Y))
	inv := geometry.Translation(c.X, c.Y).Compose(geometry.Scale(1/scale, 1/scale))
	var out [4]geometry.Point2D
	for i, p := range pts {
		out[i] = t.Apply(p)
	}
	return out, t, inv
}

// checkResiduals verifies the transform sends every source corner to its target.
func checkResiduals(h geometry.Homography, src, dst [4]geometry.Point2D) error {
	extent := geometry.BoundingBox(dst[:])
	tol := residualTolerance * math.Max(1, math.Max(extent.Width, extent.Height))

	for i := range src {
		got, ok := h.Apply(src[i])
		if !ok || got.Distance(dst[i]) > tol {
			return fmt.Errorf("%w: corner %d does not map onto the output rectangle", ErrDegenerateGeometry, i)
		}
	}
	return nil
}
