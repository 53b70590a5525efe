// Package cvwarp runs perspective corrections through OpenCV. It shares
// validation and the solved transform with package perspective and only
// replaces the resampling step.
package cvwarp

import (
	"fmt"
	goimage "image"
	"image/color"

	"perspectivefix/internal/image"
	"perspectivefix/internal/perspective"
	"perspectivefix/pkg/geometry"

	"gocv.io/x/gocv"
)

// Corrector resamples with gocv.WarpPerspective.
type Corrector struct {
	opts perspective.Options
}

// NewCorrector creates an OpenCV-backed corrector.
func NewCorrector(opts perspective.Options) *Corrector {
	return &Corrector{opts: opts}
}

// Correct has the same contract and errors as perspective.Corrector.Correct.
func (c *Corrector) Correct(src *image.Buffer, corners perspective.CornerSet) (*image.Buffer, error) {
	plan, err := perspective.PlanFor(src, corners)
	if err != nil {
		return nil, err
	}

	mat, err := bufferToMat(src)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	warped := WarpPerspective(mat, plan.Forward, plan.Width, plan.Height, c.opts)
	defer warped.Close()

	return matToBuffer(warped)
}

// WarpPerspective applies a forward homography to a 3-channel Mat.
func WarpPerspective(src gocv.Mat, h geometry.Homography, width, height int, opts perspective.Options) gocv.Mat {
	transformMat := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV64F)
	defer transformMat.Close()
	for r := 0; r < 3; r++ {
		for col := 0; col < 3; col++ {
			transformMat.SetDoubleAt(r, col, h[r*3+col])
		}
	}

	flags := gocv.InterpolationLinear
	if opts.Interpolation == perspective.InterpolationNearest {
		flags = gocv.InterpolationNearestNeighbor
	}

	// gocv hands the border colour to OpenCV as B,G,R. Mats built here hold
	// RGB, so the channels are swapped to land in the right place.
	bg := opts.Background
	border := color.RGBA{R: bg.B, G: bg.G, B: bg.R, A: bg.A}

	dst := gocv.NewMat()
	gocv.WarpPerspectiveWithParams(src, &dst, transformMat, goimage.Point{X: width, Y: height},
		flags, gocv.BorderConstant, border)

	return dst
}

// bufferToMat copies an RGB buffer into a CV_8UC3 Mat keeping channel order.
func bufferToMat(b *image.Buffer) (gocv.Mat, error) {
	data := make([]byte, len(b.Pix))
	copy(data, b.Pix)

	mat, err := gocv.NewMatFromBytes(b.Height, b.Width, gocv.MatTypeCV8UC3, data)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("failed to convert image: %w", err)
	}
	return mat, nil
}

// matToBuffer copies a CV_8UC3 Mat back into a buffer.
func matToBuffer(mat gocv.Mat) (*image.Buffer, error) {
	if mat.Empty() {
		return nil, fmt.Errorf("warp produced an empty image")
	}
	if mat.Type() != gocv.MatTypeCV8UC3 {
		return nil, fmt.Errorf("unexpected mat type %v", mat.Type())
	}

	out := image.NewBuffer(mat.Cols(), mat.Rows())
	data := mat.ToBytes()
	if len(data) != len(out.Pix) {
		return nil, fmt.Errorf("mat holds %d bytes, want %d", len(data), len(out.Pix))
	}
	copy(out.Pix, data)
	return out, nil
}
