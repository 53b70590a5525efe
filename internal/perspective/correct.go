// Package perspective maps a quadrilateral picked on a photo onto an upright
// rectangle, undoing keystone and perspective distortion.
package perspective

import (
	"fmt"
	"image/color"

	"perspectivefix/internal/image"
)

// Options controls resampling.
type Options struct {
	Interpolation Interpolation
	Background    color.RGBA // colour for samples outside the source
}

// DefaultOptions returns bilinear sampling on a black background.
func DefaultOptions() Options {
	return Options{
		Interpolation: InterpolationBilinear,
		Background:    color.RGBA{A: 0xff},
	}
}

// Corrector runs perspective corrections with fixed options. It holds no
// per-call state and is safe for concurrent use.
type Corrector struct {
	opts Options
}

// NewCorrector creates a Corrector.
func NewCorrector(opts Options) *Corrector {
	return &Corrector{opts: opts}
}

// Options returns the options the corrector was built with.
func (c *Corrector) Options() Options {
	return c.opts
}

// Correct returns a new buffer containing the region inside corners, squared
// off to a rectangle. Neither argument is modified.
func (c *Corrector) Correct(src *image.Buffer, corners CornerSet) (*image.Buffer, error) {
	plan, err := PlanFor(src, corners)
	if err != nil {
		return nil, err
	}
	return Warp(src, plan.Inverse, plan.Width, plan.Height, c.opts), nil
}

// PlanFor validates the image and corners and computes the plan.
func PlanFor(src *image.Buffer, corners CornerSet) (*Plan, error) {
	if src.Empty() {
		w, h := 0, 0
		if src != nil {
			w, h = src.Width, src.Height
		}
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyImage, w, h)
	}
	return NewPlan(corners)
}

// Correct runs a correction with DefaultOptions.
func Correct(src *image.Buffer, corners CornerSet) (*image.Buffer, error) {
	return NewCorrector(DefaultOptions()).Correct(src, corners)
}
