package perspective

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"perspectivefix/internal/image"
	"perspectivefix/pkg/geometry"
)

// snapEpsilon pulls sample positions that are within rounding noise of a pixel
// centre onto it, so identity-like transforms copy pixels exactly.
const snapEpsilon = 1e-6

// Interpolation selects how non-integer sample positions are resolved.
type Interpolation int

const (
	InterpolationBilinear Interpolation = iota
	InterpolationNearest
)

func (i Interpolation) String() string {
	switch i {
	case InterpolationBilinear:
		return "bilinear"
	case InterpolationNearest:
		return "nearest"
	default:
		return "unknown"
	}
}

// ParseInterpolation maps a name to an Interpolation.
func ParseInterpolation(s string) (Interpolation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bilinear", "linear":
		return InterpolationBilinear, nil
	case "nearest":
		return InterpolationNearest, nil
	default:
		return InterpolationBilinear, fmt.Errorf("unknown interpolation %q", s)
	}
}

// Warp produces a width x height buffer where each output pixel (x, y) takes
// the source colour at dstToSrc(x, y). Samples falling outside the source take
// the background colour.
func Warp(src *image.Buffer, dstToSrc geometry.Homography, width, height int, opts Options) *image.Buffer {
	out := image.NewBuffer(width, height)
	out.Fill(opts.Background)
	s := sampler{src: src, bg: opts.Background}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p, ok := dstToSrc.Apply(geometry.Point2D{X: float64(x), Y: float64(y)})
			if !ok {
				continue
			}
			sx, sy := snap(p.X), snap(p.Y)

			var r, g, b uint8
			if opts.Interpolation == InterpolationNearest {
				r, g, b = s.nearest(sx, sy)
			} else {
				r, g, b = s.bilinear(sx, sy)
			}
			out.SetRGB(x, y, r, g, b)
		}
	}
	return out
}

func snap(v float64) float64 {
	if r := math.Round(v); math.Abs(v-r) < snapEpsilon {
		return r
	}
	return v
}

type sampler struct {
	src *image.Buffer
	bg  color.RGBA
}

// pixel returns the source pixel, or the background outside the image.
func (s sampler) pixel(x, y int) (r, g, b float64) {
	if x < 0 || y < 0 || x >= s.src.Width || y >= s.src.Height {
		return float64(s.bg.R), float64(s.bg.G), float64(s.bg.B)
	}
	pr, pg, pb := s.src.RGBAt(x, y)
	return float64(pr), float64(pg), float64(pb)
}

func (s sampler) nearest(sx, sy float64) (uint8, uint8, uint8) {
	if math.IsNaN(sx) || math.IsNaN(sy) || math.Abs(sx) > math.MaxInt32 || math.Abs(sy) > math.MaxInt32 {
		return s.bg.R, s.bg.G, s.bg.B
	}
	r, g, b := s.pixel(int(math.Round(sx)), int(math.Round(sy)))
	return uint8(r), uint8(g), uint8(b)
}

// bilinear blends the four neighbours. Neighbours with zero weight are never
// read, and neighbours outside the image contribute the background colour.
func (s sampler) bilinear(sx, sy float64) (uint8, uint8, uint8) {
	if math.IsNaN(sx) || math.IsNaN(sy) || math.Abs(sx) > math.MaxInt32 || math.Abs(sy) > math.MaxInt32 {
		return s.bg.R, s.bg.G, s.bg.B
	}

	fx0, fy0 := math.Floor(sx), math.Floor(sy)
	x0, y0 := int(fx0), int(fy0)
	fx, fy := sx-fx0, sy-fy0

	weights := [4]float64{
		(1 - fx) * (1 - fy),
		fx * (1 - fy),
		(1 - fx) * fy,
		fx * fy,
	}
	offsets := [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}

	var r, g, b float64
	for i, w := range weights {
		if w == 0 {
			continue
		}
		pr, pg, pb := s.pixel(x0+offsets[i][0], y0+offsets[i][1])
		r += w * pr
		g += w * pg
		b += w * pb
	}
	return clampByte(r), clampByte(g), clampByte(b)
}

func clampByte(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
