package app

import (
	"math"

	"perspectivefix/pkg/geometry"
)

// ZoomStep is the factor applied by ZoomIn and ZoomOut.
const ZoomStep = 1.2

// Viewport maps between image pixels and view (screen) pixels so corners are
// stored in image space whatever the zoom and pan.
type Viewport struct {
	ImageSize geometry.Size
	ViewSize  geometry.Size
	Zoom      float64
	Pan       geometry.Point2D
}

// FitZoom returns the zoom that shows the whole image inside the view.
func FitZoom(imageSize, viewSize geometry.Size) float64 {
	if imageSize.Width <= 0 || imageSize.Height <= 0 || viewSize.Width <= 0 || viewSize.Height <= 0 {
		return 1.0
	}
	return math.Min(viewSize.Width/imageSize.Width, viewSize.Height/imageSize.Height)
}

// NewViewport creates a viewport zoomed to fit.
func NewViewport(imageSize, viewSize geometry.Size) *Viewport {
	return &Viewport{
		ImageSize: imageSize,
		ViewSize:  viewSize,
		Zoom:      FitZoom(imageSize, viewSize),
	}
}

// Reset zooms to fit and clears the pan.
func (v *Viewport) Reset() {
	v.Zoom = FitZoom(v.ImageSize, v.ViewSize)
	v.Pan = geometry.Point2D{}
}

// Resize changes the view size, keeping zoom and pan.
func (v *Viewport) Resize(viewSize geometry.Size) {
	v.ViewSize = viewSize
}

// ZoomIn enlarges the image by ZoomStep.
func (v *Viewport) ZoomIn() {
	v.Zoom *= ZoomStep
}

// ZoomOut shrinks the image by ZoomStep.
func (v *Viewport) ZoomOut() {
	v.Zoom /= ZoomStep
}

// PanBy shifts the image by a screen-space delta.
func (v *Viewport) PanBy(dx, dy float64) {
	v.Pan = v.Pan.Add(geometry.NewPoint2D(dx, dy))
}

// Offset returns where the image's top-left corner sits in the view. The
// image is centred while it is smaller than the view.
func (v *Viewport) Offset() geometry.Point2D {
	scaledW := v.ImageSize.Width * v.Zoom
	scaledH := v.ImageSize.Height * v.Zoom
	x := math.Max(0, math.Floor((v.ViewSize.Width-scaledW)/2))
	y := math.Max(0, math.Floor((v.ViewSize.Height-scaledH)/2))
	return geometry.NewPoint2D(x, y).Add(v.Pan)
}

// ImageToScreen returns the transform from image to view coordinates.
func (v *Viewport) ImageToScreen() geometry.AffineTransform {
	off := v.Offset()
	return geometry.Translation(off.X, off.Y).Compose(geometry.Scale(v.Zoom, v.Zoom))
}

// ScreenToImage converts a view position to image coordinates.
func (v *Viewport) ScreenToImage(p geometry.Point2D) geometry.Point2D {
	inv, ok := v.ImageToScreen().Inverse()
	if !ok {
		return p
	}
	return inv.Apply(p)
}

// ImageToScreenPoint converts an image position to view coordinates.
func (v *Viewport) ImageToScreenPoint(p geometry.Point2D) geometry.Point2D {
	return v.ImageToScreen().Apply(p)
}

// Contains reports whether an image-space point lies on the image.
func (v *Viewport) Contains(p geometry.Point2D) bool {
	return geometry.NewRect(0, 0, v.ImageSize.Width, v.ImageSize.Height).Contains(p)
}
