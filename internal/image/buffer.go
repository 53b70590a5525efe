// Package image provides the RGB pixel buffer, rotation, loading and saving.
package image

import (
	"bytes"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Channels is the number of bytes per pixel in a Buffer.
const Channels = 3

// Buffer is an 8-bit RGB pixel grid stored row-major without padding.
// Buffers are treated as immutable once handed to another component;
// operations that change geometry return a new Buffer.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewBuffer allocates a black buffer of the given size.
func NewBuffer(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*Channels),
	}
}

// Empty reports whether the buffer has no pixels.
func (b *Buffer) Empty() bool {
	return b == nil || b.Width <= 0 || b.Height <= 0 || len(b.Pix) < b.Width*b.Height*Channels
}

// Stride returns the number of bytes per row.
func (b *Buffer) Stride() int {
	return b.Width * Channels
}

// RGBAt returns the channels of the pixel at (x, y). The caller must stay in bounds.
func (b *Buffer) RGBAt(x, y int) (r, g, bl uint8) {
	i := (y*b.Width + x) * Channels
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2]
}

// SetRGB writes the pixel at (x, y). The caller must stay in bounds.
func (b *Buffer) SetRGB(x, y int, r, g, bl uint8) {
	i := (y*b.Width + x) * Channels
	b.Pix[i] = r
	b.Pix[i+1] = g
	b.Pix[i+2] = bl
}

// Fill sets every pixel to the given color.
func (b *Buffer) Fill(c color.RGBA) {
	for i := 0; i+2 < len(b.Pix); i += Channels {
		b.Pix[i] = c.R
		b.Pix[i+1] = c.G
		b.Pix[i+2] = c.B
	}
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{Width: b.Width, Height: b.Height, Pix: make([]uint8, len(b.Pix))}
	copy(out.Pix, b.Pix)
	return out
}

// Equal reports whether both buffers have the same size and pixels.
func (b *Buffer) Equal(other *Buffer) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.Width == other.Width && b.Height == other.Height && bytes.Equal(b.Pix, other.Pix)
}

// ColorModel implements image.Image.
func (b *Buffer) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements image.Image.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// At implements image.Image. Pixels outside the buffer are transparent.
func (b *Buffer) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return color.RGBA{}
	}
	r, g, bl := b.RGBAt(x, y)
	return color.RGBA{R: r, G: g, B: bl, A: 0xff}
}

// ToNRGBA converts the buffer to an opaque *image.NRGBA.
func (b *Buffer) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		src := b.Pix[y*b.Stride() : (y+1)*b.Stride()]
		dst := img.Pix[y*img.Stride : y*img.Stride+b.Width*4]
		for x := 0; x < b.Width; x++ {
			dst[x*4+0] = src[x*3+0]
			dst[x*4+1] = src[x*3+1]
			dst[x*4+2] = src[x*3+2]
			dst[x*4+3] = 0xff
		}
	}
	return img
}

// FromImage converts any image to a Buffer. Translucent pixels are composited
// onto black, so the result always has exactly three channels.
func FromImage(src image.Image) *Buffer {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := NewBuffer(w, h)
	if w == 0 || h == 0 {
		return out
	}

	rgba, ok := src.(*image.RGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)
	}

	// RGBA is premultiplied, which is the same as compositing onto black.
	for y := 0; y < h; y++ {
		srcRow := rgba.Pix[y*rgba.Stride : y*rgba.Stride+w*4]
		dstRow := out.Pix[y*out.Stride() : (y+1)*out.Stride()]
		for x := 0; x < w; x++ {
			dstRow[x*3+0] = srcRow[x*4+0]
			dstRow[x*3+1] = srcRow[x*4+1]
			dstRow[x*3+2] = srcRow[x*4+2]
		}
	}
	return out
}
