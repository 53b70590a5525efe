package image

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// DefaultJPEGQuality is used when a caller passes a quality outside 1..100.
const DefaultJPEGQuality = 95

// Save encodes the buffer to path. The format follows the file extension.
// WebP can be read but not written.
func Save(path string, b *Buffer, jpegQuality int) error {
	if b.Empty() {
		return fmt.Errorf("refusing to save empty image to %s", path)
	}
	if _, err := imaging.FormatFromFilename(path); err != nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	if err := imaging.Save(b.ToNRGBA(), path, imaging.JPEGQuality(clampQuality(jpegQuality))); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// Encode writes the buffer to w in the format named by ext (".png", ".jpg", ...).
func Encode(w io.Writer, b *Buffer, ext string, jpegQuality int) error {
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err := imaging.Encode(w, b.ToNRGBA(), format, imaging.JPEGQuality(clampQuality(jpegQuality))); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

// Fit scales the buffer down to fit within maxW x maxH, keeping the aspect
// ratio. Buffers that already fit are returned unchanged.
func Fit(b *Buffer, maxW, maxH int) *Buffer {
	if b.Empty() || maxW <= 0 || maxH <= 0 {
		return b
	}
	if b.Width <= maxW && b.Height <= maxH {
		return b
	}
	return FromImage(imaging.Fit(b.ToNRGBA(), maxW, maxH, imaging.Lanczos))
}

func clampQuality(q int) int {
	if q < 1 || q > 100 {
		return DefaultJPEGQuality
	}
	return q
}
