package image

import (
	"github.com/disintegration/imaging"
)

// Rotate returns a new buffer turned 90 degrees. Width and height swap.
func Rotate(b *Buffer, clockwise bool) *Buffer {
	if b.Empty() {
		return NewBuffer(b.heightOrZero(), b.widthOrZero())
	}

	src := b.ToNRGBA()
	// imaging rotates counter-clockwise.
	if clockwise {
		return FromImage(imaging.Rotate270(src))
	}
	return FromImage(imaging.Rotate90(src))
}

// Rotate180 returns a new buffer turned upside down.
func Rotate180(b *Buffer) *Buffer {
	if b.Empty() {
		return NewBuffer(b.widthOrZero(), b.heightOrZero())
	}
	return FromImage(imaging.Rotate180(b.ToNRGBA()))
}

func (b *Buffer) widthOrZero() int {
	if b == nil {
		return 0
	}
	return b.Width
}

func (b *Buffer) heightOrZero() int {
	if b == nil {
		return 0
	}
	return b.Height
}
