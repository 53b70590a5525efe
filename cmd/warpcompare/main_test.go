package main

import (
	"testing"

	"perspectivefix/internal/image"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	a := image.NewBuffer(2, 1)
	b := image.NewBuffer(2, 1)
	copy(a.Pix, []uint8{10, 20, 30, 40, 50, 60})
	copy(b.Pix, []uint8{10, 21, 27, 40, 50, 100})

	d, err := compare(a, b)
	require.NoError(t, err)
	assert.Equal(t, 6, d.Count)
	assert.Equal(t, 40, d.Max)
	assert.Equal(t, 2, d.Over1)
	assert.InDelta(t, 44.0/6, d.Mean, 1e-12)
	assert.Equal(t, []uint8{0, 8, 24, 0, 0, 255}, d.Image.Pix)
}

func TestCompareSizeMismatch(t *testing.T) {
	_, err := compare(image.NewBuffer(2, 2), image.NewBuffer(2, 3))
	assert.Error(t, err)
}
