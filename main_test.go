package main

import (
	"path/filepath"
	"testing"

	"perspectivefix/internal/image"
	"perspectivefix/internal/perspective"
	"perspectivefix/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	w, h, err := parseSize("640X480")
	require.NoError(t, err)
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)

	for _, bad := range []string{"640", "ax480", "0x10", "10x-1"} {
		_, _, err := parseSize(bad)
		assert.Error(t, err, bad)
	}
}

func TestNewCorrectorRejectsUnknownBackend(t *testing.T) {
	_, err := newCorrector("cuda", "bilinear")
	assert.Error(t, err)
	_, err = newCorrector("go", "cubic")
	assert.Error(t, err)

	c, err := newCorrector("go", "nearest")
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestResolveOutput(t *testing.T) {
	last := filepath.Join("/", "home", "me", "scans")
	assert.Equal(t, filepath.Join(last, "out.png"), resolveOutput("out.png", last))
	assert.Equal(t, filepath.Join("sub", "out.png"), resolveOutput(filepath.Join("sub", "out.png"), last))
	assert.Equal(t, "/tmp/out.png", resolveOutput("/tmp/out.png", last))
	assert.Equal(t, "out.png", resolveOutput("out.png", ""))
}

func corners(pts ...float64) perspective.CornerSet {
	var out []geometry.Point2D
	for i := 0; i+1 < len(pts); i += 2 {
		out = append(out, geometry.NewPoint2D(pts[i], pts[i+1]))
	}
	return perspective.NewCornerSet(out...)
}

func TestCornerWarnings(t *testing.T) {
	img := image.NewBuffer(100, 100)

	assert.Empty(t, cornerWarnings(img, corners(0, 0, 99, 0, 99, 99, 0, 99)))

	w := cornerWarnings(img, corners(-5, 0, 99, 0, 99, 99, 0, 99))
	require.Len(t, w, 1)
	assert.Contains(t, w[0], "corner 0")

	w = cornerWarnings(img, corners(0, 0, 0, 99, 99, 99, 99, 0))
	require.Len(t, w, 1)
	assert.Contains(t, w[0], "counter-clockwise")

	w = cornerWarnings(img, corners(0, 0, 99, 99, 99, 0, 0, 99))
	require.Len(t, w, 1)
	assert.Contains(t, w[0], "convex")

	assert.Len(t, cornerWarnings(nil, corners(0, 0, 0, 99, 99, 99, 99, 0)), 1)
}
