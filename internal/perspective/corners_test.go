package perspective

import (
	"errors"
	"testing"

	"perspectivefix/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCornerSetEditsReturnNewValues(t *testing.T) {
	empty := NewCornerSet()
	assert.Equal(t, 0, empty.Len())
	assert.False(t, empty.Complete())

	one, err := empty.Add(pt(1, 2))
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len(), "Add must not change the receiver")
	assert.Equal(t, 1, one.Len())

	set := one
	for _, p := range []geometry.Point2D{pt(3, 4), pt(5, 6), pt(7, 8)} {
		set, err = set.Add(p)
		require.NoError(t, err)
	}
	assert.True(t, set.Complete())
	assert.Equal(t, 1, one.Len())

	_, err = set.Add(pt(9, 9))
	assert.True(t, errors.Is(err, ErrInvalidCornerCount))

	moved, err := set.Move(2, pt(50, 60))
	require.NoError(t, err)
	assert.Equal(t, pt(50, 60), moved.At(2))
	assert.Equal(t, pt(5, 6), set.At(2), "Move must not change the receiver")

	_, err = set.Move(4, pt(0, 0))
	assert.Error(t, err)
	_, err = set.Move(-1, pt(0, 0))
	assert.Error(t, err)

	assert.Equal(t, 0, set.Clear().Len())
	assert.Equal(t, 4, set.Len())
}

func TestCornerSetDoesNotAliasCallerSlices(t *testing.T) {
	pts := []geometry.Point2D{pt(0, 0), pt(1, 0), pt(1, 1), pt(0, 1)}
	set := NewCornerSet(pts...)
	pts[0] = pt(99, 99)
	assert.Equal(t, pt(0, 0), set.At(0))

	out := set.Points()
	out[1] = pt(42, 42)
	assert.Equal(t, pt(1, 0), set.At(1))
}

func TestCornerSetNearest(t *testing.T) {
	set := NewCornerSet(pt(10, 10), pt(100, 10), pt(100, 100))
	assert.Equal(t, 1, set.Nearest(pt(105, 15), 20))
	assert.Equal(t, -1, set.Nearest(pt(50, 50), 20))
	assert.Equal(t, -1, NewCornerSet().Nearest(pt(0, 0), 20))
}

func TestCornerSetOrdered(t *testing.T) {
	set := NewCornerSet(pt(90, 95), pt(5, 10), pt(10, 90), pt(95, 5))
	ordered := set.Ordered()
	assert.Equal(t, []geometry.Point2D{pt(5, 10), pt(95, 5), pt(90, 95), pt(10, 90)}, ordered.Points())
	assert.Equal(t, pt(90, 95), set.At(0))
}

func TestParseCornerSet(t *testing.T) {
	set, err := ParseCornerSet("0,0 100,0;100.5,80 0,80")
	require.NoError(t, err)
	assert.Equal(t, []geometry.Point2D{pt(0, 0), pt(100, 0), pt(100.5, 80), pt(0, 80)}, set.Points())

	again, err := ParseCornerSet(set.String())
	require.NoError(t, err)
	assert.Equal(t, set.Points(), again.Points())

	empty, err := ParseCornerSet("   ")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())

	for _, bad := range []string{"1,2,3", "a,1", "1,b", "12"} {
		_, err := ParseCornerSet(bad)
		assert.Error(t, err, bad)
	}
}

func TestCornerSetWinding(t *testing.T) {
	tests := []struct {
		name string
		set  CornerSet
		want Winding
	}{
		{"clockwise", NewCornerSet(pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)), WindingClockwise},
		{"counter-clockwise", NewCornerSet(pt(0, 0), pt(0, 10), pt(10, 10), pt(10, 0)), WindingCounterClockwise},
		{"bow tie", NewCornerSet(pt(0, 0), pt(10, 10), pt(10, 0), pt(0, 10)), WindingNotConvex},
		{"dart", NewCornerSet(pt(0, 0), pt(10, 0), pt(2, 2), pt(0, 10)), WindingNotConvex},
		{"line", NewCornerSet(pt(0, 0), pt(1, 1), pt(2, 2), pt(3, 3)), WindingUnknown},
		{"too few", NewCornerSet(pt(0, 0), pt(1, 0)), WindingUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.set.Winding())
		})
	}

	mirrored := NewCornerSet(pt(0, 0), pt(0, 10), pt(10, 10), pt(10, 0))
	assert.Equal(t, WindingClockwise, mirrored.Ordered().Winding())
	assert.Equal(t, "counter-clockwise", WindingCounterClockwise.String())
}
