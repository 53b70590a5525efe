package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTurns(t *testing.T) {
	got, err := ParseTurns("cw, CCW,,180,right")
	require.NoError(t, err)
	assert.Equal(t, []Turn{TurnClockwise, TurnCounterClockwise, TurnHalf, TurnClockwise}, got)

	got, err = ParseTurns("")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = ParseTurns("cw,up")
	assert.Error(t, err)
}

func TestApplyTurns(t *testing.T) {
	s := NewState(nil)
	src := testImage(30, 20)
	s.SetImage(src, "")

	require.NoError(t, s.Apply(TurnClockwise))
	assert.Equal(t, 20, s.Image().Width)

	require.NoError(t, s.Apply(TurnClockwise, TurnHalf))
	assert.True(t, src.Equal(s.Image()), "cw + cw + 180 is a full turn")

	assert.Error(t, s.Apply(Turn(9)))
	assert.True(t, errors.Is(NewState(nil).Apply(TurnHalf), ErrNoImage))
	assert.Equal(t, "180", TurnHalf.String())
}
