package schedule

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestZoomBoundaryValues(t *testing.T) {
	z, err := NewZoom(1, 100, 2)
	require.NoError(t, err)

	require.InDelta(t, 100, z.At(0), 1e-9)
	require.InDelta(t, 10, z.At(1), 1e-9)
	require.InDelta(t, 1, z.At(2), 1e-9)
}

func TestZoomMonotonicInLog(t *testing.T) {
	z, err := NewZoom(0.2, 900, 80)
	require.NoError(t, err)

	prev := math.Log(z.At(0))
	for i := 1; i <= z.Frames; i++ {
		cur := math.Log(z.At(i))
		require.Less(t, cur, prev, "frame %d", i)
		prev = cur
	}
}

func TestZoomEasesAtBothEnds(t *testing.T) {
	z, err := NewZoom(1, 1000, 100)
	require.NoError(t, err)

	step := func(i int) float64 { return math.Abs(math.Log(z.At(i+1)) - math.Log(z.At(i))) }
	middle := step(50)
	require.Less(t, step(0), middle/10)
	require.Less(t, step(99), middle/10)
}

func TestNewZoomRejectsInvalid(t *testing.T) {
	_, err := NewZoom(0, 10, 5)
	require.Error(t, err)
	_, err = NewZoom(1, -10, 5)
	require.Error(t, err)
	_, err = NewZoom(1, 10, 0)
	require.Error(t, err)
}

func TestEase(t *testing.T) {
	require.InDelta(t, 0, Ease(0), 1e-12)
	require.InDelta(t, 0.5, Ease(0.5), 1e-12)
	require.InDelta(t, 1, Ease(1), 1e-12)
}

func TestAngle(t *testing.T) {
	a, err := NewAngle(4)
	require.NoError(t, err)

	require.InDelta(t, 2*math.Pi, a.At(0), 1e-12)
	require.InDelta(t, math.Pi, a.At(2), 1e-12)

	x, y := a.Point(1, 0.7885)
	require.InDelta(t, 0, x, 1e-9)
	require.InDelta(t, -0.7885, y, 1e-9)

	_, err = NewAngle(0)
	require.Error(t, err)
}
