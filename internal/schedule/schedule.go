// Package schedule maps animation frame indexes to eased parameter values.
package schedule

import (
	"fmt"
	"math"
)

// Phase is (frames - index) / frames: 1 at the first frame, approaching 0 at
// the last.
func Phase(frames, index int) float64 {
	return float64(frames-index) / float64(frames)
}

// Ease maps a phase in [0, 1] onto [0, 1] along a half cosine. The slope is
// zero at both ends and Ease(1) == 1, Ease(0) == 0.
func Ease(phase float64) float64 {
	return 0.5 - math.Cos(phase*math.Pi)*0.5
}

// Zoom interpolates a strictly positive quantity in log space. Frame 0 is at
// End and the sequence falls toward Start as the index approaches Frames.
type Zoom struct {
	Start  float64
	End    float64
	Frames int
}

// NewZoom creates a zoom schedule
func NewZoom(start, end float64, frames int) (Zoom, error) {
	if start <= 0 || end <= 0 {
		return Zoom{}, fmt.Errorf("zoom schedule needs positive start and end, got %g and %g", start, end)
	}
	if frames <= 0 {
		return Zoom{}, fmt.Errorf("zoom schedule needs a positive frame count, got %d", frames)
	}
	return Zoom{Start: start, End: end, Frames: frames}, nil
}

// At returns the zoom for a frame index in [0, Frames].
func (z Zoom) At(index int) float64 {
	lo := math.Log(z.Start)
	hi := math.Log(z.End)
	eased := Ease(Phase(z.Frames, index))
	return math.Exp(eased*(hi-lo) + lo)
}

// Angle sweeps one full turn, starting at 2π for frame 0.
type Angle struct {
	Frames int
}

// NewAngle creates an angle schedule
func NewAngle(frames int) (Angle, error) {
	if frames <= 0 {
		return Angle{}, fmt.Errorf("angle schedule needs a positive frame count, got %d", frames)
	}
	return Angle{Frames: frames}, nil
}

// At returns the angle in radians for a frame index.
func (a Angle) At(index int) float64 {
	return Phase(a.Frames, index) * 2 * math.Pi
}

// Point returns the point at the frame's angle on a circle of the given radius.
func (a Angle) Point(index int, radius float64) (x, y float64) {
	theta := a.At(index)
	return radius * math.Cos(theta), radius * math.Sin(theta)
}
