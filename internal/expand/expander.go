// Package expand enumerates campaign parameter spaces into job descriptors.
package expand

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// Axis is a named, ordered sequence of discrete values. Labels are the
// textual form of each value as it appears in the job identifier.
type Axis struct {
	Name   string
	Labels []string
}

// Coord is the position of one job along one axis
type Coord struct {
	Axis  string
	Index int
	Label string
}

// Descriptor is one point of a parameter space. It is never persisted; its
// ID names the job's workspace and is the only key for idempotence.
type Descriptor struct {
	Prefix string
	Coords []Coord
}

// ID concatenates the prefix and every axis name and label in axis order.
func (d Descriptor) ID() string {
	parts := make([]string, 0, len(d.Coords)+1)
	if d.Prefix != "" {
		parts = append(parts, d.Prefix)
	}
	for _, c := range d.Coords {
		parts = append(parts, c.Axis+c.Label)
	}
	return strings.Join(parts, "_")
}

// Index returns the position of the descriptor along the named axis.
func (d Descriptor) Index(axis string) (int, bool) {
	for _, c := range d.Coords {
		if c.Axis == axis {
			return c.Index, true
		}
	}
	return 0, false
}

// Labels maps axis name to label, for plan output.
func (d Descriptor) Labels() map[string]string {
	out := make(map[string]string, len(d.Coords))
	for _, c := range d.Coords {
		out[c.Axis] = c.Label
	}
	return out
}

// Space is a cartesian product of axes. The first axis varies slowest.
type Space struct {
	Prefix string
	Axes   []Axis
}

// NewSpace creates a validated space
func NewSpace(prefix string, axes ...Axis) (Space, error) {
	s := Space{Prefix: prefix, Axes: axes}
	if err := s.Validate(); err != nil {
		return Space{}, err
	}
	return s, nil
}

// Frames is the single axis space used by animations: frame0 .. frame{count-1}.
func Frames(count int) (Space, error) {
	if count <= 0 {
		return Space{}, fmt.Errorf("frame count must be positive, got %d", count)
	}
	return NewSpace("", Axis{Name: "frame", Labels: IndexLabels(count)})
}

// Validate rejects spaces whose combinations could not be told apart by ID.
func (s Space) Validate() error {
	if len(s.Axes) == 0 {
		return fmt.Errorf("parameter space has no axes")
	}
	names := make(map[string]bool, len(s.Axes))
	for _, axis := range s.Axes {
		if axis.Name == "" {
			return fmt.Errorf("axis must have a name")
		}
		if names[axis.Name] {
			return fmt.Errorf("duplicate axis %s", axis.Name)
		}
		names[axis.Name] = true

		if len(axis.Labels) == 0 {
			return fmt.Errorf("axis %s has no values", axis.Name)
		}
		seen := make(map[string]bool, len(axis.Labels))
		for _, label := range axis.Labels {
			if label == "" {
				return fmt.Errorf("axis %s has an empty value", axis.Name)
			}
			if strings.ContainsAny(label, `/\`) {
				return fmt.Errorf("axis %s value %q contains a path separator", axis.Name, label)
			}
			if seen[label] {
				return fmt.Errorf("axis %s has duplicate value %s", axis.Name, label)
			}
			seen[label] = true
		}
	}
	return nil
}

// Size is the number of descriptors the space enumerates.
func (s Space) Size() int {
	if len(s.Axes) == 0 {
		return 0
	}
	n := 1
	for _, axis := range s.Axes {
		n *= len(axis.Labels)
	}
	return n
}

// Product lazily yields every combination in nested order.
func (s Space) Product() iter.Seq[Descriptor] {
	return func(yield func(Descriptor) bool) {
		if s.Size() == 0 {
			return
		}
		idx := make([]int, len(s.Axes))
		for {
			d := Descriptor{Prefix: s.Prefix, Coords: make([]Coord, len(s.Axes))}
			for i, axis := range s.Axes {
				d.Coords[i] = Coord{Axis: axis.Name, Index: idx[i], Label: axis.Labels[idx[i]]}
			}
			if !yield(d) {
				return
			}

			// odometer: innermost axis advances first
			i := len(idx) - 1
			for ; i >= 0; i-- {
				idx[i]++
				if idx[i] < len(s.Axes[i].Labels) {
					break
				}
				idx[i] = 0
			}
			if i < 0 {
				return
			}
		}
	}
}

// IntLabels formats integer axis values
func IntLabels(values []int) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.Itoa(v)
	}
	return out
}

// FloatLabels formats float axis values in their shortest round-trip form
func FloatLabels(values []float64) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return out
}

// IndexLabels labels an axis by position: 0 .. n-1
func IndexLabels(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = strconv.Itoa(i)
	}
	return out
}
