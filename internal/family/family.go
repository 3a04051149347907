// Package family describes the two-parameter fractal families whose constant
// an orbit campaign rotates around a circle.
package family

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/SallySoul/escape/internal/model"
)

// Family sets the family constant for one point on the orbit
type Family interface {
	Name() string
	// DefaultRadius is used when a campaign leaves the radius unset.
	DefaultRadius() float64
	// Apply writes the constant at angle theta (radians) on a circle of the
	// given radius into cfg.
	Apply(cfg *model.SampleConfig, theta, radius float64)
}

var registry = map[string]Family{
	"julia":      julia{},
	"mandelbrot": mandelbrot{},
}

// Lookup returns the named family
func Lookup(name string) (Family, error) {
	f, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown fractal family %q (known: %s)", name, strings.Join(Names(), ", "))
	}
	return f, nil
}

// Names lists the registered families in sorted order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type julia struct{}

func (julia) Name() string           { return "julia" }
func (julia) DefaultRadius() float64 { return 0.7885 }

func (julia) Apply(cfg *model.SampleConfig, theta, radius float64) {
	c := polar(theta, radius)
	cfg.JuliaSetParam = &c
}

type mandelbrot struct{}

func (mandelbrot) Name() string           { return "mandelbrot" }
func (mandelbrot) DefaultRadius() float64 { return 1.0 }

func (mandelbrot) Apply(cfg *model.SampleConfig, theta, radius float64) {
	c := polar(theta, radius)
	cfg.MandelbrotParam = &c
}

func polar(theta, radius float64) model.Complex {
	return model.Complex{Re: radius * math.Cos(theta), Im: radius * math.Sin(theta)}
}
