package model

import (
	"encoding/json"
	"fmt"
)

// Complex is a point in the complex plane. The renderer reads and writes it as
// a two element array [re, im].
type Complex struct {
	Re float64
	Im float64
}

func (c Complex) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Re, c.Im})
}

func (c *Complex) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("complex must be a [re, im] pair: %w", err)
	}
	c.Re, c.Im = pair[0], pair[1]
	return nil
}

// ViewConfig describes the rendering viewport
type ViewConfig struct {
	Center Complex `json:"center"`
	Zoom   float64 `json:"zoom"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
}

// SampleConfig is the configuration handed to `escape sample`. Zero valued
// tuning fields are omitted so the renderer applies its own defaults.
type SampleConfig struct {
	Cutoffs            []int      `json:"cutoffs"`
	View               ViewConfig `json:"view"`
	InitialSearchDepth int        `json:"initial_search_depth,omitempty"`
	WarmUpSamples      int        `json:"warm_up_samples,omitempty"`
	RandomSampleProb   float64    `json:"random_sample_prob,omitempty"`
	NormCutoff         float64    `json:"norm_cutoff,omitempty"`
	Samples            int        `json:"samples,omitempty"`
	OutsideLimit       int        `json:"outside_limit,omitempty"`
	MandelbrotParam    *Complex   `json:"mandelbrot_param,omitempty"`
	JuliaSetParam      *Complex   `json:"julia_set_param,omitempty"`
}

// Clone returns a deep copy so per-job overrides never reach the template.
func (c SampleConfig) Clone() SampleConfig {
	out := c
	out.Cutoffs = append([]int(nil), c.Cutoffs...)
	if c.MandelbrotParam != nil {
		p := *c.MandelbrotParam
		out.MandelbrotParam = &p
	}
	if c.JuliaSetParam != nil {
		p := *c.JuliaSetParam
		out.JuliaSetParam = &p
	}
	return out
}

// RGB is a color with channels in the renderer's 0-255 range.
type RGB [3]float64

var (
	Black = RGB{0, 0, 0}
	White = RGB{255, 255, 255}
)

// ColorConfig is the configuration handed to `escape draw`: one color and
// exponent per cutoff bucket plus a background color.
type ColorConfig struct {
	Colors          []RGB     `json:"colors"`
	Powers          []float64 `json:"powers"`
	BackgroundColor RGB       `json:"background_color"`
}

// Baseline returns a color config with n black buckets at power 1.0.
func Baseline(buckets int) ColorConfig {
	cfg := ColorConfig{
		Colors:          make([]RGB, buckets),
		Powers:          make([]float64, buckets),
		BackgroundColor: Black,
	}
	for i := range cfg.Powers {
		cfg.Colors[i] = Black
		cfg.Powers[i] = 1.0
	}
	return cfg
}

// Isolate returns a copy of c in which only bucket i carries the given color
// and power; every other bucket is left exactly as it is in c.
func (c ColorConfig) Isolate(bucket int, color RGB, power float64) (ColorConfig, error) {
	if bucket < 0 || bucket >= len(c.Colors) || bucket >= len(c.Powers) {
		return ColorConfig{}, fmt.Errorf("bucket %d out of range (%d buckets)", bucket, len(c.Colors))
	}
	out := ColorConfig{
		Colors:          append([]RGB(nil), c.Colors...),
		Powers:          append([]float64(nil), c.Powers...),
		BackgroundColor: c.BackgroundColor,
	}
	out.Colors[bucket] = color
	out.Powers[bucket] = power
	return out, nil
}
