package model

// Campaign kinds
const (
	KindStudy = "Study"
	KindZoom  = "Zoom"
	KindOrbit = "Orbit"
	KindGrid  = "Grid"
)

// Campaign is the top-level campaign document
type Campaign struct {
	APIVersion string     `yaml:"apiVersion" json:"apiVersion" toml:"apiVersion"`
	Kind       string     `yaml:"kind" json:"kind" toml:"kind"`
	Metadata   Metadata   `yaml:"metadata" json:"metadata" toml:"metadata"`
	Output     string     `yaml:"output" json:"output" toml:"output"`
	Tools      Tools      `yaml:"tools" json:"tools" toml:"tools"`
	Study      *StudySpec `yaml:"study,omitempty" json:"study,omitempty" toml:"study,omitempty"`
	Zoom       *ZoomSpec  `yaml:"zoom,omitempty" json:"zoom,omitempty" toml:"zoom,omitempty"`
	Orbit      *OrbitSpec `yaml:"orbit,omitempty" json:"orbit,omitempty" toml:"orbit,omitempty"`
	Grid       *GridSpec  `yaml:"grid,omitempty" json:"grid,omitempty" toml:"grid,omitempty"`
}

// Metadata holds standard object metadata
type Metadata struct {
	Name        string `yaml:"name" json:"name" toml:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty" toml:"description,omitempty"`
}

// Tools locates the external programs and their fixed flags
type Tools struct {
	Renderer   string `yaml:"renderer" json:"renderer" toml:"renderer"`
	Compositor string `yaml:"compositor" json:"compositor" toml:"compositor"`
	Workers    int    `yaml:"workers" json:"workers" toml:"workers"`
	Duration   int    `yaml:"duration" json:"duration" toml:"duration"` // seconds of sampling per job
	Verbosity  string `yaml:"verbosity" json:"verbosity" toml:"verbosity"`
}

// WithDefaults fills unset tool fields.
func (t Tools) WithDefaults() Tools {
	if t.Renderer == "" {
		t.Renderer = "escape"
	}
	if t.Compositor == "" {
		t.Compositor = "convert"
	}
	if t.Workers <= 0 {
		t.Workers = 1
	}
	if t.Verbosity == "" {
		t.Verbosity = "off"
	}
	return t
}

// StudySpec sweeps sample count x cutoff x view preset x switch probability
type StudySpec struct {
	Views       string    `yaml:"views" json:"views" toml:"views"`
	Template    string    `yaml:"template,omitempty" json:"template,omitempty" toml:"template,omitempty"`
	Samples     []int     `yaml:"samples" json:"samples" toml:"samples"`
	Cutoffs     []int     `yaml:"cutoffs" json:"cutoffs" toml:"cutoffs"`
	SwitchProbs []float64 `yaml:"switchProbs" json:"switchProbs" toml:"switchProbs"`
	Width       int       `yaml:"width" json:"width" toml:"width"`
	Height      int       `yaml:"height" json:"height" toml:"height"`
}

// GIFSpec controls how frames are composited into an animation
type GIFSpec struct {
	Name    string  `yaml:"name" json:"name" toml:"name"`
	Delay   int     `yaml:"delay" json:"delay" toml:"delay"` // hundredths of a second per frame
	Loop    int     `yaml:"loop" json:"loop" toml:"loop"`
	Reverse bool    `yaml:"reverse" json:"reverse" toml:"reverse"`
	Rotate  float64 `yaml:"rotate,omitempty" json:"rotate,omitempty" toml:"rotate,omitempty"`
}

// ZoomSpec animates view.zoom along an eased log schedule
type ZoomSpec struct {
	Template string  `yaml:"template" json:"template" toml:"template"`
	Color    string  `yaml:"color" json:"color" toml:"color"`
	Start    float64 `yaml:"start" json:"start" toml:"start"`
	End      float64 `yaml:"end" json:"end" toml:"end"`
	Frames   int     `yaml:"frames" json:"frames" toml:"frames"`
	GIF      GIFSpec `yaml:"gif" json:"gif" toml:"gif"`
	Redraw   bool    `yaml:"redraw,omitempty" json:"redraw,omitempty" toml:"redraw,omitempty"`
}

// OrbitSpec rotates a fractal family constant around a circle
type OrbitSpec struct {
	Template string  `yaml:"template" json:"template" toml:"template"`
	Color    string  `yaml:"color" json:"color" toml:"color"`
	Family   string  `yaml:"family" json:"family" toml:"family"`
	Radius   float64 `yaml:"radius,omitempty" json:"radius,omitempty" toml:"radius,omitempty"`
	Frames   int     `yaml:"frames" json:"frames" toml:"frames"`
	GIF      GIFSpec `yaml:"gif" json:"gif" toml:"gif"`
	Redraw   bool    `yaml:"redraw,omitempty" json:"redraw,omitempty" toml:"redraw,omitempty"`
}

// GridSpec compares color exponents per cutoff bucket for one histogram
type GridSpec struct {
	SampleConfig string    `yaml:"sampleConfig" json:"sampleConfig" toml:"sampleConfig"`
	Histogram    string    `yaml:"histogram" json:"histogram" toml:"histogram"`
	Powers       []float64 `yaml:"powers" json:"powers" toml:"powers"`
	PreviewSize  string    `yaml:"previewSize,omitempty" json:"previewSize,omitempty" toml:"previewSize,omitempty"`
	Report       string    `yaml:"report,omitempty" json:"report,omitempty" toml:"report,omitempty"`
}
