// Package loader reads campaign files and the renderer configuration files
// they reference, validating each against its schema.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/SallySoul/escape/internal/model"
	"github.com/SallySoul/escape/internal/schema"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrMissingInput wraps every failure to read, parse or validate an input file.
var ErrMissingInput = errors.New("missing or malformed input")

// Loader loads and validates input documents
type Loader struct {
	validator *schema.Validator
}

// NewLoader creates a loader with the embedded schemas
func NewLoader() (*Loader, error) {
	v, err := schema.NewValidator()
	if err != nil {
		return nil, err
	}
	return &Loader{validator: v}, nil
}

// LoadCampaign loads a YAML, JSON or TOML campaign file, chosen by extension.
// Relative paths inside it are resolved against the file's directory.
func (l *Loader) LoadCampaign(path string) (*model.Campaign, error) {
	data, err := readInput("campaign file", path)
	if err != nil {
		return nil, err
	}

	var unmarshal func([]byte, any) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		unmarshal = yaml.Unmarshal
	case ".json":
		unmarshal = json.Unmarshal
	case ".toml":
		unmarshal = toml.Unmarshal
	default:
		return nil, fmt.Errorf("%w: campaign file %s: unsupported extension, want .yaml, .json or .toml", ErrMissingInput, path)
	}

	var raw interface{}
	if err := unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: failed to parse campaign file %s: %v", ErrMissingInput, path, err)
	}
	doc, err := schema.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: campaign file %s: %v", ErrMissingInput, path, err)
	}
	if err := l.validator.ValidateCampaign(doc); err != nil {
		return nil, fmt.Errorf("%w: campaign file %s is invalid: %v", ErrMissingInput, path, err)
	}

	var c model.Campaign
	if err := unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: failed to decode campaign file %s: %v", ErrMissingInput, path, err)
	}
	resolvePaths(&c, filepath.Dir(path))
	return &c, nil
}

// LoadViews loads the ordered list of view presets for a study.
func (l *Loader) LoadViews(path string) ([]model.ViewConfig, error) {
	var views []model.ViewConfig
	if err := l.loadJSON("views file", path, l.validator.ValidateViews, &views); err != nil {
		return nil, err
	}
	return views, nil
}

// LoadSampleConfig loads a sample config template.
func (l *Loader) LoadSampleConfig(path string) (model.SampleConfig, error) {
	var cfg model.SampleConfig
	if err := l.loadJSON("sample config", path, l.validator.ValidateSampleConfig, &cfg); err != nil {
		return model.SampleConfig{}, err
	}
	return cfg, nil
}

// LoadColorConfig loads a color config.
func (l *Loader) LoadColorConfig(path string) (model.ColorConfig, error) {
	var cfg model.ColorConfig
	if err := l.loadJSON("color config", path, l.validator.ValidateColorConfig, &cfg); err != nil {
		return model.ColorConfig{}, err
	}
	return cfg, nil
}

// RequireFile checks that an input consumed only by the external tools is
// present and is a regular file.
func RequireFile(what, path string) error {
	if path == "" {
		return fmt.Errorf("%w: no %s given", ErrMissingInput, what)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrMissingInput, what, path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s %s is a directory", ErrMissingInput, what, path)
	}
	return nil
}

func (l *Loader) loadJSON(what, path string, validate func(interface{}) error, out any) error {
	data, err := readInput(what, path)
	if err != nil {
		return err
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: failed to parse %s %s: %v", ErrMissingInput, what, path, err)
	}
	doc, err := schema.Normalize(raw)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrMissingInput, what, path, err)
	}
	if err := validate(doc); err != nil {
		return fmt.Errorf("%w: %s %s is invalid: %v", ErrMissingInput, what, path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: failed to decode %s %s: %v", ErrMissingInput, what, path, err)
	}
	return nil
}

func readInput(what, path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no %s given", ErrMissingInput, what)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrMissingInput, what, err)
	}
	return data, nil
}

func resolvePaths(c *model.Campaign, base string) {
	resolve := func(p *string) {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
	if c.Output == "" {
		c.Output = "."
	}
	resolve(&c.Output)
	if s := c.Study; s != nil {
		resolve(&s.Views)
		resolve(&s.Template)
	}
	if z := c.Zoom; z != nil {
		resolve(&z.Template)
		resolve(&z.Color)
	}
	if o := c.Orbit; o != nil {
		resolve(&o.Template)
		resolve(&o.Color)
	}
	if g := c.Grid; g != nil {
		resolve(&g.SampleConfig)
		resolve(&g.Histogram)
	}
}
