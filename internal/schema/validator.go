// Package schema validates input documents against the embedded JSON schemas.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/*.schema.yaml
var schemaFiles embed.FS

// Validator handles JSON schema validation
type Validator struct {
	campaignSchema *jsonschema.Schema
	viewsSchema    *jsonschema.Schema
	sampleSchema   *jsonschema.Schema
	colorSchema    *jsonschema.Schema
}

// NewValidator compiles the embedded schemas
func NewValidator() (*Validator, error) {
	v := &Validator{}

	var err error
	if v.campaignSchema, err = loadSchema("campaign"); err != nil {
		return nil, fmt.Errorf("failed to load campaign schema: %w", err)
	}
	if v.viewsSchema, err = loadSchema("views"); err != nil {
		return nil, fmt.Errorf("failed to load views schema: %w", err)
	}
	if v.sampleSchema, err = loadSchema("sample"); err != nil {
		return nil, fmt.Errorf("failed to load sample schema: %w", err)
	}
	if v.colorSchema, err = loadSchema("color"); err != nil {
		return nil, fmt.Errorf("failed to load color schema: %w", err)
	}
	return v, nil
}

// ValidateCampaign validates a campaign document
func (v *Validator) ValidateCampaign(data interface{}) error {
	return validate(v.campaignSchema, data)
}

// ValidateViews validates a list of view presets
func (v *Validator) ValidateViews(data interface{}) error {
	return validate(v.viewsSchema, data)
}

// ValidateSampleConfig validates a sample config document
func (v *Validator) ValidateSampleConfig(data interface{}) error {
	return validate(v.sampleSchema, data)
}

// ValidateColorConfig validates a color config document
func (v *Validator) ValidateColorConfig(data interface{}) error {
	return validate(v.colorSchema, data)
}

// Normalize converts a decoded YAML or TOML document into the plain JSON
// value shapes the schema validator expects.
func Normalize(doc interface{}) (interface{}, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert document: %w", err)
	}
	var out interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to convert document: %w", err)
	}
	return out, nil
}

func validate(schema *jsonschema.Schema, data interface{}) error {
	if schema == nil {
		return fmt.Errorf("schema not loaded")
	}
	return schema.Validate(data)
}

// loadSchema compiles one embedded YAML schema
func loadSchema(name string) (*jsonschema.Schema, error) {
	data, err := schemaFiles.ReadFile("schemas/" + name + ".schema.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	var schemaData interface{}
	if err := yaml.Unmarshal(data, &schemaData); err != nil {
		return nil, fmt.Errorf("failed to parse schema file: %w", err)
	}

	jsonData, err := json.Marshal(schemaData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	url := "escape://schemas/" + name + ".json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(jsonData)); err != nil {
		return nil, fmt.Errorf("failed to add schema: %w", err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return schema, nil
}
