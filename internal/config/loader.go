package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.yaml.in/yaml/v3"
)

//go:embed signbridge.v1.schema.json
var embeddedSchema string

const embeddedSchemaURL = "signbridge.v1.schema.json"

// LoadAndValidate loads and validates the configuration. An empty schemaPath
// selects the schema compiled into the binary.
func LoadAndValidate(path, schemaPath string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read config: %w", err)
	}

	return Parse(data, schemaPath)
}

// Parse validates raw YAML against the schema, decodes it and applies defaults.
func Parse(data []byte, schemaPath string) (*Config, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: invalid YAML: %w", err)
	}

	schema, err := compileSchema(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("config: failed to compile schema: %w", err)
	}

	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal into Config struct: %w", err)
	}
	ApplyDefaults(&cfg)

	return &cfg, nil
}

func compileSchema(schemaPath string) (*jsonschema.Schema, error) {
	if schemaPath == "" {
		return jsonschema.CompileString(embeddedSchemaURL, embeddedSchema)
	}
	return jsonschema.Compile(schemaPath)
}
