package config

import (
	"encoding/json"
	"fmt"
	"path"
	"reflect"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/luxo-ai/infinite-scroll/pkg/yaml"
)

//go:generate go run ../../internal/schemagen/main.go -o config.v1beta1.json

// SchemaFile is the name of the JSON schema written next to the config file.
const SchemaFile = "config.v1beta1.json"

var defaultValidator = sync.OnceValues(func() (*yaml.Validator, error) {
	schemaJSON, err := Schema()
	if err != nil {
		return nil, err
	}

	return yaml.NewValidator("/"+SchemaFile, schemaJSON)
})

// DefaultValidator returns a validator for the reflected [Config] schema. The
// schema is built once per process.
func DefaultValidator() (*yaml.Validator, error) {
	return defaultValidator()
}

// Schema reflects the JSON schema for [Config].
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		Anonymous:                  true,
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: true,
		Namer:                      schemaName,
	}

	s := r.Reflect(&Config{})
	s.Title = "infscroll configuration"

	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return b, nil
}

// schemaName qualifies definition names with their package, since several
// packages export a type named Config.
func schemaName(t reflect.Type) string {
	if t.PkgPath() == "" || t.Name() == "" {
		return ""
	}

	return path.Base(t.PkgPath()) + "." + t.Name()
}
