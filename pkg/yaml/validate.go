package yaml

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Validator validates decoded YAML against a JSON schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles schemaData, registered under url.
func NewValidator(url string, schemaData []byte) (*Validator, error) {
	schema, err := jsonschema.UnmarshalJSON(bytesReader(schemaData))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()

	err = compiler.AddResource(url, schema)
	if err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	jss, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Validator{schema: jss}, nil
}

func MustNewValidator(url string, schemaData []byte) *Validator {
	v, err := NewValidator(url, schemaData)
	if err != nil {
		panic(err)
	}

	return v
}

// Validate checks data, which must be made of JSON-compatible values
// (maps, slices, strings, float64/json.Number, bool, nil).
// Failures are returned as an [*Error] whose Path points at the most specific
// offending node.
func (v *Validator) Validate(data any) error {
	err := v.schema.Validate(data)
	if err == nil {
		return nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return fmt.Errorf("schema validation: %w", err)
	}

	return &Error{
		Err:  validationErr,
		Path: pathFromLocation(deepestLocation(validationErr)),
	}
}

// ValidateBytes decodes YAML source and validates it. Errors carry the source
// so that they render with an annotated excerpt.
func (v *Validator) ValidateBytes(source []byte) error {
	var data any

	err := Unmarshal(source, &data)
	if err != nil {
		return err
	}

	// Round-trip through JSON so numbers and maps have the types the
	// validator expects.
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("convert to json: %w", err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytesReader(b))
	if err != nil {
		return fmt.Errorf("convert to json: %w", err)
	}

	err = v.Validate(doc)
	if err != nil {
		var yamlErr *Error
		if errors.As(err, &yamlErr) {
			yamlErr.Source = source
		}

		return err
	}

	return nil
}

func deepestLocation(err *jsonschema.ValidationError) []string {
	longest := err.InstanceLocation

	for _, cause := range err.Causes {
		if loc := deepestLocation(cause); len(loc) > len(longest) {
			longest = loc
		}
	}

	return longest
}

func pathFromLocation(location []string) *yaml.Path {
	current := NewPathBuilder().Root()

	for _, part := range location {
		index, err := strconv.ParseUint(part, 10, 0)
		if err == nil {
			current = current.Index(uint(index))
		} else {
			current = current.Child(part)
		}
	}

	return current.Build()
}
