package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/luxo-ai/infinite-scroll/pkg/yaml"
)

// ConfigValidator validates raw configuration data against a schema.
type ConfigValidator interface {
	ValidateBytes(data []byte) error
}

type ConfigLoader struct {
	cv   ConfigValidator
	data []byte
}

type ConfigLoaderOpt func(*ConfigLoader)

// WithConfigValidator replaces the reflected schema validator.
func WithConfigValidator(cv ConfigValidator) ConfigLoaderOpt {
	return func(cl *ConfigLoader) {
		cl.cv = cv
	}
}

func NewConfigLoaderFromBytes(data []byte, opts ...ConfigLoaderOpt) *ConfigLoader {
	cl := &ConfigLoader{data: data}
	for _, opt := range opts {
		opt(cl)
	}

	return cl
}

func NewConfigLoaderFromFile(path string, opts ...ConfigLoaderOpt) (*ConfigLoader, error) {
	data, err := readConfig(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return NewConfigLoaderFromBytes(data, opts...), nil
}

// Validate validates configuration data with [ConfigValidator] without loading
// it into a [Config] struct. Empty data is valid, and loads as the defaults.
func (cl *ConfigLoader) Validate() error {
	if len(bytes.TrimSpace(cl.data)) == 0 {
		return nil
	}

	cv := cl.cv
	if cv == nil {
		v, err := DefaultValidator()
		if err != nil {
			return fmt.Errorf("build schema validator: %w", err)
		}

		cv = v
	}

	return cv.ValidateBytes(cl.data) //nolint:wrapcheck // Errors carry their own path.
}

// Load decodes the data, fills defaults, and runs [Config.Validate].
func (cl *ConfigLoader) Load() (*Config, error) {
	c := &Config{}

	dec := yaml.NewDecoder(bytes.NewReader(cl.data))

	err := dec.Decode(c)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, yaml.WithSource(err, cl.data)
	}

	c.EnsureDefaults()

	err = c.Validate()
	if err != nil {
		return nil, withSource(err, cl.data)
	}

	return c, nil
}

// withSource attaches source to every [*yaml.Error] in a joined error.
func withSource(err error, source []byte) error {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return yaml.WithSource(err, source)
	}

	for _, e := range joined.Unwrap() {
		_ = yaml.WithSource(e, source)
	}

	return err
}
