package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/invopop/jsonschema"

	"github.com/luxo-ai/infinite-scroll/pkg/source"
	"github.com/luxo-ai/infinite-scroll/pkg/ui"
	"github.com/luxo-ai/infinite-scroll/pkg/window"
	"github.com/luxo-ai/infinite-scroll/pkg/yaml"
)

const (
	APIVersion = "infscroll.luxo.ai/v1beta1"
	Kind       = "Configuration"

	// AppName is the directory name used under $XDG_CONFIG_HOME.
	AppName = "infscroll"

	DefaultPageSize   = 5
	DefaultItemHeight = 4
	DefaultGap        = 1
)

var (
	ValidAPIVersions = []string{APIVersion}
	ValidKinds       = []string{Kind}
)

//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	// Pager sets the window geometry.
	Pager *Pager `json:"pager,omitempty" jsonschema:"title=Pager"`
	// Source selects the item sequence.
	Source *source.Spec `json:"source,omitempty" jsonschema:"title=Source"`
	// UI configures the terminal presenter.
	UI *ui.Config `json:"ui,omitempty" jsonschema:"title=UI"`
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version,required"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"title=Kind,required"`
}

// Pager holds the window geometry. Unset fields take their defaults.
type Pager struct {
	// PageSize is the number of items in a full window.
	PageSize *int `json:"pageSize,omitempty" jsonschema:"title=Page Size,minimum=1,default=5"`
	// ItemHeight is the number of rows per item.
	ItemHeight *int `json:"itemHeight,omitempty" jsonschema:"title=Item Height,minimum=0,default=4"`
	// Gap is the number of blank rows between items.
	Gap *int `json:"gap,omitempty" jsonschema:"title=Gap,minimum=0,default=1"`
}

func NewConfig() *Config {
	c := &Config{
		APIVersion: APIVersion,
		Kind:       Kind,
	}
	c.EnsureDefaults()

	return c
}

func (c *Config) EnsureDefaults() {
	if c.Pager == nil {
		c.Pager = &Pager{}
	}

	c.Pager.EnsureDefaults()

	if c.Source == nil {
		c.Source = &source.Spec{}
	}

	c.Source.EnsureDefaults()

	if c.UI == nil {
		c.UI = ui.DefaultConfig()
	} else {
		c.UI.EnsureDefaults()
	}
}

// Validate runs the checks that the schema cannot express. Each error carries
// the path of the section it belongs to.
func (c *Config) Validate() error {
	var errs []error

	if c.Pager != nil {
		err := c.Pager.Window().Validate()
		if err != nil {
			errs = append(errs, atPath(err, "pager"))
		}
	}

	if c.Source != nil {
		err := c.Source.Validate()
		if err != nil {
			errs = append(errs, atPath(err, "source"))
		}
	}

	if c.UI != nil {
		err := c.UI.Validate()
		if err != nil {
			errs = append(errs, atPath(err, "ui"))
		}
	}

	return errors.Join(errs...)
}

func atPath(err error, field string) error {
	return &yaml.Error{
		Err:  err,
		Path: yaml.NewPathBuilder().Root().Child(field).Build(),
	}
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	apiVersion, ok := jss.Properties.Get("apiVersion")
	if !ok {
		panic("apiVersion property not found in schema")
	}

	for _, version := range ValidAPIVersions {
		apiVersion.OneOf = append(apiVersion.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: version,
			Title: "API Version",
		})
	}

	_, _ = jss.Properties.Set("apiVersion", apiVersion)

	kind, ok := jss.Properties.Get("kind")
	if !ok {
		panic("kind property not found in schema")
	}

	for _, kindValue := range ValidKinds {
		kind.OneOf = append(kind.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: kindValue,
			Title: "Kind",
		})
	}

	_, _ = jss.Properties.Set("kind", kind)
}

// YAML returns the configuration as a YAML document, prefixed with a
// yaml-language-server modeline pointing at the schema file.
func (c *Config) YAML() ([]byte, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return nil, err //nolint:wrapcheck // Already wrapped.
	}

	header := fmt.Sprintf("# yaml-language-server: $schema=%s\n", SchemaFile)

	return append([]byte(header), b...), nil
}

func (p *Pager) EnsureDefaults() {
	if p.PageSize == nil {
		p.PageSize = intPtr(DefaultPageSize)
	}
	if p.ItemHeight == nil {
		p.ItemHeight = intPtr(DefaultItemHeight)
	}
	if p.Gap == nil {
		p.Gap = intPtr(DefaultGap)
	}
}

// Window returns the window configuration, using defaults for unset fields.
func (p *Pager) Window() window.Config {
	cfg := window.Config{
		PageSize:   DefaultPageSize,
		ItemHeight: DefaultItemHeight,
		Gap:        DefaultGap,
	}

	if p == nil {
		return cfg
	}

	if p.PageSize != nil {
		cfg.PageSize = *p.PageSize
	}
	if p.ItemHeight != nil {
		cfg.ItemHeight = *p.ItemHeight
	}
	if p.Gap != nil {
		cfg.Gap = *p.Gap
	}

	return cfg
}

func intPtr(n int) *int {
	return &n
}

// WriteDefaultConfig writes the default configuration and its JSON schema to
// the directory of path. An existing config is kept unless force is set, in
// which case it is moved to a timestamped backup first.
func WriteDefaultConfig(path string, force bool) error {
	configExists := false

	pathInfo, err := os.Stat(path)
	if pathInfo != nil {
		switch {
		case err == nil && pathInfo.Mode().IsRegular():
			configExists = true
		case pathInfo.IsDir():
			return fmt.Errorf("%s: path is a directory", path)
		default:
			return fmt.Errorf("%s: unknown file state", path)
		}
	}

	err = os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	if configExists && force {
		backupFile := fmt.Sprintf("%s.%d.old", filepath.Base(path), time.Now().UnixNano())
		backupPath := filepath.Join(filepath.Dir(path), backupFile)
		slog.Info("backing up existing config file",
			slog.String("path", backupPath),
		)

		err = os.Rename(path, backupPath)
		if err != nil {
			return fmt.Errorf("rename existing config file to backup: %w", err)
		}

		configExists = false
	}

	if !configExists {
		slog.Info("write default configuration",
			slog.String("path", path),
		)

		b, err := NewConfig().YAML()
		if err != nil {
			return err
		}

		err = os.WriteFile(path, b, 0o600)
		if err != nil {
			return fmt.Errorf("write config file: %w", err)
		}
	} else {
		slog.Debug("configuration file already exists, skipping write",
			slog.String("path", path),
		)
	}

	schemaJSON, err := Schema()
	if err != nil {
		return err
	}

	schemaPath := filepath.Join(filepath.Dir(path), SchemaFile)
	slog.Debug("write JSON schema",
		slog.String("path", schemaPath),
	)

	err = os.WriteFile(schemaPath, schemaJSON, 0o600)
	if err != nil {
		return fmt.Errorf("write schema file: %w", err)
	}

	return nil
}

// GetPath returns the default config file location under $XDG_CONFIG_HOME.
func GetPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

func readConfig(path string) ([]byte, error) {
	pathInfo, err := os.Stat(path)
	if pathInfo != nil {
		if err == nil && pathInfo.IsDir() {
			return nil, fmt.Errorf("%s: path is a directory", path)
		}
		if err == nil && !pathInfo.Mode().IsRegular() {
			return nil, fmt.Errorf("%s: unknown file state", path)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}
