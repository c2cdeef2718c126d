package ui

import (
	"fmt"

	"github.com/luxo-ai/infinite-scroll/pkg/ui/scroller"
)

// Config contains TUI-specific configuration.
type Config struct {
	// Mouse enables wheel scrolling. Defaults to true.
	Mouse *bool `json:"mouse,omitempty" jsonschema:"title=Mouse"`
	// KeyBinds overrides individual key bindings.
	KeyBinds *scroller.KeyBinds `json:"keybinds,omitempty" jsonschema:"title=Key Binds"`
	// Theme is a chroma style name, or one of "auto", "dark", "light".
	Theme string `json:"theme,omitempty" jsonschema:"title=Theme,default=auto"`
}

func DefaultConfig() *Config {
	c := &Config{}
	c.EnsureDefaults()

	return c
}

func (c *Config) EnsureDefaults() {
	if c.Theme == "" {
		c.Theme = "auto"
	}

	if c.Mouse == nil {
		mouse := true
		c.Mouse = &mouse
	}

	if c.KeyBinds == nil {
		c.KeyBinds = scroller.DefaultKeyBinds()
	} else {
		c.KeyBinds.EnsureDefaults()
	}
}

// Validate checks constraints the schema cannot express.
func (c *Config) Validate() error {
	if c.KeyBinds == nil {
		return nil
	}

	err := c.KeyBinds.Validate()
	if err != nil {
		return fmt.Errorf("key binds: %w", err)
	}

	return nil
}

// MouseEnabled reports whether mouse events should be requested.
func (c *Config) MouseEnabled() bool {
	return c.Mouse == nil || *c.Mouse
}
