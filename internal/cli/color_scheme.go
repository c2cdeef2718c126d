package cli

import (
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/exp/charmtone"

	"github.com/luxo-ai/infinite-scroll/pkg/config"
	"github.com/luxo-ai/infinite-scroll/pkg/ui/theme"
)

// ColorSchemeFunc colors help and error output with the configured theme,
// falling back to the default theme if the config cannot be loaded.
func ColorSchemeFunc(c lipgloss.LightDarkFunc) fang.ColorScheme {
	cl, err := config.NewConfigLoaderFromFile(config.GetPath())
	if err != nil {
		return ThemeColorScheme(theme.Default, c)
	}

	cfg, err := cl.Load()
	if err != nil {
		return ThemeColorScheme(theme.Default, c)
	}

	return ThemeColorScheme(theme.New(cfg.UI.Theme), c)
}

func ThemeColorScheme(t *theme.Theme, c lipgloss.LightDarkFunc) fang.ColorScheme {
	return fang.ColorScheme{
		Base:           t.CardTextStyle.GetForeground(),
		Title:          t.LogoStyle.GetBackground(),
		Codeblock:      c(charmtone.Salt, lipgloss.Color("#2F2E36")),
		Program:        t.SelectedStyle.GetForeground(),
		Command:        t.SelectedStyle.GetForeground(),
		DimmedArgument: t.SubtleStyle.GetForeground(),
		Comment:        t.SubtleStyle.GetForeground(),
		Flag:           t.SelectedStyle.GetForeground(),
		Argument:       t.CardTextStyle.GetForeground(),
		Description:    t.CardTextStyle.GetForeground(),
		FlagDefault:    t.PaginationStyle.GetForeground(),
		QuotedString:   t.CardTextStyle.GetForeground(),
		ErrorHeader: [2]color.Color{
			t.LogoStyle.GetForeground(),
			t.ErrorStyle.GetForeground(),
		},
	}
}
