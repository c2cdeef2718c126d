// Package ui assembles the infscroll terminal UI.
package ui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/luxo-ai/infinite-scroll/pkg/ui/scroller"
	"github.com/luxo-ai/infinite-scroll/pkg/ui/theme"
	"github.com/luxo-ai/infinite-scroll/pkg/window"
)

// NewScroller builds the scroller for seq with the configured theme and key
// binds. Extra opts are applied last.
func NewScroller(
	seq window.Sequence[string],
	wcfg window.Config,
	cfg *Config,
	opts ...scroller.Opt,
) (*scroller.Model, error) {
	base := []scroller.Opt{
		scroller.WithTheme(theme.New(cfg.Theme)),
		scroller.WithKeyBinds(cfg.KeyBinds),
	}

	return scroller.New(seq, wcfg, append(base, opts...)...) //nolint:wrapcheck // Already wrapped.
}

// NewProgram returns a full-screen Tea program running m.
func NewProgram(m tea.Model, cfg *Config, opts ...tea.ProgramOption) *tea.Program {
	slog.Debug("starting infscroll ui", slog.Bool("mouse", cfg.MouseEnabled()))

	popts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.MouseEnabled() {
		popts = append(popts, tea.WithMouseCellMotion())
	}

	return tea.NewProgram(m, append(popts, opts...)...)
}
