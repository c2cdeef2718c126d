// Package theme derives the TUI's lipgloss styles from a chroma style, so
// any chroma theme name (or "auto", "dark", "light") can be configured.
package theme

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var (
	ErrInvalidName    = errors.New("theme name must not be empty")
	ErrRegisterStyles = errors.New("register theme")

	Default = New("github")
)

type Theme struct {
	CardStyle          lipgloss.Style
	CardTextStyle      lipgloss.Style
	DisabledStyle      lipgloss.Style
	ErrorStyle         lipgloss.Style
	HeaderStyle        lipgloss.Style
	HelpStyle          lipgloss.Style
	LogoStyle          lipgloss.Style
	PaginationStyle    lipgloss.Style
	SelectedStyle      lipgloss.Style
	StatusBarHelpStyle lipgloss.Style
	StatusBarMsgStyle  lipgloss.Style
	StatusBarPosStyle  lipgloss.Style
	StatusBarStyle     lipgloss.Style
	SubtleStyle        lipgloss.Style

	Name string
}

// New builds a theme from the named chroma style. Unknown names use chroma's
// fallback style.
func New(name string) *Theme {
	cs := newChromaStyle(name)

	var (
		fg     = cs.fg(chroma.Background)
		bg     = cs.bg(chroma.Background)
		accent = cs.fg(chroma.NameTag)
		subtle = cs.fg(chroma.Comment)

		subtleStyle = lipgloss.NewStyle().Foreground(subtle)

		helpStyle = lipgloss.NewStyle().Foreground(cs.fgFactor(chroma.Background, 0.2)).Background(cs.bgFactor(chroma.Background, 0.2))
	)

	return &Theme{
		CardStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtle).
			PaddingLeft(1).
			PaddingRight(1),
		CardTextStyle: lipgloss.NewStyle().Foreground(fg),
		DisabledStyle: subtleStyle.Faint(true),
		ErrorStyle:    lipgloss.NewStyle().Foreground(cs.fg(chroma.GenericDeleted)).Bold(true),
		HeaderStyle:   lipgloss.NewStyle().Foreground(accent).Bold(true),
		HelpStyle:     helpStyle,
		LogoStyle: lipgloss.NewStyle().
			Foreground(bg).
			Background(accent).
			Bold(true),
		PaginationStyle:    subtleStyle,
		SelectedStyle:      lipgloss.NewStyle().Foreground(accent),
		StatusBarHelpStyle: helpStyle,
		StatusBarMsgStyle: lipgloss.NewStyle().
			Foreground(bg).
			Background(cs.fgFactor(chroma.NameTag, 0.15)),
		StatusBarPosStyle: lipgloss.NewStyle().
			Foreground(fg).
			Background(cs.bgFactor(chroma.Background, 0.15)),
		StatusBarStyle: lipgloss.NewStyle().
			Foreground(fg).
			Background(cs.bgFactor(chroma.Background, 0.1)),
		SubtleStyle: subtleStyle,

		Name: cs.style.Name,
	}
}

// Register adds a custom chroma style that [New] can then load by name.
func Register(name string, entries chroma.StyleEntries) error {
	if name == "" {
		return ErrInvalidName
	}

	s, err := chroma.NewStyle(name, entries)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRegisterStyles, err)
	}

	styles.Register(s)

	return nil
}

type chromaStyle struct {
	style *chroma.Style
}

func newChromaStyle(name string) chromaStyle {
	s := styles.Get(resolve(name))
	if s == nil {
		s = styles.Fallback
	}

	return chromaStyle{style: s}
}

func (cs chromaStyle) fg(t chroma.TokenType) lipgloss.Color {
	return lipgloss.Color(cs.style.Get(t).Colour.String()) //nolint:misspell // Chroma naming.
}

func (cs chromaStyle) bg(t chroma.TokenType) lipgloss.Color {
	return lipgloss.Color(cs.style.Get(t).Background.String())
}

func (cs chromaStyle) fgFactor(t chroma.TokenType, factor float64) lipgloss.Color {
	c := cs.style.Get(t).Colour.BrightenOrDarken(factor) //nolint:misspell // Chroma naming.

	return lipgloss.Color(c.String())
}

func (cs chromaStyle) bgFactor(t chroma.TokenType, factor float64) lipgloss.Color {
	return lipgloss.Color(cs.style.Get(t).Background.BrightenOrDarken(factor).String())
}

func resolve(name string) string {
	switch name {
	case "dark":
		return "github-dark"
	case "light":
		return "github"
	case "auto", "":
		return detect()
	default:
		return name
	}
}

func detect() string {
	if !term.IsTerminal(int(os.Stdout.Fd())) { //nolint:gosec // G115: fd fits in int.
		return ""
	}

	if termenv.HasDarkBackground() {
		return "github-dark"
	}

	return "github"
}
