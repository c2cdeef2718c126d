// Package statusbar renders the one-line status bar and the help panel
// shown at the bottom of the scroller.
package statusbar

import (
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/luxo-ai/infinite-scroll/pkg/keys"
	"github.com/luxo-ai/infinite-scroll/pkg/ui/theme"
	"github.com/luxo-ai/infinite-scroll/pkg/version"
)

const helpText = " ? Help "

type Style int

const (
	StyleNormal Style = iota
	StyleMessage
	StyleError
)

// Renderer renders a status bar of a fixed width:
//
//	[logo][note ............][position][help]
type Renderer struct {
	theme   *theme.Theme
	message string
	width   int
	style   Style
}

type Opt func(*Renderer)

// WithMessage replaces the note with a transient message.
func WithMessage(msg string) Opt {
	return func(r *Renderer) {
		r.message = msg
		r.style = StyleMessage
	}
}

// WithError replaces the note with an error message.
func WithError(msg string) Opt {
	return func(r *Renderer) {
		r.message = msg
		r.style = StyleError
	}
}

func New(t *theme.Theme, width int, opts ...Opt) *Renderer {
	r := &Renderer{theme: t, width: max(width, 0)}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Render returns the status bar with note on the left and position on the
// right. The note is truncated to fit.
func (r *Renderer) Render(note, position string) string {
	logo := r.theme.LogoStyle.Render(" infscroll " + version.GetVersion() + " ")
	pos := r.posStyle(" " + position + " ")
	help := r.theme.StatusBarHelpStyle.Render(helpText)

	if r.message != "" {
		note = r.message
	}

	note = strings.TrimSpace(strings.ReplaceAll(note, "\n", " "))

	avail := max(0, r.width-width(logo)-width(pos)-width(help))
	note = truncate.StringWithTail(" "+note+" ", uint(avail), keys.Ellipsis) //nolint:gosec // Non-negative.

	fill := strings.Repeat(" ", max(0, avail-width(note)))

	out := logo + r.noteStyle(note+fill) + pos + help

	// Narrow terminals: drop the trailing segments rather than wrap.
	if width(out) > r.width {
		return truncate.String(out, uint(r.width)) //nolint:gosec // Non-negative.
	}

	return out
}

func (r *Renderer) noteStyle(s string) string {
	switch r.style {
	case StyleError:
		return r.theme.ErrorStyle.Inherit(r.theme.StatusBarStyle).Render(s)
	case StyleMessage:
		return r.theme.StatusBarMsgStyle.Render(s)
	default:
		return r.theme.StatusBarStyle.Render(s)
	}
}

func (r *Renderer) posStyle(s string) string {
	if r.style == StyleMessage {
		return r.theme.StatusBarMsgStyle.Render(s)
	}

	return r.theme.StatusBarPosStyle.Render(s)
}

func width(s string) int {
	return ansi.PrintableRuneWidth(s)
}
