package scroller

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/luxo-ai/infinite-scroll/pkg/keys"
	"github.com/luxo-ai/infinite-scroll/pkg/ui/statusbar"
)

// Header, controls and status bar.
const chromeRows = 3

func (m *Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.headerView())
	sb.WriteByte('\n')
	sb.WriteString(m.controlsView())
	sb.WriteByte('\n')

	vh := m.ViewportHeight()
	for row := range vh {
		sb.WriteString(m.lineAt(m.scrollTop + row))
		sb.WriteByte('\n')
	}

	if m.showHelp {
		sb.WriteString(m.helpView())
		sb.WriteByte('\n')
	}

	sb.WriteString(m.statusBarView())

	return sb.String()
}

func (m *Model) viewWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}

	return m.width
}

func (m *Model) headerView() string {
	n := m.ctrl.Len()

	text := fmt.Sprintf("page %s of %s · %s items",
		humanize.Comma(int64(m.page+1)),
		humanize.Comma(int64(max(m.ctrl.MaxPage()+1, 1))),
		humanize.Comma(int64(n)),
	)

	return m.theme.HeaderStyle.Render(ansi.Truncate(text, m.viewWidth(), keys.Ellipsis))
}

func (m *Model) controlsView() string {
	prev := "◀ " + m.kb.Prev.Description
	next := m.kb.Next.Description + " ▶"

	if m.ctrl.CanRetreat() {
		prev = m.theme.SelectedStyle.Render(prev)
	} else {
		prev = m.theme.DisabledStyle.Render(prev)
	}

	if m.ctrl.CanAdvance() {
		next = m.theme.SelectedStyle.Render(next)
	} else {
		next = m.theme.DisabledStyle.Render(next)
	}

	return ansi.Truncate(prev+"   "+next, m.viewWidth(), keys.Ellipsis)
}

// lineAt renders content row y of the scrollable area.
func (m *Model) lineAt(y int) string {
	if len(m.items) == 0 {
		if y == 0 {
			return m.theme.SubtleStyle.Render("no items")
		}

		return ""
	}

	buffer := m.geo.BufferOffset(m.page)
	if y < buffer {
		if y == buffer-1 {
			return m.theme.SubtleStyle.Render(
				fmt.Sprintf("▲ %s earlier items", humanize.Comma(int64(m.page*m.cfg.PageSize))))
		}

		return ""
	}

	stride := m.cfg.ItemHeight + m.cfg.Gap
	if stride <= 0 {
		return ""
	}

	rel := y - buffer
	i, off := rel/stride, rel%stride

	if i >= len(m.cards) || off >= m.cfg.ItemHeight {
		return ""
	}

	return m.cards[i][off]
}

func (m *Model) helpView() string {
	return statusbar.NewHelpRenderer(m.theme, m.kb.helpRenderer()).Render(m.viewWidth())
}

func (m *Model) helpHeight() int {
	return statusbar.NewHelpRenderer(m.theme, m.kb.helpRenderer()).Height(m.viewWidth())
}

func (m *Model) statusBarView() string {
	var opts []statusbar.Opt

	switch {
	case m.message != "" && m.isError:
		opts = append(opts, statusbar.WithError(m.message))
	case m.message != "":
		opts = append(opts, statusbar.WithMessage(m.message))
	}

	return statusbar.New(m.theme, m.viewWidth(), opts...).
		Render(m.label, m.theme.PaginationStyle.Render("page "+m.paginator.View()))
}
