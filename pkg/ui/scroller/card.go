package scroller

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/luxo-ai/infinite-scroll/pkg/keys"
)

// Cards shorter than this are drawn without a border.
const minBorderedHeight = 3

// renderCards renders every item of the committed window to exactly
// ItemHeight rows.
func (m *Model) renderCards() {
	m.cards = make([][]string, len(m.items))

	for i, item := range m.items {
		m.cards[i] = m.renderCard(m.page*m.cfg.PageSize+i, item)
	}
}

func (m *Model) renderCard(index int, text string) []string {
	h := m.cfg.ItemHeight
	if h <= 0 {
		return nil
	}

	width := m.viewWidth()
	label := m.theme.SubtleStyle.Render("#" + humanize.Comma(int64(index)))
	text = strings.ReplaceAll(text, "\n", " ")

	if h < minBorderedHeight {
		bar := m.theme.SubtleStyle.Render("│ ")
		lines := []string{
			ansi.Truncate(bar+label+" "+m.theme.CardTextStyle.Render(text), width, keys.Ellipsis),
		}
		if h > 1 {
			lines = append(lines, bar)
		}

		return lines
	}

	inner := max(width-4, 1)
	content := []string{label, m.theme.CardTextStyle.Render(ansi.Truncate(text, inner, keys.Ellipsis))}

	if h == minBorderedHeight {
		content = []string{ansi.Truncate(label+"  "+content[1], inner, keys.Ellipsis)}
	}

	content = content[:min(len(content), h-2)]

	rendered := m.theme.CardStyle.
		Width(max(width-2, 1)).
		Height(h - 2).
		MaxHeight(h).
		Render(strings.Join(content, "\n"))

	return fitRows(strings.Split(rendered, "\n"), h)
}

func fitRows(lines []string, h int) []string {
	if len(lines) > h {
		return lines[:h]
	}

	for len(lines) < h {
		lines = append(lines, "")
	}

	return lines
}
