// Package mcp serves read-only page and geometry queries over the Model
// Context Protocol, so that an agent can inspect the sequence the TUI is
// paging through.
package mcp

import "github.com/charmbracelet/x/ansi"

const (
	name         = "infscroll"
	instructions = `MCP Server 'infscroll' exposes a paged, windowed view of a sequence of text items.

A page is a fixed-size window of consecutive items. Page 0 holds items [0, pageSize), page 1 the next pageSize items, and so on; the last page may be shorter.

Workflow:
1. Call 'get_geometry' to learn the page size, the number of items, and the last page index.
2. Call 'get_page' with a page index between 0 and maxPage to read that page's items. Out-of-range pages are clamped.
`

	// maxItemLen bounds the length of each item returned in text content.
	maxItemLen = 200
)

// truncateString truncates str to maxLen cells, marking the cut with "…".
func truncateString(str string, maxLen int) string {
	return ansi.Truncate(str, maxLen, "…")
}
