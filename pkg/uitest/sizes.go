package uitest

// Size is a terminal size in cells.
type Size struct {
	Width  int
	Height int
}

var (
	// Compact is the classic 80x24 terminal.
	Compact = Size{Width: 80, Height: 24}
	// Short leaves fewer content rows than one window needs.
	Short = Size{Width: 80, Height: 12}
	// Wide is a large display.
	Wide = Size{Width: 160, Height: 50}
)
