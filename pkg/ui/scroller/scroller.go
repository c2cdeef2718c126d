// Package scroller is the terminal presenter for a paged sequence.
//
// [Model] owns a [window.Controller] and implements [window.Presenter]: it
// renders the current window as cards in a row-based viewport, reports every
// scroll position change to the controller, and applies the resulting window
// transition within the same update.
//
// All lengths are terminal rows. The leading margin (the extent of every
// item before the window) is never materialized; rows are produced on demand
// while rendering, so memory stays proportional to the page size.
package scroller

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/muesli/termenv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/luxo-ai/infinite-scroll/pkg/ui/theme"
	"github.com/luxo-ai/infinite-scroll/pkg/window"
)

const (
	// StatusMessageTimeout is how long status bar messages are shown.
	StatusMessageTimeout = 3 * time.Second

	wheelRows    = 3
	defaultWidth = 80
)

type (
	// ReloadMsg replaces the sequence. The model closes the previous
	// sequence if it implements [io.Closer], and starts again at page 0.
	ReloadMsg struct {
		Seq   window.Sequence[string]
		Label string
		Err   error
	}

	statusTimeoutMsg struct{ id int }
)

// Opt configures a [Model].
type Opt func(*Model)

func WithTheme(t *theme.Theme) Opt {
	return func(m *Model) {
		if t != nil {
			m.theme = t
		}
	}
}

func WithKeyBinds(kb *KeyBinds) Opt {
	return func(m *Model) {
		if kb != nil {
			m.kb = kb
		}
	}
}

// WithLabel sets the source description shown in the status bar.
func WithLabel(label string) Opt {
	return func(m *Model) {
		m.label = label
	}
}

// WithTransitionHook is passed through to every controller the model
// creates, including after a reload.
func WithTransitionHook(fn func(window.Transition)) Opt {
	return func(m *Model) {
		m.ctrlOpts = append(m.ctrlOpts, window.WithTransitionHook(fn))
	}
}

// WithClipboard replaces the function used to copy item text.
func WithClipboard(fn func(string) error) Opt {
	return func(m *Model) {
		if fn != nil {
			m.copy = fn
		}
	}
}

// Model is a bubbletea model presenting one window of a sequence at a time.
type Model struct {
	ctrl      *window.Controller[string]
	seq       window.Sequence[string]
	theme     *theme.Theme
	kb        *KeyBinds
	copy      func(string) error
	paginator paginator.Model
	label     string
	message   string
	ctrlOpts  []window.ControllerOpt
	items     []string
	cards     [][]string
	geo       window.Geometry
	cfg       window.Config
	page      int
	scrollTop int
	width     int
	height    int
	messageID int
	showHelp  bool
	isError   bool
}

// New creates a model for seq and mounts the first window.
func New(seq window.Sequence[string], cfg window.Config, opts ...Opt) (*Model, error) {
	m := &Model{
		seq:   seq,
		cfg:   cfg,
		theme: theme.Default,
		copy:  copyToClipboard,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.kb == nil {
		m.kb = DefaultKeyBinds()
	} else {
		m.kb.EnsureDefaults()
	}

	m.paginator = paginator.New()
	m.paginator.Type = paginator.Arabic
	m.paginator.ArabicFormat = "%d/%d"
	m.paginator.KeyMap = paginator.KeyMap{}

	err := m.mount(seq)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Model) mount(seq window.Sequence[string]) error {
	ctrl, err := window.NewController(seq, m.cfg, m.ctrlOpts...)
	if err != nil {
		return fmt.Errorf("create controller: %w", err)
	}

	m.ctrl = ctrl
	m.seq = seq
	m.geo = ctrl.Geometry()
	m.paginator.PerPage = m.cfg.PageSize
	m.paginator.SetTotalPages(ctrl.Len())

	err = ctrl.Mount(m)
	if err != nil {
		return fmt.Errorf("mount window: %w", err)
	}

	return nil
}

// CommitWindow implements [window.Presenter].
func (m *Model) CommitWindow(page int, items []string) error {
	m.page = page
	m.items = items
	m.paginator.Page = page
	m.renderCards()

	return nil
}

// ApplyOffset implements [window.Presenter]. The offset is clamped to the
// scrollable range.
func (m *Model) ApplyOffset(offset int) {
	m.scrollTop = m.clampTop(offset)
}

// Controller returns the current controller.
func (m *Model) Controller() *window.Controller[string] {
	return m.ctrl
}

// Page returns the committed page.
func (m *Model) Page() int {
	return m.page
}

// ScrollTop returns the first visible content row.
func (m *Model) ScrollTop() int {
	return m.scrollTop
}

// ScrollHeight is the total scrollable extent of the committed page. It is
// the sum of the leading margin and the window height, padded on a short
// last page so that the window can still be scrolled to its first item.
func (m *Model) ScrollHeight() int {
	h := m.geo.ScrollHeight(m.page, len(m.items))

	return max(h, m.geo.BufferOffset(m.page)+m.ViewportHeight())
}

// ViewportHeight is the number of content rows on screen. It targets the
// controller's trigger height so that the last scroll position of a full
// window is the forward trigger, and shrinks to fit small terminals.
func (m *Model) ViewportHeight() int {
	target := m.geo.TriggerHeight()
	if target < 1 {
		target = max(m.geo.WindowHeight(1), 1)
	}

	avail := m.height - chromeRows
	if m.showHelp {
		avail -= m.helpHeight()
	}

	if m.height == 0 {
		return target
	}

	return max(1, min(target, avail))
}

func (m *Model) maxTop() int {
	return max(0, m.ScrollHeight()-m.ViewportHeight())
}

func (m *Model) clampTop(y int) int {
	return max(0, min(y, m.maxTop()))
}

// Close closes the current sequence if it implements [io.Closer].
func (m *Model) Close() error {
	return closeSeq(m.seq)
}

func closeSeq(seq window.Sequence[string]) error {
	if c, ok := seq.(io.Closer); ok {
		return c.Close() //nolint:wrapcheck // Sources wrap their own errors.
	}

	return nil
}

func (m *Model) Init() tea.Cmd {
	return nil
}

//nolint:ireturn // Must satisfy [tea.Model].
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.renderCards()
		m.scrollTop = m.clampTop(m.scrollTop)

	case tea.KeyMsg:
		return m, m.handleKey(msg.String())

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			break
		}

		switch msg.Button { //nolint:exhaustive // Only the wheel scrolls.
		case tea.MouseButtonWheelUp:
			return m, m.scrollTo(m.scrollTop - wheelRows)
		case tea.MouseButtonWheelDown:
			return m, m.scrollTo(m.scrollTop + wheelRows)
		}

	case ReloadMsg:
		return m, m.reload(msg)

	case statusTimeoutMsg:
		if msg.id == m.messageID {
			m.message = ""
			m.isError = false
		}
	}

	return m, nil
}

func (m *Model) handleKey(key string) tea.Cmd {
	vh := m.ViewportHeight()
	kb := m.kb

	switch {
	case kb.Quit.Match(key):
		return tea.Quit
	case kb.Help.Match(key):
		m.showHelp = !m.showHelp
		m.scrollTop = m.clampTop(m.scrollTop)
	case kb.Copy.Match(key):
		return m.copyTopItem()
	case kb.Up.Match(key):
		return m.scrollTo(m.scrollTop - 1)
	case kb.Down.Match(key):
		return m.scrollTo(m.scrollTop + 1)
	case kb.PageUp.Match(key):
		return m.scrollTo(m.scrollTop - vh)
	case kb.PageDown.Match(key):
		return m.scrollTo(m.scrollTop + vh)
	case kb.HalfUp.Match(key):
		return m.scrollTo(m.scrollTop - max(vh/2, 1))
	case kb.HalfDown.Match(key):
		return m.scrollTo(m.scrollTop + max(vh/2, 1))
	case kb.Top.Match(key):
		return m.scrollTo(0)
	case kb.Bottom.Match(key):
		return m.scrollTo(m.maxTop())
	case kb.Prev.Match(key):
		t, ok := m.ctrl.Retreat()
		if ok {
			return m.apply(t)
		}
	case kb.Next.Match(key):
		t, ok := m.ctrl.Advance()
		if ok {
			return m.apply(t)
		}
	}

	return nil
}

// scrollTo moves the viewport and, if the position changed, reports the new
// position to the controller.
func (m *Model) scrollTo(y int) tea.Cmd {
	y = m.clampTop(y)
	if y == m.scrollTop {
		return nil
	}

	m.scrollTop = y

	t, ok := m.ctrl.Observe(window.Sample{
		ScrollTop:    m.scrollTop,
		ScrollHeight: m.ScrollHeight(),
	})
	if !ok {
		return nil
	}

	return m.apply(t)
}

func (m *Model) apply(t window.Transition) tea.Cmd {
	err := m.ctrl.Apply(t, m)
	if err != nil {
		return m.setStatus(err.Error(), true)
	}

	return nil
}

func (m *Model) reload(msg ReloadMsg) tea.Cmd {
	if msg.Err != nil {
		return m.setStatus("reload: "+msg.Err.Error(), true)
	}

	old := m.seq

	err := m.mount(msg.Seq)
	if err != nil {
		cerr := closeSeq(msg.Seq)
		if cerr != nil {
			slog.Warn("close rejected sequence", slog.Any("error", cerr))
		}

		return m.setStatus("reload: "+err.Error(), true)
	}

	if msg.Label != "" {
		m.label = msg.Label
	}

	err = closeSeq(old)
	if err != nil {
		slog.Warn("close previous sequence", slog.Any("error", err))
	}

	return m.setStatus(fmt.Sprintf("reloaded %d items", m.ctrl.Len()), false)
}

// TopItem returns the absolute index and text of the first window item at or
// below the top of the viewport.
func (m *Model) TopItem() (int, string, bool) {
	if len(m.items) == 0 {
		return 0, "", false
	}

	i := 0

	stride := m.cfg.ItemHeight + m.cfg.Gap
	if rel := m.scrollTop - m.geo.BufferOffset(m.page); rel > 0 && stride > 0 {
		i = min(rel/stride, len(m.items)-1)
	}

	return m.page*m.cfg.PageSize + i, m.items[i], true
}

func (m *Model) copyTopItem() tea.Cmd {
	idx, text, ok := m.TopItem()
	if !ok {
		return m.setStatus("nothing to copy", true)
	}

	err := m.copy(text)
	if err != nil {
		return m.setStatus("copy: "+err.Error(), true)
	}

	return m.setStatus(fmt.Sprintf("copied item #%d", idx), false)
}

func copyToClipboard(text string) error {
	// OSC 52 works over SSH; the system clipboard is best effort.
	termenv.Copy(text)

	err := clipboard.WriteAll(text)
	if err != nil {
		slog.Debug("write system clipboard", slog.Any("error", err))
	}

	return nil
}

func (m *Model) setStatus(msg string, isError bool) tea.Cmd {
	m.messageID++
	m.message = msg
	m.isError = isError

	if isError {
		slog.Error(msg)
	}

	id := m.messageID

	return tea.Tick(StatusMessageTimeout, func(time.Time) tea.Msg {
		return statusTimeoutMsg{id: id}
	})
}
