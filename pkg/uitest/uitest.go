package uitest

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultWait bounds every WaitFor helper.
const DefaultWait = 3 * time.Second

// NewTestModel starts m in a virtual terminal of the given size.
func NewTestModel(tb testing.TB, m tea.Model, size Size) *teatest.TestModel {
	tb.Helper()

	return teatest.NewTestModel(tb, m, teatest.WithInitialTermSize(size.Width, size.Height))
}

// SendKeys sends each key as a [tea.KeyMsg]. Named keys ("down", "pgdown",
// "ctrl+c", ...) are mapped to their key types; anything else is sent as runes.
func SendKeys(tm *teatest.TestModel, keys ...string) {
	for _, k := range keys {
		tm.Send(KeyMsg(k))
	}
}

// KeyMsg builds the [tea.KeyMsg] whose String() is k.
func KeyMsg(k string) tea.KeyMsg {
	if t, ok := namedKeys[k]; ok {
		return tea.KeyMsg{Type: t}
	}

	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

var namedKeys = map[string]tea.KeyType{
	"up":     tea.KeyUp,
	"down":   tea.KeyDown,
	"left":   tea.KeyLeft,
	"right":  tea.KeyRight,
	"pgup":   tea.KeyPgUp,
	"pgdown": tea.KeyPgDown,
	"home":   tea.KeyHome,
	"end":    tea.KeyEnd,
	"enter":  tea.KeyEnter,
	"esc":    tea.KeyEsc,
	" ":      tea.KeySpace,
	"ctrl+c": tea.KeyCtrlC,
	"ctrl+d": tea.KeyCtrlD,
	"ctrl+u": tea.KeyCtrlU,
}

// WaitFor waits until condition holds for the raw output.
func WaitFor(tb testing.TB, r io.Reader, condition func([]byte) bool, opts ...teatest.WaitForOption) {
	tb.Helper()

	opts = append([]teatest.WaitForOption{teatest.WithDuration(DefaultWait)}, opts...)
	teatest.WaitFor(tb, r, condition, opts...)
}

// WaitForText waits until the ANSI-stripped output contains every string in
// want, and returns the stripped output seen at that point.
func WaitForText(tb testing.TB, r io.Reader, want ...string) string {
	tb.Helper()

	var captured string

	WaitFor(tb, r, func(b []byte) bool {
		plain := []byte(ansi.Strip(string(b)))
		for _, w := range want {
			if !bytes.Contains(plain, []byte(w)) {
				return false
			}
		}

		captured = string(plain)

		return true
	})

	return captured
}

// GetFinalOutput reads all output after the program finishes.
func GetFinalOutput(tb testing.TB, tm *teatest.TestModel, timeout time.Duration) string {
	tb.Helper()

	b, err := io.ReadAll(tm.FinalOutput(tb, teatest.WithFinalTimeout(timeout)))
	if err != nil {
		tb.Fatal(err)
	}

	return ansi.Strip(string(b))
}
