package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/luxo-ai/infinite-scroll/pkg/window"
)

// linePresenter writes each committed window as plain lines, one item per
// line. Offsets have no meaning without a viewport and are only logged.
type linePresenter struct {
	w *bufio.Writer
}

func (p *linePresenter) CommitWindow(page int, items []string) error {
	for _, item := range items {
		_, err := p.w.WriteString(item + "\n")
		if err != nil {
			return fmt.Errorf("write page %d: %w", page, err)
		}
	}

	return nil
}

func (p *linePresenter) ApplyOffset(offset int) {
	slog.Debug("apply offset", slog.Int("offset", offset))
}

// printWindows prints the window of page 0, then advances one page at a time
// until the last page, or until limit windows have been printed. A limit of
// zero or less prints every page.
func printWindows(ctx context.Context, w io.Writer, seq window.Sequence[string], cfg window.Config, limit int) error {
	ctrl, err := window.NewController(seq, cfg)
	if err != nil {
		return fmt.Errorf("create controller: %w", err)
	}

	p := &linePresenter{w: bufio.NewWriter(w)}

	err = ctrl.Mount(p)
	if err != nil {
		return err //nolint:wrapcheck // Already wrapped.
	}

	for printed := 1; limit <= 0 || printed < limit; printed++ {
		if ctx.Err() != nil {
			return fmt.Errorf("print windows: %w", ctx.Err())
		}

		t, ok := ctrl.Advance()
		if !ok {
			break
		}

		err = ctrl.Apply(t, p)
		if err != nil {
			return err //nolint:wrapcheck // Already wrapped.
		}
	}

	err = p.w.Flush()
	if err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}
