package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"

	"github.com/luxo-ai/infinite-scroll/pkg/source"
	"github.com/luxo-ai/infinite-scroll/pkg/window"
	"github.com/luxo-ai/infinite-scroll/pkg/yaml"
)

// ErrorHandler renders err below fang's error header, followed by a hint when
// the error was caused by bad input. Config errors keep their annotated
// source excerpt, highlighted.
func ErrorHandler(w io.Writer, styles fang.Styles, err error) {
	colorYAMLErrors(err)

	mustN(fmt.Fprintln(w, styles.ErrorHeader.String()))
	mustN(fmt.Fprintln(w, lipgloss.NewStyle().MarginLeft(2).Render(err.Error())))
	mustN(fmt.Fprintln(w))

	hint := errorHint(err)
	if hint == nil {
		return
	}

	mustN(fmt.Fprintln(w, lipgloss.JoinHorizontal(
		lipgloss.Left,
		styles.ErrorText.UnsetWidth().Render(hint[0]),
		styles.Program.Flag.Render(hint[1]),
		styles.ErrorText.UnsetWidth().UnsetMargins().UnsetTransform().PaddingLeft(1).Render(hint[2]),
	)))
	mustN(fmt.Fprintln(w))
}

// errorHint returns the text before, the flag, and the text after a short
// suggestion for err, or nil if there is none.
func errorHint(err error) []string {
	switch {
	case isUsageError(err):
		return []string{"Try", "--help", "for usage."}
	case errors.Is(err, source.ErrUnknownKind):
		return []string{"Set", "--source", "to one of: " + strings.Join(source.AllKinds, ", ") + "."}
	case errors.Is(err, window.ErrInvalidConfig), errors.Is(err, source.ErrInvalidSpec):
		return []string{"Check", "--show-config", "for the options in use."}
	}

	return nil
}

// colorYAMLErrors enables highlighting on every config error in err's tree.
func colorYAMLErrors(err error) {
	var yamlErr *yaml.Error
	if errors.As(err, &yamlErr) {
		yamlErr.Colored = true
	}

	switch e := err.(type) { //nolint:errorlint // Walking the tree by hand.
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			colorYAMLErrors(inner)
		}
	case interface{ Unwrap() error }:
		colorYAMLErrors(e.Unwrap())
	}
}

// XXX: this is a hack to detect usage errors.
// See: https://github.com/spf13/cobra/pull/2266
func isUsageError(err error) bool {
	s := err.Error()
	for _, prefix := range []string{
		"flag needs an argument:",
		"unknown flag:",
		"unknown shorthand flag:",
		"unknown command",
		"invalid argument",
		"accepts at most",
	} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}

	return false
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func mustN(_ int, err error) {
	must(err)
}
