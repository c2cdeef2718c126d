package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/printer"
	"github.com/goccy/go-yaml/token"
)

func NewPathBuilder() *yaml.PathBuilder {
	return &yaml.PathBuilder{}
}

// Error is a YAML decoding or validation error. When Source is set together
// with a Path or Token, Error() includes an excerpt of the source around the
// offending node.
type Error struct {
	Err     error
	Path    *yaml.Path
	Token   *token.Token
	Source  []byte
	Colored bool
}

// WithSource attaches source to err if it is an [*Error], so that the message
// can point into it. Other errors are returned unchanged.
func WithSource(err error, source []byte) error {
	var yamlErr *Error
	if errors.As(err, &yamlErr) {
		yamlErr.Source = source
	}

	return err
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	if e.Err == nil {
		return ""
	}

	switch {
	case e.Token != nil:
		pos := e.Token.Position

		var p printer.Printer

		excerpt := p.PrintErrorToken(e.Token, e.Colored)

		return fmt.Sprintf("[%d:%d] %v\n%s", pos.Line, pos.Column, e.Err, excerpt)

	case e.Path != nil && len(e.Source) > 0:
		excerpt, err := e.Path.AnnotateSource(e.Source, e.Colored)
		if err != nil {
			return fmt.Sprintf("error at %s: %v", e.Path, e.Err)
		}

		return fmt.Sprintf("error at %s: %v\n%s", e.Path, e.Err, trimExcerpt(excerpt))

	case e.Path != nil:
		return fmt.Sprintf("error at %s: %v", e.Path, e.Err)
	}

	return e.Err.Error()
}

func trimExcerpt(b []byte) string {
	return strings.TrimRight(string(b), "\n")
}

func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}
