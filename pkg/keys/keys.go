// Package keys describes configurable key bindings and renders them as help
// text.
package keys

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	reflow "github.com/muesli/reflow/ansi"
)

// Ellipsis marks truncated help text.
const Ellipsis = "…"

// ErrDuplicateKey is returned when one key code is bound more than once.
var ErrDuplicateKey = errors.New("duplicate key binding")

// Key is a single key code, optionally displayed under an alias.
type Key struct {
	// Code is the key as reported by the terminal, e.g. "ctrl+c" or "pgdown".
	Code string `json:"code" jsonschema:"title=Code"`
	// Alias is shown in help instead of Code.
	Alias string `json:"alias,omitempty" jsonschema:"title=Alias"`
	// Hidden keys still trigger the binding but are left out of help.
	Hidden bool `json:"hidden,omitempty" jsonschema:"title=Hidden"`
}

type KeyOpt func(k *Key)

func New(code string, opts ...KeyOpt) Key {
	k := Key{Code: code}
	for _, opt := range opts {
		opt(&k)
	}

	return k
}

func WithAlias(alias string) KeyOpt {
	return func(k *Key) {
		k.Alias = alias
	}
}

func Hidden() KeyOpt {
	return func(k *Key) {
		k.Hidden = true
	}
}

func (k Key) String() string {
	if k.Alias != "" {
		return k.Alias
	}

	return k.Code
}

// KeyBind is an action and the keys that trigger it.
type KeyBind struct {
	// Description of the action, shown in help.
	Description string `json:"description" jsonschema:"title=Description"`
	// Keys that trigger the action.
	Keys []Key `json:"keys" jsonschema:"title=Keys"`
}

func NewBind(description string, keys ...Key) KeyBind {
	return KeyBind{
		Description: description,
		Keys:        keys,
	}
}

// String joins the visible keys with "/".
func (kb *KeyBind) String() string {
	var visible []string

	for _, k := range kb.Keys {
		if !k.Hidden {
			visible = append(visible, k.String())
		}
	}

	return strings.Join(visible, "/")
}

// Match reports whether key triggers the binding. A nil binding matches
// nothing.
func (kb *KeyBind) Match(key string) bool {
	if kb == nil {
		return false
	}

	for _, k := range kb.Keys {
		if k.Code == key {
			return true
		}
	}

	return false
}

// AddKey appends key unless its code is already bound.
func (kb *KeyBind) AddKey(key Key) {
	if kb == nil || kb.Match(key.Code) {
		return
	}

	kb.Keys = append(kb.Keys, key)
}

// StringRow renders the binding as one help row: keys padded to keyWidth,
// then the description truncated to fit descWidth.
func (kb *KeyBind) StringRow(keyWidth, descWidth int) string {
	keys := kb.String()
	if keys == "" {
		return ""
	}

	desc := truncate(kb.Description, descWidth-2)

	keyPad := strings.Repeat(" ", max(0, keyWidth-reflow.PrintableRuneWidth(keys)))
	descPad := strings.Repeat(" ", max(0, descWidth-reflow.PrintableRuneWidth(desc)-2))

	return keys + keyPad + "  " + desc + descPad
}

// KeyBindRenderer lays out bindings in equal-width columns.
type KeyBindRenderer struct {
	columns [][]KeyBind
}

func (r *KeyBindRenderer) AddColumn(kbs ...KeyBind) {
	if len(kbs) == 0 {
		return
	}

	r.columns = append(r.columns, kbs)
}

// Render lays the columns out across width cells.
func (r *KeyBindRenderer) Render(width int) string {
	if len(r.columns) == 0 {
		return ""
	}

	colWidth := max(6, width/len(r.columns)-2)
	remainder := 0

	if len(r.columns) > 1 {
		remainder = width % len(r.columns)
	}

	rows := make([][]string, len(r.columns))
	height := 0

	for i, col := range r.columns {
		rows[i] = column(colWidth, col)
		height = max(height, len(rows[i]))
	}

	lines := make([]string, 0, height)

	for row := range height {
		var sb strings.Builder

		for col := range rows {
			cell := strings.Repeat(" ", colWidth)
			if row < len(rows[col]) {
				cell = rows[col][row]
			}

			sb.WriteString(" " + cell + " ")
		}

		sb.WriteString(strings.Repeat(" ", remainder))
		lines = append(lines, sb.String())
	}

	return strings.Join(lines, "\n")
}

func column(width int, kbs []KeyBind) []string {
	keyWidth := 0
	for _, kb := range kbs {
		keyWidth = max(keyWidth, reflow.PrintableRuneWidth(kb.String()))
	}

	rows := []string{}

	for _, kb := range kbs {
		if row := kb.StringRow(keyWidth, width-keyWidth); row != "" {
			rows = append(rows, row)
		}
	}

	return rows
}

// ValidateBinds reports every key code that appears in more than one binding
// (or twice in the same binding) across all groups.
func ValidateBinds(groups ...[]KeyBind) error {
	var errs []error

	seen := make(map[string]string)

	for _, group := range groups {
		for _, kb := range group {
			for _, key := range kb.Keys {
				if prev, ok := seen[key.Code]; ok {
					errs = append(errs, fmt.Errorf("%w: %q used by %q and %q",
						ErrDuplicateKey, key.Code, prev, kb.Description))

					continue
				}

				seen[key.Code] = kb.Description
			}
		}
	}

	return errors.Join(errs...)
}

// SetDefaultBind fills a nil binding, or the empty fields of a partial one,
// from def.
func SetDefaultBind(kb **KeyBind, def KeyBind) {
	if *kb == nil {
		*kb = &def

		return
	}

	if len((*kb).Keys) == 0 {
		(*kb).Keys = def.Keys
	}

	if (*kb).Description == "" {
		(*kb).Description = def.Description
	}
}

func truncate(s string, width int) string {
	if width <= 0 {
		if s == "" {
			return ""
		}

		return Ellipsis
	}

	return ansi.Truncate(s, width, Ellipsis)
}
