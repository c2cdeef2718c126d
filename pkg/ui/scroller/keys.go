package scroller

import (
	"github.com/luxo-ai/infinite-scroll/pkg/keys"
)

// KeyBinds configures the scroller's keys. Unset binds take defaults.
type KeyBinds struct {
	Quit *keys.KeyBind `json:"quit,omitempty"`
	Help *keys.KeyBind `json:"help,omitempty"`
	Copy *keys.KeyBind `json:"copy,omitempty"`

	// Scrolling.
	Up       *keys.KeyBind `json:"up,omitempty"`
	Down     *keys.KeyBind `json:"down,omitempty"`
	PageUp   *keys.KeyBind `json:"pageUp,omitempty"`
	PageDown *keys.KeyBind `json:"pageDown,omitempty"`
	HalfUp   *keys.KeyBind `json:"halfUp,omitempty"`
	HalfDown *keys.KeyBind `json:"halfDown,omitempty"`
	Top      *keys.KeyBind `json:"top,omitempty"`
	Bottom   *keys.KeyBind `json:"bottom,omitempty"`

	// Window navigation.
	Prev *keys.KeyBind `json:"prev,omitempty"`
	Next *keys.KeyBind `json:"next,omitempty"`
}

// DefaultKeyBinds returns a fully populated set of binds.
func DefaultKeyBinds() *KeyBinds {
	kb := &KeyBinds{}
	kb.EnsureDefaults()

	return kb
}

func (kb *KeyBinds) EnsureDefaults() {
	keys.SetDefaultBind(&kb.Quit, keys.NewBind("quit", keys.New("q")))
	kb.Quit.AddKey(keys.New("ctrl+c", keys.WithAlias("⌃c"), keys.Hidden()))

	keys.SetDefaultBind(&kb.Help,
		keys.NewBind("toggle help",
			keys.New("?"),
		))
	keys.SetDefaultBind(&kb.Copy,
		keys.NewBind("copy top item",
			keys.New("c"),
			keys.New("y", keys.Hidden()),
		))

	keys.SetDefaultBind(&kb.Up,
		keys.NewBind("scroll up",
			keys.New("up", keys.WithAlias("↑")),
			keys.New("k"),
		))
	keys.SetDefaultBind(&kb.Down,
		keys.NewBind("scroll down",
			keys.New("down", keys.WithAlias("↓")),
			keys.New("j"),
		))
	keys.SetDefaultBind(&kb.PageUp,
		keys.NewBind("screen up",
			keys.New("pgup"),
			keys.New("b"),
		))
	keys.SetDefaultBind(&kb.PageDown,
		keys.NewBind("screen down",
			keys.New("pgdown", keys.WithAlias("pgdn")),
			keys.New(" ", keys.WithAlias("space")),
			keys.New("f"),
		))
	keys.SetDefaultBind(&kb.HalfUp,
		keys.NewBind("half screen up",
			keys.New("ctrl+u", keys.WithAlias("⌃u")),
			keys.New("u"),
		))
	keys.SetDefaultBind(&kb.HalfDown,
		keys.NewBind("half screen down",
			keys.New("ctrl+d", keys.WithAlias("⌃d")),
			keys.New("d"),
		))
	keys.SetDefaultBind(&kb.Top,
		keys.NewBind("scroll to top",
			keys.New("home"),
			keys.New("g"),
		))
	keys.SetDefaultBind(&kb.Bottom,
		keys.NewBind("scroll to bottom",
			keys.New("end"),
			keys.New("G"),
		))

	keys.SetDefaultBind(&kb.Prev,
		keys.NewBind("previous page",
			keys.New("left", keys.WithAlias("←")),
			keys.New("p"),
			keys.New("h", keys.Hidden()),
		))
	keys.SetDefaultBind(&kb.Next,
		keys.NewBind("next page",
			keys.New("right", keys.WithAlias("→")),
			keys.New("n"),
			keys.New("l", keys.Hidden()),
		))
}

func (kb *KeyBinds) scrollBinds() []keys.KeyBind {
	return []keys.KeyBind{
		*kb.Up,
		*kb.Down,
		*kb.PageUp,
		*kb.PageDown,
		*kb.HalfUp,
		*kb.HalfDown,
	}
}

func (kb *KeyBinds) otherBinds() []keys.KeyBind {
	return []keys.KeyBind{
		*kb.Top,
		*kb.Bottom,
		*kb.Prev,
		*kb.Next,
		*kb.Copy,
		*kb.Help,
		*kb.Quit,
	}
}

// Validate reports key codes bound to more than one action.
func (kb *KeyBinds) Validate() error {
	return keys.ValidateBinds(kb.scrollBinds(), kb.otherBinds()) //nolint:wrapcheck // Already descriptive.
}

func (kb *KeyBinds) helpRenderer() *keys.KeyBindRenderer {
	var r keys.KeyBindRenderer

	r.AddColumn(kb.scrollBinds()...)
	r.AddColumn(kb.otherBinds()...)

	return &r
}
