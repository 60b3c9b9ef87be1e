package input

import (
	"github.com/cockroachdb/errors"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/phusic/config"
	"github.com/milk9111/phusic/player"
)

// Binding maps a configured key name to an action.
type Binding struct {
	Key    string
	Label  string
	Action player.Action
}

// Bindings translates the keys pressed in a tick into player actions.
type Bindings struct {
	keys  map[ebiten.Key]player.Action
	order []Binding
	buf   []ebiten.Key
}

// reserved keys are handled before any configured binding.
var reserved = map[ebiten.Key]string{
	ebiten.KeyArrowLeft:  "previous",
	ebiten.KeyArrowRight: "next",
	ebiten.KeySpace:      "next",
}

// NewBindings validates the generic controls and the extra bindings. Unknown
// and duplicate keys are errors.
func NewBindings(controls config.ControlsConfig, extra []Binding) (*Bindings, error) {
	b := &Bindings{keys: make(map[ebiten.Key]player.Action)}

	all := append([]Binding{
		{Key: controls.Fullscreen, Label: "Fullscreen", Action: player.Action{Kind: player.Fullscreen}},
		{Key: controls.Controls, Label: "Controls", Action: player.Action{Kind: player.Controls}},
	}, extra...)

	owner := make(map[ebiten.Key]string, len(all))
	for _, bind := range all {
		k, err := ParseKey(bind.Key)
		if err != nil {
			return nil, errors.Wrapf(err, "binding %s", bind.Label)
		}
		if what, ok := reserved[k]; ok {
			return nil, errors.Wrapf(ErrDuplicateKey, "%s is %s, cannot bind %s", Label(bind.Key), what, bind.Label)
		}
		if other, ok := owner[k]; ok {
			return nil, errors.Wrapf(ErrDuplicateKey, "%s bound to %s and %s", Label(bind.Key), other, bind.Label)
		}
		owner[k] = bind.Label
		b.keys[k] = bind.Action
		b.order = append(b.order, bind)
	}
	return b, nil
}

// ConfigBindings lists the phase, ending and sound effect keys of cfg.
func ConfigBindings(cfg *config.Config) []Binding {
	var out []Binding
	for _, p := range cfg.Phases {
		if p.Key == "" {
			continue
		}
		out = append(out, Binding{
			Key:    p.Key,
			Label:  p.Name,
			Action: player.Action{Kind: player.Trigger, Key: p.Key},
		})
	}
	for _, e := range cfg.Endings {
		out = append(out, Binding{
			Key:    e.Key,
			Label:  e.Name,
			Action: player.Action{Kind: player.Trigger, Key: e.Key},
		})
	}
	for _, s := range cfg.Sfx {
		out = append(out, Binding{
			Key:    s.Key,
			Label:  s.Name,
			Action: player.Action{Kind: player.Sound, Key: s.Key, Name: s.Name},
		})
	}
	return out
}

// FromConfig builds every binding of cfg.
func FromConfig(cfg *config.Config) (*Bindings, error) {
	return NewBindings(cfg.Controls, ConfigBindings(cfg))
}

// Poll reads the keys pressed since the previous tick.
func (b *Bindings) Poll() []player.Action {
	b.buf = inpututil.AppendJustPressedKeys(b.buf[:0])
	if len(b.buf) == 0 {
		return nil
	}
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl)
	return b.Translate(b.buf, ctrl)
}

// Translate maps pressed keys to actions, in key order. With ctrl held the
// arrows jump without a fade and C quits.
func (b *Bindings) Translate(keys []ebiten.Key, ctrl bool) []player.Action {
	var out []player.Action
	for _, k := range keys {
		if ctrl {
			switch k {
			case ebiten.KeyArrowLeft:
				out = append(out, player.Action{Kind: player.JumpPrevious})
				continue
			case ebiten.KeyArrowRight:
				out = append(out, player.Action{Kind: player.JumpNext})
				continue
			case ebiten.KeyC:
				out = append(out, player.Action{Kind: player.Quit})
				continue
			}
		}

		switch k {
		case ebiten.KeyArrowLeft:
			out = append(out, player.Action{Kind: player.Previous})
		case ebiten.KeyArrowRight, ebiten.KeySpace:
			out = append(out, player.Action{Kind: player.Next})
		default:
			if a, ok := b.keys[k]; ok {
				out = append(out, a)
			}
		}
	}
	return out
}
