// Package input turns configured key names into ebiten keys and pressed keys
// into player actions.
package input

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	ErrUnknownKey   = errors.New("input: unknown key")
	ErrDuplicateKey = errors.New("input: key bound twice")
)

var keyNames = map[string]ebiten.Key{
	"a": ebiten.KeyA, "b": ebiten.KeyB, "c": ebiten.KeyC, "d": ebiten.KeyD,
	"e": ebiten.KeyE, "f": ebiten.KeyF, "g": ebiten.KeyG, "h": ebiten.KeyH,
	"i": ebiten.KeyI, "j": ebiten.KeyJ, "k": ebiten.KeyK, "l": ebiten.KeyL,
	"m": ebiten.KeyM, "n": ebiten.KeyN, "o": ebiten.KeyO, "p": ebiten.KeyP,
	"q": ebiten.KeyQ, "r": ebiten.KeyR, "s": ebiten.KeyS, "t": ebiten.KeyT,
	"u": ebiten.KeyU, "v": ebiten.KeyV, "w": ebiten.KeyW, "x": ebiten.KeyX,
	"y": ebiten.KeyY, "z": ebiten.KeyZ,

	"0": ebiten.KeyDigit0, "1": ebiten.KeyDigit1, "2": ebiten.KeyDigit2,
	"3": ebiten.KeyDigit3, "4": ebiten.KeyDigit4, "5": ebiten.KeyDigit5,
	"6": ebiten.KeyDigit6, "7": ebiten.KeyDigit7, "8": ebiten.KeyDigit8,
	"9": ebiten.KeyDigit9,

	"kp0": ebiten.KeyNumpad0, "kp1": ebiten.KeyNumpad1, "kp2": ebiten.KeyNumpad2,
	"kp3": ebiten.KeyNumpad3, "kp4": ebiten.KeyNumpad4, "kp5": ebiten.KeyNumpad5,
	"kp6": ebiten.KeyNumpad6, "kp7": ebiten.KeyNumpad7, "kp8": ebiten.KeyNumpad8,
	"kp9": ebiten.KeyNumpad9,

	"f1": ebiten.KeyF1, "f2": ebiten.KeyF2, "f3": ebiten.KeyF3, "f4": ebiten.KeyF4,
	"f5": ebiten.KeyF5, "f6": ebiten.KeyF6, "f7": ebiten.KeyF7, "f8": ebiten.KeyF8,
	"f9": ebiten.KeyF9, "f10": ebiten.KeyF10, "f11": ebiten.KeyF11, "f12": ebiten.KeyF12,

	"space":     ebiten.KeySpace,
	"left":      ebiten.KeyArrowLeft,
	"right":     ebiten.KeyArrowRight,
	"up":        ebiten.KeyArrowUp,
	"down":      ebiten.KeyArrowDown,
	"return":    ebiten.KeyEnter,
	"enter":     ebiten.KeyEnter,
	"escape":    ebiten.KeyEscape,
	"tab":       ebiten.KeyTab,
	"backspace": ebiten.KeyBackspace,
	"minus":     ebiten.KeyMinus,
	"equals":    ebiten.KeyEqual,
	"comma":     ebiten.KeyComma,
	"period":    ebiten.KeyPeriod,
	"slash":     ebiten.KeySlash,
	"semicolon": ebiten.KeySemicolon,
}

func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.TrimPrefix(name, "k_")
}

// ParseKey resolves a configured key name. Names are case insensitive and may
// carry a "K_" prefix, so "K_SPACE", "space" and "Space" are the same key.
func ParseKey(name string) (ebiten.Key, error) {
	k, ok := keyNames[normalize(name)]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownKey, "%q", name)
	}
	return k, nil
}

// Label is the readable form of a key name: "K_SPACE" -> "Space".
func Label(name string) string {
	n := normalize(name)
	if n == "" {
		return ""
	}
	if _, ok := keyNames[n]; !ok {
		return name
	}
	return strings.ToUpper(n[:1]) + n[1:]
}
