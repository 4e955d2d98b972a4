package inputs

import (
	"fmt"
	"strings"
)

// Key is a physical key, independent of the windowing library.
type Key int

const (
	KeyUnknown Key = iota
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeySpace
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyLeftBracket
	KeyRightBracket
	KeySemicolon
	KeyApostrophe
	KeyMinus
	KeyEqual
	KeyComma
	KeyPeriod
	KeySlash
)

var keyNames = map[Key]string{
	KeySpace:        "space",
	KeyEscape:       "escape",
	KeyEnter:        "enter",
	KeyTab:          "tab",
	KeyBackspace:    "backspace",
	KeyLeft:         "left",
	KeyRight:        "right",
	KeyUp:           "up",
	KeyDown:         "down",
	KeyHome:         "home",
	KeyEnd:          "end",
	KeyPageUp:       "pageup",
	KeyPageDown:     "pagedown",
	KeyLeftBracket:  "[",
	KeyRightBracket: "]",
	KeySemicolon:    ";",
	KeyApostrophe:   "'",
	KeyMinus:        "-",
	KeyEqual:        "=",
	KeyComma:        ",",
	KeyPeriod:       ".",
	KeySlash:        "/",
}

var keysByName map[string]Key

func init() {
	keysByName = make(map[string]Key, len(keyNames)+36)
	for k, n := range keyNames {
		keysByName[n] = k
	}
	for k := KeyA; k <= KeyZ; k++ {
		keysByName[k.String()] = k
	}
	for k := Key0; k <= Key9; k++ {
		keysByName[k.String()] = k
	}
}

func (k Key) String() string {
	switch {
	case k >= KeyA && k <= KeyZ:
		return string(rune('a' + int(k-KeyA)))
	case k >= Key0 && k <= Key9:
		return string(rune('0' + int(k-Key0)))
	}
	if n, ok := keyNames[k]; ok {
		return n
	}
	return "unknown"
}

// ParseKey accepts the names produced by Key.String, case-insensitively.
func ParseKey(s string) (Key, error) {
	if k, ok := keysByName[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	return KeyUnknown, fmt.Errorf("unknown key %q", s)
}

var modNames = []struct {
	mod  Mod
	name string
}{
	{ModCtrl, "ctrl"},
	{ModAlt, "alt"},
	{ModShift, "shift"},
	{ModSuper, "super"},
}

func (m Mod) String() string {
	var parts []string
	for _, mn := range modNames {
		if m&mn.mod != 0 {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, "+")
}

// ParseMod accepts a single modifier name or a common alias such as "cmd".
func ParseMod(s string) (Mod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ctrl", "control":
		return ModCtrl, nil
	case "alt", "option":
		return ModAlt, nil
	case "shift":
		return ModShift, nil
	case "super", "cmd", "meta":
		return ModSuper, nil
	case "", "none":
		return 0, nil
	}
	return 0, fmt.Errorf("unknown modifier %q", s)
}
