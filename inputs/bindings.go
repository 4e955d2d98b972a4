package inputs

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Chord is a key together with the exact set of modifiers held.
type Chord struct {
	Key  Key
	Mods Mod
}

func (c Chord) String() string {
	if c.Mods == 0 {
		return c.Key.String()
	}
	return c.Mods.String() + "+" + c.Key.String()
}

// ParseChord parses strings such as "ctrl+shift+r" or "space".
func ParseChord(s string) (Chord, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	var c Chord
	for i, p := range parts {
		if i == len(parts)-1 {
			k, err := ParseKey(p)
			if err != nil {
				return Chord{}, fmt.Errorf("failed to parse chord %q: %w", s, err)
			}
			c.Key = k
			break
		}
		m, err := ParseMod(p)
		if err != nil {
			return Chord{}, fmt.Errorf("failed to parse chord %q: %w", s, err)
		}
		c.Mods |= m
	}
	return c, nil
}

// Bindings maps chords to actions. Lookups match modifiers exactly.
type Bindings map[Chord]Action

// DefaultBindings returns the stock key map. Navigation, export and quit use
// modifier; playback, source switching, zoom and panning are bare keys.
func DefaultBindings(modifier Mod) Bindings {
	b := Bindings{}
	b.bind(modifier, KeyS, GoStart)
	b.bind(modifier, KeyD, GoNext)
	b.bind(modifier, KeyA, GoPrevious)
	b.bind(modifier, KeyE, GoEnd)
	b.bind(0, KeyHome, GoStart)
	b.bind(0, KeyEnd, GoEnd)
	b.bind(0, KeyRight, GoNext)
	b.bind(0, KeyLeft, GoPrevious)

	b.bind(0, KeySpace, TogglePlayback)
	b.bind(0, KeyX, NextSource)
	b.bind(0, KeyZ, PreviousSource)

	b.bind(0, KeyR, ZoomIn)
	b.bind(0, KeyF, ZoomOut)
	b.bind(modifier, KeyR, ZoomIn)
	b.bind(modifier, KeyF, ZoomOut)
	// Bound after the zoom keys so that with modifier == ctrl the reset wins.
	b.bind(modifier|ModCtrl, KeyR, ResetView)

	b.bind(0, KeyW, PanUp)
	b.bind(0, KeyS, PanDown)
	b.bind(0, KeyA, PanLeft)
	b.bind(0, KeyD, PanRight)

	b.bind(0, KeyRightBracket, ExposureUp)
	b.bind(0, KeyLeftBracket, ExposureDown)
	b.bind(0, KeyApostrophe, GammaUp)
	b.bind(0, KeySemicolon, GammaDown)
	b.bind(0, KeyBackspace, ResetDisplay)

	b.bind(modifier, KeyX, CopyCoordinates)
	b.bind(modifier, KeyC, CopyPixels)
	b.bind(modifier, KeyN, SaveCrop)

	b.bind(modifier, KeyQ, Close)
	return b
}

func (b Bindings) bind(mods Mod, key Key, a Action) {
	b[Chord{Key: key, Mods: mods}] = a
}

// Resolve returns the action bound to key with exactly mods held.
func (b Bindings) Resolve(key Key, mods Mod) Action {
	return b[Chord{Key: key, Mods: mods}]
}

// Apply overrides bindings from chord → action-name pairs. Binding a chord to
// "none" removes it.
func (b Bindings) Apply(overrides map[string]string) error {
	for chord, name := range overrides {
		c, err := ParseChord(chord)
		if err != nil {
			return err
		}
		a, err := ParseAction(name)
		if err != nil {
			return fmt.Errorf("binding %q: %w", chord, err)
		}
		if a == ActionNone {
			delete(b, c)
			continue
		}
		b[c] = a
	}
	return nil
}

type bindingFile struct {
	Modifier string            `yaml:"modifier"`
	Bindings map[string]string `yaml:"bindings"`
}

// LoadBindings reads a YAML key map:
//
//	modifier: alt
//	bindings:
//	  ctrl+o: save_crop
//	  q: none
//
// The defaults for the given modifier are applied first.
func LoadBindings(path string) (Bindings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bindings: %w", err)
	}
	var f bindingFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse bindings %s: %w", path, err)
	}
	mod := ModCtrl
	if f.Modifier != "" {
		if mod, err = ParseMod(f.Modifier); err != nil {
			return nil, err
		}
	}
	b := DefaultBindings(mod)
	if err := b.Apply(f.Bindings); err != nil {
		return nil, err
	}
	return b, nil
}
