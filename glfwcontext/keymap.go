package glfwcontext

import (
	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/goframeview/graphics"
	"github.com/richinsley/goframeview/inputs"
)

var _ graphics.Context = (*Context)(nil)

var keyMap = map[glfw.Key]inputs.Key{
	glfw.KeySpace:        inputs.KeySpace,
	glfw.KeyEscape:       inputs.KeyEscape,
	glfw.KeyEnter:        inputs.KeyEnter,
	glfw.KeyKPEnter:      inputs.KeyEnter,
	glfw.KeyTab:          inputs.KeyTab,
	glfw.KeyBackspace:    inputs.KeyBackspace,
	glfw.KeyLeft:         inputs.KeyLeft,
	glfw.KeyRight:        inputs.KeyRight,
	glfw.KeyUp:           inputs.KeyUp,
	glfw.KeyDown:         inputs.KeyDown,
	glfw.KeyHome:         inputs.KeyHome,
	glfw.KeyEnd:          inputs.KeyEnd,
	glfw.KeyPageUp:       inputs.KeyPageUp,
	glfw.KeyPageDown:     inputs.KeyPageDown,
	glfw.KeyLeftBracket:  inputs.KeyLeftBracket,
	glfw.KeyRightBracket: inputs.KeyRightBracket,
	glfw.KeySemicolon:    inputs.KeySemicolon,
	glfw.KeyApostrophe:   inputs.KeyApostrophe,
	glfw.KeyMinus:        inputs.KeyMinus,
	glfw.KeyEqual:        inputs.KeyEqual,
	glfw.KeyComma:        inputs.KeyComma,
	glfw.KeyPeriod:       inputs.KeyPeriod,
	glfw.KeySlash:        inputs.KeySlash,
}

// translateKey maps GLFW key codes onto inputs.Key. Letters and digits are
// contiguous in both enumerations.
func translateKey(k glfw.Key) inputs.Key {
	switch {
	case k >= glfw.KeyA && k <= glfw.KeyZ:
		return inputs.KeyA + inputs.Key(k-glfw.KeyA)
	case k >= glfw.Key0 && k <= glfw.Key9:
		return inputs.Key0 + inputs.Key(k-glfw.Key0)
	}
	if key, ok := keyMap[k]; ok {
		return key
	}
	return inputs.KeyUnknown
}

func translateMods(m glfw.ModifierKey) inputs.Mod {
	var mods inputs.Mod
	if m&glfw.ModShift != 0 {
		mods |= inputs.ModShift
	}
	if m&glfw.ModControl != 0 {
		mods |= inputs.ModCtrl
	}
	if m&glfw.ModAlt != 0 {
		mods |= inputs.ModAlt
	}
	if m&glfw.ModSuper != 0 {
		mods |= inputs.ModSuper
	}
	return mods
}

func translateButton(b glfw.MouseButton) (inputs.Button, bool) {
	switch b {
	case glfw.MouseButtonLeft:
		return inputs.ButtonLeft, true
	case glfw.MouseButtonRight:
		return inputs.ButtonRight, true
	case glfw.MouseButtonMiddle:
		return inputs.ButtonMiddle, true
	}
	return 0, false
}
