package engine

import (
	"slices"
	"strconv"
)

// KeyCode is a keyboard key. Values follow GLFW, which raylib shares.
type KeyCode int32

const (
	KeySpace        KeyCode = 32
	KeyApostrophe   KeyCode = 39
	KeyComma        KeyCode = 44
	KeyMinus        KeyCode = 45
	KeyPeriod       KeyCode = 46
	KeySlash        KeyCode = 47
	Key0            KeyCode = 48
	Key1            KeyCode = 49
	Key2            KeyCode = 50
	Key3            KeyCode = 51
	Key4            KeyCode = 52
	Key5            KeyCode = 53
	Key6            KeyCode = 54
	Key7            KeyCode = 55
	Key8            KeyCode = 56
	Key9            KeyCode = 57
	KeySemicolon    KeyCode = 59
	KeyEqual        KeyCode = 61
	KeyA            KeyCode = 65
	KeyB            KeyCode = 66
	KeyC            KeyCode = 67
	KeyD            KeyCode = 68
	KeyE            KeyCode = 69
	KeyF            KeyCode = 70
	KeyG            KeyCode = 71
	KeyH            KeyCode = 72
	KeyI            KeyCode = 73
	KeyJ            KeyCode = 74
	KeyK            KeyCode = 75
	KeyL            KeyCode = 76
	KeyM            KeyCode = 77
	KeyN            KeyCode = 78
	KeyO            KeyCode = 79
	KeyP            KeyCode = 80
	KeyQ            KeyCode = 81
	KeyR            KeyCode = 82
	KeyS            KeyCode = 83
	KeyT            KeyCode = 84
	KeyU            KeyCode = 85
	KeyV            KeyCode = 86
	KeyW            KeyCode = 87
	KeyX            KeyCode = 88
	KeyY            KeyCode = 89
	KeyZ            KeyCode = 90
	KeyEscape       KeyCode = 256
	KeyEnter        KeyCode = 257
	KeyTab          KeyCode = 258
	KeyBackspace    KeyCode = 259
	KeyRight        KeyCode = 262
	KeyLeft         KeyCode = 263
	KeyDown         KeyCode = 264
	KeyUp           KeyCode = 265
	KeyLeftShift    KeyCode = 340
	KeyLeftControl  KeyCode = 341
	KeyLeftAlt      KeyCode = 342
	KeyRightShift   KeyCode = 344
	KeyRightControl KeyCode = 345
	KeyRightAlt     KeyCode = 346
)

// MouseCode is a mouse button.
type MouseCode int32

const (
	MouseLeft   MouseCode = 0
	MouseRight  MouseCode = 1
	MouseMiddle MouseCode = 2
)

var keyNames = map[KeyCode]string{
	KeySpace: "SPACE", KeyApostrophe: "APOSTROPHE", KeyComma: "COMMA",
	KeyMinus: "MINUS", KeyPeriod: "PERIOD", KeySlash: "SLASH",
	Key0: "0", Key1: "1", Key2: "2", Key3: "3", Key4: "4",
	Key5: "5", Key6: "6", Key7: "7", Key8: "8", Key9: "9",
	KeySemicolon: "SEMICOLON", KeyEqual: "EQUAL",
	KeyA: "A", KeyB: "B", KeyC: "C", KeyD: "D", KeyE: "E", KeyF: "F",
	KeyG: "G", KeyH: "H", KeyI: "I", KeyJ: "J", KeyK: "K", KeyL: "L",
	KeyM: "M", KeyN: "N", KeyO: "O", KeyP: "P", KeyQ: "Q", KeyR: "R",
	KeyS: "S", KeyT: "T", KeyU: "U", KeyV: "V", KeyW: "W", KeyX: "X",
	KeyY: "Y", KeyZ: "Z",
	KeyEscape: "ESCAPE", KeyEnter: "ENTER", KeyTab: "TAB", KeyBackspace: "BACKSPACE",
	KeyRight: "RIGHT", KeyLeft: "LEFT", KeyDown: "DOWN", KeyUp: "UP",
	KeyLeftShift: "LEFT_SHIFT", KeyLeftControl: "LEFT_CONTROL", KeyLeftAlt: "LEFT_ALT",
	KeyRightShift: "RIGHT_SHIFT", KeyRightControl: "RIGHT_CONTROL", KeyRightAlt: "RIGHT_ALT",
}

var mouseNames = map[MouseCode]string{
	MouseLeft:   "LEFT",
	MouseRight:  "RIGHT",
	MouseMiddle: "MIDDLE",
}

// Keys lists every key the frame dispatcher polls, in ascending code order.
var Keys = sortedKeys()

// Buttons lists every mouse button the frame dispatcher polls.
var Buttons = []MouseCode{MouseLeft, MouseRight, MouseMiddle}

func sortedKeys() []KeyCode {
	keys := make([]KeyCode, 0, len(keyNames))
	for k := range keyNames {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (k KeyCode) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "KEY_" + strconv.Itoa(int(k))
}

func (m MouseCode) String() string {
	if name, ok := mouseNames[m]; ok {
		return name
	}
	return "MOUSE_" + strconv.Itoa(int(m))
}

// KeyNames returns the display name of every known key.
func KeyNames() map[KeyCode]string {
	out := make(map[KeyCode]string, len(keyNames))
	for k, v := range keyNames {
		out[k] = v
	}
	return out
}

// MouseNames returns the display name of every known mouse button.
func MouseNames() map[MouseCode]string {
	out := make(map[MouseCode]string, len(mouseNames))
	for k, v := range mouseNames {
		out[k] = v
	}
	return out
}

// Input polls an InputHost. The zero value reports every key and button as
// up, which is what a detached GameObject sees.
type Input struct {
	host InputHost
}

func NewInput(host InputHost) Input {
	return Input{host: host}
}

func (in Input) KeyDown(code KeyCode) bool {
	if in.host == nil {
		return false
	}
	return in.host.KeyDown(code)
}

func (in Input) ButtonDown(code MouseCode) bool {
	if in.host == nil {
		return false
	}
	return in.host.ButtonDown(code)
}
