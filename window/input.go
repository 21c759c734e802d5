package window

// Key is a host-independent key code.
type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
	KeySpace
	KeyLeftShift
	KeyEscape
	KeyTab
	KeyDelete
	KeyN
	KeyP
	KeyB
	KeyF1
	KeyF2
	KeyF5
	KeyF6
	KeyF7
)

type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// Click is a button press at a cursor position in window pixels.
type Click struct {
	Button MouseButton
	X, Y   float64
}

// Input is everything the host observed since the previous poll.
type Input struct {
	// Down holds keys currently held.
	Down map[Key]bool
	// Pressed lists keys that went down since the previous poll, in order.
	Pressed []Key

	MouseDown  map[MouseButton]bool
	MouseX     float64
	MouseY     float64
	MouseMoved bool
	Scroll     float64
	Clicks     []Click

	// Resized is set when the framebuffer changed to Width x Height.
	Resized bool
	Width   int
	Height  int
}

func (in *Input) IsDown(k Key) bool { return in.Down[k] }

func (in *Input) WasPressed(k Key) bool {
	for _, p := range in.Pressed {
		if p == k {
			return true
		}
	}
	return false
}

func (in *Input) IsMouseDown(b MouseButton) bool { return in.MouseDown[b] }
