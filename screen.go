package stereo

import "fmt"

// Screen identifies a physical display.
type Screen uint8

const (
	// ScreenTop is the 400x240 upper display. It is the only screen that
	// renders a right-eye image.
	ScreenTop Screen = iota

	// ScreenBottom is the 320x240 lower display.
	ScreenBottom
)

// Screen dimensions in pixels.
const (
	TopWidth     = 400
	BottomWidth  = 320
	ScreenHeight = 240
)

// Size returns the native dimensions of the screen.
func (s Screen) Size() (width, height int) {
	if s == ScreenBottom {
		return BottomWidth, ScreenHeight
	}
	return TopWidth, ScreenHeight
}

// Stereoscopic reports whether the screen can show a separate image per eye.
func (s Screen) Stereoscopic() bool {
	return s == ScreenTop
}

// String returns the string representation of the screen.
func (s Screen) String() string {
	switch s {
	case ScreenTop:
		return "top"
	case ScreenBottom:
		return "bottom"
	default:
		return fmt.Sprintf("Screen(%d)", int(s))
	}
}

// Eye selects the left or right image of a stereoscopic pass.
// Both eyes share geometry; the per-eye disparity is carried by the
// transform uniform.
type Eye int

const (
	// EyeLeft is eye index 0. Non-stereoscopic screens only use this eye.
	EyeLeft Eye = 0

	// EyeRight is eye index 1.
	EyeRight Eye = 1
)

// Valid reports whether e is EyeLeft or EyeRight.
func (e Eye) Valid() bool {
	return e == EyeLeft || e == EyeRight
}

// String returns the string representation of the eye.
func (e Eye) String() string {
	switch e {
	case EyeLeft:
		return "left"
	case EyeRight:
		return "right"
	default:
		return fmt.Sprintf("Eye(%d)", int(e))
	}
}
