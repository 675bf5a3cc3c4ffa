package stereo

import "fmt"

// RenderTarget is a drawable destination bound to one screen and one eye.
//
// The target does not clear itself between frames; callers invoke Clear
// explicitly before drawing.
//
// RenderTarget is not safe for concurrent use.
type RenderTarget struct {
	factory    TargetFactory
	handle     TargetHandle
	width      int
	height     int
	screen     Screen
	eye        Eye
	clearColor Color
}

// NewRenderTarget creates a width x height target for screen.
// The eye defaults to EyeLeft and the clear color to opaque black.
//
// Failure wraps ErrTargetCreation. There is no fallback: rendering cannot
// proceed without its targets.
func NewRenderTarget(factory TargetFactory, width, height int, screen Screen, opts ...TargetOption) (*RenderTarget, error) {
	if factory == nil {
		return nil, ErrNilDevice
	}
	o := defaultTargetOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if !o.eye.Valid() {
		return nil, fmt.Errorf("%w: %w: %d", ErrTargetCreation, ErrInvalidEye, int(o.eye))
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid size %dx%d", ErrTargetCreation, width, height)
	}

	handle, err := factory.CreateScreenTarget(screen, o.eye, width, height)
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s %dx%d: %w", ErrTargetCreation, screen, o.eye, width, height, err)
	}

	Logger().Info("render target created",
		"screen", screen, "eye", o.eye, "width", width, "height", height)

	return &RenderTarget{
		factory:    factory,
		handle:     handle,
		width:      width,
		height:     height,
		screen:     screen,
		eye:        o.eye,
		clearColor: o.clearColor,
	}, nil
}

// MustNewRenderTarget is like NewRenderTarget but panics on error.
// Intended for program startup, where a missing target is fatal.
func MustNewRenderTarget(factory TargetFactory, width, height int, screen Screen, opts ...TargetOption) *RenderTarget {
	rt, err := NewRenderTarget(factory, width, height, screen, opts...)
	if err != nil {
		panic(err)
	}
	return rt
}

// Clear fills every pixel of the target with the clear color.
func (rt *RenderTarget) Clear() error {
	if rt.handle == nil {
		return fmt.Errorf("stereo: clear %s/%s: target destroyed", rt.screen, rt.eye)
	}
	return rt.factory.ClearTarget(rt.handle, rt.clearColor)
}

// Handle returns the backend target. The render target keeps ownership.
func (rt *RenderTarget) Handle() TargetHandle {
	return rt.handle
}

// Width returns the target width in pixels.
func (rt *RenderTarget) Width() int { return rt.width }

// Height returns the target height in pixels.
func (rt *RenderTarget) Height() int { return rt.height }

// Screen returns the screen the target is bound to.
func (rt *RenderTarget) Screen() Screen { return rt.screen }

// Eye returns the eye the target is bound to.
func (rt *RenderTarget) Eye() Eye { return rt.eye }

// SetClearColor changes the color used by subsequent Clear calls.
func (rt *RenderTarget) SetClearColor(c Color) {
	rt.clearColor = c
}

// ClearColor returns the color Clear fills the target with.
func (rt *RenderTarget) ClearColor() Color {
	return rt.clearColor
}

// Destroy releases the backend target. It is safe to call more than once.
func (rt *RenderTarget) Destroy() {
	if rt.handle == nil {
		return
	}
	rt.factory.DestroyTarget(rt.handle)
	rt.handle = nil
}
