package stereo

// ShapeOption configures a Shape during creation.
//
// Example:
//
//	// Default fan interpolation
//	s := stereo.NewShape(dev)
//
//	// Outline with mode changes forcing a rebuild
//	s := stereo.NewShape(dev,
//		stereo.WithInterpolationMode(stereo.InterpolationOutline),
//		stereo.WithModeInvalidation())
type ShapeOption func(*shapeOptions)

// shapeOptions holds optional configuration for Shape creation.
type shapeOptions struct {
	mode             InterpolationMode
	label            string
	invalidateOnMode bool
}

// defaultShapeOptions returns the default shape options.
func defaultShapeOptions() shapeOptions {
	return shapeOptions{
		mode:  InterpolationFan,
		label: "shape",
	}
}

// WithInterpolationMode sets the initial interpolation mode.
func WithInterpolationMode(m InterpolationMode) ShapeOption {
	return func(o *shapeOptions) {
		o.mode = m
	}
}

// WithLabel sets the label used for the shape's buffers and draw calls.
func WithLabel(label string) ShapeOption {
	return func(o *shapeOptions) {
		o.label = label
	}
}

// WithModeInvalidation makes SetInterpolationMode mark the shape dirty when
// the mode actually changes, so the next draw synthesizes indices for the
// new mode.
//
// Without this option a mode change alone keeps the current index set until
// the next vertex mutation or an explicit Invalidate.
func WithModeInvalidation() ShapeOption {
	return func(o *shapeOptions) {
		o.invalidateOnMode = true
	}
}

// TargetOption configures a RenderTarget during creation.
type TargetOption func(*targetOptions)

type targetOptions struct {
	eye        Eye
	clearColor Color
}

// DefaultClearColor is the clear color of a new render target: opaque black.
var DefaultClearColor = RGBA8(0, 0, 0, 255)

func defaultTargetOptions() targetOptions {
	return targetOptions{
		eye:        EyeLeft,
		clearColor: DefaultClearColor,
	}
}

// WithEye binds the target to an eye. The default is EyeLeft.
func WithEye(e Eye) TargetOption {
	return func(o *targetOptions) {
		o.eye = e
	}
}

// WithClearColor sets the color Clear fills the target with.
func WithClearColor(c Color) TargetOption {
	return func(o *targetOptions) {
		o.clearColor = c
	}
}
