package stereo

// Drawable is anything the frame driver can render into a pass.
//
// Draw is called once per eye per frame. Implementations must not retain
// the pass after returning.
type Drawable interface {
	Draw(pass Pass, eye Eye, uniforms Uniforms) error
}

// Compile-time check.
var _ Drawable = (*Shape)(nil)
