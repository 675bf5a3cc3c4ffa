package stereo

import "github.com/gogpu/gputypes"

// Buffer is a backend-owned GPU buffer.
type Buffer interface {
	// Size returns the allocated size in bytes.
	Size() uint64
}

// TargetHandle is a backend-owned screen target.
type TargetHandle interface {
	// Size returns the target dimensions in pixels.
	Size() (width, height int)
}

// BufferAllocator creates, fills and releases GPU buffers.
type BufferAllocator interface {
	// CreateBuffer allocates a buffer of at least size bytes.
	CreateBuffer(label string, size uint64, usage gputypes.BufferUsage) (Buffer, error)

	// WriteBuffer copies data into buf starting at offset.
	WriteBuffer(buf Buffer, offset uint64, data []byte) error

	// DestroyBuffer releases buf. Destroying nil is a no-op.
	DestroyBuffer(buf Buffer)
}

// TargetFactory creates and clears per-screen, per-eye render targets.
type TargetFactory interface {
	// CreateScreenTarget creates a width x height target bound to the
	// given screen and eye.
	CreateScreenTarget(screen Screen, eye Eye, width, height int) (TargetHandle, error)

	// ClearTarget fills every pixel of the target with c.
	ClearTarget(target TargetHandle, c Color) error

	// DestroyTarget releases the target. Destroying nil is a no-op.
	DestroyTarget(target TargetHandle)
}

// DrawCall is one indexed draw submitted to a Pass.
type DrawCall struct {
	// Label identifies the drawable in logs and debug tooling.
	Label string

	// Eye is the eye being rendered.
	Eye Eye

	// Uniforms names the program locations the vertex stage reads.
	Uniforms Uniforms

	// Topology is the primitive topology of the index buffer.
	Topology gputypes.PrimitiveTopology

	VertexBuffer Buffer
	IndexBuffer  Buffer

	// IndexCount is the number of uint16 indices to draw.
	IndexCount uint32
}

// Pass records draws into one target with one program bound.
type Pass interface {
	// Target returns the target the pass renders into.
	Target() TargetHandle

	// Draw records an indexed draw.
	Draw(call DrawCall) error

	// End finishes the pass and submits its work.
	End() error
}

// Device is the full backend surface used by shapes, render targets and the
// frame driver.
type Device interface {
	BufferAllocator
	TargetFactory

	// BeginPass starts a pass on target. The program's uniform values are
	// captured per draw call.
	BeginPass(target TargetHandle, program *Program) (Pass, error)
}

// Presenter is implemented by devices that show finished targets on a
// display.
type Presenter interface {
	Present() error
}
