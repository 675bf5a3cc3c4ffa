package wgpu

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/stereo"
	"github.com/gogpu/stereo/backend"
)

// init registers the wgpu backend on package import.
func init() {
	backend.Register(backend.BackendWGPU, func() backend.RenderBackend {
		return NewBackend()
	})
}

// Backend adapts a Device to backend.RenderBackend. Init opens the GPU.
type Backend struct {
	*Device
	opts []Option
	open func(...Option) (*Device, error)
}

// NewBackend creates an uninitialized wgpu backend. Init opens a Vulkan
// device with opts.
func NewBackend(opts ...Option) *Backend {
	return &Backend{opts: opts, open: Open}
}

// Name returns the backend identifier.
func (b *Backend) Name() string {
	return backend.BackendWGPU
}

// Init opens the GPU device.
func (b *Backend) Init() error {
	if b.Device != nil {
		return nil
	}
	d, err := b.open(b.opts...)
	if err != nil {
		return err
	}
	b.Device = d
	stereo.Logger().Info("backend initialized", "name", backend.BackendWGPU, "adapter", d.AdapterName())
	return nil
}

// Close releases the device and everything created on it.
func (b *Backend) Close() {
	if b.Device != nil {
		b.Device.Close()
		b.Device = nil
	}
}

// SetLogger sets the logger used by the wgpu backend.
func (b *Backend) SetLogger(l *slog.Logger) {
	setLogger(l)
}

// CreateBuffer implements stereo.BufferAllocator.
func (b *Backend) CreateBuffer(label string, size uint64, usage gputypes.BufferUsage) (stereo.Buffer, error) {
	if b.Device == nil {
		return nil, fmt.Errorf("%w: create buffer %q", backend.ErrNotInitialized, label)
	}
	return b.Device.CreateBuffer(label, size, usage)
}

// WriteBuffer implements stereo.BufferAllocator.
func (b *Backend) WriteBuffer(buf stereo.Buffer, offset uint64, data []byte) error {
	if b.Device == nil {
		return backend.ErrNotInitialized
	}
	return b.Device.WriteBuffer(buf, offset, data)
}

// DestroyBuffer implements stereo.BufferAllocator.
func (b *Backend) DestroyBuffer(buf stereo.Buffer) {
	if b.Device != nil {
		b.Device.DestroyBuffer(buf)
	}
}

// CreateScreenTarget implements stereo.TargetFactory.
func (b *Backend) CreateScreenTarget(screen stereo.Screen, eye stereo.Eye, width, height int) (stereo.TargetHandle, error) {
	if b.Device == nil {
		return nil, fmt.Errorf("%w: create %s target", backend.ErrNotInitialized, screen)
	}
	return b.Device.CreateScreenTarget(screen, eye, width, height)
}

// ClearTarget implements stereo.TargetFactory.
func (b *Backend) ClearTarget(target stereo.TargetHandle, c stereo.Color) error {
	if b.Device == nil {
		return backend.ErrNotInitialized
	}
	return b.Device.ClearTarget(target, c)
}

// DestroyTarget implements stereo.TargetFactory.
func (b *Backend) DestroyTarget(target stereo.TargetHandle) {
	if b.Device != nil {
		b.Device.DestroyTarget(target)
	}
}

// BeginPass implements stereo.Device.
func (b *Backend) BeginPass(target stereo.TargetHandle, program *stereo.Program) (stereo.Pass, error) {
	if b.Device == nil {
		return nil, backend.ErrNotInitialized
	}
	return b.Device.BeginPass(target, program)
}

var _ backend.RenderBackend = (*Backend)(nil)
