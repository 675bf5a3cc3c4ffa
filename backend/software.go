package backend

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/stereo"
	"github.com/gogpu/stereo/backend/software"
)

// Backend name constants.
const (
	// BackendSoftware is the name of the CPU-based software backend.
	BackendSoftware = "software"
	// BackendWGPU is the name of the Pure Go GPU backend (gogpu/wgpu).
	BackendWGPU = "wgpu"
)

// SoftwareBackend is a CPU-based rendering backend.
// It wraps software.Device and refuses work until Init is called.
type SoftwareBackend struct {
	*software.Device
	opts        []software.Option
	initialized bool
}

// init registers the software backend on package import.
func init() {
	Register(BackendSoftware, func() RenderBackend {
		return &SoftwareBackend{}
	})
}

// NewSoftwareBackend creates a new software rendering backend.
func NewSoftwareBackend(opts ...software.Option) *SoftwareBackend {
	return &SoftwareBackend{opts: opts}
}

// Name returns the backend identifier.
func (b *SoftwareBackend) Name() string {
	return BackendSoftware
}

// Init initializes the backend.
func (b *SoftwareBackend) Init() error {
	if b.initialized {
		return nil
	}
	b.Device = software.NewDevice(b.opts...)
	b.initialized = true
	stereo.Logger().Info("backend initialized", "name", BackendSoftware)
	return nil
}

// Close releases all backend resources.
func (b *SoftwareBackend) Close() {
	b.Device = nil
	b.initialized = false
}

// Initialized reports whether Init has been called since the last Close.
func (b *SoftwareBackend) Initialized() bool {
	return b.initialized
}

// CreateBuffer implements stereo.BufferAllocator.
func (b *SoftwareBackend) CreateBuffer(label string, size uint64, usage gputypes.BufferUsage) (stereo.Buffer, error) {
	if !b.initialized {
		return nil, fmt.Errorf("%w: create buffer %q", ErrNotInitialized, label)
	}
	return b.Device.CreateBuffer(label, size, usage)
}

// WriteBuffer implements stereo.BufferAllocator.
func (b *SoftwareBackend) WriteBuffer(buf stereo.Buffer, offset uint64, data []byte) error {
	if !b.initialized {
		return ErrNotInitialized
	}
	return b.Device.WriteBuffer(buf, offset, data)
}

// DestroyBuffer implements stereo.BufferAllocator.
func (b *SoftwareBackend) DestroyBuffer(buf stereo.Buffer) {
	if b.initialized {
		b.Device.DestroyBuffer(buf)
	}
}

// CreateScreenTarget implements stereo.TargetFactory.
func (b *SoftwareBackend) CreateScreenTarget(screen stereo.Screen, eye stereo.Eye, width, height int) (stereo.TargetHandle, error) {
	if !b.initialized {
		return nil, fmt.Errorf("%w: create %s target", ErrNotInitialized, screen)
	}
	return b.Device.CreateScreenTarget(screen, eye, width, height)
}

// ClearTarget implements stereo.TargetFactory.
func (b *SoftwareBackend) ClearTarget(target stereo.TargetHandle, c stereo.Color) error {
	if !b.initialized {
		return ErrNotInitialized
	}
	return b.Device.ClearTarget(target, c)
}

// DestroyTarget implements stereo.TargetFactory.
func (b *SoftwareBackend) DestroyTarget(target stereo.TargetHandle) {
	if b.initialized {
		b.Device.DestroyTarget(target)
	}
}

// Present implements stereo.Presenter.
func (b *SoftwareBackend) Present() error {
	if !b.initialized {
		return ErrNotInitialized
	}
	return b.Device.Present()
}

// BeginPass implements stereo.Device.
func (b *SoftwareBackend) BeginPass(target stereo.TargetHandle, program *stereo.Program) (stereo.Pass, error) {
	if !b.initialized {
		return nil, ErrNotInitialized
	}
	return b.Device.BeginPass(target, program)
}

var _ RenderBackend = (*SoftwareBackend)(nil)
