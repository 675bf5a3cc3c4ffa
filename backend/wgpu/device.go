package wgpu

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/stereo"
	"github.com/gogpu/wgpu/hal"

	// Register the Vulkan HAL backend for Open.
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// DefaultTargetFormat is the texture format of screen targets unless
// WithTargetFormat or a provider's surface format says otherwise.
const DefaultTargetFormat = gputypes.TextureFormatBGRA8Unorm

// DefaultTimeout bounds each wait for a GPU submission.
const DefaultTimeout = 5 * time.Second

// Option configures a Device.
type Option func(*Device)

// WithSPIRV makes the device compile the shape shader to SPIR-V with naga
// instead of passing WGSL to the HAL.
func WithSPIRV() Option {
	return func(d *Device) {
		d.spirv = true
	}
}

// WithTargetFormat sets the texture format of screen targets. Only
// BGRA8Unorm and RGBA8Unorm can be read back.
func WithTargetFormat(format gputypes.TextureFormat) Option {
	return func(d *Device) {
		d.format = format
	}
}

// WithTimeout sets how long a submission may take before ErrGPUTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Device) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// Device is a GPU implementation of stereo.Device on top of the wgpu HAL.
//
// Device is not safe for concurrent use.
type Device struct {
	device   hal.Device
	queue    hal.Queue
	instance hal.Instance // set when the device owns its instance
	owned    bool         // device is destroyed on Close

	format  gputypes.TextureFormat
	spirv   bool
	timeout time.Duration

	shapes  *shapePipeline
	buffers map[*Buffer]struct{}
	targets map[*Target]struct{}
	closed  bool
	name    string
}

// NewDevice wraps an existing HAL device and queue. The caller keeps
// ownership: Close releases only what the Device created.
func NewDevice(device hal.Device, queue hal.Queue, opts ...Option) (*Device, error) {
	if device == nil || queue == nil {
		return nil, stereo.ErrNilDevice
	}
	d := &Device{
		device:  device,
		queue:   queue,
		format:  DefaultTargetFormat,
		timeout: DefaultTimeout,
		buffers: make(map[*Buffer]struct{}),
		targets: make(map[*Target]struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.shapes = newShapePipeline(device, d.format, d.spirv)
	return d, nil
}

// NewDeviceFromProvider borrows the GPU device of a gpucontext provider,
// such as a gogpu window. The provider must also implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
// Targets use the provider's surface format unless WithTargetFormat is
// given.
func NewDeviceFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Device, error) {
	if provider == nil {
		return nil, stereo.ErrNilDevice
	}
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNotHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNotHALProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNotHALProvider)
	}

	if f := provider.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
		opts = append([]Option{WithTargetFormat(f)}, opts...)
	}
	return NewDevice(device, queue, opts...)
}

// Open creates a Vulkan instance and opens the first discrete or integrated
// GPU, falling back to the first adapter. The returned device owns the
// instance and the HAL device.
func Open(opts ...Option) (*Device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("%w: vulkan backend not available", ErrNoAdapter)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}
	d, err := OpenInstance(instance, opts...)
	if err != nil {
		instance.Destroy()
		return nil, err
	}
	d.instance = instance
	return d, nil
}

// OpenInstance opens a GPU device on an existing HAL instance. The returned
// device owns the HAL device but not the instance.
func OpenInstance(instance hal.Instance, opts ...Option) (*Device, error) {
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return nil, ErrNoAdapter
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return nil, fmt.Errorf("wgpu: open device: %w", err)
	}
	d, err := NewDevice(openDev.Device, openDev.Queue, opts...)
	if err != nil {
		openDev.Device.Destroy()
		return nil, err
	}
	d.owned = true
	d.name = selected.Info.Name
	slogger().Info("wgpu: device opened", "adapter", d.name, "format", d.format)
	return d, nil
}

// AdapterName returns the name of the adapter opened by Open, or "" for
// wrapped devices.
func (d *Device) AdapterName() string { return d.name }

// Format returns the texture format of screen targets.
func (d *Device) Format() gputypes.TextureFormat { return d.format }

// SetLogger sets the logger used by the wgpu backend. Nil disables logging.
func (d *Device) SetLogger(l *slog.Logger) {
	setLogger(l)
}

// Close destroys every live buffer and target, the shape pipelines and,
// when owned, the HAL device and instance. Close is idempotent.
func (d *Device) Close() {
	if d.closed {
		return
	}
	for b := range d.buffers {
		d.DestroyBuffer(b)
	}
	for t := range d.targets {
		d.DestroyTarget(t)
	}
	d.shapes.destroy()
	if d.owned {
		d.device.Destroy()
	}
	if d.instance != nil {
		d.instance.Destroy()
		d.instance = nil
	}
	d.closed = true
	slogger().Debug("wgpu: device closed")
}

func (d *Device) checkOpen() error {
	if d.closed {
		return ErrDeviceClosed
	}
	return nil
}

// submit ends encoding, submits the command buffer and waits for it.
// beginEncoding creates a command encoder in the recording state. The
// encoder is destroyed if recording cannot begin.
func (d *Device) beginEncoding(label string) (hal.CommandEncoder, error) {
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, fmt.Errorf("create %s encoder: %w", label, err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		encoder.Destroy()
		return nil, fmt.Errorf("begin %s encoding: %w", label, err)
	}
	return encoder, nil
}

// submit ends encoding, submits the command buffer and waits for the GPU.
// The encoder is destroyed on return.
func (d *Device) submit(encoder hal.CommandEncoder) error {
	defer encoder.Destroy()
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	ok, err := d.device.Wait(fence, 1, d.timeout)
	if err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w after %v", ErrGPUTimeout, d.timeout)
	}
	return nil
}

var _ stereo.Device = (*Device)(nil)
