package wgpu

import "errors"

var (
	// ErrNoAdapter is returned by Open when no GPU adapter is found.
	ErrNoAdapter = errors.New("wgpu: no GPU adapter found")

	// ErrNotHALProvider is returned when a DeviceProvider does not expose
	// HAL device and queue handles.
	ErrNotHALProvider = errors.New("wgpu: provider does not expose HAL handles")

	// ErrDeviceClosed is returned when using a device after Close.
	ErrDeviceClosed = errors.New("wgpu: device closed")

	// ErrForeignHandle is returned when a buffer or target was not created
	// by this device.
	ErrForeignHandle = errors.New("wgpu: handle belongs to another device")

	// ErrTargetDestroyed is returned when using a destroyed target.
	ErrTargetDestroyed = errors.New("wgpu: target destroyed")

	// ErrPassEnded is returned when drawing into or ending a finished pass.
	ErrPassEnded = errors.New("wgpu: pass already ended")

	// ErrUnsupportedTopology is returned for topologies without a pipeline.
	ErrUnsupportedTopology = errors.New("wgpu: unsupported primitive topology")

	// ErrGPUTimeout is returned when the GPU does not finish a submission in
	// time.
	ErrGPUTimeout = errors.New("wgpu: timed out waiting for GPU")
)
