package stereo

import "errors"

// Errors returned by shapes, render targets and programs.
var (
	// ErrNilDevice is returned when a constructor receives a nil device.
	ErrNilDevice = errors.New("stereo: device is nil")

	// ErrTargetCreation is returned when the backend cannot create a
	// screen target. There is no degraded rendering mode: callers treat it
	// as fatal at startup.
	ErrTargetCreation = errors.New("stereo: render target creation failed")

	// ErrUpload is returned when a shape cannot acquire or fill its GPU
	// buffers. The shape stays dirty and owns no buffers afterwards.
	ErrUpload = errors.New("stereo: buffer upload failed")

	// ErrTooManyVertices is returned when a shape holds more vertices than
	// 16-bit indices can address.
	ErrTooManyVertices = errors.New("stereo: too many vertices for 16-bit indices")

	// ErrInvalidEye is returned for an eye index other than 0 or 1.
	ErrInvalidEye = errors.New("stereo: invalid eye index")

	// ErrInvalidLocation is returned for a uniform location outside the
	// program's register file.
	ErrInvalidLocation = errors.New("stereo: invalid uniform location")

	// ErrNilPass is returned when a drawable is drawn without a pass.
	ErrNilPass = errors.New("stereo: pass is nil")
)
