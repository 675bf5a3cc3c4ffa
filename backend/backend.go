package backend

import (
	"errors"

	"github.com/gogpu/stereo"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")
)

// RenderBackend is the interface for rendering backends.
// It abstracts the device implementation, allowing shapes and render
// targets to run on the CPU or on a GPU through gogpu/wgpu.
//
// Backends must be registered via Register() and are selected via
// Get() or Default().
type RenderBackend interface {
	stereo.Device

	// Name returns the backend identifier (e.g., "software", "wgpu").
	Name() string

	// Init initializes the backend.
	// This should be called before any rendering operations.
	Init() error

	// Close releases all backend resources.
	// The backend should not be used after Close is called.
	Close()
}
