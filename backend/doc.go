// Package backend provides a pluggable device backend abstraction.
//
// A backend is a stereo.Device with a name and a lifecycle. The software
// backend is always available; the GPU backend registers itself when its
// package is imported:
//
//	import _ "github.com/gogpu/stereo/backend/wgpu"
//
// # Backend Selection
//
// Backends are tried in a fixed order: wgpu, then software, then any other
// registered backend. Default returns the first one; Open initializes a
// backend by name:
//
//	b := backend.Default()
//
//	b, err := backend.Open(backend.BackendSoftware)
//
// # Usage with Shapes
//
//	b, err := backend.InitDefault()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	rt := stereo.MustNewRenderTarget(b, 400, 240, stereo.ScreenTop)
//	tri := stereo.NewShape(b)
//
// # Available Backends
//
// - "software": CPU rasterizer (always available)
// - "wgpu": GPU-accelerated via gogpu/wgpu (Vulkan)
package backend
