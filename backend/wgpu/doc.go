// Package wgpu provides a GPU implementation of stereo.Device using gogpu/wgpu.
//
// The device drives the wgpu HAL directly: screen targets are 2D textures
// with a render attachment view, shape buffers are HAL buffers, and each
// pass is recorded into one command buffer that is submitted and waited on
// when the pass ends.
//
// # Pipeline
//
// One WGSL shader serves every interpolation mode. The vertex stage reads
// a uniform block holding the projection matrix, the per-eye transform and
// a flag selecting whether the transform applies:
//
//	position = projection * (useTransform ? transform : identity) * vec4(xyz, 1)
//
// Render pipelines are created lazily per primitive topology (triangle
// list, line list, point list) and share one bind group layout. Colors are
// written premultiplied and blended with premultiplied source-over.
//
// The shader is passed to the HAL as WGSL by default. WithSPIRV compiles it
// to SPIR-V with gogpu/naga first, for HAL backends that consume SPIR-V
// only.
//
// # Device Sources
//
// Three constructors cover the usual setups:
//
//   - Open creates a Vulkan instance, picks a GPU adapter and owns the
//     resulting device.
//   - NewDevice wraps an existing hal.Device and hal.Queue.
//   - NewDeviceFromProvider borrows the device of a gpucontext.DeviceProvider
//     such as a gogpu window, and renders in its surface format.
//
// Importing the package registers the "wgpu" backend with the backend
// registry, where it takes priority over the software backend.
//
// # Readback
//
// Targets are offscreen. ReadPixels copies a target into a staging buffer
// and returns it as an *image.RGBA, which is how tests and screenshots see
// the result.
package wgpu
