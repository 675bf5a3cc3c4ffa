// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package software provides a CPU implementation of stereo.Device.
//
// Screen targets are RGBA Surfaces. A pass runs the shape vertex stage on
// the CPU (projection, optional per-eye transform, viewport mapping) and
// rasterizes the indexed primitives:
//
//   - Triangles use integer edge functions on a 1/16 pixel grid with the
//     top-left fill rule, so adjacent triangles neither overlap nor leave
//     gaps. Vertex colors are interpolated across the triangle.
//   - Lines are walked with a DDA, excluding the end pixel.
//   - Points cover a single pixel.
//
// Pixels with interpolated depth outside [0, 1] are discarded. There is no
// depth test; later draws cover earlier ones.
//
// The device is useful for headless rendering, screenshots and tests:
//
//	dev := software.NewDevice()
//	rt := stereo.MustNewRenderTarget(dev, 400, 240, stereo.ScreenTop)
//	...
//	dev.Surface(stereo.ScreenTop, stereo.EyeLeft).SavePNG("top.png")
package software
