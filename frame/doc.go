// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package frame drives the per-frame render loop of a dual-screen
// application.
//
// A Driver owns one render target per screen and eye (top-left,
// top-right when stereo is enabled, bottom), a uniform Program, and the
// drawables added to each screen. Every frame it clears each target, loads
// the screen projection and the per-eye transform into the program, and
// draws the screen's drawables in the order they were added:
//
//	dev := software.NewDevice()
//	drv, err := frame.New(dev, frame.DefaultConfig())
//	...
//	drv.Add(stereo.ScreenTop, shape)
//	for drv.Running() {
//		if err := drv.Frame(); err != nil {
//			return err
//		}
//	}
//
// # Stereo
//
// On the top screen the two eyes see the scene shifted horizontally by a
// depth-dependent amount. A vertex at depth z moves by
//
//	±(Disparity·Slider/2)·(1 - z/DefaultDepth)
//
// pixels, so geometry at stereo.DefaultDepth stays on the screen plane,
// nearer geometry pops out and farther geometry recedes. The bottom screen
// is never shifted.
package frame
