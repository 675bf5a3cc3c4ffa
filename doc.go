// Package stereo provides retained-mode 2.5D shape rendering for a dual-screen,
// stereoscopic display.
//
// # Overview
//
// A Shape is a list of positioned, colored vertices plus an interpolation
// mode. The shape turns that description into vertex and index buffers on
// first draw and reuses them until its vertices change. A RenderTarget is a
// per-screen, per-eye destination that can be cleared to a solid color.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/stereo"
//		"github.com/gogpu/stereo/backend/software"
//	)
//
//	dev := software.NewDevice()
//	top := stereo.MustNewRenderTarget(dev, stereo.TopWidth, stereo.ScreenHeight, stereo.ScreenTop)
//
//	tri := stereo.NewShape(dev)
//	tri.AddVertexXYZ(200, 40, 0.5, stereo.Red)
//	tri.AddVertexXYZ(320, 200, 0.5, stereo.Green)
//	tri.AddVertexXYZ(80, 200, 0.5, stereo.Blue)
//
//	prog := stereo.NewProgram()
//	_ = prog.SetMatrix(0, stereo.ScreenProjection(stereo.TopWidth, stereo.ScreenHeight))
//
//	_ = top.Clear()
//	pass, _ := dev.BeginPass(top.Handle(), prog)
//	_ = tri.Draw(pass, stereo.EyeLeft, stereo.DefaultUniforms)
//	_ = pass.End()
//
// The frame package wraps this sequence in a per-frame loop that handles
// both eyes and the stereo disparity.
//
// # Interpolation Modes
//
// Index synthesis depends only on the vertex count and the mode:
//
//	Fan        (0,i,i+1)                 3(n-2) indices, n >= 3
//	Strip      alternating winding       3(n-2) indices, n >= 3
//	Triangles  (3k,3k+1,3k+2)            3*floor(n/3) indices, n >= 3
//	Points     (i)                       n indices, n >= 1
//	Outline    (i,(i+1) mod n)           2n indices, 2 when n == 2
//
// A shape with fewer vertices than its mode needs draws nothing.
//
// # Coordinate System
//
// Vertex positions are transformed by the projection matrix, optionally
// preceded by the per-eye transform matrix. With ScreenProjection the
// origin is at the top-left of the target, X grows right and Y grows down.
//
// # Backends
//
// Shapes and render targets talk to a Device. The backend/software package
// renders on the CPU; backend/wgpu renders through gogpu/wgpu.
package stereo

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
