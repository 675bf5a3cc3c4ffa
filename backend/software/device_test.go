// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/stereo"
)

// newScreenProgram returns a program with a pixel projection for w x h at
// the default uniform locations and the transform disabled.
func newScreenProgram(t *testing.T, w, h int) *stereo.Program {
	t.Helper()
	p := stereo.NewProgram()
	if err := p.SetMatrix(stereo.DefaultUniforms.Projection, stereo.ScreenProjection(w, h)); err != nil {
		t.Fatal(err)
	}
	if err := p.SetMatrix(stereo.DefaultUniforms.Transform, stereo.Identity()); err != nil {
		t.Fatal(err)
	}
	return p
}

// drawShape clears the target, then draws s into it in one pass.
func drawShape(t *testing.T, dev *Device, rt *stereo.RenderTarget, prog *stereo.Program, shapes ...*stereo.Shape) {
	t.Helper()
	if err := rt.Clear(); err != nil {
		t.Fatalf("Clear() = %v", err)
	}
	pass, err := dev.BeginPass(rt.Handle(), prog)
	if err != nil {
		t.Fatalf("BeginPass() = %v", err)
	}
	for _, s := range shapes {
		if err := s.Draw(pass, rt.Eye(), stereo.DefaultUniforms); err != nil {
			t.Fatalf("Draw() = %v", err)
		}
	}
	if err := pass.End(); err != nil {
		t.Fatalf("End() = %v", err)
	}
}

func TestClear_TopScreenRed(t *testing.T) {
	dev := NewDevice()
	rt, err := stereo.NewRenderTarget(dev, 400, 240, stereo.ScreenTop, stereo.WithClearColor(0xFF0000FF))
	if err != nil {
		t.Fatal(err)
	}
	if err := rt.Clear(); err != nil {
		t.Fatal(err)
	}
	s := rt.Handle().(*Surface)
	for y := 0; y < 240; y++ {
		for x := 0; x < 400; x++ {
			if got := s.Pixel(x, y); got != stereo.Red {
				t.Fatalf("pixel (%d,%d) = %v, want opaque red", x, y, got)
			}
		}
	}
	if dev.Stats().Clears != 1 {
		t.Errorf("Clears = %d, want 1", dev.Stats().Clears)
	}
}

func TestCreateScreenTarget_TooLarge(t *testing.T) {
	dev := NewDevice()
	_, err := stereo.NewRenderTarget(dev, MaxTargetSize+1, 10, stereo.ScreenTop)
	if !errors.Is(err, stereo.ErrTargetCreation) || !errors.Is(err, ErrTargetTooLarge) {
		t.Errorf("NewRenderTarget() = %v, want ErrTargetCreation wrapping ErrTargetTooLarge", err)
	}
}

// Two triangles of a fan covering the whole target fill every pixel
// exactly once: no seam along the shared diagonal.
func TestDraw_FullScreenQuadNoSeams(t *testing.T) {
	dev := NewDevice()
	rt := stereo.MustNewRenderTarget(dev, 400, 240, stereo.ScreenTop, stereo.WithClearColor(stereo.Black))
	quad := stereo.NewShape(dev)
	quad.AddVertexXYZ(0, 0, 0.5, stereo.White)
	quad.AddVertexXYZ(400, 0, 0.5, stereo.White)
	quad.AddVertexXYZ(400, 240, 0.5, stereo.White)
	quad.AddVertexXYZ(0, 240, 0.5, stereo.White)

	drawShape(t, dev, rt, newScreenProgram(t, 400, 240), quad)

	s := rt.Handle().(*Surface)
	for y := 0; y < 240; y++ {
		for x := 0; x < 400; x++ {
			if got := s.Pixel(x, y); got != stereo.White {
				t.Fatalf("pixel (%d,%d) = %v, want white", x, y, got)
			}
		}
	}
	if got := dev.Stats().PixelsWritten; got != 400*240 {
		t.Errorf("PixelsWritten = %d, want %d (each pixel exactly once)", got, 400*240)
	}
}

func TestDraw_TriangleCoverage(t *testing.T) {
	dev := NewDevice()
	rt := stereo.MustNewRenderTarget(dev, 32, 32, stereo.ScreenBottom)
	tri := stereo.NewShape(dev, stereo.WithInterpolationMode(stereo.InterpolationTriangles))
	tri.AddVertexXYZ(0, 0, 0.5, stereo.Green)
	tri.AddVertexXYZ(16, 0, 0.5, stereo.Green)
	tri.AddVertexXYZ(0, 16, 0.5, stereo.Green)

	drawShape(t, dev, rt, newScreenProgram(t, 32, 32), tri)

	s := rt.Handle().(*Surface)
	tests := []struct {
		x, y int
		want stereo.Color
	}{
		{1, 1, stereo.Green},
		{7, 7, stereo.Green},
		{14, 0, stereo.Green},
		{9, 9, stereo.Black},
		{20, 2, stereo.Black},
		{2, 20, stereo.Black},
	}
	for _, tt := range tests {
		if got := s.Pixel(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestDraw_GouraudInterpolation(t *testing.T) {
	dev := NewDevice()
	rt := stereo.MustNewRenderTarget(dev, 100, 10, stereo.ScreenBottom)
	band := stereo.NewShape(dev)
	band.AddVertexXYZ(0, 0, 0.5, stereo.Black)
	band.AddVertexXYZ(100, 0, 0.5, stereo.White)
	band.AddVertexXYZ(100, 10, 0.5, stereo.White)
	band.AddVertexXYZ(0, 10, 0.5, stereo.Black)

	drawShape(t, dev, rt, newScreenProgram(t, 100, 10), band)

	s := rt.Handle().(*Surface)
	left, mid, right := s.Pixel(2, 5).R(), s.Pixel(50, 5).R(), s.Pixel(97, 5).R()
	if !(left < mid && mid < right) {
		t.Errorf("red channel not increasing: %d, %d, %d", left, mid, right)
	}
	if mid < 118 || mid > 138 {
		t.Errorf("mid value = %d, want ~128", mid)
	}
}

func TestDraw_Outline(t *testing.T) {
	dev := NewDevice()
	rt := stereo.MustNewRenderTarget(dev, 20, 20, stereo.ScreenBottom)
	box := stereo.NewShape(dev, stereo.WithInterpolationMode(stereo.InterpolationOutline))
	// Vertices at pixel centers.
	box.AddVertexXYZ(2.5, 2.5, 0.5, stereo.Red)
	box.AddVertexXYZ(12.5, 2.5, 0.5, stereo.Red)
	box.AddVertexXYZ(12.5, 12.5, 0.5, stereo.Red)
	box.AddVertexXYZ(2.5, 12.5, 0.5, stereo.Red)

	drawShape(t, dev, rt, newScreenProgram(t, 20, 20), box)

	s := rt.Handle().(*Surface)
	for _, p := range [][2]int{{2, 2}, {7, 2}, {12, 7}, {7, 12}, {2, 7}} {
		if got := s.Pixel(p[0], p[1]); got != stereo.Red {
			t.Errorf("outline pixel %v = %v, want red", p, got)
		}
	}
	if got := s.Pixel(7, 7); got != stereo.Black {
		t.Errorf("interior pixel = %v, want black", got)
	}
	if got := dev.Stats().PixelsWritten; got != 40 {
		t.Errorf("PixelsWritten = %d, want 40", got)
	}
}

func TestDraw_Points(t *testing.T) {
	dev := NewDevice()
	rt := stereo.MustNewRenderTarget(dev, 10, 10, stereo.ScreenBottom)
	pts := stereo.NewShape(dev, stereo.WithInterpolationMode(stereo.InterpolationPoints))
	pts.AddVertexXYZ(1.5, 1.5, 0.5, stereo.Blue)
	pts.AddVertexXYZ(8.2, 3.9, 0.5, stereo.Yellow)
	pts.AddVertexXYZ(50, 50, 0.5, stereo.Red) // off screen

	drawShape(t, dev, rt, newScreenProgram(t, 10, 10), pts)

	s := rt.Handle().(*Surface)
	if s.Pixel(1, 1) != stereo.Blue || s.Pixel(8, 3) != stereo.Yellow {
		t.Errorf("points = %v, %v", s.Pixel(1, 1), s.Pixel(8, 3))
	}
	if got := dev.Stats().PixelsWritten; got != 2 {
		t.Errorf("PixelsWritten = %d, want 2", got)
	}
}

func TestDraw_EyeTransform(t *testing.T) {
	dev := NewDevice()
	rt := stereo.MustNewRenderTarget(dev, 40, 10, stereo.ScreenTop, stereo.WithEye(stereo.EyeRight))
	sq := stereo.NewShape(dev)
	sq.AddVertexXYZ(0, 0, 0.5, stereo.Red)
	sq.AddVertexXYZ(10, 0, 0.5, stereo.Red)
	sq.AddVertexXYZ(10, 10, 0.5, stereo.Red)
	sq.AddVertexXYZ(0, 10, 0.5, stereo.Red)

	prog := newScreenProgram(t, 40, 10)
	_ = prog.SetMatrix(stereo.DefaultUniforms.Transform, stereo.Translate(20, 0, 0))
	_ = prog.SetBool(stereo.DefaultUniforms.UseTransform, true)
	drawShape(t, dev, rt, prog, sq)

	s := rt.Handle().(*Surface)
	if s.Pixel(5, 5) != stereo.Black || s.Pixel(25, 5) != stereo.Red {
		t.Errorf("transform not applied: (5,5)=%v (25,5)=%v", s.Pixel(5, 5), s.Pixel(25, 5))
	}
}

func TestDraw_DepthOutsideRangeDiscarded(t *testing.T) {
	dev := NewDevice()
	rt := stereo.MustNewRenderTarget(dev, 10, 10, stereo.ScreenBottom)
	tri := stereo.NewShape(dev)
	tri.AddVertexXYZ(0, 0, 2, stereo.Red)
	tri.AddVertexXYZ(10, 0, 2, stereo.Red)
	tri.AddVertexXYZ(0, 10, 2, stereo.Red)

	drawShape(t, dev, rt, newScreenProgram(t, 10, 10), tri)
	if got := dev.Stats().PixelsWritten; got != 0 {
		t.Errorf("PixelsWritten = %d, want 0", got)
	}
}

func TestDraw_AlphaBlend(t *testing.T) {
	dev := NewDevice()
	rt := stereo.MustNewRenderTarget(dev, 4, 4, stereo.ScreenBottom, stereo.WithClearColor(stereo.White))
	q := stereo.NewShape(dev)
	half := stereo.RGBA8(0, 0, 0, 128)
	q.AddVertexXYZ(0, 0, 0.5, half)
	q.AddVertexXYZ(4, 0, 0.5, half)
	q.AddVertexXYZ(4, 4, 0.5, half)
	q.AddVertexXYZ(0, 4, 0.5, half)

	drawShape(t, dev, rt, newScreenProgram(t, 4, 4), q)

	got := rt.Handle().(*Surface).Pixel(1, 1)
	if got.A() != 255 || got.R() < 120 || got.R() > 135 {
		t.Errorf("blended pixel = %v, want ~#7F7F7FFF", got)
	}
}

func TestWriteBuffer_Errors(t *testing.T) {
	dev := NewDevice()
	buf, _ := dev.CreateBuffer("b", 8, gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)

	if err := dev.WriteBuffer(buf, 4, make([]byte, 8)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("overflow write = %v, want ErrOutOfRange", err)
	}
	other, _ := NewDevice().CreateBuffer("x", 4, gputypes.BufferUsageVertex)
	if err := dev.WriteBuffer(other, 0, []byte{1}); !errors.Is(err, ErrForeignHandle) {
		t.Errorf("foreign write = %v, want ErrForeignHandle", err)
	}
	dev.DestroyBuffer(buf)
	dev.DestroyBuffer(buf)
	if err := dev.WriteBuffer(buf, 0, []byte{1}); !errors.Is(err, ErrBufferDestroyed) {
		t.Errorf("write after destroy = %v, want ErrBufferDestroyed", err)
	}
	st := dev.Stats()
	if st.BuffersCreated != 1 || st.BuffersDestroyed != 1 {
		t.Errorf("stats = %+v", st)
	}
}

func TestPass_Errors(t *testing.T) {
	dev := NewDevice()
	rt := stereo.MustNewRenderTarget(dev, 8, 8, stereo.ScreenBottom)
	vb, _ := dev.CreateBuffer("v", stereo.VertexStride*3, gputypes.BufferUsageVertex)
	ib, _ := dev.CreateBuffer("i", 8, gputypes.BufferUsageIndex)
	_ = dev.WriteBuffer(ib, 0, stereo.PackIndices([]uint16{0, 1, 5}, nil))

	pass, _ := dev.BeginPass(rt.Handle(), stereo.NewProgram())
	call := stereo.DrawCall{
		Topology:     gputypes.PrimitiveTopologyTriangleList,
		VertexBuffer: vb,
		IndexBuffer:  ib,
		IndexCount:   3,
	}
	if err := pass.Draw(call); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("index past vertex buffer = %v, want ErrOutOfRange", err)
	}

	swapped := call
	swapped.VertexBuffer, swapped.IndexBuffer = ib, vb
	if err := pass.Draw(swapped); !errors.Is(err, ErrInvalidUsage) {
		t.Errorf("swapped buffers = %v, want ErrInvalidUsage", err)
	}

	strip := call
	_ = dev.WriteBuffer(ib, 0, stereo.PackIndices([]uint16{0, 1, 2}, nil))
	strip.Topology = gputypes.PrimitiveTopologyTriangleStrip
	if err := pass.Draw(strip); !errors.Is(err, ErrUnsupportedTopology) {
		t.Errorf("strip topology = %v, want ErrUnsupportedTopology", err)
	}

	_ = pass.End()
	if err := pass.Draw(call); !errors.Is(err, ErrPassEnded) {
		t.Errorf("draw after End = %v, want ErrPassEnded", err)
	}
}

func TestPresent(t *testing.T) {
	var got []*Surface
	dev := NewDevice(WithPresentFunc(func(s []*Surface) error {
		got = s
		return nil
	}))
	top := stereo.MustNewRenderTarget(dev, 400, 240, stereo.ScreenTop)
	stereo.MustNewRenderTarget(dev, 320, 240, stereo.ScreenBottom)
	top.Destroy()

	if err := dev.Present(); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Screen() != stereo.ScreenBottom {
		t.Errorf("presented %d surfaces", len(got))
	}
	if dev.Surface(stereo.ScreenTop, stereo.EyeLeft) != nil {
		t.Error("destroyed surface still listed")
	}
	if dev.Stats().Presents != 1 {
		t.Errorf("Presents = %d", dev.Stats().Presents)
	}
}

func TestSurface_SavePNG(t *testing.T) {
	s := NewSurface(4, 4, stereo.ScreenBottom, stereo.EyeLeft)
	s.Clear(stereo.Cyan)
	path := filepath.Join(t.TempDir(), "s.png")
	if err := s.SavePNG(path); err != nil {
		t.Fatalf("SavePNG() = %v", err)
	}
	if img := s.Image(); img.NRGBAAt(3, 3).G != 255 || img.NRGBAAt(3, 3).R != 0 {
		t.Errorf("Image() pixel = %v", img.NRGBAAt(3, 3))
	}
}
